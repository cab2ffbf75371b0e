package insts

import (
	"fmt"
	"strings"
)

// Opcode is the raw selector driven onto the ALU's opcode lines.
type Opcode uint8

// OpcodeMask selects the five opcode lines. Bits above them are not wired.
const OpcodeMask Opcode = 0x1F

// NumOpcodes is the number of distinct selector values.
const NumOpcodes = 32

// Op is the operation an opcode selects.
type Op uint8

// ALU operations.
const (
	OpPASS Op = iota
	OpADD
	OpSUB
	OpMUL
	OpDIV
	OpINCR
	OpDECR
	OpGT
	OpGE
	OpLT
	OpLE
	OpEQ
	OpNE
	OpMAC
	OpAND
	OpOR
	OpXNOR
	OpNOT
	OpSHR
	OpSHL
	OpROR
	OpROL
)

// Band groups operations by functional unit.
type Band uint8

// Operation bands.
const (
	BandPassThrough Band = iota
	BandArithmetic
	BandCompare
	BandLogic
	BandShift
)

// decodeTable maps every opcode to its operation. Unassigned codes are
// listed explicitly so the gaps are visible.
var decodeTable = [NumOpcodes]Op{
	0x00: OpADD,
	0x01: OpSUB,
	0x02: OpMUL,
	0x03: OpDIV,
	0x04: OpINCR,
	0x05: OpDECR,
	0x06: OpGT,
	0x07: OpGE,
	0x08: OpLT,
	0x09: OpLE,
	0x0A: OpEQ,
	0x0B: OpNE,
	0x0C: OpMAC,
	0x0D: OpPASS,
	0x0E: OpPASS,
	0x0F: OpPASS,
	0x10: OpAND,
	0x11: OpOR,
	0x12: OpXNOR,
	0x13: OpNOT,
	0x14: OpSHR,
	0x15: OpSHL,
	0x16: OpROR,
	0x17: OpROL,
	0x18: OpPASS,
	0x19: OpPASS,
	0x1A: OpPASS,
	0x1B: OpPASS,
	0x1C: OpPASS,
	0x1D: OpPASS,
	0x1E: OpPASS,
	0x1F: OpPASS,
}

type opInfo struct {
	mnemonic string
	code     Opcode
	band     Band
	unary    bool
}

var opInfos = map[Op]opInfo{
	OpPASS: {"PASS", 0x1F, BandPassThrough, true},
	OpADD:  {"ADD", 0x00, BandArithmetic, false},
	OpSUB:  {"SUB", 0x01, BandArithmetic, false},
	OpMUL:  {"MUL", 0x02, BandArithmetic, false},
	OpDIV:  {"DIV", 0x03, BandArithmetic, false},
	OpINCR: {"INCR", 0x04, BandArithmetic, true},
	OpDECR: {"DECR", 0x05, BandArithmetic, true},
	OpGT:   {"GT", 0x06, BandCompare, false},
	OpGE:   {"GE", 0x07, BandCompare, false},
	OpLT:   {"LT", 0x08, BandCompare, false},
	OpLE:   {"LE", 0x09, BandCompare, false},
	OpEQ:   {"EQ", 0x0A, BandCompare, false},
	OpNE:   {"NE", 0x0B, BandCompare, false},
	OpMAC:  {"MAC", 0x0C, BandArithmetic, false},
	OpAND:  {"AND", 0x10, BandLogic, false},
	OpOR:   {"OR", 0x11, BandLogic, false},
	OpXNOR: {"XNOR", 0x12, BandLogic, false},
	OpNOT:  {"NOT", 0x13, BandLogic, true},
	OpSHR:  {"SHR", 0x14, BandShift, true},
	OpSHL:  {"SHL", 0x15, BandShift, true},
	OpROR:  {"ROR", 0x16, BandShift, true},
	OpROL:  {"ROL", 0x17, BandShift, true},
}

// Decode returns the operation selected by code. Only the low five bits of
// code are significant.
func Decode(code Opcode) Op {
	return decodeTable[code&OpcodeMask]
}

// Assigned reports whether code selects an operation other than the
// pass-through fallback.
func (c Opcode) Assigned() bool {
	return Decode(c) != OpPASS
}

// Op returns the operation this opcode selects.
func (c Opcode) Op() Op {
	return Decode(c)
}

// String renders the opcode as a two-digit hex literal.
func (c Opcode) String() string {
	return fmt.Sprintf("0x%02X", uint8(c))
}

// String returns the operation mnemonic.
func (o Op) String() string {
	if info, ok := opInfos[o]; ok {
		return info.mnemonic
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Code returns the canonical opcode for the operation. OpPASS reports the
// highest unassigned code.
func (o Op) Code() Opcode {
	return opInfos[o].code
}

// Band returns the functional band the operation belongs to.
func (o Op) Band() Band {
	return opInfos[o].band
}

// Unary reports whether the operation ignores operand B.
func (o Op) Unary() bool {
	return opInfos[o].unary
}

// UsesCarryIn reports whether the operation reads the carry input.
func (o Op) UsesCarryIn() bool {
	return o == OpADD || o == OpMAC
}

// ParseOp looks up an operation by mnemonic, case-insensitively.
func ParseOp(mnemonic string) (Op, bool) {
	m := strings.ToUpper(mnemonic)
	for op, info := range opInfos {
		if info.mnemonic == m {
			return op, true
		}
	}
	return OpPASS, false
}

// String returns the band name.
func (b Band) String() string {
	switch b {
	case BandPassThrough:
		return "pass-through"
	case BandArithmetic:
		return "arithmetic"
	case BandCompare:
		return "compare"
	case BandLogic:
		return "logic"
	case BandShift:
		return "shift"
	default:
		return fmt.Sprintf("Band(%d)", uint8(b))
	}
}

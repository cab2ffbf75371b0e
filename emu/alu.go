package emu

import (
	"fmt"

	"github.com/sarchlab/alu8/insts"
)

// Inputs is the signal set driven into the ALU each cycle.
type Inputs struct {
	A       uint8
	B       uint8
	CarryIn bool
	Code    insts.Opcode
}

// Op returns the operation selected by the opcode lines.
func (in Inputs) Op() insts.Op {
	return insts.Decode(in.Code)
}

// String formats the inputs for traces.
func (in Inputs) String() string {
	cin := 0
	if in.CarryIn {
		cin = 1
	}
	return fmt.Sprintf("%-4s A=0x%02X B=0x%02X cin=%d", in.Op(), in.A, in.B, cin)
}

// Output is the combinational result of one evaluation.
type Output struct {
	Result uint8
	Flags  Flags
}

// DivideByZero reports whether the output of op signals a division by zero.
// Only DIV uses the overflow flag this way.
func (o Output) DivideByZero(op insts.Op) bool {
	return op == insts.OpDIV && o.Flags.V
}

// String formats the output for traces.
func (o Output) String() string {
	return fmt.Sprintf("R=0x%02X %s", o.Result, o.Flags)
}

// ALU implements the 8-bit arithmetic and logic operations. It holds no
// state; one ALU may be shared by any number of goroutines.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Evaluate computes the result and flags for the given inputs.
func (a *ALU) Evaluate(in Inputs) Output {
	return Evaluate(in.A, in.B, in.CarryIn, in.Code)
}

// Evaluate computes the result and flags of the operation selected by code.
// It is a pure function of its arguments.
func Evaluate(a, b uint8, carryIn bool, code insts.Opcode) Output {
	var out Output

	switch insts.Decode(code) {
	case insts.OpADD:
		out = add8(a, b, carryIn)
	case insts.OpSUB:
		out = sub8(a, b)
	case insts.OpMUL:
		out = mul8(a, b, false)
	case insts.OpDIV:
		out = div8(a, b)
	case insts.OpINCR:
		out = incr8(a)
	case insts.OpDECR:
		out = decr8(a)
	case insts.OpGT:
		out.Result = boolToU8(a > b)
	case insts.OpGE:
		out.Result = boolToU8(a >= b)
	case insts.OpLT:
		out.Result = boolToU8(a < b)
	case insts.OpLE:
		out.Result = boolToU8(a <= b)
	case insts.OpEQ:
		out.Result = boolToU8(a == b)
	case insts.OpNE:
		out.Result = boolToU8(a != b)
	case insts.OpMAC:
		out = mul8(a, b, carryIn)
	case insts.OpAND:
		out.Result = a & b
	case insts.OpOR:
		out.Result = a | b
	case insts.OpXNOR:
		out.Result = ^(a ^ b)
	case insts.OpNOT:
		out.Result = ^a
	case insts.OpSHR:
		out.Result = a >> 1
		out.Flags.C = a&0x01 != 0
	case insts.OpSHL:
		out.Result = a << 1
		out.Flags.C = a&0x80 != 0
	case insts.OpROR:
		out.Result = a>>1 | a<<7
		out.Flags.C = a&0x01 != 0
	case insts.OpROL:
		out.Result = a<<1 | a>>7
		out.Flags.C = a&0x80 != 0
	default:
		out.Result = a
	}

	setResultFlags(&out)

	return out
}

// add8 computes A + B + cin through a 9-bit sum.
func add8(a, b uint8, carryIn bool) Output {
	sum := uint16(a) + uint16(b) + uint16(boolToU8(carryIn))
	result := uint8(sum & 0xFF)

	// V: Set if both operands have the same sign and the result differs
	op1Sign := a >> 7
	op2Sign := b >> 7
	resultSign := result >> 7

	return Output{
		Result: result,
		Flags: Flags{
			C: sum>>8&1 == 1,
			V: op1Sign == op2Sign && op1Sign != resultSign,
		},
	}
}

// sub8 computes A - B as a 9-bit unsigned difference.
func sub8(a, b uint8) Output {
	diff := (uint16(a) - uint16(b)) & 0x1FF
	result := uint8(diff & 0xFF)

	// V: Set if the operand signs differ and the result takes the sign of
	// the subtrahend
	op1Sign := a >> 7
	op2Sign := b >> 7
	resultSign := result >> 7

	return Output{
		Result: result,
		Flags: Flags{
			// C: Set if NO borrow occurred
			C: diff>>8&1 == 0,
			V: op1Sign != op2Sign && op2Sign == resultSign,
		},
	}
}

// mul8 computes A * B (+ cin for MAC) through a 16-bit product.
func mul8(a, b uint8, carryIn bool) Output {
	product := uint16(a)*uint16(b) + uint16(boolToU8(carryIn))

	return Output{
		Result: uint8(product & 0xFF),
		Flags:  Flags{C: product>>8 != 0},
	}
}

// div8 computes the truncating quotient A / B. Division by zero yields 0
// and raises V.
func div8(a, b uint8) Output {
	if b == 0 {
		return Output{Flags: Flags{V: true}}
	}
	return Output{Result: a / b}
}

func incr8(a uint8) Output {
	sum := uint16(a) + 1
	return Output{
		Result: uint8(sum & 0xFF),
		Flags:  Flags{C: sum>>8&1 == 1},
	}
}

func decr8(a uint8) Output {
	diff := (uint16(a) - 1) & 0x1FF
	return Output{
		Result: uint8(diff & 0xFF),
		Flags:  Flags{C: diff>>8&1 == 0},
	}
}

// setResultFlags derives Z and N from the final result.
func setResultFlags(out *Output) {
	out.Flags.Z = out.Result == 0
	out.Flags.N = out.Result>>7 == 1
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

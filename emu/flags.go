// Package emu provides the functional model of the 8-bit ALU.
package emu

// Flags holds the ALU status flags.
type Flags struct {
	// N is the negative flag (bit 7 of the result).
	N bool
	// Z is the zero flag.
	Z bool
	// C is the carry flag. Its meaning depends on the operation: carry-out
	// for ADD/INCR, no-borrow for SUB/DECR, high byte non-zero for MUL/MAC,
	// and the bit shifted out for shifts and rotates.
	C bool
	// V is the overflow flag. For DIV it signals division by zero instead of
	// signed overflow.
	V bool
}

// Flag bit positions in the packed NZCV nibble.
const (
	FlagV uint8 = 1 << iota
	FlagC
	FlagZ
	FlagN
)

// Pack returns the flags as an NZCV nibble, N in bit 3.
func (f Flags) Pack() uint8 {
	var nzcv uint8
	if f.N {
		nzcv |= FlagN
	}
	if f.Z {
		nzcv |= FlagZ
	}
	if f.C {
		nzcv |= FlagC
	}
	if f.V {
		nzcv |= FlagV
	}
	return nzcv
}

// UnpackFlags is the inverse of Pack.
func UnpackFlags(nzcv uint8) Flags {
	return Flags{
		N: nzcv&FlagN != 0,
		Z: nzcv&FlagZ != 0,
		C: nzcv&FlagC != 0,
		V: nzcv&FlagV != 0,
	}
}

// String renders set flags in upper case and clear flags in lower case,
// e.g. "nZCv".
func (f Flags) String() string {
	b := []byte("nzcv")
	if f.N {
		b[0] = 'N'
	}
	if f.Z {
		b[1] = 'Z'
	}
	if f.C {
		b[2] = 'C'
	}
	if f.V {
		b[3] = 'V'
	}
	return string(b)
}

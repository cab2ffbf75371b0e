// Package insts provides the ALU operation set and opcode decoding.
//
// The ALU is driven by a 5-bit opcode. Every one of the 32 codes decodes to
// exactly one operation; codes without an assigned operation decode to
// OpPASS, which returns operand A unchanged. The operations fall into four
// bands:
//   - Arithmetic: ADD, SUB, MUL, DIV, INCR, DECR, MAC
//   - Comparison: GT, GE, LT, LE, EQ, NE (interleaved with arithmetic)
//   - Logic: AND, OR, XNOR, NOT
//   - Shift/rotate: SHR, SHL, ROR, ROL
//
// Usage:
//
//	op := insts.Decode(0x01) // OpSUB
//	fmt.Printf("Op: %v, Band: %v\n", op, op.Band())
package insts

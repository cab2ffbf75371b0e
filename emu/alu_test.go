package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/alu8/emu"
	"github.com/sarchlab/alu8/insts"
)

func eval(op insts.Op, a, b uint8, carryIn bool) emu.Output {
	return emu.Evaluate(a, b, carryIn, op.Code())
}

var _ = Describe("ALU", func() {
	var alu *emu.ALU

	BeforeEach(func() {
		alu = emu.NewALU()
	})

	Describe("Concrete scenarios", func() {
		It("should AND 0x0F with 0xF0 to zero", func() {
			out := alu.Evaluate(emu.Inputs{A: 0x0F, B: 0xF0, Code: insts.OpAND.Code()})

			Expect(out.Result).To(Equal(uint8(0x00)))
			Expect(out.Flags.Z).To(BeTrue())
			Expect(out.Flags.N).To(BeFalse())
		})

		It("should SUB 0x80 - 0x01 with overflow and no borrow", func() {
			out := alu.Evaluate(emu.Inputs{A: 0x80, B: 0x01, Code: insts.OpSUB.Code()})

			Expect(out.Result).To(Equal(uint8(0x7F)))
			Expect(out.Flags.C).To(BeTrue())
			Expect(out.Flags.V).To(BeTrue())
			Expect(out.Flags.N).To(BeFalse())
			Expect(out.Flags.Z).To(BeFalse())
		})

		It("should SHL 0x01 without carry", func() {
			out := eval(insts.OpSHL, 0x01, 0, false)

			Expect(out.Result).To(Equal(uint8(0x02)))
			Expect(out.Flags.C).To(BeFalse())
		})

		It("should SHL 0x80 to zero with carry", func() {
			out := eval(insts.OpSHL, 0x80, 0, false)

			Expect(out.Result).To(Equal(uint8(0x00)))
			Expect(out.Flags.C).To(BeTrue())
			Expect(out.Flags.Z).To(BeTrue())
		})

		It("should DIV by zero to zero with overflow", func() {
			out := eval(insts.OpDIV, 5, 0, false)

			Expect(out.Result).To(Equal(uint8(0)))
			Expect(out.Flags.V).To(BeTrue())
			Expect(out.Flags.Z).To(BeTrue())
			Expect(out.DivideByZero(insts.OpDIV)).To(BeTrue())
		})
	})

	DescribeTable("Operation table",
		func(op insts.Op, a, b uint8, carryIn bool, result uint8, flags emu.Flags) {
			out := eval(op, a, b, carryIn)
			Expect(out.Result).To(Equal(result))
			Expect(out.Flags).To(Equal(flags))
		},
		Entry("ADD simple", insts.OpADD, uint8(2), uint8(3), false, uint8(5), emu.Flags{}),
		Entry("ADD with carry-in", insts.OpADD, uint8(2), uint8(3), true, uint8(6), emu.Flags{}),
		Entry("ADD carry out", insts.OpADD, uint8(0xFF), uint8(0x01), false, uint8(0x00),
			emu.Flags{Z: true, C: true}),
		Entry("ADD positive overflow", insts.OpADD, uint8(0x7F), uint8(0x01), false, uint8(0x80),
			emu.Flags{N: true, V: true}),
		Entry("ADD negative overflow", insts.OpADD, uint8(0x80), uint8(0x80), false, uint8(0x00),
			emu.Flags{Z: true, C: true, V: true}),
		Entry("SUB borrow", insts.OpSUB, uint8(0), uint8(1), false, uint8(0xFF),
			emu.Flags{N: true}),
		Entry("SUB equal", insts.OpSUB, uint8(5), uint8(5), false, uint8(0),
			emu.Flags{Z: true, C: true}),
		Entry("SUB ignores carry-in", insts.OpSUB, uint8(9), uint8(4), true, uint8(5),
			emu.Flags{C: true}),
		Entry("MUL fits", insts.OpMUL, uint8(15), uint8(17), false, uint8(255),
			emu.Flags{N: true}),
		Entry("MUL overflows high byte", insts.OpMUL, uint8(16), uint8(16), false, uint8(0),
			emu.Flags{Z: true, C: true}),
		Entry("DIV truncates", insts.OpDIV, uint8(7), uint8(2), false, uint8(3), emu.Flags{}),
		Entry("INCR wraps", insts.OpINCR, uint8(0xFF), uint8(0x12), false, uint8(0),
			emu.Flags{Z: true, C: true}),
		Entry("INCR", insts.OpINCR, uint8(0x7F), uint8(0), false, uint8(0x80),
			emu.Flags{N: true}),
		Entry("DECR borrow", insts.OpDECR, uint8(0), uint8(0), false, uint8(0xFF),
			emu.Flags{N: true}),
		Entry("DECR", insts.OpDECR, uint8(1), uint8(0), false, uint8(0),
			emu.Flags{Z: true, C: true}),
		Entry("GT true", insts.OpGT, uint8(0x80), uint8(0x7F), false, uint8(1), emu.Flags{}),
		Entry("GT false", insts.OpGT, uint8(3), uint8(3), false, uint8(0), emu.Flags{Z: true}),
		Entry("GE equal", insts.OpGE, uint8(3), uint8(3), false, uint8(1), emu.Flags{}),
		Entry("LT unsigned", insts.OpLT, uint8(0x01), uint8(0xFF), false, uint8(1), emu.Flags{}),
		Entry("LE false", insts.OpLE, uint8(4), uint8(3), false, uint8(0), emu.Flags{Z: true}),
		Entry("EQ", insts.OpEQ, uint8(9), uint8(9), false, uint8(1), emu.Flags{}),
		Entry("NE", insts.OpNE, uint8(9), uint8(9), false, uint8(0), emu.Flags{Z: true}),
		Entry("MAC with carry-in", insts.OpMAC, uint8(15), uint8(17), true, uint8(0),
			emu.Flags{Z: true, C: true}),
		Entry("MAC", insts.OpMAC, uint8(3), uint8(4), true, uint8(13), emu.Flags{}),
		Entry("OR", insts.OpOR, uint8(0x0F), uint8(0xF0), false, uint8(0xFF), emu.Flags{N: true}),
		Entry("XNOR", insts.OpXNOR, uint8(0xAA), uint8(0x55), false, uint8(0x00), emu.Flags{Z: true}),
		Entry("XNOR equal", insts.OpXNOR, uint8(0x3C), uint8(0x3C), false, uint8(0xFF),
			emu.Flags{N: true}),
		Entry("NOT ignores B", insts.OpNOT, uint8(0x0F), uint8(0xFF), false, uint8(0xF0),
			emu.Flags{N: true}),
		Entry("SHR", insts.OpSHR, uint8(0x81), uint8(0), false, uint8(0x40), emu.Flags{C: true}),
		Entry("SHR no carry", insts.OpSHR, uint8(0x80), uint8(0), false, uint8(0x40), emu.Flags{}),
		Entry("ROR", insts.OpROR, uint8(0x01), uint8(0), false, uint8(0x80),
			emu.Flags{N: true, C: true}),
		Entry("ROL", insts.OpROL, uint8(0x80), uint8(0), false, uint8(0x01), emu.Flags{C: true}),
		Entry("ROL no carry", insts.OpROL, uint8(0x40), uint8(0), false, uint8(0x80),
			emu.Flags{N: true}),
	)

	Describe("Pass-through", func() {
		It("should return A for every unassigned opcode", func() {
			for code := insts.Opcode(0); code < insts.NumOpcodes; code++ {
				if code.Assigned() {
					continue
				}
				out := emu.Evaluate(0x85, 0x33, true, code)
				Expect(out.Result).To(Equal(uint8(0x85)), "opcode %v", code)
				Expect(out.Flags).To(Equal(emu.Flags{N: true}), "opcode %v", code)
			}
		})

		It("should report zero when A is zero", func() {
			out := emu.Evaluate(0, 0xFF, true, 0x1D)
			Expect(out.Result).To(Equal(uint8(0)))
			Expect(out.Flags).To(Equal(emu.Flags{Z: true}))
		})
	})

	Describe("Exhaustive properties", func() {
		It("should derive ADD carry from bit 8 of the 9-bit sum", func() {
			for a := 0; a < 256; a++ {
				for b := 0; b < 256; b++ {
					for _, cin := range []bool{false, true} {
						sum := a + b
						if cin {
							sum++
						}
						out := eval(insts.OpADD, uint8(a), uint8(b), cin)
						Expect(out.Result).To(Equal(uint8(sum & 0xFF)))
						Expect(out.Flags.C).To(Equal(sum >= 256))
					}
				}
			}
		})

		It("should flag ADD signed overflow exactly when the signed sum leaves range", func() {
			for a := 0; a < 256; a++ {
				for b := 0; b < 256; b++ {
					sum := int(int8(uint8(a))) + int(int8(uint8(b)))
					out := eval(insts.OpADD, uint8(a), uint8(b), false)
					Expect(out.Flags.V).To(Equal(sum < -128 || sum > 127))
				}
			}
		})

		It("should set SUB carry when no borrow occurs", func() {
			for a := 0; a < 256; a++ {
				for b := 0; b < 256; b++ {
					out := eval(insts.OpSUB, uint8(a), uint8(b), false)
					diff := int(int8(uint8(a))) - int(int8(uint8(b)))
					Expect(out.Result).To(Equal(uint8(a - b)))
					Expect(out.Flags.C).To(Equal(a >= b))
					Expect(out.Flags.V).To(Equal(diff < -128 || diff > 127))
				}
			}
		})

		It("should divide and flag division by zero", func() {
			for a := 0; a < 256; a++ {
				out := eval(insts.OpDIV, uint8(a), 0, false)
				Expect(out.Result).To(Equal(uint8(0)))
				Expect(out.Flags.V).To(BeTrue())
				Expect(out.Flags.C).To(BeFalse())

				for b := 1; b < 256; b++ {
					out := eval(insts.OpDIV, uint8(a), uint8(b), false)
					Expect(out.Result).To(Equal(uint8(a / b)))
					Expect(out.Flags.V).To(BeFalse())
				}
			}
		})

		It("should multiply and accumulate with high-byte carry", func() {
			for a := 0; a < 256; a++ {
				for b := 0; b < 256; b++ {
					product := a * b
					out := eval(insts.OpMUL, uint8(a), uint8(b), true)
					Expect(out.Result).To(Equal(uint8(product & 0xFF)))
					Expect(out.Flags.C).To(Equal(product >= 256))
					Expect(out.Flags.V).To(BeFalse())

					out = eval(insts.OpMAC, uint8(a), uint8(b), true)
					Expect(out.Result).To(Equal(uint8((product + 1) & 0xFF)))
					Expect(out.Flags.C).To(Equal(product+1 >= 256))
				}
			}
		})

		It("should derive Z and N from the result for every opcode", func() {
			for code := insts.Opcode(0); code < insts.NumOpcodes; code++ {
				for a := 0; a < 256; a += 3 {
					for b := 0; b < 256; b += 5 {
						out := emu.Evaluate(uint8(a), uint8(b), a&1 == 1, code)
						Expect(out.Flags.Z).To(Equal(out.Result == 0))
						Expect(out.Flags.N).To(Equal(out.Result&0x80 != 0))
					}
				}
			}
		})

		It("should capture the shifted-out bit as carry", func() {
			for a := 0; a < 256; a++ {
				v := uint8(a)
				Expect(eval(insts.OpSHR, v, 0, false).Flags.C).To(Equal(v&1 == 1))
				Expect(eval(insts.OpROR, v, 0, false).Flags.C).To(Equal(v&1 == 1))
				Expect(eval(insts.OpSHL, v, 0, false).Flags.C).To(Equal(v&0x80 != 0))
				Expect(eval(insts.OpROL, v, 0, false).Flags.C).To(Equal(v&0x80 != 0))

				rol := eval(insts.OpROL, v, 0, false).Result
				Expect(eval(insts.OpROR, rol, 0, false).Result).To(Equal(v))
			}
		})

		It("should be idempotent", func() {
			for code := insts.Opcode(0); code < insts.NumOpcodes; code++ {
				first := emu.Evaluate(0xC3, 0x5A, true, code)
				second := emu.Evaluate(0xC3, 0x5A, true, code)
				Expect(second).To(Equal(first))
			}
		})
	})

	Describe("Divide-by-zero reporting", func() {
		It("should only apply to DIV", func() {
			out := eval(insts.OpADD, 0x7F, 0x01, false)
			Expect(out.Flags.V).To(BeTrue())
			Expect(out.DivideByZero(insts.OpADD)).To(BeFalse())
		})
	})

	Describe("Inputs", func() {
		It("should decode its opcode", func() {
			in := emu.Inputs{A: 1, B: 2, Code: 0x12}
			Expect(in.Op()).To(Equal(insts.OpXNOR))
			Expect(in.String()).To(Equal("XNOR A=0x01 B=0x02 cin=0"))
		})
	})
})

package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo/core"
)

var _ = Describe("ARF", func() {
	It("starts every register at zero", func() {
		arf := core.NewARF()
		Expect(arf.Get("R5")).To(Equal(0.0))
		Expect(arf.Get("F5")).To(Equal(0.0))
	})

	It("keeps integer and floating-point register files independent", func() {
		arf := core.NewARF()
		arf.Set("R1", 42)
		arf.Set("F1", 3.5)
		Expect(arf.Get("R1")).To(Equal(42.0))
		Expect(arf.Get("F1")).To(Equal(3.5))
	})

	It("does not special-case R0", func() {
		arf := core.NewARF()
		arf.Set("R0", 7)
		Expect(arf.Get("R0")).To(Equal(7.0))
	})

	It("classifies register names by their prefix", func() {
		Expect(core.IsFloatReg("F3")).To(BeTrue())
		Expect(core.IsFloatReg("R3")).To(BeFalse())
	})

	It("enumerates register names in index order", func() {
		names := core.IntRegNames()
		Expect(names[0]).To(Equal("R0"))
		Expect(names[31]).To(Equal("R31"))
		Expect(core.FPRegNames()[0]).To(Equal("F0"))
	})
})

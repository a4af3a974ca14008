package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo/core"
	"github.com/sarchlab/tomasulo/insts"
)

var _ = Describe("Engine", func() {
	It("drives the orchestrator to completion on top of the akita serial engine", func() {
		program := []insts.Raw{
			{Op: insts.ADDI, Dest: "R1", Src1: insts.RegOperand("R0"), Src2: insts.ImmOperand(5)},
			{Op: insts.ADD, Dest: "R2", Src1: insts.RegOperand("R1"), Src2: insts.RegOperand("R1")},
		}
		o := newOrchestrator(nil, program, nil, nil)
		e := core.NewEngine("Test.Pipeline", o, 1000)
		e.Run()

		Expect(o.Done()).To(BeTrue())
		Expect(o.ARF().Get("R1")).To(Equal(5.0))
		Expect(o.ARF().Get("R2")).To(Equal(10.0))
		Expect(e.Orchestrator()).To(BeIdenticalTo(o))
	})

	It("panics once the cycle ceiling is exceeded on a non-terminating program", func() {
		program := []insts.Raw{
			{Op: insts.BEQ, Src1: insts.RegOperand("R0"), Src2: insts.RegOperand("R0"), BranchOffset: 0},
		}
		o := newOrchestrator(nil, program, nil, nil)
		e := core.NewEngine("Test.Pipeline.Ceiling", o, 20)

		Expect(e.Run).To(Panic())
	})
})

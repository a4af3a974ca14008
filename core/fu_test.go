package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo/core"
	"github.com/sarchlab/tomasulo/insts"
)

var _ = Describe("FunctionalUnit", func() {
	It("produces no result before its latency elapses", func() {
		fu := core.NewFunctionalUnit(3)
		fu.Execute(1, insts.ADD, 2, 3)
		fu.AdvanceTime()
		fu.AdvanceTime()
		Expect(fu.IsResultReady()).To(BeFalse())
	})

	It("computes an integer ADD after its latency elapses", func() {
		fu := core.NewFunctionalUnit(2)
		fu.Execute(1, insts.ADD, 2, 3)
		fu.AdvanceTime()
		fu.AdvanceTime()
		Expect(fu.IsResultReady()).To(BeTrue())
		id, value := fu.GetResult()
		Expect(id).To(Equal(uint64(1)))
		Expect(value).To(Equal(5.0))
		Expect(fu.Busy()).To(BeFalse())
	})

	It("computes a floating-point MULT.D", func() {
		fu := core.NewFunctionalUnit(1)
		fu.Execute(1, insts.MULTD, 2.5, 4)
		fu.AdvanceTime()
		_, value := fu.GetResult()
		Expect(value).To(Equal(10.0))
	})

	It("exposes a branch outcome separately from ordinary results", func() {
		fu := core.NewFunctionalUnit(1)
		fu.Execute(1, insts.BEQ, 7, 7)
		fu.AdvanceTime()
		Expect(fu.IsResultReady()).To(BeFalse())
		Expect(fu.IsBranchOutcomePending()).To(BeTrue())
		_, value := fu.GetResult()
		Expect(value).To(Equal(1.0))
	})

	It("reports a not-equal BNE comparison as zero", func() {
		fu := core.NewFunctionalUnit(1)
		fu.Execute(1, insts.BNE, 7, 7)
		fu.AdvanceTime()
		_, value := fu.GetResult()
		Expect(value).To(Equal(0.0))
	})

	It("frees the unit when purged as squashed speculation", func() {
		fu := core.NewFunctionalUnit(3)
		fu.Execute(5, insts.ADD, 1, 1)
		fu.PurgeAfterMispredict(1)
		Expect(fu.Busy()).To(BeFalse())
	})

	It("leaves an older in-flight instruction untouched by a purge", func() {
		fu := core.NewFunctionalUnit(3)
		fu.Execute(1, insts.ADD, 1, 1)
		fu.PurgeAfterMispredict(5)
		Expect(fu.Busy()).To(BeTrue())
	})
})

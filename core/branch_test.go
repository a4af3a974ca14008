package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo/core"
)

var _ = Describe("BranchUnit", func() {
	It("records and returns the prediction used at Issue", func() {
		b := core.NewBranchUnit(core.NewOneBitPredictor())
		b.RecordPrediction(1, true)
		Expect(b.Predicted(1)).To(BeTrue())
	})

	It("records and returns a misprediction redirect target", func() {
		b := core.NewBranchUnit(core.NewOneBitPredictor())
		b.SetMispredictTarget(1, 7)
		Expect(b.MispredictTarget(1)).To(Equal(7))
	})

	It("rolls back to the exact checkpoint saved at Issue, idempotently", func() {
		b := core.NewBranchUnit(core.NewOneBitPredictor())
		rat := core.NewRAT()
		rat.Set("R1", core.ROBTag(3))
		b.SaveRAT(1, rat.State())

		rat.Set("R1", core.ROBTag(9))

		first := b.RollBack(1)
		second := b.RollBack(1)
		Expect(first).To(Equal(second))

		rat.Restore(first)
		Expect(rat.Get("R1")).To(Equal(core.ROBTag(3)))
	})

	It("forgets a committed branch's bookkeeping", func() {
		b := core.NewBranchUnit(core.NewOneBitPredictor())
		b.RecordPrediction(1, true)
		b.Forget(1)
		Expect(b.Predicted(1)).To(BeFalse())
	})

	It("updates the underlying predictor on every resolution", func() {
		predictor := core.NewOneBitPredictor()
		b := core.NewBranchUnit(predictor)
		b.Update(1, true)
		Expect(predictor.Predict(1)).To(BeTrue())
	})
})

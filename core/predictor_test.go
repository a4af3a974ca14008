package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo/core"
)

var _ = Describe("OneBitPredictor", func() {
	It("predicts not-taken for a branch seen for the first time", func() {
		p := core.NewOneBitPredictor()
		Expect(p.Predict(1)).To(BeFalse())
	})

	It("remembers the actual outcome once updated", func() {
		p := core.NewOneBitPredictor()
		p.Update(1, true)
		Expect(p.Predict(1)).To(BeTrue())
		p.Update(1, false)
		Expect(p.Predict(1)).To(BeFalse())
	})

	It("tracks each branch ID independently", func() {
		p := core.NewOneBitPredictor()
		p.Update(1, true)
		Expect(p.Predict(2)).To(BeFalse())
	})

	It("counts predictions and mispredictions", func() {
		p := core.NewOneBitPredictor()
		p.Predict(1)
		p.Update(1, true) // predicted not-taken, actually taken
		p.Predict(1)
		p.Update(1, true) // predicted taken, actually taken

		stats := p.Stats()
		Expect(stats.Predictions).To(Equal(uint64(2)))
		Expect(stats.Mispredictions).To(Equal(uint64(1)))
		Expect(stats.Accuracy()).To(Equal(0.5))
	})

	It("drops all history and statistics on Reset", func() {
		p := core.NewOneBitPredictor()
		p.Predict(1)
		p.Update(1, true)
		p.Reset()
		Expect(p.Stats()).To(BeZero())
		Expect(p.Predict(1)).To(BeFalse())
	})
})

var _ = Describe("TwoBitPredictor", func() {
	It("starts strongly not-taken", func() {
		p := core.NewTwoBitPredictor()
		Expect(p.Predict(1)).To(BeFalse())
	})

	It("saturates instead of wrapping past its bounds", func() {
		p := core.NewTwoBitPredictor()
		for i := 0; i < 5; i++ {
			p.Update(1, true)
		}
		Expect(p.Predict(1)).To(BeTrue())
		for i := 0; i < 5; i++ {
			p.Update(1, false)
		}
		Expect(p.Predict(1)).To(BeFalse())
	})

	It("requires two consecutive taken updates to flip the prediction", func() {
		p := core.NewTwoBitPredictor()
		p.Update(1, true)
		Expect(p.Predict(1)).To(BeFalse())
		p.Update(1, true)
		Expect(p.Predict(1)).To(BeTrue())
	})
})

package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo/core"
)

var _ = Describe("MemoryPort", func() {
	It("serves one load after the configured latency", func() {
		p := core.NewMemoryPort(2)
		Expect(p.Busy()).To(BeFalse())

		p.Execute(3, 42)
		Expect(p.Busy()).To(BeTrue())
		Expect(p.IsResultReady()).To(BeFalse())

		p.AdvanceTime()
		Expect(p.IsResultReady()).To(BeFalse())
		p.AdvanceTime()
		Expect(p.IsResultReady()).To(BeTrue())

		id, value := p.GetResult()
		Expect(id).To(Equal(uint64(3)))
		Expect(value).To(Equal(42.0))
		Expect(p.Busy()).To(BeFalse())
	})

	It("treats a zero configured latency as one cycle", func() {
		p := core.NewMemoryPort(0)
		p.Execute(0, 1)
		p.AdvanceTime()
		Expect(p.IsResultReady()).To(BeTrue())
	})

	It("drops a squashed in-flight load silently", func() {
		p := core.NewMemoryPort(2)
		p.Execute(7, 1)
		p.PurgeAfterMispredict(5)
		Expect(p.Busy()).To(BeFalse())
	})

	It("keeps a load older than the squashed branch in flight", func() {
		p := core.NewMemoryPort(2)
		p.Execute(3, 1)
		p.PurgeAfterMispredict(5)
		Expect(p.Busy()).To(BeTrue())
	})
})

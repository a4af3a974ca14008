package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo/core"
)

var _ = Describe("Memory", func() {
	It("round-trips integer and floating-point words", func() {
		m := core.NewMemory()
		m.WriteInt(8, 42)
		m.WriteFloat(12, 2.5)

		Expect(m.ReadInt(8)).To(Equal(int64(42)))
		Expect(m.ReadFloat(12)).To(Equal(2.5))
	})

	It("fully overwrites a word's value and display kind on every write", func() {
		m := core.NewMemory()
		m.WriteFloat(8, 2.5)
		m.WriteInt(8, 3)

		words := m.NonZeroWords()
		Expect(words).To(HaveLen(1))
		Expect(words[0].Kind).To(Equal(core.CellInt))
		Expect(words[0].Value).To(Equal(3.0))
	})

	It("infers the display kind of initial data from its fractional part", func() {
		m := core.NewMemory()
		m.InitWord(0, 7)
		m.InitWord(4, 1.25)

		words := m.NonZeroWords()
		Expect(words[0].Kind).To(Equal(core.CellInt))
		Expect(words[1].Kind).To(Equal(core.CellFloat))
	})

	It("lists non-zero words in ascending index order", func() {
		m := core.NewMemory()
		m.WriteInt(40, 1)
		m.WriteInt(4, 2)

		words := m.NonZeroWords()
		Expect(words).To(HaveLen(2))
		Expect(words[0].Index).To(Equal(1))
		Expect(words[1].Index).To(Equal(10))
	})

	It("aborts on an out-of-range byte address", func() {
		m := core.NewMemory()
		Expect(func() { m.ReadInt(int64(core.MemoryBytes)) }).To(Panic())
		Expect(func() { m.WriteInt(-4, 1) }).To(Panic())
	})
})

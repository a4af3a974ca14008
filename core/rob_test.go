package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo/core"
)

var _ = Describe("ROB", func() {
	It("reports full once every slot is occupied", func() {
		rob := core.NewROB(2)
		Expect(rob.IsFull()).To(BeFalse())
		rob.Add(0, "R1", false, false)
		rob.Add(1, "R2", false, false)
		Expect(rob.IsFull()).To(BeTrue())
	})

	It("cannot commit an entry that has not been marked done", func() {
		rob := core.NewROB(4)
		rob.Add(0, "R1", false, false)
		_, ok := rob.CanCommit()
		Expect(ok).To(BeFalse())
	})

	It("commits in program order once the head is done", func() {
		rob := core.NewROB(4)
		rob.Add(0, "R1", false, false)
		rob.Add(1, "R2", false, false)
		rob.FindAndUpdateEntry(1, 99)

		_, ok := rob.CanCommit()
		Expect(ok).To(BeFalse(), "the head entry is still pending even though the tail is done")

		rob.FindAndUpdateEntry(0, 1)
		id, ok := rob.CanCommit()
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(uint64(0)))
	})

	It("purges only speculative entries younger than the mispredicted branch", func() {
		rob := core.NewROB(8)
		rob.Add(0, "R1", false, false)
		rob.Add(1, "", false, true) // the branch itself
		rob.Add(2, "R2", false, false)
		rob.Add(3, "R3", false, false)

		rob.PurgeAfterMispredict(1)

		_, ok := rob.EntryAt(2)
		Expect(ok).To(BeFalse())
		_, ok = rob.EntryAt(3)
		Expect(ok).To(BeFalse())
		e, ok := rob.EntryAt(0)
		Expect(ok).To(BeTrue())
		Expect(e.ID).To(Equal(uint64(0)))
	})

	It("frees a slot for reuse after commit", func() {
		rob := core.NewROB(1)
		rob.Add(0, "R1", false, false)
		rob.FindAndUpdateEntry(0, 5)
		rob.Commit()
		Expect(rob.IsFull()).To(BeFalse())
		Expect(rob.IsEmpty()).To(BeTrue())
	})
})

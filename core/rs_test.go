package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasulo/core"
	"github.com/sarchlab/tomasulo/insts"
)

var _ = Describe("ReservationStation", func() {
	It("reports full once capacity is reached", func() {
		rs := core.NewReservationStation(1)
		rs.Add(core.RSEntry{ID: 0}, 0)
		Expect(rs.IsFull()).To(BeTrue())
	})

	It("excludes an entry admitted this same cycle from ReadyEntries", func() {
		rs := core.NewReservationStation(4)
		rs.Add(core.RSEntry{ID: 0, Src1: core.ResolvedSource(1), Src2: core.ResolvedSource(2)}, 5)
		Expect(rs.ReadyEntries(5)).To(BeEmpty())
		Expect(rs.ReadyEntries(6)).To(HaveLen(1))
	})

	It("excludes an entry with a pending operand from ReadyEntries", func() {
		rs := core.NewReservationStation(4)
		rs.Add(core.RSEntry{ID: 0, Src1: core.PendingSource(core.ROBTag(1)), Src2: core.ResolvedSource(2)}, 0)
		Expect(rs.ReadyEntries(1)).To(BeEmpty())
	})

	It("excludes an entry already marked executing from ReadyEntries", func() {
		rs := core.NewReservationStation(4)
		rs.Add(core.RSEntry{ID: 0, Src1: core.ResolvedSource(1), Src2: core.ResolvedSource(2)}, 0)
		rs.MarkAsExecuting(0)
		Expect(rs.ReadyEntries(1)).To(BeEmpty())
	})

	It("resolves a pending source via a CDB snoop matching its tag", func() {
		rs := core.NewReservationStation(4)
		rs.Add(core.RSEntry{ID: 0, Src1: core.PendingSource(core.ROBTag(2)), Src2: core.ResolvedSource(1)}, 0)
		rs.Update(core.ROBTag(2), 9)
		Expect(rs.ReadyEntries(1)).To(HaveLen(1))
		Expect(rs.ReadyEntries(1)[0].Src1.Value).To(Equal(9.0))
	})

	It("serves entries in FIFO insertion order", func() {
		rs := core.NewReservationStation(4)
		rs.Add(core.RSEntry{ID: 0, Op: insts.ADD, Src1: core.ResolvedSource(1), Src2: core.ResolvedSource(1)}, 0)
		rs.Add(core.RSEntry{ID: 1, Op: insts.ADD, Src1: core.ResolvedSource(1), Src2: core.ResolvedSource(1)}, 0)
		ready := rs.ReadyEntries(1)
		Expect(ready).To(HaveLen(2))
		Expect(ready[0].ID).To(Equal(uint64(0)))
		Expect(ready[1].ID).To(Equal(uint64(1)))
	})

	It("drops only speculative entries on a mispredict purge", func() {
		rs := core.NewReservationStation(4)
		rs.Add(core.RSEntry{ID: 0}, 0)
		rs.Add(core.RSEntry{ID: 5}, 0)
		rs.PurgeAfterMispredict(1)
		ids := []uint64{}
		for _, e := range rs.Dump() {
			ids = append(ids, e.ID)
		}
		Expect(ids).To(Equal([]uint64{0}))
	})

	It("removes an entry by instruction ID", func() {
		rs := core.NewReservationStation(4)
		rs.Add(core.RSEntry{ID: 0}, 0)
		rs.Remove(0)
		Expect(rs.Dump()).To(BeEmpty())
	})
})

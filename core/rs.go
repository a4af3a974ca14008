package core

import "github.com/sarchlab/tomasulo/insts"

// Source is one RS operand: exactly one of {Tag, Value} is meaningful at any
// time, selected by Tag.Valid.
type Source struct {
	Tag   Tag
	Value float64
}

// ResolvedSource builds a Source that already carries its value.
func ResolvedSource(v float64) Source { return Source{Value: v} }

// PendingSource builds a Source still waiting on a ROB tag.
func PendingSource(t Tag) Source { return Source{Tag: t} }

// Ready reports whether this source's value is available.
func (s Source) Ready() bool { return !s.Tag.Valid }

// RSEntry is a single Reservation Station slot.
type RSEntry struct {
	ID          uint64
	ROBSlot     int
	Op          insts.Op
	Src1, Src2  Source
	Executing   bool
	issuedCycle uint64
}

// ReservationStation is a bounded FIFO buffer; each functional-unit class
// has its own instance. It serves ready entries in insertion order with no
// priority.
type ReservationStation struct {
	size    int
	entries []RSEntry
}

// NewReservationStation creates an empty station with the given capacity.
func NewReservationStation(size int) *ReservationStation {
	return &ReservationStation{size: size}
}

// IsFull reports whether Issue must stall targeting this station.
func (rs *ReservationStation) IsFull() bool {
	return len(rs.entries) >= rs.size
}

// Add appends a new entry, recording the cycle it was issued so dispatch can
// enforce the "not new this cycle" rule.
func (rs *ReservationStation) Add(e RSEntry, issuedCycle uint64) {
	e.issuedCycle = issuedCycle
	rs.entries = append(rs.entries, e)
}

// Remove drops the entry for instructionID, e.g. once its result has been
// broadcast at Writeback or its branch outcome drained.
func (rs *ReservationStation) Remove(id uint64) {
	for i, e := range rs.entries {
		if e.ID == id {
			rs.entries = append(rs.entries[:i], rs.entries[i+1:]...)
			return
		}
	}
}

// Update is the CDB snoop: any source whose tag matches resolves to value.
func (rs *ReservationStation) Update(tag Tag, value float64) {
	for i := range rs.entries {
		if rs.entries[i].Src1.Tag == tag {
			rs.entries[i].Src1 = ResolvedSource(value)
		}
		if rs.entries[i].Src2.Tag == tag {
			rs.entries[i].Src2 = ResolvedSource(value)
		}
	}
}

// MarkAsExecuting flags an entry as dispatched to a functional unit, making
// it ineligible for re-dispatch.
func (rs *ReservationStation) MarkAsExecuting(id uint64) {
	for i := range rs.entries {
		if rs.entries[i].ID == id {
			rs.entries[i].Executing = true
			return
		}
	}
}

// PurgeAfterMispredict removes every entry belonging to a squashed
// instruction (ID greater than the mispredicted branch's ID).
func (rs *ReservationStation) PurgeAfterMispredict(branchID uint64) {
	kept := rs.entries[:0]
	for _, e := range rs.entries {
		if e.ID <= branchID {
			kept = append(kept, e)
		}
	}
	rs.entries = kept
}

// ReadyEntries returns, in insertion (FIFO) order, every entry eligible for
// dispatch this cycle: both operands present, not already executing, and
// not admitted this same cycle.
func (rs *ReservationStation) ReadyEntries(cycle uint64) []RSEntry {
	var out []RSEntry
	for _, e := range rs.entries {
		if e.Executing {
			continue
		}
		if e.issuedCycle == cycle {
			continue
		}
		if e.Src1.Ready() && e.Src2.Ready() {
			out = append(out, e)
		}
	}
	return out
}

// Dump returns a snapshot of every live entry, for tracing/diagnostics.
func (rs *ReservationStation) Dump() []RSEntry {
	out := make([]RSEntry, len(rs.entries))
	copy(out, rs.entries)
	return out
}

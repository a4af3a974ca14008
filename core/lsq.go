package core

import "github.com/sarchlab/tomasulo/insts"

// LSQEntry is a single Load/Store Queue slot. Address starts
// out as a pending base-register tag and, once AddrComputed, becomes a
// concrete byte address. Loads and stores share the same slot shape; the
// fields each ignores stay at their zero value.
type LSQEntry struct {
	ID   uint64
	Op   insts.Op // LD or SD
	Slot int      // owning ROB slot, for address-computation bookkeeping

	// Address: base register operand, later replaced by the computed
	// byte address.
	AddrTag      Tag
	AddrValue    int64
	AddrComputed bool
	Displacement int64

	// Store-only: the value/tag pair for the data being written.
	StoreTag   Tag
	StoreValue float64

	// Load-only, except IsFloat, which stores carry too.
	IssuedToMemory bool
	ResultReady    bool
	LoadedValue    float64
	IsFloat        bool // whether the stored/loaded word should be read/written as a float
	Broadcast      bool // whether ResultReady has already been sent on the CDB
}

// addrReady reports whether this entry's address operand has resolved to a
// concrete base value (not yet multiplied/added with the displacement).
func (e *LSQEntry) addrReady() bool {
	return !e.AddrTag.Valid
}

// storeDataReady reports whether a store's value to write has resolved.
func (e *LSQEntry) storeDataReady() bool {
	return !e.StoreTag.Valid
}

// BaseMultiplier selects the effective-address formula. ScaledBase
// multiplies the base register by the word size before adding the
// displacement, treating the base as a word index; MIPSCorrectBase adds the
// displacement to the plain base, the standard MIPS semantics.
type BaseMultiplier int64

// Address-formula toggles.
const (
	ScaledBase      BaseMultiplier = 4
	MIPSCorrectBase BaseMultiplier = 1
)

// LSQ is the Load/Store Queue: in-order, holds both loads and stores, and
// arbitrates the single memory port.
type LSQ struct {
	size    int
	entries []LSQEntry
	mem     *Memory
	port    *MemoryPort
	baseMul BaseMultiplier
}

// NewLSQ creates an empty LSQ backed by mem and served by a memory port with
// the given latency.
func NewLSQ(size int, mem *Memory, memLatency uint64, baseMul BaseMultiplier) *LSQ {
	return &LSQ{
		size:    size,
		mem:     mem,
		port:    NewMemoryPort(memLatency),
		baseMul: baseMul,
	}
}

// IsFull reports whether Issue must stall a memory op.
func (q *LSQ) IsFull() bool {
	return len(q.entries) >= q.size
}

// Add admits a new load or store entry in program order.
func (q *LSQ) Add(e LSQEntry) {
	q.entries = append(q.entries, e)
}

// indexOf finds an entry by instruction ID.
func (q *LSQ) indexOf(id uint64) int {
	for i := range q.entries {
		if q.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// Remove drops the entry for instructionID once it has committed.
func (q *LSQ) Remove(id uint64) {
	if i := q.indexOf(id); i >= 0 {
		q.entries = append(q.entries[:i], q.entries[i+1:]...)
	}
}

// Update is the CDB snoop: fills store-data and base-address fields whose
// tag matches.
func (q *LSQ) Update(tag Tag, value float64) {
	for i := range q.entries {
		if q.entries[i].StoreTag == tag {
			q.entries[i].StoreTag = Tag{}
			q.entries[i].StoreValue = value
		}
		if q.entries[i].AddrTag == tag {
			q.entries[i].AddrTag = Tag{}
			q.entries[i].AddrValue = int64(value)
		}
	}
}

// ComputeAddress performs at most one address computation per cycle: the
// oldest entry whose base has resolved, whose address isn't computed yet,
// and which wasn't admitted this same cycle. isNew reports whether an
// instruction ID must not progress this cycle, supplied by the
// orchestrator's completion record.
func (q *LSQ) ComputeAddress(isNew func(id uint64) bool) (id uint64, ok bool) {
	for i := range q.entries {
		e := &q.entries[i]
		if e.AddrComputed || !e.addrReady() || isNew(e.ID) {
			continue
		}
		e.AddrValue = int64(q.baseMul)*e.AddrValue + e.Displacement
		e.AddrComputed = true
		return e.ID, true
	}
	return 0, false
}

// storeReadyForCommit reports whether the store at index i has a computed
// address and resolved data, the condition for Commit to retire it.
func (q *LSQ) storeReadyForCommit(i int) bool {
	e := q.entries[i]
	return e.Op == insts.SD && e.AddrComputed && e.storeDataReady()
}

// ReadyStoreIDs returns every store ID that has become ready to commit this
// cycle, for the orchestrator to mark done in the ROB.
func (q *LSQ) ReadyStoreIDs() []uint64 {
	var out []uint64
	for i := range q.entries {
		if q.entries[i].Op == insts.SD && q.storeReadyForCommit(i) {
			out = append(out, q.entries[i].ID)
		}
	}
	return out
}

// Forward implements store-to-load forwarding: scans for a load with a
// computed address and no issued memory op, and
// searches backward for the youngest older store with a matching computed
// address and resolved data. On success it delivers the value, marks the
// load ready, and returns its ID.
func (q *LSQ) Forward(isNew func(id uint64) bool) (id uint64, ok bool) {
loads:
	for li := range q.entries {
		load := &q.entries[li]
		if load.Op != insts.LD || !load.AddrComputed || load.IssuedToMemory || load.ResultReady {
			continue
		}
		if isNew(load.ID) {
			// Address just computed this cycle: Memory may not also act on
			// it this cycle (no stage twice in one cycle).
			continue
		}
		for si := li - 1; si >= 0; si-- {
			store := q.entries[si]
			if store.Op != insts.SD {
				continue
			}
			if !store.AddrComputed {
				// Unknown address: may or may not alias with this load.
				// This load cannot skip past it (invariant: loads never
				// pass stores to unknown addresses), but a younger load may
				// still have a fully resolved nearer store, so keep scanning.
				continue loads
			}
			if store.AddrValue != load.AddrValue {
				continue
			}
			if !store.storeDataReady() {
				// Nearest matching store hasn't resolved its data yet; this
				// load is blocked, but a younger one might not be.
				continue loads
			}
			load.LoadedValue = store.StoreValue
			load.IsFloat = store.IsFloat
			load.ResultReady = true
			return load.ID, true
		}
	}
	return 0, false
}

// aliasHazard reports whether an older store blocks this load from issuing
// to memory: either the store's address is still unknown (it may alias), or
// it targets the same address (the load must be served by forwarding or wait
// for the store to commit). Loads never pass stores to unknown addresses.
func (q *LSQ) aliasHazard(loadIdx int) bool {
	load := q.entries[loadIdx]
	for i := 0; i < loadIdx; i++ {
		store := q.entries[i]
		if store.Op != insts.SD {
			continue
		}
		if !store.AddrComputed || store.AddrValue == load.AddrValue {
			return true
		}
	}
	return false
}

// IssueLoad dispatches the oldest eligible load to the memory port, tried
// only when Forward found nothing this cycle.
func (q *LSQ) IssueLoad(isNew func(id uint64) bool) (id uint64, ok bool) {
	if q.port.Busy() {
		return 0, false
	}
	for i := range q.entries {
		e := &q.entries[i]
		if e.Op != insts.LD || !e.AddrComputed || e.IssuedToMemory || e.ResultReady {
			continue
		}
		if isNew(e.ID) {
			continue
		}
		if q.aliasHazard(i) {
			continue
		}
		var value float64
		if e.IsFloat {
			value = q.mem.ReadFloat(e.AddrValue)
		} else {
			value = float64(q.mem.ReadInt(e.AddrValue))
		}
		e.IssuedToMemory = true
		q.port.Execute(e.ID, value)
		return e.ID, true
	}
	return 0, false
}

// IssueStore performs the architectural write for a store at Commit, the
// only point memory is mutated.
func (q *LSQ) IssueStore(id uint64) {
	i := q.indexOf(id)
	if i < 0 {
		return
	}
	e := q.entries[i]
	if e.IsFloat {
		q.mem.WriteFloat(e.AddrValue, e.StoreValue)
	} else {
		q.mem.WriteInt(e.AddrValue, int64(e.StoreValue))
	}
}

// AdvanceTime ticks the memory port.
func (q *LSQ) AdvanceTime() {
	q.port.AdvanceTime()
}

// IsResultReady reports whether a load has finished its memory access.
func (q *LSQ) IsResultReady() bool {
	return q.port.IsResultReady()
}

// GetResult consumes a completed load's result and also marks it ready in
// the queue entry so forwarding/alias checks downstream see it resolved.
func (q *LSQ) GetResult() (id uint64, value float64) {
	id, value = q.port.GetResult()
	if i := q.indexOf(id); i >= 0 {
		q.entries[i].ResultReady = true
		q.entries[i].LoadedValue = value
	}
	return id, value
}

// ReadyToBroadcast returns the smallest-ID load whose result has resolved
// (via forwarding or a completed memory access) but has not yet been sent on
// the CDB, for Writeback's cross-source arbitration.
func (q *LSQ) ReadyToBroadcast() (id uint64, value float64, ok bool) {
	best := -1
	for i := range q.entries {
		e := &q.entries[i]
		if e.Op != insts.LD || !e.ResultReady || e.Broadcast {
			continue
		}
		if best == -1 || e.ID < q.entries[best].ID {
			best = i
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	return q.entries[best].ID, q.entries[best].LoadedValue, true
}

// MarkBroadcast records that a load's result has been sent on the CDB, so
// ReadyToBroadcast does not offer it again.
func (q *LSQ) MarkBroadcast(id uint64) {
	if i := q.indexOf(id); i >= 0 {
		q.entries[i].Broadcast = true
	}
}

// PurgeAfterMispredict drops every entry with ID greater than branchID and
// cancels any in-flight memory op belonging to a dropped entry.
func (q *LSQ) PurgeAfterMispredict(branchID uint64) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.ID <= branchID {
			kept = append(kept, e)
		}
	}
	q.entries = kept
	q.port.PurgeAfterMispredict(branchID)
}

// Dump returns a snapshot of every live entry, for tracing/diagnostics.
func (q *LSQ) Dump() []LSQEntry {
	out := make([]LSQEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

package core

import "github.com/sarchlab/tomasulo/insts"

// completion is the per-instruction stage record: the cycle
// each stage was entered, or noCycle if that stage has not happened (or
// never will, for stages an instruction's opcode class skips).
type completion struct {
	Issue, Execute, Memory, Writeback, Commit int64
}

const noCycle = -1

func newCompletion() *completion {
	return &completion{Issue: noCycle, Execute: noCycle, Memory: noCycle, Writeback: noCycle, Commit: noCycle}
}

func (c *completion) latest() int64 {
	m := c.Issue
	for _, v := range []int64{c.Execute, c.Memory, c.Writeback} {
		if v > m {
			m = v
		}
	}
	return m
}

// CompletionRow is one line of the instruction completion table, exported
// for the output formatter.
type CompletionRow struct {
	ID                                        uint64
	Issue, Execute, Memory, Writeback, Commit int64
}

// Orchestrator drives the fixed six-phase per-cycle schedule
// over the full set of micro-architectural structures. It is the single
// point that knows how RAT, ROB, reservation stations, functional units,
// the LSQ, and the Branch Unit fit together.
type Orchestrator struct {
	cycle       uint64
	fetchOffset int

	iq      *insts.Queue
	rat     *RAT
	arf     *ARF
	rob     *ROB
	rsInt   *ReservationStation
	rsFPAdd *ReservationStation
	rsFPMul *ReservationStation
	lsq     *LSQ
	branch  *BranchUnit

	intUnits   []*FunctionalUnit
	fpAddUnits []*FunctionalUnit
	fpMulUnits []*FunctionalUnit

	records map[uint64]*completion
}

// NewOrchestrator wires every structure from a Config, a static program
// image, and an already-initialized ARF/Memory (the external parser's
// output).
func NewOrchestrator(cfg *Config, program []insts.Raw, arf *ARF, mem *Memory, predictor Predictor) *Orchestrator {
	o := &Orchestrator{
		iq:      insts.NewQueue(program),
		rat:     NewRAT(),
		arf:     arf,
		rob:     NewROB(cfg.ROBEntries),
		rsInt:   NewReservationStation(cfg.IntALU.RSSize),
		rsFPAdd: NewReservationStation(cfg.FPAdder.RSSize),
		rsFPMul: NewReservationStation(cfg.FPMultiply.RSSize),
		lsq:     NewLSQ(cfg.LoadStore.Size, mem, cfg.LoadStore.MemLatency, cfg.BaseMultiplier),
		branch:  NewBranchUnit(predictor),
		records: make(map[uint64]*completion),
	}
	o.intUnits = newUnitPool(cfg.IntALU)
	o.fpAddUnits = newUnitPool(cfg.FPAdder)
	o.fpMulUnits = newUnitPool(cfg.FPMultiply)
	return o
}

func newUnitPool(cfg UnitConfig) []*FunctionalUnit {
	count := cfg.Count
	if count < 1 {
		count = 1
	}
	units := make([]*FunctionalUnit, count)
	for i := range units {
		units[i] = NewFunctionalUnit(cfg.Latency)
	}
	return units
}

// Cycle returns the current cycle counter (the cycle about to run, or just
// completed, depending on caller context).
func (o *Orchestrator) Cycle() uint64 { return o.cycle }

// Done reports whether the simulation has terminated: the IQ has nothing
// left to fetch and every dynamic instruction ever recorded has committed.
func (o *Orchestrator) Done() bool {
	if !o.iq.Empty(o.fetchOffset) {
		return false
	}
	for _, c := range o.records {
		if c.Commit == noCycle {
			return false
		}
	}
	return true
}

// Run ticks the orchestrator until Done, guarding against a runaway
// simulation with a generous cycle ceiling.
func (o *Orchestrator) Run(maxCycles uint64) {
	for !o.Done() {
		if o.cycle >= maxCycles {
			panic("tomasulo: simulation did not terminate within the configured cycle ceiling")
		}
		o.Tick()
	}
}

// Tick runs the fixed six-phase schedule once, then advances every unit's
// internal timer and the cycle counter.
func (o *Orchestrator) Tick() {
	o.doIssue()
	o.doExecute()
	o.doBranchCheck()
	o.doMemory()
	o.doWriteback()
	o.doCommit()
	o.advanceTime()
	o.cycle++
}

func (o *Orchestrator) rec(id uint64) *completion {
	c, ok := o.records[id]
	if !ok {
		c = newCompletion()
		o.records[id] = c
	}
	return c
}

// CompletionTable returns every recorded instruction's stage cycles, in
// instruction ID order, for the output formatter.
func (o *Orchestrator) CompletionTable() []CompletionRow {
	ids := make([]uint64, 0, len(o.records))
	for id := range o.records {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	rows := make([]CompletionRow, len(ids))
	for i, id := range ids {
		c := o.records[id]
		rows[i] = CompletionRow{ID: id, Issue: c.Issue, Execute: c.Execute, Memory: c.Memory, Writeback: c.Writeback, Commit: c.Commit}
	}
	return rows
}

// backfill is the late-forwarding path at Issue: if a captured source is
// still a tag and the ROB head has just completed with a matching tag,
// resolve it immediately instead of waiting for a future CDB broadcast.
func (o *Orchestrator) backfill(s Source) Source {
	if s.Ready() {
		return s
	}
	head, ok := o.rob.Head()
	if !ok || !head.Done {
		return s
	}
	if s.Tag == ROBTag(head.Slot) {
		return ResolvedSource(head.Value)
	}
	return s
}

func (o *Orchestrator) resolveReg(reg string) Source {
	tag := o.rat.Get(reg)
	if tag.Valid {
		return o.backfill(PendingSource(tag))
	}
	return ResolvedSource(o.arf.Get(reg))
}

func (o *Orchestrator) resolveOperand(op insts.Operand) Source {
	if op.IsImm {
		return ResolvedSource(op.Imm)
	}
	return o.resolveReg(op.Reg)
}

// rsFor returns the reservation station an opcode class dispatches through.
// Branches share the integer ALU's station.
func (o *Orchestrator) rsFor(class insts.FUClass) *ReservationStation {
	switch class {
	case insts.FUIntALU, insts.FUBranch:
		return o.rsInt
	case insts.FUFPAdder:
		return o.rsFPAdd
	case insts.FUFPMultiplier:
		return o.rsFPMul
	default:
		return nil
	}
}

// doIssue fetches at most one instruction, allocates its ROB slot, renames
// its destination, captures its operands, and places it in the station or
// queue its opcode class dispatches through.
func (o *Orchestrator) doIssue() {
	if o.iq.Empty(o.fetchOffset) {
		return
	}
	if o.rob.IsFull() {
		return
	}
	raw, _ := o.iq.Peek(o.fetchOffset)

	if raw.Op == insts.NOP {
		inst, ok := o.iq.Fetch(o.fetchOffset)
		if !ok {
			return
		}
		o.rob.Add(inst.ID, "", false, false)
		o.rob.FindAndUpdateEntry(inst.ID, 0)
		o.rec(inst.ID).Issue = int64(o.cycle)
		o.fetchOffset = 0
		return
	}

	class := raw.Op.Class()
	switch class {
	case insts.FULoadStore:
		if o.lsq.IsFull() {
			return
		}
	default:
		if rs := o.rsFor(class); rs != nil && rs.IsFull() {
			return
		}
	}

	inst, ok := o.iq.Fetch(o.fetchOffset)
	if !ok {
		return
	}
	// The speculative offset is consumed by the fetch; a branch issued below
	// installs a fresh one for its own prediction.
	o.fetchOffset = 0
	id := inst.ID
	r := inst.Raw

	switch {
	case r.Op.IsMemory():
		o.issueMemory(id, r)
	case r.Op.IsBranch():
		o.issueBranch(id, r)
	default:
		o.issueArithmetic(id, r, class)
	}

	o.rec(id).Issue = int64(o.cycle)
}

func (o *Orchestrator) issueArithmetic(id uint64, r insts.Raw, class insts.FUClass) {
	slot := o.rob.Add(id, r.Dest, false, false)
	src1 := o.backfill(o.resolveOperand(r.Src1))
	src2 := o.backfill(o.resolveOperand(r.Src2))
	entry := RSEntry{ID: id, ROBSlot: slot, Op: r.Op, Src1: src1, Src2: src2}
	o.rsFor(class).Add(entry, o.cycle)
	o.rat.Set(r.Dest, ROBTag(slot))
}

func (o *Orchestrator) issueMemory(id uint64, r insts.Raw) {
	isStore := r.Op == insts.SD
	slot := o.rob.Add(id, r.Dest, isStore, false)
	addr := o.backfill(o.resolveOperand(r.Src1))
	entry := LSQEntry{ID: id, Op: r.Op, Slot: slot, Displacement: r.Displacement, IsFloat: IsFloatReg(r.Dest)}
	if addr.Ready() {
		entry.AddrValue = int64(addr.Value)
	} else {
		entry.AddrTag = addr.Tag
	}
	if isStore {
		data := o.backfill(o.resolveOperand(insts.RegOperand(r.Dest)))
		if data.Ready() {
			entry.StoreValue = data.Value
		} else {
			entry.StoreTag = data.Tag
		}
	} else {
		o.rat.Set(r.Dest, ROBTag(slot))
	}
	o.lsq.Add(entry)
}

func (o *Orchestrator) issueBranch(id uint64, r insts.Raw) {
	slot := o.rob.Add(id, "", false, true)
	src1 := o.backfill(o.resolveOperand(r.Src1))
	src2 := o.backfill(o.resolveOperand(r.Src2))
	entry := RSEntry{ID: id, ROBSlot: slot, Op: r.Op, Src1: src1, Src2: src2}
	o.rsInt.Add(entry, o.cycle)

	predictedTaken := o.branch.Predict(id)
	o.branch.RecordPrediction(id, predictedTaken)

	// fallthroughPC is the index of the instruction right after this branch;
	// Fetch always leaves the queue's PC at ownIndex+1, so ownIndex is
	// recoverable as fallthroughPC-1. BranchOffset counts instructions from
	// the branch's own position (an offset of 1 reproduces the fall-through,
	// 2 skips exactly the next instruction, and so on).
	fallthroughPC := o.iq.PC()
	targetPC := fallthroughPC - 1 + int(r.BranchOffset)
	if predictedTaken {
		o.fetchOffset = targetPC - fallthroughPC
		o.branch.SetMispredictTarget(id, fallthroughPC)
	} else {
		o.fetchOffset = 0
		o.branch.SetMispredictTarget(id, targetPC)
	}
	o.branch.SaveRAT(id, o.rat.State())
}

// doExecute dispatches ready reservation-station entries onto idle units
// and performs at most one LSQ address computation.
func (o *Orchestrator) doExecute() {
	o.dispatch(o.rsInt, o.intUnits)
	o.dispatch(o.rsFPAdd, o.fpAddUnits)
	o.dispatch(o.rsFPMul, o.fpMulUnits)

	isNew := func(id uint64) bool { return o.rec(id).Issue == int64(o.cycle) }
	if id, ok := o.lsq.ComputeAddress(isNew); ok {
		o.rec(id).Execute = int64(o.cycle)
	}
}

func (o *Orchestrator) dispatch(rs *ReservationStation, units []*FunctionalUnit) {
	for _, e := range rs.ReadyEntries(o.cycle) {
		fu := idleUnit(units)
		if fu == nil {
			return
		}
		fu.Execute(e.ID, e.Op, e.Src1.Value, e.Src2.Value)
		rs.MarkAsExecuting(e.ID)
		o.rec(e.ID).Execute = int64(o.cycle)
	}
}

func idleUnit(units []*FunctionalUnit) *FunctionalUnit {
	for _, u := range units {
		if !u.Busy() {
			return u
		}
	}
	return nil
}

// doBranchCheck drains completed branch comparisons from the integer ALUs
// and squashes on a mispredicted outcome.
func (o *Orchestrator) doBranchCheck() {
	for _, u := range o.intUnits {
		if !u.IsBranchOutcomePending() {
			continue
		}
		id, value := u.GetResult()
		o.rsInt.Remove(id)
		o.rob.FindAndUpdateEntry(id, value)

		actual := value != 0
		predicted := o.branch.Predicted(id)
		o.branch.Update(id, actual)
		if actual != predicted {
			o.squash(id)
		}
	}
}

func (o *Orchestrator) squash(branchID uint64) {
	o.rat.Restore(o.branch.RollBack(branchID))
	o.rob.PurgeAfterMispredict(branchID)
	o.rsInt.PurgeAfterMispredict(branchID)
	o.rsFPAdd.PurgeAfterMispredict(branchID)
	o.rsFPMul.PurgeAfterMispredict(branchID)
	o.lsq.PurgeAfterMispredict(branchID)
	for _, u := range o.intUnits {
		u.PurgeAfterMispredict(branchID)
	}
	for _, u := range o.fpAddUnits {
		u.PurgeAfterMispredict(branchID)
	}
	for _, u := range o.fpMulUnits {
		u.PurgeAfterMispredict(branchID)
	}
	o.iq.SetPC(o.branch.MispredictTarget(branchID))
	o.fetchOffset = 0
	for id := range o.records {
		if id > branchID {
			delete(o.records, id)
		}
	}
}

// doMemory performs the cycle's single memory-port action, forwarding
// first and issuing a ready load only when no forward fired, then drains a
// just-completed port load into its LSQ entry so Writeback can arbitrate it
// alongside forwarded loads.
func (o *Orchestrator) doMemory() {
	isNew := func(id uint64) bool { return o.rec(id).Execute == int64(o.cycle) }
	if id, ok := o.lsq.Forward(isNew); ok {
		o.rec(id).Memory = int64(o.cycle)
	} else if id, ok := o.lsq.IssueLoad(isNew); ok {
		o.rec(id).Memory = int64(o.cycle)
	}
	if o.lsq.IsResultReady() {
		o.lsq.GetResult()
	}
	o.syncStoreReadiness()
}

// syncStoreReadiness marks newly-ready stores done in the ROB, guarded by
// the completion record so each store is only stamped with a Memory cycle
// once.
func (o *Orchestrator) syncStoreReadiness() {
	for _, id := range o.lsq.ReadyStoreIDs() {
		c := o.rec(id)
		if c.Memory == noCycle && c.latest() != int64(o.cycle) {
			c.Memory = int64(o.cycle)
			o.rob.MarkStoreDone(id)
		}
	}
}

// doWriteback elects the smallest-ID ready result across every unit and
// the load port, and broadcasts it on the CDB.
func (o *Orchestrator) doWriteback() {
	type candidate struct {
		id  uint64
		pop func() (uint64, float64)
	}
	var candidates []candidate
	for _, u := range o.intUnits {
		if id, ok := u.ReadyID(); ok {
			u := u
			candidates = append(candidates, candidate{id: id, pop: u.GetResult})
		}
	}
	for _, u := range o.fpAddUnits {
		if id, ok := u.ReadyID(); ok {
			u := u
			candidates = append(candidates, candidate{id: id, pop: u.GetResult})
		}
	}
	for _, u := range o.fpMulUnits {
		if id, ok := u.ReadyID(); ok {
			u := u
			candidates = append(candidates, candidate{id: id, pop: u.GetResult})
		}
	}
	if id, value, ok := o.lsq.ReadyToBroadcast(); ok && o.rec(id).Memory != int64(o.cycle) {
		// A load forwarded in this same cycle's Memory phase must wait a
		// cycle before broadcasting (no stage twice in one cycle).
		candidates = append(candidates, candidate{id: id, pop: func() (uint64, float64) {
			o.lsq.MarkBroadcast(id)
			return id, value
		}})
	}
	if len(candidates) == 0 {
		return
	}
	winner := candidates[0]
	for _, c := range candidates[1:] {
		if c.id < winner.id {
			winner = c
		}
	}
	id, value := winner.pop()
	_, tag, ok := o.rob.FindAndUpdateEntry(id, value)
	if !ok {
		return
	}
	o.rsInt.Update(tag, value)
	o.rsFPAdd.Update(tag, value)
	o.rsFPMul.Update(tag, value)
	o.lsq.Update(tag, value)
	o.rsInt.Remove(id)
	o.rsFPAdd.Remove(id)
	o.rsFPMul.Remove(id)
	o.rec(id).Writeback = int64(o.cycle)
	o.syncStoreReadiness()
}

// doCommit retires the ROB head in program order, enforcing the "no stage
// twice in one cycle" rule against the completion record.
func (o *Orchestrator) doCommit() {
	id, ok := o.rob.CanCommit()
	if !ok {
		return
	}
	c := o.rec(id)
	if c.latest() == int64(o.cycle) {
		return
	}
	e := o.rob.Commit()
	if e.IsStore {
		o.lsq.IssueStore(id)
	} else if e.Dest != "" {
		o.arf.Set(e.Dest, e.Value)
		if o.rat.Get(e.Dest) == ROBTag(e.Slot) {
			o.rat.Clear(e.Dest)
		}
		o.branch.ClearCommitted(e.Dest, ROBTag(e.Slot))
	}
	// Loads and stores both vacate their LSQ slot at commit; Remove is a
	// no-op for instructions that never occupied one.
	o.lsq.Remove(id)
	if e.IsBranch {
		o.branch.Forget(id)
	}
	c.Commit = int64(o.cycle)
}

func (o *Orchestrator) advanceTime() {
	for _, u := range o.intUnits {
		u.AdvanceTime()
	}
	for _, u := range o.fpAddUnits {
		u.AdvanceTime()
	}
	for _, u := range o.fpMulUnits {
		u.AdvanceTime()
	}
	o.lsq.AdvanceTime()
}

// ARF exposes the architectural register file for the output formatter.
func (o *Orchestrator) ARF() *ARF { return o.arf }

// PredictorStats reports the branch predictor's accumulated counts.
func (o *Orchestrator) PredictorStats() PredictorStats { return o.branch.Stats() }

// Memory exposes the simulated memory for the output formatter.
func (o *Orchestrator) Memory() *Memory { return o.lsq.mem }

package core

// branchState holds everything the Branch Unit remembers about one
// in-flight branch instruction.
type branchState struct {
	checkpoint       Snapshot
	hasCheckpoint    bool
	mispredictTarget int
	predicted        bool
}

// BranchUnit owns RAT checkpointing and misprediction targets, keyed by
// branch instruction ID, and predicts through a pluggable Predictor
type BranchUnit struct {
	predictor Predictor
	states    map[uint64]*branchState
}

// NewBranchUnit creates a Branch Unit using the given predictor
// implementation.
func NewBranchUnit(predictor Predictor) *BranchUnit {
	return &BranchUnit{
		predictor: predictor,
		states:    make(map[uint64]*branchState),
	}
}

func (b *BranchUnit) state(id uint64) *branchState {
	s, ok := b.states[id]
	if !ok {
		s = &branchState{}
		b.states[id] = s
	}
	return s
}

// Predict returns the wrapped predictor's current prediction for a branch ID
// (not-taken the first time an ID is seen).
func (b *BranchUnit) Predict(branchID uint64) bool {
	return b.predictor.Predict(branchID)
}

// RecordPrediction remembers the prediction actually used for a branch at
// Issue, so Branch-check can later tell whether the resolved outcome
// matches it.
func (b *BranchUnit) RecordPrediction(branchID uint64, predicted bool) {
	b.state(branchID).predicted = predicted
}

// Predicted returns the prediction recorded for a branch at Issue.
func (b *BranchUnit) Predicted(branchID uint64) bool {
	return b.state(branchID).predicted
}

// SaveRAT stores a deep-copied RAT checkpoint, taken at the end of the
// branch's own Issue cycle.
func (b *BranchUnit) SaveRAT(branchID uint64, snapshot Snapshot) {
	s := b.state(branchID)
	s.checkpoint = snapshot
	s.hasCheckpoint = true
}

// SetMispredictTarget records the PC to redirect to if this branch's
// prediction proves wrong.
func (b *BranchUnit) SetMispredictTarget(branchID uint64, pc int) {
	b.state(branchID).mispredictTarget = pc
}

// MispredictTarget returns the recorded redirect PC for a branch.
func (b *BranchUnit) MispredictTarget(branchID uint64) int {
	return b.state(branchID).mispredictTarget
}

// RollBack returns the checkpointed RAT snapshot for a branch. Rolling back
// the same branch twice returns identical state both times, since the
// checkpoint is never mutated by RollBack.
func (b *BranchUnit) RollBack(branchID uint64) Snapshot {
	return b.state(branchID).checkpoint
}

// Update records the actual outcome for a branch, updating the predictor.
// Called once per resolved branch regardless of hit or miss, so a
// saturating-counter Predictor learns from hits as well as misses.
func (b *BranchUnit) Update(branchID uint64, actualOutcome bool) {
	b.predictor.Update(branchID, actualOutcome)
}

// ClearCommitted scrubs dest's mapping from every live checkpoint that still
// names the committing ROB slot. A checkpoint is taken at branch issue, but
// instructions older than the branch keep committing while it is held; a
// later rollback must not resurrect a producer that has already retired into
// the ARF.
func (b *BranchUnit) ClearCommitted(dest string, tag Tag) {
	for _, s := range b.states {
		if s.hasCheckpoint {
			s.checkpoint.clearIf(dest, tag)
		}
	}
}

// Stats reports the wrapped predictor's accumulated prediction counts.
func (b *BranchUnit) Stats() PredictorStats {
	return b.predictor.Stats()
}

// Forget drops a branch's bookkeeping once it has committed; branch IDs are
// never revisited after commit so this just bounds memory use.
func (b *BranchUnit) Forget(branchID uint64) {
	delete(b.states, branchID)
}

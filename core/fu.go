package core

import (
	"fmt"

	"github.com/sarchlab/tomasulo/insts"
)

// FunctionalUnit is the shared shape of the integer ALU, FP adder, and FP
// multiplier: accept one instruction via Execute while idle, run a fixed
// countdown, and expose the result once ready.
type FunctionalUnit struct {
	latency uint64

	busy          bool
	id            uint64
	op            insts.Op
	a, b          float64
	remaining     uint64
	resultReady   bool
	result        float64
	branchOutcome bool
	isBranchOp    bool
}

// NewFunctionalUnit creates an idle unit with the given fixed latency.
func NewFunctionalUnit(latency uint64) *FunctionalUnit {
	if latency == 0 {
		latency = 1
	}
	return &FunctionalUnit{latency: latency}
}

// Busy reports whether the unit currently holds an in-flight instruction.
func (fu *FunctionalUnit) Busy() bool {
	return fu.busy
}

// Execute accepts one instruction for dispatch; callers must check Busy
// first.
func (fu *FunctionalUnit) Execute(id uint64, op insts.Op, a, b float64) {
	fu.busy = true
	fu.id = id
	fu.op = op
	fu.a = a
	fu.b = b
	fu.remaining = fu.latency
	fu.resultReady = false
	fu.isBranchOp = op.IsBranch()
}

// AdvanceTime ticks the unit's countdown and computes the result once it
// reaches zero.
func (fu *FunctionalUnit) AdvanceTime() {
	if !fu.busy || fu.resultReady {
		return
	}
	if fu.remaining > 0 {
		fu.remaining--
	}
	if fu.remaining == 0 {
		fu.compute()
		fu.resultReady = true
	}
}

// compute applies the opcode to the captured operands.
func (fu *FunctionalUnit) compute() {
	switch fu.op {
	case insts.ADD, insts.ADDI:
		fu.result = float64(int64(fu.a) + int64(fu.b))
	case insts.SUB, insts.SUBI:
		fu.result = float64(int64(fu.a) - int64(fu.b))
	case insts.ADDD:
		fu.result = fu.a + fu.b
	case insts.SUBD:
		fu.result = fu.a - fu.b
	case insts.MULTD:
		fu.result = fu.a * fu.b
	case insts.BEQ:
		fu.branchOutcome = fu.a == fu.b
	case insts.BNE:
		fu.branchOutcome = fu.a != fu.b
	default:
		panic(fmt.Sprintf("tomasulo: functional unit asked to execute unsupported opcode %s", fu.op))
	}
}

// IsResultReady reports a completed non-branch result is waiting.
func (fu *FunctionalUnit) IsResultReady() bool {
	return fu.busy && fu.resultReady && !fu.isBranchOp
}

// ReadyID peeks the instruction ID of a completed non-branch result without
// consuming it, for Writeback's cross-unit smallest-ID arbitration.
func (fu *FunctionalUnit) ReadyID() (uint64, bool) {
	if fu.IsResultReady() {
		return fu.id, true
	}
	return 0, false
}

// IsBranchOutcomePending reports a completed branch comparison is waiting
func (fu *FunctionalUnit) IsBranchOutcomePending() bool {
	return fu.busy && fu.resultReady && fu.isBranchOp
}

// GetResult consumes the completed result (numeric for ALU/FP ops, 0/1 for
// a branch outcome) and frees the unit.
func (fu *FunctionalUnit) GetResult() (id uint64, value float64) {
	id = fu.id
	if fu.isBranchOp {
		if fu.branchOutcome {
			value = 1
		}
	} else {
		value = fu.result
	}
	fu.busy = false
	fu.resultReady = false
	return
}

// PurgeAfterMispredict drops an in-flight instruction belonging to a
// squashed branch, freeing the unit silently.
func (fu *FunctionalUnit) PurgeAfterMispredict(branchID uint64) {
	if fu.busy && fu.id > branchID {
		fu.busy = false
		fu.resultReady = false
	}
}

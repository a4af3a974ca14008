// Package benchmarks provides small hand-picked programs and a run harness
// that pin down the simulator's observable behavior end-to-end.
package benchmarks

import (
	"github.com/sarchlab/tomasulo/core"
	"github.com/sarchlab/tomasulo/insts"
)

// Instruction builders, one per opcode shape, so scenario programs read
// like assembly listings.

func addi(dest, src string, imm float64) insts.Raw {
	return insts.Raw{Op: insts.ADDI, Dest: dest, Src1: insts.RegOperand(src), Src2: insts.ImmOperand(imm)}
}

func add(dest, src1, src2 string) insts.Raw {
	return insts.Raw{Op: insts.ADD, Dest: dest, Src1: insts.RegOperand(src1), Src2: insts.RegOperand(src2)}
}

func addd(dest, src1, src2 string) insts.Raw {
	return insts.Raw{Op: insts.ADDD, Dest: dest, Src1: insts.RegOperand(src1), Src2: insts.RegOperand(src2)}
}

func multd(dest, src1, src2 string) insts.Raw {
	return insts.Raw{Op: insts.MULTD, Dest: dest, Src1: insts.RegOperand(src1), Src2: insts.RegOperand(src2)}
}

func ld(dest string, disp int64, base string) insts.Raw {
	return insts.Raw{Op: insts.LD, Dest: dest, Src1: insts.RegOperand(base), Displacement: disp}
}

func sd(src string, disp int64, base string) insts.Raw {
	return insts.Raw{Op: insts.SD, Dest: src, Src1: insts.RegOperand(base), Displacement: disp}
}

func beq(src1, src2 string, offset int64) insts.Raw {
	return insts.Raw{Op: insts.BEQ, Src1: insts.RegOperand(src1), Src2: insts.RegOperand(src2), BranchOffset: offset}
}

func bne(src1, src2 string, offset int64) insts.Raw {
	return insts.Raw{Op: insts.BNE, Src1: insts.RegOperand(src1), Src2: insts.RegOperand(src2), BranchOffset: offset}
}

// run executes a program on a default machine to completion and returns the
// orchestrator for inspection. A nil arf starts from an all-zero register
// file.
func run(program []insts.Raw, arf *core.ARF) *core.Orchestrator {
	if arf == nil {
		arf = core.NewARF()
	}
	o := core.NewOrchestrator(core.DefaultConfig(), program, arf, core.NewMemory(), core.NewOneBitPredictor())
	o.Run(10000)
	return o
}

// Package insts provides MIPS-like instruction definitions for the Tomasulo
// simulator.
//
// Instructions are already tokenized into tuples by the external parser
// (see package parser); this package only defines the structured
// representation and assigns the monotonically-increasing dynamic ID that
// the rest of the core keys every structure on.
//
// Usage:
//
//	d := insts.NewDecoder()
//	inst := d.Decode(insts.Raw{Op: insts.ADDI, Dest: "R1", Src1: insts.RegOperand("R0"), Src2: insts.ImmOperand(5)})
package insts

import "fmt"

// Op identifies a Tomasulo instruction opcode.
type Op uint8

// Supported opcodes.
const (
	OpUnknown Op = iota
	ADD
	ADDI
	SUB
	SUBI
	ADDD  // ADD.D
	SUBD  // SUB.D
	MULTD // MULT.D
	LD
	SD
	BEQ
	BNE
	NOP
)

// String renders the opcode as its textual mnemonic.
func (o Op) String() string {
	switch o {
	case ADD:
		return "ADD"
	case ADDI:
		return "ADDI"
	case SUB:
		return "SUB"
	case SUBI:
		return "SUBI"
	case ADDD:
		return "ADD.D"
	case SUBD:
		return "SUB.D"
	case MULTD:
		return "MULT.D"
	case LD:
		return "LD"
	case SD:
		return "SD"
	case BEQ:
		return "BEQ"
	case BNE:
		return "BNE"
	case NOP:
		return "NOP"
	default:
		return "UNKNOWN"
	}
}

// IsFloat reports whether the opcode operates on FP registers/values.
func (o Op) IsFloat() bool {
	switch o {
	case ADDD, SUBD, MULTD:
		return true
	default:
		return false
	}
}

// IsBranch reports whether the opcode is a conditional branch.
func (o Op) IsBranch() bool {
	return o == BEQ || o == BNE
}

// IsMemory reports whether the opcode accesses memory.
func (o Op) IsMemory() bool {
	return o == LD || o == SD
}

// FUClass identifies which functional-unit/reservation-station class an
// opcode is dispatched to.
type FUClass uint8

// Functional unit classes.
const (
	FUNone FUClass = iota
	FUIntALU
	FUFPAdder
	FUFPMultiplier
	FULoadStore
	FUBranch
)

// Class returns the functional unit class for an opcode.
func (o Op) Class() FUClass {
	switch o {
	case ADD, ADDI, SUB, SUBI:
		return FUIntALU
	case ADDD, SUBD:
		return FUFPAdder
	case MULTD:
		return FUFPMultiplier
	case LD, SD:
		return FULoadStore
	case BEQ, BNE:
		return FUBranch
	default:
		return FUNone
	}
}

// Operand is either a register name or a literal value, never both. A zero
// Operand (both fields empty/zero) with Reg == "" and IsImm == false never
// occurs in a well-formed instruction.
type Operand struct {
	Reg   string // architectural register name, e.g. "R1" or "F2"
	Imm   float64
	IsImm bool
}

// RegOperand builds an Operand that names a register.
func RegOperand(reg string) Operand { return Operand{Reg: reg} }

// ImmOperand builds an Operand that carries a literal value.
func ImmOperand(v float64) Operand { return Operand{Imm: v, IsImm: true} }

// Raw is the tuple shape handed to the core by the external parser, one per
// source line of the program.
type Raw struct {
	Op   Op
	Dest string // destination register name, empty if none

	Src1 Operand
	Src2 Operand

	// Displacement for LD/SD ("offset(Rs)"); Rs lives in Src1.
	Displacement int64

	// Signed target offset in instructions, for BEQ/BNE.
	BranchOffset int64
}

// Instruction is a fully decoded dynamic instruction: a Raw plus the unique,
// monotonically increasing ID assigned at fetch.
type Instruction struct {
	ID  uint64
	Raw Raw
}

// Op is a convenience accessor for the opcode.
func (in *Instruction) Op() Op { return in.Raw.Op }

// String renders the instruction for diagnostics/tracing.
func (in *Instruction) String() string {
	return fmt.Sprintf("#%d %s", in.ID, in.Raw.Op)
}

// Decoder assigns dynamic instruction IDs at fetch time. It holds no other
// state: the textual-to-Raw translation is the external parser's job
type Decoder struct {
	nextID uint64
}

// NewDecoder creates a Decoder whose first assigned ID is 0.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode stamps a Raw tuple with the next dynamic instruction ID.
func (d *Decoder) Decode(r Raw) *Instruction {
	in := &Instruction{ID: d.nextID, Raw: r}
	d.nextID++
	return in
}

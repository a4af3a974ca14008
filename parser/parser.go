// Package parser reads the textual Tomasulo input file format and turns it
// into a core.Config, an initial register/memory image, and a static
// program. It is the thin external collaborator the core never imports
// back; parsing mistakes are reported as plain errors. Register names and
// memory addresses in RegFileInitData/MemInitData are not range-checked here:
// an unknown register or an out-of-range or unaligned address panics in the
// core's ARF/Memory setters instead of returning an error.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/tomasulo/core"
	"github.com/sarchlab/tomasulo/insts"
)

// Program is everything the parser produces for one input file: a machine
// configuration, the initial architectural state, and the instruction
// stream.
type Program struct {
	Config       *core.Config
	ARF          *core.ARF
	Memory       *core.Memory
	Instructions []insts.Raw
}

// Load reads and parses a Tomasulo input file from path.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the directive-based text format from r:
//
//	ROBEntries: <int>
//	CDBs: <int>
//	ALUI: <rsSize> <latency> <count>
//	ALUFP: <rsSize> <latency> <count>
//	MULTFP: <rsSize> <latency> <count>
//	LoadStoreUnit: <lsqSize> <memLatency> <memSize>
//	RegFileInitData: <reg>=<value> ...
//	MemInitData: <byteAddr>=<value> ...
//	Instructions:
//	<one instruction per line>
func Parse(r io.Reader) (*Program, error) {
	cfg := core.DefaultConfig()
	arf := core.NewARF()
	mem := core.NewMemory()
	var program []insts.Raw

	sc := bufio.NewScanner(r)
	lineNo := 0
	inInstructions := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if inInstructions {
			raw, err := parseInstruction(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			program = append(program, raw)
			continue
		}

		directive, rest, _ := strings.Cut(line, ":")
		directive = strings.TrimSpace(directive)
		rest = strings.TrimSpace(rest)

		var err error
		switch directive {
		case "ROBEntries":
			cfg.ROBEntries, err = atoi(rest)
		case "CDBs":
			cfg.CDBs, err = atoi(rest)
		case "ALUI":
			err = parseUnit(rest, &cfg.IntALU)
		case "ALUFP":
			err = parseUnit(rest, &cfg.FPAdder)
		case "MULTFP":
			err = parseUnit(rest, &cfg.FPMultiply)
		case "LoadStoreUnit":
			err = parseLSQ(rest, &cfg.LoadStore)
		case "RegFileInitData":
			err = parseRegInit(rest, arf)
		case "MemInitData":
			err = parseMemInit(rest, mem)
		case "Instructions":
			inInstructions = true
		default:
			err = fmt.Errorf("unrecognized directive %q", directive)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	return &Program{Config: cfg, ARF: arf, Memory: mem, Instructions: program}, nil
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q: %w", s, err)
	}
	return n, nil
}

func parseUnit(rest string, out *core.UnitConfig) error {
	fields := strings.Fields(rest)
	if len(fields) != 3 {
		return fmt.Errorf("expected \"<rsSize> <latency> <count>\", got %q", rest)
	}
	size, err := atoi(fields[0])
	if err != nil {
		return err
	}
	latency, err := atoi(fields[1])
	if err != nil {
		return err
	}
	count, err := atoi(fields[2])
	if err != nil {
		return err
	}
	out.RSSize = size
	out.Latency = uint64(latency)
	out.Count = count
	return nil
}

func parseLSQ(rest string, out *core.LSQConfig) error {
	fields := strings.Fields(rest)
	if len(fields) != 3 {
		return fmt.Errorf("expected \"<lsqSize> <memLatency> <memSize>\", got %q", rest)
	}
	size, err := atoi(fields[0])
	if err != nil {
		return err
	}
	latency, err := atoi(fields[1])
	if err != nil {
		return err
	}
	memSize, err := atoi(fields[2])
	if err != nil {
		return err
	}
	out.Size = size
	out.MemLatency = uint64(latency)
	out.MemorySize = memSize
	return nil
}

func parseRegInit(rest string, arf *core.ARF) error {
	for _, pair := range strings.Fields(rest) {
		reg, val, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected \"<reg>=<value>\", got %q", pair)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("bad register value %q: %w", pair, err)
		}
		arf.Set(reg, v)
	}
	return nil
}

func parseMemInit(rest string, mem *core.Memory) error {
	for _, pair := range strings.Fields(rest) {
		addrStr, val, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected \"<byteAddr>=<value>\", got %q", pair)
		}
		addr, err := strconv.ParseInt(addrStr, 10, 64)
		if err != nil {
			return fmt.Errorf("bad memory address %q: %w", pair, err)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("bad memory value %q: %w", pair, err)
		}
		mem.InitWord(addr, v)
	}
	return nil
}

// parseInstruction parses a single instruction line: "ADD Rd Rs Rt",
// "ADDI Rd Rs imm", "LD Rt offset(Rs)", "BEQ Rs Rt offset", "NOP", etc.
func parseInstruction(line string) (insts.Raw, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) == 0 {
		return insts.Raw{}, fmt.Errorf("empty instruction line")
	}
	mnemonic := strings.ToUpper(fields[0])
	args := fields[1:]

	switch mnemonic {
	case "ADD", "SUB":
		return parseRRR(mnemonic, args)
	case "ADDI", "SUBI":
		return parseRRI(mnemonic, args)
	case "ADD.D", "SUB.D", "MULT.D":
		return parseRRR(mnemonic, args)
	case "LD", "SD":
		return parseMem(mnemonic, args)
	case "BEQ", "BNE":
		return parseBranch(mnemonic, args)
	case "NOP":
		return insts.Raw{Op: insts.NOP}, nil
	default:
		return insts.Raw{}, fmt.Errorf("unrecognized opcode %q", fields[0])
	}
}

func mnemonicOp(m string) insts.Op {
	switch m {
	case "ADD":
		return insts.ADD
	case "SUB":
		return insts.SUB
	case "ADDI":
		return insts.ADDI
	case "SUBI":
		return insts.SUBI
	case "ADD.D":
		return insts.ADDD
	case "SUB.D":
		return insts.SUBD
	case "MULT.D":
		return insts.MULTD
	case "LD":
		return insts.LD
	case "SD":
		return insts.SD
	case "BEQ":
		return insts.BEQ
	case "BNE":
		return insts.BNE
	default:
		return insts.OpUnknown
	}
}

func parseRRR(mnemonic string, args []string) (insts.Raw, error) {
	if len(args) != 3 {
		return insts.Raw{}, fmt.Errorf("%s expects 3 operands, got %d", mnemonic, len(args))
	}
	return insts.Raw{
		Op:   mnemonicOp(mnemonic),
		Dest: args[0],
		Src1: insts.RegOperand(args[1]),
		Src2: insts.RegOperand(args[2]),
	}, nil
}

func parseRRI(mnemonic string, args []string) (insts.Raw, error) {
	if len(args) != 3 {
		return insts.Raw{}, fmt.Errorf("%s expects 3 operands, got %d", mnemonic, len(args))
	}
	imm, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return insts.Raw{}, fmt.Errorf("%s: bad immediate %q: %w", mnemonic, args[2], err)
	}
	return insts.Raw{
		Op:   mnemonicOp(mnemonic),
		Dest: args[0],
		Src1: insts.RegOperand(args[1]),
		Src2: insts.ImmOperand(imm),
	}, nil
}

// parseMem handles "LD Rt offset(Rs)" / "SD Rt offset(Rs)". The named
// register carries the loaded-into (LD) or stored-from (SD) register; the
// core treats both uniformly as Raw.Dest.
func parseMem(mnemonic string, args []string) (insts.Raw, error) {
	if len(args) != 2 {
		return insts.Raw{}, fmt.Errorf("%s expects 2 operands, got %d", mnemonic, len(args))
	}
	disp, base, err := parseOffsetBase(args[1])
	if err != nil {
		return insts.Raw{}, fmt.Errorf("%s: %w", mnemonic, err)
	}
	return insts.Raw{
		Op:           mnemonicOp(mnemonic),
		Dest:         args[0],
		Src1:         insts.RegOperand(base),
		Displacement: disp,
	}, nil
}

// parseOffsetBase splits "offset(Rs)" into its integer displacement and base
// register name.
func parseOffsetBase(s string) (int64, string, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return 0, "", fmt.Errorf("expected \"offset(Reg)\", got %q", s)
	}
	dispStr := s[:open]
	base := s[open+1: len(s)-1]
	if dispStr == "" {
		dispStr = "0"
	}
	disp, err := strconv.ParseInt(dispStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("bad displacement in %q: %w", s, err)
	}
	return disp, base, nil
}

func parseBranch(mnemonic string, args []string) (insts.Raw, error) {
	if len(args) != 3 {
		return insts.Raw{}, fmt.Errorf("%s expects 3 operands, got %d", mnemonic, len(args))
	}
	offset, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return insts.Raw{}, fmt.Errorf("%s: bad branch offset %q: %w", mnemonic, args[2], err)
	}
	return insts.Raw{
		Op:           mnemonicOp(mnemonic),
		Src1:         insts.RegOperand(args[0]),
		Src2:         insts.RegOperand(args[1]),
		BranchOffset: offset,
	}, nil
}

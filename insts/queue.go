package insts

// Queue is the static instruction queue (IQ) that the orchestrator fetches
// from every cycle. It is ordered and carries its own PC; peek/fetch/empty
// honor a speculative "offset" so Issue can look past a branch before
// knowing whether it is taken.
type Queue struct {
	program []Raw
	pc      int
	decoder *Decoder
}

// NewQueue builds an instruction queue over a static program image.
func NewQueue(program []Raw) *Queue {
	return &Queue{
		program: program,
		decoder: NewDecoder(),
	}
}

// PC returns the current program-counter index.
func (q *Queue) PC() int { return q.pc }

// SetPC redirects the queue, used on misprediction recovery.
func (q *Queue) SetPC(pc int) { q.pc = pc }

// Empty reports whether there is no instruction at pc+offset.
func (q *Queue) Empty(offset int) bool {
	idx := q.pc + offset
	return idx < 0 || idx >= len(q.program)
}

// Peek returns the Raw tuple at pc+offset without decoding or advancing.
func (q *Queue) Peek(offset int) (Raw, bool) {
	idx := q.pc + offset
	if idx < 0 || idx >= len(q.program) {
		return Raw{}, false
	}
	return q.program[idx], true
}

// Fetch decodes (assigns an ID to) the instruction at pc+offset and
// advances pc by 1+offset.
func (q *Queue) Fetch(offset int) (*Instruction, bool) {
	raw, ok := q.Peek(offset)
	if !ok {
		return nil, false
	}
	q.pc += 1 + offset
	return q.decoder.Decode(raw), true
}

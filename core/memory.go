package core

import "fmt"

// MemoryWords is the number of 4-byte words in the simulated memory
// (256 addressable bytes).
const MemoryWords = 64

// MemoryBytes is the addressable byte range backing Memory.
const MemoryBytes = MemoryWords * 4

// CellKind records whether a memory word last received an integer or a
// floating-point write, purely so the final dump can format it. A write
// always fully overwrites both the value and the kind flag of the word it
// targets.
type CellKind uint8

// Cell kinds.
const (
	CellInt CellKind = iota
	CellFloat
)

// Memory is the word-addressed, byte-displacement-addressed simulated
// memory. Values are stored as float64 internally; CellKind records how the
// most recent write should be formatted.
type Memory struct {
	words [MemoryWords]float64
	kind  [MemoryWords]CellKind
}

// NewMemory returns a zeroed Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// wordIndex converts a byte address to a word index, panicking with a
// diagnostic naming the offending address on out-of-range access.
func wordIndex(byteAddr int64) int {
	if byteAddr < 0 || byteAddr%4 != 0 || byteAddr/4 >= MemoryWords {
		panic(fmt.Sprintf("tomasulo: memory access out of range: byte address %d", byteAddr))
	}
	return int(byteAddr / 4)
}

// ReadInt reads the word at byteAddr as an integer value.
func (m *Memory) ReadInt(byteAddr int64) int64 {
	return int64(m.words[wordIndex(byteAddr)])
}

// ReadFloat reads the word at byteAddr as a floating-point value.
func (m *Memory) ReadFloat(byteAddr int64) float64 {
	return m.words[wordIndex(byteAddr)]
}

// WriteInt stores an integer value at byteAddr and marks the word as
// integer-formatted.
func (m *Memory) WriteInt(byteAddr int64, v int64) {
	idx := wordIndex(byteAddr)
	m.words[idx] = float64(v)
	m.kind[idx] = CellInt
}

// WriteFloat stores a floating-point value at byteAddr and marks the word
// as float-formatted.
func (m *Memory) WriteFloat(byteAddr int64, v float64) {
	idx := wordIndex(byteAddr)
	m.words[idx] = v
	m.kind[idx] = CellFloat
}

// InitWord sets the initial contents of a word from the parsed
// MemInitData directive, inferring its kind from whether the
// value carries a fractional component.
func (m *Memory) InitWord(byteAddr int64, v float64) {
	idx := wordIndex(byteAddr)
	m.words[idx] = v
	if v == float64(int64(v)) {
		m.kind[idx] = CellInt
	} else {
		m.kind[idx] = CellFloat
	}
}

// NonZeroWord describes a single non-zero memory word for the final dump.
type NonZeroWord struct {
	Index int
	Kind  CellKind
	Value float64
}

// NonZeroWords returns every non-zero word in ascending index order, for the
// "Memory Unit" section of the output file.
func (m *Memory) NonZeroWords() []NonZeroWord {
	var out []NonZeroWord
	for i, v := range m.words {
		if v != 0 {
			out = append(out, NonZeroWord{Index: i, Kind: m.kind[i], Value: v})
		}
	}
	return out
}

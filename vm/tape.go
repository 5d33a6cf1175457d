package vm

import (
	"github.com/cloudcmds/tapevm/errors"
)

// Tape is the byte memory a program operates on. To the program the pointer
// appears to be signed and the tape unbounded in both directions; internally
// the pointer is a non-negative index into a growable slice, with the
// distance grown to the left stored separately. The invariant is:
//
//	logical address = index - offset
//
// offset only ever increases, and index stays within [0, len) after every
// operation. The tape starts as a single zero cell at logical address 0.
type Tape struct {
	cells  []byte
	index  int
	offset int
}

// NewTape creates a tape holding one zero cell.
func NewTape() *Tape {
	return &Tape{cells: make([]byte, 1)}
}

// Add adds delta to the current cell, wrapping modulo 256.
func (t *Tape) Add(delta byte) {
	t.cells[t.index] += delta
}

// Cell returns the value of the current cell.
func (t *Tape) Cell() byte {
	return t.cells[t.index]
}

// SetCell sets the value of the current cell.
func (t *Tape) SetCell(value byte) {
	t.cells[t.index] = value
}

// Len returns the current tape length in bytes.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Logical returns the signed logical address of the pointer.
func (t *Tape) Logical() int {
	return t.index - t.offset
}

// Move displaces the pointer by delta cells, growing the tape with zero
// cells in whichever direction is required. Growth that would make the tape
// exceed maxBytes fails without partially extending the tape.
func (t *Tape) Move(delta int, maxBytes int) error {
	if delta >= 0 {
		index := t.index + delta
		if index >= len(t.cells) {
			newLen := index + 1
			if newLen > maxBytes {
				return errors.NewMemoryLimitError(int64(maxBytes))
			}
			t.cells = append(t.cells, make([]byte, newLen-len(t.cells))...)
		}
		t.index = index
		return nil
	}

	need := -delta
	if t.index >= need {
		t.index -= need
		return nil
	}

	// The move steps left of the tape's current left edge: grow leftward
	// and account for it in the offset, keeping the internal index
	// non-negative while the logical address goes negative.
	grow := need - t.index
	newLen := len(t.cells) + grow
	if newLen > maxBytes {
		return errors.NewMemoryLimitError(int64(maxBytes))
	}
	cells := make([]byte, newLen)
	copy(cells[grow:], t.cells)
	t.cells = cells
	t.offset += grow
	t.index = 0
	return nil
}

// Package history keeps the undo and redo stacks of the editing surface.
// Each entry is a JSON snapshot of some fields of a row, taken before the
// row was changed.
package history

import (
	"encoding/json"
	"errors"
	"sync"
)

var (
	// ErrNothingToUndo is returned by Undo on an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned by Redo on an empty redo stack.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Snapshot maps row field names to their values.
type Snapshot map[string]any

// History is a pair of undo/redo stacks. The zero value is ready to use and
// safe for concurrent use.
type History struct {
	mu   sync.Mutex
	undo [][]byte
	redo [][]byte
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Add records the values a row held before a change and clears the redo
// stack.
func (h *History) Add(prior Snapshot) error {
	data, err := json.Marshal(prior)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = append(h.undo, data)
	h.redo = nil
	return nil
}

// CanUndo reports whether Undo has anything to return.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether Redo has anything to return.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// Undo pops the latest snapshot and returns it for the caller to re-apply.
// The current values of the same fields, taken from current, are pushed
// onto the redo stack; fields missing from current are recorded as null.
func (h *History) Undo(current Snapshot) (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return swap(&h.undo, &h.redo, current, ErrNothingToUndo)
}

// Redo is the mirror of Undo: it pops the latest redo snapshot and pushes
// the current values of its fields onto the undo stack.
func (h *History) Redo(current Snapshot) (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return swap(&h.redo, &h.undo, current, ErrNothingToRedo)
}

func swap(from, to *[][]byte, current Snapshot, empty error) (Snapshot, error) {
	n := len(*from)
	if n == 0 {
		return nil, empty
	}

	var popped Snapshot
	if err := json.Unmarshal((*from)[n-1], &popped); err != nil {
		return nil, err
	}

	now := make(Snapshot, len(popped))
	for key := range popped {
		now[key] = current[key]
	}
	data, err := json.Marshal(now)
	if err != nil {
		return nil, err
	}

	*from = (*from)[:n-1]
	*to = append(*to, data)
	return popped, nil
}

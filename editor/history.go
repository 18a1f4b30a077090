package editor

import (
	"encoding/json"
	"time"
)

// DefaultHistoryDepth bounds the undo stack.
const DefaultHistoryDepth = 50

// Snapshot is an encoded State captured before a mutation.
type Snapshot struct {
	Blob []byte
	TS   time.Time
}

// History is a linear undo/redo stack of whole-state snapshots. The oldest
// snapshot is dropped once depth is exceeded and any new push clears redo.
// It is not safe for concurrent use; the Editor lock guards it.
type History struct {
	depth int
	undo  []Snapshot
	redo  []Snapshot
}

// NewHistory returns a history holding at most depth undo snapshots.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &History{depth: depth}
}

// State holds only strings, ints and maps of them, so encoding cannot fail
// and every blob decodes.
func encodeSnapshot(s *State) Snapshot {
	blob, _ := json.Marshal(s)
	return Snapshot{Blob: blob, TS: time.Now()}
}

func decodeSnapshot(snap Snapshot) *State {
	s := &State{}
	_ = json.Unmarshal(snap.Blob, s)
	s.normalize()
	return s
}

// Push records s as the state to return to and clears redo.
func (h *History) Push(s *State) {
	h.undo = append(h.undo, encodeSnapshot(s))
	if over := len(h.undo) - h.depth; over > 0 {
		h.undo = append([]Snapshot{}, h.undo[over:]...)
	}
	h.redo = nil
}

// Undo returns the previous state and stores current for Redo.
func (h *History) Undo(current *State) (*State, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	snap := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, encodeSnapshot(current))
	return decodeSnapshot(snap), true
}

// Redo returns the state most recently undone and stores current for Undo.
func (h *History) Redo(current *State) (*State, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	snap := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, encodeSnapshot(current))
	return decodeSnapshot(snap), true
}

// CanUndo reports whether Undo has a snapshot.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo has a snapshot.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// HistoryStats describes the stacks for diagnostics.
type HistoryStats struct {
	Undo  int `json:"undo"`
	Redo  int `json:"redo"`
	Bytes int `json:"bytes"`
}

// Stats returns stack sizes.
func (h *History) Stats() HistoryStats {
	st := HistoryStats{Undo: len(h.undo), Redo: len(h.redo)}
	for _, s := range h.undo {
		st.Bytes += len(s.Blob)
	}
	for _, s := range h.redo {
		st.Bytes += len(s.Blob)
	}
	return st
}

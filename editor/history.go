package editor

import "phosmap/diagram"

// History manages undo/redo using direct document snapshots.
type History struct {
	states  []*diagram.Document
	current int
	max     int
}

// NewHistory creates a history keeping at most max states.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{
		states:  make([]*diagram.Document, 0, max),
		current: -1,
		max:     max,
	}
}

// SaveState records a deep copy of the document as the newest state,
// discarding any redo tail.
func (h *History) SaveState(d *diagram.Document) {
	clone := d.Clone()

	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}

	h.states = append(h.states, clone)

	if len(h.states) > h.max {
		h.states = h.states[1:]
	} else {
		h.current++
	}
}

// CanUndo returns true if an earlier state exists.
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if a later state exists.
func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo steps back one state. Returns nil when there is nothing to undo.
func (h *History) Undo() *diagram.Document {
	if !h.CanUndo() {
		return nil
	}
	h.current--
	// Clone so later edits cannot corrupt the stored state.
	return h.states[h.current].Clone()
}

// Redo steps forward one state. Returns nil when there is nothing to redo.
func (h *History) Redo() *diagram.Document {
	if !h.CanRedo() {
		return nil
	}
	h.current++
	return h.states[h.current].Clone()
}

// Clear drops all stored states.
func (h *History) Clear() {
	h.states = h.states[:0]
	h.current = -1
}

// Package editor implements the interaction core of the pathway viewer: the
// selection manager, the pointer/keyboard dispatcher, the alignment engine
// and undo/redo history, tied together by a Session.
package editor

// SelectionState classifies the current selection.
type SelectionState int

const (
	SelectionEmpty SelectionState = iota
	SelectionSingle
	SelectionMulti
)

// String returns the state name for display.
func (s SelectionState) String() string {
	switch s {
	case SelectionEmpty:
		return "EMPTY"
	case SelectionSingle:
		return "SINGLE"
	case SelectionMulti:
		return "MULTI"
	default:
		return "UNKNOWN"
	}
}

// Selection tracks the currently selected top-level entity ids. Order is
// preserved: it is the tie-break for alignment operations.
type Selection struct {
	ids []string
	set map[string]bool
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{set: make(map[string]bool)}
}

// State returns Empty, Single or Multi.
func (s *Selection) State() SelectionState {
	switch len(s.ids) {
	case 0:
		return SelectionEmpty
	case 1:
		return SelectionSingle
	default:
		return SelectionMulti
	}
}

// Len returns the number of selected entities.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	return s.set[id]
}

// Replace makes id the sole selection.
func (s *Selection) Replace(id string) {
	s.ids = s.ids[:0]
	clear(s.set)
	s.ids = append(s.ids, id)
	s.set[id] = true
}

// Add unions id into the selection (additive-modifier click). Adding an
// already-selected id is a no-op.
func (s *Selection) Add(id string) {
	if s.set[id] {
		return
	}
	s.ids = append(s.ids, id)
	s.set[id] = true
}

// SetAll replaces the selection with the given ids (marquee commit).
func (s *Selection) SetAll(ids []string) {
	s.ids = s.ids[:0]
	clear(s.set)
	for _, id := range ids {
		if s.set[id] {
			continue
		}
		s.ids = append(s.ids, id)
		s.set[id] = true
	}
}

// Remove drops id from the selection if present. Deleting a selected entity
// must never leave a stale id behind.
func (s *Selection) Remove(id string) {
	if !s.set[id] {
		return
	}
	delete(s.set, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

// Clear empties the selection (Escape, click on empty canvas).
func (s *Selection) Clear() {
	s.ids = s.ids[:0]
	clear(s.set)
}

package editor

import (
	"errors"

	"go.uber.org/zap"

	"phosmap/diagram"
	"phosmap/viewport"
)

// Session is the interaction context for one loaded diagram: the entity
// store, the current selection, the viewport and the undo history. It is
// created on document load and torn down on navigation; nothing in here is
// ambient global state. All mutation flows through Session commands so the
// selection can never hold a stale id.
type Session struct {
	store   *diagram.Store
	sel     *Selection
	view    *viewport.Viewport
	history *History
	log     *zap.Logger

	// selectMode disambiguates the empty-canvas press: marquee when set,
	// pan otherwise.
	selectMode bool

	// banner is a non-fatal user-visible notice (e.g. fallback document in
	// use). The render layer displays it; the session never acts on it.
	banner string

	gesture        gestureKind
	lastX, lastY   float64 // screen position of the previous pointer event
	marqueeAnchor  point
	marqueeCorner  point
	dragMoved      bool
	pressedID      string // entity under the pointer at gesture start
	pressedAddMode bool   // additive modifier held at gesture start
}

type point struct{ x, y float64 }

// NewSession creates a session for the given document. The base size is the
// world extent visible at zoom 1.0. A nil logger disables logging.
func NewSession(doc *diagram.Document, baseW, baseH float64, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		store:   diagram.NewStore(doc),
		sel:     NewSelection(),
		view:    viewport.New(baseW, baseH),
		history: NewHistory(100),
		log:     log,
	}
	s.history.SaveState(doc)
	return s
}

// Store returns the entity store.
func (s *Session) Store() *diagram.Store { return s.store }

// Selection returns the selection manager.
func (s *Session) Selection() *Selection { return s.sel }

// Viewport returns the viewport controller.
func (s *Session) Viewport() *viewport.Viewport { return s.view }

// Banner returns the current non-fatal notice, empty when there is none.
func (s *Session) Banner() string { return s.banner }

// SetBanner sets the non-fatal notice shown by the render layer.
func (s *Session) SetBanner(msg string) { s.banner = msg }

// SelectMode reports whether an empty-canvas drag starts a marquee (true)
// or a pan (false).
func (s *Session) SelectMode() bool { return s.selectMode }

// SetSelectMode switches between marquee and pan behavior for empty-canvas
// drags. The mode of a gesture already in progress is not re-evaluated.
func (s *Session) SetSelectMode(on bool) { s.selectMode = on }

// ClearSelection empties the selection (Escape).
func (s *Session) ClearSelection() {
	s.sel.Clear()
}

// ResetView restores zoom 1.0 and origin (0,0).
func (s *Session) ResetView() {
	s.view.Reset()
}

// Nudge shifts every selected entity by the given world delta (arrow keys:
// ±1, or ±10 with Shift). No-op on an empty selection.
func (s *Session) Nudge(dx, dy float64) {
	if s.sel.Len() == 0 {
		return
	}
	for _, id := range s.sel.IDs() {
		if err := s.store.MoveEntity(id, dx, dy); err != nil {
			s.log.Warn("nudge rejected", zap.String("id", id), zap.Error(err))
		}
	}
	s.history.SaveState(s.store.Document())
}

// GroupSelection creates a group from the current selection and selects it.
// Needs at least two selected entities.
func (s *Session) GroupSelection() (string, error) {
	if s.sel.Len() < 2 {
		return "", nil
	}
	id, _, err := s.store.CreateGroup(s.sel.IDs())
	if err != nil {
		s.log.Warn("group rejected", zap.Error(err))
		return "", err
	}
	// Replacing the selection with the new group also drops any donor group
	// that was dissolved by the member move.
	s.sel.Replace(id)
	s.history.SaveState(s.store.Document())
	return id, nil
}

// DissolveSelection dissolves the selected group, selecting its direct
// members in its place. Only a single selected group qualifies.
func (s *Session) DissolveSelection() error {
	if s.sel.State() != SelectionSingle {
		return nil
	}
	id := s.sel.IDs()[0]
	g, ok := s.store.Group(id)
	if !ok {
		return nil
	}
	if err := s.store.DissolveGroup(id); err != nil {
		s.log.Warn("dissolve rejected", zap.String("id", id), zap.Error(err))
		return err
	}
	s.sel.SetAll(g.Members)
	s.history.SaveState(s.store.Document())
	return nil
}

// DeleteSelection deletes every selected entity, cascading per the store's
// rules, and prunes the selection of everything that went away.
func (s *Session) DeleteSelection() {
	if s.sel.Len() == 0 {
		return
	}
	for _, id := range s.sel.IDs() {
		if !s.store.Has(id) {
			// already cascaded away by an earlier delete in this batch
			s.sel.Remove(id)
			continue
		}
		removed, err := s.store.DeleteEntity(id)
		if err != nil {
			if !errors.Is(err, diagram.ErrInvalidReference) {
				s.log.Warn("delete rejected", zap.String("id", id), zap.Error(err))
			}
			continue
		}
		for _, r := range removed {
			s.sel.Remove(r)
		}
		s.sel.Remove(id)
	}
	s.history.SaveState(s.store.Document())
}

// CycleSelection rotates the displayed protein of the selected box
// (right-click on a multi-protein box in the original viewer).
func (s *Session) CycleSelection() {
	if s.sel.State() != SelectionSingle {
		return
	}
	id := s.sel.IDs()[0]
	if err := s.store.CycleProteins(id); err != nil {
		return
	}
	s.history.SaveState(s.store.Document())
}

// Undo restores the previous document state. Selection is cleared; the
// viewport is deliberately untouched.
func (s *Session) Undo() bool {
	doc := s.history.Undo()
	if doc == nil {
		return false
	}
	s.store.Replace(doc)
	s.sel.Clear()
	return true
}

// Redo re-applies an undone document state.
func (s *Session) Redo() bool {
	doc := s.history.Redo()
	if doc == nil {
		return false
	}
	s.store.Replace(doc)
	s.sel.Clear()
	return true
}

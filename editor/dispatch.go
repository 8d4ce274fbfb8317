package editor

import (
	"go.uber.org/zap"

	"phosmap/geometry"
)

// gestureKind identifies the one gesture a pointer sequence is committed to.
// Exactly one of drag, pan or marquee is active within a gesture; the kind is
// fixed at pointer-down and never re-evaluated mid-gesture.
type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gesturePan
	gestureMarquee
)

// PointerDown routes a pointer press. Screen coordinates; additive is the
// modifier that unions entities into the selection instead of replacing it.
func (s *Session) PointerDown(sx, sy float64, additive bool) {
	s.lastX, s.lastY = sx, sy
	s.dragMoved = false

	world := s.view.ToWorld(sx, sy)
	if id, ok := s.hitTest(world); ok {
		if additive && s.sel.Len() > 0 {
			s.sel.Add(id)
		} else if !s.sel.Contains(id) {
			// Pressing an already-selected entity keeps the selection so a
			// multi-selection can be dragged as one; a release without
			// movement collapses it (see PointerUp).
			s.sel.Replace(id)
		}
		s.gesture = gestureDrag
		s.pressedID = id
		s.pressedAddMode = additive
		return
	}

	// Empty canvas.
	if !additive {
		s.sel.Clear()
	}
	if s.selectMode {
		s.gesture = gestureMarquee
		s.marqueeAnchor = point{x: world.X, y: world.Y}
		s.marqueeCorner = s.marqueeAnchor
	} else {
		s.gesture = gesturePan
	}
}

// PointerMove routes pointer motion according to the gesture fixed at
// pointer-down.
func (s *Session) PointerMove(sx, sy float64) {
	dx, dy := sx-s.lastX, sy-s.lastY
	s.lastX, s.lastY = sx, sy

	switch s.gesture {
	case gestureDrag:
		if s.sel.Len() == 0 {
			return
		}
		zoom := s.view.Zoom
		for _, id := range s.sel.IDs() {
			if err := s.store.MoveEntity(id, dx/zoom, dy/zoom); err != nil {
				s.log.Warn("drag rejected", zap.String("id", id), zap.Error(err))
			}
		}
		s.dragMoved = true

	case gesturePan:
		// Dragging the canvas right moves the view window left.
		s.view.PanBy(-dx, -dy)

	case gestureMarquee:
		w := s.view.ToWorld(sx, sy)
		s.marqueeCorner = point{x: w.X, y: w.Y}
	}
}

// PointerUp ends the gesture: a finished drag is committed to history, a
// finished marquee becomes the selection.
func (s *Session) PointerUp(sx, sy float64) {
	switch s.gesture {
	case gestureDrag:
		if s.dragMoved {
			s.history.SaveState(s.store.Document())
		} else if !s.pressedAddMode {
			// A plain click that never turned into a drag selects just the
			// pressed entity.
			s.sel.Replace(s.pressedID)
		}

	case gestureMarquee:
		w := s.view.ToWorld(sx, sy)
		s.marqueeCorner = point{x: w.X, y: w.Y}
		rect := geometry.RectFromPoints(
			geometry.Point{X: s.marqueeAnchor.x, Y: s.marqueeAnchor.y},
			geometry.Point{X: s.marqueeCorner.x, Y: s.marqueeCorner.y},
		)
		s.sel.SetAll(s.entitiesIntersecting(rect))
	}
	s.gesture = gestureNone
	s.dragMoved = false
}

// Wheel zooms about the pointer position.
func (s *Session) Wheel(in bool, sx, sy float64) {
	focal := geometry.Point{X: sx, Y: sy}
	if in {
		s.view.ZoomIn(&focal)
	} else {
		s.view.ZoomOut(&focal)
	}
}

// MarqueeRect returns the marquee rectangle in world coordinates while a
// marquee gesture is in progress.
func (s *Session) MarqueeRect() (geometry.Rect, bool) {
	if s.gesture != gestureMarquee {
		return geometry.Rect{}, false
	}
	return geometry.RectFromPoints(
		geometry.Point{X: s.marqueeAnchor.x, Y: s.marqueeAnchor.y},
		geometry.Point{X: s.marqueeCorner.x, Y: s.marqueeCorner.y},
	), true
}

// hitTest resolves a world point to the top-level entity under it. Boxes win
// over group outlines, and a hit on a grouped box selects its outermost
// group: members are not individually addressable until ungrouped.
func (s *Session) hitTest(p geometry.Point) (string, bool) {
	doc := s.store.Document()
	for i := len(doc.Boxes) - 1; i >= 0; i-- {
		if doc.Boxes[i].Bounds().Contains(p) {
			return s.store.TopLevel(doc.Boxes[i].ID), true
		}
	}
	for i := len(doc.Groups) - 1; i >= 0; i-- {
		id := doc.Groups[i].ID
		if s.store.TopLevel(id) != id {
			continue
		}
		if b, ok := s.store.Bounds(id); ok && b.Contains(p) {
			return id, true
		}
	}
	return "", false
}

// entitiesIntersecting returns every top-level entity whose bounding box
// intersects the rectangle. Intersection, not containment: a box half inside
// the marquee is selected.
func (s *Session) entitiesIntersecting(rect geometry.Rect) []string {
	var ids []string
	for _, id := range s.store.TopLevelIDs() {
		if b, ok := s.store.Bounds(id); ok && b.Intersects(rect) {
			ids = append(ids, id)
		}
	}
	return ids
}

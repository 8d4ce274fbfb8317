package editor

import (
	"sort"

	"go.uber.org/zap"

	"phosmap/geometry"
)

// AlignOp identifies an alignment or distribution operation.
type AlignOp int

const (
	AlignLeft AlignOp = iota
	AlignTop
	AlignCenterX // common horizontal center
	AlignCenterY // common vertical center
	DistributeHorizontally
	DistributeVertically
)

// String returns the operation name for display.
func (op AlignOp) String() string {
	switch op {
	case AlignLeft:
		return "align-left"
	case AlignTop:
		return "align-top"
	case AlignCenterX:
		return "align-center-x"
	case AlignCenterY:
		return "align-center-y"
	case DistributeHorizontally:
		return "distribute-h"
	case DistributeVertically:
		return "distribute-v"
	default:
		return "unknown"
	}
}

// alignTarget pairs an entity with its bounds at the time the batch was
// computed.
type alignTarget struct {
	id     string
	bounds geometry.Rect
	order  int // selection order, the stable tie-break
}

// AlignSelection applies an alignment operation to the current selection.
// Empty and single selections have nothing to align and are a no-op. The
// operation is computed as a batch of move deltas against a snapshot of the
// bounds, then applied in one go.
func (s *Session) AlignSelection(op AlignOp) {
	ids := s.sel.IDs()
	if len(ids) < 2 {
		return
	}

	targets := make([]alignTarget, 0, len(ids))
	for i, id := range ids {
		b, ok := s.store.Bounds(id)
		if !ok {
			s.log.Warn("align skipped unresolved entity", zap.String("id", id))
			return
		}
		targets = append(targets, alignTarget{id: id, bounds: b, order: i})
	}

	deltas := computeAlignment(op, targets)
	for i, t := range targets {
		d := deltas[i]
		if d.X == 0 && d.Y == 0 {
			continue
		}
		if err := s.store.MoveEntity(t.id, d.X, d.Y); err != nil {
			s.log.Warn("align move rejected", zap.String("id", t.id), zap.Error(err))
		}
	}
	s.history.SaveState(s.store.Document())
}

// computeAlignment returns one move delta per target, index-aligned with the
// input.
func computeAlignment(op AlignOp, targets []alignTarget) []geometry.Point {
	deltas := make([]geometry.Point, len(targets))

	switch op {
	case AlignLeft:
		minX := targets[0].bounds.X
		for _, t := range targets[1:] {
			if t.bounds.X < minX {
				minX = t.bounds.X
			}
		}
		for i, t := range targets {
			deltas[i].X = minX - t.bounds.X
		}

	case AlignTop:
		minY := targets[0].bounds.Y
		for _, t := range targets[1:] {
			if t.bounds.Y < minY {
				minY = t.bounds.Y
			}
		}
		for i, t := range targets {
			deltas[i].Y = minY - t.bounds.Y
		}

	case AlignCenterX:
		var sum float64
		for _, t := range targets {
			sum += t.bounds.Center().X
		}
		mean := sum / float64(len(targets))
		for i, t := range targets {
			deltas[i].X = mean - t.bounds.Center().X
		}

	case AlignCenterY:
		var sum float64
		for _, t := range targets {
			sum += t.bounds.Center().Y
		}
		mean := sum / float64(len(targets))
		for i, t := range targets {
			deltas[i].Y = mean - t.bounds.Center().Y
		}

	case DistributeHorizontally:
		distribute(targets, deltas, true)

	case DistributeVertically:
		distribute(targets, deltas, false)
	}

	return deltas
}

// distribute spaces the sorted centers evenly between the min and max
// center, preserving the sorted order. Equal positions keep their original
// selection order.
func distribute(targets []alignTarget, deltas []geometry.Point, horizontal bool) {
	if len(targets) < 3 {
		return
	}

	center := func(t alignTarget) float64 {
		if horizontal {
			return t.bounds.Center().X
		}
		return t.bounds.Center().Y
	}

	idx := make([]int, len(targets))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ca, cb := center(targets[idx[a]]), center(targets[idx[b]])
		if ca != cb {
			return ca < cb
		}
		return targets[idx[a]].order < targets[idx[b]].order
	})

	first := center(targets[idx[0]])
	last := center(targets[idx[len(idx)-1]])
	step := (last - first) / float64(len(idx)-1)

	for pos, i := range idx {
		want := first + step*float64(pos)
		if horizontal {
			deltas[i].X = want - center(targets[i])
		} else {
			deltas[i].Y = want - center(targets[i])
		}
	}
}

package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phosmap/diagram"
)

func alignDocument() *diagram.Document {
	return &diagram.Document{
		Boxes: []diagram.ProtBox{
			{ID: "pb1", X: 100, Y: 100, Width: 40, Height: 20},
			{ID: "pb2", X: 200, Y: 150, Width: 40, Height: 20},
			{ID: "pb3", X: 400, Y: 50, Width: 40, Height: 20},
		},
		Proteins: map[string]diagram.ProteinRecord{},
		Settings: diagram.DefaultSettings(),
	}
}

func newAlignSession() *Session {
	return NewSession(alignDocument(), 800, 600, nil)
}

func box(t *testing.T, s *Session, id string) diagram.ProtBox {
	t.Helper()
	b, ok := s.Store().Box(id)
	require.True(t, ok)
	return b
}

func TestAlignLeft(t *testing.T) {
	s := newAlignSession()
	s.Selection().SetAll([]string{"pb1", "pb2"})

	s.AlignSelection(AlignLeft)

	assert.Equal(t, 100.0, box(t, s, "pb1").X)
	assert.Equal(t, 100.0, box(t, s, "pb2").X)
	assert.Equal(t, 150.0, box(t, s, "pb2").Y, "align-left must not touch y")
	assert.Equal(t, 400.0, box(t, s, "pb3").X, "unselected entities stay put")
}

func TestAlignTop(t *testing.T) {
	s := newAlignSession()
	s.Selection().SetAll([]string{"pb1", "pb2", "pb3"})

	s.AlignSelection(AlignTop)

	for _, id := range []string{"pb1", "pb2", "pb3"} {
		assert.Equal(t, 50.0, box(t, s, id).Y, id)
	}
}

func TestAlignCenterXUsesMean(t *testing.T) {
	s := newAlignSession()
	s.Selection().SetAll([]string{"pb1", "pb2", "pb3"})

	// Centers: 120, 220, 420 -> mean 253.333...
	s.AlignSelection(AlignCenterX)

	mean := (120.0 + 220.0 + 420.0) / 3
	for _, id := range []string{"pb1", "pb2", "pb3"} {
		b := box(t, s, id)
		assert.InDelta(t, mean, b.X+b.Width/2, 1e-9, id)
	}
}

func TestDistributeHorizontally(t *testing.T) {
	s := newAlignSession()
	s.Selection().SetAll([]string{"pb3", "pb1", "pb2"}) // selection order is not positional

	s.AlignSelection(DistributeHorizontally)

	// Sorted centers 120, 220, 420 spread evenly: 120, 270, 420.
	assert.InDelta(t, 120.0, box(t, s, "pb1").X+20, 1e-9)
	assert.InDelta(t, 270.0, box(t, s, "pb2").X+20, 1e-9)
	assert.InDelta(t, 420.0, box(t, s, "pb3").X+20, 1e-9)
}

func TestDistributePreservesSortedOrder(t *testing.T) {
	s := newAlignSession()
	s.Selection().SetAll([]string{"pb1", "pb2", "pb3"})

	s.AlignSelection(DistributeVertically)

	// Sorted centers 60 (pb3), 110 (pb1), 160 (pb2) are already even.
	assert.InDelta(t, 50.0, box(t, s, "pb3").Y, 1e-9)
	assert.InDelta(t, 100.0, box(t, s, "pb1").Y, 1e-9)
	assert.InDelta(t, 150.0, box(t, s, "pb2").Y, 1e-9)
}

func TestAlignNoopOnEmptyAndSingle(t *testing.T) {
	s := newAlignSession()

	s.AlignSelection(AlignLeft)
	assert.Equal(t, 100.0, box(t, s, "pb1").X)

	s.Selection().Replace("pb2")
	s.AlignSelection(AlignLeft)
	assert.Equal(t, 200.0, box(t, s, "pb2").X)
}

func TestAlignMovesGroupsAsRigidBodies(t *testing.T) {
	s := newAlignSession()
	s.Selection().SetAll([]string{"pb1", "pb2"})
	gid, err := s.GroupSelection()
	require.NoError(t, err)

	s.Selection().SetAll([]string{gid, "pb3"})
	s.AlignSelection(AlignTop)

	// Group bounds start at y=100; aligning to pb3's y=50 shifts both
	// members by -50 while keeping their relative offset.
	assert.Equal(t, 50.0, box(t, s, "pb1").Y)
	assert.Equal(t, 100.0, box(t, s, "pb2").Y)
	assert.Equal(t, 50.0, box(t, s, "pb3").Y)
}

func TestAlignIsUndoableAsOneStep(t *testing.T) {
	s := newAlignSession()
	s.Selection().SetAll([]string{"pb1", "pb2", "pb3"})
	s.AlignSelection(AlignTop)
	require.Equal(t, 50.0, box(t, s, "pb1").Y)

	require.True(t, s.Undo())
	assert.Equal(t, 100.0, box(t, s, "pb1").Y)
	assert.Equal(t, 150.0, box(t, s, "pb2").Y)
}

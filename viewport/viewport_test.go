package viewport

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"phosmap/geometry"
)

func TestZoomClampsAtUpperBound(t *testing.T) {
	v := New(800, 600)
	assert.Equal(t, 1.0, v.Zoom)

	// Repeated zoom-in pins at the upper bound instead of exceeding it.
	for i := 0; i < 20; i++ {
		v.ZoomIn(nil)
		assert.LessOrEqual(t, v.Zoom, MaxZoom)
	}
	assert.Equal(t, MaxZoom, v.Zoom)

	// At the boundary every further zoom-in is a silent no-op.
	v.ZoomIn(nil)
	assert.Equal(t, MaxZoom, v.Zoom)
}

func TestZoomClampsAtLowerBound(t *testing.T) {
	v := New(800, 600)
	for i := 0; i < 20; i++ {
		v.ZoomOut(nil)
		assert.GreaterOrEqual(t, v.Zoom, MinZoom)
	}
	assert.Equal(t, MinZoom, v.Zoom)
}

func TestZoomStaysInBoundsUnderRandomWheel(t *testing.T) {
	v := New(800, 600)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		if rng.Intn(2) == 0 {
			v.ZoomIn(nil)
		} else {
			v.ZoomOut(nil)
		}
		assert.GreaterOrEqual(t, v.Zoom, MinZoom)
		assert.LessOrEqual(t, v.Zoom, MaxZoom)
	}
}

func TestExtentIsBaseOverZoom(t *testing.T) {
	v := New(800, 600)
	v.ZoomIn(nil)
	w, h := v.Extent()
	assert.InDelta(t, 800/v.Zoom, w, 1e-9)
	assert.InDelta(t, 600/v.Zoom, h, 1e-9)
}

func TestZoomDoesNotMoveOriginWithoutFocal(t *testing.T) {
	v := New(800, 600)
	v.OriginX, v.OriginY = 50, 70
	v.ZoomIn(nil)
	assert.Equal(t, 50.0, v.OriginX)
	assert.Equal(t, 70.0, v.OriginY)
}

func TestZoomKeepsFocalPointFixed(t *testing.T) {
	v := New(800, 600)
	v.OriginX, v.OriginY = 100, 100

	focal := geometry.Point{X: 200, Y: 150}
	before := v.ToWorld(focal.X, focal.Y)
	v.ZoomIn(&focal)
	after := v.ToWorld(focal.X, focal.Y)

	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestPanRoundTrip(t *testing.T) {
	v := New(800, 600)
	v.ZoomIn(nil)
	v.OriginX, v.OriginY = 12.5, -7.25

	ox, oy := v.OriginX, v.OriginY
	v.PanBy(33, -17)
	v.PanBy(-33, 17)
	assert.Equal(t, ox, v.OriginX)
	assert.Equal(t, oy, v.OriginY)
}

func TestPanDividesByZoom(t *testing.T) {
	v := New(800, 600)
	v.Zoom = 2.0
	v.PanBy(10, 20)
	assert.Equal(t, 5.0, v.OriginX)
	assert.Equal(t, 10.0, v.OriginY)
}

func TestPanDoesNotChangeZoom(t *testing.T) {
	v := New(800, 600)
	v.ZoomIn(nil)
	z := v.Zoom
	v.PanBy(100, 100)
	assert.Equal(t, z, v.Zoom)
}

func TestReset(t *testing.T) {
	v := New(800, 600)
	v.ZoomIn(nil)
	v.PanBy(40, 40)
	v.Reset()
	assert.Equal(t, 1.0, v.Zoom)
	assert.Equal(t, 0.0, v.OriginX)
	assert.Equal(t, 0.0, v.OriginY)
}

func TestWorldScreenRoundTrip(t *testing.T) {
	v := New(800, 600)
	v.Zoom = 1.6
	v.OriginX, v.OriginY = 30, 40

	p := geometry.Point{X: 123, Y: 456}
	sx, sy := v.ToScreen(p)
	back := v.ToWorld(sx, sy)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestVisibleTracksOriginAndZoom(t *testing.T) {
	v := New(800, 600)
	v.PanBy(50, 25)
	assert.Equal(t, geometry.Rect{X: 50, Y: 25, W: 800, H: 600}, v.Visible())

	v.Zoom = 2.0
	r := v.Visible()
	assert.Equal(t, 400.0, r.W)
	assert.Equal(t, 300.0, r.H)
}

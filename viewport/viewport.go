// Package viewport owns the pan/zoom transform between world coordinates
// (pathway pixels) and screen coordinates.
package viewport

import "phosmap/geometry"

// Zoom bounds and wheel step factors, matching the pathway viewer.
const (
	MinZoom = 0.5
	MaxZoom = 2.0

	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// Viewport holds the visible window over the world. Origin and zoom are
// orthogonal: panning never changes the zoom level and zooming never changes
// the origin except to hold a focal point steady. The visible extent is
// always base size divided by zoom.
type Viewport struct {
	OriginX, OriginY float64 // world coordinate of the top-left screen corner
	BaseW, BaseH     float64 // extent at zoom 1.0
	Zoom             float64
}

// New returns a viewport at zoom 1.0 with origin (0,0).
func New(baseW, baseH float64) *Viewport {
	return &Viewport{BaseW: baseW, BaseH: baseH, Zoom: 1.0}
}

// ZoomIn zooms by one wheel step toward the optional focal screen point.
func (v *Viewport) ZoomIn(focal *geometry.Point) {
	v.zoomBy(zoomInFactor, focal)
}

// ZoomOut zooms out by one wheel step about the optional focal screen point.
func (v *Viewport) ZoomOut(focal *geometry.Point) {
	v.zoomBy(zoomOutFactor, focal)
}

// zoomBy multiplies the zoom level, clamped to [MinZoom, MaxZoom]. At the
// clamp boundary the call is a silent no-op rather than an error. When a
// focal screen point is given, the world point under it stays fixed.
func (v *Viewport) zoomBy(factor float64, focal *geometry.Point) {
	next := v.Zoom * factor
	if next > MaxZoom {
		next = MaxZoom
	}
	if next < MinZoom {
		next = MinZoom
	}
	if next == v.Zoom {
		return
	}
	if focal == nil {
		v.Zoom = next
		return
	}
	world := v.ToWorld(focal.X, focal.Y)
	v.Zoom = next
	v.OriginX = world.X - focal.X/v.Zoom
	v.OriginY = world.Y - focal.Y/v.Zoom
}

// PanBy shifts the origin by a screen-space delta, converted to world space
// by dividing by the zoom level.
func (v *Viewport) PanBy(dxScreen, dyScreen float64) {
	v.OriginX += dxScreen / v.Zoom
	v.OriginY += dyScreen / v.Zoom
}

// Reset restores zoom 1.0 and origin (0,0).
func (v *Viewport) Reset() {
	v.Zoom = 1.0
	v.OriginX = 0
	v.OriginY = 0
}

// Extent returns the visible world size: base size divided by zoom.
func (v *Viewport) Extent() (w, h float64) {
	return v.BaseW / v.Zoom, v.BaseH / v.Zoom
}

// Visible returns the currently visible world rectangle.
func (v *Viewport) Visible() geometry.Rect {
	w, h := v.Extent()
	return geometry.Rect{X: v.OriginX, Y: v.OriginY, W: w, H: h}
}

// ToWorld converts a screen point to world coordinates.
func (v *Viewport) ToWorld(sx, sy float64) geometry.Point {
	return geometry.Point{
		X: v.OriginX + sx/v.Zoom,
		Y: v.OriginY + sy/v.Zoom,
	}
}

// ToScreen converts a world point to screen coordinates.
func (v *Viewport) ToScreen(p geometry.Point) (sx, sy float64) {
	return (p.X - v.OriginX) * v.Zoom, (p.Y - v.OriginY) * v.Zoom
}

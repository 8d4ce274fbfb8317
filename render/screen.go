// Package render is the terminal draw pass for a pathway session. It only
// reads the model; every mutation happens through the editor session.
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"phosmap/diagram"
	"phosmap/editor"
	"phosmap/geometry"
)

// World pixels per terminal cell at zoom 1.0. Terminal cells are roughly
// twice as tall as wide, so the vertical scale is doubled to keep boxes
// proportionate.
const (
	CellPxW = 8.0
	CellPxH = 16.0
)

// Renderer draws a session onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	slot   int // fold-change comparison slot for box fills
}

// NewRenderer creates a renderer for the given screen.
func NewRenderer(screen tcell.Screen, slot int) *Renderer {
	if slot < 1 {
		slot = 1
	}
	return &Renderer{screen: screen, slot: slot}
}

// CellToScreen converts a terminal cell position to viewport screen pixels.
func CellToScreen(cx, cy int) (float64, float64) {
	return float64(cx) * CellPxW, float64(cy) * CellPxH
}

// Draw renders the whole session: arrows, group outlines, boxes, PTM
// markers, the marquee rectangle and the status bar.
func (r *Renderer) Draw(s *editor.Session) {
	r.screen.Clear()

	doc := s.Store().Document()
	settings := doc.Settings

	if settings.ShowArrows {
		for _, a := range doc.Arrows {
			r.drawArrow(s, a)
		}
	}

	if settings.ShowGroups {
		for _, g := range doc.Groups {
			if b, ok := s.Store().Bounds(g.ID); ok {
				style := tcell.StyleDefault.Foreground(tcell.ColorGray)
				if s.Selection().Contains(g.ID) {
					style = style.Foreground(tcell.ColorYellow)
				}
				r.drawRectOutline(s, b, style, '·')
			}
		}
	}

	visible := s.Viewport().Visible()
	for _, b := range doc.Boxes {
		if !b.Bounds().Intersects(visible) {
			continue
		}
		r.drawBox(s, b, doc)
	}

	if rect, ok := s.MarqueeRect(); ok {
		r.drawRectOutline(s, rect, tcell.StyleDefault.Foreground(tcell.ColorTeal), '+')
	}

	r.drawStatus(s)
	r.screen.Show()
}

// worldToCell maps a world point to a terminal cell through the viewport.
func (r *Renderer) worldToCell(s *editor.Session, p geometry.Point) (int, int) {
	sx, sy := s.Viewport().ToScreen(p)
	return int(sx / CellPxW), int(sy / CellPxH)
}

func (r *Renderer) drawBox(s *editor.Session, b diagram.ProtBox, doc *diagram.Document) {
	x0, y0 := r.worldToCell(s, geometry.Point{X: b.X, Y: b.Y})
	x1, y1 := r.worldToCell(s, geometry.Point{X: b.X + b.Width, Y: b.Y + b.Height})
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	fill := b.DisplayColor(doc.Proteins, r.slot)
	style := tcell.StyleDefault.
		Background(tcellColor(fill)).
		Foreground(tcellColor(fill.ContrastingText()))

	selected := s.Selection().Contains(s.Store().TopLevel(b.ID))
	if selected {
		style = style.Bold(true).Underline(true)
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}

	label := b.DisplayLabel(doc.Proteins)
	r.drawTextClipped(label, x0, y0+(y1-y0)/2, x1, style)

	for _, p := range b.PTMs {
		cx, cy := r.worldToCell(s, geometry.Point{X: b.X + p.OffsetX, Y: b.Y + p.OffsetY})
		mark := ptmRune(p.Shape)
		if p.Symbol != "" {
			mark = rune(p.Symbol[0])
		}
		r.screen.SetContent(cx, cy, mark, nil,
			tcell.StyleDefault.Foreground(tcellColor(p.Fill)).Bold(true))
	}
}

func ptmRune(shape diagram.PtmShape) rune {
	switch shape {
	case diagram.PtmSquare:
		return '■'
	case diagram.PtmDiamond:
		return '◆'
	case diagram.PtmTriangle:
		return '▲'
	default:
		return '●'
	}
}

func (r *Renderer) drawTextClipped(text string, x, y, maxX int, style tcell.Style) {
	for _, ch := range text {
		if x > maxX {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func (r *Renderer) drawRectOutline(s *editor.Session, rect geometry.Rect, style tcell.Style, ch rune) {
	x0, y0 := r.worldToCell(s, geometry.Point{X: rect.X, Y: rect.Y})
	x1, y1 := r.worldToCell(s, geometry.Point{X: rect.Right(), Y: rect.Bottom()})
	for x := x0; x <= x1; x++ {
		r.screen.SetContent(x, y0, ch, nil, style)
		r.screen.SetContent(x, y1, ch, nil, style)
	}
	for y := y0; y <= y1; y++ {
		r.screen.SetContent(x0, y, ch, nil, style)
		r.screen.SetContent(x1, y, ch, nil, style)
	}
}

func (r *Renderer) drawArrow(s *editor.Session, a diagram.Arrow) {
	src, okS := s.Store().Bounds(a.Source)
	dst, okT := s.Store().Bounds(a.Target)
	if !okS || !okT {
		return
	}
	x0, y0 := r.worldToCell(s, src.Center())
	x1, y1 := r.worldToCell(s, dst.Center())
	drawLine(r.screen, x0, y0, x1, y1, tcell.StyleDefault.Foreground(tcell.ColorSilver))
	r.screen.SetContent(x1, y1, '▸', nil, tcell.StyleDefault.Foreground(tcell.ColorSilver))
}

// drawLine walks cells between two points (Bresenham).
func drawLine(screen tcell.Screen, x0, y0, x1, y1 int, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		screen.SetContent(x0, y0, '·', nil, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Renderer) drawStatus(s *editor.Session) {
	w, h := r.screen.Size()
	y := h - 1

	mode := "PAN"
	if s.SelectMode() {
		mode = "SELECT"
	}
	status := fmt.Sprintf(" %s | zoom %3.0f%% | %d selected", mode, s.Viewport().Zoom*100, s.Selection().Len())
	if banner := s.Banner(); banner != "" {
		status += " | " + banner
	}

	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
	r.drawTextClipped(status, 0, y, w-1, style)
}

func tcellColor(c diagram.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package export

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"phosmap/diagram"
	"phosmap/geometry"
)

const svgMargin = 20

// SVGExporter renders the pathway figure as an SVG image. Slot selects the
// fold-change comparison slot used for box fills (1-based).
type SVGExporter struct {
	Slot int
}

// NewSVGExporter creates an SVG exporter for the given comparison slot.
func NewSVGExporter(slot int) *SVGExporter {
	if slot < 1 {
		slot = 1
	}
	return &SVGExporter{Slot: slot}
}

// FileExtension returns the file extension for SVG.
func (e *SVGExporter) FileExtension() string {
	return ".svg"
}

// FormatName returns the format name.
func (e *SVGExporter) FormatName() string {
	return "SVG"
}

// Export renders the document to SVG.
func (e *SVGExporter) Export(d *diagram.Document) ([]byte, error) {
	bounds := contentBounds(d)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(math.Ceil(bounds.W))+2*svgMargin, int(math.Ceil(bounds.H))+2*svgMargin)

	// Shift everything so the content starts at the margin.
	offX := svgMargin - bounds.X
	offY := svgMargin - bounds.Y
	s := d.Settings

	if s.ShowGroups {
		for _, g := range d.Groups {
			r, ok := groupBounds(d, g.ID)
			if !ok {
				continue
			}
			canvas.Rect(round(r.X+offX-3), round(r.Y+offY-3), round(r.W+6), round(r.H+6),
				"fill:none;stroke:#888888;stroke-width:1;stroke-dasharray:4 2")
		}
	}

	if s.ShowArrows {
		for _, a := range d.Arrows {
			src, okS := entityBounds(d, a.Source)
			dst, okT := entityBounds(d, a.Target)
			if !okS || !okT {
				continue
			}
			drawArrow(canvas, src, dst, offX, offY)
		}
	}

	for _, b := range d.Boxes {
		fill := b.DisplayColor(d.Proteins, e.Slot)
		canvas.Rect(round(b.X+offX), round(b.Y+offY), round(b.Width), round(b.Height),
			fmt.Sprintf("fill:%s;stroke:black;stroke-width:1", hexColor(fill)))

		label := b.DisplayLabel(d.Proteins)
		if label != "" {
			canvas.Text(round(b.X+b.Width/2+offX), round(b.Y+b.Height/2+offY)+s.ProtLabelSize/3, label,
				fmt.Sprintf("text-anchor:middle;font-family:%s;font-size:%dpx;fill:%s",
					s.ProtLabelFont, s.ProtLabelSize, hexColor(fill.ContrastingText())))
		}

		for _, p := range b.PTMs {
			cx := round(b.X + p.OffsetX + offX)
			cy := round(b.Y + p.OffsetY + offY)
			style := fmt.Sprintf("fill:%s;stroke:black;stroke-width:0.5", hexColor(p.Fill))
			r := round(s.PtmCircleRadius)
			switch p.Shape {
			case diagram.PtmSquare:
				canvas.Rect(cx-r, cy-r, 2*r, 2*r, style)
			case diagram.PtmDiamond:
				canvas.Polygon([]int{cx, cx + r, cx, cx - r}, []int{cy - r, cy, cy + r, cy}, style)
			case diagram.PtmTriangle:
				canvas.Polygon([]int{cx, cx + r, cx - r}, []int{cy - r, cy + r, cy + r}, style)
			default:
				canvas.Circle(cx, cy, r, style)
			}
			if p.Symbol != "" {
				canvas.Text(cx, cy+s.PtmLabelSize/3, p.Symbol,
					fmt.Sprintf("text-anchor:middle;font-family:%s;font-size:%dpx;fill:%s",
						s.PtmLabelFont, s.PtmLabelSize, hexColor(p.Fill.ContrastingText())))
			}
		}
	}

	canvas.End()
	return buf.Bytes(), nil
}

// drawArrow draws a line between the edge points of the two bounds plus an
// arrowhead at the target end.
func drawArrow(canvas *svg.SVG, src, dst geometry.Rect, offX, offY float64) {
	a := src.Center()
	b := dst.Center()
	a = edgePoint(src, b)
	b = edgePoint(dst, a)

	canvas.Line(round(a.X+offX), round(a.Y+offY), round(b.X+offX), round(b.Y+offY),
		"stroke:black;stroke-width:1")

	// Arrowhead: two short wings back from the tip.
	angle := math.Atan2(b.Y-a.Y, b.X-a.X)
	const tip = 6.0
	x1 := b.X - tip*math.Cos(angle-0.4)
	y1 := b.Y - tip*math.Sin(angle-0.4)
	x2 := b.X - tip*math.Cos(angle+0.4)
	y2 := b.Y - tip*math.Sin(angle+0.4)
	canvas.Polygon(
		[]int{round(b.X + offX), round(x1 + offX), round(x2 + offX)},
		[]int{round(b.Y + offY), round(y1 + offY), round(y2 + offY)},
		"fill:black")
}

// edgePoint returns where the segment from the rectangle center toward the
// target crosses the rectangle border.
func edgePoint(r geometry.Rect, toward geometry.Point) geometry.Point {
	c := r.Center()
	dx := toward.X - c.X
	dy := toward.Y - c.Y
	if dx == 0 && dy == 0 {
		return c
	}
	tx, ty := math.Inf(1), math.Inf(1)
	if dx != 0 {
		tx = (r.W / 2) / math.Abs(dx)
	}
	if dy != 0 {
		ty = (r.H / 2) / math.Abs(dy)
	}
	t := math.Min(tx, ty)
	return geometry.Point{X: c.X + dx*t, Y: c.Y + dy*t}
}

func contentBounds(d *diagram.Document) geometry.Rect {
	if len(d.Boxes) == 0 {
		return geometry.Rect{W: 100, H: 100}
	}
	r := d.Boxes[0].Bounds()
	for _, b := range d.Boxes[1:] {
		r = r.Union(b.Bounds())
	}
	return r
}

func entityBounds(d *diagram.Document, id string) (geometry.Rect, bool) {
	for _, b := range d.Boxes {
		if b.ID == id {
			return b.Bounds(), true
		}
	}
	return groupBounds(d, id)
}

func groupBounds(d *diagram.Document, groupID string) (geometry.Rect, bool) {
	var g *diagram.Group
	for i := range d.Groups {
		if d.Groups[i].ID == groupID {
			g = &d.Groups[i]
			break
		}
	}
	if g == nil {
		return geometry.Rect{}, false
	}
	var out geometry.Rect
	found := false
	for _, m := range g.Members {
		r, ok := entityBounds(d, m)
		if !ok {
			continue
		}
		if !found {
			out = r
			found = true
		} else {
			out = out.Union(r)
		}
	}
	return out, found
}

func hexColor(c diagram.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func round(f float64) int {
	return int(math.Round(f))
}

// Package diagram contains the entity model for a rendered pathway and the
// store that owns it. Entities reference each other by id only; object
// pointers never cross entity boundaries.
package diagram

import (
	"encoding/json"
	"fmt"

	"phosmap/geometry"
)

// RGB is a color triple, serialized as a JSON array [r, g, b] to match the
// pathway document format.
type RGB struct {
	R, G, B uint8
}

// MarshalJSON renders the color as [r, g, b].
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]uint8{c.R, c.G, c.B})
}

// UnmarshalJSON accepts a [r, g, b] array.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var arr [3]uint8
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("color must be an [r, g, b] array: %w", err)
	}
	c.R, c.G, c.B = arr[0], arr[1], arr[2]
	return nil
}

// ProteinRecord holds the display data for one protein. Records are immutable
// once loaded; ProtBoxes reference them by id and never own them.
type ProteinRecord struct {
	ID         string
	Label      string
	LabelColor RGB
	FoldChange []RGB // one color per comparison slot, slot 1 first
	Tooltip    string
}

// PtmShape identifies the marker shape of a PTM overlay.
type PtmShape string

const (
	PtmCircle   PtmShape = "circle"
	PtmSquare   PtmShape = "square"
	PtmDiamond  PtmShape = "diamond"
	PtmTriangle PtmShape = "triangle"
)

// PtmOverlay is a PTM marker attached to a ProtBox. The overlay is owned by
// its parent box and is destroyed with it. Offsets are relative to the box
// origin.
type PtmOverlay struct {
	OffsetX float64
	OffsetY float64
	Shape   PtmShape
	Fill    RGB
	Symbol  string // optional functional symbol code
}

// ProtBox is a rectangular diagram element representing one or more proteins.
// The first entry of Proteins is the one currently displayed.
type ProtBox struct {
	ID          string
	X, Y        float64
	Width       float64
	Height      float64
	Proteins    []string // protein record ids, lookup-only
	BackupLabel string   // shown when no protein record resolves
	PTMs        []PtmOverlay
}

// Bounds returns the box rectangle in world coordinates.
func (b ProtBox) Bounds() geometry.Rect {
	return geometry.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}

// DisplayLabel resolves the label to render: the first protein id that
// resolves to a record wins, otherwise the backup label.
func (b ProtBox) DisplayLabel(proteins map[string]ProteinRecord) string {
	for _, id := range b.Proteins {
		if rec, ok := proteins[id]; ok {
			return rec.Label
		}
	}
	return b.BackupLabel
}

// DisplayColor resolves the fold-change fill for the given comparison slot
// (1-based), falling back to gray when nothing resolves.
func (b ProtBox) DisplayColor(proteins map[string]ProteinRecord, slot int) RGB {
	for _, id := range b.Proteins {
		rec, ok := proteins[id]
		if !ok {
			continue
		}
		if slot >= 1 && slot <= len(rec.FoldChange) {
			return rec.FoldChange[slot-1]
		}
	}
	return RGB{R: 128, G: 128, B: 128}
}

// Group is an ordered set of member ProtBox/Group ids. Groups may nest but
// the membership relation is always cycle-free. A group owns only the
// membership relation, never member geometry.
type Group struct {
	ID      string
	Members []string
}

// Arrow is a directed edge between two entities (ProtBox or Group ids).
// PathHint carries the source document's routing hint and is opaque to the
// store.
type Arrow struct {
	ID       string
	Source   string
	Target   string
	PathHint string
}

// DisplaySettings is global render configuration, immutable during a session.
type DisplaySettings struct {
	ProtLabelFont   string
	ProtLabelSize   int
	PtmLabelFont    string
	PtmLabelSize    int
	PtmCircleRadius float64
	ShowArrows      bool
	ShowGroups      bool
}

// DefaultSettings returns the settings the original pathway documents assume
// when a field is absent.
func DefaultSettings() DisplaySettings {
	return DisplaySettings{
		ProtLabelFont:   "Arial",
		ProtLabelSize:   12,
		PtmLabelFont:    "Arial",
		PtmLabelSize:    10,
		PtmCircleRadius: 5,
		ShowArrows:      true,
		ShowGroups:      false,
	}
}

// Document is the serializable aggregate of all diagram entities. It is the
// unit the layout codec persists and loads.
type Document struct {
	Boxes    []ProtBox
	Proteins map[string]ProteinRecord
	Groups   []Group
	Arrows   []Arrow
	Settings DisplaySettings
}

// Clone creates a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := &Document{
		Boxes:    make([]ProtBox, len(d.Boxes)),
		Proteins: make(map[string]ProteinRecord, len(d.Proteins)),
		Groups:   make([]Group, len(d.Groups)),
		Arrows:   make([]Arrow, len(d.Arrows)),
		Settings: d.Settings,
	}
	for i, b := range d.Boxes {
		nb := b
		nb.Proteins = append([]string(nil), b.Proteins...)
		nb.PTMs = append([]PtmOverlay(nil), b.PTMs...)
		clone.Boxes[i] = nb
	}
	for id, rec := range d.Proteins {
		nr := rec
		nr.FoldChange = append([]RGB(nil), rec.FoldChange...)
		clone.Proteins[id] = nr
	}
	for i, g := range d.Groups {
		ng := g
		ng.Members = append([]string(nil), g.Members...)
		clone.Groups[i] = ng
	}
	copy(clone.Arrows, d.Arrows)
	return clone
}

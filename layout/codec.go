// Package layout serializes the entity model to and from the portable
// pathway_data.json document. The codec runs at load and export time only;
// it never participates in live interaction.
package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"phosmap/diagram"
)

// Wire format. Field names follow the pathway document schema; unknown
// top-level sections (compound_data, text_data, ...) are ignored on load and
// not preserved.
type wireDocument struct {
	ProtboxData []wireProtBox          `json:"protbox_data"`
	ProteinData map[string]wireProtein `json:"protein_data"`
	Groups      []wireGroup            `json:"groups"`
	Arrows      []wireArrow            `json:"arrows"`
	GeneralData wireGeneral            `json:"general_data"`
}

type wireProtBox struct {
	ProtboxID   string        `json:"protbox_id"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	Proteins    []string      `json:"proteins"`
	BackupLabel string        `json:"backup_label,omitempty"`
	Ptms        []wirePtm     `json:"ptms,omitempty"`
}

type wirePtm struct {
	OffsetX float64     `json:"offset_x"`
	OffsetY float64     `json:"offset_y"`
	Shape   string      `json:"shape"`
	Fill    diagram.RGB `json:"fill"`
	Symbol  string      `json:"symbol,omitempty"`
}

type wireGroup struct {
	GroupID string   `json:"group_id"`
	Members []string `json:"members"`
}

type wireArrow struct {
	ArrowID  string `json:"arrow_id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	PathHint string `json:"path_hint,omitempty"`
}

type wireGeneral struct {
	Settings wireSettings `json:"settings"`
}

type wireSettings struct {
	ProtLabelSize   *int     `json:"prot_label_size,omitempty"`
	ProtLabelFont   *string  `json:"prot_label_font,omitempty"`
	PtmLabelSize    *int     `json:"ptm_label_size,omitempty"`
	PtmLabelFont    *string  `json:"ptm_label_font,omitempty"`
	PtmCircleRadius *float64 `json:"ptm_circle_radius,omitempty"`
	ShowArrows      *bool    `json:"show_arrows,omitempty"`
	ShowGroups      *bool    `json:"show_groups,omitempty"`
}

// wireProtein carries the dynamic fc_color_N keys of the protein map, so it
// marshals by hand.
type wireProtein struct {
	Label      string
	LabelColor diagram.RGB
	FoldChange []diagram.RGB
	Tooltip    string
}

func (p wireProtein) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"label":       p.Label,
		"label_color": p.LabelColor,
	}
	for i, c := range p.FoldChange {
		m[fmt.Sprintf("fc_color_%d", i+1)] = c
	}
	if p.Tooltip != "" {
		m["tooltip"] = p.Tooltip
	}
	return json.Marshal(m)
}

func (p *wireProtein) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["label"]; ok {
		if err := json.Unmarshal(v, &p.Label); err != nil {
			return err
		}
	}
	if v, ok := raw["label_color"]; ok {
		if err := json.Unmarshal(v, &p.LabelColor); err != nil {
			return err
		}
	}
	if v, ok := raw["tooltip"]; ok {
		if err := json.Unmarshal(v, &p.Tooltip); err != nil {
			return err
		}
	}

	// Collect fc_color_1, fc_color_2, ... in slot order.
	type slot struct {
		n int
		c diagram.RGB
	}
	var slots []slot
	for k, v := range raw {
		if !strings.HasPrefix(k, "fc_color_") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(k, "fc_color_"))
		if err != nil || n < 1 {
			continue
		}
		var c diagram.RGB
		if err := json.Unmarshal(v, &c); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		slots = append(slots, slot{n: n, c: c})
	}
	sort.Slice(slots, func(a, b int) bool { return slots[a].n < slots[b].n })
	p.FoldChange = p.FoldChange[:0]
	for _, s := range slots {
		p.FoldChange = append(p.FoldChange, s.c)
	}
	return nil
}

// Decode parses and validates a layout document. On any invariant violation
// it fails with a *diagram.MalformedLayoutError carrying the first offending
// reference; the store is never handed an invalid document.
func Decode(data []byte) (*diagram.Document, error) {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &diagram.MalformedLayoutError{Field: "document", Reason: err.Error()}
	}

	doc := &diagram.Document{
		Proteins: make(map[string]diagram.ProteinRecord, len(w.ProteinData)),
		Settings: decodeSettings(w.GeneralData.Settings),
	}

	for _, wb := range w.ProtboxData {
		b := diagram.ProtBox{
			ID:          wb.ProtboxID,
			X:           wb.X,
			Y:           wb.Y,
			Width:       wb.Width,
			Height:      wb.Height,
			Proteins:    append([]string(nil), wb.Proteins...),
			BackupLabel: wb.BackupLabel,
		}
		for _, wp := range wb.Ptms {
			b.PTMs = append(b.PTMs, diagram.PtmOverlay{
				OffsetX: wp.OffsetX,
				OffsetY: wp.OffsetY,
				Shape:   diagram.PtmShape(wp.Shape),
				Fill:    wp.Fill,
				Symbol:  wp.Symbol,
			})
		}
		doc.Boxes = append(doc.Boxes, b)
	}

	for id, wp := range w.ProteinData {
		doc.Proteins[id] = diagram.ProteinRecord{
			ID:         id,
			Label:      wp.Label,
			LabelColor: wp.LabelColor,
			FoldChange: wp.FoldChange,
			Tooltip:    wp.Tooltip,
		}
	}

	for _, wg := range w.Groups {
		doc.Groups = append(doc.Groups, diagram.Group{
			ID:      wg.GroupID,
			Members: append([]string(nil), wg.Members...),
		})
	}

	for i, wa := range w.Arrows {
		id := wa.ArrowID
		if id == "" {
			id = fmt.Sprintf("arrow_%d", i+1)
		}
		doc.Arrows = append(doc.Arrows, diagram.Arrow{
			ID:       id,
			Source:   wa.Source,
			Target:   wa.Target,
			PathHint: wa.PathHint,
		})
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeSettings(w wireSettings) diagram.DisplaySettings {
	s := diagram.DefaultSettings()
	if w.ProtLabelSize != nil {
		s.ProtLabelSize = *w.ProtLabelSize
	}
	if w.ProtLabelFont != nil {
		s.ProtLabelFont = *w.ProtLabelFont
	}
	if w.PtmLabelSize != nil {
		s.PtmLabelSize = *w.PtmLabelSize
	}
	if w.PtmLabelFont != nil {
		s.PtmLabelFont = *w.PtmLabelFont
	}
	if w.PtmCircleRadius != nil {
		s.PtmCircleRadius = *w.PtmCircleRadius
	}
	if w.ShowArrows != nil {
		s.ShowArrows = *w.ShowArrows
	}
	if w.ShowGroups != nil {
		s.ShowGroups = *w.ShowGroups
	}
	return s
}

// Validate checks every document invariant: unique ids, resolvable group
// members and arrow endpoints, acyclic single-parent group membership.
// Unresolved protein ids are tolerated; a box falls back to its backup
// label at render time rather than failing the load.
func Validate(doc *diagram.Document) error {
	ids := make(map[string]string) // id -> kind
	for _, b := range doc.Boxes {
		if b.ID == "" {
			return &diagram.MalformedLayoutError{Field: "protbox_data", Reason: "empty protbox_id"}
		}
		if _, dup := ids[b.ID]; dup {
			return &diagram.MalformedLayoutError{Field: "protbox_data", Reference: b.ID, Reason: "duplicate id"}
		}
		ids[b.ID] = "protbox"
	}
	for _, g := range doc.Groups {
		if g.ID == "" {
			return &diagram.MalformedLayoutError{Field: "groups", Reason: "empty group_id"}
		}
		if _, dup := ids[g.ID]; dup {
			return &diagram.MalformedLayoutError{Field: "groups", Reference: g.ID, Reason: "duplicate id"}
		}
		ids[g.ID] = "group"
	}

	parent := make(map[string]string)
	members := make(map[string][]string, len(doc.Groups))
	for _, g := range doc.Groups {
		if len(g.Members) == 0 {
			return &diagram.MalformedLayoutError{Field: "groups", Reference: g.ID, Reason: "group has no members"}
		}
		members[g.ID] = g.Members
		for _, m := range g.Members {
			if _, ok := ids[m]; !ok {
				return &diagram.MalformedLayoutError{Field: "groups", Reference: m, Reason: "unresolved member"}
			}
			if prev, taken := parent[m]; taken {
				return &diagram.MalformedLayoutError{
					Field:     "groups",
					Reference: m,
					Reason:    fmt.Sprintf("member of both %s and %s", prev, g.ID),
				}
			}
			parent[m] = g.ID
		}
	}

	// Cycle check over the membership relation.
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var visit func(id string) string
	visit = func(id string) string {
		switch color[id] {
		case gray:
			return id
		case black:
			return ""
		}
		color[id] = gray
		for _, m := range members[id] {
			if bad := visit(m); bad != "" {
				return bad
			}
		}
		color[id] = black
		return ""
	}
	for _, g := range doc.Groups {
		if bad := visit(g.ID); bad != "" {
			return &diagram.MalformedLayoutError{Field: "groups", Reference: bad, Reason: "membership cycle"}
		}
	}

	for _, a := range doc.Arrows {
		if _, ok := ids[a.Source]; !ok {
			return &diagram.MalformedLayoutError{Field: "arrows", Reference: a.Source, Reason: "unresolved arrow source"}
		}
		if _, ok := ids[a.Target]; !ok {
			return &diagram.MalformedLayoutError{Field: "arrows", Reference: a.Target, Reason: "unresolved arrow target"}
		}
	}
	return nil
}

// Encode serializes a document. The output satisfies every invariant by
// construction and round-trips through Decode with identical semantic
// content: sequence order is preserved, map order is not significant.
func Encode(doc *diagram.Document) ([]byte, error) {
	w := wireDocument{
		ProtboxData: make([]wireProtBox, 0, len(doc.Boxes)),
		ProteinData: make(map[string]wireProtein, len(doc.Proteins)),
		Groups:      make([]wireGroup, 0, len(doc.Groups)),
		Arrows:      make([]wireArrow, 0, len(doc.Arrows)),
	}

	for _, b := range doc.Boxes {
		wb := wireProtBox{
			ProtboxID:   b.ID,
			X:           b.X,
			Y:           b.Y,
			Width:       b.Width,
			Height:      b.Height,
			Proteins:    b.Proteins,
			BackupLabel: b.BackupLabel,
		}
		for _, p := range b.PTMs {
			wb.Ptms = append(wb.Ptms, wirePtm{
				OffsetX: p.OffsetX,
				OffsetY: p.OffsetY,
				Shape:   string(p.Shape),
				Fill:    p.Fill,
				Symbol:  p.Symbol,
			})
		}
		w.ProtboxData = append(w.ProtboxData, wb)
	}

	for id, rec := range doc.Proteins {
		w.ProteinData[id] = wireProtein{
			Label:      rec.Label,
			LabelColor: rec.LabelColor,
			FoldChange: rec.FoldChange,
			Tooltip:    rec.Tooltip,
		}
	}

	for _, g := range doc.Groups {
		w.Groups = append(w.Groups, wireGroup{GroupID: g.ID, Members: g.Members})
	}
	for _, a := range doc.Arrows {
		w.Arrows = append(w.Arrows, wireArrow{
			ArrowID:  a.ID,
			Source:   a.Source,
			Target:   a.Target,
			PathHint: a.PathHint,
		})
	}

	s := doc.Settings
	w.GeneralData.Settings = wireSettings{
		ProtLabelSize:   &s.ProtLabelSize,
		ProtLabelFont:   &s.ProtLabelFont,
		PtmLabelSize:    &s.PtmLabelSize,
		PtmLabelFont:    &s.PtmLabelFont,
		PtmCircleRadius: &s.PtmCircleRadius,
		ShowArrows:      &s.ShowArrows,
		ShowGroups:      &s.ShowGroups,
	}

	return json.MarshalIndent(w, "", "  ")
}

// Load reads and decodes a layout document from disk.
func Load(path string) (*diagram.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Save encodes a document and writes it to disk.
func Save(path string, doc *diagram.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package layout

import "phosmap/diagram"

// FallbackBanner is the notice shown when the built-in document replaces a
// failed load.
const FallbackBanner = "pathway document unavailable - showing built-in sample"

// Fallback returns the built-in minimal document used when the real pathway
// document cannot be loaded. A small MAPK cascade slice: enough to keep the
// viewer renderable and every interaction exercisable.
func Fallback() *diagram.Document {
	return &diagram.Document{
		Boxes: []diagram.ProtBox{
			{
				ID: "pb1", X: 100, Y: 100, Width: 46, Height: 17,
				Proteins:    []string{"P04049"},
				BackupLabel: "RAF1",
				PTMs: []diagram.PtmOverlay{
					{OffsetX: 40, OffsetY: -5, Shape: diagram.PtmCircle, Fill: diagram.RGB{R: 0, G: 0, B: 255}, Symbol: "p"},
				},
			},
			{
				ID: "pb2", X: 200, Y: 100, Width: 46, Height: 17,
				Proteins:    []string{"Q02750"},
				BackupLabel: "MAP2K1",
			},
			{
				ID: "pb3", X: 300, Y: 100, Width: 46, Height: 17,
				Proteins:    []string{"P28482", "P27361"},
				BackupLabel: "MAPK1",
			},
		},
		Proteins: map[string]diagram.ProteinRecord{
			"P04049": {
				ID: "P04049", Label: "RAF1",
				LabelColor: diagram.RGB{},
				FoldChange: []diagram.RGB{{R: 0, G: 0, B: 255}},
				Tooltip:    "RAF proto-oncogene serine/threonine kinase",
			},
			"Q02750": {
				ID: "Q02750", Label: "MEK1",
				LabelColor: diagram.RGB{},
				FoldChange: []diagram.RGB{{R: 128, G: 128, B: 128}},
			},
			"P28482": {
				ID: "P28482", Label: "ERK2",
				LabelColor: diagram.RGB{},
				FoldChange: []diagram.RGB{{R: 255, G: 0, B: 0}},
			},
			"P27361": {
				ID: "P27361", Label: "ERK1",
				LabelColor: diagram.RGB{},
				FoldChange: []diagram.RGB{{R: 255, G: 96, B: 96}},
			},
		},
		Arrows: []diagram.Arrow{
			{ID: "arrow_1", Source: "pb1", Target: "pb2", PathHint: "East,West"},
			{ID: "arrow_2", Source: "pb2", Target: "pb3", PathHint: "East,West"},
		},
		Settings: diagram.DefaultSettings(),
	}
}

package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phosmap/diagram"
	"phosmap/layout"
)

func exportDocument() *diagram.Document {
	doc := layout.Fallback()
	doc.Settings.ShowGroups = true
	return doc
}

func TestNewExporter(t *testing.T) {
	e, err := NewExporter(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, ".json", e.FileExtension())

	e, err = NewExporter(FormatSVG)
	require.NoError(t, err)
	assert.Equal(t, ".svg", e.FileExtension())

	_, err = NewExporter(Format("png"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = ParseFormat("bogus")
	assert.Error(t, err)
}

func TestJSONExportRoundTrips(t *testing.T) {
	data, err := (&JSONExporter{}).Export(exportDocument())
	require.NoError(t, err)

	back, err := layout.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, exportDocument().Boxes, back.Boxes)
}

func TestSVGExportContainsEntities(t *testing.T) {
	doc := exportDocument()
	data, err := NewSVGExporter(1).Export(doc)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")

	// One rect per box, labels resolved through the protein table.
	assert.Contains(t, out, "RAF1")
	assert.Contains(t, out, "MEK1")
	for range doc.Boxes {
		assert.Contains(t, out, "<rect")
	}

	// Arrows render as a line plus an arrowhead polygon.
	assert.Contains(t, out, "<line")
	assert.Contains(t, out, "<polygon")
}

func TestSVGExportRespectsToggles(t *testing.T) {
	doc := exportDocument()
	doc.Settings.ShowArrows = false
	doc.Settings.ShowGroups = false

	data, err := NewSVGExporter(1).Export(doc)
	require.NoError(t, err)
	out := string(data)

	assert.NotContains(t, out, "<line")
	assert.NotContains(t, out, "stroke-dasharray")
}

func TestSVGExportEmptyDocument(t *testing.T) {
	doc := &diagram.Document{
		Proteins: map[string]diagram.ProteinRecord{},
		Settings: diagram.DefaultSettings(),
	}
	data, err := NewSVGExporter(1).Export(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

package export

import (
	"phosmap/diagram"
	"phosmap/layout"
)

// JSONExporter exports the layout document itself.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export serializes the document through the layout codec.
func (e *JSONExporter) Export(d *diagram.Document) ([]byte, error) {
	return layout.Encode(d)
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// FormatName returns the format name.
func (e *JSONExporter) FormatName() string {
	return "JSON"
}

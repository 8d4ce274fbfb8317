// Package export converts a pathway document to its portable output formats.
package export

import (
	"fmt"

	"phosmap/diagram"
)

// Format represents an export format.
type Format string

const (
	// FormatJSON exports the layout document itself (phosmap native format).
	FormatJSON Format = "json"
	// FormatSVG exports the rendered pathway figure.
	FormatSVG Format = "svg"
)

// Exporter interface for the different export formats.
type Exporter interface {
	// Export converts a document to the target format.
	Export(d *diagram.Document) ([]byte, error)
	// FileExtension returns the recommended file extension for this format.
	FileExtension() string
	// FormatName returns a human-readable name for this format.
	FormatName() string
}

// NewExporter creates an exporter for the specified format.
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatSVG:
		return NewSVGExporter(1), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// AvailableFormats returns all export formats.
func AvailableFormats() []Format {
	return []Format{FormatJSON, FormatSVG}
}

// Package config loads the phosmap configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"phosmap/diagram"
)

// Fallback policies for a failed or malformed document load.
const (
	// FallbackBuiltin substitutes the built-in sample document and raises a
	// banner; the viewer always has renderable state.
	FallbackBuiltin = "builtin"
	// FallbackFail aborts the load instead.
	FallbackFail = "fail"
)

// Config is the full phosmap configuration.
type Config struct {
	// Document is the path of the pathway layout document.
	Document string `yaml:"document"`
	// Fallback selects what happens when the document cannot be loaded.
	Fallback string `yaml:"fallback"`
	// Listen is the document service address.
	Listen string `yaml:"listen"`
	// Display overrides individual display settings from the document.
	Display DisplayOverrides `yaml:"display"`
}

// DisplayOverrides holds optional display-setting overrides; nil fields keep
// the document's value.
type DisplayOverrides struct {
	ProtLabelFont   *string  `yaml:"prot_label_font"`
	ProtLabelSize   *int     `yaml:"prot_label_size"`
	PtmLabelFont    *string  `yaml:"ptm_label_font"`
	PtmLabelSize    *int     `yaml:"ptm_label_size"`
	PtmCircleRadius *float64 `yaml:"ptm_circle_radius"`
	ShowArrows      *bool    `yaml:"show_arrows"`
	ShowGroups      *bool    `yaml:"show_groups"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Document: "data/pathway_data.json",
		Fallback: FallbackBuiltin,
		Listen:   ":8764",
	}
}

// Load reads a yaml configuration file, filling unset fields with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Fallback != FallbackBuiltin && cfg.Fallback != FallbackFail {
		return nil, fmt.Errorf("parse %s: unknown fallback policy %q", path, cfg.Fallback)
	}
	return cfg, nil
}

// Apply merges the overrides into the document's display settings.
func (o DisplayOverrides) Apply(s diagram.DisplaySettings) diagram.DisplaySettings {
	if o.ProtLabelFont != nil {
		s.ProtLabelFont = *o.ProtLabelFont
	}
	if o.ProtLabelSize != nil {
		s.ProtLabelSize = *o.ProtLabelSize
	}
	if o.PtmLabelFont != nil {
		s.PtmLabelFont = *o.PtmLabelFont
	}
	if o.PtmLabelSize != nil {
		s.PtmLabelSize = *o.PtmLabelSize
	}
	if o.PtmCircleRadius != nil {
		s.PtmCircleRadius = *o.PtmCircleRadius
	}
	if o.ShowArrows != nil {
		s.ShowArrows = *o.ShowArrows
	}
	if o.ShowGroups != nil {
		s.ShowGroups = *o.ShowGroups
	}
	return s
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phosmap/diagram"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phosmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "data/pathway_data.json", cfg.Document)
	assert.Equal(t, FallbackBuiltin, cfg.Fallback)
	assert.Equal(t, ":8764", cfg.Listen)
}

func TestLoadFillsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "document: /tmp/other.json\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.json", cfg.Document)
	assert.Equal(t, FallbackBuiltin, cfg.Fallback)
	assert.Equal(t, ":8764", cfg.Listen)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
document: /srv/pathway.json
fallback: fail
listen: ":9000"
display:
  prot_label_size: 14
  show_groups: true
`))
	require.NoError(t, err)
	assert.Equal(t, FallbackFail, cfg.Fallback)
	assert.Equal(t, ":9000", cfg.Listen)

	s := cfg.Display.Apply(diagram.DefaultSettings())
	assert.Equal(t, 14, s.ProtLabelSize)
	assert.True(t, s.ShowGroups)
	// Untouched fields keep the document's values.
	assert.Equal(t, diagram.DefaultSettings().ProtLabelFont, s.ProtLabelFont)
	assert.Equal(t, diagram.DefaultSettings().ShowArrows, s.ShowArrows)
}

func TestLoadRejectsUnknownFallbackPolicy(t *testing.T) {
	_, err := Load(writeConfig(t, "fallback: sometimes\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback policy")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

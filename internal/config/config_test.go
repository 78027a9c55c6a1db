package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdblocks.yaml")
	content := "editor:\n  initial_document: \"## Notes\"\n  tab_width: 2\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "## Notes", cfg.Editor.InitialDocument)
	assert.Equal(t, 2, cfg.Editor.TabWidth)
	assert.Equal(t, 50, cfg.Editor.MirrorWidthPercent, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MDBLOCKS_EDITOR_MIRROR_WIDTH_PERCENT", "30")
	t.Setenv("MDBLOCKS_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Editor.MirrorWidthPercent)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tab width zero", func(c *Config) { c.Editor.TabWidth = 0 }},
		{"tab width huge", func(c *Config) { c.Editor.TabWidth = 64 }},
		{"mirror too narrow", func(c *Config) { c.Editor.MirrorWidthPercent = 10 }},
		{"mirror too wide", func(c *Config) { c.Editor.MirrorWidthPercent = 95 }},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  tab_width: 0\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestWriteFileRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Editor.TabWidth = 8

	require.NoError(t, cfg.WriteFile(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

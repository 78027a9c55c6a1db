// Package config loads mdblocks settings from an optional YAML file with
// MDBLOCKS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. MDBLOCKS_EDITOR_TAB_WIDTH.
const EnvPrefix = "MDBLOCKS"

// Config holds all settings.
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor" yaml:"editor"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// EditorConfig controls the editing session and its layout.
type EditorConfig struct {
	// InitialDocument is the markdown the session starts with.
	InitialDocument string `mapstructure:"initial_document" yaml:"initial_document"`
	// TabWidth is used to expand tabs in the plain-text pane.
	TabWidth int `mapstructure:"tab_width" yaml:"tab_width"`
	// MirrorWidthPercent is the share of the screen given to the plain-text pane.
	MirrorWidthPercent int `mapstructure:"mirror_width_percent" yaml:"mirror_width_percent"`
}

// LoggingConfig controls the log file. The terminal belongs to the UI, so
// without a file nothing is logged.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			InitialDocument:    "# Hello *world* !",
			TabWidth:           4,
			MirrorWidthPercent: 50,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path (optional when empty) over the defaults and applies
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(expandPath(path))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Logging.File = expandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("editor.initial_document", d.Editor.InitialDocument)
	v.SetDefault("editor.tab_width", d.Editor.TabWidth)
	v.SetDefault("editor.mirror_width_percent", d.Editor.MirrorWidthPercent)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return fmt.Errorf("%w: editor.tab_width %d must be between 1 and 16", ErrInvalid, c.Editor.TabWidth)
	}
	if c.Editor.MirrorWidthPercent < 20 || c.Editor.MirrorWidthPercent > 80 {
		return fmt.Errorf("%w: editor.mirror_width_percent %d must be between 20 and 80", ErrInvalid, c.Editor.MirrorWidthPercent)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

// WriteFile writes the configuration as YAML, creating parent directories.
func (c *Config) WriteFile(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

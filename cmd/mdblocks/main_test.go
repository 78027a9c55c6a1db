package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kk-code-lab/mdblocks/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBlocksCommandFromFlag(t *testing.T) {
	out, err := execute(t, "", "blocks", "--text", "# Hello\n\nworld")
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", out)
	}
	if fields := strings.Fields(lines[1]); len(fields) < 6 || fields[1] != "h1" || fields[2] != "0-7" || fields[3] != "1:1-1:8" {
		t.Fatalf("unexpected heading row %q", lines[1])
	}
	if fields := strings.Fields(lines[2]); fields[1] != "paragraph" || fields[2] != "9-14" || fields[3] != "3:1-3:6" || fields[4] != "world" {
		t.Fatalf("unexpected paragraph row %q", lines[2])
	}
}

func TestBlocksCommandReadsStdin(t *testing.T) {
	out, err := execute(t, "abc\r\ndef\n", "blocks")
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if !strings.Contains(out, "abc …") {
		t.Fatalf("expected multi-line preview, got %q", out)
	}
	if !strings.Contains(out, "1:1-2:4") {
		t.Fatalf("expected two-line span, got %q", out)
	}
}

func TestBlocksCommandDecodesUTF16Stdin(t *testing.T) {
	out, err := execute(t, "\xff\xfeh\x00i\x00", "blocks")
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if !strings.Contains(out, "hi") {
		t.Fatalf("expected decoded text, got %q", out)
	}

	if _, err := execute(t, "a\x00b", "blocks"); err == nil {
		t.Fatalf("expected binary stdin to be rejected")
	}
}

func TestSourcePreview(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"abc", "abc"},
		{"abc\ndef", "abc …"},
		{strings.Repeat("x", 45), strings.Repeat("x", 39) + "…"},
		{"a\u200bb", "a⟪ZWSP⟫b"},
	}
	for _, tt := range tests {
		if got := sourcePreview(tt.src); got != tt.want {
			t.Errorf("sourcePreview(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "", "config", "init", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("expected path in output, got %q", out)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Editor.TabWidth != config.Default().Editor.TabWidth {
		t.Fatalf("unexpected tab width %d", cfg.Editor.TabWidth)
	}

	if _, err := execute(t, "", "config", "init", path); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if _, err := execute(t, "", "config", "init", "--force", path); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
}

func TestLoadConfigAppliesChangedFlags(t *testing.T) {
	t.Setenv("MDBLOCKS_EDITOR_TAB_WIDTH", "8")
	flags := &rootFlags{}
	cmd := buildRootCommand(flags)
	if err := cmd.ParseFlags([]string{"--log-level", "debug", "--text", ""}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected flag level, got %q", cfg.Logging.Level)
	}
	if cfg.Editor.InitialDocument != "" {
		t.Fatalf("expected an explicitly empty document, got %q", cfg.Editor.InitialDocument)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Fatalf("expected env tab width, got %d", cfg.Editor.TabWidth)
	}
	if cfg.Logging.File != "" {
		t.Fatalf("unset flag should not override log file, got %q", cfg.Logging.File)
	}
}

func TestLoadConfigRejectsInvalidFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("editor:\n  tab_width: 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := execute(t, "", "--config", path, "--log-level", "loud")
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

package textutil

import (
	"strings"
	"testing"
)

func TestSanitizeTerminalText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"safe", "# Heading *em*", "# Heading *em*"},
		{"tab kept", "a\tb", "a\tb"},
		{"escape sequence", "bad\x1b[31m\nline", "bad?[31m line"},
		{"carriage return", "a\r\nb", "a  b"},
		{"delete", "x\x7fy", "x?y"},
		{"formatting runes", "a\u202eb\u200bc\u00ad", "a⟪RLO⟫b⟪ZWSP⟫c⟪SHY⟫"},
	}
	for _, tt := range tests {
		got := SanitizeTerminalText(tt.input)
		if got != tt.want {
			t.Fatalf("%s: SanitizeTerminalText(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
		}
		for _, r := range got {
			if (r < 0x20 && r != '\t') || r == 0x7f || IsFormattingRune(r) {
				t.Fatalf("%s: output still holds %U", tt.name, r)
			}
		}
	}
}

func TestReplaceFormattingRunes(t *testing.T) {
	if got, ok := ReplaceFormattingRunes("x\u061cy"); !ok || got != "x⟪ALM⟫y" {
		t.Fatalf("ReplaceFormattingRunes = (%q,%v), want (%q,true)", got, ok, "x⟪ALM⟫y")
	}
	if got, ok := ReplaceFormattingRunes("plain\nline"); ok || got != "plain\nline" {
		t.Fatalf("expected plain text untouched, got (%q,%v)", got, ok)
	}
}

func TestCountFormattingRunes(t *testing.T) {
	if HasFormattingRunes("plain") {
		t.Fatalf("expected plain text to have no formatting runes")
	}
	text := "hi\u2067 there\u200d" + strings.Repeat("\ufeff", 2)
	if got := CountFormattingRunes(text); got != 4 {
		t.Fatalf("expected 4 formatting runes, got %d", got)
	}
	if !HasFormattingRunes(text) {
		t.Fatalf("expected formatting runes to be detected")
	}
}

func TestFormattingRuneLabel(t *testing.T) {
	if label, ok := FormattingRuneLabel(0x200d); !ok || label != "⟪ZWJ⟫" {
		t.Fatalf("unexpected label (%q,%v)", label, ok)
	}
	if _, ok := FormattingRuneLabel('a'); ok {
		t.Fatalf("'a' is not a formatting rune")
	}
}

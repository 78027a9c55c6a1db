package textutil

import "strings"

// formattingRuneLabels names the invisible bidi and zero-width runes. They
// change how neighbouring text is displayed without occupying a cell, so a
// document holding them looks different from its markdown source.
var formattingRuneLabels = map[rune]string{
	0x061C: "⟪ALM⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x00AD: "⟪SHY⟫",
	0x180E: "⟪MVS⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0x206A: "⟪ISS⟫",
	0x206B: "⟪ASS⟫",
	0x206C: "⟪IAFS⟫",
	0x206D: "⟪AAFS⟫",
	0x206E: "⟪NADS⟫",
	0x206F: "⟪NODS⟫",
	0xFEFF: "⟪BOM⟫",
}

// SanitizeTerminalText makes text safe for a single status or header row:
// control characters cannot reach the terminal as escape sequences, line
// breaks become spaces and formatting runes are spelled out.
func SanitizeTerminalText(text string) string {
	for _, r := range text {
		if needsSanitizing(r) {
			return sanitizeRunes(text)
		}
	}
	return text
}

func needsSanitizing(r rune) bool {
	switch {
	case r == '\t':
		return false
	case r == '\n' || r == '\r':
		return true
	case IsFormattingRune(r):
		return true
	}
	return isControl(r)
}

func sanitizeRunes(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case IsFormattingRune(r):
			b.WriteString(formattingRuneLabels[r])
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case isControl(r):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControl(r rune) bool {
	return (r >= 0 && r < 0x20) || r == 0x7f
}

// ReplaceFormattingRunes spells out bidi and zero-width runes. It reports
// whether anything was replaced.
func ReplaceFormattingRunes(text string) (string, bool) {
	if !HasFormattingRunes(text) {
		return text, false
	}
	var b strings.Builder
	for _, r := range text {
		if label, ok := FormattingRuneLabel(r); ok {
			b.WriteString(label)
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// HasFormattingRunes reports whether text contains bidi or zero-width formatting runes.
func HasFormattingRunes(text string) bool {
	return CountFormattingRunes(text) > 0
}

// CountFormattingRunes returns how many formatting runes text holds.
func CountFormattingRunes(text string) int {
	n := 0
	for _, r := range text {
		if IsFormattingRune(r) {
			n++
		}
	}
	return n
}

// IsFormattingRune reports whether r is an invisible bidi or zero-width rune.
func IsFormattingRune(r rune) bool {
	_, ok := formattingRuneLabels[r]
	return ok
}

// FormattingRuneLabel returns the printable label of a formatting rune.
func FormattingRuneLabel(r rune) (string, bool) {
	label, ok := formattingRuneLabels[r]
	return label, ok
}

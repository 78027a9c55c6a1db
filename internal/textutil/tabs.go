package textutil

import "github.com/mattn/go-runewidth"

// DefaultTabWidth is the tab stop distance when none is configured.
const DefaultTabWidth = 4

// TabStop returns how many columns a tab at column advances.
func TabStop(column, tabWidth int) int {
	if tabWidth <= 0 {
		return 1
	}
	return tabWidth - (column % tabWidth)
}

// DisplayWidth reports the printable width of text, measuring grapheme
// clusters (emoji sequences, combining marks) as single glyphs.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

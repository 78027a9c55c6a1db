package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// NormalizeInput prepares typed or pasted text for a document: it composes
// to NFC, folds CRLF to LF and drops control characters other than tab and
// newline.
func NormalizeInput(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = norm.NFC.String(text)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return r
		case r == '\r':
			return '\n'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, text)
}

// WrapPoints returns the indexes into runes at which each visual row of at
// most width cells starts. Rows break after the last space that fits, or
// mid-word when there is none. The first point is always 0.
func WrapPoints(runes []rune, width int) []int {
	points := []int{0}
	if width <= 0 {
		return points
	}
	start, col, lastSpace := 0, 0, -1
	for i, ru := range runes {
		w := runewidth.RuneWidth(ru)
		if w < 0 {
			w = 0
		}
		if col+w > width && i > start {
			brk := i
			if lastSpace > start {
				brk = lastSpace
			}
			points = append(points, brk)
			start = brk
			col = 0
			for _, r := range runes[brk:i] {
				col += runewidth.RuneWidth(r)
			}
			lastSpace = -1
		}
		col += w
		if ru == ' ' {
			lastSpace = i + 1
		}
	}
	return points
}

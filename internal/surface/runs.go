package surface

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Style is the set of inline formats applying to a run.
type Style uint8

const (
	StyleStrong Style = 1 << iota
	StyleEmphasis
	StyleCode
	StyleLink
	StyleStrike
)

// Has reports whether all bits of f are set.
func (s Style) Has(f Style) bool { return s&f == f }

// Run is a stretch of text with one style. A Break run is a hard line break
// and carries no text; it does not count towards caret offsets.
type Run struct {
	Text  string
	Style Style
	Break bool
}

// Runs flattens the surface into styled runs in document order.
func (s *Surface) Runs() []Run {
	var runs []Run
	collectRuns(s.root, 0, &runs)
	return runs
}

func collectRuns(n *html.Node, style Style, runs *[]Run) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data != "" {
				*runs = append(*runs, Run{Text: c.Data, Style: style})
			}
		case html.ElementNode:
			if c.DataAtom == atom.Br {
				*runs = append(*runs, Run{Break: true, Style: style})
				continue
			}
			collectRuns(c, style|styleOf(c), runs)
		}
	}
}

func styleOf(n *html.Node) Style {
	switch n.DataAtom {
	case atom.Strong, atom.B:
		return StyleStrong
	case atom.Em, atom.I:
		return StyleEmphasis
	case atom.Code:
		return StyleCode
	case atom.A:
		return StyleLink
	case atom.Del, atom.S:
		return StyleStrike
	}
	return 0
}

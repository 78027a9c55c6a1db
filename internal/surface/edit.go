package surface

import (
	"github.com/kk-code-lab/mdblocks/internal/caret"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Insert types text at offset and returns the caret offset after it. Typing
// into a placeholder replaces the marker.
func (s *Surface) Insert(offset int, text string) int {
	if text == "" {
		return caret.Clamp(offset, s.Len())
	}
	if s.IsPlaceholder() {
		s.clear()
		offset = 0
	}
	leaf, local := s.insertionPoint(offset)
	if leaf == nil {
		s.root.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		return runeLen(text)
	}
	n := leaf.(domNode).n
	runes := []rune(n.Data)
	n.Data = string(runes[:local]) + text + string(runes[local:])
	return caret.Offset(s.tree(), leaf, local) + runeLen(text)
}

// insertionPoint resolves offset like Select, except that an offset on the
// boundary between two leaves lands at the end of the earlier one. Text typed
// after "a " in "a <em>b</em>" then stays outside the emphasis.
func (s *Surface) insertionPoint(offset int) (caret.Node, int) {
	if offset <= 0 {
		return caret.Restore(s.tree(), 0)
	}
	leaf, local := caret.Restore(s.tree(), offset-1)
	if leaf == nil {
		return nil, 0
	}
	text, _ := leaf.Text()
	return leaf, min(local+1, runeLen(text))
}

// DeleteBackward removes the character before offset and returns the new
// caret offset. Inline elements left empty are removed.
func (s *Surface) DeleteBackward(offset int) int {
	offset = caret.Clamp(offset, s.Len())
	if offset == 0 {
		return 0
	}
	leaf, local := caret.Restore(s.tree(), offset-1)
	if leaf == nil {
		return 0
	}
	n := leaf.(domNode).n
	runes := []rune(n.Data)
	n.Data = string(append(runes[:local:local], runes[local+1:]...))
	if n.Data == "" {
		s.removeUpward(n)
	}
	return offset - 1
}

func (s *Surface) removeUpward(n *html.Node) {
	for n != nil && n != s.root {
		parent := n.Parent
		if parent == nil {
			return
		}
		parent.RemoveChild(n)
		if parent.FirstChild != nil {
			return
		}
		n = parent
	}
}

func (s *Surface) clear() {
	for c := s.root.FirstChild; c != nil; {
		next := c.NextSibling
		s.root.RemoveChild(c)
		c = next
	}
}

// Split cuts the surface at offset. The head keeps the root element and the
// content before offset; the tail holds the content from offset to the end
// inside a paragraph, since a split-off block has no block wrapper of its own.
// The receiver is left untouched.
func (s *Surface) Split(offset int) (head, tail *Surface) {
	offset = caret.Clamp(offset, s.Len())

	head = s.Clone()
	pos := 0
	keepRange(head.root, 0, offset, &pos)

	tail = s.Clone()
	pos = 0
	keepRange(tail.root, offset, -1, &pos)
	dropLeadingBreaks(tail.root)
	tail.root.Data = "p"
	tail.root.DataAtom = atom.P
	tail.root.Attr = nil
	return head, tail
}

// keepRange drops every character outside [start, end) below n; end < 0 means
// no upper bound. pos tracks the character offset of n.
func keepRange(n *html.Node, start, end int, pos *int) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
			runes := []rune(c.Data)
			from, to := *pos, *pos+len(runes)
			*pos = to
			lo := max(from, start) - from
			hi := len(runes)
			if end >= 0 {
				hi = min(to, end) - from
			}
			if lo >= hi {
				n.RemoveChild(c)
			} else {
				c.Data = string(runes[lo:hi])
			}
		case html.ElementNode:
			if isVoid(c) {
				if *pos < start || (end >= 0 && *pos >= end) {
					n.RemoveChild(c)
				}
				break
			}
			keepRange(c, start, end, pos)
			if c.FirstChild == nil {
				n.RemoveChild(c)
			}
		default:
			n.RemoveChild(c)
		}
		c = next
	}
}

// dropLeadingBreaks removes line breaks that would open the content below n,
// along with inline elements they leave empty.
func dropLeadingBreaks(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		switch {
		case c.Type == html.ElementNode && c.DataAtom == atom.Br:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && !isVoid(c):
			dropLeadingBreaks(c)
			if c.FirstChild != nil {
				return
			}
			n.RemoveChild(c)
		default:
			return
		}
	}
}

func isVoid(n *html.Node) bool {
	return n.DataAtom == atom.Br || n.DataAtom == atom.Img || n.DataAtom == atom.Hr
}

// Package surface is the editable rendering of one block: an HTML element
// tree the user mutates directly. Positions on a surface are character
// offsets as defined by package caret.
package surface

import (
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/mdblocks/internal/caret"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NBSP is the character an empty block renders to.
const NBSP = "\u00a0"

// Surface wraps the root element of a rendered block.
type Surface struct {
	root *html.Node
}

// New adopts root as a surface. root is detached from any parent.
func New(root *html.Node) *Surface {
	if root.Parent != nil {
		root.Parent.RemoveChild(root)
	}
	return &Surface{root: root}
}

// Literal builds a surface whose only content is text, inside a tag element.
func Literal(tag string, text string) *Surface {
	root := newElement(tag)
	if text != "" {
		root.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return &Surface{root: root}
}

func newElement(tag string) *html.Node {
	a := atom.Lookup([]byte(tag))
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: a}
}

// Root returns the root element.
func (s *Surface) Root() *html.Node { return s.root }

// Tag returns the root element name ("p", "h1", ...).
func (s *Surface) Tag() string { return s.root.Data }

// HTML serialises the root element and its content.
func (s *Surface) HTML() string {
	var b strings.Builder
	if err := html.Render(&b, s.root); err != nil {
		return ""
	}
	return b.String()
}

// InnerHTML serialises the content of the root element.
func (s *Surface) InnerHTML() string {
	var b strings.Builder
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return b.String()
		}
	}
	return b.String()
}

// Text returns the text content of the surface.
func (s *Surface) Text() string {
	var b strings.Builder
	for _, leaf := range caret.Leaves(s.tree()) {
		text, _ := leaf.Text()
		b.WriteString(text)
	}
	return b.String()
}

// Len returns the number of characters on the surface.
func (s *Surface) Len() int {
	return caret.Length(s.tree())
}

// IsPlaceholder reports whether the surface shows nothing but the empty
// block marker (or nothing at all).
func (s *Surface) IsPlaceholder() bool {
	return strings.Trim(s.Text(), " \t\n"+NBSP) == ""
}

// Clone returns a deep copy.
func (s *Surface) Clone() *Surface {
	return &Surface{root: cloneNode(s.root)}
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}

// Selection is a DOM-style caret anchor: for a text node Offset is a
// character offset into its text, for an element it is a child index.
type Selection struct {
	Node   *html.Node
	Offset int
}

// Select places a caret at the logical offset. Offsets beyond the content
// are clamped to its end.
func (s *Surface) Select(offset int) Selection {
	leaf, local := caret.Restore(s.tree(), offset)
	if leaf == nil {
		return Selection{Node: s.root, Offset: 0}
	}
	return Selection{Node: leaf.(domNode).n, Offset: local}
}

// Offset converts a selection back into a logical offset.
func (s *Surface) Offset(sel Selection) int {
	if sel.Node == nil {
		return 0
	}
	return caret.Offset(s.tree(), domNode{sel.Node}, sel.Offset)
}

func (s *Surface) tree() caret.Node {
	return domNode{s.root}
}

// domNode adapts an html.Node to caret.Node.
type domNode struct {
	n *html.Node
}

func (d domNode) Text() (string, bool) {
	if d.n.Type == html.TextNode {
		return d.n.Data, true
	}
	return "", false
}

func (d domNode) Children() []caret.Node {
	if d.n.Type != html.ElementNode && d.n.Type != html.DocumentNode {
		return nil
	}
	var out []caret.Node
	for c := d.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || c.Type == html.ElementNode {
			out = append(out, domNode{c})
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

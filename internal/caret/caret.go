// Package caret maps between a caret anchored inside a rendered block and a
// logical character offset from the start of that block.
//
// The functions work on any tree that exposes its text-bearing leaves in
// document order, so they can be exercised without a rendering environment.
// Offsets count runes of leaf text.
package caret

import "unicode/utf8"

// Node is one node of a rendered block. Text-bearing leaves report their text
// and true; every other node reports its children. Nodes must be comparable so
// an anchor can be recognised while walking.
type Node interface {
	Text() (string, bool)
	Children() []Node
}

// Position is a logical caret target: the start line of the block that owns
// the caret and the character offset inside it.
type Position struct {
	Block  int
	Offset int
}

// Unfocused is the caret target when focus is outside the block surfaces.
var Unfocused = Position{Block: -1, Offset: -1}

// Active reports whether p points at a block.
func (p Position) Active() bool {
	return p.Block > 0
}

// Length returns the number of characters below n.
func Length(n Node) int {
	if n == nil {
		return 0
	}
	if text, ok := n.Text(); ok {
		return utf8.RuneCountInString(text)
	}
	total := 0
	for _, child := range n.Children() {
		total += Length(child)
	}
	return total
}

// Offset returns the character count from the start of root to the anchor.
// For a text anchor, anchorOffset is a character offset into its text; for
// any other anchor it is a child index, as with DOM selections. An anchor
// that is not below root yields the length of root.
func Offset(root Node, anchor Node, anchorOffset int) int {
	if root == nil {
		return 0
	}
	total, found := offsetOf(root, anchor, anchorOffset)
	if !found {
		return Length(root)
	}
	return total
}

func offsetOf(n Node, anchor Node, anchorOffset int) (int, bool) {
	if n == anchor {
		if text, ok := n.Text(); ok {
			return clamp(anchorOffset, 0, utf8.RuneCountInString(text)), true
		}
		children := n.Children()
		limit := clamp(anchorOffset, 0, len(children))
		total := 0
		for _, child := range children[:limit] {
			total += Length(child)
		}
		return total, true
	}
	if text, ok := n.Text(); ok {
		return utf8.RuneCountInString(text), false
	}
	total := 0
	for _, child := range n.Children() {
		sub, found := offsetOf(child, anchor, anchorOffset)
		total += sub
		if found {
			return total, true
		}
	}
	return total, false
}

// Restore finds the leaf that holds offset and the offset local to it.
// The leaf chosen is the one whose preceding length is <= offset and whose
// end is past it. Offsets outside the text are clamped: a negative offset
// lands at the start, an offset at or beyond the end lands at the end of the
// last leaf. A tree without leaves yields (nil, 0).
func Restore(root Node, offset int) (Node, int) {
	if root == nil {
		return nil, 0
	}
	if offset < 0 {
		offset = 0
	}
	if leaf, local, ok := locate(root, offset); ok {
		return leaf, local
	}
	last := lastLeaf(root)
	if last == nil {
		return nil, 0
	}
	text, _ := last.Text()
	return last, utf8.RuneCountInString(text)
}

func locate(n Node, offset int) (Node, int, bool) {
	if text, ok := n.Text(); ok {
		length := utf8.RuneCountInString(text)
		if offset < length {
			return n, offset, true
		}
		return nil, offset - length, false
	}
	for _, child := range n.Children() {
		leaf, rest, ok := locate(child, offset)
		if ok {
			return leaf, rest, true
		}
		offset = rest
	}
	return nil, offset, false
}

func lastLeaf(n Node) Node {
	if _, ok := n.Text(); ok {
		return n
	}
	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if leaf := lastLeaf(children[i]); leaf != nil {
			return leaf
		}
	}
	return nil
}

// Leaves returns the text-bearing leaves below n in document order.
func Leaves(n Node) []Node {
	if n == nil {
		return nil
	}
	if _, ok := n.Text(); ok {
		return []Node{n}
	}
	var leaves []Node
	for _, child := range n.Children() {
		leaves = append(leaves, Leaves(child)...)
	}
	return leaves
}

// Clamp bounds an offset to [0, length].
func Clamp(offset, length int) int {
	return clamp(offset, 0, length)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

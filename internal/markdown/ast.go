package markdown

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the structural type of a top-level block.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	default:
		return "paragraph"
	}
}

// Span locates a block inside the text it was parsed from. Offsets are byte
// offsets, lines and columns are 1-based.
type Span struct {
	StartOffset int
	EndOffset   int
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
}

// SourcePos renders the span as a data-sourcepos attribute value
// ("startLine:startCol-endLine:endCol").
func (s Span) SourcePos() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}

// LineFromSourcePos extracts the start line from a data-sourcepos value.
// It returns -1 when the value cannot be read.
func LineFromSourcePos(pos string) int {
	head, _, _ := strings.Cut(strings.TrimSpace(pos), ":")
	line, err := strconv.Atoi(head)
	if err != nil || line < 1 {
		return -1
	}
	return line
}

// Block is one parsed top-level node. Blocks are values: a new parse produces
// new blocks, nothing mutates an existing one.
type Block struct {
	Kind   Kind
	Level  int // heading level, 0 for paragraphs
	Span   Span
	Source string
	Index  int
	Key    string
}

// Lines is the number of source lines the block occupies.
func (b Block) Lines() int {
	return b.Span.EndLine - b.Span.StartLine + 1
}

// Document is the result of parsing: the text and its blocks in order.
type Document struct {
	Text   string
	Blocks []Block
}

// Len returns the number of blocks.
func (d Document) Len() int { return len(d.Blocks) }

// Before returns the text preceding block i.
func (d Document) Before(i int) string {
	if i < 0 || i >= len(d.Blocks) {
		return d.Text
	}
	return d.Text[:d.Blocks[i].Span.StartOffset]
}

// After returns the text following block i.
func (d Document) After(i int) string {
	if i < 0 || i >= len(d.Blocks) {
		return ""
	}
	return d.Text[d.Blocks[i].Span.EndOffset:]
}

// Separator returns the text between block i-1 and block i. Separator(0) is
// the leading text and Separator(Len()) the trailing text.
func (d Document) Separator(i int) string {
	start := 0
	if i > 0 && i-1 < len(d.Blocks) {
		start = d.Blocks[i-1].Span.EndOffset
	}
	end := len(d.Text)
	if i >= 0 && i < len(d.Blocks) {
		end = d.Blocks[i].Span.StartOffset
	}
	if start > end {
		return ""
	}
	return d.Text[start:end]
}

// Join reassembles the document from block sources and separators.
func (d Document) Join() string {
	var b strings.Builder
	b.Grow(len(d.Text))
	for i, block := range d.Blocks {
		b.WriteString(d.Separator(i))
		b.WriteString(block.Source)
	}
	b.WriteString(d.Separator(len(d.Blocks)))
	return b.String()
}

// BlockAtLine returns the block starting at the given line.
func (d Document) BlockAtLine(line int) (Block, bool) {
	for _, block := range d.Blocks {
		if block.Span.StartLine == line {
			return block, true
		}
	}
	return Block{}, false
}

// IndexOfKey returns the index of the block carrying key, or -1.
func (d Document) IndexOfKey(key string) int {
	if key == "" {
		return -1
	}
	for i, block := range d.Blocks {
		if block.Key == key {
			return i
		}
	}
	return -1
}

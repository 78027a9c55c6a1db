package render

import "github.com/gdamore/tcell/v2"

const (
	minMirrorWidth = 10
	minBlocksWidth = 10
	blockGutter    = 2
)

// Row is one drawn screen row of a pane. Offsets are characters from the
// block start in the blocks pane and bytes into the mirror in the
// plain-text pane.
type Row struct {
	Y     int
	X     int
	Block int // -1 in the plain-text pane
	Start int
	End   int
	Cells []int // offset of the character drawn in each column

	cells []cell
}

// offsetAt maps screen column x to an offset on the row.
func (r Row) offsetAt(x int) int {
	col := x - r.X
	if col < 0 {
		return r.Start
	}
	if col < len(r.Cells) {
		return r.Cells[col]
	}
	return r.End
}

// columnOf returns the screen column of the caret at offset.
func (r Row) columnOf(offset int) int {
	n := 0
	for _, o := range r.Cells {
		if o < offset {
			n++
		}
	}
	return r.X + n
}

// Layout is the geometry of the last render, used to map mouse clicks back
// to document positions.
type Layout struct {
	Width  int
	Height int

	BodyTop    int
	BodyBottom int // exclusive

	MirrorStart int
	MirrorWidth int
	SeparatorX  int
	BlocksStart int
	BlocksWidth int

	MirrorRows []Row
	BlockRows  []Row
	MirrorEnd  int // length of the mirror text
}

func computeLayout(w, h, mirrorPercent int) Layout {
	if mirrorPercent <= 0 || mirrorPercent >= 100 {
		mirrorPercent = 50
	}
	l := Layout{Width: w, Height: h, BodyTop: 1, BodyBottom: h - 1}
	if l.BodyBottom < l.BodyTop {
		l.BodyBottom = l.BodyTop
	}

	mirror := w * mirrorPercent / 100
	if mirror < minMirrorWidth {
		mirror = minMirrorWidth
	}
	if w-mirror-1 < minBlocksWidth {
		mirror = w - minBlocksWidth - 1
	}
	if mirror < 0 {
		mirror = 0
	}
	l.MirrorWidth = mirror
	l.SeparatorX = mirror
	l.BlocksStart = mirror + 1
	l.BlocksWidth = w - l.BlocksStart
	if l.BlocksWidth < 0 {
		l.BlocksWidth = 0
	}
	return l
}

// BodyHeight returns the number of rows available to the panes.
func (l Layout) BodyHeight() int {
	return l.BodyBottom - l.BodyTop
}

// BlockAt maps a screen position inside the blocks pane to a block index
// and character offset.
func (l Layout) BlockAt(x, y int) (index, offset int, ok bool) {
	if x < l.BlocksStart {
		return 0, 0, false
	}
	for _, row := range l.BlockRows {
		if row.Y == y && row.Block >= 0 {
			return row.Block, row.offsetAt(x), true
		}
	}
	return 0, 0, false
}

// MirrorAt maps a screen position inside the plain-text pane to a byte
// offset of the mirror. Clicks below the text land at its end.
func (l Layout) MirrorAt(x, y int) (int, bool) {
	if x < l.MirrorStart || x >= l.MirrorStart+l.MirrorWidth || y < l.BodyTop || y >= l.BodyBottom {
		return 0, false
	}
	for _, row := range l.MirrorRows {
		if row.Y == y {
			return row.offsetAt(x), true
		}
	}
	return l.MirrorEnd, true
}

// cell is one character of pane content before wrapping.
type cell struct {
	r      rune
	style  tcell.Style
	comb   []rune
	offset int
	width  int
}

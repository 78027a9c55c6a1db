package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdblocks/internal/editor"
	"github.com/kk-code-lab/mdblocks/internal/markdown"
	statepkg "github.com/kk-code-lab/mdblocks/internal/state"
	"github.com/kk-code-lab/mdblocks/internal/surface"
	textutil "github.com/kk-code-lab/mdblocks/internal/textutil"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
	widths widthCache

	layout    Layout
	hasLayout bool
}

type cursorPos struct {
	x, y int
	ok   bool
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// LastLayout returns the geometry of the most recent Render.
func (r *Renderer) LastLayout() (Layout, bool) {
	return r.layout, r.hasLayout
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()

	w, h := r.screen.Size()

	if state != nil && state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
		r.screen.HideCursor()
		r.screen.Show()
		return
	}

	percent := 50
	if state != nil {
		percent = state.MirrorWidthPercent
	}
	layout := computeLayout(w, h, percent)

	r.drawHeader(state, w)
	mirrorCursor := r.drawMirrorPane(state, &layout)
	r.drawSeparator(layout)
	blockCursor := r.drawBlocksPane(state, &layout)
	r.drawStatusLine(state, w, h)

	cursor := blockCursor
	if state != nil && state.Pane == statepkg.PaneMirror {
		cursor = mirrorCursor
	}
	if cursor.ok {
		r.screen.ShowCursor(cursor.x, cursor.y)
	} else {
		r.screen.HideCursor()
	}

	r.layout = layout
	r.hasLayout = true
	r.screen.Show()
}

// drawHeader renders the top bar with title and document status
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	endX := r.drawTextLine(0, 0, w, "mdblocks", headerStyle.Bold(true))
	if status := formatHeaderStatus(state); status != "" && endX+1 < w {
		r.screen.SetContent(endX, 0, ' ', nil, headerStyle)
		endX++
		status = r.truncateTextToWidth(textutil.SanitizeTerminalText(status), w-endX)
		endX = r.drawTextLine(endX, 0, w-endX, status, headerStyle)
	}
	r.fillRow(endX, 0, w, headerStyle)
}

func (r *Renderer) drawSeparator(l Layout) {
	if l.SeparatorX >= l.Width {
		return
	}
	style := tcell.StyleDefault.Foreground(r.theme.SeparatorFg)
	for y := l.BodyTop; y < l.BodyBottom; y++ {
		r.screen.SetContent(l.SeparatorX, y, '│', nil, style)
	}
}

// drawMirrorPane draws the plain-text document, wrapped to the pane width.
func (r *Renderer) drawMirrorPane(state *statepkg.AppState, l *Layout) cursorPos {
	if state == nil || l.MirrorWidth <= 0 || l.BodyHeight() <= 0 {
		return cursorPos{}
	}
	text := state.Mirror()
	l.MirrorEnd = len(text)
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)

	var rows []Row
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		cells := r.mirrorCells(line, offset, state.TabWidth, style)
		rows = append(rows, r.wrapRows(cells, l.MirrorWidth, offset, offset+len(line), -1)...)
		offset += len(line) + 1
	}

	caretRow := -1
	if state.Pane == statepkg.PaneMirror {
		caretRow = rowForOffset(rows, state.MirrorCursor, -1)
	}
	top := scrollTop(caretRow, l.BodyHeight())

	var cursor cursorPos
	for i := top; i < len(rows) && i-top < l.BodyHeight(); i++ {
		row := rows[i]
		row.Y = l.BodyTop + i - top
		row.X = l.MirrorStart
		r.drawRow(row)
		if i == caretRow {
			cursor = cursorPos{x: row.columnOf(state.MirrorCursor), y: row.Y, ok: true}
		}
		l.MirrorRows = append(l.MirrorRows, row)
	}
	return cursor
}

func (r *Renderer) mirrorCells(line string, lineStart, tabWidth int, style tcell.Style) []cell {
	cells := make([]cell, 0, len(line))
	column := 0
	for i, ru := range line {
		offset := lineStart + i
		switch {
		case ru == '\t':
			for n := textutil.TabStop(column, tabWidth); n > 0; n-- {
				cells = append(cells, cell{r: ' ', style: style, offset: offset, width: 1})
				column++
			}
			continue
		case ru == '\r':
			continue
		}
		column += r.appendCell(&cells, ru, style, offset)
	}
	return cells
}

// appendCell adds ru to cells, folding zero-width runes into the previous
// cell, and returns the columns it occupies. Formatting runes get a visible
// marker cell of their own.
func (r *Renderer) appendCell(cells *[]cell, ru rune, style tcell.Style, offset int) int {
	switch {
	case ru < 0x20 || ru == 0x7f:
		ru = '?'
	case textutil.IsFormattingRune(ru):
		ru = '·'
		style = style.Foreground(r.theme.WarningFg)
	}
	w := r.cachedRuneWidth(ru)
	if w == 0 && len(*cells) > 0 {
		prev := &(*cells)[len(*cells)-1]
		prev.comb = append(prev.comb, ru)
		return 0
	}
	if w < 1 {
		w = 1
	}
	*cells = append(*cells, cell{r: ru, style: style, offset: offset, width: w})
	return w
}

// drawBlocksPane draws every mounted block with its inline styles. The
// focused block gets a marker in the gutter.
func (r *Renderer) drawBlocksPane(state *statepkg.AppState, l *Layout) cursorPos {
	if state == nil || state.Session == nil || l.BlocksWidth <= blockGutter || l.BodyHeight() <= 0 {
		return cursorPos{}
	}
	width := l.BlocksWidth - blockGutter
	focused := state.Session.Focused()

	var rows []Row
	for i, c := range state.Session.Controllers() {
		if i > 0 {
			rows = append(rows, Row{Block: -1})
		}
		for _, ln := range r.blockLines(c) {
			rows = append(rows, r.wrapRows(ln.cells, width, ln.start, ln.end, i)...)
		}
	}

	caretRow := -1
	var caretOffset int
	if c := state.Session.FocusedController(); c != nil && state.Pane == statepkg.PaneBlocks {
		caretOffset = c.Offset()
		caretRow = rowForOffset(rows, caretOffset, focused)
	}
	top := scrollTop(caretRow, l.BodyHeight())

	markerStyle := tcell.StyleDefault.Foreground(r.theme.FocusMarkerFg)
	var cursor cursorPos
	for i := top; i < len(rows) && i-top < l.BodyHeight(); i++ {
		row := rows[i]
		row.Y = l.BodyTop + i - top
		row.X = l.BlocksStart + blockGutter
		if row.Block >= 0 && row.Block == focused {
			r.screen.SetContent(l.BlocksStart, row.Y, '▌', nil, markerStyle)
		}
		r.drawRow(row)
		if i == caretRow {
			cursor = cursorPos{x: row.columnOf(caretOffset), y: row.Y, ok: true}
		}
		l.BlockRows = append(l.BlockRows, row)
	}
	return cursor
}

type blockLine struct {
	cells []cell
	start int
	end   int
}

// blockLines flattens a block's surface into lines split at hard breaks.
// Offsets count characters the way the caret does.
func (r *Renderer) blockLines(c *editor.Controller) []blockLine {
	s := c.Surface()
	if s.IsPlaceholder() {
		return []blockLine{{}}
	}
	base := r.blockStyle(c.Block())
	lines := []blockLine{{}}
	offset := 0
	for _, run := range s.Runs() {
		cur := &lines[len(lines)-1]
		if run.Break {
			cur.end = offset
			lines = append(lines, blockLine{start: offset})
			continue
		}
		style := r.runStyle(base, run.Style)
		for _, ru := range run.Text {
			if ru == '\n' || string(ru) == surface.NBSP {
				ru = ' '
			}
			r.appendCell(&cur.cells, ru, style, offset)
			offset++
		}
	}
	lines[len(lines)-1].end = offset
	return lines
}

func (r *Renderer) blockStyle(b markdown.Block) tcell.Style {
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	if b.Kind == markdown.KindHeading {
		style = style.Bold(true).Foreground(r.theme.HeadingColor(b.Level))
	}
	return style
}

func (r *Renderer) runStyle(base tcell.Style, s surface.Style) tcell.Style {
	style := base
	if s.Has(surface.StyleStrong) {
		style = style.Bold(true)
	}
	if s.Has(surface.StyleEmphasis) {
		style = style.Italic(true)
	}
	if s.Has(surface.StyleCode) {
		style = style.Foreground(r.theme.CodeFg)
	}
	if s.Has(surface.StyleLink) {
		style = style.Underline(true).Foreground(r.theme.LinkFg)
	}
	if s.Has(surface.StyleStrike) {
		style = style.StrikeThrough(true)
	}
	return style
}

// wrapRows splits one line of cells into rows of at most width columns.
func (r *Renderer) wrapRows(cells []cell, width, lineStart, lineEnd, block int) []Row {
	runes := make([]rune, len(cells))
	for i, c := range cells {
		runes[i] = c.r
	}
	points := textutil.WrapPoints(runes, width)

	rows := make([]Row, 0, len(points))
	for i, p := range points {
		end := len(cells)
		if i+1 < len(points) {
			end = points[i+1]
		}
		seg := cells[p:end]
		row := Row{Block: block, Start: lineStart, End: lineEnd, cells: seg}
		if len(seg) > 0 {
			row.Start = seg[0].offset
		}
		if end < len(cells) {
			row.End = cells[end].offset
		}
		for _, c := range seg {
			for k := 0; k < c.width; k++ {
				row.Cells = append(row.Cells, c.offset)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *Renderer) drawRow(row Row) {
	x := row.X
	for _, c := range row.cells {
		r.screen.SetContent(x, row.Y, c.r, c.comb, c.style)
		x += c.width
	}
}

// rowForOffset returns the last row of block whose start is at or before
// offset, or -1.
func rowForOffset(rows []Row, offset, block int) int {
	found := -1
	for i, row := range rows {
		if row.Block == block && row.Start <= offset {
			found = i
		}
	}
	return found
}

// scrollTop returns the first visible row so that row stays on screen.
func scrollTop(row, height int) int {
	if row < height {
		return 0
	}
	return row - height + 1
}

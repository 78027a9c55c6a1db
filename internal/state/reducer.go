package state

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/mdblocks/internal/caret"
	"github.com/kk-code-lab/mdblocks/internal/editor"
	"github.com/kk-code-lab/mdblocks/internal/markdown"
	"github.com/kk-code-lab/mdblocks/internal/textutil"
	"github.com/rs/zerolog"
)

// ErrNoSession is returned when an action needs the document but the state
// has none.
var ErrNoSession = errors.New("no document session")

// StateReducer applies actions to AppState.
type StateReducer struct {
	log zerolog.Logger
}

// Option configures a StateReducer.
type Option func(*StateReducer)

// WithLogger sets the reducer's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *StateReducer) { r.log = l }
}

// NewStateReducer creates a reducer.
func NewStateReducer(opts ...Option) *StateReducer {
	r := &StateReducer{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce applies action to state. Keys go to the focused block or to the
// plain-text pane depending on state.Pane.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	state.LastError = nil
	defer func() {
		state.MirrorCursor = clampCursor(state.Mirror(), state.MirrorCursor)
	}()

	switch a := action.(type) {

	// ===== VIEW =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		return state, nil

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
		return state, nil

	case HelpHideAction:
		state.HelpVisible = false
		return state, nil
	}

	if state.Doc == nil || state.Session == nil {
		return state, ErrNoSession
	}

	switch a := action.(type) {

	// ===== FOCUS =====

	case TogglePaneAction:
		if state.Pane == PaneBlocks {
			r.enterMirror(state, r.mirrorOffsetOfFocus(state))
		} else {
			r.enterBlocks(state)
		}
		return state, nil

	case FocusBlockAction:
		state.Pane = PaneBlocks
		if !state.Session.Focus(a.Index) {
			return state, fmt.Errorf("no block %d", a.Index)
		}
		state.Session.FocusedController().Select(a.Offset)
		return state, nil

	case MirrorCursorAction:
		r.enterMirror(state, a.Offset)
		return state, nil

	case UnfocusAction:
		state.Session.Unfocus()
		return state, nil

	// ===== EDITING =====

	case CharAction:
		text := textutil.NormalizeInput(a.Text)
		if text == "" {
			return state, nil
		}
		if state.Pane == PaneMirror {
			r.insertMirror(state, text)
		} else {
			r.insertBlocks(state, text)
		}
		return state, nil

	case BackspaceAction:
		if state.Pane == PaneMirror {
			r.backspaceMirror(state)
		} else if c := state.Session.FocusedController(); c != nil {
			c.Backspace()
		}
		return state, nil

	case EnterAction:
		if state.Pane == PaneMirror {
			r.insertMirror(state, "\n")
		} else {
			r.breakBlock(state)
		}
		return state, nil

	// ===== CURSOR =====

	case CursorLeftAction:
		if state.Pane == PaneMirror {
			state.MirrorCursor = stepRune(state.Mirror(), state.MirrorCursor, -1)
		} else {
			r.stepCaret(state, -1)
		}
		return state, nil

	case CursorRightAction:
		if state.Pane == PaneMirror {
			state.MirrorCursor = stepRune(state.Mirror(), state.MirrorCursor, 1)
		} else {
			r.stepCaret(state, 1)
		}
		return state, nil

	case CursorUpAction:
		if state.Pane == PaneMirror {
			state.MirrorCursor = moveLine(state.Mirror(), state.MirrorCursor, -1)
		} else {
			state.Session.FocusPrev()
		}
		return state, nil

	case CursorDownAction:
		if state.Pane == PaneMirror {
			state.MirrorCursor = moveLine(state.Mirror(), state.MirrorCursor, 1)
		} else {
			state.Session.FocusNext()
		}
		return state, nil

	case CursorHomeAction:
		if state.Pane == PaneMirror {
			state.MirrorCursor = lineStart(state.Mirror(), state.MirrorCursor)
		} else if c := state.Session.FocusedController(); c != nil {
			c.Select(0)
		}
		return state, nil

	case CursorEndAction:
		if state.Pane == PaneMirror {
			state.MirrorCursor = lineEnd(state.Mirror(), state.MirrorCursor)
		} else if c := state.Session.FocusedController(); c != nil {
			c.Select(c.Surface().Len())
		}
		return state, nil

	default:
		return state, fmt.Errorf("unknown action: %T", action)
	}
}

// focusedOrFirst returns the focused controller, focusing the first block
// when none is.
func (r *StateReducer) focusedOrFirst(state *AppState) *editor.Controller {
	if c := state.Session.FocusedController(); c != nil {
		return c
	}
	if state.Session.Focus(0) {
		return state.Session.FocusedController()
	}
	return nil
}

func (r *StateReducer) insertBlocks(state *AppState, text string) {
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			r.breakBlock(state)
		}
		if part == "" {
			continue
		}
		c := r.focusedOrFirst(state)
		if c == nil {
			// Empty document: the typed text becomes its first block.
			state.Doc.SetCaret(caret.Position{Block: 1, Offset: utf8.RuneCountInString(part)})
			state.Doc.Commit(part)
			continue
		}
		c.Type(part)
	}
}

func (r *StateReducer) breakBlock(state *AppState) {
	c := r.focusedOrFirst(state)
	if c == nil {
		return
	}
	c.HandleKey(editor.Key{Code: editor.KeyEnter}, c.Offset())
}

// stepCaret moves the block caret by one character, crossing into the
// neighbouring block at either edge.
func (r *StateReducer) stepCaret(state *AppState, delta int) {
	c := state.Session.FocusedController()
	if c == nil {
		r.focusedOrFirst(state)
		return
	}
	offset := c.Offset()
	switch {
	case delta < 0 && offset == 0:
		if state.Session.FocusPrev() {
			prev := state.Session.FocusedController()
			prev.Select(prev.Surface().Len())
		}
	case delta > 0 && offset >= c.Surface().Len():
		if state.Session.FocusNext() {
			state.Session.FocusedController().Select(0)
		}
	default:
		c.MoveCaret(delta)
	}
}

func (r *StateReducer) enterMirror(state *AppState, offset int) {
	state.Session.Unfocus()
	state.Pane = PaneMirror
	state.MirrorCursor = clampCursor(state.Mirror(), offset)
	r.log.Debug().Int("cursor", state.MirrorCursor).Msg("plain-text pane focused")
}

// mirrorOffsetOfFocus maps the focused block to a byte offset in the
// mirror: its start, or its end when the caret sits at the block end.
func (r *StateReducer) mirrorOffsetOfFocus(state *AppState) int {
	c := state.Session.FocusedController()
	if c == nil {
		return state.MirrorCursor
	}
	span := c.Block().Span
	if c.Offset() >= c.Surface().Len() {
		return span.EndOffset
	}
	return span.StartOffset
}

// enterBlocks focuses the block under the mirror cursor line, or the
// nearest block before it.
func (r *StateReducer) enterBlocks(state *AppState) {
	state.Pane = PaneBlocks
	doc := state.Session.Current()
	if doc.Len() == 0 {
		return
	}
	line, _ := state.MirrorLineCol()
	index := nearestBlock(doc, line+1)
	state.Session.Focus(index)
	r.log.Debug().Int("block", index).Msg("blocks pane focused")
}

func nearestBlock(doc markdown.Document, line int) int {
	index := 0
	for _, b := range doc.Blocks {
		if b.Span.StartLine > line {
			break
		}
		index = b.Index
	}
	return index
}

func (r *StateReducer) insertMirror(state *AppState, text string) {
	mirror := state.Mirror()
	cursor := clampCursor(mirror, state.MirrorCursor)
	state.Doc.SetMirror(mirror[:cursor] + text + mirror[cursor:])
	state.MirrorCursor = cursor + len(text)
}

func (r *StateReducer) backspaceMirror(state *AppState) {
	mirror := state.Mirror()
	cursor := clampCursor(mirror, state.MirrorCursor)
	if cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(mirror[:cursor])
	state.Doc.SetMirror(mirror[:cursor-size] + mirror[cursor:])
	state.MirrorCursor = cursor - size
}

func stepRune(text string, cursor, delta int) int {
	cursor = clampCursor(text, cursor)
	if delta < 0 {
		if cursor == 0 {
			return 0
		}
		_, size := utf8.DecodeLastRuneInString(text[:cursor])
		return cursor - size
	}
	if cursor >= len(text) {
		return len(text)
	}
	_, size := utf8.DecodeRuneInString(text[cursor:])
	return cursor + size
}

func lineStart(text string, cursor int) int {
	cursor = clampCursor(text, cursor)
	return strings.LastIndexByte(text[:cursor], '\n') + 1
}

func lineEnd(text string, cursor int) int {
	cursor = clampCursor(text, cursor)
	if i := strings.IndexByte(text[cursor:], '\n'); i >= 0 {
		return cursor + i
	}
	return len(text)
}

// moveLine moves the cursor delta lines, keeping its rune column where the
// target line is long enough.
func moveLine(text string, cursor, delta int) int {
	cursor = clampCursor(text, cursor)
	start := lineStart(text, cursor)
	col := utf8.RuneCountInString(text[start:cursor])

	lines := strings.Split(text, "\n")
	line := strings.Count(text[:cursor], "\n")
	target := line + delta
	if target < 0 || target >= len(lines) {
		return cursor
	}

	offset := 0
	for i := 0; i < target; i++ {
		offset += len(lines[i]) + 1
	}
	l := lines[target]
	pos := 0
	for i := 0; i < col && pos < len(l); i++ {
		_, size := utf8.DecodeRuneInString(l[pos:])
		pos += size
	}
	return offset + pos
}

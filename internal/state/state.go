package state

import (
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/mdblocks/internal/document"
	"github.com/kk-code-lab/mdblocks/internal/editor"
	"github.com/kk-code-lab/mdblocks/internal/textutil"
)

// Pane identifies which half of the screen receives keys.
type Pane int

const (
	PaneBlocks Pane = iota
	PaneMirror
)

func (p Pane) String() string {
	if p == PaneMirror {
		return "text"
	}
	return "blocks"
}

// AppState is the single source of truth for the terminal front end. The
// document itself lives in Doc; Session is its block view.
type AppState struct {
	Doc     *document.State
	Session *editor.Session

	Pane         Pane
	MirrorCursor int // byte offset into Doc.Mirror()

	ScreenWidth        int
	ScreenHeight       int
	MirrorWidthPercent int
	TabWidth           int

	HelpVisible bool
	LastError   error
}

// NewAppState returns the state for a session over doc.
func NewAppState(doc *document.State, session *editor.Session) *AppState {
	return &AppState{
		Doc:                doc,
		Session:            session,
		MirrorWidthPercent: 50,
		TabWidth:           textutil.DefaultTabWidth,
	}
}

// Mirror returns the plain-text view of the document.
func (s *AppState) Mirror() string {
	if s.Doc == nil {
		return ""
	}
	return s.Doc.Mirror()
}

// FocusedBlock returns the focused block index, or -1.
func (s *AppState) FocusedBlock() int {
	if s.Session == nil {
		return -1
	}
	return s.Session.Focused()
}

// MirrorLineCol returns the 0-based line and rune column of the mirror
// cursor.
func (s *AppState) MirrorLineCol() (int, int) {
	text := s.Mirror()
	cursor := clampCursor(text, s.MirrorCursor)
	line := strings.Count(text[:cursor], "\n")
	lineStart := strings.LastIndexByte(text[:cursor], '\n') + 1
	return line, utf8.RuneCountInString(text[lineStart:cursor])
}

// clampCursor keeps offset inside text and on a rune boundary.
func clampCursor(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset >= len(text) {
		return len(text)
	}
	for offset > 0 && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}

package editor

import (
	"github.com/kk-code-lab/mdblocks/internal/caret"
	"github.com/kk-code-lab/mdblocks/internal/document"
	"github.com/kk-code-lab/mdblocks/internal/markdown"
	"github.com/rs/zerolog"
)

// Session is the block view of a document. It re-parses on every document
// change, mounts one Controller per block and tracks which one is focused.
type Session struct {
	doc         *document.State
	conv        Converter
	keyer       *markdown.Keyer
	opts        []Option
	log         zerolog.Logger
	parsed      markdown.Document
	controllers []*Controller
	focused     int
	focusedKey  string
	cancel      func()
}

// NewSession parses doc, mounts its blocks and follows later changes.
func NewSession(doc *document.State, conv Converter, opts ...Option) *Session {
	o := buildOptions(opts)
	s := &Session{
		doc:     doc,
		conv:    conv,
		keyer:   markdown.NewKeyer(),
		opts:    opts,
		log:     o.log,
		focused: -1,
	}
	s.reparse(doc.Text())
	s.cancel = doc.Subscribe(s.reparse)
	return s
}

// Close stops following the document.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Current returns the latest parse.
func (s *Session) Current() markdown.Document { return s.parsed }

// Document returns the document state the session renders.
func (s *Session) Document() *document.State { return s.doc }

// Len returns the number of blocks.
func (s *Session) Len() int { return len(s.controllers) }

// Controllers returns the mounted controllers in document order.
func (s *Session) Controllers() []*Controller { return s.controllers }

// Controller returns the controller of block i, or nil.
func (s *Session) Controller(i int) *Controller {
	if i < 0 || i >= len(s.controllers) {
		return nil
	}
	return s.controllers[i]
}

// Focused returns the index of the focused block, or -1.
func (s *Session) Focused() int { return s.focused }

// FocusedController returns the focused controller, or nil.
func (s *Session) FocusedController() *Controller {
	return s.Controller(s.focused)
}

func (s *Session) reparse(text string) {
	next := markdown.Parse(text)
	next.Blocks = s.keyer.Assign(s.parsed.Blocks, next.Blocks)
	s.parsed = next

	s.controllers = make([]*Controller, len(next.Blocks))
	for i := range next.Blocks {
		s.controllers[i] = Mount(s.doc, s.conv, s, i, s.opts...)
	}

	prevKey := s.focusedKey
	s.focused, s.focusedKey = -1, ""
	target := s.doc.Caret()
	if !target.Active() {
		s.log.Debug().Int("blocks", len(next.Blocks)).Msg("document re-parsed")
		return
	}
	for i, c := range s.controllers {
		if c.Status() == StatusFocused {
			s.setFocused(i)
			break
		}
	}
	if s.focused < 0 && prevKey != "" {
		// The caret line has no block; stay on the block that had focus.
		if line, ok := markdown.LineMap(next.Blocks)[prevKey]; ok {
			if block, found := next.BlockAtLine(line); found {
				s.doc.SetCaret(caret.Position{Block: line, Offset: target.Offset})
				s.controllers[block.Index].Focus()
				s.setFocused(block.Index)
			}
		}
	}
	s.log.Debug().
		Int("blocks", len(next.Blocks)).
		Int("focused", s.focused).
		Int("caret_block", target.Block).
		Msg("document re-parsed")
}

func (s *Session) setFocused(i int) {
	s.focused = i
	s.focusedKey = s.controllers[i].Block().Key
}

// Focus moves focus to block i. The block losing focus records the
// transfer, which also reconciles the mirror.
func (s *Session) Focus(i int) bool {
	next := s.Controller(i)
	if next == nil {
		return false
	}
	if i == s.focused {
		return true
	}
	if cur := s.FocusedController(); cur != nil {
		cur.Blur(next.SourcePos())
	} else {
		s.doc.SetCaret(caret.Position{Block: next.Block().Span.StartLine, Offset: 0})
	}
	next.Focus()
	s.setFocused(i)
	return true
}

// FocusNext focuses the block after the focused one, or the first block
// when nothing is focused.
func (s *Session) FocusNext() bool {
	if s.focused < 0 {
		return s.Focus(0)
	}
	return s.Focus(s.focused + 1)
}

// FocusPrev focuses the block before the focused one, or the last block
// when nothing is focused.
func (s *Session) FocusPrev() bool {
	if s.focused < 0 {
		return s.Focus(len(s.controllers) - 1)
	}
	return s.Focus(s.focused - 1)
}

// Unfocus moves focus out of the blocks.
func (s *Session) Unfocus() {
	if cur := s.FocusedController(); cur != nil {
		cur.Blur("")
	} else {
		s.doc.SetCaret(caret.Unfocused)
	}
	s.focused, s.focusedKey = -1, ""
}

// Package document holds the single source of truth of an editing session:
// the canonical markdown text, the plain-text mirror of it and the pending
// caret target.
package document

import (
	"github.com/kk-code-lab/mdblocks/internal/caret"
	"github.com/rs/zerolog"
)

// Observer is called with the new text after every document change.
type Observer func(text string)

type subscription struct {
	id int
	fn Observer
}

// State is not safe for concurrent use. All writes happen on the event loop
// that owns it, and observers run synchronously inside the write.
type State struct {
	text      string
	mirror    string
	caret     caret.Position
	revision  uint64
	observers []subscription
	nextID    int
	log       zerolog.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger for document writes.
func WithLogger(l zerolog.Logger) Option {
	return func(s *State) { s.log = l }
}

// New returns a State holding text in both the document and the mirror.
func New(text string, opts ...Option) *State {
	s := &State{
		text:   text,
		mirror: text,
		caret:  caret.Unfocused,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Text returns the canonical markdown.
func (s *State) Text() string { return s.text }

// Mirror returns the plain-text view of the document.
func (s *State) Mirror() string { return s.mirror }

// Caret returns the pending caret target.
func (s *State) Caret() caret.Position { return s.caret }

// Revision counts document changes. Writes that leave the text unchanged do
// not count.
func (s *State) Revision() uint64 { return s.revision }

// Diverged reports whether the mirror shows something other than the
// document.
func (s *State) Diverged() bool { return s.mirror != s.text }

// SetDocument replaces the canonical text. Observers run when it changed.
func (s *State) SetDocument(text string) {
	if text == s.text {
		return
	}
	s.text = text
	s.revision++
	s.log.Debug().Uint64("revision", s.revision).Int("bytes", len(text)).Msg("document replaced")
	s.notify()
}

// Commit replaces the document and the mirror together. Block edits use it
// so both views converge on the committed text.
func (s *State) Commit(text string) {
	s.mirror = text
	s.SetDocument(text)
}

// SetMirror records text typed into the plain-text view. The document follows
// so the block view re-renders from the same text.
func (s *State) SetMirror(text string) {
	s.log.Debug().Int("bytes", len(text)).Msg("mirror edited")
	s.Commit(text)
}

// SetDraft changes the mirror only. The block view keeps rendering the
// document until the draft is committed or reconciled away.
func (s *State) SetDraft(text string) {
	s.mirror = text
}

// Reconcile makes the mirror equal to the document again.
func (s *State) Reconcile() {
	if s.mirror != s.text {
		s.log.Debug().Msg("mirror reconciled with document")
	}
	s.mirror = s.text
}

// SetCaret records where the caret should land after the next render.
func (s *State) SetCaret(target caret.Position) {
	s.caret = target
}

// Subscribe registers fn for document changes and returns a function that
// removes it again.
func (s *State) Subscribe(fn Observer) (cancel func()) {
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *State) notify() {
	// Observers may subscribe or cancel while running.
	observers := append([]subscription(nil), s.observers...)
	for _, sub := range observers {
		sub.fn(s.text)
	}
}

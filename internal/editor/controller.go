// Package editor drives the editable surfaces of a document. A Controller
// owns one block; a Session re-parses the document after every change and
// mounts a fresh Controller per block.
package editor

import (
	"strings"

	"github.com/kk-code-lab/mdblocks/internal/caret"
	"github.com/kk-code-lab/mdblocks/internal/convert"
	"github.com/kk-code-lab/mdblocks/internal/document"
	"github.com/kk-code-lab/mdblocks/internal/markdown"
	"github.com/kk-code-lab/mdblocks/internal/surface"
	"github.com/rs/zerolog"
)

// Converter turns blocks into surfaces and edited fragments into markdown.
type Converter interface {
	Render(block markdown.Block) *surface.Surface
	FragmentToMarkdown(fragment string) string
}

// View exposes the latest parse of the document.
type View interface {
	Current() markdown.Document
}

// Status is the state of a Controller.
type Status int

const (
	StatusIdle Status = iota
	StatusFocused
	StatusCommitting
)

func (s Status) String() string {
	switch s {
	case StatusFocused:
		return "focused"
	case StatusCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// KeyCode identifies the keys with structural meaning.
type KeyCode int

const (
	KeyOther KeyCode = iota
	KeyEnter
	KeyBackspace
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Key is a key press as seen by a Controller.
type Key struct {
	Code KeyCode
	Mod  Modifier
}

type options struct {
	log zerolog.Logger
}

// Option configures a Controller or a Session.
type Option func(*options)

// WithLogger sets the logger for commits and caret restores.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Controller is the editable surface of one block and the edits made to it.
// Every edit is committed to the document as before + markdown + after,
// where before and after are the text around the block when it was mounted.
type Controller struct {
	doc  *document.State
	conv Converter
	view View
	log  zerolog.Logger

	parsed   markdown.Document
	block    markdown.Block
	before   string
	after    string
	revision uint64

	surface *surface.Surface
	mounted string // surface HTML at mount time
	sel     surface.Selection
	status  Status
}

// Mount renders block index of the view's current parse. When the document's
// caret targets the block, the caret is restored into the new surface and the
// controller starts focused. Mount returns nil for an index outside the parse.
func Mount(doc *document.State, conv Converter, view View, index int, opts ...Option) *Controller {
	parsed := view.Current()
	if index < 0 || index >= parsed.Len() {
		return nil
	}
	o := buildOptions(opts)
	block := parsed.Blocks[index]
	c := &Controller{
		doc:      doc,
		conv:     conv,
		view:     view,
		log:      o.log.With().Int("line", block.Span.StartLine).Logger(),
		parsed:   parsed,
		block:    block,
		before:   parsed.Before(index),
		after:    parsed.After(index),
		revision: doc.Revision(),
		surface:  conv.Render(block),
	}
	c.mounted = c.surface.HTML()
	c.sel = c.surface.Select(0)
	if target := doc.Caret(); target.Active() && target.Block == block.Span.StartLine {
		c.restore(target.Offset)
		c.status = StatusFocused
	}
	return c
}

// Block returns the parsed block the controller was mounted from.
func (c *Controller) Block() markdown.Block { return c.block }

// Surface returns the live editable surface.
func (c *Controller) Surface() *surface.Surface { return c.surface }

// Status returns the controller state.
func (c *Controller) Status() Status { return c.status }

// SourcePos returns the data-sourcepos value of the rendered block.
func (c *Controller) SourcePos() string { return c.block.Span.SourcePos() }

// Before returns the document text preceding the block at mount time.
func (c *Controller) Before() string { return c.before }

// After returns the document text following the block at mount time.
func (c *Controller) After() string { return c.after }

// Offset returns the caret as a character offset from the block start.
func (c *Controller) Offset() int {
	return c.surface.Offset(c.sel)
}

// Selection returns the caret anchor on the surface.
func (c *Controller) Selection() surface.Selection { return c.sel }

// Select moves the caret to offset, clamped to the content.
func (c *Controller) Select(offset int) {
	c.sel = c.surface.Select(caret.Clamp(offset, c.surface.Len()))
}

// MoveCaret moves the caret by delta characters.
func (c *Controller) MoveCaret(delta int) {
	c.Select(c.Offset() + delta)
}

// Focus marks the controller focused and takes the pending caret offset
// when the document's caret targets this block.
func (c *Controller) Focus() {
	if target := c.doc.Caret(); target.Active() && target.Block == c.block.Span.StartLine {
		c.restore(target.Offset)
	}
	c.status = StatusFocused
}

func (c *Controller) restore(offset int) {
	length := c.surface.Len()
	if offset > length {
		c.log.Warn().Int("offset", offset).Int("length", length).Msg("caret beyond block content, clamped")
	}
	c.sel = c.surface.Select(caret.Clamp(offset, length))
	c.log.Debug().Int("offset", c.Offset()).Msg("caret restored")
}

// Type inserts text at the caret and commits the block.
func (c *Controller) Type(text string) {
	if text == "" {
		return
	}
	offset := c.surface.Insert(c.Offset(), text)
	c.sel = c.surface.Select(offset)
	c.Input()
}

// Backspace merges the block into its predecessor when the caret is at the
// block start, and otherwise deletes the character before the caret.
func (c *Controller) Backspace() {
	offset := c.Offset()
	if c.HandleKey(Key{Code: KeyBackspace}, offset) || offset == 0 {
		return
	}
	offset = c.surface.DeleteBackward(offset)
	c.sel = c.surface.Select(offset)
	c.Input()
}

// HandleKey runs the structural edit bound to key, if any, and reports
// whether the key's default handling must be suppressed.
func (c *Controller) HandleKey(key Key, offset int) bool {
	switch {
	case key.Code == KeyEnter && key.Mod == 0:
		c.Break(offset)
		return true
	case key.Code == KeyBackspace:
		return c.Merge(offset)
	}
	return false
}

// Input commits the surface content as the block's new markdown. While the
// surface still matches what was mounted, the block keeps its source as
// written, so valid but non-canonical markdown is not rewritten.
func (c *Controller) Input() {
	parsed, i := c.resolve()
	md := c.block.Source
	if rendered := c.surface.HTML(); rendered != c.mounted {
		md = c.conv.FragmentToMarkdown(rendered)
	}
	if md == "" {
		md = convert.Placeholder
	}
	target := caret.Position{Block: parsed.Blocks[i].Span.StartLine, Offset: c.Offset()}
	c.write(parsed.Before(i)+md+parsed.After(i), target, "input")
}

// Break splits the block at offset. The head stays in this block, the tail
// becomes a new paragraph right after it; an empty tail becomes a
// placeholder block. The caret moves to the start of the new block.
func (c *Controller) Break(offset int) {
	parsed, i := c.resolve()
	head, tail := c.surface.Split(offset)

	headMD := c.conv.FragmentToMarkdown(head.HTML())
	if headMD == "" {
		headMD = convert.Placeholder
	}
	tailMD := ""
	if !isBlank(tail.Text()) {
		tailMD = c.conv.FragmentToMarkdown(tail.HTML())
	}
	if tailMD == "" {
		tailMD = convert.Placeholder
	}

	start := parsed.Blocks[i].Span.StartLine
	target := caret.Position{Block: start + strings.Count(headMD, "\n") + 2, Offset: 0}
	c.write(parsed.Before(i)+headMD+"\n\n"+tailMD+parsed.After(i), target, "split")
}

// Merge joins the block onto the end of the previous one. It applies when
// offset is 0 or the block is a placeholder, and never to the first block;
// it reports whether it applied. A placeholder predecessor is replaced by
// this block instead.
func (c *Controller) Merge(offset int) bool {
	if offset != 0 && !c.surface.IsPlaceholder() {
		return false
	}
	parsed, i := c.resolve()
	if i == 0 {
		c.log.Debug().Msg("merge at first block ignored")
		return false
	}

	prev := parsed.Blocks[i-1]
	prevSurface := c.conv.Render(prev)
	target := caret.Position{Block: prev.Span.StartLine, Offset: prevSurface.Len()}

	var md string
	cut := prev.Span.EndOffset
	if prevSurface.IsPlaceholder() {
		cut = prev.Span.StartOffset
		target.Offset = 0
		md = c.conv.FragmentToMarkdown(c.surface.HTML())
		if md == "" {
			md = convert.Placeholder
		}
	} else {
		if !spliceable(prev) {
			cut = prev.Span.StartOffset
			md = c.conv.FragmentToMarkdown(prevSurface.HTML())
		}
		if !c.surface.IsPlaceholder() {
			md += c.conv.FragmentToMarkdown(c.surface.InnerHTML())
		}
	}

	c.write(parsed.Text[:cut]+md+parsed.After(i), target, "merge")
	return true
}

// spliceable reports whether text appended to the block's source joins its
// last line of content. A setext underline or an ATX closing sequence ends
// the source instead, so such headings are rewritten before joining.
func spliceable(block markdown.Block) bool {
	if block.Kind != markdown.KindHeading {
		return true
	}
	return block.Lines() == 1 && !strings.HasSuffix(strings.TrimRight(block.Source, " \t"), "#")
}

// Blur records where focus went. related is the data-sourcepos of the block
// receiving focus, or empty when focus left the blocks.
func (c *Controller) Blur(related string) {
	c.status = StatusIdle
	line := markdown.LineFromSourcePos(related)
	if line < 0 {
		c.doc.SetCaret(caret.Unfocused)
		return
	}
	c.doc.SetCaret(caret.Position{Block: line, Offset: c.Offset()})
	c.doc.Reconcile()
}

func (c *Controller) write(text string, target caret.Position, op string) {
	c.status = StatusCommitting
	c.log.Debug().
		Str("op", op).
		Int("caret_block", target.Block).
		Int("caret_offset", target.Offset).
		Msg("commit")
	c.doc.SetCaret(target)
	c.doc.Commit(text)
	c.status = StatusFocused
}

// resolve returns the parse and index to splice against. Normally that is
// the mount-time parse. When the document changed since, the block is looked
// up again in the live text so sibling edits are not lost.
func (c *Controller) resolve() (markdown.Document, int) {
	if c.doc.Revision() == c.revision {
		return c.parsed, c.block.Index
	}
	live := c.view.Current()
	if live.Text != c.doc.Text() {
		live = markdown.Parse(c.doc.Text())
	}
	if i := live.IndexOfKey(c.block.Key); i >= 0 {
		return live, i
	}
	if i := c.block.Index; i < live.Len() && live.Blocks[i].Source == c.block.Source {
		return live, i
	}
	c.log.Warn().
		Uint64("mounted", c.revision).
		Uint64("live", c.doc.Revision()).
		Msg("block not found in live document, using mount-time surroundings")
	return c.parsed, c.block.Index
}

func isBlank(text string) bool {
	return strings.Trim(text, " \t\n"+surface.NBSP) == ""
}

// Package convert moves block content between markdown and the editable
// surface. Rendering goes through goldmark; the way back walks the HTML
// fragment the user edited.
package convert

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/kk-code-lab/mdblocks/internal/markdown"
	"github.com/kk-code-lab/mdblocks/internal/surface"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Placeholder is the markdown of an intentionally empty block. It renders to
// a single non-breaking space, so the block survives a re-parse.
const Placeholder = "&nbsp;"

// SourcePosAttr is the attribute carrying a rendered block's source span.
const SourcePosAttr = "data-sourcepos"

// Converter is safe to share; it holds no per-document state.
type Converter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	log    zerolog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used to report degraded conversions.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) { c.log = l }
}

// New returns a Converter for CommonMark with strikethrough. Inline HTML is
// shown as its literal source.
func New(opts ...Option) *Converter {
	c := &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough),
			goldmark.WithRendererOptions(renderer.WithNodeRenderers(
				util.Prioritized(rawHTMLRenderer{}, 100),
			)),
		),
		policy: fragmentPolicy(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func fragmentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6", "p",
		"strong", "b", "em", "i", "code", "del", "s", "br", "span")
	p.AllowStandardURLs()
	p.AllowRelativeURLs(true)
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").Matching(regexp.MustCompile("^"+rawHTMLClass+"$")).OnElements("span")
	return p
}

// ToHTML renders markdown source to HTML.
func (c *Converter) ToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render builds the editable surface of a block. The root element carries
// the block's data-sourcepos. Blocks goldmark renders as something other
// than a single heading or paragraph are shown as their literal source.
func (c *Converter) Render(block markdown.Block) *surface.Surface {
	tag := blockTag(block)
	s := c.render(block, tag)
	s.Root().Attr = append(s.Root().Attr, html.Attribute{Key: SourcePosAttr, Val: block.Span.SourcePos()})
	return s
}

func (c *Converter) render(block markdown.Block, tag string) *surface.Surface {
	out, err := c.ToHTML(block.Source)
	if err != nil {
		c.log.Warn().Err(err).Int("line", block.Span.StartLine).Msg("render failed, showing source")
		return surface.Literal(tag, block.Source)
	}
	nodes, err := parseFragment(out)
	if err != nil {
		c.log.Warn().Err(err).Int("line", block.Span.StartLine).Msg("rendered html unreadable, showing source")
		return surface.Literal(tag, block.Source)
	}

	if root := singleElement(nodes); root != nil && root.Data == tag {
		return surface.New(root)
	}
	c.log.Debug().Int("line", block.Span.StartLine).Str("tag", tag).Msg("block rendered as literal source")
	return surface.Literal(tag, block.Source)
}

// singleElement returns the only element among nodes, ignoring whitespace
// text between them.
func singleElement(nodes []*html.Node) *html.Node {
	var root *html.Node
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			if root != nil {
				return nil
			}
			root = n
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return nil
			}
		}
	}
	return root
}

func blockTag(block markdown.Block) string {
	if block.Kind == markdown.KindHeading && block.Level >= 1 && block.Level <= 6 {
		return "h" + string(rune('0'+block.Level))
	}
	return "p"
}

// FragmentToMarkdown converts an edited fragment back to markdown. Empty
// space markers are removed first: they only exist on the editing surface.
// Constructs the converter does not know pass their text through. The result
// has no trailing newline and is empty when nothing is left.
func (c *Converter) FragmentToMarkdown(fragment string) string {
	fragment = StripPlaceholders(fragment)
	fragment = c.policy.Sanitize(fragment)
	nodes, err := parseFragment(fragment)
	if err != nil {
		c.log.Warn().Err(err).Msg("fragment unreadable, keeping text")
		return escapeText(html.UnescapeString(fragment), true)
	}

	var w writer
	var blocks []string
	var inline []*html.Node
	flush := func() {
		if len(inline) == 0 {
			return
		}
		if md := strings.TrimSpace(w.inline(inline)); md != "" {
			blocks = append(blocks, md)
		}
		inline = nil
	}
	for _, n := range nodes {
		if level := headingLevel(n); level > 0 {
			flush()
			text := strings.ReplaceAll(strings.TrimSpace(w.inline(children(n))), "\n", " ")
			md := strings.Repeat("#", level)
			if text != "" {
				md += " " + text
			}
			blocks = append(blocks, md)
			continue
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			flush()
			if md := strings.TrimSpace(w.inline(children(n))); md != "" {
				blocks = append(blocks, md)
			}
			continue
		}
		inline = append(inline, n)
	}
	flush()
	return strings.Join(blocks, "\n\n")
}

// StripPlaceholders removes the non-breaking space markers the editing
// surface uses for empty blocks.
func StripPlaceholders(fragment string) string {
	fragment = strings.ReplaceAll(fragment, "&nbsp;", "")
	fragment = strings.ReplaceAll(fragment, "&#160;", "")
	return strings.ReplaceAll(fragment, surface.NBSP, "")
}

func parseFragment(s string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(s), body)
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

package convert

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const hardBreak = "\\\n"

// writer serialises inline HTML nodes to markdown.
type writer struct{}

func (w writer) inline(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		w.node(&b, n)
	}
	out := b.String()
	for strings.HasSuffix(out, hardBreak) {
		out = strings.TrimSuffix(out, hardBreak)
	}
	return out
}

func (w writer) node(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		text := n.Data
		// A hard break already ends the line.
		if strings.HasSuffix(b.String(), hardBreak) {
			text = strings.TrimLeft(text, "\n")
		}
		b.WriteString(escapeText(text, atLineStart(b.String())))
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			b.WriteString(hardBreak)
		case atom.Strong, atom.B:
			b.WriteString(delimit(w.inline(children(n)), "**"))
		case atom.Em, atom.I:
			b.WriteString(delimit(w.inline(children(n)), "*"))
		case atom.Del, atom.S:
			b.WriteString(delimit(w.inline(children(n)), "~~"))
		case atom.Code:
			b.WriteString(codeSpan(textContent(n)))
		case atom.A:
			b.WriteString(link(w.inline(children(n)), attr(n, "href")))
		case atom.Span:
			if attr(n, "class") == rawHTMLClass {
				b.WriteString(textContent(n))
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.node(b, c)
			}
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.node(b, c)
			}
		}
	}
}

// delimit wraps the non-space core of inner in delim. Surrounding spaces stay
// outside: "* x*" would not be emphasis.
func delimit(inner, delim string) string {
	core := strings.TrimSpace(inner)
	if core == "" {
		return inner
	}
	start := strings.Index(inner, core)
	return inner[:start] + delim + core + delim + inner[start+len(core):]
}

func codeSpan(text string) string {
	if text == "" {
		return ""
	}
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`") ||
		(strings.HasPrefix(text, " ") && strings.HasSuffix(text, " ") && strings.TrimSpace(text) != "") {
		text = " " + text + " "
	}
	return fence + text + fence
}

func link(text, href string) string {
	if href == "" {
		return text
	}
	if strings.ContainsAny(href, " ()<>") {
		href = "<" + strings.NewReplacer("<", "%3C", ">", "%3E").Replace(href) + ">"
	}
	return "[" + text + "](" + href + ")"
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func atLineStart(written string) bool {
	return written == "" || strings.HasSuffix(written, "\n")
}

// escapeText backslash-escapes the characters that would otherwise start
// markdown syntax. lineStart reports whether text begins a line.
func escapeText(text string, lineStart bool) string {
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			b.WriteRune(r)
			lineStart = true
			continue
		}
		if lineStart {
			lineStart = false
			if i == 0 || runes[i-1] == '\n' {
				if escapeAtLineStart(runes[i:]) {
					b.WriteByte('\\')
					b.WriteRune(r)
					continue
				}
				if n := orderedMarker(runes[i:]); n > 0 {
					b.WriteString(string(runes[i : i+n]))
					b.WriteByte('\\')
					b.WriteRune(runes[i+n])
					return b.String() + escapeText(string(runes[i+n+1:]), false)
				}
			}
		}
		switch r {
		case '\\', '*', '`', '[', ']', '<', '~':
			b.WriteByte('\\')
		case '_':
			if i == 0 || i == len(runes)-1 || !isWordRune(runes[i-1]) || !isWordRune(runes[i+1]) {
				b.WriteByte('\\')
			}
		case '&':
			if i+1 < len(runes) && (runes[i+1] == '#' || unicode.IsLetter(runes[i+1])) {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeAtLineStart(line []rune) bool {
	switch line[0] {
	case '#', '>', '=':
		return true
	case '-', '+':
		return len(line) == 1 || line[1] == ' ' || line[1] == '\t' || line[1] == line[0]
	}
	return false
}

// orderedMarker returns the number of digits of an ordered list marker at
// the start of line ("12. "), or 0.
func orderedMarker(line []rune) int {
	n := 0
	for n < len(line) && n < 9 && line[n] >= '0' && line[n] <= '9' {
		n++
	}
	if n == 0 || n >= len(line) || (line[n] != '.' && line[n] != ')') {
		return 0
	}
	if n+1 < len(line) && line[n+1] != ' ' && line[n+1] != '\t' {
		return 0
	}
	return n
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

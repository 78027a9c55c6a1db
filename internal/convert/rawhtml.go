package convert

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// rawHTMLClass marks a span holding inline HTML as typed in the source. The
// surface shows the markup as text and FragmentToMarkdown writes it back
// unescaped.
const rawHTMLClass = "md-raw"

// rawHTMLRenderer replaces goldmark's handling of inline HTML, which would
// either drop it or pass it through as live markup.
type rawHTMLRenderer struct{}

func (rawHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, renderRawHTML)
}

func renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	raw := node.(*ast.RawHTML)
	_, _ = w.WriteString(`<span class="` + rawHTMLClass + `">`)
	for i := 0; i < raw.Segments.Len(); i++ {
		seg := raw.Segments.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

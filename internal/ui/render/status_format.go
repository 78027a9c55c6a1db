package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdblocks/internal/state"
	textutil "github.com/kk-code-lab/mdblocks/internal/textutil"
)

// formatHeaderStatus summarises the document for the top bar.
func formatHeaderStatus(state *statepkg.AppState) string {
	if state == nil || state.Doc == nil {
		return ""
	}
	text := state.Doc.Text()
	parts := []string{}
	if state.Session != nil {
		parts = append(parts, formatCount(state.Session.Len(), "block", "blocks"))
	}
	parts = append(parts,
		formatCompactNumber(utf8.RuneCountInString(text))+" chars",
		fmt.Sprintf("rev %d", state.Doc.Revision()),
		"editing "+state.Pane.String(),
	)
	if state.Doc.Diverged() {
		parts = append(parts, "unsynced")
	}
	return strings.Join(parts, " · ")
}

func formatCount(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}

func formatCompactNumber(n int) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000.0)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000.0)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000.0)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// drawStatusLine renders the bottom row: the last error if there is one,
// otherwise contextual key hints.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	if h < 2 {
		return
	}
	y := h - 1
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	x := 0

	if state != nil && state.LastError != nil {
		errStyle := normalStyle.Foreground(r.theme.ErrorFg)
		msg := textutil.SanitizeTerminalText(" error: " + state.LastError.Error())
		x = r.drawTextLine(0, y, w, r.truncateTextToWidth(msg, w), errStyle)
		r.fillRow(x, y, w, normalStyle)
		return
	}

	if state != nil && state.Doc != nil {
		if n := textutil.CountFormattingRunes(state.Doc.Text()); n > 0 {
			warnStyle := normalStyle.Foreground(r.theme.WarningFg)
			warning := " " + formatCount(n, "hidden formatting character", "hidden formatting characters") + " ·"
			x = r.drawTextLine(x, y, w, r.truncateTextToWidth(warning, w), warnStyle)
		}
	}

	help := buildFooterHelpText(state)
	x = r.drawTextLine(x, y, w-x, r.truncateTextToWidth(help, w-x), normalStyle)
	r.fillRow(x, y, w, normalStyle)
}

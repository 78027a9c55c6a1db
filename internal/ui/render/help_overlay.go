package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdblocks/internal/state"
	textutil "github.com/kk-code-lab/mdblocks/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

var (
	blockHelp = helpOverlaySection{
		title: "Blocks",
		entries: []helpOverlayEntry{
			{keys: "type", desc: "Edit the focused block"},
			{keys: "↵", desc: "Split the block at the caret"},
			{keys: "⌫", desc: "Delete, or merge into the previous block at its start"},
			{keys: "← / →", desc: "Move the caret, crossing block edges"},
			{keys: "↑ / ↓", desc: "Focus the previous / next block"},
			{keys: "Home / End", desc: "Jump to block start / end"},
			{keys: "Esc", desc: "Leave the block"},
			{keys: "click", desc: "Focus a block at the clicked character"},
		},
	}
	mirrorHelp = helpOverlaySection{
		title: "Plain text",
		entries: []helpOverlayEntry{
			{keys: "type / ↵ / ⌫", desc: "Edit the markdown source"},
			{keys: "arrows", desc: "Move the cursor"},
			{keys: "Home / End", desc: "Jump to line start / end"},
		},
	}
)

func generalHelp(pane statepkg.Pane) helpOverlaySection {
	other := "Edit the plain text"
	if pane == statepkg.PaneMirror {
		other = "Edit the blocks"
	}
	return helpOverlaySection{
		title: "General",
		entries: []helpOverlayEntry{
			{keys: "Tab", desc: other},
			{keys: "Ctrl+Z", desc: "Suspend to the shell"},
			{keys: "Ctrl+C / Ctrl+Q", desc: "Quit"},
			{keys: "F1", desc: "Close this help"},
		},
	}
}

// helpLine is one overlay row; headings are drawn bold.
type helpLine struct {
	text    string
	heading bool
}

func helpOverlayContent(state *statepkg.AppState) []helpLine {
	pane := statepkg.PaneBlocks
	if state != nil {
		pane = state.Pane
	}

	var lines []helpLine
	for i, section := range []helpOverlaySection{blockHelp, mirrorHelp, generalHelp(pane)} {
		if i > 0 {
			lines = append(lines, helpLine{})
		}
		lines = append(lines, helpLine{text: section.title, heading: true})
		for _, entry := range section.entries {
			lines = append(lines, helpLine{text: formatHelpOverlayEntry(entry)})
		}
	}
	return lines
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	content := helpOverlayContent(state)
	lines := make([]string, len(content))
	for i, line := range content {
		lines[i] = line.text
	}
	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	return fmt.Sprintf("  %-16s %s",
		textutil.SanitizeTerminalText(entry.keys),
		textutil.SanitizeTerminalText(entry.desc))
}

// drawHelpOverlay covers the whole screen: a centred title bar, the key
// reference from row 2 and a footer bar on the last row.
func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	body := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	bar := body.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	for y := 0; y < h; y++ {
		r.fillRow(0, y, w, body)
	}
	if h == 0 {
		return
	}

	const title = " Help "
	r.drawTextLine(max((w-r.measureTextWidth(title))/2, 0), 0, w, title, bar)

	y := 2
	for _, line := range helpOverlayContent(state) {
		if y >= h-1 {
			break
		}
		style := body
		if line.heading {
			style = body.Bold(true)
		}
		r.drawTextLine(2, y, w-4, r.truncateTextToWidth(line.text, w-4), style)
		y++
	}

	r.drawTextLine(0, h-1, w, r.truncateTextToWidth("F1/Esc close", w), bar)
}

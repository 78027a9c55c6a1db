package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/mdblocks/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	segments := contextualHelpSegments(state)
	segments = append(segments, persistentHelpSegments()...)

	return segments
}

func contextualHelpSegments(state *statepkg.AppState) []string {
	switch {
	case state.Pane == statepkg.PaneMirror:
		return []string{
			"type: edit text",
			"←↑↓→: move",
		}
	case state.FocusedBlock() >= 0:
		return []string{
			"type: edit block",
			"↵: split",
			"⌫: delete/merge",
			"↑↓: block",
			"Esc: leave block",
		}
	default:
		return []string{
			"↑↓: select block",
			"type: edit first block",
		}
	}
}

func persistentHelpSegments() []string {
	return []string{
		"Tab: switch pane",
		"F1: help",
		"^C: quit",
	}
}

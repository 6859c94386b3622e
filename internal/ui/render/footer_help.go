package render

import (
	"strings"

	"github.com/kk-code-lab/rfind/internal/find"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(status Status) string {
	parts := buildFooterHelpSegments(status)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(status Status) []string {
	segments := contextualHelpSegments(status)
	return append(segments, persistentHelpSegments(status)...)
}

func contextualHelpSegments(status Status) []string {
	switch {
	case status.Prompt:
		return []string{
			"type: find",
			"Tab: next",
			"↵: keep",
			"Esc: done",
		}
	case status.Phase != find.Idle:
		return []string{
			"n/N: next/prev",
			"/: edit",
			"Esc: done",
		}
	default:
		return []string{
			"/: find",
			"↑↓/Pg: scroll",
			"q: quit",
		}
	}
}

func persistentHelpSegments(status Status) []string {
	if status.Prompt {
		return nil
	}
	wrap := "off"
	if status.Wrap {
		wrap = "on"
	}
	return []string{"w: wrap " + wrap, "?: help"}
}

package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rfind/internal/find"
	"github.com/kk-code-lab/rfind/internal/textutil"
)

// Status is what the chrome shows around the document.
type Status struct {
	Path string
	Kind string

	// Prompt is true while the user is typing a query.
	Prompt bool
	Query  string

	Phase find.Phase
	// Current is the 1-based active match, 0 when none is active.
	Current int
	Total   int
	Limited bool

	Wrap        bool
	Message     string
	HelpVisible bool
}

// formatSearchStatus describes the find state, or "" when there is none. The
// prompt keeps showing counts while the query is typed.
func formatSearchStatus(status Status) string {
	query := textutil.SanitizeTerminalText(status.Query)
	bare := ""
	if status.Prompt {
		bare = "/" + query
	}
	if query == "" {
		return bare
	}
	switch status.Phase {
	case find.Searching:
		return fmt.Sprintf("/%s  searching…", query)
	case find.Ready:
		if status.Total == 0 {
			return fmt.Sprintf("/%s  no matches", query)
		}
		total := fmt.Sprintf("%d", status.Total)
		if status.Limited {
			total += "+"
		}
		return fmt.Sprintf("/%s  %d/%s", query, status.Current, total)
	default:
		return bare
	}
}

func (r *Renderer) drawStatusLine(status Status, w, h int) {
	if h <= headerRows {
		return
	}
	y := h - 1
	style := r.baseStyle().Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	r.fillRow(0, y, w, style)

	left := formatSearchStatus(status)
	if status.Message != "" {
		left = textutil.SanitizeTerminalText(status.Message)
	}
	leftStyle := style
	if status.Prompt {
		leftStyle = style.Foreground(r.theme.PromptFg).Bold(true)
	}
	x := 0
	if left != "" {
		left = r.truncateTextToWidth(" "+left, w)
		x = r.drawTextLine(0, y, w, left, leftStyle)
		if status.Prompt {
			cursor := r.measureTextWidth(" /" + textutil.SanitizeTerminalText(status.Query))
			r.screen.ShowCursor(min(cursor, x), y)
		}
	}
	if !status.Prompt {
		r.screen.HideCursor()
	}

	help := buildFooterHelpText(status)
	helpWidth := r.measureTextWidth(help)
	if help == "" || x+helpWidth > w {
		return
	}
	r.drawTextLine(w-helpWidth, y, helpWidth, help, style.Foreground(r.theme.DecorationFg))
}

func sanitizePath(path string) string {
	return strings.TrimSpace(textutil.SanitizeTerminalText(path))
}

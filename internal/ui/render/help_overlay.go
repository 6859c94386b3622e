package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rfind/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

var helpOverlaySections = []helpOverlaySection{
	{
		title: "Scrolling",
		entries: []helpOverlayEntry{
			{keys: "↑/↓ j/k", desc: "Scroll one line"},
			{keys: "←/→ h/l", desc: "Scroll sideways (wrap off)"},
			{keys: "PgUp/PgDn", desc: "Scroll one page"},
			{keys: "Home/End g/G", desc: "Jump to top/bottom"},
			{keys: "w", desc: "Toggle soft wrap"},
		},
	},
	{
		title: "Find",
		entries: []helpOverlayEntry{
			{keys: "/", desc: "Find in page"},
			{keys: "↵", desc: "Close prompt, keep matches"},
			{keys: "Tab / ↑ ↓", desc: "Next / previous match (while typing)"},
			{keys: "n / N", desc: "Next / previous match"},
			{keys: "Ctrl+G", desc: "Next match (Shift for previous)"},
			{keys: "Esc", desc: "Close find and clear highlights"},
		},
	},
	{
		title: "File",
		entries: []helpOverlayEntry{
			{keys: "e", desc: "Open in external editor ($EDITOR)"},
			{keys: "Ctrl+Z", desc: "Suspend to shell"},
		},
	},
	{
		title: "Exit",
		entries: []helpOverlayEntry{
			{keys: "q", desc: "Quit"},
			{keys: "Ctrl+C", desc: "Quit immediately"},
			{keys: "?", desc: "Close this help"},
		},
	},
}

func buildHelpOverlayLines() []string {
	lines := make([]string, 0, 24)
	for i, section := range helpOverlaySections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}
	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-14s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(w, h int) {
	baseStyle := r.baseStyle()
	for y := 0; y < h; y++ {
		r.fillRow(0, y, w, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	r.fillRow(0, 0, w, headerStyle)
	titleStart := 0
	if titleWidth := r.measureTextWidth(title); w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	row := 2
	for _, line := range buildHelpOverlayLines() {
		if row >= h-1 {
			break
		}
		text := r.truncateTextToWidth(strings.TrimRight(line, " "), w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	if h > 1 {
		r.fillRow(0, h-1, w, headerStyle)
		r.drawTextLine(0, h-1, w, r.truncateTextToWidth(" ? toggle · Esc/q close", w), headerStyle)
	}
}

package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rfind/internal/dom"
	"github.com/kk-code-lab/rfind/internal/find"
	"github.com/kk-code-lab/rfind/internal/layout"
)

// Rows reserved outside the document body: header and status line.
const (
	headerRows = 1
	footerRows = 1
)

// Renderer draws a document view and its chrome onto a tcell screen. It also
// serves as the find stylesheet: highlight styling only shows while attached.
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes

	highlights bool
}

var _ find.Stylesheet = (*Renderer)(nil)

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen, theme ColorTheme) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  theme,
	}
}

func (r *Renderer) Attach()        { r.highlights = true }
func (r *Renderer) Detach()        { r.highlights = false }
func (r *Renderer) Attached() bool { return r.highlights }

// BodySize returns the cells available to the document for a screen of w×h.
func BodySize(w, h int) (cols, rows int) {
	return max(w, 1), max(h-headerRows-footerRows, 1)
}

// Render draws the whole UI.
func (r *Renderer) Render(view *layout.View, status Status) {
	r.screen.Clear()
	w, h := r.screen.Size()

	if status.HelpVisible {
		r.drawHelpOverlay(w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(status, w)
	if view != nil {
		r.drawBody(view, status.Kind == dom.KindText.String(), w, h)
	}
	r.drawStatusLine(status, w, h)
	r.screen.Show()
}

func (r *Renderer) baseStyle() tcell.Style {
	return tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
}

func (r *Renderer) drawHeader(status Status, w int) {
	style := r.baseStyle().Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	r.fillRow(0, 0, w, style)
	title := " rfind"
	if status.Path != "" {
		title += "  " + sanitizePath(status.Path)
	}
	if status.Kind != "" {
		title += "  [" + status.Kind + "]"
	}
	title = r.truncateTextToWidth(title, w)
	r.drawTextLine(0, 0, w, title, style)
}

func (r *Renderer) drawBody(view *layout.View, plain bool, w, h int) {
	cols, rows := BodySize(w, h)
	result := view.Layout()
	originCol, originLine := view.Origin()
	base := r.baseStyle()

	for row := 0; row < rows; row++ {
		y := headerRows + row
		r.fillRow(0, y, w, base)
		idx := originLine + row
		if idx < 0 || idx >= len(result.Lines) {
			continue
		}
		line := result.Lines[idx]
		for _, run := range line.Runs {
			x := run.X - originCol
			if x+run.Width <= 0 || x >= cols {
				continue
			}
			r.drawClusters(x, y, cols, run.Text, r.styleFor(run, plain))
		}
	}
}

// styleFor derives a run's style from the elements enclosing it. Plain text
// documents live in a single pre that should not look like a code block.
func (r *Renderer) styleFor(run layout.Run, plain bool) tcell.Style {
	style := r.baseStyle()
	if run.Node == nil {
		return style.Foreground(r.theme.DecorationFg)
	}
	if !run.IsText() {
		if run.Node.Data == "hr" {
			return style.Foreground(r.theme.DecorationFg)
		}
		return style.Foreground(r.theme.PlaceholderFg).Italic(true)
	}

	var match, active bool
	for el := dom.ParentElement(run.Node); el != nil; el = dom.ParentElement(el) {
		switch el.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			style = style.Bold(true).Foreground(r.theme.HeadingFg)
		case "a":
			style = style.Underline(true).Foreground(r.theme.LinkFg)
		case "code", "kbd", "samp", "tt":
			style = style.Foreground(r.theme.CodeFg)
		case "pre":
			if !plain {
				style = style.Background(r.theme.CodeBlockBg).Foreground(r.theme.CodeBlockFg)
			}
		case "em", "i":
			style = style.Italic(true)
		case "strong", "b":
			style = style.Bold(true)
		case "del", "s", "strike":
			style = style.StrikeThrough(true)
		case "u", "ins":
			style = style.Underline(true)
		case "blockquote":
			style = style.Foreground(r.theme.QuoteFg)
		case "span":
			if dom.HasClass(el, find.HighlightClass) {
				match = true
				active = dom.HasClass(el, find.ActiveHighlightClass)
			}
		}
	}
	if match && r.highlights {
		if active {
			return style.Background(r.theme.ActiveMatchBg).Foreground(r.theme.ActiveMatchFg)
		}
		return style.Background(r.theme.MatchBg).Foreground(r.theme.MatchFg)
	}
	return style
}

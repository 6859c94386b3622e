package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/rfind/internal/textutil"
)

func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru < 128 {
		r.runeWidthCacheMu.RLock()
		width := r.runeWidthCache[ru]
		r.runeWidthCacheMu.RUnlock()
		if width != 0 {
			return width - 1
		}
		actual := max(runewidth.RuneWidth(ru), 0)
		r.runeWidthCacheMu.Lock()
		r.runeWidthCache[ru] = actual + 1
		r.runeWidthCacheMu.Unlock()
		return actual
	}

	if cached, ok := r.runeWidthWide.Load(ru); ok {
		return cached.(int)
	}
	width := max(runewidth.RuneWidth(ru), 0)
	r.runeWidthWide.Store(ru, width)
	return width
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += r.cachedRuneWidth(ru)
	}
	return width
}

func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if r.measureTextWidth(text) <= maxWidth {
		return text
	}

	const ellipsis = "…"
	if maxWidth <= 1 {
		return ellipsis
	}
	available := maxWidth - 1
	var builder strings.Builder
	width := 0
	for _, ru := range text {
		w := r.cachedRuneWidth(ru)
		if width+w > available {
			break
		}
		builder.WriteRune(ru)
		width += w
	}
	builder.WriteString(ellipsis)
	return builder.String()
}

// drawTextLine draws text from startX, clipped to maxWidth columns, and
// returns the column after the last cell written.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	for i := 0; i < len(runes); {
		if x-startX >= maxWidth {
			break
		}
		mainc := runes[i]
		i++
		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 && runes[i] >= 0x300 {
			combc = append(combc, runes[i])
			i++
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += max(r.cachedRuneWidth(mainc), 1)
	}
	return x
}

// drawClusters draws already sanitized layout text grapheme by grapheme
// starting at column x; cells outside [0, maxX) are skipped.
func (r *Renderer) drawClusters(x, y, maxX int, text string, style tcell.Style) {
	textutil.EachGrapheme(text, func(cluster string, _, _ int, w int) bool {
		if x >= maxX {
			return false
		}
		if x >= 0 && w > 0 {
			runes := []rune(cluster)
			r.screen.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += w
		return true
	})
}

func (r *Renderer) fillRow(fromX, y, w int, style tcell.Style) {
	for x := fromX; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

package textutil

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DisplayWidth reports the printable width of text, measuring whole grapheme
// clusters so emoji sequences and combining marks count once.
func DisplayWidth(text string) int {
	width := 0
	EachGrapheme(text, func(_ string, _, _ int, w int) bool {
		width += w
		return true
	})
	return width
}

// GraphemeWidth returns the column width of a single grapheme cluster. Clusters
// that would print nothing still occupy one column so cursors never stall.
func GraphemeWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	r := []rune(cluster)[0]
	if r < 0x20 || r == 0x7f {
		return 1
	}
	if isFormattingRune(r) {
		return 0
	}
	w := uniseg.StringWidth(cluster)
	if w <= 0 {
		w = runewidth.StringWidth(cluster)
	}
	if w <= 0 {
		w = 1
	}
	return w
}

// EachGrapheme calls fn for every grapheme cluster of text with its byte range
// and column width. Iteration stops when fn returns false.
func EachGrapheme(text string, fn func(cluster string, start, end, width int) bool) {
	state := -1
	offset := 0
	rest := text
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		end := offset + len(cluster)
		if !fn(cluster, offset, end, GraphemeWidth(cluster)) {
			return
		}
		offset = end
	}
}

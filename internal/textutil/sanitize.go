package textutil

import "strings"

var formattingRuneLabels = map[rune]string{
	0x061C: "⟪ALM⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x00AD: "⟪SHY⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

// SanitizeTerminalText replaces control characters so user-controlled text cannot
// inject terminal escape sequences when rendered. Formatting runes are labeled.
func SanitizeTerminalText(text string) string {
	clean := true
	for _, r := range text {
		if isControlRune(r) || isFormattingRune(r) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if label, ok := formattingRuneLabels[r]; ok {
			b.WriteString(label)
			continue
		}
		b.WriteString(DisplayRune(r))
	}
	return b.String()
}

// DisplayRune maps a rune to what may safely reach the terminal. Line breaks and
// tabs collapse to a space, other control characters become '?' and formatting
// runes vanish (they keep their zero width).
func DisplayRune(r rune) string {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return " "
	case isControlRune(r):
		return "?"
	case isFormattingRune(r):
		return ""
	default:
		return string(r)
	}
}

// HasFormattingRunes reports whether text contains bidi or zero-width formatting runes.
func HasFormattingRunes(text string) bool {
	for _, r := range text {
		if isFormattingRune(r) {
			return true
		}
	}
	return false
}

func isControlRune(r rune) bool {
	return (r >= 0 && r < 0x20) || r == 0x7f
}

func isFormattingRune(r rune) bool {
	_, ok := formattingRuneLabels[r]
	return ok
}

package textutil

import "strings"

const DefaultTabWidth = 4

// TabAdvance returns how many columns a tab at column occupies.
func TabAdvance(column, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return tabWidth - (column % tabWidth)
}

// ExpandTabs replaces tab characters with spaces respecting terminal column width.
func ExpandTabs(text string, tabWidth int) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	column := 0
	EachGrapheme(text, func(cluster string, _, _ int, width int) bool {
		if cluster == "\t" {
			spaces := TabAdvance(column, tabWidth)
			builder.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			return true
		}
		builder.WriteString(cluster)
		column += width
		return true
	})
	return builder.String()
}

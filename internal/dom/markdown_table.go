package dom

import (
	"strings"

	"golang.org/x/net/html"
)

func markdownTable(lines []string, start int) (*html.Node, int, bool) {
	if !tableStarts(lines, start) {
		return nil, start, false
	}
	header := tableCells(lines[start])
	aligns := columnAlignments(tableCells(lines[start+1]))

	table := NewElement("table")
	thead := NewElement("thead")
	thead.AppendChild(tableRow("th", header, aligns))
	table.AppendChild(thead)

	tbody := NewElement("tbody")
	i := start + 2
	for ; i < len(lines); i++ {
		if blank(lines[i]) || !strings.Contains(lines[i], "|") {
			break
		}
		cells := tableCells(lines[i])
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		tbody.AppendChild(tableRow("td", cells[:len(header)], aligns))
	}
	if tbody.FirstChild != nil {
		table.AppendChild(tbody)
	}
	return table, i, true
}

func tableRow(cellTag string, cells []string, aligns []string) *html.Node {
	tr := NewElement("tr")
	for idx, cell := range cells {
		td := NewElement(cellTag)
		if idx < len(aligns) && aligns[idx] != "" {
			SetAttr(td, "align", aligns[idx])
		}
		appendAll(td, inlineNodes(cell))
		tr.AppendChild(td)
	}
	return tr
}

func tableStarts(lines []string, i int) bool {
	if i+1 >= len(lines) || !strings.Contains(lines[i], "|") {
		return false
	}
	header := tableCells(lines[i])
	sep := tableCells(lines[i+1])
	if len(header) == 0 || len(header) != len(sep) {
		return false
	}
	for _, s := range sep {
		if s == "" || strings.Trim(s, "-:") != "" || !strings.Contains(s, "-") {
			return false
		}
	}
	return true
}

func columnAlignments(sep []string) []string {
	out := make([]string, len(sep))
	for i, s := range sep {
		left, right := strings.HasPrefix(s, ":"), strings.HasSuffix(s, ":")
		switch {
		case left && right:
			out[i] = "center"
		case right:
			out[i] = "right"
		case left:
			out[i] = "left"
		}
	}
	return out
}

// tableCells splits a row on unescaped pipes outside code spans.
func tableCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, "\\|") {
		line = line[:len(line)-1]
	}

	var cells []string
	var cur strings.Builder
	inCode := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
			continue
		case c == '`':
			inCode = !inCode
		case c == '|' && !inCode:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	return append(cells, strings.TrimSpace(cur.String()))
}

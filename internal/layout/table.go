package layout

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/kk-code-lab/rfind/internal/dom"
	"github.com/kk-code-lab/rfind/internal/textutil"
)

// table lays out one row per line with cells padded to their column width.
// Cell content never wraps.
func (f *flow) table(t *html.Node) {
	f.boundary(true)
	captions, rows, headerRows := tableParts(t)
	for _, c := range captions {
		f.boundary(false)
		f.children(c)
		f.boundary(false)
	}

	widths := columnWidths(rows)
	for i, row := range rows {
		cells := rowCells(row)
		if len(cells) == 0 {
			continue
		}
		f.openLine()
		for ci, cell := range cells {
			if ci > 0 {
				f.place(Run{Text: cellSeparator, Width: textutil.DisplayWidth(cellSeparator)})
			}
			colStart := f.x
			f.spaceFloor = f.x
			f.cell++
			f.children(cell)
			f.cell--
			f.space = nil
			if ci < len(cells)-1 {
				if pad := colStart + widths[ci] - f.x; pad > 0 {
					f.place(Run{Text: strings.Repeat(" ", pad), Width: pad})
				}
			}
		}
		f.breakLine()

		if i == headerRows-1 && i < len(rows)-1 {
			parts := make([]string, len(widths))
			for c, w := range widths {
				parts[c] = strings.Repeat(ruleRune, max(w, 1))
			}
			f.openLine()
			rule := strings.Join(parts, ruleRune+"┼"+ruleRune)
			f.place(Run{Text: rule, Width: textutil.DisplayWidth(rule)})
			f.breakLine()
		}
	}
	f.boundary(true)
}

func tableParts(t *html.Node) (captions, rows []*html.Node, headerRows int) {
	for c := t.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || Hidden(c) {
			continue
		}
		switch c.Data {
		case "caption":
			captions = append(captions, c)
		case "tr":
			rows = append(rows, c)
		case "thead", "tbody", "tfoot":
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if dom.IsElement(r, "tr") && !Hidden(r) {
					rows = append(rows, r)
					if c.Data == "thead" {
						headerRows++
					}
				}
			}
		}
	}
	if headerRows == 0 && len(rows) > 0 && allHeaderCells(rows[0]) {
		headerRows = 1
	}
	return captions, rows, headerRows
}

func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if (dom.IsElement(c, "td") || dom.IsElement(c, "th")) && !Hidden(c) {
			cells = append(cells, c)
		}
	}
	return cells
}

func allHeaderCells(tr *html.Node) bool {
	cells := rowCells(tr)
	for _, c := range cells {
		if c.Data != "th" {
			return false
		}
	}
	return len(cells) > 0
}

func columnWidths(rows []*html.Node) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range rowCells(row) {
			w := textutil.DisplayWidth(visibleText(cell))
			if i >= len(widths) {
				widths = append(widths, w)
			} else if w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// visibleText approximates what a cell displays: hidden subtrees are skipped,
// images become their placeholder and whitespace collapses.
func visibleText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type != html.ElementNode || Hidden(n):
			return
		case dom.IsEmbeddedDocument(n):
			b.WriteString(placeholder(n))
			return
		case n.Data == "img":
			alt, _ := dom.Attr(n, "alt")
			if strings.TrimSpace(alt) == "" {
				alt = "image"
			}
			b.WriteString("[" + strings.TrimSpace(alt) + "]")
			return
		case n.Data == "br":
			b.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

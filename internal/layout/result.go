package layout

import (
	"strings"

	"golang.org/x/net/html"
)

// Run is a horizontal piece of one line. Text runs point at a text node and
// the byte range of its data they display; generated runs (bullets, rules,
// placeholders) have Start == End and Node set to the generating element, or
// nil for pure decoration.
type Run struct {
	Node  *html.Node
	Start int
	End   int
	Text  string
	X     int
	Width int
}

// IsText reports whether r displays part of a text node.
func (r Run) IsText() bool {
	return r.Node != nil && r.Node.Type == html.TextNode
}

// Line is one row of laid-out output.
type Line struct {
	Runs  []Run
	Width int
}

// Box is a rectangle in cells.
type Box struct {
	X, Y, W, H int
}

// Result is a laid-out document.
type Result struct {
	Lines []Line
	Width int

	boxes map[*html.Node]*Box
}

// HasBox reports whether n produced any output.
func (r *Result) HasBox(n *html.Node) bool {
	_, ok := r.boxes[n]
	return ok
}

// BoxOf returns the union of every run n or its descendants produced.
func (r *Result) BoxOf(n *html.Node) (Box, bool) {
	b, ok := r.boxes[n]
	if !ok {
		return Box{}, false
	}
	return *b, true
}

// Text renders the result as plain lines.
func (r *Result) Text() string {
	var b strings.Builder
	for i, line := range r.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		col := 0
		for _, run := range line.Runs {
			if run.X > col {
				b.WriteString(strings.Repeat(" ", run.X-col))
				col = run.X
			}
			b.WriteString(run.Text)
			col += run.Width
		}
	}
	return b.String()
}

func (r *Result) record(n *html.Node, x, y, w int) {
	for ; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		b, ok := r.boxes[n]
		if !ok {
			r.boxes[n] = &Box{X: x, Y: y, W: w, H: 1}
			continue
		}
		right := max(b.X+b.W, x+w)
		bottom := max(b.Y+b.H, y+1)
		b.X = min(b.X, x)
		b.Y = min(b.Y, y)
		b.W = right - b.X
		b.H = bottom - b.Y
	}
}

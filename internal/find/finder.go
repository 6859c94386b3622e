package find

import (
	"regexp"

	"golang.org/x/net/html"

	"github.com/kk-code-lab/rfind/internal/dom"
)

const (
	HighlightClass       = "rfind-match"
	ActiveHighlightClass = "rfind-match--active"
	HighlightIndexAttr   = "data-rfind-index"

	DefaultMaxHighlights = 30000
)

// Highlight is a committed match marker and its position in match order.
type Highlight struct {
	Node  *html.Node
	Index int
}

// Replacement is a planned edit: Original is swapped for Fragment, whose
// highlight spans are listed in Highlights.
type Replacement struct {
	Original   *html.Node
	Fragment   []*html.Node
	Highlights []*html.Node
}

// finder plans replacements one text node at a time. Nothing touches the tree
// until the session commits the plan.
type finder struct {
	pattern  *regexp.Regexp
	viewport Viewport
	max      int

	replacements []Replacement
	total        int
	limited      bool
}

func newFinder(pattern *regexp.Regexp, viewport Viewport, max int) *finder {
	if max <= 0 {
		max = DefaultMaxHighlights
	}
	return &finder{pattern: pattern, viewport: viewport, max: max}
}

// visit plans the highlights for one text node. It returns false once the
// highlight ceiling is reached.
func (f *finder) visit(n *html.Node) bool {
	if !f.searchable(n) {
		return true
	}

	text := n.Data
	matches := f.pattern.FindAllStringIndex(text, f.max-f.total)
	if len(matches) == 0 {
		return true
	}

	r := Replacement{Original: n}
	last := 0
	for _, m := range matches {
		if m[0] > last {
			r.Fragment = append(r.Fragment, dom.NewText(text[last:m[0]]))
		}
		span := newHighlight(text[m[0]:m[1]])
		r.Fragment = append(r.Fragment, span)
		r.Highlights = append(r.Highlights, span)
		last = m[1]
	}
	if last < len(text) {
		r.Fragment = append(r.Fragment, dom.NewText(text[last:]))
	}

	f.replacements = append(f.replacements, r)
	f.total += len(matches)
	if f.total >= f.max {
		f.limited = true
		return false
	}
	return true
}

func (f *finder) searchable(n *html.Node) bool {
	el := dom.ParentElement(n)
	if el == nil || dom.InEmbeddedDocument(n) {
		return false
	}
	return f.viewport == nil || f.viewport.HasBox(el)
}

func newHighlight(text string) *html.Node {
	span := dom.NewElement("span", html.Attribute{Key: "class", Val: HighlightClass})
	span.AppendChild(dom.NewText(text))
	return span
}

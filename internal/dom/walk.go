package dom

import "golang.org/x/net/html"

// TextWalker yields the text nodes below a root in depth-first document order.
// The tree must not be edited while a walk is in progress.
type TextWalker struct {
	root    *html.Node
	cur     *html.Node
	started bool
}

// NewTextWalker creates a new TextWalker rooted at root.
func NewTextWalker(root *html.Node) *TextWalker {
	return &TextWalker{root: root}
}

// Next returns the next text node, or false once the subtree is exhausted.
func (w *TextWalker) Next() (*html.Node, bool) {
	for {
		n := w.advance()
		if n == nil {
			return nil, false
		}
		if n.Type == html.TextNode {
			return n, true
		}
	}
}

func (w *TextWalker) advance() *html.Node {
	if !w.started {
		w.started = true
		w.cur = w.root
	}
	if w.cur == nil {
		return nil
	}
	if child := w.cur.FirstChild; child != nil {
		w.cur = child
		return child
	}
	for n := w.cur; n != nil && n != w.root; n = n.Parent {
		if n.NextSibling != nil {
			w.cur = n.NextSibling
			return w.cur
		}
	}
	w.cur = nil
	return nil
}

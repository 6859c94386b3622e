package find

import (
	"golang.org/x/net/html"

	"github.com/kk-code-lab/rfind/internal/dom"
)

// activeController tracks which highlight carries the active class.
type activeController struct {
	styles   Stylesheet
	host     HostChannel
	scroller *ScrollAnimator
	current  *html.Node
}

// activate marks highlights[index] active, scrolls to it and reports its
// 1-based position. An index that resolves to nothing reports 0.
func (c *activeController) activate(highlights []*html.Node, index int) {
	if c.styles != nil && !c.styles.Attached() {
		c.styles.Attach()
	}
	if c.current != nil {
		dom.RemoveClass(c.current, ActiveHighlightClass)
		c.current = nil
	}

	if index < 0 || index >= len(highlights) {
		c.host.Post(CurrentMessage(0))
		return
	}
	h := highlights[index]
	dom.AddClass(h, ActiveHighlightClass)
	c.current = h
	c.scroller.ScrollTo(h)
	c.host.Post(CurrentMessage(index + 1))
}

// forget drops the reference to a highlight that is about to be unwrapped.
func (c *activeController) forget() {
	c.current = nil
}

func (c *activeController) detach() {
	if c.styles != nil && c.styles.Attached() {
		c.styles.Detach()
	}
}

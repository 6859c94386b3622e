package dom

import "golang.org/x/net/html"

// ReplaceWith splices fragment into n's place, keeping the order of both the
// fragment and n's siblings. It reports false when n is detached, in which case
// nothing changes.
func ReplaceWith(n *html.Node, fragment []*html.Node) bool {
	parent := n.Parent
	if parent == nil {
		return false
	}
	for _, f := range fragment {
		if f.Parent != nil {
			f.Parent.RemoveChild(f)
		}
		parent.InsertBefore(f, n)
	}
	parent.RemoveChild(n)
	return true
}

// Unwrap moves n's children before n and removes n. It returns the former
// parent, or nil when n was detached.
func Unwrap(n *html.Node) *html.Node {
	parent := n.Parent
	if parent == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
	return parent
}

// Normalize merges adjacent text nodes and drops empty ones throughout n's subtree.
func Normalize(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		if c.Type != html.TextNode {
			Normalize(c)
			c = c.NextSibling
			continue
		}
		for c.NextSibling != nil && c.NextSibling.Type == html.TextNode {
			sib := c.NextSibling
			c.Data += sib.Data
			n.RemoveChild(sib)
		}
		next := c.NextSibling
		if c.Data == "" {
			n.RemoveChild(c)
		}
		c = next
	}
}

// Package dom holds the live document tree the viewer lays out and the find
// engine rewrites. Nodes are plain golang.org/x/net/html nodes.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var embeddedDocumentTags = map[string]struct{}{
	"iframe": {},
	"frame":  {},
	"object": {},
	"embed":  {},
}

// NewText creates a detached text node.
func NewText(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// NewElement creates a detached element node.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     attrs,
	}
}

// IsElement reports whether n is an element with the given tag name.
func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// Attr returns the value of the attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr drops the attribute key from n if present.
func RemoveAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// HasClass reports whether the class attribute of n lists class.
func HasClass(n *html.Node, class string) bool {
	val, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(val) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to n's class list unless it is already there.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	val, _ := Attr(n, "class")
	if strings.TrimSpace(val) == "" {
		SetAttr(n, "class", class)
		return
	}
	SetAttr(n, "class", strings.TrimSpace(val)+" "+class)
}

// RemoveClass removes every occurrence of class from n's class list.
func RemoveClass(n *html.Node, class string) {
	val, ok := Attr(n, "class")
	if !ok {
		return
	}
	fields := strings.Fields(val)
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// TextContent concatenates the text of every descendant text node.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	w := NewTextWalker(n)
	for t, ok := w.Next(); ok; t, ok = w.Next() {
		b.WriteString(t.Data)
	}
	return b.String()
}

// ParentElement returns the nearest element ancestor of n.
func ParentElement(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

// IsEmbeddedDocument reports whether n hosts a foreign document (iframe, frame,
// object, embed).
func IsEmbeddedDocument(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	_, ok := embeddedDocumentTags[n.Data]
	return ok
}

// InEmbeddedDocument reports whether any ancestor of n hosts a foreign document.
func InEmbeddedDocument(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if IsEmbeddedDocument(p) {
			return true
		}
	}
	return false
}

// FindElement returns the first element named tag in document order, root included.
func FindElement(root *html.Node, tag string) *html.Node {
	if IsElement(root, tag) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

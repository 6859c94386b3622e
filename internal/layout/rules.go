package layout

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/kk-code-lab/rfind/internal/dom"
)

var nonRenderedTags = map[string]struct{}{
	"head":     {},
	"script":   {},
	"style":    {},
	"template": {},
	"noscript": {},
	"title":    {},
	"meta":     {},
	"link":     {},
}

var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "body": {},
	"caption": {}, "dd": {}, "details": {}, "dialog": {}, "div": {}, "dl": {},
	"dt": {}, "fieldset": {}, "figcaption": {}, "figure": {}, "footer": {},
	"form": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"header": {}, "hgroup": {}, "hr": {}, "html": {}, "li": {}, "main": {},
	"nav": {}, "ol": {}, "p": {}, "pre": {}, "section": {}, "summary": {},
	"table": {}, "ul": {},
}

// spacedTags are separated from their neighbours by a blank line.
var spacedTags = map[string]struct{}{
	"p": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"pre": {}, "blockquote": {}, "ul": {}, "ol": {}, "table": {}, "dl": {},
	"figure": {},
}

// Hidden reports whether el generates no box at all: non-rendered tags, the
// hidden attribute and inline display:none.
func Hidden(el *html.Node) bool {
	if el == nil || el.Type != html.ElementNode {
		return false
	}
	if _, ok := nonRenderedTags[el.Data]; ok {
		return true
	}
	if _, ok := dom.Attr(el, "hidden"); ok {
		return true
	}
	if style, ok := dom.Attr(el, "style"); ok {
		compact := strings.ToLower(strings.Join(strings.Fields(style), ""))
		for _, decl := range strings.Split(compact, ";") {
			if decl == "display:none" || strings.HasPrefix(decl, "display:none!") {
				return true
			}
		}
	}
	return false
}

func isBlock(tag string) bool {
	_, ok := blockTags[tag]
	return ok
}

func isSpaced(tag string) bool {
	_, ok := spacedTags[tag]
	return ok
}

func isCollapsible(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

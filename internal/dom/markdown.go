package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

const (
	markdownDepthLimit = 64
	fenceIndentLimit   = 3
)

// BuildMarkdown converts markdown source into an HTML document tree.
func BuildMarkdown(source string) *html.Node {
	root, body := newSkeleton()
	lines := strings.Split(normalizeNewlines(source), "\n")
	for _, n := range markdownBlocks(lines, 0) {
		body.AppendChild(n)
	}
	return root
}

func markdownBlocks(lines []string, depth int) []*html.Node {
	if depth >= markdownDepthLimit {
		p := NewElement("p")
		appendAll(p, inlineNodes(joinLines(lines)))
		return []*html.Node{p}
	}

	var out []*html.Node
	for i := 0; i < len(lines); {
		line := lines[i]
		if blank(line) {
			i++
			continue
		}
		indent := indentOf(line)
		trimmed := strings.TrimLeft(line, " \t")

		if table, next, ok := markdownTable(lines, i); ok {
			out = append(out, table)
			i = next
			continue
		}
		if indent >= 4 {
			block, next := indentedCode(lines, i)
			out = append(out, block)
			i = next
			continue
		}
		if f, ok := openFence(trimmed); ok {
			block, next := fencedCode(lines, i, f)
			out = append(out, block)
			i = next
			continue
		}
		if strings.HasPrefix(trimmed, ">") {
			block, next := blockquote(lines, i, depth)
			out = append(out, block)
			i = next
			continue
		}
		if level, text, ok := atxHeading(trimmed); ok {
			h := NewElement("h" + strconv.Itoa(level))
			appendAll(h, inlineNodes(text))
			out = append(out, h)
			i++
			continue
		}
		if thematicBreak(trimmed) {
			out = append(out, NewElement("hr"))
			i++
			continue
		}
		if level, ok := setextLevel(lines, i); ok {
			h := NewElement("h" + strconv.Itoa(level))
			appendAll(h, inlineNodes(strings.TrimSpace(line)))
			out = append(out, h)
			i += 2
			continue
		}
		if list, next, ok := markdownList(lines, i, depth); ok {
			out = append(out, list)
			i = next
			continue
		}

		start := i
		for i < len(lines) && !blank(lines[i]) && (i == start || (indentOf(lines[i]) < 4 && !interruptsParagraph(lines, i))) {
			i++
		}
		p := NewElement("p")
		appendAll(p, inlineNodes(joinLines(lines[start:i])))
		out = append(out, p)
	}
	return out
}

func blockquote(lines []string, start, depth int) (*html.Node, int) {
	var inner []string
	i := start
	for ; i < len(lines); i++ {
		trimmed := strings.TrimLeft(lines[i], " \t")
		if blank(trimmed) {
			inner = append(inner, "")
			continue
		}
		if !strings.HasPrefix(trimmed, ">") {
			break
		}
		inner = append(inner, strings.TrimLeft(trimmed[1:], " \t"))
	}
	quote := NewElement("blockquote")
	appendAll(quote, markdownBlocks(inner, depth+1))
	return quote, i
}

type fence struct {
	char   byte
	length int
	info   string
}

func openFence(trimmed string) (fence, bool) {
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return fence{}, false
	}
	n := repeatCount(trimmed, trimmed[0])
	if n < 3 {
		return fence{}, false
	}
	return fence{char: trimmed[0], length: n, info: strings.TrimSpace(trimmed[n:])}, true
}

func fencedCode(lines []string, start int, f fence) (*html.Node, int) {
	var body []string
	i := start + 1
	for ; i < len(lines); i++ {
		line := lines[i]
		if indentOf(line) <= fenceIndentLimit {
			trimmed := strings.TrimLeft(line, " \t")
			if closing, ok := openFence(trimmed); ok && closing.char == f.char && closing.length >= f.length && closing.info == "" {
				return codeBlock(body, f.info), i + 1
			}
		}
		body = append(body, line)
	}
	return codeBlock(body, f.info), i
}

func indentedCode(lines []string, start int) (*html.Node, int) {
	var body []string
	i := start
	for ; i < len(lines); i++ {
		line := lines[i]
		if blank(line) {
			body = append(body, "")
			continue
		}
		if indentOf(line) < 4 {
			break
		}
		body = append(body, line[4:])
	}
	for len(body) > 0 && body[len(body)-1] == "" {
		body = body[:len(body)-1]
	}
	return codeBlock(body, ""), i
}

func codeBlock(body []string, info string) *html.Node {
	pre := NewElement("pre")
	code := NewElement("code")
	if lang := strings.Fields(info); len(lang) > 0 {
		SetAttr(code, "class", "language-"+lang[0])
	}
	if text := strings.Join(body, "\n"); text != "" {
		code.AppendChild(NewText(text))
	}
	pre.AppendChild(code)
	return pre
}

type itemMarker struct {
	ordered bool
	number  int
	width   int
	indent  int
	content string
}

func markdownList(lines []string, start, depth int) (*html.Node, int, bool) {
	first, ok := listMarker(lines[start])
	if !ok {
		return nil, start, false
	}
	list := NewElement("ul")
	if first.ordered {
		list = NewElement("ol")
		if first.number != 1 {
			SetAttr(list, "start", strconv.Itoa(first.number))
		}
	}

	i := start
	for i < len(lines) {
		m, ok := listMarker(lines[i])
		if !ok || m.indent != first.indent || m.ordered != first.ordered {
			break
		}
		item := []string{m.content}
		contentIndent := m.indent + m.width + 1
		i++
		for ; i < len(lines); i++ {
			line := lines[i]
			if blank(line) {
				item = append(item, "")
				continue
			}
			if next, ok := listMarker(line); ok && next.indent <= first.indent {
				break
			}
			if indentOf(line) < contentIndent {
				if len(item) > 0 && item[len(item)-1] != "" && !interruptsParagraph(lines, i) {
					item = append(item, strings.TrimLeft(line, " \t"))
					continue
				}
				break
			}
			item = append(item, line[contentIndent:])
		}
		for len(item) > 1 && item[len(item)-1] == "" {
			item = item[:len(item)-1]
		}

		li := NewElement("li")
		children := markdownBlocks(item, depth+1)
		if len(children) == 1 && IsElement(children[0], "p") {
			// tight item: lift the paragraph's inline content
			appendAll(li, detachChildren(children[0]))
		} else {
			appendAll(li, children)
		}
		list.AppendChild(li)
	}
	return list, i, true
}

func listMarker(line string) (itemMarker, bool) {
	if blank(line) {
		return itemMarker{}, false
	}
	indent := indentOf(line)
	rest := line[indent:]
	if len(rest) >= 2 && (rest[0] == '-' || rest[0] == '+' || rest[0] == '*') && (rest[1] == ' ' || rest[1] == '\t') {
		if thematicBreak(rest) {
			return itemMarker{}, false
		}
		return itemMarker{indent: indent, width: 1, content: strings.TrimLeft(rest[2:], " \t")}, true
	}

	digits := 0
	for digits < len(rest) && digits < 9 && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits+1 >= len(rest) {
		return itemMarker{}, false
	}
	if (rest[digits] != '.' && rest[digits] != ')') || (rest[digits+1] != ' ' && rest[digits+1] != '\t') {
		return itemMarker{}, false
	}
	number, _ := strconv.Atoi(rest[:digits])
	return itemMarker{
		ordered: true,
		number:  number,
		width:   digits + 1,
		indent:  indent,
		content: strings.TrimLeft(rest[digits+2:], " \t"),
	}, true
}

func atxHeading(trimmed string) (int, string, bool) {
	level := repeatCount(trimmed, '#')
	if level == 0 || level > 6 {
		return 0, "", false
	}
	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	text := strings.TrimSpace(rest)
	if stripped := strings.TrimRight(text, "#"); stripped == "" || strings.HasSuffix(stripped, " ") {
		text = strings.TrimSpace(stripped)
	}
	return level, text, true
}

func setextLevel(lines []string, i int) (int, bool) {
	if i+1 >= len(lines) || blank(lines[i]) {
		return 0, false
	}
	under := strings.TrimSpace(lines[i+1])
	switch {
	case under == "":
		return 0, false
	case strings.Trim(under, "=") == "":
		return 1, true
	case strings.Trim(under, "-") == "":
		return 2, true
	}
	return 0, false
}

func thematicBreak(trimmed string) bool {
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, trimmed)
	if len(compact) < 3 {
		return false
	}
	return strings.Trim(compact, "-") == "" || strings.Trim(compact, "*") == "" || strings.Trim(compact, "_") == ""
}

func interruptsParagraph(lines []string, i int) bool {
	trimmed := strings.TrimLeft(lines[i], " \t")
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, ">") || thematicBreak(trimmed) {
		return true
	}
	if _, _, ok := atxHeading(trimmed); ok {
		return true
	}
	if _, ok := openFence(trimmed); ok {
		return true
	}
	if _, ok := listMarker(trimmed); ok {
		return true
	}
	return tableStarts(lines, i)
}

// joinLines folds paragraph lines into one string, marking hard breaks (two
// trailing spaces or a backslash) with '\n'.
func joinLines(lines []string) string {
	var b strings.Builder
	for idx, line := range lines {
		raw := strings.TrimRight(line, "\t")
		content := strings.TrimRight(raw, " ")
		hard := len(raw)-len(content) >= 2
		if strings.HasSuffix(content, "\\") && (len(content)-len(strings.TrimRight(content, "\\")))%2 == 1 {
			content = strings.TrimRight(content[:len(content)-1], " ")
			hard = true
		}
		b.WriteString(strings.TrimLeft(content, " \t"))
		if idx < len(lines)-1 {
			if hard {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

func appendAll(parent *html.Node, children []*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}

func detachChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		out = append(out, c)
	}
	return out
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func blank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func repeatCount(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

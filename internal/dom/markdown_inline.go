package dom

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// inlineNodes turns one paragraph of markdown into text and phrasing elements.
// A '\n' in text is a hard line break.
func inlineNodes(text string) []*html.Node {
	runes := []rune(text)
	var out []*html.Node
	var buf []rune

	flush := func() {
		if len(buf) > 0 {
			out = append(out, NewText(string(buf)))
			buf = buf[:0]
		}
	}
	emit := func(n *html.Node) {
		flush()
		out = append(out, n)
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && strings.ContainsRune(asciiPunctuation, runes[i+1]):
			buf = append(buf, runes[i+1])
			i += 2
		case r == '\n':
			emit(NewElement("br"))
			i++
		case r == '`':
			n := runRun(runes[i:], '`')
			end := closingBackticks(runes[i+n:], n)
			if end < 0 {
				buf = append(buf, runes[i:i+n]...)
				i += n
				continue
			}
			code := NewElement("code")
			code.AppendChild(NewText(strings.TrimSpace(string(runes[i+n : i+n+end]))))
			emit(code)
			i += n + end + n
		case r == '!' && i+1 < len(runes) && runes[i+1] == '[':
			if node, used, ok := linkOrImage(runes[i:], true); ok {
				emit(node)
				i += used
				continue
			}
			buf = append(buf, r)
			i++
		case r == '[':
			if node, used, ok := linkOrImage(runes[i:], false); ok {
				emit(node)
				i += used
				continue
			}
			buf = append(buf, r)
			i++
		case r == '<':
			if node, used, ok := autolink(runes[i:]); ok {
				emit(node)
				i += used
				continue
			}
			buf = append(buf, r)
			i++
		case r == '*' || r == '_' || r == '~':
			width := runRun(runes[i:], r)
			tag := "em"
			switch {
			case r == '~' && width < 2:
				buf = append(buf, r)
				i++
				continue
			case r == '~':
				width, tag = 2, "del"
			case width >= 2:
				width, tag = 2, "strong"
			default:
				width = 1
			}
			closeAt := closingDelimiter(runes, i+width, r, width)
			if closeAt < 0 || closeAt == i+width || (r == '_' && wordRune(runes, i-1) && wordRune(runes, closeAt+width)) {
				buf = append(buf, runes[i:i+width]...)
				i += width
				continue
			}
			el := NewElement(tag)
			appendAll(el, inlineNodes(string(runes[i+width:closeAt])))
			emit(el)
			i = closeAt + width
		default:
			buf = append(buf, r)
			i++
		}
	}
	flush()
	return out
}

func linkOrImage(runes []rune, image bool) (*html.Node, int, bool) {
	open := 0
	if image {
		open = 1
	}
	labelEnd := matching(runes[open+1:], '[', ']')
	if labelEnd < 0 {
		return nil, 0, false
	}
	labelEnd += open + 1
	if labelEnd+1 >= len(runes) || runes[labelEnd+1] != '(' {
		return nil, 0, false
	}
	destEnd := matching(runes[labelEnd+2:], '(', ')')
	if destEnd < 0 {
		return nil, 0, false
	}
	destEnd += labelEnd + 2
	label := string(runes[open+1 : labelEnd])
	dest := strings.TrimSpace(string(runes[labelEnd+2 : destEnd]))
	if fields := strings.Fields(dest); len(fields) > 0 {
		dest = strings.Trim(fields[0], "<>")
	}

	if image {
		return NewElement("img",
			html.Attribute{Key: "src", Val: dest},
			html.Attribute{Key: "alt", Val: label},
		), destEnd + 1, true
	}
	a := NewElement("a", html.Attribute{Key: "href", Val: dest})
	appendAll(a, inlineNodes(label))
	return a, destEnd + 1, true
}

func autolink(runes []rune) (*html.Node, int, bool) {
	end := -1
	for i := 1; i < len(runes); i++ {
		if runes[i] == '>' {
			end = i
			break
		}
		if runes[i] == ' ' || runes[i] == '<' {
			return nil, 0, false
		}
	}
	if end < 0 {
		return nil, 0, false
	}
	target := string(runes[1:end])
	lower := strings.ToLower(target)
	switch {
	case lower == "br" || lower == "br/" || lower == "br /":
		return NewElement("br"), end + 1, true
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
	case strings.Contains(target, "@") && strings.Contains(target, "."):
		target = "mailto:" + strings.TrimPrefix(target, "mailto:")
	default:
		return nil, 0, false
	}
	a := NewElement("a", html.Attribute{Key: "href", Val: target})
	a.AppendChild(NewText(strings.TrimPrefix(target, "mailto:")))
	return a, end + 1, true
}

func matching(runes []rune, open, close rune) int {
	depth := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
		case open:
			depth++
		case close:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func closingBackticks(runes []rune, n int) int {
	for i := 0; i < len(runes); {
		if runes[i] != '`' {
			i++
			continue
		}
		run := runRun(runes[i:], '`')
		if run == n {
			return i
		}
		i += run
	}
	return -1
}

func closingDelimiter(runes []rune, from int, delim rune, width int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == '\\' {
			i++
			continue
		}
		if runes[i] == delim && runRun(runes[i:], delim) >= width && !unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return -1
}

func wordRune(runes []rune, i int) bool {
	if i < 0 || i >= len(runes) {
		return false
	}
	return unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])
}

func runRun(runes []rune, target rune) int {
	n := 0
	for n < len(runes) && runes[n] == target {
		n++
	}
	return n
}

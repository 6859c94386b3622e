// Package layout flows a document tree into terminal lines. It decides which
// elements are rendered, where every text run lands and how far the document
// can scroll.
package layout

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/kk-code-lab/rfind/internal/dom"
	"github.com/kk-code-lab/rfind/internal/textutil"
)

const (
	DefaultWidth   = 80
	bulletMarker   = "• "
	quotePrefix    = "│ "
	cellSeparator  = " │ "
	ruleRune       = "─"
	unboundedRule  = 40
)

// Options control a layout pass.
type Options struct {
	// Width is the number of columns available; zero or less means unbounded.
	Width    int
	Wrap     bool
	TabWidth int
}

type prefix struct {
	first string
	rest  string
	used  bool
}

type pendingSpace struct {
	node       *html.Node
	start, end int
}

type flow struct {
	opts   Options
	result *Result

	cur        *Line
	x          int
	spaceFloor int
	space      *pendingSpace
	blank      bool
	prefixes   []*prefix
	pre        int
	cell       int
}

// Flow lays out root and everything below it.
func Flow(root *html.Node, opts Options) *Result {
	if opts.TabWidth <= 0 {
		opts.TabWidth = textutil.DefaultTabWidth
	}
	f := &flow{
		opts:   opts,
		result: &Result{boxes: make(map[*html.Node]*Box)},
	}
	f.node(root)
	f.breakLine()
	return f.result
}

func (f *flow) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		f.text(n)
	case html.ElementNode:
		f.element(n)
	case html.DocumentNode:
		f.children(n)
	}
}

func (f *flow) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.node(c)
	}
}

func (f *flow) element(n *html.Node) {
	if Hidden(n) {
		return
	}
	if dom.IsEmbeddedDocument(n) {
		f.inlineBlock(func() { f.atom(n, placeholder(n)) })
		return
	}

	switch n.Data {
	case "br":
		if f.cell > 0 {
			f.queueSpace(nil, 0, 0)
			return
		}
		f.openLine()
		f.breakLine()
		return
	case "hr":
		f.inlineBlock(func() { f.atom(n, f.rule()) })
		return
	case "img":
		alt, _ := dom.Attr(n, "alt")
		if strings.TrimSpace(alt) == "" {
			alt = "image"
		}
		f.atom(n, "["+strings.TrimSpace(alt)+"]")
		return
	case "table":
		if f.cell == 0 {
			f.table(n)
			return
		}
	case "ul", "ol":
		if f.cell == 0 {
			f.list(n)
			return
		}
	case "li":
		if f.cell == 0 {
			f.listItem(n, bulletMarker)
			return
		}
	case "blockquote":
		if f.cell == 0 {
			f.boundary(true)
			f.push(quotePrefix, quotePrefix)
			f.children(n)
			f.breakLine()
			f.pop()
			f.boundary(true)
			return
		}
	case "pre":
		f.pre++
		defer func() { f.pre-- }()
	}

	if !isBlock(n.Data) || f.cell > 0 {
		f.children(n)
		return
	}
	spaced := isSpaced(n.Data)
	f.boundary(spaced)
	f.children(n)
	f.boundary(spaced)
}

// inlineBlock gives body a line of its own outside table cells.
func (f *flow) inlineBlock(body func()) {
	if f.cell == 0 {
		f.boundary(false)
	}
	body()
	if f.cell == 0 {
		f.boundary(false)
	}
}

// boundary ends the current line; spaced boundaries also request a blank line
// before the next content.
func (f *flow) boundary(spaced bool) {
	f.breakLine()
	if spaced && len(f.result.Lines) > 0 {
		f.blank = true
	}
}

func (f *flow) list(n *html.Node) {
	spaced := !insideListItem(n)
	f.boundary(spaced)

	number := 1
	if v, ok := dom.Attr(n, "start"); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			number = parsed
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !dom.IsElement(c, "li") || Hidden(c) {
			f.node(c)
			continue
		}
		marker := bulletMarker
		if n.Data == "ol" {
			marker = strconv.Itoa(number) + ". "
		}
		f.listItem(c, marker)
		number++
	}
	f.boundary(spaced)
}

func (f *flow) listItem(li *html.Node, marker string) {
	f.breakLine()
	f.push(marker, strings.Repeat(" ", textutil.DisplayWidth(marker)))
	f.children(li)
	f.breakLine()
	f.pop()
}

func insideListItem(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if dom.IsElement(p, "li") {
			return true
		}
	}
	return false
}

func (f *flow) push(first, rest string) {
	f.prefixes = append(f.prefixes, &prefix{first: first, rest: rest})
}

func (f *flow) pop() {
	f.prefixes = f.prefixes[:len(f.prefixes)-1]
}

func (f *flow) wrapping() bool {
	return f.opts.Wrap && f.opts.Width > 0 && f.cell == 0
}

// openLine starts a line if none is open, emitting any pending blank line and
// the active prefixes.
func (f *flow) openLine() {
	if f.cur != nil {
		return
	}
	if f.blank {
		f.blank = false
		var b strings.Builder
		for _, p := range f.prefixes {
			b.WriteString(p.rest)
		}
		blank := Line{}
		if deco := strings.TrimRight(b.String(), " "); deco != "" {
			w := textutil.DisplayWidth(deco)
			blank.Runs = []Run{{Text: deco, Width: w}}
			blank.Width = w
		}
		f.result.Lines = append(f.result.Lines, blank)
	}

	f.cur = &Line{}
	f.x = 0
	for _, p := range f.prefixes {
		text := p.rest
		if !p.used {
			text = p.first
			p.used = true
		}
		if text != "" {
			f.place(Run{Text: text, Width: textutil.DisplayWidth(text)})
		}
	}
	f.spaceFloor = f.x
}

func (f *flow) breakLine() {
	f.space = nil
	if f.cur == nil {
		return
	}
	f.cur.Width = f.x
	f.result.Lines = append(f.result.Lines, *f.cur)
	if f.x > f.result.Width {
		f.result.Width = f.x
	}
	f.cur = nil
}

// place appends r at the current column, merging it into the previous run
// when both display adjacent bytes of the same text node.
func (f *flow) place(r Run) {
	r.X = f.x
	y := len(f.result.Lines)
	runs := f.cur.Runs
	if n := len(runs); n > 0 && r.IsText() {
		last := &runs[n-1]
		if last.Node == r.Node && last.End == r.Start && last.X+last.Width == r.X {
			last.End = r.End
			last.Text += r.Text
			last.Width += r.Width
			f.x += r.Width
			f.result.record(r.Node, r.X, y, r.Width)
			return
		}
	}
	f.cur.Runs = append(f.cur.Runs, r)
	f.x += r.Width
	if r.Node != nil {
		f.result.record(r.Node, r.X, y, r.Width)
	}
}

func (f *flow) queueSpace(n *html.Node, start, end int) {
	if f.cur == nil || f.x == f.spaceFloor || f.space != nil {
		return
	}
	f.space = &pendingSpace{node: n, start: start, end: end}
}

// flushSpace emits a pending collapsed space, or drops it when the next
// piece of width w would not fit and the line is broken instead.
func (f *flow) flushSpace(w int) {
	if f.space == nil {
		return
	}
	if f.wrapping() && f.x+1+w > f.opts.Width {
		f.breakLine()
		f.openLine()
		return
	}
	sp := f.space
	f.space = nil
	if sp.node == nil {
		f.place(Run{Text: " ", Width: 1})
		return
	}
	f.place(Run{Node: sp.node, Start: sp.start, End: sp.end, Text: " ", Width: 1})
}

func (f *flow) text(n *html.Node) {
	data := n.Data
	if f.pre > 0 {
		f.preformatted(n)
		return
	}
	for i := 0; i < len(data); {
		j := i
		if isCollapsible(data[i]) {
			for j < len(data) && isCollapsible(data[j]) {
				j++
			}
			f.queueSpace(n, i, j)
			i = j
			continue
		}
		for j < len(data) && !isCollapsible(data[j]) {
			j++
		}
		f.word(n, i, j)
		i = j
	}
}

func (f *flow) word(n *html.Node, start, end int) {
	f.openLine()
	w := textutil.DisplayWidth(n.Data[start:end])
	f.flushSpace(w)
	if f.wrapping() && f.x > f.spaceFloor && f.x+w > f.opts.Width {
		f.breakLine()
		f.openLine()
	}
	f.segment(n, start, end)
}

// atom places an unbreakable generated run for el.
func (f *flow) atom(el *html.Node, text string) {
	f.openLine()
	w := textutil.DisplayWidth(text)
	f.flushSpace(w)
	if f.wrapping() && f.x > f.spaceFloor && f.x+w > f.opts.Width {
		f.breakLine()
		f.openLine()
	}
	f.place(Run{Node: el, Text: text, Width: w})
}

func (f *flow) preformatted(n *html.Node) {
	data := n.Data
	start := 0
	for start <= len(data) {
		nl := strings.IndexByte(data[start:], '\n')
		end := len(data)
		if nl >= 0 {
			end = start + nl
		}
		if end > start {
			f.openLine()
			f.segment(n, start, end)
		}
		if nl < 0 {
			return
		}
		f.openLine()
		f.breakLine()
		start = end + 1
	}
}

// segment places data[start:end] grapheme by grapheme, breaking the line
// whenever wrapping is on and the next cluster would overflow.
func (f *flow) segment(n *html.Node, start, end int) {
	var text strings.Builder
	segStart := start
	segWidth := 0
	flush := func(at int) {
		if at > segStart {
			f.place(Run{Node: n, Start: segStart, End: at, Text: text.String(), Width: segWidth})
		}
		text.Reset()
		segStart = at
		segWidth = 0
	}

	textutil.EachGrapheme(n.Data[start:end], func(cluster string, cs, _ int, w int) bool {
		display := cluster
		if cluster == "\t" {
			w = textutil.TabAdvance(f.x+segWidth-f.spaceFloor, f.opts.TabWidth)
			display = strings.Repeat(" ", w)
		} else if w == 0 || textutil.HasFormattingRunes(cluster) || strings.ContainsFunc(cluster, isControl) {
			display = sanitizeCluster(cluster)
		}
		if f.wrapping() && f.x+segWidth+w > f.opts.Width && f.x+segWidth > f.spaceFloor {
			flush(start + cs)
			f.breakLine()
			f.openLine()
		}
		text.WriteString(display)
		segWidth += w
		return true
	})
	flush(end)
}

func sanitizeCluster(cluster string) string {
	var b strings.Builder
	for _, r := range cluster {
		b.WriteString(textutil.DisplayRune(r))
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

func (f *flow) rule() string {
	width := unboundedRule
	if f.opts.Width > 0 {
		width = f.opts.Width
		for _, p := range f.prefixes {
			width -= textutil.DisplayWidth(p.rest)
		}
		if width < 1 {
			width = 1
		}
	}
	return strings.Repeat(ruleRune, width)
}

func placeholder(el *html.Node) string {
	label := el.Data
	for _, key := range []string{"title", "src", "data"} {
		if v, ok := dom.Attr(el, key); ok && strings.TrimSpace(v) != "" {
			label += ": " + strings.TrimSpace(v)
			break
		}
	}
	return "[" + textutil.SanitizeTerminalText(label) + "]"
}

package dom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func mustParseHTML(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse("page.html", []byte(src))
	require.NoError(t, err)
	return doc
}

func innerHTML(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&buf, c))
	}
	return buf.String()
}

func TestClassHelpers(t *testing.T) {
	span := NewElement("span")
	require.False(t, HasClass(span, "a"))

	AddClass(span, "a")
	AddClass(span, "b")
	AddClass(span, "a")
	val, _ := Attr(span, "class")
	require.Equal(t, "a b", val)

	RemoveClass(span, "a")
	require.True(t, HasClass(span, "b"))
	require.False(t, HasClass(span, "a"))

	RemoveClass(span, "b")
	_, ok := Attr(span, "class")
	require.False(t, ok, "empty class attribute should be dropped")
}

func TestTextWalkerDepthFirstOrder(t *testing.T) {
	doc := mustParseHTML(t, `<body><p>one <b>two</b></p><div>three<i>four</i></div>five</body>`)

	var got []string
	w := NewTextWalker(doc.Body())
	for n, ok := w.Next(); ok; n, ok = w.Next() {
		got = append(got, n.Data)
	}
	require.Equal(t, []string{"one ", "two", "three", "four", "five"}, got)

	_, ok := w.Next()
	require.False(t, ok, "exhausted walker stays exhausted")
}

func TestTextWalkerEmptyRoot(t *testing.T) {
	w := NewTextWalker(NewElement("div"))
	_, ok := w.Next()
	require.False(t, ok)
}

func TestReplaceWithKeepsSiblingOrder(t *testing.T) {
	doc := mustParseHTML(t, `<body><p><b>x</b>cat hat<i>y</i></p></body>`)
	p := FindElement(doc.Root, "p")
	text := p.FirstChild.NextSibling

	mark := NewElement("mark")
	mark.AppendChild(NewText("cat"))
	ok := ReplaceWith(text, []*html.Node{mark, NewText(" hat")})
	require.True(t, ok)
	require.Equal(t, `<b>x</b><mark>cat</mark> hat<i>y</i>`, innerHTML(t, p))
	require.Nil(t, text.Parent)

	require.False(t, ReplaceWith(text, []*html.Node{NewText("z")}), "detached node is skipped")
}

func TestUnwrapAndNormalizeRestoreText(t *testing.T) {
	doc := mustParseHTML(t, `<body><p>a cat sat</p></body>`)
	p := FindElement(doc.Root, "p")
	before := TextContent(p)

	span := NewElement("span")
	span.AppendChild(NewText("cat"))
	require.True(t, ReplaceWith(p.FirstChild, []*html.Node{NewText("a "), span, NewText(" sat")}))

	parent := Unwrap(span)
	require.Equal(t, p, parent)
	Normalize(parent)

	require.Equal(t, before, TextContent(p))
	require.NotNil(t, p.FirstChild)
	require.Nil(t, p.FirstChild.NextSibling, "adjacent text nodes should merge")
	require.Nil(t, Unwrap(span), "second unwrap is a no-op")
}

func TestNormalizeDropsEmptyText(t *testing.T) {
	div := NewElement("div")
	div.AppendChild(NewText(""))
	inner := NewElement("b")
	inner.AppendChild(NewText("x"))
	inner.AppendChild(NewText(""))
	inner.AppendChild(NewText("y"))
	div.AppendChild(inner)
	div.AppendChild(NewText(""))

	Normalize(div)
	require.Equal(t, "<b>xy</b>", innerHTML(t, div))
}

func TestInEmbeddedDocument(t *testing.T) {
	doc := mustParseHTML(t, `<body><object><span>fallback</span></object><p>plain</p></body>`)
	walker := NewTextWalker(doc.Body())

	first, ok := walker.Next()
	require.True(t, ok)
	require.Equal(t, "fallback", first.Data)
	require.True(t, InEmbeddedDocument(first))

	second, ok := walker.Next()
	require.True(t, ok)
	require.False(t, InEmbeddedDocument(second))
	require.Equal(t, "p", ParentElement(second).Data)
}

func TestParseDetectsKinds(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		want Kind
	}{
		{"html extension", "a.html", "<p>x</p>", KindHTML},
		{"markdown extension", "a.md", "# x", KindMarkdown},
		{"text extension", "a.txt", "<html>", KindText},
		{"sniffed doctype", "README", "<!DOCTYPE html><p>x</p>", KindHTML},
		{"sniffed text", "README", "hello", KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.file, []byte(tt.data))
			require.NoError(t, err)
			require.Equal(t, tt.want, doc.Kind)
			require.NotNil(t, FindElement(doc.Root, "body"))
		})
	}
}

func TestParseRejectsBinary(t *testing.T) {
	_, err := Parse("blob", []byte{0x00, 0x01, 0x02, 0x03})
	require.ErrorIs(t, err, ErrBinaryContent)

	_, err = Parse("photo.png", []byte("looks like text"))
	require.ErrorIs(t, err, ErrBinaryContent)
}

func TestParseDecodesUTF16AndNormalizes(t *testing.T) {
	// "é" as e + combining acute, UTF-16LE with BOM
	data := []byte{0xFF, 0xFE, 'e', 0x00, 0x01, 0x03}
	doc, err := Parse("note.txt", data)
	require.NoError(t, err)
	require.Equal(t, "\u00e9", TextContent(doc.Body()))
}

func TestPlainTextBecomesPreformatted(t *testing.T) {
	doc, err := Parse("a.txt", []byte("line one\r\nline two"))
	require.NoError(t, err)
	pre := FindElement(doc.Root, "pre")
	require.NotNil(t, pre)
	require.Equal(t, "line one\nline two", TextContent(pre))
}

func TestDocumentVersion(t *testing.T) {
	doc := mustParseHTML(t, "<p>x</p>")
	v := doc.Version()
	doc.Touch()
	require.Equal(t, v+1, doc.Version())
}

func TestBuildMarkdownBlocks(t *testing.T) {
	src := strings.Join([]string{
		"# Title #",
		"",
		"Some *soft* text",
		"continues **here**.  ",
		"After break with `code`.",
		"",
		"- one",
		"- two [link](http://x.test)",
		"",
		"3. three",
		"4. four",
		"",
		"> quoted ~~gone~~",
		"",
		"```go",
		"fmt.Println(1)",
		"```",
		"",
		"| a | b |",
		"|---|--:|",
		"| 1 | 2 |",
		"",
		"---",
		"",
		"Sub",
		"===",
		"",
		"![alt text](img.png) and <https://example.com>",
	}, "\n")
	body := FindElement(BuildMarkdown(src), "body")

	want := strings.Join([]string{
		`<h1>Title</h1>`,
		`<p>Some <em>soft</em> text continues <strong>here</strong>.<br/>After break with <code>code</code>.</p>`,
		`<ul><li>one</li><li>two <a href="http://x.test">link</a></li></ul>`,
		`<ol start="3"><li>three</li><li>four</li></ol>`,
		`<blockquote><p>quoted <del>gone</del></p></blockquote>`,
		`<pre><code class="language-go">fmt.Println(1)</code></pre>`,
		`<table><thead><tr><th>a</th><th align="right">b</th></tr></thead><tbody><tr><td>1</td><td align="right">2</td></tr></tbody></table>`,
		`<hr/>`,
		`<h1>Sub</h1>`,
		`<p><img src="img.png" alt="alt text"/> and <a href="https://example.com">https://example.com</a></p>`,
	}, "")
	require.Equal(t, want, innerHTML(t, body))
}

func TestBuildMarkdownEscapesAndIntraword(t *testing.T) {
	body := FindElement(BuildMarkdown(`snake_case_name \*literal\* a\b`), "body")
	require.Equal(t, `<p>snake_case_name *literal* a\b</p>`, innerHTML(t, body))
}

func TestBuildMarkdownIndentedCode(t *testing.T) {
	body := FindElement(BuildMarkdown("    a := 1\n    b := 2\n\ntext"), "body")
	require.Equal(t, "<pre><code>a := 1\nb := 2</code></pre><p>text</p>", innerHTML(t, body))
}

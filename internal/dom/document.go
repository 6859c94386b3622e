package dom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// ErrBinaryContent is returned when a file does not look like a text document.
var ErrBinaryContent = errors.New("binary content")

// Kind identifies the source format a document was built from.
type Kind int

const (
	KindHTML Kind = iota
	KindMarkdown
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindMarkdown:
		return "markdown"
	default:
		return "text"
	}
}

// Document is a loaded tree plus a version counter bumped on every structural
// edit, so layouts know when to reflow.
type Document struct {
	Root *html.Node
	Path string
	Kind Kind

	version uint64
}

// Body returns the <body> element, falling back to the root.
func (d *Document) Body() *html.Node {
	if body := FindElement(d.Root, "body"); body != nil {
		return body
	}
	return d.Root
}

// Version returns the edit counter.
func (d *Document) Version() uint64 {
	return d.version
}

// Touch records a structural edit.
func (d *Document) Touch() {
	d.version++
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse builds a document from raw bytes. name selects the format by extension;
// unknown extensions are sniffed.
func Parse(name string, data []byte) (*Document, error) {
	if !LooksLikeText(name, data) {
		return nil, fmt.Errorf("parse %s: %w", name, ErrBinaryContent)
	}
	text := norm.NFC.String(DecodeText(data))
	doc := &Document{Path: name, Kind: DetectKind(name, text)}

	switch doc.Kind {
	case KindHTML:
		root, err := html.Parse(strings.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		doc.Root = root
	case KindMarkdown:
		doc.Root = BuildMarkdown(text)
	default:
		doc.Root = BuildPlainText(text)
	}
	return doc, nil
}

// DetectKind picks the source format from the file extension or, failing that,
// from the leading markup.
func DetectKind(name, text string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return KindHTML
	case ".md", ".markdown", ".mdown", ".mkd":
		return KindMarkdown
	case ".txt", ".log", ".text":
		return KindText
	}
	head := strings.ToLower(strings.TrimSpace(text))
	if len(head) > 256 {
		head = head[:256]
	}
	if strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") {
		return KindHTML
	}
	return KindText
}

// BuildPlainText wraps source in a preformatted block.
func BuildPlainText(source string) *html.Node {
	root, body := newSkeleton()
	pre := NewElement("pre")
	if source != "" {
		pre.AppendChild(NewText(normalizeNewlines(source)))
	}
	body.AppendChild(pre)
	return root
}

func newSkeleton() (root, body *html.Node) {
	root = &html.Node{Type: html.DocumentNode}
	htmlEl := NewElement("html")
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(NewElement("head"))
	body = NewElement("body")
	htmlEl.AppendChild(body)
	return root, body
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

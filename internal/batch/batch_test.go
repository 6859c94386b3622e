package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kk-code-lab/rfind/internal/dom"
	"github.com/kk-code-lab/rfind/internal/find"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func fastOptions(query string) Options {
	opts := find.DefaultOptions()
	opts.StartDelay = find.Immediate
	return Options{Query: query, Find: opts, Width: 80, Height: 24, Wrap: true, TabWidth: 4, Concurrency: 2}
}

func TestExpandPatterns(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.md":           "x",
		"docs/b.html":    "x",
		"docs/deep/c.md": "x",
	})

	files, err := ExpandPatterns([]string{
		filepath.Join(dir, "**", "*.md"),
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "docs", "*.html"),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "docs", "b.html"),
		filepath.Join(dir, "docs", "deep", "c.md"),
	}, files)

	files, err = ExpandPatterns([]string{filepath.Join(dir, "**", "*")}, []string{"*.html", filepath.Join(dir, "docs", "deep", "**")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.md")}, files)

	_, err = ExpandPatterns([]string{filepath.Join(dir, "missing.md")}, nil)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = ExpandPatterns([]string{filepath.Join(dir, "[")}, nil)
	require.Error(t, err)
}

func TestSearchCountsMatches(t *testing.T) {
	doc, err := dom.Parse("p.html", []byte("<p>cat hat cat</p>"))
	require.NoError(t, err)

	messages, err := Search(context.Background(), doc, fastOptions("cat"))
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, 2, *messages[0].TotalResults)
	require.Equal(t, 1, *messages[1].CurrentResult)
}

func TestSearchBlankQuery(t *testing.T) {
	doc, err := dom.Parse("p.txt", []byte("anything"))
	require.NoError(t, err)

	messages, err := Search(context.Background(), doc, fastOptions("   "))
	require.NoError(t, err)
	require.Equal(t, []find.Message{find.NoResultsMessage()}, messages)
}

func TestSearchHonoursCancellation(t *testing.T) {
	doc, err := dom.Parse("p.txt", []byte("cat"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastOptions("cat")
	_, err = Search(ctx, doc, opts)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, "cat", doc.Body().FirstChild.FirstChild.Data, "cancelled search must not edit the tree")
}

func TestRunOrdersOutputByFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"1.md":  strings.Repeat("cat ", 50),
		"2.txt": "no match here",
		"3.bin": "\x00\x01\x02",
	})
	paths := []string{
		filepath.Join(dir, "1.md"),
		filepath.Join(dir, "2.txt"),
		filepath.Join(dir, "3.bin"),
	}

	results, err := Run(context.Background(), paths, fastOptions("cat"))
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[2].Err, dom.ErrBinaryContent)

	var buf bytes.Buffer
	require.NoError(t, WriteJSONLines(&buf, results))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)

	var first Line
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, paths[0], first.Path)
	require.Equal(t, 50, *first.TotalResults)
	require.JSONEq(t, `{"path":"`+paths[1]+`","totalResults":0}`, lines[2])
	require.JSONEq(t, `{"path":"`+paths[1]+`","currentResult":0}`, lines[3])
	require.Contains(t, lines[4], `"error"`)
}

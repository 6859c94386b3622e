package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RFIND_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(append([]string{"rfind"}, args...))
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDumpPrintsLayout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.md", "# Title\n\n- one\n- two\n")
	out, err := runCLI(t, "dump", "--width", "0", path)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "Title\n\n• one\n• two\n"
	if out != want {
		t.Fatalf("dump output = %q, want %q", out, want)
	}
}

func TestFindPrintsJSONLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "<p>cat hat cat</p>")
	writeFile(t, dir, "b.txt", "dog")

	out, err := runCLI(t, "find", "--query", "cat", filepath.Join(dir, "*"))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], `"totalResults":2`) || !strings.Contains(lines[0], "a.html") {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[2], `"totalResults":0`) || !strings.Contains(lines[2], "b.txt") {
		t.Fatalf("third line = %q", lines[2])
	}
}

func TestFindRequiresQuery(t *testing.T) {
	if _, err := runCLI(t, "find", "*.md"); err == nil {
		t.Fatal("expected missing --query to fail")
	}
}

func TestDumpRejectsExtraArgs(t *testing.T) {
	if _, err := runCLI(t, "dump", "a", "b"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestBadConfigFails(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.toml", "[find]\nmax_highlights = 0\n")
	doc := writeFile(t, dir, "doc.txt", "x")
	if _, err := runCLI(t, "--config", cfg, "dump", doc); err == nil {
		t.Fatal("expected invalid config to fail")
	}
}

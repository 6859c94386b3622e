package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPatterns resolves each pattern to files, dropping any that match an
// exclude pattern. Patterns without glob syntax name a file directly and must
// exist. The result is sorted and free of duplicates.
func ExpandPatterns(patterns, excludes []string) ([]string, error) {
	for _, ex := range excludes {
		if !doublestar.ValidatePathPattern(ex) {
			return nil, fmt.Errorf("invalid exclude pattern %q", ex)
		}
	}
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok || excluded(clean, excludes) {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, clean)
	}

	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		if !hasMeta(pattern) {
			info, err := os.Stat(pattern)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				add(pattern)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// excluded matches the full path and, for patterns without a separator, the
// base name, so "*.min.html" works anywhere.
func excluded(path string, excludes []string) bool {
	for _, ex := range excludes {
		if ok, _ := doublestar.PathMatch(ex, path); ok {
			return true
		}
		if !strings.ContainsRune(ex, '/') {
			if ok, _ := doublestar.PathMatch(ex, filepath.Base(path)); ok {
				return true
			}
		}
	}
	return false
}

func hasMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

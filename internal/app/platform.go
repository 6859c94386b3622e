package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

var commandBuilder = exec.Command

func detectEditorCommand() ([]string, bool) {
	return detectEditorCommandInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

func detectEditorCommandInternal(goos string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	for _, candidate := range []string{getenv("VISUAL"), getenv("EDITOR")} {
		args := parseCommandLine(candidate)
		if len(args) == 0 {
			continue
		}
		if resolved, err := lookPath(expandUserPath(args[0])); err == nil {
			args[0] = resolved
			return args, true
		}
	}

	defaults := [][]string{{"vim"}, {"nano"}}
	if strings.EqualFold(goos, "windows") {
		defaults = [][]string{{"code", "--wait"}, {"notepad++.exe"}, {"notepad.exe"}}
	}
	for _, def := range defaults {
		if resolved, err := lookPath(def[0]); err == nil {
			return append([]string{resolved}, def[1:]...), true
		}
	}
	return nil, false
}

// parseCommandLine splits cmd on unquoted whitespace; single and double
// quotes group words.
func parseCommandLine(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	var quote rune
	for _, r := range cmd {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		case quote == 0 && unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

func expandUserPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] != '/' && path[1] != '\\' {
		return path
	}
	return filepath.Join(home, path[2:])
}

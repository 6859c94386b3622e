package find

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const metacharacters = `.?*+^$[]\(){}|-`

// Query is a user search string in its three forms.
type Query struct {
	Raw     string
	Trimmed string
	Escaped string
}

// ParseQuery trims raw and escapes it for literal matching. A blank query has
// an empty Escaped form, which means "no search" rather than "no matches".
func ParseQuery(raw string) Query {
	trimmed := strings.TrimSpace(raw)
	return Query{Raw: raw, Trimmed: trimmed, Escaped: EscapeQuery(trimmed)}
}

// EscapeQuery prefixes every regular expression metacharacter with a backslash.
func EscapeQuery(s string) string {
	if !strings.ContainsAny(s, metacharacters) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(metacharacters, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (q Query) Empty() bool {
	return q.Escaped == ""
}

// Pattern compiles the case-insensitive matcher. Escaped input is always a
// valid expression.
func (q Query) Pattern() *regexp.Regexp {
	return regexp.MustCompile("(?i)" + spellInvalidBytes(q.Escaped))
}

// spellInvalidBytes writes each byte that is not valid UTF-8 as U+FFFD, the
// rune the matcher decodes such a byte to in the searched text.
func spellInvalidBytes(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(`\x{FFFD}`)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// Package fieldname normalizes column names so lookups tolerate case,
// accents and separator differences between what a header declares and
// what a user types.
package fieldname

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases a column name, strips diacritics and reduces the
// result to [a-z0-9_] with runs of separators collapsed to single
// underscores. Empty results fall back to "col".
func Normalize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, lowered); err == nil {
		lowered = stripped
	}
	var b strings.Builder
	lastUnderscore := false
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "col"
	}
	return out
}

// Resolve finds the index of name among names, first by exact match then
// by normalized comparison.
func Resolve(names []string, name string) (int, bool) {
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	want := Normalize(name)
	for i, n := range names {
		if Normalize(n) == want {
			return i, true
		}
	}
	return -1, false
}

package transformer

import (
	"strings"
	"unicode"
)

// NormalizeKey maps a free-form header name onto a destination column key:
// lower-case, whitespace runs become a single '_', '-' becomes '_', and every
// rune that is not a letter, digit or '_' is dropped.
//
// NormalizeKey is idempotent: NormalizeKey(NormalizeKey(s)) == NormalizeKey(s).
func NormalizeKey(name string) string {
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))

	inSpace := false
	for _, r := range lower {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
			continue
		}
		inSpace = false

		switch {
		case r == '-' || r == '_':
			b.WriteByte('_')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Package text normalizes user-supplied text before it enters the store.
package text

import (
	"strings"
	"unicode"
)

// Sanitize normalizes line endings to \n, strips control characters other
// than newlines, trims surrounding whitespace and truncates to maxLen runes.
// Sanitize is idempotent: applying it to its own output is a no-op.
func Sanitize(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r != '\n' && unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	s = strings.TrimSpace(b.String())

	if maxLen > 0 {
		runes := []rune(s)
		if len(runes) > maxLen {
			s = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return s
}

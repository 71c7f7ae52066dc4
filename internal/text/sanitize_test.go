package text

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeStripsControlCharacters(t *testing.T) {
	got := Sanitize("a\x00b\tc\x7fd", 100)
	if got != "abcd" {
		t.Fatalf("expected control characters stripped, got %q", got)
	}
}

func TestSanitizeKeepsReplacementChar(t *testing.T) {
	// U+FFFD is printable text, not a control character; input that already
	// contains it passes through untouched.
	got := Sanitize("lossy�decode", 100)
	if got != "lossy�decode" {
		t.Fatalf("expected replacement character preserved, got %q", got)
	}
}

func TestSanitizeKeepsNewlinesAndNormalizesEndings(t *testing.T) {
	got := Sanitize("one\r\ntwo\rthree\nfour", 100)
	if got != "one\ntwo\nthree\nfour" {
		t.Fatalf("unexpected normalization result: %q", got)
	}
}

func TestSanitizeTrims(t *testing.T) {
	if got := Sanitize("  \n hello \n  ", 100); got != "hello" {
		t.Fatalf("expected trimmed text, got %q", got)
	}
}

func TestSanitizeBoundsLength(t *testing.T) {
	long := strings.Repeat("x", 5000)
	got := Sanitize(long, 4000)
	if utf8.RuneCountInString(got) > 4000 {
		t.Fatalf("expected at most 4000 runes, got %d", utf8.RuneCountInString(got))
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"  plain  ",
		"multi\r\nline\rtext",
		strings.Repeat("word ", 1000),
		"ctrl\x01chars\x02here",
		"",
	}
	for _, in := range inputs {
		once := Sanitize(in, 50)
		twice := Sanitize(once, 50)
		if once != twice {
			t.Fatalf("sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeEmptyAfterCleanupIsEmpty(t *testing.T) {
	if got := Sanitize(" \x00\x01 \r\n ", 100); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

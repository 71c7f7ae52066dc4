// Package id generates the short identifiers used for prompts and
// submissions. IDs double as access tokens in some moderation flows, so they
// are always drawn from crypto/rand, never from a seeded PRNG.
package id

import (
	"crypto/rand"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the fixed length of every generated ID.
const Length = 6

// MaxAttempts bounds the insert-retry loop that callers run when a freshly
// generated ID collides with an existing row.
const MaxAttempts = 5

// New returns a fixed-length uppercase alphanumeric ID. Bytes at or above the
// largest multiple of 36 below 256 are discarded so every character is drawn
// uniformly from the alphabet.
func New() (string, error) {
	const limit = 252 // 36 * 7
	out := make([]byte, 0, Length)
	buf := make([]byte, Length)
	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out), nil
}

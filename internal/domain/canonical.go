package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"unicode"
)

// CanonicalText strips all non-alphanumeric characters and lower-cases the
// result. Two display names that differ only in punctuation, spacing, or
// case share one canonical form.
func CanonicalText(displayName string) string {
	var b strings.Builder
	b.Grow(len(displayName))
	for _, r := range displayName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Checksum returns the hex sha1 of a canonical text, stored in the ledger
// to cheaply detect whether re-derivation is needed
func Checksum(canonicalText string) string {
	sum := sha1.Sum([]byte(canonicalText))
	return hex.EncodeToString(sum[:])
}

package domain

import "strings"

// Similarity returns a textual similarity score in [0, 1] between two
// canonical texts, computed as the Dice coefficient over character bigrams.
// Identical strings score 1; strings with no shared bigram score 0.
func Similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := make(map[string]int)
	for i := 0; i+2 <= len(a); i++ {
		bigrams[a[i:i+2]]++
	}
	shared := 0
	for i := 0; i+2 <= len(b); i++ {
		bg := b[i : i+2]
		if bigrams[bg] > 0 {
			bigrams[bg]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(a)-1+len(b)-1)
}

// ContainsCanonical reports whether either canonical text contains the
// other. Containment matches outrank general similarity during identity
// resolution.
func ContainsCanonical(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

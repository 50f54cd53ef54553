package lineup

import (
	"strings"

	"github.com/agext/levenshtein"
)

// similarityThreshold is the normalized-similarity cutoff above which two
// names are considered the same artist.
const similarityThreshold = 0.85

// Similarity returns the normalized Levenshtein similarity of two names in
// [0, 1], case-insensitively. Identical non-empty strings score 1.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}

	dist := levenshtein.Distance(a, b, nil)
	return 1 - float64(dist)/float64(maxLen)
}

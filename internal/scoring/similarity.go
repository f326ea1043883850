package scoring

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Similarity computes a normalized similarity between two strings in [0, 1].
// Implementations must be deterministic and symmetric.
type Similarity interface {
	Compare(a, b string) float64
}

// DiceSimilarity scores strings by the Sørensen-Dice coefficient over
// character bigrams. Whitespace is ignored, identical strings score 1, and
// strings shorter than two characters score 0 unless identical.
type DiceSimilarity struct{}

func (DiceSimilarity) Compare(a, b string) float64 {
	a = stripSpaces(a)
	b = stripSpaces(b)

	if a == b {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := make(map[string]int)
	for i := 0; i < len(a)-1; i++ {
		bigrams[a[i:i+2]]++
	}

	intersection := 0
	for i := 0; i < len(b)-1; i++ {
		gram := b[i : i+2]
		if bigrams[gram] > 0 {
			bigrams[gram]--
			intersection++
		}
	}

	return 2.0 * float64(intersection) / float64(len(a)+len(b)-2)
}

// LevenshteinSimilarity scores strings by normalized edit distance. It is an
// alternative metric for callers that prefer edit-based matching over bigram
// overlap.
type LevenshteinSimilarity struct{}

func (LevenshteinSimilarity) Compare(a, b string) float64 {
	return levenshtein.Similarity(a, b, nil)
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// Package suggest picks the closest known name for an unknown one, for
// "did you mean" hints in script diagnostics.
package suggest

import (
	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
)

// maxDistance bounds the edit distance accepted by the typo fallback.
const maxDistance = 2

// Closest returns the candidate that best matches name, or "" when nothing
// is close enough. Fuzzy subsequence matches ("ser" -> "serial") win over
// typo matches ("serail" -> "serial").
func Closest(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}

	if matches := fuzzy.Find(name, candidates); len(matches) > 0 {
		return matches[0].Str
	}

	best, bestDistance := "", maxDistance+1
	for _, candidate := range candidates {
		if d := fuzzysearch.LevenshteinDistance(name, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

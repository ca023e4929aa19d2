package cluster

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// TokenSortRatio computes a token-order-insensitive similarity ratio between
// two strings on a 0–100 scale: both inputs are tokenized, sorted, rejoined,
// and compared by normalized edit distance.
func TokenSortRatio(a, b string) int {
	return ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio converts edit distance to a 0–100 similarity score.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 100
	}
	return 100 * (maxLen - levenshteinDistance(a, b)) / maxLen
}

// levenshteinDistance calculates the edit distance between two strings using
// two rows instead of the full matrix.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len([]rune(s2))
	}
	if len(s2) == 0 {
		return len([]rune(s1))
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// Suggestion is a candidate canonical ranked against an input value.
type Suggestion struct {
	Canonical string
	Score     int
}

// Suggest ranks existing canonicals against a raw value, best first. It is a
// diagnostic aid for reviewing borderline cluster assignments; scores are the
// same token-sort ratios the clusterer thresholds on, with subsequence
// matches (per the fuzzy library) kept even when the ratio is low.
func Suggest(value string, canonicals []string, limit int) []Suggestion {
	cleaned := CleanCompanyName(value)
	out := make([]Suggestion, 0, len(canonicals))
	for _, canon := range canonicals {
		score := TokenSortRatio(cleaned, canon)
		if score == 0 && !fuzzy.MatchNormalizedFold(cleaned, canon) {
			continue
		}
		out = append(out, Suggestion{Canonical: canon, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

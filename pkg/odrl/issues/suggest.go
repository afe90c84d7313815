package issues

import (
	"fmt"
	"slices"
	"strings"
)

// Suggest returns "Did you mean 'x'?" for the candidate closest to unknown
// when it is within a few edits, and "" otherwise. Ties go to the earlier
// candidate.
func Suggest(unknown string, valid []string) string {
	if unknown == "" || len(valid) == 0 || slices.Contains(valid, unknown) {
		return ""
	}

	// Short tokens need a tighter bound or everything looks similar.
	limit := 3
	if len(unknown) <= 4 {
		limit = 1
	}

	needle := strings.ToLower(unknown)
	best, bestDist := "", limit+1
	for _, v := range valid {
		if d := levenshteinDistance(needle, strings.ToLower(v)); d < bestDist {
			best, bestDist = v, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("Did you mean '%s'?", best)
}

// levenshteinDistance is the byte-wise edit distance, computed with two
// rolling rows.
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub++
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

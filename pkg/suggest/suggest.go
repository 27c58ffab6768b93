// Package suggest finds command names similar to a mistyped token.
package suggest

import (
	"cmp"
	"slices"
	"strings"
)

// threshold is the minimum similarity score required for a name to be suggested.
const threshold = 0.5

// containsScore is the score of a name that contains the target as a substring.
const containsScore = 0.8

// FindSimilar returns up to maxResults candidates similar to target, best match first. Ties are
// broken alphabetically.
func FindSimilar(target string, candidates []string, maxResults int) []string {
	if target == "" || maxResults <= 0 {
		return []string{}
	}

	type scored struct {
		name  string
		score float64
	}
	var suggestions []scored
	for _, name := range candidates {
		if score := similarity(target, name); score > threshold {
			suggestions = append(suggestions, scored{name, score})
		}
	}
	slices.SortFunc(suggestions, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	result := make([]string, 0, min(maxResults, len(suggestions)))
	for _, s := range suggestions[:min(maxResults, len(suggestions))] {
		result = append(result, s.name)
	}
	return result
}

// similarity scores how alike two names are, from 0 (unrelated) to 1 (equal ignoring case).
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	score := 1.0 - float64(distance(ra, rb))/float64(max(len(ra), len(rb)))
	if a != "" && strings.Contains(b, a) && score < containsScore {
		score = containsScore
	}
	return score
}

// distance returns the Levenshtein distance between a and b.
func distance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
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
	return prev[len(b)]
}

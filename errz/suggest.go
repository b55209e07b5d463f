package errz

import (
	"sort"
	"strings"
)

// MaxSuggestions is the maximum number of suggestions to return.
const MaxSuggestions = 3

// SuggestSimilar returns up to MaxSuggestions names from candidates that are
// within a small edit distance of target, closest first. The threshold grows
// with the length of target.
func SuggestSimilar(target string, candidates []string) []string {
	if target == "" || len(candidates) == 0 {
		return nil
	}
	threshold := 3
	if len(target) <= 3 {
		threshold = 1
	} else if len(target) <= 5 {
		threshold = 2
	}

	type scored struct {
		name     string
		distance int
	}
	lower := strings.ToLower(target)
	var matches []scored
	for _, candidate := range candidates {
		if candidate == "" || candidate == target {
			continue
		}
		if d := levenshtein(lower, strings.ToLower(candidate)); d <= threshold {
			matches = append(matches, scored{candidate, d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].name < matches[j].name
	})
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > MaxSuggestions {
		matches = matches[:MaxSuggestions]
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

// FormatSuggestions formats suggestions as a hint. It returns an empty
// string if there are none.
func FormatSuggestions(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return "Did you mean '" + names[0] + "'?"
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return "Did you mean one of: " + strings.Join(quoted, ", ") + "?"
}

// levenshtein computes the edit distance between two strings using two rows
// instead of a full matrix.
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) > len(br) {
		ar, br = br, ar
	}
	prev := make([]int, len(ar)+1)
	curr := make([]int, len(ar)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(br); j++ {
		curr[0] = j
		for i := 1; i <= len(ar); i++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ar)]
}

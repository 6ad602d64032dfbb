package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchesFilter reports whether name contains filter, ignoring case. An empty
// filter matches everything.
func MatchesFilter(name, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}

// BestMatchIndex returns the label that best matches query: an exact match,
// then the first prefix match, then the closest fuzzy match. It returns 0 for
// a non-empty list with no match and -1 for an empty one.
func BestMatchIndex(labels []string, query string) int {
	if len(labels) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, label := range labels {
		if strings.EqualFold(label, trimmed) {
			return i
		}
	}
	for i, label := range labels {
		if strings.HasPrefix(strings.ToLower(label), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance ||
			(rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(labels) {
		return 0
	}
	return best.OriginalIndex
}

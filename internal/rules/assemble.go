package rules

import (
	"strings"

	"github.com/flowtag/flowtag/internal/tags"
)

// priorityKeywords mark the context/moment combinations kept first
// when the cross product overflows the comment-tag budget.
var priorityKeywords = []string{"Peaktime", "Club", "Generaliste"}

// CombineTags builds the final comment tag pairs as the cross product
// of contexts and moments. When the product exceeds the budget,
// combinations containing a priority keyword are kept first (up to
// six), then the rest fill the remaining slots in original order.
func CombineTags(contexts, moments []string) []tags.TagPair {
	pairs := make([]tags.TagPair, 0, len(contexts)*len(moments))
	for _, c := range contexts {
		for _, m := range moments {
			pairs = append(pairs, tags.TagPair{Context: c, Moment: m})
		}
	}
	if len(pairs) <= tags.MaxCommentTags {
		return pairs
	}

	var priority, rest []tags.TagPair
	for _, p := range pairs {
		if isPriority(p) {
			priority = append(priority, p)
		} else {
			rest = append(rest, p)
		}
	}
	if len(priority) > 6 {
		priority = priority[:6]
	}
	remaining := tags.MaxCommentTags - len(priority)
	if len(rest) > remaining {
		rest = rest[:remaining]
	}
	return append(priority, rest...)
}

func isPriority(p tags.TagPair) bool {
	for _, kw := range priorityKeywords {
		if p.Context == kw || p.Moment == kw {
			return true
		}
	}
	return false
}

// GroupingTags maps styles to single grouping tokens: case-insensitive
// dedup, hashes stripped, capped at the grouping budget.
func GroupingTags(styles []string) []string {
	cleaned := make([]string, 0, len(styles))
	for _, s := range styles {
		s = strings.TrimSpace(strings.TrimPrefix(s, "#"))
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return tags.Cap(tags.Dedup(cleaned), tags.MaxGroupingTags)
}

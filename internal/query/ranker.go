package query

import (
	"sort"
	"strings"
)

// Suggestion types
const (
	SuggestionBrand = "brand"
	SuggestionModel = "model"
)

// Suggestion is one autocomplete candidate. For models, Value is the bare
// model name so it can feed directly into a search-by-model call.
type Suggestion struct {
	Type    string            `json:"type"`
	Label   string            `json:"label"`
	LabelAr string            `json:"label_ar,omitempty"`
	Value   string            `json:"value"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Rank orders suggestions for a prefix query and returns the top limit.
// The sort is stable; candidates the comparator cannot distinguish keep
// their original relative order.
func Rank(suggestions []Suggestion, q string, limit int) []Suggestion {
	ranked := make([]Suggestion, len(suggestions))
	copy(ranked, suggestions)

	lowerQ := strings.ToLower(strings.TrimSpace(q))

	sort.SliceStable(ranked, func(i, j int) bool {
		a := strings.ToLower(ranked[i].Label)
		b := strings.ToLower(ranked[j].Label)

		aExact := a == lowerQ
		bExact := b == lowerQ
		if aExact != bExact {
			return aExact
		}

		aStarts := strings.HasPrefix(a, lowerQ)
		bStarts := strings.HasPrefix(b, lowerQ)
		if aStarts != bStarts {
			return aStarts
		}

		if ranked[i].Type != ranked[j].Type {
			return ranked[i].Type == SuggestionBrand
		}

		return false
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

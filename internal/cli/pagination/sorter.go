package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/rshade/ecofocus/internal/recommend"
)

//nolint:gochecknoglobals // Sort key table.
var recommendationKeys = map[string]func(a, b recommend.Recommendation) int{
	"priority": func(a, b recommend.Recommendation) int { return cmp.Compare(a.Priority, b.Priority) },
	"impact":   func(a, b recommend.Recommendation) int { return cmp.Compare(a.AbsImpact(), b.AbsImpact()) },
	"category": func(a, b recommend.Recommendation) int { return cmp.Compare(a.Category, b.Category) },
	"difficulty": func(a, b recommend.Recommendation) int {
		return cmp.Compare(difficultyRank(a.Difficulty), difficultyRank(b.Difficulty))
	},
	"emissions": func(a, b recommend.Recommendation) int {
		return cmp.Compare(a.CurrentEmissions, b.CurrentEmissions)
	},
}

func difficultyRank(d recommend.Difficulty) int {
	switch d {
	case recommend.DifficultyLow:
		return 0
	case recommend.DifficultyMedium:
		return 1
	default:
		return 2
	}
}

// RecommendationSortFields lists the accepted sort fields.
func RecommendationSortFields() []string {
	fields := make([]string, 0, len(recommendationKeys))
	for f := range recommendationKeys {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// SortRecommendations returns a stably sorted copy of recs.
func SortRecommendations(recs []recommend.Recommendation, field, order string) ([]recommend.Recommendation, error) {
	less, ok := recommendationKeys[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid fields: %s)",
			ErrInvalidSortField, field, strings.Join(RecommendationSortFields(), ", "))
	}
	sorted := slices.Clone(recs)
	slices.SortStableFunc(sorted, func(a, b recommend.Recommendation) int {
		if order == SortOrderDesc {
			return less(b, a)
		}
		return less(a, b)
	})
	return sorted, nil
}

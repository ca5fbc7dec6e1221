package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/recommend"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		params PaginationParams
		want   error
	}{
		{"zero value", PaginationParams{}, nil},
		{"offset mode", PaginationParams{Limit: 10, Offset: 20}, nil},
		{"page mode", PaginationParams{Page: 2, PageSize: 10}, nil},
		{"negative limit", PaginationParams{Limit: -1}, ErrNegative},
		{"mixed modes", PaginationParams{Page: 1, PageSize: 5, Offset: 3}, ErrMixedPaginationModes},
		{"page size alone", PaginationParams{PageSize: 5}, ErrPageSizeWithoutPage},
		{"page alone", PaginationParams{Page: 2}, ErrPageWithoutPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name   string
		params PaginationParams
		want   []int
	}{
		{"disabled", PaginationParams{}, items},
		{"limit", PaginationParams{Limit: 3}, []int{0, 1, 2}},
		{"offset and limit", PaginationParams{Limit: 3, Offset: 8}, []int{8, 9}},
		{"offset only", PaginationParams{Offset: 7}, []int{7, 8, 9}},
		{"offset past end", PaginationParams{Offset: 20}, []int{}},
		{"second page", PaginationParams{Page: 2, PageSize: 4}, []int{4, 5, 6, 7}},
		{"page past end is capped", PaginationParams{Page: 9, PageSize: 4}, []int{8, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.params, items))
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(PaginationParams{Page: 2, PageSize: 4}, 10)
	assert.Equal(t, PaginationMeta{
		CurrentPage: 2, PageSize: 4, TotalPages: 3, TotalItems: 10, HasPrevious: true, HasNext: true,
	}, meta)

	meta = NewPaginationMeta(PaginationParams{Limit: 5, Offset: 5}, 10)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.False(t, meta.HasNext)

	meta = NewPaginationMeta(PaginationParams{}, 0)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 0, meta.TotalPages)
}

func TestParseSortExpression(t *testing.T) {
	field, order, err := ParseSortExpression("impact", SortOrderDesc)
	require.NoError(t, err)
	assert.Equal(t, "impact", field)
	assert.Equal(t, SortOrderDesc, order)

	field, order, err = ParseSortExpression(" category : ASC ", SortOrderDesc)
	require.NoError(t, err)
	assert.Equal(t, "category", field)
	assert.Equal(t, SortOrderAsc, order)

	_, _, err = ParseSortExpression("a:b:c", SortOrderAsc)
	require.ErrorIs(t, err, ErrInvalidSortFormat)
	_, _, err = ParseSortExpression(":asc", SortOrderAsc)
	require.ErrorIs(t, err, ErrInvalidSortFormat)
	_, _, err = ParseSortExpression("impact:up", SortOrderAsc)
	require.ErrorIs(t, err, ErrInvalidSortOrder)
}

func TestSortRecommendations(t *testing.T) {
	recs := []recommend.Recommendation{
		{Text: "a", Category: calculator.Waste, Priority: 2, ImpactEstimate: -100, Difficulty: recommend.DifficultyHigh},
		{Text: "b", Category: calculator.Energy, Priority: 1, ImpactEstimate: -900, Difficulty: recommend.DifficultyLow},
		{Text: "c", Category: calculator.Food, Priority: 3, ImpactEstimate: -400, Difficulty: recommend.DifficultyMedium},
	}
	order := func(rs []recommend.Recommendation) string {
		s := ""
		for _, r := range rs {
			s += r.Text
		}
		return s
	}

	tests := []struct {
		field, order, want string
	}{
		{"impact", SortOrderDesc, "bca"},
		{"priority", SortOrderAsc, "bac"},
		{"category", SortOrderAsc, "bca"},
		{"difficulty", SortOrderDesc, "acb"},
	}
	for _, tt := range tests {
		t.Run(tt.field+":"+tt.order, func(t *testing.T) {
			got, err := SortRecommendations(recs, tt.field, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, order(got))
		})
	}
	assert.Equal(t, "abc", order(recs), "input is not modified")

	_, err := SortRecommendations(recs, "savings", SortOrderAsc)
	require.ErrorIs(t, err, ErrInvalidSortField)
}

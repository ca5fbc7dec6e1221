package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/ecofocus/internal/calculator"
)

// series builds ascending daily records starting on a Monday; total(i) sets
// the transportation value and therefore the total of day i.
func series(n int, total func(i int) float64) []calculator.DailyRecord {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC) // Monday
	out := make([]calculator.DailyRecord, n)
	for i := range out {
		v := total(i)
		out[i] = calculator.NewDailyRecord(start.AddDate(0, 0, i),
			calculator.NewBreakdown(map[calculator.Category]float64{
				calculator.Transportation: v,
				calculator.Energy:         1,
				calculator.Food:           1,
				calculator.Waste:          1,
			}))
	}
	return out
}

func TestAnalyzePattern_Empty(t *testing.T) {
	pa := AnalyzePattern(nil)
	assert.Empty(t, pa.Patterns)
	assert.Empty(t, pa.Opportunities)
	assert.NotNil(t, pa.Patterns)
	assert.Empty(t, pa.Dominant)
}

func TestAnalyzePattern_ShortHistory(t *testing.T) {
	pa := AnalyzePattern(series(3, func(int) float64 { return 10 }))
	assert.Equal(t, []string{"Your highest emissions come from transportation"}, pa.Patterns)
	assert.Equal(t, calculator.Transportation, pa.Dominant)
	assert.Empty(t, pa.Trend)
}

func TestAnalyzePattern_Trend(t *testing.T) {
	tests := []struct {
		name        string
		total       func(i int) float64
		want        string
		pattern     string
		opportunity bool
	}{
		{"increasing", func(i int) float64 { return 10 + float64(i) }, TrendIncreasing,
			"Your emissions have been increasing recently", true},
		{"decreasing", func(i int) float64 { return 30 - 2*float64(i) }, TrendDecreasing,
			"Great! Your emissions have been decreasing", false},
		{"stable", func(int) float64 { return 20 }, TrendStable,
			"Your emissions have been relatively stable", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa := AnalyzePattern(series(10, tt.total))
			assert.Equal(t, tt.want, pa.Trend)
			assert.Contains(t, pa.Patterns, tt.pattern)
			if tt.opportunity {
				assert.Contains(t, pa.Opportunities,
					"Focus on reducing daily activities that contribute most to emissions")
			} else {
				assert.Empty(t, pa.Opportunities)
			}
			assert.Empty(t, pa.HighestDay, "weekday analysis needs 14 days")
		})
	}
}

func TestAnalyzePattern_Weekdays(t *testing.T) {
	// Saturdays are heavy, Tuesdays light.
	pa := AnalyzePattern(series(21, func(i int) float64 {
		switch i % 7 {
		case 5:
			return 60
		case 1:
			return 5
		default:
			return 20
		}
	}))

	assert.Equal(t, "Saturday", pa.HighestDay)
	assert.Equal(t, "Tuesday", pa.LowestDay)
	assert.Contains(t, pa.Patterns, "Your highest emission day is typically Saturday")
	assert.Contains(t, pa.Patterns, "Your lowest emission day is typically Tuesday")
	assert.Contains(t, pa.Opportunities, "Try to replicate your Tuesday habits on Saturday")
}

func TestAnalyzePattern_WeekdaysWithoutGap(t *testing.T) {
	pa := AnalyzePattern(series(14, func(i int) float64 { return 20 + float64(i%7)/10 }))
	assert.NotEmpty(t, pa.HighestDay)
	for _, o := range pa.Opportunities {
		assert.NotContains(t, o, "replicate")
	}
}

func TestAnalyzePattern_DominantCategory(t *testing.T) {
	start := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	history := []calculator.DailyRecord{
		{Date: start, Transportation: 5, Energy: 30, Food: 8, Waste: 1, Total: 44},
		{Date: start.AddDate(0, 0, 1), Transportation: 6, Energy: 28, Food: 9, Waste: 1, Total: 44},
	}
	pa := AnalyzePattern(history)
	assert.Equal(t, calculator.Energy, pa.Dominant)
	assert.Equal(t, "Your highest emissions come from energy", pa.Patterns[0])
}

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecofocus/internal/calculator"
)

func scenarioBreakdown() calculator.Breakdown {
	return calculator.NewBreakdown(map[calculator.Category]float64{
		calculator.Transportation: 150,
		calculator.Energy:         50,
		calculator.Food:           50,
		calculator.Waste:          10,
	})
}

func TestThresholdsClassify(t *testing.T) {
	tests := []struct {
		category  calculator.Category
		emissions float64
		want      Level
	}{
		{calculator.Transportation, 150, LevelHigh},
		{calculator.Transportation, 100, LevelMedium},
		{calculator.Transportation, 50, LevelLow},
		{calculator.Energy, 201, LevelHigh},
		{calculator.Energy, 150, LevelMedium},
		{calculator.Food, 76, LevelMedium},
		{calculator.Food, 75, LevelLow},
		{calculator.Waste, 50.5, LevelHigh},
		{calculator.Waste, 0, LevelLow},
	}
	for _, tt := range tests {
		p, ok := ProfileFor(tt.category)
		require.True(t, ok)
		assert.Equal(t, tt.want, p.Thresholds.Classify(tt.emissions), "%s %.1f", tt.category, tt.emissions)
	}
}

func TestRecommend_HighTransportationScenario(t *testing.T) {
	b := scenarioBreakdown()
	require.InDelta(t, 260.0, b.Total, 1e-9)

	recs := Recommend(b, nil)
	require.Len(t, recs, 8)

	var transport []Recommendation
	for _, r := range recs {
		assert.NotEqual(t, calculator.Category(calculator.TotalKey), r.Category)
		if r.Category == calculator.Transportation {
			transport = append(transport, r)
		}
	}
	require.NotEmpty(t, transport)
	for _, r := range transport {
		assert.Equal(t, LevelHigh, r.Level)
		assert.Equal(t, classifyDifficulty(r.Text), r.Difficulty, "difficulty comes from the text alone")
	}

	top := recs[0]
	assert.Equal(t, SwitchToElectric, top.ActionID)
	assert.Equal(t, -2000, top.ImpactEstimate)
	assert.Equal(t, 5, top.Priority)
	assert.Equal(t, DifficultyHigh, top.Difficulty)

	for i := 1; i < len(recs); i++ {
		prev, cur := recs[i-1], recs[i]
		if prev.Priority == cur.Priority {
			assert.GreaterOrEqual(t, prev.AbsImpact(), cur.AbsImpact())
		} else {
			assert.Greater(t, prev.Priority, cur.Priority)
		}
	}
}

func TestRecommend_PriorityAndImpactInvariants(t *testing.T) {
	breakdowns := []calculator.Breakdown{
		scenarioBreakdown(),
		calculator.NewBreakdown(map[calculator.Category]float64{calculator.Energy: 900, calculator.Waste: 70}),
		calculator.NewBreakdown(map[calculator.Category]float64{calculator.Food: 80}),
		calculator.CalculateTotalFootprint(calculator.ActivityInput{
			calculator.Transportation: {"car_gasoline": calculator.Trip(25, 1)},
			calculator.Energy:         {"electricity": calculator.Qty(30)},
		}),
	}
	for _, b := range breakdowns {
		recs := Recommend(b, nil)
		assert.LessOrEqual(t, len(recs), MaxRecommendations)
		assert.LessOrEqual(t, len(recs), RulesPerCategory*len(b.Present()))
		for _, r := range recs {
			assert.LessOrEqual(t, r.ImpactEstimate, 0)
			assert.GreaterOrEqual(t, r.Priority, 0)
			assert.LessOrEqual(t, r.Priority, 10)
			_, computed := b.Get(r.Category)
			assert.True(t, computed, "recommendation for a category that was not computed")
		}
	}
}

func TestRecommend_EmptyBreakdown(t *testing.T) {
	recs := Recommend(calculator.Breakdown{}, nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestPriority(t *testing.T) {
	tests := []struct {
		emissions float64
		impact    int
		want      int
	}{
		{150, -2000, 5},
		{150, -1200, 3},
		{50, -1500, 3},
		{10, -200, 0},
		{10000, -10000, 10},
		{-5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Priority(tt.emissions, tt.impact), "%.0f/%d", tt.emissions, tt.impact)
	}
}

func TestRuleTags(t *testing.T) {
	transport, _ := ProfileFor(calculator.Transportation)
	energy, _ := ProfileFor(calculator.Energy)
	food, _ := ProfileFor(calculator.Food)

	t.Run("keyword match", func(t *testing.T) {
		r := transport.Rules[LevelHigh][1]
		assert.Equal(t, "Use public transportation for daily commutes", r.Text)
		assert.Equal(t, UsePublicTransport, r.ActionID)
		assert.False(t, r.Fallback)
	})

	t.Run("keywords match case-insensitively", func(t *testing.T) {
		r := energy.Rules[LevelHigh][4]
		assert.Equal(t, "Replace incandescent bulbs with LED lighting", r.Text)
		assert.Equal(t, LEDLighting, r.ActionID)
	})

	t.Run("keyword order decides", func(t *testing.T) {
		r := food.Rules[LevelHigh][1]
		assert.Contains(t, r.Text, "plant-based")
		assert.Equal(t, ReduceMeat50Percent, r.ActionID, "'meat' is checked before 'plant-based'")
	})

	t.Run("no keyword falls back to the first action", func(t *testing.T) {
		r := energy.Rules[LevelLow][0]
		assert.Equal(t, "Excellent energy management!", r.Text)
		assert.True(t, r.Fallback)
		assert.Equal(t, RenewableEnergy, r.ActionID)
		assert.Equal(t, -1500, energy.Impact(r.ActionID))

		m := transport.Rules[LevelMedium][0]
		assert.True(t, m.Fallback)
		assert.Equal(t, SwitchToElectric, m.ActionID)
	})

	t.Run("every rule resolves to a known impact", func(t *testing.T) {
		for _, c := range calculator.Categories {
			p, ok := ProfileFor(c)
			require.True(t, ok)
			for level, rules := range p.Rules {
				assert.NotEmpty(t, rules, "%s/%s", c, level)
				for _, r := range rules {
					_, known := p.Impacts[r.ActionID]
					assert.True(t, known, "%s: %q", c, r.Text)
				}
			}
		}
	})
}

func TestClassifyDifficulty(t *testing.T) {
	tests := []struct {
		text string
		want Difficulty
	}{
		{"Switch to renewable energy sources (solar, wind)", DifficultyHigh},
		{"Install a programmable thermostat", DifficultyHigh},
		{"Consider an UPGRADE of your furnace", DifficultyHigh},
		{"Consider upgrading your furnace", DifficultyLow},
		{"Reduce food waste through meal planning", DifficultyMedium},
		{"Plan routes efficiently to minimize driving time", DifficultyMedium},
		{"Use public transportation for daily commutes", DifficultyLow},
		{"Compost food scraps", DifficultyLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyDifficulty(tt.text), tt.text)
	}
}

func TestRank_DominantCategoryBreaksTies(t *testing.T) {
	recs := []Recommendation{
		{Category: calculator.Energy, ImpactEstimate: -200, Priority: 2},
		{Category: calculator.Waste, ImpactEstimate: -200, Priority: 2},
		{Category: calculator.Food, ImpactEstimate: -500, Priority: 2},
	}

	plain := append([]Recommendation(nil), recs...)
	rank(plain, "")
	assert.Equal(t, []calculator.Category{calculator.Food, calculator.Energy, calculator.Waste}, categories(plain))

	dominant := append([]Recommendation(nil), recs...)
	rank(dominant, calculator.Waste)
	assert.Equal(t, []calculator.Category{calculator.Food, calculator.Waste, calculator.Energy}, categories(dominant))
}

func TestRecommend_WithPatternAnalysis(t *testing.T) {
	b := scenarioBreakdown()
	withAnalysis := Recommend(b, &PatternAnalysis{Dominant: calculator.Food})
	assert.ElementsMatch(t, Recommend(b, nil), withAnalysis)
}

func categories(recs []Recommendation) []calculator.Category {
	out := make([]calculator.Category, len(recs))
	for i, r := range recs {
		out[i] = r.Category
	}
	return out
}

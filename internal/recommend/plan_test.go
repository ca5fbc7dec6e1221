package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildActionPlan_Scenario(t *testing.T) {
	plan := BuildActionPlan(Recommend(scenarioBreakdown(), nil), DefaultPlanWeeks)
	require.Len(t, plan.Phases, 3)

	quick, habits, major := plan.Phases[0], plan.Phases[1], plan.Phases[2]
	assert.Equal(t, "Quick Wins", quick.Focus)
	assert.Equal(t, "Weeks 1-2", quick.Label())
	assert.Equal(t, "Habit Changes", habits.Focus)
	assert.Equal(t, "Weeks 3-6", habits.Label())
	assert.Equal(t, "Major Improvements", major.Focus)
	assert.Equal(t, "Weeks 7-12", major.Label())

	assert.Len(t, quick.Actions, 3)
	assert.Equal(t, 4200, quick.ExpectedReduction)
	assert.Empty(t, habits.Actions, "no medium-difficulty actions is a valid empty phase")
	assert.Zero(t, habits.ExpectedReduction)
	require.Len(t, major.Actions, 1)
	assert.Equal(t, SwitchToElectric, major.Actions[0].ActionID)
	assert.Equal(t, 6200, plan.TotalPotentialReduction)
}

func TestBuildActionPlan_Sums(t *testing.T) {
	recs := []Recommendation{
		{Text: "a", ImpactEstimate: -100, Difficulty: DifficultyLow},
		{Text: "b", ImpactEstimate: -200, Difficulty: DifficultyMedium},
		{Text: "c", ImpactEstimate: -300, Difficulty: DifficultyHigh},
		{Text: "d", ImpactEstimate: -400, Difficulty: DifficultyLow},
		{Text: "e", ImpactEstimate: -500, Difficulty: DifficultyLow},
		{Text: "f", ImpactEstimate: -600, Difficulty: DifficultyLow},
		{Text: "g", ImpactEstimate: -700, Difficulty: DifficultyHigh},
		{Text: "h", ImpactEstimate: -800, Difficulty: DifficultyHigh},
	}
	plan := BuildActionPlan(recs, 0)
	assert.Equal(t, DefaultPlanWeeks, plan.Weeks)

	limits := []int{3, 3, 2}
	var total int
	for i, phase := range plan.Phases {
		assert.LessOrEqual(t, len(phase.Actions), limits[i])
		var sum int
		for _, a := range phase.Actions {
			sum += a.AbsImpact()
		}
		assert.Equal(t, sum, phase.ExpectedReduction)
		total += phase.ExpectedReduction
	}
	assert.Equal(t, total, plan.TotalPotentialReduction)

	assert.Equal(t, []string{"a", "d", "e"}, texts(plan.Phases[0].Actions), "first three low actions in order")
	assert.Equal(t, []string{"c", "g"}, texts(plan.Phases[2].Actions))
}

func TestBuildActionPlan_ScalesWeeks(t *testing.T) {
	plan := BuildActionPlan(nil, 6)
	assert.Equal(t, "Week 1", plan.Phases[0].Label())
	assert.Equal(t, "Weeks 2-3", plan.Phases[1].Label())
	assert.Equal(t, "Weeks 4-6", plan.Phases[2].Label())
	assert.Zero(t, plan.TotalPotentialReduction)

	plan = BuildActionPlan(nil, 24)
	assert.Equal(t, "Weeks 1-4", plan.Phases[0].Label())
	assert.Equal(t, "Weeks 5-12", plan.Phases[1].Label())
	assert.Equal(t, "Weeks 13-24", plan.Phases[2].Label())
}

func TestBuildActionPlan_ShortPlansStayInRange(t *testing.T) {
	tests := []struct {
		weeks  int
		labels []string
	}{
		{weeks: 1, labels: []string{"Week 1", "Week 1", "Week 1"}},
		{weeks: 2, labels: []string{"Week 1", "Week 2", "Week 2"}},
		{weeks: 3, labels: []string{"Week 1", "Week 2", "Week 3"}},
	}
	for _, tt := range tests {
		plan := BuildActionPlan(nil, tt.weeks)
		assert.Equal(t, tt.weeks, plan.Weeks)
		require.Len(t, plan.Phases, 3)
		prevStart := 1
		for i, phase := range plan.Phases {
			assert.Equal(t, tt.labels[i], phase.Label(), "weeks=%d phase %d", tt.weeks, i)
			assert.GreaterOrEqual(t, phase.StartWeek, prevStart)
			assert.LessOrEqual(t, phase.StartWeek, phase.EndWeek)
			assert.LessOrEqual(t, phase.EndWeek, tt.weeks)
			prevStart = phase.StartWeek
		}
	}
}

func texts(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Text
	}
	return out
}

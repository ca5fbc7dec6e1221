package recommend

import (
	"math"
	"sort"

	"github.com/rshade/ecofocus/internal/calculator"
)

// Engine limits.
const (
	RulesPerCategory   = 2
	MaxRecommendations = 8
	maxScorePart       = 5.0
)

// Recommendation is a scored action for one category.
type Recommendation struct {
	Category         calculator.Category `json:"category"`
	Level            Level               `json:"level"`
	Text             string              `json:"recommendation"`
	ActionID         ActionID            `json:"action_id"`
	ImpactEstimate   int                 `json:"impact_estimate"`
	Priority         int                 `json:"priority"`
	Difficulty       Difficulty          `json:"difficulty"`
	CurrentEmissions float64             `json:"current_emissions"`
}

// AbsImpact returns the magnitude of the impact estimate.
func (r Recommendation) AbsImpact() int {
	if r.ImpactEstimate < 0 {
		return -r.ImpactEstimate
	}
	return r.ImpactEstimate
}

// Priority scores an action on a 0-10 scale: up to 5 points for current daily
// emissions (one per 100 kg) and up to 5 for impact (one per 500 kg/year).
func Priority(emissions float64, impact int) int {
	emissionScore := math.Min(math.Max(emissions, 0)/100, maxScorePart)
	impactScore := math.Min(math.Abs(float64(impact))/500, maxScorePart)
	return int(emissionScore + impactScore)
}

// Recommend picks the top rules of every computed category for its emission
// level and returns at most MaxRecommendations, highest priority first, then
// largest impact. When analysis is given, ties favour its dominant category.
// An empty breakdown yields an empty list.
func Recommend(b calculator.Breakdown, analysis *PatternAnalysis) []Recommendation {
	recs := make([]Recommendation, 0, MaxRecommendations)
	for _, c := range b.Present() {
		p, ok := ProfileFor(c)
		if !ok {
			continue
		}
		emissions := b.Value(c)
		level := p.Thresholds.Classify(emissions)
		rules := p.Rules[level]
		for _, rule := range rules[:min(RulesPerCategory, len(rules))] {
			impact := p.Impact(rule.ActionID)
			recs = append(recs, Recommendation{
				Category:         c,
				Level:            level,
				Text:             rule.Text,
				ActionID:         rule.ActionID,
				ImpactEstimate:   impact,
				Priority:         Priority(emissions, impact),
				Difficulty:       rule.Difficulty,
				CurrentEmissions: emissions,
			})
		}
	}

	var dominant calculator.Category
	if analysis != nil {
		dominant = analysis.Dominant
	}
	rank(recs, dominant)

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

// rank orders recs by priority, then impact magnitude, then dominant category
// first. The sort is stable, so remaining ties keep category order.
func rank(recs []Recommendation, dominant calculator.Category) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.AbsImpact() != b.AbsImpact() {
			return a.AbsImpact() > b.AbsImpact()
		}
		return dominant != "" && a.Category == dominant && b.Category != dominant
	})
}

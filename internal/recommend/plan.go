package recommend

import (
	"fmt"
	"math"
)

// DefaultPlanWeeks is the length of a standard action plan.
const DefaultPlanWeeks = 12

// Phase is one time box of an action plan.
type Phase struct {
	Focus             string           `json:"focus"`
	StartWeek         int              `json:"start_week"`
	EndWeek           int              `json:"end_week"`
	Actions           []Recommendation `json:"actions"`
	ExpectedReduction int              `json:"expected_reduction"`
}

// Label renders the phase weeks, e.g. "Weeks 3-6".
func (p Phase) Label() string {
	if p.StartWeek == p.EndWeek {
		return fmt.Sprintf("Week %d", p.StartWeek)
	}
	return fmt.Sprintf("Weeks %d-%d", p.StartWeek, p.EndWeek)
}

// ActionPlan is a three-phase subset of recommendations.
type ActionPlan struct {
	Weeks                   int     `json:"weeks"`
	Phases                  []Phase `json:"phases"`
	TotalPotentialReduction int     `json:"total_potential_reduction"`
}

type phaseSpec struct {
	focus      string
	difficulty Difficulty
	limit      int
	endWeek    int // on the 12-week scale
}

//nolint:gochecknoglobals // Fixed plan layout.
var phaseSpecs = []phaseSpec{
	{"Quick Wins", DifficultyLow, 3, 2},
	{"Habit Changes", DifficultyMedium, 3, 6},
	{"Major Improvements", DifficultyHigh, 2, 12},
}

// BuildActionPlan assigns low, medium and high difficulty recommendations to
// the three phases in order, up to 3, 3 and 2 actions respectively. weeks
// only rescales the phase boundaries, each phase spanning at least one week
// and none ending past weeks; plans shorter than three weeks share their last
// week between the trailing phases. Values <= 0 mean DefaultPlanWeeks.
// Phases with no matching actions are kept empty.
func BuildActionPlan(recs []Recommendation, weeks int) ActionPlan {
	if weeks <= 0 {
		weeks = DefaultPlanWeeks
	}
	plan := ActionPlan{Weeks: weeks, Phases: make([]Phase, 0, len(phaseSpecs))}

	prevEnd := 0
	for i, spec := range phaseSpecs {
		end := int(math.Round(float64(spec.endWeek*weeks) / DefaultPlanWeeks))
		if i == len(phaseSpecs)-1 {
			end = weeks
		}
		end = min(max(end, prevEnd+1), weeks)
		phase := Phase{
			Focus:     spec.focus,
			StartWeek: min(prevEnd+1, weeks),
			EndWeek:   end,
			Actions:   []Recommendation{},
		}
		for _, r := range recs {
			if len(phase.Actions) == spec.limit {
				break
			}
			if r.Difficulty == spec.difficulty {
				phase.Actions = append(phase.Actions, r)
				phase.ExpectedReduction += r.AbsImpact()
			}
		}
		plan.TotalPotentialReduction += phase.ExpectedReduction
		plan.Phases = append(plan.Phases, phase)
		prevEnd = end
	}
	return plan
}

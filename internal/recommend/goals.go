package recommend

import (
	"math"
	"strings"
	"time"
)

// Goal types offered by the CLI. Free-form types are accepted too; their
// measure is chosen by the words they contain.
const (
	GoalDailyReduction    = "Daily Emissions Reduction"
	GoalWeeklyTarget      = "Weekly Emissions Target"
	GoalMonthlyLimit      = "Monthly Emissions Limit"
	GoalAnnualFootprint   = "Annual Footprint Goal"
	GoalCategoryReduction = "Category-Specific Reduction"
)

// GoalTypes lists the predefined goal types.
//
//nolint:gochecknoglobals // Display order.
var GoalTypes = []string{
	GoalDailyReduction,
	GoalWeeklyTarget,
	GoalMonthlyLimit,
	GoalAnnualFootprint,
	GoalCategoryReduction,
}

// Goal statuses.
const (
	GoalAchieved = "achieved"
	GoalClose    = "close"
	GoalBehind   = "behind"
)

const closeToTargetPercent = 70.0

// GoalProgress is the evaluation of a goal against recent history.
type GoalProgress struct {
	Current  float64 `json:"current_value"`
	Target   float64 `json:"target_value"`
	Percent  float64 `json:"progress_percent"`
	DaysLeft int     `json:"days_left"`
	Status   string  `json:"status"`
}

// GoalMeasure turns recent daily totals (ascending, up to 30 days) into the
// value a goal type is tracked against: the 7-day mean for daily goals, the
// 7-day sum for weekly goals, the sum for monthly goals and the annualized
// mean otherwise.
func GoalMeasure(goalType string, totals []float64) float64 {
	if len(totals) == 0 {
		return 0
	}
	last7 := totals[max(0, len(totals)-7):]
	switch {
	case strings.Contains(goalType, "Daily"):
		return mean(last7)
	case strings.Contains(goalType, "Weekly"):
		return mean(last7) * float64(len(last7))
	case strings.Contains(goalType, "Monthly"):
		return mean(totals) * float64(len(totals))
	default:
		return mean(totals) * DaysPerYear
	}
}

// EvaluateGoal scores current against target. Reduction and limit goals are
// met while current stays at or under target; other goals progress as
// current grows toward target. DaysLeft is negative once targetDate passed.
func EvaluateGoal(goalType string, target, current float64, targetDate, now time.Time) GoalProgress {
	g := GoalProgress{Current: current, Target: target}
	if target > 0 {
		g.Percent = math.Min(current/target*100, 100)
	}
	if strings.Contains(goalType, "Reduction") || strings.Contains(goalType, "Limit") {
		if current <= target {
			g.Percent = 100
		} else {
			g.Percent = target / current * 100
		}
	}
	switch {
	case g.Percent >= 100:
		g.Status = GoalAchieved
	case g.Percent >= closeToTargetPercent:
		g.Status = GoalClose
	default:
		g.Status = GoalBehind
	}
	if !targetDate.IsZero() {
		g.DaysLeft = int(math.Floor(targetDate.Sub(now).Hours() / 24))
	}
	return g
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/forecast"
	"github.com/rshade/ecofocus/internal/greenops"
	"github.com/rshade/ecofocus/internal/history"
	"github.com/rshade/ecofocus/internal/logging"
	"github.com/rshade/ecofocus/internal/recommend"
)

// ForecastResult is a projection of a user's daily totals.
type ForecastResult struct {
	History   []calculator.DailyRecord `json:"history"`
	Dates     []time.Time              `json:"dates"`
	Projected []float64                `json:"projected"`
	Summary   forecast.Summary         `json:"summary"`
}

// GoalStatus pairs a stored goal with its evaluation against recent history.
type GoalStatus struct {
	Goal     history.Goal           `json:"goal"`
	Progress recommend.GoalProgress `json:"progress"`
}

// UserReport is everything the engine derives from a user's history.
type UserReport struct {
	UserID          int64                      `json:"user_id"`
	GeneratedAt     time.Time                  `json:"generated_at"`
	Days            int                        `json:"days"`
	Average         calculator.Breakdown       `json:"average_daily"`
	Score           int                        `json:"sustainability_score"`
	Grade           string                     `json:"grade"`
	Level           string                     `json:"emission_level"`
	Patterns        recommend.PatternAnalysis  `json:"patterns"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Plan            recommend.ActionPlan       `json:"action_plan"`
	Investments     []recommend.Investment     `json:"investments"`
	Benchmarks      []recommend.Comparison     `json:"benchmarks"`
	Tips            []string                   `json:"weekly_tips"`
	Forecast        *ForecastResult            `json:"forecast,omitempty"`
	Equivalencies   greenops.EquivalencyOutput `json:"annual_equivalencies"`
	Goals           []GoalStatus               `json:"goals"`
}

func (e *Engine) history(ctx context.Context, userID int64, days int) ([]calculator.DailyRecord, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	records, err := e.store.GetHistory(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNoHistory)
	}
	return records, nil
}

// Forecast projects daysAhead days (the configured horizon when <= 0)
// past the user's stored history.
func (e *Engine) Forecast(ctx context.Context, userID int64, daysAhead int) (ForecastResult, error) {
	records, err := e.history(ctx, userID, e.cfg.HistoryDays)
	if err != nil {
		return ForecastResult{}, err
	}
	return e.project(records, daysAhead)
}

func (e *Engine) project(records []calculator.DailyRecord, daysAhead int) (ForecastResult, error) {
	if daysAhead <= 0 {
		daysAhead = e.cfg.ForecastDays
	}
	totals := calculator.Totals(records)
	projected, err := forecast.Forecast(totals, daysAhead, e.rng)
	if err != nil {
		return ForecastResult{}, err
	}
	last := records[len(records)-1].Date
	dates := make([]time.Time, daysAhead)
	for i := range dates {
		dates[i] = last.AddDate(0, 0, i+1)
	}
	return ForecastResult{
		History:   records,
		Dates:     dates,
		Projected: projected,
		Summary:   forecast.Summarize(totals, projected),
	}, nil
}

// AverageBreakdown returns the per-category mean of records.
func AverageBreakdown(records []calculator.DailyRecord) calculator.Breakdown {
	if len(records) == 0 {
		return calculator.NewBreakdown(nil)
	}
	sums := make(map[calculator.Category]float64, len(calculator.Categories))
	for _, r := range records {
		for _, c := range calculator.Categories {
			sums[c] += r.Value(c)
		}
	}
	n := float64(len(records))
	for c := range sums {
		sums[c] /= n
	}
	return calculator.NewBreakdown(sums)
}

// Recommend analyzes the user's history and recommends actions for the
// average day.
func (e *Engine) Recommend(ctx context.Context, userID int64) ([]recommend.Recommendation, recommend.PatternAnalysis, error) {
	records, err := e.history(ctx, userID, e.cfg.HistoryDays)
	if err != nil {
		return nil, recommend.PatternAnalysis{}, err
	}
	analysis := recommend.AnalyzePattern(records)
	return recommend.Recommend(AverageBreakdown(records), &analysis), analysis, nil
}

// Report builds the full report for userID.
func (e *Engine) Report(ctx context.Context, userID int64) (UserReport, error) {
	log := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "Report").
		Int64("user_id", userID).
		Logger()

	records, err := e.history(ctx, userID, e.cfg.HistoryDays)
	if err != nil {
		return UserReport{}, err
	}
	now := e.now()
	avg := AverageBreakdown(records)
	analysis := recommend.AnalyzePattern(records)
	recs := recommend.Recommend(avg, &analysis)
	score, grade := calculator.SustainabilityScore(avg)
	_, week := now.ISOWeek()

	rep := UserReport{
		UserID:          userID,
		GeneratedAt:     now,
		Days:            len(records),
		Average:         avg,
		Score:           score,
		Grade:           grade,
		Level:           greenops.EmissionLevel(avg.Total),
		Patterns:        analysis,
		Recommendations: recs,
		Plan:            recommend.BuildActionPlan(recs, e.cfg.PlanWeeks),
		Investments:     recommend.ROI(recs, e.cfg.CarbonPrice),
		Benchmarks:      recommend.Benchmark(avg),
		Tips:            recommend.WeeklyTips(avg, week, now.Month()),
		Equivalencies:   greenops.Annual(avg),
		Goals:           []GoalStatus{},
	}

	if fc, err := e.project(records, e.cfg.ForecastDays); err == nil {
		rep.Forecast = &fc
	} else {
		log.Debug().Err(err).Msg("forecast skipped")
	}

	goals, err := e.store.GetGoals(ctx, userID)
	if err != nil && !errors.Is(err, history.ErrNotFound) {
		return UserReport{}, fmt.Errorf("loading goals: %w", err)
	}
	totals := calculator.Totals(records)
	for _, g := range goals {
		current := recommend.GoalMeasure(g.GoalType, totals)
		rep.Goals = append(rep.Goals, GoalStatus{
			Goal:     g,
			Progress: recommend.EvaluateGoal(g.GoalType, g.TargetValue, current, g.TargetDate, now),
		})
	}

	log.Debug().
		Int("days", rep.Days).
		Int("recommendations", len(recs)).
		Float64("average_total", avg.Total).
		Msg("report built")
	return rep, nil
}

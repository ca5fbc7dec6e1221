package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/logging"
)

// DayResult is the outcome of logging one day of activities.
type DayResult struct {
	Date      time.Time            `json:"date"`
	Footprint calculator.Breakdown `json:"footprint"`
	Score     int                  `json:"sustainability_score"`
	Grade     string               `json:"grade"`
	Findings  []string             `json:"findings,omitempty"`
	Saved     bool                 `json:"saved"`
}

// Calculate computes the footprint of input without storing it. Validation
// findings are returned, never raised.
func Calculate(date time.Time, input calculator.ActivityInput) DayResult {
	b := calculator.CalculateTotalFootprint(input)
	score, grade := calculator.SustainabilityScore(b)
	res := DayResult{Date: date, Footprint: b, Score: score, Grade: grade}
	for _, f := range calculator.Validate(input) {
		res.Findings = append(res.Findings, f.Error())
	}
	return res
}

// LogDay computes the footprint of input and stores it for userID.
func (e *Engine) LogDay(
	ctx context.Context,
	userID int64,
	date time.Time,
	input calculator.ActivityInput,
) (DayResult, error) {
	log := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "LogDay").
		Int64("user_id", userID).
		Logger()

	res := Calculate(date, input)
	for _, f := range res.Findings {
		log.Warn().Str("finding", f).Msg("suspicious activity input")
	}
	if e.store == nil {
		return res, ErrNoStore
	}
	if err := e.store.SaveDailyFootprint(ctx, userID, date, res.Footprint); err != nil {
		return res, fmt.Errorf("saving day: %w", err)
	}
	res.Saved = true

	log.Debug().
		Str("date", date.Format(time.DateOnly)).
		Float64("total", res.Footprint.Total).
		Msg("day logged")
	return res, nil
}

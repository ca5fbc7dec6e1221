// Package forecast extrapolates a series of daily emissions with a linear
// trend and proportional Gaussian noise.
package forecast

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrEmptyHistory is returned when there is no value to extrapolate from.
	ErrEmptyHistory = constError("history is empty")
	// ErrInvalidHorizon is returned for a negative number of days.
	ErrInvalidHorizon = constError("forecast horizon must not be negative")
)

const (
	// MinTrendPoints is the shortest history that gets a fitted trend.
	// Shorter histories are projected flat.
	MinTrendPoints = 7
	// TrendWindow is the number of most recent points used for the fit.
	TrendWindow = 30
	// NoiseFraction scales the noise standard deviation to each projected value.
	NoiseFraction = 0.05
)

// Forecast projects daysAhead values past the end of history.
//
// With fewer than MinTrendPoints values every projected value equals the last
// observation. Otherwise an ordinary least squares line is fitted to the last
// TrendWindow values, step i is last + slope*i plus N(0, (0.05*|value|)²)
// noise, floored at zero. A nil rng draws from a process-seeded generator, so
// pass a seeded one for reproducible output.
func Forecast(history []float64, daysAhead int, rng *rand.Rand) ([]float64, error) {
	if daysAhead < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHorizon, daysAhead)
	}
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}
	out := make([]float64, daysAhead)
	last := history[len(history)-1]

	if len(history) < MinTrendPoints {
		for i := range out {
			out[i] = last
		}
		return out, nil
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	slope := Slope(history)
	for i := range out {
		projected := last + slope*float64(i+1)
		noise := distuv.Normal{Mu: 0, Sigma: NoiseFraction * math.Abs(projected), Src: rng}
		v := projected
		if noise.Sigma > 0 {
			v += noise.Rand()
		}
		out[i] = math.Max(0, v)
	}
	return out, nil
}

// Slope returns the least squares slope of the last TrendWindow values
// against their index. Fewer than two values have zero slope.
func Slope(history []float64) float64 {
	window := history[max(0, len(history)-TrendWindow):]
	if len(window) < 2 {
		return 0
	}
	x := make([]float64, len(window))
	for i := range x {
		x[i] = float64(i)
	}
	_, beta := stat.LinearRegression(x, window, nil, false)
	return beta
}

// Direction classifies a trend slope.
type Direction string

// Trend directions.
const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// StableSlope is the absolute daily slope (kg CO2/day) below which a
// trend is reported as stable.
const StableSlope = 0.05

// Summary describes a forecast relative to its history.
type Summary struct {
	Slope          float64   `json:"slope"`
	Last           float64   `json:"last"`
	ProjectedMean  float64   `json:"projected_mean"`
	ProjectedTotal float64   `json:"projected_total"`
	Direction      Direction `json:"direction"`
}

// Summarize reports the trend behind projected.
func Summarize(history, projected []float64) Summary {
	var s Summary
	if len(history) > 0 {
		s.Last = history[len(history)-1]
	}
	if len(history) >= MinTrendPoints {
		s.Slope = Slope(history)
	}
	for _, v := range projected {
		s.ProjectedTotal += v
	}
	if len(projected) > 0 {
		s.ProjectedMean = s.ProjectedTotal / float64(len(projected))
	}
	switch {
	case s.Slope > StableSlope:
		s.Direction = Increasing
	case s.Slope < -StableSlope:
		s.Direction = Decreasing
	default:
		s.Direction = Stable
	}
	return s
}

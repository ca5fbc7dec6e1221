package recommend

import "github.com/rshade/ecofocus/internal/calculator"

// DaysPerYear annualizes a daily footprint.
const DaysPerYear = 365

// Benchmark statuses.
const (
	StatusAbove = "above"
	StatusBelow = "below"
)

// Reference is a named annual footprint (kg CO2/year).
type Reference struct {
	Name  string
	Value float64
}

// References are compared in this order.
//
//nolint:gochecknoglobals // Static benchmark table.
var References = []Reference{
	{"global_average", 4800},
	{"us_average", 16000},
	{"eu_average", 8500},
	{"target_2030", 2300},
}

// Comparison is a user's annual footprint against one reference.
type Comparison struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Difference float64 `json:"difference"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

// Benchmark annualizes the daily total of b and compares it with References.
// A difference of exactly zero is reported as below.
func Benchmark(b calculator.Breakdown) []Comparison {
	annual := b.Total * DaysPerYear
	out := make([]Comparison, 0, len(References))
	for _, ref := range References {
		diff := annual - ref.Value
		var pct float64
		if ref.Value > 0 {
			pct = diff / ref.Value * 100
		}
		status := StatusBelow
		if diff > 0 {
			status = StatusAbove
		}
		out = append(out, Comparison{
			Name:       ref.Name,
			Value:      ref.Value,
			Difference: diff,
			Percentage: pct,
			Status:     status,
		})
	}
	return out
}

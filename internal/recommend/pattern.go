package recommend

import (
	"fmt"
	"sort"

	"github.com/rshade/ecofocus/internal/calculator"
)

// Trend labels reported by AnalyzePattern.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Pattern analysis windows.
const (
	TrendWindowDays  = 7
	WeekdayMinDays   = 14
	trendChange      = 0.10
	weekdayGapFactor = 1.5
)

// PatternAnalysis holds observations derived from a history series.
// Dominant, Trend, HighestDay and LowestDay are empty when the history was
// too short to compute them.
type PatternAnalysis struct {
	Patterns      []string            `json:"patterns"`
	Opportunities []string            `json:"opportunities"`
	Dominant      calculator.Category `json:"dominant_category,omitempty"`
	Trend         string              `json:"trend,omitempty"`
	HighestDay    string              `json:"highest_day,omitempty"`
	LowestDay     string              `json:"lowest_day,omitempty"`
}

// AnalyzePattern reports the highest-average category of an ascending history.
// With at least 7 days it compares the latest 7 days against the earliest 7;
// with at least 14 it compares weekday averages.
func AnalyzePattern(history []calculator.DailyRecord) PatternAnalysis {
	pa := PatternAnalysis{Patterns: []string{}, Opportunities: []string{}}
	if len(history) == 0 {
		return pa
	}

	var bestAvg float64
	for i, c := range calculator.Categories {
		var sum float64
		for _, r := range history {
			sum += r.Value(c)
		}
		avg := sum / float64(len(history))
		if i == 0 || avg > bestAvg {
			pa.Dominant, bestAvg = c, avg
		}
	}
	pa.Patterns = append(pa.Patterns, fmt.Sprintf("Your highest emissions come from %s", pa.Dominant))

	if len(history) >= TrendWindowDays {
		totals := calculator.Totals(history)
		older := mean(totals[:TrendWindowDays])
		recent := mean(totals[len(totals)-TrendWindowDays:])
		switch {
		case recent > older*(1+trendChange):
			pa.Trend = TrendIncreasing
			pa.Patterns = append(pa.Patterns, "Your emissions have been increasing recently")
			pa.Opportunities = append(pa.Opportunities,
				"Focus on reducing daily activities that contribute most to emissions")
		case recent < older*(1-trendChange):
			pa.Trend = TrendDecreasing
			pa.Patterns = append(pa.Patterns, "Great! Your emissions have been decreasing")
		default:
			pa.Trend = TrendStable
			pa.Patterns = append(pa.Patterns, "Your emissions have been relatively stable")
		}
	}

	if len(history) >= WeekdayMinDays {
		high, low, highAvg, lowAvg := weekdayExtremes(history)
		pa.HighestDay, pa.LowestDay = high, low
		pa.Patterns = append(pa.Patterns,
			fmt.Sprintf("Your highest emission day is typically %s", high),
			fmt.Sprintf("Your lowest emission day is typically %s", low),
		)
		if highAvg > lowAvg*weekdayGapFactor {
			pa.Opportunities = append(pa.Opportunities,
				fmt.Sprintf("Try to replicate your %s habits on %s", low, high))
		}
	}
	return pa
}

// weekdayExtremes averages totals per weekday name. Ties resolve to the
// alphabetically first day name.
func weekdayExtremes(history []calculator.DailyRecord) (string, string, float64, float64) {
	sums := make(map[string]float64, 7)
	counts := make(map[string]int, 7)
	for _, r := range history {
		day := r.Date.Weekday().String()
		sums[day] += r.Total
		counts[day]++
	}
	days := make([]string, 0, len(sums))
	for d := range sums {
		days = append(days, d)
	}
	sort.Strings(days)

	high, low := days[0], days[0]
	highAvg := sums[high] / float64(counts[high])
	lowAvg := highAvg
	for _, d := range days[1:] {
		avg := sums[d] / float64(counts[d])
		if avg > highAvg {
			high, highAvg = d, avg
		}
		if avg < lowAvg {
			low, lowAvg = d, avg
		}
	}
	return high, low, highAvg, lowAvg
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

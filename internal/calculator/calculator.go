package calculator

import "math"

// CalculateCategory sums amount × factor over the activities of one category.
// Activities without a factor, and unknown categories, contribute zero.
func CalculateCategory(c Category, activities map[string]Amount) float64 {
	table, ok := factorTables[c]
	if !ok {
		return 0
	}
	var total float64
	for _, key := range sortedKeys(activities) {
		factor, known := table[key]
		if !known {
			continue
		}
		total += activities[key].Value() * factor
	}
	return total
}

// CalculateTotalFootprint computes the emissions of every category present in
// input. Categories absent from input are omitted from the result and Total is
// the sum of the computed categories.
func CalculateTotalFootprint(input ActivityInput) Breakdown {
	values := make(map[Category]float64, len(input))
	for _, c := range Categories {
		activities, ok := input[c]
		if !ok {
			continue
		}
		values[c] = CalculateCategory(c, activities)
	}
	return NewBreakdown(values)
}

// Sustainability score steps on daily total emissions (kg CO2).
//
//nolint:gochecknoglobals // Static lookup table.
var scoreSteps = []struct {
	max   float64
	score int
	grade string
}{
	{5, 95, "A+"},
	{10, 85, "A"},
	{20, 75, "B+"},
	{30, 65, "B"},
	{45, 55, "C+"},
	{60, 45, "C"},
	{80, 35, "D"},
	{math.Inf(1), 25, "F"},
}

// SustainabilityScore grades a daily breakdown on a 0-100 scale.
func SustainabilityScore(b Breakdown) (int, string) {
	for _, step := range scoreSteps {
		if b.Total <= step.max {
			return step.score, step.grade
		}
	}
	last := scoreSteps[len(scoreSteps)-1]
	return last.score, last.grade
}

// DefaultOffsetPricePerTon is the carbon offset price used when none is configured (USD/t).
const DefaultOffsetPricePerTon = 20.0

// OffsetCost returns the cost of offsetting kg of CO2 at pricePerTon.
func OffsetCost(kg, pricePerTon float64) float64 {
	return kg / 1000 * pricePerTon
}

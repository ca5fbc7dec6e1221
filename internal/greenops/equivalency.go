package greenops

import (
	"fmt"
	"math"

	"github.com/rshade/ecofocus/internal/calculator"
)

// DaysPerYear annualizes daily emissions.
const DaysPerYear = 365

type equivalency struct {
	kind   EquivalencyType
	factor float64
	label  string
}

//nolint:gochecknoglobals // Display order of the equivalencies.
var equivalencies = []equivalency{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven"},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged"},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years"},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity"},
}

// Calculate computes every equivalency for kg kilograms of CO2.
//
// Values below MinEquivalencyThresholdKg yield an empty output and no error.
func Calculate(kg float64) (EquivalencyOutput, error) {
	if math.IsInf(kg, 0) || math.IsNaN(kg) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}
	if kg < 0 {
		return EquivalencyOutput{IsEmpty: true}, ErrNegativeValue
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	results := make([]EquivalencyResult, 0, len(equivalencies))
	for _, eq := range equivalencies {
		v := kg / eq.factor
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
		results = append(results, EquivalencyResult{
			Type:           eq.kind,
			Value:          v,
			FormattedValue: formatEquivalencyValue(v),
			Label:          eq.label,
		})
	}

	miles := results[EquivalencyMilesDriven].FormattedValue
	phones := results[EquivalencySmartphonesCharged].FormattedValue
	trees := results[EquivalencyTreeSeedlings].FormattedValue

	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones", miles, phones),
		CompactText: fmt.Sprintf("(≈ %s mi, %s trees)", miles, trees),
	}, nil
}

// CalculateQuantity normalizes value from unit and computes its equivalencies.
func CalculateQuantity(value float64, unit string) (EquivalencyOutput, error) {
	kg, err := NormalizeToKg(value, unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	return Calculate(kg)
}

// Annual computes equivalencies for a daily breakdown projected over a year.
func Annual(b calculator.Breakdown) EquivalencyOutput {
	out, err := Calculate(math.Max(b.Total, 0) * DaysPerYear)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}
	}
	return out
}

// Reduction computes equivalencies for an annual impact estimate. Impacts
// are non-positive, so the magnitude is used.
func Reduction(impactKg int) EquivalencyOutput {
	out, err := Calculate(math.Abs(float64(impactKg)))
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}
	}
	return out
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}

package greenops

import (
	"math"
	"strings"
)

// unitFactor returns the kilogram conversion for unit, matched case-insensitively.
func unitFactor(unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case "g", "gco2", "gco2e":
		return GramsToKg, true
	case "kg", "kgco2", "kgco2e":
		return KgToKg, true
	case "t", "ton", "tons", "tco2", "tco2e":
		return TonsToKg, true
	case "lb", "lbs", "lbco2e":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a carbon quantity to kilograms.
//
// Accepted units are g, kg, t (ton, tons), lb (lbs) and their CO2/CO2e
// suffixed forms.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}
	factor, ok := unitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}
	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// IsRecognizedUnit reports whether NormalizeToKg accepts unit.
func IsRecognizedUnit(unit string) bool {
	_, ok := unitFactor(unit)
	return ok
}

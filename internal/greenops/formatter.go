package greenops

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat rounds f half away from zero to precision digits and adds
// thousand separators.
// Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(f float64, precision int) string {
	precision = max(precision, 0)
	multiplier := math.Pow(10, float64(precision))
	rounded := math.Round(f*multiplier) / multiplier
	if precision == 0 {
		return FormatNumber(int64(rounded))
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", precision), rounded)
}

// FormatLarge abbreviates values of a million and more.
// Example: FormatLarge(1500000000) returns "~1.5 billion".
func FormatLarge(n float64) string {
	switch {
	case n >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case n >= LargeNumberThreshold:
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}

// FormatEmissions renders kg CO2 as "12.3 kg CO₂", switching to tonnes
// with two decimals from TonneDisplayThresholdKg.
func FormatEmissions(kg float64) string {
	if kg >= TonneDisplayThresholdKg {
		return FormatFloat(kg/TonsToKg, 2) + " tons CO₂"
	}
	return FormatFloat(kg, 1) + " kg CO₂"
}

// EmissionLevel classifies a daily total as Low, Medium, High or Very High.
func EmissionLevel(dailyKg float64) string {
	switch {
	case dailyKg < LevelLowMax:
		return "Low"
	case dailyKg < LevelMediumMax:
		return "Medium"
	case dailyKg < LevelHighMax:
		return "High"
	default:
		return "Very High"
	}
}

// PercentChange returns the change from old to current in percent, or 0
// when old is zero.
func PercentChange(old, current float64) float64 {
	if old == 0 {
		return 0
	}
	return (current - old) / old * 100
}

package greenops

// EPA greenhouse gas equivalency factors (2024 edition), kg CO2 per unit.
//
//	equivalency = kg_CO2 / factor
const (
	// EPAMilesDrivenFactor is kg CO2 per mile of an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2 per full smartphone charge.
	EPASmartphoneChargeFactor = 0.00822

	// EPATreeSeedlingFactor is kg CO2 absorbed by one urban tree seedling grown for 10 years.
	EPATreeSeedlingFactor = 60.0

	// EPAHomeDayFactor is kg CO2 per day of average US home electricity.
	EPAHomeDayFactor = 18.3
)

// Unit conversions to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

// Display thresholds.
const (
	// MinEquivalencyThresholdKg is the smallest value that gets equivalencies.
	MinEquivalencyThresholdKg = 1.0

	// TonneDisplayThresholdKg switches FormatEmissions to tonnes.
	TonneDisplayThresholdKg = 1000.0

	// LargeNumberThreshold switches to "~X.X million" notation.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches to "~X.X billion" notation.
	BillionThreshold = 1_000_000_000
)

// Daily emission levels, kg CO2 per day.
const (
	LevelLowMax    = 10.0
	LevelMediumMax = 25.0
	LevelHighMax   = 50.0
)

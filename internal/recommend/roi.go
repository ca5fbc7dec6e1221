package recommend

// DefaultCarbonPrice is the carbon price in USD per tonne used for savings.
const DefaultCarbonPrice = 50.0

// ROIYears is the horizon of the reported return on investment.
const ROIYears = 5

//nolint:gochecknoglobals // Static cost table (USD).
var upfrontCosts = map[ActionID]float64{
	SwitchToElectric:       25000,
	RenewableEnergy:        15000,
	EfficientAppliances:    2000,
	BetterInsulation:       5000,
	ProgrammableThermostat: 200,
	LEDLighting:            300,
}

// UpfrontCost returns the investment needed for an action, if it has one.
func UpfrontCost(id ActionID) (float64, bool) {
	c, ok := upfrontCosts[id]
	return c, ok
}

// Investment is the financial view of a recommendation that needs spending.
type Investment struct {
	Recommendation Recommendation `json:"recommendation"`
	UpfrontCost    float64        `json:"upfront_cost"`
	AnnualSavings  float64        `json:"annual_savings"`
	PaybackYears   float64        `json:"payback_years"`
	ROI5Year       float64        `json:"roi_5year"`
}

// ROI prices the carbon savings of every recommendation with an upfront cost
// at carbonPrice USD/t (DefaultCarbonPrice when <= 0). Recommendations
// without a cost or without savings are skipped.
func ROI(recs []Recommendation, carbonPrice float64) []Investment {
	if carbonPrice <= 0 {
		carbonPrice = DefaultCarbonPrice
	}
	out := []Investment{}
	for _, r := range recs {
		cost, ok := UpfrontCost(r.ActionID)
		if !ok {
			continue
		}
		savings := float64(r.AbsImpact()) * carbonPrice / 1000
		if savings <= 0 {
			continue
		}
		out = append(out, Investment{
			Recommendation: r,
			UpfrontCost:    cost,
			AnnualSavings:  savings,
			PaybackYears:   cost / savings,
			ROI5Year:       (savings*ROIYears - cost) / cost * 100,
		})
	}
	return out
}

package calculator

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Validation findings. The calculator never rejects input; these are returned
// by Validate so callers can warn about suspicious entries.
const (
	ErrNegativeAmount     = constError("negative activity amount")
	ErrImplausibleMileage = constError("daily car mileage seems unrealistically high")
	ErrImplausibleUsage   = constError("daily electricity usage seems very high")
	ErrUnknownActivity    = constError("unknown activity type")
)

// Plausibility limits for a single day of activity.
const (
	MaxDailyCarMiles       = 500.0
	MaxDailyElectricityKWh = 100.0
)

// Validate reports negative amounts, implausible daily values and activity
// keys that the calculator will skip. A nil result means the input looks sane.
func Validate(input ActivityInput) []error {
	var findings []error
	for _, c := range Categories {
		activities, ok := input[c]
		if !ok {
			continue
		}
		for _, key := range sortedKeys(activities) {
			amount := activities[key]
			if amount.Quantity < 0 || amount.Distance < 0 || amount.Times() < 0 {
				findings = append(findings, fmt.Errorf("%w: %s.%s", ErrNegativeAmount, c, key))
			}
			if _, known := Factor(c, key); !known {
				findings = append(findings, fmt.Errorf("%w: %s.%s", ErrUnknownActivity, c, key))
			}
		}
	}

	if trip, ok := input[Transportation]["car_gasoline"]; ok && trip.Distance > MaxDailyCarMiles {
		findings = append(findings, fmt.Errorf("%w (%.0f > %.0f miles)",
			ErrImplausibleMileage, trip.Distance, MaxDailyCarMiles))
	}
	if kwh, ok := input[Energy]["electricity"]; ok && kwh.Value() > MaxDailyElectricityKWh {
		findings = append(findings, fmt.Errorf("%w (%.0f > %.0f kWh)",
			ErrImplausibleUsage, kwh.Value(), MaxDailyElectricityKWh))
	}
	return findings
}

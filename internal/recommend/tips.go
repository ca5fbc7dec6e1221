package recommend

import (
	"time"

	"github.com/rshade/ecofocus/internal/calculator"
)

// Season is a calendar season of the northern hemisphere.
type Season string

// Seasons.
const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
)

// SeasonOf buckets a month: Dec-Feb winter, Mar-May spring, Jun-Aug summer,
// everything else fall.
func SeasonOf(month time.Month) Season {
	switch month {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Fall
	}
}

//nolint:gochecknoglobals // Static tip tables.
var seasonalTips = map[Season][]string{
	Winter: {
		"Optimize heating efficiency - lower thermostat by 2°F",
		"Use draft stoppers and weatherstripping",
		"Take advantage of natural sunlight for heating",
		"Wear layers instead of increasing heat",
	},
	Spring: {
		"Start a garden to grow your own vegetables",
		"Begin cycling or walking as weather improves",
		"Clean and maintain HVAC systems",
		"Plan energy-efficient home improvements",
	},
	Summer: {
		"Use fans instead of air conditioning when possible",
		"Plan local vacations to reduce travel emissions",
		"Harvest rainwater for garden irrigation",
		"Use natural ventilation during cooler hours",
	},
	Fall: {
		"Prepare home for winter efficiency",
		"Preserve seasonal foods to reduce winter transport emissions",
		"Switch to renewable energy before peak heating season",
		"Insulate pipes and water heater",
	},
}

//nolint:gochecknoglobals // Static tip tables.
var weeklyTips = map[calculator.Category][]string{
	calculator.Transportation: {
		"Try walking or biking for trips under 2 miles",
		"Plan your errands to minimize driving",
		"Check your tire pressure - properly inflated tires improve fuel efficiency",
		"Consider carpooling with colleagues or neighbors",
	},
	calculator.Energy: {
		"Unplug chargers and electronics when not in use",
		"Use cold water for washing clothes",
		"Open curtains during sunny days for natural heating",
		"Set your water heater to 120°F (49°C)",
	},
	calculator.Food: {
		"Try one new plant-based recipe this week",
		"Buy only what you need to reduce food waste",
		"Choose seasonal fruits and vegetables",
		"Start a small herb garden on your windowsill",
	},
	calculator.Waste: {
		"Bring reusable bags when shopping",
		"Use both sides of paper for notes",
		"Donate clothes instead of throwing them away",
		"Start separating compostable materials",
	},
}

// SeasonalTips returns the ordered tips for the season of month.
func SeasonalTips(month time.Month) []string {
	return append([]string(nil), seasonalTips[SeasonOf(month)]...)
}

// WeeklyTips returns the week's tip for the highest-emission category of b,
// followed by the week's seasonal tip for month. A breakdown without
// categories yields only the seasonal tip.
func WeeklyTips(b calculator.Breakdown, week int, month time.Month) []string {
	tips := make([]string, 0, 2)
	if c, ok := b.Highest(); ok {
		if list := weeklyTips[c]; len(list) > 0 {
			tips = append(tips, list[wrap(week, len(list))])
		}
	}
	seasonal := seasonalTips[SeasonOf(month)]
	return append(tips, seasonal[wrap(week, len(seasonal))])
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

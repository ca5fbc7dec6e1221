// Package recommend classifies emission levels, scores reduction actions and
// assembles phased action plans, pattern analyses, tips and benchmarks.
//
// Every category has a Profile holding its thresholds, ranked rule texts per
// level, impact estimates and keyword table. Action IDs and difficulties are
// resolved once, when the profiles are built, so scoring only reads tags.
package recommend

import (
	"strings"

	"github.com/rshade/ecofocus/internal/calculator"
)

// Level is an emission level bucket.
type Level string

// Emission levels.
const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Difficulty is the implementation effort of an action.
type Difficulty string

// Difficulties.
const (
	DifficultyLow    Difficulty = "Low"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHigh   Difficulty = "High"
)

// ActionID identifies an action with a known impact estimate.
type ActionID string

// Transportation actions.
const (
	SwitchToElectric   ActionID = "switch_to_electric"
	WorkFromHome2Days  ActionID = "work_from_home_2days"
	UsePublicTransport ActionID = "use_public_transport"
	CarpoolRegularly   ActionID = "carpool_regularly"
	EcoDriving         ActionID = "eco_driving"
	BikeShortTrips     ActionID = "bike_short_trips"
)

// Energy actions.
const (
	RenewableEnergy        ActionID = "renewable_energy"
	LEDLighting            ActionID = "led_lighting"
	EfficientAppliances    ActionID = "efficient_appliances"
	BetterInsulation       ActionID = "better_insulation"
	ProgrammableThermostat ActionID = "programmable_thermostat"
	UnplugDevices          ActionID = "unplug_devices"
)

// Food actions.
const (
	ReduceMeat50Percent ActionID = "reduce_meat_50percent"
	LocalFood           ActionID = "local_food"
	ReduceFoodWaste     ActionID = "reduce_food_waste"
	PlantBased2Days     ActionID = "plant_based_2days"
	OrganicFood         ActionID = "organic_food"
)

// Waste actions.
const (
	IncreaseRecycling ActionID = "increase_recycling"
	Composting        ActionID = "composting"
	ReduceSingleUse   ActionID = "reduce_single_use"
	BuySecondHand     ActionID = "buy_second_hand"
	RepairVsReplace   ActionID = "repair_vs_replace"
)

// Thresholds are daily kg CO2 cutoffs. Emissions above High are high,
// above Medium are medium, anything else is low.
type Thresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}

// Classify buckets daily emissions.
func (t Thresholds) Classify(emissions float64) Level {
	switch {
	case emissions > t.High:
		return LevelHigh
	case emissions > t.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Rule is one ranked recommendation text with its resolved tags.
// Fallback is set when no keyword matched and ActionID is the category's
// first action.
type Rule struct {
	Text       string
	ActionID   ActionID
	Difficulty Difficulty
	Fallback   bool
}

type keyword struct {
	word   string
	action ActionID
}

// Profile holds everything the engine knows about one category.
type Profile struct {
	Category   calculator.Category
	Thresholds Thresholds
	Rules      map[Level][]Rule
	Impacts    map[ActionID]int
	keywords   []keyword
}

// Impact returns the annual impact estimate (kg CO2, <= 0) of an action, or 0.
func (p Profile) Impact(id ActionID) int {
	return p.Impacts[id]
}

//nolint:gochecknoglobals // Keyword sets for difficulty tagging.
var (
	highDifficultyWords   = []string{"switch", "install", "upgrade", "renewable"}
	mediumDifficultyWords = []string{"reduce", "increase", "improve", "plan"}
)

// classifyDifficulty tags text by the first matching keyword set.
func classifyDifficulty(text string) Difficulty {
	lower := strings.ToLower(text)
	for _, w := range highDifficultyWords {
		if strings.Contains(lower, w) {
			return DifficultyHigh
		}
	}
	for _, w := range mediumDifficultyWords {
		if strings.Contains(lower, w) {
			return DifficultyMedium
		}
	}
	return DifficultyLow
}

// resolveAction returns the first keyword action found in text, falling back
// to the first action of the table.
func resolveAction(keywords []keyword, text string) (ActionID, bool) {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k.word)) {
			return k.action, false
		}
	}
	return keywords[0].action, true
}

func newRule(keywords []keyword, text string) Rule {
	id, fallback := resolveAction(keywords, text)
	return Rule{Text: text, ActionID: id, Difficulty: classifyDifficulty(text), Fallback: fallback}
}

func newProfile(
	c calculator.Category,
	t Thresholds,
	keywords []keyword,
	impacts map[ActionID]int,
	texts map[Level][]string,
) Profile {
	p := Profile{
		Category:   c,
		Thresholds: t,
		Rules:      make(map[Level][]Rule, len(texts)),
		Impacts:    impacts,
		keywords:   keywords,
	}
	for level, list := range texts {
		rules := make([]Rule, len(list))
		for i, text := range list {
			rules[i] = newRule(keywords, text)
		}
		p.Rules[level] = rules
	}
	return p
}

// ProfileFor returns the profile of c.
func ProfileFor(c calculator.Category) (Profile, bool) {
	p, ok := profiles[c]
	return p, ok
}

//nolint:gochecknoglobals // Static rule tables, built once.
var profiles = map[calculator.Category]Profile{
	calculator.Transportation: newProfile(
		calculator.Transportation,
		Thresholds{High: 100, Medium: 50},
		[]keyword{
			{"electric", SwitchToElectric},
			{"work from home", WorkFromHome2Days},
			{"public", UsePublicTransport},
			{"carpool", CarpoolRegularly},
			{"eco-driving", EcoDriving},
			{"cycling", BikeShortTrips},
		},
		map[ActionID]int{
			SwitchToElectric:   -2000,
			WorkFromHome2Days:  -800,
			UsePublicTransport: -1200,
			CarpoolRegularly:   -600,
			EcoDriving:         -300,
			BikeShortTrips:     -400,
		},
		map[Level][]string{
			LevelHigh: {
				"Switch to an electric or hybrid vehicle - can reduce emissions by 40-60%",
				"Use public transportation for daily commutes",
				"Implement carpooling or ride-sharing for regular trips",
				"Work from home 2-3 days per week if possible",
				"Combine multiple errands into single trips",
				"Consider cycling or walking for short distances (<3 miles)",
				"Plan vacations closer to home to reduce flight emissions",
				"Use video conferencing instead of business travel",
			},
			LevelMedium: {
				"Maintain your vehicle properly for better fuel efficiency",
				"Plan routes efficiently to minimize driving time",
				"Use eco-driving techniques (smooth acceleration, steady speeds)",
				"Consider upgrading to a more fuel-efficient vehicle",
				"Use public transport for longer trips",
			},
			LevelLow: {
				"Great job! Your transportation emissions are low",
				"Continue using sustainable transport options",
				"Share your transportation habits with friends and family",
			},
		},
	),
	calculator.Energy: newProfile(
		calculator.Energy,
		Thresholds{High: 200, Medium: 100},
		[]keyword{
			{"renewable", RenewableEnergy},
			{"LED", LEDLighting},
			{"appliances", EfficientAppliances},
			{"insulation", BetterInsulation},
			{"thermostat", ProgrammableThermostat},
			{"unplug", UnplugDevices},
		},
		map[ActionID]int{
			RenewableEnergy:        -1500,
			LEDLighting:            -200,
			EfficientAppliances:    -500,
			BetterInsulation:       -800,
			ProgrammableThermostat: -300,
			UnplugDevices:          -150,
		},
		map[Level][]string{
			LevelHigh: {
				"Switch to renewable energy sources (solar, wind)",
				"Improve home insulation to reduce heating/cooling needs",
				"Upgrade to energy-efficient appliances (ENERGY STAR rated)",
				"Install a programmable thermostat",
				"Replace incandescent bulbs with LED lighting",
				"Unplug electronics when not in use",
				"Use cold water for washing clothes when possible",
				"Consider a heat pump for heating and cooling",
			},
			LevelMedium: {
				"Set thermostat 2-3 degrees lower in winter, higher in summer",
				"Use natural light during the day",
				"Air-dry clothes instead of using the dryer",
				"Seal air leaks around windows and doors",
			},
			LevelLow: {
				"Excellent energy management!",
				"Continue your energy-efficient practices",
				"Consider sharing tips with neighbors",
			},
		},
	),
	calculator.Food: newProfile(
		calculator.Food,
		Thresholds{High: 150, Medium: 75},
		[]keyword{
			{"meat", ReduceMeat50Percent},
			{"local", LocalFood},
			{"waste", ReduceFoodWaste},
			{"plant-based", PlantBased2Days},
			{"organic", OrganicFood},
		},
		map[ActionID]int{
			ReduceMeat50Percent: -500,
			LocalFood:           -200,
			ReduceFoodWaste:     -300,
			PlantBased2Days:     -400,
			OrganicFood:         -100,
		},
		map[Level][]string{
			LevelHigh: {
				"Reduce red meat consumption (beef, lamb) by 50%",
				"Try 'Meatless Monday' or plant-based meals 2-3 times per week",
				"Buy local and seasonal produce when possible",
				"Reduce food waste through meal planning",
				"Grow your own herbs and vegetables",
				"Choose organic and sustainably produced foods",
				"Reduce dairy consumption or try plant-based alternatives",
				"Avoid heavily processed and packaged foods",
			},
			LevelMedium: {
				"Plan meals in advance to reduce waste",
				"Choose chicken or fish over red meat",
				"Buy from local farmers markets",
				"Compost food scraps",
			},
			LevelLow: {
				"Your food choices are climate-friendly!",
				"Keep up the sustainable eating habits",
				"Consider sharing recipes with others",
			},
		},
	),
	calculator.Waste: newProfile(
		calculator.Waste,
		Thresholds{High: 50, Medium: 25},
		[]keyword{
			{"recycling", IncreaseRecycling},
			{"composting", Composting},
			{"single-use", ReduceSingleUse},
			{"second-hand", BuySecondHand},
			{"repair", RepairVsReplace},
		},
		map[ActionID]int{
			IncreaseRecycling: -200,
			Composting:        -150,
			ReduceSingleUse:   -100,
			BuySecondHand:     -80,
			RepairVsReplace:   -120,
		},
		map[Level][]string{
			LevelHigh: {
				"Increase recycling rate to 80% or higher",
				"Start composting organic waste",
				"Reduce single-use items (bags, bottles, containers)",
				"Buy products with minimal packaging",
				"Donate or sell items instead of throwing them away",
				"Choose reusable alternatives (water bottles, shopping bags)",
				"Repair items instead of replacing them",
				"Buy second-hand when possible",
			},
			LevelMedium: {
				"Improve sorting for better recycling",
				"Reduce packaging waste by buying in bulk",
				"Use both sides of paper",
				"Choose products made from recycled materials",
			},
			LevelLow: {
				"Excellent waste management!",
				"Your waste practices are very sustainable",
				"Help others learn about proper waste disposal",
			},
		},
	),
}

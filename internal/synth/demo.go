package synth

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rshade/ecofocus/internal/calculator"
)

// DemoDay is one generated day of activity for a demo user.
type DemoDay struct {
	Date           time.Time
	Input          calculator.ActivityInput
	CarMiles       float64
	ElectricityKWh float64
	MeatMeals      float64
	WasteKg        float64
	RecyclingRate  float64
}

// DemoHistory generates days of activity ending the day before end.
// Workdays carry a commute, weekends more meat and the occasional flight,
// and winter/summer months use more energy.
func (g Generator) DemoHistory(days int, end time.Time) []DemoDay {
	if days <= 0 {
		return nil
	}
	src := rand.NewPCG(g.Seed, g.Seed^0x9e3779b97f4a7c15)
	normal := func(mu, sigma float64) float64 {
		return distuv.Normal{Mu: mu, Sigma: sigma, Src: src}.Rand()
	}
	poisson := func(lambda float64) float64 {
		return distuv.Poisson{Lambda: lambda, Src: src}.Rand()
	}

	start := truncateDay(end).AddDate(0, 0, -days)
	out := make([]DemoDay, 0, days)
	for i := range days {
		date := start.AddDate(0, 0, i)
		weekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday

		var carMiles, transit, flightMiles float64
		if weekend {
			carMiles = normal(15, 10)
			transit = normal(2, 1)
			flightMiles = poisson(0.1) * 500
		} else {
			carMiles = normal(30, 8)
			transit = normal(5, 2)
		}

		var kwh, therms float64
		switch date.Month() {
		case time.December, time.January, time.February, time.June, time.July, time.August:
			kwh = normal(35, 8)
			therms = normal(3, 1)
		default:
			kwh = normal(25, 5)
			therms = normal(1.5, 0.5)
		}

		var beef, chicken float64
		if weekend {
			beef, chicken = poisson(0.5), poisson(1)
		} else {
			beef, chicken = poisson(0.2), poisson(0.8)
		}
		vegetables := poisson(4)
		dairy := poisson(2)

		waste := math.Max(0, normal(2, 0.5))
		recycling := distuv.Uniform{Min: 40, Max: 80, Src: src}.Rand()

		carMiles = math.Max(0, carMiles)
		kwh = math.Max(0, kwh)
		out = append(out, DemoDay{
			Date: date,
			Input: calculator.ActivityInput{
				calculator.Transportation: {
					"car_gasoline":   calculator.Trip(carMiles, 1),
					"bus":            calculator.Trip(math.Max(0, transit), 1),
					"plane_domestic": calculator.Trip(flightMiles, 1),
				},
				calculator.Energy: {
					"electricity": calculator.Qty(kwh),
					"natural_gas": calculator.Qty(math.Max(0, therms)),
				},
				calculator.Food: {
					"beef":       calculator.Qty(beef * 0.25),
					"chicken":    calculator.Qty(chicken * 0.2),
					"vegetables": calculator.Qty(vegetables * 0.1),
					"dairy":      calculator.Qty(dairy * 0.1),
				},
				calculator.Waste: {
					"landfill":  calculator.Qty(waste * (1 - recycling/100)),
					"recycling": calculator.Qty(waste * recycling / 100),
				},
			},
			CarMiles:       carMiles,
			ElectricityKWh: kwh,
			MeatMeals:      beef + chicken,
			WasteKg:        waste,
			RecyclingRate:  recycling,
		})
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

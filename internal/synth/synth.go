// Package synth generates labeled synthetic training data and demo activity
// history from fixed distributions and a known footprint formula.
package synth

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rshade/ecofocus/internal/predictor"
)

// DefaultSeed is the seed used when none is configured.
const DefaultSeed uint64 = 42

// Target formula constants.
const (
	NoiseSigma   = 500.0
	MinFootprint = 1000.0
)

// Categorical domains.
//
//nolint:gochecknoglobals // Fixed sampling domains.
var (
	LocationTypes = []string{"urban", "suburban", "rural"}
	VehicleTypes  = []string{"gasoline", "diesel", "electric", "hybrid"}
)

// Generator draws reproducible samples: the same Seed and n always produce
// the same dataset.
type Generator struct {
	Seed uint64
}

// New returns a generator using seed.
func New(seed uint64) Generator {
	return Generator{Seed: seed}
}

type distributions struct {
	rng        *rand.Rand
	income     distuv.Normal
	carMiles   distuv.Exponential
	flights    distuv.Poisson
	location   distuv.Categorical
	vehicle    distuv.Categorical
	kwh        distuv.Normal
	therms     distuv.Normal
	sqft       distuv.Normal
	renewable  distuv.Categorical
	percentage distuv.Uniform
	waste      distuv.Normal
	composting distuv.Categorical
	noise      distuv.Normal
}

func newDistributions(seed uint64) *distributions {
	src := rand.NewPCG(seed, seed)
	return &distributions{
		rng:        rand.New(src),
		income:     distuv.Normal{Mu: 50000, Sigma: 20000, Src: src},
		carMiles:   distuv.Exponential{Rate: 1.0 / 100, Src: src},
		flights:    distuv.Poisson{Lambda: 2, Src: src},
		location:   distuv.NewCategorical([]float64{1, 1, 1}, src),
		vehicle:    distuv.NewCategorical([]float64{1, 1, 1, 1}, src),
		kwh:        distuv.Normal{Mu: 900, Sigma: 300, Src: src},
		therms:     distuv.Normal{Mu: 50, Sigma: 20, Src: src},
		sqft:       distuv.Normal{Mu: 2000, Sigma: 800, Src: src},
		renewable:  distuv.NewCategorical([]float64{0.7, 0.3}, src),
		percentage: distuv.Uniform{Min: 0, Max: 100, Src: src},
		waste:      distuv.Normal{Mu: 15, Sigma: 5, Src: src},
		composting: distuv.NewCategorical([]float64{0.6, 0.4}, src),
		noise:      distuv.Normal{Mu: 0, Sigma: NoiseSigma, Src: src},
	}
}

// intRange draws uniformly from [lo, hi).
func (d *distributions) intRange(lo, hi int) float64 {
	return float64(lo + d.rng.IntN(hi-lo))
}

func (d *distributions) features() predictor.FeatureVector {
	return predictor.FeatureVector{
		Age:                     d.intRange(18, 80),
		Income:                  d.income.Rand(),
		HouseholdSize:           d.intRange(1, 6),
		LocationType:            LocationTypes[int(d.location.Rand())],
		CarMilesPerWeek:         d.carMiles.Rand(),
		PublicTransportUsage:    d.intRange(0, 7),
		FlightsPerYear:          d.flights.Rand(),
		VehicleType:             VehicleTypes[int(d.vehicle.Rand())],
		ElectricityKWhMonthly:   d.kwh.Rand(),
		NaturalGasThermsMonthly: d.therms.Rand(),
		HomeSizeSqft:            d.sqft.Rand(),
		RenewableEnergy:         d.renewable.Rand(),
		MeatMealsPerWeek:        d.intRange(0, 21),
		LocalFoodPercentage:     d.percentage.Rand(),
		OrganicFoodPercentage:   d.percentage.Rand(),
		WasteKgPerWeek:          d.waste.Rand(),
		RecyclingPercentage:     d.percentage.Rand(),
		Composting:              d.composting.Rand(),
	}
}

// Generate returns n samples. n <= 0 yields an empty dataset.
func (g Generator) Generate(n int) predictor.Dataset {
	if n <= 0 {
		return predictor.Dataset{Samples: []predictor.Sample{}}
	}
	d := newDistributions(g.Seed)
	samples := make([]predictor.Sample, n)
	for i := range samples {
		f := d.features()
		samples[i] = predictor.Sample{
			Features: f,
			Target:   math.Max(Footprint(f)+d.noise.Rand(), MinFootprint),
		}
	}
	return predictor.Dataset{Samples: samples}
}

// Footprint is the noiseless annual footprint (kg CO2) implied by f.
func Footprint(f predictor.FeatureVector) float64 {
	const weeksPerYear, monthsPerYear = 52, 12
	return f.CarMilesPerWeek*weeksPerYear*0.411 +
		f.FlightsPerYear*1000*0.225 +
		f.ElectricityKWhMonthly*monthsPerYear*0.92*(1-f.RenewableEnergy*0.8) +
		f.NaturalGasThermsMonthly*monthsPerYear*5.3 +
		f.MeatMealsPerWeek*weeksPerYear*2.5 +
		f.WasteKgPerWeek*weeksPerYear*0.57*(1-f.RecyclingPercentage/100)
}

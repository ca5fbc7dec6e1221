package synth

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/predictor"
)

func TestGenerate_ExactCount(t *testing.T) {
	for _, n := range []int{1, 7, 250} {
		assert.Equal(t, n, New(DefaultSeed).Generate(n).Len())
	}
	assert.Zero(t, New(DefaultSeed).Generate(0).Len())
	assert.Zero(t, New(DefaultSeed).Generate(-3).Len())
}

func TestGenerate_Domains(t *testing.T) {
	ds := New(7).Generate(500)

	for _, s := range ds.Samples {
		f := s.Features
		assert.Contains(t, LocationTypes, f.LocationType)
		assert.Contains(t, VehicleTypes, f.VehicleType)
		assert.Contains(t, []float64{0, 1}, f.RenewableEnergy)
		assert.Contains(t, []float64{0, 1}, f.Composting)

		assert.GreaterOrEqual(t, f.Age, 18.0)
		assert.LessOrEqual(t, f.Age, 79.0)
		assert.GreaterOrEqual(t, f.HouseholdSize, 1.0)
		assert.LessOrEqual(t, f.HouseholdSize, 5.0)
		assert.LessOrEqual(t, f.PublicTransportUsage, 6.0)
		assert.LessOrEqual(t, f.MeatMealsPerWeek, 20.0)
		assert.GreaterOrEqual(t, f.CarMilesPerWeek, 0.0)
		assert.GreaterOrEqual(t, f.FlightsPerYear, 0.0)
		assert.InDelta(t, 50, f.RecyclingPercentage, 50)

		assert.GreaterOrEqual(t, s.Target, MinFootprint)
	}
}

func TestGenerate_EveryCategoryValueAppears(t *testing.T) {
	ds := New(DefaultSeed).Generate(400)

	var locations, vehicles []string
	for _, s := range ds.Samples {
		locations = append(locations, s.Features.LocationType)
		vehicles = append(vehicles, s.Features.VehicleType)
	}
	for _, want := range LocationTypes {
		assert.True(t, slices.Contains(locations, want), want)
	}
	for _, want := range VehicleTypes {
		assert.True(t, slices.Contains(vehicles, want), want)
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	a := New(42).Generate(100)
	b := New(42).Generate(100)
	c := New(43).Generate(100)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFootprint(t *testing.T) {
	f := predictor.FeatureVector{
		CarMilesPerWeek:         100,
		FlightsPerYear:          2,
		ElectricityKWhMonthly:   900,
		RenewableEnergy:         1,
		NaturalGasThermsMonthly: 50,
		MeatMealsPerWeek:        10,
		WasteKgPerWeek:          15,
		RecyclingPercentage:     50,
	}
	want := 100*52*0.411 + 2*1000*0.225 + 900*12*0.92*0.2 + 50*12*5.3 + 10*52*2.5 + 15*52*0.57*0.5
	assert.InDelta(t, want, Footprint(f), 1e-9)
}

func TestDemoHistory(t *testing.T) {
	end := time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)
	days := New(DefaultSeed).DemoHistory(60, end)

	require.Len(t, days, 60)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), days[59].Date)

	for _, d := range days {
		b := calculator.CalculateTotalFootprint(d.Input)
		assert.Len(t, b.Present(), len(calculator.Categories))
		assert.GreaterOrEqual(t, b.Total, 0.0)
		assert.Empty(t, calculator.Validate(d.Input), d.Date)
	}

	again := New(DefaultSeed).DemoHistory(60, end)
	assert.Equal(t, days, again)
	assert.Nil(t, New(DefaultSeed).DemoHistory(0, end))
}

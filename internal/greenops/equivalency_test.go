package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecofocus/internal/calculator"
)

func TestCalculate(t *testing.T) {
	out, err := Calculate(150)
	require.NoError(t, err)
	require.False(t, out.IsEmpty)
	require.Len(t, out.Results, 4)

	miles, ok := out.Find(EquivalencyMilesDriven)
	require.True(t, ok)
	assert.InDelta(t, 150/EPAMilesDrivenFactor, miles.Value, 1e-9)
	assert.Equal(t, "781", miles.FormattedValue)

	phones, ok := out.Find(EquivalencySmartphonesCharged)
	require.True(t, ok)
	assert.Equal(t, "18,248", phones.FormattedValue)

	trees, ok := out.Find(EquivalencyTreeSeedlings)
	require.True(t, ok)
	assert.Equal(t, "3", trees.FormattedValue)

	assert.Equal(t, "Equivalent to driving ~781 miles or charging ~18,248 smartphones", out.DisplayText)
	assert.Equal(t, "(≈ 781 mi, 3 trees)", out.CompactText)
}

func TestCalculate_BelowThreshold(t *testing.T) {
	out, err := Calculate(0.5)
	require.NoError(t, err)
	assert.True(t, out.IsEmpty)
	assert.InDelta(t, 0.5, out.InputKg, 0)
	assert.Empty(t, out.Results)
}

func TestCalculate_Errors(t *testing.T) {
	_, err := Calculate(-1)
	require.ErrorIs(t, err, ErrNegativeValue)

	_, err = Calculate(math.Inf(1))
	require.ErrorIs(t, err, ErrCalculationOverflow)

	_, err = CalculateQuantity(1, "stone")
	require.ErrorIs(t, err, ErrInvalidUnit)
}

func TestCalculateQuantity(t *testing.T) {
	out, err := CalculateQuantity(0.15, "t")
	require.NoError(t, err)
	assert.InDelta(t, 150.0, out.InputKg, 1e-9)
}

func TestAnnual(t *testing.T) {
	b := calculator.NewBreakdown(map[calculator.Category]float64{
		calculator.Transportation: 10,
		calculator.Food:           10,
	})
	out := Annual(b)
	require.False(t, out.IsEmpty)
	assert.InDelta(t, 20.0*365, out.InputKg, 1e-9)

	home, ok := out.Find(EquivalencyHomeDays)
	require.True(t, ok)
	assert.Equal(t, "399", home.FormattedValue)

	assert.True(t, Annual(calculator.Breakdown{}).IsEmpty)
}

func TestReduction(t *testing.T) {
	out := Reduction(-2000)
	require.False(t, out.IsEmpty)
	assert.InDelta(t, 2000.0, out.InputKg, 0)

	assert.True(t, Reduction(0).IsEmpty)
}

func TestEquivalencyType_String(t *testing.T) {
	assert.Equal(t, "TreeSeedlings", EquivalencyTreeSeedlings.String())
	assert.Equal(t, "EquivalencyType(9)", EquivalencyType(9).String())

	text, err := EquivalencyHomeDays.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "HomeDays", string(text))
}

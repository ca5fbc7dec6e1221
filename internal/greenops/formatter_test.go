package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "small number no separators", n: 123, want: "123"},
		{name: "four digits with separator", n: 1234, want: "1,234"},
		{name: "millions", n: 1234567, want: "1,234,567"},
		{name: "zero", n: 0, want: "0"},
		{name: "negative number", n: -1234, want: "-1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.n))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name      string
		f         float64
		precision int
		want      string
	}{
		{name: "round to integer", f: 18248.56, precision: 0, want: "18,249"},
		{name: "one decimal place", f: 781.25, precision: 1, want: "781.3"},
		{name: "two decimal places", f: 1234.567, precision: 2, want: "1,234.57"},
		{name: "small value", f: 0.5, precision: 2, want: "0.50"},
		{name: "negative precision treated as zero", f: 12.6, precision: -1, want: "13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.f, tt.precision))
		})
	}
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "999,999", FormatLarge(999_999))
	assert.Equal(t, "~1.5 million", FormatLarge(1_500_000))
	assert.Equal(t, "~2.3 billion", FormatLarge(2_300_000_000))
}

func TestFormatEmissions(t *testing.T) {
	tests := []struct {
		kg   float64
		want string
	}{
		{kg: 45.13, want: "45.1 kg CO₂"},
		{kg: 999.9, want: "999.9 kg CO₂"},
		{kg: 1000, want: "1.00 tons CO₂"},
		{kg: 16472.45, want: "16.47 tons CO₂"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEmissions(tt.kg))
		})
	}
}

func TestEmissionLevel(t *testing.T) {
	assert.Equal(t, "Low", EmissionLevel(9.99))
	assert.Equal(t, "Medium", EmissionLevel(10))
	assert.Equal(t, "High", EmissionLevel(45.13))
	assert.Equal(t, "Very High", EmissionLevel(50))
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 50.0, PercentChange(20, 30), 1e-9)
	assert.InDelta(t, -25.0, PercentChange(40, 30), 1e-9)
	assert.Zero(t, PercentChange(0, 30))
}

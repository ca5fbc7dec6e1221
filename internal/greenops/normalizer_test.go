package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToKg(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		unit    string
		want    float64
		wantErr error
	}{
		{name: "grams", value: 1500, unit: "g", want: 1.5},
		{name: "kilograms mixed case", value: 12, unit: "KgCO2e", want: 12},
		{name: "tons alias", value: 2, unit: "tons", want: 2000},
		{name: "pounds", value: 10, unit: "lbs", want: 4.53592},
		{name: "unknown unit", value: 1, unit: "oz", wantErr: ErrInvalidUnit},
		{name: "negative", value: -1, unit: "kg", wantErr: ErrNegativeValue},
		{name: "nan", value: math.NaN(), unit: "kg", wantErr: ErrCalculationOverflow},
		{name: "overflow", value: math.MaxFloat64, unit: "t", wantErr: ErrCalculationOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeToKg(tt.value, tt.unit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestIsRecognizedUnit(t *testing.T) {
	assert.True(t, IsRecognizedUnit("tCO2"))
	assert.False(t, IsRecognizedUnit("kwh"))
}

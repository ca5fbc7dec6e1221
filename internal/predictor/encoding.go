package predictor

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// LabelEncoder maps the values of a categorical field to integer codes.
// Classes are kept sorted, so codes follow lexical order.
type LabelEncoder struct {
	Field   string
	Classes []string
}

// FitLabelEncoder learns the class set of field from values.
func FitLabelEncoder(field string, values []string) LabelEncoder {
	classes := slices.Clone(values)
	sort.Strings(classes)
	return LabelEncoder{Field: field, Classes: slices.Compact(classes)}
}

// Transform returns the code of value or an *UnseenCategoryError.
func (e LabelEncoder) Transform(value string) (float64, error) {
	i, found := slices.BinarySearch(e.Classes, value)
	if !found {
		return 0, &UnseenCategoryError{Field: e.Field, Value: value, Known: slices.Clone(e.Classes)}
	}
	return float64(i), nil
}

// StandardScaler centers and scales every column to unit population variance.
// Columns with zero variance are only centered.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// FitStandardScaler learns per-column mean and standard deviation from rows.
func FitStandardScaler(rows [][]float64) StandardScaler {
	if len(rows) == 0 {
		return StandardScaler{}
	}
	cols := len(rows[0])
	s := StandardScaler{Mean: make([]float64, cols), Scale: make([]float64, cols)}
	col := make([]float64, len(rows))
	for j := range cols {
		for i, r := range rows {
			col[i] = r[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}
	return s
}

// Transform returns a scaled copy of row.
func (s StandardScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

func (s StandardScaler) fitted(width int) bool {
	return len(s.Mean) == width && len(s.Scale) == width
}

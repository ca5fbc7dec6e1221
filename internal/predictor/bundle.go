package predictor

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

// Bundle is a trained, read-only set of models with their preprocessing.
type Bundle struct {
	ID           ulid.ULID
	TrainedAt    time.Time
	FeatureNames []string
	Encoders     map[string]LabelEncoder
	Scaler       StandardScaler
	Models       map[Variant]Regressor
}

// FeatureImportance is the weight of one feature in a model.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Ready reports whether the bundle has everything inference needs.
func (b *Bundle) Ready() bool {
	if b == nil || len(b.FeatureNames) == 0 || len(b.Models) == 0 {
		return false
	}
	for _, field := range CategoricalFields {
		if _, ok := b.Encoders[field]; !ok {
			return false
		}
	}
	return b.Scaler.fitted(len(b.FeatureNames))
}

// Variants returns the trained variants in name order.
func (b *Bundle) Variants() []Variant {
	if b == nil {
		return nil
	}
	out := make([]Variant, 0, len(b.Models))
	for v := range b.Models {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// KnownCategories returns the training-time domain of a categorical field.
func (b *Bundle) KnownCategories(field string) []string {
	if b == nil {
		return nil
	}
	return slices.Clone(b.Encoders[field].Classes)
}

func (b *Bundle) encode(field, value string) (float64, error) {
	enc, ok := b.Encoders[field]
	if !ok {
		return 0, fmt.Errorf("%w: no encoder for %s", ErrNotTrained, field)
	}
	return enc.Transform(value)
}

func (b *Bundle) model(v Variant) (Regressor, error) {
	if !b.Ready() {
		return nil, ErrNotTrained
	}
	if v == "" {
		v = DefaultVariant
	}
	m, ok := b.Models[v]
	if !ok {
		return nil, unknownVariant(v)
	}
	return m, nil
}

// Predict estimates the annual footprint (kg CO2) of f with variant v.
// An empty v selects DefaultVariant.
func (b *Bundle) Predict(f FeatureVector, v Variant) (float64, error) {
	m, err := b.model(v)
	if err != nil {
		return 0, err
	}
	row, err := f.row(b.encode)
	if err != nil {
		return 0, err
	}
	return m.Predict(b.Scaler.Transform(row)), nil
}

// FeatureImportance returns the importances of v sorted descending. Variants
// without importances yield an empty slice and no error.
func (b *Bundle) FeatureImportance(v Variant) ([]FeatureImportance, error) {
	m, err := b.model(v)
	if err != nil {
		return nil, err
	}
	weights := m.FeatureImportances()
	if len(weights) == 0 {
		return []FeatureImportance{}, nil
	}
	out := make([]FeatureImportance, len(b.FeatureNames))
	for i, name := range b.FeatureNames {
		out[i] = FeatureImportance{Feature: name, Importance: weights[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out, nil
}

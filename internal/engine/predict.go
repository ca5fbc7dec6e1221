package engine

import (
	"context"
	"fmt"

	"github.com/rshade/ecofocus/internal/engine/batch"
	"github.com/rshade/ecofocus/internal/logging"
	"github.com/rshade/ecofocus/internal/predictor"
	"github.com/rshade/ecofocus/internal/synth"
)

// Prediction is one annual footprint estimate.
type Prediction struct {
	Variant  predictor.Variant `json:"variant"`
	Value    float64           `json:"predicted_footprint"`
	BundleID string            `json:"bundle_id"`
}

// TrainingData generates the synthetic dataset the engine trains on.
func (e *Engine) TrainingData(context.Context) (predictor.Dataset, error) {
	return synth.New(e.cfg.SynthSeed).Generate(e.cfg.TrainingRows), nil
}

// Train fits a new bundle on fresh synthetic data and publishes it.
func (e *Engine) Train(ctx context.Context) (predictor.Report, error) {
	ds, err := e.TrainingData(ctx)
	if err != nil {
		return predictor.Report{}, err
	}
	_, report, err := e.models.Train(ctx, ds, e.cfg.Train)
	if err != nil {
		return predictor.Report{}, err
	}
	logging.FromContext(ctx).Info().
		Str("component", "engine").
		Str("bundle_id", report.BundleID).
		Int("rows", report.Rows).
		Msg("models trained")
	return report, nil
}

func (e *Engine) bundle(ctx context.Context) (*predictor.Bundle, error) {
	return e.models.EnsureTrained(ctx, e.TrainingData, e.cfg.Train)
}

func (e *Engine) variant(v predictor.Variant) predictor.Variant {
	if v == "" {
		return e.cfg.Variant
	}
	return v
}

// Predict estimates the annual footprint of f, training on first use.
// An empty variant selects the configured one.
func (e *Engine) Predict(ctx context.Context, f predictor.FeatureVector, v predictor.Variant) (Prediction, error) {
	b, err := e.bundle(ctx)
	if err != nil {
		return Prediction{}, err
	}
	v = e.variant(v)
	value, err := b.Predict(f, v)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Variant: v, Value: value, BundleID: b.ID.String()}, nil
}

// PredictAll estimates every row of features concurrently. Results keep
// the input order; the first failure aborts the run.
func (e *Engine) PredictAll(
	ctx context.Context,
	features []predictor.FeatureVector,
	v predictor.Variant,
	concurrency int,
) ([]Prediction, error) {
	b, err := e.bundle(ctx)
	if err != nil {
		return nil, err
	}
	v = e.variant(v)
	out := make([]Prediction, len(features))
	proc := batch.NewProcessorWithDefaults[predictor.FeatureVector]()
	err = proc.ProcessConcurrent(ctx, features, func(_ context.Context, rows []predictor.FeatureVector, _, offset int) error {
		for i, f := range rows {
			value, err := b.Predict(f, v)
			if err != nil {
				return fmt.Errorf("row %d: %w", offset+i, err)
			}
			out[offset+i] = Prediction{Variant: v, Value: value, BundleID: b.ID.String()}
		}
		return nil
	}, concurrency)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FeatureImportance returns the importances of a variant, training on first use.
func (e *Engine) FeatureImportance(ctx context.Context, v predictor.Variant) ([]predictor.FeatureImportance, error) {
	b, err := e.bundle(ctx)
	if err != nil {
		return nil, err
	}
	return b.FeatureImportance(e.variant(v))
}

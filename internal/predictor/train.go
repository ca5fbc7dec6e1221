package predictor

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/ecofocus/internal/logging"
)

// Training defaults.
const (
	DefaultSeed         uint64 = 42
	DefaultTestFraction        = 0.2
	DefaultCVFolds             = 5
	DefaultEstimators          = 100
	DefaultMaxRows             = 5000

	maxBinsLimit = 1024
)

// TrainOptions tunes Train. Zero values select the defaults.
type TrainOptions struct {
	Seed         uint64
	TestFraction float64
	CVFolds      int
	Estimators   int
	MaxBins      int
	Variants     []Variant
	// MaxRows caps the dataset size; extra rows are dropped with a warning.
	// A negative value disables the cap.
	MaxRows int
}

// DefaultTrainOptions returns the options used when none are configured.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{}.withDefaults()
}

func (o TrainOptions) withDefaults() TrainOptions {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		o.TestFraction = DefaultTestFraction
	}
	if o.CVFolds == 0 {
		o.CVFolds = DefaultCVFolds
	}
	if o.Estimators <= 0 {
		o.Estimators = DefaultEstimators
	}
	if o.MaxBins < 2 {
		o.MaxBins = DefaultMaxBins
	}
	o.MaxBins = min(o.MaxBins, maxBinsLimit)
	if len(o.Variants) == 0 {
		o.Variants = DefaultVariants
	}
	if o.MaxRows == 0 {
		o.MaxRows = DefaultMaxRows
	}
	return o
}

// Report summarizes a training run.
type Report struct {
	BundleID  string              `json:"bundle_id"`
	TrainedAt time.Time           `json:"trained_at"`
	Rows      int                 `json:"rows"`
	TrainRows int                 `json:"train_rows"`
	TestRows  int                 `json:"test_rows"`
	Variants  map[Variant]Metrics `json:"variants"`
}

// Train fits encoders and a scaler on the whole dataset, holds out a seeded
// test split, and fits every requested variant on the scaled training split.
func Train(ctx context.Context, ds Dataset, opts TrainOptions) (*Bundle, Report, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "predictor").
		Str("operation", "Train").
		Logger()

	if ds.Len() == 0 {
		return nil, Report{}, ErrEmptyDataset
	}
	opts = opts.withDefaults()
	for _, v := range opts.Variants {
		if _, err := ParseVariant(string(v)); err != nil {
			return nil, Report{}, err
		}
	}
	if opts.MaxRows > 0 && ds.Len() > opts.MaxRows {
		logger.Warn().
			Int("rows", ds.Len()).
			Int("max_rows", opts.MaxRows).
			Msg("training set truncated")
		ds = ds.Head(opts.MaxRows)
	}

	bundle := &Bundle{
		ID:           ulid.Make(),
		TrainedAt:    time.Now().UTC(),
		FeatureNames: append([]string(nil), FeatureNames...),
		Encoders:     make(map[string]LabelEncoder, len(CategoricalFields)),
		Models:       make(map[Variant]Regressor, len(opts.Variants)),
	}
	for _, field := range CategoricalFields {
		values := make([]string, ds.Len())
		for i, s := range ds.Samples {
			values[i], _ = s.Features.Category(field)
		}
		bundle.Encoders[field] = FitLabelEncoder(field, values)
	}

	raw := make([][]float64, ds.Len())
	for i, s := range ds.Samples {
		row, err := s.Features.row(bundle.encode)
		if err != nil {
			return nil, Report{}, fmt.Errorf("encoding sample %d: %w", i, err)
		}
		raw[i] = row
	}
	bundle.Scaler = FitStandardScaler(raw)
	X := make([][]float64, len(raw))
	for i, r := range raw {
		X[i] = bundle.Scaler.Transform(r)
	}
	y := ds.Targets()

	trainIdx, testIdx := trainTestSplit(len(y), opts.TestFraction, opts.Seed)
	trainX, trainY := subset(X, y, trainIdx)
	testX, testY := subset(X, y, testIdx)

	report := Report{
		BundleID:  bundle.ID.String(),
		TrainedAt: bundle.TrainedAt,
		Rows:      len(y),
		TrainRows: len(trainY),
		TestRows:  len(testY),
		Variants:  make(map[Variant]Metrics, len(opts.Variants)),
	}
	cfg := fitConfig{estimators: opts.Estimators, maxBins: opts.MaxBins, seed: opts.Seed}
	folds := min(opts.CVFolds, len(trainY))

	for _, v := range opts.Variants {
		if err := ctx.Err(); err != nil {
			return nil, Report{}, err
		}
		start := time.Now()

		model, err := fitVariant(v, trainX, trainY, cfg)
		if err != nil {
			return nil, Report{}, fmt.Errorf("fitting %s: %w", v, err)
		}
		bundle.Models[v] = model

		var m Metrics
		if len(testY) > 0 {
			pred := predictAll(model, testX)
			m.MSE = meanSquaredError(testY, pred)
			m.RMSE = math.Sqrt(m.MSE)
			m.R2 = r2Score(testY, pred)
		}
		if folds >= 2 {
			scores, cvErr := crossValidate(ctx, v, trainX, trainY, folds, cfg)
			if cvErr != nil {
				return nil, Report{}, fmt.Errorf("cross-validating %s: %w", v, cvErr)
			}
			m.CVMean, m.CVStd = summarizeScores(scores)
			m.CVFolds = folds
		}
		report.Variants[v] = m

		logger.Debug().
			Str("variant", string(v)).
			Float64("rmse", m.RMSE).
			Float64("r2", m.R2).
			Float64("cv_mean", m.CVMean).
			Dur("duration", time.Since(start)).
			Msg("variant trained")
	}

	logger.Info().
		Str("bundle_id", report.BundleID).
		Int("rows", report.Rows).
		Int("variants", len(bundle.Models)).
		Msg("training complete")
	return bundle, report, nil
}

// trainTestSplit shuffles row indices with a seeded generator and holds out
// ceil(n*fraction) rows, keeping at least one training row.
func trainTestSplit(n int, fraction float64, seed uint64) ([]int, []int) {
	perm := rand.New(rand.NewPCG(seed, seed^0x5deece66d)).Perm(n)
	nTest := int(math.Ceil(float64(n) * fraction))
	if nTest >= n {
		nTest = n - 1
	}
	return perm[nTest:], perm[:nTest]
}

func subset(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	sx := make([][]float64, len(idx))
	sy := make([]float64, len(idx))
	for i, r := range idx {
		sx[i] = X[r]
		sy[i] = y[r]
	}
	return sx, sy
}

package predictor

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Variant names a regression algorithm.
type Variant string

// Model variants.
const (
	// RandomForest averages deep trees grown on bootstrap samples.
	RandomForest Variant = "random_forest"
	// GradientBoosting fits shrunken depth-3 trees to squared-error residuals.
	GradientBoosting Variant = "gradient_boosting"
	// XGBoost is depth-wise second-order boosting with L2 leaf regularization.
	XGBoost Variant = "xgboost"
	// LightGBM is leaf-wise histogram boosting under a leaf budget.
	LightGBM Variant = "lightgbm"
	// Linear is an ordinary least squares baseline without importances.
	Linear Variant = "linear"
)

// DefaultVariant is used when Predict is called with an empty variant.
const DefaultVariant = XGBoost

// DefaultVariants are trained when TrainOptions.Variants is empty.
//
//nolint:gochecknoglobals // Fixed default model set.
var DefaultVariants = []Variant{RandomForest, GradientBoosting, XGBoost, LightGBM}

//nolint:gochecknoglobals // Fixed registry of supported variants.
var allVariants = []Variant{RandomForest, GradientBoosting, XGBoost, LightGBM, Linear}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	if s == "" {
		return DefaultVariant, nil
	}
	v := Variant(s)
	if !slices.Contains(allVariants, v) {
		return "", unknownVariant(v)
	}
	return v, nil
}

// Regressor is a fitted model operating on scaled feature rows.
type Regressor interface {
	Predict(x []float64) float64
	// FeatureImportances returns one weight per feature summing to one,
	// or nil when the model has no notion of importance.
	FeatureImportances() []float64
}

type fitConfig struct {
	estimators int
	maxBins    int
	seed       uint64
}

// fitVariant trains variant v on X, y.
func fitVariant(v Variant, X [][]float64, y []float64, cfg fitConfig) (Regressor, error) {
	switch v {
	case RandomForest:
		return fitForest(X, y, cfg), nil
	case GradientBoosting:
		return fitBoosted(X, y, cfg, boostParams{
			learningRate: 0.1,
			tree:         treeParams{maxDepth: 3, minSamplesLeaf: 1},
		}), nil
	case XGBoost:
		return fitBoosted(X, y, cfg, boostParams{
			learningRate: 0.3,
			tree:         treeParams{maxDepth: 6, minSamplesLeaf: 1, minChildWeight: 1, lambda: 1},
		}), nil
	case LightGBM:
		return fitBoosted(X, y, cfg, boostParams{
			learningRate: 0.1,
			tree:         treeParams{maxLeaves: 31, minSamplesLeaf: 20, minChildWeight: 1e-3},
			splitCounts:  true,
		}), nil
	case Linear:
		l, err := fitLinear(X, y)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, unknownVariant(v)
	}
}

const forestMaxDepth = 16

type forest struct {
	trees       []regressionTree
	importances []float64
}

func fitForest(X [][]float64, y []float64, cfg fitConfig) *forest {
	b := fitBinner(X, cfg.maxBins)
	g := newGrower(b, b.transform(X), treeParams{maxDepth: forestMaxDepth, minSamplesLeaf: 1})

	// Squared error with unit hessian makes leaf values plain means of y.
	grad := make([]float64, len(y))
	hess := make([]float64, len(y))
	for i, v := range y {
		grad[i] = -v
		hess[i] = 1
	}

	rng := rand.New(rand.NewPCG(cfg.seed, uint64(len(y))))
	stats := newTreeStats(len(b.edges))
	f := &forest{trees: make([]regressionTree, 0, cfg.estimators)}
	rows := make([]int, len(y))
	for range cfg.estimators {
		for i := range rows {
			rows[i] = rng.IntN(len(y))
		}
		f.trees = append(f.trees, g.grow(slices.Clone(rows), grad, hess, stats))
	}
	f.importances = normalize(stats.gain)
	return f
}

func (f *forest) Predict(x []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	var sum float64
	for i := range f.trees {
		sum += f.trees[i].predict(x)
	}
	return sum / float64(len(f.trees))
}

func (f *forest) FeatureImportances() []float64 { return slices.Clone(f.importances) }

type boostParams struct {
	learningRate float64
	tree         treeParams
	// splitCounts reports importance as the number of splits per feature
	// instead of total gain.
	splitCounts bool
}

type boosted struct {
	base         float64
	learningRate float64
	trees        []regressionTree
	importances  []float64
}

func fitBoosted(X [][]float64, y []float64, cfg fitConfig, p boostParams) *boosted {
	b := fitBinner(X, cfg.maxBins)
	g := newGrower(b, b.transform(X), p.tree)

	m := &boosted{
		base:         stat.Mean(y, nil),
		learningRate: p.learningRate,
		trees:        make([]regressionTree, 0, cfg.estimators),
	}
	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = m.base
	}
	grad := make([]float64, len(y))
	hess := make([]float64, len(y))
	rows := make([]int, len(y))
	for i := range rows {
		rows[i] = i
		hess[i] = 1
	}

	stats := newTreeStats(len(b.edges))
	for range cfg.estimators {
		for i := range grad {
			grad[i] = pred[i] - y[i]
		}
		t := g.grow(rows, grad, hess, stats)
		for i, x := range X {
			pred[i] += p.learningRate * t.predict(x)
		}
		m.trees = append(m.trees, t)
	}

	if p.splitCounts {
		m.importances = normalize(stats.splits)
	} else {
		m.importances = normalize(stats.gain)
	}
	return m
}

func (m *boosted) Predict(x []float64) float64 {
	out := m.base
	for i := range m.trees {
		out += m.learningRate * m.trees[i].predict(x)
	}
	return out
}

func (m *boosted) FeatureImportances() []float64 { return slices.Clone(m.importances) }

type linear struct {
	intercept float64
	coef      []float64
}

// fitLinear solves the least squares problem [1 X] beta = y.
func fitLinear(X [][]float64, y []float64) (*linear, error) {
	if len(X) == 0 {
		return nil, ErrEmptyDataset
	}
	cols := len(X[0]) + 1
	a := mat.NewDense(len(X), cols, nil)
	for i, r := range X {
		a.Set(i, 0, 1)
		for j, v := range r {
			a.Set(i, j+1, v)
		}
	}
	var beta mat.VecDense
	if err := beta.SolveVec(a, mat.NewVecDense(len(y), slices.Clone(y))); err != nil {
		return nil, fmt.Errorf("solving least squares: %w", err)
	}
	l := &linear{intercept: beta.AtVec(0), coef: make([]float64, cols-1)}
	for j := range l.coef {
		l.coef[j] = beta.AtVec(j + 1)
	}
	return l, nil
}

func (l *linear) Predict(x []float64) float64 {
	out := l.intercept
	for j, c := range l.coef {
		out += c * x[j]
	}
	return out
}

func (l *linear) FeatureImportances() []float64 { return nil }

package predictor

import (
	"context"

	"gonum.org/v1/gonum/stat"
)

// Metrics are the holdout and cross-validation scores of one variant.
// CVFolds is zero when the training split was too small to cross-validate.
type Metrics struct {
	MSE     float64 `json:"mse"`
	RMSE    float64 `json:"rmse"`
	R2      float64 `json:"r2"`
	CVMean  float64 `json:"cv_mean"`
	CVStd   float64 `json:"cv_std"`
	CVFolds int     `json:"cv_folds"`
}

func meanSquaredError(y, pred []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for i := range y {
		d := y[i] - pred[i]
		sum += d * d
	}
	return sum / float64(len(y))
}

// r2Score is the coefficient of determination. A constant target scores 1
// when predicted exactly and 0 otherwise.
func r2Score(y, pred []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	if stat.PopVariance(y, nil) == 0 {
		if meanSquaredError(y, pred) == 0 {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(pred, y, nil)
}

func predictAll(r Regressor, X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = r.Predict(x)
	}
	return out
}

// kFold splits n ordered rows into k contiguous folds. The first n%k folds
// hold one extra row.
func kFold(n, k int) [][]int {
	folds := make([][]int, 0, k)
	start := 0
	for f := range k {
		size := n / k
		if f < n%k {
			size++
		}
		idx := make([]int, size)
		for i := range idx {
			idx[i] = start + i
		}
		folds = append(folds, idx)
		start += size
	}
	return folds
}

// crossValidate returns the R² of each fold when v is fitted on the other folds.
func crossValidate(ctx context.Context, v Variant, X [][]float64, y []float64, k int, cfg fitConfig) ([]float64, error) {
	folds := kFold(len(y), k)
	scores := make([]float64, 0, k)
	for f, test := range folds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trainX := make([][]float64, 0, len(y)-len(test))
		trainY := make([]float64, 0, len(y)-len(test))
		for g, other := range folds {
			if g == f {
				continue
			}
			for _, i := range other {
				trainX = append(trainX, X[i])
				trainY = append(trainY, y[i])
			}
		}
		testX := make([][]float64, len(test))
		testY := make([]float64, len(test))
		for i, r := range test {
			testX[i] = X[r]
			testY[i] = y[r]
		}

		m, err := fitVariant(v, trainX, trainY, cfg)
		if err != nil {
			return nil, err
		}
		scores = append(scores, r2Score(testY, predictAll(m, testX)))
	}
	return scores, nil
}

func summarizeScores(scores []float64) (float64, float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(scores, nil)
}

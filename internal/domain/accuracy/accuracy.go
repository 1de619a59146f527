// Package accuracy computes regression error metrics over an evaluation window.
package accuracy

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Sentinel kinds for metric computation errors.
var (
	ErrEmpty          = errors.New("no observations to score")
	ErrLengthMismatch = errors.New("labels and predictions differ in length")
)

// Result holds the three reported metrics for one target.
type Result struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Compute scores predictions against labels.
//
// When every label is identical the total sum of squares is zero and R2 is
// undefined: it is NaN if the predictions are also exact and -Inf otherwise.
func Compute(yTrue, yPred []float64) (Result, error) {
	if err := check(yTrue, yPred); err != nil {
		return Result{}, err
	}
	return Result{
		MAE:  MAE(yTrue, yPred),
		RMSE: RMSE(yTrue, yPred),
		R2:   R2(yTrue, yPred),
	}, nil
}

func check(yTrue, yPred []float64) error {
	if len(yTrue) != len(yPred) {
		return fmt.Errorf("%w: %d labels, %d predictions", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return ErrEmpty
	}
	return nil
}

// MAE is the mean absolute error. Callers must pass equal, non-zero lengths.
func MAE(yTrue, yPred []float64) float64 {
	var sum float64
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue))
}

// RMSE is the root of the mean squared error.
func RMSE(yTrue, yPred []float64) float64 {
	return math.Sqrt(sumSquaredResiduals(yTrue, yPred) / float64(len(yTrue)))
}

// R2 is the coefficient of determination, 1 - SSres/SStot.
func R2(yTrue, yPred []float64) float64 {
	mean := stat.Mean(yTrue, nil)
	var ssTot float64
	for _, y := range yTrue {
		d := y - mean
		ssTot += d * d
	}
	ssRes := sumSquaredResiduals(yTrue, yPred)
	if ssTot == 0 {
		if ssRes == 0 {
			return math.NaN()
		}
		return math.Inf(-1)
	}
	return 1 - ssRes/ssTot
}

// IsDefined reports whether an R2 value is a finite number.
func IsDefined(r2 float64) bool {
	return !math.IsNaN(r2) && !math.IsInf(r2, 0)
}

func sumSquaredResiduals(yTrue, yPred []float64) float64 {
	var sum float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return sum
}

// Package model defines the trained-model contract consumed by the evaluator.
package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned when a feature matrix does not match a model's inputs.
var ErrShape = errors.New("feature matrix shape mismatch")

// Model is a trained regressor. Predict returns one value per row of x.
type Model interface {
	Predict(x mat.Matrix) ([]float64, error)
}

// Func adapts a plain function to Model.
type Func func(x mat.Matrix) ([]float64, error)

// Predict calls f(x).
func (f Func) Predict(x mat.Matrix) ([]float64, error) { return f(x) }

// Linear is an ordinary linear regression: y = Intercept + x . Coef.
type Linear struct {
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
}

// Predict implements Model.
func (l *Linear) Predict(x mat.Matrix) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != len(l.Coef) {
		return nil, fmt.Errorf("%w: got %d columns, model has %d coefficients", ErrShape, cols, len(l.Coef))
	}
	preds := make([]float64, rows)
	if cols == 0 {
		for i := range preds {
			preds[i] = l.Intercept
		}
		return preds, nil
	}

	var out mat.VecDense
	out.MulVec(x, mat.NewVecDense(cols, append([]float64(nil), l.Coef...)))
	for i := range preds {
		preds[i] = out.AtVec(i) + l.Intercept
	}
	return preds, nil
}

// Package model holds the closed set of curve shapes the fitter supports.
// Each variant bundles its parameter count, its function and the partial
// derivatives the regression engine needs.
package model

import (
	"fmt"
	"strings"

	"odrfit/domain/core"
)

// Kind names a model shape as accepted by Parse.
type Kind string

const (
	KindLinear      Kind = "linear"
	KindPolynomial  Kind = "polynomial"
	KindExponential Kind = "exponential"
)

// Model is a parametric curve y = f(beta, x).
type Model interface {
	Kind() Kind
	// Name is a human readable label, e.g. "polynomial (degree 3)".
	Name() string
	NumParams() int
	Eval(beta []float64, x float64) float64
	// ParamGrad writes df/dbeta_j at x into dst, which has NumParams elements.
	ParamGrad(beta []float64, x float64, dst []float64)
	// Slope returns df/dx.
	Slope(beta []float64, x float64) float64
	// InitialGuess returns the starting parameters used when the caller supplies none.
	InitialGuess(x, y []float64) []float64
}

// Kinds lists the supported model selectors.
func Kinds() []Kind {
	return []Kind{KindLinear, KindPolynomial, KindExponential}
}

// Parse maps a selector string to a Model. degree is only read for polynomials.
func Parse(name string, degree int) (Model, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case KindLinear:
		return Linear{}, nil
	case KindPolynomial:
		p, err := NewPolynomial(degree)
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindExponential:
		return Exponential{}, nil
	default:
		return nil, core.NewInvalidModelError(name)
	}
}

// Predict binds fitted parameters to m.
func Predict(m Model, beta []float64) func(x float64) float64 {
	params := append([]float64(nil), beta...)
	return func(x float64) float64 {
		return m.Eval(params, x)
	}
}

// CheckParams reports a configuration error when beta does not fit m.
func CheckParams(m Model, beta []float64) error {
	if len(beta) != m.NumParams() {
		return fmt.Errorf("%w: %s takes %d, got %d", core.ErrParamMismatch, m.Name(), m.NumParams(), len(beta))
	}
	return nil
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

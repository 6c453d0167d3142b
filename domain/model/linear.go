package model

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Linear is a straight line forced through the origin: f = beta0*x.
type Linear struct{}

func (Linear) Kind() Kind     { return KindLinear }
func (Linear) Name() string   { return string(KindLinear) }
func (Linear) NumParams() int { return 1 }

func (Linear) Eval(beta []float64, x float64) float64 {
	return beta[0] * x
}

func (Linear) ParamGrad(_ []float64, x float64, dst []float64) {
	dst[0] = x
}

func (Linear) Slope(beta []float64, _ float64) float64 {
	return beta[0]
}

// InitialGuess uses the through-origin least squares slope sum(xy)/sum(x^2).
func (Linear) InitialGuess(x, y []float64) []float64 {
	if len(x) == 0 || len(x) != len(y) {
		return ones(1)
	}
	_, slope := stat.LinearRegression(x, y, nil, true)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return ones(1)
	}
	return []float64{slope}
}

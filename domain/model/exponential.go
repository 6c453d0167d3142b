package model

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Exponential is beta0 * exp(beta1 * x).
type Exponential struct{}

func (Exponential) Kind() Kind     { return KindExponential }
func (Exponential) Name() string   { return string(KindExponential) }
func (Exponential) NumParams() int { return 2 }

func (Exponential) Eval(beta []float64, x float64) float64 {
	return beta[0] * math.Exp(beta[1]*x)
}

func (Exponential) ParamGrad(beta []float64, x float64, dst []float64) {
	e := math.Exp(beta[1] * x)
	dst[0] = e
	dst[1] = beta[0] * x * e
}

func (Exponential) Slope(beta []float64, x float64) float64 {
	return beta[0] * beta[1] * math.Exp(beta[1]*x)
}

// InitialGuess fits a straight line to ln|y| when every y has the same
// nonzero sign, giving amplitude and rate directly. Mixed signs or zeros
// fall back to all-ones.
func (Exponential) InitialGuess(x, y []float64) []float64 {
	if len(x) < 2 || len(x) != len(y) {
		return ones(2)
	}

	sign := math.Copysign(1, y[0])
	logY := make([]float64, len(y))
	for i, v := range y {
		if v == 0 || math.Copysign(1, v) != sign {
			return ones(2)
		}
		logY[i] = math.Log(math.Abs(v))
	}

	intercept, rate := stat.LinearRegression(x, logY, nil, false)
	amp := sign * math.Exp(intercept)
	if math.IsNaN(rate) || math.IsInf(rate, 0) || math.IsNaN(amp) || math.IsInf(amp, 0) {
		return ones(2)
	}
	return []float64{amp, rate}
}

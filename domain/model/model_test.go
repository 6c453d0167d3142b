package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odrfit/domain/core"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		degree    int
		kind      Kind
		numParams int
	}{
		{"linear", 7, KindLinear, 1},
		{"  Linear ", 0, KindLinear, 1},
		{"polynomial", 0, KindPolynomial, 1},
		{"polynomial", 3, KindPolynomial, 4},
		{"EXPONENTIAL", 1, KindExponential, 2},
	}

	for _, tt := range tests {
		m, err := Parse(tt.name, tt.degree)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.kind, m.Kind())
		assert.Equal(t, tt.numParams, m.NumParams(), tt.name)
	}
}

func TestParse_Unsupported(t *testing.T) {
	for _, name := range []string{"", "gaussian", "poly", "log"} {
		_, err := Parse(name, 1)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, core.ErrInvalidModel)
		assert.True(t, core.IsConfigurationError(err))
	}

	_, err := Parse("polynomial", -1)
	assert.ErrorIs(t, err, core.ErrInvalidModel)
}

func TestEval(t *testing.T) {
	poly, err := NewPolynomial(2)
	require.NoError(t, err)

	assert.Equal(t, 6.0, Linear{}.Eval([]float64{2}, 3))
	// 1 - 2x + 3x^2 at x=2
	assert.Equal(t, 9.0, poly.Eval([]float64{1, -2, 3}, 2))
	assert.InDelta(t, 2*math.Exp(1), Exponential{}.Eval([]float64{2, 0.5}, 2), 1e-12)

	predict := Predict(poly, []float64{1, -2, 3})
	assert.Equal(t, 1.0, predict(0))
	assert.Equal(t, 9.0, predict(2))
}

// TestDerivatives compares analytic derivatives with central differences.
func TestDerivatives(t *testing.T) {
	poly, _ := NewPolynomial(3)
	cases := []struct {
		m    Model
		beta []float64
	}{
		{Linear{}, []float64{1.7}},
		{poly, []float64{0.5, -1.2, 0.3, 0.05}},
		{Exponential{}, []float64{2.5, -0.4}},
	}

	const h = 1e-6
	for _, c := range cases {
		for _, x := range []float64{-1.5, 0, 0.7, 2.2} {
			num := (c.m.Eval(c.beta, x+h) - c.m.Eval(c.beta, x-h)) / (2 * h)
			assert.InDelta(t, num, c.m.Slope(c.beta, x), 1e-6, "%s slope at %g", c.m.Name(), x)

			grad := make([]float64, c.m.NumParams())
			c.m.ParamGrad(c.beta, x, grad)
			for j := range c.beta {
				up := append([]float64(nil), c.beta...)
				dn := append([]float64(nil), c.beta...)
				up[j] += h
				dn[j] -= h
				num := (c.m.Eval(up, x) - c.m.Eval(dn, x)) / (2 * h)
				assert.InDelta(t, num, grad[j], 1e-6, "%s d/dbeta%d at %g", c.m.Name(), j, x)
			}
		}
	}
}

func TestInitialGuess(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}

	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 3 * v
	}
	assert.InDelta(t, 3.0, Linear{}.InitialGuess(x, y)[0], 1e-12)

	for i, v := range x {
		y[i] = 1 + 2*v - 0.5*v*v
	}
	poly, _ := NewPolynomial(2)
	guess := poly.InitialGuess(x, y)
	require.Len(t, guess, 3)
	assert.InDeltaSlice(t, []float64{1, 2, -0.5}, guess, 1e-9)

	for i, v := range x {
		y[i] = -4 * math.Exp(0.3*v)
	}
	guess = Exponential{}.InitialGuess(x, y)
	assert.InDeltaSlice(t, []float64{-4, 0.3}, guess, 1e-9)
}

func TestInitialGuess_Fallbacks(t *testing.T) {
	assert.Equal(t, []float64{1}, Linear{}.InitialGuess([]float64{0, 0}, []float64{1, 2}))

	poly, _ := NewPolynomial(3)
	assert.Equal(t, []float64{1, 1, 1, 1}, poly.InitialGuess([]float64{1, 2}, []float64{1, 2}))

	assert.Equal(t, []float64{1, 1}, Exponential{}.InitialGuess([]float64{0, 1, 2}, []float64{1, -1, 2}))
	assert.Equal(t, []float64{1, 1}, Exponential{}.InitialGuess([]float64{0, 1, 2}, []float64{1, 0, 2}))
}

func TestCheckParams(t *testing.T) {
	assert.NoError(t, CheckParams(Exponential{}, []float64{1, 2}))
	err := CheckParams(Exponential{}, []float64{1})
	assert.ErrorIs(t, err, core.ErrParamMismatch)
	assert.True(t, core.IsConfigurationError(err))
}

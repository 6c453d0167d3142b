package goodness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odrfit/domain/fit"
	"odrfit/domain/measurement"
)

func TestEvaluate(t *testing.T) {
	set, err := measurement.NewSet(
		[]float64{1, 2, 3, 4},
		[]float64{1, 2, 3, 4},
		[]float64{1, 1, 1, 1},
		[]float64{0.5, 0.5, 0.5, 0.5},
	)
	require.NoError(t, err)

	res := &fit.Result{
		Eps:       []float64{0.5, -0.5, 0.5, -0.5},
		Delta:     []float64{0, 0, 0, 0},
		SumSquare: 4,
		DOF:       3,
	}

	g, err := Evaluate(set, res)
	require.NoError(t, err)

	assert.InDelta(t, 4.0/3.0, g.ReducedChiSquare, 1e-12)
	assert.InDelta(t, 0.0, g.ResidualMean, 1e-12)
	assert.InDelta(t, 1.0, g.MaxAbsResidual, 1e-12)
	assert.InDelta(t, math.Sqrt(4.0/3.0), g.ResidualStdDev, 1e-12)
	// chi-square survival with 3 degrees of freedom at 4
	assert.InDelta(t, 0.2614641, g.PValue, 1e-6)
	assert.Equal(t, "good", Verdict(g))
}

func TestEvaluate_ZeroDOF(t *testing.T) {
	set, err := measurement.NewSet([]float64{1, 2}, []float64{1, 2}, []float64{1, 1}, []float64{1, 1})
	require.NoError(t, err)

	g, err := Evaluate(set, &fit.Result{Eps: []float64{0, 0}, Delta: []float64{0, 0}})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(g.ReducedChiSquare))
	assert.True(t, math.IsNaN(g.PValue))
	assert.Equal(t, "undetermined", Verdict(g))
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	set, err := measurement.NewSet([]float64{1, 2}, []float64{1, 2}, []float64{1, 1}, []float64{1, 1})
	require.NoError(t, err)

	_, err = Evaluate(set, &fit.Result{Eps: []float64{0}, Delta: []float64{0}})
	assert.Error(t, err)
}

func TestVerdict(t *testing.T) {
	for rc, want := range map[float64]string{0.1: "overfit", 1: "good", 3: "marginal", 12: "poor"} {
		assert.Equal(t, want, Verdict(&fit.Goodness{ReducedChiSquare: rc}))
	}
}

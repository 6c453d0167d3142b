package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odrfit/domain/model"
)

func TestGenerate_Deterministic(t *testing.T) {
	config := DefaultGeneratorConfig()

	a, err := NewMeasurementGenerator(config).Generate()
	require.NoError(t, err)
	b, err := NewMeasurementGenerator(config).Generate()
	require.NoError(t, err)

	assert.Equal(t, a.X(), b.X())
	assert.Equal(t, a.Y(), b.Y())

	config.Seed = 7
	c, err := NewMeasurementGenerator(config).Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a.Y(), c.Y())
}

func TestGenerate_ZeroNoiseLiesOnCurve(t *testing.T) {
	poly, err := model.NewPolynomial(2)
	require.NoError(t, err)

	config := DefaultGeneratorConfig()
	config.Model = poly
	config.Params = []float64{1, -1, 0.5}
	config.Noise = 0
	config.Points = 5
	config.XMin, config.XMax = -2, 2

	set, err := NewMeasurementGenerator(config).Generate()
	require.NoError(t, err)
	require.Equal(t, 5, set.Len())

	for i := 0; i < set.Len(); i++ {
		x, y, xErr, yErr := set.At(i)
		assert.Equal(t, poly.Eval(config.Params, x), y)
		assert.Equal(t, 0.1, xErr)
		assert.Equal(t, 0.1, yErr)
	}
	lo, hi := set.XRange()
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 2.0, hi)
}

func TestGenerate_RejectsBadConfig(t *testing.T) {
	config := DefaultGeneratorConfig()
	config.Params = []float64{1, 2}
	_, err := NewMeasurementGenerator(config).Generate()
	assert.Error(t, err)

	config = DefaultGeneratorConfig()
	config.Points = 1
	_, err = NewMeasurementGenerator(config).Generate()
	assert.Error(t, err)
}

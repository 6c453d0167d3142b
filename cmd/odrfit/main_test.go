package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odrfit/domain/fit"
	"odrfit/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestModelsCmd(t *testing.T) {
	out, err := execute(t, "models")
	require.NoError(t, err)
	for _, name := range []string{"linear", "polynomial", "exponential"} {
		assert.Contains(t, out, name)
	}
}

func TestDemoCmd_JSON(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "demo", "--model", "exponential", "--params", "2,0.5",
		"--x-min", "0", "--x-max", "4", "--x-err", "0.01", "--y-err", "0.01", "--no-plot", "--json")
	require.NoError(t, err)

	var res fit.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Params, 2)
	assert.InEpsilon(t, 2.0, res.Params[0], 0.01)
	assert.InEpsilon(t, 0.5, res.Params[1], 0.01)
	assert.Equal(t, "exponential", res.Model)
}

func TestDemoCmd_JSONZeroDegreesOfFreedom(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "demo", "--model", "exponential", "--params", "2,0.5", "--points", "2", "--no-plot", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"reduced_chi_square": null`)

	var res fit.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 0, res.DOF)
	require.NotNil(t, res.Goodness)
	assert.True(t, math.IsNaN(res.Goodness.PValue))
}

func TestDemoCmd_WritesPlot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "demo", "--output", "line.png")
	require.NoError(t, err)
	assert.Contains(t, out, "b0")
	assert.Contains(t, out, "plot written to line.png")

	info, err := os.Stat(filepath.Join(dir, "line.png"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDemoCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odrfit.yaml"),
		[]byte("fit:\n  model: polynomial\n  degree: 2\n  suppress_plot: true\n"), 0o644))

	out, err := execute(t, "demo", "--params", "1,-0.5,0.25")
	require.NoError(t, err)
	assert.Contains(t, out, "polynomial (degree 2)")
	assert.Contains(t, out, "b2")
	assert.NotContains(t, out, "plot written")
}

func TestDemoCmd_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "demo", "--model", "spline", "--no-plot")
	require.Error(t, err)
	assert.Equal(t, 2, errors.ExitCode(err))

	_, err = execute(t, "demo", "--model", "polynomial", "--degree", "5", "--points", "4", "--no-plot")
	require.Error(t, err)
	assert.Equal(t, 3, errors.ExitCode(err))
	assert.True(t, strings.Contains(err.Error(), "insufficient data"))
}

// Package goodness summarises how well a fitted curve explains its data.
package goodness

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"odrfit/domain/fit"
	"odrfit/domain/measurement"
)

// Evaluate computes the reduced chi-square, its p-value and a summary of
// the normalised residuals of res against set.
//
// Each normalised residual is the signed orthogonal distance of a point in
// units of its combined error, sqrt((eps/sy)^2 + (delta/sx)^2), so the
// squares sum to res.SumSquare.
func Evaluate(set *measurement.Set, res *fit.Result) (*fit.Goodness, error) {
	n := set.Len()
	if len(res.Eps) != n || len(res.Delta) != n {
		return nil, fmt.Errorf("goodness: result has %d residuals for %d measurements", len(res.Eps), n)
	}

	residuals := make(stats.Float64Data, n)
	for i := 0; i < n; i++ {
		_, _, sx, sy := set.At(i)
		r := math.Hypot(res.Eps[i]/sy, res.Delta[i]/sx)
		residuals[i] = math.Copysign(r, res.Eps[i])
	}

	mean, err := residuals.Mean()
	if err != nil {
		return nil, err
	}
	stdDev, err := residuals.StandardDeviationSample()
	if err != nil {
		return nil, err
	}
	lo, err := residuals.Min()
	if err != nil {
		return nil, err
	}
	hi, err := residuals.Max()
	if err != nil {
		return nil, err
	}

	g := &fit.Goodness{
		ResidualMean:   mean,
		ResidualStdDev: stdDev,
		MaxAbsResidual: math.Max(math.Abs(lo), math.Abs(hi)),
		PValue:         math.NaN(),
	}
	if res.DOF > 0 {
		g.ReducedChiSquare = res.SumSquare / float64(res.DOF)
		chi2 := distuv.ChiSquared{K: float64(res.DOF)}
		g.PValue = chi2.Survival(res.SumSquare)
	} else {
		g.ReducedChiSquare = math.NaN()
	}
	return g, nil
}

// Verdict classifies a reduced chi-square.
func Verdict(g *fit.Goodness) string {
	switch rc := g.ReducedChiSquare; {
	case math.IsNaN(rc):
		return "undetermined"
	case rc < 0.5:
		return "overfit"
	case rc <= 2:
		return "good"
	case rc <= 5:
		return "marginal"
	default:
		return "poor"
	}
}

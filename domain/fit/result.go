package fit

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/mat"

	"odrfit/domain/core"
)

// StopReason records why the solver stopped iterating.
type StopReason string

const (
	StopSumSquares StopReason = "sum of squares convergence"
	StopParameters StopReason = "parameter convergence"
	StopBoth       StopReason = "sum of squares and parameter convergence"
	StopNoProgress StopReason = "no further reduction possible"
	StopIterations StopReason = "iteration limit reached"
	StopNumerical  StopReason = "numerical error"
)

// Converged reports whether r describes a usable solution.
func (r StopReason) Converged() bool {
	switch r {
	case StopSumSquares, StopParameters, StopBoth, StopNoProgress:
		return true
	}
	return false
}

// Result is the outcome of one orthogonal distance regression.
type Result struct {
	RunID core.RunID `json:"run_id"`
	Model string     `json:"model"`

	Params    []float64 `json:"params"`
	StdErrors []float64 `json:"std_errors"`
	// Covariance is the unscaled parameter covariance; multiply by ResVar
	// for the estimated covariance.
	Covariance *mat.SymDense `json:"-"`

	Delta []float64 `json:"delta"` // estimated x corrections
	Eps   []float64 `json:"eps"`   // y residuals at x+delta
	XPlus []float64 `json:"x_plus"`
	YFit  []float64 `json:"y_fit"`

	SumSquare   float64 `json:"sum_square"`
	DeltaSquare float64 `json:"delta_square"`
	EpsSquare   float64 `json:"eps_square"`
	ResVar      float64 `json:"res_var"`
	DOF         int     `json:"dof"`

	Iterations int        `json:"iterations"`
	Stop       StopReason `json:"stop_reason"`

	Goodness *Goodness `json:"goodness,omitempty"`
}

// Goodness summarises how well the fitted curve explains the data.
type Goodness struct {
	ReducedChiSquare float64 `json:"reduced_chi_square"`
	PValue           float64 `json:"p_value"`
	ResidualMean     float64 `json:"residual_mean"`
	ResidualStdDev   float64 `json:"residual_std_dev"`
	MaxAbsResidual   float64 `json:"max_abs_residual"`
}

// goodnessJSON is the wire form of Goodness. Statistics that are undetermined
// (NaN, e.g. with zero degrees of freedom) travel as null.
type goodnessJSON struct {
	ReducedChiSquare *float64 `json:"reduced_chi_square"`
	PValue           *float64 `json:"p_value"`
	ResidualMean     *float64 `json:"residual_mean"`
	ResidualStdDev   *float64 `json:"residual_std_dev"`
	MaxAbsResidual   *float64 `json:"max_abs_residual"`
}

func (g Goodness) MarshalJSON() ([]byte, error) {
	return json.Marshal(goodnessJSON{
		ReducedChiSquare: determined(g.ReducedChiSquare),
		PValue:           determined(g.PValue),
		ResidualMean:     determined(g.ResidualMean),
		ResidualStdDev:   determined(g.ResidualStdDev),
		MaxAbsResidual:   determined(g.MaxAbsResidual),
	})
}

func (g *Goodness) UnmarshalJSON(data []byte) error {
	var w goodnessJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*g = Goodness{
		ReducedChiSquare: undetermined(w.ReducedChiSquare),
		PValue:           undetermined(w.PValue),
		ResidualMean:     undetermined(w.ResidualMean),
		ResidualStdDev:   undetermined(w.ResidualStdDev),
		MaxAbsResidual:   undetermined(w.MaxAbsResidual),
	}
	return nil
}

func determined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func undetermined(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

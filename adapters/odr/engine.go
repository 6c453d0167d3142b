// Package odr fits models by explicit orthogonal distance regression. Both
// coordinates of every measurement carry Gaussian error, so the solver
// estimates a correction delta_i to each x alongside the model parameters and
// minimises
//
//	S(beta, delta) = sum_i (f(beta, x_i+delta_i) - y_i)^2 / sy_i^2 + delta_i^2 / sx_i^2
//
// with a Levenberg-Marquardt iteration.
package odr

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"odrfit/domain/core"
	"odrfit/domain/fit"
	"odrfit/domain/measurement"
	"odrfit/domain/model"
)

// Engine runs orthogonal distance regressions. It holds no per-fit state and
// may be reused.
type Engine struct {
	settings Settings
}

// NewEngine applies opts over DefaultSettings.
func NewEngine(opts ...Option) (*Engine, error) {
	settings := DefaultSettings()
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return nil, err
		}
	}
	return &Engine{settings: settings}, nil
}

// Settings returns the effective solver settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// problem is the immutable description of one regression.
type problem struct {
	m      model.Model
	x, y   []float64
	wx, wy []float64
	n, p   int
}

func newProblem(set *measurement.Set, m model.Model) *problem {
	n := set.Len()
	pr := &problem{
		m:  m,
		x:  set.X(),
		y:  set.Y(),
		wx: make([]float64, n),
		wy: make([]float64, n),
		n:  n,
		p:  m.NumParams(),
	}
	for i, sx := range set.XErr() {
		pr.wx[i] = 1 / (sx * sx)
	}
	for i, sy := range set.YErr() {
		pr.wy[i] = 1 / (sy * sy)
	}
	return pr
}

// state is one iterate together with its residuals and derivatives.
type state struct {
	beta  []float64
	delta []float64
	eps   []float64

	grad  *mat.Dense
	slope []float64

	epsSq   float64
	deltaSq float64
}

func (s *state) cost() float64 { return s.epsSq + s.deltaSq }

func (pr *problem) evaluate(beta, delta []float64) *state {
	st := &state{
		beta:  beta,
		delta: delta,
		eps:   make([]float64, pr.n),
	}
	for i := 0; i < pr.n; i++ {
		e := pr.m.Eval(beta, pr.x[i]+delta[i]) - pr.y[i]
		st.eps[i] = e
		st.epsSq += pr.wy[i] * e * e
		st.deltaSq += pr.wx[i] * delta[i] * delta[i]
	}
	return st
}

func (pr *problem) linearize(st *state) {
	st.grad = mat.NewDense(pr.n, pr.p, nil)
	st.slope = make([]float64, pr.n)
	for i := 0; i < pr.n; i++ {
		xp := pr.x[i] + st.delta[i]
		pr.m.ParamGrad(st.beta, xp, st.grad.RawRowView(i))
		st.slope[i] = pr.m.Slope(st.beta, xp)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Fit runs the regression from beta0. A nil beta0 selects the model's own
// initial guess.
func (e *Engine) Fit(ctx context.Context, set *measurement.Set, m model.Model, beta0 []float64) (*fit.Result, error) {
	if set == nil || m == nil {
		return nil, core.NewConfigurationError("fit", "measurement set and model are required")
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if beta0 == nil {
		beta0 = m.InitialGuess(set.X(), set.Y())
	}
	if err := model.CheckParams(m, beta0); err != nil {
		return nil, err
	}
	if set.Len() < m.NumParams() {
		return nil, core.NewInsufficientDataError(set.Len(), m.NumParams())
	}

	log := e.settings.Logger
	pr := newProblem(set, m)

	st := pr.evaluate(append([]float64(nil), beta0...), make([]float64, pr.n))
	if !finite(st.cost()) {
		return nil, core.NewConvergenceError(fmt.Sprintf("%s: initial sum of squares is not finite", fit.StopNumerical), 0)
	}

	lambda := e.settings.Damping
	iterations := 0
	var stop fit.StopReason

	for stop == "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if st.cost() == 0 {
			stop = fit.StopSumSquares
			break
		}
		if iterations >= e.settings.MaxIterations {
			stop = fit.StopIterations
			break
		}

		pr.linearize(st)
		ne := newNormalEq(pr, st)

		accepted := false
		for !accepted {
			if lambda > maxDamping {
				stop = fit.StopNoProgress
				break
			}

			dBeta, dDelta, pred, err := ne.step(lambda)
			if err != nil {
				lambda *= 10
				continue
			}

			beta := append([]float64(nil), st.beta...)
			delta := append([]float64(nil), st.delta...)
			floats.Add(beta, dBeta)
			floats.Add(delta, dDelta)
			trial := pr.evaluate(beta, delta)

			if !finite(trial.cost()) || trial.cost() >= st.cost() {
				lambda *= 10
				continue
			}

			accepted = true
			iterations++

			old := st.cost()
			actRel := (old - trial.cost()) / old
			predRel := pred / old

			stepNorm := math.Hypot(floats.Norm(dBeta, 2), floats.Norm(dDelta, 2))
			sizeNorm := math.Hypot(floats.Norm(st.beta, 2), floats.Norm(st.delta, 2))

			sumSqDone := actRel <= e.settings.SumSquaresTol && predRel <= e.settings.SumSquaresTol && actRel <= 2*predRel
			paramDone := stepNorm <= e.settings.ParamTol*(sizeNorm+e.settings.ParamTol)
			switch {
			case sumSqDone && paramDone:
				stop = fit.StopBoth
			case sumSqDone:
				stop = fit.StopSumSquares
			case paramDone:
				stop = fit.StopParameters
			}

			log.Trace("odr iteration %d: S=%.6g lambda=%.3g act=%.3g pred=%.3g", iterations, trial.cost(), lambda, actRel, predRel)

			st = trial
			lambda = math.Max(lambda/10, minDamping)
		}
	}

	if stop == fit.StopNoProgress {
		log.Warn("odr %s: no damped step lowers S=%.6g after %d iterations; check the starting parameters if the fit looks wrong", m.Name(), st.cost(), iterations)
	}
	if !stop.Converged() {
		log.Warn("odr %s stopped: %s after %d iterations (S=%.6g)", m.Name(), stop, iterations, st.cost())
		return nil, core.NewConvergenceError(string(stop), iterations)
	}

	pr.linearize(st)
	cov, err := newNormalEq(pr, st).covariance()
	if err != nil {
		return nil, core.NewConvergenceError(fmt.Sprintf("%s: %v", fit.StopNumerical, err), iterations)
	}

	res := e.result(pr, st, cov, iterations, stop)
	log.Debug("odr %s converged: %s after %d iterations, S=%.6g", m.Name(), stop, iterations, res.SumSquare)
	return res, nil
}

func (e *Engine) result(pr *problem, st *state, cov *mat.SymDense, iterations int, stop fit.StopReason) *fit.Result {
	dof := pr.n - pr.p
	resVar := st.cost()
	if dof > 0 {
		resVar /= float64(dof)
	}

	stdErr := make([]float64, pr.p)
	for j := range stdErr {
		stdErr[j] = math.Sqrt(cov.At(j, j) * resVar)
	}

	xPlus := make([]float64, pr.n)
	yFit := make([]float64, pr.n)
	for i := range xPlus {
		xPlus[i] = pr.x[i] + st.delta[i]
		yFit[i] = pr.m.Eval(st.beta, xPlus[i])
	}

	return &fit.Result{
		Model:       pr.m.Name(),
		Params:      append([]float64(nil), st.beta...),
		StdErrors:   stdErr,
		Covariance:  cov,
		Delta:       append([]float64(nil), st.delta...),
		Eps:         append([]float64(nil), st.eps...),
		XPlus:       xPlus,
		YFit:        yFit,
		SumSquare:   st.cost(),
		DeltaSquare: st.deltaSq,
		EpsSquare:   st.epsSq,
		ResVar:      resVar,
		DOF:         dof,
		Iterations:  iterations,
		Stop:        stop,
	}
}

package app

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"odrfit/adapters/stats/goodness"
	"odrfit/domain/core"
	"odrfit/domain/fit"
	"odrfit/domain/measurement"
	"odrfit/domain/model"
	"odrfit/internal"
	"odrfit/ports"
)

// CurveSamples is the number of points the fitted curve is evaluated at for plotting.
const CurveSamples = 1000

// FitService fits a model to a measurement set and optionally plots the result.
type FitService struct {
	regression ports.RegressionPort
	renderer   ports.PlotRendererPort
	logger     *internal.Logger
}

// FitRequest selects the model and presentation of one fit.
type FitRequest struct {
	Model  string `json:"model" yaml:"model"`
	Degree int    `json:"degree" yaml:"degree"`
	// InitialGuess overrides the model's starting parameters when non-nil.
	InitialGuess []float64 `json:"initial_guess,omitempty" yaml:"initial_guess"`

	SuppressPlot   bool `json:"suppress_plot" yaml:"suppress_plot"`
	SuppressOutput bool `json:"suppress_output" yaml:"suppress_output"`

	Title  string `json:"title" yaml:"title"`
	XLabel string `json:"xlabel" yaml:"xlabel"`
	YLabel string `json:"ylabel" yaml:"ylabel"`
}

// DefaultFitRequest returns a linear fit with plotting enabled and the default labels.
func DefaultFitRequest() FitRequest {
	return FitRequest{
		Model:  string(model.KindLinear),
		Degree: 1,
		Title:  "Plot with fit",
		XLabel: "x-axis",
		YLabel: "y-axis",
	}
}

// withDefaults fills empty model and label fields. Degree is left alone since
// zero is a valid polynomial degree.
func (r FitRequest) withDefaults() FitRequest {
	d := DefaultFitRequest()
	if r.Model == "" {
		r.Model = d.Model
	}
	if r.Title == "" {
		r.Title = d.Title
	}
	if r.XLabel == "" {
		r.XLabel = d.XLabel
	}
	if r.YLabel == "" {
		r.YLabel = d.YLabel
	}
	return r
}

// NewFitService wires a regression engine and an optional renderer. A nil
// logger discards diagnostics.
func NewFitService(regression ports.RegressionPort, renderer ports.PlotRendererPort, logger *internal.Logger) *FitService {
	if logger == nil {
		logger = internal.Discard()
	}
	return &FitService{
		regression: regression,
		renderer:   renderer,
		logger:     logger,
	}
}

// Fit validates the inputs, runs the regression and hands the data and fitted
// curve to the renderer unless plotting is suppressed. With SuppressOutput
// set it returns a nil result and a nil error on success.
func (s *FitService) Fit(ctx context.Context, set *measurement.Set, req FitRequest) (*fit.Result, error) {
	req = req.withDefaults()
	runID := core.NewRunID()

	if set == nil {
		return nil, core.NewConfigurationError("data", "measurement set is required")
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	m, err := model.Parse(req.Model, req.Degree)
	if err != nil {
		return nil, err
	}
	if req.InitialGuess != nil {
		if err := model.CheckParams(m, req.InitialGuess); err != nil {
			return nil, err
		}
	}
	if set.Len() < m.NumParams() {
		return nil, core.NewInsufficientDataError(set.Len(), m.NumParams())
	}
	if !req.SuppressPlot && s.renderer == nil {
		return nil, core.NewConfigurationError("plot", "no renderer configured; suppress the plot or provide one")
	}

	s.logger.Info("fit %s: %s on %d measurements", runID, m.Name(), set.Len())

	res, err := s.regression.Fit(ctx, set, m, req.InitialGuess)
	if err != nil {
		s.logger.Error("fit %s: %v", runID, err)
		return nil, err
	}
	res.RunID = runID

	g, err := goodness.Evaluate(set, res)
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", runID, err)
	}
	res.Goodness = g

	s.logger.Debug("fit %s: params=%v std_errors=%v reduced_chi2=%.4g iterations=%d (%s)",
		runID, res.Params, res.StdErrors, g.ReducedChiSquare, res.Iterations, res.Stop)

	if !req.SuppressPlot {
		if err := s.renderer.Render(PlotRequest(set, m, res.Params, req)); err != nil {
			return nil, fmt.Errorf("fit %s: render: %w", runID, err)
		}
	}

	if req.SuppressOutput {
		return nil, nil
	}
	return res, nil
}

// PlotRequest assembles the renderer input: every measurement with both error
// bars and the fitted curve sampled evenly over the x-range of the data.
func PlotRequest(set *measurement.Set, m model.Model, params []float64, req FitRequest) ports.PlotRequest {
	predict := model.Predict(m, params)

	points := make([]ports.PlotPoint, set.Len())
	for i := range points {
		x, y, xErr, yErr := set.At(i)
		points[i] = ports.PlotPoint{X: x, Y: y, XErr: xErr, YErr: yErr}
	}

	lo, hi := set.XRange()
	curveX := floats.Span(make([]float64, CurveSamples), lo, hi)
	curveY := make([]float64, CurveSamples)
	for i, x := range curveX {
		curveY[i] = predict(x)
	}

	return ports.PlotRequest{
		Points:     points,
		CurveX:     curveX,
		CurveY:     curveY,
		Title:      req.Title,
		XLabel:     req.XLabel,
		YLabel:     req.YLabel,
		DataLabel:  "data with errorbars",
		CurveLabel: fmt.Sprintf("%s fit on data", m.Name()),
	}
}

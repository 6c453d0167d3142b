package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"odrfit/adapters/gonumplot"
	"odrfit/adapters/odr"
	"odrfit/adapters/stats/goodness"
	"odrfit/app"
	"odrfit/domain/fit"
	"odrfit/domain/model"
	"odrfit/internal"
	"odrfit/internal/config"
	"odrfit/internal/errors"
	"odrfit/internal/testkit"
	"odrfit/ports"
)

type demoOptions struct {
	model    string
	degree   int
	params   []float64
	points   int
	xMin     float64
	xMax     float64
	xErr     float64
	yErr     float64
	noise    float64
	seed     uint64
	noPlot   bool
	output   string
	jsonMode bool
}

func newDemoCmd(configPath *string) *cobra.Command {
	opts := demoOptions{}
	gen := testkit.DefaultGeneratorConfig()

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fit a model to synthetic measurements drawn around a known curve",
		Long: `Generate measurements with Gaussian scatter on both axes around a known
curve, fit them by orthogonal distance regression and report the recovered
parameters with their standard errors.

Example: odrfit demo --model exponential --params 2,0.5 --x-min 0 --x-max 4 --noise 1 --output fit.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			applyDemoFlags(cmd, cfg, &opts)
			return runDemo(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.model, "model", "", "model: linear, polynomial or exponential (overrides config)")
	cmd.Flags().IntVar(&opts.degree, "degree", 1, "polynomial degree (overrides config)")
	cmd.Flags().Float64SliceVar(&opts.params, "params", nil, "true curve parameters (default: 2 for linear, 1 for every polynomial coefficient, 2,0.5 for exponential)")
	cmd.Flags().IntVar(&opts.points, "points", gen.Points, "number of measurements")
	cmd.Flags().Float64Var(&opts.xMin, "x-min", gen.XMin, "smallest true x")
	cmd.Flags().Float64Var(&opts.xMax, "x-max", gen.XMax, "largest true x")
	cmd.Flags().Float64Var(&opts.xErr, "x-err", gen.XErr, "reported x standard deviation")
	cmd.Flags().Float64Var(&opts.yErr, "y-err", gen.YErr, "reported y standard deviation")
	cmd.Flags().Float64Var(&opts.noise, "noise", gen.Noise, "applied scatter in units of the reported errors")
	cmd.Flags().Uint64Var(&opts.seed, "seed", gen.Seed, "random seed")
	cmd.Flags().BoolVar(&opts.noPlot, "no-plot", false, "skip rendering the plot")
	cmd.Flags().StringVar(&opts.output, "output", "", "plot file; extension selects png, svg or pdf (overrides config)")
	cmd.Flags().BoolVar(&opts.jsonMode, "json", false, "print the full result as JSON")

	return cmd
}

// applyDemoFlags lets explicitly set flags win over the loaded config.
func applyDemoFlags(cmd *cobra.Command, cfg *config.Config, opts *demoOptions) {
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Fit.Model = opts.model
	}
	if flags.Changed("degree") {
		cfg.Fit.Degree = opts.degree
	}
	if flags.Changed("no-plot") {
		cfg.Fit.SuppressPlot = opts.noPlot
	}
	if flags.Changed("output") {
		cfg.Plot.Output = opts.output
	}
}

func defaultParams(m model.Model) []float64 {
	switch m.Kind() {
	case model.KindLinear:
		return []float64{2}
	case model.KindExponential:
		return []float64{2, 0.5}
	}
	params := make([]float64, m.NumParams())
	for i := range params {
		params[i] = 1
	}
	return params
}

func newEngine(cfg config.SolverConfig, logger *internal.Logger) (*odr.Engine, error) {
	opts := []odr.Option{odr.WithLogger(logger)}
	if cfg.MaxIterations > 0 {
		opts = append(opts, odr.WithMaxIterations(cfg.MaxIterations))
	}
	if cfg.SumSquaresTol > 0 {
		opts = append(opts, odr.WithSumSquaresTol(cfg.SumSquaresTol))
	}
	if cfg.ParamTol > 0 {
		opts = append(opts, odr.WithParamTol(cfg.ParamTol))
	}
	if cfg.Damping > 0 {
		opts = append(opts, odr.WithDamping(cfg.Damping))
	}
	return odr.NewEngine(opts...)
}

func newRenderer(cfg config.Config) (ports.PlotRendererPort, error) {
	if cfg.Fit.SuppressPlot {
		return nil, nil
	}
	r, err := gonumplot.NewFileRenderer(cfg.Plot.Output)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "plot.output")
	}
	return r.WithSize(vg.Length(cfg.Plot.Width)*vg.Inch, vg.Length(cfg.Plot.Height)*vg.Inch), nil
}

func runDemo(cmd *cobra.Command, cfg *config.Config, opts demoOptions) error {
	level, _ := internal.ParseLogLevel(cfg.LogLevel)
	logger := internal.NewLoggerTo(cmd.ErrOrStderr(), level)

	m, err := model.Parse(cfg.Fit.Model, cfg.Fit.Degree)
	if err != nil {
		return err
	}
	params := opts.params
	if params == nil {
		params = defaultParams(m)
	}

	gen := testkit.GeneratorConfig{
		Model:  m,
		Params: params,
		Points: opts.points,
		XMin:   opts.xMin,
		XMax:   opts.xMax,
		XErr:   opts.xErr,
		YErr:   opts.yErr,
		Noise:  opts.noise,
		Seed:   opts.seed,
	}
	set, err := testkit.NewMeasurementGenerator(gen).Generate()
	if err != nil {
		return errors.Wrap(errors.InvalidInput(err.Error()), "generate measurements")
	}

	engine, err := newEngine(cfg.Solver, logger)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(*cfg)
	if err != nil {
		return err
	}

	svc := app.NewFitService(engine, renderer, logger)
	res, err := svc.Fit(cmd.Context(), set, app.FitRequest{
		Model:          cfg.Fit.Model,
		Degree:         cfg.Fit.Degree,
		SuppressPlot:   cfg.Fit.SuppressPlot,
		SuppressOutput: cfg.Fit.SuppressOutput,
		Title:          cfg.Fit.Title,
		XLabel:         cfg.Fit.XLabel,
		YLabel:         cfg.Fit.YLabel,
	})
	if err != nil {
		return errors.Wrapf(err, "fit %s", m.Name())
	}

	out := cmd.OutOrStdout()
	if res != nil {
		if opts.jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
		} else {
			printResult(out, params, res)
		}
	}
	if !cfg.Fit.SuppressPlot {
		fmt.Fprintf(out, "plot written to %s\n", cfg.Plot.Output)
	}
	return nil
}

func printResult(w io.Writer, truth []float64, res *fit.Result) {
	fmt.Fprintf(w, "model:       %s\n", res.Model)
	fmt.Fprintf(w, "run:         %s\n", res.RunID)
	for i, p := range res.Params {
		fmt.Fprintf(w, "b%-2d         %.6g ± %.2g (true %.6g)\n", i, p, res.StdErrors[i], truth[i])
	}
	fmt.Fprintf(w, "iterations:  %d (%s)\n", res.Iterations, res.Stop)
	if g := res.Goodness; g != nil {
		fmt.Fprintf(w, "chi2/dof:    %.4g (p=%.3g, %s)\n", g.ReducedChiSquare, g.PValue, goodness.Verdict(g))
	}
}

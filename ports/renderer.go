package ports

// PlotPoint is one measurement with its error bars.
type PlotPoint struct {
	X, Y       float64
	XErr, YErr float64
}

// PlotRequest carries everything a renderer needs; the fitted curve is
// already sampled.
type PlotRequest struct {
	Points []PlotPoint
	CurveX []float64
	CurveY []float64

	Title  string
	XLabel string
	YLabel string

	DataLabel  string
	CurveLabel string
}

// PlotRendererPort draws measured points with error bars on both axes,
// overlaid with the fitted curve and a legend.
type PlotRendererPort interface {
	Render(req PlotRequest) error
}

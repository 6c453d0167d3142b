// Package gonumplot renders fit plots with gonum.org/v1/plot.
package gonumplot

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"odrfit/ports"
)

const (
	DefaultWidth  = 9 * vg.Inch
	DefaultHeight = 7 * vg.Inch
)

var (
	dataColor  = color.RGBA{R: 220, A: 255}
	curveColor = color.RGBA{B: 220, A: 255}
)

// errorPoints satisfies the XYer, XErrorer and YErrorer interfaces at once.
type errorPoints struct {
	plotter.XYs
	plotter.XErrors
	plotter.YErrors
}

// Renderer writes one figure per Render call, either to a file or to a writer.
type Renderer struct {
	path   string
	out    io.Writer
	format string
	width  vg.Length
	height vg.Length
}

// NewFileRenderer saves figures to path; the extension picks the format
// (png, svg, pdf, jpg, eps, tif).
func NewFileRenderer(path string) (*Renderer, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return nil, fmt.Errorf("plot output %q has no file extension", path)
	}
	return &Renderer{path: path, format: format, width: DefaultWidth, height: DefaultHeight}, nil
}

// NewWriterRenderer streams figures in the given format to w.
func NewWriterRenderer(w io.Writer, format string) *Renderer {
	return &Renderer{out: w, format: format, width: DefaultWidth, height: DefaultHeight}
}

// WithSize overrides the 9x7 inch default figure size.
func (r *Renderer) WithSize(width, height vg.Length) *Renderer {
	r.width, r.height = width, height
	return r
}

// Path returns the output file, if any.
func (r *Renderer) Path() string { return r.path }

// Render implements ports.PlotRendererPort.
func (r *Renderer) Render(req ports.PlotRequest) error {
	p, err := build(req)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(r.width, r.height, r.format)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	if r.out != nil {
		_, err = wt.WriteTo(r.out)
		return err
	}
	return writeFile(r.path, wt)
}

// writeFile owns the output file for the duration of one write.
func writeFile(path string, wt io.WriterTo) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = wt.WriteTo(f)
	return err
}

func build(req ports.PlotRequest) (*plot.Plot, error) {
	if len(req.Points) == 0 {
		return nil, fmt.Errorf("plot: no data points")
	}
	if len(req.CurveX) != len(req.CurveY) {
		return nil, fmt.Errorf("plot: curve has %d x and %d y samples", len(req.CurveX), len(req.CurveY))
	}

	p := plot.New()
	p.Title.Text = req.Title
	p.X.Label.Text = req.XLabel
	p.Y.Label.Text = req.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	data := errorPoints{
		XYs:     make(plotter.XYs, len(req.Points)),
		XErrors: make(plotter.XErrors, len(req.Points)),
		YErrors: make(plotter.YErrors, len(req.Points)),
	}
	for i, pt := range req.Points {
		data.XYs[i].X, data.XYs[i].Y = pt.X, pt.Y
		data.XErrors[i].Low, data.XErrors[i].High = pt.XErr, pt.XErr
		data.YErrors[i].Low, data.YErrors[i].High = pt.YErr, pt.YErr
	}

	scatter, err := plotter.NewScatter(data)
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	scatter.GlyphStyle.Color = dataColor
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	xBars, err := plotter.NewXErrorBars(data)
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	xBars.LineStyle.Color = dataColor

	yBars, err := plotter.NewYErrorBars(data)
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	yBars.LineStyle.Color = dataColor

	p.Add(scatter, xBars, yBars)
	p.Legend.Add(req.DataLabel, scatter)

	if len(req.CurveX) > 0 {
		curve := make(plotter.XYs, len(req.CurveX))
		for i := range curve {
			curve[i].X, curve[i].Y = req.CurveX[i], req.CurveY[i]
		}
		line, err := plotter.NewLine(curve)
		if err != nil {
			return nil, fmt.Errorf("plot: %w", err)
		}
		line.LineStyle.Color = curveColor
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(req.CurveLabel, line)
	}

	return p, nil
}

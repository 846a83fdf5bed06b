package graphcalc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/draw"
	"github.com/gogpu/graphcalc/internal/logging"
	"github.com/gogpu/graphcalc/plot"
	"github.com/gogpu/graphcalc/provider"
	"github.com/gogpu/graphcalc/session"
	"github.com/gogpu/graphcalc/stats"
	"github.com/gogpu/graphcalc/viewport"
)

// Frame is an immutable snapshot of a graph. Lines and Expressions are
// aligned by index.
type Frame struct {
	Viewport      viewport.Viewport
	Width, Height int
	Theme         string
	Quality       float64

	Lines       []plot.Compiled
	Expressions []session.Expression
	StatPlots   []session.StatPlot
	Ans         float64

	stats   *provider.Handle[stats.Provider]
	markers bool
	labels  bool
}

func exprValues(es []*session.Expression) []session.Expression {
	out := make([]session.Expression, len(es))
	for i, e := range es {
		out[i] = *e
	}
	return out
}

// explicitCurves picks the visible error-free explicit lines.
func explicitCurves(lines []plot.Compiled, es []session.Expression) []analysis.Curve {
	var out []analysis.Curve
	for i := range lines {
		l := &lines[i]
		if i >= len(es) || !es[i].Visible || !l.OK() {
			continue
		}
		ex, ok := l.Curve.(*plot.Explicit)
		if !ok {
			continue
		}
		out = append(out, analysis.Curve{
			ID:        l.ID,
			Color:     es[i].Color,
			F:         ex.F,
			Domain:    es[i].Domain,
			Intersect: es[i].Intersect,
		})
	}
	return out
}

// Curves returns the lines taking part in analysis.
func (f *Frame) Curves() []analysis.Curve {
	return explicitCurves(f.Lines, f.Expressions)
}

// Analyze computes intercepts, extrema and intersections of the visible
// explicit lines.
func (f *Frame) Analyze() []analysis.Point {
	start := time.Now()
	pts := analysis.Analyze(f.Curves(), f.Viewport, f.Width, f.Quality)
	logging.Logger().Debug("graphcalc: analyzed", "points", len(pts), "elapsed", time.Since(start))
	return pts
}

// Errors returns the compile error of every line that has one, keyed by
// line id.
func (f *Frame) Errors() map[string]error {
	out := make(map[string]error)
	for _, l := range f.Lines {
		if l.Err != nil {
			out[l.ID] = l.Err
		}
	}
	return out
}

// Render draws the frame: background, grid, every visible line in order,
// statistics plots and analysis markers. The caller closes the canvas.
func (f *Frame) Render(ctx context.Context) (*draw.Canvas, error) {
	start := time.Now()
	opts := []draw.Option{
		draw.WithTheme(draw.ThemeByName(f.Theme)),
		draw.WithQuality(f.Quality),
	}
	if !f.labels {
		opts = append(opts, draw.WithoutLabels())
	}
	c, err := draw.NewCanvas(f.Width, f.Height, f.Viewport, opts...)
	if err != nil {
		return nil, err
	}

	c.Clear()
	errs := []error{c.Grid()}
	for i := range f.Lines {
		e := f.Expressions[i]
		if !e.Visible {
			continue
		}
		errs = append(errs, c.Line(&f.Lines[i], e.Domain, draw.StyleFor(e.Color, e.LineWidth)))
	}
	errs = append(errs, f.renderStats(ctx, c))
	if f.markers {
		errs = append(errs, c.Markers(f.Analyze()))
	}

	logging.Logger().Debug("graphcalc: rendered",
		"size", fmt.Sprintf("%dx%d", f.Width, f.Height), "lines", len(f.Lines), "elapsed", time.Since(start))
	return c, errors.Join(errs...)
}

// renderStats draws the statistics plots. A plot whose distribution cannot
// be built is skipped and logged.
func (f *Frame) renderStats(ctx context.Context, c *draw.Canvas) error {
	if len(f.StatPlots) == 0 || f.stats == nil {
		return nil
	}
	p, err := f.stats.Get(ctx)
	if err != nil {
		logging.Logger().Warn("graphcalc: statistics unavailable", "err", err)
		return nil
	}
	var errs []error
	for _, sp := range f.StatPlots {
		if !sp.Visible {
			continue
		}
		d, err := p.Distribution(sp.Distribution, sp.Params...)
		if err != nil {
			logging.Logger().Warn("graphcalc: stat plot skipped", "id", sp.ID, "err", err)
			continue
		}
		errs = append(errs, drawDistribution(c, d, sp.Mode, draw.StyleFor(sp.Color, session.DefaultLineWidth)))
	}
	return errors.Join(errs...)
}

// drawDistribution draws the density or mass function of d, or its CDF.
func drawDistribution(c *draw.Canvas, d stats.Distribution, mode session.StatMode, s draw.Style) error {
	if mode == session.ModeCDF {
		return c.CDF(d.CDF, d.Discrete(), s)
	}
	switch d := d.(type) {
	case stats.Discrete:
		return c.PMF(d.PMF, s)
	case stats.Continuous:
		return c.Function(d.PDF, s)
	}
	return nil
}

// WritePNG renders the frame and writes it as PNG.
func (f *Frame) WritePNG(ctx context.Context, w io.Writer) error {
	c, err := f.Render(ctx)
	if c == nil {
		return err
	}
	defer c.Close()
	return errors.Join(err, c.EncodePNG(w))
}

package draw

import (
	"errors"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/internal/logging"
	"github.com/gogpu/graphcalc/plot"
	"github.com/gogpu/graphcalc/viewport"
)

// Rendering constants, in pixels unless noted.
const (
	FillAlpha    = 0.25 // opacity of inequality regions
	MarkerRadius = 4.5
	StemDot      = 3.0
	AxisWidth    = 1.5
)

func setColor(dc *gg.Context, c gg.RGBA) {
	dc.SetRGBA(c.R, c.G, c.B, c.A)
}

func applyStyle(dc *gg.Context, s Style) {
	setColor(dc, s.Color)
	dc.SetLineWidth(s.Width)
	if s.Dashed {
		dc.SetDash(4*s.Width, 3*s.Width)
	} else {
		dc.ClearDash()
	}
}

// StrokePolylines strokes every polyline as one path.
func StrokePolylines(dc *gg.Context, lines []Polyline, s Style) error {
	if len(lines) == 0 {
		return nil
	}
	applyStyle(dc, s)
	for _, l := range lines {
		dc.MoveTo(l[0].X, l[0].Y)
		for _, p := range l[1:] {
			dc.LineTo(p.X, p.Y)
		}
	}
	err := dc.Stroke()
	dc.ClearDash()
	return err
}

// StrokeSegments strokes every segment as one path.
func StrokeSegments(dc *gg.Context, segs []Segment, s Style) error {
	if len(segs) == 0 {
		return nil
	}
	applyStyle(dc, s)
	for _, sg := range segs {
		dc.DrawLine(sg.A.X, sg.A.Y, sg.B.X, sg.B.Y)
	}
	err := dc.Stroke()
	dc.ClearDash()
	return err
}

// FillRects fills every rectangle with c.
func FillRects(dc *gg.Context, rects []Rect, c gg.RGBA) error {
	if len(rects) == 0 {
		return nil
	}
	setColor(dc, c)
	for _, r := range rects {
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	}
	return dc.Fill()
}

// DrawGrid draws minor then major gridlines, the axes when they are in
// view and major labels when face is non-nil. Labels of an off-screen axis
// are pinned to the nearest canvas edge.
func DrawGrid(dc *gg.Context, tr viewport.Transform, th Theme, face text.Face) error {
	g := GridFor(tr.Viewport())
	w, h := tr.Width(), tr.Height()

	gridLines := func(xs, ys []float64, c gg.RGBA, width float64) error {
		if len(xs)+len(ys) == 0 {
			return nil
		}
		setColor(dc, c)
		dc.SetLineWidth(width)
		dc.ClearDash()
		for _, x := range xs {
			px := crisp(tr.XToPixel(x))
			dc.DrawLine(px, 0, px, h)
		}
		for _, y := range ys {
			py := crisp(tr.YToPixel(y))
			dc.DrawLine(0, py, w, py)
		}
		return dc.Stroke()
	}

	err := errors.Join(
		gridLines(g.XMinor, g.YMinor, th.MinorGrid, 1),
		gridLines(g.XMajor, g.YMajor, th.MajorGrid, 1),
	)

	var ax, ay []float64
	if g.YAxis {
		ax = []float64{0}
	}
	if g.XAxis {
		ay = []float64{0}
	}
	err = errors.Join(err, gridLines(ax, ay, th.Axis, AxisWidth))

	if face != nil {
		drawLabels(dc, tr, g, th, face)
	}
	return err
}

// crisp centers a 1px line on a pixel.
func crisp(v float64) float64 {
	return math.Floor(v) + 0.5
}

func drawLabels(dc *gg.Context, tr viewport.Transform, g Grid, th Theme, face text.Face) {
	const pad = 3.0
	w, h := tr.Width(), tr.Height()
	dc.SetFont(face)
	setColor(dc, th.Label)

	_, lh := dc.MeasureString("0")
	axisY := clamp(tr.YToPixel(0), 0, h-lh-2*pad)
	for _, x := range g.XMajor {
		if x == 0 {
			continue
		}
		dc.DrawStringAnchored(Label(x), tr.XToPixel(x), axisY+pad, 0.5, 1)
	}

	axisX := tr.XToPixel(0)
	for _, y := range g.YMajor {
		if y == 0 {
			continue
		}
		s := Label(y)
		lw, _ := dc.MeasureString(s)
		px := clamp(axisX, lw+2*pad, w)
		dc.DrawStringAnchored(s, px-pad, tr.YToPixel(y), 1, 0.5)
	}
	if g.XAxis && g.YAxis {
		dc.DrawStringAnchored("0", axisX-pad, axisY+pad, 1, 1)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// DrawExplicit strokes y = f(x).
func DrawExplicit(dc *gg.Context, tr viewport.Transform, f func(float64) float64, dom analysis.Domain, s Style, quality float64) error {
	return StrokePolylines(dc, SampleExplicit(f, tr, quality, dom), s)
}

// DrawImplicit strokes the zero set of F.
func DrawImplicit(dc *gg.Context, tr viewport.Transform, F func(x, y float64) float64, s Style, quality float64) error {
	return StrokeSegments(dc, MarchingSquares(F, tr, quality), s)
}

// DrawInequality fills the region satisfying in and strokes its boundary,
// dashed for a strict operator.
func DrawInequality(dc *gg.Context, tr viewport.Transform, in *plot.Inequality, s Style, quality float64) error {
	inside := func(x, y float64) bool { return in.Op.Holds(in.F(x, y)) }
	err := FillRects(dc, InequalityCells(inside, tr, quality), s.withAlpha(FillAlpha))
	s.Dashed = in.Op.Strict()
	return errors.Join(err, DrawImplicit(dc, tr, in.F, s, quality))
}

// DrawDoubleInequality fills the region where both conditions hold and
// strokes both boundaries.
func DrawDoubleInequality(dc *gg.Context, tr viewport.Transform, d *plot.DoubleInequality, s Style, quality float64) error {
	inside := func(x, y float64) bool {
		return d.Op1.Holds(d.F1(x, y)) && d.Op2.Holds(d.F2(x, y))
	}
	err := FillRects(dc, InequalityCells(inside, tr, quality), s.withAlpha(FillAlpha))
	b1, b2 := s, s
	b1.Dashed, b2.Dashed = d.Op1.Strict(), d.Op2.Strict()
	return errors.Join(err,
		DrawImplicit(dc, tr, d.F1, b1, quality),
		DrawImplicit(dc, tr, d.F2, b2, quality),
	)
}

// DrawParametric strokes (X(t), Y(t)).
func DrawParametric(dc *gg.Context, tr viewport.Transform, p *plot.Parametric, s Style, quality float64) error {
	n := ParametricSamples(tr, quality)
	return StrokePolylines(dc, SampleParametric(p.X, p.Y, p.TMin, p.TMax, n, tr), s)
}

// DrawPolar strokes r = R(theta).
func DrawPolar(dc *gg.Context, tr viewport.Transform, p *plot.Polar, s Style, quality float64) error {
	n := PolarSamples(tr, quality)
	return StrokePolylines(dc, SamplePolar(p.R, p.ThetaMin, p.ThetaMax, n, tr), s)
}

// DrawCompiled dispatches on the curve kind. Lines that failed to compile,
// blank lines and calculator lines draw nothing.
func DrawCompiled(dc *gg.Context, tr viewport.Transform, c *plot.Compiled, dom analysis.Domain, s Style, quality float64) error {
	if !c.OK() {
		return nil
	}
	logging.Logger().Debug("draw: curve", "id", c.ID, "kind", c.Kind)
	switch cv := c.Curve.(type) {
	case *plot.Explicit:
		return DrawExplicit(dc, tr, cv.F, dom, s, quality)
	case *plot.Implicit:
		return DrawImplicit(dc, tr, cv.F, s, quality)
	case *plot.Inequality:
		return DrawInequality(dc, tr, cv, s, quality)
	case *plot.DoubleInequality:
		return DrawDoubleInequality(dc, tr, cv, s, quality)
	case *plot.Parametric:
		return DrawParametric(dc, tr, cv, s, quality)
	case *plot.Polar:
		return DrawPolar(dc, tr, cv, s, quality)
	case *plot.Scalar:
		return nil
	default:
		return nil
	}
}

// DrawPMF draws a stem with a dot on top for every integer with mass.
func DrawPMF(dc *gg.Context, tr viewport.Transform, pmf func(float64) float64, s Style) error {
	stems := PMFStems(pmf, tr)
	err := StrokeSegments(dc, stems, s)
	if len(stems) == 0 {
		return err
	}
	setColor(dc, s.Color)
	for _, st := range stems {
		dc.DrawCircle(st.B.X, st.B.Y, StemDot)
	}
	return errors.Join(err, dc.Fill())
}

// DrawCDF draws a cumulative distribution. Discrete distributions step at
// the integers; continuous ones are sampled like an explicit curve.
func DrawCDF(dc *gg.Context, tr viewport.Transform, cdf func(float64) float64, discrete bool, s Style, quality float64) error {
	if discrete {
		return StrokeSegments(dc, CDFSteps(cdf, tr), s)
	}
	return DrawExplicit(dc, tr, cdf, analysis.Domain{}, s, quality)
}

// DrawMarkers draws analysis points as outlined circles in the color of the
// line they belong to.
func DrawMarkers(dc *gg.Context, tr viewport.Transform, pts []analysis.Point, th Theme) error {
	var errs []error
	for _, p := range pts {
		if !tr.Viewport().ContainsX(p.X) || !tr.Viewport().ContainsY(p.Y) {
			continue
		}
		c := tr.ToPixel(p.X, p.Y)
		dc.DrawCircle(c.X, c.Y, MarkerRadius)
		setColor(dc, th.Marker)
		if err := dc.FillPreserve(); err != nil {
			errs = append(errs, err)
		}
		applyStyle(dc, Style{Color: gg.Hex(p.Color), Width: 2})
		errs = append(errs, dc.Stroke())
	}
	return errors.Join(errs...)
}

package draw

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/internal/parallel"
	"github.com/gogpu/graphcalc/viewport"
)

// Quality defaults.
const (
	DefaultQuality = 2.0
	minPixelStep   = 0.5

	// offscreenFactor is how many canvas heights a sample may lie outside
	// the canvas before it breaks the polyline.
	offscreenFactor = 5.0

	// maxDiscretePoints bounds the integers drawn by PMF and CDF plots.
	maxDiscretePoints = 20000
)

// Polyline is a connected run of pixel-space points.
type Polyline []gg.Point

// Segment is a pixel-space line segment.
type Segment struct {
	A, B gg.Point
}

// Rect is a pixel-space rectangle.
type Rect struct {
	X, Y, W, H float64
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// safe1 turns a panic inside f into NaN for that sample.
func safe1(f func(float64) float64) func(float64) float64 {
	return func(v float64) (out float64) {
		defer func() {
			if recover() != nil {
				out = math.NaN()
			}
		}()
		return f(v)
	}
}

func safe2(f func(float64, float64) float64) func(float64, float64) float64 {
	return func(x, y float64) (out float64) {
		defer func() {
			if recover() != nil {
				out = math.NaN()
			}
		}()
		return f(x, y)
	}
}

// builder accumulates polylines, starting a new one at every break.
type builder struct {
	lines []Polyline
	cur   Polyline
	tr    viewport.Transform
}

func (b *builder) add(x, y float64) {
	p := b.tr.ToPixel(x, y)
	lo, hi := -offscreenFactor*b.tr.Height(), (offscreenFactor+1)*b.tr.Height()
	if !finite(x) || !finite(y) || p.Y < lo || p.Y > hi {
		b.flush()
		return
	}
	b.cur = append(b.cur, p)
}

func (b *builder) addRaw(x, y float64) {
	p := b.tr.ToPixel(x, y)
	w, h := b.tr.Width(), b.tr.Height()
	if !finite(x) || !finite(y) ||
		p.X < -offscreenFactor*w || p.X > (offscreenFactor+1)*w ||
		p.Y < -offscreenFactor*h || p.Y > (offscreenFactor+1)*h {
		b.flush()
		return
	}
	b.cur = append(b.cur, p)
}

func (b *builder) flush() {
	if len(b.cur) >= 2 {
		b.lines = append(b.lines, b.cur)
	}
	b.cur = nil
}

func (b *builder) done() []Polyline {
	b.flush()
	return b.lines
}

// SampleExplicit samples y = f(x) every quality pixels across the canvas
// and returns the visible polylines. Samples outside the domain, non-finite
// samples and samples far off the canvas break the line.
func SampleExplicit(f func(float64) float64, tr viewport.Transform, quality float64, dom analysis.Domain) []Polyline {
	f = safe1(f)
	px := math.Max(quality, minPixelStep)
	step := px / tr.XScale()
	vp := tr.Viewport()
	n := int(math.Ceil(tr.Width()/px)) + 1

	b := &builder{tr: tr}
	for i := 0; i < n; i++ {
		x := vp.XMin + float64(i)*step
		if !dom.Contains(x) {
			b.flush()
			continue
		}
		b.add(x, f(x))
	}
	return b.done()
}

// ParametricSamples is the sample count for a parametric curve.
func ParametricSamples(tr viewport.Transform, quality float64) int {
	return max(100, int((tr.Width()+tr.Height())/math.Max(quality, minPixelStep)))
}

// PolarSamples is the sample count for a polar curve.
func PolarSamples(tr viewport.Transform, quality float64) int {
	return max(180, int(1.5*(tr.Width()+tr.Height())/math.Max(quality, minPixelStep)))
}

// SampleParametric samples (x(t), y(t)) at n evenly spaced t in [tMin, tMax].
func SampleParametric(x, y func(float64) float64, tMin, tMax float64, n int, tr viewport.Transform) []Polyline {
	x, y = safe1(x), safe1(y)
	if n < 2 {
		n = 2
	}
	step := (tMax - tMin) / float64(n-1)
	b := &builder{tr: tr}
	for i := 0; i < n; i++ {
		t := tMin + float64(i)*step
		b.addRaw(x(t), y(t))
	}
	return b.done()
}

// SamplePolar samples r(θ) at n evenly spaced θ and maps each sample to
// (r cos θ, r sin θ).
func SamplePolar(r func(float64) float64, thMin, thMax float64, n int, tr viewport.Transform) []Polyline {
	r = safe1(r)
	if n < 2 {
		n = 2
	}
	step := (thMax - thMin) / float64(n-1)
	b := &builder{tr: tr}
	for i := 0; i < n; i++ {
		th := thMin + float64(i)*step
		rv := r(th)
		b.addRaw(rv*math.Cos(th), rv*math.Sin(th))
	}
	return b.done()
}

// cellGrid partitions the canvas into cols columns of near-square cells.
type cellGrid struct {
	cols, rows int
	cw, ch     float64
}

func newCellGrid(tr viewport.Transform, cols, minRows int) cellGrid {
	cw := tr.Width() / float64(cols)
	rows := max(minRows, int(math.Ceil(tr.Height()/cw)))
	return cellGrid{cols: cols, rows: rows, cw: cw, ch: tr.Height() / float64(rows)}
}

// ImplicitColumns is the marching squares column count.
func ImplicitColumns(tr viewport.Transform, quality float64) int {
	return max(10, int(tr.Width()/math.Max(quality, minPixelStep)))
}

// MarchingSquares approximates the zero set of F(x, y) = 0 with pixel-space
// segments. Cells with a non-finite corner are skipped. Crossings are found
// on edges where the corner values differ in sign or touch zero, visited in
// cyclic order top, right, bottom, left; two crossings make one segment,
// four make two segments pairing the first two and the last two, and three
// (a corner exactly on the curve) use the first two. F is called from
// several goroutines.
func MarchingSquares(F func(x, y float64) float64, tr viewport.Transform, quality float64) []Segment {
	F = safe2(F)
	g := newCellGrid(tr, ImplicitColumns(tr, quality), 10)

	stride := g.cols + 1
	vals := make([]float64, stride*(g.rows+1))
	parallel.Shared().Rows(g.rows+1, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			y := tr.PixelToY(float64(j) * g.ch)
			for i := 0; i <= g.cols; i++ {
				vals[j*stride+i] = F(tr.PixelToX(float64(i)*g.cw), y)
			}
		}
	})

	var segs []Segment
	var pts [4]gg.Point
	for j := 0; j < g.rows; j++ {
		for i := 0; i < g.cols; i++ {
			x0, y0 := float64(i)*g.cw, float64(j)*g.ch
			x1, y1 := x0+g.cw, y0+g.ch
			c := [4]float64{
				vals[j*stride+i],
				vals[j*stride+i+1],
				vals[(j+1)*stride+i+1],
				vals[(j+1)*stride+i],
			}
			if !finite(c[0]) || !finite(c[1]) || !finite(c[2]) || !finite(c[3]) {
				continue
			}
			p := [4]gg.Point{gg.Pt(x0, y0), gg.Pt(x1, y0), gg.Pt(x1, y1), gg.Pt(x0, y1)}

			n := 0
			for e := 0; e < 4; e++ {
				a, b := e, (e+1)%4
				if c[a]*c[b] > 0 {
					continue
				}
				t := 0.5
				if c[a] != c[b] {
					t = c[a] / (c[a] - c[b])
				}
				pts[n] = p[a].Lerp(p[b], t)
				n++
			}
			switch {
			case n == 4:
				segs = append(segs, Segment{pts[0], pts[1]}, Segment{pts[2], pts[3]})
			case n >= 2:
				segs = append(segs, Segment{pts[0], pts[1]})
			}
		}
	}
	return segs
}

// InequalityColumns is the fill grid column count.
func InequalityColumns(tr viewport.Transform, quality float64) int {
	return max(24, int(tr.Width()/(4*math.Max(quality, minPixelStep))))
}

// InequalityCells returns the pixel-space cells whose midpoint satisfies
// inside. Horizontally adjacent cells in a row are merged. Rows are
// evaluated concurrently.
func InequalityCells(inside func(x, y float64) bool, tr viewport.Transform, quality float64) []Rect {
	g := newCellGrid(tr, InequalityColumns(tr, quality), 20)
	rows := make([][]Rect, g.rows)
	parallel.Shared().Rows(g.rows, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			rows[j] = cellRow(inside, tr, g, j)
		}
	})
	var rects []Rect
	for _, r := range rows {
		rects = append(rects, r...)
	}
	return rects
}

// cellRow returns the merged inside runs of row j.
func cellRow(inside func(x, y float64) bool, tr viewport.Transform, g cellGrid, j int) []Rect {
	var rects []Rect
	y := tr.PixelToY((float64(j) + 0.5) * g.ch)
	run := -1
	for i := 0; i <= g.cols; i++ {
		in := false
		if i < g.cols {
			in = safeBool(inside, tr.PixelToX((float64(i)+0.5)*g.cw), y)
		}
		switch {
		case in && run < 0:
			run = i
		case !in && run >= 0:
			rects = append(rects, Rect{X: float64(run) * g.cw, Y: float64(j) * g.ch, W: float64(i-run) * g.cw, H: g.ch})
			run = -1
		}
	}
	return rects
}

func safeBool(f func(x, y float64) bool, x, y float64) (in bool) {
	defer func() {
		if recover() != nil {
			in = false
		}
	}()
	return f(x, y)
}

// integersInView returns the first and last integer k >= 0 inside the
// x-range of tr, and false when there are none or too many.
func integersInView(tr viewport.Transform) (int, int, bool) {
	vp := tr.Viewport()
	lo := math.Ceil(math.Max(vp.XMin, 0))
	hi := math.Floor(vp.XMax)
	if hi < lo || hi-lo > maxDiscretePoints {
		return 0, 0, false
	}
	return int(lo), int(hi), true
}

// PMFStems returns one vertical stem per integer in view with positive
// mass.
func PMFStems(pmf func(float64) float64, tr viewport.Transform) []Segment {
	pmf = safe1(pmf)
	lo, hi, ok := integersInView(tr)
	if !ok {
		return nil
	}
	var segs []Segment
	for k := lo; k <= hi; k++ {
		x := float64(k)
		m := pmf(x)
		if !finite(m) || m <= 0 {
			continue
		}
		segs = append(segs, Segment{tr.ToPixel(x, 0), tr.ToPixel(x, m)})
	}
	return segs
}

// CDFSteps returns the right-continuous step function of cdf over the
// integers in view: a horizontal run at F(k) over [k, k+1) followed by the
// jump to F(k+1).
func CDFSteps(cdf func(float64) float64, tr viewport.Transform) []Segment {
	cdf = safe1(cdf)
	vp := tr.Viewport()
	lo := math.Floor(vp.XMin)
	hi := math.Floor(vp.XMax)
	if hi-lo > maxDiscretePoints {
		return nil
	}
	var segs []Segment
	for k := lo; k <= hi; k++ {
		fk := cdf(k)
		if !finite(fk) {
			continue
		}
		x0, x1 := math.Max(k, vp.XMin), math.Min(k+1, vp.XMax)
		segs = append(segs, Segment{tr.ToPixel(x0, fk), tr.ToPixel(x1, fk)})
		if k+1 <= vp.XMax {
			if next := cdf(k + 1); finite(next) && next != fk {
				segs = append(segs, Segment{tr.ToPixel(k+1, fk), tr.ToPixel(k+1, next)})
			}
		}
	}
	return segs
}

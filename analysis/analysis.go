// Package analysis finds the notable points of explicit curves in the
// visible window: x-intercepts, y-intercepts, local extrema and pairwise
// intersections.
//
// Everything is sampled on one shared grid and refined numerically, so
// features narrower than the grid spacing can be missed. Results are a pure
// function of the curves, the viewport, the canvas width and the sampling
// quality.
package analysis

import (
	"fmt"
	"math"

	"github.com/gogpu/graphcalc/internal/logging"
	"github.com/gogpu/graphcalc/viewport"
)

// MinSamples is the lower bound on the shared grid size.
const MinSamples = 400

// Kind identifies the category of an analysis point.
type Kind int

const (
	XIntercept Kind = iota
	YIntercept
	Minimum
	Maximum
	Intersection
)

func (k Kind) String() string {
	switch k {
	case XIntercept:
		return "x-intercept"
	case YIntercept:
		return "y-intercept"
	case Minimum:
		return "minimum"
	case Maximum:
		return "maximum"
	case Intersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	for c := XIntercept; c <= Intersection; c++ {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("analysis: unknown point kind %q", b)
}

// Point is one result. Sources lists the ids of the curves it came from;
// intersections have two.
type Point struct {
	Kind    Kind     `json:"kind"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Color   string   `json:"color"`
	Sources []string `json:"sources"`
}

// Domain restricts a curve to [Min, Max] when Enabled.
type Domain struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
}

// Contains reports whether x is inside the domain.
func (d Domain) Contains(x float64) bool {
	return !d.Enabled || (x >= d.Min && x <= d.Max)
}

// Curve is an explicit curve y = F(x) taking part in analysis.
type Curve struct {
	ID        string
	Color     string
	F         func(x float64) float64
	Domain    Domain
	Intersect bool
}

// eval evaluates the curve, returning NaN outside its domain or when F
// panics.
func (c Curve) eval(x float64) (y float64) {
	if c.F == nil || !c.Domain.Contains(x) {
		return math.NaN()
	}
	defer func() {
		if recover() != nil {
			y = math.NaN()
		}
	}()
	return c.F(x)
}

// Evaluate returns c at x: NaN outside the domain or when F panics.
func Evaluate(c Curve, x float64) float64 {
	return c.eval(x)
}

// Samples returns the size of the shared grid for a canvas of width pixels
// sampled every quality pixels.
func Samples(width int, quality float64) int {
	if !(quality > 0) {
		quality = 1
	}
	n := int(float64(width) / quality * 1.5)
	if n < MinSamples {
		n = MinSamples
	}
	return n
}

// Grid returns n evenly spaced values covering [lo, hi].
func Grid(lo, hi float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	xs := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	xs[n-1] = hi
	return xs
}

// Analyze returns the deduplicated notable points of curves over the
// visible x-range of vp. Callers pass only visible, error-free explicit
// curves. Categories are collected in the order x-intercepts, y-intercepts,
// extrema, intersections; a point whose rounded position was already
// reported is dropped.
func Analyze(curves []Curve, vp viewport.Viewport, width int, quality float64) []Point {
	xs := Grid(vp.XMin, vp.XMax, Samples(width, quality))
	ys := make([][]float64, len(curves))
	for i, c := range curves {
		ys[i] = sample(c, xs)
	}

	var all []Point
	for i, c := range curves {
		all = append(all, xIntercepts(c, xs, ys[i])...)
	}
	if vp.ContainsX(0) {
		for _, c := range curves {
			if p, ok := YInterceptOf(c); ok {
				all = append(all, p)
			}
		}
	}
	for i, c := range curves {
		all = append(all, extrema(c, xs, ys[i])...)
	}
	for i := range curves {
		if !curves[i].Intersect {
			continue
		}
		for j := i + 1; j < len(curves); j++ {
			if curves[j].Intersect {
				all = append(all, Intersections(curves[i], curves[j], xs)...)
			}
		}
	}

	out := Dedup(all)
	logging.Logger().Debug("analysis: done",
		"curves", len(curves), "samples", len(xs), "raw", len(all), "points", len(out))
	return out
}

func sample(c Curve, xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = c.eval(x)
	}
	return ys
}

// XIntercepts returns the roots of c found on the grid xs.
func XIntercepts(c Curve, xs []float64) []Point {
	return xIntercepts(c, xs, sample(c, xs))
}

func xIntercepts(c Curve, xs, ys []float64) []Point {
	var out []Point
	for _, r := range roots(c.eval, xs, ys) {
		out = append(out, Point{Kind: XIntercept, X: r, Y: 0, Color: c.Color, Sources: []string{c.ID}})
	}
	return out
}

// roots scans adjacent samples for exact zeros and sign changes and
// refines each sign change by bisection. An isolated zero sample is a
// root; a run of two or more zero samples means f vanishes on an
// interval (coincident curves) and yields nothing.
func roots(f func(float64) float64, xs, ys []float64) []float64 {
	var out []float64
	n := len(xs)
	for i := 0; i < n; i++ {
		if ys[i] == 0 {
			j := i
			for j+1 < n && ys[j+1] == 0 {
				j++
			}
			if j == i {
				out = append(out, xs[i])
			}
			i = j
			continue
		}
		if i+1 >= n {
			break
		}
		ya, yb := ys[i], ys[i+1]
		if !finite(ya) || !finite(yb) || ya*yb >= 0 {
			continue
		}
		r, ok := Bisect(f, xs[i], xs[i+1])
		if !ok || !plausibleRoot(f(r), ya, yb) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// plausibleRoot rejects sign changes across a pole, where bisection
// converges onto the discontinuity instead of a zero.
func plausibleRoot(fr, ya, yb float64) bool {
	if !finite(fr) {
		return false
	}
	return math.Abs(fr) <= 1e-6*math.Max(1, math.Max(math.Abs(ya), math.Abs(yb)))
}

// YInterceptOf evaluates c at x = 0.
func YInterceptOf(c Curve) (Point, bool) {
	if !c.Domain.Contains(0) {
		return Point{}, false
	}
	y := c.eval(0)
	if !finite(y) {
		return Point{}, false
	}
	return Point{Kind: YIntercept, X: 0, Y: y, Color: c.Color, Sources: []string{c.ID}}, true
}

// Extrema returns the local minima and maxima of c found on the grid xs.
func Extrema(c Curve, xs []float64) []Point {
	return extrema(c, xs, sample(c, xs))
}

func extrema(c Curve, xs, ys []float64) []Point {
	var out []Point
	neg := func(x float64) float64 { return -c.eval(x) }
	for i := 1; i+1 < len(xs); i++ {
		y0, y1, y2 := ys[i-1], ys[i], ys[i+1]
		if !finite(y0) || !finite(y1) || !finite(y2) {
			continue
		}
		var (
			kind Kind
			x    float64
		)
		switch {
		case y1 < y0 && y1 <= y2:
			kind, x = Minimum, GoldenSection(c.eval, xs[i-1], xs[i+1])
		case y1 > y0 && y1 >= y2:
			kind, x = Maximum, GoldenSection(neg, xs[i-1], xs[i+1])
		default:
			continue
		}
		y := c.eval(x)
		if !finite(y) {
			continue
		}
		out = append(out, Point{Kind: kind, X: x, Y: y, Color: c.Color, Sources: []string{c.ID}})
	}
	return out
}

// Intersections returns the crossings of a and b on the grid xs. The
// point takes the color of a.
func Intersections(a, b Curve, xs []float64) []Point {
	diff := func(x float64) float64 { return a.eval(x) - b.eval(x) }
	var out []Point
	for _, r := range roots(diff, xs, sampleFunc(diff, xs)) {
		y := a.eval(r)
		if !finite(y) {
			continue
		}
		out = append(out, Point{Kind: Intersection, X: r, Y: y, Color: a.Color, Sources: []string{a.ID, b.ID}})
	}
	return out
}

func sampleFunc(f func(float64) float64, xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}
	return ys
}

type key struct{ x, y float64 }

func keyOf(p Point) key {
	r := func(v float64) float64 {
		v = math.Round(v*1e6) / 1e6
		if v == 0 {
			return 0 // fold -0
		}
		return v
	}
	return key{r(p.X), r(p.Y)}
}

// Dedup drops points whose position, rounded to six decimals, was already
// seen. Earlier points win.
func Dedup(points []Point) []Point {
	seen := make(map[key]bool, len(points))
	out := points[:0:0]
	for _, p := range points {
		k := keyOf(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

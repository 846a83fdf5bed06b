package analysis

import "math"

const (
	// BisectIterations bounds Bisect.
	BisectIterations = 32
	// GoldenIterations bounds GoldenSection.
	GoldenIterations = 48
)

// invPhi is 1/φ.
var invPhi = (math.Sqrt(5) - 1) / 2

// Bisect refines a root of f bracketed by [a, b]. It fails when either
// endpoint is not finite or both have the same non-zero sign.
func Bisect(f func(float64) float64, a, b float64) (float64, bool) {
	fa, fb := f(a), f(b)
	if !finite(fa) || !finite(fb) {
		return 0, false
	}
	if fa == 0 {
		return a, true
	}
	if fb == 0 {
		return b, true
	}
	if fa*fb > 0 {
		return 0, false
	}
	for i := 0; i < BisectIterations; i++ {
		m := (a + b) / 2
		fm := f(m)
		if fm == 0 {
			return m, true
		}
		if math.Signbit(fm) == math.Signbit(fa) {
			a, fa = m, fm
		} else {
			b = m
		}
	}
	return (a + b) / 2, true
}

// GoldenSection returns the x in [a, b] minimizing f, assuming f is
// unimodal there.
func GoldenSection(f func(float64) float64, a, b float64) float64 {
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)
	for i := 0; i < GoldenIterations; i++ {
		// A NaN probe loses.
		if fc < fd || math.IsNaN(fd) {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
	}
	return (a + b) / 2
}

package draw

import (
	"math"
	"strconv"

	"github.com/gogpu/graphcalc/viewport"
)

// MinorDivisions is the number of minor intervals per major step.
const MinorDivisions = 5

// Grid holds the gridline positions for one viewport, in data units.
type Grid struct {
	Major, Minor float64

	XMajor, YMajor []float64
	XMinor, YMinor []float64

	// XAxis and YAxis report whether y = 0 and x = 0 are in view.
	XAxis, YAxis bool
}

// maxLines guards against pathological steps.
const maxLines = 4000

// GridFor computes the gridlines of vp. The major step is chosen from the
// wider of the two ranges so that cells stay square on an isotropic view.
func GridFor(vp viewport.Viewport) Grid {
	major := viewport.NiceStep(math.Max(vp.Width(), vp.Height()))
	minor := major / MinorDivisions
	g := Grid{
		Major: major,
		Minor: minor,
		XAxis: vp.ContainsY(0),
		YAxis: vp.ContainsX(0),
	}
	g.XMajor, g.XMinor = lines(vp.XMin, vp.XMax, major, minor)
	g.YMajor, g.YMinor = lines(vp.YMin, vp.YMax, major, minor)
	return g
}

// lines returns the major and the minor-only positions in [lo, hi].
func lines(lo, hi, major, minor float64) ([]float64, []float64) {
	if (hi-lo)/minor > maxLines {
		return nil, nil
	}
	var maj, mnr []float64
	first := math.Ceil(lo/minor - 1e-9)
	for i := first; i*minor <= hi+1e-9*minor; i++ {
		v := i * minor
		if math.Mod(math.Abs(i), MinorDivisions) == 0 {
			maj = append(maj, snap(v, major))
		} else {
			mnr = append(mnr, v)
		}
	}
	return maj, mnr
}

// snap removes accumulated error so labels print cleanly.
func snap(v, step float64) float64 {
	r := math.Round(v/step) * step
	if math.Abs(r) < step*1e-9 {
		return 0
	}
	return r
}

// Label formats a gridline value with at most two decimals. Very large
// and very small magnitudes use exponent notation.
func Label(v float64) string {
	if v == 0 {
		return "0"
	}
	if a := math.Abs(v); a >= 1e6 || a < 0.01 {
		return strconv.FormatFloat(v, 'g', 3, 64)
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

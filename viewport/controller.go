package viewport

import (
	"math"

	"github.com/gogpu/graphcalc/internal/logging"
)

// FitSamples is the minimum number of samples FitToData takes per curve.
const FitSamples = 800

// Controller owns the visible rectangle and the canvas size it is shown on.
// It is not safe for concurrent use.
type Controller struct {
	vp     Viewport
	width  int
	height int
}

// NewController returns a controller showing Default on a width x height
// canvas.
func NewController(width, height int) *Controller {
	return &Controller{vp: Default(), width: width, height: height}
}

// Viewport returns the current rectangle.
func (c *Controller) Viewport() Viewport { return c.vp }

// Size returns the canvas size in pixels.
func (c *Controller) Size() (int, int) { return c.width, c.height }

// Transform returns the data/pixel transform for the current state.
func (c *Controller) Transform() Transform {
	return NewTransform(c.vp, c.width, c.height)
}

// Set replaces the rectangle. Invalid rectangles are rejected.
func (c *Controller) Set(vp Viewport) error {
	if err := vp.Validate(); err != nil {
		return err
	}
	c.vp = vp
	return nil
}

// Resize changes the canvas size. The data rectangle is kept.
func (c *Controller) Resize(width, height int) {
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
}

// Pan moves the view by a pointer drag of (dx, dy) pixels. Dragging right
// shows smaller x values; dragging down shows larger y values.
func (c *Controller) Pan(dx, dy float64) {
	t := c.Transform()
	ox, oy := -dx/t.XScale(), dy/t.YScale()
	next := Viewport{
		XMin: c.vp.XMin + ox,
		XMax: c.vp.XMax + ox,
		YMin: c.vp.YMin + oy,
		YMax: c.vp.YMax + oy,
	}
	if next.Validate() == nil {
		c.vp = next
	}
}

// ZoomAround scales the width and height by factor while keeping the data
// point (x, y) at the same pixel. factor < 1 zooms in.
func (c *Controller) ZoomAround(x, y, factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	next := Viewport{
		XMin: x - (x-c.vp.XMin)*factor,
		XMax: x + (c.vp.XMax-x)*factor,
		YMin: y - (y-c.vp.YMin)*factor,
		YMax: y + (c.vp.YMax-y)*factor,
	}
	if next.Validate() != nil {
		logging.Logger().Debug("viewport: zoom rejected", "factor", factor, "viewport", next.String())
		return
	}
	c.vp = next
}

// ZoomAroundPixel is ZoomAround with the fixed point given in pixels.
func (c *Controller) ZoomAroundPixel(px, py, factor float64) {
	t := c.Transform()
	c.ZoomAround(t.PixelToX(px), t.PixelToY(py), factor)
}

// Reset restores the default rectangle.
func (c *Controller) Reset() {
	c.vp = Default()
}

// FitToData samples fns over the current x-range and sets the y-range to
// the observed extent padded by 10%. Flat data is padded by one unit. When
// no sample is finite the view is left alone. It reports whether the view
// changed.
func (c *Controller) FitToData(fns ...func(float64) float64) bool {
	n := FitSamples
	if c.width > n {
		n = c.width
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	step := c.vp.Width() / float64(n-1)
	for _, f := range fns {
		if f == nil {
			continue
		}
		for i := 0; i < n; i++ {
			y := safeCall(f, c.vp.XMin+float64(i)*step)
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	if math.IsInf(lo, 1) {
		return false
	}

	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	c.vp.YMin, c.vp.YMax = lo-pad, hi+pad
	return true
}

func safeCall(f func(float64) float64, x float64) (y float64) {
	defer func() {
		if recover() != nil {
			y = math.NaN()
		}
	}()
	return f(x)
}

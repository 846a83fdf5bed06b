package viewport

import (
	"math"

	"github.com/gogpu/gg"
)

// Transform maps a viewport onto a canvas of Width x Height pixels. Pixel y
// grows downwards, so data-up is pixel-up. The zero value is unusable; use
// NewTransform.
type Transform struct {
	vp     Viewport
	width  float64
	height float64
	xScale float64
	yScale float64
}

// NewTransform returns the transform for vp on a width x height canvas.
func NewTransform(vp Viewport, width, height int) Transform {
	w, h := float64(width), float64(height)
	return Transform{
		vp:     vp,
		width:  w,
		height: h,
		xScale: w / vp.Width(),
		yScale: h / vp.Height(),
	}
}

// Viewport returns the data rectangle.
func (t Transform) Viewport() Viewport { return t.vp }

// Width returns the canvas width in pixels.
func (t Transform) Width() float64 { return t.width }

// Height returns the canvas height in pixels.
func (t Transform) Height() float64 { return t.height }

// XScale returns pixels per data unit along x.
func (t Transform) XScale() float64 { return t.xScale }

// YScale returns pixels per data unit along y.
func (t Transform) YScale() float64 { return t.yScale }

// XToPixel maps data x to pixel x.
func (t Transform) XToPixel(x float64) float64 {
	return (x - t.vp.XMin) * t.xScale
}

// YToPixel maps data y to pixel y.
func (t Transform) YToPixel(y float64) float64 {
	return t.height - (y-t.vp.YMin)*t.yScale
}

// PixelToX is the inverse of XToPixel.
func (t Transform) PixelToX(px float64) float64 {
	return t.vp.XMin + px/t.xScale
}

// PixelToY is the inverse of YToPixel.
func (t Transform) PixelToY(py float64) float64 {
	return t.vp.YMin + (t.height-py)/t.yScale
}

// ToPixel maps a data point to pixel space.
func (t Transform) ToPixel(x, y float64) gg.Point {
	return gg.Pt(t.XToPixel(x), t.YToPixel(y))
}

// ToData maps a pixel to data space.
func (t Transform) ToData(px, py float64) gg.Point {
	return gg.Pt(t.PixelToX(px), t.PixelToY(py))
}

// Matrix returns the data-to-pixel map as an affine matrix, suitable for
// gg.Context.SetTransform when drawing in data coordinates.
func (t Transform) Matrix() gg.Matrix {
	return gg.Translate(0, t.height).
		Multiply(gg.Scale(t.xScale, -t.yScale)).
		Multiply(gg.Translate(-t.vp.XMin, -t.vp.YMin))
}

// NiceStep returns the largest value of the form {1, 2, 5} x 10^k that does
// not exceed span/10. Degenerate spans yield 1.
func NiceStep(span float64) float64 {
	if !(span > 0) || math.IsInf(span, 0) {
		return 1
	}
	target := span / 10
	const eps = 1e-9
	base := math.Pow(10, math.Floor(math.Log10(target)))
	// Log10 can land just below an exact power of ten.
	if next := base * 10; next <= target*(1+eps) {
		base = next
	}
	for _, m := range [...]float64{5, 2, 1} {
		if m*base <= target*(1+eps) {
			return m * base
		}
	}
	return base / 2
}

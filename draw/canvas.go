// Package draw renders graph lines onto a gg.Context.
//
// The geometry helpers (SampleExplicit, MarchingSquares, InequalityCells,
// SampleParametric, SamplePolar, PMFStems, CDFSteps, GridFor) are pure and
// work in pixel space; the Draw functions stroke and fill their output.
// Canvas bundles a context, a transform and a theme for the common case.
package draw

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/plot"
	"github.com/gogpu/graphcalc/viewport"
)

// ErrSize is returned for a canvas without positive dimensions.
var ErrSize = errors.New("draw: invalid canvas size")

// Option configures a Canvas during creation.
type Option func(*canvasOptions)

type canvasOptions struct {
	theme     Theme
	quality   float64
	face      text.Face
	labelSize float64
	noLabels  bool
}

func defaultOptions() canvasOptions {
	return canvasOptions{
		theme:     Light,
		quality:   DefaultQuality,
		labelSize: LabelSize,
	}
}

// WithTheme sets the background, grid and label colors.
func WithTheme(th Theme) Option {
	return func(o *canvasOptions) {
		o.theme = th
	}
}

// WithQuality sets the sampling step in pixels. Smaller is finer.
// Non-positive values are ignored.
func WithQuality(q float64) Option {
	return func(o *canvasOptions) {
		if q > 0 {
			o.quality = q
		}
	}
}

// WithFont sets the label face instead of the bundled Go Regular.
func WithFont(face text.Face) Option {
	return func(o *canvasOptions) {
		o.face = face
	}
}

// WithoutLabels disables grid labels.
func WithoutLabels() Option {
	return func(o *canvasOptions) {
		o.noLabels = true
	}
}

// Canvas is one rendered frame. It is not safe for concurrent use.
type Canvas struct {
	dc      *gg.Context
	tr      viewport.Transform
	theme   Theme
	quality float64
	face    text.Face
}

// NewCanvas returns a canvas of width x height pixels showing vp.
func NewCanvas(width, height int, vp viewport.Viewport, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSize, width, height)
	}
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	var face text.Face
	if !o.noLabels {
		face = o.face
		if face == nil {
			face = defaultFace(o.labelSize)
		}
	}
	return &Canvas{
		dc:      gg.NewContext(width, height),
		tr:      viewport.NewTransform(vp, width, height),
		theme:   o.theme,
		quality: o.quality,
		face:    face,
	}, nil
}

// Context returns the underlying drawing context.
func (c *Canvas) Context() *gg.Context { return c.dc }

// Transform returns the data-to-pixel transform.
func (c *Canvas) Transform() viewport.Transform { return c.tr }

// Theme returns the canvas theme.
func (c *Canvas) Theme() Theme { return c.theme }

// Quality returns the sampling step in pixels.
func (c *Canvas) Quality() float64 { return c.quality }

// Clear fills the canvas with the theme background.
func (c *Canvas) Clear() {
	c.dc.ClearWithColor(c.theme.Background)
}

// Grid draws the gridlines, axes and labels.
func (c *Canvas) Grid() error {
	return DrawGrid(c.dc, c.tr, c.theme, c.face)
}

// Line draws one compiled line.
func (c *Canvas) Line(l *plot.Compiled, dom analysis.Domain, s Style) error {
	return DrawCompiled(c.dc, c.tr, l, dom, s, c.quality)
}

// Function draws y = f(x), used for continuous densities.
func (c *Canvas) Function(f func(float64) float64, s Style) error {
	return DrawExplicit(c.dc, c.tr, f, analysis.Domain{}, s, c.quality)
}

// PMF draws a probability mass function as stems.
func (c *Canvas) PMF(pmf func(float64) float64, s Style) error {
	return DrawPMF(c.dc, c.tr, pmf, s)
}

// CDF draws a cumulative distribution function.
func (c *Canvas) CDF(cdf func(float64) float64, discrete bool, s Style) error {
	return DrawCDF(c.dc, c.tr, cdf, discrete, s, c.quality)
}

// Markers draws analysis points.
func (c *Canvas) Markers(pts []analysis.Point) error {
	return DrawMarkers(c.dc, c.tr, pts, c.theme)
}

// Image returns the rendered pixels.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the frame as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }

// SavePNG writes the frame to a PNG file.
func (c *Canvas) SavePNG(path string) error { return c.dc.SavePNG(path) }

// Close releases the context.
func (c *Canvas) Close() error { return c.dc.Close() }

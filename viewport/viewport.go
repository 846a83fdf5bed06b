// Package viewport maps between data space and pixel space and owns the
// visible rectangle of a graph.
package viewport

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is returned for rectangles that are empty, inverted or not finite.
var ErrInvalid = errors.New("viewport: invalid rectangle")

// Viewport is the visible data-space rectangle.
type Viewport struct {
	XMin float64 `json:"xMin" yaml:"xMin"`
	XMax float64 `json:"xMax" yaml:"xMax"`
	YMin float64 `json:"yMin" yaml:"yMin"`
	YMax float64 `json:"yMax" yaml:"yMax"`
}

// Default returns the rectangle restored by Reset.
func Default() Viewport {
	return Viewport{XMin: -10, XMax: 10, YMin: -10, YMax: 10}
}

// Width returns XMax - XMin.
func (v Viewport) Width() float64 { return v.XMax - v.XMin }

// Height returns YMax - YMin.
func (v Viewport) Height() float64 { return v.YMax - v.YMin }

// Validate checks XMin < XMax and YMin < YMax with finite bounds.
func (v Viewport) Validate() error {
	for _, f := range [...]float64{v.XMin, v.XMax, v.YMin, v.YMax} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite bound in %v", ErrInvalid, v)
		}
	}
	if !(v.XMin < v.XMax) || !(v.YMin < v.YMax) {
		return fmt.Errorf("%w: %v", ErrInvalid, v)
	}
	return nil
}

// ContainsX reports whether x lies within [XMin, XMax].
func (v Viewport) ContainsX(x float64) bool { return x >= v.XMin && x <= v.XMax }

// ContainsY reports whether y lies within [YMin, YMax].
func (v Viewport) ContainsY(y float64) bool { return y >= v.YMin && y <= v.YMax }

func (v Viewport) String() string {
	return fmt.Sprintf("[%g, %g]x[%g, %g]", v.XMin, v.XMax, v.YMin, v.YMax)
}

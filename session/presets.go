package session

import (
	"fmt"
	"slices"
)

// Preset is a named group of example lines.
type Preset struct {
	Name    string
	Sources []string
}

// Presets lists the built-in examples in menu order.
var Presets = []Preset{
	{Name: "parabola", Sources: []string{"y = a*x^2 + b*x + c"}},
	{Name: "trig", Sources: []string{"y = sin(x)", "y = cos(x)", "y = tan(x)"}},
	{Name: "circle", Sources: []string{"x^2 + y^2 = r0^2"}},
	{Name: "disk", Sources: []string{"x^2 + y^2 <= 4"}},
	{Name: "annulus", Sources: []string{"1 <= x^2 + y^2 <= 4"}},
	{Name: "half-plane", Sources: []string{"y > 2*x - 1"}},
	{Name: "rose", Sources: []string{"r = cos(k*theta), theta in [0, 2*pi]"}},
	{Name: "spiral", Sources: []string{"r = theta/4, theta in [0, 6*pi]"}},
	{Name: "lissajous", Sources: []string{"x = sin(3*t), y = cos(2*t), t = [0, 2*pi]"}},
	{Name: "calculator", Sources: []string{"2 + 3*4", "ans^2", "sqrt(ans)"}},
	{Name: "intersections", Sources: []string{"y = x", "y = x^2 - 2"}},
	{Name: "step", Sources: []string{"y = piecewise(x < -1, -1, x > 1, 1, x)"}},
}

// FindPreset returns the preset with the given name.
func FindPreset(name string) (Preset, bool) {
	i := slices.IndexFunc(Presets, func(p Preset) bool { return p.Name == name })
	if i < 0 {
		return Preset{}, false
	}
	return Presets[i], true
}

// AddPreset appends the lines of the named preset and returns them.
func (s *Session) AddPreset(name string) ([]*Expression, error) {
	p, ok := FindPreset(name)
	if !ok {
		return nil, fmt.Errorf("%w: preset %q", ErrNotFound, name)
	}
	out := make([]*Expression, 0, len(p.Sources))
	for _, src := range p.Sources {
		out = append(out, s.Add(src))
	}
	return out, nil
}

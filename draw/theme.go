package draw

import "github.com/gogpu/gg"

// Theme holds the non-curve colors of a graph.
type Theme struct {
	Name       string
	Background gg.RGBA
	MinorGrid  gg.RGBA
	MajorGrid  gg.RGBA
	Axis       gg.RGBA
	Label      gg.RGBA
	Marker     gg.RGBA
}

// Built-in themes.
var (
	Light = Theme{
		Name:       "light",
		Background: gg.White,
		MinorGrid:  gg.RGBA{R: 0, G: 0, B: 0, A: 0.06},
		MajorGrid:  gg.RGBA{R: 0, G: 0, B: 0, A: 0.16},
		Axis:       gg.RGBA{R: 0.15, G: 0.15, B: 0.15, A: 1},
		Label:      gg.RGBA{R: 0.3, G: 0.3, B: 0.3, A: 1},
		Marker:     gg.White,
	}
	Dark = Theme{
		Name:       "dark",
		Background: gg.Hex("#1e1f24"),
		MinorGrid:  gg.RGBA{R: 1, G: 1, B: 1, A: 0.05},
		MajorGrid:  gg.RGBA{R: 1, G: 1, B: 1, A: 0.14},
		Axis:       gg.RGBA{R: 0.85, G: 0.85, B: 0.85, A: 1},
		Label:      gg.RGBA{R: 0.7, G: 0.7, B: 0.7, A: 1},
		Marker:     gg.Hex("#1e1f24"),
	}
)

// ThemeByName returns the named theme, falling back to Light.
func ThemeByName(name string) Theme {
	if name == Dark.Name {
		return Dark
	}
	return Light
}

// Style is how one curve is stroked.
type Style struct {
	Color gg.RGBA
	Width float64
	// Dashed strokes the curve with a dash pattern scaled to its width.
	Dashed bool
}

// StyleFor builds a style from a hex color and line width.
func StyleFor(hex string, width float64) Style {
	if !(width > 0) {
		width = 2.5
	}
	return Style{Color: gg.Hex(hex), Width: width}
}

func (s Style) withAlpha(a float64) gg.RGBA {
	c := s.Color
	c.A *= a
	return c
}

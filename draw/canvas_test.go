package draw

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/plot"
	"github.com/gogpu/graphcalc/viewport"
)

func TestNewCanvasErrors(t *testing.T) {
	if _, err := NewCanvas(0, 10, viewport.Default()); !errors.Is(err, ErrSize) {
		t.Errorf("zero width: err = %v, want ErrSize", err)
	}
	bad := viewport.Viewport{XMin: 1, XMax: 0, YMin: 0, YMax: 1}
	if _, err := NewCanvas(10, 10, bad); !errors.Is(err, viewport.ErrInvalid) {
		t.Errorf("inverted viewport: err = %v, want ErrInvalid", err)
	}
}

func TestCanvasOptions(t *testing.T) {
	c, err := NewCanvas(40, 30, viewport.Default(), WithTheme(Dark), WithQuality(4), WithQuality(-1), WithoutLabels())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.Theme().Name != "dark" || c.Quality() != 4 {
		t.Errorf("theme %q quality %v, want dark 4", c.Theme().Name, c.Quality())
	}
	if c.face != nil {
		t.Error("labels should be disabled")
	}
}

func TestCanvasRender(t *testing.T) {
	c, err := NewCanvas(160, 120, viewport.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.Clear()
	if err := c.Grid(); err != nil {
		t.Fatalf("Grid() = %v", err)
	}
	sources := []string{
		"y = x^2",
		"x^2 + y^2 = 16",
		"y < sin(x)",
		"-2 <= x <= 2",
		"x = cos(t), y = sin(t)",
		"r = 2*theta",
		"1+1",
		"",
	}
	for _, src := range sources {
		l := plot.Classify(src, nil, 0)
		if err := c.Line(&l, analysis.Domain{}, StyleFor("#2d70b3", 2.5)); err != nil {
			t.Errorf("Line(%q) = %v", src, err)
		}
	}
	pois := func(k float64) float64 { return 0.2 }
	if err := c.PMF(pois, StyleFor("#388c46", 2)); err != nil {
		t.Errorf("PMF() = %v", err)
	}
	if err := c.CDF(func(x float64) float64 { return x / 10 }, true, StyleFor("#6042a6", 2)); err != nil {
		t.Errorf("CDF() = %v", err)
	}
	pts := []analysis.Point{{Kind: analysis.XIntercept, X: 0, Y: 0, Color: "#c74440"}}
	if err := c.Markers(pts); err != nil {
		t.Errorf("Markers() = %v", err)
	}

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("bounds = %v, want 160x120", b)
	}

	// Something other than the background was drawn.
	r0, g0, b0, _ := img.At(0, 0).RGBA()
	uniform := true
	for y := 0; y < 120 && uniform; y += 3 {
		for x := 0; x < 160; x += 3 {
			if r, g, b, _ := img.At(x, y).RGBA(); r != r0 || g != g0 || b != b0 {
				uniform = false
				break
			}
		}
	}
	if uniform {
		t.Error("rendered image is uniform")
	}
}

func TestThemeByName(t *testing.T) {
	if ThemeByName("dark").Name != "dark" || ThemeByName("nope").Name != "light" {
		t.Error("ThemeByName did not fall back to light")
	}
}

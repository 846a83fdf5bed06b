// Package session holds the user-authored state of a graph: the ordered
// expression list, parameter values, statistics plots, the viewport and the
// display settings. Everything derived from it (compiled lines, analysis
// points, pixels) is recomputed from a Session and never stored.
package session

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/plot"
	"github.com/gogpu/graphcalc/viewport"
)

// ErrNotFound is returned when an id does not name a line in the session.
var ErrNotFound = errors.New("session: not found")

// Defaults.
const (
	DefaultQuality   = 2.0
	DefaultLineWidth = 2.5
	DefaultTheme     = ThemeLight

	MinQuality = 0.5
	MaxQuality = 16.0
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Palette is the color cycle assigned to new lines.
var Palette = []string{"#c74440", "#2d70b3", "#388c46", "#6042a6", "#fa7e19", "#000000"}

// Expression is one user-authored line.
type Expression struct {
	ID        string          `json:"id" yaml:"id,omitempty"`
	Source    string          `json:"source" yaml:"source"`
	Color     string          `json:"color" yaml:"color,omitempty"`
	Visible   bool            `json:"visible" yaml:"visible"`
	LineWidth float64         `json:"lineWidth" yaml:"lineWidth,omitempty"`
	Domain    analysis.Domain `json:"domain" yaml:"domain,omitempty"`
	Intersect bool            `json:"intersect" yaml:"intersect"`
}

// StatMode selects what a statistics plot draws.
type StatMode string

const (
	ModePDF StatMode = "pdf"
	ModePMF StatMode = "pmf"
	ModeCDF StatMode = "cdf"
)

// StatPlot draws a named distribution.
type StatPlot struct {
	ID           string    `json:"id" yaml:"id,omitempty"`
	Distribution string    `json:"distribution" yaml:"distribution"`
	Params       []float64 `json:"params" yaml:"params,omitempty"`
	Mode         StatMode  `json:"mode" yaml:"mode"`
	Color        string    `json:"color" yaml:"color,omitempty"`
	Visible      bool      `json:"visible" yaml:"visible"`
}

// Session is the persisted state of one graph. It is not safe for
// concurrent use.
type Session struct {
	Title       string             `json:"title" yaml:"title,omitempty"`
	Theme       string             `json:"theme" yaml:"theme,omitempty"`
	Quality     float64            `json:"quality" yaml:"quality,omitempty"`
	Viewport    viewport.Viewport  `json:"viewport" yaml:"viewport"`
	Expressions []*Expression      `json:"expressions" yaml:"expressions"`
	Params      map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
	StatPlots   []*StatPlot        `json:"statPlots,omitempty" yaml:"statPlots,omitempty"`
}

// New returns an empty session with default settings.
func New() *Session {
	return &Session{
		Theme:    DefaultTheme,
		Quality:  DefaultQuality,
		Viewport: viewport.Default(),
	}
}

// NewID returns a fresh line id.
func NewID() string {
	return uuid.New().String()
}

// NewExpression returns a visible line with defaults filled in.
func NewExpression(source, color string) *Expression {
	e := defaultExpression()
	e.ID, e.Source, e.Color = NewID(), source, color
	return &e
}

// defaultExpression has every default except an id.
func defaultExpression() Expression {
	return Expression{Visible: true, LineWidth: DefaultLineWidth, Intersect: true}
}

// nextColor picks the palette entry after the ones already used.
func (s *Session) nextColor() string {
	return Palette[(len(s.Expressions)+len(s.StatPlots))%len(Palette)]
}

// Add appends a line and returns it.
func (s *Session) Add(source string) *Expression {
	e := NewExpression(source, s.nextColor())
	s.Expressions = append(s.Expressions, e)
	return e
}

// Find returns the line with the given id.
func (s *Session) Find(id string) (*Expression, bool) {
	i := s.index(id)
	if i < 0 {
		return nil, false
	}
	return s.Expressions[i], true
}

func (s *Session) index(id string) int {
	return slices.IndexFunc(s.Expressions, func(e *Expression) bool { return e.ID == id })
}

// Remove deletes the line with the given id.
func (s *Session) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: expression %q", ErrNotFound, id)
	}
	s.Expressions = slices.Delete(s.Expressions, i, i+1)
	return nil
}

// Update applies fn to the line with the given id in place.
func (s *Session) Update(id string, fn func(*Expression)) error {
	e, ok := s.Find(id)
	if !ok {
		return fmt.Errorf("%w: expression %q", ErrNotFound, id)
	}
	fn(e)
	return nil
}

// SetSource replaces the text of a line.
func (s *Session) SetSource(id, source string) error {
	return s.Update(id, func(e *Expression) { e.Source = source })
}

// Move moves the line with the given id to position to.
func (s *Session) Move(id string, to int) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: expression %q", ErrNotFound, id)
	}
	e := s.Expressions[i]
	s.Expressions = slices.Delete(s.Expressions, i, i+1)
	to = max(0, min(to, len(s.Expressions)))
	s.Expressions = slices.Insert(s.Expressions, to, e)
	return nil
}

// ApplyText stores the result of an external action. A non-empty target
// that names a line has its source replaced; otherwise a new line is
// appended. It returns the id of the line holding text.
func (s *Session) ApplyText(target, text string) string {
	text = strings.TrimSpace(text)
	if target != "" {
		if e, ok := s.Find(target); ok {
			e.Source = text
			return e.ID
		}
	}
	return s.Add(text).ID
}

// SetParam sets the value of a free parameter.
func (s *Session) SetParam(name string, v float64) {
	if s.Params == nil {
		s.Params = make(map[string]float64)
	}
	s.Params[name] = v
}

// AddStatPlot appends a distribution plot.
func (s *Session) AddStatPlot(dist string, mode StatMode, params ...float64) *StatPlot {
	p := &StatPlot{
		ID:           NewID(),
		Distribution: dist,
		Params:       params,
		Mode:         mode,
		Color:        s.nextColor(),
		Visible:      true,
	}
	s.StatPlots = append(s.StatPlots, p)
	return p
}

// RemoveStatPlot deletes the statistics plot with the given id.
func (s *Session) RemoveStatPlot(id string) error {
	i := slices.IndexFunc(s.StatPlots, func(p *StatPlot) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: stat plot %q", ErrNotFound, id)
	}
	s.StatPlots = slices.Delete(s.StatPlots, i, i+1)
	return nil
}

// Lines returns every line in display order for compilation. Hidden lines
// are included so the running result stays independent of visibility.
func (s *Session) Lines() []plot.Line {
	out := make([]plot.Line, len(s.Expressions))
	for i, e := range s.Expressions {
		out[i] = plot.Line{ID: e.ID, Source: e.Source}
	}
	return out
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Expressions = make([]*Expression, len(s.Expressions))
	for i, e := range s.Expressions {
		ec := *e
		c.Expressions[i] = &ec
	}
	c.StatPlots = make([]*StatPlot, len(s.StatPlots))
	for i, p := range s.StatPlots {
		pc := *p
		pc.Params = slices.Clone(p.Params)
		c.StatPlots[i] = &pc
	}
	c.Params = maps.Clone(s.Params)
	return &c
}

// Normalize replaces invalid settings with defaults and fills missing line
// ids and colors. It returns s.
func (s *Session) Normalize() *Session {
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = DefaultTheme
	}
	if !(s.Quality >= MinQuality && s.Quality <= MaxQuality) {
		s.Quality = DefaultQuality
	}
	if s.Viewport.Validate() != nil {
		s.Viewport = viewport.Default()
	}
	for k, v := range s.Params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			delete(s.Params, k)
		}
	}

	seen := make(map[string]bool)
	s.Expressions = slices.DeleteFunc(s.Expressions, func(e *Expression) bool { return e == nil })
	for i, e := range s.Expressions {
		if e.ID == "" || seen[e.ID] {
			e.ID = NewID()
		}
		seen[e.ID] = true
		if e.Color == "" {
			e.Color = Palette[i%len(Palette)]
		}
		if !(e.LineWidth > 0) || math.IsInf(e.LineWidth, 0) {
			e.LineWidth = DefaultLineWidth
		}
		if e.Domain.Enabled && !(e.Domain.Min < e.Domain.Max) {
			e.Domain = analysis.Domain{}
		}
	}
	s.StatPlots = slices.DeleteFunc(s.StatPlots, func(p *StatPlot) bool { return p == nil })
	for i, p := range s.StatPlots {
		if p.ID == "" || seen[p.ID] {
			p.ID = NewID()
		}
		seen[p.ID] = true
		if p.Color == "" {
			p.Color = Palette[(len(s.Expressions)+i)%len(Palette)]
		}
		switch p.Mode {
		case ModePDF, ModePMF, ModeCDF:
		default:
			p.Mode = ModePDF
		}
	}
	return s
}

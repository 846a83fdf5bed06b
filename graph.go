package graphcalc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/cas"
	"github.com/gogpu/graphcalc/gesture"
	"github.com/gogpu/graphcalc/internal/logging"
	"github.com/gogpu/graphcalc/plot"
	"github.com/gogpu/graphcalc/session"
	"github.com/gogpu/graphcalc/viewport"
)

// ErrNotExplicit is returned by Trace for lines that are not y = f(x).
var ErrNotExplicit = errors.New("graphcalc: line is not an explicit function")

// ZoomStep is the factor of one zoom-in step.
const ZoomStep = 0.8

// Graph is one interactive graph: a session, its compiled lines and the
// view. All methods are safe for concurrent use.
type Graph struct {
	mu sync.Mutex

	opts    options
	sess    *session.Session
	ctl     *viewport.Controller
	pointer *gesture.Machine

	lines []plot.Compiled
	ans   float64
	dirty bool
}

// New returns a graph over sess. A nil session starts empty. The session is
// normalized and owned by the graph from then on.
func New(sess *session.Session, opts ...Option) *Graph {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if sess == nil {
		sess = session.New()
	}
	sess.Normalize()

	ctl := viewport.NewController(o.width, o.height)
	_ = ctl.Set(sess.Viewport)

	return &Graph{
		opts:    o,
		sess:    sess,
		ctl:     ctl,
		pointer: gesture.New(o.gesture...),
		dirty:   true,
	}
}

// compile recompiles the lines when the session changed. Callers hold mu.
func (g *Graph) compile() {
	if !g.dirty {
		return
	}
	start := time.Now()
	g.lines, g.ans = plot.CompileAll(g.sess.Lines(), g.sess.Params)
	g.dirty = false
	logging.Logger().Debug("graphcalc: compiled",
		"lines", len(g.lines), "ans", g.ans, "elapsed", time.Since(start))
}

// syncView copies the controller rectangle into the session. Callers
// hold mu.
func (g *Graph) syncView() {
	g.sess.Viewport = g.ctl.Viewport()
}

// Session returns a copy of the current session.
func (g *Graph) Session() *session.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sess.Clone()
}

// Edit applies fn to the session and schedules a recompile. The viewport
// set by fn, if valid, becomes the current view.
func (g *Graph) Edit(fn func(*session.Session) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	err := fn(g.sess)
	g.sess.Normalize()
	_ = g.ctl.Set(g.sess.Viewport)
	g.syncView()
	g.dirty = true
	return err
}

// Add appends a line and returns its id.
func (g *Graph) Add(source string) string {
	var id string
	_ = g.Edit(func(s *session.Session) error {
		id = s.Add(source).ID
		return nil
	})
	return id
}

// SetSource replaces the text of a line.
func (g *Graph) SetSource(id, source string) error {
	return g.Edit(func(s *session.Session) error { return s.SetSource(id, source) })
}

// Remove deletes a line.
func (g *Graph) Remove(id string) error {
	return g.Edit(func(s *session.Session) error { return s.Remove(id) })
}

// SetParam sets a free parameter.
func (g *Graph) SetParam(name string, v float64) {
	_ = g.Edit(func(s *session.Session) error {
		s.SetParam(name, v)
		return nil
	})
}

// Lines returns the compiled lines in display order.
func (g *Graph) Lines() []plot.Compiled {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.compile()
	return append([]plot.Compiled(nil), g.lines...)
}

// Ans returns the running result after the last calculator line.
func (g *Graph) Ans() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.compile()
	return g.ans
}

// Viewport returns the current data rectangle.
func (g *Graph) Viewport() viewport.Viewport {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctl.Viewport()
}

// SetViewport replaces the data rectangle.
func (g *Graph) SetViewport(vp viewport.Viewport) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ctl.Set(vp); err != nil {
		return err
	}
	g.syncView()
	return nil
}

// Size returns the canvas size.
func (g *Graph) Size() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctl.Size()
}

// Resize changes the canvas size.
func (g *Graph) Resize(width, height int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctl.Resize(width, height)
}

// Pan moves the view by a drag of (dx, dy) pixels.
func (g *Graph) Pan(dx, dy float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctl.Pan(dx, dy)
	g.syncView()
}

// Zoom scales the view around its center. factor < 1 zooms in.
func (g *Graph) Zoom(factor float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	vp := g.ctl.Viewport()
	g.ctl.ZoomAround((vp.XMin+vp.XMax)/2, (vp.YMin+vp.YMax)/2, factor)
	g.syncView()
}

// ZoomAt scales the view keeping the pixel (px, py) fixed.
func (g *Graph) ZoomAt(px, py, factor float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctl.ZoomAroundPixel(px, py, factor)
	g.syncView()
}

// Reset restores the default view.
func (g *Graph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctl.Reset()
	g.syncView()
}

// Fit sets the y-range to the extent of the visible explicit lines over
// the current x-range. It reports whether the view changed.
func (g *Graph) Fit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.compile()
	var fns []func(float64) float64
	for _, c := range g.curves() {
		fns = append(fns, c.F)
	}
	ok := g.ctl.FitToData(fns...)
	g.syncView()
	return ok
}

// curves returns the visible error-free explicit lines for analysis.
// Callers hold mu and have compiled.
func (g *Graph) curves() []analysis.Curve {
	return explicitCurves(g.lines, exprValues(g.sess.Expressions))
}

// Trace evaluates the explicit line id at x.
func (g *Graph) Trace(id string, x float64) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.compile()
	for i, l := range g.lines {
		if l.ID != id {
			continue
		}
		ex, ok := l.Curve.(*plot.Explicit)
		if !ok {
			return 0, fmt.Errorf("%w: %q is %s", ErrNotExplicit, id, l.Kind)
		}
		c := analysis.Curve{ID: id, F: ex.F, Domain: g.sess.Expressions[i].Domain}
		return analysis.Evaluate(c, x), nil
	}
	return 0, fmt.Errorf("%w: expression %q", session.ErrNotFound, id)
}

// Snapshot returns an immutable frame of the current state.
func (g *Graph) Snapshot() *Frame {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.compile()
	w, h := g.ctl.Size()
	f := &Frame{
		Viewport:    g.ctl.Viewport(),
		Width:       w,
		Height:      h,
		Theme:       g.sess.Theme,
		Quality:     g.sess.Quality,
		Lines:       append([]plot.Compiled(nil), g.lines...),
		Expressions: exprValues(g.sess.Expressions),
		Ans:         g.ans,
		stats:       g.opts.stats,
		markers:     g.opts.markers,
		labels:      g.opts.labels,
	}
	for _, p := range g.sess.StatPlots {
		sp := *p
		f.StatPlots = append(f.StatPlots, sp)
	}
	return f
}

// Analyze returns the analysis points of the current state.
func (g *Graph) Analyze() []analysis.Point {
	return g.Snapshot().Analyze()
}

// WritePNG renders the current state as PNG.
func (g *Graph) WritePNG(ctx context.Context, w io.Writer) error {
	return g.Snapshot().WritePNG(ctx, w)
}

// PointerDown starts a pointer gesture at pixel (x, y).
func (g *Graph) PointerDown(x, y float64, at time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pointer.Down(x, y, at)
}

// PointerMove feeds pointer movement. Drags pan the view.
func (g *Graph) PointerMove(x, y float64, at time.Time) []gesture.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.handle(g.pointer.Move(x, y, at))
}

// PointerUp ends a pointer gesture.
func (g *Graph) PointerUp(x, y float64, at time.Time) []gesture.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.handle(g.pointer.Up(x, y, at))
}

// Tick fires a pending long press.
func (g *Graph) Tick(now time.Time) []gesture.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.handle(g.pointer.Tick(now))
}

// handle applies drags to the view and passes every event on. Callers
// hold mu.
func (g *Graph) handle(evs []gesture.Event) []gesture.Event {
	for _, ev := range evs {
		if ev.Kind == gesture.Drag {
			g.ctl.Pan(ev.DX, ev.DY)
		}
	}
	if len(evs) > 0 {
		g.syncView()
	}
	return evs
}

// RunCAS performs a symbolic action in the background. The single result
// arrives on the returned channel; pass it to ApplyCAS to store it.
func (g *Graph) RunCAS(ctx context.Context, req cas.Request) <-chan cas.Result {
	return cas.Run(ctx, g.opts.cas, req)
}

// ApplyCAS stores a successful result, replacing the request target or
// appending a new line, and returns the id of that line. Each further
// root of a solve result is appended as its own line. A failed result
// leaves the session untouched and returns its error.
func (g *Graph) ApplyCAS(res cas.Result) (string, error) {
	if res.Err != nil {
		return "", res.Err
	}
	var id string
	err := g.Edit(func(s *session.Session) error {
		lines := res.Lines()
		id = s.ApplyText(res.Request.Target, lines[0])
		for _, l := range lines[1:] {
			s.Add(l)
		}
		return nil
	})
	return id, err
}

// Blob encodes the session as a share blob.
func (g *Graph) Blob() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return session.Encode(g.sess)
}

// Close releases the providers.
func (g *Graph) Close() error {
	return errors.Join(g.opts.stats.Close(), g.opts.cas.Close())
}

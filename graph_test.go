package graphcalc

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/cas"
	"github.com/gogpu/graphcalc/gesture"
	"github.com/gogpu/graphcalc/plot"
	"github.com/gogpu/graphcalc/session"
	"github.com/gogpu/graphcalc/viewport"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAnsThreading(t *testing.T) {
	g := New(nil)
	g.Add("2+3*4")
	g.Add("ans+1")
	if got := g.Ans(); got != 15 {
		t.Errorf("Ans() = %v, want 15", got)
	}
	lines := g.Lines()
	if len(lines) != 2 || lines[1].Kind != plot.KindScalar {
		t.Fatalf("Lines() = %+v", lines)
	}
	if v := lines[1].Curve.(*plot.Scalar).Value; v != 15 {
		t.Errorf("second line = %v, want 15", v)
	}
}

func TestEditRecompiles(t *testing.T) {
	g := New(nil)
	id := g.Add("y = a*x")
	if got, _ := g.Trace(id, 2); got != 2 {
		t.Errorf("Trace with default a = %v, want 2", got)
	}
	g.SetParam("a", 3)
	if got, _ := g.Trace(id, 2); got != 6 {
		t.Errorf("Trace with a=3 = %v, want 6", got)
	}
	if err := g.SetSource(id, "y = x + 1"); err != nil {
		t.Fatal(err)
	}
	if got, _ := g.Trace(id, 2); got != 3 {
		t.Errorf("Trace after edit = %v, want 3", got)
	}
	if err := g.Remove(id); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Trace(id, 0); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Trace of removed line = %v, want ErrNotFound", err)
	}
}

func TestTraceErrors(t *testing.T) {
	g := New(nil)
	circle := g.Add("x^2 + y^2 = 4")
	if _, err := g.Trace(circle, 0); !errors.Is(err, ErrNotExplicit) {
		t.Errorf("Trace(implicit) = %v, want ErrNotExplicit", err)
	}
	if err := g.SetSource("missing", "y = x"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("SetSource(missing) = %v, want ErrNotFound", err)
	}
}

func TestAnalyze(t *testing.T) {
	g := New(nil)
	g.Add("y = x^2 - 4")
	pts := g.Analyze()

	var roots []float64
	var yInt bool
	for _, p := range pts {
		switch p.Kind {
		case analysis.XIntercept:
			roots = append(roots, p.X)
		case analysis.YIntercept:
			yInt = p.X == 0 && approxEqual(p.Y, -4, 1e-9)
		}
	}
	if len(roots) != 2 || !approxEqual(math.Abs(roots[0]), 2, 1e-6) || !approxEqual(math.Abs(roots[1]), 2, 1e-6) {
		t.Errorf("x-intercepts = %v, want ±2", roots)
	}
	if !yInt {
		t.Errorf("missing y-intercept (0, -4) in %+v", pts)
	}
}

func TestAnalyzeSkipsHiddenAndNonExplicit(t *testing.T) {
	g := New(nil)
	id := g.Add("y = x")
	g.Add("x^2 + y^2 = 4")
	err := g.Edit(func(s *session.Session) error {
		return s.Update(id, func(e *session.Expression) { e.Visible = false })
	})
	if err != nil {
		t.Fatal(err)
	}
	if pts := g.Analyze(); len(pts) != 0 {
		t.Errorf("Analyze() = %+v, want nothing", pts)
	}
}

func TestViewControls(t *testing.T) {
	g := New(nil, WithSize(800, 600))

	g.Zoom(0.5)
	vp := g.Viewport()
	if !approxEqual(vp.Width(), 10, 1e-12) || !approxEqual(vp.XMin, -5, 1e-12) {
		t.Errorf("after Zoom(0.5) viewport = %v", vp)
	}
	if got := g.Session().Viewport; got != vp {
		t.Errorf("session viewport %v not synced with %v", got, vp)
	}

	g.Reset()
	if g.Viewport() != viewport.Default() {
		t.Errorf("Reset() left %v", g.Viewport())
	}

	// 800 px over 20 units: 40 px per unit.
	g.Pan(40, 0)
	if vp := g.Viewport(); !approxEqual(vp.XMin, -11, 1e-12) {
		t.Errorf("Pan(40, 0) XMin = %v, want -11", vp.XMin)
	}

	bad := viewport.Viewport{XMin: 1, XMax: 1, YMin: 0, YMax: 1}
	if err := g.SetViewport(bad); !errors.Is(err, viewport.ErrInvalid) {
		t.Errorf("SetViewport(bad) = %v", err)
	}
}

func TestFit(t *testing.T) {
	g := New(nil)
	if g.Fit() {
		t.Error("Fit() with no lines changed the view")
	}
	g.Add("y = x^2")
	if !g.Fit() {
		t.Fatal("Fit() reported no change")
	}
	vp := g.Viewport()
	if !approxEqual(vp.YMax, 110, 1e-3) || vp.YMin >= 0 {
		t.Errorf("fitted viewport = %v, want y up to 110", vp)
	}
}

func TestPointerDragPans(t *testing.T) {
	g := New(nil, WithSize(800, 600))
	t0 := time.Unix(0, 0)
	g.PointerDown(100, 100, t0)
	evs := g.PointerMove(140, 100, t0.Add(10*time.Millisecond))
	if len(evs) != 1 || evs[0].Kind != gesture.Drag {
		t.Fatalf("PointerMove() = %+v, want a drag", evs)
	}
	if vp := g.Viewport(); !approxEqual(vp.XMin, -11, 1e-12) {
		t.Errorf("XMin after drag = %v, want -11", vp.XMin)
	}
	evs = g.PointerUp(140, 100, t0.Add(20*time.Millisecond))
	if len(evs) != 1 || evs[0].Kind != gesture.DragEnd {
		t.Errorf("PointerUp() = %+v, want dragEnd", evs)
	}

	g.PointerDown(10, 10, t0)
	if evs := g.Tick(t0.Add(time.Second)); len(evs) != 1 || evs[0].Kind != gesture.Hold {
		t.Errorf("Tick() = %+v, want hold", evs)
	}
}

func TestCAS(t *testing.T) {
	ctx := context.Background()
	g := New(nil)
	target := g.Add("1 + 1")

	res := <-g.RunCAS(ctx, cas.Request{Op: cas.OpSimplify, Expr: "2 + 3", Target: target})
	id, err := g.ApplyCAS(res)
	if err != nil {
		t.Fatalf("ApplyCAS() = %v", err)
	}
	if id != target {
		t.Errorf("result went to %q, want target %q", id, target)
	}
	if got := g.Ans(); got != 5 {
		t.Errorf("Ans() after simplify = %v, want 5", got)
	}

	res = <-g.RunCAS(ctx, cas.Request{Op: cas.OpSolve, Expr: "x^2 = 4"})
	first, err := g.ApplyCAS(res)
	if err != nil {
		t.Fatalf("ApplyCAS(solve) = %v", err)
	}
	lines := g.Lines()
	if len(lines) != 3 {
		t.Fatalf("solve stored %d lines, want the target plus 2 roots", len(lines))
	}
	if lines[1].ID != first {
		t.Errorf("ApplyCAS(solve) = %q, want first root %q", first, lines[1].ID)
	}
	for _, l := range lines[1:] {
		if l.Err != nil || l.Kind != plot.KindImplicit {
			t.Errorf("root line %q: kind %v, err %v", l.Source, l.Kind, l.Err)
		}
	}

	res = <-g.RunCAS(ctx, cas.Request{Op: cas.OpFactor, Expr: "x^2 - 1"})
	before := len(g.Session().Expressions)
	if _, err := g.ApplyCAS(res); !errors.Is(err, cas.ErrUnsupported) {
		t.Errorf("ApplyCAS(failed) = %v, want ErrUnsupported", err)
	}
	if after := len(g.Session().Expressions); after != before {
		t.Errorf("failed action changed the session: %d -> %d lines", before, after)
	}
}

func TestWritePNG(t *testing.T) {
	sess := session.New()
	sess.Theme = session.ThemeDark
	sess.Add("y = sin(x)")
	sess.Add("y > x^2 - 3")
	sess.AddStatPlot("normal", session.ModePDF, 0, 1)
	sess.AddStatPlot("binomial", session.ModePMF, 10, 0.5)
	sess.AddStatPlot("poisson", session.ModeCDF, 3)
	sess.AddStatPlot("nonsense", session.ModePDF)

	g := New(sess, WithSize(200, 150))
	defer g.Close()

	var buf bytes.Buffer
	if err := g.WritePNG(context.Background(), &buf); err != nil {
		t.Fatalf("WritePNG() = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 150 {
		t.Errorf("bounds = %v", b)
	}
}

func TestBlobRoundTrip(t *testing.T) {
	g := New(nil)
	g.Add("y = 2x")
	blob, err := g.Blob()
	if err != nil {
		t.Fatal(err)
	}
	got := New(session.Decode(blob)).Session()
	if len(got.Expressions) != 1 || got.Expressions[0].Source != "y = 2x" {
		t.Errorf("decoded session = %+v", got)
	}
}

func TestFrameErrors(t *testing.T) {
	g := New(nil)
	good := g.Add("y = x")
	bad := g.Add("y = sin(")
	errs := g.Snapshot().Errors()
	if _, ok := errs[bad]; !ok {
		t.Errorf("Errors() = %v, want an entry for the broken line", errs)
	}
	if _, ok := errs[good]; ok {
		t.Error("Errors() reports the valid line")
	}
}

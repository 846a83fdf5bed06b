package plot

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/gogpu/graphcalc/expr"
)

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
	}{
		{"y = x^2", KindExplicit},
		{"x^2+y^2=4", KindImplicit},
		{"x^2+y^2<=4", KindInequality},
		{"1<=x^2+y^2<=4", KindDoubleInequality},
		{"x=cos(t), y=sin(t), t=[0,2*pi]", KindParametric},
		{"y=sin(t); x=cos(t)", KindParametric},
		{"r=1+0.5*cos(theta)", KindPolar},
		{"r = θ, θ in [0, 4*π]", KindPolar},
		{"2+3*4", KindScalar},
		{"ans+1", KindScalar},
		{"sin(x)", KindExplicit},
		{"piecewise(x < 0, -x, x)", KindExplicit},
		{"y > x", KindInequality},
		{"x^2 + y^2 = 1 = 2", KindError},
		{"x = 3", KindImplicit},
		{"x = -2", KindImplicit},
		{"x^2 = a", KindImplicit},
		{"   ", KindEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := Classify(tt.src, nil, 0)
			if got.Kind != tt.want {
				t.Fatalf("Classify(%q).Kind = %v, want %v (err %v)", tt.src, got.Kind, tt.want, got.Err)
			}
			if tt.want != KindError && tt.want != KindEmpty && !got.OK() {
				t.Errorf("Classify(%q) not OK: %v", tt.src, got.Err)
			}
		})
	}
}

func TestClassifyVerticalLine(t *testing.T) {
	c := Classify("x = -2", nil, 0)
	im, ok := c.Curve.(*Implicit)
	if !ok {
		t.Fatalf("Curve = %T, want *Implicit (err %v)", c.Curve, c.Err)
	}
	for _, y := range []float64{-5, 0, 7} {
		if got := im.F(-2, y); got != 0 {
			t.Errorf("F(-2, %v) = %v, want 0", y, got)
		}
	}
	if im.F(-3, 0) >= 0 || im.F(-1, 0) <= 0 {
		t.Error("F does not change sign across the line")
	}
}

func TestClassifyExplicit(t *testing.T) {
	c := Classify("y = x^2", nil, 0)
	e, ok := c.Curve.(*Explicit)
	if !ok {
		t.Fatalf("Curve = %T, want *Explicit", c.Curve)
	}
	if got := e.F(3); got != 9 {
		t.Errorf("F(3) = %v, want 9", got)
	}
}

func TestClassifyInequalityOps(t *testing.T) {
	tests := []struct {
		src    string
		op     Op
		inside [2]float64
	}{
		{"x^2+y^2<=4", OpLE, [2]float64{0, 0}},
		{"x^2+y^2 ≥ 4", OpGE, [2]float64{3, 3}},
		{"y < x", OpLT, [2]float64{1, 0}},
		{"y > x", OpGT, [2]float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c := Classify(tt.src, nil, 0)
			in, ok := c.Curve.(*Inequality)
			if !ok {
				t.Fatalf("Curve = %T, want *Inequality (err %v)", c.Curve, c.Err)
			}
			if in.Op != tt.op {
				t.Errorf("Op = %v, want %v", in.Op, tt.op)
			}
			if !in.Op.Holds(in.F(tt.inside[0], tt.inside[1])) {
				t.Errorf("point %v should satisfy %q", tt.inside, tt.src)
			}
		})
	}
}

func TestClassifyLeftmostOperatorWins(t *testing.T) {
	// Three operators: not a double inequality, so the leftmost splits the
	// line and the right side fails to compile.
	c := Classify("x < y < 1 < (", nil, 0)
	if c.Kind != KindInequality {
		t.Fatalf("Kind = %v, want inequality", c.Kind)
	}
	var pe *expr.ParseError
	if !errors.As(c.Err, &pe) {
		t.Errorf("Err = %v, want *expr.ParseError", c.Err)
	}
}

func TestClassifyDoubleInequality(t *testing.T) {
	c := Classify("1<=x^2+y^2<=4", nil, 0)
	d, ok := c.Curve.(*DoubleInequality)
	if !ok {
		t.Fatalf("Curve = %T, want *DoubleInequality", c.Curve)
	}
	if d.Op1 != OpLE || d.Op2 != OpLE {
		t.Errorf("ops = %v, %v, want le, le", d.Op1, d.Op2)
	}
	in := func(x, y float64) bool { return d.Op1.Holds(d.F1(x, y)) && d.Op2.Holds(d.F2(x, y)) }
	if !in(1.5, 0) {
		t.Error("(1.5, 0) is inside the annulus")
	}
	if in(0, 0) || in(3, 0) {
		t.Error("(0, 0) and (3, 0) are outside the annulus")
	}
}

func TestClassifyParametric(t *testing.T) {
	c := Classify("x=cos(t), y=sin(t), t=[0,2*pi]", nil, 0)
	p, ok := c.Curve.(*Parametric)
	if !ok {
		t.Fatalf("Curve = %T, want *Parametric (err %v)", c.Curve, c.Err)
	}
	if p.TMin != 0 || math.Abs(p.TMax-6.283) > 1e-3 {
		t.Errorf("range = [%v, %v], want [0, 6.283]", p.TMin, p.TMax)
	}
	if x, y := p.X(0), p.Y(0); x != 1 || y != 0 {
		t.Errorf("(X(0), Y(0)) = (%v, %v), want (1, 0)", x, y)
	}

	d := Classify("x=t, y=t^2", nil, 0).Curve.(*Parametric)
	if d.TMin != DefaultTMin || d.TMax != DefaultTMax {
		t.Errorf("default range = [%v, %v], want [%v, %v]", d.TMin, d.TMax, DefaultTMin, DefaultTMax)
	}
}

func TestClassifyPolar(t *testing.T) {
	c := Classify("r=1+0.5*cos(theta)", nil, 0)
	p, ok := c.Curve.(*Polar)
	if !ok {
		t.Fatalf("Curve = %T, want *Polar (err %v)", c.Curve, c.Err)
	}
	if p.ThetaMin != 0 || p.ThetaMax != 2*math.Pi {
		t.Errorf("range = [%v, %v], want [0, 2pi]", p.ThetaMin, p.ThetaMax)
	}
	if got := p.R(0); got != 1.5 {
		t.Errorf("R(0) = %v, want 1.5", got)
	}

	r := Classify("r = theta, theta in [0, k*pi]", map[string]float64{"k": 4}, 0)
	rp, ok := r.Curve.(*Polar)
	if !ok {
		t.Fatalf("Curve = %T, want *Polar (err %v)", r.Curve, r.Err)
	}
	if math.Abs(rp.ThetaMax-4*math.Pi) > 1e-12 {
		t.Errorf("ThetaMax = %v, want 4pi", rp.ThetaMax)
	}
}

func TestClassifyRangeErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
	}{
		{"r = theta, theta in [2, 1]", KindError},
		{"r = theta, theta in [0, 1, 2]", KindError},
		{"x=t, y=t, t=[0, 1/0]", KindError},
		{"x=t, y=t, t=[0, (]", KindParametric},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c := Classify(tt.src, nil, 0)
			if c.Kind != tt.kind || c.Err == nil {
				t.Errorf("Classify(%q) = (%v, %v), want (%v, error)", tt.src, c.Kind, c.Err, tt.kind)
			}
			if c.Curve != nil {
				t.Error("failed line must not carry a curve")
			}
		})
	}
}

func TestClassifyFailSoft(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
	}{
		{"y = sin(", KindExplicit},
		{"r = foo(theta)", KindPolar},
		{"x^2 + y^2 <= (", KindInequality},
		{"x + y = (", KindImplicit},
		{"2 +", KindScalar},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c := Classify(tt.src, nil, 0)
			if c.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", c.Kind, tt.kind)
			}
			var pe *expr.ParseError
			if !errors.As(c.Err, &pe) {
				t.Errorf("Err = %v, want *expr.ParseError", c.Err)
			}
		})
	}

	var ce *ClassificationError
	if c := Classify("x = y = 1", nil, 0); !errors.As(c.Err, &ce) {
		t.Errorf("two '=' signs: Err = %v, want *ClassificationError", c.Err)
	}
}

func TestClassifyParams(t *testing.T) {
	c := Classify("y = a*x^2 + b", map[string]float64{"b": 3}, 0)
	if want := []string{"a", "b"}; !reflect.DeepEqual(c.Params, want) {
		t.Errorf("Params = %v, want %v", c.Params, want)
	}
	if want := map[string]float64{"a": 1, "b": 3}; !reflect.DeepEqual(c.Values, want) {
		t.Errorf("Values = %v, want %v", c.Values, want)
	}
	if got := c.Curve.(*Explicit).F(2); got != 7 {
		t.Errorf("F(2) = %v, want 7", got)
	}
}

func TestCompileAllThreadsAns(t *testing.T) {
	lines := []Line{
		{ID: "a", Source: "2+3*4"},
		{ID: "b", Source: "y = x + ans"},
		{ID: "c", Source: "1/0"},
		{ID: "d", Source: "ans+1"},
		{ID: "e", Source: "sqrt(-1)"},
		{ID: "f", Source: "ans*2"},
	}
	got, ans := CompileAll(lines, nil)

	scalar := func(i int) float64 { return got[i].Curve.(*Scalar).Value }
	if v := scalar(0); v != 14 {
		t.Errorf("line a = %v, want 14", v)
	}
	if v := got[1].Curve.(*Explicit).F(1); v != 15 {
		t.Errorf("line b at x=1 = %v, want 15", v)
	}
	if v := scalar(2); !math.IsInf(v, 1) {
		t.Errorf("line c = %v, want +Inf", v)
	}
	// Non-finite results leave the register unchanged.
	if v := scalar(3); v != 15 {
		t.Errorf("line d = %v, want 15", v)
	}
	if v := scalar(5); v != 30 {
		t.Errorf("line f = %v, want 30", v)
	}
	if ans != 30 {
		t.Errorf("final ans = %v, want 30", ans)
	}
	if got[3].ID != "d" {
		t.Errorf("ID = %q, want d", got[3].ID)
	}
}

func TestCompileAllSpecExample(t *testing.T) {
	got, _ := CompileAll([]Line{{Source: "2+3*4"}, {Source: "ans+1"}}, nil)
	if v := got[1].Curve.(*Scalar).Value; v != 15 {
		t.Errorf("ans+1 = %v, want 15", v)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  r = 2θ ", "r = 2theta"},
		{"x ≤ 3", "x <= 3"},
		{"ｙ＝ｘ", "y=x"},
		{"2×π", "2*pi"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitTop(t *testing.T) {
	got := splitTop("x=max(t,1), y=t; t=[0, 2]", ",;")
	want := []string{"x=max(t,1)", "y=t", "t=[0, 2]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitTop() = %q, want %q", got, want)
	}
}

package plot

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/gogpu/graphcalc/expr"
	"github.com/gogpu/graphcalc/internal/logging"
)

// Default parameter ranges for curves that do not state one.
const (
	DefaultTMin = -10.0
	DefaultTMax = 10.0

	DefaultThetaMin = 0.0
	DefaultThetaMax = 2 * math.Pi

	// DefaultParamValue is used for free parameters the user has not set.
	DefaultParamValue = 1.0
)

var (
	reExplicit = regexp.MustCompile(`^y\s*=\s*([^=].*)$`)
	reAssign   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*([^=].*)$`)
	reRange    = regexp.MustCompile(`^(t|theta)\s*(?:=|\bin\b)\s*\[(.*)\]$`)
	reHasR     = regexp.MustCompile(`(?:^|[^A-Za-z0-9_])r\s*=(?:[^=]|$)`)
	reHasX     = regexp.MustCompile(`(?:^|[^A-Za-z0-9_])x\s*=(?:[^=]|$)`)
	reHasY     = regexp.MustCompile(`(?:^|[^A-Za-z0-9_])y\s*=(?:[^=]|$)`)
)

// Classify decides the plot kind of one source line and compiles it.
// params holds user-set parameter values; ans is the running result of the
// scalar lines above this one.
//
// The decision order is fixed and the first match wins: explicit y = f(x),
// polar, parametric, double inequality, single inequality, implicit (which
// also takes equations in x alone), scalar, and finally an explicit fallback over x. A compile failure in the
// chosen branch is reported on that branch; it never falls through.
func Classify(source string, params map[string]float64, ans float64) Compiled {
	out := Compiled{Source: source}
	src := normalize(source)
	if src == "" {
		out.Kind = KindEmpty
		return out
	}

	c := &classifier{params: params, ans: ans, seen: make(map[string]bool)}
	kind, curve, err := c.classify(src)
	out.Kind = kind
	if err != nil {
		var ce *ClassificationError
		if errors.As(err, &ce) {
			out.Kind = KindError
		}
		out.Err = err
		logging.Logger().Debug("plot: line did not compile", "source", source, "kind", out.Kind, "err", err)
		return out
	}
	out.Curve = curve
	out.Params = c.names
	out.Values = c.values()
	return out
}

// CompileAll classifies lines top to bottom, threading the running result
// register through them. Only finite scalar results update the register.
// It returns the compiled lines and the final register value.
func CompileAll(lines []Line, params map[string]float64) ([]Compiled, float64) {
	out := make([]Compiled, len(lines))
	ans := 0.0
	for i, l := range lines {
		c := Classify(l.Source, params, ans)
		c.ID = l.ID
		if s, ok := c.Curve.(*Scalar); ok && isFinite(s.Value) {
			ans = s.Value
		}
		out[i] = c
	}
	return out, ans
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type classifier struct {
	params map[string]float64
	ans    float64
	names  []string
	seen   map[string]bool
}

func (c *classifier) classify(src string) (Kind, Curve, error) {
	ids := make(map[string]bool)
	for _, id := range expr.Identifiers(src) {
		ids[id] = true
	}

	if m := reExplicit.FindStringSubmatch(src); m != nil && len(splitTop(m[1], ",;")) == 1 {
		return c.explicit(m[1])
	}
	if ids[expr.VarTheta] && reHasR.MatchString(src) {
		return c.polar(src)
	}
	if ids[expr.VarT] && reHasX.MatchString(src) && reHasY.MatchString(src) {
		return c.parametric(src)
	}

	switch ops := findOps(src); {
	case len(ops) == 2:
		return c.doubleInequality(src, ops[0], ops[1])
	case len(ops) > 0:
		return c.inequality(src, ops[0])
	}

	eq := equalsPositions(src)
	if len(eq) > 0 && ids[expr.VarX] && ids[expr.VarY] {
		if len(eq) > 1 {
			return KindError, nil, &ClassificationError{Source: src, Msg: "implicit equation has more than one '='"}
		}
		return c.implicit(src, eq[0])
	}
	// An equation in x alone, such as x = 3, is a set of vertical lines.
	if len(eq) == 1 && ids[expr.VarX] && !ids[expr.VarT] && !ids[expr.VarTheta] {
		return c.implicit(src, eq[0])
	}
	if len(eq) == 0 && !ids[expr.VarX] && !ids[expr.VarY] && !ids[expr.VarT] && !ids[expr.VarTheta] {
		return c.scalar(src)
	}
	return c.explicit(src)
}

// compile compiles text and records its free parameters.
func (c *classifier) compile(text string) (*expr.Expression, error) {
	e, err := expr.Compile(text)
	if err != nil {
		return nil, err
	}
	for _, p := range e.Params() {
		if !c.seen[p] {
			c.seen[p] = true
			c.names = append(c.names, p)
		}
	}
	return e, nil
}

func (c *classifier) value(name string) float64 {
	if v, ok := c.params[name]; ok {
		return v
	}
	return DefaultParamValue
}

func (c *classifier) values() map[string]float64 {
	if len(c.names) == 0 {
		return nil
	}
	vals := make(map[string]float64, len(c.names))
	for _, n := range c.names {
		vals[n] = c.value(n)
	}
	return vals
}

// bindings must be taken after every piece of the line is compiled so
// that all parameters are known.
func (c *classifier) bindings() expr.Bindings {
	b := make(expr.Bindings, len(c.names)+1)
	for _, n := range c.names {
		b[n] = c.value(n)
	}
	b[expr.VarAns] = c.ans
	return b
}

func (c *classifier) explicit(text string) (Kind, Curve, error) {
	e, err := c.compile(text)
	if err != nil {
		return KindExplicit, nil, err
	}
	return KindExplicit, &Explicit{F: e.Func1(expr.VarX, c.bindings())}, nil
}

func (c *classifier) scalar(text string) (Kind, Curve, error) {
	e, err := c.compile(text)
	if err != nil {
		return KindScalar, nil, err
	}
	return KindScalar, &Scalar{Value: e.Evaluate(c.bindings())}, nil
}

// sub returns F(x, y) = a(x, y) - b(x, y).
func sub(a, b *expr.Expression, base expr.Bindings) func(x, y float64) float64 {
	fa := a.Func2(expr.VarX, expr.VarY, base)
	fb := b.Func2(expr.VarX, expr.VarY, base)
	return func(x, y float64) float64 {
		return fa(x, y) - fb(x, y)
	}
}

func (c *classifier) inequality(src string, op opMatch) (Kind, Curve, error) {
	l, err := c.compile(src[:op.start])
	if err != nil {
		return KindInequality, nil, err
	}
	r, err := c.compile(src[op.end:])
	if err != nil {
		return KindInequality, nil, err
	}
	return KindInequality, &Inequality{F: sub(l, r, c.bindings()), Op: op.op}, nil
}

func (c *classifier) doubleInequality(src string, op1, op2 opMatch) (Kind, Curve, error) {
	var parts [3]*expr.Expression
	texts := [3]string{src[:op1.start], src[op1.end:op2.start], src[op2.end:]}
	for i, text := range texts {
		e, err := c.compile(text)
		if err != nil {
			return KindDoubleInequality, nil, err
		}
		parts[i] = e
	}
	base := c.bindings()
	return KindDoubleInequality, &DoubleInequality{
		F1:  sub(parts[0], parts[1], base),
		Op1: op1.op,
		F2:  sub(parts[1], parts[2], base),
		Op2: op2.op,
	}, nil
}

func (c *classifier) implicit(src string, eq int) (Kind, Curve, error) {
	l, err := c.compile(src[:eq])
	if err != nil {
		return KindImplicit, nil, err
	}
	r, err := c.compile(src[eq+1:])
	if err != nil {
		return KindImplicit, nil, err
	}
	return KindImplicit, &Implicit{F: sub(l, r, c.bindings())}, nil
}

func (c *classifier) polar(src string) (Kind, Curve, error) {
	var rText, rangeText string
	hasRange := false
	for _, part := range splitTop(src, ",;") {
		if m := reRange.FindStringSubmatch(part); m != nil && m[1] == expr.VarTheta {
			rangeText, hasRange = m[2], true
			continue
		}
		if m := reAssign.FindStringSubmatch(part); m != nil && m[1] == "r" && rText == "" {
			rText = m[2]
			continue
		}
		return KindError, nil, &ClassificationError{Source: src, Msg: fmt.Sprintf("unexpected clause %q in polar curve", part)}
	}
	if rText == "" {
		return KindError, nil, &ClassificationError{Source: src, Msg: "polar curve needs r = f(theta)"}
	}

	r, err := c.compile(rText)
	if err != nil {
		return KindPolar, nil, err
	}
	lo, hi := DefaultThetaMin, DefaultThetaMax
	if hasRange {
		if lo, hi, err = c.bounds(src, rangeText); err != nil {
			return KindPolar, nil, err
		}
	}
	return KindPolar, &Polar{R: r.Func1(expr.VarTheta, c.bindings()), ThetaMin: lo, ThetaMax: hi}, nil
}

func (c *classifier) parametric(src string) (Kind, Curve, error) {
	var xText, yText, rangeText string
	hasRange := false
	for _, part := range splitTop(src, ",;") {
		if m := reRange.FindStringSubmatch(part); m != nil && m[1] == expr.VarT {
			rangeText, hasRange = m[2], true
			continue
		}
		if m := reAssign.FindStringSubmatch(part); m != nil {
			switch {
			case m[1] == expr.VarX && xText == "":
				xText = m[2]
				continue
			case m[1] == expr.VarY && yText == "":
				yText = m[2]
				continue
			}
		}
		return KindError, nil, &ClassificationError{Source: src, Msg: fmt.Sprintf("unexpected clause %q in parametric curve", part)}
	}
	if xText == "" || yText == "" {
		return KindError, nil, &ClassificationError{Source: src, Msg: "parametric curve needs both x = f(t) and y = g(t)"}
	}

	xe, err := c.compile(xText)
	if err != nil {
		return KindParametric, nil, err
	}
	ye, err := c.compile(yText)
	if err != nil {
		return KindParametric, nil, err
	}
	lo, hi := DefaultTMin, DefaultTMax
	if hasRange {
		if lo, hi, err = c.bounds(src, rangeText); err != nil {
			return KindParametric, nil, err
		}
	}
	base := c.bindings()
	return KindParametric, &Parametric{
		X:    xe.Func1(expr.VarT, base),
		Y:    ye.Func1(expr.VarT, base),
		TMin: lo,
		TMax: hi,
	}, nil
}

// bounds compiles "a, b" and evaluates both once. The range must be finite
// and non-empty.
func (c *classifier) bounds(src, text string) (float64, float64, error) {
	parts := splitTop(text, ",")
	if len(parts) != 2 {
		return 0, 0, &ClassificationError{Source: src, Msg: fmt.Sprintf("range [%s] needs exactly two bounds", text)}
	}
	lo, err := c.compile(parts[0])
	if err != nil {
		return 0, 0, err
	}
	hi, err := c.compile(parts[1])
	if err != nil {
		return 0, 0, err
	}
	base := c.bindings()
	a, b := lo.Evaluate(base), hi.Evaluate(base)
	if !isFinite(a) || !isFinite(b) || a >= b {
		return 0, 0, &ClassificationError{Source: src, Msg: fmt.Sprintf("invalid range [%s]", text)}
	}
	return a, b, nil
}

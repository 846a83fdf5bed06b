package expr

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		src  string
		vars Bindings
		want float64
	}{
		{"2+3*4", nil, 14},
		{"2^10", nil, 1024},
		{"7/2", nil, 3.5},
		{"pi", nil, math.Pi},
		{"tau/2", nil, math.Pi},
		{"e", nil, math.E},
		{"phi", nil, math.Phi},
		{"sin(pi/2)", nil, 1},
		{"atan2(1, 1)", nil, math.Pi / 4},
		{"sec(0)", nil, 1},
		{"sind(90)", nil, 1},
		{"asind(1)", nil, 90},
		{"deg(pi)", nil, 180},
		{"rad(180)", nil, math.Pi},
		{"ln(e)", nil, 1},
		{"log(1000)", nil, 3},
		{"log2(8)", nil, 3},
		{"logb(81, 3)", nil, 4},
		{"round(2.456, 1)", nil, 2.5},
		{"trunc(-2.7)", nil, -2},
		{"sgn(-3)", nil, -1},
		{"abs(-4)", nil, 4},
		{"pow(2, 5)", nil, 32},
		{"mod(-1, 3)", nil, 2},
		{"min(3, 1, 2)", nil, 1},
		{"max(3, 1, 2)", nil, 3},
		{"clamp(5, 0, 2)", nil, 2},
		{"lerp(10, 20, 0.25)", nil, 12.5},
		{"heaviside(0)", nil, 0.5},
		{"step(-1)", nil, 0},
		{"heaviside(3)", nil, 1},
		{"piecewise(false, 1, true, 2, 99)", nil, 2},
		{"piecewise(false, 1, false, 2, 99)", nil, 99},
		{"piecewise(x < 0, -x, x)", Bindings{"x": -3}, 3},
		{"fact(5)", nil, 120},
		{"factorial(0)", nil, 1},
		{"nCr(5, 2)", nil, 10},
		{"nPr(5, 2)", nil, 20},
		{"nCr(2, 5)", nil, 0},
		{"a*x + b", Bindings{"a": 2, "b": 1, "x": 3}, 7},
		{"ans + 1", Bindings{"ans": 14}, 15},
		{"x > 0", Bindings{"x": 1}, 1},
		{"3000000000*4000000000", nil, 1.2e19},
		{"100000*100000*100000*100000", nil, 1e20},
		{"9007199254740993 + 0", nil, 9007199254740992},
		{"5.5 % 2", nil, 1.5},
		{"-1 % 3", nil, 2},
		{"7 % -3", nil, -2},
		{"x % 2", Bindings{"x": 5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Compile(tt.src)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.src, err)
			}
			if got := e.Evaluate(tt.vars); !approx(got, tt.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvaluateNonFinite(t *testing.T) {
	tests := []struct {
		src  string
		nan  bool
		sign int
	}{
		{src: "sqrt(-1)", nan: true},
		{src: "fact(-1)", nan: true},
		{src: "fact(2.5)", nan: true},
		{src: "nCr(2.5, 1)", nan: true},
		{src: "mod(1, 0)", nan: true},
		{src: "1 % 0", nan: true},
		{src: "q + 1", nan: true}, // unbound parameter
		{src: "ln(0)", sign: -1},
		{src: "1/0", sign: 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := MustCompile(tt.src).Evaluate(nil)
			if tt.nan && !math.IsNaN(got) {
				t.Errorf("Evaluate(%q) = %v, want NaN", tt.src, got)
			}
			if tt.sign != 0 && !math.IsInf(got, tt.sign) {
				t.Errorf("Evaluate(%q) = %v, want Inf(%d)", tt.src, got, tt.sign)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unbalanced", "sin(x"},
		{"dangling operator", "2 +"},
		{"unknown function", "foo(x)"},
		{"parser builtin", "sum(1)"},
		{"parser predicate", "map(1)"},
		{"too few arguments", "atan2(1)"},
		{"too many arguments", "sqrt(1, 2)"},
		{"piecewise needs a pair", "piecewise(1)"},
		{"blank", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Compile(%q) error = %v, want *ParseError", tt.src, err)
			}
			if pe.Msg == "" {
				t.Error("ParseError.Msg is empty")
			}
		})
	}

	for _, src := range []string{"sum(1)", "len(x)", "map(1)"} {
		_, err := Compile(src)
		var pe *ParseError
		if !errors.As(err, &pe) || !strings.Contains(pe.Msg, "unknown function") {
			t.Errorf("Compile(%q) error = %v, want unknown function", src, err)
		}
	}

	if _, err := Compile(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("Compile(\"\") error = %v, want ErrEmpty", err)
	}
}

func TestFreeParameters(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"a*x^2 + b*x + c", []string{"a", "b", "c"}},
		{"k*sin(w*t + theta)", []string{"k", "w"}},
		{"b + a + b", []string{"b", "a"}},
		{"pi*r^2 + ans", []string{"r"}},
		{"sin(x)", nil},
		{"m*x + (", []string{"m"}}, // does not parse: lexical fallback
		{"1e5*k", []string{"k"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := FreeParameters(tt.src); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FreeParameters(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestParamsMatchesFreeParameters(t *testing.T) {
	e := MustCompile("amp*cos(freq*x) + offset")
	want := []string{"amp", "freq", "offset"}
	if got := e.Params(); !reflect.DeepEqual(got, want) {
		t.Errorf("Params() = %v, want %v", got, want)
	}
}

func TestFunc1AndFunc2(t *testing.T) {
	f := MustCompile("a*x^2").Func1(VarX, Bindings{"a": 3})
	if got := f(2); got != 12 {
		t.Errorf("f(2) = %v, want 12", got)
	}

	g := MustCompile("x^2 + y^2 - r").Func2(VarX, VarY, Bindings{"r": 4})
	if got := g(1, 1); got != -2 {
		t.Errorf("g(1, 1) = %v, want -2", got)
	}
}

func TestIdentifiers(t *testing.T) {
	got := Identifiers("x^2 + sin(theta) + x")
	want := []string{"x", "sin", "theta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Identifiers() = %v, want %v", got, want)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"pi", "sin", "piecewise", "nCr", "logb"} {
		if !IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false", name)
		}
	}
	for _, name := range []string{"x", "y", "t", "theta", "ans"} {
		if !IsReserved(name) {
			t.Errorf("IsReserved(%q) = false", name)
		}
	}
	if IsRegistered("a") || IsReserved("a") {
		t.Error("a should be a free parameter name")
	}
}

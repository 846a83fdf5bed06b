package expr

import (
	"math"
	"math/rand/v2"
)

// Reserved variable names. They are bound by the plot kind that evaluates
// an expression and are never reported as free parameters.
const (
	VarX     = "x"
	VarY     = "y"
	VarT     = "t"
	VarTheta = "theta"
	VarAns   = "ans"
)

var reserved = map[string]bool{VarX: true, VarY: true, VarT: true, VarTheta: true, VarAns: true}

// Constants are the named constants available to every formula.
var Constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
	"phi": math.Phi,
}

// function is a registry entry. maxArgs < 0 means variadic.
type function struct {
	minArgs int
	maxArgs int
	fn      func(args []float64) float64
}

func unary(f func(float64) float64) function {
	return function{minArgs: 1, maxArgs: 1, fn: func(a []float64) float64 { return f(a[0]) }}
}

func binary(f func(a, b float64) float64) function {
	return function{minArgs: 2, maxArgs: 2, fn: func(a []float64) float64 { return f(a[0], a[1]) }}
}

const degree = math.Pi / 180

var functions = map[string]function{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"atan2": binary(math.Atan2),

	"sec": unary(func(x float64) float64 { return 1 / math.Cos(x) }),
	"csc": unary(func(x float64) float64 { return 1 / math.Sin(x) }),
	"cot": unary(func(x float64) float64 { return math.Cos(x) / math.Sin(x) }),

	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"asinh": unary(math.Asinh),
	"acosh": unary(math.Acosh),
	"atanh": unary(math.Atanh),
	"sech":  unary(func(x float64) float64 { return 1 / math.Cosh(x) }),
	"csch":  unary(func(x float64) float64 { return 1 / math.Sinh(x) }),
	"coth":  unary(func(x float64) float64 { return math.Cosh(x) / math.Sinh(x) }),

	"sind":  unary(func(x float64) float64 { return math.Sin(x * degree) }),
	"cosd":  unary(func(x float64) float64 { return math.Cos(x * degree) }),
	"tand":  unary(func(x float64) float64 { return math.Tan(x * degree) }),
	"asind": unary(func(x float64) float64 { return math.Asin(x) / degree }),
	"acosd": unary(func(x float64) float64 { return math.Acos(x) / degree }),
	"atand": unary(func(x float64) float64 { return math.Atan(x) / degree }),
	"deg":   unary(func(x float64) float64 { return x / degree }),
	"rad":   unary(func(x float64) float64 { return x * degree }),

	"ln":    unary(math.Log),
	"log10": unary(math.Log10),
	"log2":  unary(math.Log2),
	"logb":  binary(logb),
	"log": {minArgs: 1, maxArgs: 2, fn: func(a []float64) float64 {
		if len(a) == 2 {
			return logb(a[0], a[1])
		}
		return math.Log10(a[0])
	}},

	"round": {minArgs: 1, maxArgs: 2, fn: func(a []float64) float64 {
		if len(a) == 2 {
			p := math.Pow(10, math.Trunc(a[1]))
			return math.Round(a[0]*p) / p
		}
		return math.Round(a[0])
	}},
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"trunc": unary(math.Trunc),
	"sign":  unary(sign),
	"sgn":   unary(sign),

	"abs":  unary(math.Abs),
	"sqrt": unary(math.Sqrt),
	"cbrt": unary(math.Cbrt),
	"exp":  unary(math.Exp),
	"pow":  binary(math.Pow),
	"mod":  binary(mod),
	"min":  {minArgs: 1, maxArgs: -1, fn: minOf},
	"max":  {minArgs: 1, maxArgs: -1, fn: maxOf},
	"random": {minArgs: 0, maxArgs: 2, fn: func(a []float64) float64 {
		switch len(a) {
		case 1:
			return rand.Float64() * a[0]
		case 2:
			return a[0] + rand.Float64()*(a[1]-a[0])
		}
		return rand.Float64()
	}},

	"clamp": {minArgs: 3, maxArgs: 3, fn: func(a []float64) float64 {
		return math.Min(math.Max(a[0], a[1]), a[2])
	}},
	"lerp": {minArgs: 3, maxArgs: 3, fn: func(a []float64) float64 {
		return a[0] + (a[1]-a[0])*a[2]
	}},
	"heaviside": unary(heaviside),
	"step":      unary(heaviside),
	"piecewise": {minArgs: 2, maxArgs: -1, fn: piecewise},

	"fact":      unary(factorial),
	"factorial": unary(factorial),
	"nCr":       binary(nCr),
	"nPr":       binary(nPr),
}

// IsRegistered reports whether name is a registry constant or function.
func IsRegistered(name string) bool {
	if _, ok := Constants[name]; ok {
		return true
	}
	_, ok := functions[name]
	return ok
}

// IsReserved reports whether name is one of the plot variables
// x, y, t, theta or the running result ans.
func IsReserved(name string) bool {
	return reserved[name]
}

// Functions returns the names of all registry functions.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	return names
}

func logb(x, base float64) float64 {
	return math.Log(x) / math.Log(base)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x // 0, -0 or NaN
}

// mod is the floored modulo: the result takes the sign of the divisor.
func mod(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	return a - b*math.Floor(a/b)
}

func minOf(a []float64) float64 {
	m := a[0]
	for _, v := range a[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(a []float64) float64 {
	m := a[0]
	for _, v := range a[1:] {
		m = math.Max(m, v)
	}
	return m
}

func heaviside(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return 0
	case x == 0:
		return 0.5
	}
	return math.NaN()
}

func truthy(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

// piecewise(c1, v1, c2, v2, ..., default) returns the value paired with the
// first truthy condition, else the trailing default, else NaN.
func piecewise(a []float64) float64 {
	i := 0
	for ; i+1 < len(a); i += 2 {
		if truthy(a[i]) {
			return a[i+1]
		}
	}
	if i < len(a) {
		return a[i]
	}
	return math.NaN()
}

func isNonNegativeInt(n float64) bool {
	return n >= 0 && n == math.Trunc(n) && !math.IsInf(n, 0)
}

func factorial(n float64) float64 {
	if !isNonNegativeInt(n) {
		return math.NaN()
	}
	if n > 170 {
		return math.Inf(1)
	}
	r := 1.0
	for i := 2.0; i <= n; i++ {
		r *= i
	}
	return r
}

func nCr(n, r float64) float64 {
	if !isNonNegativeInt(n) || !isNonNegativeInt(r) {
		return math.NaN()
	}
	if r > n {
		return 0
	}
	r = math.Min(r, n-r)
	c := 1.0
	for i := 1.0; i <= r; i++ {
		c = c * (n - r + i) / i
	}
	return math.Round(c)
}

func nPr(n, r float64) float64 {
	if !isNonNegativeInt(n) || !isNonNegativeInt(r) {
		return math.NaN()
	}
	if r > n {
		return 0
	}
	p := 1.0
	for i := n - r + 1; i <= n; i++ {
		p *= i
	}
	return p
}

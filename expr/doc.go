// Package expr compiles calculator formulas into evaluable numeric functions.
//
// A formula is ordinary infix arithmetic over float64 values:
//
//	e, _ := expr.Compile("a*sin(x)^2 + piecewise(x < 0, -1, 1)")
//	y := e.Evaluate(expr.Bindings{"x": 0.5, "a": 2})
//
// Compilation is the only step that can fail. Evaluation never returns an
// error: domain errors (sqrt(-1)), unbound names and runtime faults all
// produce NaN, which callers treat as "no value at this sample".
//
// Every identifier that is neither a registry name (see Constants and
// Functions) nor a reserved variable (x, y, t, theta, ans) is a free
// parameter, reported by Params and FreeParameters.
package expr

package cas

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/graphcalc/analysis"
	"github.com/gogpu/graphcalc/expr"
)

// Numeric is a Provider that answers what it can without symbolic algebra:
// Simplify folds constant expressions and Solve finds real roots by
// sampling. Other operations return ErrUnsupported.
type Numeric struct {
	// Min and Max bound the search interval of Solve. Zero values mean
	// [-100, 100].
	Min, Max float64
	// Samples is the grid size for Solve. Zero means 20001.
	Samples int
}

var _ Provider = Numeric{}

func (Numeric) Simplify(_ context.Context, text string) (string, error) {
	e, err := expr.Compile(text)
	if err != nil {
		return "", err
	}
	if len(e.Params()) > 0 || hasVariable(text) {
		return "", fmt.Errorf("%w: simplify of a non-constant expression", ErrUnsupported)
	}
	return formatNumber(e.Evaluate(nil)), nil
}

func hasVariable(text string) bool {
	for _, id := range expr.Identifiers(text) {
		if expr.IsReserved(id) {
			return true
		}
	}
	return false
}

func (Numeric) Expand(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUnsupported, OpExpand)
}

func (Numeric) Factor(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUnsupported, OpFactor)
}

func (Numeric) PartialFractions(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUnsupported, OpPartialFractions)
}

func (Numeric) SolveSystem(context.Context, []string, []string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUnsupported, OpSolveSystem)
}

// Solve returns the real roots of equation in variable inside the search
// interval as "v = r1, v = r2". An equation without '=' is solved for zero.
func (n Numeric) Solve(ctx context.Context, equation, variable string) (string, error) {
	lhs, rhs := equation, "0"
	if i := strings.IndexByte(equation, '='); i >= 0 {
		lhs, rhs = equation[:i], equation[i+1:]
	}
	l, err := expr.Compile(lhs)
	if err != nil {
		return "", err
	}
	r, err := expr.Compile(rhs)
	if err != nil {
		return "", err
	}
	fl, fr := l.Func1(variable, nil), r.Func1(variable, nil)
	f := func(v float64) float64 { return fl(v) - fr(v) }

	lo, hi := n.Min, n.Max
	if lo == 0 && hi == 0 {
		lo, hi = -100, 100
	}
	samples := n.Samples
	if samples <= 0 {
		samples = 20001
	}

	c := analysis.Curve{ID: variable, F: f}
	var roots []string
	for _, p := range analysis.XIntercepts(c, analysis.Grid(lo, hi, samples)) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		roots = append(roots, variable+" = "+formatNumber(p.X))
	}
	if len(roots) == 0 {
		return "", fmt.Errorf("no real solution for %s in [%g, %g]", variable, lo, hi)
	}
	return strings.Join(dedupStrings(roots), ", "), nil
}

func dedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// formatNumber prints v with 10 significant digits and snaps values within
// 1e-9 of an integer.
func formatNumber(v float64) string {
	if r := math.Round(v); math.Abs(v-r) < 1e-9 {
		v = r
	}
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// Package cas connects a symbolic algebra system to the expression list.
//
// The algebra itself is external. Actions run off the render path: Run
// returns immediately and delivers exactly one Result when the provider
// answers. A failed action is reported once and never retried.
package cas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gogpu/graphcalc/internal/logging"
	"github.com/gogpu/graphcalc/provider"
)

// ErrUnsupported is returned for operations a provider does not implement.
var ErrUnsupported = errors.New("cas: unsupported operation")

// Provider is a symbolic algebra backend. Every method returns plain
// expression text.
type Provider interface {
	Simplify(ctx context.Context, expr string) (string, error)
	Expand(ctx context.Context, expr string) (string, error)
	Factor(ctx context.Context, expr string) (string, error)
	PartialFractions(ctx context.Context, expr string) (string, error)
	Solve(ctx context.Context, equation, variable string) (string, error)
	SolveSystem(ctx context.Context, equations, variables []string) (string, error)
}

// Op names a provider operation.
type Op string

const (
	OpSimplify         Op = "simplify"
	OpExpand           Op = "expand"
	OpFactor           Op = "factor"
	OpPartialFractions Op = "partialFractions"
	OpSolve            Op = "solve"
	OpSolveSystem      Op = "solveSystem"
)

// Request is one user-initiated action. Target is the id of the line the
// result replaces; empty means the result is appended as a new line.
type Request struct {
	Op        Op
	Expr      string
	Equations []string
	Variables []string
	Target    string
}

// Result is the outcome of a Request. Exactly one of Text and Err is set.
type Result struct {
	Request Request
	Text    string
	Err     error
}

// Lines splits Text into expression lines. A solve result such as
// "x = -2, x = 2" gives one line per root; anything else is one line.
func (r Result) Lines() []string {
	if r.Request.Op != OpSolve {
		return []string{r.Text}
	}
	var out []string
	for _, part := range strings.Split(r.Text, ", ") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{r.Text}
	}
	return out
}

// ProviderError wraps a failure reported by the provider.
type ProviderError struct {
	Op  Op
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("cas: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Do performs req synchronously.
func Do(ctx context.Context, p Provider, req Request) (string, error) {
	var (
		text string
		err  error
	)
	switch req.Op {
	case OpSimplify:
		text, err = p.Simplify(ctx, req.Expr)
	case OpExpand:
		text, err = p.Expand(ctx, req.Expr)
	case OpFactor:
		text, err = p.Factor(ctx, req.Expr)
	case OpPartialFractions:
		text, err = p.PartialFractions(ctx, req.Expr)
	case OpSolve:
		v := "x"
		if len(req.Variables) > 0 {
			v = req.Variables[0]
		}
		text, err = p.Solve(ctx, req.Expr, v)
	case OpSolveSystem:
		text, err = p.SolveSystem(ctx, req.Equations, req.Variables)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupported, req.Op)
	}
	if err != nil {
		return "", &ProviderError{Op: req.Op, Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ProviderError{Op: req.Op, Err: errors.New("empty result")}
	}
	return text, nil
}

// Run performs req in the background against the provider held by h and
// delivers one Result on the returned channel, which is then closed.
func Run(ctx context.Context, h *provider.Handle[Provider], req Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		start := time.Now()
		res := Result{Request: req}

		p, err := h.Get(ctx)
		if err != nil {
			res.Err = &ProviderError{Op: req.Op, Err: err}
		} else {
			res.Text, res.Err = do(ctx, p, req)
		}

		if res.Err != nil {
			logging.Logger().Warn("cas: action failed", "op", req.Op, "err", res.Err)
		} else {
			logging.Logger().Debug("cas: action done", "op", req.Op, "elapsed", time.Since(start))
		}
		out <- res
	}()
	return out
}

// do is Do with provider panics turned into errors.
func do(ctx context.Context, p Provider, req Request) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &ProviderError{Op: req.Op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return Do(ctx, p, req)
}

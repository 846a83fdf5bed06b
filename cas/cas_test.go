package cas

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gogpu/graphcalc/provider"
)

type fake struct {
	Numeric
	factor func(string) (string, error)
}

func (f fake) Factor(_ context.Context, e string) (string, error) { return f.factor(e) }

func TestDo(t *testing.T) {
	p := fake{factor: func(e string) (string, error) {
		if e == "x^2-1" {
			return " (x-1)*(x+1) ", nil
		}
		return "", errors.New("cannot factor")
	}}
	ctx := context.Background()

	got, err := Do(ctx, p, Request{Op: OpFactor, Expr: "x^2-1"})
	if err != nil || got != "(x-1)*(x+1)" {
		t.Errorf("Do(factor) = %q, %v", got, err)
	}

	_, err = Do(ctx, p, Request{Op: OpFactor, Expr: "x^2+1"})
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Op != OpFactor {
		t.Errorf("Do(factor) error = %v, want *ProviderError{factor}", err)
	}

	if _, err := Do(ctx, p, Request{Op: "integrate"}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Do(integrate) error = %v, want ErrUnsupported", err)
	}
}

func TestNumeric(t *testing.T) {
	ctx := context.Background()
	n := Numeric{}

	tests := []struct {
		name string
		req  Request
		want string
		err  bool
	}{
		{"simplify constant", Request{Op: OpSimplify, Expr: "2+3*4"}, "14", false},
		{"simplify pi", Request{Op: OpSimplify, Expr: "2*pi"}, "6.283185307", false},
		{"simplify variable", Request{Op: OpSimplify, Expr: "x+x"}, "", true},
		{"solve quadratic", Request{Op: OpSolve, Expr: "x^2 = 4"}, "x = -2, x = 2", false},
		{"solve for a", Request{Op: OpSolve, Expr: "3*a - 6", Variables: []string{"a"}}, "a = 2", false},
		{"no real solution", Request{Op: OpSolve, Expr: "x^2 = -1"}, "", true},
		{"expand", Request{Op: OpExpand, Expr: "(x+1)^2"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Do(ctx, n, tt.req)
			if (err != nil) != tt.err {
				t.Fatalf("Do() error = %v, want error %v", err, tt.err)
			}
			if got != tt.want {
				t.Errorf("Do() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultLines(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want []string
	}{
		{"two roots", Result{Request: Request{Op: OpSolve}, Text: "x = -2, x = 2"}, []string{"x = -2", "x = 2"}},
		{"one root", Result{Request: Request{Op: OpSolve}, Text: "a = 2"}, []string{"a = 2"}},
		{"simplify keeps commas", Result{Request: Request{Op: OpSimplify}, Text: "max(1, 2)"}, []string{"max(1, 2)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.Lines(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun(t *testing.T) {
	h := provider.New("cas", func(context.Context) (Provider, error) {
		return Numeric{}, nil
	})
	req := Request{Op: OpSimplify, Expr: "1+1", Target: "line-1"}

	select {
	case res, ok := <-Run(context.Background(), h, req):
		if !ok {
			t.Fatal("channel closed without a result")
		}
		if res.Err != nil || res.Text != "2" || res.Request.Target != "line-1" {
			t.Errorf("Run() = %+v", res)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not deliver a result")
	}
}

func TestRunProviderFailure(t *testing.T) {
	boom := errors.New("wasm failed to load")
	h := provider.New("cas", func(context.Context) (Provider, error) {
		return nil, boom
	})
	res := <-Run(context.Background(), h, Request{Op: OpSimplify, Expr: "1"})
	var pe *ProviderError
	if !errors.As(res.Err, &pe) || !errors.Is(res.Err, boom) {
		t.Errorf("Run() error = %v, want ProviderError wrapping boom", res.Err)
	}
	if res.Text != "" {
		t.Errorf("Run() text = %q, want empty on failure", res.Text)
	}
}

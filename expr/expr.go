package expr

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// Bindings maps variable and parameter names to their values.
type Bindings map[string]float64

// Expression is a compiled formula. It is immutable and safe for
// concurrent evaluation.
type Expression struct {
	source  string
	program *vm.Program
	params  []string
}

var (
	optionsOnce sync.Once
	options     []expr.Option
)

// compileOptions installs the registry as the only callable functions.
// Builtins are disabled so that names like abs, round and max resolve to
// the calculator's float semantics.
func compileOptions() []expr.Option {
	optionsOnce.Do(func() {
		options = []expr.Option{
			expr.AllowUndefinedVariables(),
			expr.DisableAllBuiltins(),
			expr.Patch(floatPatch{}),
		}
		for name, f := range functions {
			options = append(options, expr.Function(name, wrap(f)))
		}
	})
	return options
}

// floatPatch makes every literal a float64 and routes % through the
// floored mod, so arithmetic never takes the int64 path.
type floatPatch struct{}

func (floatPatch) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IntegerNode:
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	case *ast.BinaryNode:
		if n.Operator == "%" {
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: "mod"},
				Arguments: []ast.Node{n.Left, n.Right},
			})
		}
	}
}

func wrap(f function) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) < f.minArgs || (f.maxArgs >= 0 && len(params) > f.maxArgs) {
			return math.NaN(), nil
		}
		args := make([]float64, len(params))
		for i, p := range params {
			args[i] = toFloat(p)
		}
		return f.fn(args), nil
	}
}

// Compile parses and type-checks source. It returns a *ParseError for
// malformed syntax, unknown functions and wrong argument counts.
func Compile(source string) (*Expression, error) {
	src := strings.TrimSpace(source)
	if src == "" {
		return nil, &ParseError{Source: source, Msg: "empty expression", Err: ErrEmpty}
	}
	// The parser treats names like sum and map as its own builtins.
	for _, id := range scanIdentifiers(src) {
		if id.call && !IsRegistered(id.name) {
			return nil, &ParseError{Source: src, Msg: fmt.Sprintf("unknown function %q", id.name)}
		}
	}

	tree, err := parser.Parse(src)
	if err != nil {
		return nil, newParseError(src, err)
	}
	names, err := inspect(&tree.Node)
	if err != nil {
		return nil, &ParseError{Source: src, Msg: err.Error()}
	}

	program, err := expr.Compile(src, compileOptions()...)
	if err != nil {
		return nil, newParseError(src, err)
	}

	return &Expression{
		source:  src,
		program: program,
		params:  orderParams(src, names),
	}, nil
}

// MustCompile is like Compile but panics on error. Intended for fixed
// formulas in tests and presets.
func MustCompile(source string) *Expression {
	e, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return e
}

// Source returns the trimmed formula text.
func (e *Expression) Source() string { return e.source }

// Params returns the free parameter names in order of first appearance.
func (e *Expression) Params() []string {
	out := make([]string, len(e.params))
	copy(out, e.params)
	return out
}

// Evaluate runs the formula with the given bindings. It never fails:
// anything that does not produce a number yields NaN.
func (e *Expression) Evaluate(b Bindings) float64 {
	env := e.env(b, 0)
	return e.run(env)
}

// Func1 returns f(v) with variable name bound to v and every other name
// taken from base.
func (e *Expression) Func1(name string, base Bindings) func(float64) float64 {
	return func(v float64) float64 {
		env := e.env(base, 1)
		env[name] = v
		return e.run(env)
	}
}

// Func2 returns f(u, v) with names u and v bound to the arguments.
func (e *Expression) Func2(u, v string, base Bindings) func(float64, float64) float64 {
	return func(a, b float64) float64 {
		env := e.env(base, 2)
		env[u] = a
		env[v] = b
		return e.run(env)
	}
}

func (e *Expression) env(b Bindings, extra int) map[string]any {
	env := make(map[string]any, len(Constants)+len(b)+extra)
	for k, v := range Constants {
		env[k] = v
	}
	for k, v := range b {
		env[k] = v
	}
	return env
}

func (e *Expression) run(env map[string]any) float64 {
	out, err := expr.Run(e.program, env)
	if err != nil {
		return math.NaN()
	}
	return toFloat(out)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	}
	return math.NaN()
}

// identVisitor collects identifier names and validates calls against the
// registry. ast.Walk visits children before parents, so callee identifiers
// are only known once the walk is complete.
type identVisitor struct {
	idents  []*ast.IdentifierNode
	callees map[*ast.IdentifierNode]bool
	err     error
}

func (v *identVisitor) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		v.idents = append(v.idents, n)
	case *ast.BuiltinNode:
		if v.err == nil {
			v.err = fmt.Errorf("unknown function %q", n.Name)
		}
	case *ast.CallNode:
		callee, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return
		}
		v.callees[callee] = true
		if v.err != nil {
			return
		}
		f, ok := functions[callee.Value]
		if !ok {
			v.err = fmt.Errorf("unknown function %q", callee.Value)
			return
		}
		if got := len(n.Arguments); got < f.minArgs || (f.maxArgs >= 0 && got > f.maxArgs) {
			v.err = fmt.Errorf("%s expects %s, got %d", callee.Value, arity(f), got)
		}
	}
}

func arity(f function) string {
	switch {
	case f.maxArgs < 0:
		return fmt.Sprintf("at least %d arguments", f.minArgs)
	case f.minArgs == f.maxArgs && f.minArgs == 1:
		return "1 argument"
	case f.minArgs == f.maxArgs:
		return fmt.Sprintf("%d arguments", f.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", f.minArgs, f.maxArgs)
}

// inspect returns the set of free parameter names in the tree.
func inspect(root *ast.Node) (map[string]bool, error) {
	v := &identVisitor{callees: make(map[*ast.IdentifierNode]bool)}
	ast.Walk(root, v)
	if v.err != nil {
		return nil, v.err
	}
	names := make(map[string]bool)
	for _, id := range v.idents {
		if v.callees[id] || IsRegistered(id.Value) || IsReserved(id.Value) {
			continue
		}
		names[id.Value] = true
	}
	return names, nil
}

// orderParams sorts names by their first textual occurrence in src.
func orderParams(src string, names map[string]bool) []string {
	var out []string
	seen := make(map[string]bool, len(names))
	for _, id := range scanIdentifiers(src) {
		if names[id.name] && !seen[id.name] {
			seen[id.name] = true
			out = append(out, id.name)
		}
	}
	return out
}

// FreeParameters returns the ordered set of parameter names in text. Text
// that does not parse is scanned lexically instead.
func FreeParameters(text string) []string {
	src := strings.TrimSpace(text)
	if tree, err := parser.Parse(src); err == nil {
		if names, err := inspect(&tree.Node); err == nil {
			return orderParams(src, names)
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, id := range scanIdentifiers(src) {
		if id.call || seen[id.name] || IsRegistered(id.name) || IsReserved(id.name) {
			continue
		}
		seen[id.name] = true
		out = append(out, id.name)
	}
	return out
}

// Identifiers returns the distinct identifier names in text in order of
// first appearance, including function names and reserved variables.
func Identifiers(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, id := range scanIdentifiers(text) {
		if !seen[id.name] {
			seen[id.name] = true
			out = append(out, id.name)
		}
	}
	return out
}

type identifier struct {
	name string
	call bool
}

// scanIdentifiers is a lexical scan that works on text the parser rejects.
// Letters directly after a digit belong to a number literal (1e5).
func scanIdentifiers(s string) []identifier {
	var out []identifier
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		if !isIdentStart(r) {
			i++
			continue
		}
		if i > 0 && (unicode.IsDigit(rs[i-1]) || rs[i-1] == '.') {
			for i < len(rs) && isIdentPart(rs[i]) {
				i++
			}
			continue
		}
		start := i
		for i < len(rs) && isIdentPart(rs[i]) {
			i++
		}
		name := string(rs[start:i])
		j := i
		for j < len(rs) && unicode.IsSpace(rs[j]) {
			j++
		}
		out = append(out, identifier{name: name, call: j < len(rs) && rs[j] == '('})
	}
	return out
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

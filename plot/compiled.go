package plot

// Curve is the kind-specific payload of a compiled line. Consumers switch
// on the concrete type:
//
//	switch c := compiled.Curve.(type) {
//	case *plot.Explicit:
//	case *plot.Implicit:
//	...
//	}
type Curve interface {
	Kind() Kind
}

// Explicit is y = F(x).
type Explicit struct {
	F func(x float64) float64
}

// Implicit is the zero set of F(x, y) = L - R.
type Implicit struct {
	F func(x, y float64) float64
}

// Inequality is the region where F(x, y) = L - R satisfies Op.
type Inequality struct {
	F  func(x, y float64) float64
	Op Op
}

// DoubleInequality is A op1 B op2 C, held as F1 = A - B and F2 = B - C.
type DoubleInequality struct {
	F1  func(x, y float64) float64
	Op1 Op
	F2  func(x, y float64) float64
	Op2 Op
}

// Parametric is (X(t), Y(t)) for t in [TMin, TMax].
type Parametric struct {
	X, Y       func(t float64) float64
	TMin, TMax float64
}

// Polar is r = R(theta) for theta in [ThetaMin, ThetaMax].
type Polar struct {
	R                  func(theta float64) float64
	ThetaMin, ThetaMax float64
}

// Scalar is a calculator line evaluated at classification time.
type Scalar struct {
	Value float64
}

func (*Explicit) Kind() Kind         { return KindExplicit }
func (*Implicit) Kind() Kind         { return KindImplicit }
func (*Inequality) Kind() Kind       { return KindInequality }
func (*DoubleInequality) Kind() Kind { return KindDoubleInequality }
func (*Parametric) Kind() Kind       { return KindParametric }
func (*Polar) Kind() Kind            { return KindPolar }
func (*Scalar) Kind() Kind           { return KindScalar }

// Compiled is the derived form of one source line.
//
// Exactly one of Curve and Err is set, except for KindEmpty where both are
// nil. Compilation never partially succeeds.
type Compiled struct {
	ID     string
	Source string
	Kind   Kind
	Curve  Curve
	// Params lists the free parameters in order of first appearance and
	// Values holds the value each was evaluated with.
	Params []string
	Values map[string]float64
	Err    error
}

// OK reports whether the line compiled into a usable curve.
func (c *Compiled) OK() bool {
	return c.Err == nil && c.Curve != nil
}

// Line is one source line to classify.
type Line struct {
	ID     string
	Source string
}

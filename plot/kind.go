package plot

// Kind is the plot kind a source line was classified as.
type Kind int

const (
	// KindEmpty is a blank line. It renders nothing and carries no error.
	KindEmpty Kind = iota
	KindScalar
	KindExplicit
	KindImplicit
	KindInequality
	KindDoubleInequality
	KindParametric
	KindPolar
	// KindError is a line whose structure matches no plot kind, such as an
	// implicit equation with two '=' signs.
	KindError
)

var kindNames = [...]string{
	KindEmpty:            "empty",
	KindScalar:           "scalar",
	KindExplicit:         "explicit",
	KindImplicit:         "implicit",
	KindInequality:       "inequality",
	KindDoubleInequality: "double-inequality",
	KindParametric:       "parametric",
	KindPolar:            "polar",
	KindError:            "error",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Op is a normalized comparison operator.
type Op int

const (
	OpLE Op = iota // <= or ≤
	OpGE           // >= or ≥
	OpLT           // <
	OpGT           // >
)

func (o Op) String() string {
	switch o {
	case OpLE:
		return "le"
	case OpGE:
		return "ge"
	case OpLT:
		return "lt"
	case OpGT:
		return "gt"
	}
	return "unknown"
}

// Strict reports whether the boundary itself is excluded (< and >).
// Renderers draw strict boundaries dashed.
func (o Op) Strict() bool {
	return o == OpLT || o == OpGT
}

// Holds reports whether a difference value v = L - R satisfies the
// operator. The test is non-strict for all operators since it is applied
// to sampled cell midpoints.
func (o Op) Holds(v float64) bool {
	switch o {
	case OpLE, OpLT:
		return v <= 0
	case OpGE, OpGT:
		return v >= 0
	}
	return false
}

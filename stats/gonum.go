package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Gonum is the Provider backed by gonum.org/v1/gonum/stat/distuv. The zero
// value is ready to use.
type Gonum struct{}

// NewGonum returns a gonum-backed provider.
func NewGonum() *Gonum { return &Gonum{} }

// Distribution implements Provider.
//
//	normal(mu, sigma)   default (0, 1)
//	studentT(nu)
//	chiSquare(k)
//	binomial(n, p)
//	poisson(lambda)
func (Gonum) Distribution(name string, params ...float64) (Distribution, error) {
	canon := Canonical(name)
	for _, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: %s%v", ErrParams, name, params)
		}
	}

	switch canon {
	case Normal:
		mu, sigma := 0.0, 1.0
		switch len(params) {
		case 0:
		case 2:
			mu, sigma = params[0], params[1]
		default:
			return nil, fmt.Errorf("%w: normal takes (mu, sigma)", ErrParams)
		}
		if sigma <= 0 {
			return nil, fmt.Errorf("%w: normal sigma must be positive", ErrParams)
		}
		return &continuous{name: Normal, params: []float64{mu, sigma}, d: distuv.Normal{Mu: mu, Sigma: sigma}}, nil

	case StudentT:
		if len(params) != 1 || params[0] <= 0 {
			return nil, fmt.Errorf("%w: studentT takes (nu > 0)", ErrParams)
		}
		nu := params[0]
		return &continuous{name: StudentT, params: []float64{nu}, d: distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu}}, nil

	case ChiSquare:
		if len(params) != 1 || params[0] <= 0 {
			return nil, fmt.Errorf("%w: chiSquare takes (k > 0)", ErrParams)
		}
		k := params[0]
		return &continuous{name: ChiSquare, params: []float64{k}, d: distuv.ChiSquared{K: k}}, nil

	case Binomial:
		if len(params) != 2 || params[0] < 0 || !isInteger(params[0]) || params[1] < 0 || params[1] > 1 {
			return nil, fmt.Errorf("%w: binomial takes (n >= 0 integer, 0 <= p <= 1)", ErrParams)
		}
		n, p := params[0], params[1]
		return &discrete{name: Binomial, params: []float64{n, p}, d: distuv.Binomial{N: n, P: p}}, nil

	case Poisson:
		if len(params) != 1 || params[0] <= 0 {
			return nil, fmt.Errorf("%w: poisson takes (lambda > 0)", ErrParams)
		}
		l := params[0]
		return &discrete{name: Poisson, params: []float64{l}, d: distuv.Poisson{Lambda: l}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// quantiler is the subset of the distuv continuous types used here.
type quantiler interface {
	Prob(x float64) float64
	CDF(x float64) float64
	Quantile(p float64) float64
	Rand() float64
}

type continuous struct {
	name   string
	params []float64
	d      quantiler
}

func (c *continuous) Name() string          { return c.name }
func (c *continuous) Params() []float64     { return append([]float64(nil), c.params...) }
func (c *continuous) Discrete() bool        { return false }
func (c *continuous) PDF(x float64) float64 { return c.d.Prob(x) }
func (c *continuous) CDF(x float64) float64 { return c.d.CDF(x) }
func (c *continuous) Sample() float64       { return c.d.Rand() }

func (c *continuous) InverseCDF(p float64) float64 {
	if !(p >= 0 && p <= 1) {
		return math.NaN()
	}
	return c.d.Quantile(p)
}

type masser interface {
	Prob(x float64) float64
	CDF(x float64) float64
}

type discrete struct {
	name   string
	params []float64
	d      masser
}

func (d *discrete) Name() string      { return d.name }
func (d *discrete) Params() []float64 { return append([]float64(nil), d.params...) }
func (d *discrete) Discrete() bool    { return true }

func (d *discrete) PMF(k float64) float64 {
	if !isInteger(k) || k < 0 {
		return 0
	}
	return d.d.Prob(k)
}

// CDF is right-continuous: constant on [k, k+1).
func (d *discrete) CDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	return d.d.CDF(math.Floor(x))
}

// Package stats exposes probability distributions to the graphing core
// through a narrow numeric interface.
//
// The default Provider is backed by gonum's distuv package. Continuous
// distributions offer a density, a CDF, a quantile function and sampling;
// discrete ones offer a mass function and a CDF only.
package stats

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknown is returned for distribution names the provider does not know.
	ErrUnknown = errors.New("stats: unknown distribution")

	// ErrParams is returned when parameters are missing or out of range.
	ErrParams = errors.New("stats: invalid parameters")
)

// Distribution is implemented by every distribution.
type Distribution interface {
	// Name returns the canonical name, e.g. "normal".
	Name() string
	// Params returns the parameters in declaration order.
	Params() []float64
	CDF(x float64) float64
	Discrete() bool
}

// Continuous is a distribution with a density.
type Continuous interface {
	Distribution
	PDF(x float64) float64
	// InverseCDF returns NaN for p outside [0, 1].
	InverseCDF(p float64) float64
	Sample() float64
}

// Discrete is a distribution over the integers.
type Discrete interface {
	Distribution
	// PMF is zero at non-integer points.
	PMF(k float64) float64
}

// Provider builds distributions by name.
type Provider interface {
	Distribution(name string, params ...float64) (Distribution, error)
}

// Canonical distribution names.
const (
	Normal    = "normal"
	StudentT  = "studentT"
	ChiSquare = "chiSquare"
	Binomial  = "binomial"
	Poisson   = "poisson"
)

var aliases = map[string]string{
	"normal":    Normal,
	"gaussian":  Normal,
	"studentt":  StudentT,
	"t":         StudentT,
	"chisquare": ChiSquare,
	"chisq":     ChiSquare,
	"chi2":      ChiSquare,
	"binomial":  Binomial,
	"binom":     Binomial,
	"poisson":   Poisson,
}

// Canonical returns the canonical spelling of name, or "" if unknown.
// Matching ignores case.
func Canonical(name string) string {
	return aliases[strings.ToLower(strings.TrimSpace(name))]
}

// Names lists the canonical names.
func Names() []string {
	return []string{Normal, StudentT, ChiSquare, Binomial, Poisson}
}

// ParseCall splits "normal(0, 1)" into its name and numeric arguments. A
// bare name has no arguments.
func ParseCall(text string) (string, []float64, error) {
	text = strings.TrimSpace(text)
	open := strings.IndexByte(text, '(')
	if open < 0 {
		if text == "" {
			return "", nil, fmt.Errorf("%w: empty", ErrUnknown)
		}
		return text, nil, nil
	}
	if !strings.HasSuffix(text, ")") {
		return "", nil, fmt.Errorf("%w: missing ')' in %q", ErrParams, text)
	}
	name := strings.TrimSpace(text[:open])
	body := strings.TrimSpace(text[open+1 : len(text)-1])
	if body == "" {
		return name, nil, nil
	}
	var params []float64
	for _, f := range strings.Split(body, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %q: %v", ErrParams, f, err)
		}
		params = append(params, v)
	}
	return name, params, nil
}

// Sample evaluates f at n evenly spaced points over [lo, hi] and returns
// the abscissae and values.
func Sample(f func(float64) float64, lo, hi float64, n int) ([]float64, []float64) {
	if n < 2 {
		n = 2
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
		ys[i] = f(xs[i])
	}
	return xs, ys
}

func isInteger(x float64) bool {
	return x == math.Trunc(x) && !math.IsInf(x, 0)
}

// SPDX-License-Identifier: MIT

package polynomial

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/system"
)

// System is an ordered list of polynomials over shared variables.
//
// A homogenized system carries its homogenizing variable at index 0. A
// patched system carries one extra linear equation Σ a_i·x_i − 1 = 0 after
// its functions.
type System struct {
	nvars       int
	funcs       []*Polynomial
	homogenized bool
	patch       []complex128
}

// NewSystem builds a system from polynomials over the same variables.
func NewSystem(funcs ...*Polynomial) (*System, error) {
	if len(funcs) == 0 {
		return nil, polynomialErrorf(opNewSystem, ErrEmptySystem)
	}
	n := funcs[0].nvars
	for _, f := range funcs[1:] {
		if f.nvars != n {
			return nil, polynomialErrorf(opNewSystem, ErrVariableCount)
		}
	}
	return &System{nvars: n, funcs: slices.Clone(funcs)}, nil
}

// NumVariables returns the number of variables, the homogenizing one included.
func (s *System) NumVariables() int { return s.nvars }

// NumFunctions returns the number of equations, the patch included.
func (s *System) NumFunctions() int {
	if s.patch != nil {
		return len(s.funcs) + 1
	}
	return len(s.funcs)
}

// Functions returns the polynomials, the patch excluded.
func (s *System) Functions() []*Polynomial { return slices.Clone(s.funcs) }

// Degrees returns the total degree of every function, the patch excluded.
func (s *System) Degrees() []int {
	out := make([]int, len(s.funcs))
	for i, f := range s.funcs {
		out[i] = f.Degree()
	}
	return out
}

// IsHomogenized reports whether variable 0 is a homogenizing variable.
func (s *System) IsHomogenized() bool { return s.homogenized }

// IsPatched reports whether the system carries a patch equation.
func (s *System) IsPatched() bool { return s.patch != nil }

// Patch returns a copy of the patch coefficients, nil when unpatched.
func (s *System) Patch() []complex128 { return slices.Clone(s.patch) }

// Homogenize returns the system with every function homogenized to its own
// degree and a homogenizing variable prepended.
func (s *System) Homogenize() (*System, error) {
	if s.homogenized {
		return nil, polynomialErrorf(opHomogenize, ErrAlreadyHomogenized)
	}
	if s.patch != nil {
		return nil, polynomialErrorf(opHomogenize, ErrBadPatch)
	}
	funcs := make([]*Polynomial, len(s.funcs))
	for i, f := range s.funcs {
		funcs[i] = f.Homogenize(f.Degree())
	}
	return &System{nvars: s.nvars + 1, funcs: funcs, homogenized: true}, nil
}

// WithPatch returns the system extended by Σ coeffs[i]·x_i − 1 = 0.
func (s *System) WithPatch(coeffs []complex128) (*System, error) {
	if s.patch != nil || len(coeffs) != s.nvars {
		return nil, polynomialErrorf(opPatch, ErrBadPatch)
	}
	out := *s
	out.funcs = slices.Clone(s.funcs)
	out.patch = slices.Clone(coeffs)
	return &out, nil
}

// AutoPatch returns the system with a random patch drawn from rng. Patch
// coefficients have modulus 1/√n, n the number of variables.
func (s *System) AutoPatch(rng *rand.Rand) (*System, error) {
	scale := 1 / math.Sqrt(float64(s.nvars))
	coeffs := make([]complex128, s.nvars)
	for i := range coeffs {
		coeffs[i] = RandomUnit(rng) * complex(scale, 0)
	}
	return s.WithPatch(coeffs)
}

// DegreeBound returns the largest function degree (at least 1).
func (s *System) DegreeBound() int {
	d := 1
	for _, f := range s.funcs {
		d = max(d, f.Degree())
	}
	return d
}

// CoefficientBound returns the largest coefficient modulus, patch included.
func (s *System) CoefficientBound() float64 {
	b := 0.0
	for _, f := range s.funcs {
		b = max(b, f.MaxCoefficient())
	}
	if s.patch != nil {
		b = max(b, 1)
		for _, c := range s.patch {
			b = max(b, math.Hypot(real(c), imag(c)))
		}
	}
	return b
}

// EvaluateSystem returns F(x) and ∂F/∂x at x's precision.
func (s *System) EvaluateSystem(x *multiprec.Vector) (*multiprec.Vector, *multiprec.Matrix, error) {
	if x == nil {
		return nil, nil, polynomialErrorf(opEvaluate, system.ErrNilPoint)
	}
	if x.Len() != s.nvars {
		return nil, nil, polynomialErrorf(opEvaluate, system.ErrDimensionMismatch)
	}
	p := x.Precision()
	values := multiprec.NewVector(p, s.NumFunctions())
	jac, err := multiprec.NewMatrix(p, s.NumFunctions(), s.nvars)
	if err != nil {
		return nil, nil, polynomialErrorf(opEvaluate, err)
	}

	pow := powerTable(x, s.maxExponents())
	grad := make([]*multiprec.Complex, s.nvars)
	for i, f := range s.funcs {
		for j := range grad {
			grad[j] = jac.At(i, j)
		}
		f.evaluate(pow, values.At(i), grad)
	}

	if s.patch != nil {
		row := len(s.funcs)
		v := values.At(row)
		coeff := multiprec.NewComplex(p)
		tmp := multiprec.NewComplex(p)
		for j, a := range s.patch {
			coeff.SetComplex128(a)
			jac.At(row, j).Set(coeff)
			v.Add(v, tmp.Mul(coeff, x.At(j)))
		}
		v.Sub(v, multiprec.NewComplexFloat64(p, 1, 0))
	}
	return values, jac, nil
}

// Evaluate implements system.Evaluator for the t-independent system. The
// time derivative is zero.
func (s *System) Evaluate(p multiprec.Precision, x *multiprec.Vector, t *multiprec.Complex) (*system.Evaluation, error) {
	if err := system.ValidatePoint(s, p, x, t); err != nil {
		return nil, polynomialErrorf(opEvaluate, err)
	}
	values, jac, err := s.EvaluateSystem(x)
	if err != nil {
		return nil, err
	}
	return &system.Evaluation{
		Values:         values,
		Jacobian:       jac,
		TimeDerivative: multiprec.NewVector(p, s.NumFunctions()),
	}, nil
}

// Dehomogenize maps (x_0, x_1, …, x_n) to (x_1/x_0, …, x_n/x_0).
func (s *System) Dehomogenize(x *multiprec.Vector) (*multiprec.Vector, error) {
	if !s.homogenized {
		return nil, polynomialErrorf(opDehomogenize, ErrNotHomogenized)
	}
	if x == nil {
		return nil, polynomialErrorf(opDehomogenize, system.ErrNilPoint)
	}
	if x.Len() != s.nvars {
		return nil, polynomialErrorf(opDehomogenize, system.ErrDimensionMismatch)
	}
	h := x.At(0)
	if h.IsZero() {
		return nil, polynomialErrorf(opDehomogenize, ErrAtInfinity)
	}
	out := multiprec.NewVector(x.Precision(), s.nvars-1)
	for i := 1; i < s.nvars; i++ {
		out.At(i-1).Quo(x.At(i), h)
	}
	return out, nil
}

func (s *System) maxExponents() []int {
	out := make([]int, s.nvars)
	for _, f := range s.funcs {
		for _, t := range f.terms {
			for i, e := range t.Exponents {
				out[i] = max(out[i], e)
			}
		}
	}
	return out
}

// RandomUnit returns a complex number of modulus one with a uniform angle.
func RandomUnit(rng *rand.Rand) complex128 {
	theta := 2 * math.Pi * rng.Float64()
	return complex(math.Cos(theta), math.Sin(theta))
}

var (
	_ system.Evaluator     = (*System)(nil)
	_ system.Bounded       = (*System)(nil)
	_ system.Dehomogenizer = (*System)(nil)
)

// SPDX-License-Identifier: MIT

package polynomial

import (
	"math/cmplx"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/system"
)

// Homotopy is the straight-line homotopy H(x,t) = (1 − t)·F(x) + γ·t·G(x).
//
// At t = 1 its solutions are those of the start system G, at t = 0 those of
// the target F. A generic γ keeps the paths for t ∈ (0, 1] nonsingular.
type Homotopy struct {
	target *System
	start  *System
	gamma  complex128
}

// NewHomotopy builds the homotopy from target to start with the given γ.
//
// Errors:
//   - ErrIncompatibleSystems if the systems differ in shape or homogenization.
//   - ErrNotSquare if the systems are not square (patch included).
func NewHomotopy(target, start *System, gamma complex128) (*Homotopy, error) {
	if target == nil || start == nil {
		return nil, polynomialErrorf(opHomotopy, ErrEmptySystem)
	}
	if target.nvars != start.nvars ||
		target.NumFunctions() != start.NumFunctions() ||
		target.homogenized != start.homogenized {
		return nil, polynomialErrorf(opHomotopy, ErrIncompatibleSystems)
	}
	if err := system.ValidateSquare(target); err != nil {
		return nil, polynomialErrorf(opHomotopy, ErrNotSquare)
	}
	return &Homotopy{target: target, start: start, gamma: gamma}, nil
}

// Target returns F.
func (h *Homotopy) Target() *System { return h.target }

// Start returns G.
func (h *Homotopy) Start() *System { return h.start }

// Gamma returns γ.
func (h *Homotopy) Gamma() complex128 { return h.gamma }

// NumVariables implements system.Evaluator.
func (h *Homotopy) NumVariables() int { return h.target.nvars }

// NumFunctions implements system.Evaluator.
func (h *Homotopy) NumFunctions() int { return h.target.NumFunctions() }

// Evaluate implements system.Evaluator.
//
//	H    = (1 − t)·F + γt·G
//	∂H/∂x = (1 − t)·J_F + γt·J_G
//	∂H/∂t = −F + γ·G
func (h *Homotopy) Evaluate(p multiprec.Precision, x *multiprec.Vector, t *multiprec.Complex) (*system.Evaluation, error) {
	if err := system.ValidatePoint(h, p, x, t); err != nil {
		return nil, polynomialErrorf(opEvaluate, err)
	}
	f, jf, err := h.target.EvaluateSystem(x)
	if err != nil {
		return nil, err
	}
	g, jg, err := h.start.EvaluateSystem(x)
	if err != nil {
		return nil, err
	}

	tp := t.ToPrecision(p)
	gamma := multiprec.NewComplex128(p, h.gamma)
	one := multiprec.NewComplexFloat64(p, 1, 0)
	a := multiprec.NewComplex(p).Sub(one, tp)     // 1 − t
	b := multiprec.NewComplex(p).Mul(gamma, tp)   // γt
	tmp := multiprec.NewComplex(p)

	n := h.NumFunctions()
	values := multiprec.NewVector(p, n)
	dt := multiprec.NewVector(p, n)
	for i := 0; i < n; i++ {
		v := values.At(i)
		v.Mul(a, f.At(i))
		v.Add(v, tmp.Mul(b, g.At(i)))

		d := dt.At(i)
		d.Mul(gamma, g.At(i))
		d.Sub(d, f.At(i))
	}

	jac, err := multiprec.NewMatrix(p, n, h.NumVariables())
	if err != nil {
		return nil, polynomialErrorf(opEvaluate, err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < h.NumVariables(); j++ {
			e := jac.At(i, j)
			e.Mul(a, jf.At(i, j))
			e.Add(e, tmp.Mul(b, jg.At(i, j)))
		}
	}
	return &system.Evaluation{Values: values, Jacobian: jac, TimeDerivative: dt}, nil
}

// DegreeBound implements system.Bounded.
func (h *Homotopy) DegreeBound() int {
	return max(h.target.DegreeBound(), h.start.DegreeBound())
}

// CoefficientBound implements system.Bounded: max|coef F| + |γ|·max|coef G|.
func (h *Homotopy) CoefficientBound() float64 {
	return h.target.CoefficientBound() + cmplx.Abs(h.gamma)*h.start.CoefficientBound()
}

// Dehomogenize implements system.Dehomogenizer using the target's variables.
func (h *Homotopy) Dehomogenize(x *multiprec.Vector) (*multiprec.Vector, error) {
	return h.target.Dehomogenize(x)
}

var (
	_ system.Evaluator     = (*Homotopy)(nil)
	_ system.Bounded       = (*Homotopy)(nil)
	_ system.Dehomogenizer = (*Homotopy)(nil)
)

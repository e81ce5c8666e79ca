// SPDX-License-Identifier: MIT

package tracking

import (
	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/system"
)

// newtonContraction bounds the ratio of consecutive Newton update norms
// during a tracking step, and the first update relative to the predictor
// displacement.
const newtonContraction = 0.5

// correction is the outcome of a Newton correction at fixed t.
type correction struct {
	point      *multiprec.Vector
	iterations int
	normJ      float64
	normJInv   float64
	// required is the largest criterion B/C requirement observed; when the
	// error is errHigherPrecision it is the requirement that failed.
	required multiprec.Precision
}

// newtonUpdate evaluates H at (x, t) and solves J·Δ = −H.
func newtonUpdate(ev system.Evaluator, x *multiprec.Vector, t *multiprec.Complex) (*multiprec.Vector, factored, error) {
	p := x.Precision()
	e, err := ev.Evaluate(p, x, t)
	if err != nil {
		return nil, factored{}, err
	}
	f, err := multiprec.Factorize(e.Jacobian)
	if err != nil {
		return nil, factored{}, err
	}
	rhs := multiprec.NewVector(p, e.Values.Len())
	if err := rhs.Scale(multiprec.NewComplexFloat64(p, -1, 0), e.Values); err != nil {
		return nil, factored{}, err
	}
	delta, err := f.Solve(rhs)
	if err != nil {
		return nil, factored{}, err
	}
	return delta, factored{f: f, jacobianNorm: e.Jacobian.Norm()}, nil
}

// correct runs bounded Newton iterations from x at t.
//
// Convergence requires, after at least cfg.MinIterations iterations, an
// update norm below tol and a re-evaluated residual ‖H(x, t)‖ at or below
// tol·max(1, ‖J‖). Before each update criterion B is checked; after
// convergence criterion C is checked.
//
// A positive firstLimit guards a tracking step: the first update must not
// exceed it, and every later update at or above tol must shrink by at least
// newtonContraction. Without the guard Newton may converge onto a
// neighbouring path. Outcomes:
//
//	nil                  converged
//	errNoConvergence     iteration limit reached
//	errNotContracting    the guard failed
//	errHigherPrecision   a criterion failed at x's precision
//	multiprec.ErrSingular (wrapped) singular Jacobian
func correct(ev system.Evaluator, amp precisionManager, x *multiprec.Vector, t *multiprec.Complex, tol float64, cfg NewtonConfig, firstLimit float64) (correction, error) {
	p := x.Precision()
	out := correction{point: x}
	var prevDelta float64
	for i := 0; i < cfg.MaxIterations; i++ {
		delta, fac, err := newtonUpdate(ev, out.point, t)
		if err != nil {
			return out, err
		}
		normDelta := delta.Norm()
		if i == 0 {
			out.normJ = fac.jacobianNorm
			out.normJInv = fac.f.InverseNorm()
		}

		reqB := amp.requiredB(out.normJ, out.normJInv, normDelta, tol, i, cfg.MaxIterations)
		out.required = max(out.required, reqB)
		if reqB > p {
			out.required = reqB
			return out, errHigherPrecision
		}
		if firstLimit > 0 {
			if i == 0 && normDelta > firstLimit {
				return out, errNotContracting
			}
			if i > 0 && normDelta >= tol && normDelta > newtonContraction*prevDelta {
				return out, errNotContracting
			}
		}
		prevDelta = normDelta

		next := multiprec.NewVector(p, x.Len())
		if err := next.Add(out.point, delta); err != nil {
			return out, err
		}
		out.point = next
		out.iterations = i + 1

		if out.iterations < cfg.MinIterations || normDelta >= tol {
			continue
		}
		e, err := ev.Evaluate(p, out.point, t)
		if err != nil {
			return out, err
		}
		if e.Values.Norm() > tol*max(1, out.normJ) {
			continue
		}
		reqC := amp.requiredC(out.normJInv, out.point.Norm(), tol)
		out.required = max(out.required, reqC)
		if reqC > p {
			out.required = reqC
			return out, errHigherPrecision
		}
		return out, nil
	}
	return out, errNoConvergence
}

// NewtonStep performs one Newton iteration x − J(x,t)⁻¹·H(x,t) at x's
// precision, without any convergence or precision checks.
func NewtonStep(ev system.Evaluator, x *multiprec.Vector, t *multiprec.Complex) (*multiprec.Vector, error) {
	if ev == nil {
		return nil, trackingErrorf(opNewtonStep, ErrNilEvaluator)
	}
	if x == nil || t == nil {
		return nil, trackingErrorf(opNewtonStep, ErrNilArgument)
	}
	if x.Len() != ev.NumVariables() {
		return nil, trackingErrorf(opNewtonStep, ErrDimensionMismatch)
	}
	delta, _, err := newtonUpdate(ev, x, t.ToPrecision(x.Precision()))
	if err != nil {
		return nil, trackingErrorf(opNewtonStep, err)
	}
	next := multiprec.NewVector(x.Precision(), x.Len())
	if err := next.Add(x, delta); err != nil {
		return nil, trackingErrorf(opNewtonStep, err)
	}
	return next, nil
}

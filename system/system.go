// SPDX-License-Identifier: MIT

package system

import (
	"github.com/katalvlaran/homotopy/multiprec"
)

// Evaluation is H and its derivatives at one (x, t), all at one precision.
type Evaluation struct {
	// Values holds H(x, t), one entry per function.
	Values *multiprec.Vector
	// Jacobian holds ∂H/∂x, NumFunctions × NumVariables.
	Jacobian *multiprec.Matrix
	// TimeDerivative holds ∂H/∂t, one entry per function.
	TimeDerivative *multiprec.Vector
}

// Evaluator evaluates a homotopy H(x, t).
//
// Evaluate must be deterministic and safe for concurrent use. x must be
// tagged with precision p; t may carry any precision and is converted to p.
// Every returned value is tagged with p.
type Evaluator interface {
	NumVariables() int
	NumFunctions() int
	Evaluate(p multiprec.Precision, x *multiprec.Vector, t *multiprec.Complex) (*Evaluation, error)
}

// StartSystem produces the known solutions at t = 1.
type StartSystem interface {
	NumStartPoints() int
	StartPoint(i int, p multiprec.Precision) (*multiprec.Vector, error)
}

// Bounded is implemented by evaluators that can bound their degree and the
// modulus of their coefficients. Adaptive precision uses the bounds to size
// its safety margins.
type Bounded interface {
	DegreeBound() int
	CoefficientBound() float64
}

// Dehomogenizer maps a point of a homogenized system back to affine coordinates.
type Dehomogenizer interface {
	Dehomogenize(x *multiprec.Vector) (*multiprec.Vector, error)
}

// ValidatePoint checks that x and t are usable with ev at precision p.
func ValidatePoint(ev Evaluator, p multiprec.Precision, x *multiprec.Vector, t *multiprec.Complex) error {
	const tag = "ValidatePoint"
	if x == nil || t == nil {
		return systemErrorf(tag, ErrNilPoint)
	}
	if x.Len() != ev.NumVariables() {
		return systemErrorf(tag, ErrDimensionMismatch)
	}
	if x.Precision() != p {
		return systemErrorf(tag, multiprec.ErrPrecisionMismatch)
	}
	return nil
}

// ValidateSquare checks that ev has as many functions as variables.
func ValidateSquare(ev Evaluator) error {
	if ev.NumFunctions() != ev.NumVariables() {
		return systemErrorf("ValidateSquare", ErrNotSquare)
	}
	return nil
}

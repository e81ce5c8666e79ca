// SPDX-License-Identifier: MIT

package tracking

import (
	"errors"
	"fmt"
)

var (
	// ErrNilEvaluator indicates NewTracker was given a nil evaluator.
	ErrNilEvaluator = errors.New("tracking: nil evaluator")

	// ErrNilArgument indicates a nil start point or time.
	ErrNilArgument = errors.New("tracking: nil argument")

	// ErrDimensionMismatch indicates a point whose length differs from the evaluator's variable count.
	ErrDimensionMismatch = errors.New("tracking: dimension mismatch")

	// ErrPrecisionOutOfRange indicates a start point above the configured maximum precision.
	ErrPrecisionOutOfRange = errors.New("tracking: precision outside configured range")

	// ErrNotSquare indicates an evaluator with more or fewer functions than variables.
	ErrNotSquare = errors.New("tracking: evaluator is not square")

	// ErrInvalidRefinement indicates a non-positive tolerance or iteration limit.
	ErrInvalidRefinement = errors.New("tracking: invalid refinement parameters")

	// ErrUnknownPredictor indicates a predictor value outside the enumeration.
	ErrUnknownPredictor = errors.New("tracking: unknown predictor")
)

// Internal step outcomes; never returned to callers.
var (
	errNoConvergence     = errors.New("tracking: newton did not converge")
	errHigherPrecision   = errors.New("tracking: higher precision necessary")
	errPredictorRejected = errors.New("tracking: predictor error estimate too large")
	errNotContracting    = errors.New("tracking: newton iteration not contracting")
)

const (
	opNewTracker = "NewTracker"
	opTrack      = "Track"
	opRefine     = "Refine"
	opNewtonStep = "NewtonStep"
	opPredict    = "Predict"
	opTangent    = "Tangent"
)

func trackingErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

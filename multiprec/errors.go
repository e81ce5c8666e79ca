// SPDX-License-Identifier: MIT
// Package multiprec: sentinel error set.
// Kernels return these sentinels, optionally wrapped with an operation tag via
// multiprecErrorf. Tests and callers match them with errors.Is.

package multiprec

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested container shape is invalid (rows<=0, cols<=0, n<0).
	ErrBadShape = errors.New("multiprec: invalid shape")

	// ErrDimensionMismatch indicates incompatible operand dimensions.
	ErrDimensionMismatch = errors.New("multiprec: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("multiprec: matrix is not square")

	// ErrSingular is returned when LU meets a pivot that is zero at the working precision.
	ErrSingular = errors.New("multiprec: singular matrix")

	// ErrPrecisionMismatch is returned when operands carry different precision tags.
	ErrPrecisionMismatch = errors.New("multiprec: precision mismatch")

	// ErrNilValue indicates a nil *Vector, *Matrix or *Complex argument.
	ErrNilValue = errors.New("multiprec: nil value")

	// ErrParse is returned when a decimal string cannot be parsed.
	ErrParse = errors.New("multiprec: cannot parse number")

	// ErrBadPrecision is returned for a zero precision.
	ErrBadPrecision = errors.New("multiprec: precision must be positive")
)

// Operation tags used when wrapping sentinels.
const (
	opNewVector   = "NewVector"
	opNewMatrix   = "NewMatrix"
	opVectorAdd   = "Vector.Add"
	opVectorSub   = "Vector.Sub"
	opVectorAxpy  = "Vector.AddScaled"
	opVectorScale = "Vector.Scale"
	opVectorSet   = "Vector.Set"
	opDistance    = "Distance"
	opMulVec      = "Matrix.MulVec"
	opFactorize   = "Factorize"
	opSolve       = "LU.Solve"
	opParse       = "ParseComplex"
)

// multiprecErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func multiprecErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

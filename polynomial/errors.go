// SPDX-License-Identifier: MIT

package polynomial

import (
	"errors"
	"fmt"
)

var (
	// ErrVariableCount indicates operands or terms over different numbers of variables.
	ErrVariableCount = errors.New("polynomial: variable count mismatch")

	// ErrNegativeExponent indicates a term with a negative exponent.
	ErrNegativeExponent = errors.New("polynomial: negative exponent")

	// ErrEmptySystem indicates a system without functions.
	ErrEmptySystem = errors.New("polynomial: system has no functions")

	// ErrNotSquare indicates a system whose equation count (patch included)
	// differs from its variable count where a square system is required.
	ErrNotSquare = errors.New("polynomial: system is not square")

	// ErrAlreadyHomogenized indicates a second homogenization.
	ErrAlreadyHomogenized = errors.New("polynomial: system is already homogenized")

	// ErrNotHomogenized indicates an operation that needs a homogenized system.
	ErrNotHomogenized = errors.New("polynomial: system is not homogenized")

	// ErrBadPatch indicates a patch with the wrong number of coefficients or a
	// second patch on a patched system.
	ErrBadPatch = errors.New("polynomial: invalid patch")

	// ErrAtInfinity indicates dehomogenization of a point whose homogenizing
	// coordinate is zero.
	ErrAtInfinity = errors.New("polynomial: point lies at infinity")

	// ErrConstantFunction indicates a degree-0 function where a start system is built.
	ErrConstantFunction = errors.New("polynomial: function has degree 0")

	// ErrIncompatibleSystems indicates a homotopy between systems of different shapes.
	ErrIncompatibleSystems = errors.New("polynomial: incompatible target and start systems")
)

const (
	opNew          = "New"
	opNewSystem    = "NewSystem"
	opHomogenize   = "Homogenize"
	opPatch        = "WithPatch"
	opEvaluate     = "Evaluate"
	opDehomogenize = "Dehomogenize"
	opTotalDegree  = "NewTotalDegree"
	opStartPoint   = "StartPoint"
	opHomotopy     = "NewHomotopy"
)

func polynomialErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// panicVariableCount is raised by arithmetic on polynomials over different
// variable counts, which is a programming error.
const panicVariableCount = "polynomial: arithmetic on polynomials with different variable counts"

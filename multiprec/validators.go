// SPDX-License-Identifier: MIT
// Package: multiprec
//
// Purpose:
//   - Single source of truth for nil/shape/precision checks.
//   - Validators return plain sentinels; callers wrap them with an operation tag.
//
// Determinism & Performance:
//   - Pure checks, no allocation.

package multiprec

// validateVectors checks that every vector is non-nil and that all share the
// first vector's length and precision.
func validateVectors(vs ...*Vector) error {
	for _, v := range vs {
		if v == nil {
			return ErrNilValue
		}
	}
	first := vs[0]
	for _, v := range vs[1:] {
		if len(v.data) != len(first.data) {
			return ErrDimensionMismatch
		}
		if v.prec != first.prec {
			return ErrPrecisionMismatch
		}
	}
	return nil
}

// validateMatVec checks that m·x is defined and precisions agree.
func validateMatVec(m *Matrix, x *Vector) error {
	if m == nil || x == nil {
		return ErrNilValue
	}
	if m.cols != len(x.data) {
		return ErrDimensionMismatch
	}
	if m.prec != x.prec {
		return ErrPrecisionMismatch
	}
	return nil
}

// validateSquare checks that m is non-nil and square.
func validateSquare(m *Matrix) error {
	if m == nil {
		return ErrNilValue
	}
	if m.rows != m.cols {
		return ErrNonSquare
	}
	return nil
}

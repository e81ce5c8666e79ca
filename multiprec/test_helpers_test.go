// SPDX-License-Identifier: MIT

package multiprec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/homotopy/multiprec"
)

// MustMatrix builds a matrix from complex128 rows or fails the test.
func MustMatrix(t *testing.T, p multiprec.Precision, rows [][]complex128) *multiprec.Matrix {
	t.Helper()
	m, err := multiprec.MatrixFromComplex128(p, rows)
	require.NoError(t, err)
	return m
}

// MustParse parses a complex value or fails the test.
func MustParse(t *testing.T, p multiprec.Precision, re, im string) *multiprec.Complex {
	t.Helper()
	z, err := multiprec.ParseComplex(p, re, im)
	require.NoError(t, err)
	return z
}

// absDiff returns |a − b| as float64, computed at a's precision.
func absDiff(a, b *multiprec.Complex) float64 {
	return multiprec.NewComplex(a.Precision()).Sub(a, b).AbsFloat64()
}

// SPDX-License-Identifier: MIT

package multiprec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/homotopy/multiprec"
)

func TestPrecisionBits(t *testing.T) {
	assert.Equal(t, uint(62), multiprec.DoublePrecision.Bits())
	assert.Greater(t, multiprec.Precision(50).Bits(), uint(166))
	assert.Less(t, multiprec.Precision(17).Bits()-multiprec.Precision(16).Bits(), uint(5))
}

func TestDigitsFor(t *testing.T) {
	for _, tc := range []struct {
		tol  float64
		want multiprec.Precision
	}{
		{1e-11, 11},
		{1e-13, 13},
		{3e-8, 8},
		{0.5, 1},
		{1, 0},
		{0, 0},
		{-1, 0},
	} {
		assert.Equal(t, tc.want, multiprec.DigitsFor(tc.tol), "tol=%g", tc.tol)
	}
}

func TestMaxOf(t *testing.T) {
	assert.Equal(t, multiprec.Precision(0), multiprec.MaxOf())
	assert.Equal(t, multiprec.Precision(40), multiprec.MaxOf(16, 40, 20))
}

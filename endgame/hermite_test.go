// SPDX-License-Identifier: MIT

package endgame

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/homotopy/multiprec"
)

// quintic is f(s) = s⁵ − 2s³ + (1+i)s + 3 and its derivative.
func quintic(s complex128) (complex128, complex128) {
	s2 := s * s
	f := s2*s2*s - 2*s2*s + (1+1i)*s + 3
	df := 5*s2*s2 - 6*s2 + (1 + 1i)
	return f, df
}

func TestHermiteReproducesPolynomials(t *testing.T) {
	t.Parallel()
	const p = multiprec.Precision(30)

	nodes := []complex128{0.5, 0.25 + 0.1i, 0.125}
	var s []*multiprec.Complex
	var x, dx []*multiprec.Vector
	for _, sn := range nodes {
		f, df := quintic(sn)
		s = append(s, multiprec.NewComplex128(p, sn))
		x = append(x, multiprec.VectorFromComplex128(p, f, 2*f))
		dx = append(dx, multiprec.VectorFromComplex128(p, df, 2*df))
	}

	for _, at := range []complex128{0, 0.3, -1 + 0.5i} {
		want, _ := quintic(at)
		got, err := hermite(s, x, dx, multiprec.NewComplex128(p, at))
		require.NoError(t, err)
		vals := got.Complex128s()
		assert.InDelta(t, 0, cmplx.Abs(vals[0]-want), 1e-12, "at %v", at)
		assert.InDelta(t, 0, cmplx.Abs(vals[1]-2*want), 1e-12, "at %v", at)
	}

	// Two nodes fit a cubic only: the quintic is not reproduced.
	got, err := hermite(s[:2], x[:2], dx[:2], multiprec.NewComplex(p))
	require.NoError(t, err)
	assert.Greater(t, cmplx.Abs(got.Complex128s()[0]-3), 1e-6)
}

func TestHermiteSingleNodeIsTangentLine(t *testing.T) {
	t.Parallel()
	const p = multiprec.DoublePrecision

	s := []*multiprec.Complex{multiprec.NewComplexFloat64(p, 2, 0)}
	x := []*multiprec.Vector{multiprec.VectorFromComplex128(p, 5)}
	dx := []*multiprec.Vector{multiprec.VectorFromComplex128(p, 3)}
	got, err := hermite(s, x, dx, multiprec.NewComplex(p))
	require.NoError(t, err)
	assert.Equal(t, complex(-1, 0), got.Complex128s()[0])
}

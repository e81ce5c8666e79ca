// SPDX-License-Identifier: MIT

package endgame

import (
	"github.com/katalvlaran/homotopy/multiprec"
)

// hermite evaluates at `at` the Hermite interpolant through the nodes s[i]
// matching the values x[i] and the derivatives dx[i]. Nodes must be
// distinct; all inputs must share one precision and length.
//
// Divided differences run over the doubled node list z₂ᵢ = z₂ᵢ₊₁ = sᵢ, where
// the first-order difference at a repeated node is the derivative. The
// Newton form is evaluated by Horner's rule.
func hermite(s []*multiprec.Complex, x, dx []*multiprec.Vector, at *multiprec.Complex) (*multiprec.Vector, error) {
	n := 2 * len(s)
	p := at.Precision()
	dim := x[0].Len()

	z := make([]*multiprec.Complex, n)
	for i, si := range s {
		z[2*i], z[2*i+1] = si, si
	}

	// q[k] holds the current column of the divided-difference table; only the
	// diagonal entries are kept in coef.
	q := make([]*multiprec.Vector, n)
	for i := range s {
		q[2*i] = x[i]
		q[2*i+1] = x[i]
	}
	coef := make([]*multiprec.Vector, n)
	coef[0] = q[0]

	inv := multiprec.NewComplex(p)
	for j := 1; j < n; j++ {
		next := make([]*multiprec.Vector, n)
		for k := j; k < n; k++ {
			if j == 1 && k%2 == 1 {
				next[k] = dx[k/2]
				continue
			}
			d := multiprec.NewVector(p, dim)
			if err := d.Sub(q[k], q[k-1]); err != nil {
				return nil, err
			}
			inv.Sub(z[k], z[k-j])
			inv.Inv(inv)
			if err := d.Scale(inv, d); err != nil {
				return nil, err
			}
			next[k] = d
		}
		q = next
		coef[j] = q[j]
	}

	out := coef[n-1].Clone()
	factor := multiprec.NewComplex(p)
	for k := n - 2; k >= 0; k-- {
		factor.Sub(at, z[k])
		if err := out.AddScaled(coef[k], factor, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SPDX-License-Identifier: MIT

package polynomial

import (
	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/system"
)

// TotalDegree is the total-degree start system of a square target system.
//
// For an affine target with degrees d_1 … d_n the functions are x_i^{d_i} − 1.
// For a homogenized target they are x_i^{d_i} − h^{d_i} and the target's patch
// is reused, so that start points satisfy the same patch equation as the
// points tracked towards the target. Start points are tuples of roots of
// unity, ∏ d_i of them.
type TotalDegree struct {
	sys     *System
	degrees []int
}

// NewTotalDegree builds the total-degree start system of target.
//
// Errors:
//   - ErrNotSquare if the number of non-patch functions differs from the
//     number of affine variables, or a homogenized target is unpatched.
//   - ErrConstantFunction if a target function has degree 0.
func NewTotalDegree(target *System) (*TotalDegree, error) {
	affine := target.nvars
	if target.homogenized {
		affine--
		if target.patch == nil {
			return nil, polynomialErrorf(opTotalDegree, ErrNotSquare)
		}
	}
	if len(target.funcs) != affine {
		return nil, polynomialErrorf(opTotalDegree, ErrNotSquare)
	}

	degrees := target.Degrees()
	for _, d := range degrees {
		if d < 1 {
			return nil, polynomialErrorf(opTotalDegree, ErrConstantFunction)
		}
	}
	funcs := make([]*Polynomial, affine)
	vars := Variables(target.nvars)
	for i, d := range degrees {
		if target.homogenized {
			funcs[i] = vars[i+1].Pow(d).Sub(vars[0].Pow(d))
		} else {
			funcs[i] = vars[i].Pow(d).Sub(Constant(target.nvars, 1))
		}
	}
	sys := &System{nvars: target.nvars, funcs: funcs, homogenized: target.homogenized}
	if target.patch != nil {
		var err error
		if sys, err = sys.WithPatch(target.patch); err != nil {
			return nil, polynomialErrorf(opTotalDegree, err)
		}
	}
	return &TotalDegree{sys: sys, degrees: degrees}, nil
}

// System returns the start system as polynomials.
func (td *TotalDegree) System() *System { return td.sys }

// Degrees returns the degrees of the target functions.
func (td *TotalDegree) Degrees() []int {
	out := make([]int, len(td.degrees))
	copy(out, td.degrees)
	return out
}

// NumStartPoints returns ∏ d_i.
func (td *TotalDegree) NumStartPoints() int {
	n := 1
	for _, d := range td.degrees {
		n *= d
	}
	return n
}

// StartPoint returns start point i at precision p.
//
// The index is read in mixed radix over the degrees, first variable fastest:
// coordinate k is the root of unity exp(2πi·j_k/d_k). For a homogenized
// system the point (1, ω…) is scaled onto the patch.
func (td *TotalDegree) StartPoint(i int, p multiprec.Precision) (*multiprec.Vector, error) {
	if i < 0 || i >= td.NumStartPoints() {
		return nil, polynomialErrorf(opStartPoint, system.ErrStartPointIndex)
	}
	x := multiprec.NewVector(p, td.sys.nvars)
	offset := 0
	if td.sys.homogenized {
		x.At(0).SetComplex128(1)
		offset = 1
	}
	rem := i
	for k, d := range td.degrees {
		x.At(k + offset).Set(multiprec.UnitRoot(rem%d, d, p))
		rem /= d
	}

	if td.sys.patch != nil {
		// scale so that Σ a_i·x_i = 1
		sum := multiprec.NewComplex(p)
		coeff := multiprec.NewComplex(p)
		tmp := multiprec.NewComplex(p)
		for j, a := range td.sys.patch {
			coeff.SetComplex128(a)
			sum.Add(sum, tmp.Mul(coeff, x.At(j)))
		}
		if sum.IsZero() {
			return nil, polynomialErrorf(opStartPoint, ErrBadPatch)
		}
		scale := multiprec.NewComplex(p).Inv(sum)
		if err := x.Scale(scale, x); err != nil {
			return nil, polynomialErrorf(opStartPoint, err)
		}
	}
	return x, nil
}

var _ system.StartSystem = (*TotalDegree)(nil)

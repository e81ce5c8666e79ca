// SPDX-License-Identifier: MIT

package multiprec

import "math/big"

// LU is the factorization P·A = L·U of a square matrix, with unit lower
// triangular L and upper triangular U stored in one array.
type LU struct {
	prec Precision
	n    int
	lu   []Complex
	piv  []int
}

// Factorize computes the LU factorization of a with partial pivoting.
//
// Implementation:
//   - Stage 1: Copy a into the working array (a is not mutated).
//   - Stage 2: For each column k choose the row of largest modulus at or
//     below k, swap it into place, eliminate below the pivot.
//
// Behavior highlights:
//   - A pivot is treated as zero when |pivot| ≤ max|a_ij|·10^-P, P the
//     precision of a. An exactly zero matrix column is always singular.
//
// Inputs:
//   - a: non-nil square matrix.
//
// Returns:
//   - *LU: factorization tagged with a's precision.
//
// Errors:
//   - ErrNilValue, ErrNonSquare (validation).
//   - ErrSingular when a pivot vanishes at the working precision.
//
// Determinism:
//   - Ties in the pivot search keep the lowest row index.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Factorize(a *Matrix) (*LU, error) {
	if err := validateSquare(a); err != nil {
		return nil, multiprecErrorf(opFactorize, err)
	}
	n := a.rows
	f := &LU{prec: a.prec, n: n, lu: make([]Complex, n*n), piv: make([]int, n)}
	for i := range a.data {
		f.lu[i].init(a.prec)
		f.lu[i].Set(&a.data[i])
	}

	threshold := singularThreshold(a)
	tmp := NewComplex(a.prec)
	for k := 0; k < n; k++ {
		p := k
		best := f.at(k, k).Abs2()
		for i := k + 1; i < n; i++ {
			if v := f.at(i, k).Abs2(); v.Cmp(best) > 0 {
				p, best = i, v
			}
		}
		if best.Sign() == 0 || best.Cmp(threshold) <= 0 {
			return nil, multiprecErrorf(opFactorize, ErrSingular)
		}
		f.piv[k] = p
		if p != k {
			for j := 0; j < n; j++ {
				f.swap(k, j, p, j)
			}
		}

		pivot := f.at(k, k)
		for i := k + 1; i < n; i++ {
			l := f.at(i, k)
			l.Quo(l, pivot)
			if l.IsZero() {
				continue
			}
			for j := k + 1; j < n; j++ {
				tmp.Mul(l, f.at(k, j))
				aij := f.at(i, j)
				aij.Sub(aij, tmp)
			}
		}
	}
	return f, nil
}

// singularThreshold returns max|a_ij|²·10^(-2P).
func singularThreshold(a *Matrix) *big.Float {
	bits := a.prec.Bits()
	scale := a.maxAbs2()
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(2*a.prec)), nil)
	return scale.Quo(scale, new(big.Float).SetPrec(bits).SetInt(denom))
}

func (f *LU) at(i, j int) *Complex { return &f.lu[i*f.n+j] }

// swap exchanges two entries. Moving whole Complex values keeps each
// mantissa owned by exactly one slot.
func (f *LU) swap(i1, j1, i2, j2 int) {
	a, b := i1*f.n+j1, i2*f.n+j2
	f.lu[a], f.lu[b] = f.lu[b], f.lu[a]
}

// Size returns the order of the factored matrix.
func (f *LU) Size() int { return f.n }

// Precision returns the precision tag of the factorization.
func (f *LU) Precision() Precision { return f.prec }

// Solve returns x with A·x = b. b must match the factorization's size and precision.
func (f *LU) Solve(b *Vector) (*Vector, error) {
	if b == nil {
		return nil, multiprecErrorf(opSolve, ErrNilValue)
	}
	if len(b.data) != f.n {
		return nil, multiprecErrorf(opSolve, ErrDimensionMismatch)
	}
	if b.prec != f.prec {
		return nil, multiprecErrorf(opSolve, ErrPrecisionMismatch)
	}
	return f.solve(b), nil
}

func (f *LU) solve(b *Vector) *Vector {
	x := b.Clone()
	for k := 0; k < f.n; k++ {
		if p := f.piv[k]; p != k {
			x.data[k], x.data[p] = x.data[p], x.data[k]
		}
	}

	tmp := NewComplex(f.prec)
	// forward substitution, unit diagonal
	for i := 1; i < f.n; i++ {
		xi := &x.data[i]
		for j := 0; j < i; j++ {
			tmp.Mul(f.at(i, j), &x.data[j])
			xi.Sub(xi, tmp)
		}
	}
	// back substitution
	for i := f.n - 1; i >= 0; i-- {
		xi := &x.data[i]
		for j := i + 1; j < f.n; j++ {
			tmp.Mul(f.at(i, j), &x.data[j])
			xi.Sub(xi, tmp)
		}
		xi.Quo(xi, f.at(i, i))
	}
	return x
}

// InverseNorm returns the Frobenius norm of A⁻¹, an upper bound of the
// spectral norm used in condition estimates. It solves one system per column.
func (f *LU) InverseNorm() float64 {
	sum := new(big.Float).SetPrec(f.prec.Bits())
	e := NewVector(f.prec, f.n)
	for j := 0; j < f.n; j++ {
		e.data[j].SetComplex128(1)
		col := f.solve(e)
		for i := range col.data {
			sum.Add(sum, col.data[i].Abs2())
		}
		e.data[j].SetComplex128(0)
	}
	if sum.Sign() == 0 {
		return 0
	}
	v, _ := sum.Sqrt(sum).Float64()
	return v
}

// Solve factors a and solves a·x = b.
func Solve(a *Matrix, b *Vector) (*Vector, error) {
	f, err := Factorize(a)
	if err != nil {
		return nil, err
	}
	return f.Solve(b)
}

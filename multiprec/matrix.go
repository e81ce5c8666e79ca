// SPDX-License-Identifier: MIT

package multiprec

import "math/big"

// Matrix is a dense row-major complex matrix tagged with one precision.
type Matrix struct {
	prec       Precision
	rows, cols int
	data       []Complex
}

// NewMatrix allocates a rows×cols zero matrix at precision p.
//
// Errors:
//   - ErrBadShape if rows<=0 or cols<=0.
//   - ErrBadPrecision if p == 0.
func NewMatrix(p Precision, rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, multiprecErrorf(opNewMatrix, ErrBadShape)
	}
	if err := validatePrecision(p); err != nil {
		return nil, multiprecErrorf(opNewMatrix, err)
	}
	m := &Matrix{prec: p, rows: rows, cols: cols, data: make([]Complex, rows*cols)}
	for i := range m.data {
		m.data[i].init(p)
	}
	return m, nil
}

// MatrixFromComplex128 builds a matrix at precision p from row slices.
// All rows must have equal, positive length.
func MatrixFromComplex128(p Precision, rows [][]complex128) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, multiprecErrorf(opNewMatrix, ErrBadShape)
	}
	m, err := NewMatrix(p, len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m.cols {
			return nil, multiprecErrorf(opNewMatrix, ErrDimensionMismatch)
		}
		for j, c := range row {
			m.At(i, j).SetComplex128(c)
		}
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Precision returns the precision tag.
func (m *Matrix) Precision() Precision { return m.prec }

// At returns a pointer to entry (i, j). Out-of-range indices panic.
func (m *Matrix) At(i, j int) *Complex {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(ErrDimensionMismatch)
	}
	return &m.data[i*m.cols+j]
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return m.ToPrecision(m.prec)
}

// ToPrecision returns a copy of m at precision p.
func (m *Matrix) ToPrecision(p Precision) *Matrix {
	out := &Matrix{prec: p, rows: m.rows, cols: m.cols, data: make([]Complex, len(m.data))}
	for i := range m.data {
		out.data[i].init(p)
		out.data[i].Set(&m.data[i])
	}
	return out
}

// MulVec returns m·x.
func (m *Matrix) MulVec(x *Vector) (*Vector, error) {
	if err := validateMatVec(m, x); err != nil {
		return nil, multiprecErrorf(opMulVec, err)
	}
	out := NewVector(m.prec, m.rows)
	tmp := NewComplex(m.prec)
	for i := 0; i < m.rows; i++ {
		acc := &out.data[i]
		for j := 0; j < m.cols; j++ {
			tmp.Mul(&m.data[i*m.cols+j], &x.data[j])
			acc.Add(acc, tmp)
		}
	}
	return out, nil
}

// Norm returns the Frobenius norm rounded to float64.
func (m *Matrix) Norm() float64 {
	sum := new(big.Float).SetPrec(m.prec.Bits())
	for i := range m.data {
		sum.Add(sum, m.data[i].Abs2())
	}
	if sum.Sign() == 0 {
		return 0
	}
	f, _ := sum.Sqrt(sum).Float64()
	return f
}

// maxAbs2 returns max |a_ij|² at m's precision.
func (m *Matrix) maxAbs2() *big.Float {
	best := new(big.Float).SetPrec(m.prec.Bits())
	for i := range m.data {
		if a := m.data[i].Abs2(); a.Cmp(best) > 0 {
			best.Set(a)
		}
	}
	return best
}

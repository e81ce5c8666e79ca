// SPDX-License-Identifier: MIT

package multiprec

import (
	"math"
	"math/big"
	"strings"
)

// Vector is a dense complex vector tagged with one precision.
// Every coordinate carries the vector's precision.
type Vector struct {
	prec Precision
	data []Complex
}

// NewVector allocates the zero vector of length n at precision p.
// A negative n panics like make.
func NewVector(p Precision, n int) *Vector {
	v := &Vector{prec: p, data: make([]Complex, n)}
	for i := range v.data {
		v.data[i].init(p)
	}
	return v
}

// VectorFromComplex128 builds a vector at precision p from float64 pairs.
func VectorFromComplex128(p Precision, values ...complex128) *Vector {
	v := NewVector(p, len(values))
	for i, c := range values {
		v.data[i].SetComplex128(c)
	}
	return v
}

// VectorOf builds a vector from complex values converted to precision p.
func VectorOf(p Precision, values ...*Complex) *Vector {
	v := NewVector(p, len(values))
	for i, c := range values {
		v.data[i].Set(c)
	}
	return v
}

// Len returns the number of coordinates.
func (v *Vector) Len() int { return len(v.data) }

// Precision returns the precision tag.
func (v *Vector) Precision() Precision { return v.prec }

// At returns a pointer to coordinate i. The pointer aliases the vector's
// storage; writes through it must keep the vector's precision. An index
// outside [0, Len) panics like a slice access.
func (v *Vector) At(i int) *Complex { return &v.data[i] }

// Clone returns a deep copy.
func (v *Vector) Clone() *Vector {
	return v.ToPrecision(v.prec)
}

// ToPrecision returns a copy of v at precision p.
func (v *Vector) ToPrecision(p Precision) *Vector {
	out := NewVector(p, len(v.data))
	for i := range v.data {
		out.data[i].Set(&v.data[i])
	}
	return out
}

// Set copies src into v. Both must have the same length and precision.
func (v *Vector) Set(src *Vector) error {
	if err := validateVectors(v, src); err != nil {
		return multiprecErrorf(opVectorSet, err)
	}
	for i := range v.data {
		v.data[i].Set(&src.data[i])
	}
	return nil
}

// Add sets v = a + b.
func (v *Vector) Add(a, b *Vector) error {
	if err := validateVectors(v, a, b); err != nil {
		return multiprecErrorf(opVectorAdd, err)
	}
	for i := range v.data {
		v.data[i].Add(&a.data[i], &b.data[i])
	}
	return nil
}

// Sub sets v = a − b.
func (v *Vector) Sub(a, b *Vector) error {
	if err := validateVectors(v, a, b); err != nil {
		return multiprecErrorf(opVectorSub, err)
	}
	for i := range v.data {
		v.data[i].Sub(&a.data[i], &b.data[i])
	}
	return nil
}

// AddScaled sets v = a + c·b.
func (v *Vector) AddScaled(a *Vector, c *Complex, b *Vector) error {
	if err := validateVectors(v, a, b); err != nil {
		return multiprecErrorf(opVectorAxpy, err)
	}
	if c == nil {
		return multiprecErrorf(opVectorAxpy, ErrNilValue)
	}
	tmp := NewComplex(v.prec)
	for i := range v.data {
		tmp.Mul(c, &b.data[i])
		v.data[i].Add(&a.data[i], tmp)
	}
	return nil
}

// Scale sets v = c·a.
func (v *Vector) Scale(c *Complex, a *Vector) error {
	if err := validateVectors(v, a); err != nil {
		return multiprecErrorf(opVectorScale, err)
	}
	if c == nil {
		return multiprecErrorf(opVectorScale, ErrNilValue)
	}
	for i := range v.data {
		v.data[i].Mul(c, &a.data[i])
	}
	return nil
}

// NormBig returns the Euclidean norm at v's precision.
func (v *Vector) NormBig() *big.Float {
	bits := v.prec.Bits()
	sum := new(big.Float).SetPrec(bits)
	for i := range v.data {
		sum.Add(sum, v.data[i].Abs2())
	}
	if sum.Sign() == 0 {
		return sum
	}
	return sum.Sqrt(sum)
}

// Norm returns the Euclidean norm rounded to float64.
func (v *Vector) Norm() float64 {
	f, _ := v.NormBig().Float64()
	return f
}

// NormInf returns the largest coordinate modulus rounded to float64.
func (v *Vector) NormInf() float64 {
	out := 0.0
	for i := range v.data {
		out = math.Max(out, v.data[i].AbsFloat64())
	}
	return out
}

// IsFinite reports whether no coordinate is infinite.
func (v *Vector) IsFinite() bool {
	for i := range v.data {
		if !v.data[i].isFinite() {
			return false
		}
	}
	return true
}

// Complex128s returns the coordinates rounded to complex128.
func (v *Vector) Complex128s() []complex128 {
	out := make([]complex128, len(v.data))
	for i := range v.data {
		out[i] = v.data[i].Complex128()
	}
	return out
}

// String formats the coordinates at full precision.
func (v *Vector) String() string {
	parts := make([]string, len(v.data))
	for i := range v.data {
		parts[i] = v.data[i].String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Distance returns ‖a − b‖₂. Both vectors must share length and precision.
func Distance(a, b *Vector) (float64, error) {
	if err := validateVectors(a, b); err != nil {
		return 0, multiprecErrorf(opDistance, err)
	}
	d := NewVector(a.prec, len(a.data))
	for i := range d.data {
		d.data[i].Sub(&a.data[i], &b.data[i])
	}
	return d.Norm(), nil
}

// CommonPrecision converts every vector to the highest precision among them.
// It is the explicit conversion step callers use before mixing vectors that
// were computed at different precisions.
func CommonPrecision(vs ...*Vector) []*Vector {
	var p Precision
	for _, v := range vs {
		p = MaxOf(p, v.prec)
	}
	out := make([]*Vector, len(vs))
	for i, v := range vs {
		if v.prec == p {
			out[i] = v
			continue
		}
		out[i] = v.ToPrecision(p)
	}
	return out
}

// SPDX-License-Identifier: MIT

package multiprec

import (
	"fmt"
	"math/big"
	"math/cmplx"
	"strings"
)

// Complex is an arbitrary-precision complex number.
//
// Both parts are rounded to the same precision. The zero value is not usable;
// construct values with NewComplex and friends. A Complex must not be copied
// by value after first use: the big.Float parts share mantissa storage.
type Complex struct {
	prec   Precision
	re, im big.Float
}

// NewComplex returns 0 at precision p.
func NewComplex(p Precision) *Complex {
	z := &Complex{}
	z.init(p)
	return z
}

// NewComplexFloat64 returns re + i·im at precision p.
// The float64 inputs are exact binary values, so the result denotes the same
// number at every precision.
func NewComplexFloat64(p Precision, re, im float64) *Complex {
	z := NewComplex(p)
	z.re.SetFloat64(re)
	z.im.SetFloat64(im)
	return z
}

// NewComplex128 returns c at precision p.
func NewComplex128(p Precision, c complex128) *Complex {
	return NewComplexFloat64(p, real(c), imag(c))
}

// ParseComplex parses decimal strings for the real and imaginary parts at
// precision p. Decimal inputs are rounded once, at p.
func ParseComplex(p Precision, re, im string) (*Complex, error) {
	z := NewComplex(p)
	if _, ok := z.re.SetString(strings.TrimSpace(re)); !ok {
		return nil, multiprecErrorf(opParse, fmt.Errorf("%w: real part %q", ErrParse, re))
	}
	if _, ok := z.im.SetString(strings.TrimSpace(im)); !ok {
		return nil, multiprecErrorf(opParse, fmt.Errorf("%w: imaginary part %q", ErrParse, im))
	}
	return z, nil
}

func (z *Complex) init(p Precision) {
	z.prec = p
	bits := p.Bits()
	z.re.SetPrec(bits)
	z.im.SetPrec(bits)
}

// Precision returns the precision tag of z.
func (z *Complex) Precision() Precision { return z.prec }

// Real returns a copy of the real part.
func (z *Complex) Real() *big.Float { return new(big.Float).Copy(&z.re) }

// Imag returns a copy of the imaginary part.
func (z *Complex) Imag() *big.Float { return new(big.Float).Copy(&z.im) }

// Set sets z to the value of x rounded to z's precision and returns z.
func (z *Complex) Set(x *Complex) *Complex {
	if z == x {
		return z
	}
	z.re.Set(&x.re)
	z.im.Set(&x.im)
	return z
}

// SetComplex128 sets z to c and returns z.
func (z *Complex) SetComplex128(c complex128) *Complex {
	z.re.SetFloat64(real(c))
	z.im.SetFloat64(imag(c))
	return z
}

// SetParts sets z to re + i·im, rounding to z's precision.
func (z *Complex) SetParts(re, im *big.Float) *Complex {
	z.re.Set(re)
	z.im.Set(im)
	return z
}

// Clone returns a deep copy of z with the same precision.
func (z *Complex) Clone() *Complex {
	return NewComplex(z.prec).Set(z)
}

// ToPrecision returns z converted to precision p. Raising the precision is
// exact; lowering it rounds.
func (z *Complex) ToPrecision(p Precision) *Complex {
	return NewComplex(p).Set(z)
}

// Add sets z = x + y and returns z.
func (z *Complex) Add(x, y *Complex) *Complex {
	z.re.Add(&x.re, &y.re)
	z.im.Add(&x.im, &y.im)
	return z
}

// Sub sets z = x - y and returns z.
func (z *Complex) Sub(x, y *Complex) *Complex {
	z.re.Sub(&x.re, &y.re)
	z.im.Sub(&x.im, &y.im)
	return z
}

// Neg sets z = -x and returns z.
func (z *Complex) Neg(x *Complex) *Complex {
	z.re.Neg(&x.re)
	z.im.Neg(&x.im)
	return z
}

// Conj sets z = conj(x) and returns z.
func (z *Complex) Conj(x *Complex) *Complex {
	z.re.Set(&x.re)
	z.im.Neg(&x.im)
	return z
}

// Mul sets z = x·y and returns z.
func (z *Complex) Mul(x, y *Complex) *Complex {
	bits := z.re.Prec()
	var ac, bd, ad, bc big.Float
	ac.SetPrec(bits).Mul(&x.re, &y.re)
	bd.SetPrec(bits).Mul(&x.im, &y.im)
	ad.SetPrec(bits).Mul(&x.re, &y.im)
	bc.SetPrec(bits).Mul(&x.im, &y.re)
	z.re.Sub(&ac, &bd)
	z.im.Add(&ad, &bc)
	return z
}

// Quo sets z = x/y and returns z. y must be non-zero; dividing by zero
// panics the same way big.Float does for 0/0.
func (z *Complex) Quo(x, y *Complex) *Complex {
	bits := z.re.Prec() + guardBits
	var den, t1, t2, re, im big.Float
	den.SetPrec(bits).Mul(&y.re, &y.re)
	t1.SetPrec(bits).Mul(&y.im, &y.im)
	den.Add(&den, &t1)

	// (a+bi)/(c+di) = ((ac+bd) + (bc-ad)i) / (c²+d²)
	t1.Mul(&x.re, &y.re)
	t2.SetPrec(bits).Mul(&x.im, &y.im)
	re.SetPrec(bits).Add(&t1, &t2)
	t1.Mul(&x.im, &y.re)
	t2.Mul(&x.re, &y.im)
	im.SetPrec(bits).Sub(&t1, &t2)

	z.re.Quo(&re, &den)
	z.im.Quo(&im, &den)
	return z
}

// Inv sets z = 1/x and returns z.
func (z *Complex) Inv(x *Complex) *Complex {
	one := NewComplexFloat64(z.prec, 1, 0)
	return z.Quo(one, x)
}

// MulFloat64 sets z = x·f for a real f and returns z.
func (z *Complex) MulFloat64(x *Complex, f float64) *Complex {
	var s big.Float
	s.SetPrec(z.re.Prec()).SetFloat64(f)
	z.re.Mul(&x.re, &s)
	z.im.Mul(&x.im, &s)
	return z
}

// MulReal sets z = x·f for a real big.Float f and returns z.
func (z *Complex) MulReal(x *Complex, f *big.Float) *Complex {
	z.re.Mul(&x.re, f)
	z.im.Mul(&x.im, f)
	return z
}

// QuoInt64 sets z = x/n for a non-zero integer n and returns z.
func (z *Complex) QuoInt64(x *Complex, n int64) *Complex {
	var d big.Float
	d.SetPrec(z.re.Prec()).SetInt64(n)
	z.re.Quo(&x.re, &d)
	z.im.Quo(&x.im, &d)
	return z
}

// Root sets z to the principal n-th root of x and returns z. n must be
// positive.
//
// A float64 root of x scaled by 2⁻ᵏ, k a multiple of n, seeds Newton's
// iteration, which doubles the correct bits per pass.
func (z *Complex) Root(x *Complex, n int) *Complex {
	if n < 1 {
		panic("multiprec: Root order must be positive")
	}
	if n == 1 || x.IsZero() {
		return z.Set(x)
	}
	var exp int
	switch {
	case x.re.Sign() == 0:
		exp = x.im.MantExp(nil)
	case x.im.Sign() == 0:
		exp = x.re.MantExp(nil)
	default:
		exp = max(x.re.MantExp(nil), x.im.MantExp(nil))
	}
	k := exp - exp%n
	scaled := x.Clone()
	scaled.re.SetMantExp(&scaled.re, -k)
	scaled.im.SetMantExp(&scaled.im, -k)
	s := NewComplex128(z.prec, cmplx.Pow(scaled.Complex128(), complex(1/float64(n), 0)))
	s.re.SetMantExp(&s.re, k/n)
	s.im.SetMantExp(&s.im, k/n)
	pow := NewComplex(z.prec)
	next := NewComplex(z.prec)
	// The seed is good to well over 24 bits.
	for good := uint(24); good < z.re.Prec()+guardBits; good *= 2 {
		// s ← ((n-1)s + x/s^(n-1)) / n
		pow.SetComplex128(1)
		for j := 1; j < n; j++ {
			pow.Mul(pow, s)
		}
		next.Quo(x, pow)
		pow.MulFloat64(s, float64(n-1))
		next.Add(next, pow)
		s.QuoInt64(next, int64(n))
	}
	return z.Set(s)
}

// Abs2 returns |z|² at z's precision.
func (z *Complex) Abs2() *big.Float {
	bits := z.re.Prec()
	var t big.Float
	out := new(big.Float).SetPrec(bits).Mul(&z.re, &z.re)
	t.SetPrec(bits).Mul(&z.im, &z.im)
	return out.Add(out, &t)
}

// Abs returns |z| at z's precision.
func (z *Complex) Abs() *big.Float {
	a2 := z.Abs2()
	if a2.Sign() == 0 {
		return a2
	}
	return new(big.Float).SetPrec(a2.Prec()).Sqrt(a2)
}

// AbsFloat64 returns |z| rounded to float64. Values beyond the float64 range
// saturate to +Inf or 0.
func (z *Complex) AbsFloat64() float64 {
	f, _ := z.Abs().Float64()
	return f
}

// IsZero reports whether z is exactly zero.
func (z *Complex) IsZero() bool {
	return z.re.Sign() == 0 && z.im.Sign() == 0
}

// Equal reports whether z and x denote the same value.
func (z *Complex) Equal(x *Complex) bool {
	return z.re.Cmp(&x.re) == 0 && z.im.Cmp(&x.im) == 0
}

// Complex128 returns z rounded to complex128.
func (z *Complex) Complex128() complex128 {
	re, _ := z.re.Float64()
	im, _ := z.im.Float64()
	return complex(re, im)
}

// Text formats z with the given number of significant digits per part.
func (z *Complex) Text(digits int) string {
	sign := "+"
	im := &z.im
	if z.im.Signbit() {
		sign = "-"
		im = new(big.Float).Neg(&z.im)
	}
	return fmt.Sprintf("%s%s%si", z.re.Text('g', digits), sign, im.Text('g', digits))
}

// String implements fmt.Stringer using the full precision of z.
func (z *Complex) String() string {
	return z.Text(int(z.prec))
}

// isFinite reports whether both parts are finite. big.Float cannot hold NaN.
func (z *Complex) isFinite() bool {
	return !z.re.IsInf() && !z.im.IsInf()
}

// SPDX-License-Identifier: MIT

package multiprec

import "math/big"

// constGuardBits is the extra working precision used by series evaluations.
const constGuardBits = 32

// Pi returns π rounded to precision p.
//
// Implementation:
//   - Machin's formula π = 16·atan(1/5) − 4·atan(1/239), each arctangent
//     summed as an alternating series at p.Bits()+constGuardBits.
//
// Determinism:
//   - The result depends only on p.
//
// Complexity:
//   - O(p) series terms, each one big.Float division.
func Pi(p Precision) *big.Float {
	bits := p.Bits() + constGuardBits
	a := arctanInv(5, bits)
	b := arctanInv(239, bits)
	a.Mul(a, new(big.Float).SetPrec(bits).SetInt64(16))
	b.Mul(b, new(big.Float).SetPrec(bits).SetInt64(4))
	a.Sub(a, b)
	return new(big.Float).SetPrec(p.Bits()).Set(a)
}

// arctanInv returns atan(1/m) for an integer m > 1 at the given mantissa width.
func arctanInv(m int64, bits uint) *big.Float {
	pow := new(big.Float).SetPrec(bits).SetInt64(1)
	pow.Quo(pow, new(big.Float).SetPrec(bits).SetInt64(m))
	m2 := new(big.Float).SetPrec(bits).SetInt64(m * m)

	sum := new(big.Float).SetPrec(bits).Set(pow)
	eps := new(big.Float).SetPrec(bits).SetMantExp(big.NewFloat(1), -int(bits))
	term := new(big.Float).SetPrec(bits)
	den := new(big.Float).SetPrec(bits)
	for k := int64(1); ; k++ {
		pow.Quo(pow, m2)
		den.SetInt64(2*k + 1)
		term.Quo(pow, den)
		if term.Cmp(eps) < 0 {
			break
		}
		if k%2 == 1 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
	}
	return sum
}

// UnitRoot returns exp(2πi·k/n) at precision p. n must be positive.
//
// The index is reduced into (−n/2, n/2] first so the Taylor series runs on an
// angle of magnitude at most π. The values 1, −1, i and −i are returned exactly.
func UnitRoot(k, n int, p Precision) *Complex {
	if n <= 0 {
		panic("multiprec: UnitRoot: n must be positive")
	}
	k %= n
	if k < 0 {
		k += n
	}
	if 2*k > n {
		k -= n
	}

	switch {
	case k == 0:
		return NewComplexFloat64(p, 1, 0)
	case 2*k == n:
		return NewComplexFloat64(p, -1, 0)
	case 4*k == n:
		return NewComplexFloat64(p, 0, 1)
	case 4*k == -n:
		return NewComplexFloat64(p, 0, -1)
	}

	bits := p.Bits() + constGuardBits
	theta := Pi(p + Precision(constGuardBits/3))
	theta.SetPrec(bits)
	theta.Mul(theta, new(big.Float).SetPrec(bits).SetInt64(int64(2*k)))
	theta.Quo(theta, new(big.Float).SetPrec(bits).SetInt64(int64(n)))

	sin, cos := sinCos(theta, bits)
	z := NewComplex(p)
	z.re.Set(cos)
	z.im.Set(sin)
	return z
}

// ExpI returns exp(i·theta) at precision p for a real theta of moderate size.
func ExpI(theta *big.Float, p Precision) *Complex {
	bits := p.Bits() + constGuardBits
	th := new(big.Float).SetPrec(bits).Set(theta)
	sin, cos := sinCos(th, bits)
	z := NewComplex(p)
	z.re.Set(cos)
	z.im.Set(sin)
	return z
}

// sinCos evaluates the Taylor series of sin and cos at theta.
func sinCos(theta *big.Float, bits uint) (*big.Float, *big.Float) {
	th2 := new(big.Float).SetPrec(bits).Mul(theta, theta)
	th2.Neg(th2)

	eps := new(big.Float).SetPrec(bits).SetMantExp(big.NewFloat(1), -int(bits))

	cos := new(big.Float).SetPrec(bits).SetInt64(1)
	sin := new(big.Float).SetPrec(bits).Set(theta)
	ct := new(big.Float).SetPrec(bits).SetInt64(1)
	st := new(big.Float).SetPrec(bits).Set(theta)
	den := new(big.Float).SetPrec(bits)
	abs := new(big.Float).SetPrec(bits)
	for j := int64(1); ; j++ {
		// ct ← ct·(−θ²)/((2j−1)(2j)), st ← st·(−θ²)/((2j)(2j+1))
		ct.Mul(ct, th2)
		den.SetInt64((2*j - 1) * (2 * j))
		ct.Quo(ct, den)
		st.Mul(st, th2)
		den.SetInt64((2 * j) * (2*j + 1))
		st.Quo(st, den)
		cos.Add(cos, ct)
		sin.Add(sin, st)
		if abs.Abs(ct).Cmp(eps) < 0 && abs.Abs(st).Cmp(eps) < 0 {
			break
		}
	}
	return sin, cos
}

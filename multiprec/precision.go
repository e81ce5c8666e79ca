// SPDX-License-Identifier: MIT

package multiprec

import (
	"fmt"
	"math"
)

// Precision is a number of significant decimal digits.
type Precision uint

const (
	// DoublePrecision matches the accuracy of an IEEE-754 double.
	DoublePrecision Precision = 16

	// DefaultMaxPrecision is the precision ceiling used by adaptive tracking
	// unless configured otherwise.
	DefaultMaxPrecision Precision = 300

	// guardBits are added on top of the exact digit-to-bit conversion so that
	// a value printed at p digits round-trips.
	guardBits = 8

	log2Of10 = 3.321928094887362
)

// Bits returns the big.Float mantissa width used for p digits.
func (p Precision) Bits() uint {
	return uint(math.Ceil(float64(p)*log2Of10)) + guardBits
}

// Epsilon returns 10^-p, the unit roundoff in decimal terms.
func (p Precision) Epsilon() float64 {
	return math.Pow(10, -float64(p))
}

// String implements fmt.Stringer.
func (p Precision) String() string {
	return fmt.Sprintf("%d digits", uint(p))
}

// MaxOf returns the largest of the given precisions (0 for none).
func MaxOf(ps ...Precision) Precision {
	var out Precision
	for _, p := range ps {
		if p > out {
			out = p
		}
	}
	return out
}

// DigitsFor returns the number of digits needed to resolve tol, i.e. ceil(-log10(tol)).
// Non-positive or non-finite tolerances map to 0.
func DigitsFor(tol float64) Precision {
	if !(tol > 0) || math.IsInf(tol, 0) || tol >= 1 {
		return 0
	}
	// the slack absorbs Log10 rounding for exact powers of ten
	return Precision(math.Ceil(-math.Log10(tol) - 1e-9))
}

func validatePrecision(p Precision) error {
	if p == 0 {
		return ErrBadPrecision
	}
	return nil
}

// SPDX-License-Identifier: MIT

// Package multiprec is the arbitrary-precision numeric context used by the
// path tracker and the endgame.
//
// The package provides:
//
//   - Precision, a count of significant decimal digits, and its mapping to
//     math/big mantissa bits.
//   - Complex, a complex number whose real and imaginary parts are big.Float
//     values rounded to one shared precision.
//   - Vector and Matrix, dense containers of Complex values tagged with exactly
//     one precision. Binary operations on containers of different precisions
//     fail with ErrPrecisionMismatch; conversion is always explicit through
//     ToPrecision.
//   - LU factorization with partial pivoting, linear solves and the norm of the
//     inverse used by condition-number estimates.
//   - Constants at any precision: Pi and the complex roots of unity.
//
// Precision is never ambient. Every constructor takes the precision it
// allocates at, and every kernel computes at the precision of its operands.
// Raising the precision of a value keeps its bits (the value is exact at the
// higher precision); lowering it rounds to nearest even.
//
// Scalar arithmetic on *Complex follows the math/big convention: the receiver
// holds the result and its precision decides the rounding. Receivers may alias
// operands.
package multiprec

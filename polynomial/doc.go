// SPDX-License-Identifier: MIT

// Package polynomial provides the evaluator collaborators the tracker is
// exercised with: sparse polynomials with complex128 coefficients, square
// polynomial systems with optional homogenization and a linear patch, the
// total-degree start system, and the straight-line homotopy
//
//	H(x, t) = (1 − t)·F(x) + γ·t·G(x)
//
// between a target system F and a start system G.
//
// Coefficients are exact binary float64 values, so a system denotes the same
// polynomials at every precision it is evaluated at. Evaluation is
// allocation-heavy but free of shared state; all types are immutable after
// construction and safe for concurrent use.
//
// The package is deliberately small. There is no parser, no expression tree
// and no simplification beyond collecting like terms.
package polynomial

// SPDX-License-Identifier: MIT

// Package homotopy solves systems of polynomial equations by numerical
// homotopy continuation with adaptive multiprecision.
//
// What is here?
//
//	A start system with known solutions is deformed into the target system,
//	H(x, t) = (1 − t)·F(x) + γ·t·G(x), and every start solution is followed
//	as t moves from 1 to 0:
//		• predictor–corrector path tracking with Runge–Kutta predictors
//		• adaptive precision: digits rise and fall with the conditioning
//		• the Cauchy endgame for singular endpoints, with cycle numbers
//		• parallel solving of all paths with a summary of the endpoints
//
// Packages, leaves first:
//
//	multiprec/   precision-tagged complex scalars, vectors, matrices, LU
//	system/      the Evaluator contract consumed by the tracker
//	polynomial/  sparse polynomial systems, homogenization, total-degree starts
//	tracking/    Newton corrector, predictors, AMP criteria, the path tracker
//	endgame/     the Cauchy endgame
//	solve/       all paths of a start system on a bounded worker group
//	pathplot/    precision and path-norm charts
//	cmd/homotopy command-line front end
//
// Precision is never global: every value carries its number of digits and
// every operation states the precision it works at.
//
//	go install github.com/katalvlaran/homotopy/cmd/homotopy@latest
//	homotopy solve --demo triple-double
package homotopy

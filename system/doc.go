// SPDX-License-Identifier: MIT

// Package system declares what the tracker consumes from a homotopy: an
// Evaluator producing H(x,t), ∂H/∂x and ∂H/∂t at an explicit precision, a
// StartSystem producing start points, and optional capabilities (degree and
// coefficient bounds, dehomogenization).
//
// The package holds no numerics of its own beyond argument validation shared
// by implementations.
package system

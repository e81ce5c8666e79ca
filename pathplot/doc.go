// SPDX-License-Identifier: MIT

// Package pathplot draws tracking diagnostics with gonum/plot.
//
// PrecisionSchedule charts the working precision of every accepted step, as
// recorded by tracking.PrecisionAccumulator. PathNorms charts ‖x‖ against
// −log10|t| from tracking.PathAccumulator samples, which makes paths heading
// to infinity or to a singular endpoint stand out. Write renders a chart as
// png, svg, pdf or eps.
package pathplot

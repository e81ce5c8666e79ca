// SPDX-License-Identifier: MIT

// Package endgame finishes paths near a target time t* where the solution
// may be singular.
//
// Cauchy implements the Cauchy endgame. Near t* a path x(t) is an analytic
// function of s with t − t* = s^c, c being the cycle number. Sampling the
// path on a circle around t* and walking around it until the path returns to
// its first sample yields c; the mean of the c·N samples is the trapezoid
// rule for the Cauchy integral of x(s), an approximation of x at t*.
//
// Circles shrink geometrically (SampleFactor) until two consecutive
// approximations agree to FinalTolerance with a stable cycle number.
//
// PowerSeries implements the power-series endgame. It samples the path on
// the ray towards t* at geometrically shrinking distances, keeping each
// point and its velocity. For every candidate c the newest sample is
// predicted by Hermite interpolation in s through the older ones; the best
// predictor fixes c, and the interpolant through all samples evaluated at
// s = 0 approximates the endpoint.
//
// Both endgames satisfy Endgame and share Config; New picks one by Kind. All
// path following and sample polishing is delegated to a tracking.Tracker.
package endgame

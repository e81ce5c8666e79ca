// SPDX-License-Identifier: MIT

// Package tracking implements adaptive-precision predictor-corrector path
// tracking for homotopies H(x, t) = 0.
//
// A Tracker follows one solution path from t_start to t_target along the
// straight segment between them in the complex t-plane:
//
//	predict  integrate dx/dt = −J⁻¹·∂H/∂t with an explicit Runge–Kutta scheme
//	correct  Newton's method at the new t, bounded iteration count
//	adapt    raise or lower the working precision from the AMP criteria
//	control  shrink the step on failure, grow it after consecutive successes
//
// Every path ends in exactly one SuccessCode together with the last accepted
// PathState. Numerical trouble never surfaces as a Go error; errors are
// reserved for unusable input (nil points, wrong dimensions, bad precision).
//
// A Tracker is immutable after NewTracker and can track many paths
// concurrently. Per-path state lives in the call to Track; observers are
// passed per call.
//
// Predictors are a closed set (see Predictor) mapped to Butcher tableaux.
// Embedded pairs provide an error estimate that can reject a step before the
// corrector runs.
package tracking

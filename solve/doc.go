// SPDX-License-Identifier: MIT

// Package solve tracks all paths of a homotopy in parallel.
//
// A Solver takes a tracking.Tracker and a system.StartSystem. Solve runs one
// task per start point on a bounded errgroup: track from t = 1 to the endgame
// boundary, then run a private endgame (Cauchy by default, PowerSeries with
// WithEndgame) to t = 0. Every task owns its precision and endgame state;
// the tracker is shared read-only.
//
// Each run gets a UUID that tags its log records and trace spans. Results
// are summarized with gonum (step and precision statistics) and endpoints
// are grouped into distinct solutions with multiplicities.
//
//	tr, _ := tracking.NewTracker(h)
//	s, _ := solve.New(tr, td, solve.WithDehomogenizer(h))
//	rep, err := s.Solve(ctx)
package solve

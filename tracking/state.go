// SPDX-License-Identifier: MIT

package tracking

import (
	"github.com/katalvlaran/homotopy/multiprec"
)

// PathState is the mutable state of one path. A Track call owns its state
// exclusively; the copy returned in Result is detached from the tracker.
type PathState struct {
	T         *multiprec.Complex
	Point     *multiprec.Vector
	Precision multiprec.Precision
	StepSize  float64

	ConsecutiveSuccesses int
	ConsecutiveFailures  int
	NumSteps             int
	NumFailedSteps       int
	NumPrecisionChanges  int
	MaxPrecisionUsed     multiprec.Precision

	// streakNeed is the largest criteria requirement since the last
	// precision change, used to decide precision decreases.
	streakNeed multiprec.Precision
	// precisionStreak counts successes since the last precision change.
	precisionStreak int
	// singularRetried marks that a singular solve already triggered a bump
	// at the current step.
	singularRetried bool
}

// setPrecision moves the state to p, converting T and Point.
func (s *PathState) setPrecision(p multiprec.Precision) {
	if p == s.Precision {
		return
	}
	s.T = s.T.ToPrecision(p)
	s.Point = s.Point.ToPrecision(p)
	s.Precision = p
	s.NumPrecisionChanges++
	s.MaxPrecisionUsed = max(s.MaxPrecisionUsed, p)
	s.streakNeed = 0
	s.precisionStreak = 0
}

func (s *PathState) clone() PathState {
	c := *s
	c.T = s.T.Clone()
	c.Point = s.Point.Clone()
	return c
}

// event builds an Event snapshot of the state.
func (s *PathState) event(kind EventKind) Event {
	return Event{
		Kind:      kind,
		Step:      s.NumSteps,
		T:         s.T.Complex128(),
		Point:     s.Point.Clone(),
		StepSize:  s.StepSize,
		Precision: s.Precision,
	}
}

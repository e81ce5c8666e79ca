// SPDX-License-Identifier: MIT

package endgame

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTracker indicates a constructor was given a nil tracker.
	ErrNilTracker = errors.New("endgame: nil tracker")

	// ErrNilArgument indicates a nil boundary time or point.
	ErrNilArgument = errors.New("endgame: nil argument")

	// ErrDimensionMismatch indicates a boundary point of the wrong length.
	ErrDimensionMismatch = errors.New("endgame: dimension mismatch")

	// ErrBoundaryAtTarget indicates a boundary time equal to the target time.
	ErrBoundaryAtTarget = errors.New("endgame: boundary time equals target time")

	// ErrUnknownKind indicates an endgame kind outside the declared set.
	ErrUnknownKind = errors.New("endgame: unknown endgame kind")
)

const (
	opNew            = "New"
	opNewCauchy      = "NewCauchy"
	opRun            = "Cauchy.Run"
	opNewPowerSeries = "NewPowerSeries"
	opPowerSeriesRun = "PowerSeries.Run"
)

func endgameErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

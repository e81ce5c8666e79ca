// SPDX-License-Identifier: MIT

package solve

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTracker indicates New was given a nil tracker.
	ErrNilTracker = errors.New("solve: nil tracker")

	// ErrNilStartSystem indicates New was given a nil start system.
	ErrNilStartSystem = errors.New("solve: nil start system")

	// ErrNoStartPoints indicates a start system without start points.
	ErrNoStartPoints = errors.New("solve: start system has no start points")
)

const (
	opNew   = "New"
	opSolve = "Solver.Solve"
	opPath  = "Solver.path"
)

func solveErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

func pathErrorf(index int, err error) error {
	return fmt.Errorf("%s %d: %w", opPath, index, err)
}

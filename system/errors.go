// SPDX-License-Identifier: MIT

package system

import (
	"errors"
	"fmt"
)

var (
	// ErrNilPoint indicates a nil point or time argument.
	ErrNilPoint = errors.New("system: nil point")

	// ErrDimensionMismatch indicates a point whose length differs from NumVariables.
	ErrDimensionMismatch = errors.New("system: point dimension mismatch")

	// ErrStartPointIndex indicates a start point index outside [0, NumStartPoints).
	ErrStartPointIndex = errors.New("system: start point index out of range")

	// ErrNotSquare indicates a system whose function count differs from its variable count.
	ErrNotSquare = errors.New("system: number of functions differs from number of variables")
)

func systemErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

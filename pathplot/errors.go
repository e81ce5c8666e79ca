// SPDX-License-Identifier: MIT

package pathplot

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSeries indicates a chart request without any series.
	ErrNoSeries = errors.New("pathplot: no series")

	// ErrEmptySeries indicates a series without plottable points.
	ErrEmptySeries = errors.New("pathplot: empty series")

	// ErrUnknownFormat indicates an unsupported image format.
	ErrUnknownFormat = errors.New("pathplot: unknown format")
)

func plotErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

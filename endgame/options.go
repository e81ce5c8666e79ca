// SPDX-License-Identifier: MIT

package endgame

import (
	"math"

	"github.com/katalvlaran/homotopy/tracking"
)

// Endgame defaults.
const (
	DefaultNumSamplePoints        = 3
	DefaultSampleFactor           = 0.5
	DefaultMinTrackRadius         = 1e-100
	DefaultFinalTolerance         = 1e-11
	DefaultSampleRefinementFactor = 1e-2
	DefaultClosedLoopTolerance    = 1e-7
	DefaultMaxCycleNumber         = 6
	DefaultStableCycleEstimates   = 2
	DefaultRefineIterations       = 10
	DefaultTrackStepFraction      = 0.25
)

const panicOption = "endgame: option value out of range"

// Config controls both endgames. ClosedLoopTolerance is used by Cauchy only.
type Config struct {
	// TargetTime is t*, the centre of the sample circles.
	TargetTime complex128
	// NumSamplePoints is the number of samples per loop around t* (Cauchy)
	// or the number of radial samples in the interpolant (PowerSeries).
	NumSamplePoints int
	// SampleFactor is the radius ratio between consecutive circles.
	SampleFactor float64
	// MinTrackRadius ends the endgame with MinTrackTimeReached.
	MinTrackRadius float64
	// FinalTolerance bounds the distance between consecutive approximations.
	FinalTolerance float64
	// SampleRefinementFactor scales FinalTolerance into the sample Newton tolerance.
	SampleRefinementFactor float64
	// ClosedLoopTolerance decides, relative to max(1, ‖x‖), whether a loop closed.
	ClosedLoopTolerance float64
	// MaxCycleNumber bounds the number of loops tried per circle, or the
	// cycle numbers tried by the power-series fit.
	MaxCycleNumber int
	// StableCycleEstimates is how many trailing cycle numbers must agree.
	StableCycleEstimates int
	// RefineIterations bounds Newton iterations when refining a sample.
	RefineIterations int
	// TrackStepFraction sets the initial step of each inner track relative to
	// the length of the segment being tracked.
	TrackStepFraction float64

	trackOptions []tracking.TrackOption
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		NumSamplePoints:        DefaultNumSamplePoints,
		SampleFactor:           DefaultSampleFactor,
		MinTrackRadius:         DefaultMinTrackRadius,
		FinalTolerance:         DefaultFinalTolerance,
		SampleRefinementFactor: DefaultSampleRefinementFactor,
		ClosedLoopTolerance:    DefaultClosedLoopTolerance,
		MaxCycleNumber:         DefaultMaxCycleNumber,
		StableCycleEstimates:   DefaultStableCycleEstimates,
		RefineIterations:       DefaultRefineIterations,
		TrackStepFraction:      DefaultTrackStepFraction,
	}
}

// Option configures an endgame.
type Option func(*Config)

func check(ok bool) {
	if !ok {
		panic(panicOption)
	}
}

func inUnit(f float64) bool { return f > 0 && f < 1 }

// WithTargetTime moves the centre of the sample circles.
func WithTargetTime(t complex128) Option {
	return func(c *Config) { c.TargetTime = t }
}

// WithNumSamplePoints sets the samples per loop (at least 2).
func WithNumSamplePoints(n int) Option {
	check(n >= 2)
	return func(c *Config) { c.NumSamplePoints = n }
}

// WithSampleFactor sets the radius ratio, in (0, 1).
func WithSampleFactor(f float64) Option {
	check(inUnit(f))
	return func(c *Config) { c.SampleFactor = f }
}

// WithMinTrackRadius sets the smallest circle radius.
func WithMinTrackRadius(r float64) Option {
	check(r >= 0 && !math.IsInf(r, 0))
	return func(c *Config) { c.MinTrackRadius = r }
}

// WithFinalTolerance sets the convergence tolerance, in (0, 1).
func WithFinalTolerance(tol float64) Option {
	check(inUnit(tol))
	return func(c *Config) { c.FinalTolerance = tol }
}

// WithSampleRefinementFactor sets the sample tolerance factor, in (0, 1].
func WithSampleRefinementFactor(f float64) Option {
	check(f > 0 && f <= 1)
	return func(c *Config) { c.SampleRefinementFactor = f }
}

// WithClosedLoopTolerance sets the loop closure tolerance, in (0, 1).
func WithClosedLoopTolerance(tol float64) Option {
	check(inUnit(tol))
	return func(c *Config) { c.ClosedLoopTolerance = tol }
}

// WithMaxCycleNumber bounds the loops per circle.
func WithMaxCycleNumber(n int) Option {
	check(n >= 1)
	return func(c *Config) { c.MaxCycleNumber = n }
}

// WithStableCycleEstimates sets how many trailing cycle numbers must agree.
func WithStableCycleEstimates(n int) Option {
	check(n >= 1)
	return func(c *Config) { c.StableCycleEstimates = n }
}

// WithRefineIterations bounds Newton iterations per sample refinement.
func WithRefineIterations(n int) Option {
	check(n >= 1)
	return func(c *Config) { c.RefineIterations = n }
}

// WithTrackStepFraction sets the relative initial step of inner tracks, in (0, 1].
func WithTrackStepFraction(f float64) Option {
	check(f > 0 && f <= 1)
	return func(c *Config) { c.TrackStepFraction = f }
}

// WithTrackOptions forwards per-call options (observers) to every inner
// Track and Refine call.
func WithTrackOptions(opts ...tracking.TrackOption) Option {
	return func(c *Config) { c.trackOptions = append(c.trackOptions, opts...) }
}

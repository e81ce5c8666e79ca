// SPDX-License-Identifier: MIT

// Package tracking: functional configuration of the tracker.
// This file defines:
//   - documented defaults (single source of truth),
//   - the Config value and its Stepping/Newton/AMP sections,
//   - WithX option constructors that panic on nonsensical values,
//   - per-call TrackOption values (observers).
//
// A Config is immutable once NewTracker returns; every path tracked by that
// tracker shares it read-only.

package tracking

import (
	"math"

	"github.com/katalvlaran/homotopy/multiprec"
)

// Tracking defaults.
const (
	// DefaultPredictor is the Runge–Kutta scheme used when none is chosen.
	DefaultPredictor = RK4

	// DefaultTolerance is the Newton tolerance on the update and residual norms.
	DefaultTolerance = 1e-7

	// DefaultPathTruncationThreshold is the point norm above which a path is
	// declared to go to infinity.
	DefaultPathTruncationThreshold = 1e5

	// DefaultPredictorErrorTolerance bounds the embedded error estimate,
	// relative to max(1, ‖x‖), above which a step is rejected.
	DefaultPredictorErrorTolerance = 1e-4
)

// Stepping defaults.
const (
	DefaultInitialStepSize                  = 0.1
	DefaultMinStepSize                      = 1e-14
	DefaultMaxStepSize                      = 0.1
	DefaultStepGrowthFactor                 = 2.0
	DefaultStepShrinkFactor                 = 0.5
	DefaultConsecutiveSuccessesBeforeGrowth = 5
	DefaultMaxNumSteps                      = 100000
)

// Newton defaults.
const (
	DefaultMinNewtonIterations = 1
	DefaultMaxNewtonIterations = 3
)

// AMP defaults.
const (
	DefaultMinPrecision       = multiprec.DoublePrecision
	DefaultMaxPrecision       = multiprec.DefaultMaxPrecision
	DefaultPrecisionIncrement = multiprec.Precision(8)
	DefaultSafetyDigits1      = 1.0
	DefaultSafetyDigits2      = 1.0
	DefaultEvaluationError    = 1.0

	DefaultConsecutiveSuccessesBeforePrecisionDecrease = 10
)

const (
	panicToleranceInvalid   = "tracking: WithTolerance: tolerance must be finite and in (0, 1)"
	panicThresholdInvalid   = "tracking: WithPathTruncationThreshold: threshold must be finite and positive"
	panicSteppingInvalid    = "tracking: WithStepping: require 0 < min ≤ initial ≤ max, growth > 1, 0 < shrink < 1, counts ≥ 1"
	panicNewtonInvalid      = "tracking: WithNewton: require 1 ≤ min ≤ max"
	panicAMPInvalid         = "tracking: WithAMP: require 0 < min ≤ max, increment ≥ 1, non-negative safety digits and bounds"
	panicPredictorInvalid   = "tracking: WithPredictor: unknown predictor"
	panicPredictorTolerance = "tracking: WithPredictorErrorTolerance: tolerance must be finite and positive"
)

// SteppingConfig controls step-size adaptation. Step sizes are moduli of Δt.
type SteppingConfig struct {
	InitialStepSize                  float64
	MinStepSize                      float64
	MaxStepSize                      float64
	StepGrowthFactor                 float64
	StepShrinkFactor                 float64
	ConsecutiveSuccessesBeforeGrowth int
	MaxNumSteps                      int
}

// NewtonConfig bounds the corrector iteration count.
type NewtonConfig struct {
	MinIterations int
	MaxIterations int
}

// AMPConfig configures adaptive multiprecision.
//
// DegreeBound and CoefficientBound feed the Φ = D(D−1)B and Ψ = D·B terms of
// the criteria. Zero values are replaced by the evaluator's bounds when it
// implements system.Bounded, and by 1 otherwise.
type AMPConfig struct {
	MinPrecision       multiprec.Precision
	MaxPrecision       multiprec.Precision
	PrecisionIncrement multiprec.Precision
	SafetyDigits1      float64
	SafetyDigits2      float64
	EvaluationError    float64
	DegreeBound        int
	CoefficientBound   float64

	ConsecutiveSuccessesBeforePrecisionDecrease int
}

// Config is the complete, immutable tracker configuration.
type Config struct {
	Predictor               Predictor
	Tolerance               float64
	PathTruncationThreshold float64
	PredictorErrorTolerance float64
	Stepping                SteppingConfig
	Newton                  NewtonConfig
	AMP                     AMPConfig
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Predictor:               DefaultPredictor,
		Tolerance:               DefaultTolerance,
		PathTruncationThreshold: DefaultPathTruncationThreshold,
		PredictorErrorTolerance: DefaultPredictorErrorTolerance,
		Stepping:                DefaultSteppingConfig(),
		Newton:                  DefaultNewtonConfig(),
		AMP:                     DefaultAMPConfig(),
	}
}

// DefaultSteppingConfig returns the stepping defaults.
func DefaultSteppingConfig() SteppingConfig {
	return SteppingConfig{
		InitialStepSize:                  DefaultInitialStepSize,
		MinStepSize:                      DefaultMinStepSize,
		MaxStepSize:                      DefaultMaxStepSize,
		StepGrowthFactor:                 DefaultStepGrowthFactor,
		StepShrinkFactor:                 DefaultStepShrinkFactor,
		ConsecutiveSuccessesBeforeGrowth: DefaultConsecutiveSuccessesBeforeGrowth,
		MaxNumSteps:                      DefaultMaxNumSteps,
	}
}

// DefaultNewtonConfig returns the Newton defaults.
func DefaultNewtonConfig() NewtonConfig {
	return NewtonConfig{MinIterations: DefaultMinNewtonIterations, MaxIterations: DefaultMaxNewtonIterations}
}

// DefaultAMPConfig returns the AMP defaults.
func DefaultAMPConfig() AMPConfig {
	return AMPConfig{
		MinPrecision:       DefaultMinPrecision,
		MaxPrecision:       DefaultMaxPrecision,
		PrecisionIncrement: DefaultPrecisionIncrement,
		SafetyDigits1:      DefaultSafetyDigits1,
		SafetyDigits2:      DefaultSafetyDigits2,
		EvaluationError:    DefaultEvaluationError,

		ConsecutiveSuccessesBeforePrecisionDecrease: DefaultConsecutiveSuccessesBeforePrecisionDecrease,
	}
}

// Option configures a Tracker.
type Option func(*Config)

// WithPredictor selects the Runge–Kutta scheme.
func WithPredictor(p Predictor) Option {
	if !p.valid() {
		panic(panicPredictorInvalid)
	}
	return func(c *Config) { c.Predictor = p }
}

// WithTolerance sets the Newton tolerance.
func WithTolerance(tol float64) Option {
	if !finite(tol) || tol <= 0 || tol >= 1 {
		panic(panicToleranceInvalid)
	}
	return func(c *Config) { c.Tolerance = tol }
}

// WithPathTruncationThreshold sets the norm beyond which a path goes to infinity.
func WithPathTruncationThreshold(threshold float64) Option {
	if !finite(threshold) || threshold <= 0 {
		panic(panicThresholdInvalid)
	}
	return func(c *Config) { c.PathTruncationThreshold = threshold }
}

// WithPredictorErrorTolerance sets the rejection bound for embedded error estimates.
func WithPredictorErrorTolerance(tol float64) Option {
	if !finite(tol) || tol <= 0 {
		panic(panicPredictorTolerance)
	}
	return func(c *Config) { c.PredictorErrorTolerance = tol }
}

// WithStepping replaces the stepping section.
func WithStepping(s SteppingConfig) Option {
	if !(s.MinStepSize > 0 && s.MinStepSize <= s.InitialStepSize && s.InitialStepSize <= s.MaxStepSize) ||
		!finite(s.MaxStepSize) || !(s.StepGrowthFactor > 1) || !finite(s.StepGrowthFactor) ||
		!(s.StepShrinkFactor > 0 && s.StepShrinkFactor < 1) ||
		s.ConsecutiveSuccessesBeforeGrowth < 1 || s.MaxNumSteps < 1 {
		panic(panicSteppingInvalid)
	}
	return func(c *Config) { c.Stepping = s }
}

// WithMaxNumSteps overrides only the step budget.
func WithMaxNumSteps(n int) Option {
	if n < 1 {
		panic(panicSteppingInvalid)
	}
	return func(c *Config) { c.Stepping.MaxNumSteps = n }
}

// WithStepSizes overrides the initial, minimum and maximum step sizes.
func WithStepSizes(initial, minimum, maximum float64) Option {
	if !(minimum > 0 && minimum <= initial && initial <= maximum) || !finite(maximum) {
		panic(panicSteppingInvalid)
	}
	return func(c *Config) {
		c.Stepping.InitialStepSize = initial
		c.Stepping.MinStepSize = minimum
		c.Stepping.MaxStepSize = maximum
	}
}

// WithNewton replaces the Newton section.
func WithNewton(n NewtonConfig) Option {
	if n.MinIterations < 1 || n.MaxIterations < n.MinIterations {
		panic(panicNewtonInvalid)
	}
	return func(c *Config) { c.Newton = n }
}

// WithAMP replaces the adaptive precision section.
func WithAMP(a AMPConfig) Option {
	if a.MinPrecision == 0 || a.MaxPrecision < a.MinPrecision || a.PrecisionIncrement < 1 ||
		a.SafetyDigits1 < 0 || a.SafetyDigits2 < 0 || a.EvaluationError < 0 ||
		a.DegreeBound < 0 || a.CoefficientBound < 0 || !finite(a.CoefficientBound) ||
		a.ConsecutiveSuccessesBeforePrecisionDecrease < 1 {
		panic(panicAMPInvalid)
	}
	return func(c *Config) { c.AMP = a }
}

// WithPrecisionBounds overrides only the precision range.
func WithPrecisionBounds(minimum, maximum multiprec.Precision) Option {
	if minimum == 0 || maximum < minimum {
		panic(panicAMPInvalid)
	}
	return func(c *Config) {
		c.AMP.MinPrecision = minimum
		c.AMP.MaxPrecision = maximum
	}
}

// WithFixedPrecision pins tracking to one precision. Criteria violations then
// end the path with MaxPrecisionReached.
func WithFixedPrecision(p multiprec.Precision) Option {
	return WithPrecisionBounds(p, p)
}

// TrackOption configures a single Track or Refine call.
type TrackOption func(*trackOptions)

type trackOptions struct {
	observers       []Observer
	initialStepSize float64
}

// WithObserver attaches observers to one call.
func WithObserver(obs ...Observer) TrackOption {
	return func(o *trackOptions) { o.observers = append(o.observers, obs...) }
}

// WithInitialStepSize overrides the configured initial step size for one
// call. Non-positive values are ignored. The step is still capped by the
// configured maximum.
func WithInitialStepSize(h float64) TrackOption {
	return func(o *trackOptions) {
		if h > 0 && finite(h) {
			o.initialStepSize = h
		}
	}
}

func gatherTrackOptions(opts []TrackOption) trackOptions {
	var o trackOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

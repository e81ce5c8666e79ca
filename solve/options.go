// SPDX-License-Identifier: MIT

package solve

import (
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/homotopy/endgame"
	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/system"
	"github.com/katalvlaran/homotopy/tracking"
)

// Solver defaults.
const (
	// DefaultBoundaryTime is where tracking hands over to the endgame.
	DefaultBoundaryTime = 0.1

	// DefaultStartPrecision is the precision start points are produced at.
	DefaultStartPrecision = multiprec.DoublePrecision

	// DefaultSolutionTolerance is the max-norm distance under which two
	// endpoints count as the same solution.
	DefaultSolutionTolerance = 1e-8

	// DefaultRefineTolerance and DefaultRefineIterations polish endpoints
	// tracked without the endgame.
	DefaultRefineTolerance  = 1e-13
	DefaultRefineIterations = 10

	// TracerName names the default tracer.
	TracerName = "github.com/katalvlaran/homotopy/solve"
)

const panicOption = "solve: option value out of range"

// Config controls a Solver.
type Config struct {
	// Workers bounds the number of paths tracked at once.
	Workers int
	// BoundaryTime is the endgame boundary, in (0, 1).
	BoundaryTime float64
	// StartPrecision is the precision of the start points.
	StartPrecision multiprec.Precision
	// UseEndgame selects tracking to the boundary followed by an endgame;
	// when false paths are tracked straight to t = 0.
	UseEndgame bool
	// Endgame picks the endgame algorithm.
	Endgame endgame.Kind
	// RefineTolerance and RefineIterations bound the Newton polish of
	// endpoints tracked without the endgame.
	RefineTolerance  float64
	RefineIterations int
	// SolutionTolerance groups endpoints into distinct solutions.
	SolutionTolerance float64
	// Dehomogenizer maps endpoints to affine coordinates, nil to keep them.
	Dehomogenizer system.Dehomogenizer

	// Logger receives one record per path and one per run.
	Logger logrus.FieldLogger
	// Tracer opens one span per run and one per path.
	Tracer trace.Tracer

	trackOptions    []tracking.TrackOption
	endgameOptions  []endgame.Option
	observerFactory func(path int) []tracking.Observer
}

// DefaultConfig returns the documented defaults. The default logger
// discards its output and the default tracer is the global one.
func DefaultConfig() Config {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return Config{
		Workers:           runtime.GOMAXPROCS(0),
		BoundaryTime:      DefaultBoundaryTime,
		StartPrecision:    DefaultStartPrecision,
		UseEndgame:        true,
		Endgame:           endgame.KindCauchy,
		RefineTolerance:   DefaultRefineTolerance,
		RefineIterations:  DefaultRefineIterations,
		SolutionTolerance: DefaultSolutionTolerance,
		Logger:            log,
		Tracer:            otel.Tracer(TracerName),
	}
}

// Option configures a Solver.
type Option func(*Config)

func check(ok bool) {
	if !ok {
		panic(panicOption)
	}
}

// WithWorkers bounds the number of concurrent paths (at least 1).
func WithWorkers(n int) Option {
	check(n >= 1)
	return func(c *Config) { c.Workers = n }
}

// WithBoundaryTime sets the endgame boundary, in (0, 1).
func WithBoundaryTime(t float64) Option {
	check(t > 0 && t < 1)
	return func(c *Config) { c.BoundaryTime = t }
}

// WithStartPrecision sets the precision of the start points.
func WithStartPrecision(p multiprec.Precision) Option {
	check(p >= 1)
	return func(c *Config) { c.StartPrecision = p }
}

// WithoutEndgame tracks every path directly to t = 0.
func WithoutEndgame() Option {
	return func(c *Config) { c.UseEndgame = false }
}

// WithRefinement sets the endpoint polish of paths tracked without the
// endgame: tol in (0, 1), at least one iteration.
func WithRefinement(tol float64, iterations int) Option {
	check(tol > 0 && tol < 1 && iterations >= 1)
	return func(c *Config) {
		c.RefineTolerance = tol
		c.RefineIterations = iterations
	}
}

// WithSolutionTolerance sets the distance for grouping solutions.
func WithSolutionTolerance(tol float64) Option {
	check(tol > 0)
	return func(c *Config) { c.SolutionTolerance = tol }
}

// WithDehomogenizer reports solutions in the affine coordinates of d.
func WithDehomogenizer(d system.Dehomogenizer) Option {
	return func(c *Config) { c.Dehomogenizer = d }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	check(log != nil)
	return func(c *Config) { c.Logger = log }
}

// WithTracer sets the tracer.
func WithTracer(tr trace.Tracer) Option {
	check(tr != nil)
	return func(c *Config) { c.Tracer = tr }
}

// WithTrackOptions forwards per-call options to every Track call. Observers
// given here are shared by all paths and must be safe for concurrent use.
func WithTrackOptions(opts ...tracking.TrackOption) Option {
	return func(c *Config) { c.trackOptions = append(c.trackOptions, opts...) }
}

// WithEndgame selects the endgame algorithm run after the boundary.
func WithEndgame(kind endgame.Kind) Option {
	check(kind == endgame.KindCauchy || kind == endgame.KindPowerSeries)
	return func(c *Config) { c.Endgame = kind }
}

// WithEndgameOptions configures the per-path endgame.
func WithEndgameOptions(opts ...endgame.Option) Option {
	return func(c *Config) { c.endgameOptions = append(c.endgameOptions, opts...) }
}

// WithPathObservers attaches observers built for one path; f is called once
// per path, from the goroutine tracking it.
func WithPathObservers(f func(path int) []tracking.Observer) Option {
	return func(c *Config) { c.observerFactory = f }
}

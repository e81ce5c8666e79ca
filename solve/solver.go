// SPDX-License-Identifier: MIT

package solve

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/homotopy/endgame"
	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/system"
	"github.com/katalvlaran/homotopy/tracking"
)

// PathResult is the outcome of one path.
type PathResult struct {
	// Index is the start point index.
	Index int
	// Code is the tracker code, or the endgame code when the endgame ran.
	Code tracking.SuccessCode
	// Point is the best endpoint, in the tracked coordinates.
	Point *multiprec.Vector
	// Solution is Point in affine coordinates when a Dehomogenizer is
	// configured, otherwise Point as complex128 values. Nil when the point
	// could not be mapped.
	Solution []complex128
	// CycleNumber is the endgame cycle number, 0 without an endgame.
	CycleNumber int
	// Precision is the precision of Point.
	Precision multiprec.Precision
	// MaxPrecision is the highest precision used on the path.
	MaxPrecision multiprec.Precision
	// Steps and FailedSteps count tracker steps, endgame included.
	Steps       int
	FailedSteps int
	// Residual is ‖H(Point, 0)‖.
	Residual float64
	// Duration is the wall time spent on the path.
	Duration time.Duration
}

// Report is the outcome of a Solve call.
type Report struct {
	RunID    string
	Paths    []PathResult
	Summary  Summary
	Duration time.Duration
}

// Solver tracks every start point of a start system through one tracker.
// A Solver is read-only after New; Solve may be called concurrently.
type Solver struct {
	tr    *tracking.Tracker
	start system.StartSystem
	cfg   Config
}

// New builds a solver for the paths of start through tr.
//
// Errors:
//   - ErrNilTracker, ErrNilStartSystem on nil input.
//   - ErrNoStartPoints if start has no start points.
func New(tr *tracking.Tracker, start system.StartSystem, opts ...Option) (*Solver, error) {
	if tr == nil {
		return nil, solveErrorf(opNew, ErrNilTracker)
	}
	if start == nil {
		return nil, solveErrorf(opNew, ErrNilStartSystem)
	}
	if start.NumStartPoints() < 1 {
		return nil, solveErrorf(opNew, ErrNoStartPoints)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Solver{tr: tr, start: start, cfg: cfg}, nil
}

// Config returns the solver configuration.
func (s *Solver) Config() Config { return s.cfg }

// Solve tracks every path and summarizes the endpoints.
//
// Implementation:
//   - Paths run on an errgroup bounded by Workers. Each path tracks its
//     start point from t = 1 to BoundaryTime and runs a private Cauchy
//     endgame to t = 0, or tracks straight to 0 without the endgame.
//   - ctx is checked before every path; a running path is never interrupted.
//   - Each path writes only its own slot of Report.Paths.
//
// Returns:
//   - A Report whose Paths are ordered by start index. Numerical failures
//     are path codes, not errors.
//
// Errors:
//   - ctx.Err() when cancelled, input errors from the tracker or endgame,
//     evaluator errors. The first error cancels the remaining paths.
//
// Determinism:
//   - Path results do not depend on Workers or on scheduling order.
func (s *Solver) Solve(ctx context.Context) (*Report, error) {
	began := time.Now()
	runID := uuid.NewString()
	n := s.start.NumStartPoints()

	ctx, span := s.cfg.Tracer.Start(ctx, "solve.Solve", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Int("paths", n),
		attribute.Int("workers", s.cfg.Workers),
		attribute.Bool("endgame", s.cfg.UseEndgame),
		attribute.String("endgame.kind", s.cfg.Endgame.String()),
	))
	defer span.End()
	log := s.cfg.Logger.WithField("run", runID)

	paths := make([]PathResult, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.path(gctx, i, log)
			if err != nil {
				return pathErrorf(i, err)
			}
			paths[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "solve failed")
		log.WithError(err).Error("solve aborted")
		return nil, solveErrorf(opSolve, err)
	}

	rep := &Report{
		RunID:    runID,
		Paths:    paths,
		Summary:  Summarize(paths, s.cfg.SolutionTolerance),
		Duration: time.Since(began),
	}
	span.SetAttributes(
		attribute.Int("succeeded", rep.Summary.Succeeded),
		attribute.Int("solutions", len(rep.Summary.Solutions)),
	)
	log.WithFields(logrus.Fields{
		"paths":     n,
		"succeeded": rep.Summary.Succeeded,
		"solutions": len(rep.Summary.Solutions),
		"duration":  rep.Duration,
	}).Info("solve finished")
	return rep, nil
}

// path tracks start point i to the target time.
func (s *Solver) path(ctx context.Context, i int, log logrus.FieldLogger) (PathResult, error) {
	_, span := s.cfg.Tracer.Start(ctx, "solve.path", trace.WithAttributes(attribute.Int("path.index", i)))
	defer span.End()
	began := time.Now()

	res, err := s.trackPath(i)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "path error")
		return PathResult{}, err
	}
	res.Duration = time.Since(began)

	span.SetAttributes(
		attribute.String("path.code", res.Code.String()),
		attribute.Int("path.precision", int(res.Precision)),
		attribute.Int("path.cycle", res.CycleNumber),
		attribute.Int("path.steps", res.Steps),
	)
	entry := log.WithFields(logrus.Fields{
		"path":      i,
		"code":      res.Code.String(),
		"precision": uint(res.Precision),
		"steps":     res.Steps,
		"cycle":     res.CycleNumber,
	})
	if res.Code != tracking.Success {
		span.SetStatus(codes.Error, res.Code.String())
		entry.Warn("path failed")
	} else {
		entry.Info("path finished")
	}
	return res, nil
}

func (s *Solver) trackPath(i int) (PathResult, error) {
	var counter tracking.StepFailCounter
	observers := []tracking.Observer{&counter}
	if s.cfg.observerFactory != nil {
		observers = append(observers, s.cfg.observerFactory(i)...)
	}
	opts := append([]tracking.TrackOption{tracking.WithObserver(observers...)}, s.cfg.trackOptions...)

	x0, err := s.start.StartPoint(i, s.cfg.StartPrecision)
	if err != nil {
		return PathResult{}, err
	}
	p := x0.Precision()
	tStart := multiprec.NewComplexFloat64(p, 1, 0)
	tEnd := multiprec.NewComplex(p)
	if s.cfg.UseEndgame {
		tEnd = multiprec.NewComplexFloat64(p, s.cfg.BoundaryTime, 0)
	}

	tracked, err := s.tr.Track(x0, tStart, tEnd, opts...)
	if err != nil {
		return PathResult{}, err
	}
	out := PathResult{
		Index:        i,
		Code:         tracked.Code,
		Point:        tracked.Point,
		Precision:    tracked.State.Precision,
		MaxPrecision: tracked.State.MaxPrecisionUsed,
	}

	switch {
	case tracked.Code != tracking.Success:
	case !s.cfg.UseEndgame:
		ref, err := s.tr.Refine(tracked.Point, tracked.T, s.cfg.RefineTolerance, s.cfg.RefineIterations, opts...)
		if err != nil {
			return PathResult{}, err
		}
		out.Code = ref.Code
		out.Point = ref.Point
		out.Precision = ref.Precision
	default:
		egOpts := append([]endgame.Option{endgame.WithTrackOptions(opts...)}, s.cfg.endgameOptions...)
		eg, err := endgame.New(s.cfg.Endgame, s.tr, egOpts...)
		if err != nil {
			return PathResult{}, err
		}
		code, err := eg.Run(tracked.T, tracked.Point)
		if err != nil {
			return PathResult{}, err
		}
		out.Code = code
		out.CycleNumber = eg.CycleNumber()
		if approx := eg.FinalApproximation(); approx != nil {
			out.Point = approx
			out.Precision = approx.Precision()
		}
	}
	out.MaxPrecision = max(out.MaxPrecision, out.Precision)
	out.Steps, out.FailedSteps = counter.Counts()

	if out.Residual, err = s.residual(out.Point); err != nil {
		return PathResult{}, err
	}
	out.Solution = s.solution(out.Point)
	return out, nil
}

// residual evaluates ‖H(x, 0)‖ at the precision of x.
func (s *Solver) residual(x *multiprec.Vector) (float64, error) {
	p := x.Precision()
	ev, err := s.tr.Evaluator().Evaluate(p, x, multiprec.NewComplex(p))
	if err != nil {
		return 0, err
	}
	return ev.Values.Norm(), nil
}

func (s *Solver) solution(x *multiprec.Vector) []complex128 {
	if s.cfg.Dehomogenizer == nil {
		return x.Complex128s()
	}
	affine, err := s.cfg.Dehomogenizer.Dehomogenize(x)
	if err != nil {
		return nil
	}
	return affine.Complex128s()
}

// SPDX-License-Identifier: MIT

package tracking

import (
	"errors"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/system"
)

// Tracker follows solution paths of one homotopy. It is immutable after
// construction; concurrent Track calls on distinct paths are safe as long as
// the evaluator is.
type Tracker struct {
	ev  system.Evaluator
	cfg Config
	pm  precisionManager
}

// Result is the outcome of a Track call.
type Result struct {
	Code  SuccessCode
	Point *multiprec.Vector
	T     *multiprec.Complex
	State PathState
}

// Correction is the outcome of a Refine call.
type Correction struct {
	Code       SuccessCode
	Point      *multiprec.Vector
	Iterations int
	Precision  multiprec.Precision
}

// NewTracker builds a tracker for ev.
//
// Errors:
//   - ErrNilEvaluator if ev is nil.
//   - ErrNotSquare if ev has a different number of functions and variables.
func NewTracker(ev system.Evaluator, opts ...Option) (*Tracker, error) {
	if ev == nil {
		return nil, trackingErrorf(opNewTracker, ErrNilEvaluator)
	}
	if err := system.ValidateSquare(ev); err != nil {
		return nil, trackingErrorf(opNewTracker, ErrNotSquare)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Tracker{
		ev:  ev,
		cfg: cfg,
		pm:  precisionManager{cfg: cfg.AMP, bounds: newAMPBounds(cfg.AMP, ev)},
	}, nil
}

// Config returns the tracker configuration.
func (tr *Tracker) Config() Config { return tr.cfg }

// Evaluator returns the tracked homotopy.
func (tr *Tracker) Evaluator() system.Evaluator { return tr.ev }

// run carries the per-call state of Track.
type run struct {
	tr     *Tracker
	st     *PathState
	target *multiprec.Complex
	notify notifier
}

// Track follows the path through start from tStart to tTarget.
//
// Implementation:
//   - Stage 0: clamp the start precision into the configured range and
//     correct the start point at tStart.
//   - Stage 1: repeat predict, check criteria A and C, check the embedded
//     error estimate, correct. Accepted steps may grow the step size and,
//     after a run of successes, lower the precision. Rejected steps shrink it.
//   - Stage 2: stop on reaching tTarget or on the first terminal condition.
//
// Behavior highlights:
//   - A criterion asking for more digits raises precision to
//     max(required, current+increment) and retries the same step.
//   - A singular Jacobian during a step triggers one precision increase;
//     a second consecutive one ends the path with MatrixSolveFailure.
//   - A step whose first Newton update exceeds half the predictor
//     displacement, or whose updates stop contracting, is rejected; the path
//     cannot converge onto a neighbouring one.
//   - The final step lands exactly on tTarget.
//
// Returns:
//   - Result with the terminal SuccessCode and a detached copy of the state.
//
// Errors:
//   - ErrNilArgument, ErrDimensionMismatch, ErrPrecisionOutOfRange on bad input.
//   - Evaluator errors are returned unchanged, wrapped with the op tag.
//
// Determinism:
//   - The step and precision schedule depend only on the inputs and the Config.
func (tr *Tracker) Track(start *multiprec.Vector, tStart, tTarget *multiprec.Complex, opts ...TrackOption) (Result, error) {
	if start == nil || tStart == nil || tTarget == nil {
		return Result{}, trackingErrorf(opTrack, ErrNilArgument)
	}
	if start.Len() != tr.ev.NumVariables() {
		return Result{}, trackingErrorf(opTrack, ErrDimensionMismatch)
	}
	if start.Precision() > tr.cfg.AMP.MaxPrecision {
		return Result{}, trackingErrorf(opTrack, ErrPrecisionOutOfRange)
	}
	o := gatherTrackOptions(opts)

	p := tr.pm.clamp(start.Precision())
	st := &PathState{
		T:                tStart.ToPrecision(p),
		Point:            start.ToPrecision(p),
		Precision:        p,
		StepSize:         tr.cfg.Stepping.InitialStepSize,
		MaxPrecisionUsed: p,
	}
	if o.initialStepSize > 0 {
		st.StepSize = min(o.initialStepSize, tr.cfg.Stepping.MaxStepSize)
	}
	r := &run{tr: tr, st: st, target: tTarget, notify: notifier(o.observers)}
	r.emit(Initializing)

	code, err := r.initialCorrection()
	if err == nil && code == Success {
		code, err = r.loop()
	}
	if err != nil {
		return Result{}, trackingErrorf(opTrack, err)
	}
	return r.finish(code), nil
}

func (r *run) emit(kind EventKind) {
	if r.notify.active() {
		r.notify.emit(r.st.event(kind))
	}
}

func (r *run) finish(code SuccessCode) Result {
	if r.notify.active() {
		e := r.st.event(TrackingEnded)
		e.Code = code
		r.notify.emit(e)
	}
	return Result{Code: code, Point: r.st.Point.Clone(), T: r.st.T.Clone(), State: r.st.clone()}
}

// changePrecision moves the path to p and reports it.
func (r *run) changePrecision(p multiprec.Precision) {
	prev := r.st.Precision
	if p == prev {
		return
	}
	r.st.setPrecision(p)
	if r.notify.active() {
		e := r.st.event(PrecisionChanged)
		e.PreviousPrecision = prev
		r.notify.emit(e)
	}
}

// raise handles a criterion failure; ok is false when the maximum is exceeded.
func (r *run) raise(required multiprec.Precision) bool {
	r.emit(HigherPrecisionNecessary)
	next, ok := r.tr.pm.raise(r.st.Precision, required)
	if !ok {
		return false
	}
	r.changePrecision(next)
	return true
}

// raiseAfterSingular performs the single precision bump allowed per step.
func (r *run) raiseAfterSingular() bool {
	r.emit(MatrixSolveFailureEvent)
	if r.st.singularRetried {
		return false
	}
	next, ok := r.tr.pm.raise(r.st.Precision, r.st.Precision+r.tr.cfg.AMP.PrecisionIncrement)
	if !ok {
		return false
	}
	r.st.singularRetried = true
	r.changePrecision(next)
	return true
}

func (r *run) initialCorrection() (SuccessCode, error) {
	tr := r.tr
	for {
		c, err := correct(tr.ev, tr.pm, r.st.Point, r.st.T, tr.cfg.Tolerance, tr.cfg.Newton, 0)
		switch {
		case err == nil:
			r.st.Point = c.point
			r.st.streakNeed = c.required
			if r.st.Point.Norm() > tr.cfg.PathTruncationThreshold {
				r.emit(InfinitePathTruncation)
				return GoingToInfinity, nil
			}
			return Success, nil
		case errors.Is(err, errHigherPrecision):
			if !r.raise(c.required) {
				return MaxPrecisionReached, nil
			}
		case errors.Is(err, multiprec.ErrSingular):
			r.emit(SingularStartPoint)
			return MatrixSolveFailure, nil
		case errors.Is(err, errNoConvergence):
			return Fail, nil
		default:
			return 0, err
		}
	}
}

func (r *run) loop() (SuccessCode, error) {
	tr, st := r.tr, r.st
	for {
		remaining := multiprec.NewComplex(st.Precision).Sub(r.target.ToPrecision(st.Precision), st.T)
		if remaining.IsZero() {
			return Success, nil
		}
		if st.NumSteps >= tr.cfg.Stepping.MaxNumSteps {
			return MaxNumStepsTaken, nil
		}
		st.NumSteps++
		r.emit(NewStep)

		dist := remaining.AbsFloat64()
		last := st.StepSize >= dist
		dt := remaining
		if !last {
			dt = multiprec.NewComplex(st.Precision).MulFloat64(remaining, st.StepSize/dist)
		}

		code, done, err := r.step(dt, last)
		if err != nil || done {
			return code, err
		}
	}
}

// step attempts one step of size dt. done reports a terminal code.
func (r *run) step(dt *multiprec.Complex, last bool) (code SuccessCode, done bool, err error) {
	tr, st := r.tr, r.st
	p := st.Precision

	pred, err := predict(tr.ev, tr.cfg.Predictor, st.Point, st.T, dt)
	if err != nil {
		return r.stepError(err, 0)
	}

	need := max(tr.pm.requiredA(pred.normJ, pred.normJInv),
		tr.pm.requiredC(pred.normJInv, st.Point.Norm(), tr.cfg.Tolerance))
	if need > p {
		if !r.raise(need) {
			return MaxPrecisionReached, true, nil
		}
		return 0, false, nil
	}

	if pred.hasEstimate && pred.errorEstimate > tr.cfg.PredictorErrorTolerance*max(1, st.Point.Norm()) {
		return r.stepError(errPredictorRejected, 0)
	}

	tNext := multiprec.NewComplex(p).Add(st.T, dt)
	if last {
		tNext = r.target.ToPrecision(p)
	}
	limit, err := r.correctionLimit(pred.point)
	if err != nil {
		return 0, true, err
	}
	c, err := correct(tr.ev, tr.pm, pred.point, tNext, tr.cfg.Tolerance, tr.cfg.Newton, limit)
	if err != nil {
		return r.stepError(err, c.required)
	}

	st.T = tNext
	st.Point = c.point
	st.singularRetried = false
	st.ConsecutiveFailures = 0
	st.streakNeed = max(st.streakNeed, need, c.required)
	st.precisionStreak++
	st.ConsecutiveSuccesses++
	if st.ConsecutiveSuccesses >= tr.cfg.Stepping.ConsecutiveSuccessesBeforeGrowth {
		st.StepSize = min(st.StepSize*tr.cfg.Stepping.StepGrowthFactor, tr.cfg.Stepping.MaxStepSize)
		st.ConsecutiveSuccesses = 0
	}
	r.emit(SuccessfulStep)

	if st.Point.Norm() > tr.cfg.PathTruncationThreshold {
		r.emit(InfinitePathTruncation)
		return GoingToInfinity, true, nil
	}
	if last {
		return Success, true, nil
	}
	if st.precisionStreak >= tr.cfg.AMP.ConsecutiveSuccessesBeforePrecisionDecrease {
		r.changePrecision(tr.pm.lower(st.Precision, st.streakNeed))
		st.streakNeed = 0
		st.precisionStreak = 0
	}
	return 0, false, nil
}

// correctionLimit bounds the first Newton update of a step by a fraction of
// the predictor displacement, floored at the tolerance scaled by ‖x‖.
func (r *run) correctionLimit(predicted *multiprec.Vector) (float64, error) {
	disp, err := multiprec.Distance(predicted, r.st.Point)
	if err != nil {
		return 0, err
	}
	floor := r.tr.cfg.Tolerance * max(1, r.st.Point.Norm())
	return newtonContraction * max(disp, floor), nil
}

// stepError maps a predictor or corrector failure onto the state machine.
func (r *run) stepError(err error, required multiprec.Precision) (SuccessCode, bool, error) {
	switch {
	case errors.Is(err, errHigherPrecision):
		if !r.raise(required) {
			return MaxPrecisionReached, true, nil
		}
		return 0, false, nil
	case errors.Is(err, multiprec.ErrSingular):
		if !r.raiseAfterSingular() {
			return MatrixSolveFailure, true, nil
		}
		return 0, false, nil
	case errors.Is(err, errNoConvergence), errors.Is(err, errNotContracting), errors.Is(err, errPredictorRejected):
		return r.reject()
	default:
		return 0, true, err
	}
}

// reject shrinks the step after a failed attempt.
func (r *run) reject() (SuccessCode, bool, error) {
	st := r.st
	st.NumFailedSteps++
	st.ConsecutiveFailures++
	st.ConsecutiveSuccesses = 0
	st.StepSize *= r.tr.cfg.Stepping.StepShrinkFactor
	r.emit(FailedStep)
	if st.StepSize < r.tr.cfg.Stepping.MinStepSize {
		return Fail, true, nil
	}
	return 0, false, nil
}

// Refine runs Newton's method at fixed t until the update norm falls below
// tol, raising precision as the criteria require.
//
// Codes: Success, MaxPrecisionReached, MatrixSolveFailure (singular after one
// precision increase), Fail (no convergence within maxIterations).
func (tr *Tracker) Refine(x *multiprec.Vector, t *multiprec.Complex, tol float64, maxIterations int, opts ...TrackOption) (Correction, error) {
	if x == nil || t == nil {
		return Correction{}, trackingErrorf(opRefine, ErrNilArgument)
	}
	if x.Len() != tr.ev.NumVariables() {
		return Correction{}, trackingErrorf(opRefine, ErrDimensionMismatch)
	}
	if x.Precision() > tr.cfg.AMP.MaxPrecision {
		return Correction{}, trackingErrorf(opRefine, ErrPrecisionOutOfRange)
	}
	if !(tol > 0) || !finite(tol) || maxIterations < 1 {
		return Correction{}, trackingErrorf(opRefine, ErrInvalidRefinement)
	}
	o := gatherTrackOptions(opts)

	p := tr.pm.clamp(x.Precision())
	st := &PathState{T: t.ToPrecision(p), Point: x.ToPrecision(p), Precision: p, MaxPrecisionUsed: p}
	r := &run{tr: tr, st: st, target: st.T, notify: notifier(o.observers)}
	newton := NewtonConfig{MinIterations: 1, MaxIterations: maxIterations}

	done := func(code SuccessCode, iterations int) (Correction, error) {
		return Correction{Code: code, Point: st.Point.Clone(), Iterations: iterations, Precision: st.Precision}, nil
	}
	for {
		c, err := correct(tr.ev, tr.pm, st.Point, st.T, tol, newton, 0)
		switch {
		case err == nil:
			st.Point = c.point
			return done(Success, c.iterations)
		case errors.Is(err, errHigherPrecision):
			if !r.raise(c.required) {
				return done(MaxPrecisionReached, c.iterations)
			}
		case errors.Is(err, multiprec.ErrSingular):
			if !r.raiseAfterSingular() {
				return done(MatrixSolveFailure, c.iterations)
			}
		case errors.Is(err, errNoConvergence):
			st.Point = c.point
			return done(Fail, c.iterations)
		default:
			return Correction{}, trackingErrorf(opRefine, err)
		}
	}
}

// SPDX-License-Identifier: MIT

package endgame

import (
	"errors"
	"math"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/tracking"
)

// PowerSeriesState is a snapshot of a power-series endgame.
type PowerSeriesState struct {
	// Radius is |t − t*| of the newest sample.
	Radius float64
	// Times, Samples and Derivatives hold the retained samples, oldest
	// first: the refined points and their velocities dx/dt.
	Times       []*multiprec.Complex
	Samples     []*multiprec.Vector
	Derivatives []*multiprec.Vector
	// CycleNumber is the cycle number chosen for the last approximation.
	CycleNumber int
	// CycleHistory lists the cycle number chosen for every approximation.
	CycleHistory []int
	// PredictionError is how far the fit through the older samples missed
	// the newest one, for the chosen cycle number.
	PredictionError float64
	// Approximation and PreviousApproximation are the last two extrapolated
	// endpoints; Difference is their distance.
	Approximation         *multiprec.Vector
	PreviousApproximation *multiprec.Vector
	Difference            float64
	// Precision is the precision of the last approximation.
	Precision multiprec.Precision
	// NumSamples counts samples taken during the run.
	NumSamples int
	// InnerCode is the code of the last inner Track or Refine call.
	InnerCode tracking.SuccessCode
}

// PowerSeries runs the power-series endgame on paths of one tracker. Like
// Cauchy it holds the state of its last Run; use one per path.
type PowerSeries struct {
	tr    *tracking.Tracker
	cfg   Config
	state PowerSeriesState
}

// NewPowerSeries builds a power-series endgame driving tr. It accepts the
// same options as NewCauchy.
func NewPowerSeries(tr *tracking.Tracker, opts ...Option) (*PowerSeries, error) {
	if tr == nil {
		return nil, endgameErrorf(opNewPowerSeries, ErrNilTracker)
	}
	return &PowerSeries{tr: tr, cfg: buildConfig(opts)}, nil
}

// Config returns the endgame configuration.
func (e *PowerSeries) Config() Config { return e.cfg }

// FinalApproximation returns the last extrapolated endpoint, nil until
// NumSamplePoints samples were taken.
func (e *PowerSeries) FinalApproximation() *multiprec.Vector {
	if e.state.Approximation == nil {
		return nil
	}
	return e.state.Approximation.Clone()
}

// CycleNumber returns the cycle number of the last approximation.
func (e *PowerSeries) CycleNumber() int { return e.state.CycleNumber }

// State returns a copy of the endgame state.
func (e *PowerSeries) State() PowerSeriesState {
	s := e.state
	s.Times = append([]*multiprec.Complex(nil), e.state.Times...)
	s.Samples = append([]*multiprec.Vector(nil), e.state.Samples...)
	s.Derivatives = append([]*multiprec.Vector(nil), e.state.Derivatives...)
	s.CycleHistory = append([]int(nil), e.state.CycleHistory...)
	return s
}

// Run drives the path through (tBoundary, xBoundary) to the target time.
//
// Implementation:
//   - Stage 1: refine the point at the current time and take the path
//     velocity there. Samples lie at t* + (tBoundary − t*)·ρᵏ; the newest
//     NumSamplePoints are kept.
//   - Stage 2: in s with t − t* = sᶜ, fit a Hermite interpolant through all
//     kept samples but the newest for every c up to MaxCycleNumber. The c
//     whose fit best predicts the newest sample is the cycle number.
//   - Stage 3: evaluate the Hermite interpolant through all kept samples at
//     s = 0. Stop when two consecutive approximations are within
//     FinalTolerance and the trailing cycle numbers agree; otherwise track
//     to the next sample time and repeat.
//
// Returns:
//   - Success, MinTrackTimeReached, MatrixSolveFailure or the failing inner
//     tracker code. FinalApproximation holds the best approximation so far.
//
// Errors:
//   - ErrNilArgument, ErrDimensionMismatch, ErrBoundaryAtTarget on bad input,
//     and input errors of the inner tracker calls.
func (e *PowerSeries) Run(tBoundary *multiprec.Complex, xBoundary *multiprec.Vector) (tracking.SuccessCode, error) {
	if tBoundary == nil || xBoundary == nil {
		return 0, endgameErrorf(opPowerSeriesRun, ErrNilArgument)
	}
	if xBoundary.Len() != e.tr.Evaluator().NumVariables() {
		return 0, endgameErrorf(opPowerSeriesRun, ErrDimensionMismatch)
	}
	if e.cfg.radius(tBoundary) == 0 {
		return 0, endgameErrorf(opPowerSeriesRun, ErrBoundaryAtTarget)
	}
	e.state = PowerSeriesState{Difference: math.Inf(1)}

	x, t := xBoundary, tBoundary
	for {
		code, err := e.sample(t, x)
		if err != nil || code != tracking.Success {
			return code, err
		}
		if len(e.state.Samples) == e.cfg.NumSamplePoints {
			if err := e.extrapolate(); err != nil {
				return 0, endgameErrorf(opPowerSeriesRun, err)
			}
			if e.converged() {
				return tracking.Success, nil
			}
		}

		next := e.cfg.nextTime(t)
		if e.cfg.radius(next) < e.cfg.MinTrackRadius {
			return tracking.MinTrackTimeReached, nil
		}
		res, err := e.cfg.trackSegment(e.tr, e.state.Samples[len(e.state.Samples)-1], t, next)
		if err != nil {
			return 0, endgameErrorf(opPowerSeriesRun, err)
		}
		e.state.InnerCode = res.Code
		if res.Code != tracking.Success {
			return res.Code, nil
		}
		x, t = res.Point, res.T
	}
}

// sample refines x at t, takes the velocity there and appends both to the
// window, dropping the oldest sample once the window is full.
func (e *PowerSeries) sample(t *multiprec.Complex, x *multiprec.Vector) (tracking.SuccessCode, error) {
	ref, err := e.tr.Refine(x, t, e.cfg.sampleTolerance(), e.cfg.RefineIterations, e.cfg.trackOptions...)
	if err != nil {
		return 0, endgameErrorf(opPowerSeriesRun, err)
	}
	e.state.InnerCode = ref.Code
	if ref.Code != tracking.Success {
		return ref.Code, nil
	}
	dx, err := tracking.Tangent(e.tr.Evaluator(), ref.Point, t)
	if errors.Is(err, multiprec.ErrSingular) {
		return tracking.MatrixSolveFailure, nil
	}
	if err != nil {
		return 0, endgameErrorf(opPowerSeriesRun, err)
	}

	st := &e.state
	st.Radius = e.cfg.radius(t)
	st.NumSamples++
	st.Times = append(st.Times, t)
	st.Samples = append(st.Samples, ref.Point)
	st.Derivatives = append(st.Derivatives, dx)
	if n := len(st.Samples); n > e.cfg.NumSamplePoints {
		drop := n - e.cfg.NumSamplePoints
		st.Times = st.Times[drop:]
		st.Samples = st.Samples[drop:]
		st.Derivatives = st.Derivatives[drop:]
	}
	return tracking.Success, nil
}

// extrapolate chooses the cycle number and stores the new approximation.
func (e *PowerSeries) extrapolate() error {
	st := &e.state
	n := len(st.Samples)
	common := multiprec.CommonPrecision(append(append([]*multiprec.Vector(nil), st.Samples...), st.Derivatives...)...)
	xs, dxs := common[:n], common[n:]
	p := xs[0].Precision()

	center := multiprec.NewComplex128(p, e.cfg.TargetTime)
	offsets := make([]*multiprec.Complex, n)
	for i, t := range st.Times {
		offsets[i] = multiprec.NewComplex(p).Sub(t.ToPrecision(p), center)
	}

	// Errors at the sample tolerance are roundoff: such ties keep the
	// smaller cycle number.
	newest := n - 1
	floor := e.cfg.sampleTolerance() * max(1, xs[newest].Norm())
	best, bestErr := 1, math.Inf(1)
	for c := 1; c <= e.cfg.MaxCycleNumber; c++ {
		s, ds, err := reparametrize(offsets, dxs, c)
		if err != nil {
			return err
		}
		pred, err := hermite(s[:newest], xs[:newest], ds[:newest], s[newest])
		if err != nil {
			return err
		}
		miss, err := multiprec.Distance(pred, xs[newest])
		if err != nil {
			return err
		}
		if miss = max(miss, floor); miss < bestErr {
			best, bestErr = c, miss
		}
	}

	s, ds, err := reparametrize(offsets, dxs, best)
	if err != nil {
		return err
	}
	approx, err := hermite(s, xs, ds, multiprec.NewComplex(p))
	if err != nil {
		return err
	}

	st.CycleNumber = best
	st.CycleHistory = append(st.CycleHistory, best)
	st.PredictionError = bestErr
	st.PreviousApproximation = st.Approximation
	st.Approximation = approx
	st.Precision = p
	st.Difference = math.Inf(1)
	if st.PreviousApproximation != nil {
		d, err := approximationDistance(st.PreviousApproximation, approx)
		if err != nil {
			return err
		}
		st.Difference = d
	}
	return nil
}

// reparametrize maps samples at t − t* = offsets[i] to s = offsets[i]^(1/c)
// and converts the velocities to dx/ds = dx/dt·c·s^(c−1).
func reparametrize(offsets []*multiprec.Complex, dxs []*multiprec.Vector, c int) ([]*multiprec.Complex, []*multiprec.Vector, error) {
	s := make([]*multiprec.Complex, len(offsets))
	ds := make([]*multiprec.Vector, len(offsets))
	for i, d := range offsets {
		p := d.Precision()
		s[i] = multiprec.NewComplex(p).Root(d, c)
		scale := multiprec.NewComplexFloat64(p, float64(c), 0)
		for k := 1; k < c; k++ {
			scale.Mul(scale, s[i])
		}
		ds[i] = multiprec.NewVector(p, dxs[i].Len())
		if err := ds[i].Scale(scale, dxs[i]); err != nil {
			return nil, nil, err
		}
	}
	return s, ds, nil
}

// converged applies the stopping rule of Stage 3.
func (e *PowerSeries) converged() bool {
	st := &e.state
	if st.PreviousApproximation == nil || !(st.Difference < e.cfg.FinalTolerance) {
		return false
	}
	return stableTail(st.CycleHistory, e.cfg.StableCycleEstimates)
}

// SPDX-License-Identifier: MIT

package endgame

import (
	"math"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/tracking"
)

// State is a snapshot of a Cauchy endgame.
type State struct {
	// Radius is |t − t*| of the current circle.
	Radius float64
	// Times and Samples hold the c·N samples of the last closed circle.
	Times   []*multiprec.Complex
	Samples []*multiprec.Vector
	// CycleNumber is the cycle number of the last closed circle.
	CycleNumber int
	// CycleHistory lists the cycle number found on every circle.
	CycleHistory []int
	// Approximation and PreviousApproximation are the last two Cauchy
	// integral values; Difference is their distance.
	Approximation         *multiprec.Vector
	PreviousApproximation *multiprec.Vector
	Difference            float64
	// Precision is the precision of the last approximation.
	Precision multiprec.Precision
	// PowerSeriesCycleEstimate is log ρ / log(‖x₂−x₁‖/‖x₁−x₀‖) over the last
	// three circle start points; 0 until three circles were sampled.
	PowerSeriesCycleEstimate float64
	// NumCircles counts sampled circles.
	NumCircles int
	// InnerCode is the code of the last inner Track or Refine call.
	InnerCode tracking.SuccessCode
}

// Cauchy runs the Cauchy endgame on paths of one tracker. A Cauchy value
// holds the state of its last Run and must not be shared between goroutines;
// use one per path.
type Cauchy struct {
	tr    *tracking.Tracker
	cfg   Config
	state State

	// boundary points of the last three circles, for the power-series estimate
	starts []*multiprec.Vector
}

// NewCauchy builds an endgame driving tr.
func NewCauchy(tr *tracking.Tracker, opts ...Option) (*Cauchy, error) {
	if tr == nil {
		return nil, endgameErrorf(opNewCauchy, ErrNilTracker)
	}
	return &Cauchy{tr: tr, cfg: buildConfig(opts)}, nil
}

// Config returns the endgame configuration.
func (e *Cauchy) Config() Config { return e.cfg }

// FinalApproximation returns the last Cauchy approximation, nil before the
// first closed circle.
func (e *Cauchy) FinalApproximation() *multiprec.Vector {
	if e.state.Approximation == nil {
		return nil
	}
	return e.state.Approximation.Clone()
}

// CycleNumber returns the cycle number of the last closed circle.
func (e *Cauchy) CycleNumber() int { return e.state.CycleNumber }

// State returns a copy of the endgame state.
func (e *Cauchy) State() State {
	s := e.state
	s.Times = append([]*multiprec.Complex(nil), e.state.Times...)
	s.Samples = append([]*multiprec.Vector(nil), e.state.Samples...)
	s.CycleHistory = append([]int(nil), e.state.CycleHistory...)
	return s
}

// Run drives the path through (tBoundary, xBoundary) to the target time.
//
// Implementation:
//   - Stage 1: refine the boundary point, then sample the circle through it.
//     Samples are tracked chord by chord and refined; the loop count at which
//     the path returns to its first sample is the cycle number c.
//   - Stage 2: average the c·N samples at their highest precision.
//   - Stage 3: stop when two consecutive averages are within FinalTolerance
//     and the trailing cycle numbers agree; otherwise track radially to the
//     next circle (radius times SampleFactor) and repeat.
//
// Returns:
//   - Success, CycleNumberTooHigh, MinTrackTimeReached or the failing inner
//     tracker code. FinalApproximation holds the best approximation so far.
//
// Errors:
//   - ErrNilArgument, ErrDimensionMismatch, ErrBoundaryAtTarget on bad input,
//     and input errors of the inner tracker calls.
func (e *Cauchy) Run(tBoundary *multiprec.Complex, xBoundary *multiprec.Vector) (tracking.SuccessCode, error) {
	if tBoundary == nil || xBoundary == nil {
		return 0, endgameErrorf(opRun, ErrNilArgument)
	}
	if xBoundary.Len() != e.tr.Evaluator().NumVariables() {
		return 0, endgameErrorf(opRun, ErrDimensionMismatch)
	}
	e.state = State{}
	e.starts = nil

	x := xBoundary
	tc := tBoundary
	for {
		radius := e.cfg.radius(tc)
		if radius == 0 {
			return 0, endgameErrorf(opRun, ErrBoundaryAtTarget)
		}
		e.state.Radius = radius

		ref, err := e.tr.Refine(x, tc, e.cfg.sampleTolerance(), e.cfg.RefineIterations, e.cfg.trackOptions...)
		if err != nil {
			return 0, endgameErrorf(opRun, err)
		}
		e.state.InnerCode = ref.Code
		if ref.Code != tracking.Success {
			return ref.Code, nil
		}
		x = ref.Point
		e.recordStart(x)

		code, err := e.circle(tc, x)
		if err != nil || code != tracking.Success {
			return code, err
		}
		if e.converged() {
			return tracking.Success, nil
		}

		next := e.cfg.nextTime(tc)
		if e.cfg.radius(next) < e.cfg.MinTrackRadius {
			return tracking.MinTrackTimeReached, nil
		}
		res, err := e.track(x, tc, next)
		if err != nil {
			return 0, endgameErrorf(opRun, err)
		}
		if res.Code != tracking.Success {
			return res.Code, nil
		}
		x, tc = res.Point, res.T
	}
}

// sampleTime returns t* + (tc − t*)·ω^j with ω = exp(2πi/N).
func (e *Cauchy) sampleTime(tc *multiprec.Complex, j int) *multiprec.Complex {
	p := tc.Precision()
	center := multiprec.NewComplex128(p, e.cfg.TargetTime)
	d := multiprec.NewComplex(p).Sub(tc, center)
	d.Mul(d, multiprec.UnitRoot(j, e.cfg.NumSamplePoints, p))
	return d.Add(d, center)
}

// track follows one segment and records its code.
func (e *Cauchy) track(x *multiprec.Vector, from, to *multiprec.Complex) (tracking.Result, error) {
	res, err := e.cfg.trackSegment(e.tr, x, from, to)
	if err == nil {
		e.state.InnerCode = res.Code
	}
	return res, err
}

// circle samples the loops around t* starting from the refined point x at
// tc, and on closure stores the cycle number and the new approximation.
func (e *Cauchy) circle(tc *multiprec.Complex, x *multiprec.Vector) (tracking.SuccessCode, error) {
	n := e.cfg.NumSamplePoints
	times := []*multiprec.Complex{tc}
	samples := []*multiprec.Vector{x}
	first := x
	current, tCurrent := x, tc

	for loop := 1; loop <= e.cfg.MaxCycleNumber; loop++ {
		for j := 1; j <= n; j++ {
			tNext := tc
			if j < n {
				tNext = e.sampleTime(tc, j)
			}
			res, err := e.track(current, tCurrent, tNext)
			if err != nil {
				return 0, endgameErrorf(opRun, err)
			}
			if res.Code != tracking.Success {
				return res.Code, nil
			}
			ref, err := e.tr.Refine(res.Point, tNext, e.cfg.sampleTolerance(), e.cfg.RefineIterations, e.cfg.trackOptions...)
			if err != nil {
				return 0, endgameErrorf(opRun, err)
			}
			e.state.InnerCode = ref.Code
			if ref.Code != tracking.Success {
				return ref.Code, nil
			}
			current, tCurrent = ref.Point, tNext
			if j < n {
				times = append(times, tNext)
				samples = append(samples, current)
			}
		}

		if closed(first, current, e.cfg.ClosedLoopTolerance) {
			if err := e.closeCircle(loop, times, samples); err != nil {
				return 0, endgameErrorf(opRun, err)
			}
			return tracking.Success, nil
		}
		times = append(times, tc)
		samples = append(samples, current)
	}
	return tracking.CycleNumberTooHigh, nil
}

// closed reports whether b returns to a within tol·max(1, ‖a‖).
func closed(a, b *multiprec.Vector, tol float64) bool {
	vs := multiprec.CommonPrecision(a, b)
	d, err := multiprec.Distance(vs[0], vs[1])
	if err != nil {
		return false
	}
	return d < tol*max(1, a.Norm())
}

// closeCircle stores the samples of a closed circle and the mean of the
// samples as the new approximation.
func (e *Cauchy) closeCircle(cycle int, times []*multiprec.Complex, samples []*multiprec.Vector) error {
	common := multiprec.CommonPrecision(samples...)
	p := common[0].Precision()
	mean := multiprec.NewVector(p, common[0].Len())
	for _, s := range common {
		if err := mean.Add(mean, s); err != nil {
			return err
		}
	}
	inv := multiprec.NewComplexFloat64(p, 1, 0)
	inv.QuoInt64(inv, int64(len(common)))
	if err := mean.Scale(inv, mean); err != nil {
		return err
	}

	st := &e.state
	st.NumCircles++
	st.CycleNumber = cycle
	st.CycleHistory = append(st.CycleHistory, cycle)
	st.Times = times
	st.Samples = samples
	st.PreviousApproximation = st.Approximation
	st.Approximation = mean
	st.Precision = p
	st.Difference = math.Inf(1)
	if st.PreviousApproximation != nil {
		d, err := approximationDistance(st.PreviousApproximation, mean)
		if err != nil {
			return err
		}
		st.Difference = d
	}
	return nil
}

// converged applies the stopping rule of Stage 3.
func (e *Cauchy) converged() bool {
	st := &e.state
	if st.PreviousApproximation == nil || !(st.Difference < e.cfg.FinalTolerance) {
		return false
	}
	return stableTail(st.CycleHistory, e.cfg.StableCycleEstimates)
}

// recordStart keeps the last three circle start points and updates the
// power-series cycle estimate.
func (e *Cauchy) recordStart(x *multiprec.Vector) {
	e.starts = append(e.starts, x)
	if len(e.starts) > 3 {
		e.starts = e.starts[1:]
	}
	if len(e.starts) < 3 {
		return
	}
	vs := multiprec.CommonPrecision(e.starts...)
	d1, err1 := multiprec.Distance(vs[1], vs[0])
	d2, err2 := multiprec.Distance(vs[2], vs[1])
	if err1 != nil || err2 != nil || d1 == 0 || d2 == 0 || d1 == d2 {
		return
	}
	e.state.PowerSeriesCycleEstimate = math.Log(e.cfg.SampleFactor) / math.Log(d2/d1)
}

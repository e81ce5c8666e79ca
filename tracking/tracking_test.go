// SPDX-License-Identifier: MIT

package tracking_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/polynomial"
	"github.com/katalvlaran/homotopy/system"
	"github.com/katalvlaran/homotopy/tracking"
)

const gamma = complex(0.6, 0.8)

// powerPath is H(y, t) = y − t^k, whose path is y(t) = t^k.
type powerPath struct{ k int }

func (powerPath) NumVariables() int { return 1 }
func (powerPath) NumFunctions() int { return 1 }

func (pp powerPath) Evaluate(p multiprec.Precision, x *multiprec.Vector, t *multiprec.Complex) (*system.Evaluation, error) {
	if err := system.ValidatePoint(pp, p, x, t); err != nil {
		return nil, err
	}
	tp := t.ToPrecision(p)
	pow := multiprec.NewComplexFloat64(p, 1, 0) // t^(k−1)
	for i := 1; i < pp.k; i++ {
		pow.Mul(pow, tp)
	}
	tk := multiprec.NewComplex(p).Mul(pow, tp)

	values := multiprec.NewVector(p, 1)
	values.At(0).Sub(x.At(0), tk)
	jac, err := multiprec.NewMatrix(p, 1, 1)
	if err != nil {
		return nil, err
	}
	jac.At(0, 0).SetComplex128(1)
	dt := multiprec.NewVector(p, 1)
	dt.At(0).MulFloat64(pow, -float64(pp.k))
	return &system.Evaluation{Values: values, Jacobian: jac, TimeDerivative: dt}, nil
}

func real1(p multiprec.Precision, v float64) *multiprec.Complex {
	return multiprec.NewComplexFloat64(p, v, 0)
}

// circleLine is x − y, x² + y² − 1 with solutions ±(1/√2, 1/√2).
func circleLine(t *testing.T) *polynomial.System {
	t.Helper()
	v := polynomial.Variables(2)
	sys, err := polynomial.NewSystem(v[0].Sub(v[1]), v[0].Pow(2).Add(v[1].Pow(2)).Sub(polynomial.Constant(2, 1)))
	require.NoError(t, err)
	return sys
}

func newHomotopy(t *testing.T, target, start *polynomial.System) *polynomial.Homotopy {
	t.Helper()
	h, err := polynomial.NewHomotopy(target, start, gamma)
	require.NoError(t, err)
	return h
}

func startPoints(t *testing.T, ss system.StartSystem, p multiprec.Precision) []*multiprec.Vector {
	t.Helper()
	out := make([]*multiprec.Vector, ss.NumStartPoints())
	for i := range out {
		x, err := ss.StartPoint(i, p)
		require.NoError(t, err)
		out[i] = x
	}
	return out
}

func TestNewTrackerValidation(t *testing.T) {
	_, err := tracking.NewTracker(nil)
	require.ErrorIs(t, err, tracking.ErrNilEvaluator)

	v := polynomial.Variables(2)
	sys, err := polynomial.NewSystem(v[0])
	require.NoError(t, err)
	_, err = tracking.NewTracker(sys)
	require.ErrorIs(t, err, tracking.ErrNotSquare)

	tr, err := tracking.NewTracker(powerPath{1}, tracking.WithPredictor(tracking.Euler), nil)
	require.NoError(t, err)
	assert.Equal(t, tracking.Euler, tr.Config().Predictor)
	assert.Equal(t, tracking.DefaultTolerance, tr.Config().Tolerance)

	p := multiprec.DoublePrecision
	_, err = tr.Track(nil, real1(p, 1), real1(p, 0))
	require.ErrorIs(t, err, tracking.ErrNilArgument)
	_, err = tr.Track(multiprec.NewVector(p, 2), real1(p, 1), real1(p, 0))
	require.ErrorIs(t, err, tracking.ErrDimensionMismatch)
	_, err = tr.Track(multiprec.NewVector(400, 1), real1(p, 1), real1(p, 0))
	require.ErrorIs(t, err, tracking.ErrPrecisionOutOfRange)
	_, err = tr.Refine(multiprec.NewVector(p, 1), real1(p, 0), 0, 3)
	require.ErrorIs(t, err, tracking.ErrInvalidRefinement)
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { tracking.WithTolerance(0) })
	assert.Panics(t, func() { tracking.WithTolerance(math.NaN()) })
	assert.Panics(t, func() { tracking.WithPathTruncationThreshold(-1) })
	assert.Panics(t, func() { tracking.WithPredictor(tracking.Predictor(99)) })
	assert.Panics(t, func() { tracking.WithStepSizes(0.1, 0.2, 0.3) })
	assert.Panics(t, func() { tracking.WithNewton(tracking.NewtonConfig{MinIterations: 3, MaxIterations: 2}) })
	assert.Panics(t, func() { tracking.WithPrecisionBounds(30, 20) })
	assert.Panics(t, func() { tracking.WithMaxNumSteps(0) })
	assert.Panics(t, func() { tracking.WithPredictorErrorTolerance(0) })

	bad := tracking.DefaultSteppingConfig()
	bad.StepShrinkFactor = 1
	assert.Panics(t, func() { tracking.WithStepping(bad) })
	badAMP := tracking.DefaultAMPConfig()
	badAMP.PrecisionIncrement = 0
	assert.Panics(t, func() { tracking.WithAMP(badAMP) })

	assert.NotPanics(t, func() {
		tracking.WithStepping(tracking.DefaultSteppingConfig())
		tracking.WithAMP(tracking.DefaultAMPConfig())
		tracking.WithNewton(tracking.DefaultNewtonConfig())
	})
}

func TestNames(t *testing.T) {
	for _, p := range tracking.Predictors() {
		got, err := tracking.ParsePredictor(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := tracking.ParsePredictor("Midpoint")
	require.ErrorIs(t, err, tracking.ErrUnknownPredictor)
	assert.Equal(t, "Predictor(?)", tracking.Predictor(-1).String())

	assert.Equal(t, "MatrixSolveFailure", tracking.MatrixSolveFailure.String())
	assert.Equal(t, "MinTrackTimeReached", tracking.MinTrackTimeReached.String())
	assert.Len(t, tracking.Codes(), 8)
	assert.Equal(t, "SuccessCode(?)", tracking.SuccessCode(42).String())
	assert.Equal(t, "PrecisionChanged", tracking.PrecisionChanged.String())
}

func TestPredictorQuadratureOrder(t *testing.T) {
	const p = multiprec.DoublePrecision
	for _, kind := range tracking.Predictors() {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()
			for k := 1; k <= kind.Order()+1; k++ {
				x := multiprec.VectorFromComplex128(p, 1)
				got, err := tracking.Predict(powerPath{k}, kind, x, real1(p, 1), real1(p, -0.5))
				require.NoError(t, err)
				diff := math.Abs(real(got.Complex128s()[0]) - math.Pow(0.5, float64(k)))
				if k <= kind.Order() {
					assert.Less(t, diff, 1e-14, "k=%d", k)
				} else {
					assert.Greater(t, diff, 1e-8, "k=%d", k)
				}
			}
		})
	}

	assert.True(t, tracking.RKF45.HasErrorEstimate())
	assert.False(t, tracking.RK4.HasErrorEstimate())
	_, err := tracking.Predict(powerPath{1}, tracking.Predictor(77), multiprec.NewVector(p, 1), real1(p, 1), real1(p, -0.1))
	require.ErrorIs(t, err, tracking.ErrUnknownPredictor)
}

func TestTangent(t *testing.T) {
	t.Parallel()
	const p = multiprec.DoublePrecision

	// x = t³ has velocity 3t².
	dx, err := tracking.Tangent(powerPath{3}, multiprec.VectorFromComplex128(p, 0.125), real1(p, 0.5))
	require.NoError(t, err)
	assert.Equal(t, p, dx.Precision())
	assert.InDelta(t, 0.75, real(dx.Complex128s()[0]), 1e-15)

	_, err = tracking.Tangent(nil, nil, nil)
	require.ErrorIs(t, err, tracking.ErrNilEvaluator)
	_, err = tracking.Tangent(powerPath{3}, nil, real1(p, 0.5))
	require.ErrorIs(t, err, tracking.ErrNilArgument)
	_, err = tracking.Tangent(powerPath{3}, multiprec.NewVector(p, 2), real1(p, 0.5))
	require.ErrorIs(t, err, tracking.ErrDimensionMismatch)
}

func TestTrackLinearPathEuler(t *testing.T) {
	t.Parallel()
	const p = multiprec.DoublePrecision
	tr, err := tracking.NewTracker(powerPath{1}, tracking.WithPredictor(tracking.Euler))
	require.NoError(t, err)

	res, err := tr.Track(multiprec.VectorFromComplex128(p, 1), real1(p, 1), real1(p, 0))
	require.NoError(t, err)
	require.Equal(t, tracking.Success, res.Code)
	assert.InDelta(t, 0, res.Point.Norm(), 1e-10)
	assert.True(t, res.T.IsZero())
	assert.InDelta(t, 10, res.State.NumSteps, 1)
	assert.Zero(t, res.State.NumFailedSteps)
}

func TestTrackConstantPaths(t *testing.T) {
	t.Parallel()
	td, err := polynomial.NewTotalDegree(circleLine(t))
	require.NoError(t, err)
	g := td.System()
	tr, err := tracking.NewTracker(newHomotopy(t, g, g))
	require.NoError(t, err)

	const p = multiprec.DoublePrecision
	for _, x := range startPoints(t, td, p) {
		res, err := tr.Track(x, real1(p, 1), real1(p, 0))
		require.NoError(t, err)
		require.Equal(t, tracking.Success, res.Code)
		assert.Less(t, distance(t, x, res.Point), 1e-12)
	}
}

func TestTrackTotalDegreeAllPredictors(t *testing.T) {
	target := circleLine(t)
	td, err := polynomial.NewTotalDegree(target)
	require.NoError(t, err)
	h := newHomotopy(t, target, td.System())

	const p = multiprec.DoublePrecision
	s := 1 / math.Sqrt2
	want := [][]complex128{{complex(s, 0), complex(s, 0)}, {complex(-s, 0), complex(-s, 0)}}

	for _, kind := range tracking.Predictors() {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()
			tr, err := tracking.NewTracker(h, tracking.WithPredictor(kind))
			require.NoError(t, err)
			for i, x := range startPoints(t, td, p) {
				res, err := tr.Track(x, real1(p, 1), real1(p, 0))
				require.NoError(t, err)
				require.Equal(t, tracking.Success, res.Code, "path %d", i)

				ref, err := tr.Refine(res.Point, res.T, 1e-13, 10)
				require.NoError(t, err)
				require.Equal(t, tracking.Success, ref.Code)
				got := ref.Point.Complex128s()
				for j := range got {
					assert.InDelta(t, real(want[i][j]), real(got[j]), 1e-10)
					assert.InDelta(t, 0, imag(got[j]), 1e-10)
				}
			}
		})
	}
}

func TestTrackDeterministicSchedule(t *testing.T) {
	t.Parallel()
	target := circleLine(t)
	td, err := polynomial.NewTotalDegree(target)
	require.NoError(t, err)
	tr, err := tracking.NewTracker(newHomotopy(t, target, td.System()), tracking.WithPredictor(tracking.RKF45))
	require.NoError(t, err)

	const p = multiprec.DoublePrecision
	x := startPoints(t, td, p)[0]
	var first, second tracking.PrecisionAccumulator
	var path tracking.PathAccumulator
	var counter tracking.StepFailCounter
	r1, err := tr.Track(x, real1(p, 1), real1(p, 0), tracking.WithObserver(&first, &path, &counter))
	require.NoError(t, err)
	r2, err := tr.Track(x, real1(p, 1), real1(p, 0), tracking.WithObserver(&second))
	require.NoError(t, err)

	assert.Equal(t, first.Precisions(), second.Precisions())
	assert.Equal(t, r1.State.NumSteps, r2.State.NumSteps)
	assert.Zero(t, distance(t, r1.Point, r2.Point))

	succeeded, failed := counter.Counts()
	assert.Equal(t, r1.State.NumFailedSteps, failed)
	assert.LessOrEqual(t, succeeded+failed, r1.State.NumSteps)
	pts := path.Points()
	require.Len(t, pts, succeeded+1)
	assert.Equal(t, complex128(1), pts[0].T)
	assert.Equal(t, complex128(0), pts[len(pts)-1].T)
}

func TestTrackStartEqualsTarget(t *testing.T) {
	t.Parallel()
	const p = multiprec.DoublePrecision
	tr, err := tracking.NewTracker(powerPath{2})
	require.NoError(t, err)
	res, err := tr.Track(multiprec.VectorFromComplex128(p, 0.25), real1(p, 0.5), real1(p, 0.5))
	require.NoError(t, err)
	assert.Equal(t, tracking.Success, res.Code)
	assert.Zero(t, res.State.NumSteps)
	assert.InDelta(t, 0.25, real(res.Point.Complex128s()[0]), 1e-15)
}

func TestTrackSingularStart(t *testing.T) {
	t.Parallel()
	x := polynomial.Variable(1, 0)
	target, err := polynomial.NewSystem(x.Pow(2).Sub(polynomial.Constant(1, 1)))
	require.NoError(t, err)
	start, err := polynomial.NewSystem(x.Pow(2))
	require.NoError(t, err)
	h, err := polynomial.NewHomotopy(target, start, 1)
	require.NoError(t, err)
	tr, err := tracking.NewTracker(h)
	require.NoError(t, err)

	const p = multiprec.DoublePrecision
	var kinds []tracking.EventKind
	obs := tracking.ObserverFunc(func(e tracking.Event) { kinds = append(kinds, e.Kind) })
	res, err := tr.Track(multiprec.NewVector(p, 1), real1(p, 1), real1(p, 0), tracking.WithObserver(obs))
	require.NoError(t, err)
	assert.Equal(t, tracking.MatrixSolveFailure, res.Code)
	assert.Contains(t, kinds, tracking.SingularStartPoint)
	assert.Equal(t, tracking.TrackingEnded, kinds[len(kinds)-1])

	ref, err := tr.Refine(multiprec.NewVector(p, 1), real1(p, 1), 1e-10, 5)
	require.NoError(t, err)
	assert.Equal(t, tracking.MatrixSolveFailure, ref.Code)
}

func TestTrackMaxNumSteps(t *testing.T) {
	t.Parallel()
	const p = multiprec.DoublePrecision
	tr, err := tracking.NewTracker(powerPath{2},
		tracking.WithStepSizes(1e-3, 1e-14, 1e-3),
		tracking.WithMaxNumSteps(10),
	)
	require.NoError(t, err)
	res, err := tr.Track(multiprec.VectorFromComplex128(p, 1), real1(p, 1), real1(p, 0))
	require.NoError(t, err)
	assert.Equal(t, tracking.MaxNumStepsTaken, res.Code)
	assert.Equal(t, 10, res.State.NumSteps)
	assert.InDelta(t, 0.99, real(res.T.Complex128()), 1e-12)
}

// divergent is x·y − 1, x − 1 against x² − 1, y − 1: the start point
// (−1, 1) lies on a path with y → ∞ as t → 0.
func divergent(t *testing.T) (*polynomial.Homotopy, *polynomial.TotalDegree) {
	t.Helper()
	v := polynomial.Variables(2)
	one := polynomial.Constant(2, 1)
	target, err := polynomial.NewSystem(v[0].Mul(v[1]).Sub(one), v[0].Sub(one))
	require.NoError(t, err)
	td, err := polynomial.NewTotalDegree(target)
	require.NoError(t, err)
	return newHomotopy(t, target, td.System()), td
}

func TestTrackGoingToInfinity(t *testing.T) {
	t.Parallel()
	h, td := divergent(t)
	tr, err := tracking.NewTracker(h)
	require.NoError(t, err)

	const p = multiprec.DoublePrecision
	pts := startPoints(t, td, p)
	res, err := tr.Track(pts[0], real1(p, 1), real1(p, 0))
	require.NoError(t, err)
	require.Equal(t, tracking.Success, res.Code)
	assertNear(t, []complex128{1, 1}, res.Point.Complex128s(), 1e-6)

	var kinds []tracking.EventKind
	res, err = tr.Track(pts[1], real1(p, 1), real1(p, 0),
		tracking.WithObserver(tracking.ObserverFunc(func(e tracking.Event) { kinds = append(kinds, e.Kind) })))
	require.NoError(t, err)
	require.Equal(t, tracking.GoingToInfinity, res.Code)
	assert.Greater(t, res.Point.Norm(), tracking.DefaultPathTruncationThreshold)
	assert.Greater(t, res.State.MaxPrecisionUsed, multiprec.DoublePrecision)
	assert.Contains(t, kinds, tracking.InfinitePathTruncation)
	assert.Contains(t, kinds, tracking.HigherPrecisionNecessary)
}

// A divergent path must never be pulled onto the finite root at (1, 1),
// whatever the predictor, step cap or target time.
func TestTrackDivergentPathKeepsDiverging(t *testing.T) {
	h, td := divergent(t)
	const p = multiprec.DoublePrecision
	start := startPoints(t, td, p)[1]

	for _, tc := range []struct {
		name   string
		opts   []tracking.Option
		target float64
	}{
		{name: "RK4", target: 0},
		{name: "RKF45", opts: []tracking.Option{tracking.WithPredictor(tracking.RKF45)}, target: 0},
		{name: "Euler", opts: []tracking.Option{tracking.WithPredictor(tracking.Euler)}, target: 0},
		{name: "small steps", opts: []tracking.Option{tracking.WithStepSizes(0.01, 1e-14, 0.01)}, target: 0},
		{name: "target near zero", target: 1e-9},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tr, err := tracking.NewTracker(h, tc.opts...)
			require.NoError(t, err)
			res, err := tr.Track(start, real1(p, 1), real1(p, tc.target))
			require.NoError(t, err)
			assert.Equal(t, tracking.GoingToInfinity, res.Code)
			assert.Greater(t, res.Point.Norm(), tracking.DefaultPathTruncationThreshold)
		})
	}
}

func TestTrackMaxPrecisionReached(t *testing.T) {
	t.Parallel()
	h, td := divergent(t)
	tr, err := tracking.NewTracker(h, tracking.WithFixedPrecision(multiprec.DoublePrecision))
	require.NoError(t, err)

	const p = multiprec.DoublePrecision
	res, err := tr.Track(startPoints(t, td, p)[1], real1(p, 1), real1(p, 0))
	require.NoError(t, err)
	assert.Equal(t, tracking.MaxPrecisionReached, res.Code)
	assert.Equal(t, multiprec.DoublePrecision, res.State.MaxPrecisionUsed)
	assert.Zero(t, res.State.NumPrecisionChanges)
}

// branchPath is x² − (t − z), y − 1 with a branch point z just off the real
// segment. Near t = Re z the Jacobian is close to singular; away from it the
// path is well conditioned.
type branchPath struct{ z complex128 }

func (branchPath) NumVariables() int { return 2 }
func (branchPath) NumFunctions() int { return 2 }

func (b branchPath) Evaluate(p multiprec.Precision, x *multiprec.Vector, t *multiprec.Complex) (*system.Evaluation, error) {
	if err := system.ValidatePoint(b, p, x, t); err != nil {
		return nil, err
	}
	values := multiprec.NewVector(p, 2)
	shift := multiprec.NewComplex(p).Sub(t.ToPrecision(p), multiprec.NewComplex128(p, b.z))
	values.At(0).Mul(x.At(0), x.At(0))
	values.At(0).Sub(values.At(0), shift)
	values.At(1).Sub(x.At(1), real1(p, 1))

	jac, err := multiprec.NewMatrix(p, 2, 2)
	if err != nil {
		return nil, err
	}
	jac.At(0, 0).MulFloat64(x.At(0), 2)
	jac.At(1, 1).SetComplex128(1)
	dt := multiprec.NewVector(p, 2)
	dt.At(0).SetComplex128(-1)
	return &system.Evaluation{Values: values, Jacobian: jac, TimeDerivative: dt}, nil
}

func TestTrackPrecisionRaisedAndLowered(t *testing.T) {
	t.Parallel()
	const p = multiprec.DoublePrecision
	ev := branchPath{z: complex(0.5, 1e-6)}
	amp := tracking.DefaultAMPConfig()
	amp.DegreeBound = 2
	amp.CoefficientBound = 1e6
	tr, err := tracking.NewTracker(ev, tracking.WithAMP(amp))
	require.NoError(t, err)

	x := multiprec.VectorFromComplex128(p, cmplx.Sqrt(1-ev.z), 1)
	var first, second tracking.PrecisionAccumulator
	var lowered []tracking.Event
	lowering := tracking.ObserverFunc(func(e tracking.Event) {
		if e.Kind == tracking.PrecisionChanged && e.Precision < e.PreviousPrecision {
			lowered = append(lowered, e)
		}
	})
	r1, err := tr.Track(x, real1(p, 1), real1(p, 0), tracking.WithObserver(&first, lowering))
	require.NoError(t, err)
	r2, err := tr.Track(x, real1(p, 1), real1(p, 0), tracking.WithObserver(&second))
	require.NoError(t, err)

	require.Equal(t, tracking.Success, r1.Code)
	assertNear(t, []complex128{cmplx.Sqrt(-ev.z), 1}, r1.Point.Complex128s(), 1e-10)

	schedule := first.Precisions()
	assert.Equal(t, schedule, second.Precisions())
	assert.Equal(t, r1.State.NumSteps, r2.State.NumSteps)
	assert.Zero(t, distance(t, r1.Point, r2.Point))

	assert.Greater(t, first.Max(), multiprec.DoublePrecision)
	assert.Equal(t, multiprec.DoublePrecision, schedule[len(schedule)-1])
	require.NotEmpty(t, lowered)
	assert.Equal(t, multiprec.DoublePrecision, lowered[len(lowered)-1].Precision)
	assert.GreaterOrEqual(t, r1.State.NumPrecisionChanges, 2)
}

// newtonData is F = {x² + y² − 4, 2x + 5y}, G = {x² − 1, y − 1}, γ = 1.
func newtonData(t *testing.T) *polynomial.Homotopy {
	t.Helper()
	v := polynomial.Variables(2)
	x, y := v[0], v[1]
	target, err := polynomial.NewSystem(
		x.Pow(2).Add(y.Pow(2)).Sub(polynomial.Constant(2, 4)),
		x.Scale(2).Add(y.Scale(5)),
	)
	require.NoError(t, err)
	start, err := polynomial.NewSystem(x.Pow(2).Sub(polynomial.Constant(2, 1)), y.Sub(polynomial.Constant(2, 1)))
	require.NoError(t, err)
	h, err := polynomial.NewHomotopy(target, start, 1)
	require.NoError(t, err)
	return h
}

func TestNewtonStepKnownValues(t *testing.T) {
	t.Parallel()
	h := newtonData(t)
	for _, tc := range []struct {
		prec multiprec.Precision
		tol  float64
	}{
		{multiprec.DoublePrecision, 1e-13},
		{50, 1e-30},
	} {
		p := tc.prec
		x0 := multiprec.VectorOf(p, mustParse(t, p, "2.3", "0.2"), mustParse(t, p, "1.1", "1.87"))
		tt := mustParse(t, p, "0.9", "0")

		got, err := tracking.NewtonStep(h, x0, tt)
		require.NoError(t, err)
		require.Equal(t, p, got.Precision())

		want := multiprec.VectorOf(p,
			mustParse(t, p, "1.36296628875178620892887063382866", "0.135404746200380445814213878747082"),
			mustParse(t, p, "0.448147673035459113010161338024478", "-0.0193435351714829208306019826781546"),
		)
		d, err := multiprec.Distance(want, got)
		require.NoError(t, err)
		assert.Less(t, d, tc.tol, "precision %d", p)
	}

	_, err := tracking.NewtonStep(nil, nil, nil)
	require.ErrorIs(t, err, tracking.ErrNilEvaluator)
	_, err = tracking.NewtonStep(h, nil, nil)
	require.ErrorIs(t, err, tracking.ErrNilArgument)
}

func TestRefineIdempotent(t *testing.T) {
	t.Parallel()
	h := newtonData(t)
	tr, err := tracking.NewTracker(h)
	require.NoError(t, err)

	const p = multiprec.DoublePrecision
	tt := real1(p, 0.9)
	x0 := multiprec.VectorFromComplex128(p, 1.36+0.13i, 0.45-0.02i)
	first, err := tr.Refine(x0, tt, 1e-12, 10)
	require.NoError(t, err)
	require.Equal(t, tracking.Success, first.Code)

	second, err := tr.Refine(first.Point, tt, 1e-12, 10)
	require.NoError(t, err)
	require.Equal(t, tracking.Success, second.Code)
	assert.Less(t, distance(t, first.Point, second.Point), 1e-12)
	assert.LessOrEqual(t, second.Iterations, 1)

	e, err := h.Evaluate(second.Precision, second.Point, tt.ToPrecision(second.Precision))
	require.NoError(t, err)
	assert.Less(t, e.Values.Norm(), 1e-11)

	// a zero-length track from a converged point leaves it in place
	res, err := tr.Track(first.Point, tt, tt)
	require.NoError(t, err)
	require.Equal(t, tracking.Success, res.Code)
	assert.Zero(t, res.State.NumSteps)
	assert.Less(t, distance(t, first.Point, res.Point), 1e-12)
}

func distance(t *testing.T, a, b *multiprec.Vector) float64 {
	t.Helper()
	vs := multiprec.CommonPrecision(a, b)
	d, err := multiprec.Distance(vs[0], vs[1])
	require.NoError(t, err)
	return d
}

func mustParse(t *testing.T, p multiprec.Precision, re, im string) *multiprec.Complex {
	t.Helper()
	z, err := multiprec.ParseComplex(p, re, im)
	require.NoError(t, err)
	return z
}

func assertNear(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		d := want[i] - got[i]
		assert.Less(t, math.Hypot(real(d), imag(d)), tol, "entry %d: want %v got %v", i, want[i], got[i])
	}
}

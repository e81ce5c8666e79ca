// SPDX-License-Identifier: MIT

package solve_test

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/katalvlaran/homotopy/endgame"
	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/polynomial"
	"github.com/katalvlaran/homotopy/solve"
	"github.com/katalvlaran/homotopy/tracking"
)

const gamma = complex(0.6, 0.8)

// circleLine is x − y = 0, x² + y² − 1 = 0 with a total-degree start system.
func circleLine(t *testing.T) (*tracking.Tracker, *polynomial.TotalDegree) {
	t.Helper()
	v := polynomial.Variables(2)
	target, err := polynomial.NewSystem(v[0].Sub(v[1]), v[0].Pow(2).Add(v[1].Pow(2)).Sub(polynomial.Constant(2, 1)))
	require.NoError(t, err)
	td, err := polynomial.NewTotalDegree(target)
	require.NoError(t, err)
	h, err := polynomial.NewHomotopy(target, td.System(), gamma)
	require.NoError(t, err)
	tr, err := tracking.NewTracker(h)
	require.NoError(t, err)
	return tr, td
}

// tripleDouble is (x−1)³, (y−1)², homogenized on a fixed patch.
func tripleDouble(t *testing.T) (*polynomial.Homotopy, *tracking.Tracker, *polynomial.TotalDegree) {
	t.Helper()
	v := polynomial.Variables(2)
	one := polynomial.Constant(2, 1)
	sys, err := polynomial.NewSystem(v[0].Sub(one).Pow(3), v[1].Sub(one).Pow(2))
	require.NoError(t, err)
	hom, err := sys.Homogenize()
	require.NoError(t, err)
	patch := make([]complex128, 3)
	for i, phase := range []float64{0.3, 1.1, 2.0} {
		patch[i] = cmplx.Rect(1/math.Sqrt(3), phase)
	}
	target, err := hom.WithPatch(patch)
	require.NoError(t, err)
	td, err := polynomial.NewTotalDegree(target)
	require.NoError(t, err)
	h, err := polynomial.NewHomotopy(target, td.System(), gamma)
	require.NoError(t, err)
	tr, err := tracking.NewTracker(h)
	require.NoError(t, err)
	return h, tr, td
}

func TestNewValidation(t *testing.T) {
	tr, td := circleLine(t)

	_, err := solve.New(nil, td)
	require.ErrorIs(t, err, solve.ErrNilTracker)
	_, err = solve.New(tr, nil)
	require.ErrorIs(t, err, solve.ErrNilStartSystem)
	_, err = solve.New(tr, emptyStart{})
	require.ErrorIs(t, err, solve.ErrNoStartPoints)

	s, err := solve.New(tr, td, nil, solve.WithWorkers(3))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Config().Workers)
	assert.True(t, s.Config().UseEndgame)
	assert.Equal(t, endgame.KindCauchy, s.Config().Endgame)
	assert.Equal(t, solve.DefaultBoundaryTime, s.Config().BoundaryTime)
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { solve.WithWorkers(0) })
	assert.Panics(t, func() { solve.WithBoundaryTime(1) })
	assert.Panics(t, func() { solve.WithBoundaryTime(0) })
	assert.Panics(t, func() { solve.WithStartPrecision(0) })
	assert.Panics(t, func() { solve.WithSolutionTolerance(0) })
	assert.Panics(t, func() { solve.WithRefinement(1e-13, 0) })
	assert.Panics(t, func() { solve.WithLogger(nil) })
	assert.Panics(t, func() { solve.WithTracer(nil) })
	assert.Panics(t, func() { solve.WithEndgame(endgame.Kind(9)) })
}

func TestSolveWithEndgame(t *testing.T) {
	for _, kind := range endgame.Kinds() {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()
			h, tr, td := tripleDouble(t)
			s, err := solve.New(tr, td, solve.WithDehomogenizer(h), solve.WithWorkers(2), solve.WithEndgame(kind))
			require.NoError(t, err)
			assert.Equal(t, kind, s.Config().Endgame)

			rep, err := s.Solve(context.Background())
			require.NoError(t, err)
			require.Len(t, rep.Paths, 6)
			assert.NotEmpty(t, rep.RunID)

			sum := rep.Summary
			assert.Equal(t, 6, sum.Total)
			assert.Equal(t, 6, sum.Succeeded)
			assert.Equal(t, map[tracking.SuccessCode]int{tracking.Success: 6}, sum.Codes)
			assert.Equal(t, map[int]int{1: 2, 2: 4}, sum.Cycles)
			require.Len(t, sum.Solutions, 1)
			assert.Equal(t, 6, sum.Solutions[0].Multiplicity)
			assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, sum.Solutions[0].Paths)
			for _, z := range sum.Solutions[0].Point {
				assert.InDelta(t, 1, real(z), 1e-10)
				assert.InDelta(t, 0, imag(z), 1e-10)
			}
			assert.Less(t, sum.MaxResidual, 1e-9)
			assert.GreaterOrEqual(t, sum.MaxPrecision, float64(multiprec.DoublePrecision))

			for i, p := range rep.Paths {
				assert.Equal(t, i, p.Index)
				assert.Positive(t, p.Steps, "path %d", i)
				assert.Equal(t, p.Precision, p.Point.Precision())
			}
		})
	}
}

func TestSolveWithoutEndgame(t *testing.T) {
	tr, td := circleLine(t)
	s, err := solve.New(tr, td, solve.WithoutEndgame())
	require.NoError(t, err)

	rep, err := s.Solve(context.Background())
	require.NoError(t, err)
	sum := rep.Summary
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, map[int]int{0: 2}, sum.Cycles)
	require.Len(t, sum.Solutions, 2)

	r := 1 / math.Sqrt2
	var signs []float64
	for _, sol := range sum.Solutions {
		assert.Equal(t, 1, sol.Multiplicity)
		require.Len(t, sol.Point, 2)
		assert.InDelta(t, real(sol.Point[0]), real(sol.Point[1]), 1e-10)
		assert.InDelta(t, r, math.Abs(real(sol.Point[0])), 1e-10)
		assert.InDelta(t, 0, imag(sol.Point[0]), 1e-10)
		signs = append(signs, math.Copysign(1, real(sol.Point[0])))
	}
	assert.ElementsMatch(t, []float64{1, -1}, signs)
	assert.Less(t, sum.MaxResidual, 1e-6)
}

func TestSolveIndependentOfWorkers(t *testing.T) {
	tr, td := circleLine(t)
	run := func(workers int) *solve.Report {
		s, err := solve.New(tr, td, solve.WithoutEndgame(), solve.WithWorkers(workers))
		require.NoError(t, err)
		rep, err := s.Solve(context.Background())
		require.NoError(t, err)
		return rep
	}
	a, b := run(1), run(4)
	require.Len(t, b.Paths, len(a.Paths))
	for i := range a.Paths {
		assert.Equal(t, a.Paths[i].Code, b.Paths[i].Code)
		assert.Equal(t, a.Paths[i].Steps, b.Paths[i].Steps)
		assert.Equal(t, a.Paths[i].Solution, b.Paths[i].Solution)
	}
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestSolveCancelled(t *testing.T) {
	tr, td := circleLine(t)
	s, err := solve.New(tr, td)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := s.Solve(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, rep)
}

func TestSolveSpans(t *testing.T) {
	tr, td := circleLine(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	s, err := solve.New(tr, td, solve.WithoutEndgame(), solve.WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	_, err = s.Solve(context.Background())
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 3)
	var root sdktrace.ReadOnlySpan
	for _, sp := range spans {
		if sp.Name() == "solve.Solve" {
			root = sp
		}
	}
	require.NotNil(t, root)
	for _, sp := range spans {
		if sp.Name() != "solve.path" {
			continue
		}
		assert.Equal(t, root.SpanContext().SpanID(), sp.Parent().SpanID())
		attrs := map[string]string{}
		for _, kv := range sp.Attributes() {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
		assert.Equal(t, "Success", attrs["path.code"])
		assert.Contains(t, attrs, "path.index")
		assert.Contains(t, attrs, "path.precision")
	}
}

func TestSolveLogs(t *testing.T) {
	tr, td := circleLine(t)
	logger, hook := logtest.NewNullLogger()
	s, err := solve.New(tr, td, solve.WithoutEndgame(), solve.WithLogger(logger))
	require.NoError(t, err)

	rep, err := s.Solve(context.Background())
	require.NoError(t, err)

	var finished int
	for _, e := range hook.AllEntries() {
		assert.Equal(t, rep.RunID, e.Data["run"])
		if e.Message == "path finished" {
			finished++
			assert.Equal(t, "Success", e.Data["code"])
			assert.Contains(t, e.Data, "steps")
		}
	}
	assert.Equal(t, 2, finished)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "solve finished", hook.LastEntry().Message)
}

func TestPathObservers(t *testing.T) {
	tr, td := circleLine(t)
	accs := make([]*tracking.PrecisionAccumulator, td.NumStartPoints())
	s, err := solve.New(tr, td, solve.WithoutEndgame(), solve.WithPathObservers(func(path int) []tracking.Observer {
		accs[path] = new(tracking.PrecisionAccumulator)
		return []tracking.Observer{accs[path]}
	}))
	require.NoError(t, err)

	rep, err := s.Solve(context.Background())
	require.NoError(t, err)
	for i, acc := range accs {
		require.NotNil(t, acc, "path %d", i)
		assert.NotEmpty(t, acc.Precisions(), "path %d", i)
		assert.LessOrEqual(t, acc.Max(), rep.Paths[i].MaxPrecision, "path %d", i)
	}
}

func TestSummarize(t *testing.T) {
	paths := []solve.PathResult{
		{Index: 0, Code: tracking.Success, Steps: 10, MaxPrecision: 16, Residual: 1e-12, CycleNumber: 1, Solution: []complex128{1, 2}},
		{Index: 1, Code: tracking.Success, Steps: 20, MaxPrecision: 24, Residual: 1e-10, CycleNumber: 2, Solution: []complex128{1 + 1e-12, 2}},
		{Index: 2, Code: tracking.GoingToInfinity, Steps: 30, MaxPrecision: 32, Residual: 5},
		{Index: 3, Code: tracking.Success, Steps: 20, MaxPrecision: 16, Residual: 1e-11, CycleNumber: 1, Solution: []complex128{-1, 0}},
	}
	sum := solve.Summarize(paths, 1e-8)

	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 3, sum.Succeeded)
	assert.Equal(t, map[tracking.SuccessCode]int{tracking.Success: 3, tracking.GoingToInfinity: 1}, sum.Codes)
	assert.Equal(t, map[int]int{1: 2, 2: 1}, sum.Cycles)
	assert.InDelta(t, 20, sum.MeanSteps, 1e-12)
	assert.InDelta(t, math.Sqrt(200.0/3), sum.StdSteps, 1e-12)
	assert.Equal(t, 30.0, sum.MaxSteps)
	assert.InDelta(t, 22, sum.MeanPrecision, 1e-12)
	assert.Equal(t, 32.0, sum.MaxPrecision)
	assert.Equal(t, 1e-10, sum.MaxResidual)

	require.Len(t, sum.Solutions, 2)
	assert.Equal(t, 2, sum.Solutions[0].Multiplicity)
	assert.Equal(t, []int{0, 1}, sum.Solutions[0].Paths)
	assert.Equal(t, []complex128{1, 2}, sum.Solutions[0].Point)
	assert.Equal(t, []int{3}, sum.Solutions[1].Paths)

	single := solve.Summarize(paths[:1], 1e-8)
	assert.Equal(t, 0.0, single.StdSteps)

	empty := solve.Summarize(nil, 1e-8)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Solutions)
}

type emptyStart struct{}

func (emptyStart) NumStartPoints() int { return 0 }

func (emptyStart) StartPoint(int, multiprec.Precision) (*multiprec.Vector, error) {
	return nil, nil
}

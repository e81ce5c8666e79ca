// SPDX-License-Identifier: MIT

package tracking

import (
	"math/big"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/system"
)

// Predictor selects an explicit Runge–Kutta scheme for the predictor step.
type Predictor int

const (
	// Euler is the explicit Euler method, order 1.
	Euler Predictor = iota
	// Heun is the explicit trapezoid method, order 2.
	Heun
	// RK4 is the classical fourth-order method.
	RK4
	// HeunEuler is the embedded Heun/Euler 2(1) pair.
	HeunEuler
	// RKBogackiShampine23 is the embedded Bogacki–Shampine 3(2) pair.
	RKBogackiShampine23
	// RKF45 is the embedded Runge–Kutta–Fehlberg 4(5) pair.
	RKF45
	// RKCashKarp45 is the embedded Cash–Karp 4(5) pair.
	RKCashKarp45
	// RKDormandPrince56 is the embedded Dormand–Prince pair. The name follows
	// the historical enumeration; the tableau is the 5(4) pair.
	RKDormandPrince56

	numPredictors
)

var predictorNames = [...]string{
	Euler:               "Euler",
	Heun:                "Heun",
	RK4:                 "RK4",
	HeunEuler:           "HeunEuler",
	RKBogackiShampine23: "RKBogackiShampine23",
	RKF45:               "RKF45",
	RKCashKarp45:        "RKCashKarp45",
	RKDormandPrince56:   "RKDormandPrince56",
}

// String implements fmt.Stringer.
func (p Predictor) String() string {
	if p.valid() {
		return predictorNames[p]
	}
	return "Predictor(?)"
}

// ParsePredictor maps a name produced by String back to its Predictor.
func ParsePredictor(name string) (Predictor, error) {
	for i, n := range predictorNames {
		if n == name {
			return Predictor(i), nil
		}
	}
	return 0, ErrUnknownPredictor
}

// Predictors lists every predictor in declaration order.
func Predictors() []Predictor {
	out := make([]Predictor, numPredictors)
	for i := range out {
		out[i] = Predictor(i)
	}
	return out
}

func (p Predictor) valid() bool { return p >= 0 && p < numPredictors }

// HasErrorEstimate reports whether the scheme is an embedded pair.
func (p Predictor) HasErrorEstimate() bool {
	return p.valid() && tableaux[p].bHat != nil
}

// Order returns the order of the propagated solution.
func (p Predictor) Order() int {
	if !p.valid() {
		return 0
	}
	return tableaux[p].order
}

// ratio is an exact rational tableau entry.
type ratio struct{ num, den int64 }

func r(num, den int64) ratio { return ratio{num, den} }

func (q ratio) isZero() bool { return q.num == 0 }

// tableau is a Butcher tableau with an optional embedded weight row.
type tableau struct {
	order int
	c     []ratio
	a     [][]ratio
	b     []ratio
	bHat  []ratio
}

// tableaux maps every Predictor to its coefficients.
var tableaux = [numPredictors]tableau{
	Euler: {
		order: 1,
		c:     []ratio{r(0, 1)},
		a:     [][]ratio{{}},
		b:     []ratio{r(1, 1)},
	},
	Heun: {
		order: 2,
		c:     []ratio{r(0, 1), r(1, 1)},
		a:     [][]ratio{{}, {r(1, 1)}},
		b:     []ratio{r(1, 2), r(1, 2)},
	},
	RK4: {
		order: 4,
		c:     []ratio{r(0, 1), r(1, 2), r(1, 2), r(1, 1)},
		a: [][]ratio{
			{},
			{r(1, 2)},
			{r(0, 1), r(1, 2)},
			{r(0, 1), r(0, 1), r(1, 1)},
		},
		b: []ratio{r(1, 6), r(1, 3), r(1, 3), r(1, 6)},
	},
	HeunEuler: {
		order: 2,
		c:     []ratio{r(0, 1), r(1, 1)},
		a:     [][]ratio{{}, {r(1, 1)}},
		b:     []ratio{r(1, 2), r(1, 2)},
		bHat:  []ratio{r(1, 1), r(0, 1)},
	},
	RKBogackiShampine23: {
		order: 3,
		c:     []ratio{r(0, 1), r(1, 2), r(3, 4), r(1, 1)},
		a: [][]ratio{
			{},
			{r(1, 2)},
			{r(0, 1), r(3, 4)},
			{r(2, 9), r(1, 3), r(4, 9)},
		},
		b:    []ratio{r(2, 9), r(1, 3), r(4, 9), r(0, 1)},
		bHat: []ratio{r(7, 24), r(1, 4), r(1, 3), r(1, 8)},
	},
	RKF45: {
		order: 5,
		c:     []ratio{r(0, 1), r(1, 4), r(3, 8), r(12, 13), r(1, 1), r(1, 2)},
		a: [][]ratio{
			{},
			{r(1, 4)},
			{r(3, 32), r(9, 32)},
			{r(1932, 2197), r(-7200, 2197), r(7296, 2197)},
			{r(439, 216), r(-8, 1), r(3680, 513), r(-845, 4104)},
			{r(-8, 27), r(2, 1), r(-3544, 2565), r(1859, 4104), r(-11, 40)},
		},
		b:    []ratio{r(16, 135), r(0, 1), r(6656, 12825), r(28561, 56430), r(-9, 50), r(2, 55)},
		bHat: []ratio{r(25, 216), r(0, 1), r(1408, 2565), r(2197, 4104), r(-1, 5), r(0, 1)},
	},
	RKCashKarp45: {
		order: 5,
		c:     []ratio{r(0, 1), r(1, 5), r(3, 10), r(3, 5), r(1, 1), r(7, 8)},
		a: [][]ratio{
			{},
			{r(1, 5)},
			{r(3, 40), r(9, 40)},
			{r(3, 10), r(-9, 10), r(6, 5)},
			{r(-11, 54), r(5, 2), r(-70, 27), r(35, 27)},
			{r(1631, 55296), r(175, 512), r(575, 13824), r(44275, 110592), r(253, 4096)},
		},
		b:    []ratio{r(37, 378), r(0, 1), r(250, 621), r(125, 594), r(0, 1), r(512, 1771)},
		bHat: []ratio{r(2825, 27648), r(0, 1), r(18575, 48384), r(13525, 55296), r(277, 14336), r(1, 4)},
	},
	RKDormandPrince56: {
		order: 5,
		c:     []ratio{r(0, 1), r(1, 5), r(3, 10), r(4, 5), r(8, 9), r(1, 1), r(1, 1)},
		a: [][]ratio{
			{},
			{r(1, 5)},
			{r(3, 40), r(9, 40)},
			{r(44, 45), r(-56, 15), r(32, 9)},
			{r(19372, 6561), r(-25360, 2187), r(64448, 6561), r(-212, 729)},
			{r(9017, 3168), r(-355, 33), r(46732, 5247), r(49, 176), r(-5103, 18656)},
			{r(35, 384), r(0, 1), r(500, 1113), r(125, 192), r(-2187, 6784), r(11, 84)},
		},
		b:    []ratio{r(35, 384), r(0, 1), r(500, 1113), r(125, 192), r(-2187, 6784), r(11, 84), r(0, 1)},
		bHat: []ratio{r(5179, 57600), r(0, 1), r(7571, 16695), r(393, 640), r(-92097, 339200), r(187, 2100), r(1, 40)},
	},
}

// toComplex returns q as a real Complex at precision p.
func (q ratio) toComplex(p multiprec.Precision) *multiprec.Complex {
	bits := p.Bits()
	v := new(big.Float).SetPrec(bits).SetInt64(q.num)
	v.Quo(v, new(big.Float).SetPrec(bits).SetInt64(q.den))
	return multiprec.NewComplex(p).SetParts(v, new(big.Float))
}

// prediction is the outcome of one predictor step.
type prediction struct {
	point         *multiprec.Vector
	errorEstimate float64
	hasEstimate   bool
	// norms of the Jacobian and its inverse at the first stage
	normJ, normJInv float64
}

// predict advances x from t by dt with the given scheme. All work happens at
// x's precision. A singular Jacobian at any stage returns multiprec.ErrSingular.
func predict(ev system.Evaluator, kind Predictor, x *multiprec.Vector, t, dt *multiprec.Complex) (prediction, error) {
	tab := &tableaux[kind]
	p := x.Precision()
	stages := len(tab.b)
	k := make([]*multiprec.Vector, stages)

	var out prediction
	coeff := multiprec.NewComplex(p)
	for i := 0; i < stages; i++ {
		xi := x.Clone()
		for j, aij := range tab.a[i] {
			if aij.isZero() {
				continue
			}
			coeff.Mul(dt, aij.toComplex(p))
			if err := xi.AddScaled(xi, coeff, k[j]); err != nil {
				return prediction{}, err
			}
		}
		ti := multiprec.NewComplex(p).Mul(dt, tab.c[i].toComplex(p))
		ti.Add(ti, t)

		dx, lu, err := tangent(ev, p, xi, ti)
		if err != nil {
			return prediction{}, err
		}
		if i == 0 {
			out.normJ = lu.jacobianNorm
			out.normJInv = lu.f.InverseNorm()
		}
		k[i] = dx
	}

	next := x.Clone()
	for i, bi := range tab.b {
		if bi.isZero() {
			continue
		}
		coeff.Mul(dt, bi.toComplex(p))
		if err := next.AddScaled(next, coeff, k[i]); err != nil {
			return prediction{}, err
		}
	}
	out.point = next

	if tab.bHat != nil {
		diff := multiprec.NewVector(p, x.Len())
		for i := range tab.b {
			w := multiprec.NewComplex(p).Sub(tab.b[i].toComplex(p), tab.bHat[i].toComplex(p))
			if w.IsZero() {
				continue
			}
			coeff.Mul(dt, w)
			if err := diff.AddScaled(diff, coeff, k[i]); err != nil {
				return prediction{}, err
			}
		}
		out.errorEstimate = diff.Norm()
		out.hasEstimate = true
	}
	return out, nil
}

// factored bundles an LU factorization with the norm of the factored matrix.
type factored struct {
	f            *multiprec.LU
	jacobianNorm float64
}

// tangent returns dx/dt = −J⁻¹·∂H/∂t at (x, t).
func tangent(ev system.Evaluator, p multiprec.Precision, x *multiprec.Vector, t *multiprec.Complex) (*multiprec.Vector, factored, error) {
	e, err := ev.Evaluate(p, x, t)
	if err != nil {
		return nil, factored{}, err
	}
	f, err := multiprec.Factorize(e.Jacobian)
	if err != nil {
		return nil, factored{}, err
	}
	rhs := multiprec.NewVector(p, e.TimeDerivative.Len())
	minusOne := multiprec.NewComplexFloat64(p, -1, 0)
	if err := rhs.Scale(minusOne, e.TimeDerivative); err != nil {
		return nil, factored{}, err
	}
	dx, err := f.Solve(rhs)
	if err != nil {
		return nil, factored{}, err
	}
	return dx, factored{f: f, jacobianNorm: e.Jacobian.Norm()}, nil
}

// Predict performs one predictor step of the given kind from (x, t) by dt and
// returns the predicted point. It is the exported form of the tracker's
// predictor, for diagnostics and tests.
func Predict(ev system.Evaluator, kind Predictor, x *multiprec.Vector, t, dt *multiprec.Complex) (*multiprec.Vector, error) {
	if ev == nil {
		return nil, trackingErrorf(opPredict, ErrNilEvaluator)
	}
	if x == nil || t == nil || dt == nil {
		return nil, trackingErrorf(opPredict, ErrNilArgument)
	}
	if !kind.valid() {
		return nil, trackingErrorf(opPredict, ErrUnknownPredictor)
	}
	if x.Len() != ev.NumVariables() {
		return nil, trackingErrorf(opPredict, ErrDimensionMismatch)
	}
	p := x.Precision()
	pred, err := predict(ev, kind, x, t.ToPrecision(p), dt.ToPrecision(p))
	if err != nil {
		return nil, trackingErrorf(opPredict, err)
	}
	return pred.point, nil
}

// Tangent returns the path velocity dx/dt = −J⁻¹·∂H/∂t at (x, t), computed at
// x's precision.
func Tangent(ev system.Evaluator, x *multiprec.Vector, t *multiprec.Complex) (*multiprec.Vector, error) {
	if ev == nil {
		return nil, trackingErrorf(opTangent, ErrNilEvaluator)
	}
	if x == nil || t == nil {
		return nil, trackingErrorf(opTangent, ErrNilArgument)
	}
	if x.Len() != ev.NumVariables() {
		return nil, trackingErrorf(opTangent, ErrDimensionMismatch)
	}
	p := x.Precision()
	dx, _, err := tangent(ev, p, x, t.ToPrecision(p))
	if err != nil {
		return nil, trackingErrorf(opTangent, err)
	}
	return dx, nil
}

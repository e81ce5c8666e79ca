// SPDX-License-Identifier: MIT

package endgame

import (
	"strings"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/tracking"
)

// Endgame is the contract shared by Cauchy and PowerSeries. An Endgame holds
// the state of its last Run and serves one path at a time.
type Endgame interface {
	// Run drives the path through (tBoundary, xBoundary) to the target time.
	Run(tBoundary *multiprec.Complex, xBoundary *multiprec.Vector) (tracking.SuccessCode, error)
	// FinalApproximation returns the last approximation of the endpoint, nil
	// before the first one.
	FinalApproximation() *multiprec.Vector
	// CycleNumber returns the cycle number behind the last approximation.
	CycleNumber() int
}

var (
	_ Endgame = (*Cauchy)(nil)
	_ Endgame = (*PowerSeries)(nil)
)

// Kind selects an endgame algorithm.
type Kind int

const (
	// KindCauchy selects the Cauchy endgame.
	KindCauchy Kind = iota
	// KindPowerSeries selects the power-series endgame.
	KindPowerSeries

	numKinds
)

var kindNames = [...]string{
	KindCauchy:      "Cauchy",
	KindPowerSeries: "PowerSeries",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k.valid() {
		return kindNames[k]
	}
	return "Kind(?)"
}

func (k Kind) valid() bool { return k >= 0 && k < numKinds }

// ParseKind maps a name produced by String back to its Kind. Matching
// ignores case.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Kind(i), nil
		}
	}
	return 0, ErrUnknownKind
}

// Kinds lists every endgame kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// New builds an endgame of the given kind driving tr.
func New(kind Kind, tr *tracking.Tracker, opts ...Option) (Endgame, error) {
	switch kind {
	case KindCauchy:
		return NewCauchy(tr, opts...)
	case KindPowerSeries:
		return NewPowerSeries(tr, opts...)
	default:
		return nil, endgameErrorf(opNew, ErrUnknownKind)
	}
}

func buildConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (c Config) sampleTolerance() float64 {
	return c.FinalTolerance * c.SampleRefinementFactor
}

// radius returns |t − t*|.
func (c Config) radius(t *multiprec.Complex) float64 {
	center := multiprec.NewComplex128(t.Precision(), c.TargetTime)
	return multiprec.NewComplex(t.Precision()).Sub(t, center).AbsFloat64()
}

// nextTime returns t* + (tc − t*)·ρ.
func (c Config) nextTime(tc *multiprec.Complex) *multiprec.Complex {
	p := tc.Precision()
	center := multiprec.NewComplex128(p, c.TargetTime)
	d := multiprec.NewComplex(p).Sub(tc, center)
	d.MulFloat64(d, c.SampleFactor)
	return d.Add(d, center)
}

// trackSegment follows one segment with an initial step relative to its
// length.
func (c Config) trackSegment(tr *tracking.Tracker, x *multiprec.Vector, from, to *multiprec.Complex) (tracking.Result, error) {
	length := multiprec.NewComplex(from.Precision()).Sub(to.ToPrecision(from.Precision()), from).AbsFloat64()
	opts := append([]tracking.TrackOption{tracking.WithInitialStepSize(length * c.TrackStepFraction)}, c.trackOptions...)
	return tr.Track(x, from, to, opts...)
}

// approximationDistance is ‖a − b‖ at the higher of the two precisions.
func approximationDistance(a, b *multiprec.Vector) (float64, error) {
	vs := multiprec.CommonPrecision(a, b)
	return multiprec.Distance(vs[0], vs[1])
}

// stableTail reports whether the last k entries of h exist and agree.
func stableTail(h []int, k int) bool {
	if len(h) < k {
		return false
	}
	for _, c := range h[len(h)-k:] {
		if c != h[len(h)-1] {
			return false
		}
	}
	return true
}

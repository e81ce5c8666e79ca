// SPDX-License-Identifier: MIT

package tracking

import (
	"math"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/system"
)

// precisionCap bounds criteria results before conversion, so that an
// infinite condition number still maps to a finite (and unreachable) precision.
const precisionCap = 1 << 20

// ampBounds holds the system-dependent constants of the AMP criteria.
//
//	Φ = D(D−1)·B bounds the second-derivative contribution,
//	Ψ = D·B     bounds the evaluation error growth,
//
// D is a degree bound and B a coefficient bound.
type ampBounds struct {
	phi, psi float64
}

func newAMPBounds(cfg AMPConfig, ev system.Evaluator) ampBounds {
	d, b := cfg.DegreeBound, cfg.CoefficientBound
	if bounded, ok := ev.(system.Bounded); ok {
		if d == 0 {
			d = bounded.DegreeBound()
		}
		if b == 0 {
			b = bounded.CoefficientBound()
		}
	}
	if d < 1 {
		d = 1
	}
	if b <= 0 {
		b = 1
	}
	fd := float64(d)
	return ampBounds{phi: fd * (fd - 1) * b, psi: fd * b}
}

// AMPConfigFrom returns the default AMP section with the degree and
// coefficient bounds taken from ev when it implements system.Bounded.
func AMPConfigFrom(ev system.Evaluator) AMPConfig {
	cfg := DefaultAMPConfig()
	if bounded, ok := ev.(system.Bounded); ok {
		cfg.DegreeBound = bounded.DegreeBound()
		cfg.CoefficientBound = bounded.CoefficientBound()
	}
	return cfg
}

// precisionManager evaluates the AMP criteria and decides precision changes.
// It holds no per-path state.
type precisionManager struct {
	cfg    AMPConfig
	bounds ampBounds
}

// digitsAbove converts "P must exceed v" into the smallest integer P.
func digitsAbove(v float64) multiprec.Precision {
	switch {
	case math.IsNaN(v), math.IsInf(v, 1), v >= precisionCap:
		return precisionCap
	case v < 0:
		return 0
	}
	return multiprec.Precision(math.Floor(v)) + 1
}

// requiredA is criterion A: the linear solves are trustworthy.
//
//	P > σ₁ + log10(‖J⁻¹‖·(‖J‖ + Φ))
func (m precisionManager) requiredA(normJ, normJInv float64) multiprec.Precision {
	return digitsAbove(m.cfg.SafetyDigits1 + math.Log10(normJInv*(normJ+m.bounds.phi)))
}

// requiredB is criterion B: Newton converges in the remaining iterations.
//
//	P > σ₁ + log10(‖J⁻¹‖·((2+E)‖J‖ + E·Φ) + 1) + (τ + log10‖Δ‖)/(N − i)
//
// i is the zero-based iteration index and N the iteration limit.
func (m precisionManager) requiredB(normJ, normJInv, normDelta, tol float64, i, n int) multiprec.Precision {
	e := m.cfg.EvaluationError
	v := m.cfg.SafetyDigits1 + math.Log10(normJInv*((2+e)*normJ+e*m.bounds.phi)+1)
	if normDelta > 0 {
		v += (tau(tol) + math.Log10(normDelta)) / float64(max(n-i, 1))
	}
	return digitsAbove(v)
}

// requiredC is criterion C: the final accuracy τ is attainable.
//
//	P > σ₂ + τ + log10(‖J⁻¹‖·Ψ·‖x‖ + 1)
func (m precisionManager) requiredC(normJInv, normX, tol float64) multiprec.Precision {
	return digitsAbove(m.cfg.SafetyDigits2 + tau(tol) + math.Log10(normJInv*m.bounds.psi*normX+1))
}

func tau(tol float64) float64 { return -math.Log10(tol) }

// raise returns the precision to retry with when `required` digits are
// needed at `current`. ok is false when the requirement exceeds MaxPrecision.
func (m precisionManager) raise(current, required multiprec.Precision) (next multiprec.Precision, ok bool) {
	if required > m.cfg.MaxPrecision || current >= m.cfg.MaxPrecision {
		return current, false
	}
	next = max(required, current+m.cfg.PrecisionIncrement)
	return min(next, m.cfg.MaxPrecision), true
}

// lower returns the precision to continue with after a run of successful
// steps whose largest requirement was `required`. It never returns more than
// current and only moves when at least one increment can be saved.
func (m precisionManager) lower(current, required multiprec.Precision) multiprec.Precision {
	target := max(m.cfg.MinPrecision, required)
	if target+m.cfg.PrecisionIncrement <= current {
		return target
	}
	return current
}

// clamp maps a start precision into [MinPrecision, ∞).
func (m precisionManager) clamp(p multiprec.Precision) multiprec.Precision {
	return max(p, m.cfg.MinPrecision)
}

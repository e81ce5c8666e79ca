// SPDX-License-Identifier: MIT

package polynomial

import (
	"math/cmplx"
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/homotopy/multiprec"
)

// Term is Coeff·Π x_i^Exponents[i].
type Term struct {
	Coeff     complex128
	Exponents []int
}

func (t Term) degree() int {
	d := 0
	for _, e := range t.Exponents {
		d += e
	}
	return d
}

// Polynomial is a sparse polynomial in a fixed number of variables.
// Like terms are collected and zero terms dropped; the term order is
// deterministic (total degree descending, then exponents descending).
type Polynomial struct {
	nvars int
	terms []Term
}

// New builds a polynomial from terms over nvars variables.
//
// Errors:
//   - ErrVariableCount if a term's exponent slice length differs from nvars.
//   - ErrNegativeExponent if any exponent is negative.
func New(nvars int, terms ...Term) (*Polynomial, error) {
	for _, t := range terms {
		if len(t.Exponents) != nvars {
			return nil, polynomialErrorf(opNew, ErrVariableCount)
		}
		for _, e := range t.Exponents {
			if e < 0 {
				return nil, polynomialErrorf(opNew, ErrNegativeExponent)
			}
		}
	}
	return collect(nvars, terms), nil
}

// Constant returns the constant polynomial c over nvars variables.
func Constant(nvars int, c complex128) *Polynomial {
	return collect(nvars, []Term{{Coeff: c, Exponents: make([]int, nvars)}})
}

// Variable returns x_i over nvars variables. i outside [0, nvars) panics.
func Variable(nvars, i int) *Polynomial {
	exps := make([]int, nvars)
	exps[i] = 1
	return collect(nvars, []Term{{Coeff: 1, Exponents: exps}})
}

// Variables returns x_0 … x_{n−1}.
func Variables(n int) []*Polynomial {
	out := make([]*Polynomial, n)
	for i := range out {
		out[i] = Variable(n, i)
	}
	return out
}

// collect merges like terms, drops zeros and sorts.
func collect(nvars int, terms []Term) *Polynomial {
	index := make(map[string]int, len(terms))
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		key := exponentKey(t.Exponents)
		if i, ok := index[key]; ok {
			out[i].Coeff += t.Coeff
			continue
		}
		index[key] = len(out)
		out = append(out, Term{Coeff: t.Coeff, Exponents: slices.Clone(t.Exponents)})
	}
	out = slices.DeleteFunc(out, func(t Term) bool { return t.Coeff == 0 })
	slices.SortFunc(out, func(a, b Term) int {
		if da, db := a.degree(), b.degree(); da != db {
			return db - da
		}
		return slices.Compare(b.Exponents, a.Exponents)
	})
	return &Polynomial{nvars: nvars, terms: out}
}

func exponentKey(exps []int) string {
	var sb strings.Builder
	for i, e := range exps {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(e))
	}
	return sb.String()
}

// NumVariables returns the number of variables.
func (p *Polynomial) NumVariables() int { return p.nvars }

// Terms returns a copy of the collected terms.
func (p *Polynomial) Terms() []Term {
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = Term{Coeff: t.Coeff, Exponents: slices.Clone(t.Exponents)}
	}
	return out
}

// Degree returns the total degree; the zero polynomial has degree 0.
func (p *Polynomial) Degree() int {
	d := 0
	for _, t := range p.terms {
		d = max(d, t.degree())
	}
	return d
}

// IsZero reports whether p has no terms.
func (p *Polynomial) IsZero() bool { return len(p.terms) == 0 }

// MaxCoefficient returns the largest coefficient modulus.
func (p *Polynomial) MaxCoefficient() float64 {
	out := 0.0
	for _, t := range p.terms {
		out = max(out, cmplx.Abs(t.Coeff))
	}
	return out
}

// Add returns p + q.
func (p *Polynomial) Add(q *Polynomial) *Polynomial {
	mustMatch(p, q)
	terms := make([]Term, 0, len(p.terms)+len(q.terms))
	terms = append(terms, p.terms...)
	terms = append(terms, q.terms...)
	return collect(p.nvars, terms)
}

// Sub returns p − q.
func (p *Polynomial) Sub(q *Polynomial) *Polynomial {
	return p.Add(q.Scale(-1))
}

// Scale returns c·p.
func (p *Polynomial) Scale(c complex128) *Polynomial {
	terms := make([]Term, len(p.terms))
	for i, t := range p.terms {
		terms[i] = Term{Coeff: c * t.Coeff, Exponents: t.Exponents}
	}
	return collect(p.nvars, terms)
}

// Mul returns p·q.
func (p *Polynomial) Mul(q *Polynomial) *Polynomial {
	mustMatch(p, q)
	terms := make([]Term, 0, len(p.terms)*len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			exps := make([]int, p.nvars)
			for i := range exps {
				exps[i] = a.Exponents[i] + b.Exponents[i]
			}
			terms = append(terms, Term{Coeff: a.Coeff * b.Coeff, Exponents: exps})
		}
	}
	return collect(p.nvars, terms)
}

// Pow returns p^k for k ≥ 0. A negative k panics.
func (p *Polynomial) Pow(k int) *Polynomial {
	if k < 0 {
		panic("polynomial: Pow: negative exponent")
	}
	out := Constant(p.nvars, 1)
	base := p
	for k > 0 {
		if k&1 == 1 {
			out = out.Mul(base)
		}
		k >>= 1
		if k > 0 {
			base = base.Mul(base)
		}
	}
	return out
}

// Homogenize returns the homogenization of p to degree d ≥ p.Degree(), with
// the homogenizing variable prepended as variable 0.
func (p *Polynomial) Homogenize(d int) *Polynomial {
	terms := make([]Term, len(p.terms))
	for i, t := range p.terms {
		exps := make([]int, p.nvars+1)
		exps[0] = d - t.degree()
		copy(exps[1:], t.Exponents)
		terms[i] = Term{Coeff: t.Coeff, Exponents: exps}
	}
	return collect(p.nvars+1, terms)
}

func mustMatch(p, q *Polynomial) {
	if p.nvars != q.nvars {
		panic(panicVariableCount)
	}
}

// powerTable returns x_i^k for k = 0..maxExp[i], all at x's precision.
func powerTable(x *multiprec.Vector, maxExp []int) [][]*multiprec.Complex {
	p := x.Precision()
	table := make([][]*multiprec.Complex, x.Len())
	for i := range table {
		row := make([]*multiprec.Complex, maxExp[i]+1)
		row[0] = multiprec.NewComplexFloat64(p, 1, 0)
		for k := 1; k < len(row); k++ {
			row[k] = multiprec.NewComplex(p).Mul(row[k-1], x.At(i))
		}
		table[i] = row
	}
	return table
}

// evaluate writes p(x) into value and ∂p/∂x_j into grad[j]. pow comes from
// powerTable with exponents at least as large as p's.
func (p *Polynomial) evaluate(pow [][]*multiprec.Complex, value *multiprec.Complex, grad []*multiprec.Complex) {
	prec := value.Precision()
	coeff := multiprec.NewComplex(prec)
	mono := multiprec.NewComplex(prec)
	dmono := multiprec.NewComplex(prec)
	for _, t := range p.terms {
		coeff.SetComplex128(t.Coeff)

		mono.Set(coeff)
		for i, e := range t.Exponents {
			if e > 0 {
				mono.Mul(mono, pow[i][e])
			}
		}
		value.Add(value, mono)

		for j, ej := range t.Exponents {
			if ej == 0 {
				continue
			}
			dmono.MulFloat64(coeff, float64(ej))
			for i, e := range t.Exponents {
				switch {
				case i == j && e > 1:
					dmono.Mul(dmono, pow[i][e-1])
				case i != j && e > 0:
					dmono.Mul(dmono, pow[i][e])
				}
			}
			grad[j].Add(grad[j], dmono)
		}
	}
}

// String renders p with variables x0, x1, ….
func (p *Polynomial) String() string {
	if len(p.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(p.terms))
	for k, t := range p.terms {
		var sb strings.Builder
		sb.WriteString(strconv.FormatComplex(t.Coeff, 'g', -1, 128))
		for i, e := range t.Exponents {
			switch {
			case e == 1:
				sb.WriteString("*x" + strconv.Itoa(i))
			case e > 1:
				sb.WriteString("*x" + strconv.Itoa(i) + "^" + strconv.Itoa(e))
			}
		}
		parts[k] = sb.String()
	}
	return strings.Join(parts, " + ")
}

// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/homotopy/polynomial"
)

var errProblem = errors.New("invalid problem")

// problemFile is the YAML form of a polynomial system. Complex numbers are
// [re, im] pairs.
//
//	variables: 2
//	homogenize: true
//	functions:
//	  - [{c: [1, 0], e: [2, 0]}, {c: [1, 0], e: [0, 2]}, {c: [-1, 0], e: [0, 0]}]
//	  - [{c: [1, 0], e: [1, 0]}, {c: [-1, 0], e: [0, 1]}]
type problemFile struct {
	Variables  int          `yaml:"variables"`
	Homogenize bool         `yaml:"homogenize"`
	Gamma      []float64    `yaml:"gamma,omitempty"`
	Patch      [][]float64  `yaml:"patch,omitempty"`
	Functions  [][]termFile `yaml:"functions"`
}

type termFile struct {
	C []float64 `yaml:"c"`
	E []int     `yaml:"e"`
}

// problem is a target system ready for tracking.
type problem struct {
	target *polynomial.System
	// gamma and patch are drawn from the seed when not fixed.
	gamma complex128
	patch []complex128
	// homogenized reports whether solutions need dehomogenizing.
	homogenized bool
}

func pair(v []float64) (complex128, error) {
	if len(v) != 2 {
		return 0, fmt.Errorf("%w: complex value needs [re, im], got %v", errProblem, v)
	}
	return complex(v[0], v[1]), nil
}

func readProblem(path string) (problemFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return problemFile{}, fmt.Errorf("read problem: %w", err)
	}
	var pf problemFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return problemFile{}, fmt.Errorf("parse problem %s: %w", path, err)
	}
	return pf, nil
}

// build turns the file form into a problem.
func (pf problemFile) build(seed uint64) (*problem, error) {
	if pf.Variables < 1 || len(pf.Functions) == 0 {
		return nil, fmt.Errorf("%w: need variables and functions", errProblem)
	}
	funcs := make([]*polynomial.Polynomial, len(pf.Functions))
	for i, terms := range pf.Functions {
		ts := make([]polynomial.Term, len(terms))
		for k, t := range terms {
			c, err := pair(t.C)
			if err != nil {
				return nil, err
			}
			ts[k] = polynomial.Term{Coeff: c, Exponents: t.E}
		}
		f, err := polynomial.New(pf.Variables, ts...)
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		funcs[i] = f
	}
	sys, err := polynomial.NewSystem(funcs...)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pr := &problem{target: sys, gamma: polynomial.RandomUnit(rng)}
	if pf.Gamma != nil {
		if pr.gamma, err = pair(pf.Gamma); err != nil {
			return nil, err
		}
	}
	if !pf.Homogenize {
		return pr, nil
	}

	hom, err := sys.Homogenize()
	if err != nil {
		return nil, err
	}
	if pf.Patch != nil {
		pr.patch = make([]complex128, len(pf.Patch))
		for i, v := range pf.Patch {
			if pr.patch[i], err = pair(v); err != nil {
				return nil, err
			}
		}
		pr.target, err = hom.WithPatch(pr.patch)
	} else {
		pr.target, err = hom.AutoPatch(rng)
		pr.patch = pr.target.Patch()
	}
	if err != nil {
		return nil, err
	}
	pr.homogenized = true
	return pr, nil
}

// demos are built-in problems with a fixed gamma and patch.
var demos = map[string]func() problemFile{
	// x − y, x² + y² − 1: two regular solutions ±(1/√2, 1/√2).
	"circle-line": func() problemFile {
		return problemFile{
			Variables: 2,
			Gamma:     []float64{0.6, 0.8},
			Functions: [][]termFile{
				{{C: []float64{1, 0}, E: []int{1, 0}}, {C: []float64{-1, 0}, E: []int{0, 1}}},
				{{C: []float64{1, 0}, E: []int{2, 0}}, {C: []float64{1, 0}, E: []int{0, 2}}, {C: []float64{-1, 0}, E: []int{0, 0}}},
			},
		}
	},
	// (x − 1)³, (y − 1)²: one solution of multiplicity six, cycle numbers 1 and 2.
	"triple-double": func() problemFile {
		patch := make([][]float64, 3)
		for i, phase := range []float64{0.3, 1.1, 2.0} {
			z := cmplx.Rect(1/math.Sqrt(3), phase)
			patch[i] = []float64{real(z), imag(z)}
		}
		return problemFile{
			Variables:  2,
			Homogenize: true,
			Gamma:      []float64{0.6, 0.8},
			Patch:      patch,
			Functions: [][]termFile{
				{
					{C: []float64{1, 0}, E: []int{3, 0}}, {C: []float64{-3, 0}, E: []int{2, 0}},
					{C: []float64{3, 0}, E: []int{1, 0}}, {C: []float64{-1, 0}, E: []int{0, 0}},
				},
				{
					{C: []float64{1, 0}, E: []int{0, 2}}, {C: []float64{-2, 0}, E: []int{0, 1}},
					{C: []float64{1, 0}, E: []int{0, 0}},
				},
			},
		}
	},
}

func demoNames() []string {
	return slices.Sorted(maps.Keys(demos))
}

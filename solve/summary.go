// SPDX-License-Identifier: MIT

package solve

import (
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/homotopy/tracking"
)

// Solution is one distinct endpoint and the paths that reached it.
type Solution struct {
	Point        []complex128
	Multiplicity int
	Paths        []int
}

// Summary aggregates the path results of one run.
type Summary struct {
	Total     int
	Succeeded int
	// Codes counts paths per terminal code.
	Codes map[tracking.SuccessCode]int
	// Cycles counts successful paths per cycle number.
	Cycles map[int]int

	MeanSteps float64
	StdSteps  float64
	MaxSteps  float64

	MeanPrecision float64
	MaxPrecision  float64

	// MaxResidual is the largest residual over successful paths.
	MaxResidual float64

	// Solutions lists distinct endpoints of successful paths, in order of
	// the first path reaching each.
	Solutions []Solution
}

// Summarize computes run statistics. Endpoints of successful paths within
// tol of each other in the max norm are grouped into one Solution.
//
// Complexity: O(n·k·m) for n paths, k distinct solutions, m coordinates.
func Summarize(paths []PathResult, tol float64) Summary {
	sum := Summary{
		Total:  len(paths),
		Codes:  make(map[tracking.SuccessCode]int),
		Cycles: make(map[int]int),
	}
	if len(paths) == 0 {
		return sum
	}

	steps := make([]float64, len(paths))
	precisions := make([]float64, len(paths))
	var residuals []float64
	for i, r := range paths {
		sum.Codes[r.Code]++
		steps[i] = float64(r.Steps)
		precisions[i] = float64(r.MaxPrecision)
		if r.Code != tracking.Success {
			continue
		}
		sum.Succeeded++
		sum.Cycles[r.CycleNumber]++
		residuals = append(residuals, r.Residual)
		if r.Solution != nil {
			sum.Solutions = cluster(sum.Solutions, r.Index, r.Solution, tol)
		}
	}

	sum.MeanSteps, sum.StdSteps = meanStdDev(steps)
	sum.MaxSteps = floats.Max(steps)
	sum.MeanPrecision = stat.Mean(precisions, nil)
	sum.MaxPrecision = floats.Max(precisions)
	if len(residuals) > 0 {
		sum.MaxResidual = floats.Max(residuals)
	}
	return sum
}

// meanStdDev is stat.MeanStdDev with a zero spread for a single sample.
func meanStdDev(x []float64) (mean, std float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

func cluster(sols []Solution, index int, point []complex128, tol float64) []Solution {
	for k := range sols {
		if len(sols[k].Point) == len(point) && maxDistance(sols[k].Point, point) <= tol {
			sols[k].Multiplicity++
			sols[k].Paths = append(sols[k].Paths, index)
			return sols
		}
	}
	return append(sols, Solution{
		Point:        append([]complex128(nil), point...),
		Multiplicity: 1,
		Paths:        []int{index},
	})
}

func maxDistance(a, b []complex128) float64 {
	var d float64
	for i := range a {
		d = max(d, cmplx.Abs(a[i]-b[i]))
	}
	return d
}

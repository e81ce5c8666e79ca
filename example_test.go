// SPDX-License-Identifier: MIT

package homotopy_test

import (
	"fmt"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/polynomial"
	"github.com/katalvlaran/homotopy/tracking"
)

// Example tracks both paths of x − y = 0, x² + y² = 1 from a total-degree
// start system and polishes the endpoints.
func Example() {
	v := polynomial.Variables(2)
	target, _ := polynomial.NewSystem(
		v[0].Sub(v[1]),
		v[0].Pow(2).Add(v[1].Pow(2)).Sub(polynomial.Constant(2, 1)),
	)
	start, _ := polynomial.NewTotalDegree(target)
	h, _ := polynomial.NewHomotopy(target, start.System(), complex(0.6, 0.8))
	tr, _ := tracking.NewTracker(h)

	p := multiprec.DoublePrecision
	for i := 0; i < start.NumStartPoints(); i++ {
		x, _ := start.StartPoint(i, p)
		res, _ := tr.Track(x, multiprec.NewComplexFloat64(p, 1, 0), multiprec.NewComplex(p))
		ref, _ := tr.Refine(res.Point, res.T, 1e-13, 10)
		z := ref.Point.Complex128s()
		fmt.Printf("path %d: %v (%.6f, %.6f)\n", i, ref.Code, real(z[0]), real(z[1]))
	}
	// Output:
	// path 0: Success (0.707107, 0.707107)
	// path 1: Success (-0.707107, -0.707107)
}

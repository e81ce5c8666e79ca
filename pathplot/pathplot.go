// SPDX-License-Identifier: MIT

package pathplot

import (
	"io"
	"math"
	"math/cmplx"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/tracking"
)

// Default image size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Formats lists the formats accepted by Write.
var Formats = []string{"png", "svg", "pdf", "eps"}

// PrecisionSeries is the precision schedule of one path.
type PrecisionSeries struct {
	Name       string
	Precisions []multiprec.Precision
}

// PathSeries is the accepted samples of one path.
type PathSeries struct {
	Name   string
	Points []tracking.PathPoint
}

// PrecisionSchedule charts digits against the accepted step index, one line
// per series.
//
// Errors:
//   - ErrNoSeries for no series, ErrEmptySeries for a series without steps.
func PrecisionSchedule(series ...PrecisionSeries) (*plot.Plot, error) {
	const tag = "PrecisionSchedule"
	if len(series) == 0 {
		return nil, plotErrorf(tag, ErrNoSeries)
	}
	p := plot.New()
	p.Title.Text = "Precision schedule"
	p.X.Label.Text = "accepted step"
	p.Y.Label.Text = "digits"

	for i, s := range series {
		if len(s.Precisions) == 0 {
			return nil, plotErrorf(tag, ErrEmptySeries)
		}
		xys := make(plotter.XYs, len(s.Precisions))
		for k, prec := range s.Precisions {
			xys[k].X = float64(k + 1)
			xys[k].Y = float64(prec)
		}
		if err := addLine(p, i, s.Name, xys); err != nil {
			return nil, plotErrorf(tag, err)
		}
	}
	return p, nil
}

// PathNorms charts ‖x‖ against −log10|t|. Samples at t = 0 are skipped.
//
// Errors:
//   - ErrNoSeries for no series, ErrEmptySeries when a series has no sample
//     with t ≠ 0.
func PathNorms(series ...PathSeries) (*plot.Plot, error) {
	const tag = "PathNorms"
	if len(series) == 0 {
		return nil, plotErrorf(tag, ErrNoSeries)
	}
	p := plot.New()
	p.Title.Text = "Path norms"
	p.X.Label.Text = "-log10 |t|"
	p.Y.Label.Text = "||x||"

	for i, s := range series {
		xys := make(plotter.XYs, 0, len(s.Points))
		for _, pt := range s.Points {
			at := cmplx.Abs(pt.T)
			if at == 0 {
				continue
			}
			xys = append(xys, plotter.XY{X: -math.Log10(at), Y: norm(pt.Point)})
		}
		if len(xys) == 0 {
			return nil, plotErrorf(tag, ErrEmptySeries)
		}
		if err := addLine(p, i, s.Name, xys); err != nil {
			return nil, plotErrorf(tag, err)
		}
	}
	return p, nil
}

// Write renders p to w in the given format at the given size.
func Write(w io.Writer, p *plot.Plot, format string, width, height vg.Length) error {
	const tag = "Write"
	if !slices.Contains(Formats, format) {
		return plotErrorf(tag, ErrUnknownFormat)
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return plotErrorf(tag, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return plotErrorf(tag, err)
	}
	return nil
}

func addLine(p *plot.Plot, i int, name string, xys plotter.XYs) error {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(i)
	p.Add(line)
	if name != "" {
		p.Legend.Add(name, line)
	}
	return nil
}

func norm(x []complex128) float64 {
	var s float64
	for _, z := range x {
		s += real(z)*real(z) + imag(z)*imag(z)
	}
	return math.Sqrt(s)
}

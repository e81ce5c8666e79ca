// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"

	"github.com/katalvlaran/homotopy/pathplot"
	"github.com/katalvlaran/homotopy/polynomial"
	"github.com/katalvlaran/homotopy/solve"
	"github.com/katalvlaran/homotopy/tracking"
)

func newSolveCmd(a *app) *cobra.Command {
	var demo string
	cmd := &cobra.Command{
		Use:   "solve [problem.yaml]",
		Short: "Track every total-degree path of a polynomial system",
		Long: "Track every path of a total-degree homotopy to the target system and\n" +
			"report the endpoints. Use --demo for a built-in system: " + strings.Join(demoNames(), ", ") + ".",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pf problemFile
			switch {
			case demo != "" && len(args) > 0:
				return fmt.Errorf("%w: give a problem file or --demo, not both", errProblem)
			case demo != "":
				mk, ok := demos[demo]
				if !ok {
					return fmt.Errorf("%w: unknown demo %q", errProblem, demo)
				}
				pf = mk()
			case len(args) == 1:
				var err error
				if pf, err = readProblem(args[0]); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: no problem given", errProblem)
			}
			pr, err := pf.build(a.cfg.Seed)
			if err != nil {
				return err
			}
			return a.solve(cmd, pr)
		},
	}
	cmd.Flags().StringVar(&demo, "demo", "", "built-in problem")
	return cmd
}

func (a *app) solve(cmd *cobra.Command, pr *problem) error {
	td, err := polynomial.NewTotalDegree(pr.target)
	if err != nil {
		return err
	}
	h, err := polynomial.NewHomotopy(pr.target, td.System(), pr.gamma)
	if err != nil {
		return err
	}
	tr, err := tracking.NewTracker(h, a.cfg.TrackerOptions()...)
	if err != nil {
		return err
	}

	opts := append(a.cfg.SolveOptions(), solve.WithLogger(a.log))
	if pr.homogenized {
		opts = append(opts, solve.WithDehomogenizer(h))
	}
	if a.log.IsLevelEnabled(logrus.DebugLevel) {
		opts = append(opts, solve.WithTrackOptions(tracking.WithObserver(tracking.LogObserver(a.log))))
	}
	var rec *recorder
	if a.cfg.PlotDir != "" {
		rec = newRecorder(td.NumStartPoints())
		opts = append(opts, solve.WithPathObservers(rec.observers))
	}

	s, err := solve.New(tr, td, opts...)
	if err != nil {
		return err
	}
	rep, err := s.Solve(cmd.Context())
	if err != nil {
		return err
	}
	if err := printReport(cmd.OutOrStdout(), rep); err != nil {
		return err
	}
	if rec != nil {
		return rec.write(a.cfg.PlotDir)
	}
	return nil
}

func printReport(out io.Writer, rep *solve.Report) error {
	sum := rep.Summary
	fmt.Fprintf(out, "run %s: %d/%d paths succeeded in %s\n", rep.RunID, sum.Succeeded, sum.Total, rep.Duration.Round(time.Millisecond))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tCODE\tCYCLE\tSTEPS\tPRECISION\tRESIDUAL")
	for _, p := range rep.Paths {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%.2e\n", p.Index, p.Code, p.CycleNumber, p.Steps, uint(p.MaxPrecision), p.Residual)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "steps: mean %.1f, sd %.1f, max %.0f\n", sum.MeanSteps, sum.StdSteps, sum.MaxSteps)
	fmt.Fprintf(out, "solutions: %d\n", len(sum.Solutions))
	for i, sol := range sum.Solutions {
		coords := make([]string, len(sol.Point))
		for k, z := range sol.Point {
			coords[k] = fmt.Sprintf("%.12g", z)
		}
		fmt.Fprintf(out, "  %d  multiplicity %d  (%s)\n", i, sol.Multiplicity, strings.Join(coords, ", "))
	}
	return nil
}

// recorder keeps per-path accumulators for the charts.
type recorder struct {
	precisions []*tracking.PrecisionAccumulator
	paths      []*tracking.PathAccumulator
}

func newRecorder(n int) *recorder {
	r := &recorder{
		precisions: make([]*tracking.PrecisionAccumulator, n),
		paths:      make([]*tracking.PathAccumulator, n),
	}
	for i := range n {
		r.precisions[i] = new(tracking.PrecisionAccumulator)
		r.paths[i] = new(tracking.PathAccumulator)
	}
	return r
}

func (r *recorder) observers(path int) []tracking.Observer {
	return []tracking.Observer{r.precisions[path], r.paths[path]}
}

func (r *recorder) write(dir string) error {
	var ps []pathplot.PrecisionSeries
	var ns []pathplot.PathSeries
	for i := range r.paths {
		name := fmt.Sprintf("path %d", i)
		if p := r.precisions[i].Precisions(); len(p) > 0 {
			ps = append(ps, pathplot.PrecisionSeries{Name: name, Precisions: p})
		}
		if pts := r.paths[i].Points(); len(pts) > 1 {
			ns = append(ns, pathplot.PathSeries{Name: name, Points: pts})
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if len(ps) > 0 {
		p, err := pathplot.PrecisionSchedule(ps...)
		if err != nil {
			return err
		}
		if err := writeChart(filepath.Join(dir, "precision.svg"), p); err != nil {
			return err
		}
	}
	if len(ns) > 0 {
		p, err := pathplot.PathNorms(ns...)
		if err != nil {
			return err
		}
		return writeChart(filepath.Join(dir, "norms.svg"), p)
	}
	return nil
}

func writeChart(path string, p *plot.Plot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pathplot.Write(f, p, "svg", pathplot.DefaultWidth, pathplot.DefaultHeight); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

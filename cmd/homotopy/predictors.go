// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/homotopy/tracking"
)

func newPredictorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predictors",
		Short: "List the Runge-Kutta predictors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tORDER\tERROR ESTIMATE")
			for _, p := range tracking.Predictors() {
				fmt.Fprintf(w, "%s\t%d\t%t\n", p, p.Order(), p.HasErrorEstimate())
			}
			return w.Flush()
		},
	}
}

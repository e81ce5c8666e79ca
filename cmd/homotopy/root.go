// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/homotopy/internal/config"
	"github.com/katalvlaran/homotopy/internal/otel"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	cfg        config.Config
	log        *logrus.Logger
	shutdown   func(context.Context) error
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "homotopy",
		Short:         "Adaptive-precision homotopy continuation",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = setupLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			a.shutdown, err = otel.Setup(cmd.Context(), "homotopy", version)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(context.WithoutCancel(cmd.Context()))
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML file overriding HOMOTOPY_* settings")
	root.AddCommand(newSolveCmd(a), newPredictorsCmd())
	return root
}

func setupLogger(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

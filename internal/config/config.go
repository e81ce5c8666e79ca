// SPDX-License-Identifier: MIT

// Package config loads the settings of the homotopy command: environment
// variables first, then an optional YAML file whose keys override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/homotopy/endgame"
	"github.com/katalvlaran/homotopy/multiprec"
	"github.com/katalvlaran/homotopy/solve"
	"github.com/katalvlaran/homotopy/tracking"
)

// ErrInvalid indicates a setting outside its range.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds the command settings.
type Config struct {
	LogLevel string `env:"HOMOTOPY_LOG_LEVEL" envDefault:"info" yaml:"log_level"`

	// Workers bounds concurrent paths; 0 means one per CPU.
	Workers int `env:"HOMOTOPY_WORKERS" envDefault:"0" yaml:"workers"`

	Predictor      string  `env:"HOMOTOPY_PREDICTOR" envDefault:"RK4" yaml:"predictor"`
	Tolerance      float64 `env:"HOMOTOPY_TOLERANCE" envDefault:"1e-7" yaml:"tolerance"`
	MaxNumSteps    int     `env:"HOMOTOPY_MAX_STEPS" envDefault:"100000" yaml:"max_steps"`
	StartPrecision uint    `env:"HOMOTOPY_START_PRECISION" envDefault:"16" yaml:"start_precision"`
	MaxPrecision   uint    `env:"HOMOTOPY_MAX_PRECISION" envDefault:"300" yaml:"max_precision"`

	UseEndgame     bool    `env:"HOMOTOPY_ENDGAME" envDefault:"true" yaml:"endgame"`
	EndgameKind    string  `env:"HOMOTOPY_ENDGAME_KIND" envDefault:"Cauchy" yaml:"endgame_kind"`
	BoundaryTime   float64 `env:"HOMOTOPY_BOUNDARY_TIME" envDefault:"0.1" yaml:"boundary_time"`
	FinalTolerance float64 `env:"HOMOTOPY_FINAL_TOLERANCE" envDefault:"1e-11" yaml:"final_tolerance"`
	SamplePoints   int     `env:"HOMOTOPY_SAMPLE_POINTS" envDefault:"3" yaml:"sample_points"`

	// Seed drives the random patch and gamma of generated homotopies.
	Seed uint64 `env:"HOMOTOPY_SEED" envDefault:"1" yaml:"seed"`

	// PlotDir receives precision and path-norm charts when set.
	PlotDir string `env:"HOMOTOPY_PLOT_DIR" yaml:"plot_dir"`
}

// Load reads the environment and then, when path is not empty, the YAML
// file at path. Keys present in the file override the environment.
func Load(path string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers)
	case !(c.Tolerance > 0 && c.Tolerance < 1):
		return fmt.Errorf("%w: tolerance %g", ErrInvalid, c.Tolerance)
	case c.MaxNumSteps < 1:
		return fmt.Errorf("%w: max_steps %d", ErrInvalid, c.MaxNumSteps)
	case c.StartPrecision < 1 || c.StartPrecision > c.MaxPrecision:
		return fmt.Errorf("%w: precision range [%d, %d]", ErrInvalid, c.StartPrecision, c.MaxPrecision)
	case !(c.BoundaryTime > 0 && c.BoundaryTime < 1):
		return fmt.Errorf("%w: boundary_time %g", ErrInvalid, c.BoundaryTime)
	case !(c.FinalTolerance > 0 && c.FinalTolerance < 1):
		return fmt.Errorf("%w: final_tolerance %g", ErrInvalid, c.FinalTolerance)
	case c.SamplePoints < 2:
		return fmt.Errorf("%w: sample_points %d", ErrInvalid, c.SamplePoints)
	}
	if _, err := c.PredictorKind(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Endgame(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// PredictorKind resolves the predictor name.
func (c Config) PredictorKind() (tracking.Predictor, error) {
	return tracking.ParsePredictor(c.Predictor)
}

// Endgame resolves the endgame name.
func (c Config) Endgame() (endgame.Kind, error) {
	return endgame.ParseKind(c.EndgameKind)
}

// Level resolves the log level name.
func (c Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(strings.ToLower(c.LogLevel))
}

// TrackerOptions translates the settings into tracker options.
func (c Config) TrackerOptions() []tracking.Option {
	kind, _ := c.PredictorKind()
	return []tracking.Option{
		tracking.WithPredictor(kind),
		tracking.WithTolerance(c.Tolerance),
		tracking.WithMaxNumSteps(c.MaxNumSteps),
		tracking.WithPrecisionBounds(multiprec.Precision(c.StartPrecision), multiprec.Precision(c.MaxPrecision)),
	}
}

// SolveOptions translates the settings into solver options. Endgame options
// are included when the endgame is enabled.
func (c Config) SolveOptions() []solve.Option {
	opts := []solve.Option{
		solve.WithStartPrecision(multiprec.Precision(c.StartPrecision)),
		solve.WithBoundaryTime(c.BoundaryTime),
	}
	if c.Workers > 0 {
		opts = append(opts, solve.WithWorkers(c.Workers))
	}
	if !c.UseEndgame {
		return append(opts, solve.WithoutEndgame())
	}
	kind, _ := c.Endgame()
	return append(opts, solve.WithEndgame(kind), solve.WithEndgameOptions(
		endgame.WithFinalTolerance(c.FinalTolerance),
		endgame.WithNumSamplePoints(c.SamplePoints),
	))
}

// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/homotopy/endgame"
	"github.com/katalvlaran/homotopy/solve"
	"github.com/katalvlaran/homotopy/tracking"
)

type envTestConfig struct {
	Port int `env:"HOMOTOPY_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	require.NoError(t, ParseEnv(&cfg))
	assert.Equal(t, 123, cfg.Port)
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("HOMOTOPY_TEST_PORT", "not-an-int")
	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "RK4", cfg.Predictor)
	assert.Equal(t, 1e-7, cfg.Tolerance)
	assert.Equal(t, uint(16), cfg.StartPrecision)
	assert.Equal(t, uint(300), cfg.MaxPrecision)
	assert.True(t, cfg.UseEndgame)
	assert.Equal(t, 0.1, cfg.BoundaryTime)
	assert.Equal(t, 3, cfg.SamplePoints)
	assert.Empty(t, cfg.PlotDir)
	eg, err := cfg.Endgame()
	require.NoError(t, err)
	assert.Equal(t, endgame.KindCauchy, eg)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, lvl)
	kind, err := cfg.PredictorKind()
	require.NoError(t, err)
	assert.Equal(t, tracking.RK4, kind)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("HOMOTOPY_PREDICTOR", "RKF45")
	t.Setenv("HOMOTOPY_WORKERS", "3")
	t.Setenv("HOMOTOPY_ENDGAME", "false")
	t.Setenv("HOMOTOPY_ENDGAME_KIND", "powerseries")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "RKF45", cfg.Predictor)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.UseEndgame)
	eg, err := cfg.Endgame()
	require.NoError(t, err)
	assert.Equal(t, endgame.KindPowerSeries, eg)
}

func TestLoadFileOverridesEnvironment(t *testing.T) {
	t.Setenv("HOMOTOPY_PREDICTOR", "RKF45")
	t.Setenv("HOMOTOPY_BOUNDARY_TIME", "0.2")

	path := filepath.Join(t.TempDir(), "homotopy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("predictor: HeunEuler\nlog_level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "HeunEuler", cfg.Predictor)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0.2, cfg.BoundaryTime)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2]\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	t.Setenv("HOMOTOPY_BOUNDARY_TIME", "1.5")
	_, err = Load("")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"tolerance", func(c *Config) { c.Tolerance = 0 }},
		{"max steps", func(c *Config) { c.MaxNumSteps = 0 }},
		{"precision range", func(c *Config) { c.StartPrecision = 400 }},
		{"boundary", func(c *Config) { c.BoundaryTime = 0 }},
		{"final tolerance", func(c *Config) { c.FinalTolerance = 1 }},
		{"sample points", func(c *Config) { c.SamplePoints = 1 }},
		{"predictor", func(c *Config) { c.Predictor = "Leapfrog" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"endgame kind", func(c *Config) { c.EndgameKind = "Newton" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestOptionTranslation(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Predictor = "RKCashKarp45"
	cfg.MaxNumSteps = 500
	cfg.Workers = 2

	tc := tracking.DefaultConfig()
	for _, opt := range cfg.TrackerOptions() {
		opt(&tc)
	}
	assert.Equal(t, tracking.RKCashKarp45, tc.Predictor)
	assert.Equal(t, 500, tc.Stepping.MaxNumSteps)
	assert.Equal(t, cfg.Tolerance, tc.Tolerance)

	sc := solve.DefaultConfig()
	for _, opt := range cfg.SolveOptions() {
		opt(&sc)
	}
	assert.Equal(t, 2, sc.Workers)
	assert.True(t, sc.UseEndgame)
	assert.Equal(t, endgame.KindCauchy, sc.Endgame)

	cfg.EndgameKind = "PowerSeries"
	sc = solve.DefaultConfig()
	for _, opt := range cfg.SolveOptions() {
		opt(&sc)
	}
	assert.Equal(t, endgame.KindPowerSeries, sc.Endgame)

	cfg.UseEndgame = false
	sc = solve.DefaultConfig()
	for _, opt := range cfg.SolveOptions() {
		opt(&sc)
	}
	assert.False(t, sc.UseEndgame)
}

// Exitf is checked in a subprocess because os.Exit cannot be intercepted.
func TestExitf(t *testing.T) {
	if os.Getenv("TEST_EXITF_SUBPROCESS") == "1" {
		Exitf("fatal: %s", "something broke")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitf$")
	cmd.Env = append(os.Environ(), "TEST_EXITF_SUBPROCESS=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "fatal: something broke")
}

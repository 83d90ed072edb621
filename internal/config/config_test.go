package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("yaml file over defaults", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", `
solver:
  backend: cbc
logging:
  level: debug
`)

		cfg, err := Load(path)

		assert.Nil(t, err)
		assert.Equal(t, "cbc", cfg.Solver.Backend)
		assert.Equal(t, 60, cfg.Solver.TimeLimitSeconds, "default survives a partial file")
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "total", cfg.Objective)
	})

	t.Run("json file", func(t *testing.T) {
		path := writeConfig(t, "config.json", `{"solver": {"backend": "enum", "timeLimitSeconds": 5}, "objective": "balance"}`)

		cfg, err := Load(path)

		assert.Nil(t, err)
		assert.Equal(t, "enum", cfg.Solver.Backend)
		assert.Equal(t, 5, cfg.Solver.TimeLimitSeconds)
		assert.Equal(t, "balance", cfg.Objective)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("FLEETPLAN_SOLVER__BACKEND", "glpk")
		path := writeConfig(t, "config.yaml", "solver:\n  backend: cbc\n")

		cfg, err := Load(path)

		assert.Nil(t, err)
		assert.Equal(t, "glpk", cfg.Solver.Backend)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(writeConfig(t, "config.toml", "backend = 'cbc'"))

		assert.ErrorContains(t, err, "unsupported config format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

		assert.NotNil(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.Nil(t, Default().Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := Default()
		cfg.Solver.Backend = "gurobi"

		assert.ErrorContains(t, cfg.Validate(), "unknown solver backend")
	})

	t.Run("negative time limit", func(t *testing.T) {
		cfg := Default()
		cfg.Solver.TimeLimitSeconds = -1

		assert.ErrorContains(t, cfg.Validate(), "time limit")
	})

	t.Run("unknown objective", func(t *testing.T) {
		cfg := Default()
		cfg.Objective = "fastest"

		assert.ErrorContains(t, cfg.Validate(), "unknown objective mode")
	})
}

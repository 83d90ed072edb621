// Package config loads the runtime configuration from a JSON or YAML file
// with FLEETPLAN_-prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fleetplan/fleetplan/internal/logger"
	"github.com/fleetplan/fleetplan/internal/model"
)

type SolverConfig struct {
	Backend          string `json:"backend"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
}

type Config struct {
	Solver    SolverConfig  `json:"solver"`
	Logging   logger.Config `json:"logging"`
	Objective string        `json:"objective"`
}

func Default() *Config {
	return &Config{
		Solver:    SolverConfig{Backend: "glpsol", TimeLimitSeconds: 60},
		Logging:   logger.DefaultConfig(),
		Objective: "total",
	}
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	// Optional environment overrides, e.g. FLEETPLAN_SOLVER__BACKEND
	if err := k.Load(env.Provider("FLEETPLAN_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fleetplan_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	switch cfg.Solver.Backend {
	case "glpsol", "cbc", "glpk", "enum":
	default:
		return fmt.Errorf("unknown solver backend: %q", cfg.Solver.Backend)
	}
	if cfg.Solver.TimeLimitSeconds < 0 {
		return fmt.Errorf("solver time limit must be non-negative, got %d", cfg.Solver.TimeLimitSeconds)
	}
	if _, err := model.ParseObjectiveMode(cfg.Objective); err != nil {
		return err
	}
	return nil
}

// Package logger provides the shared zerolog setup.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once sync.Once
	root zerolog.Logger
)

type Config struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json or console
	Output string `json:"output"` // stdout or stderr
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", Output: "stderr"}
}

// Init configures the root logger once; later calls are no-ops.
func Init(cfg Config) {
	once.Do(func() {
		level, err := zerolog.ParseLevel(cfg.Level)
		if err != nil || level == zerolog.NoLevel {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)

		var output io.Writer = os.Stderr
		if cfg.Output == "stdout" {
			output = os.Stdout
		}
		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
		}

		root = zerolog.New(output).With().Timestamp().Logger()
	})
}

// New returns a logger tagged with the originating component.
func New(component string) zerolog.Logger {
	Init(DefaultConfig())
	return root.With().Str("component", component).Logger()
}

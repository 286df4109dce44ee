package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/governance/internal/config"
)

// NewLogger creates a structured zerolog.Logger with context fields from the
// config. Non-empty fields are added automatically.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	if cfg.RegistryBackend != "" {
		ctx = ctx.Str("registry_backend", cfg.RegistryBackend)
	}
	if cfg.RegistryNamespace != "" {
		ctx = ctx.Str("registry_namespace", cfg.RegistryNamespace)
	}

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/config"
)

const serviceName = "nepalilove-api"

// New builds the process logger. Development gets a console writer, everything
// else emits JSON lines.
func New(cfg *config.Config) zerolog.Logger {
	var output io.Writer = os.Stdout
	if cfg.IsDevelopment() {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	return build(output, cfg)
}

func build(output io.Writer, cfg *config.Config) zerolog.Logger {
	return zerolog.New(output).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("environment", cfg.AppEnv).
		Logger().
		Level(parseLevel(cfg.LogLevel))
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	defaultGRPCAddr    = ":50051"
	defaultMetricsAddr = ":9090"
	defaultLogLevel    = zerolog.InfoLevel
)

// envConfig holds process settings read from the environment.
type envConfig struct {
	LogLevel    zerolog.Level
	LogFormat   string
	GRPCAddr    string
	MetricsAddr string
	DatabaseURL string
	Workers     int

	warnings envWarnings
}

// envWarning is an invalid value that was replaced by its default. They are
// collected before the logger exists and logged once it does.
type envWarning struct {
	key   string
	value string
	msg   string
}

type envWarnings []envWarning

func (w envWarnings) log(logger zerolog.Logger) {
	for _, warn := range w {
		logger.Warn().Str("key", warn.key).Str("value", warn.value).Msg(warn.msg)
	}
}

// parseEnvConfig reads SPONGEKIT_* variables and DATABASE_URL. Invalid
// values fall back to defaults with a warning.
func parseEnvConfig() envConfig {
	cfg := envConfig{
		LogLevel:    defaultLogLevel,
		LogFormat:   "json",
		GRPCAddr:    defaultGRPCAddr,
		MetricsAddr: defaultMetricsAddr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	if lvl := os.Getenv("SPONGEKIT_LOG_LEVEL"); lvl != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(lvl))
		if err != nil || parsed == zerolog.NoLevel {
			cfg.warnings = append(cfg.warnings, envWarning{"SPONGEKIT_LOG_LEVEL", lvl, "invalid log level, using info"})
		} else {
			cfg.LogLevel = parsed
		}
	}

	switch format := strings.ToLower(os.Getenv("SPONGEKIT_LOG_FORMAT")); format {
	case "", "json":
	case "console", "text":
		cfg.LogFormat = "console"
	default:
		cfg.warnings = append(cfg.warnings, envWarning{"SPONGEKIT_LOG_FORMAT", format, "invalid log format, using json"})
	}

	if addr := os.Getenv("SPONGEKIT_GRPC_ADDR"); addr != "" {
		cfg.GRPCAddr = addr
	}
	if addr := os.Getenv("SPONGEKIT_METRICS_ADDR"); addr != "" {
		cfg.MetricsAddr = addr
	}

	if workers := os.Getenv("SPONGEKIT_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			cfg.Workers = n
		} else {
			cfg.warnings = append(cfg.warnings, envWarning{"SPONGEKIT_WORKERS", workers, "invalid SPONGEKIT_WORKERS, using GOMAXPROCS"})
		}
	}

	return cfg
}

// newLogger creates the process logger writing to w.
func newLogger(cfg envConfig, w io.Writer) zerolog.Logger {
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).
		Level(cfg.LogLevel).
		With().
		Timestamp().
		Str("component", "spongekit").
		Logger()
}

// Package config loads runtime settings for the engine and its logger from
// the environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/engine"
	"github.com/hupe1980/agentctx/logging"
	"github.com/hupe1980/agentctx/tracing"
)

// Environment variable names.
const (
	EnvLogLevel       = "AGENTCTX_LOG_LEVEL"
	EnvLogFormat      = "AGENTCTX_LOG_FORMAT"
	EnvMaxConcurrency = "AGENTCTX_MAX_CONCURRENCY"
	EnvToolTimeout    = "AGENTCTX_TOOL_TIMEOUT"
	EnvTurnTimeout    = "AGENTCTX_TURN_TIMEOUT"
	EnvTracer         = "AGENTCTX_TRACER"
)

// Tracer kinds accepted by EnvTracer.
const (
	TracerLog  = "log"
	TracerOTel = "otel"
	TracerNone = "none"
)

// Config is the resolved runtime configuration.
type Config struct {
	LogLevel  logging.LogLevel
	LogFormat string
	Tracer    string
	Engine    engine.Config
}

// Load reads the given .env files (".env" when none are passed) without
// overriding variables that are already set, then resolves Config from the
// environment. Missing files are ignored; malformed values are errors.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return FromEnv()
}

// FromEnv resolves Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		LogLevel:  logging.LogLevelInfo,
		LogFormat: getEnv(EnvLogFormat, "json"),
		Tracer:    getEnv(EnvTracer, TracerLog),
		Engine:    engine.DefaultConfig,
	}

	level, err := logging.ParseLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return Config{}, fmt.Errorf("%s: unknown format %q", EnvLogFormat, cfg.LogFormat)
	}

	switch cfg.Tracer {
	case TracerLog, TracerOTel, TracerNone:
	default:
		return Config{}, fmt.Errorf("%s: unknown tracer %q", EnvTracer, cfg.Tracer)
	}

	if v := os.Getenv(EnvMaxConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: invalid value %q", EnvMaxConcurrency, v)
		}
		cfg.Engine.MaxConcurrentToolCalls = n
	}

	if cfg.Engine.ToolTimeout, err = getDuration(EnvToolTimeout, cfg.Engine.ToolTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Engine.TurnTimeout, err = getDuration(EnvTurnTimeout, cfg.Engine.TurnTimeout); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoggerConfig returns the logging configuration matching c.
func (c Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultLoggerConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	return lc
}

// NewTracer returns the tracer selected by c.Tracer. The log tracer writes
// span lifecycle entries to logger; the otel tracer uses the global
// OpenTelemetry TracerProvider.
func (c Config) NewTracer(logger logging.Logger) core.Tracer {
	switch c.Tracer {
	case TracerOTel:
		return tracing.NewOTelDefault()
	case TracerNone:
		return tracing.Noop()
	default:
		return tracing.NewLogging(logger)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

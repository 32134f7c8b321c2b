package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/engine"
	"github.com/hupe1980/agentctx/logging"
	"github.com/hupe1980/agentctx/tracing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvLogLevel, EnvLogFormat, EnvMaxConcurrency, EnvToolTimeout, EnvTurnTimeout, EnvTracer} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, logging.LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, TracerLog, cfg.Tracer)
	assert.Equal(t, engine.DefaultConfig, cfg.Engine)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "text")
	t.Setenv(EnvMaxConcurrency, "2")
	t.Setenv(EnvToolTimeout, "5s")
	t.Setenv(EnvTurnTimeout, "1m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, logging.LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 2, cfg.Engine.MaxConcurrentToolCalls)
	assert.Equal(t, 5*time.Second, cfg.Engine.ToolTimeout)
	assert.Equal(t, time.Minute, cfg.Engine.TurnTimeout)

	lc := cfg.LoggerConfig()
	assert.Equal(t, logging.LogLevelDebug, lc.Level)
	assert.Equal(t, "text", lc.Format)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvLogLevel, "loud"},
		{EnvLogFormat, "xml"},
		{EnvMaxConcurrency, "many"},
		{EnvMaxConcurrency, "-1"},
		{EnvToolTimeout, "soon"},
		{EnvTurnTimeout, "-1s"},
		{EnvTracer, "jaeger"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvLogFormat)
	os.Unsetenv(EnvMaxConcurrency)
	t.Setenv(EnvLogLevel, "warn")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(EnvLogLevel+"=debug\n"+EnvMaxConcurrency+"=3\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv(EnvMaxConcurrency) })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, logging.LogLevelWarn, cfg.LogLevel)
	assert.Equal(t, 3, cfg.Engine.MaxConcurrentToolCalls)
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestNewTracer(t *testing.T) {
	tests := []struct {
		kind string
		want core.Tracer
	}{
		{TracerLog, &tracing.Logging{}},
		{TracerOTel, &tracing.OTel{}},
		{TracerNone, core.NoopTracer{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvTracer, tt.kind)

			cfg, err := FromEnv()
			require.NoError(t, err)
			assert.IsType(t, tt.want, cfg.NewTracer(logging.NoOpLogger{}))
		})
	}
}

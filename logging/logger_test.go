package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*ScopedLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{" error ", LogLevelError, false},
		{"loud", LogLevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestScopedLogger_Attributes(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)

	l.WithComponent("engine").
		WithConversation("conv-1", "alice").
		WithBranch("turn.fc-1").
		With("turn", 3).
		Info("tool.call.start", "tool", "search")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	entry := lines[0]
	assert.Equal(t, "tool.call.start", entry["msg"])
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "conv-1", entry["conversation_id"])
	assert.Equal(t, "alice", entry["principal_id"])
	assert.Equal(t, "turn.fc-1", entry["branch"])
	assert.Equal(t, float64(3), entry["turn"])
	assert.Equal(t, "search", entry["tool"])
}

func TestScopedLogger_WithDoesNotMutateReceiver(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	_ = l.WithConversation("conv-1", "alice").With("k", "v")

	l.Info("plain")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], "conversation_id")
	assert.NotContains(t, lines[0], "k")
}

func TestScopedLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "w", lines[0]["msg"])
	assert.Equal(t, "e", lines[1]["msg"])
}

func TestScopedLogger_OddArgs(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.Info("odd", "dangling")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "dangling", lines[0]["!BADKEY"])
}

func TestScopedLogger_LogToolCall(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	l.LogToolCall("search", 5*time.Millisecond, nil)
	l.LogToolCall("search", time.Millisecond, errors.New("boom"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "tool.call.done", lines[0]["msg"])
	assert.Equal(t, true, lines[0]["success"])
	assert.Equal(t, float64(5), lines[0]["duration_ms"])
	assert.Equal(t, "tool.call.failed", lines[1]["msg"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "text", Output: &buf})
	l.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestNoOpLogger(t *testing.T) {
	var l Logger = NoOpLogger{}
	assert.NotPanics(t, func() {
		l.Debug("a")
		l.Info("b")
		l.Warn("c")
		l.Error("d")
	})
}

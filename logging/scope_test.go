package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordLogger struct {
	msgs []string
	args [][]any
}

func (r *recordLogger) record(msg string, args []any) {
	r.msgs = append(r.msgs, msg)
	r.args = append(r.args, args)
}

func (r *recordLogger) Debug(msg string, args ...any) { r.record(msg, args) }
func (r *recordLogger) Info(msg string, args ...any)  { r.record(msg, args) }
func (r *recordLogger) Warn(msg string, args ...any)  { r.record(msg, args) }
func (r *recordLogger) Error(msg string, args ...any) { r.record(msg, args) }

func TestScopeHelpers_PlainLogger(t *testing.T) {
	base := &recordLogger{}

	l := ForComponent(base, "engine")
	l = ForConversation(l, "c1", "u1")
	l = ForBranch(l, "turn.a")
	l.Info("msg", "k", "v")

	require.Len(t, base.args, 1)
	assert.Equal(t, []any{
		"component", "engine",
		"conversation_id", "c1",
		"principal_id", "u1",
		"branch", "turn.a",
		"k", "v",
	}, base.args[0])
}

func TestScopeHelpers_DoNotShareFields(t *testing.T) {
	base := &recordLogger{}
	parent := With(base, "a", 1)

	_ = With(parent, "b", 2)
	parent.Info("msg")

	assert.Equal(t, []any{"a", 1}, base.args[0])
}

func TestForConversation_NoPrincipal(t *testing.T) {
	base := &recordLogger{}
	ForConversation(base, "c1", "").Warn("msg")
	assert.Equal(t, []any{"conversation_id", "c1"}, base.args[0])
}

func TestScopeHelpers_ScopedLogger(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	scoped := ForBranch(ForConversation(ForComponent(l, "parallel"), "c1", "u1"), "turn.b")
	_, ok := scoped.(*ScopedLogger)
	require.True(t, ok)
	scoped.Info("msg")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "parallel", lines[0]["component"])
	assert.Equal(t, "c1", lines[0]["conversation_id"])
	assert.Equal(t, "u1", lines[0]["principal_id"])
	assert.Equal(t, "turn.b", lines[0]["branch"])
}

func TestScopeHelpers_NilAndNoOp(t *testing.T) {
	assert.Equal(t, NoOpLogger{}, With(nil, "k", "v"))
	assert.Equal(t, NoOpLogger{}, ForBranch(NoOpLogger{}, "x"))
	assert.NotPanics(t, func() { LogToolCall(nil, "t", 0, nil) })
}

func TestLogToolCall_PlainLogger(t *testing.T) {
	base := &recordLogger{}
	LogToolCall(base, "search", 2*time.Millisecond, errors.New("boom"))

	require.Len(t, base.msgs, 1)
	assert.Equal(t, "tool.call.failed", base.msgs[0])
	assert.Equal(t, []any{"tool", "search", "duration_ms", int64(2), "success", false, "error", "boom"}, base.args[0])
}

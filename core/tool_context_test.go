package core

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger records log entries for assertions.
type captureLogger struct {
	mu      sync.Mutex
	entries []string
	args    [][]any
}

func (c *captureLogger) record(level, msg string, args []any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, level+":"+msg)
	c.args = append(c.args, args)
}

func (c *captureLogger) Debug(msg string, args ...any) { c.record("debug", msg, args) }
func (c *captureLogger) Info(msg string, args ...any)  { c.record("info", msg, args) }
func (c *captureLogger) Warn(msg string, args ...any)  { c.record("warn", msg, args) }
func (c *captureLogger) Error(msg string, args ...any) { c.record("error", msg, args) }

type spanNameTracer struct {
	mu    sync.Mutex
	names []string
}

func (s *spanNameTracer) StartSpan(ctx context.Context, name string, _ ...Attr) (context.Context, Span) {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()
	return ctx, noopSpan{}
}

func TestNewToolContext_Unbound(t *testing.T) {
	tc, err := NewToolContext(context.Background(), "fc-1", nil)
	assert.Nil(t, tc)
	assert.ErrorIs(t, err, ErrContextNotBound)
	assert.Contains(t, err.Error(), `"fc-1"`)
}

func TestToolContext_ReadsAmbientValues(t *testing.T) {
	tracer := &spanNameTracer{}
	ac := NewAgentContext("conv-9", tracer, AuthContext{PrincipalID: "alice", Extra: "opaque"})
	ctx := Bind(context.Background(), ac)

	tc, err := NewToolContext(ctx, "fc-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "conv-9", tc.ConversationID())
	assert.Equal(t, "alice", tc.PrincipalID())
	assert.Equal(t, "opaque", tc.AuthContext().Extra)
	assert.Equal(t, "fc-1", tc.FunctionCallID())
	assert.Same(t, ac, tc.AgentContext())
	assert.Same(t, tracer, tc.Tracer())
	assert.Equal(t, ctx, tc.Context())

	_, span := tc.StartSpan("lookup", String("k", "v"))
	span.End()
	assert.Equal(t, []string{"lookup"}, tracer.names)
}

func TestToolContext_LoggerCarriesFields(t *testing.T) {
	logger := &captureLogger{}
	ctx := Bind(context.Background(), NewAgentContext("conv-1", nil, AuthContext{}))

	tc, err := NewToolContext(ctx, "fc-7", logger)
	require.NoError(t, err)

	tc.Logger().Info("tool.call.start", "tool", "search")
	tc.LogWarn("tool.call.slow")

	require.Len(t, logger.entries, 2)
	assert.Equal(t, "info:tool.call.start", logger.entries[0])
	assert.Equal(t, []any{"conversation_id", "conv-1", "function_call_id", "fc-7", "tool", "search"}, logger.args[0])
	assert.Equal(t, "warn:tool.call.slow", logger.entries[1])
	assert.Equal(t, []any{"conversation_id", "conv-1", "function_call_id", "fc-7"}, logger.args[1])
}

func TestToolContext_NilLoggerIsSafe(t *testing.T) {
	ctx := Bind(context.Background(), NewAgentContext("conv-1", nil, AuthContext{}))
	tc, err := NewToolContext(ctx, "fc-1", nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		tc.Logger().Debug("x")
		tc.LogError("y")
	})
}

func TestToolContext_PerBranchPrincipal(t *testing.T) {
	root := Bind(context.Background(), NewAgentContext("conv-1", nil, AuthContext{PrincipalID: "u1"}))

	var wg sync.WaitGroup
	got := make([]string, 3)
	for i := range 3 {
		snap, err := Fork(root)
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := Adopt(context.Background(), snap)
			if i == 1 {
				ctx = Bind(ctx, MustCurrent(ctx).WithAuthContext(AuthContext{PrincipalID: "u2"}))
			}
			tc, err := NewToolContext(ctx, fmt.Sprintf("fc-%d", i), nil)
			if assert.NoError(t, err) {
				got[i] = tc.PrincipalID()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"u1", "u2", "u1"}, got)
}

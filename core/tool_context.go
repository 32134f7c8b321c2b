package core

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentctx/logging"
)

// ToolContext is the surface handed to tool / plugin implementations. It is
// built from the ambient AgentContext of the calling branch, so tools read the
// conversation, principal and tracer without any of them being threaded
// through explicit parameters.
type ToolContext struct {
	ctx            context.Context
	agentCtx       *AgentContext
	functionCallID string

	*loggerAdapter
}

// NewToolContext constructs a tool context for functionCallID from the
// AgentContext bound on ctx. It fails with ErrContextNotBound when the calling
// branch has nothing bound.
func NewToolContext(ctx context.Context, functionCallID string, logger logging.Logger) (*ToolContext, error) {
	ac, err := Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("tool context for call %q: %w", functionCallID, err)
	}

	scoped := logging.With(LoggerFrom(ctx, logger), "function_call_id", functionCallID)

	return &ToolContext{
		ctx:            ctx,
		agentCtx:       ac,
		functionCallID: functionCallID,
		loggerAdapter:  newLoggerAdapter(scoped),
	}, nil
}

// Context returns the branch context the tool runs in.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// AgentContext returns the ambient value captured at construction.
func (tc *ToolContext) AgentContext() *AgentContext { return tc.agentCtx }

// ConversationID returns the conversation the tool is invoked for.
func (tc *ToolContext) ConversationID() string { return tc.agentCtx.ConversationID() }

// AuthContext returns the authorization facts of the acting principal.
func (tc *ToolContext) AuthContext() AuthContext { return tc.agentCtx.AuthContext() }

// PrincipalID returns the acting principal, or "" when unauthenticated.
func (tc *ToolContext) PrincipalID() string { return tc.agentCtx.AuthContext().PrincipalID }

// Tracer returns the shared tracer.
func (tc *ToolContext) Tracer() Tracer { return tc.agentCtx.Tracer() }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.loggerAdapter.Logger() }

// StartSpan opens a span on the ambient tracer as a child of the tool's
// context and returns the span's context.
func (tc *ToolContext) StartSpan(name string, attrs ...Attr) (context.Context, Span) {
	return tc.Tracer().StartSpan(tc.ctx, name, attrs...)
}

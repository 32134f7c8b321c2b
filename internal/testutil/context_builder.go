package testutil

import (
	"context"

	"github.com/hupe1980/agentctx/core"
)

// AgentContextBuilder provides a fluent helper for constructing agent
// contexts in tests. Example:
//
//	ctx := NewAgentContextBuilder().Conversation("c1").Principal("u1").Bind(context.Background())
//
// Chain only the parts you need; sensible defaults are applied.
type AgentContextBuilder struct {
	conversationID string
	tracer         core.Tracer
	auth           core.AuthContext
}

// NewAgentContextBuilder creates a builder with conversation "conv-1", no
// principal and a no-op tracer.
func NewAgentContextBuilder() *AgentContextBuilder {
	return &AgentContextBuilder{conversationID: "conv-1"}
}

// Conversation sets the conversation ID (chainable).
func (b *AgentContextBuilder) Conversation(id string) *AgentContextBuilder {
	b.conversationID = id
	return b
}

// Principal sets the acting principal (chainable).
func (b *AgentContextBuilder) Principal(id string) *AgentContextBuilder {
	b.auth.PrincipalID = id
	return b
}

// Extra sets the opaque auth payload (chainable).
func (b *AgentContextBuilder) Extra(v any) *AgentContextBuilder { b.auth.Extra = v; return b }

// Tracer sets the tracer (chainable).
func (b *AgentContextBuilder) Tracer(t core.Tracer) *AgentContextBuilder { b.tracer = t; return b }

// Build constructs the agent context.
func (b *AgentContextBuilder) Build() *core.AgentContext {
	return core.NewAgentContext(b.conversationID, b.tracer, b.auth)
}

// Bind builds the agent context and binds it onto parent.
func (b *AgentContextBuilder) Bind(parent context.Context) context.Context {
	return core.Bind(parent, b.Build())
}

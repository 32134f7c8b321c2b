package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentctx/core"
)

func TestAgentContextBuilder(t *testing.T) {
	ctx := NewAgentContextBuilder().Conversation("c1").Principal("u1").Extra("x").Bind(context.Background())

	ac, err := core.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c1", ac.ConversationID())
	assert.Equal(t, core.AuthContext{PrincipalID: "u1", Extra: "x"}, ac.AuthContext())
	assert.IsType(t, core.NoopTracer{}, ac.Tracer())
}

func TestAgentContextBuilder_Defaults(t *testing.T) {
	ac := NewAgentContextBuilder().Build()
	assert.Equal(t, "conv-1", ac.ConversationID())
	assert.False(t, ac.AuthContext().IsAuthenticated())
}

// Package engine orchestrates a conversation turn: it builds the turn's
// core.AgentContext, binds it, and fans the turn's tool calls out onto
// parallel branches that each adopt a snapshot of it.
//
// The engine is the orchestration collaborator. Tool implementations never
// import it; they read the ambient context through package core.
//
// Example:
//
//	registry, _ := tool.NewRegistry(searchTool, weatherTool)
//	eng := engine.New(registry, func(o *engine.Options) {
//	    o.Logger = logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	    o.Tracer = tracing.NewOTelDefault()
//	})
//	results, err := eng.RunTurn(ctx, engine.Turn{
//	    Auth:  core.AuthContext{PrincipalID: "user-42"},
//	    Calls: []engine.ToolCall{{Name: "search", Args: map[string]any{"q": "go"}}},
//	})
package engine

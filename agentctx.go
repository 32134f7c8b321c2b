// Package agentctx provides a high-level façade over the tool registry and the
// turn engine. Most applications interact with this package by:
//  1. Creating a Runtime via New() (optionally overriding logger, tracer and engine config)
//  2. Registering one or more tools
//  3. Running turns with RunTurn, or spawning work on the current branch with Go
//
// Tools read the ambient agent context (conversation, principal, tracer) from
// their *core.ToolContext; nothing is threaded through tool arguments.
package agentctx

import (
	"context"

	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/engine"
	"github.com/hupe1980/agentctx/logging"
	"github.com/hupe1980/agentctx/tool"
)

// Options configures the Runtime instance.
type Options struct {
	// EngineConfig controls tool call concurrency and timeouts.
	EngineConfig engine.Config

	// Tracer is bound into every turn. Defaults to a no-op tracer.
	Tracer core.Tracer

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Runtime is the high-level façade aggregating the registry and the engine.
type Runtime struct {
	registry *tool.Registry
	engine   *engine.Engine
}

// New creates a new Runtime with optional overrides.
func New(optFns ...func(o *Options)) *Runtime {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	registry := &tool.Registry{}
	e := engine.New(registry, func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Logger = opts.Logger
		o.Tracer = opts.Tracer
	})

	return &Runtime{registry: registry, engine: e}
}

// RegisterTools adds tools to the runtime. It stops at the first duplicate or
// unnamed tool.
func (r *Runtime) RegisterTools(tools ...tool.Tool) error {
	for _, t := range tools {
		if err := r.registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Callbacks exposes the engine's lifecycle hooks.
func (r *Runtime) Callbacks() *engine.CallbackManager { return r.engine.Callbacks() }

// RunTurn executes one turn. See engine.Engine.RunTurn.
func (r *Runtime) RunTurn(ctx context.Context, turn engine.Turn) ([]engine.ToolResult, error) {
	return r.engine.RunTurn(ctx, turn)
}

// Go runs fn on a new goroutine that inherits the agent context of ctx. See
// core.Go.
func Go(ctx context.Context, fn func(ctx context.Context)) error {
	return core.Go(ctx, fn)
}

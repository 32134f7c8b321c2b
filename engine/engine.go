package engine

import (
	"context"
	"errors"
	"slices"
		"time"

	"github.com/hupe1980/agentctx/agent"
	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/logging"
	"github.com/hupe1980/agentctx/tool"
)

// Config defines tuning parameters for turn execution.
type Config struct {
	// MaxConcurrentToolCalls limits how many tool calls of one turn run at the
	// same time. Zero means unlimited.
	MaxConcurrentToolCalls int

	// ToolTimeout bounds each individual tool call. Zero disables it.
	ToolTimeout time.Duration

	// TurnTimeout bounds the whole turn. Zero disables it.
	TurnTimeout time.Duration
}

// DefaultConfig provides conservative defaults.
var DefaultConfig = Config{
	MaxConcurrentToolCalls: 8,
	ToolTimeout:            30 * time.Second,
	TurnTimeout:            2 * time.Minute,
}

// Options configures an Engine using the functional options pattern.
type Options struct {
	// Config contains operational parameters. Defaults to DefaultConfig.
	Config Config

	// Logger provides structured logging. Defaults to NoOpLogger.
	Logger logging.Logger

	// Tracer is placed into every turn's agent context. Defaults to a no-op
	// tracer.
	Tracer core.Tracer

	// Callbacks receives lifecycle hooks. Defaults to an empty manager.
	Callbacks *CallbackManager
}

// ToolCall is one requested tool invocation within a turn.
type ToolCall struct {
	// ID correlates the call with its result. Generated when empty.
	ID   string
	Name string
	Args map[string]any
}

// ToolResult is the outcome of one ToolCall.
type ToolResult struct {
	CallID string
	Name   string
	Output any
	Err    error
}

// Turn is the input of one conversation turn.
type Turn struct {
	// ConversationID identifies the conversation. Generated when empty.
	ConversationID string
	// Auth describes the acting principal.
	Auth core.AuthContext
	// Calls are executed concurrently, each on its own branch.
	Calls []ToolCall
}

// Engine runs conversation turns against a tool registry.
type Engine struct {
	registry  *tool.Registry
	config    Config
	logger    logging.Logger
	tracer    core.Tracer
	callbacks *CallbackManager
}

// New creates an Engine. Unset options fall back to safe defaults.
func New(registry *tool.Registry, optFns ...func(o *Options)) *Engine {
	opts := Options{Config: DefaultConfig}
	for _, fn := range optFns {
		fn(&opts)
	}

	if registry == nil {
		registry = &tool.Registry{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Tracer == nil {
		opts.Tracer = core.NoopTracer{}
	}
	if opts.Callbacks == nil {
		opts.Callbacks = NewCallbackManager()
	}

	return &Engine{
		registry:  registry,
		config:    opts.Config,
		logger:    opts.Logger,
		tracer:    opts.Tracer,
		callbacks: opts.Callbacks,
	}
}

// Callbacks returns the engine's callback manager.
func (e *Engine) Callbacks() *CallbackManager { return e.callbacks }

// RunTurn binds a fresh agent context for turn and executes its tool calls in
// parallel. The caller's turn is not modified.
//
// Unless a before_turn callback rejects the turn, RunTurn returns exactly one
// result per call, in call order. Per-call failures (unknown tool, validation,
// execution, before_tool callback) are reported in ToolResult.Err. When the
// turn deadline or ctx ends the turn early, calls that were running and calls
// still waiting for a concurrency slot both report an EXECUTION_ERROR wrapping
// the context error; results of calls that completed are kept. The returned
// error covers callback failures only.
func (e *Engine) RunTurn(ctx context.Context, turn Turn) ([]ToolResult, error) {
	turn.Calls = slices.Clone(turn.Calls)
	if turn.ConversationID == "" {
		turn.ConversationID = core.NewConversationID()
	}
	for i := range turn.Calls {
		if turn.Calls[i].ID == "" {
			turn.Calls[i].ID = core.NewID()
		}
	}

	ac := core.NewAgentContext(turn.ConversationID, e.tracer, turn.Auth)
	ctx = core.Bind(ctx, ac)

	if e.config.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.TurnTimeout)
		defer cancel()
	}

	attrs := []core.Attr{
		core.String("agent.conversation_id", turn.ConversationID),
		{Key: "agent.tool_calls", Value: len(turn.Calls)},
	}
	if id, ok := turn.Auth.Principal(); ok {
		attrs = append(attrs, core.String("agent.principal_id", id))
	}

	ctx, span := ac.Tracer().StartSpan(ctx, "agent.turn", attrs...)
	defer span.End()

	logger := logging.ForComponent(core.LoggerFrom(ctx, e.logger), "engine")
	start := time.Now()
	logger.Info("turn.start", "tool_calls", len(turn.Calls))

	if err := e.callbacks.Execute(ctx, &CallbackContext{Type: CallbackBeforeTurn, Turn: &turn}); err != nil {
		span.RecordError(err)
		logger.Warn("turn.rejected", "error", err.Error())
		return nil, err
	}

	results := make([]ToolResult, len(turn.Calls))
	branches := make([]agent.Branch, len(turn.Calls))
	for i := range turn.Calls {
		call := &turn.Calls[i]
		branches[i] = agent.Branch{
			Name: call.ID,
			Run: func(ctx context.Context) error {
				results[i] = e.runCall(ctx, &turn, call)
				return nil
			},
		}
	}

	fanout := agent.NewParallel("turn", func(o *agent.ParallelOptions) {
		o.MaxConcurrency = e.config.MaxConcurrentToolCalls
		o.Logger = e.logger
	})
	if err := fanout.Run(ctx, branches...); err != nil {
		logger.Warn("turn.incomplete", "error", err.Error())
	}

	for i := range results {
		if results[i].CallID == "" {
			results[i] = notStarted(ctx, &turn.Calls[i])
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	span.SetAttr(core.Attr{Key: "agent.tool_calls_failed", Value: failed})

	if err := e.callbacks.Execute(ctx, &CallbackContext{Type: CallbackAfterTurn, Turn: &turn}); err != nil {
		span.RecordError(err)
		return results, err
	}

	logger.Info("turn.done", "tool_calls", len(results), "failed", failed, "duration_ms", time.Since(start).Milliseconds())

	return results, nil
}

// notStarted is the result of a call whose branch never ran.
func notStarted(ctx context.Context, call *ToolCall) ToolResult {
	cause := ctx.Err()
	if cause == nil {
		cause = errors.New("tool call not started")
	}
	return ToolResult{
		CallID: call.ID,
		Name:   call.Name,
		Err:    &tool.ToolError{Tool: call.Name, Message: cause.Error(), Code: tool.CodeExecution, Err: cause},
	}
}

// runCall executes one tool call on its own branch.
func (e *Engine) runCall(ctx context.Context, turn *Turn, call *ToolCall) ToolResult {
	res := ToolResult{CallID: call.ID, Name: call.Name}

	if e.config.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.ToolTimeout)
		defer cancel()
	}

	logger := logging.ForBranch(logging.ForComponent(core.LoggerFrom(ctx, e.logger), "engine"), agent.BranchPath(ctx))

	if err := e.callbacks.Execute(ctx, &CallbackContext{Type: CallbackBeforeTool, Turn: turn, Call: call}); err != nil {
		res.Err = err
		logger.Warn("tool.call.rejected", "tool", call.Name, "function_call_id", call.ID, "error", err.Error())
		return res
	}

	t, ok := e.registry.Get(call.Name)
	if !ok {
		res.Err = tool.NewToolError(call.Name, "tool not registered", tool.CodeNotFound)
		logger.Warn("tool.call.unknown", "tool", call.Name, "function_call_id", call.ID)
	} else {
		res.Output, res.Err = e.invoke(ctx, t, call)
	}

	if err := e.callbacks.Execute(ctx, &CallbackContext{Type: CallbackAfterTool, Turn: turn, Call: call, Result: &res}); err != nil {
		res.Err = errors.Join(res.Err, err)
	}

	return res
}

// invoke runs the tool on a goroutine that adopts the call's branch context,
// returning early with the context error when the tool does not finish before
// ctx is done.
func (e *Engine) invoke(ctx context.Context, t tool.Tool, call *ToolCall) (any, error) {
	type outcome struct {
		out any
		err error
	}

	snap, err := core.Fork(ctx)
	if err != nil {
		return nil, &tool.ToolError{Tool: t.Name(), Message: err.Error(), Code: tool.CodeContext, Err: err}
	}

	done := make(chan outcome, 1)
	go func() {
		out, err := tool.Invoke(core.Adopt(ctx, snap), t, call.ID, call.Args, e.logger)
		done <- outcome{out, err}
	}()

	select {
	case o := <-done:
		return o.out, o.err
	case <-ctx.Done():
		return nil, &tool.ToolError{Tool: t.Name(), Message: ctx.Err().Error(), Code: tool.CodeExecution, Err: ctx.Err()}
	}
}

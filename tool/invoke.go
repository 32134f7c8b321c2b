package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/logging"
)

// Invoke runs t for one function call on the branch ctx belongs to. The call
// is wrapped in a "tool.<name>" span on the ambient tracer. A missing agent
// context yields a *ToolError with code CONTEXT_ERROR wrapping
// core.ErrContextNotBound; a panicking tool yields EXECUTION_ERROR.
func Invoke(ctx context.Context, t Tool, functionCallID string, args map[string]any, logger logging.Logger) (out any, err error) {
	ac, err := core.Current(ctx)
	if err != nil {
		return nil, &ToolError{Tool: t.Name(), Message: err.Error(), Code: CodeContext, Err: err}
	}

	attrs := []core.Attr{
		core.String("agent.conversation_id", ac.ConversationID()),
		core.String("tool.name", t.Name()),
		core.String("tool.function_call_id", functionCallID),
	}
	if id, ok := ac.AuthContext().Principal(); ok {
		attrs = append(attrs, core.String("agent.principal_id", id))
	}

	spanCtx, span := ac.Tracer().StartSpan(ctx, "tool."+t.Name(), attrs...)
	start := time.Now()
	callLogger := logging.With(core.LoggerFrom(ctx, logger), "function_call_id", functionCallID)

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &ToolError{Tool: t.Name(), Message: fmt.Sprintf("panic: %v", r), Code: CodeExecution}
		}
		dur := time.Since(start)
		if err != nil {
			span.RecordError(err)
		}
		span.SetAttr(core.Attr{Key: "tool.duration", Value: dur})
		span.End()
		logging.LogToolCall(callLogger, t.Name(), dur, err)
	}()

	tc, err := core.NewToolContext(spanCtx, functionCallID, logger)
	if err != nil {
		return nil, &ToolError{Tool: t.Name(), Message: err.Error(), Code: CodeContext, Err: err}
	}

	return t.Call(tc, args)
}

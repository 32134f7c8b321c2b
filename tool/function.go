package tool

import (
	"errors"
	"fmt"

	"github.com/hupe1980/agentctx/core"
)

// FunctionFunc is the signature of a function wrapped by FunctionTool.
type FunctionFunc func(toolCtx *core.ToolContext, args map[string]any) (any, error)

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// Responsibilities:
//   - Validates supplied arguments against the declared parameter schema
//   - Invokes the wrapped function with a *core.ToolContext giving access to the
//     ambient conversation, principal, tracer and logger
//   - Normalizes errors into *ToolError:
//     VALIDATION_ERROR -> schema / argument mismatch
//     EXECUTION_ERROR  -> underlying function returned a plain error
//     (custom codes preserved if the function returns *ToolError directly)
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          FunctionFunc
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	whoami := NewFunctionTool(
//	  "whoami",
//	  "Report the acting principal",
//	  map[string]any{"type": "object"},
//	  func(tc *core.ToolContext, _ map[string]any) (any, error) {
//	    return tc.PrincipalID(), nil
//	  },
//	)
func NewFunctionTool(name, description string, parameters map[string]any, fn FunctionFunc) *FunctionTool {
	if parameters == nil {
		parameters = map[string]any{"type": "object"}
	}
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Name returns the unique tool name.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates args then invokes the wrapped function.
func (t *FunctionTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	logger := toolCtx.Logger()

	logger.Debug("tool.call.start", "tool", t.name)

	if err := ValidateArgs(args, t.parameters); err != nil {
		logger.Warn("tool.call.validation_failed", "tool", t.name, "error", err.Error())

		return nil, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
			Err:     err,
		}
	}

	result, err := t.fn(toolCtx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, toolErr
		}

		return nil, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
			Err:     err,
		}
	}

	return result, nil
}

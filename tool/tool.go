// Package tool implements the plugin side of a conversation turn: tools are
// invoked with a core.ToolContext built from the ambient agent context of the
// calling branch, so they read the conversation id, the acting principal and
// the tracer without those values being passed as parameters.
package tool

import (
	"fmt"

	"github.com/hupe1980/agentctx/core"
)

// Tool is a capability an agent can invoke during a turn.
//
// Implementations must be safe for concurrent use: the engine may invoke the
// same tool from several branches at once.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Parameters returns a minimal JSON schema describing the expected input.
	Parameters() map[string]any

	// Call executes the tool with structured arguments.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// Error codes carried by ToolError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodeContext    = "CONTEXT_ERROR"
	CodeNotFound   = "NOT_FOUND"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
	Err     error  `json:"-"`                 // Wrapped cause, if any
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

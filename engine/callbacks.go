package engine

import (
	"context"
	"fmt"
	"sync"
)

// CallbackType identifies the lifecycle point at which a callback runs.
type CallbackType string

const (
	// CallbackBeforeTurn runs on the turn's branch after the agent context is
	// bound and before any tool call starts. An error aborts the turn.
	CallbackBeforeTurn CallbackType = "before_turn"

	// CallbackAfterTurn runs once every tool call has finished.
	CallbackAfterTurn CallbackType = "after_turn"

	// CallbackBeforeTool runs on the tool call's own branch. An error becomes
	// that call's result and the tool is not invoked.
	CallbackBeforeTool CallbackType = "before_tool"

	// CallbackAfterTool runs on the tool call's branch after the tool returned.
	CallbackAfterTool CallbackType = "after_tool"
)

// CallbackContext carries the data a callback may inspect. The ambient agent
// context is available from the ctx passed to Execute via core.Current.
type CallbackContext struct {
	Type   CallbackType
	Turn   *Turn
	Call   *ToolCall   // nil for turn callbacks
	Result *ToolResult // set for after_tool only
}

// Callback hooks into the turn lifecycle.
type Callback interface {
	Type() CallbackType
	Execute(ctx context.Context, cbCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	requireAuth := NewFunctionCallback(CallbackBeforeTool,
//	    func(ctx context.Context, _ *CallbackContext) error {
//	        ac, err := core.Current(ctx)
//	        if err != nil {
//	            return err
//	        }
//	        if !ac.AuthContext().IsAuthenticated() {
//	            return errors.New("unauthenticated")
//	        }
//	        return nil
//	    })
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, cbCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(t CallbackType, fn func(ctx context.Context, cbCtx *CallbackContext) error) *FunctionCallback {
	return &FunctionCallback{callbackType: t, fn: fn}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType { return c.callbackType }

// Execute calls the wrapped function.
func (c *FunctionCallback) Execute(ctx context.Context, cbCtx *CallbackContext) error {
	return c.fn(ctx, cbCtx)
}

// CallbackManager holds callbacks per type and runs them in registration
// order, stopping at the first error. It is safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{callbacks: make(map[CallbackType][]Callback)}
}

// Register adds cb under its type.
func (m *CallbackManager) Register(cb Callback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks[cb.Type()] = append(m.callbacks[cb.Type()], cb)
}

// Execute runs every callback registered for cbCtx.Type.
func (m *CallbackManager) Execute(ctx context.Context, cbCtx *CallbackContext) error {
	m.mu.RLock()
	cbs := m.callbacks[cbCtx.Type]
	m.mu.RUnlock()

	for i, cb := range cbs {
		if err := cb.Execute(ctx, cbCtx); err != nil {
			return fmt.Errorf("%s callback %d: %w", cbCtx.Type, i, err)
		}
	}

	return nil
}

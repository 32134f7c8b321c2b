// Package core provides the ambient agent context of a conversation turn and
// the store that binds it to an execution branch. It defines:
//
//   - AgentContext / AuthContext (conversation id, tracer handle, principal)
//   - Tracer / Span (the narrow instrumentation capability consumed here)
//   - Bind / Current / Fork / Adopt (branch-scoped binding and snapshot
//     handoff to newly spawned goroutines)
//   - ToolContext (the read-only surface handed to tool implementations)
//
// A branch is the chain of context.Context values flowing through one
// goroutine. Binding derives a new context and never mutates the caller's, so
// concurrent branches cannot observe each other's bindings. Spawned goroutines
// receive a Snapshot taken with Fork and install it with Adopt before reading
// ambient state.
//
// Orchestration code and tool code both depend on this package and never on
// each other.
package core

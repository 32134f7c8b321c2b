// Package agent contains the orchestration-side helpers for running work on
// concurrent execution branches that share the ambient agent context.
//
// Parallel forks the bound core.AgentContext once and hands the snapshot to
// every branch goroutine, which adopts it before running. Branches may rebind
// freely; nothing they bind is visible to the parent or to siblings.
//
// Sequential runs steps in order on a single branch. A step that binds a new
// value hands the derived context on, so later steps observe it.
//
// The package never imports tool implementations. Tools read the ambient
// context through package core only, which keeps orchestration and plugin code
// free of a dependency on each other.
package agent

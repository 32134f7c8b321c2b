// Package logging provides a minimal logging interface and adapters.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// used by the engine, the parallel fan-out and tools. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an existing *slog.Logger
//   - ScopedLogger, a slog-backed logger carrying conversation and branch attributes
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - With, ForComponent, ForConversation, ForBranch and LogToolCall, which
//     scope any Logger and use the ScopedLogger methods when given one
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	eng := engine.New(registry, func(o *engine.Options) { o.Logger = logger })
package logging

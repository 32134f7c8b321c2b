// Package tracing provides core.Tracer implementations.
//
// OTel adapts an OpenTelemetry trace.Tracer so spans opened through the ambient
// agent context join the process-wide trace. Logging writes an audit trail of
// span starts, errors and ends to a structured logger. Noop discards
// everything.
package tracing

package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/agentctx/core"
)

// tracerName is the instrumentation scope name for agent context tracing.
const tracerName = "github.com/hupe1980/agentctx"

// OTel implements core.Tracer on top of an OpenTelemetry tracer.
type OTel struct {
	tracer trace.Tracer
}

// NewOTelDefault returns a tracer backed by the global TracerProvider. If no
// provider is configured the OpenTelemetry noop tracer is used.
func NewOTelDefault() *OTel {
	return NewOTel(otel.Tracer(tracerName))
}

// NewOTel returns a tracer using the provided OpenTelemetry tracer. This
// variant allows injecting a specific TracerProvider for testing or when
// multiple providers are in use.
func NewOTel(tracer trace.Tracer) *OTel {
	return &OTel{tracer: tracer}
}

// StartSpan starts an internal span as a child of any span on ctx.
func (t *OTel) StartSpan(ctx context.Context, name string, attrs ...core.Attr) (context.Context, core.Span) {
	ctx, span := t.tracer.Start(ctx, name,
		trace.WithAttributes(convertAttrs(attrs)...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span   trace.Span
	failed bool
}

func (s *otelSpan) SetAttr(attr core.Attr) {
	s.span.SetAttributes(convertAttr(attr))
}

func (s *otelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.failed = true
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *otelSpan) End() {
	if !s.failed {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

func convertAttrs(attrs []core.Attr) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, convertAttr(a))
	}
	return out
}

func convertAttr(a core.Attr) attribute.KeyValue {
	switch v := a.Value.(type) {
	case string:
		return attribute.String(a.Key, v)
	case bool:
		return attribute.Bool(a.Key, v)
	case int:
		return attribute.Int(a.Key, v)
	case int64:
		return attribute.Int64(a.Key, v)
	case float64:
		return attribute.Float64(a.Key, v)
	case time.Duration:
		return attribute.Int64(a.Key, v.Milliseconds())
	case []string:
		return attribute.StringSlice(a.Key, v)
	case fmt.Stringer:
		return attribute.String(a.Key, v.String())
	default:
		return attribute.String(a.Key, fmt.Sprint(v))
	}
}

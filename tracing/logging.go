package tracing

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/logging"
)

// Logging is an audit tracer that writes span lifecycle entries to a logger.
// It is safe for concurrent use.
type Logging struct {
	logger logging.Logger
}

// NewLogging returns a Logging tracer. A nil logger discards everything.
func NewLogging(logger logging.Logger) *Logging {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Logging{logger: logger}
}

// StartSpan logs the span start and returns a span that logs its end.
func (t *Logging) StartSpan(ctx context.Context, name string, attrs ...core.Attr) (context.Context, core.Span) {
	s := &logSpan{logger: t.logger, name: name, start: time.Now()}
	for _, a := range attrs {
		s.attrs = append(s.attrs, a.Key, a.Value)
	}
	t.logger.Debug("span.start", s.args()...)
	return ctx, s
}

type logSpan struct {
	logger logging.Logger
	name   string
	start  time.Time

	mu    sync.Mutex
	attrs []any
	err   error
	ended bool
}

func (s *logSpan) args(extra ...any) []any {
	out := make([]any, 0, len(s.attrs)+len(extra)+2)
	out = append(out, "span", s.name)
	out = append(out, s.attrs...)
	return append(out, extra...)
}

func (s *logSpan) SetAttr(attr core.Attr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attr.Key, attr.Value)
}

func (s *logSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.logger.Warn("span.error", s.args("error", err.Error())...)
}

func (s *logSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true

	args := s.args("duration_ms", time.Since(s.start).Milliseconds(), "success", s.err == nil)
	if s.err != nil {
		s.logger.Error("span.end", args...)
		return
	}
	s.logger.Info("span.end", args...)
}

// Noop returns a tracer that discards all spans.
func Noop() core.Tracer { return core.NoopTracer{} }

package logging

import "time"

// With returns l annotated with key/value. A *ScopedLogger is cloned through
// its With method; any other Logger is wrapped so the pair is prepended to
// every entry. A nil l yields a NoOpLogger.
func With(l Logger, key string, value any) Logger {
	switch v := l.(type) {
	case nil:
		return NoOpLogger{}
	case NoOpLogger:
		return v
	case *ScopedLogger:
		return v.With(key, value)
	case fieldLogger:
		return fieldLogger{next: v.next, fields: append(append([]any{}, v.fields...), key, value)}
	default:
		return fieldLogger{next: l, fields: []any{key, value}}
	}
}

// ForComponent returns l scoped to component c.
func ForComponent(l Logger, c string) Logger {
	if sl, ok := l.(*ScopedLogger); ok {
		return sl.WithComponent(c)
	}
	return With(l, "component", c)
}

// ForConversation returns l scoped to a conversation and, when principalID is
// not empty, the acting principal.
func ForConversation(l Logger, conversationID, principalID string) Logger {
	if sl, ok := l.(*ScopedLogger); ok {
		return sl.WithConversation(conversationID, principalID)
	}
	l = With(l, "conversation_id", conversationID)
	if principalID != "" {
		l = With(l, "principal_id", principalID)
	}
	return l
}

// ForBranch returns l scoped to the execution branch path.
func ForBranch(l Logger, branch string) Logger {
	if sl, ok := l.(*ScopedLogger); ok {
		return sl.WithBranch(branch)
	}
	return With(l, "branch", branch)
}

// LogToolCall records the outcome of a tool invocation on l.
func LogToolCall(l Logger, tool string, dur time.Duration, err error) {
	if l == nil {
		return
	}
	args := []any{"tool", tool, "duration_ms", dur.Milliseconds(), "success", err == nil}
	if err != nil {
		l.Error("tool.call.failed", append(args, "error", err.Error())...)
		return
	}
	l.Info("tool.call.done", args...)
}

// fieldLogger prepends fixed key/value pairs to every entry of next.
type fieldLogger struct {
	next   Logger
	fields []any
}

func (f fieldLogger) with(args []any) []any {
	out := make([]any, 0, len(f.fields)+len(args))
	out = append(out, f.fields...)
	return append(out, args...)
}

func (f fieldLogger) Debug(msg string, args ...any) { f.next.Debug(msg, f.with(args)...) }
func (f fieldLogger) Info(msg string, args ...any)  { f.next.Info(msg, f.with(args)...) }
func (f fieldLogger) Warn(msg string, args ...any)  { f.next.Warn(msg, f.with(args)...) }
func (f fieldLogger) Error(msg string, args ...any) { f.next.Error(msg, f.with(args)...) }

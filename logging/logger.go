// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer ScopedLogger with contextual
// helpers (component, conversation, branch) and a tool call helper.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name into a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines the minimal logging interface.
// Arguments after msg are alternating key/value pairs, as with slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// ScopedLogger wraps slog.Logger adding contextual cloning helpers. It is
// cheap to copy via the With* methods, which never modify the receiver.
type ScopedLogger struct {
	logger         *slog.Logger
	level          LogLevel
	attrs          map[string]any
	component      string
	conversationID string
	principalID    string
	branch         string
}

// LoggerConfig configures construction of a ScopedLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// NewLogger builds a ScopedLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *ScopedLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return &ScopedLogger{logger: slog.New(handler), level: cfg.Level, attrs: map[string]any{}, component: cfg.Component}
}

// NewSlogLogger creates a new ScopedLogger writing to stdout.
func NewSlogLogger(level LogLevel, format string, addSource bool) *ScopedLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *ScopedLogger) clone() *ScopedLogger {
	nl := *l
	nl.attrs = make(map[string]any, len(l.attrs))
	for k, v := range l.attrs {
		nl.attrs[k] = v
	}
	return &nl
}

// With adds a key/value attribute that will be attached to every log entry.
func (l *ScopedLogger) With(key string, value any) *ScopedLogger {
	nl := l.clone()
	nl.attrs[key] = value
	return nl
}

// WithComponent sets the logical component (engine, parallel, tool, etc.).
func (l *ScopedLogger) WithComponent(c string) *ScopedLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithConversation attaches the conversation and acting principal.
func (l *ScopedLogger) WithConversation(conversationID, principalID string) *ScopedLogger {
	nl := l.clone()
	nl.conversationID = conversationID
	nl.principalID = principalID
	return nl
}

// WithBranch attaches the execution branch path.
func (l *ScopedLogger) WithBranch(branch string) *ScopedLogger {
	nl := l.clone()
	nl.branch = branch
	return nl
}

func (l *ScopedLogger) buildAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.attrs)+len(args)/2+4)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.conversationID != "" {
		attrs = append(attrs, slog.String("conversation_id", l.conversationID))
	}
	if l.principalID != "" {
		attrs = append(attrs, slog.String("principal_id", l.principalID))
	}
	if l.branch != "" {
		attrs = append(attrs, slog.String("branch", l.branch))
	}
	for k, v := range l.attrs {
		attrs = append(attrs, slog.Any(k, v))
	}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if i+1 >= len(args) {
			attrs = append(attrs, slog.Any("!BADKEY", key))
			break
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}

func (l *ScopedLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	l.logger.LogAttrs(context.Background(), level, msg, l.buildAttrs(args)...)
}

// Debug logs at debug level.
func (l *ScopedLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *ScopedLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *ScopedLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *ScopedLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogToolCall records execution details for a tool invocation.
func (l *ScopedLogger) LogToolCall(tool string, dur time.Duration, err error) {
	LogToolCall(l, tool, dur, err)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

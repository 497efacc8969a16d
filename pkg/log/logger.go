// Package log provides a structured logging system for treeindex services.
package log

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// Standard field keys.
const (
	RequestIDKey = "request_id"
	ComponentKey = "component"
	ErrorKey     = "error"
)

type ctxKey struct{}

// ContextWithRequestID returns a copy of ctx carrying the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFromContext returns the request id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
	Caller    string
}

// Logger defines the core logging interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger that always carries fields.
	With(fields ...Field) Logger
	// WithError tags logs with err under the "error" key.
	WithError(err error) Logger
	// WithContext adds the request id found in ctx, if any.
	WithContext(ctx context.Context) Logger
	// WithComponent tags logs with a component name.
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level

	// Slog exposes the same pipeline as a *slog.Logger for libraries that want one.
	Slog() *slog.Logger
}

// Formatter defines the interface for formatting log entries.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output defines the interface for log outputs.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*BaseLogger)

// sink is shared between a logger and all of its children so that SetLevel on
// any of them applies everywhere.
type sink struct {
	mu        sync.Mutex
	level     Level
	formatter Formatter
	outputs   []Output
}

func (s *sink) enabled(level Level) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return level >= s.level
}

func (s *sink) write(entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	formatted, err := s.formatter.Format(entry)
	if err != nil {
		return err
	}
	for _, out := range s.outputs {
		_ = out.Write(entry, formatted)
	}
	return nil
}

// BaseLogger implements the Logger interface.
type BaseLogger struct {
	sink   *sink
	fields Fields
}

// NewLogger creates a new logger with the given options.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{
		sink:   &sink{level: InfoLevel, formatter: &JSONFormatter{}},
		fields: Fields{},
	}
	for _, option := range options {
		option(logger)
	}
	if len(logger.sink.outputs) == 0 {
		logger.sink.outputs = append(logger.sink.outputs, NewConsoleOutput())
	}
	return logger
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) {
		l.sink.level = level
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) {
		l.sink.formatter = formatter
	}
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) {
		l.sink.outputs = append(l.sink.outputs, output)
	}
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if !l.sink.enabled(level) {
		return
	}
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	_ = l.sink.write(&Entry{
		Level:     level,
		Message:   msg,
		Fields:    merged,
		Timestamp: time.Now(),
		Caller:    callerAt(3),
	})
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With returns a child logger sharing the parent's sink.
func (l *BaseLogger) With(fields ...Field) Logger {
	child := &BaseLogger{sink: l.sink, fields: make(Fields, len(l.fields)+len(fields))}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for _, f := range fields {
		child.fields[f.Key] = f.Value
	}
	return child
}

func (l *BaseLogger) WithError(err error) Logger { return l.With(Err(err)) }

func (l *BaseLogger) WithComponent(component string) Logger { return l.With(Component(component)) }

func (l *BaseLogger) WithContext(ctx context.Context) Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return l.With(Str(RequestIDKey, id))
	}
	return l
}

func (l *BaseLogger) SetLevel(level Level) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

func (l *BaseLogger) GetLevel() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

func (l *BaseLogger) Slog() *slog.Logger {
	return slog.New(newBridgeHandler(l))
}

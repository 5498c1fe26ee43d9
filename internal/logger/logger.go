// file: internal/logger/logger.go
// version: 2.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f6a

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[LogLevel]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l LogLevel) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a level.
// Unknown names fall back to InfoLevel.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger writes "[LEVEL] message" lines through the standard log package.
// Copies made by With share the minimum level.
type Logger struct {
	minLevel *atomic.Int32
	out      *log.Logger
	prefix   string
}

func newLevel(l LogLevel) *atomic.Int32 {
	v := &atomic.Int32{}
	v.Store(int32(l))
	return v
}

// New creates a logger writing to stderr.
func New(minLevel LogLevel) *Logger {
	return NewWithWriter(minLevel, os.Stderr)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(minLevel LogLevel, w io.Writer) *Logger {
	return &Logger{
		minLevel: newLevel(minLevel),
		out:      log.New(w, "", log.LstdFlags),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{minLevel: newLevel(ErrorLevel + 1), out: log.New(io.Discard, "", 0)}
}

// Level returns the current minimum level.
func (l *Logger) Level() LogLevel {
	return LogLevel(l.minLevel.Load())
}

// SetLevel changes the minimum level for l and every logger derived from it.
func (l *Logger) SetLevel(level LogLevel) {
	l.minLevel.Store(int32(level))
}

// With returns a copy whose messages are prefixed with "component: ".
func (l *Logger) With(component string) *Logger {
	c := *l
	c.prefix = component + ": "
	return &c
}

func (l *Logger) logf(level LogLevel, format string, args ...any) {
	if level < l.Level() {
		return
	}
	l.out.Printf("[%s] %s%s", level, l.prefix, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) { l.logf(DebugLevel, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.logf(InfoLevel, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.logf(WarnLevel, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.logf(ErrorLevel, format, args...) }

// Exception logs an unexpected failure at error level with the cause and a
// goroutine stack.
func (l *Logger) Exception(err error, format string, args ...any) {
	if ErrorLevel < l.Level() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	l.out.Printf("[ERROR] %s%s\n%s", l.prefix, msg, debug.Stack())
}

// NewRequestID returns a sortable unique id for correlating log lines.
func NewRequestID() string {
	return ulid.Make().String()
}

// OperationLogger tracks the lifecycle of one identify/cover operation,
// whether it came from an HTTP handler or the CLI.
type OperationLogger struct {
	log        *Logger
	operation  string
	startTime  time.Time
	requestID  string
	resourceID string
	details    map[string]any
}

// NewOperationLogger creates a new operation logger. An empty requestID is
// replaced with a fresh ULID.
func NewOperationLogger(l *Logger, operation, requestID string) *OperationLogger {
	if requestID == "" {
		requestID = NewRequestID()
	}
	if l == nil {
		l = New(InfoLevel)
	}
	return &OperationLogger{
		log:       l,
		operation: operation,
		startTime: time.Now(),
		requestID: requestID,
		details:   make(map[string]any),
	}
}

// RequestID returns the correlation id.
func (ol *OperationLogger) RequestID() string { return ol.requestID }

// SetResourceID sets the resource (usually an ISBN) being operated on
func (ol *OperationLogger) SetResourceID(id string) {
	ol.resourceID = id
}

// AddDetail adds a contextual detail to the operation log
func (ol *OperationLogger) AddDetail(key string, value any) {
	ol.details[key] = value
}

func (ol *OperationLogger) suffix() string {
	s := ""
	if ol.resourceID != "" {
		s = fmt.Sprintf(" (resource: %s)", ol.resourceID)
	}
	if len(ol.details) > 0 {
		s += fmt.Sprintf(" %v", ol.details)
	}
	return fmt.Sprintf("%s [request-id: %s]", s, ol.requestID)
}

// LogStart logs the start of the operation
func (ol *OperationLogger) LogStart() {
	ol.log.Info("[START] %s%s", ol.operation, ol.suffix())
}

// LogSuccess logs the successful completion of the operation
func (ol *OperationLogger) LogSuccess(results int) {
	ol.log.Info("[SUCCESS] %s -> %d result(s) in %v%s",
		ol.operation, results, time.Since(ol.startTime), ol.suffix())
}

// LogError logs an error that occurred during the operation
func (ol *OperationLogger) LogError(err error) {
	ol.log.Error("[FAILED] %s in %v: %v%s",
		ol.operation, time.Since(ol.startTime), err, ol.suffix())
}

package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// VerboseLevel represents the verbosity level for logging
type VerboseLevel int

const (
	// VerboseSilent means no verbose output
	VerboseSilent VerboseLevel = 0
	// VerboseNormal means standard verbose output (-v)
	VerboseNormal VerboseLevel = 1
	// VerboseVery means detailed debugging output (-vv)
	VerboseVery VerboseLevel = 2
)

// Logger handles verbose output at different levels
type Logger struct {
	level VerboseLevel
	base  *log.Logger
}

// NewLogger creates a new logger on stderr with the specified verbosity level
func NewLogger(level int) *Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a logger that writes to w.
// Pass io.Discard for silent mode.
func NewLoggerWithWriter(level int, w io.Writer) *Logger {
	base := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           log.InfoLevel,
	})
	if level >= int(VerboseNormal) {
		base.SetLevel(log.DebugLevel)
	}
	return &Logger{level: VerboseLevel(level), base: base}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewLoggerWithWriter(0, io.Discard)
}

// With returns a child logger carrying the given key/value pairs
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{level: l.level, base: l.base.With(keyvals...)}
}

// IsVerbose returns true if verbose mode is enabled (-v or -vv)
func (l *Logger) IsVerbose() bool {
	return l.level >= VerboseNormal
}

// IsVeryVerbose returns true if very verbose mode is enabled (-vv)
func (l *Logger) IsVeryVerbose() bool {
	return l.level >= VerboseVery
}

// V logs a message at verbose level (-v)
func (l *Logger) V(format string, args ...interface{}) {
	if l.IsVerbose() {
		l.base.Debugf(format, args...)
	}
}

// VV logs a message at very verbose level (-vv)
func (l *Logger) VV(format string, args ...interface{}) {
	if l.IsVeryVerbose() {
		l.base.Debugf(format, args...)
	}
}

// Debug logs a structured message at verbose level
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	if l.IsVerbose() {
		l.base.Debug(msg, keyvals...)
	}
}

// Info logs an informational message (always shown unless silent)
func (l *Logger) Info(format string, args ...interface{}) {
	l.base.Infof(format, args...)
}

// Warn logs a warning (always shown unless silent)
func (l *Logger) Warn(format string, args ...interface{}) {
	l.base.Warnf(format, args...)
}

// Error logs an error message (always shown unless silent)
func (l *Logger) Error(format string, args ...interface{}) {
	l.base.Errorf(format, args...)
}

// Section logs a section header for very verbose mode
func (l *Logger) Section(title string) {
	if l.IsVeryVerbose() {
		l.base.Debug("=== " + title + " ===")
	}
}

// Detail logs a detail line for very verbose mode with indentation
func (l *Logger) Detail(format string, args ...interface{}) {
	if l.IsVeryVerbose() {
		l.base.Debugf("  -> "+format, args...)
	}
}

// Slog exposes the logger as a *slog.Logger for libraries that expect one
func (l *Logger) Slog() *slog.Logger {
	return slog.New(l.base)
}

// Package logger contains a leveled logger.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Level is a log level.
type Level int

// log levels.
const (
	Debug Level = iota
	Info
	Warn
	Error
)

// ParseLevel parses a log level, case-insensitively.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return Debug, nil
	case "INFO":
		return Info, nil
	case "WARN":
		return Warn, nil
	case "ERROR":
		return Error, nil
	}
	return Info, fmt.Errorf("invalid log level '%s'", level)
}

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

type output struct {
	mu sync.Mutex
	w  io.Writer
}

// Logger writes leveled lines to a writer.
// Loggers created with With share the writer of their parent.
type Logger struct {
	out    *output
	level  Level
	prefix string
}

// New allocates a Logger that writes to w the lines with at least the given level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		out:   &output{w: w},
		level: level,
	}
}

// With returns a Logger that adds a prefix to every line.
func (l *Logger) With(prefix string) *Logger {
	if l == nil {
		return nil
	}

	if l.prefix != "" {
		prefix = l.prefix + " " + prefix
	}

	return &Logger{
		out:    l.out,
		level:  l.level,
		prefix: prefix,
	}
}

// Log writes a line.
// A nil Logger discards everything.
func (l *Logger) Log(level Level, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)

	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.prefix != "" {
		fmt.Fprintf(l.out.w, "[%s] [%s] %s\n", level, l.prefix, msg)
	} else {
		fmt.Fprintf(l.out.w, "[%s] %s\n", level, msg)
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.Log(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.Log(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.Log(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.Log(Error, format, args...) }

// Package logging provides the leveled logger injected into the runner and
// the command line tool.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Logger is satisfied by *StdLogger and NoOp.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel is case-insensitive and falls back to info.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// StdLogger writes through the standard library logger.
type StdLogger struct {
	level Level
	out   *log.Logger
}

// New returns a logger writing messages at or above level to w.
func New(level string, w io.Writer) *StdLogger {
	return &StdLogger{
		level: ParseLevel(level),
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *StdLogger) Level() Level { return l.level }

func (l *StdLogger) logf(level Level, format string, v ...any) {
	if level < l.level {
		return
	}
	l.out.Printf("[%s] %s", strings.ToUpper(level.String()), fmt.Sprintf(format, v...))
}

func (l *StdLogger) Debugf(format string, v ...any) { l.logf(LevelDebug, format, v...) }
func (l *StdLogger) Infof(format string, v ...any)  { l.logf(LevelInfo, format, v...) }
func (l *StdLogger) Warnf(format string, v ...any)  { l.logf(LevelWarn, format, v...) }
func (l *StdLogger) Errorf(format string, v ...any) { l.logf(LevelError, format, v...) }

// NoOp discards everything.
type NoOp struct{}

func (NoOp) Debugf(format string, v ...any) {}
func (NoOp) Infof(format string, v ...any)  {}
func (NoOp) Warnf(format string, v ...any)  {}
func (NoOp) Errorf(format string, v ...any) {}

func NewNoOp() Logger { return NoOp{} }

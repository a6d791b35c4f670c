// Package logx implements the YAMBS_LOG_LEVEL-gated logging of spec §6.2,
// built directly on the standard log package the way the teacher's
// internal/module/action/task.go logs task execution (a bare
// log.Println("executing " + task.Name)), with level gating layered on
// since bake itself only ever logged at one level.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is one of spec §6.2's five YAMBS_LOG_LEVEL values, ordered from
// least to most verbose.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// ParseLevel maps a YAMBS_LOG_LEVEL string to a Level, defaulting to info
// per spec §6.2 for an empty or unrecognized value.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "error":
		return LevelError
	case "warn":
		return LevelWarn
	case "debug":
		return LevelDebug
	case "trace":
		return LevelTrace
	default:
		return LevelInfo
	}
}

// Logger gates a standard *log.Logger by a minimum level.
type Logger struct {
	min   Level
	inner *log.Logger
}

// New returns a Logger writing to out, emitting messages at level <= min.
func New(out io.Writer, min Level) *Logger {
	return &Logger{min: min, inner: log.New(out, "", log.LstdFlags)}
}

// FromEnv builds a Logger from YAMBS_LOG_LEVEL (spec §6.2), raised to debug
// when the CLI's --verbose flag is set.
func FromEnv(verbose bool) *Logger {
	level := ParseLevel(os.Getenv("YAMBS_LOG_LEVEL"))
	if verbose && level < LevelDebug {
		level = LevelDebug
	}
	return New(os.Stderr, level)
}

func (l *Logger) emit(level Level, prefix, format string, args ...interface{}) {
	if level > l.min {
		return
	}
	l.inner.Println(prefix + fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) { l.emit(LevelError, "[error] ", format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.emit(LevelWarn, "[warn] ", format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.emit(LevelInfo, "[info] ", format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.emit(LevelDebug, "[debug] ", format, args...) }
func (l *Logger) Tracef(format string, args ...interface{}) { l.emit(LevelTrace, "[trace] ", format, args...) }

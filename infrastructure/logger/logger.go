package logger

import (
	"fmt"
	"sync/atomic"
)

// Logger is a subsystem logger for a Backend.
type Logger struct {
	level   Level // atomic
	tag     string
	backend *Backend
}

func (l *Logger) writef(level Level, format string, args ...interface{}) {
	if l.Level() > level || !l.backend.IsRunning() {
		return
	}
	l.backend.enqueue(level, l.tag, fmt.Sprintf(format, args...))
}

func (l *Logger) write(level Level, args ...interface{}) {
	if l.Level() > level || !l.backend.IsRunning() {
		return
	}
	l.backend.enqueue(level, l.tag, fmt.Sprint(args...))
}

// Tracef formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) { l.writef(LevelTrace, format, args...) }

// Debugf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) { l.writef(LevelDebug, format, args...) }

// Infof formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) { l.writef(LevelInfo, format, args...) }

// Warnf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) { l.writef(LevelWarn, format, args...) }

// Errorf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) { l.writef(LevelError, format, args...) }

// Criticalf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.writef(LevelCritical, format, args...)
}

// Trace formats message using the default formats for its operands and writes
// to log with LevelTrace.
func (l *Logger) Trace(args ...interface{}) { l.write(LevelTrace, args...) }

// Debug formats message using the default formats for its operands and writes
// to log with LevelDebug.
func (l *Logger) Debug(args ...interface{}) { l.write(LevelDebug, args...) }

// Info formats message using the default formats for its operands and writes
// to log with LevelInfo.
func (l *Logger) Info(args ...interface{}) { l.write(LevelInfo, args...) }

// Warn formats message using the default formats for its operands and writes
// to log with LevelWarn.
func (l *Logger) Warn(args ...interface{}) { l.write(LevelWarn, args...) }

// Error formats message using the default formats for its operands and writes
// to log with LevelError.
func (l *Logger) Error(args ...interface{}) { l.write(LevelError, args...) }

// Critical formats message using the default formats for its operands and writes
// to log with LevelCritical.
func (l *Logger) Critical(args ...interface{}) { l.write(LevelCritical, args...) }

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32((*uint32)(&l.level)))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32((*uint32)(&l.level), uint32(level))
}

// Backend returns the log backend
func (l *Logger) Backend() *Backend {
	return l.backend
}

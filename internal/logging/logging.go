// Package logging provides the debug logger used across frecent. All core
// failures degrade gracefully, so the only output level that matters is
// debug chatter for diagnosing history behavior.
package logging

import (
	"log"
	"os"
	"time"
)

// Logger writes prefixed debug lines to stderr when enabled. The zero
// value is a disabled logger, safe to use.
type Logger struct {
	enabled bool
	l       *log.Logger
}

// New returns a Logger that emits output only when debug is true.
func New(debug bool) *Logger {
	return &Logger{
		enabled: debug,
		l:       log.New(os.Stderr, "[frecent] ", 0),
	}
}

// Enabled reports whether debug output is on.
func (lg *Logger) Enabled() bool {
	return lg != nil && lg.enabled
}

// Debugf logs a formatted debug line when enabled.
func (lg *Logger) Debugf(format string, args ...any) {
	if lg.Enabled() {
		lg.l.Printf(format, args...)
	}
}

// Timed logs how long an operation took. Use as:
//
//	defer lg.Timed("load history")()
func (lg *Logger) Timed(label string) func() {
	if !lg.Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		lg.l.Printf("%q took %d milliseconds", label, time.Since(start).Milliseconds())
	}
}

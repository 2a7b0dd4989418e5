// Package logger provides the zerolog backed implementation of the core
// logging interface plus a no-op variant for tests.
package logger

import corelogger "github.com/andig/evopt/core/logger"

// Logger re-exports the core interface so infra packages need only one import.
type Logger = corelogger.Logger

// New returns a component-tagged Logger. Output format and level are picked
// from the APP_ENV and LOG_LEVEL environment variables.
func New(component string) Logger {
	return NewZerologLogger(component)
}

// NopLogger discards everything. Useful as a default when no logger is wired.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

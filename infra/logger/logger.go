// Package logger provides the zerolog-backed implementation of the core
// logging interface, plus a no-op logger for wiring tests.
package logger

import corelogger "fleetsim/core/logger"

// Logger re-exports the core interface so callers import one package.
type Logger = corelogger.Logger

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns the default logger for the given component.
func New(component string) Logger {
	return NewZerolog(component)
}

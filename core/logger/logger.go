// Package logger declares the logging interface engine packages depend on.
// Concrete backends live in infra/logger so core stays free of logging
// library imports.
package logger

// Logger is the leveled logging surface of the simulation. Debugw carries
// structured per-tick fields; the printf variants cover everything else.
type Logger interface {
	Debugf(format string, args ...any)
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

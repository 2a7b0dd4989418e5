// Package logger declares the logging contract used throughout core. Concrete
// backends live in infra/logger.
package logger

// Logger is the severity-leveled logging interface. Debugw carries structured
// fields for model diagnostics; the remaining methods are printf style.
type Logger interface {
	Debugf(format string, args ...any)
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

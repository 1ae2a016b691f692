package logger

import (
	"go.uber.org/zap"
)

// Logger wraps a zap logger used across the simulator. The zero value is not
// usable; construct one with NewLogger.
type Logger struct {
	*zap.Logger
}

// NewLogger creates a development logger writing to stderr.
func NewLogger() (*Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{Logger: zapLogger}, nil
}

// NewNopLogger creates a logger that discards all output. Useful in tests and
// benchmarks where log noise is unwanted.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Sync flushes any buffered log entries. Safe to call on a logger with a nil
// inner zap logger.
func (l *Logger) Sync() error {
	if l.Logger == nil {
		return nil
	}

	return l.Logger.Sync()
}

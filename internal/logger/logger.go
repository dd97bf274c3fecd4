// Package logger builds the process logger. Stdout belongs to the
// status line, so diagnostics go to stderr, and only when debug mode
// asks for them.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a stderr logger at debug level when debug is set, and a
// no-op logger otherwise.
func New(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Package logging provides the shared zap logger and helpers that keep
// provider credentials out of log output.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Local environments get the human-readable
// development encoder at debug level; everything else gets production JSON.
func New(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	return zap.NewProduction()
}

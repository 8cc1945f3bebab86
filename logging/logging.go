package logging

import (
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the production JSON logger at the given level ("debug", "info", ...).
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return cfg.Build(zap.AddStacktrace(zap.FatalLevel))
}

func NewDevelopment() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		panic(err)
	}

	return logger
}

// WithPackage adds a package tag to the logger, using the package name of the caller.
func WithPackage(logger *zap.Logger) *zap.Logger {
	const skipOffset = 1 // skip WithPackage

	_, file, _, ok := runtime.Caller(skipOffset)
	if !ok {
		return logger
	}

	packageName := filepath.Base(filepath.Dir(file))
	return logger.With(zap.String("package", packageName))
}

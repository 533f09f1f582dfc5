package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger пишет в stdout и в ./logs/app.log. Уровень задаётся LOG_LEVEL (по умолчанию debug).
func NewLogger() *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zapcore.ParseLevel(raw); err == nil {
			level = zap.NewAtomicLevelAt(parsed)
		}
	}

	outputs := []string{"stdout"}
	if err := os.MkdirAll("./logs", 0o755); err == nil {
		outputs = append(outputs, "./logs/app.log")
	}

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            level,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	dualConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}

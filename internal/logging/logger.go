package logging

import (
	"go.uber.org/zap"
)

// NewLogger builds the structured logger used across the service.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	return cfg.Build()
}

// WithStep enriches the logger with the pipeline step and invocation id.
func WithStep(logger *zap.Logger, step, requestID string) *zap.Logger {
	fields := []zap.Field{zap.String("step", step)}
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	return logger.With(fields...)
}

package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
)

const (
	fieldRequestID = "request_id"
)

// newLogger builds the Logger for a Context. The RequestID field is included
// when the Context carries one.
func newLogger(ctx context.Context) *zap.Logger {
	logger := build()

	if v := ctx.Value(KeyRequestID); v != nil {
		logger = logger.With(zap.String(fieldRequestID, v.(string)))
	}

	return logger
}

// NewLoggerFromContext returns the Logger associated with the Context. A
// usable Logger is always returned, even when none was set.
func NewLoggerFromContext(ctx context.Context) *zap.Logger {
	v := ctx.Value(KeyLogger)

	if v == nil {
		return build()
	}

	return v.(*zap.Logger)
}

func build() *zap.Logger {
	var logger *zap.Logger
	var err error

	if os.Getenv("MARKET_LOG_FORMAT") == "DEVELOPMENT" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

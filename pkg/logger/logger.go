package logger

import (
	"context"
)

//go:generate mockgen -source=logger.go -destination=mock/logger.go -package=mock_logger

// Logger is the structured logging facade used across the service. Ctx
// derives a logger that carries the request ID stored in the context, so
// every line written while handling one request can be correlated.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)

	With(keysAndValues ...any) Logger
	Ctx(ctx context.Context) Logger

	WithRequestID(ctx context.Context, requestID string) context.Context
	GetRequestID(ctx context.Context) string
	GenerateRequestID() string
}

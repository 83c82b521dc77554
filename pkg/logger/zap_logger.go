package logger

import (
	"context"
	"fmt"
	"os"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const requestIDKey contextKey = "request_id"

var _ Logger = (*ZapLogger)(nil)

// ZapLogger writes JSON-encoded logs to stdout and a rotated file.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

func New(cfg *config.Config, opts ...Option) (*ZapLogger, error) {
	settings := defaultSettings()
	for _, opt := range opts {
		opt(settings)
	}
	if err := settings.applyConfig(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("logger.New: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		FunctionKey:   zapcore.OmitKey,
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if settings.filename != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   settings.filename,
			MaxSize:    settings.maxSize,
			MaxBackups: settings.maxBackups,
			MaxAge:     settings.maxAge,
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(sinks...),
		settings.level,
	)

	base := zap.New(core,
		zap.Fields(
			zap.String("service", cfg.App.Name),
			zap.String("env", cfg.Env),
		),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zap.ErrorLevel),
	)

	return &ZapLogger{sugar: base.Sugar()}, nil
}

// Nop returns a logger that discards everything. Intended for tests.
func Nop() Logger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *ZapLogger) Debugw(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *ZapLogger) Infow(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *ZapLogger) Warnw(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *ZapLogger) Errorw(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *ZapLogger) With(keysAndValues ...any) Logger {
	return &ZapLogger{sugar: l.sugar.With(keysAndValues...)}
}

// Ctx returns a logger annotated with the request ID from ctx, if any.
func (l *ZapLogger) Ctx(ctx context.Context) Logger {
	requestID := l.GetRequestID(ctx)
	if requestID == "" {
		return l
	}
	return &ZapLogger{sugar: l.sugar.With("request_id", requestID)}
}

func (l *ZapLogger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func (l *ZapLogger) GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func (l *ZapLogger) GenerateRequestID() string {
	return uuid.New().String()
}

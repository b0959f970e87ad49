package logx

import (
	"context"
	"strings"

	"pricerelay-service/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	traceIDKey
)

func init() {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	appCfg := config.Load()
	if appCfg.LogLevel != "" {
		_ = zapCfg.Level.UnmarshalText([]byte(strings.ToLower(appCfg.LogLevel)))
	}

	var err error
	logger, err = zapCfg.Build(zap.AddCaller(), zap.AddCallerSkip(0))
	if err != nil {
		panic(err)
	}
}

// L returns the package-level logger instance.
func L() *zap.Logger {
	return logger
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func TraceID(ctx context.Context) string {
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}

// WithFields enriches logs with the request and trace IDs carried by ctx.
func WithFields(ctx context.Context) *zap.Logger {
	l := logger
	if rid := RequestID(ctx); rid != "" {
		l = l.With(zap.String("request_id", rid))
	}
	if tid := TraceID(ctx); tid != "" {
		l = l.With(zap.String("trace_id", tid))
	}
	return l
}

package xlog

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

////////////////////////////////////////////////////////////////////////////////

type Logger interface {
	With(fields ...zap.Field) Logger
	WithName(name string) Logger
	WithCallerSkip(level int) Logger

	WithContext(ctx context.Context) *zap.Logger
	Logger() *zap.Logger
	Fmt() *zap.SugaredLogger

	Debug(ctx context.Context, msg string, fields ...zap.Field)
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Warn(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
	Fatal(ctx context.Context, msg string, fields ...zap.Field)
}

////////////////////////////////////////////////////////////////////////////////

type logger struct {
	log *zap.Logger
}

var _ Logger = (*logger)(nil)

////////////////////////////////////////////////////////////////////////////////

func New(log *zap.Logger) Logger {
	return &logger{log}
}

func NewNop() Logger {
	return &logger{zap.NewNop()}
}

func TryNew(log *zap.Logger, err error) (Logger, error) {
	if err != nil {
		return nil, err
	}
	return New(log), nil
}

func (l *logger) Logger() *zap.Logger {
	return l.log
}

func (l *logger) Fmt() *zap.SugaredLogger {
	return l.log.Sugar()
}

////////////////////////////////////////////////////////////////////////////////

func (l *logger) With(fields ...zap.Field) Logger {
	return &logger{l.log.With(fields...)}
}

func (l *logger) WithName(name string) Logger {
	return &logger{l.log.Named(name)}
}

func (l *logger) WithContext(ctx context.Context) *zap.Logger {
	return bind(l.log, ctx)
}

func (l *logger) WithCallerSkip(level int) Logger {
	return &logger{l.withCallerSkip(level)}
}

////////////////////////////////////////////////////////////////////////////////

func (l *logger) withCallerSkip(level int) *zap.Logger {
	return l.log.WithOptions(zap.AddCallerSkip(level))
}

func (l *logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.withCallerSkip(1).Debug(msg, addTraceFields(ctx, fields)...)
}

func (l *logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.withCallerSkip(1).Info(msg, addTraceFields(ctx, fields)...)
}

func (l *logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.withCallerSkip(1).Warn(msg, addTraceFields(ctx, fields)...)
}

func (l *logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.withCallerSkip(1).Error(msg, addTraceFields(ctx, fields)...)
}

func (l *logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.withCallerSkip(1).Fatal(msg, addTraceFields(ctx, fields)...)
}

func addTraceFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	span := trace.SpanContextFromContext(ctx)
	if span.HasTraceID() {
		fields = append(fields, zap.String("trace.id", span.TraceID().String()))
	}
	if span.HasSpanID() {
		fields = append(fields, zap.String("span.id", span.SpanID().String()))
	}
	return fields
}

////////////////////////////////////////////////////////////////////////////////

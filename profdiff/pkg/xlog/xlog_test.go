package xlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core)), logs
}

func TestFieldsAndNames(t *testing.T) {
	l, logs := newObserved()
	l.WithName("matcher").With(zap.String("method", "foo()")).Info(context.Background(), "Matched", zap.Int("pairs", 2))

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "matcher", entries[0].LoggerName)
	require.Equal(t, "Matched", entries[0].Message)
	require.Equal(t, map[string]any{"method": "foo()", "pairs": int64(2)}, entries[0].ContextMap())
}

func TestTraceFields(t *testing.T) {
	l, logs := newObserved()
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	l.Warn(ctx, "Load failed")
	l.WithContext(ctx).Debug("bound")

	entries := logs.All()
	require.Len(t, entries, 2)
	for _, entry := range entries {
		fields := entry.ContextMap()
		require.Equal(t, spanCtx.TraceID().String(), fields["trace.id"])
		require.Equal(t, spanCtx.SpanID().String(), fields["span.id"])
	}
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Error(context.Background(), "ignored")
	require.NotNil(t, l.Logger())
}

func TestTryNew(t *testing.T) {
	_, err := TryNew(nil, context.Canceled)
	require.ErrorIs(t, err, context.Canceled)

	l, err := TryNew(zap.NewNop(), nil)
	require.NoError(t, err)
	require.NotNil(t, l)
}

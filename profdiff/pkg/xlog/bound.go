package xlog

import (
	"context"

	"go.uber.org/zap"
)

////////////////////////////////////////////////////////////////////////////////

// bind returns a logger which carries the trace fields of ctx on every entry.
func bind(log *zap.Logger, ctx context.Context) *zap.Logger {
	fields := addTraceFields(ctx, nil)
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

////////////////////////////////////////////////////////////////////////////////

package maxprocs

import (
	"context"
	"fmt"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/yandex/profdiff/profdiff/pkg/xlog"
)

// Adjust sets GOMAXPROCS to match the container CPU quota and returns the function restoring
// the previous value. The tree preloader sizes its default parallelism from GOMAXPROCS.
func Adjust(logger xlog.Logger) func() {
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(context.Background(), fmt.Sprintf(format, args...))
	}))
	if err != nil {
		logger.Warn(context.Background(), "Failed to set GOMAXPROCS", zap.Error(err))
		return func() {}
	}
	return undo
}

package experiment

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yandex/profdiff/profdiff/pkg/xlog"
)

// PreloadTrees loads the trees of the units using at most jobs goroutines.
// A failure to load one unit is cached on the unit and logged; only cancellation of ctx is returned.
func PreloadTrees(ctx context.Context, logger xlog.Logger, units []*CompilationUnit, jobs int) error {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, unit := range units {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := unit.Trees(); err != nil {
				logger.Warn(gctx, "Failed to load compilation trees",
					zap.String("compilation_id", unit.CompilationID),
					zap.String("method", unit.MethodName),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

package command

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/internal/matching"
	"github.com/yandex/profdiff/profdiff/internal/parse"
	"github.com/yandex/profdiff/profdiff/internal/report"
	"github.com/yandex/profdiff/profdiff/pkg/xlog"
)

type Options struct {
	HotPolicy experiment.HotCompilationUnitPolicy
	Report    report.Options
	Profile   parse.ProfileOptions
	Jobs      int
}

// Input locates the data of one experiment. Profile may be empty.
type Input struct {
	OptimizationLog string
	Profile         string
}

// Runner reads experiments, selects their hot compilations and writes reports.
type Runner struct {
	logger  xlog.Logger
	options Options
	out     io.Writer
}

func NewRunner(logger xlog.Logger, options Options, out io.Writer) *Runner {
	return &Runner{logger: logger, options: options, out: out}
}

// Report writes the hot compilations of a single experiment compiled with the given kind.
func (r *Runner) Report(ctx context.Context, input Input, kind experiment.CompilationKind) error {
	e, err := r.readExperiment(ctx, experiment.ExperimentIDOne, kind, input)
	if err != nil {
		return err
	}

	w := report.NewWriter(r.out, r.options.Report)
	w.WriteExperiment(e)
	return w.Err()
}

// Compare matches the hot methods of two experiments and writes their differences.
// When a JIT experiment is compared with an AOT one, the AOT compilations are split into fragments
// at the callsites of methods which are hot in the JIT experiment.
func (r *Runner) Compare(ctx context.Context, first, second Input, firstKind, secondKind experiment.CompilationKind) error {
	e1, err := r.readExperiment(ctx, experiment.ExperimentIDOne, firstKind, first)
	if err != nil {
		return err
	}
	e2, err := r.readExperiment(ctx, experiment.ExperimentIDTwo, secondKind, second)
	if err != nil {
		return err
	}

	if firstKind == experiment.CompilationKindJIT && secondKind == experiment.CompilationKindAOT {
		created := experiment.NewFragmentCreator(r.logger).CreateFragments(ctx, e2, e1)
		r.logger.Info(ctx, "Created compilation fragments", zap.Int("count", created))
	}

	w := report.NewWriter(r.out, r.options.Report)
	w.WriteExperimentPair(matching.NewExperimentPair(e1, e2))
	return w.Err()
}

func (r *Runner) readExperiment(ctx context.Context, id experiment.ID, kind experiment.CompilationKind, input Input) (*experiment.Experiment, error) {
	e, err := parse.ReadExperiment(ctx, r.logger, parse.ExperimentOptions{
		ID:                  id,
		CompilationKind:     kind,
		OptimizationLogPath: input.OptimizationLog,
		ProfilePath:         input.Profile,
		Profile:             r.options.Profile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment %s: %w", id, err)
	}

	if err := r.options.HotPolicy.Apply(e); err != nil {
		return nil, err
	}

	hot := e.HotCompilationUnits()
	if err := experiment.PreloadTrees(ctx, r.logger, hot, r.options.Jobs); err != nil {
		return nil, err
	}
	r.logger.Debug(ctx, "Loaded hot compilations",
		zap.Stringer("experiment", id),
		zap.Int("count", len(hot)),
	)
	return e, nil
}

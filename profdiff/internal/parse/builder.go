package parse

import (
	"context"

	"go.uber.org/zap"

	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/pkg/xlog"
)

type ExperimentOptions struct {
	ID                  experiment.ID
	CompilationKind     experiment.CompilationKind
	OptimizationLogPath string
	// ProfilePath is optional; without a profile every compilation has zero period.
	ProfilePath string
	Profile     ProfileOptions
}

// ReadExperiment builds an experiment from an optimization log and a profile.
// JIT compilations take the period of their compilation id. AOT compilations fall back to the period
// of the compiled method when the profile carries no compilation ids for them.
func ReadExperiment(ctx context.Context, logger xlog.Logger, options ExperimentOptions) (*experiment.Experiment, error) {
	logger = logger.With(zap.Stringer("experiment", options.ID))

	records, err := ReadOptimizationLog(ctx, logger, options.OptimizationLogPath)
	if err != nil {
		return nil, err
	}

	e := experiment.New(options.ID, options.CompilationKind)
	e.OptimizationLogPath = options.OptimizationLogPath
	e.ProfilePath = options.ProfilePath

	var prof *Profile
	if options.ProfilePath != "" {
		prof, err = ReadProfile(options.ProfilePath, options.Profile)
		if err != nil {
			return nil, err
		}
		e.ExecutionID = prof.ExecutionID
		e.TotalPeriod = prof.TotalPeriod
		e.CompilerPeriod = prof.CompilerPeriod
	}

	periods := newPeriodAttribution(prof, options.CompilationKind)
	for _, record := range records {
		e.AddCompilationUnit(record.CompilationID, record.MethodName, periods.unitPeriod(record), record.Loader)
	}

	logger.Info(ctx, "Read experiment",
		zap.String("optimization_log", options.OptimizationLogPath),
		zap.String("profile", options.ProfilePath),
		zap.Stringer("compilation_kind", options.CompilationKind),
		zap.Int("compilations", len(records)),
		zap.Int64("total_period", e.TotalPeriod),
	)
	return e, nil
}

// periodAttribution assigns profile periods to compilation units. The period of a method is given
// to the first unit of the method only; later multi-method variants get zero.
type periodAttribution struct {
	profile *Profile
	kind    experiment.CompilationKind
	claimed map[string]bool
}

func newPeriodAttribution(prof *Profile, kind experiment.CompilationKind) *periodAttribution {
	return &periodAttribution{profile: prof, kind: kind, claimed: make(map[string]bool)}
}

func (a *periodAttribution) unitPeriod(record *Record) int64 {
	if a.profile == nil {
		return 0
	}
	if period, found := a.profile.CompilationPeriods[record.CompilationID]; found {
		return period
	}
	if a.kind != experiment.CompilationKindAOT {
		return 0
	}

	name, _ := experiment.SplitMultiMethodName(record.MethodName)
	if a.claimed[name] {
		return 0
	}
	a.claimed[name] = true
	return a.profile.MethodPeriod(a.kind.String(), name)
}

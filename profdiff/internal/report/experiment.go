package report

import (
	"github.com/yandex/profdiff/profdiff/internal/contexttree"
	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/internal/matching"
)

// WriteExperimentSummary writes the header of an experiment.
func (w *Writer) WriteExperimentSummary(e *experiment.Experiment) {
	w.Section(func() {
		if e.ExecutionID != "" {
			w.Writeln("Execution ID: %s", e.ExecutionID)
		}
		w.Writeln("Source: %s", e.Source())
		w.Writeln("Total period: %s", formatPeriod(e.TotalPeriod))
		w.Writeln("Compiler period: %s (%s of total)", formatPeriod(e.CompilerPeriod), formatShare(e.CompilerPeriod, e.TotalPeriod))
		w.Writeln("Compilation units: %d, hot: %d", len(e.CompilationUnits()), len(e.HotCompilationUnits()))
	}, "Experiment %s (%s)", e.ID, e.CompilationKind)
}

// WriteExperiment writes the hot compilation units of every hot method of an experiment.
func (w *Writer) WriteExperiment(e *experiment.Experiment) {
	w.WriteExperimentSummary(e)
	for _, method := range e.Methods() {
		if !method.IsHot() {
			continue
		}
		w.Newline()
		w.Section(func() {
			w.writeMethodSummary(method)
			for _, unit := range method.HotCompilationUnits() {
				w.WriteCompilationUnit(unit)
			}
		}, "Method %s", method.Name)
	}
}

func (w *Writer) writeMethodSummary(method *experiment.Method) {
	e := method.Experiment()
	w.Writeln("In experiment %s: %d compilation units (%d hot), period %s (%s of total)",
		e.ID,
		len(method.CompilationUnits()),
		len(method.HotCompilationUnits()),
		formatPeriod(method.TotalPeriod()),
		formatShare(method.TotalPeriod(), e.TotalPeriod),
	)
}

func (w *Writer) writeUnitHeader(unit *experiment.CompilationUnit) {
	w.Writeln("%s", describeUnit(unit))
}

func describeUnit(unit *experiment.CompilationUnit) string {
	e := unit.Experiment()
	res := "Compilation unit " + unit.CompilationID
	if key := unit.MultiMethodKey(); key != "" {
		res += " (" + key + ")"
	}
	res += " in experiment " + e.ID.String()
	if fragment, ok := unit.Fragment(); ok {
		res += ", a fragment of compilation " + fragment.Parent().CompilationID + " at " + fragment.Path().String()
	}
	return res + " consumed " + formatPeriod(unit.Period) + " (" + formatShare(unit.Period, e.TotalPeriod) + " of total)"
}

// WriteCompilationUnit writes the trees of one compilation.
func (w *Writer) WriteCompilationUnit(unit *experiment.CompilationUnit) {
	w.writeUnitHeader(unit)
	w.Indent()
	defer w.Outdent()

	trees, err := unit.Trees()
	if err != nil {
		w.Writeln("Trees unavailable: %v", err)
		return
	}
	if w.options.OptimizationContextTree {
		w.WriteContextTree(contexttree.Build(trees.Inlining, trees.Optimization))
		return
	}
	w.WriteInliningTree(trees.Inlining)
	w.WriteOptimizationTree(trees.Optimization)
}

////////////////////////////////////////////////////////////////////////////////

// WriteExperimentPair writes the comparison of two experiments: the hot methods by descending period,
// their paired compilations, and the compilations without a counterpart.
func (w *Writer) WriteExperimentPair(pair *matching.ExperimentPair) {
	w.WriteExperimentSummary(pair.First())
	w.Newline()
	w.WriteExperimentSummary(pair.Second())

	for _, methodPair := range pair.HotMethodPairsByDescendingPeriod() {
		w.Newline()
		w.Section(func() {
			w.writeMethodPair(methodPair)
		}, "Method %s", methodPair.Name)
	}
}

func (w *Writer) writeMethodPair(methodPair *matching.MethodPair) {
	for _, id := range []experiment.ID{experiment.ExperimentIDOne, experiment.ExperimentIDTwo} {
		if method := methodPair.Method(id); method != nil {
			w.writeMethodSummary(method)
		} else {
			w.Writeln("Not compiled in experiment %s", id)
		}
	}

	for _, unitPair := range methodPair.CompilationUnitPairs() {
		if !unitPair.IsMatched() {
			if unitPair.First != nil {
				w.WriteCompilationUnit(unitPair.First)
			} else {
				w.WriteCompilationUnit(unitPair.Second)
			}
			continue
		}
		w.WriteCompilationUnitPair(unitPair)
	}
}

// WriteCompilationUnitPair writes either the difference of two compilations or both of them,
// depending on Options.DiffCompilations.
func (w *Writer) WriteCompilationUnitPair(pair *matching.CompilationUnitPair) {
	if !w.options.DiffCompilations {
		w.WriteCompilationUnit(pair.First)
		w.WriteCompilationUnit(pair.Second)
		return
	}

	w.Writeln("%s", describeUnit(pair.First))
	w.Writeln("%s", describeUnit(pair.Second))
	w.Indent()
	defer w.Outdent()

	first, err := pair.First.Trees()
	if err != nil {
		w.Writeln("Trees unavailable: %v", err)
		return
	}
	second, err := pair.Second.Trees()
	if err != nil {
		w.Writeln("Trees unavailable: %v", err)
		return
	}

	first.Optimization = w.prepareOptimizationTree(first.Optimization)
	second.Optimization = w.prepareOptimizationTree(second.Optimization)
	optimizations := matching.SetBasedOptimizationMatcher{}.Match(first.Optimization.Optimizations(), second.Optimization.Optimizations())
	w.Writeln("Optimizations: %d equal, %d only in experiment %s, %d only in experiment %s",
		len(optimizations.Matched()),
		len(optimizations.Unmatched(experiment.ExperimentIDOne)), experiment.ExperimentIDOne,
		len(optimizations.Unmatched(experiment.ExperimentIDTwo)), experiment.ExperimentIDTwo,
	)

	if w.options.OptimizationContextTree {
		w.WriteContextDelta(
			contexttree.Build(first.Inlining, first.Optimization),
			contexttree.Build(second.Inlining, second.Optimization),
		)
		return
	}
	w.WriteInliningDelta(first.Inlining, second.Inlining)
	w.WriteOptimizationDelta(first.Optimization, second.Optimization)
}

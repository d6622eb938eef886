package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/internal/inlining"
	"github.com/yandex/profdiff/profdiff/internal/matching"
	"github.com/yandex/profdiff/profdiff/internal/optimization"
	"github.com/yandex/profdiff/profdiff/internal/position"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func callsite(name string, bci int, inlined bool, reasons []string, children ...*inlining.Node) *inlining.Node {
	n := &inlining.Node{MethodName: name, BCI: bci, Inlined: inlined, Reasons: reasons, Alive: true}
	for _, child := range children {
		tree.AddChild(n, child)
	}
	return n
}

func phase(name string, children ...optimization.Node) *optimization.Phase {
	p := optimization.NewPhase(name)
	for _, child := range children {
		tree.AddChild[optimization.Node](p, child)
	}
	return p
}

func trees(bInlined bool, event string) experiment.TreePair {
	reasons := []string{"trivial"}
	if !bInlined {
		reasons = []string{"too large"}
	}
	root := callsite("a()", position.RootBCI, false, nil,
		callsite("b()", 1, bInlined, reasons),
		callsite("c()", 2, true, nil),
	)
	optimizations := phase("RootPhase",
		phase("LoopPhase",
			optimization.NewOptimization("Loop", event, position.New(position.Frame{MethodName: "a()", BCI: 3}), nil),
		),
	)
	return experiment.TreePair{Inlining: inlining.NewTree(root), Optimization: optimization.NewTree(optimizations)}
}

func loader(pair experiment.TreePair) experiment.TreeLoader {
	return experiment.TreeLoaderFunc(func() (experiment.TreePair, error) {
		return pair, nil
	})
}

func TestWriteInliningTree(t *testing.T) {
	root := callsite("a()", position.RootBCI, false, nil, callsite("b()", 1, true, []string{"trivial"}))
	indirect := &inlining.Node{
		MethodName: "I.m()",
		BCI:        4,
		Indirect:   true,
		Alive:      true,
		Reasons:    []string{"megamorphic"},
		ReceiverTypeProfile: &inlining.ReceiverTypeProfile{
			Mature:        true,
			ProfiledTypes: []inlining.ProfiledType{{TypeName: "A", Probability: 0.5, ConcreteMethodName: "A.m()"}},
		},
	}
	tree.AddChild(root, indirect)

	var buf bytes.Buffer
	NewWriter(&buf, Options{}).WriteInliningTree(inlining.NewTree(root))
	require.Equal(t, lines(
		"Inlining tree",
		"    (direct) a()",
		"        (inlined) b() at bci 1 [trivial]",
		"        (indirect) I.m() at bci 4 [megamorphic]",
		"            |_ mature receiver-type profile",
		"                 50.00% A -> A.m()",
	), buf.String())

	buf.Reset()
	NewWriter(&buf, Options{}).WriteInliningTree(inlining.NewTree(nil))
	require.Equal(t, lines("Inlining tree", "    (not recorded)"), buf.String())
}

func TestWriteOptimizationTree(t *testing.T) {
	build := func() *optimization.Tree {
		return optimization.NewTree(phase("RootPhase",
			phase("CanonicalizerPhase",
				optimization.NewOptimization("Canonicalizer", "b", position.New(position.Frame{MethodName: "b()", BCI: 2}, position.Frame{MethodName: "a()", BCI: 1}), map[string]any{"z": 1, "a": "x"}),
				optimization.NewOptimization("Canonicalizer", "a", nil, nil),
			),
		))
	}

	var buf bytes.Buffer
	NewWriter(&buf, Options{SortUnorderedPhases: true}).WriteOptimizationTree(build())
	require.Equal(t, lines(
		"Optimization tree",
		"    RootPhase",
		"        CanonicalizerPhase",
		"            Canonicalizer a",
		"            Canonicalizer b at bci 2 with {a: x, z: 1}",
	), buf.String())

	buf.Reset()
	NewWriter(&buf, Options{BCILongForm: true}).WriteOptimizationTree(build())
	require.Equal(t, lines(
		"Optimization tree",
		"    RootPhase",
		"        CanonicalizerPhase",
		"            Canonicalizer b at bci {b(): 2, a(): 1} with {a: x, z: 1}",
		"            Canonicalizer a",
	), buf.String())
}

func TestSortingKeepsCachedTrees(t *testing.T) {
	unordered := func() experiment.TreePair {
		pair := trees(true, "PartialUnroll")
		pair.Optimization = optimization.NewTree(phase("RootPhase",
			phase("CanonicalizerPhase",
				optimization.NewOptimization("Canonicalizer", "b", nil, nil),
				optimization.NewOptimization("Canonicalizer", "a", nil, nil),
			),
		))
		return pair
	}
	events := func(unit *experiment.CompilationUnit) []string {
		trees, err := unit.Trees()
		require.NoError(t, err)
		res := []string{}
		for _, o := range trees.Optimization.Optimizations() {
			res = append(res, o.Event)
		}
		return res
	}

	first := experiment.New(experiment.ExperimentIDOne, experiment.CompilationKindJIT)
	second := experiment.New(experiment.ExperimentIDTwo, experiment.CompilationKindJIT)
	pair := &matching.CompilationUnitPair{
		First:  first.AddCompilationUnit("1", "a()", 0, loader(unordered())),
		Second: second.AddCompilationUnit("2", "a()", 0, loader(unordered())),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultOptions())
	w.WriteCompilationUnit(pair.First)
	w.WriteCompilationUnitPair(pair)
	require.NoError(t, w.Err())
	require.Contains(t, buf.String(), lines(
		"                Canonicalizer a",
		"                Canonicalizer b",
	))

	require.Equal(t, []string{"b", "a"}, events(pair.First))
	require.Equal(t, []string{"b", "a"}, events(pair.Second))
}

func TestWriteCompilationUnitPairDiff(t *testing.T) {
	first := experiment.New(experiment.ExperimentIDOne, experiment.CompilationKindJIT)
	first.TotalPeriod = 100
	second := experiment.New(experiment.ExperimentIDTwo, experiment.CompilationKindJIT)
	second.TotalPeriod = 80

	pair := &matching.CompilationUnitPair{
		First:  first.AddCompilationUnit("1", "a()", 30, loader(trees(true, "PartialUnroll"))),
		Second: second.AddCompilationUnit("2", "a()", 40, loader(trees(false, "FullUnroll"))),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultOptions())
	w.WriteCompilationUnitPair(pair)
	require.NoError(t, w.Err())
	require.Equal(t, lines(
		"Compilation unit 1 in experiment 1 consumed 30 (30.00% of total)",
		"Compilation unit 2 in experiment 2 consumed 40 (50.00% of total)",
		"    Optimizations: 0 equal, 1 only in experiment 1, 1 only in experiment 2",
		"    Inlining tree diff",
		"        . (direct) a()",
		"            * (inlined) b() at bci 1 [trivial] -> (direct) b() at bci 1 [too large]",
		"    Optimization tree diff",
		"        . RootPhase",
		"            . LoopPhase",
		"                - Loop PartialUnroll at bci 3",
		"                + Loop FullUnroll at bci 3",
	), buf.String())
}

func TestWriteCompilationUnitPairWithoutDifferences(t *testing.T) {
	first := experiment.New(experiment.ExperimentIDOne, experiment.CompilationKindJIT)
	second := experiment.New(experiment.ExperimentIDTwo, experiment.CompilationKindJIT)
	pair := &matching.CompilationUnitPair{
		First:  first.AddCompilationUnit("1", "a()", 0, loader(trees(true, "PartialUnroll"))),
		Second: second.AddCompilationUnit("2", "a()", 0, loader(trees(true, "PartialUnroll"))),
	}

	var buf bytes.Buffer
	options := DefaultOptions()
	options.OptimizationContextTree = true
	NewWriter(&buf, options).WriteCompilationUnitPair(pair)
	require.Equal(t, lines(
		"Compilation unit 1 in experiment 1 consumed 0 (n/a of total)",
		"Compilation unit 2 in experiment 2 consumed 0 (n/a of total)",
		"    Optimizations: 1 equal, 0 only in experiment 1, 0 only in experiment 2",
		"    Optimization-context tree diff",
		"        (no differences)",
	), buf.String())
}

func TestWriteCompilationUnitContextTree(t *testing.T) {
	e := experiment.New(experiment.ExperimentIDOne, experiment.CompilationKindJIT)
	e.TotalPeriod = 60
	unit := e.AddCompilationUnit("1", "a()", 30, loader(trees(true, "PartialUnroll")))

	var buf bytes.Buffer
	NewWriter(&buf, Options{OptimizationContextTree: true}).WriteCompilationUnit(unit)
	require.Equal(t, lines(
		"Compilation unit 1 in experiment 1 consumed 30 (50.00% of total)",
		"    Optimization-context tree",
		"        Optimization-context tree",
		"            (direct) a()",
		"                (inlined) b() at bci 1 [trivial]",
		"                (inlined) c() at bci 2",
		"                LoopPhase",
		"                    Loop PartialUnroll at bci 3",
	), buf.String())
}

func TestWriteCompilationUnitLoadFailure(t *testing.T) {
	e := experiment.New(experiment.ExperimentIDOne, experiment.CompilationKindJIT)
	unit := e.AddCompilationUnit("7", "a()", 0, experiment.TreeLoaderFunc(func() (experiment.TreePair, error) {
		return experiment.TreePair{}, errors.New("truncated log")
	}))

	var buf bytes.Buffer
	NewWriter(&buf, Options{}).WriteCompilationUnit(unit)
	require.Equal(t, lines(
		"Compilation unit 7 in experiment 1 consumed 0 (n/a of total)",
		"    Trees unavailable: failed to load trees of compilation 7: truncated log",
	), buf.String())
}

func TestWriteExperimentPair(t *testing.T) {
	first := experiment.New(experiment.ExperimentIDOne, experiment.CompilationKindJIT)
	first.TotalPeriod = 100
	first.AddCompilationUnit("1", "a()", 30, loader(trees(true, "PartialUnroll"))).SetHot(true)
	first.AddCompilationUnit("3", "only1()", 10, loader(trees(true, "PartialUnroll"))).SetHot(true)
	second := experiment.New(experiment.ExperimentIDTwo, experiment.CompilationKindAOT)
	second.TotalPeriod = 100
	second.AddCompilationUnit("2", "a()", 30, loader(trees(true, "PartialUnroll"))).SetHot(true)

	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultOptions())
	w.WriteExperimentPair(matching.NewExperimentPair(first, second))
	require.NoError(t, w.Err())

	out := buf.String()
	require.Contains(t, out, "Experiment 1 (jit)\n")
	require.Contains(t, out, "Experiment 2 (aot)\n")
	require.Contains(t, out, "\nMethod a()\n    In experiment 1: 1 compilation units (1 hot), period 30 (30.00% of total)\n")
	require.Contains(t, out, "\nMethod only1()\n    In experiment 1: 1 compilation units (1 hot), period 10 (10.00% of total)\n    Not compiled in experiment 2\n")
	require.Less(t, strings.Index(out, "Method a()"), strings.Index(out, "Method only1()"))
	require.Contains(t, out, "        (no differences)\n")
}

func TestWriteExperiment(t *testing.T) {
	e := experiment.New(experiment.ExperimentIDOne, experiment.CompilationKindJIT)
	e.ExecutionID = "run-1"
	e.OptimizationLogPath = "log.txt"
	e.TotalPeriod = 100
	e.CompilerPeriod = 40
	e.AddCompilationUnit("1", "a()", 30, loader(trees(true, "PartialUnroll"))).SetHot(true)
	e.AddCompilationUnit("2", "cold()", 10, nil)

	var buf bytes.Buffer
	NewWriter(&buf, Options{}).WriteExperiment(e)
	out := buf.String()
	require.True(t, strings.HasPrefix(out, lines(
		"Experiment 1 (jit)",
		"    Execution ID: run-1",
		"    Source: log.txt",
		"    Total period: 100",
		"    Compiler period: 40 (40.00% of total)",
		"    Compilation units: 2, hot: 1",
		"",
		"Method a()",
	)), out)
	require.NotContains(t, out, "cold()")
	require.Contains(t, out, "    Compilation unit 1 in experiment 1 consumed 30 (30.00% of total)\n        Inlining tree\n")
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestWriterKeepsFirstError(t *testing.T) {
	out := &failingWriter{}
	w := NewWriter(out, Options{})
	w.Writeln("first")
	w.Writeln("second")
	w.Newline()
	require.EqualError(t, w.Err(), "disk full")
	require.Equal(t, 1, out.writes)
}

func TestFormatShare(t *testing.T) {
	require.Equal(t, "n/a", formatShare(1, 0))
	require.Equal(t, "33.33%", formatShare(1, 3))
	require.Equal(t, "1,234,567", formatPeriod(1234567))
}

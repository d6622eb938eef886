package optimization

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yandex/profdiff/profdiff/internal/position"
	"github.com/yandex/profdiff/profdiff/internal/treediff"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

func phase(name string, children ...Node) *Phase {
	p := NewPhase(name)
	for _, child := range children {
		tree.AddChild[Node](p, child)
	}
	return p
}

func opt(name, event string, bci int, properties map[string]any) *Optimization {
	return NewOptimization(name, event, position.New(position.Frame{MethodName: "foo()", BCI: bci}), properties)
}

func TestOptimizationEquality(t *testing.T) {
	a := opt("LoopTransformation", "PartialUnroll", 3, map[string]any{"unrollFactor": 2.0, "b": "x"})
	b := opt("LoopTransformation", "PartialUnroll", 3, map[string]any{"b": "x", "unrollFactor": 2.0})
	require.True(t, a.Equal(b))
	require.Equal(t, a.Key(), b.Key())

	require.False(t, a.Equal(opt("LoopTransformation", "PartialUnroll", 4, a.Properties)))
	require.False(t, a.Equal(opt("LoopTransformation", "FullUnroll", 3, a.Properties)))
	require.False(t, a.Equal(opt("LoopTransformation", "PartialUnroll", 3, map[string]any{"unrollFactor": 4.0})))

	noPosition := NewOptimization("Canonicalizer", "CanonicalReplacement", nil, nil)
	emptyPosition := NewOptimization("Canonicalizer", "CanonicalReplacement", position.Empty, map[string]any{})
	require.True(t, noPosition.Equal(emptyPosition))
}

func TestOptimizationKeyFollowsFrames(t *testing.T) {
	nested := position.New(position.Frame{MethodName: "a()", BCI: 1}, position.Frame{MethodName: "b()", BCI: 2})
	odd := position.New(position.Frame{MethodName: "a(): 1, b()", BCI: 2})
	require.Equal(t, nested.String(), odd.String())

	a := NewOptimization("Canonicalizer", "CanonicalReplacement", nested, nil)
	b := NewOptimization("Canonicalizer", "CanonicalReplacement", odd, nil)
	require.False(t, a.Equal(b))
	require.NotEqual(t, a.Key(), b.Key())

	noPosition := NewOptimization("Canonicalizer", "CanonicalReplacement", nil, nil)
	emptyPosition := NewOptimization("Canonicalizer", "CanonicalReplacement", position.Empty, map[string]any{})
	require.Equal(t, noPosition.Key(), emptyPosition.Key())
}

func TestNodesEqual(t *testing.T) {
	require.True(t, NodesEqual(NewPhase("A"), NewPhase("A")))
	require.False(t, NodesEqual(NewPhase("A"), NewPhase("B")))
	require.False(t, NodesEqual(NewPhase("A"), opt("A", "B", 1, nil)))
	require.False(t, NodesEqual(opt("A", "B", 1, nil), NewPhase("A")))
}

func TestOptimizationsPreorder(t *testing.T) {
	o1, o2, o3 := opt("A", "a", 1, nil), opt("B", "b", 2, nil), opt("C", "c", 3, nil)
	root := phase("RootPhase",
		phase("HighTier", o1, phase("LoopPhase", o2)),
		o3,
	)
	require.Equal(t, []*Optimization{o1, o2, o3}, NewTree(root).Optimizations())
	require.Nil(t, NewTree(nil).Optimizations())
}

func TestSortUnorderedPhases(t *testing.T) {
	root := phase("RootPhase",
		phase("CanonicalizerPhase", opt("Canonicalizer", "b", 2, nil), opt("Canonicalizer", "a", 5, nil), opt("Canonicalizer", "a", 1, nil)),
		phase("LoopPhase", opt("Loop", "z", 1, nil), opt("Loop", "a", 1, nil)),
	)
	tr := NewTree(root)
	tr.SortUnorderedPhases()

	events := []string{}
	for _, o := range tr.Optimizations() {
		events = append(events, o.Event+"@"+position.Normalize(o.Position).String())
	}
	require.Equal(t, []string{"a@{foo(): 1}", "a@{foo(): 5}", "b@{foo(): 2}", "z@{foo(): 1}", "a@{foo(): 1}"}, events)
}

func TestSortedUnorderedPhasesLeavesTreeIntact(t *testing.T) {
	tr := NewTree(phase("RootPhase",
		phase("CanonicalizerPhase", opt("Canonicalizer", "b", 2, nil), opt("Canonicalizer", "a", 5, nil)),
	))
	original := tr.Optimizations()

	sorted := tr.SortedUnorderedPhases()
	require.Equal(t, original, tr.Optimizations())

	events := []string{}
	for _, o := range sorted.Optimizations() {
		events = append(events, o.Event)
	}
	require.Equal(t, []string{"a", "b"}, events)

	tr.SortUnorderedPhases()
	require.True(t, tr.Equal(sorted))
	require.True(t, NewTree(nil).SortedUnorderedPhases().IsEmpty())
}

func TestTreeEqual(t *testing.T) {
	build := func(event string) *Tree {
		return NewTree(phase("RootPhase", phase("LoopPhase", opt("Loop", event, 1, nil))))
	}
	require.True(t, build("a").Equal(build("a")))
	require.False(t, build("a").Equal(build("b")))
	require.True(t, NewTree(nil).Equal(nil))
	require.False(t, build("a").Equal(NewTree(nil)))
}

func TestEditPolicyNeverRelabels(t *testing.T) {
	first := phase("RootPhase", opt("Loop", "a", 1, nil))
	second := phase("RootPhase", opt("Loop", "b", 1, nil))
	script := treediff.NewTreeMatcher(EditPolicy).Match(Node(first), Node(second))

	kinds := []treediff.OpKind{}
	for _, op := range script.Operations() {
		kinds = append(kinds, op.Kind)
	}
	require.Equal(t, []treediff.OpKind{treediff.OpIdentity, treediff.OpDelete, treediff.OpInsert}, kinds)
}

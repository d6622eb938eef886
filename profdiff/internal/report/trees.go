package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yandex/profdiff/profdiff/internal/contexttree"
	"github.com/yandex/profdiff/profdiff/internal/inlining"
	"github.com/yandex/profdiff/profdiff/internal/optimization"
	"github.com/yandex/profdiff/profdiff/internal/treediff"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

func (w *Writer) WriteInliningTree(t *inlining.Tree) {
	w.Section(func() {
		if t.IsEmpty() {
			w.Writeln("(not recorded)")
			return
		}
		base := w.depth
		tree.Walk(t.Root, func(node *inlining.Node, depth int) {
			w.writeAt(base+depth, node.String())
			w.writeReceiverTypeProfile(base+depth+1, node.ReceiverTypeProfile)
		}, nil)
	}, "Inlining tree")
}

func (w *Writer) writeReceiverTypeProfile(depth int, profile *inlining.ReceiverTypeProfile) {
	if profile == nil {
		return
	}
	maturity := "immature"
	if profile.Mature {
		maturity = "mature"
	}
	w.writeAt(depth, fmt.Sprintf("|_ %s receiver-type profile", maturity))
	for _, t := range profile.ProfiledTypes {
		w.writeAt(depth+1, fmt.Sprintf("%6.2f%% %s -> %s", 100*t.Probability, t.TypeName, t.ConcreteMethodName))
	}
}

func (w *Writer) WriteOptimizationTree(t *optimization.Tree) {
	w.Section(func() {
		if t.IsEmpty() {
			w.Writeln("(not recorded)")
			return
		}
		t = w.prepareOptimizationTree(t)
		base := w.depth
		tree.Walk[optimization.Node](t.Root, func(node optimization.Node, depth int) {
			w.writeAt(base+depth, w.formatOptimizationNode(node))
		}, nil)
	}, "Optimization tree")
}

func (w *Writer) WriteContextTree(t *contexttree.Tree) {
	w.Section(func() {
		base := w.depth
		tree.Walk(t.Root, func(node *contexttree.Node, depth int) {
			w.writeAt(base+depth, w.formatContextNode(node))
		}, nil)
		if len(t.Unattached) > 0 {
			w.Section(func() {
				for _, o := range t.Unattached {
					w.Writeln("%s", w.formatOptimization(o))
				}
			}, "Optimizations without a matching callsite")
		}
	}, "Optimization-context tree")
}

////////////////////////////////////////////////////////////////////////////////

// WriteInliningDelta writes the difference of two inlining trees.
func (w *Writer) WriteInliningDelta(first, second *inlining.Tree) {
	w.Section(func() {
		if first.IsEmpty() || second.IsEmpty() {
			w.Writeln("(not recorded in both compilations)")
			return
		}
		script := treediff.NewTreeMatcher[*inlining.Node](inlining.EditPolicy{}).Match(first.Root, second.Root)
		writeDelta(w, script, (*inlining.Node).String)
	}, "Inlining tree diff")
}

// WriteOptimizationDelta writes the difference of two optimization trees.
func (w *Writer) WriteOptimizationDelta(first, second *optimization.Tree) {
	w.Section(func() {
		if first.IsEmpty() || second.IsEmpty() {
			w.Writeln("(not recorded in both compilations)")
			return
		}
		first, second = w.prepareOptimizationTree(first), w.prepareOptimizationTree(second)
		script := treediff.NewTreeMatcher(optimization.EditPolicy).Match(optimization.Node(first.Root), optimization.Node(second.Root))
		writeDelta(w, script, w.formatOptimizationNode)
	}, "Optimization tree diff")
}

// WriteContextDelta writes the difference of two optimization-context trees.
func (w *Writer) WriteContextDelta(first, second *contexttree.Tree) {
	w.Section(func() {
		script := treediff.NewTreeMatcher[*contexttree.Node](contexttree.EditPolicy{}).Match(first.Root, second.Root)
		writeDelta(w, script, w.formatContextNode)
	}, "Optimization-context tree diff")
}

func writeDelta[T tree.Interface[T]](w *Writer, script *treediff.EditScript[T], format func(T) string) {
	delta := treediff.FromEditScript(script)
	if !delta.HasDifferences() {
		w.Writeln("(no differences)")
		return
	}
	if w.options.PruneIdentities {
		delta.PruneIdentities()
	}

	base := w.depth
	tree.Walk(delta.Root, func(node *treediff.DeltaNode[T], depth int) {
		op := node.Operation
		var line string
		switch op.Kind {
		case treediff.OpIdentity:
			line = ". " + format(op.First)
		case treediff.OpRelabel:
			line = "* " + format(op.First) + " -> " + format(op.Second)
		case treediff.OpInsert:
			line = "+ " + format(op.Second)
		case treediff.OpDelete:
			line = "- " + format(op.First)
		}
		w.writeAt(base+depth, line)
	}, nil)
}

////////////////////////////////////////////////////////////////////////////////

// prepareOptimizationTree returns the tree to render. Trees cached on compilation units are never modified.
func (w *Writer) prepareOptimizationTree(t *optimization.Tree) *optimization.Tree {
	if !w.options.SortUnorderedPhases || t.IsEmpty() {
		return t
	}
	return t.SortedUnorderedPhases()
}

func (w *Writer) formatOptimizationNode(node optimization.Node) string {
	switch node := node.(type) {
	case *optimization.Phase:
		return node.Name
	case *optimization.Optimization:
		return w.formatOptimization(node)
	default:
		return ""
	}
}

func (w *Writer) formatOptimization(o *optimization.Optimization) string {
	var sb strings.Builder
	sb.WriteString(o.Name)
	sb.WriteByte(' ')
	sb.WriteString(o.Event)
	if !o.Position.IsEmpty() {
		sb.WriteString(" at bci ")
		if w.options.BCILongForm {
			sb.WriteString(o.Position.String())
		} else {
			sb.WriteString(o.Position.ShortString())
		}
	}
	if len(o.Properties) > 0 {
		keys := slices.Sorted(maps.Keys(o.Properties))
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", key, o.Properties[key]))
		}
		sb.WriteString(" with {")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteByte('}')
	}
	return sb.String()
}

func (w *Writer) formatContextNode(node *contexttree.Node) string {
	if node.Kind() == contexttree.KindOptimization {
		return w.formatOptimization(node.Optimization())
	}
	return node.String()
}

package contexttree

import (
	"github.com/yandex/profdiff/profdiff/internal/inlining"
	"github.com/yandex/profdiff/profdiff/internal/optimization"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

// Tree places every optimization of a compilation under the callsite it was performed in.
type Tree struct {
	Root *Node
	// Unattached are the optimizations whose position matches no callsite of the inlining tree.
	Unattached []*optimization.Optimization
}

func (t *Tree) Equal(other *Tree) bool {
	return tree.Equal(t.Root, other.Root, (*Node).Equal)
}

// Build fuses the trees of one compilation. The copy of the inlining tree is the first child of a
// synthetic root. Optimizations without a position are attached to the synthetic root. Phases are
// recreated under every node which receives an optimization from them. An optimization whose position
// matches several callsites is attached to each of them, and each of them gets one warning as its
// first child.
func Build(inliningTree *inlining.Tree, optimizationTree *optimization.Tree) *Tree {
	b := &builder{
		inliningTree: inliningTree,
		copies:       make(map[*inlining.Node]*Node),
		phases:       make(map[phaseKey]*Node),
		warned:       make(map[*Node]bool),
	}
	return b.build(optimizationTree)
}

type phaseKey struct {
	parent *Node
	phase  *optimization.Phase
}

type builder struct {
	inliningTree *inlining.Tree
	root         *Node
	copies       map[*inlining.Node]*Node
	phases       map[phaseKey]*Node
	warned       map[*Node]bool
	unattached   []*optimization.Optimization
}

func (b *builder) build(optimizationTree *optimization.Tree) *Tree {
	b.root = newRoot()
	if !b.inliningTree.IsEmpty() {
		tree.AddChild(b.root, b.copyInliningTree(b.inliningTree.Root))
	}

	if !optimizationTree.IsEmpty() {
		phases := make([]*optimization.Phase, 0)
		tree.Walk[optimization.Node](optimizationTree.Root, func(node optimization.Node, depth int) {
			switch node := node.(type) {
			case *optimization.Phase:
				if depth > 0 {
					phases = append(phases, node)
				}
			case *optimization.Optimization:
				b.attach(node, phases)
			}
		}, func(node optimization.Node, depth int) {
			if _, ok := node.(*optimization.Phase); ok && depth > 0 {
				phases = phases[:len(phases)-1]
			}
		})
	}

	return &Tree{Root: b.root, Unattached: b.unattached}
}

func (b *builder) copyInliningTree(node *inlining.Node) *Node {
	res := NewInliningNode(node)
	b.copies[node] = res
	for _, child := range node.Children() {
		tree.AddChild(res, b.copyInliningTree(child))
	}
	return res
}

func (b *builder) attach(o *optimization.Optimization, phases []*optimization.Phase) {
	if o.Position.IsEmpty() {
		b.attachUnder(b.root, o, phases)
		return
	}

	nodes := b.inliningTree.FindNodesAt(o.Position.EnclosingMethodPath())
	if len(nodes) == 0 {
		b.unattached = append(b.unattached, o)
		return
	}
	for _, node := range nodes {
		target := b.copies[node]
		if len(nodes) > 1 && !b.warned[target] {
			b.warned[target] = true
			tree.InsertChild(target, 0, NewWarningNode(DuplicatePathWarning))
		}
		b.attachUnder(target, o, phases)
	}
}

func (b *builder) attachUnder(target *Node, o *optimization.Optimization, phases []*optimization.Phase) {
	parent := target
	for _, phase := range phases {
		key := phaseKey{parent: parent, phase: phase}
		node, found := b.phases[key]
		if !found {
			node = NewPhaseNode(phase.Name)
			b.phases[key] = node
			tree.AddChild(parent, node)
		}
		parent = node
	}
	tree.AddChild(parent, NewOptimizationNode(o))
}

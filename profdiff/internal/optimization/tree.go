package optimization

import (
	"cmp"
	"slices"

	"github.com/yandex/profdiff/profdiff/internal/treediff"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

// Tree is the optimization tree of one compilation. Root is nil when the compiler did not record it.
type Tree struct {
	Root *Phase
}

func NewTree(root *Phase) *Tree {
	return &Tree{Root: root}
}

func (t *Tree) IsEmpty() bool {
	return t == nil || t.Root == nil
}

// Optimizations returns all optimizations of the tree in preorder.
func (t *Tree) Optimizations() []*Optimization {
	if t.IsEmpty() {
		return nil
	}
	return Optimizations(t.Root)
}

func (t *Tree) Equal(other *Tree) bool {
	if t.IsEmpty() || other.IsEmpty() {
		return t.IsEmpty() == other.IsEmpty()
	}
	return tree.Equal[Node](t.Root, other.Root, NodesEqual)
}

// Clone returns a deep copy of the tree. Optimization properties are shared.
func (t *Tree) Clone() *Tree {
	if t.IsEmpty() {
		return &Tree{}
	}
	return &Tree{Root: cloneNode(t.Root).(*Phase)}
}

func cloneNode(node Node) Node {
	var res Node
	switch node := node.(type) {
	case *Phase:
		res = &Phase{Name: node.Name, Unordered: node.Unordered}
	case *Optimization:
		res = node.WithPosition(node.Position)
	}
	for _, child := range node.TreeBase().Children() {
		tree.AddChild[Node](res, cloneNode(child))
	}
	return res
}

// SortedUnorderedPhases returns a copy of the tree with the unordered phases sorted.
// The tree itself is left intact.
func (t *Tree) SortedUnorderedPhases() *Tree {
	res := t.Clone()
	res.SortUnorderedPhases()
	return res
}

// SortUnorderedPhases sorts the children of every unordered phase so that trees from different
// compilations can be compared positionally.
func (t *Tree) SortUnorderedPhases() {
	if t.IsEmpty() {
		return
	}
	tree.ForEach[Node](t.Root, func(node Node) {
		phase, ok := node.(*Phase)
		if !ok || !phase.Unordered {
			return
		}
		children := slices.Clone(phase.Children())
		slices.SortStableFunc(children, compareNodes)
		tree.SetChildren[Node](phase, children)
	})
}

// compareNodes orders phases before optimizations, phases by name and optimizations by
// name, event, position and properties.
func compareNodes(a, b Node) int {
	switch a := a.(type) {
	case *Phase:
		if b, ok := b.(*Phase); ok {
			return cmp.Compare(a.Name, b.Name)
		}
		return -1
	case *Optimization:
		b, ok := b.(*Optimization)
		if !ok {
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Event, b.Event),
			a.Position.Compare(b.Position),
			cmp.Compare(a.propertiesKey(), b.propertiesKey()),
		)
	}
	return 0
}

////////////////////////////////////////////////////////////////////////////////

// EditPolicy matches phases by name and optimizations structurally. Relabeling is forbidden,
// so a changed optimization shows up as a deletion and an insertion.
var EditPolicy treediff.EditPolicy[Node] = treediff.UnitCostPolicy[Node]{Equal: NodesEqual}

package treediff

import (
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

// DeltaNode is an operation of an edit script placed at its depth in the tree.
type DeltaNode[T any] struct {
	tree.Base[*DeltaNode[T]]
	Operation Operation[T]
}

func (n *DeltaNode[T]) TreeBase() *tree.Base[*DeltaNode[T]] {
	return &n.Base
}

func (n *DeltaNode[T]) Kind() OpKind {
	return n.Operation.Kind
}

// DeltaTree is a navigable form of an edit script.
type DeltaTree[T any] struct {
	Root *DeltaNode[T]
}

// FromEditScript rebuilds the tree shape from a preorder script using operation depths.
// An operation deeper than its predecessor by more than one level is attached to the predecessor.
func FromEditScript[T any](script *EditScript[T]) *DeltaTree[T] {
	res := &DeltaTree[T]{}
	stack := make([]*DeltaNode[T], 0)
	script.ForEach(func(op Operation[T]) bool {
		node := &DeltaNode[T]{Operation: op}
		if res.Root == nil {
			res.Root = node
			stack = append(stack, node)
			return true
		}
		depth := max(op.Depth, 1)
		if depth > len(stack) {
			depth = len(stack)
		}
		stack = stack[:depth]
		tree.AddChild(stack[depth-1], node)
		stack = append(stack, node)
		return true
	})
	return res
}

func (t *DeltaTree[T]) IsEmpty() bool {
	return t.Root == nil
}

// AsEditScript linearizes the tree back into a preorder script. Depths are recomputed
// from the tree shape.
func (t *DeltaTree[T]) AsEditScript() *EditScript[T] {
	script := NewEditScript[T]()
	if t.IsEmpty() {
		return script
	}
	tree.Walk(t.Root, func(node *DeltaNode[T], depth int) {
		op := node.Operation
		op.Depth = depth
		script.ops.Append(op)
	}, nil)
	return script
}

// HasDifferences reports whether any node of the tree is not an identity.
func (t *DeltaTree[T]) HasDifferences() bool {
	if t.IsEmpty() {
		return false
	}
	found := false
	tree.ForEach(t.Root, func(node *DeltaNode[T]) {
		found = found || node.Kind() != OpIdentity
	})
	return found
}

// PruneIdentities removes every maximal subtree which consists of identities only.
// Ancestors of a difference are kept. The root is always kept.
func (t *DeltaTree[T]) PruneIdentities() {
	if t.IsEmpty() {
		return
	}
	differs := make(map[*DeltaNode[T]]bool)
	tree.Walk(t.Root, nil, func(node *DeltaNode[T], _ int) {
		d := node.Kind() != OpIdentity
		for _, child := range node.Children() {
			d = d || differs[child]
		}
		differs[node] = d
	})
	tree.RemoveIf(t.Root, func(node *DeltaNode[T]) bool {
		return !differs[node]
	})
}

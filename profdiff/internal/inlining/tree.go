package inlining

import (
	"github.com/yandex/profdiff/profdiff/internal/position"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

// Tree is the inlining tree of one compilation. Root is nil when the compiler did not record it.
type Tree struct {
	Root *Node
}

func NewTree(root *Node) *Tree {
	return &Tree{Root: root}
}

func (t *Tree) IsEmpty() bool {
	return t == nil || t.Root == nil
}

// FindNodesAt returns every node whose path from the root equals path, in preorder.
// More than one node is returned when the same call chain was inlined several times.
func (t *Tree) FindNodesAt(path position.InliningPath) []*Node {
	if t.IsEmpty() || len(path) == 0 {
		return nil
	}
	if t.Root.MethodName != path[0].MethodName {
		return nil
	}
	current := []*Node{t.Root}
	for _, element := range path[1:] {
		next := make([]*Node, 0)
		for _, node := range current {
			next = appendMatchingCallees(next, node, element)
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

func appendMatchingCallees(res []*Node, caller *Node, element position.PathElement) []*Node {
	for _, child := range caller.Children() {
		if child.BCI != element.CallsiteBCI {
			continue
		}
		if child.Kind() == KindAbstract {
			res = appendMatchingCallees(res, child, element)
			continue
		}
		if child.MethodName == element.MethodName {
			res = append(res, child)
		}
	}
	return res
}

func (t *Tree) Equal(other *Tree) bool {
	if t.IsEmpty() || other.IsEmpty() {
		return t.IsEmpty() == other.IsEmpty()
	}
	return tree.Equal(t.Root, other.Root, (*Node).Equal)
}

// Nodes returns the nodes of the tree in preorder.
func (t *Tree) Nodes() []*Node {
	if t.IsEmpty() {
		return nil
	}
	return tree.Preorder(t.Root)
}

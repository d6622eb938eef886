// Package tree provides ordered N-ary tree links which are embedded into concrete node types.
//
// A node type embeds Base[T] (where T is usually the pointer to the node type itself, or a closed
// interface implemented by several node types) and exposes it through Interface[T].
// Children are owned by their parent; the parent link is a back-reference used for detachment only.
package tree

////////////////////////////////////////////////////////////////////////////////

type Interface[T any] interface {
	comparable
	TreeBase() *Base[T]
}

type Base[T any] struct {
	parent    T
	hasParent bool
	children  []T
}

func (b *Base[T]) Children() []T {
	return b.children
}

func (b *Base[T]) ChildCount() int {
	return len(b.children)
}

func (b *Base[T]) IsLeaf() bool {
	return len(b.children) == 0
}

// Parent returns the parent of the node and false if the node is a root.
func (b *Base[T]) Parent() (T, bool) {
	return b.parent, b.hasParent
}

func (b *Base[T]) setParent(parent T) {
	b.parent = parent
	b.hasParent = true
}

func (b *Base[T]) clearParent() {
	var zero T
	b.parent = zero
	b.hasParent = false
}

////////////////////////////////////////////////////////////////////////////////

func AddChild[T Interface[T]](parent, child T) {
	base := parent.TreeBase()
	base.children = append(base.children, child)
	child.TreeBase().setParent(parent)
}

// InsertChild inserts child at the given index of the parent's children list.
func InsertChild[T Interface[T]](parent T, index int, child T) {
	base := parent.TreeBase()
	base.children = append(base.children, child)
	copy(base.children[index+1:], base.children[index:])
	base.children[index] = child
	child.TreeBase().setParent(parent)
}

// RemoveIf detaches every subtree whose root matches pred. The root itself is never removed.
// Children of detached subtrees are not visited.
func RemoveIf[T Interface[T]](root T, pred func(T) bool) {
	base := root.TreeBase()
	kept := base.children[:0]
	for _, child := range base.children {
		if pred(child) {
			child.TreeBase().clearParent()
			continue
		}
		kept = append(kept, child)
	}
	var zero T
	for i := len(kept); i < len(base.children); i++ {
		base.children[i] = zero
	}
	base.children = kept

	for _, child := range base.children {
		RemoveIf(child, pred)
	}
}

// SetChildren replaces the children list of parent.
func SetChildren[T Interface[T]](parent T, children []T) {
	base := parent.TreeBase()
	for _, child := range base.children {
		child.TreeBase().clearParent()
	}
	base.children = base.children[:0]
	for _, child := range children {
		AddChild(parent, child)
	}
}

////////////////////////////////////////////////////////////////////////////////

// ForEach visits the tree in preorder.
func ForEach[T Interface[T]](root T, visit func(T)) {
	visit(root)
	for _, child := range root.TreeBase().children {
		ForEach(child, visit)
	}
}

// Walk visits the tree calling pre before and post after the children of every node.
// Either callback may be nil.
func Walk[T Interface[T]](root T, pre, post func(node T, depth int)) {
	walk(root, 0, pre, post)
}

func walk[T Interface[T]](node T, depth int, pre, post func(T, int)) {
	if pre != nil {
		pre(node, depth)
	}
	for _, child := range node.TreeBase().children {
		walk(child, depth+1, pre, post)
	}
	if post != nil {
		post(node, depth)
	}
}

// Preorder returns the nodes of the tree in preorder.
func Preorder[T Interface[T]](root T) []T {
	res := make([]T, 0)
	ForEach(root, func(node T) {
		res = append(res, node)
	})
	return res
}

func Size[T Interface[T]](root T) int {
	size := 0
	ForEach(root, func(T) {
		size++
	})
	return size
}

// Equal reports whether two trees have the same shape and pairwise equal nodes according to eq.
func Equal[T Interface[T]](a, b T, eq func(T, T) bool) bool {
	if !eq(a, b) {
		return false
	}
	ac, bc := a.TreeBase().children, b.TreeBase().children
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equal(ac[i], bc[i], eq) {
			return false
		}
	}
	return true
}

package treediff

import (
	"github.com/yandex/profdiff/profdiff/pkg/concatlist"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

// TreeMatcher computes an ordered tree edit distance where the roots always correspond and
// only children lists of corresponding nodes are aligned (Selkow's distance).
// Deleting or inserting a node deletes or inserts its whole subtree.
type TreeMatcher[T tree.Interface[T]] struct {
	policy EditPolicy[T]
}

func NewTreeMatcher[T tree.Interface[T]](policy EditPolicy[T]) *TreeMatcher[T] {
	return &TreeMatcher[T]{policy: policy}
}

// Match returns the minimum-cost edit script transforming the tree rooted at first into the tree
// rooted at second.
func (m *TreeMatcher[T]) Match(first, second T) *EditScript[T] {
	r := &matching[T]{
		policy:      m.policy,
		pairCosts:   make(map[[2]T]int64),
		deleteCosts: make(map[T]int64),
		insertCosts: make(map[T]int64),
	}
	ops := r.script(first, second, 0)
	table := r.align(first.TreeBase().Children(), second.TreeBase().Children())
	return &EditScript[T]{ops: ops, cost: addCosts(r.rootCost(first, second), table[0][0])}
}

////////////////////////////////////////////////////////////////////////////////

type matching[T tree.Interface[T]] struct {
	policy      EditPolicy[T]
	pairCosts   map[[2]T]int64
	deleteCosts map[T]int64
	insertCosts map[T]int64
}

func (r *matching[T]) rootCost(first, second T) int64 {
	if r.policy.NodesEqual(first, second) {
		return 0
	}
	return min(r.policy.RelabelCost(first, second), InfiniteCost)
}

// cost is the distance between two subtrees whose roots correspond.
func (r *matching[T]) cost(first, second T) int64 {
	key := [2]T{first, second}
	if c, found := r.pairCosts[key]; found {
		return c
	}
	c := r.rootCost(first, second)
	if c < InfiniteCost {
		table := r.align(first.TreeBase().Children(), second.TreeBase().Children())
		c = addCosts(c, table[0][0])
	}
	r.pairCosts[key] = c
	return c
}

func (r *matching[T]) deleteCost(node T) int64 {
	if c, found := r.deleteCosts[node]; found {
		return c
	}
	c := min(r.policy.DeleteCost(node), InfiniteCost)
	for _, child := range node.TreeBase().Children() {
		c = addCosts(c, r.deleteCost(child))
	}
	r.deleteCosts[node] = c
	return c
}

func (r *matching[T]) insertCost(node T) int64 {
	if c, found := r.insertCosts[node]; found {
		return c
	}
	c := min(r.policy.InsertCost(node), InfiniteCost)
	for _, child := range node.TreeBase().Children() {
		c = addCosts(c, r.insertCost(child))
	}
	r.insertCosts[node] = c
	return c
}

// align fills the suffix table of the sequence edit distance: table[i][j] is the cost of
// transforming first[i:] into second[j:].
func (r *matching[T]) align(first, second []T) [][]int64 {
	n, m := len(first), len(second)
	table := make([][]int64, n+1)
	for i := range table {
		table[i] = make([]int64, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		table[i][m] = addCosts(r.deleteCost(first[i]), table[i+1][m])
	}
	for j := m - 1; j >= 0; j-- {
		table[n][j] = addCosts(r.insertCost(second[j]), table[n][j+1])
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			best := addCosts(r.cost(first[i], second[j]), table[i+1][j+1])
			best = min(best, addCosts(r.deleteCost(first[i]), table[i+1][j]))
			best = min(best, addCosts(r.insertCost(second[j]), table[i][j+1]))
			table[i][j] = best
		}
	}
	return table
}

// script linearizes the optimal matching of two corresponding subtrees in preorder.
// Ties prefer matching the children, then deleting, then inserting.
func (r *matching[T]) script(first, second T, depth int) *concatlist.List[Operation[T]] {
	ops := concatlist.New[Operation[T]]()
	if r.policy.NodesEqual(first, second) {
		ops.Append(Identity(first, second, depth))
	} else {
		ops.Append(Relabel(first, second, depth))
	}

	firstChildren, secondChildren := first.TreeBase().Children(), second.TreeBase().Children()
	table := r.align(firstChildren, secondChildren)
	n, m := len(firstChildren), len(secondChildren)
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && table[i][j] == addCosts(r.cost(firstChildren[i], secondChildren[j]), table[i+1][j+1]):
			ops.TransferFrom(r.script(firstChildren[i], secondChildren[j], depth+1))
			i++
			j++
		case i < n && table[i][j] == addCosts(r.deleteCost(firstChildren[i]), table[i+1][j]):
			ops.TransferFrom(subtreeOps(firstChildren[i], depth+1, Delete[T]))
			i++
		default:
			ops.TransferFrom(subtreeOps(secondChildren[j], depth+1, Insert[T]))
			j++
		}
	}
	return ops
}

func subtreeOps[T tree.Interface[T]](root T, depth int, op func(T, int) Operation[T]) *concatlist.List[Operation[T]] {
	ops := concatlist.New[Operation[T]]()
	tree.Walk(root, func(node T, d int) {
		ops.Append(op(node, depth+d))
	}, nil)
	return ops
}

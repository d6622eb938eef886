package treediff

import (
	"fmt"

	"github.com/yandex/profdiff/profdiff/pkg/concatlist"
)

type OpKind int

const (
	OpIdentity OpKind = iota
	OpRelabel
	OpInsert
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpIdentity:
		return "identity"
	case OpRelabel:
		return "relabel"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

////////////////////////////////////////////////////////////////////////////////

// Operation is one step of an edit script. First is the node of the first tree (unset for
// insertions), Second is the node of the second tree (unset for deletions).
// Depth is measured from the matched roots.
type Operation[T any] struct {
	Kind   OpKind
	First  T
	Second T
	Depth  int
}

func Identity[T any](first, second T, depth int) Operation[T] {
	return Operation[T]{Kind: OpIdentity, First: first, Second: second, Depth: depth}
}

func Relabel[T any](first, second T, depth int) Operation[T] {
	return Operation[T]{Kind: OpRelabel, First: first, Second: second, Depth: depth}
}

func Insert[T any](second T, depth int) Operation[T] {
	return Operation[T]{Kind: OpInsert, Second: second, Depth: depth}
}

func Delete[T any](first T, depth int) Operation[T] {
	return Operation[T]{Kind: OpDelete, First: first, Depth: depth}
}

// Node returns the node the operation is about: the second tree's node for insertions and
// the first tree's node otherwise.
func (o Operation[T]) Node() T {
	if o.Kind == OpInsert {
		return o.Second
	}
	return o.First
}

////////////////////////////////////////////////////////////////////////////////

// EditScript is a preorder sequence of operations transforming one tree into another.
type EditScript[T any] struct {
	ops  *concatlist.List[Operation[T]]
	cost int64
}

func NewEditScript[T any](ops ...Operation[T]) *EditScript[T] {
	return &EditScript[T]{ops: concatlist.New(ops...)}
}

func (s *EditScript[T]) Operations() []Operation[T] {
	return s.ops.Slice()
}

func (s *EditScript[T]) Len() int {
	return s.ops.Len()
}

// Cost is the total edit cost computed by the matcher.
func (s *EditScript[T]) Cost() int64 {
	return s.cost
}

func (s *EditScript[T]) ForEach(f func(Operation[T]) bool) {
	s.ops.ForEach(f)
}

// HasDifferences reports whether the script contains anything but identities.
func (s *EditScript[T]) HasDifferences() bool {
	found := false
	s.ops.ForEach(func(op Operation[T]) bool {
		found = op.Kind != OpIdentity
		return !found
	})
	return found
}

package treediff

import "math"

const (
	UnitCost int64 = 1
	// InfiniteCost forbids an edit. Sums of costs saturate at InfiniteCost.
	InfiniteCost int64 = math.MaxInt64 / 4
)

// EditPolicy defines the costs of tree edit operations.
type EditPolicy[T any] interface {
	// NodesEqual reports whether two corresponding nodes are identical. Identical nodes are
	// matched for free, otherwise RelabelCost is paid.
	NodesEqual(a, b T) bool
	RelabelCost(a, b T) int64
	InsertCost(node T) int64
	DeleteCost(node T) int64
}

// UnitCostPolicy charges one unit per inserted or deleted node and never relabels.
type UnitCostPolicy[T any] struct {
	Equal func(a, b T) bool
}

var _ EditPolicy[int] = UnitCostPolicy[int]{}

func (p UnitCostPolicy[T]) NodesEqual(a, b T) bool {
	return p.Equal(a, b)
}

func (p UnitCostPolicy[T]) RelabelCost(a, b T) int64 {
	return InfiniteCost
}

func (p UnitCostPolicy[T]) InsertCost(T) int64 {
	return UnitCost
}

func (p UnitCostPolicy[T]) DeleteCost(T) int64 {
	return UnitCost
}

func addCosts(a, b int64) int64 {
	return min(a+b, InfiniteCost)
}

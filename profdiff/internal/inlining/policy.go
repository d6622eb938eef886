package inlining

import (
	"github.com/yandex/profdiff/profdiff/internal/treediff"
)

// EditPolicy lets the tree matcher relabel a callsite whose inlining decision changed,
// while callsites of different methods or bcis are never treated as relabelings.
type EditPolicy struct{}

var _ treediff.EditPolicy[*Node] = EditPolicy{}

func (EditPolicy) NodesEqual(a, b *Node) bool {
	return a.Equal(b)
}

func (EditPolicy) RelabelCost(a, b *Node) int64 {
	if a.MethodName == b.MethodName && a.BCI == b.BCI {
		return treediff.UnitCost
	}
	return treediff.InfiniteCost
}

func (EditPolicy) InsertCost(*Node) int64 {
	return treediff.UnitCost
}

func (EditPolicy) DeleteCost(*Node) int64 {
	return treediff.UnitCost
}

package contexttree

import (
	"fmt"

	"github.com/yandex/profdiff/profdiff/internal/inlining"
	"github.com/yandex/profdiff/profdiff/internal/optimization"
	"github.com/yandex/profdiff/profdiff/internal/treediff"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

type Kind int

const (
	KindRoot Kind = iota
	KindInlining
	KindPhase
	KindOptimization
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindInlining:
		return "inlining"
	case KindPhase:
		return "phase"
	case KindOptimization:
		return "optimization"
	case KindWarning:
		return "warning"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DuplicatePathWarning marks callsites whose inlining path is shared with another callsite.
const DuplicatePathWarning = "Warning: Optimizations cannot be unambiguously attributed (duplicate path)"

////////////////////////////////////////////////////////////////////////////////

// Node is a node of an optimization context tree. Exactly one payload field matching Kind is set.
type Node struct {
	tree.Base[*Node]

	kind         Kind
	inlining     *inlining.Node
	phaseName    string
	optimization *optimization.Optimization
	warning      string
}

func newRoot() *Node {
	return &Node{kind: KindRoot}
}

func NewInliningNode(node *inlining.Node) *Node {
	return &Node{kind: KindInlining, inlining: node}
}

func NewPhaseNode(name string) *Node {
	return &Node{kind: KindPhase, phaseName: name}
}

func NewOptimizationNode(o *optimization.Optimization) *Node {
	return &Node{kind: KindOptimization, optimization: o}
}

func NewWarningNode(message string) *Node {
	return &Node{kind: KindWarning, warning: message}
}

func (n *Node) TreeBase() *tree.Base[*Node] {
	return &n.Base
}

func (n *Node) Kind() Kind {
	return n.kind
}

// Inlining returns the wrapped callsite of a KindInlining node.
func (n *Node) Inlining() *inlining.Node {
	return n.inlining
}

func (n *Node) PhaseName() string {
	return n.phaseName
}

// Optimization returns the wrapped optimization of a KindOptimization node.
func (n *Node) Optimization() *optimization.Optimization {
	return n.optimization
}

func (n *Node) Warning() string {
	return n.warning
}

// Equal compares the payload of two nodes; children are ignored.
func (n *Node) Equal(other *Node) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case KindInlining:
		return n.inlining.Equal(other.inlining)
	case KindPhase:
		return n.phaseName == other.phaseName
	case KindOptimization:
		return n.optimization.Equal(other.optimization)
	case KindWarning:
		return n.warning == other.warning
	default:
		return true
	}
}

func (n *Node) String() string {
	switch n.kind {
	case KindRoot:
		return "Optimization-context tree"
	case KindInlining:
		return n.inlining.String()
	case KindPhase:
		return n.phaseName
	case KindOptimization:
		return n.optimization.String()
	case KindWarning:
		return n.warning
	default:
		return n.kind.String()
	}
}

////////////////////////////////////////////////////////////////////////////////

// EditPolicy lets the tree matcher relabel callsites with a changed inlining decision, like the
// inlining tree policy does. Other nodes are matched structurally.
type EditPolicy struct{}

var _ treediff.EditPolicy[*Node] = EditPolicy{}

func (EditPolicy) NodesEqual(a, b *Node) bool {
	return a.Equal(b)
}

func (EditPolicy) RelabelCost(a, b *Node) int64 {
	if a.kind == KindRoot && b.kind == KindRoot {
		return treediff.UnitCost
	}
	if a.kind == KindInlining && b.kind == KindInlining {
		return inlining.EditPolicy{}.RelabelCost(a.inlining, b.inlining)
	}
	return treediff.InfiniteCost
}

func (EditPolicy) InsertCost(*Node) int64 {
	return treediff.UnitCost
}

func (EditPolicy) DeleteCost(*Node) int64 {
	return treediff.UnitCost
}

package inlining

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yandex/profdiff/profdiff/internal/position"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

type Kind int

const (
	// KindInlined is a callsite expanded into the caller.
	KindInlined Kind = iota
	// KindDirect is a direct call which was not inlined.
	KindDirect
	// KindIndirect is a virtual or interface call which was not inlined.
	KindIndirect
	// KindAbstract is an indirect callsite whose receivers were inlined under type guards;
	// the inlined receivers are its children and share its bci.
	KindAbstract
	// KindDeleted is a callsite removed before it could be expanded.
	KindDeleted
)

func (k Kind) String() string {
	switch k {
	case KindInlined:
		return "inlined"
	case KindDirect:
		return "direct"
	case KindIndirect:
		return "indirect"
	case KindAbstract:
		return "abstract"
	case KindDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

////////////////////////////////////////////////////////////////////////////////

type ProfiledType struct {
	TypeName           string
	Probability        float64
	ConcreteMethodName string
}

type ReceiverTypeProfile struct {
	Mature        bool
	ProfiledTypes []ProfiledType
}

func (p *ReceiverTypeProfile) Equal(other *ReceiverTypeProfile) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Mature == other.Mature && slices.Equal(p.ProfiledTypes, other.ProfiledTypes)
}

func (p *ReceiverTypeProfile) Clone() *ReceiverTypeProfile {
	if p == nil {
		return nil
	}
	return &ReceiverTypeProfile{
		Mature:        p.Mature,
		ProfiledTypes: slices.Clone(p.ProfiledTypes),
	}
}

////////////////////////////////////////////////////////////////////////////////

// Node is a callsite in the inlining tree. The root of the tree is the compiled method itself.
type Node struct {
	tree.Base[*Node]

	MethodName string
	BCI        int
	Inlined    bool
	// Reasons explain the inlining decision; for callsites which were not inlined they say why not.
	Reasons             []string
	Indirect            bool
	Alive               bool
	ReceiverTypeProfile *ReceiverTypeProfile
}

func (n *Node) TreeBase() *tree.Base[*Node] {
	return &n.Base
}

func (n *Node) Kind() Kind {
	switch {
	case n.Inlined:
		return KindInlined
	case !n.Alive:
		return KindDeleted
	case n.Indirect && !n.IsLeaf():
		return KindAbstract
	case n.Indirect:
		return KindIndirect
	default:
		return KindDirect
	}
}

func (n *Node) IsRoot() bool {
	_, hasParent := n.Parent()
	return !hasParent
}

// Equal compares the payload of two nodes, children are ignored.
func (n *Node) Equal(other *Node) bool {
	return n.MethodName == other.MethodName &&
		n.BCI == other.BCI &&
		n.Inlined == other.Inlined &&
		n.Indirect == other.Indirect &&
		n.Alive == other.Alive &&
		slices.Equal(n.Reasons, other.Reasons) &&
		n.ReceiverTypeProfile.Equal(other.ReceiverTypeProfile)
}

// ClonePayload returns a detached copy of the node without children.
func (n *Node) ClonePayload() *Node {
	return &Node{
		MethodName:          n.MethodName,
		BCI:                 n.BCI,
		Inlined:             n.Inlined,
		Reasons:             slices.Clone(n.Reasons),
		Indirect:            n.Indirect,
		Alive:               n.Alive,
		ReceiverTypeProfile: n.ReceiverTypeProfile.Clone(),
	}
}

// CloneSubtree returns a detached deep copy of the subtree rooted at n.
func (n *Node) CloneSubtree() *Node {
	res := n.ClonePayload()
	for _, child := range n.Children() {
		tree.AddChild(res, child.CloneSubtree())
	}
	return res
}

func (n *Node) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "(%s) %s", n.Kind(), n.MethodName)
	if n.BCI != position.RootBCI {
		fmt.Fprintf(&sb, " at bci %d", n.BCI)
	}
	if len(n.Reasons) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(n.Reasons, "; "))
	}
	return sb.String()
}

// PathFromRoot returns the inlining path of the node. Abstract callsites are transparent:
// their inlined receivers continue the path of the abstract node's caller.
func (n *Node) PathFromRoot() position.InliningPath {
	path := position.InliningPath{}
	for node := n; ; {
		parent, hasParent := node.Parent()
		if node == n || !hasParent || node.Inlined {
			bci := node.BCI
			if !hasParent {
				bci = position.RootBCI
			}
			path = append(path, position.PathElement{MethodName: node.MethodName, CallsiteBCI: bci})
		}
		if !hasParent {
			break
		}
		node = parent
	}
	slices.Reverse(path)
	return path
}

////////////////////////////////////////////////////////////////////////////////

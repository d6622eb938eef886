package optimization

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yandex/profdiff/profdiff/internal/position"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

// Node is a node of an optimization tree: either a *Phase or an *Optimization.
type Node interface {
	TreeBase() *tree.Base[Node]
	isNode()
}

var (
	_ Node = (*Phase)(nil)
	_ Node = (*Optimization)(nil)
)

////////////////////////////////////////////////////////////////////////////////

// Phases whose children are reported in no particular order.
var unorderedPhaseNames = map[string]bool{
	"CanonicalizerPhase":                   true,
	"IncrementalCanonicalizerPhase":        true,
	"DeadCodeEliminationPhase":             true,
	"IterativeConditionalEliminationPhase": true,
	"ConditionalEliminationPhase":          true,
}

// Phase groups the optimizations performed by one compiler phase and its subphases.
type Phase struct {
	tree.Base[Node]

	Name string
	// Unordered is set for phases whose children order carries no meaning.
	Unordered bool
}

func NewPhase(name string) *Phase {
	return &Phase{Name: name, Unordered: unorderedPhaseNames[name]}
}

func (p *Phase) TreeBase() *tree.Base[Node] {
	return &p.Base
}

func (*Phase) isNode() {}

func (p *Phase) String() string {
	return p.Name
}

////////////////////////////////////////////////////////////////////////////////

// Optimization is a single transformation performed by the compiler.
type Optimization struct {
	tree.Base[Node]

	// Name is the optimization name, e.g. LoopTransformation.
	Name string
	// Event is the concrete event of the optimization, e.g. PartialUnroll.
	Event      string
	Position   *position.Position
	Properties map[string]any
}

func NewOptimization(name, event string, pos *position.Position, properties map[string]any) *Optimization {
	return &Optimization{
		Name:       name,
		Event:      event,
		Position:   position.Normalize(pos),
		Properties: properties,
	}
}

func (o *Optimization) TreeBase() *tree.Base[Node] {
	return &o.Base
}

func (*Optimization) isNode() {}

// WithPosition returns a detached copy of the optimization at another position.
func (o *Optimization) WithPosition(pos *position.Position) *Optimization {
	return NewOptimization(o.Name, o.Event, pos, o.Properties)
}

func (o *Optimization) Equal(other *Optimization) bool {
	return o.Name == other.Name &&
		o.Event == other.Event &&
		position.Normalize(o.Position).Equal(other.Position) &&
		o.propertiesKey() == other.propertiesKey()
}

// Key is a canonical representation such that two optimizations are Equal iff their keys are equal.
func (o *Optimization) Key() string {
	var sb strings.Builder
	sb.WriteString(o.Name)
	sb.WriteByte(0)
	sb.WriteString(o.Event)
	sb.WriteByte(0)
	for _, frame := range position.Normalize(o.Position).Frames() {
		sb.WriteString(frame.MethodName)
		sb.WriteByte(0)
		sb.WriteString(strconv.Itoa(frame.BCI))
		sb.WriteByte(0)
	}
	sb.WriteByte(0)
	sb.WriteString(o.propertiesKey())
	return sb.String()
}

func (o *Optimization) propertiesKey() string {
	if len(o.Properties) == 0 {
		return "{}"
	}
	// json sorts map keys, which makes the encoding canonical.
	raw, err := json.Marshal(o.Properties)
	if err != nil {
		return fmt.Sprintf("%v", o.Properties)
	}
	return string(raw)
}

func (o *Optimization) String() string {
	var sb strings.Builder
	sb.WriteString(o.Name)
	sb.WriteByte(' ')
	sb.WriteString(o.Event)
	if len(o.Properties) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(o.propertiesKey())
	}
	return sb.String()
}

////////////////////////////////////////////////////////////////////////////////

// NodesEqual compares the payload of two nodes; children are ignored.
func NodesEqual(a, b Node) bool {
	switch a := a.(type) {
	case *Phase:
		b, ok := b.(*Phase)
		return ok && a.Name == b.Name
	case *Optimization:
		b, ok := b.(*Optimization)
		return ok && a.Equal(b)
	default:
		return false
	}
}

// Optimizations returns the optimizations of the subtree in preorder.
func Optimizations(root Node) []*Optimization {
	res := make([]*Optimization, 0)
	tree.ForEach(root, func(node Node) {
		if o, ok := node.(*Optimization); ok {
			res = append(res, o)
		}
	})
	return res
}

package parse

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/internal/inlining"
	"github.com/yandex/profdiff/profdiff/internal/optimization"
	"github.com/yandex/profdiff/profdiff/internal/position"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
)

type treesJSON struct {
	InliningTreeRoot *inliningNodeJSON `json:"inliningTreeRoot"`
	OptimizationTree json.RawMessage   `json:"optimizationTree"`
}

type inliningNodeJSON struct {
	MethodName          string                   `json:"methodName"`
	CallsiteBCI         int                      `json:"callsiteBci"`
	Inlined             bool                     `json:"inlined"`
	Reason              []string                 `json:"reason"`
	Indirect            bool                     `json:"indirect"`
	Alive               bool                     `json:"alive"`
	ReceiverTypeProfile *receiverTypeProfileJSON `json:"receiverTypeProfile"`
	Invokes             []*inliningNodeJSON      `json:"invokes"`
}

type receiverTypeProfileJSON struct {
	Mature        bool `json:"mature"`
	ProfiledTypes []struct {
		TypeName           string  `json:"typeName"`
		Probability        float64 `json:"probability"`
		ConcreteMethodName string  `json:"concreteMethodName"`
	} `json:"profiledTypes"`
}

const (
	phaseNameKey        = "phaseName"
	phaseChildrenKey    = "optimizations"
	optimizationNameKey = "optimizationName"
	eventNameKey        = "eventName"
	positionKey         = "position"
)

// ParseTrees decodes the inlining and optimization trees of one optimization log record.
// Either tree is empty if the record does not carry it.
func ParseTrees(line []byte) (experiment.TreePair, error) {
	var raw treesJSON
	if err := json.Unmarshal(line, &raw); err != nil {
		return experiment.TreePair{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	var inliningRoot *inlining.Node
	if raw.InliningTreeRoot != nil {
		inliningRoot = convertInliningNode(raw.InliningTreeRoot)
		inliningRoot.BCI = position.RootBCI
	}

	var optimizationRoot *optimization.Phase
	if len(raw.OptimizationTree) > 0 && !bytes.Equal(raw.OptimizationTree, []byte("null")) {
		node, err := parseOptimizationNode(raw.OptimizationTree)
		if err != nil {
			return experiment.TreePair{}, err
		}
		root, ok := node.(*optimization.Phase)
		if !ok {
			return experiment.TreePair{}, fmt.Errorf("%w: optimization tree root is not a phase", ErrMalformedRecord)
		}
		optimizationRoot = root
	}

	return experiment.TreePair{
		Inlining:     inlining.NewTree(inliningRoot),
		Optimization: optimization.NewTree(optimizationRoot),
	}, nil
}

func convertInliningNode(raw *inliningNodeJSON) *inlining.Node {
	node := &inlining.Node{
		MethodName: raw.MethodName,
		BCI:        raw.CallsiteBCI,
		Inlined:    raw.Inlined,
		Reasons:    raw.Reason,
		Indirect:   raw.Indirect,
		Alive:      raw.Alive,
	}
	if raw.ReceiverTypeProfile != nil {
		profile := &inlining.ReceiverTypeProfile{Mature: raw.ReceiverTypeProfile.Mature}
		for _, t := range raw.ReceiverTypeProfile.ProfiledTypes {
			profile.ProfiledTypes = append(profile.ProfiledTypes, inlining.ProfiledType{
				TypeName:           t.TypeName,
				Probability:        t.Probability,
				ConcreteMethodName: t.ConcreteMethodName,
			})
		}
		node.ReceiverTypeProfile = profile
	}
	for _, invoke := range raw.Invokes {
		if invoke != nil {
			tree.AddChild(node, convertInliningNode(invoke))
		}
	}
	return node
}

func parseOptimizationNode(raw json.RawMessage) (optimization.Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	if name, isPhase := fields[phaseNameKey]; isPhase {
		return parsePhase(name, fields[phaseChildrenKey])
	}
	return parseOptimization(fields)
}

func parsePhase(rawName, rawChildren json.RawMessage) (*optimization.Phase, error) {
	var name string
	if err := json.Unmarshal(rawName, &name); err != nil {
		return nil, fmt.Errorf("%w: phase name: %w", ErrMalformedRecord, err)
	}
	phase := optimization.NewPhase(name)

	if len(rawChildren) == 0 {
		return phase, nil
	}
	var children []json.RawMessage
	if err := json.Unmarshal(rawChildren, &children); err != nil {
		return nil, fmt.Errorf("%w: children of phase %s: %w", ErrMalformedRecord, name, err)
	}
	for _, rawChild := range children {
		child, err := parseOptimizationNode(rawChild)
		if err != nil {
			return nil, err
		}
		tree.AddChild[optimization.Node](phase, child)
	}
	return phase, nil
}

func parseOptimization(fields map[string]json.RawMessage) (*optimization.Optimization, error) {
	var name, event string
	if err := unmarshalField(fields, optimizationNameKey, &name); err != nil {
		return nil, err
	}
	if err := unmarshalField(fields, eventNameKey, &event); err != nil {
		return nil, err
	}
	pos, err := parsePosition(fields[positionKey])
	if err != nil {
		return nil, err
	}

	var properties map[string]any
	for key, value := range fields {
		if key == optimizationNameKey || key == eventNameKey || key == positionKey {
			continue
		}
		var property any
		if err := json.Unmarshal(value, &property); err != nil {
			return nil, fmt.Errorf("%w: property %s: %w", ErrMalformedRecord, key, err)
		}
		if properties == nil {
			properties = make(map[string]any)
		}
		properties[key] = property
	}

	return optimization.NewOptimization(name, event, pos, properties), nil
}

func unmarshalField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, found := fields[key]
	if !found {
		return fmt.Errorf("%w: missing %s", ErrMalformedRecord, key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedRecord, key, err)
	}
	return nil
}

// parsePosition decodes an object mapping method names to bcis. Keys are ordered from the innermost
// frame, so the object is read as a token stream.
func parsePosition(raw json.RawMessage) (*position.Position, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return position.Empty, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	if token, err := decoder.Token(); err != nil || token != json.Delim('{') {
		return nil, fmt.Errorf("%w: position is not an object", ErrMalformedRecord)
	}

	frames := make([]position.Frame, 0)
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: position: %w", ErrMalformedRecord, err)
		}
		method, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("%w: position key %v", ErrMalformedRecord, token)
		}
		var bci int
		if err := decoder.Decode(&bci); err != nil {
			return nil, fmt.Errorf("%w: bci of %s: %w", ErrMalformedRecord, method, err)
		}
		frames = append(frames, position.Frame{MethodName: method, BCI: bci})
	}
	return position.New(frames...), nil
}

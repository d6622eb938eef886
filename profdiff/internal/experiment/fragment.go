package experiment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yandex/profdiff/profdiff/internal/inlining"
	"github.com/yandex/profdiff/profdiff/internal/optimization"
	"github.com/yandex/profdiff/profdiff/internal/position"
	"github.com/yandex/profdiff/profdiff/pkg/tree"
	"github.com/yandex/profdiff/profdiff/pkg/xlog"
)

var ErrFragmentRootNotFound = errors.New("fragment root not found in the inlining tree")

// CompilationFragment is the part of a compilation reachable from one inlined callsite.
// It derives its trees from the trees of the parent compilation.
type CompilationFragment struct {
	parent *CompilationUnit
	path   position.InliningPath
}

var _ TreeLoader = (*CompilationFragment)(nil)

func NewCompilationFragment(parent *CompilationUnit, path position.InliningPath) *CompilationFragment {
	return &CompilationFragment{parent: parent, path: path}
}

func (f *CompilationFragment) Parent() *CompilationUnit {
	return f.parent
}

// Path is the inlining path of the fragment root in the parent compilation.
func (f *CompilationFragment) Path() position.InliningPath {
	return f.path
}

// LoadTrees copies the inlining subtree at the fragment root and keeps the optimizations performed
// inside it, with positions relative to the fragment root. Phases left without optimizations are omitted.
// When the path occurs several times in the parent, the first occurrence in preorder is used.
func (f *CompilationFragment) LoadTrees() (TreePair, error) {
	parentTrees, err := f.parent.Trees()
	if err != nil {
		return TreePair{}, err
	}

	nodes := parentTrees.Inlining.FindNodesAt(f.path)
	if len(nodes) == 0 {
		return TreePair{}, fmt.Errorf("%w: %s", ErrFragmentRootNotFound, f.path)
	}
	root := nodes[0].CloneSubtree()
	root.BCI = position.RootBCI

	var optimizationRoot *optimization.Phase
	if !parentTrees.Optimization.IsEmpty() {
		optimizationRoot = f.filterPhase(parentTrees.Optimization.Root)
		if optimizationRoot == nil {
			optimizationRoot = copyPhase(parentTrees.Optimization.Root)
		}
	}

	return TreePair{
		Inlining:     inlining.NewTree(root),
		Optimization: optimization.NewTree(optimizationRoot),
	}, nil
}

// filterPhase returns nil if nothing in the phase happened inside the fragment.
func (f *CompilationFragment) filterPhase(phase *optimization.Phase) *optimization.Phase {
	res := copyPhase(phase)
	for _, child := range phase.Children() {
		switch child := child.(type) {
		case *optimization.Phase:
			if filtered := f.filterPhase(child); filtered != nil {
				tree.AddChild[optimization.Node](res, filtered)
			}
		case *optimization.Optimization:
			relative, err := child.Position.RelativeTo(f.path)
			if err != nil {
				continue
			}
			tree.AddChild[optimization.Node](res, child.WithPosition(relative))
		}
	}
	if res.IsLeaf() {
		return nil
	}
	return res
}

func copyPhase(phase *optimization.Phase) *optimization.Phase {
	res := optimization.NewPhase(phase.Name)
	res.Unordered = phase.Unordered
	return res
}

////////////////////////////////////////////////////////////////////////////////

// FragmentCreator splits the compilations of one experiment into fragments so that methods inlined
// there can be compared with standalone compilations of the other experiment.
type FragmentCreator struct {
	logger xlog.Logger
}

func NewFragmentCreator(logger xlog.Logger) *FragmentCreator {
	return &FragmentCreator{logger: logger.WithName("FragmentCreator")}
}

// CreateFragments adds to target a fragment for every inlined callsite of a hot compilation whose
// method has a hot compilation in other. Returns the number of created fragments.
func (c *FragmentCreator) CreateFragments(ctx context.Context, target, other *Experiment) int {
	hotInOther := make(map[string]bool)
	for _, unit := range other.HotCompilationUnits() {
		hotInOther[unit.MethodName] = true
	}

	created := 0
	for _, unit := range target.HotCompilationUnits() {
		if _, isFragment := unit.Fragment(); isFragment {
			continue
		}
		trees, err := unit.Trees()
		if err != nil {
			c.logger.Warn(ctx, "Skipping compilation without trees",
				zap.String("compilation_id", unit.CompilationID),
				zap.Error(err),
			)
			continue
		}

		seen := make(map[string]bool)
		for _, node := range trees.Inlining.Nodes() {
			if node.IsRoot() || !node.Inlined || !hotInOther[node.MethodName] {
				continue
			}
			path := node.PathFromRoot()
			if seen[path.String()] {
				continue
			}
			seen[path.String()] = true
			target.AddFragment(unit, path, fmt.Sprintf("%s#%d", unit.CompilationID, len(seen)))
			created++
		}
	}

	c.logger.Debug(ctx, "Created compilation fragments",
		zap.Stringer("experiment", target.ID),
		zap.Int("count", created),
	)
	return created
}

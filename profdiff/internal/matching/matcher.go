package matching

import (
	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/internal/optimization"
)

// MatchedMethod is a method compiled in both experiments.
type MatchedMethod struct {
	Pair *MethodPair
	// MatchedCompilationUnits are the pairs of hot compilations.
	MatchedCompilationUnits []*CompilationUnitPair
	// UnmatchedCompilationUnits are hot compilations left without a counterpart.
	UnmatchedCompilationUnits []*experiment.CompilationUnit
}

// ExperimentMatching splits the hot methods of an experiment pair into matched and unmatched ones.
// Both lists keep the order of ExperimentPair.HotMethodPairsByDescendingPeriod.
type ExperimentMatching struct {
	MatchedMethods   []*MatchedMethod
	UnmatchedMethods []*experiment.Method
}

type GreedyMethodMatcher struct{}

func (GreedyMethodMatcher) Match(pair *ExperimentPair) *ExperimentMatching {
	res := &ExperimentMatching{
		MatchedMethods:   make([]*MatchedMethod, 0),
		UnmatchedMethods: make([]*experiment.Method, 0),
	}
	for _, methodPair := range pair.HotMethodPairsByDescendingPeriod() {
		if !methodPair.IsMatched() {
			if methodPair.First != nil {
				res.UnmatchedMethods = append(res.UnmatchedMethods, methodPair.First)
			} else {
				res.UnmatchedMethods = append(res.UnmatchedMethods, methodPair.Second)
			}
			continue
		}

		matched := &MatchedMethod{
			Pair:                      methodPair,
			MatchedCompilationUnits:   make([]*CompilationUnitPair, 0),
			UnmatchedCompilationUnits: make([]*experiment.CompilationUnit, 0),
		}
		for _, unitPair := range methodPair.CompilationUnitPairs() {
			switch {
			case unitPair.IsMatched():
				matched.MatchedCompilationUnits = append(matched.MatchedCompilationUnits, unitPair)
			case unitPair.First != nil:
				matched.UnmatchedCompilationUnits = append(matched.UnmatchedCompilationUnits, unitPair.First)
			default:
				matched.UnmatchedCompilationUnits = append(matched.UnmatchedCompilationUnits, unitPair.Second)
			}
		}
		res.MatchedMethods = append(res.MatchedMethods, matched)
	}
	return res
}

////////////////////////////////////////////////////////////////////////////////

type OptimizationPair struct {
	First  *optimization.Optimization
	Second *optimization.Optimization
}

// OptimizationMatching is the result of matching two lists of optimizations.
type OptimizationMatching struct {
	matched   []OptimizationPair
	unmatched map[experiment.ID][]*optimization.Optimization
}

func (m *OptimizationMatching) Matched() []OptimizationPair {
	return m.matched
}

// Unmatched returns the optimizations of the given experiment which have no equal counterpart.
func (m *OptimizationMatching) Unmatched(id experiment.ID) []*optimization.Optimization {
	return m.unmatched[id]
}

func (m *OptimizationMatching) HasDifferences() bool {
	return len(m.unmatched[experiment.ExperimentIDOne]) > 0 || len(m.unmatched[experiment.ExperimentIDTwo]) > 0
}

// SetBasedOptimizationMatcher matches equal optimizations regardless of their order.
// Every occurrence of a duplicate is matched at most once.
type SetBasedOptimizationMatcher struct{}

func (SetBasedOptimizationMatcher) Match(first, second []*optimization.Optimization) *OptimizationMatching {
	pending := make(map[string][]int)
	for i, o := range second {
		key := o.Key()
		pending[key] = append(pending[key], i)
	}

	res := &OptimizationMatching{
		matched: make([]OptimizationPair, 0),
		unmatched: map[experiment.ID][]*optimization.Optimization{
			experiment.ExperimentIDOne: make([]*optimization.Optimization, 0),
			experiment.ExperimentIDTwo: make([]*optimization.Optimization, 0),
		},
	}
	used := make([]bool, len(second))
	for _, o := range first {
		key := o.Key()
		candidates := pending[key]
		if len(candidates) == 0 {
			res.unmatched[experiment.ExperimentIDOne] = append(res.unmatched[experiment.ExperimentIDOne], o)
			continue
		}
		used[candidates[0]] = true
		res.matched = append(res.matched, OptimizationPair{First: o, Second: second[candidates[0]]})
		pending[key] = candidates[1:]
	}
	for i, o := range second {
		if !used[i] {
			res.unmatched[experiment.ExperimentIDTwo] = append(res.unmatched[experiment.ExperimentIDTwo], o)
		}
	}
	return res
}

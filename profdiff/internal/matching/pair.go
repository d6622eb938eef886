package matching

import (
	"cmp"
	"slices"

	"github.com/yandex/profdiff/profdiff/internal/experiment"
)

// ExperimentPair is two experiments compared with each other.
type ExperimentPair struct {
	first  *experiment.Experiment
	second *experiment.Experiment
}

func NewExperimentPair(first, second *experiment.Experiment) *ExperimentPair {
	return &ExperimentPair{first: first, second: second}
}

func (p *ExperimentPair) First() *experiment.Experiment {
	return p.first
}

func (p *ExperimentPair) Second() *experiment.Experiment {
	return p.second
}

func (p *ExperimentPair) Experiment(id experiment.ID) *experiment.Experiment {
	if id == experiment.ExperimentIDTwo {
		return p.second
	}
	return p.first
}

// HotMethodPairsByDescendingPeriod pairs the methods with a hot compilation in either experiment by name.
// A method missing from one experiment is paired with nil. Pairs are ordered by the combined period of
// all compilations of the method in both experiments, ties by name.
func (p *ExperimentPair) HotMethodPairsByDescendingPeriod() []*MethodPair {
	firstMethods := methodsByName(p.first)
	secondMethods := methodsByName(p.second)

	pairs := make([]*MethodPair, 0)
	seen := make(map[string]bool)
	for _, names := range [][]string{firstMethods.names, secondMethods.names} {
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			pair := &MethodPair{
				Name:   name,
				First:  firstMethods.index[name],
				Second: secondMethods.index[name],
			}
			if pair.IsHot() {
				pairs = append(pairs, pair)
			}
		}
	}

	slices.SortStableFunc(pairs, func(a, b *MethodPair) int {
		return cmp.Or(cmp.Compare(b.TotalPeriod(), a.TotalPeriod()), cmp.Compare(a.Name, b.Name))
	})
	return pairs
}

type methodIndex struct {
	names []string
	index map[string]*experiment.Method
}

func methodsByName(e *experiment.Experiment) methodIndex {
	res := methodIndex{index: make(map[string]*experiment.Method)}
	if e == nil {
		return res
	}
	for _, method := range e.Methods() {
		res.names = append(res.names, method.Name)
		res.index[method.Name] = method
	}
	return res
}

////////////////////////////////////////////////////////////////////////////////

// MethodPair is one method in both experiments. Either side is nil if the method was not compiled there.
type MethodPair struct {
	Name   string
	First  *experiment.Method
	Second *experiment.Method
}

func (p *MethodPair) Method(id experiment.ID) *experiment.Method {
	if id == experiment.ExperimentIDTwo {
		return p.Second
	}
	return p.First
}

func (p *MethodPair) IsMatched() bool {
	return p.First != nil && p.Second != nil
}

func (p *MethodPair) IsHot() bool {
	return (p.First != nil && p.First.IsHot()) || (p.Second != nil && p.Second.IsHot())
}

// TotalPeriod is the period of every compilation of the method in both experiments.
func (p *MethodPair) TotalPeriod() int64 {
	var total int64
	for _, method := range []*experiment.Method{p.First, p.Second} {
		if method != nil {
			total += method.TotalPeriod()
		}
	}
	return total
}

// CompilationUnitPairs zips the hot compilations of both sides ranked by descending period.
// The excess of the longer side is paired with nil. Pairs are ordered by their combined period.
func (p *MethodPair) CompilationUnitPairs() []*CompilationUnitPair {
	first := hotUnitsByDescendingPeriod(p.First)
	second := hotUnitsByDescendingPeriod(p.Second)

	pairs := make([]*CompilationUnitPair, 0, max(len(first), len(second)))
	for i := 0; i < max(len(first), len(second)); i++ {
		pair := &CompilationUnitPair{}
		if i < len(first) {
			pair.First = first[i]
		}
		if i < len(second) {
			pair.Second = second[i]
		}
		pairs = append(pairs, pair)
	}

	slices.SortStableFunc(pairs, func(a, b *CompilationUnitPair) int {
		return cmp.Compare(b.Period(), a.Period())
	})
	return pairs
}

func hotUnitsByDescendingPeriod(method *experiment.Method) []*experiment.CompilationUnit {
	if method == nil {
		return nil
	}
	units := method.HotCompilationUnits()
	slices.SortStableFunc(units, func(a, b *experiment.CompilationUnit) int {
		return cmp.Compare(b.Period, a.Period)
	})
	return units
}

////////////////////////////////////////////////////////////////////////////////

// CompilationUnitPair is a compilation of a method in each experiment. Either side may be nil.
type CompilationUnitPair struct {
	First  *experiment.CompilationUnit
	Second *experiment.CompilationUnit
}

func (p *CompilationUnitPair) Unit(id experiment.ID) *experiment.CompilationUnit {
	if id == experiment.ExperimentIDTwo {
		return p.Second
	}
	return p.First
}

func (p *CompilationUnitPair) IsMatched() bool {
	return p.First != nil && p.Second != nil
}

// Period is the combined period of both compilations.
func (p *CompilationUnitPair) Period() int64 {
	var period int64
	for _, unit := range []*experiment.CompilationUnit{p.First, p.Second} {
		if unit != nil {
			period += unit.Period
		}
	}
	return period
}

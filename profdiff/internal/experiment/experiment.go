package experiment

import (
	"fmt"

	"github.com/yandex/profdiff/profdiff/internal/position"
	"github.com/yandex/profdiff/profdiff/pkg/foreach"
)

// ID is the role of an experiment in a comparison.
type ID int

const (
	ExperimentIDOne ID = 1
	ExperimentIDTwo ID = 2
)

func (id ID) String() string {
	return fmt.Sprintf("%d", int(id))
}

// Other returns the id of the opposite experiment.
func (id ID) Other() ID {
	if id == ExperimentIDOne {
		return ExperimentIDTwo
	}
	return ExperimentIDOne
}

type CompilationKind int

const (
	// CompilationKindJIT marks code compiled at run time by the compiler under study.
	CompilationKindJIT CompilationKind = iota
	// CompilationKindAOT marks code compiled ahead of time into a native image.
	CompilationKindAOT
)

func (k CompilationKind) String() string {
	switch k {
	case CompilationKindJIT:
		return "jit"
	case CompilationKindAOT:
		return "aot"
	default:
		return fmt.Sprintf("CompilationKind(%d)", int(k))
	}
}

func ParseCompilationKind(s string) (CompilationKind, error) {
	switch s {
	case "jit", "JIT":
		return CompilationKindJIT, nil
	case "aot", "AOT":
		return CompilationKindAOT, nil
	default:
		return 0, fmt.Errorf("unknown compilation kind %q", s)
	}
}

////////////////////////////////////////////////////////////////////////////////

// Experiment is one profiled run together with the compilations recorded during it.
// The periods of the compilation units need not add up to TotalPeriod.
type Experiment struct {
	ID              ID
	CompilationKind CompilationKind
	// ExecutionID identifies the profiled run.
	ExecutionID string
	// TotalPeriod is the period of every sample recorded during the run.
	TotalPeriod int64
	// CompilerPeriod is the part of TotalPeriod spent in code produced by the compiler under study.
	CompilerPeriod int64

	OptimizationLogPath string
	ProfilePath         string

	units []*CompilationUnit
}

func New(id ID, kind CompilationKind) *Experiment {
	return &Experiment{
		ID:              id,
		CompilationKind: kind,
		units:           make([]*CompilationUnit, 0),
	}
}

// AddCompilationUnit registers a compilation whose trees are provided by loader.
func (e *Experiment) AddCompilationUnit(compilationID, methodName string, period int64, loader TreeLoader) *CompilationUnit {
	unit := &CompilationUnit{
		CompilationID: compilationID,
		MethodName:    methodName,
		Period:        period,
		experiment:    e,
		loader:        loader,
	}
	e.units = append(e.units, unit)
	return unit
}

// AddFragment registers a fragment of parent rooted at path as a compilation of its own.
// The fragment inherits the period and the hot flag of the parent.
func (e *Experiment) AddFragment(parent *CompilationUnit, path position.InliningPath, compilationID string) *CompilationUnit {
	fragment := NewCompilationFragment(parent, path)
	unit := e.AddCompilationUnit(compilationID, path.Last().MethodName, parent.Period, fragment)
	unit.fragment = fragment
	unit.hot = parent.hot
	return unit
}

// CompilationUnits returns the units in the order they were added.
func (e *Experiment) CompilationUnits() []*CompilationUnit {
	return e.units
}

func (e *Experiment) HotCompilationUnits() []*CompilationUnit {
	return foreach.Filter(e.units, (*CompilationUnit).IsHot)
}

// Methods groups the compilation units by method. Variants of a multi-method share one Method.
// Methods are ordered by their first compilation.
func (e *Experiment) Methods() []*Method {
	names, groups := foreach.GroupBy(e.units, func(unit *CompilationUnit) string {
		name, _ := SplitMultiMethodName(unit.MethodName)
		return name
	})
	return foreach.Map(names, func(name string) *Method {
		return &Method{Name: name, experiment: e, units: groups[name]}
	})
}

// Method returns the method with the given name, if it was compiled in this experiment.
func (e *Experiment) Method(name string) (*Method, bool) {
	for _, method := range e.Methods() {
		if method.Name == name {
			return method, true
		}
	}
	return nil, false
}

// Source describes where the experiment was read from.
func (e *Experiment) Source() string {
	if e.ProfilePath == "" {
		return e.OptimizationLogPath
	}
	return fmt.Sprintf("%s, %s", e.OptimizationLogPath, e.ProfilePath)
}

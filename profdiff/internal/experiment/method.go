package experiment

import (
	"strings"

	"github.com/yandex/profdiff/profdiff/pkg/foreach"
)

const multiMethodKeySeparator = "%%"

// SplitMultiMethodName splits the name of a multi-method variant into the name of the method and the
// variant key, e.g. "Foo.bar%%Key(int)" into "Foo.bar(int)" and "Key".
// Names of plain methods are returned unchanged with an empty key.
func SplitMultiMethodName(name string) (string, string) {
	start := strings.Index(name, multiMethodKeySeparator)
	if start < 0 {
		return name, ""
	}
	end := strings.IndexByte(name[start:], '(')
	if end < 0 {
		return name[:start], name[start+len(multiMethodKeySeparator):]
	}
	end += start
	return name[:start] + name[end:], name[start+len(multiMethodKeySeparator) : end]
}

////////////////////////////////////////////////////////////////////////////////

// Method is a method together with all its compilations in one experiment.
type Method struct {
	Name string

	experiment *Experiment
	units      []*CompilationUnit
}

func (m *Method) Experiment() *Experiment {
	return m.experiment
}

func (m *Method) CompilationUnits() []*CompilationUnit {
	return m.units
}

func (m *Method) HotCompilationUnits() []*CompilationUnit {
	return foreach.Filter(m.units, (*CompilationUnit).IsHot)
}

func (m *Method) IsHot() bool {
	return foreach.Any(m.units, (*CompilationUnit).IsHot)
}

// TotalPeriod sums the periods of all compilations of the method, hot or not.
func (m *Method) TotalPeriod() int64 {
	return foreach.SumBy(m.units, func(unit *CompilationUnit) int64 {
		return unit.Period
	})
}

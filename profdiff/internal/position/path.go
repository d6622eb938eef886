package position

import (
	"strconv"
	"strings"
)

// PathElement identifies a method invoked at the given callsite bci of its caller.
type PathElement struct {
	MethodName  string
	CallsiteBCI int
}

func (e PathElement) String() string {
	if e.CallsiteBCI == RootBCI {
		return e.MethodName
	}
	return e.MethodName + " at bci " + strconv.Itoa(e.CallsiteBCI)
}

// InliningPath is a chain of methods from the root of a compilation down to an inlined method.
type InliningPath []PathElement

func (p InliningPath) Equal(other InliningPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p InliningPath) HasPrefix(prefix InliningPath) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

func (p InliningPath) Len() int {
	return len(p)
}

// Prefix returns the first n elements of the path.
func (p InliningPath) Prefix(n int) InliningPath {
	return p[:min(n, len(p))]
}

// Last returns the innermost element of a non-empty path.
func (p InliningPath) Last() PathElement {
	return p[len(p)-1]
}

func (p InliningPath) String() string {
	parts := make([]string, 0, len(p))
	for _, e := range p {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

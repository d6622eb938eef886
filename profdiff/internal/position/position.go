package position

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// RootBCI is the callsite bci of the root method of a compilation.
	RootBCI = -1
	// UnknownBCI is reported for positions which do not carry a bci.
	UnknownBCI = -2
)

var ErrNotPrefix = errors.New("inlining path is not a prefix of the enclosing method path")

////////////////////////////////////////////////////////////////////////////////

type Frame struct {
	MethodName string
	BCI        int
}

// Position is a chain of frames from the innermost to the outermost method.
// Positions are immutable; use New to construct them.
type Position struct {
	frames []Frame
}

// Empty is the canonical position without frames.
var Empty = &Position{}

func New(frames ...Frame) *Position {
	if len(frames) == 0 {
		return Empty
	}
	return &Position{frames: append([]Frame(nil), frames...)}
}

// Normalize maps nil to Empty.
func Normalize(p *Position) *Position {
	if p == nil {
		return Empty
	}
	return p
}

func (p *Position) Depth() int {
	if p == nil {
		return 0
	}
	return len(p.frames)
}

func (p *Position) IsEmpty() bool {
	return p.Depth() == 0
}

// Frames returns a copy of the frames, innermost first.
func (p *Position) Frames() []Frame {
	if p.IsEmpty() {
		return nil
	}
	return append([]Frame(nil), p.frames...)
}

// BCI returns the bci of the innermost frame.
func (p *Position) BCI() int {
	if p.IsEmpty() {
		return UnknownBCI
	}
	return p.frames[0].BCI
}

func (p *Position) Equal(other *Position) bool {
	return p.Compare(other) == 0
}

// Compare orders positions by depth first and then lexicographically by frames.
func (p *Position) Compare(other *Position) int {
	if c := cmp.Compare(p.Depth(), other.Depth()); c != 0 {
		return c
	}
	for i := 0; i < p.Depth(); i++ {
		a, b := p.frames[i], other.frames[i]
		if c := cmp.Or(cmp.Compare(a.MethodName, b.MethodName), cmp.Compare(a.BCI, b.BCI)); c != 0 {
			return c
		}
	}
	return 0
}

// EnclosingMethodPath returns the path from the outermost method to the innermost one.
// Every element carries the bci of the callsite in its caller; the outermost uses RootBCI.
func (p *Position) EnclosingMethodPath() InliningPath {
	depth := p.Depth()
	path := make(InliningPath, 0, depth)
	for i := depth - 1; i >= 0; i-- {
		callsite := RootBCI
		if i+1 < depth {
			callsite = p.frames[i+1].BCI
		}
		path = append(path, PathElement{MethodName: p.frames[i].MethodName, CallsiteBCI: callsite})
	}
	return path
}

// RelativeTo makes the position relative to the last method of prefix, so that this method becomes
// the outermost frame.
func (p *Position) RelativeTo(prefix InliningPath) (*Position, error) {
	if len(prefix) == 0 {
		return Normalize(p), nil
	}
	if !p.EnclosingMethodPath().HasPrefix(prefix) {
		return nil, fmt.Errorf("%w: path %s, position %s", ErrNotPrefix, prefix, p)
	}
	return New(p.frames[:len(p.frames)-len(prefix)+1]...), nil
}

// ShortString renders only the bci of the innermost frame.
func (p *Position) ShortString() string {
	if p.IsEmpty() {
		return "{}"
	}
	return strconv.Itoa(p.BCI())
}

func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i := 0; i < p.Depth(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.frames[i].MethodName)
		sb.WriteString(": ")
		sb.WriteString(strconv.Itoa(p.frames[i].BCI))
	}
	sb.WriteByte('}')
	return sb.String()
}

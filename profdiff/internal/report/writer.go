package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

const indentation = "    "

type Options struct {
	// BCILongForm prints the full position of an optimization instead of the innermost bci.
	BCILongForm bool `yaml:"bci_long_form"`
	// SortUnorderedPhases sorts the children of phases whose order carries no meaning.
	SortUnorderedPhases bool `yaml:"sort_unordered_phases"`
	// PruneIdentities hides unchanged subtrees of tree diffs.
	PruneIdentities bool `yaml:"prune_identities"`
	// OptimizationContextTree prints optimizations under the callsites they were performed in.
	OptimizationContextTree bool `yaml:"optimization_context_tree"`
	// DiffCompilations prints the difference of paired compilations instead of both of them.
	DiffCompilations bool `yaml:"diff_compilations"`
}

func DefaultOptions() Options {
	return Options{
		SortUnorderedPhases: true,
		PruneIdentities:     true,
		DiffCompilations:    true,
	}
}

// Writer renders reports as indented text. The first write error is kept and
// every later write is skipped.
type Writer struct {
	out     io.Writer
	options Options
	depth   int
	err     error
}

func NewWriter(out io.Writer, options Options) *Writer {
	return &Writer{out: out, options: options}
}

func (w *Writer) Options() Options {
	return w.options
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) Indent() {
	w.depth++
}

func (w *Writer) Outdent() {
	if w.depth > 0 {
		w.depth--
	}
}

// Section writes a header and runs body one level deeper.
func (w *Writer) Section(body func(), format string, args ...any) {
	w.Writeln(format, args...)
	w.Indent()
	defer w.Outdent()
	body()
}

func (w *Writer) Writeln(format string, args ...any) {
	w.writeAt(w.depth, fmt.Sprintf(format, args...))
}

func (w *Writer) writeAt(depth int, line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, strings.Repeat(indentation, depth)+line+"\n")
}

func (w *Writer) Newline() {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, "\n")
}

////////////////////////////////////////////////////////////////////////////////

func formatPeriod(period int64) string {
	return humanize.Comma(period)
}

func formatShare(part, total int64) string {
	if total <= 0 {
		return "n/a"
	}
	return humanize.FormatFloat("#,###.##", 100*float64(part)/float64(total)) + "%"
}

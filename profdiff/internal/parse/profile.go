package parse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/pprof/profile"
)

const (
	CompileIDLabel   = "compile_id"
	CompileKindLabel = "compile_kind"

	executionIDComment = "execution_id="
)

var ErrUnknownSampleType = errors.New("unknown sample type")

type ProfileOptions struct {
	// SampleType selects the sample value; the default sample type of the profile is used if empty.
	SampleType string `yaml:"sample_type"`
}

// Profile is the execution period of a profiled run attributed to compilations.
type Profile struct {
	ExecutionID string
	// TotalPeriod is the period of every sample.
	TotalPeriod int64
	// CompilerPeriod is the period of samples in compiled code.
	CompilerPeriod int64
	// CompilationPeriods maps compilation ids to their periods.
	CompilationPeriods map[string]int64
	// MethodPeriods maps method names to the period of their compiled code, by compilation kind.
	MethodPeriods map[string]map[string]int64
}

// MethodPeriod returns the period of the compiled code of a method produced with the given kind.
func (p *Profile) MethodPeriod(kind, method string) int64 {
	return p.MethodPeriods[kind][method]
}

func ReadProfile(path string, options ProfileOptions) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	res, err := ParseProfile(file, options)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if res.ExecutionID == "" {
		res.ExecutionID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return res, nil
}

// ParseProfile reads a pprof profile. Samples labeled with compile_id are attributed to that
// compilation, and to the leaf function of the sample under the compile_kind label.
func ParseProfile(r io.Reader, options ProfileOptions) (*Profile, error) {
	p, err := profile.Parse(r)
	if err != nil {
		return nil, err
	}

	index, err := sampleIndex(p, options.SampleType)
	if err != nil {
		return nil, err
	}

	res := &Profile{
		ExecutionID:        executionID(p),
		CompilationPeriods: make(map[string]int64),
		MethodPeriods:      make(map[string]map[string]int64),
	}
	for _, sample := range p.Sample {
		value := sample.Value[index]
		res.TotalPeriod += value

		ids := sample.Label[CompileIDLabel]
		if len(ids) == 0 {
			continue
		}
		res.CompilerPeriod += value
		res.CompilationPeriods[ids[0]] += value

		kind := "jit"
		if kinds := sample.Label[CompileKindLabel]; len(kinds) > 0 {
			kind = kinds[0]
		}
		if method := leafFunction(sample); method != "" {
			methods, found := res.MethodPeriods[kind]
			if !found {
				methods = make(map[string]int64)
				res.MethodPeriods[kind] = methods
			}
			methods[method] += value
		}
	}
	return res, nil
}

func sampleIndex(p *profile.Profile, sampleType string) (int, error) {
	if len(p.SampleType) == 0 {
		return 0, fmt.Errorf("%w: profile has no sample types", ErrUnknownSampleType)
	}
	if sampleType == "" {
		sampleType = p.DefaultSampleType
	}
	if sampleType == "" {
		return 0, nil
	}
	for i, t := range p.SampleType {
		if t.Type == sampleType {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownSampleType, sampleType)
}

func executionID(p *profile.Profile) string {
	for _, comment := range p.Comments {
		if id, found := strings.CutPrefix(comment, executionIDComment); found {
			return id
		}
	}
	return ""
}

func leafFunction(sample *profile.Sample) string {
	if len(sample.Location) == 0 {
		return ""
	}
	lines := sample.Location[0].Line
	if len(lines) == 0 || lines[0].Function == nil {
		return ""
	}
	return lines[0].Function.Name
}

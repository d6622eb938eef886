package experiment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yandex/profdiff/profdiff/internal/inlining"
	"github.com/yandex/profdiff/profdiff/internal/optimization"
)

var ErrNoTreeLoader = errors.New("no tree loader")

// TreePair holds the trees recorded for one compilation. Either tree may be empty.
type TreePair struct {
	Inlining     *inlining.Tree
	Optimization *optimization.Tree
}

// TreeLoader provides the trees of a compilation on demand.
type TreeLoader interface {
	LoadTrees() (TreePair, error)
}

type TreeLoaderFunc func() (TreePair, error)

func (f TreeLoaderFunc) LoadTrees() (TreePair, error) {
	return f()
}

// LoadError reports that the trees of a compilation could not be loaded.
type LoadError struct {
	CompilationID string
	Err           error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load trees of compilation %s: %v", e.CompilationID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

////////////////////////////////////////////////////////////////////////////////

// CompilationUnit is a single compilation of a method.
type CompilationUnit struct {
	CompilationID string
	MethodName    string
	Period        int64

	experiment *Experiment
	fragment   *CompilationFragment
	hot        bool

	loader TreeLoader
	mutex  sync.Mutex
	loaded bool
	trees  TreePair
	err    error
}

func (u *CompilationUnit) Experiment() *Experiment {
	return u.experiment
}

func (u *CompilationUnit) IsHot() bool {
	return u.hot
}

func (u *CompilationUnit) SetHot(hot bool) {
	u.hot = hot
}

// Fragment returns the fragment description if the unit is a part of another compilation.
func (u *CompilationUnit) Fragment() (*CompilationFragment, bool) {
	return u.fragment, u.fragment != nil
}

// MultiMethodKey returns the variant key of a multi-method compilation, or an empty string.
func (u *CompilationUnit) MultiMethodKey() string {
	_, key := SplitMultiMethodName(u.MethodName)
	return key
}

// Trees loads the trees of the compilation. The loader runs at most once; its result,
// including a failure, is cached. Safe for concurrent use.
func (u *CompilationUnit) Trees() (TreePair, error) {
	u.mutex.Lock()
	defer u.mutex.Unlock()

	if !u.loaded {
		u.trees, u.err = u.load()
		u.loaded = true
	}
	return u.trees, u.err
}

func (u *CompilationUnit) load() (TreePair, error) {
	if u.loader == nil {
		return TreePair{}, &LoadError{CompilationID: u.CompilationID, Err: ErrNoTreeLoader}
	}
	trees, err := u.loader.LoadTrees()
	if err != nil {
		return TreePair{}, &LoadError{CompilationID: u.CompilationID, Err: err}
	}
	return trees, nil
}

func (u *CompilationUnit) String() string {
	return fmt.Sprintf("compilation %s of %s in experiment %s", u.CompilationID, u.MethodName, u.experiment.ID)
}

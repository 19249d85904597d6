package listing

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ProjectFilter selects projects by name with doublestar globs. An empty
// include list admits every project; excludes always win.
type ProjectFilter struct {
	include []string
	exclude []string
}

// NewProjectFilter validates the patterns and builds a filter
func NewProjectFilter(include, exclude []string) (*ProjectFilter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid project pattern %q", p)
		}
	}
	return &ProjectFilter{include: include, exclude: exclude}, nil
}

// Allows reports whether project passes the filter. A nil filter admits everything.
func (f *ProjectFilter) Allows(project string) bool {
	if f == nil {
		return true
	}
	for _, p := range f.exclude {
		if ok, _ := doublestar.Match(p, project); ok {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if ok, _ := doublestar.Match(p, project); ok {
			return true
		}
	}
	return false
}

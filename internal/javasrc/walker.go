package javasrc

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/sourcerer/internal/listing"
)

// SourceFile is one Java file of a project
type SourceFile struct {
	Project string
	// Path is relative to the project root and always uses '/'
	Path    string
	AbsPath string
}

// Dir returns the project-relative directory of the file, "." at the root
func (f SourceFile) Dir() string {
	if i := strings.LastIndexByte(f.Path, '/'); i >= 0 {
		return f.Path[:i]
	}
	return "."
}

// Name returns the file name
func (f SourceFile) Name() string {
	return f.Path[strings.LastIndexByte(f.Path, '/')+1:]
}

// Walker finds the Java files of a repository laid out as one directory per
// project.
type Walker struct {
	Root string
	// Exclude holds doublestar patterns matched against project-relative paths
	Exclude []string
	Filter  *listing.ProjectFilter
}

// Projects returns the sorted names of the project directories that pass
// the filter
func (w *Walker) Projects() ([]string, error) {
	entries, err := os.ReadDir(w.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository %s: %w", w.Root, err)
	}
	var projects []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.ContainsAny(e.Name(), " \t") {
			continue
		}
		if w.Filter.Allows(e.Name()) {
			projects = append(projects, e.Name())
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// WalkProject calls fn for every Java file of project in lexical order
func (w *Walker) WalkProject(ctx context.Context, project string, fn func(SourceFile) error) error {
	base := filepath.Join(w.Root, project)
	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || w.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".java") || w.excluded(rel) {
			return nil
		}
		return fn(SourceFile{Project: project, Path: rel, AbsPath: path})
	})
}

func (w *Walker) excluded(rel string) bool {
	for _, p := range w.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

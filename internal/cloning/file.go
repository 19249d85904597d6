package cloning

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/sourcerer/domain"
)

// File is one source file of a project with the keys gathered for it.
// Every key can be set once.
type File struct {
	project     *Project
	path        string
	hash        *SimpleKey
	fqn         *SimpleKey
	fingerprint *FingerprintKey
	combined    *ComplexKey
	dir         *ComplexKey
}

func (f *File) Project() *Project { return f.project }
func (f *File) Path() string      { return f.path }

func (f *File) String() string {
	return f.project.name + " " + f.path
}

func (f *File) HashKey() *SimpleKey             { return f.hash }
func (f *File) FqnKey() *SimpleKey              { return f.fqn }
func (f *File) FingerprintKey() *FingerprintKey { return f.fingerprint }
func (f *File) CombinedKey() *ComplexKey        { return f.combined }
func (f *File) DirKey() *ComplexKey             { return f.dir }

func (f *File) HasHashKey() bool        { return f.hash != nil }
func (f *File) HasFqnKey() bool         { return f.fqn != nil }
func (f *File) HasFingerprintKey() bool { return f.fingerprint != nil }
func (f *File) HasCombinedKey() bool    { return f.combined != nil }
func (f *File) HasDirKey() bool         { return f.dir != nil }

// HasAllKeys reports whether hash, FQN and fingerprint keys are all present
func (f *File) HasAllKeys() bool {
	return f.hash != nil && f.fqn != nil && f.fingerprint != nil
}

// Key returns the key of the given method, nil when absent
func (f *File) Key(method domain.DetectionMethod) Key {
	switch method {
	case domain.MethodHash:
		if f.hash != nil {
			return f.hash
		}
	case domain.MethodFqn:
		if f.fqn != nil {
			return f.fqn
		}
	case domain.MethodFingerprint:
		if f.fingerprint != nil {
			return f.fingerprint
		}
	case domain.MethodCombined:
		if f.combined != nil {
			return f.combined
		}
	case domain.MethodDir:
		if f.dir != nil {
			return f.dir
		}
	}
	return nil
}

func (f *File) resetError(method domain.DetectionMethod) error {
	return domain.NewInvariantError(fmt.Sprintf("%s key set twice for %s", method, f), nil)
}

// SetHashKey sets the hash key and registers the file with it
func (f *File) SetHashKey(k *SimpleKey) error {
	if f.hash != nil {
		return f.resetError(domain.MethodHash)
	}
	f.hash = k
	k.addFile(f)
	return nil
}

// SetFqnKey sets the FQN key and registers the file with it
func (f *File) SetFqnKey(k *SimpleKey) error {
	if f.fqn != nil {
		return f.resetError(domain.MethodFqn)
	}
	f.fqn = k
	k.addFile(f)
	return nil
}

// SetFingerprintKey sets a fingerprint created for this file
func (f *File) SetFingerprintKey(k *FingerprintKey) error {
	if f.fingerprint != nil {
		return f.resetError(domain.MethodFingerprint)
	}
	if k.file != f {
		return domain.NewInvariantError(fmt.Sprintf("fingerprint of %s set on %s", k.file, f), nil)
	}
	f.fingerprint = k
	return nil
}

func (f *File) SetCombinedKey(k *ComplexKey) error {
	if f.combined != nil {
		return f.resetError(domain.MethodCombined)
	}
	f.combined = k
	return nil
}

func (f *File) SetDirKey(k *ComplexKey) error {
	if f.dir != nil {
		return f.resetError(domain.MethodDir)
	}
	f.dir = k
	return nil
}

// detach unregisters the file from its shared keys
func (f *File) detach() {
	for _, k := range []*SimpleKey{f.hash, f.fqn} {
		if k == nil {
			continue
		}
		for i, other := range k.files {
			if other == f {
				k.files = append(k.files[:i], k.files[i+1:]...)
				break
			}
		}
	}
	if f.fingerprint != nil {
		f.fingerprint.detached = true
	}
}

// Project is a named collection of files in insertion order
type Project struct {
	name   string
	files  []*File
	byPath map[string]*File
}

func newProject(name string) *Project {
	return &Project{name: name, byPath: make(map[string]*File)}
}

func (p *Project) Name() string   { return p.name }
func (p *Project) Files() []*File { return p.files }
func (p *Project) Size() int      { return len(p.files) }
func (p *Project) String() string { return p.name }

// File returns the file at path, creating it if needed
func (p *Project) File(path string) *File {
	if f, ok := p.byPath[path]; ok {
		return f
	}
	f := &File{project: p, path: path}
	p.byPath[path] = f
	p.files = append(p.files, f)
	return f
}

// LookupFile returns the file at path without creating it
func (p *Project) LookupFile(path string) (*File, bool) {
	f, ok := p.byPath[path]
	return f, ok
}

// FilterFiles drops every file lacking a hash, FQN or fingerprint key and
// returns how many were dropped.
func (p *Project) FilterFiles() int {
	kept := p.files[:0]
	removed := 0
	for _, f := range p.files {
		if f.HasAllKeys() {
			kept = append(kept, f)
			continue
		}
		f.detach()
		delete(p.byPath, f.path)
		removed++
	}
	for i := len(kept); i < len(p.files); i++ {
		p.files[i] = nil
	}
	p.files = kept
	return removed
}

// ProjectMap holds every project by name and the key factory shared by their files
type ProjectMap struct {
	factory  *KeyFactory
	projects map[string]*Project
	names    []string
}

// NewProjectMap creates an empty map around factory
func NewProjectMap(factory *KeyFactory) *ProjectMap {
	return &ProjectMap{factory: factory, projects: make(map[string]*Project)}
}

func (pm *ProjectMap) Factory() *KeyFactory { return pm.factory }

// Project returns the named project, creating it if needed
func (pm *ProjectMap) Project(name string) *Project {
	if p, ok := pm.projects[name]; ok {
		return p
	}
	p := newProject(name)
	pm.projects[name] = p
	i := sort.SearchStrings(pm.names, name)
	pm.names = append(pm.names, "")
	copy(pm.names[i+1:], pm.names[i:])
	pm.names[i] = name
	return p
}

// LookupProject returns the named project without creating it
func (pm *ProjectMap) LookupProject(name string) (*Project, bool) {
	p, ok := pm.projects[name]
	return p, ok
}

// File returns the file of a project, creating both if needed
func (pm *ProjectMap) File(project, path string) *File {
	return pm.Project(project).File(path)
}

// LookupFile returns an existing file
func (pm *ProjectMap) LookupFile(project, path string) (*File, bool) {
	p, ok := pm.projects[project]
	if !ok {
		return nil, false
	}
	return p.LookupFile(path)
}

// Projects returns the projects ordered by name
func (pm *ProjectMap) Projects() []*Project {
	out := make([]*Project, len(pm.names))
	for i, name := range pm.names {
		out[i] = pm.projects[name]
	}
	return out
}

// FileCount returns the number of files across all projects
func (pm *ProjectMap) FileCount() int {
	n := 0
	for _, p := range pm.projects {
		n += len(p.files)
	}
	return n
}

// FilterFiles drops every file lacking one of the three base keys
func (pm *ProjectMap) FilterFiles() int {
	removed := 0
	for _, name := range pm.names {
		removed += pm.projects[name].FilterFiles()
	}
	return removed
}

// AddHash attaches the hash key for a file
func (pm *ProjectMap) AddHash(project, path, md5 string) error {
	return pm.File(project, path).SetHashKey(pm.factory.HashKey(md5))
}

// AddFqn attaches the FQN key for a file
func (pm *ProjectMap) AddFqn(project, path, fqn string) error {
	return pm.File(project, path).SetFqnKey(pm.factory.FqnKey(fqn))
}

// AddFingerprint attaches a fingerprint for a file. Constructors are not part of the key.
func (pm *ProjectMap) AddFingerprint(project, path, name string, fields, methods []string) error {
	f := pm.File(project, path)
	if f.HasFingerprintKey() {
		return f.resetError(domain.MethodFingerprint)
	}
	k, err := pm.factory.FingerprintKey(f, name, fields, methods)
	if err != nil {
		return err
	}
	return f.SetFingerprintKey(k)
}

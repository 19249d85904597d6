package cloning

import (
	"sort"
	"strings"
	"sync"

	"github.com/ludo-technologies/sourcerer/domain"
)

// MethodSet is a bitset of detection methods, one bit per method
type MethodSet uint8

const methodSetSize = 1 << domain.DetectionMethodCount

// NewMethodSet returns the set holding methods
func NewMethodSet(methods ...domain.DetectionMethod) MethodSet {
	var s MethodSet
	for _, m := range methods {
		s = s.With(m)
	}
	return s
}

func (s MethodSet) With(m domain.DetectionMethod) MethodSet {
	return s | 1<<uint(m)
}

func (s MethodSet) Has(m domain.DetectionMethod) bool {
	return s&(1<<uint(m)) != 0
}

// Index is the position of the set in a counter table
func (s MethodSet) Index() int {
	return int(s)
}

func (s MethodSet) String() string {
	var names []string
	for _, m := range domain.DetectionMethods {
		if s.Has(m) {
			names = append(names, m.String())
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "+")
}

// MatchStatus records, for one matched file, the confidence each detection
// method reached.
type MatchStatus struct {
	file    *File
	present MethodSet
	levels  [domain.DetectionMethodCount]domain.Confidence
}

func (s *MatchStatus) File() *File { return s.file }

// Get returns the confidence recorded for method
func (s *MatchStatus) Get(m domain.DetectionMethod) (domain.Confidence, bool) {
	if !s.present.Has(m) {
		return domain.ConfidenceLow, false
	}
	return s.levels[m], true
}

func (s *MatchStatus) Has(m domain.DetectionMethod) bool {
	return s.present.Has(m)
}

// Is reports whether method was recorded at exactly c
func (s *MatchStatus) Is(m domain.DetectionMethod, c domain.Confidence) bool {
	got, ok := s.Get(m)
	return ok && got == c
}

// set keeps the strongest confidence seen for a method
func (s *MatchStatus) set(m domain.DetectionMethod, c domain.Confidence) {
	if s.present.Has(m) && s.levels[m] >= c {
		return
	}
	s.present = s.present.With(m)
	s.levels[m] = c
}

// methods returns the methods that reach threshold. A hash match reaches
// every threshold.
func (s *MatchStatus) methods(threshold domain.Confidence) MethodSet {
	var set MethodSet
	for _, m := range domain.DetectionMethods {
		if !s.present.Has(m) {
			continue
		}
		if m == domain.MethodHash || s.levels[m] >= threshold {
			set = set.With(m)
		}
	}
	return set
}

// MatchingProjects collects the files of one project matched from another
// project, and counts them by the combination of methods that matched.
// The counters are built once; after that the value is read-only.
type MatchingProjects struct {
	project  *Project
	statuses map[*File]*MatchStatus
	once     sync.Once
	built    bool
	tables   [3][methodSetSize]int
}

// NewMatchingProjects creates an empty matching for project. A nil project
// is allowed for scratch matchings spanning several projects.
func NewMatchingProjects(project *Project) *MatchingProjects {
	return &MatchingProjects{project: project, statuses: make(map[*File]*MatchStatus)}
}

func (mp *MatchingProjects) Project() *Project { return mp.project }

// Len returns the number of matched files
func (mp *MatchingProjects) Len() int { return len(mp.statuses) }

// Set records that file matched by method at confidence c
func (mp *MatchingProjects) Set(file *File, m domain.DetectionMethod, c domain.Confidence) error {
	if mp.built {
		return domain.NewInvariantError("match recorded after counters were built for "+file.String(), nil)
	}
	status, ok := mp.statuses[file]
	if !ok {
		status = &MatchStatus{file: file}
		mp.statuses[file] = status
	}
	status.set(m, c)
	return nil
}

// Status returns the status of a matched file
func (mp *MatchingProjects) Status(file *File) (*MatchStatus, bool) {
	s, ok := mp.statuses[file]
	return s, ok
}

// Statuses returns every status ordered by project name, then path
func (mp *MatchingProjects) Statuses() []*MatchStatus {
	out := make([]*MatchStatus, 0, len(mp.statuses))
	for _, s := range mp.statuses {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].file, out[j].file
		if a.project.name != b.project.name {
			return a.project.name < b.project.name
		}
		return a.path < b.path
	})
	return out
}

// Build fills the counter tables. It runs once; queries call it implicitly.
func (mp *MatchingProjects) Build() {
	mp.once.Do(func() {
		for _, s := range mp.statuses {
			for _, c := range domain.Confidences {
				mp.tables[c][s.methods(c).Index()]++
			}
		}
		mp.built = true
	})
}

// Count returns the number of files matched by exactly the given methods at
// confidence c.
func (mp *MatchingProjects) Count(c domain.Confidence, methods ...domain.DetectionMethod) int {
	mp.Build()
	return mp.tables[c][NewMethodSet(methods...).Index()]
}

// CountAtLeast returns the number of files matched by method at confidence c,
// whatever other methods matched them.
func (mp *MatchingProjects) CountAtLeast(m domain.DetectionMethod, c domain.Confidence) int {
	mp.Build()
	total := 0
	for i, n := range mp.tables[c] {
		if MethodSet(i).Has(m) {
			total += n
		}
	}
	return total
}

// CountAny returns the number of files matched by any method at confidence c
func (mp *MatchingProjects) CountAny(c domain.Confidence) int {
	mp.Build()
	total := 0
	for i, n := range mp.tables[c] {
		if i != 0 {
			total += n
		}
	}
	return total
}

package cloning

import (
	"context"
	"sort"

	"github.com/ludo-technologies/sourcerer/domain"
)

// ProjectMatches holds, for one project, a MatchingProjects per other
// project its files matched.
type ProjectMatches struct {
	project  *Project
	matching map[*Project]*MatchingProjects
}

func (pm *ProjectMatches) Project() *Project { return pm.project }

// Get returns the files of other matched from this project
func (pm *ProjectMatches) Get(other *Project) (*MatchingProjects, bool) {
	mp, ok := pm.matching[other]
	return mp, ok
}

func (pm *ProjectMatches) getOrCreate(other *Project) *MatchingProjects {
	mp, ok := pm.matching[other]
	if !ok {
		mp = NewMatchingProjects(other)
		pm.matching[other] = mp
	}
	return mp
}

// MatchingProjects returns every matched project ordered by name
func (pm *ProjectMatches) MatchingProjects() []*MatchingProjects {
	out := make([]*MatchingProjects, 0, len(pm.matching))
	for _, mp := range pm.matching {
		out = append(out, mp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].project.name < out[j].project.name })
	return out
}

// ProjectMatchSet is the ProjectMatches of every project
type ProjectMatchSet struct {
	order     []*ProjectMatches
	byProject map[*Project]*ProjectMatches
}

// NewProjectMatchSet walks the keys of every file holding all base keys and
// records each cross-project match. Matches within a project and matches
// against files lacking a base key are skipped. Counters are built before
// returning.
func NewProjectMatchSet(ctx context.Context, projects *ProjectMap) (*ProjectMatchSet, error) {
	set := &ProjectMatchSet{byProject: make(map[*Project]*ProjectMatches)}
	for _, project := range projects.Projects() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches := &ProjectMatches{project: project, matching: make(map[*Project]*MatchingProjects)}
		set.order = append(set.order, matches)
		set.byProject[project] = matches

		for _, file := range project.files {
			if !file.HasAllKeys() {
				continue
			}
			for _, method := range domain.DetectionMethods {
				key := file.Key(method)
				if key == nil {
					continue
				}
				for _, match := range key.Matches() {
					other := match.File
					if other.project == project || !other.HasAllKeys() {
						continue
					}
					if err := matches.getOrCreate(other.project).Set(other, method, match.Confidence); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	for _, matches := range set.order {
		for _, mp := range matches.matching {
			mp.Build()
		}
	}
	return set, nil
}

// ProjectMatches returns every project's matches ordered by project name
func (s *ProjectMatchSet) ProjectMatches() []*ProjectMatches {
	return s.order
}

// For returns the matches of project
func (s *ProjectMatchSet) For(project *Project) (*ProjectMatches, bool) {
	pm, ok := s.byProject[project]
	return pm, ok
}

// Get returns the files of other matched from project, nil when the two
// share no signal.
func (s *ProjectMatchSet) Get(project, other *Project) *MatchingProjects {
	pm, ok := s.byProject[project]
	if !ok {
		return nil
	}
	mp, _ := pm.Get(other)
	return mp
}

package cluster

import (
	"errors"
	"fmt"

	"github.com/ludo-technologies/sourcerer/domain"
)

// ConsistencyError reports an FQN claimed by two clusters of one collection
type ConsistencyError struct {
	Fqn    string
	First  *Cluster
	Second *Cluster
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("fqn %s belongs to cluster %d and cluster %d", e.Fqn, e.First.Index(), e.Second.Index())
}

func (e *ConsistencyError) Unwrap() error {
	return domain.DomainError{Code: domain.ErrCodeConsistency, Message: "duplicate cluster ownership"}
}

// Matcher answers which cluster owns an FQN. Its indexes are built once by
// NewMatcher and are read-only afterwards.
type Matcher struct {
	byFqn  map[string]*Cluster
	byNode map[FqnNode]*Cluster
	byJar  map[*Jar][]*Cluster
}

// NewMatcher indexes every core and extra FQN of the collection. When an
// FQN is owned by more than one cluster the first owner is kept and a
// ConsistencyError is reported for each conflict; the matcher is usable
// either way.
func NewMatcher(c *Collection) (*Matcher, error) {
	m := &Matcher{
		byFqn:  make(map[string]*Cluster),
		byNode: make(map[FqnNode]*Cluster),
		byJar:  make(map[*Jar][]*Cluster),
	}
	var errs []error
	for _, cl := range c.clusters {
		for _, nodes := range [][]FqnNode{cl.core, cl.extra} {
			for _, n := range nodes {
				name := n.Fqn()
				if owner, ok := m.byFqn[name]; ok {
					if owner != cl {
						errs = append(errs, &ConsistencyError{Fqn: name, First: owner, Second: cl})
					}
					continue
				}
				m.byFqn[name] = cl
				m.byNode[n] = cl
			}
		}
		for _, j := range cl.jars.Jars() {
			m.byJar[j] = append(m.byJar[j], cl)
		}
	}
	return m, errors.Join(errs...)
}

// Cluster returns the owner of fqn, or nil
func (m *Matcher) Cluster(fqn string) *Cluster {
	return m.byFqn[fqn]
}

// ClusterForNode returns the owner of a trie node, or nil
func (m *Matcher) ClusterForNode(n FqnNode) *Cluster {
	return m.byNode[n]
}

// ClustersForJar returns the clusters containing j. A jar from another
// collection is matched through its FQNs.
func (m *Matcher) ClustersForJar(j *Jar) []*Cluster {
	if cls, ok := m.byJar[j]; ok {
		return cls
	}
	return m.ClustersForFqns(j.FqnStrings())
}

// ClustersForFqns returns the distinct owners of fqns in first-seen order
func (m *Matcher) ClustersForFqns(fqns []string) []*Cluster {
	var out []*Cluster
	seen := make(map[*Cluster]struct{})
	for _, name := range fqns {
		cl := m.byFqn[name]
		if cl == nil {
			continue
		}
		if _, ok := seen[cl]; ok {
			continue
		}
		seen[cl] = struct{}{}
		out = append(out, cl)
	}
	return out
}

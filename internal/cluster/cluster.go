package cluster

import (
	"sort"

	"github.com/ludo-technologies/sourcerer/domain"
)

// Cluster is a group of FQNs that always occur together in the same jars.
// Core FQNs share the cluster's exact jar set; extra FQNs were merged in
// from other clusters.
type Cluster struct {
	index int
	jars  *JarSet
	core  []FqnNode
	extra []FqnNode
}

func newCluster(n FqnNode) *Cluster {
	return &Cluster{jars: n.Data(), core: []FqnNode{n}}
}

// Index is the 1-based position of the cluster in its collection. It is 0
// until the cluster is added to a collection.
func (c *Cluster) Index() int { return c.index }

// Jars returns the jars holding every core FQN
func (c *Cluster) Jars() *JarSet { return c.jars }

// Core returns the core FQN nodes
func (c *Cluster) Core() []FqnNode { return c.core }

// Extra returns the extra FQN nodes
func (c *Cluster) Extra() []FqnNode { return c.extra }

func (c *Cluster) mergeCore(other *Cluster) {
	c.core = append(c.core, other.core...)
}

func (c *Cluster) addExtra(nodes ...FqnNode) {
	c.extra = append(c.extra, nodes...)
}

// SortedJars returns the jars ordered by name, then hash
func (c *Cluster) SortedJars() []*Jar {
	return sortJars(c.jars.Jars())
}

// Summary describes the cluster for reports
func (c *Cluster) Summary() domain.ClusterSummary {
	return domain.ClusterSummary{
		Index:     c.index,
		Jars:      jarRefs(c.SortedJars()),
		CoreFqns:  len(c.core),
		ExtraFqns: len(c.extra),
	}
}

func sortJars(jars []*Jar) []*Jar {
	out := append([]*Jar(nil), jars...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Hash < out[j].Hash
	})
	return out
}

func jarRefs(jars []*Jar) []domain.JarRef {
	out := make([]domain.JarRef, len(jars))
	for i, j := range jars {
		out[i] = domain.JarRef{Hash: j.Hash, Name: j.Name, Version: j.Version}
	}
	return out
}

package cluster

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
)

// IdentifyFullyMatchingClusters groups the FQNs of a jar collection into
// clusters whose members are declared by exactly the same jars. The trie is
// walked bottom-up: every leaf, and every inner node some jar declares,
// starts a cluster; a child cluster is merged into a parent cluster with
// the same jar set and otherwise promoted to the parent.
func IdentifyFullyMatchingClusters(ctx context.Context, jars *JarCollection, log logrus.FieldLogger) (*Collection, error) {
	if log == nil {
		log = discardLogger()
	}
	log.Infof("Identifying fully matching clusters in %d jar files", jars.Len())

	pending := make(map[int][]*Cluster)
	visited := 0
	for it := jars.Root().PostOrder(); it.Next(); {
		visited++
		if visited%checkCancelled == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		parent := it.Node()
		if !parent.HasChildren() {
			if parent.Data().Len() > 0 {
				pending[parent.Index()] = []*Cluster{newCluster(parent)}
			}
			continue
		}

		clusters := pending[parent.Index()]
		if parent.Data().Len() > 0 {
			clusters = append(clusters, newCluster(parent))
		}
		for child := parent.Children(); child.Next(); {
			idx := child.Node().Index()
			for _, cc := range pending[idx] {
				if match := findByJars(clusters, cc.jars); match != nil {
					match.mergeCore(cc)
				} else {
					clusters = append(clusters, cc)
				}
			}
			delete(pending, idx)
		}
		pending[parent.Index()] = clusters
	}

	collection := NewCollection(pending[jars.Root().Index()])
	log.Infof("Identified %d fully matching clusters", collection.Len())
	return collection, nil
}

const checkCancelled = 4096

func findByJars(clusters []*Cluster, jars *JarSet) *Cluster {
	for _, c := range clusters {
		if c.jars == jars {
			return c
		}
	}
	return nil
}

// MergeSubsetClusters folds every cluster whose jars are all members of a
// larger cluster into that cluster as extra FQNs. Clusters are visited from
// the most jars to the fewest and each joins the first superset found, so
// FQNs that only ship with some releases of a library end up next to its
// core. The clusters of c are reused, so c should not be used afterwards.
func MergeSubsetClusters(ctx context.Context, c *Collection, log logrus.FieldLogger) (*Collection, error) {
	if log == nil {
		log = discardLogger()
	}
	log.Infof("Merging %d clusters by jar subsets", c.Len())

	sorted := append([]*Cluster(nil), c.clusters...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].jars.Len() > sorted[j].jars.Len()
	})

	var kept []*Cluster
	for _, cl := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if owner := firstSuperset(kept, cl.jars); owner != nil {
			owner.addExtra(cl.core...)
			owner.addExtra(cl.extra...)
			continue
		}
		kept = append(kept, cl)
	}

	merged := NewCollection(kept)
	log.Infof("  %d clusters remain", merged.Len())
	return merged, nil
}

func firstSuperset(clusters []*Cluster, jars *JarSet) *Cluster {
	if jars.Len() == 0 {
		return nil
	}
	for _, c := range clusters {
		if jars.IsSubset(c.jars) {
			return c
		}
	}
	return nil
}

package cluster

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/listing"
)

const jarListing = `# hash name version fqn...
h1 commons 1.0 org.a.X org.a.Y org.b.Z
h2 app - org.a.X org.a.Y
`

func loadJars(t *testing.T, input string) *JarCollection {
	t.Helper()
	jars, _, err := LoadJarCollection(context.Background(), strings.NewReader(input), listing.Options{})
	require.NoError(t, err)
	return jars
}

func identify(t *testing.T, jars *JarCollection) *Collection {
	t.Helper()
	c, err := IdentifyFullyMatchingClusters(context.Background(), jars, nil)
	require.NoError(t, err)
	return c
}

func coreNames(c *Cluster) []string {
	var out []string
	for _, n := range c.Core() {
		out = append(out, n.Fqn())
	}
	return out
}

func TestJarCollection(t *testing.T) {
	jars := loadJars(t, jarListing+"h1 duplicate - org.c.W\n")
	require.Equal(t, 2, jars.Len(), "duplicate hashes are skipped")

	commons, ok := jars.Jar("h1")
	require.True(t, ok)
	app, _ := jars.Jar("h2")
	assert.Equal(t, "commons (1.0)", commons.Label())
	assert.Equal(t, "app", app.Label())
	assert.Equal(t, []string{"org.a.X", "org.a.Y", "org.b.Z"}, commons.FqnStrings())

	x, ok := jars.Trie().Lookup("org.a.X")
	require.True(t, ok)
	y, _ := jars.Trie().Lookup("org.a.Y")
	z, _ := jars.Trie().Lookup("org.b.Z")
	assert.Same(t, x.Data(), y.Data(), "equal jar sets are interned")
	assert.NotSame(t, x.Data(), z.Data())
	assert.True(t, z.Data().IsSubset(x.Data()))
	assert.False(t, x.Data().IsSubset(z.Data()))
	assert.True(t, x.Data().Contains(app))
	assert.False(t, z.Data().Contains(app))
	assert.Equal(t, 1, x.Data().IntersectionSize(z.Data()))

	st := jars.Stats()
	assert.Equal(t, 7, st.Nodes)
	assert.Equal(t, 3, st.Fqns)
	assert.Equal(t, 4, st.Packages)

	var buf bytes.Buffer
	require.NoError(t, jars.Save(&buf))
	assert.Equal(t, "h1 commons 1.0 org.a.X org.a.Y org.b.Z\nh2 app - org.a.X org.a.Y\n", buf.String())
}

func TestIdentifyFullyMatchingClusters(t *testing.T) {
	c := identify(t, loadJars(t, jarListing))
	require.Equal(t, 2, c.Len())

	first, second := c.Clusters()[0], c.Clusters()[1]
	assert.Equal(t, 1, first.Index())
	assert.Equal(t, []string{"org.a.X", "org.a.Y"}, coreNames(first))
	assert.Equal(t, 2, first.Jars().Len())
	assert.Equal(t, []string{"org.b.Z"}, coreNames(second))
	assert.Equal(t, 1, second.Jars().Len())
	assert.Empty(t, first.Extra())
}

func TestIdentifyInnerNodeDeclaredByJar(t *testing.T) {
	c := identify(t, loadJars(t, "h1 a - org.p org.p.X org.p.Y\nh2 b - org.p.X org.p.Y\n"))
	require.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"org.p"}, coreNames(c.Clusters()[0]))
	assert.Equal(t, []string{"org.p.X", "org.p.Y"}, coreNames(c.Clusters()[1]))
}

func TestIdentifyMergesAcrossPackages(t *testing.T) {
	c := identify(t, loadJars(t, "h1 a - org.p.X org.q.Y\nh2 b - org.p.X org.q.Y\n"))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, []string{"org.p.X", "org.q.Y"}, coreNames(c.Clusters()[0]))
}

func TestIdentifyEmptyCollection(t *testing.T) {
	c := identify(t, NewJarCollection())
	assert.Equal(t, 0, c.Len())
}

func TestMergeSubsetClusters(t *testing.T) {
	c := identify(t, loadJars(t, jarListing))
	merged, err := MergeSubsetClusters(context.Background(), c, nil)
	require.NoError(t, err)
	require.Equal(t, 1, merged.Len())

	cl := merged.Clusters()[0]
	assert.Equal(t, []string{"org.a.X", "org.a.Y"}, coreNames(cl))
	require.Len(t, cl.Extra(), 1)
	assert.Equal(t, "org.b.Z", cl.Extra()[0].Fqn())
}

func TestMatcher(t *testing.T) {
	jars := loadJars(t, jarListing)
	c := identify(t, jars)
	m, err := NewMatcher(c)
	require.NoError(t, err)

	first, second := c.Clusters()[0], c.Clusters()[1]
	assert.Same(t, first, m.Cluster("org.a.Y"))
	assert.Same(t, second, m.Cluster("org.b.Z"))
	assert.Nil(t, m.Cluster("org.a"))
	assert.Nil(t, m.Cluster("org.unknown.X"))

	z, _ := jars.Trie().Lookup("org.b.Z")
	assert.Same(t, second, m.ClusterForNode(z))

	commons, _ := jars.Jar("h1")
	assert.Equal(t, []*Cluster{first, second}, m.ClustersForJar(commons))

	foreign := loadJars(t, "h9 other - org.b.Z org.q.Q org.a.X\n")
	fj, _ := foreign.Jar("h9")
	assert.Equal(t, []*Cluster{second, first}, m.ClustersForJar(fj), "foreign jars are matched by name")

	assert.Equal(t, []*Cluster{first}, m.ClustersForFqns([]string{"org.a.X", "org.a.Y", "nope"}))
}

func TestMatcherReportsDuplicateOwnership(t *testing.T) {
	jars := loadJars(t, jarListing)
	x, _ := jars.Trie().Lookup("org.a.X")
	z, _ := jars.Trie().Lookup("org.b.Z")
	a := &Cluster{jars: x.Data(), core: []FqnNode{x}}
	b := &Cluster{jars: z.Data(), core: []FqnNode{z}, extra: []FqnNode{x}}
	c := NewCollection([]*Cluster{a, b})

	m, err := NewMatcher(c)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeConsistency))

	var ce *ConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "org.a.X", ce.Fqn)
	assert.Same(t, a, ce.First)
	assert.Same(t, b, ce.Second)
	assert.Contains(t, err.Error(), "cluster 1 and cluster 2")

	require.NotNil(t, m)
	assert.Same(t, a, m.Cluster("org.a.X"), "the first owner wins")
	assert.Same(t, b, m.Cluster("org.b.Z"))
}

func TestCollectionRoundTrip(t *testing.T) {
	jars := loadJars(t, jarListing)
	c := identify(t, jars)

	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf))
	assert.Equal(t, "2 h1 h2 2 org.a.X org.a.Y 0\n1 h1 1 org.b.Z 0\n", buf.String())

	loaded, err := LoadCollection(context.Background(), strings.NewReader(buf.String()), jars, listing.Options{})
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	for i, cl := range loaded.Clusters() {
		orig := c.Clusters()[i]
		assert.Same(t, orig.Jars(), cl.Jars(), "jar sets resolve to the interned set")
		assert.Equal(t, orig.Core(), cl.Core())
	}

	var again bytes.Buffer
	require.NoError(t, loaded.Save(&again))
	assert.Equal(t, buf.String(), again.String())
}

func TestLoadCollectionUnknownJarAndTruncation(t *testing.T) {
	jars := loadJars(t, jarListing)
	logger, hook := test.NewNullLogger()

	c, err := LoadCollection(context.Background(), strings.NewReader("2 h1 hzz 1 org.a.X 1 org.b.Z\n"), jars,
		listing.Options{Source: "clusters.txt", Logger: logger})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Clusters()[0].Jars().Len())
	require.Len(t, c.Clusters()[0].Extra(), 1)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "hzz") {
			warned = true
		}
	}
	assert.True(t, warned, "unknown jar hashes are logged")

	_, err = LoadCollection(context.Background(), strings.NewReader("2 h1\n"), jars, listing.Options{Source: "clusters.txt"})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeParseError))

	_, err = LoadCollection(context.Background(), strings.NewReader("1 h1 1 org.a.X\n"), jars, listing.Options{})
	assert.Error(t, err, "the extra count is required")

	require.NotPanics(t, func() {
		_, err = LoadCollection(context.Background(), strings.NewReader("1 h1 99999999999999 org.a.X 0\n"), jars, listing.Options{})
	})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeParseError), "counts beyond the line are parse errors")
}

func TestPrintStatisticsReportsFragmentation(t *testing.T) {
	c := identify(t, loadJars(t, jarListing))

	var buf bytes.Buffer
	require.NoError(t, c.PrintStatistics(&buf))
	out := buf.String()

	assert.Contains(t, out, "2 jars\n2 clusters\n1 jars covered by single cluster\n")
	assert.Contains(t, out, "commons (1.0) fragmented into 2 clusters")
	assert.Contains(t, out, "  FQNs from this jar appear in 1 other jars")
	assert.Contains(t, out, "    1: app: h2\n")
	assert.Contains(t, out, "    2: commons (1.0): h1 <--\n")
	assert.Contains(t, out, "Cluster 1, from 2 jars\n12 Core FQNs\n** org.a.X\n** org.a.Y\n")
	assert.Contains(t, out, "Cluster 2, from 1 jars\n12 Core FQNs\n * org.b.Z\n")
	assert.Contains(t, out, "Cluster of 2 jars\n  Listing jars in cluster\n")
	assert.NotContains(t, out, "app fragmented")
}

func TestPrintStatisticsExtraPercentages(t *testing.T) {
	c := identify(t, loadJars(t, jarListing))
	merged, err := MergeSubsetClusters(context.Background(), c, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, merged.PrintStatistics(&buf))
	assert.Contains(t, buf.String(), "  12 Extra FQNs\n   * org.b.Z 50.00%\n")
}

func TestReport(t *testing.T) {
	r := identify(t, loadJars(t, jarListing)).Report()
	assert.Equal(t, 2, r.JarCount)
	assert.Equal(t, 2, r.ClusterCount)
	assert.Equal(t, 1, r.SingleClusterJars)
	assert.Equal(t, 1, r.MultiClusterJars)
	assert.Equal(t, 1, r.SingleJarClusters)
	assert.Equal(t, 1, r.MultiJarClusters)

	require.Len(t, r.Fragmented, 1)
	assert.Equal(t, "commons", r.Fragmented[0].Jar.Name)
	assert.Equal(t, 2, r.Fragmented[0].Clusters)
	assert.Equal(t, []domain.JarRef{{Hash: "h2", Name: "app"}}, r.Fragmented[0].OverlappingJars)

	require.Len(t, r.Clusters, 2)
	assert.Equal(t, 2, r.Clusters[0].CoreFqns)
	assert.Equal(t, 1, r.Clusters[0].Index)
}

package cloning

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/listing"
)

// analysed runs the matching pipeline over clonedPair
func analysed(t *testing.T) (*ProjectMap, *ProjectMatchSet) {
	t.Helper()
	ctx := context.Background()
	pm := clonedPair(t)
	first, err := NewProjectMatchSet(ctx, pm)
	require.NoError(t, err)
	_, err = ComputeCombinedKeys(ctx, pm, first)
	require.NoError(t, err)
	set, err := NewProjectMatchSet(ctx, pm)
	require.NoError(t, err)
	return pm, set
}

func TestCompareFileSets(t *testing.T) {
	pm := newTestMap(DefaultOptions())
	addFile(t, pm, "p", "A.java", "h1", "org.example.util.A", "A", []string{"x"}, []string{"a"})
	require.NoError(t, pm.AddHash("p", "B.java", "h2"))
	require.NoError(t, pm.AddFqn("p", "C.java", "org.example.util.C"))

	cmp := CompareFileSets(pm)
	assert.Equal(t, 3, cmp.TotalFiles)
	assert.Equal(t, 1, cmp.MissingHash)
	assert.Equal(t, 1, cmp.MissingFqn)
	assert.Equal(t, 2, cmp.MissingFingerprint)
	assert.Equal(t, 1, cmp.Complete)
}

func TestComputeCloningStatistics(t *testing.T) {
	pm, _ := analysed(t)

	stats, err := ComputeCloningStatistics(context.Background(), pm)
	require.NoError(t, err)
	require.Len(t, stats.Levels, 3)
	assert.Equal(t, 3, stats.DirMissing)

	high := stats.Levels[0]
	assert.Equal(t, domain.ConfidenceHigh, high.Confidence)
	hash := high.Methods[domain.MethodHash]
	assert.Equal(t, 3, hash.Total)
	assert.Equal(t, 1, hash.Unique)
	assert.Equal(t, 2, hash.Duplicated)
	assert.InDelta(t, 2.0/3.0, hash.CloningRate, 1e-9)
	assert.Equal(t, 1, high.Methods[domain.MethodCombined].Unique)
	assert.Equal(t, 0, high.Methods[domain.MethodDir].Unique)

	low := stats.Levels[2]
	assert.Equal(t, 3, low.Methods[domain.MethodHash].Unique, "HIGH hash keys are unique below HIGH")

	require.Len(t, stats.Projects, 2)
	assert.Equal(t, "p1", stats.Projects[0].Project)
	assert.Equal(t, 2, stats.Projects[0].Size)
	assert.Equal(t, 1, stats.Projects[0].HashUnique)
}

func TestComputeProjectMatching(t *testing.T) {
	pm, set := analysed(t)

	res, err := ComputeProjectMatching(context.Background(), pm, set, 0)
	require.NoError(t, err)
	require.Len(t, res.Statistics, len(domain.Confidences)*domain.DetectionMethodCount)

	var combined domain.ProjectMatchingStatistics
	for _, st := range res.Statistics {
		if st.Confidence == domain.ConfidenceHigh && st.Method == domain.MethodCombined {
			combined = st
		}
	}
	assert.Equal(t, 2, combined.ProjectsWithClones)
	assert.InDelta(t, 0.75, combined.UnweightedPercent, 1e-9)
	assert.InDelta(t, 2.0/3.0, combined.WeightedPercent, 1e-9)
	assert.InDelta(t, 1.0, combined.MeanClonedFiles, 1e-9)
	assert.Equal(t, 1, combined.MaxFilesPerPair)

	require.Len(t, res.MostCloning, 2)
	assert.Equal(t, "p2", res.MostCloning[0].Project)
	assert.Equal(t, 1.0, res.MostCloning[0].Percent)
	assert.Equal(t, "p1", res.MostCloning[1].Project)
	assert.Equal(t, "p2", res.MostCloning[1].MatchedProject)
	assert.Equal(t, 0.5, res.MostCloning[1].Percent)

	res, err = ComputeProjectMatching(context.Background(), pm, set, 1)
	require.NoError(t, err)
	assert.Len(t, res.MostCloning, 1)
}

func TestHighConfidencePairs(t *testing.T) {
	pm, set := analysed(t)

	pairs := HighConfidencePairs(pm, set)
	require.Len(t, pairs, 6)
	for _, p := range pairs {
		assert.True(t, p.HashMatch, "%s %s -> %s", p.Method, p.Source, p.Target)
		assert.NotEqual(t, p.Source, p.Target)
	}
	assert.Equal(t, domain.FilePair{
		Method: domain.MethodCombined, Source: "p1:src/A.java", Target: "p2:lib/A.java", HashMatch: true,
	}, pairs[0])
}

func TestLoadListings(t *testing.T) {
	ctx := context.Background()
	pm := newTestMap(DefaultOptions())

	_, err := LoadHashListing(ctx, strings.NewReader("p1 src/A.java h1 s1 10\np2 lib/A.java h1 s1 10\np2 lib/Empty.java h0 s0 0\n"), pm, listing.Options{})
	require.NoError(t, err)
	_, err = LoadFqnListing(ctx, strings.NewReader("p1 src/A.java org.example.util.A\np2 lib/A.java org.example.util.A\n"), pm, listing.Options{})
	require.NoError(t, err)
	_, err = LoadFingerprintListing(ctx, strings.NewReader(
		"p1 src/A.java A 2 x y 0 3 a b c\np2 lib/A.java A 2 x y 1 A 3 a b c\n"), pm, listing.Options{})
	require.NoError(t, err)
	pm.Factory().Seal()

	stats, err := LoadDirMatching(ctx, strings.NewReader(
		"p1 src A.java 1 0 0 p2:lib\np1 src Missing.java 0 0 0\n"), pm, listing.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 1, stats.Skipped)

	assert.Equal(t, 2, pm.FileCount(), "empty files are not loaded")
	a1, ok := pm.LookupFile("p1", "src/A.java")
	require.True(t, ok)
	assert.True(t, a1.HasAllKeys())
	require.NotNil(t, a1.DirKey())
	assert.Len(t, a1.DirKey().Matches(), 1)
	assert.Equal(t, []string{"a", "b", "c"}, a1.FingerprintKey().Methods())
}

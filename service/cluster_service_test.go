package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
)

const testJarListing = "h1 commons 1.0 org.a.X org.a.Y org.b.Z\nh2 app - org.a.X org.a.Y\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func identifyClusters(t *testing.T, merge bool) (domain.ClusterInput, *domain.ClusterIdentifyResponse) {
	t.Helper()
	dir := t.TempDir()
	jars := writeFile(t, dir, "jars.txt", testJarListing)
	out := filepath.Join(dir, "out", "clusters.txt")

	resp, err := NewClusterService(nil, nil).Identify(context.Background(), &domain.ClusterIdentifyRequest{
		JarListing:   jars,
		OutputPath:   out,
		MergeSubsets: merge,
	})
	require.NoError(t, err)
	return domain.ClusterInput{JarListing: jars, ClusterFile: out}, resp
}

func TestClusterService_Identify(t *testing.T) {
	in, resp := identifyClusters(t, false)
	assert.Equal(t, 2, resp.Jars)
	assert.Equal(t, 3, resp.Fqns)
	assert.Equal(t, 2, resp.Clusters)
	assert.Zero(t, resp.Merged)

	data, err := os.ReadFile(in.ClusterFile)
	require.NoError(t, err)
	assert.Equal(t, "2 h1 h2 2 org.a.X org.a.Y 0\n1 h1 1 org.b.Z 0\n", string(data))
}

func TestClusterService_IdentifyMergeSubsets(t *testing.T) {
	_, resp := identifyClusters(t, true)
	assert.Equal(t, 1, resp.Clusters)
	assert.Equal(t, 1, resp.Merged)
}

func TestClusterService_IdentifyValidation(t *testing.T) {
	svc := NewClusterService(nil, nil)
	_, err := svc.Identify(context.Background(), nil)
	assert.Error(t, err)

	_, err = svc.Identify(context.Background(), &domain.ClusterIdentifyRequest{OutputPath: "x"})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))

	_, err = svc.Identify(context.Background(), &domain.ClusterIdentifyRequest{
		JarListing: filepath.Join(t.TempDir(), "missing.txt"),
		OutputPath: filepath.Join(t.TempDir(), "clusters.txt"),
	})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileNotFound))
}

func TestClusterService_Statistics(t *testing.T) {
	in, _ := identifyClusters(t, false)
	resp, err := NewClusterService(nil, nil).Statistics(context.Background(), &domain.ClusterStatsRequest{ClusterInput: in})
	require.NoError(t, err)

	r := resp.Report
	require.NotNil(t, r)
	assert.Equal(t, 2, r.JarCount)
	assert.Equal(t, 2, r.ClusterCount)
	assert.Equal(t, 1, r.MultiClusterJars)
	assert.Equal(t, 1, r.SingleClusterJars)
	assert.NotEmpty(t, resp.Log)

	var buf bytes.Buffer
	f := NewClusterOutputFormatter()
	require.NoError(t, f.FormatStatistics(resp, domain.OutputFormatText, &buf))
	assert.Equal(t, resp.Log, buf.String())

	buf.Reset()
	require.NoError(t, f.FormatStatistics(resp, domain.OutputFormatCSV, &buf))
	assert.Contains(t, buf.String(), "cluster,jars,core_fqns,extra_fqns,jar_names\n")
	assert.Contains(t, buf.String(), "1,2,2,0,app;commons-1.0\n")

	buf.Reset()
	require.NoError(t, f.FormatStatistics(resp, domain.OutputFormatJSON, &buf))
	assert.Contains(t, buf.String(), `"cluster_count": 2`)
}

func TestClusterService_Lookup(t *testing.T) {
	in, _ := identifyClusters(t, false)
	results, err := NewClusterService(nil, nil).Lookup(context.Background(), &domain.ClusterLookupRequest{
		ClusterInput: in,
		Fqns:         []string{"org.a.Y", "org.b.Z", "org.a", "org.none.X"},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].Found)
	assert.Equal(t, 1, results[0].Cluster)
	assert.True(t, results[0].Core)
	assert.Equal(t, 2, results[0].CoreFqns)
	require.Len(t, results[0].Jars, 2)
	assert.Equal(t, "app", results[0].Jars[0].Name)

	assert.True(t, results[1].Found)
	assert.Equal(t, 2, results[1].Cluster)

	assert.False(t, results[2].Found, "packages are not owned")
	assert.False(t, results[3].Found)
}

func TestClusterService_LookupExtra(t *testing.T) {
	in, _ := identifyClusters(t, true)
	results, err := NewClusterService(nil, nil).Lookup(context.Background(), &domain.ClusterLookupRequest{
		ClusterInput: in,
		Fqns:         []string{"org.b.Z"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Found)
	assert.Equal(t, 1, results[0].Cluster)
	assert.False(t, results[0].Core)
	assert.Equal(t, 1, results[0].ExtraFqns)
}

func TestClusterService_CacheAndLookup(t *testing.T) {
	in, _ := identifyClusters(t, false)
	cache := filepath.Join(t.TempDir(), "clusters.db")
	svc := NewClusterService(nil, nil)

	_, err := svc.Lookup(context.Background(), &domain.ClusterLookupRequest{CachePath: cache, Fqns: []string{"org.a.X"}})
	require.Error(t, err, "an empty cache cannot be queried")
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))

	require.NoError(t, svc.Cache(context.Background(), &domain.ClusterCacheRequest{ClusterInput: in, CachePath: cache}))

	results, err := svc.Lookup(context.Background(), &domain.ClusterLookupRequest{
		CachePath: cache,
		Fqns:      []string{"org.a.X", "org.b.Z"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Cluster)
	assert.Equal(t, 2, results[1].Cluster)
}

func TestClusterOutputFormatter_FormatLookup(t *testing.T) {
	results := []domain.ClusterLookupResult{
		{Fqn: "org.a.X", Found: true, Cluster: 1, Core: true, CoreFqns: 2,
			Jars: []domain.JarRef{{Hash: "h2", Name: "app"}, {Hash: "h1", Name: "commons", Version: "1.0"}}},
		{Fqn: "org.none.X"},
	}
	f := NewClusterOutputFormatter()

	var buf bytes.Buffer
	require.NoError(t, f.FormatLookup(results, domain.OutputFormatCSV, &buf))
	assert.Equal(t, "fqn,cluster,part,core_fqns,extra_fqns,jars\n"+
		"org.a.X,1,core,2,0,app;commons-1.0\n"+
		"org.none.X,-,-,-,-,-\n", buf.String())

	buf.Reset()
	require.NoError(t, f.FormatLookup(results, domain.OutputFormatText, &buf))
	assert.Contains(t, buf.String(), "org.a.X")
	assert.Contains(t, buf.String(), "app, commons-1.0")

	err := f.FormatLookup(results, domain.OutputFormat("xml"), &buf)
	require.Error(t, err)
}

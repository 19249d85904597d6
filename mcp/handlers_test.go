package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/service"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// cachedHandlers builds a cluster cache from a two jar listing and loads it
func cachedHandlers(t *testing.T) *HandlerSet {
	t.Helper()
	dir := t.TempDir()
	jars := writeFile(t, dir, "jars.txt", "h1 commons 1.0 org.a.X org.a.Y org.b.Z\nh2 app - org.a.X org.a.Y\n")
	clusters := filepath.Join(dir, "clusters.txt")
	db := filepath.Join(dir, "clusters.db")

	svc := service.NewClusterService(nil, nil)
	ctx := context.Background()
	_, err := svc.Identify(ctx, &domain.ClusterIdentifyRequest{JarListing: jars, OutputPath: clusters})
	require.NoError(t, err)
	require.NoError(t, svc.Cache(ctx, &domain.ClusterCacheRequest{
		ClusterInput: domain.ClusterInput{JarListing: jars, ClusterFile: clusters},
		CachePath:    db,
	}))

	deps := NewDependencies(nil, "")
	require.NoError(t, deps.LoadCache(ctx, db, nil))
	return NewHandlerSet(deps)
}

func callTool(t *testing.T, handler func(context.Context, mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error), arguments interface{}) *mcptypes.CallToolResult {
	t.Helper()
	res, err := handler(context.Background(), mcptypes.CallToolRequest{
		Params: mcptypes.CallToolParams{Arguments: arguments},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func decodeText(t *testing.T, res *mcptypes.CallToolResult, v interface{}) {
	t.Helper()
	require.False(t, res.IsError, "unexpected error result: %+v", res.Content)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcptypes.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

func TestHandleLookupFqnCluster(t *testing.T) {
	h := cachedHandlers(t)

	var results []domain.ClusterLookupResult
	res := callTool(t, h.HandleLookupFqnCluster, map[string]interface{}{
		"fqns": []interface{}{"org.a.X", "org.b.Z", "org.missing.Q"},
	})
	decodeText(t, res, &results)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Cluster)
	assert.True(t, results[0].Core)
	assert.Len(t, results[0].Jars, 2)
	assert.Equal(t, 2, results[1].Cluster)
	assert.False(t, results[2].Found)

	res = callTool(t, h.HandleLookupFqnCluster, map[string]interface{}{"fqns": "org.a.Y, org.b.Z"})
	decodeText(t, res, &results)
	assert.Len(t, results, 2)
}

func TestHandleLookupFqnCluster_Errors(t *testing.T) {
	h := cachedHandlers(t)
	assert.True(t, callTool(t, h.HandleLookupFqnCluster, "bad").IsError)
	assert.True(t, callTool(t, h.HandleLookupFqnCluster, map[string]interface{}{}).IsError)
	assert.True(t, callTool(t, h.HandleLookupFqnCluster, map[string]interface{}{"fqns": []interface{}{1}}).IsError)

	uncached := NewHandlerSet(nil)
	assert.True(t, callTool(t, uncached.HandleLookupFqnCluster, map[string]interface{}{"fqns": "org.a.X"}).IsError)
	assert.True(t, callTool(t, uncached.HandleTrieLookup, map[string]interface{}{"fqn": "org.a"}).IsError)
}

func TestHandleTrieLookup(t *testing.T) {
	h := cachedHandlers(t)

	var result domain.TrieLookupResult
	decodeText(t, callTool(t, h.HandleTrieLookup, map[string]interface{}{"fqn": "org.a"}), &result)
	assert.Equal(t, domain.TrieLookupResult{Fqn: "org.a", Found: true, Depth: 2, Children: 2, Leaves: 2}, result)

	decodeText(t, callTool(t, h.HandleTrieLookup, map[string]interface{}{"fqn": "org.c"}), &result)
	assert.False(t, result.Found)

	assert.True(t, callTool(t, h.HandleTrieLookup, map[string]interface{}{"fqn": " "}).IsError)
}

func TestHandleCloningStatistics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, domain.HashListingFile, "p1 src/A.java h1 s1 10\np2 lib/A.java h1 s1 10\n")
	writeFile(t, dir, domain.FqnListingFile, "p1 src/A.java org.example.util.A\np2 lib/A.java org.example.util.A\n")
	writeFile(t, dir, domain.FingerprintListingFile, "p1 src/A.java A 2 x y 0 3 a b c\np2 lib/A.java A 2 x y 0 3 a b c\n")

	h := NewHandlerSet(nil)
	var resp domain.CloningStatsResponse
	decodeText(t, callTool(t, h.HandleCloningStatistics, map[string]interface{}{
		"listings_dir":     dir,
		"project_matching": true,
	}), &resp)
	assert.Equal(t, 2, resp.ProjectCount)
	assert.Equal(t, 2, resp.FileCount)
	assert.NotEmpty(t, resp.ProjectMatching)

	res := callTool(t, h.HandleCloningStatistics, map[string]interface{}{"listings_dir": filepath.Join(dir, "missing")})
	assert.True(t, res.IsError)
	res = callTool(t, h.HandleCloningStatistics, map[string]interface{}{})
	assert.True(t, res.IsError)
}

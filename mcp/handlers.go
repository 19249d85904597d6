package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/sourcerer/app"
	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// HandleLookupFqnCluster handles the lookup_fqn_cluster tool
func (h *HandlerSet) HandleLookupFqnCluster(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	fqns, err := stringList(args["fqns"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fqns: %v", err)), nil
	}
	if !h.deps.HasCache() {
		return mcp.NewToolResultError("no cluster cache loaded; start the server with --db"), nil
	}
	if err := ctx.Err(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(service.LookupClusters(h.deps.matcher, fqns))
}

// HandleTrieLookup handles the trie_lookup tool
func (h *HandlerSet) HandleTrieLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	name, ok := args["fqn"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("fqn parameter is required and must be a string"), nil
	}
	if !h.deps.HasCache() {
		return mcp.NewToolResultError("no cluster cache loaded; start the server with --db"), nil
	}
	return jsonResult(service.LookupFqn(h.deps.jars.Trie(), strings.TrimSpace(name)))
}

// HandleCloningStatistics handles the cloning_statistics tool
func (h *HandlerSet) HandleCloningStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	req := domain.CloningStatsRequest{}
	h.deps.Config().ApplyToCloningRequest(&req)
	req.HashListing, _ = args["hash_listing"].(string)
	req.FqnListing, _ = args["fqn_listing"].(string)
	req.FingerprintListing, _ = args["fingerprint_listing"].(string)
	req.DirMatchesListing, _ = args["dir_matches_listing"].(string)
	if dir, ok := args["listings_dir"].(string); ok {
		app.ResolveListingPaths(dir, &req)
	}
	for _, path := range []string{req.HashListing, req.FqnListing, req.FingerprintListing} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
		}
	}
	if v, ok := args["project_matching"].(bool); ok {
		req.ProjectMatching = v
	}
	if v, ok := args["compare_file_sets"].(bool); ok {
		req.CompareFileSets = v
	}
	if v, ok := args["min_jaccard"].(float64); ok {
		req.MinimumJaccardIndex = v
	}
	req.OutputFormat = domain.OutputFormatJSON
	req.OutputWriter = io.Discard

	useCase, err := app.NewCloningUseCaseBuilder().
		WithService(service.NewCloningService(h.deps.log, nil)).
		WithFormatter(service.NewCloningOutputFormatter()).
		Build()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := useCase.AnalyzeAndReturn(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cloning statistics failed: %v", err)), nil
	}
	return jsonResult(result)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// stringList accepts a JSON array of strings or one comma separated string
func stringList(v interface{}) ([]string, error) {
	var out []string
	switch list := v.(type) {
	case []interface{}:
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected strings, got %T", item)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, s := range strings.Split(list, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case nil:
	default:
		return nil, fmt.Errorf("expected an array of strings, got %T", v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one fqn is required")
	}
	return out, nil
}

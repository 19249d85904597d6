package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all sourcerer MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	s.AddTool(mcp.NewTool("lookup_fqn_cluster",
		mcp.WithDescription("Find the component cluster owning each fully qualified name, with the jars that contain it"),
		mcp.WithArray("fqns",
			mcp.Required(),
			mcp.Items(map[string]interface{}{"type": "string"}),
			mcp.Description("Fully qualified names, e.g. org.apache.commons.lang3.StringUtils")),
	), h.HandleLookupFqnCluster)

	s.AddTool(mcp.NewTool("trie_lookup",
		mcp.WithDescription("Look up a fully qualified name or package prefix in the cached FQN trie"),
		mcp.WithString("fqn",
			mcp.Required(),
			mcp.Description("Fully qualified name or package prefix")),
	), h.HandleTrieLookup)

	s.AddTool(mcp.NewTool("cloning_statistics",
		mcp.WithDescription("Report file cloning across projects by confidence and detection method (hash, FQN, fingerprint)"),
		mcp.WithString("listings_dir",
			mcp.Description("Directory holding hash-listing.txt, fqn-listing.txt and fingerprint-listing.txt")),
		mcp.WithString("hash_listing",
			mcp.Description("Hash listing path (overrides listings_dir)")),
		mcp.WithString("fqn_listing",
			mcp.Description("FQN listing path (overrides listings_dir)")),
		mcp.WithString("fingerprint_listing",
			mcp.Description("Fingerprint listing path (overrides listings_dir)")),
		mcp.WithString("dir_matches_listing",
			mcp.Description("Matched directory files written by 'sourcerer dir compare'")),
		mcp.WithNumber("min_jaccard",
			mcp.Description("Jaccard index two fingerprints need, 0.0-1.0 (default: 0.75)")),
		mcp.WithBoolean("project_matching",
			mcp.Description("Include per project matching statistics (default: false)")),
		mcp.WithBoolean("compare_file_sets",
			mcp.Description("Compare the files present in each listing (default: false)")),
	), h.HandleCloningStatistics)
}

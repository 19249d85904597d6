package main

import (
	"context"
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/sourcerer/internal/version"
	"github.com/ludo-technologies/sourcerer/mcp"
	"github.com/ludo-technologies/sourcerer/service"
)

const serverName = "sourcerer"

func main() {
	dbPath := pflag.String("db", "", "Cluster cache written by 'sourcerer cluster cache'")
	configPath := pflag.String("config", "", "Configuration file path")
	verbose := pflag.Bool("verbose", false, "Enable verbose output")
	pflag.Parse()

	// MCP uses stdout for JSON-RPC
	log := service.NewLogger(*verbose, os.Stderr)

	cfg, err := service.NewConfigurationLoader().LoadConfig(*configPath, ".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	deps := mcp.NewDependencies(cfg, *configPath)
	if *dbPath != "" {
		if err := deps.LoadCache(context.Background(), *dbPath, log); err != nil {
			log.Fatalf("Failed to load cluster cache: %v", err)
		}
	} else {
		log.Warn("No --db given; lookup_fqn_cluster and trie_lookup are unavailable")
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)
	mcp.RegisterTools(server, mcp.NewHandlerSet(deps))

	log.Infof("Starting %s MCP server %s", serverName, version.Short())
	log.Info("Registered tools: lookup_fqn_cluster, trie_lookup, cloning_statistics")

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

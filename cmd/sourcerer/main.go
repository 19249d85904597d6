package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/sourcerer/internal/version"
	"github.com/ludo-technologies/sourcerer/service"
)

// NewRootCmd assembles the sourcerer command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sourcerer",
		Short: "Find cloned source files and component clusters across projects",
		Long: `sourcerer analyses large collections of Java projects for code reuse.

It builds tries of fully qualified names, matches files across projects by
content hash, FQN and structural fingerprint, clusters directories that share
file names, and groups jar contents into component clusters.

Features:
  • Listing generation from Java sources (tree-sitter)
  • Cloning statistics by confidence and detection method
  • Directory clustering
  • Component cluster identification, reports and lookups`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")

	rootCmd.AddCommand(NewTrieCmd())
	rootCmd.AddCommand(NewListingCmd())
	rootCmd.AddCommand(NewDirCmd())
	rootCmd.AddCommand(NewCloningCmd())
	rootCmd.AddCommand(NewClusterCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// reportError prints err with the recovery hints of its category
func reportError(w io.Writer, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, hint := range categorizer.GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/sourcerer/app"
	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/service"
)

// TrieCommand groups the FQN trie subcommands
type TrieCommand struct {
	output          string
	order           string
	includeProjects []string
	excludeProjects []string
	report          outputFlags
}

// NewTrieCommand creates a new trie command
func NewTrieCommand() *TrieCommand {
	return &TrieCommand{order: string(domain.TraversalPreOrder)}
}

// CreateCobraCommand creates the trie command and its subcommands
func (c *TrieCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trie",
		Short: "Build, query and print tries of fully qualified names",
	}

	build := &cobra.Command{
		Use:   "build <fqn-listing>",
		Short: "Build a trie from an FQN listing and save it",
		Long: `Intern every FQN of a listing into a trie and save it.

Examples:
  sourcerer trie build listings/fqn-listing.txt -o fqns.trie
  sourcerer trie build fqn-listing.txt -o fqns.trie --exclude-project 'vendor-*'`,
		Args: cobra.ExactArgs(1),
		RunE: c.runBuild,
	}
	build.Flags().StringVarP(&c.output, "output", "o", "", "Trie file to write")
	build.Flags().StringSliceVar(&c.includeProjects, service.FlagIncludeProject, nil, "Only read these projects (globs)")
	build.Flags().StringSliceVar(&c.excludeProjects, service.FlagExcludeProject, nil, "Skip these projects (globs)")
	_ = build.MarkFlagRequired("output")
	c.report.register(build.Flags(), "")

	lookup := &cobra.Command{
		Use:   "lookup <trie-file> <fqn>...",
		Short: "Look up FQNs in a saved trie",
		Args:  cobra.MinimumNArgs(2),
		RunE:  c.runLookup,
	}
	c.report.register(lookup.Flags(), "")

	dump := &cobra.Command{
		Use:   "dump <trie-file>",
		Short: "Print the FQNs of a saved trie",
		Long: `Print every FQN of a saved trie, one per line.

Orders:
  pre     parents before children (default)
  post    children before parents
  leaves  leaves only`,
		Args: cobra.ExactArgs(1),
		RunE: c.runDump,
	}
	dump.Flags().StringVar(&c.order, "order", c.order, "Traversal order: pre, post or leaves")

	cmd.AddCommand(build, lookup, dump)
	return cmd
}

func (c *TrieCommand) useCase(cmd *cobra.Command) *app.TrieUseCase {
	svc := service.NewTrieService(newLogger(cmd), newProgress(cmd))
	return app.NewTrieUseCase(svc).WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr()))
}

func (c *TrieCommand) runBuild(cmd *cobra.Command, args []string) error {
	target, err := c.report.target(cmd)
	if err != nil {
		return err
	}
	_, err = c.useCase(cmd).Build(commandContext(cmd), domain.TrieBuildRequest{
		FqnListing:      args[0],
		OutputPath:      c.output,
		IncludeProjects: c.includeProjects,
		ExcludeProjects: c.excludeProjects,
	}, target)
	return err
}

func (c *TrieCommand) runLookup(cmd *cobra.Command, args []string) error {
	target, err := c.report.target(cmd)
	if err != nil {
		return err
	}
	_, err = c.useCase(cmd).Lookup(commandContext(cmd), domain.TrieLookupRequest{
		TriePath: args[0],
		Fqns:     args[1:],
	}, target)
	return err
}

func (c *TrieCommand) runDump(cmd *cobra.Command, args []string) error {
	_, err := c.useCase(cmd).Dump(commandContext(cmd), domain.TrieDumpRequest{
		TriePath: args[0],
		Order:    domain.TraversalOrder(c.order),
		Writer:   cmd.OutOrStdout(),
	})
	return err
}

// NewTrieCmd creates and returns the trie cobra command
func NewTrieCmd() *cobra.Command {
	return NewTrieCommand().CreateCobraCommand()
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/sourcerer/app"
	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/service"
)

// ClusterCommand groups the component cluster subcommands
type ClusterCommand struct {
	jars         string
	clusters     string
	lookupDB     string
	cacheDB      string
	output       string
	mergeSubsets bool
	report       outputFlags
}

// NewClusterCommand creates a new cluster command
func NewClusterCommand() *ClusterCommand {
	return &ClusterCommand{}
}

// CreateCobraCommand creates the cluster command and its subcommands
func (c *ClusterCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Identify and query clusters of FQNs shared by the same jars",
		Long: `A cluster is a group of fully qualified names found in exactly the same
set of jars. The jar listing has one jar per line: hash name version fqn...
(use - for an unknown version).`,
	}
	cmd.PersistentFlags().StringVar(&c.jars, "jars", "", "Jar listing")

	identify := &cobra.Command{
		Use:   "identify",
		Short: "Identify the fully matching clusters of a jar listing",
		Long: `Group the FQNs of a jar listing by the exact set of jars containing them
and save the clusters.

Examples:
  sourcerer cluster identify --jars jars.txt -o clusters.txt
  sourcerer cluster identify --jars jars.txt -o clusters.txt --merge-subsets`,
		Args: cobra.NoArgs,
		RunE: c.runIdentify,
	}
	identify.Flags().StringVarP(&c.output, "output", "o", "", "Cluster file to write")
	identify.Flags().BoolVar(&c.mergeSubsets, "merge-subsets", false, "Fold clusters whose jars all belong to a larger cluster into it")
	_ = identify.MarkFlagRequired("output")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Report how jars spread over clusters",
		Args:  cobra.NoArgs,
		RunE:  c.runStats,
	}
	stats.Flags().StringVar(&c.clusters, "clusters", "", "Cluster file")
	c.report.register(stats.Flags(), "Report file (defaults to stdout)")

	lookup := &cobra.Command{
		Use:   "lookup <fqn>...",
		Short: "Report which cluster owns each FQN",
		Long: `Report the cluster owning each FQN, reading either the jar listing and
cluster file or a cache written by 'sourcerer cluster cache'.

Examples:
  sourcerer cluster lookup --jars jars.txt --clusters clusters.txt org.example.Util
  sourcerer cluster lookup --db clusters.db --json org.example.Util org.example.Main`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runLookup,
	}
	lookup.Flags().StringVar(&c.clusters, "clusters", "", "Cluster file")
	lookup.Flags().StringVar(&c.lookupDB, "db", "", "Cache database to read instead of the listing and cluster file")
	c.report.register(lookup.Flags(), "")

	cache := &cobra.Command{
		Use:   "cache",
		Short: "Store a jar listing and its clusters in a cache database",
		Args:  cobra.NoArgs,
		RunE:  c.runCache,
	}
	cache.Flags().StringVar(&c.clusters, "clusters", "", "Cluster file")
	cache.Flags().StringVar(&c.cacheDB, "db", "clusters.db", "Cache database to write")

	cmd.AddCommand(identify, stats, lookup, cache)
	return cmd
}

func (c *ClusterCommand) useCase(cmd *cobra.Command) *app.ClusterUseCase {
	svc := service.NewClusterService(newLogger(cmd), newProgress(cmd))
	return app.NewClusterUseCase(svc, service.NewClusterOutputFormatter()).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr()))
}

func (c *ClusterCommand) input() domain.ClusterInput {
	return domain.ClusterInput{JarListing: c.jars, ClusterFile: c.clusters}
}

func (c *ClusterCommand) runIdentify(cmd *cobra.Command, args []string) error {
	_, err := c.useCase(cmd).Identify(commandContext(cmd), domain.ClusterIdentifyRequest{
		JarListing:   c.jars,
		OutputPath:   c.output,
		MergeSubsets: c.mergeSubsets,
	}, app.ReportTarget{Writer: cmd.OutOrStdout()})
	return err
}

func (c *ClusterCommand) runStats(cmd *cobra.Command, args []string) error {
	target, err := c.report.target(cmd)
	if err != nil {
		return err
	}
	return c.useCase(cmd).Statistics(commandContext(cmd), domain.ClusterStatsRequest{
		ClusterInput: c.input(),
		OutputFormat: target.Format,
		OutputWriter: target.Writer,
		OutputPath:   target.Path,
	})
}

func (c *ClusterCommand) runLookup(cmd *cobra.Command, args []string) error {
	target, err := c.report.target(cmd)
	if err != nil {
		return err
	}
	_, err = c.useCase(cmd).Lookup(commandContext(cmd), domain.ClusterLookupRequest{
		ClusterInput: c.input(),
		CachePath:    c.lookupDB,
		Fqns:         args,
		OutputFormat: target.Format,
		OutputWriter: target.Writer,
	})
	return err
}

func (c *ClusterCommand) runCache(cmd *cobra.Command, args []string) error {
	if err := c.useCase(cmd).Cache(commandContext(cmd), domain.ClusterCacheRequest{
		ClusterInput: c.input(),
		CachePath:    c.cacheDB,
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cache written: %s\n", c.cacheDB)
	return nil
}

// NewClusterCmd creates and returns the cluster cobra command
func NewClusterCmd() *cobra.Command {
	return NewClusterCommand().CreateCobraCommand()
}

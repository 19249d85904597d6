package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/sourcerer/app"
	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/config"
	"github.com/ludo-technologies/sourcerer/internal/constants"
	"github.com/ludo-technologies/sourcerer/service"
)

// CloningCommand reports cloning statistics
type CloningCommand struct {
	// Inputs
	listings    string
	hash        string
	fqn         string
	fingerprint string
	dirMatches  string

	// Thresholds
	minFqnDots         int
	popularLimit       int
	minJaccard         float64
	minFingerprintSize int
	requireNameMatch   bool
	includeProjects    []string
	excludeProjects    []string

	// Optional reports
	compareFileSets     bool
	projectMatching     bool
	highConfidencePairs bool

	report outputFlags
}

// NewCloningCommand creates a new cloning command with default thresholds
func NewCloningCommand() *CloningCommand {
	return &CloningCommand{
		minFqnDots:         constants.DefaultMinimumFqnDots,
		popularLimit:       constants.DefaultPopularNameLimit,
		minJaccard:         constants.DefaultMinimumJaccardIndex,
		minFingerprintSize: constants.DefaultMinimumFingerprintSize,
		requireNameMatch:   constants.DefaultRequireNameMatch,
	}
}

// CreateCobraCommand creates the cloning command and its subcommand
func (c *CloningCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cloning",
		Short: "Analyse file cloning across projects",
	}
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Report cloning statistics by confidence and detection method",
		Long: `Match files across projects by content hash, fully qualified name and
structural fingerprint, and report how many files each method matches at each
confidence level.

Text reports go to stdout. JSON, YAML and CSV reports are written to the
report directory (.sourcerer/reports by default) unless --report names a file.

Examples:
  sourcerer cloning stats --listings listings
  sourcerer cloning stats --listings listings --dir-matches dir-matches.txt --project-matching
  sourcerer cloning stats --hash h.txt --fqn f.txt --fingerprint fp.txt --json`,
		Args: cobra.NoArgs,
		RunE: c.runStats,
	}
	fs := stats.Flags()
	fs.StringVar(&c.listings, "listings", "", "Directory holding the generated listings")
	fs.StringVar(&c.hash, "hash", "", "Hash listing")
	fs.StringVar(&c.fqn, "fqn", "", "FQN listing")
	fs.StringVar(&c.fingerprint, "fingerprint", "", "Fingerprint listing")
	fs.StringVar(&c.dirMatches, "dir-matches", "", "Matched directory files written by 'sourcerer dir compare'")

	fs.IntVar(&c.minFqnDots, service.FlagMinFqnDots, c.minFqnDots, "Dots an FQN needs for HIGH confidence")
	fs.IntVar(&c.popularLimit, service.FlagPopularLimit, c.popularLimit, "Drop member names found in more files than this")
	fs.Float64Var(&c.minJaccard, service.FlagMinJaccard, c.minJaccard, "Jaccard index two fingerprints need (0.0-1.0)")
	fs.IntVar(&c.minFingerprintSize, service.FlagMinFingerprintSize, c.minFingerprintSize, "Ignore fingerprints with fewer members")
	fs.BoolVar(&c.requireNameMatch, service.FlagRequireNameMatch, c.requireNameMatch, "Only compare fingerprints of equally named types")
	fs.StringSliceVar(&c.includeProjects, service.FlagIncludeProject, nil, "Only read these projects (globs)")
	fs.StringSliceVar(&c.excludeProjects, service.FlagExcludeProject, nil, "Skip these projects (globs)")

	fs.BoolVar(&c.compareFileSets, "compare-file-sets", false, "Compare the files present in each listing")
	fs.BoolVar(&c.projectMatching, "project-matching", false, "Report per project matching and the most cloning projects")
	fs.BoolVar(&c.highConfidencePairs, "pairs", false, "List every HIGH confidence file pair")

	c.report.register(fs, "Report file (defaults to stdout for text)")
	cmd.AddCommand(stats)
	return cmd
}

func (c *CloningCommand) runStats(cmd *cobra.Command, args []string) error {
	format, err := c.report.format("")
	if err != nil {
		return domain.NewInvalidInputError("invalid output flags", err)
	}
	req := domain.CloningStatsRequest{
		HashListing:            c.hash,
		FqnListing:             c.fqn,
		FingerprintListing:     c.fingerprint,
		DirMatchesListing:      c.dirMatches,
		IncludeProjects:        c.includeProjects,
		ExcludeProjects:        c.excludeProjects,
		MinimumFqnDots:         c.minFqnDots,
		PopularNameLimit:       c.popularLimit,
		MinimumJaccardIndex:    c.minJaccard,
		MinimumFingerprintSize: c.minFingerprintSize,
		RequireNameMatch:       c.requireNameMatch,
		CompareFileSets:        c.compareFileSets,
		ProjectMatching:        c.projectMatching,
		HighConfidencePairs:    c.highConfidencePairs,
		OutputPath:             c.report.output,
		ConfigPath:             configPath(cmd),
	}
	// Explicit format flags win over the configured format
	if c.report.json || c.report.csv || c.report.yaml {
		req.OutputFormat = format
	}
	if format == domain.OutputFormatText {
		req.OutputWriter = cmd.OutOrStdout()
	}
	app.ResolveListingPaths(c.listings, &req)

	uc, err := app.NewCloningUseCaseBuilder().
		WithService(service.NewCloningService(newLogger(cmd), newProgress(cmd))).
		WithFormatter(service.NewCloningOutputFormatter()).
		WithConfigLoader(service.NewConfigurationLoaderWithFlags(config.NewFlagTrackerFromFlagSet(cmd.Flags()))).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
	if err != nil {
		return err
	}
	return uc.Execute(commandContext(cmd), req)
}

// NewCloningCmd creates and returns the cloning cobra command
func NewCloningCmd() *cobra.Command {
	return NewCloningCommand().CreateCobraCommand()
}

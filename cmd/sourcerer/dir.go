package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/sourcerer/app"
	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/config"
	"github.com/ludo-technologies/sourcerer/internal/constants"
	"github.com/ludo-technologies/sourcerer/service"
)

// DirCommand runs directory clustering
type DirCommand struct {
	listings        string
	dirListing      string
	output          string
	minMatchSize    int
	minMatchPercent float64
	popularDiscard  int
	includeProjects []string
	excludeProjects []string
	report          outputFlags
}

// NewDirCommand creates a new dir command with default thresholds
func NewDirCommand() *DirCommand {
	return &DirCommand{
		output:          "dir-matches.txt",
		minMatchSize:    constants.DefaultMinimumMatchSize,
		minMatchPercent: constants.DefaultMinimumMatchPercent,
		popularDiscard:  constants.DefaultPopularDiscard,
	}
}

// CreateCobraCommand creates the dir command and its subcommand
func (c *DirCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Cluster directories that share file names",
	}
	compare := &cobra.Command{
		Use:   "compare",
		Short: "Match directories across projects and write the matched files",
		Long: `Compare every pair of directories of a directory listing and write, for
each file of a matched directory, how many HIGH, MEDIUM and LOW matches it has
and in which directories.

The output is the --dir-matches input of 'sourcerer cloning stats'.

Examples:
  sourcerer dir compare --listings listings -o dir-matches.txt
  sourcerer dir compare --dir-listing dir-listing.txt --min-match-size 3`,
		Args: cobra.NoArgs,
		RunE: c.runCompare,
	}
	fs := compare.Flags()
	fs.StringVar(&c.listings, "listings", "", "Directory holding the generated listings")
	fs.StringVar(&c.dirListing, "dir-listing", "", "Directory listing (defaults to dir-listing.txt under --listings)")
	fs.StringVarP(&c.output, "output", "o", c.output, "Matched files output")
	fs.IntVar(&c.minMatchSize, service.FlagMinMatchSize, c.minMatchSize, "File names two directories must share")
	fs.Float64Var(&c.minMatchPercent, service.FlagMinMatchPercent, c.minMatchPercent, "Share of the smaller directory that must match (0.0-1.0)")
	fs.IntVar(&c.popularDiscard, service.FlagPopularDiscard, c.popularDiscard, "Ignore file names occurring this often or more")
	fs.StringSliceVar(&c.includeProjects, service.FlagIncludeProject, nil, "Only read these projects (globs)")
	fs.StringSliceVar(&c.excludeProjects, service.FlagExcludeProject, nil, "Skip these projects (globs)")
	c.report.register(fs, "")
	cmd.AddCommand(compare)
	return cmd
}

func (c *DirCommand) runCompare(cmd *cobra.Command, args []string) error {
	target, err := c.report.target(cmd)
	if err != nil {
		return err
	}
	loader := service.NewConfigurationLoaderWithFlags(config.NewFlagTrackerFromFlagSet(cmd.Flags()))
	svc := service.NewDirectoryService(newLogger(cmd), newProgress(cmd))
	uc := app.NewDirectoryUseCase(svc, loader).WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr()))

	_, err = uc.Execute(commandContext(cmd), domain.DirCompareRequest{
		DirListing:       app.ResolveDirListingPath(c.listings, c.dirListing),
		OutputPath:       c.output,
		MinimumMatchSize: c.minMatchSize,
		MinimumPercent:   c.minMatchPercent,
		PopularDiscard:   c.popularDiscard,
		IncludeProjects:  c.includeProjects,
		ExcludeProjects:  c.excludeProjects,
		ConfigPath:       configPath(cmd),
	}, target)
	return err
}

// NewDirCmd creates and returns the dir cobra command
func NewDirCmd() *cobra.Command {
	return NewDirCommand().CreateCobraCommand()
}

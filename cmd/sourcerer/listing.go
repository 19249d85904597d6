package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/sourcerer/app"
	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/service"
)

// ListingCommand generates listings from Java sources
type ListingCommand struct {
	outputDir       string
	excludePatterns []string
	includeProjects []string
	excludeProjects []string
	report          outputFlags
}

// NewListingCommand creates a new listing command
func NewListingCommand() *ListingCommand {
	return &ListingCommand{outputDir: "listings"}
}

// CreateCobraCommand creates the listing command and its subcommand
func (c *ListingCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listing",
		Short: "Produce flat listings from source trees",
	}
	generate := &cobra.Command{
		Use:   "generate <repo-dir>",
		Short: "Write hash, FQN, fingerprint and directory listings",
		Long: `Parse the Java files of every project under repo-dir and write the
four listings the cloning and directory commands read:

  hash-listing.txt         project path md5 sha1 length
  fqn-listing.txt          project path fqn
  fingerprint-listing.txt  project path fqn member...
  dir-listing.txt          project dir file...

Every immediate subdirectory of repo-dir is one project.

Examples:
  sourcerer listing generate ~/repos -o listings
  sourcerer listing generate ~/repos -o listings --exclude '**/generated/**'`,
		Args: cobra.ExactArgs(1),
		RunE: c.runGenerate,
	}
	generate.Flags().StringVarP(&c.outputDir, "output", "o", c.outputDir, "Directory to write the listings to")
	generate.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil, "Skip files matching these globs (relative to the project)")
	generate.Flags().StringSliceVar(&c.includeProjects, service.FlagIncludeProject, nil, "Only read these projects (globs)")
	generate.Flags().StringSliceVar(&c.excludeProjects, service.FlagExcludeProject, nil, "Skip these projects (globs)")
	c.report.register(generate.Flags(), "")
	cmd.AddCommand(generate)
	return cmd
}

func (c *ListingCommand) runGenerate(cmd *cobra.Command, args []string) error {
	target, err := c.report.target(cmd)
	if err != nil {
		return err
	}
	svc := service.NewListingService(newLogger(cmd), newProgress(cmd))
	uc := app.NewListingUseCase(svc).WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr()))
	_, err = uc.Execute(commandContext(cmd), domain.ListingGenerateRequest{
		RepoDir:         args[0],
		OutputDir:       c.outputDir,
		ExcludePatterns: c.excludePatterns,
		IncludeProjects: c.includeProjects,
		ExcludeProjects: c.excludeProjects,
	}, target)
	return err
}

// NewListingCmd creates and returns the listing cobra command
func NewListingCmd() *cobra.Command {
	return NewListingCommand().CreateCobraCommand()
}

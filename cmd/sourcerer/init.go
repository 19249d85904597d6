package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/sourcerer/internal/config"
)

// InitCommand writes a commented configuration file
type InitCommand struct {
	force bool
	path  string
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{path: config.ConfigFileName}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .sourcerer.toml configuration file",
		Long: `Create a .sourcerer.toml in the current directory with every setting
listed at its default value.

sourcerer looks for .sourcerer.toml in the working directory and its parents.

Examples:
  sourcerer init
  sourcerer init --path analysis/.sourcerer.toml --force`,
		Args: cobra.NoArgs,
		RunE: i.runInit,
	}
	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite an existing configuration file")
	cmd.Flags().StringVar(&i.path, "path", i.path, "Where to write the configuration file")
	return cmd
}

func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(i.path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if fileExists(path) && !i.force {
		return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(config.DefaultConfigTOML), 0o644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", path)
	return nil
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}

package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/sourcerer/app"
	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/service"
)

// isVerbose reads the global --verbose flag
func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

// configPath reads the global --config flag
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

// newLogger builds the task logger for a command
func newLogger(cmd *cobra.Command) *logrus.Logger {
	return service.NewLogger(isVerbose(cmd), cmd.ErrOrStderr())
}

// newProgress returns a progress manager on the command's error stream
func newProgress(cmd *cobra.Command) domain.ProgressManager {
	pm := service.NewProgressManager()
	pm.SetWriter(cmd.ErrOrStderr())
	return pm
}

// commandContext returns the context the command was executed with
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// outputFlags are the report format flags shared by every reporting command
type outputFlags struct {
	json   bool
	csv    bool
	yaml   bool
	output string
}

func (o *outputFlags) register(fs *pflag.FlagSet, outputUsage string) {
	fs.BoolVar(&o.json, "json", false, "Write the report as JSON")
	fs.BoolVar(&o.csv, "csv", false, "Write the report as CSV")
	fs.BoolVar(&o.yaml, "yaml", false, "Write the report as YAML")
	if outputUsage != "" {
		fs.StringVar(&o.output, "report", "", outputUsage)
	}
}

// format resolves the selected format, falling back to fallback
func (o *outputFlags) format(fallback string) (domain.OutputFormat, error) {
	return service.NewOutputFormatResolver().Determine(o.json, o.csv, o.yaml, fallback)
}

// target sends reports to the report file when set, stdout otherwise
func (o *outputFlags) target(cmd *cobra.Command) (app.ReportTarget, error) {
	format, err := o.format("")
	if err != nil {
		return app.ReportTarget{}, domain.NewInvalidInputError("invalid output flags", err)
	}
	return app.ReportTarget{Format: format, Writer: cmd.OutOrStdout(), Path: o.output}, nil
}

// fileExists reports whether path names an existing file
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

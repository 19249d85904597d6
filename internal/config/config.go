package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/constants"
)

// ConfigFileName is the dedicated configuration file looked up from the
// working directory upwards.
const ConfigFileName = ".sourcerer.toml"

// DefaultReportDirectory is where reports go when no output path is given.
const DefaultReportDirectory = ".sourcerer/reports"

// Config is the complete sourcerer configuration.
type Config struct {
	Cloning     CloningConfig     `toml:"cloning" mapstructure:"cloning" yaml:"cloning" json:"cloning"`
	Fingerprint FingerprintConfig `toml:"fingerprint" mapstructure:"fingerprint" yaml:"fingerprint" json:"fingerprint"`
	Directory   DirectoryConfig   `toml:"directory" mapstructure:"directory" yaml:"directory" json:"directory"`
	Output      OutputConfig      `toml:"output" mapstructure:"output" yaml:"output" json:"output"`
	Input       InputConfig       `toml:"input" mapstructure:"input" yaml:"input" json:"input"`
}

// CloningConfig holds the simple key settings
type CloningConfig struct {
	MinimumFqnDots   int `toml:"minimum_fqn_dots" mapstructure:"minimum_fqn_dots" yaml:"minimum_fqn_dots" json:"minimum_fqn_dots"`
	PopularNameLimit int `toml:"popular_name_limit" mapstructure:"popular_name_limit" yaml:"popular_name_limit" json:"popular_name_limit"`
}

// FingerprintConfig holds the fingerprint matching settings
type FingerprintConfig struct {
	MinimumJaccardIndex    float64 `toml:"minimum_jaccard_index" mapstructure:"minimum_jaccard_index" yaml:"minimum_jaccard_index" json:"minimum_jaccard_index"`
	MinimumFingerprintSize int     `toml:"minimum_fingerprint_size" mapstructure:"minimum_fingerprint_size" yaml:"minimum_fingerprint_size" json:"minimum_fingerprint_size"`
	RequireNameMatch       bool    `toml:"require_name_match" mapstructure:"require_name_match" yaml:"require_name_match" json:"require_name_match"`
}

// DirectoryConfig holds the directory clustering settings
type DirectoryConfig struct {
	MinimumMatchSize    int     `toml:"minimum_match_size" mapstructure:"minimum_match_size" yaml:"minimum_match_size" json:"minimum_match_size"`
	MinimumMatchPercent float64 `toml:"minimum_match_percent" mapstructure:"minimum_match_percent" yaml:"minimum_match_percent" json:"minimum_match_percent"`
	PopularDiscard      int     `toml:"popular_discard" mapstructure:"popular_discard" yaml:"popular_discard" json:"popular_discard"`
}

// OutputConfig holds report settings
type OutputConfig struct {
	Format    string `toml:"format" mapstructure:"format" yaml:"format" json:"format"`
	Directory string `toml:"directory" mapstructure:"directory" yaml:"directory" json:"directory"`
}

// InputConfig holds project filters. Patterns are doublestar globs matched
// against project names.
type InputConfig struct {
	IncludeProjects []string `toml:"include_projects" mapstructure:"include_projects" yaml:"include_projects" json:"include_projects"`
	ExcludeProjects []string `toml:"exclude_projects" mapstructure:"exclude_projects" yaml:"exclude_projects" json:"exclude_projects"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Cloning: CloningConfig{
			MinimumFqnDots:   constants.DefaultMinimumFqnDots,
			PopularNameLimit: constants.DefaultPopularNameLimit,
		},
		Fingerprint: FingerprintConfig{
			MinimumJaccardIndex:    constants.DefaultMinimumJaccardIndex,
			MinimumFingerprintSize: constants.DefaultMinimumFingerprintSize,
			RequireNameMatch:       constants.DefaultRequireNameMatch,
		},
		Directory: DirectoryConfig{
			MinimumMatchSize:    constants.DefaultMinimumMatchSize,
			MinimumMatchPercent: constants.DefaultMinimumMatchPercent,
			PopularDiscard:      constants.DefaultPopularDiscard,
		},
		Output: OutputConfig{
			Format: string(domain.OutputFormatText),
		},
	}
}

// Validate checks every section for out-of-range values
func (c *Config) Validate() error {
	if c.Cloning.MinimumFqnDots < 0 {
		return fmt.Errorf("cloning.minimum_fqn_dots must be >= 0, got %d", c.Cloning.MinimumFqnDots)
	}
	if c.Cloning.PopularNameLimit < 1 {
		return fmt.Errorf("cloning.popular_name_limit must be >= 1, got %d", c.Cloning.PopularNameLimit)
	}
	if c.Fingerprint.MinimumJaccardIndex < 0 || c.Fingerprint.MinimumJaccardIndex > 1 {
		return fmt.Errorf("fingerprint.minimum_jaccard_index must be between 0.0 and 1.0, got %g", c.Fingerprint.MinimumJaccardIndex)
	}
	if c.Fingerprint.MinimumFingerprintSize < 1 {
		return fmt.Errorf("fingerprint.minimum_fingerprint_size must be >= 1, got %d", c.Fingerprint.MinimumFingerprintSize)
	}
	if c.Directory.MinimumMatchSize < 1 {
		return fmt.Errorf("directory.minimum_match_size must be >= 1, got %d", c.Directory.MinimumMatchSize)
	}
	if c.Directory.MinimumMatchPercent < 0 || c.Directory.MinimumMatchPercent > 1 {
		return fmt.Errorf("directory.minimum_match_percent must be between 0.0 and 1.0, got %g", c.Directory.MinimumMatchPercent)
	}
	if c.Directory.PopularDiscard < 1 {
		return fmt.Errorf("directory.popular_discard must be >= 1, got %d", c.Directory.PopularDiscard)
	}
	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	for _, p := range append(append([]string{}, c.Input.IncludeProjects...), c.Input.ExcludeProjects...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("input: invalid project pattern %q", p)
		}
	}
	return nil
}

// ApplyToCloningRequest copies the key thresholds and project filters into req
func (c *Config) ApplyToCloningRequest(req *domain.CloningStatsRequest) {
	req.MinimumFqnDots = c.Cloning.MinimumFqnDots
	req.PopularNameLimit = c.Cloning.PopularNameLimit
	req.MinimumJaccardIndex = c.Fingerprint.MinimumJaccardIndex
	req.MinimumFingerprintSize = c.Fingerprint.MinimumFingerprintSize
	req.RequireNameMatch = c.Fingerprint.RequireNameMatch
	req.IncludeProjects = c.Input.IncludeProjects
	req.ExcludeProjects = c.Input.ExcludeProjects
	if f, err := domain.ParseOutputFormat(c.Output.Format); err == nil && req.OutputFormat == "" {
		req.OutputFormat = f
	}
}

// ApplyToDirCompareRequest copies the directory clustering settings into req
func (c *Config) ApplyToDirCompareRequest(req *domain.DirCompareRequest) {
	req.MinimumMatchSize = c.Directory.MinimumMatchSize
	req.MinimumPercent = c.Directory.MinimumMatchPercent
	req.PopularDiscard = c.Directory.PopularDiscard
	req.IncludeProjects = c.Input.IncludeProjects
	req.ExcludeProjects = c.Input.ExcludeProjects
}

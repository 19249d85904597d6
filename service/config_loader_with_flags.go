package service

import (
	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/config"
)

// Command line flags that override configuration values
const (
	FlagMinFqnDots         = "min-fqn-dots"
	FlagPopularLimit       = "popular-limit"
	FlagMinJaccard         = "min-jaccard"
	FlagMinFingerprintSize = "min-fingerprint-size"
	FlagRequireNameMatch   = "require-name-match"
	FlagMinMatchSize       = "min-match-size"
	FlagMinMatchPercent    = "min-match-percent"
	FlagPopularDiscard     = "popular-discard"
	FlagIncludeProject     = "include-project"
	FlagExcludeProject     = "exclude-project"
)

// ConfigurationLoaderWithFlags wraps configuration loading with explicit flag tracking
type ConfigurationLoaderWithFlags struct {
	loader      *ConfigurationLoaderImpl
	flagTracker *config.FlagTracker
}

// NewConfigurationLoaderWithFlags creates a new configuration loader that tracks explicit flags
func NewConfigurationLoaderWithFlags(tracker *config.FlagTracker) *ConfigurationLoaderWithFlags {
	if tracker == nil {
		tracker = config.NewFlagTracker()
	}
	return &ConfigurationLoaderWithFlags{loader: NewConfigurationLoader(), flagTracker: tracker}
}

// LoadConfig loads the effective configuration
func (c *ConfigurationLoaderWithFlags) LoadConfig(configPath, startDir string) (*config.Config, error) {
	return c.loader.LoadConfig(configPath, startDir)
}

// MergeCloningRequest applies cfg to a copy of override, keeping the values
// of flags the user set explicitly
func (c *ConfigurationLoaderWithFlags) MergeCloningRequest(cfg *config.Config, override *domain.CloningStatsRequest) *domain.CloningStatsRequest {
	if override == nil {
		return nil
	}
	merged := *override
	if cfg == nil {
		return &merged
	}
	cfg.ApplyToCloningRequest(&merged)

	ft := c.flagTracker
	merged.MinimumFqnDots = ft.MergeInt(merged.MinimumFqnDots, override.MinimumFqnDots, FlagMinFqnDots)
	merged.PopularNameLimit = ft.MergeInt(merged.PopularNameLimit, override.PopularNameLimit, FlagPopularLimit)
	merged.MinimumJaccardIndex = ft.MergeFloat64(merged.MinimumJaccardIndex, override.MinimumJaccardIndex, FlagMinJaccard)
	merged.MinimumFingerprintSize = ft.MergeInt(merged.MinimumFingerprintSize, override.MinimumFingerprintSize, FlagMinFingerprintSize)
	merged.RequireNameMatch = ft.MergeBool(merged.RequireNameMatch, override.RequireNameMatch, FlagRequireNameMatch)
	merged.IncludeProjects = ft.MergeStringSlice(merged.IncludeProjects, override.IncludeProjects, FlagIncludeProject)
	merged.ExcludeProjects = ft.MergeStringSlice(merged.ExcludeProjects, override.ExcludeProjects, FlagExcludeProject)
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	return &merged
}

// MergeDirCompareRequest applies cfg to a copy of override, keeping the
// values of flags the user set explicitly
func (c *ConfigurationLoaderWithFlags) MergeDirCompareRequest(cfg *config.Config, override *domain.DirCompareRequest) *domain.DirCompareRequest {
	if override == nil {
		return nil
	}
	merged := *override
	if cfg == nil {
		return &merged
	}
	cfg.ApplyToDirCompareRequest(&merged)

	ft := c.flagTracker
	merged.MinimumMatchSize = ft.MergeInt(merged.MinimumMatchSize, override.MinimumMatchSize, FlagMinMatchSize)
	merged.MinimumPercent = ft.MergeFloat64(merged.MinimumPercent, override.MinimumPercent, FlagMinMatchPercent)
	merged.PopularDiscard = ft.MergeInt(merged.PopularDiscard, override.PopularDiscard, FlagPopularDiscard)
	merged.IncludeProjects = ft.MergeStringSlice(merged.IncludeProjects, override.IncludeProjects, FlagIncludeProject)
	merged.ExcludeProjects = ft.MergeStringSlice(merged.ExcludeProjects, override.ExcludeProjects, FlagExcludeProject)
	return &merged
}

// ProjectFilters returns the configured project filters unless overridden by flags
func (c *ConfigurationLoaderWithFlags) ProjectFilters(cfg *config.Config, include, exclude []string) ([]string, []string) {
	if cfg == nil {
		return include, exclude
	}
	return c.flagTracker.MergeStringSlice(cfg.Input.IncludeProjects, include, FlagIncludeProject),
		c.flagTracker.MergeStringSlice(cfg.Input.ExcludeProjects, exclude, FlagExcludeProject)
}

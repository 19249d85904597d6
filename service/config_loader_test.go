package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/config"
	"github.com/ludo-technologies/sourcerer/internal/constants"
)

func TestConfigurationLoader_Defaults(t *testing.T) {
	cfg, err := NewConfigurationLoader().LoadConfig("", t.TempDir())
	require.NoError(t, err)
	def := config.DefaultConfig()
	assert.Equal(t, def.Cloning, cfg.Cloning)
	assert.Equal(t, def.Fingerprint, cfg.Fingerprint)
	assert.Equal(t, def.Directory, cfg.Directory)
	assert.Equal(t, def.Output, cfg.Output)
	assert.Empty(t, cfg.Input.IncludeProjects)
}

func TestConfigurationLoader_TomlLookup(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, config.ConfigFileName, `
[fingerprint]
minimum_jaccard_index = 0.9
require_name_match = false

[input]
exclude_projects = ["vendor-*"]
`)
	cfg, err := NewConfigurationLoader().LoadConfig("", filepath.Join(root, "nested"))
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Fingerprint.MinimumJaccardIndex)
	assert.False(t, cfg.Fingerprint.RequireNameMatch)
	assert.Equal(t, []string{"vendor-*"}, cfg.Input.ExcludeProjects)
	assert.Equal(t, constants.DefaultMinimumFqnDots, cfg.Cloning.MinimumFqnDots)
}

func TestConfigurationLoader_ExplicitYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sourcerer.yaml", `
cloning:
  minimum_fqn_dots: 2
directory:
  popular_discard: 50
output:
  format: json
`)
	cfg, err := NewConfigurationLoader().LoadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Cloning.MinimumFqnDots)
	assert.Equal(t, 50, cfg.Directory.PopularDiscard)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, constants.DefaultPopularNameLimit, cfg.Cloning.PopularNameLimit)
}

func TestConfigurationLoader_EnvOverrides(t *testing.T) {
	t.Setenv("SOURCERER_CLONING_MINIMUM_FQN_DOTS", "1")
	t.Setenv("SOURCERER_FINGERPRINT_MINIMUM_JACCARD_INDEX", "0.5")
	t.Setenv("SOURCERER_FINGERPRINT_REQUIRE_NAME_MATCH", "false")

	cfg, err := NewConfigurationLoader().LoadConfig("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Cloning.MinimumFqnDots)
	assert.Equal(t, 0.5, cfg.Fingerprint.MinimumJaccardIndex)
	assert.False(t, cfg.Fingerprint.RequireNameMatch)
}

func TestConfigurationLoader_Errors(t *testing.T) {
	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), "")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeConfigError))

	t.Setenv("SOURCERER_FINGERPRINT_MINIMUM_JACCARD_INDEX", "2")
	_, err = loader.LoadConfig("", t.TempDir())
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeConfigError))
	assert.Contains(t, err.Error(), "minimum_jaccard_index")
}

func TestConfigurationLoaderWithFlags_MergeCloningRequest(t *testing.T) {
	tracker := config.NewFlagTracker()
	tracker.Set(FlagMinJaccard)
	loader := NewConfigurationLoaderWithFlags(tracker)

	cfg := config.DefaultConfig()
	cfg.Cloning.MinimumFqnDots = 2
	cfg.Input.IncludeProjects = []string{"p*"}

	override := &domain.CloningStatsRequest{
		HashListing:         "h",
		MinimumFqnDots:      7,
		MinimumJaccardIndex: 0.6,
		OutputFormat:        domain.OutputFormatCSV,
	}
	merged := loader.MergeCloningRequest(cfg, override)
	assert.Equal(t, "h", merged.HashListing)
	assert.Equal(t, 2, merged.MinimumFqnDots, "unset flags take the configured value")
	assert.Equal(t, 0.6, merged.MinimumJaccardIndex, "explicit flags win")
	assert.Equal(t, []string{"p*"}, merged.IncludeProjects)
	assert.Equal(t, domain.OutputFormatCSV, merged.OutputFormat)
	assert.Equal(t, 7, override.MinimumFqnDots, "the override is not modified")
}

func TestConfigurationLoaderWithFlags_MergeDirCompareRequest(t *testing.T) {
	tracker := config.NewFlagTracker()
	tracker.Set(FlagPopularDiscard)
	tracker.Set(FlagExcludeProject)
	loader := NewConfigurationLoaderWithFlags(tracker)

	cfg := config.DefaultConfig()
	cfg.Input.ExcludeProjects = []string{"a"}
	merged := loader.MergeDirCompareRequest(cfg, &domain.DirCompareRequest{
		PopularDiscard:  10,
		MinimumPercent:  0.9,
		ExcludeProjects: []string{"b"},
	})
	assert.Equal(t, 10, merged.PopularDiscard)
	assert.Equal(t, constants.DefaultMinimumMatchPercent, merged.MinimumPercent)
	assert.Equal(t, []string{"b"}, merged.ExcludeProjects)

	include, exclude := loader.ProjectFilters(cfg, nil, []string{"c"})
	assert.Nil(t, include)
	assert.Equal(t, []string{"c"}, exclude)
}

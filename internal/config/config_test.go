package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/constants"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, constants.DefaultMinimumFqnDots, cfg.Cloning.MinimumFqnDots)
	assert.Equal(t, constants.DefaultPopularNameLimit, cfg.Cloning.PopularNameLimit)
	assert.Equal(t, constants.DefaultMinimumJaccardIndex, cfg.Fingerprint.MinimumJaccardIndex)
	assert.True(t, cfg.Fingerprint.RequireNameMatch)
	assert.Equal(t, constants.DefaultPopularDiscard, cfg.Directory.PopularDiscard)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadConfigFromToml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[cloning]
minimum_fqn_dots = 2

[fingerprint]
minimum_jaccard_index = 0.9
require_name_match = false

[directory]
popular_discard = 100

[output]
format = "json"

[input]
exclude_projects = ["test-*"]
`)

	cfg, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Cloning.MinimumFqnDots)
	assert.Equal(t, 0.9, cfg.Fingerprint.MinimumJaccardIndex)
	assert.False(t, cfg.Fingerprint.RequireNameMatch)
	assert.Equal(t, 100, cfg.Directory.PopularDiscard)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, []string{"test-*"}, cfg.Input.ExcludeProjects)

	// untouched settings keep their defaults
	assert.Equal(t, constants.DefaultPopularNameLimit, cfg.Cloning.PopularNameLimit)
	assert.Equal(t, constants.DefaultMinimumFingerprintSize, cfg.Fingerprint.MinimumFingerprintSize)
	assert.Equal(t, constants.DefaultMinimumMatchSize, cfg.Directory.MinimumMatchSize)
}

func TestLoadConfigZeroValuesAreHonoured(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[cloning]\nminimum_fqn_dots = 0\n")

	cfg, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Cloning.MinimumFqnDots)
}

func TestLoadConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[directory]\nminimum_match_size = 9\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	loader := NewTomlConfigLoader()
	path, err := loader.FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, ConfigFileName, filepath.Base(path))

	cfg, err := loader.LoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Directory.MinimumMatchSize)
}

func TestLoadConfigWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := NewTomlConfigLoader().LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad jaccard", "[fingerprint]\nminimum_jaccard_index = 1.5\n"},
		{"bad format", "[output]\nformat = \"html\"\n"},
		{"bad pattern", "[input]\ninclude_projects = [\"[\"]\n"},
		{"not toml", "[cloning\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := NewTomlConfigLoader().LoadConfig(dir)
			assert.Error(t, err)
		})
	}
}

func TestApplyToCloningRequest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cloning.MinimumFqnDots = 4
	cfg.Input.IncludeProjects = []string{"apache-*"}
	cfg.Output.Format = "yaml"

	req := &domain.CloningStatsRequest{}
	cfg.ApplyToCloningRequest(req)

	assert.Equal(t, 4, req.MinimumFqnDots)
	assert.Equal(t, constants.DefaultMinimumJaccardIndex, req.MinimumJaccardIndex)
	assert.Equal(t, []string{"apache-*"}, req.IncludeProjects)
	assert.Equal(t, domain.OutputFormatYAML, req.OutputFormat)

	dirReq := &domain.DirCompareRequest{}
	cfg.ApplyToDirCompareRequest(dirReq)
	assert.Equal(t, constants.DefaultMinimumMatchSize, dirReq.MinimumMatchSize)
	assert.Equal(t, constants.DefaultMinimumMatchPercent, dirReq.MinimumPercent)
}

func TestMerge(t *testing.T) {
	flags := map[string]bool{"set": true}

	assert.Equal(t, 5, Merge(1, 5, "set", flags))
	assert.Equal(t, 1, Merge(1, 5, "unset", flags))
	assert.Equal(t, "b", Merge("a", "b", "set", flags))
	assert.Equal(t, 0.1, Merge(0.1, 0.5, "set", nil))

	assert.Equal(t, []string{"a"}, MergeStringSlice([]string{"a"}, nil, "set", flags))
	assert.Equal(t, []string{"b"}, MergeStringSlice([]string{"a"}, []string{"b"}, "set", flags))
}

func TestFlagTrackerFromFlagSet(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("min-dots", 3, "")
	fs.String("format", "text", "")
	require.NoError(t, fs.Parse([]string{"--min-dots", "2"}))

	ft := NewFlagTrackerFromFlagSet(fs)
	assert.True(t, ft.WasSet("min-dots"))
	assert.False(t, ft.WasSet("format"))

	assert.Equal(t, 2, ft.MergeInt(3, 2, "min-dots"))
	assert.Equal(t, "yaml", ft.MergeString("yaml", "text", "format"))

	ft.Set("format")
	assert.Equal(t, "text", ft.MergeString("yaml", "text", "format"))
	assert.Len(t, ft.GetAll(), 2)
}

func TestDefaultConfigTOMLMatchesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultConfigTOML)
	cfg, err := NewTomlConfigLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

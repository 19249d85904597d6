package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/config"
)

// EnvPrefix prefixes the environment variables that override configuration,
// e.g. SOURCERER_FINGERPRINT_MINIMUM_JACCARD_INDEX.
const EnvPrefix = "SOURCERER"

// ConfigurationLoaderImpl resolves the effective configuration. An explicit
// file of any format viper reads replaces the .sourcerer.toml lookup;
// environment variables override both.
type ConfigurationLoaderImpl struct {
	toml *config.TomlConfigLoader
}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{toml: config.NewTomlConfigLoader()}
}

// LoadConfig loads configPath when set, otherwise the nearest
// .sourcerer.toml at or above startDir, and applies SOURCERER_* overrides
func (c *ConfigurationLoaderImpl) LoadConfig(configPath, startDir string) (*config.Config, error) {
	base := config.DefaultConfig()
	if configPath == "" {
		if startDir == "" {
			startDir = "."
		}
		cfg, err := c.toml.LoadConfig(startDir)
		if err != nil {
			return nil, domain.NewConfigError("failed to load configuration file", err)
		}
		base = cfg
	}

	v := viper.New()
	setDefaults(v, base)
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, domain.NewConfigError(fmt.Sprintf("config file not found: %s", configPath), err)
			}
			return nil, domain.NewConfigError(fmt.Sprintf("error reading config file %s", configPath), err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &config.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, domain.NewConfigError("failed to decode configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can see it
func setDefaults(v *viper.Viper, cfg *config.Config) {
	v.SetDefault("cloning.minimum_fqn_dots", cfg.Cloning.MinimumFqnDots)
	v.SetDefault("cloning.popular_name_limit", cfg.Cloning.PopularNameLimit)
	v.SetDefault("fingerprint.minimum_jaccard_index", cfg.Fingerprint.MinimumJaccardIndex)
	v.SetDefault("fingerprint.minimum_fingerprint_size", cfg.Fingerprint.MinimumFingerprintSize)
	v.SetDefault("fingerprint.require_name_match", cfg.Fingerprint.RequireNameMatch)
	v.SetDefault("directory.minimum_match_size", cfg.Directory.MinimumMatchSize)
	v.SetDefault("directory.minimum_match_percent", cfg.Directory.MinimumMatchPercent)
	v.SetDefault("directory.popular_discard", cfg.Directory.PopularDiscard)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.directory", cfg.Output.Directory)
	v.SetDefault("input.include_projects", cfg.Input.IncludeProjects)
	v.SetDefault("input.exclude_projects", cfg.Input.ExcludeProjects)
}

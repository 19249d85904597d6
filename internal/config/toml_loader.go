package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// sourcererToml mirrors .sourcerer.toml. Pointers detect unset values so a
// file that only names one setting leaves the other defaults alone.
type sourcererToml struct {
	Cloning struct {
		MinimumFqnDots   *int `toml:"minimum_fqn_dots"`
		PopularNameLimit int  `toml:"popular_name_limit"`
	} `toml:"cloning"`
	Fingerprint struct {
		MinimumJaccardIndex    *float64 `toml:"minimum_jaccard_index"`
		MinimumFingerprintSize int      `toml:"minimum_fingerprint_size"`
		RequireNameMatch       *bool    `toml:"require_name_match"`
	} `toml:"fingerprint"`
	Directory struct {
		MinimumMatchSize    int      `toml:"minimum_match_size"`
		MinimumMatchPercent *float64 `toml:"minimum_match_percent"`
		PopularDiscard      int      `toml:"popular_discard"`
	} `toml:"directory"`
	Output struct {
		Format    string `toml:"format"`
		Directory string `toml:"directory"`
	} `toml:"output"`
	Input struct {
		IncludeProjects []string `toml:"include_projects"`
		ExcludeProjects []string `toml:"exclude_projects"`
	} `toml:"input"`
}

// TomlConfigLoader loads .sourcerer.toml files
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig finds the nearest .sourcerer.toml at or above startDir and
// merges it into the defaults. Without a file the defaults are returned.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	path, err := l.FindConfigFile(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return l.LoadFile(path)
}

// LoadFile parses one TOML file and merges it into the defaults
func (l *TomlConfigLoader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file sourcererToml
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	l.merge(cfg, &file)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// FindConfigFile walks up the directory tree to find .sourcerer.toml
func (l *TomlConfigLoader) FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func (l *TomlConfigLoader) merge(cfg *Config, file *sourcererToml) {
	if file.Cloning.MinimumFqnDots != nil {
		cfg.Cloning.MinimumFqnDots = *file.Cloning.MinimumFqnDots
	}
	if file.Cloning.PopularNameLimit > 0 {
		cfg.Cloning.PopularNameLimit = file.Cloning.PopularNameLimit
	}

	if file.Fingerprint.MinimumJaccardIndex != nil {
		cfg.Fingerprint.MinimumJaccardIndex = *file.Fingerprint.MinimumJaccardIndex
	}
	if file.Fingerprint.MinimumFingerprintSize > 0 {
		cfg.Fingerprint.MinimumFingerprintSize = file.Fingerprint.MinimumFingerprintSize
	}
	if file.Fingerprint.RequireNameMatch != nil {
		cfg.Fingerprint.RequireNameMatch = *file.Fingerprint.RequireNameMatch
	}

	if file.Directory.MinimumMatchSize > 0 {
		cfg.Directory.MinimumMatchSize = file.Directory.MinimumMatchSize
	}
	if file.Directory.MinimumMatchPercent != nil {
		cfg.Directory.MinimumMatchPercent = *file.Directory.MinimumMatchPercent
	}
	if file.Directory.PopularDiscard > 0 {
		cfg.Directory.PopularDiscard = file.Directory.PopularDiscard
	}

	if file.Output.Format != "" {
		cfg.Output.Format = file.Output.Format
	}
	if file.Output.Directory != "" {
		cfg.Output.Directory = file.Output.Directory
	}

	if len(file.Input.IncludeProjects) > 0 {
		cfg.Input.IncludeProjects = file.Input.IncludeProjects
	}
	if len(file.Input.ExcludeProjects) > 0 {
		cfg.Input.ExcludeProjects = file.Input.ExcludeProjects
	}
}

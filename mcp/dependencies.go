package mcp

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/internal/cluster"
	"github.com/ludo-technologies/sourcerer/internal/config"
	"github.com/ludo-technologies/sourcerer/service"
)

// Dependencies aggregates the state shared by the MCP handlers: the cached
// jar trie and clusters, and the configuration for cloning runs.
type Dependencies struct {
	jars       *cluster.JarCollection
	matcher    *cluster.Matcher
	config     *config.Config
	configPath string
	log        logrus.FieldLogger
}

// NewDependencies constructs the dependency set without a cluster cache.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Dependencies{
		config:     cfg,
		configPath: configPath,
		log:        service.NewQuietLogger(),
	}
}

// LoadCache reads the jar trie and clusters of a cache database written by
// `sourcerer cluster cache`. Duplicate cluster ownership is logged and the
// first owner kept.
func (d *Dependencies) LoadCache(ctx context.Context, dbPath string, log logrus.FieldLogger) error {
	if log != nil {
		d.log = log
	}
	jars, clusters, err := service.NewClusterService(d.log, nil).LoadCache(ctx, dbPath)
	if err != nil {
		return err
	}
	matcher, err := cluster.NewMatcher(clusters)
	if err != nil {
		var consistency *cluster.ConsistencyError
		if !errors.As(err, &consistency) {
			return err
		}
		d.log.Warnf("Cluster cache %s: %v", dbPath, err)
	}
	d.jars = jars
	d.matcher = matcher
	d.log.Infof("Loaded %d jars and %d clusters from %s", jars.Len(), clusters.Len(), dbPath)
	return nil
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// HasCache reports whether a cluster cache was loaded
func (d *Dependencies) HasCache() bool {
	return d.jars != nil && d.matcher != nil
}

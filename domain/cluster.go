package domain

import (
	"context"
	"io"
)

// JarRef identifies a jar in reports
type JarRef struct {
	Hash    string `json:"hash" yaml:"hash"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// FragmentedJar is a jar whose FQNs are spread over more than one cluster
type FragmentedJar struct {
	Jar             JarRef   `json:"jar" yaml:"jar"`
	Clusters        int      `json:"clusters" yaml:"clusters"`
	OverlappingJars []JarRef `json:"overlapping_jars" yaml:"overlapping_jars"`
}

// ClusterSummary describes one cluster of a collection
type ClusterSummary struct {
	Index     int      `json:"index" yaml:"index"`
	Jars      []JarRef `json:"jars" yaml:"jars"`
	CoreFqns  int      `json:"core_fqns" yaml:"core_fqns"`
	ExtraFqns int      `json:"extra_fqns" yaml:"extra_fqns"`
}

// ClusterReport classifies the jars and clusters of a collection
type ClusterReport struct {
	JarCount          int              `json:"jar_count" yaml:"jar_count"`
	ClusterCount      int              `json:"cluster_count" yaml:"cluster_count"`
	SingleClusterJars int              `json:"single_cluster_jars" yaml:"single_cluster_jars"`
	MultiClusterJars  int              `json:"multi_cluster_jars" yaml:"multi_cluster_jars"`
	SingleJarClusters int              `json:"single_jar_clusters" yaml:"single_jar_clusters"`
	MultiJarClusters  int              `json:"multi_jar_clusters" yaml:"multi_jar_clusters"`
	Fragmented        []FragmentedJar  `json:"fragmented" yaml:"fragmented"`
	Clusters          []ClusterSummary `json:"clusters" yaml:"clusters"`
}

// ClusterInput names the listing and cluster files every cluster command reads
type ClusterInput struct {
	JarListing  string `json:"jar_listing"`
	ClusterFile string `json:"cluster_file"`
}

// Validate checks that both inputs are present
func (in ClusterInput) Validate() error {
	if in.JarListing == "" {
		return NewValidationError("jar listing is required")
	}
	if in.ClusterFile == "" {
		return NewValidationError("cluster file is required")
	}
	return nil
}

// ClusterIdentifyRequest asks for the fully matching clusters of a jar listing
type ClusterIdentifyRequest struct {
	JarListing string `json:"jar_listing"`
	OutputPath string `json:"output_path"`
	// MergeSubsets folds clusters whose jars all belong to a larger cluster
	// into it as extra FQNs
	MergeSubsets bool `json:"merge_subsets"`
}

// Validate checks that the request can be executed
func (req *ClusterIdentifyRequest) Validate() error {
	if req.JarListing == "" {
		return NewValidationError("jar listing is required")
	}
	if req.OutputPath == "" {
		return NewValidationError("output path is required")
	}
	return nil
}

// ClusterIdentifyResponse summarises an identification run
type ClusterIdentifyResponse struct {
	Jars       int    `json:"jars" yaml:"jars"`
	Fqns       int    `json:"fqns" yaml:"fqns"`
	Clusters   int    `json:"clusters" yaml:"clusters"`
	Merged     int    `json:"merged,omitempty" yaml:"merged,omitempty"`
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// ClusterStatsRequest asks for the fragmentation report of a collection
type ClusterStatsRequest struct {
	ClusterInput
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path"`
}

// ClusterStatsResponse carries both the text log and its structured form
type ClusterStatsResponse struct {
	Report *ClusterReport `json:"report" yaml:"report"`
	Log    string         `json:"-" yaml:"-"`
}

// ClusterLookupRequest asks which cluster owns each FQN
type ClusterLookupRequest struct {
	ClusterInput
	CachePath    string       `json:"cache_path"`
	Fqns         []string     `json:"fqns"`
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
}

// Validate checks that the request can be executed. A cache path replaces
// the listing and cluster files.
func (req *ClusterLookupRequest) Validate() error {
	if len(req.Fqns) == 0 {
		return NewValidationError("at least one fqn is required")
	}
	if req.CachePath != "" {
		return nil
	}
	return req.ClusterInput.Validate()
}

// ClusterLookupResult is the owner of one FQN
type ClusterLookupResult struct {
	Fqn       string   `json:"fqn" yaml:"fqn"`
	Found     bool     `json:"found" yaml:"found"`
	Cluster   int      `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	Core      bool     `json:"core,omitempty" yaml:"core,omitempty"`
	Jars      []JarRef `json:"jars,omitempty" yaml:"jars,omitempty"`
	CoreFqns  int      `json:"core_fqns,omitempty" yaml:"core_fqns,omitempty"`
	ExtraFqns int      `json:"extra_fqns,omitempty" yaml:"extra_fqns,omitempty"`
}

// ClusterCacheRequest stores a jar trie and its clusters in a cache database
type ClusterCacheRequest struct {
	ClusterInput
	CachePath string `json:"cache_path"`
}

// Validate checks that the request can be executed
func (req *ClusterCacheRequest) Validate() error {
	if req.CachePath == "" {
		return NewValidationError("cache path is required")
	}
	return req.ClusterInput.Validate()
}

// ClusterService identifies, reports on and queries component clusters
type ClusterService interface {
	Identify(ctx context.Context, req *ClusterIdentifyRequest) (*ClusterIdentifyResponse, error)
	Statistics(ctx context.Context, req *ClusterStatsRequest) (*ClusterStatsResponse, error)
	Lookup(ctx context.Context, req *ClusterLookupRequest) ([]ClusterLookupResult, error)
	Cache(ctx context.Context, req *ClusterCacheRequest) error
}

// ClusterOutputFormatter renders cluster reports
type ClusterOutputFormatter interface {
	FormatStatistics(response *ClusterStatsResponse, format OutputFormat, writer io.Writer) error
	FormatLookup(results []ClusterLookupResult, format OutputFormat, writer io.Writer) error
}

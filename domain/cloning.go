package domain

import (
	"context"
	"io"
)

// CloningStatsRequest describes one cloning statistics run over flat listings
type CloningStatsRequest struct {
	// Input listings
	HashListing        string `json:"hash_listing"`
	FqnListing         string `json:"fqn_listing"`
	FingerprintListing string `json:"fingerprint_listing"`
	DirMatchesListing  string `json:"dir_matches_listing,omitempty"`

	// Project filtering (doublestar globs over project names)
	IncludeProjects []string `json:"include_projects"`
	ExcludeProjects []string `json:"exclude_projects"`

	// Key thresholds
	MinimumFqnDots         int     `json:"minimum_fqn_dots"`
	PopularNameLimit       int     `json:"popular_name_limit"`
	MinimumJaccardIndex    float64 `json:"minimum_jaccard_index"`
	MinimumFingerprintSize int     `json:"minimum_fingerprint_size"`
	RequireNameMatch       bool    `json:"require_name_match"`

	// Optional reports
	CompareFileSets     bool `json:"compare_file_sets"`
	ProjectMatching     bool `json:"project_matching"`
	HighConfidencePairs bool `json:"high_confidence_pairs"`

	// Output
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path"`

	ConfigPath string `json:"config_path"`
}

// Validate checks that the request can be executed
func (req *CloningStatsRequest) Validate() error {
	if req.HashListing == "" {
		return NewValidationError("hash listing is required")
	}
	if req.FqnListing == "" {
		return NewValidationError("fqn listing is required")
	}
	if req.FingerprintListing == "" {
		return NewValidationError("fingerprint listing is required")
	}
	if req.MinimumFqnDots < 0 {
		return NewValidationError("minimum_fqn_dots must be >= 0")
	}
	if req.MinimumJaccardIndex < 0 || req.MinimumJaccardIndex > 1 {
		return NewValidationError("minimum_jaccard_index must be between 0.0 and 1.0")
	}
	if req.MinimumFingerprintSize < 1 {
		return NewValidationError("minimum_fingerprint_size must be >= 1")
	}
	if req.PopularNameLimit < 1 {
		return NewValidationError("popular_name_limit must be >= 1")
	}
	return nil
}

// FileSetComparison counts the files that lack one of the three base signals
type FileSetComparison struct {
	TotalFiles         int `json:"total_files" yaml:"total_files" csv:"total_files"`
	MissingHash        int `json:"missing_hash" yaml:"missing_hash" csv:"missing_hash"`
	MissingFqn         int `json:"missing_fqn" yaml:"missing_fqn" csv:"missing_fqn"`
	MissingFingerprint int `json:"missing_fingerprint" yaml:"missing_fingerprint" csv:"missing_fingerprint"`
	Complete           int `json:"complete" yaml:"complete" csv:"complete"`
}

// MethodStatistics is the clone rate of one detection method at one confidence
type MethodStatistics struct {
	Method      DetectionMethod `json:"method" yaml:"method" csv:"method"`
	Total       int             `json:"total" yaml:"total" csv:"total"`
	Unique      int             `json:"unique" yaml:"unique" csv:"unique"`
	Duplicated  int             `json:"duplicated" yaml:"duplicated" csv:"duplicated"`
	CloningRate float64         `json:"cloning_rate" yaml:"cloning_rate" csv:"cloning_rate"`
}

// ConfidenceStatistics groups the method statistics of one confidence level
type ConfidenceStatistics struct {
	Confidence Confidence         `json:"confidence" yaml:"confidence"`
	Methods    []MethodStatistics `json:"methods" yaml:"methods"`
}

// ProjectCloneRow counts the unique files of one project per method
type ProjectCloneRow struct {
	Confidence        Confidence `json:"confidence" yaml:"confidence" csv:"confidence"`
	Project           string     `json:"project" yaml:"project" csv:"project"`
	Size              int        `json:"size" yaml:"size" csv:"size"`
	HashUnique        int        `json:"hash_unique" yaml:"hash_unique" csv:"hash_unique"`
	FqnUnique         int        `json:"fqn_unique" yaml:"fqn_unique" csv:"fqn_unique"`
	FingerprintUnique int        `json:"fingerprint_unique" yaml:"fingerprint_unique" csv:"fingerprint_unique"`
	CombinedUnique    int        `json:"combined_unique" yaml:"combined_unique" csv:"combined_unique"`
	DirUnique         int        `json:"dir_unique" yaml:"dir_unique" csv:"dir_unique"`
}

// ProjectMatchingStatistics summarises how many files each project shares with others
type ProjectMatchingStatistics struct {
	Confidence         Confidence      `json:"confidence" yaml:"confidence" csv:"confidence"`
	Method             DetectionMethod `json:"method" yaml:"method" csv:"method"`
	ProjectsWithClones int             `json:"projects_with_clones" yaml:"projects_with_clones" csv:"projects_with_clones"`
	MeanClonedFiles    float64         `json:"mean_cloned_files" yaml:"mean_cloned_files" csv:"mean_cloned_files"`
	StdDevClonedFiles  float64         `json:"stddev_cloned_files" yaml:"stddev_cloned_files" csv:"stddev_cloned_files"`
	UnweightedPercent  float64         `json:"unweighted_percent" yaml:"unweighted_percent" csv:"unweighted_percent"`
	WeightedPercent    float64         `json:"weighted_percent" yaml:"weighted_percent" csv:"weighted_percent"`
	MeanFilesPerPair   float64         `json:"mean_files_per_pair" yaml:"mean_files_per_pair" csv:"mean_files_per_pair"`
	MaxFilesPerPair    int             `json:"max_files_per_pair" yaml:"max_files_per_pair" csv:"max_files_per_pair"`
}

// ProjectRanking is one row of the most-cloning projects table
type ProjectRanking struct {
	Project        string  `json:"project" yaml:"project" csv:"project"`
	Size           int     `json:"size" yaml:"size" csv:"size"`
	MatchedProject string  `json:"matched_project" yaml:"matched_project" csv:"matched_project"`
	ClonedFiles    int     `json:"cloned_files" yaml:"cloned_files" csv:"cloned_files"`
	Percent        float64 `json:"percent" yaml:"percent" csv:"percent"`
}

// FilePair is a pair of files matched with HIGH confidence
type FilePair struct {
	Method    DetectionMethod `json:"method" yaml:"method" csv:"method"`
	Source    string          `json:"source" yaml:"source" csv:"source"`
	Target    string          `json:"target" yaml:"target" csv:"target"`
	HashMatch bool            `json:"hash_match" yaml:"hash_match" csv:"hash_match"`
}

// CloningStatsResponse is the full result of a cloning statistics run
type CloningStatsResponse struct {
	FileSets            *FileSetComparison          `json:"file_sets,omitempty" yaml:"file_sets,omitempty"`
	Statistics          []ConfidenceStatistics      `json:"statistics" yaml:"statistics"`
	Projects            []ProjectCloneRow           `json:"projects" yaml:"projects"`
	DirMissing          int                         `json:"dir_missing" yaml:"dir_missing"`
	CombinedUnique      map[string]int              `json:"combined_unique" yaml:"combined_unique"`
	ProjectMatching     []ProjectMatchingStatistics `json:"project_matching,omitempty" yaml:"project_matching,omitempty"`
	MostCloning         []ProjectRanking            `json:"most_cloning,omitempty" yaml:"most_cloning,omitempty"`
	HighConfidencePairs []FilePair                  `json:"high_confidence_pairs,omitempty" yaml:"high_confidence_pairs,omitempty"`

	ProjectCount int    `json:"project_count" yaml:"project_count"`
	FileCount    int    `json:"file_count" yaml:"file_count"`
	GeneratedAt  string `json:"generated_at" yaml:"generated_at"`
	Version      string `json:"version" yaml:"version"`
}

// CloningService computes cloning statistics from flat listings
type CloningService interface {
	ComputeStatistics(ctx context.Context, req *CloningStatsRequest) (*CloningStatsResponse, error)
}

// CloningOutputFormatter renders cloning statistics
type CloningOutputFormatter interface {
	Format(response *CloningStatsResponse, format OutputFormat, writer io.Writer) error
}

// DirCompareRequest describes one directory clustering run
type DirCompareRequest struct {
	DirListing       string   `json:"dir_listing"`
	OutputPath       string   `json:"output_path"`
	MinimumMatchSize int      `json:"minimum_match_size"`
	MinimumPercent   float64  `json:"minimum_percent"`
	PopularDiscard   int      `json:"popular_discard"`
	IncludeProjects  []string `json:"include_projects"`
	ExcludeProjects  []string `json:"exclude_projects"`

	ConfigPath string `json:"config_path"`
}

// Validate checks that the request can be executed
func (req *DirCompareRequest) Validate() error {
	if req.DirListing == "" {
		return NewValidationError("directory listing is required")
	}
	if req.OutputPath == "" {
		return NewValidationError("output path is required")
	}
	if req.MinimumMatchSize < 1 {
		return NewValidationError("minimum_match_size must be >= 1")
	}
	if req.MinimumPercent < 0 || req.MinimumPercent > 1 {
		return NewValidationError("minimum_percent must be between 0.0 and 1.0")
	}
	if req.PopularDiscard < 1 {
		return NewValidationError("popular_discard must be >= 1")
	}
	return nil
}

// DirCompareResponse summarises a directory clustering run
type DirCompareResponse struct {
	Directories   int    `json:"directories" yaml:"directories"`
	PopularNames  int    `json:"popular_names" yaml:"popular_names"`
	MatchingPairs int    `json:"matching_pairs" yaml:"matching_pairs"`
	MatchedFiles  int    `json:"matched_files" yaml:"matched_files"`
	OutputPath    string `json:"output_path" yaml:"output_path"`
}

// DirectoryService runs directory clustering
type DirectoryService interface {
	Compare(ctx context.Context, req *DirCompareRequest) (*DirCompareResponse, error)
}

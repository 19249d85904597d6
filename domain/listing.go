package domain

import "context"

// Listing file names written by the generator
const (
	HashListingFile        = "hash-listing.txt"
	FqnListingFile         = "fqn-listing.txt"
	FingerprintListingFile = "fingerprint-listing.txt"
	DirListingFile         = "dir-listing.txt"
)

// ListingGenerateRequest extracts flat listings from a directory of Java projects.
// Every immediate subdirectory of RepoDir is one project.
type ListingGenerateRequest struct {
	RepoDir         string   `json:"repo_dir"`
	OutputDir       string   `json:"output_dir"`
	ExcludePatterns []string `json:"exclude_patterns"`
	IncludeProjects []string `json:"include_projects"`
	ExcludeProjects []string `json:"exclude_projects"`
}

// Validate checks that the request can be executed
func (req *ListingGenerateRequest) Validate() error {
	if req.RepoDir == "" {
		return NewValidationError("repository directory is required")
	}
	if req.OutputDir == "" {
		return NewValidationError("output directory is required")
	}
	return nil
}

// ListingGenerateResponse reports what was written
type ListingGenerateResponse struct {
	Projects           int    `json:"projects" yaml:"projects"`
	Files              int    `json:"files" yaml:"files"`
	ParseErrors        int    `json:"parse_errors" yaml:"parse_errors"`
	HashListing        string `json:"hash_listing" yaml:"hash_listing"`
	FqnListing         string `json:"fqn_listing" yaml:"fqn_listing"`
	FingerprintListing string `json:"fingerprint_listing" yaml:"fingerprint_listing"`
	DirListing         string `json:"dir_listing" yaml:"dir_listing"`
}

// ListingService produces flat listings from source trees
type ListingService interface {
	Generate(ctx context.Context, req *ListingGenerateRequest) (*ListingGenerateResponse, error)
}

package domain

import (
	"context"
	"io"
)

// TraversalOrder selects how a trie dump walks the nodes
type TraversalOrder string

const (
	TraversalPreOrder  TraversalOrder = "pre"
	TraversalPostOrder TraversalOrder = "post"
	TraversalLeaves    TraversalOrder = "leaves"
)

// TrieBuildRequest interns every FQN of a listing into a trie and saves it
type TrieBuildRequest struct {
	FqnListing      string   `json:"fqn_listing"`
	OutputPath      string   `json:"output_path"`
	IncludeProjects []string `json:"include_projects"`
	ExcludeProjects []string `json:"exclude_projects"`
}

// Validate checks that the request can be executed
func (req *TrieBuildRequest) Validate() error {
	if req.FqnListing == "" {
		return NewValidationError("fqn listing is required")
	}
	if req.OutputPath == "" {
		return NewValidationError("output path is required")
	}
	return nil
}

// TrieBuildResponse summarises a saved trie
type TrieBuildResponse struct {
	Fqns       int    `json:"fqns" yaml:"fqns"`
	Nodes      int    `json:"nodes" yaml:"nodes"`
	Leaves     int    `json:"leaves" yaml:"leaves"`
	Skipped    int    `json:"skipped" yaml:"skipped"`
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// TrieLookupRequest looks FQNs up in a saved trie
type TrieLookupRequest struct {
	TriePath string   `json:"trie_path"`
	Fqns     []string `json:"fqns"`
}

// Validate checks that the request can be executed
func (req *TrieLookupRequest) Validate() error {
	if req.TriePath == "" {
		return NewValidationError("trie path is required")
	}
	if len(req.Fqns) == 0 {
		return NewValidationError("at least one fqn is required")
	}
	return nil
}

// TrieLookupResult describes one looked up FQN
type TrieLookupResult struct {
	Fqn      string `json:"fqn" yaml:"fqn"`
	Found    bool   `json:"found" yaml:"found"`
	Depth    int    `json:"depth,omitempty" yaml:"depth,omitempty"`
	Children int    `json:"children,omitempty" yaml:"children,omitempty"`
	Leaves   int    `json:"leaves,omitempty" yaml:"leaves,omitempty"`
}

// TrieDumpRequest prints a saved trie in a chosen order
type TrieDumpRequest struct {
	TriePath string         `json:"trie_path"`
	Order    TraversalOrder `json:"order"`
	Writer   io.Writer      `json:"-"`
}

// Validate checks that the request can be executed
func (req *TrieDumpRequest) Validate() error {
	if req.TriePath == "" {
		return NewValidationError("trie path is required")
	}
	switch req.Order {
	case TraversalPreOrder, TraversalPostOrder, TraversalLeaves:
	default:
		return NewValidationError("order must be one of pre, post or leaves")
	}
	if req.Writer == nil {
		return NewValidationError("writer is required")
	}
	return nil
}

// TrieService builds, queries and prints FQN tries
type TrieService interface {
	Build(ctx context.Context, req *TrieBuildRequest) (*TrieBuildResponse, error)
	Lookup(ctx context.Context, req *TrieLookupRequest) ([]TrieLookupResult, error)
	Dump(ctx context.Context, req *TrieDumpRequest) (int, error)
}

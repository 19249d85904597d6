package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/sourcerer/domain"
	svc "github.com/ludo-technologies/sourcerer/service"
)

// TrieUseCase builds, queries and prints FQN tries
type TrieUseCase struct {
	service   domain.TrieService
	formatter *svc.SummaryFormatter
	output    domain.ReportWriter
}

// NewTrieUseCase creates a new trie use case
func NewTrieUseCase(service domain.TrieService) *TrieUseCase {
	return &TrieUseCase{
		service:   service,
		formatter: svc.NewSummaryFormatter(),
		output:    svc.NewFileOutputWriter(nil),
	}
}

// WithOutputWriter replaces the report writer
func (uc *TrieUseCase) WithOutputWriter(output domain.ReportWriter) *TrieUseCase {
	uc.output = output
	return uc
}

// Build saves the trie of a listing and reports its size
func (uc *TrieUseCase) Build(ctx context.Context, req domain.TrieBuildRequest, target ReportTarget) (*domain.TrieBuildResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}
	response, err := uc.service.Build(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("trie build failed: %w", err)
	}
	fields := []svc.SummaryField{
		{Label: "FQNs", Value: response.Fqns},
		{Label: "Nodes", Value: response.Nodes},
		{Label: "Leaves", Value: response.Leaves},
		{Label: "Skipped", Value: response.Skipped},
		{Label: "Output", Value: response.OutputPath},
	}
	if err := writeReport(uc.output, target, summaryReport(uc.formatter, "Trie Build", fields, response)); err != nil {
		return nil, err
	}
	return response, nil
}

// Lookup reports where each FQN sits in a saved trie
func (uc *TrieUseCase) Lookup(ctx context.Context, req domain.TrieLookupRequest, target ReportTarget) ([]domain.TrieLookupResult, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}
	results, err := uc.service.Lookup(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("trie lookup failed: %w", err)
	}
	if err := writeReport(uc.output, target, func(w io.Writer, format domain.OutputFormat) error {
		return uc.formatter.FormatTrieLookup(results, format, w)
	}); err != nil {
		return nil, err
	}
	return results, nil
}

// Dump prints the FQNs of a saved trie and returns how many were written
func (uc *TrieUseCase) Dump(ctx context.Context, req domain.TrieDumpRequest) (int, error) {
	if req.Order == "" {
		req.Order = domain.TraversalPreOrder
	}
	if err := req.Validate(); err != nil {
		return 0, domain.NewInvalidInputError("invalid request", err)
	}
	n, err := uc.service.Dump(ctx, &req)
	if err != nil {
		return n, fmt.Errorf("trie dump failed: %w", err)
	}
	return n, nil
}

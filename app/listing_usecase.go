package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/sourcerer/domain"
	svc "github.com/ludo-technologies/sourcerer/service"
)

// ListingUseCase generates flat listings from a repository of projects
type ListingUseCase struct {
	service   domain.ListingService
	formatter *svc.SummaryFormatter
	output    domain.ReportWriter
}

// NewListingUseCase creates a new listing use case
func NewListingUseCase(service domain.ListingService) *ListingUseCase {
	return &ListingUseCase{
		service:   service,
		formatter: svc.NewSummaryFormatter(),
		output:    svc.NewFileOutputWriter(nil),
	}
}

// WithOutputWriter replaces the report writer
func (uc *ListingUseCase) WithOutputWriter(output domain.ReportWriter) *ListingUseCase {
	uc.output = output
	return uc
}

// Execute writes the four listings and reports what was extracted
func (uc *ListingUseCase) Execute(ctx context.Context, req domain.ListingGenerateRequest, target ReportTarget) (*domain.ListingGenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}
	response, err := uc.service.Generate(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("listing generation failed: %w", err)
	}
	fields := []svc.SummaryField{
		{Label: "Projects", Value: response.Projects},
		{Label: "Files", Value: response.Files},
		{Label: "Parse errors", Value: response.ParseErrors},
		{Label: "Hash listing", Value: response.HashListing},
		{Label: "FQN listing", Value: response.FqnListing},
		{Label: "Fingerprint listing", Value: response.FingerprintListing},
		{Label: "Directory listing", Value: response.DirListing},
	}
	if err := writeReport(uc.output, target, summaryReport(uc.formatter, "Listing Generation", fields, response)); err != nil {
		return nil, err
	}
	return response, nil
}

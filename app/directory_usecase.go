package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/sourcerer/domain"
	svc "github.com/ludo-technologies/sourcerer/service"
)

// DirectoryUseCase orchestrates directory clustering
type DirectoryUseCase struct {
	service      domain.DirectoryService
	configLoader ConfigurationLoader
	formatter    *svc.SummaryFormatter
	output       domain.ReportWriter
}

// NewDirectoryUseCase creates a new directory use case. configLoader may be nil.
func NewDirectoryUseCase(service domain.DirectoryService, configLoader ConfigurationLoader) *DirectoryUseCase {
	return &DirectoryUseCase{
		service:      service,
		configLoader: configLoader,
		formatter:    svc.NewSummaryFormatter(),
		output:       svc.NewFileOutputWriter(nil),
	}
}

// WithOutputWriter replaces the report writer
func (uc *DirectoryUseCase) WithOutputWriter(output domain.ReportWriter) *DirectoryUseCase {
	uc.output = output
	return uc
}

// Execute writes the directory matches listing and reports a summary to target
func (uc *DirectoryUseCase) Execute(ctx context.Context, req domain.DirCompareRequest, target ReportTarget) (*domain.DirCompareResponse, error) {
	finalReq := &req
	if uc.configLoader != nil {
		cfg, err := uc.configLoader.LoadConfig(req.ConfigPath, ".")
		if err != nil {
			return nil, domain.NewConfigError("failed to load configuration", err)
		}
		finalReq = uc.configLoader.MergeDirCompareRequest(cfg, &req)
	}
	if err := finalReq.Validate(); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	response, err := uc.service.Compare(ctx, finalReq)
	if err != nil {
		return nil, fmt.Errorf("directory comparison failed: %w", err)
	}

	fields := []svc.SummaryField{
		{Label: "Directories", Value: response.Directories},
		{Label: "Popular names", Value: response.PopularNames},
		{Label: "Matching pairs", Value: response.MatchingPairs},
		{Label: "Matched files", Value: response.MatchedFiles},
		{Label: "Output", Value: response.OutputPath},
	}
	if err := writeReport(uc.output, target, summaryReport(uc.formatter, "Directory Comparison", fields, response)); err != nil {
		return nil, err
	}
	return response, nil
}

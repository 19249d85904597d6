package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/sourcerer/domain"
	svc "github.com/ludo-technologies/sourcerer/service"
)

// ClusterUseCase orchestrates cluster identification, reports and lookups
type ClusterUseCase struct {
	service   domain.ClusterService
	formatter domain.ClusterOutputFormatter
	summary   *svc.SummaryFormatter
	output    domain.ReportWriter
}

// NewClusterUseCase creates a new cluster use case
func NewClusterUseCase(service domain.ClusterService, formatter domain.ClusterOutputFormatter) *ClusterUseCase {
	return &ClusterUseCase{
		service:   service,
		formatter: formatter,
		summary:   svc.NewSummaryFormatter(),
		output:    svc.NewFileOutputWriter(nil),
	}
}

// WithOutputWriter replaces the report writer
func (uc *ClusterUseCase) WithOutputWriter(output domain.ReportWriter) *ClusterUseCase {
	uc.output = output
	return uc
}

// Identify saves the fully matching clusters of a jar listing
func (uc *ClusterUseCase) Identify(ctx context.Context, req domain.ClusterIdentifyRequest, target ReportTarget) (*domain.ClusterIdentifyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}
	response, err := uc.service.Identify(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("cluster identification failed: %w", err)
	}
	fields := []svc.SummaryField{
		{Label: "Jars", Value: response.Jars},
		{Label: "FQNs", Value: response.Fqns},
		{Label: "Clusters", Value: response.Clusters},
		{Label: "Merged", Value: response.Merged},
		{Label: "Output", Value: response.OutputPath},
	}
	if err := writeReport(uc.output, target, summaryReport(uc.summary, "Cluster Identification", fields, response)); err != nil {
		return nil, err
	}
	return response, nil
}

// Statistics writes the fragmentation report of a collection
func (uc *ClusterUseCase) Statistics(ctx context.Context, req domain.ClusterStatsRequest) error {
	if err := req.ClusterInput.Validate(); err != nil {
		return domain.NewInvalidInputError("invalid request", err)
	}
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}
	response, err := uc.service.Statistics(ctx, &req)
	if err != nil {
		return fmt.Errorf("cluster statistics failed: %w", err)
	}
	target := ReportTarget{Format: req.OutputFormat, Writer: req.OutputWriter, Path: req.OutputPath}
	return writeReport(uc.output, target, func(w io.Writer, format domain.OutputFormat) error {
		return uc.formatter.FormatStatistics(response, format, w)
	})
}

// Lookup writes the owning cluster of each requested FQN
func (uc *ClusterUseCase) Lookup(ctx context.Context, req domain.ClusterLookupRequest) ([]domain.ClusterLookupResult, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}
	results, err := uc.service.Lookup(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("cluster lookup failed: %w", err)
	}
	target := ReportTarget{Format: req.OutputFormat, Writer: req.OutputWriter}
	if err := writeReport(uc.output, target, func(w io.Writer, format domain.OutputFormat) error {
		return uc.formatter.FormatLookup(results, format, w)
	}); err != nil {
		return nil, err
	}
	return results, nil
}

// Cache stores a collection in a cache database
func (uc *ClusterUseCase) Cache(ctx context.Context, req domain.ClusterCacheRequest) error {
	if err := req.Validate(); err != nil {
		return domain.NewInvalidInputError("invalid request", err)
	}
	if err := uc.service.Cache(ctx, &req); err != nil {
		return fmt.Errorf("cluster cache failed: %w", err)
	}
	return nil
}

package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/config"
	svc "github.com/ludo-technologies/sourcerer/service"
)

// ConfigurationLoader resolves the effective configuration and folds it
// into requests, keeping explicitly set flags
type ConfigurationLoader interface {
	LoadConfig(configPath, startDir string) (*config.Config, error)
	MergeCloningRequest(cfg *config.Config, req *domain.CloningStatsRequest) *domain.CloningStatsRequest
	MergeDirCompareRequest(cfg *config.Config, req *domain.DirCompareRequest) *domain.DirCompareRequest
}

// CloningUseCase orchestrates the cloning statistics workflow
type CloningUseCase struct {
	service      domain.CloningService
	formatter    domain.CloningOutputFormatter
	configLoader ConfigurationLoader
	output       domain.ReportWriter
}

// NewCloningUseCase creates a new cloning use case. configLoader may be nil,
// in which case the request is used as given.
func NewCloningUseCase(
	service domain.CloningService,
	formatter domain.CloningOutputFormatter,
	configLoader ConfigurationLoader,
) *CloningUseCase {
	return &CloningUseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
	}
}

// Execute computes the statistics and writes the report
func (uc *CloningUseCase) Execute(ctx context.Context, req domain.CloningStatsRequest) error {
	response, finalReq, err := uc.run(ctx, req)
	if err != nil {
		return err
	}

	var out io.Writer
	if finalReq.OutputPath == "" {
		out = finalReq.OutputWriter
	}
	if err := uc.output.Write(out, finalReq.OutputPath, finalReq.OutputFormat, func(w io.Writer) error {
		return uc.formatter.Format(response, finalReq.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// AnalyzeAndReturn computes the statistics without formatting them
func (uc *CloningUseCase) AnalyzeAndReturn(ctx context.Context, req domain.CloningStatsRequest) (*domain.CloningStatsResponse, error) {
	response, _, err := uc.run(ctx, req)
	return response, err
}

func (uc *CloningUseCase) run(ctx context.Context, req domain.CloningStatsRequest) (*domain.CloningStatsResponse, *domain.CloningStatsRequest, error) {
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, nil, domain.NewConfigError("failed to load configuration", err)
	}
	if finalReq.OutputFormat == "" {
		finalReq.OutputFormat = domain.OutputFormatText
	}
	if err := finalReq.Validate(); err != nil {
		return nil, nil, domain.NewInvalidInputError("invalid request", err)
	}

	response, err := uc.service.ComputeStatistics(ctx, finalReq)
	if err != nil {
		return nil, nil, fmt.Errorf("cloning statistics failed: %w", err)
	}
	return response, finalReq, nil
}

func (uc *CloningUseCase) loadAndMergeConfig(req domain.CloningStatsRequest) (*domain.CloningStatsRequest, error) {
	if uc.configLoader == nil {
		return &req, nil
	}
	cfg, err := uc.configLoader.LoadConfig(req.ConfigPath, ".")
	if err != nil {
		return nil, err
	}
	merged := uc.configLoader.MergeCloningRequest(cfg, &req)
	if merged.OutputPath == "" && merged.OutputWriter == nil {
		merged.OutputPath = ResolveReportPath(reportDirectory(cfg), "cloning", merged.OutputFormat, time.Now())
	}
	return merged, nil
}

// reportDirectory is where reports without an explicit destination go
func reportDirectory(cfg *config.Config) string {
	if cfg.Output.Directory != "" {
		return cfg.Output.Directory
	}
	return config.DefaultReportDirectory
}

// CloningUseCaseBuilder provides a builder pattern for creating CloningUseCase
type CloningUseCaseBuilder struct {
	service      domain.CloningService
	formatter    domain.CloningOutputFormatter
	configLoader ConfigurationLoader
	output       domain.ReportWriter
}

// NewCloningUseCaseBuilder creates a new builder
func NewCloningUseCaseBuilder() *CloningUseCaseBuilder {
	return &CloningUseCaseBuilder{}
}

// WithService sets the cloning service
func (b *CloningUseCaseBuilder) WithService(service domain.CloningService) *CloningUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *CloningUseCaseBuilder) WithFormatter(formatter domain.CloningOutputFormatter) *CloningUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *CloningUseCaseBuilder) WithConfigLoader(configLoader ConfigurationLoader) *CloningUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *CloningUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *CloningUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the CloningUseCase with the configured dependencies
func (b *CloningUseCaseBuilder) Build() (*CloningUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("cloning service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	uc := NewCloningUseCase(b.service, b.formatter, b.configLoader)
	if b.output != nil {
		uc.output = b.output
	}
	return uc, nil
}

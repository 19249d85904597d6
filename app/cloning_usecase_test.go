package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/config"
)

// Mock implementations
type mockCloningService struct {
	mock.Mock
}

func (m *mockCloningService) ComputeStatistics(ctx context.Context, req *domain.CloningStatsRequest) (*domain.CloningStatsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CloningStatsResponse), args.Error(1)
}

type mockCloningFormatter struct {
	mock.Mock
}

func (m *mockCloningFormatter) Format(response *domain.CloningStatsResponse, format domain.OutputFormat, writer io.Writer) error {
	args := m.Called(response, format, writer)
	if args.Error(0) == nil {
		_, _ = io.WriteString(writer, "report")
	}
	return args.Error(0)
}

type mockConfigurationLoader struct {
	mock.Mock
}

func (m *mockConfigurationLoader) LoadConfig(configPath, startDir string) (*config.Config, error) {
	args := m.Called(configPath, startDir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Config), args.Error(1)
}

func (m *mockConfigurationLoader) MergeCloningRequest(cfg *config.Config, req *domain.CloningStatsRequest) *domain.CloningStatsRequest {
	args := m.Called(cfg, req)
	return args.Get(0).(*domain.CloningStatsRequest)
}

func (m *mockConfigurationLoader) MergeDirCompareRequest(cfg *config.Config, req *domain.DirCompareRequest) *domain.DirCompareRequest {
	args := m.Called(cfg, req)
	return args.Get(0).(*domain.DirCompareRequest)
}

// Helper functions
func createValidCloningRequest(w io.Writer) domain.CloningStatsRequest {
	req := domain.CloningStatsRequest{
		HashListing:        "hash-listing.txt",
		FqnListing:         "fqn-listing.txt",
		FingerprintListing: "fingerprint-listing.txt",
		OutputWriter:       w,
	}
	config.DefaultConfig().ApplyToCloningRequest(&req)
	return req
}

func TestCloningUseCase_Execute(t *testing.T) {
	t.Run("writes the formatted report", func(t *testing.T) {
		service := &mockCloningService{}
		formatter := &mockCloningFormatter{}
		var buf bytes.Buffer
		req := createValidCloningRequest(&buf)
		response := &domain.CloningStatsResponse{ProjectCount: 2}

		service.On("ComputeStatistics", mock.Anything, mock.MatchedBy(func(r *domain.CloningStatsRequest) bool {
			return r.OutputFormat == domain.OutputFormatText
		})).Return(response, nil)
		formatter.On("Format", response, domain.OutputFormatText, &buf).Return(nil)

		uc := NewCloningUseCase(service, formatter, nil)
		require.NoError(t, uc.Execute(context.Background(), req))
		assert.Equal(t, "report", buf.String())
		service.AssertExpectations(t)
		formatter.AssertExpectations(t)
	})

	t.Run("invalid request", func(t *testing.T) {
		service := &mockCloningService{}
		req := createValidCloningRequest(io.Discard)
		req.FqnListing = ""

		err := NewCloningUseCase(service, &mockCloningFormatter{}, nil).Execute(context.Background(), req)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
		service.AssertNotCalled(t, "ComputeStatistics", mock.Anything, mock.Anything)
	})

	t.Run("service error", func(t *testing.T) {
		service := &mockCloningService{}
		service.On("ComputeStatistics", mock.Anything, mock.Anything).
			Return(nil, domain.NewFileNotFoundError("fqn-listing.txt", errors.New("missing")))

		err := NewCloningUseCase(service, &mockCloningFormatter{}, nil).
			Execute(context.Background(), createValidCloningRequest(io.Discard))
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.ErrCodeFileNotFound))
		assert.True(t, strings.HasPrefix(err.Error(), "cloning statistics failed"))
	})

	t.Run("formatter error", func(t *testing.T) {
		service := &mockCloningService{}
		formatter := &mockCloningFormatter{}
		service.On("ComputeStatistics", mock.Anything, mock.Anything).Return(&domain.CloningStatsResponse{}, nil)
		formatter.On("Format", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("boom"))

		err := NewCloningUseCase(service, formatter, nil).
			Execute(context.Background(), createValidCloningRequest(io.Discard))
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.ErrCodeOutputError))
	})
}

func TestCloningUseCase_ConfigMerge(t *testing.T) {
	service := &mockCloningService{}
	formatter := &mockCloningFormatter{}
	loader := &mockConfigurationLoader{}

	cfg := config.DefaultConfig()
	cfg.Output.Directory = t.TempDir()
	req := createValidCloningRequest(nil)
	req.ConfigPath = "custom.toml"
	merged := req
	merged.OutputFormat = domain.OutputFormatJSON

	loader.On("LoadConfig", "custom.toml", ".").Return(cfg, nil)
	loader.On("MergeCloningRequest", cfg, mock.Anything).Return(&merged)
	service.On("ComputeStatistics", mock.Anything, &merged).Return(&domain.CloningStatsResponse{}, nil)
	formatter.On("Format", mock.Anything, domain.OutputFormatJSON, mock.Anything).Return(nil)

	uc := NewCloningUseCase(service, formatter, loader)
	require.NoError(t, uc.Execute(context.Background(), req))
	assert.Equal(t, cfg.Output.Directory, filepath.Dir(merged.OutputPath), "reports without a destination go to the report directory")
	assert.True(t, strings.HasPrefix(filepath.Base(merged.OutputPath), "cloning_"))
	assert.Equal(t, ".json", filepath.Ext(merged.OutputPath))

	loader2 := &mockConfigurationLoader{}
	loader2.On("LoadConfig", "", ".").Return(nil, errors.New("bad toml"))
	_, err := NewCloningUseCase(service, formatter, loader2).AnalyzeAndReturn(context.Background(), createValidCloningRequest(io.Discard))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeConfigError))
}

func TestCloningUseCase_AnalyzeAndReturn(t *testing.T) {
	service := &mockCloningService{}
	formatter := &mockCloningFormatter{}
	response := &domain.CloningStatsResponse{FileCount: 3}
	service.On("ComputeStatistics", mock.Anything, mock.Anything).Return(response, nil)

	got, err := NewCloningUseCase(service, formatter, nil).AnalyzeAndReturn(context.Background(), createValidCloningRequest(nil))
	require.NoError(t, err)
	assert.Same(t, response, got)
	formatter.AssertNotCalled(t, "Format", mock.Anything, mock.Anything, mock.Anything)
}

func TestCloningUseCaseBuilder(t *testing.T) {
	_, err := NewCloningUseCaseBuilder().Build()
	assert.Error(t, err)

	_, err = NewCloningUseCaseBuilder().WithService(&mockCloningService{}).Build()
	assert.Error(t, err)

	writer := &recordingWriter{}
	uc, err := NewCloningUseCaseBuilder().
		WithService(&mockCloningService{}).
		WithFormatter(&mockCloningFormatter{}).
		WithConfigLoader(&mockConfigurationLoader{}).
		WithOutputWriter(writer).
		Build()
	require.NoError(t, err)
	assert.Same(t, writer, uc.output)
}

// recordingWriter is a domain.ReportWriter that keeps what was written
type recordingWriter struct {
	path   string
	format domain.OutputFormat
	buf    bytes.Buffer
}

func (r *recordingWriter) Write(_ io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	r.path = outputPath
	r.format = format
	return writeFunc(&r.buf)
}

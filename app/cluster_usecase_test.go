package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
	svc "github.com/ludo-technologies/sourcerer/service"
)

type mockClusterService struct {
	mock.Mock
}

func (m *mockClusterService) Identify(ctx context.Context, req *domain.ClusterIdentifyRequest) (*domain.ClusterIdentifyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClusterIdentifyResponse), args.Error(1)
}

func (m *mockClusterService) Statistics(ctx context.Context, req *domain.ClusterStatsRequest) (*domain.ClusterStatsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClusterStatsResponse), args.Error(1)
}

func (m *mockClusterService) Lookup(ctx context.Context, req *domain.ClusterLookupRequest) ([]domain.ClusterLookupResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClusterLookupResult), args.Error(1)
}

func (m *mockClusterService) Cache(ctx context.Context, req *domain.ClusterCacheRequest) error {
	return m.Called(ctx, req).Error(0)
}

var testClusterInput = domain.ClusterInput{JarListing: "jars.txt", ClusterFile: "clusters.txt"}

func TestClusterUseCase_Identify(t *testing.T) {
	service := &mockClusterService{}
	service.On("Identify", mock.Anything, mock.Anything).
		Return(&domain.ClusterIdentifyResponse{Jars: 2, Fqns: 3, Clusters: 2, OutputPath: "clusters.txt"}, nil)

	var buf bytes.Buffer
	uc := NewClusterUseCase(service, svc.NewClusterOutputFormatter())
	resp, err := uc.Identify(context.Background(),
		domain.ClusterIdentifyRequest{JarListing: "jars.txt", OutputPath: "clusters.txt"},
		ReportTarget{Writer: &buf})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Clusters)
	assert.Contains(t, buf.String(), "Cluster Identification")
	assert.Contains(t, buf.String(), "Clusters: 2")

	_, err = uc.Identify(context.Background(), domain.ClusterIdentifyRequest{JarListing: "jars.txt"}, ReportTarget{})
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
}

func TestClusterUseCase_Statistics(t *testing.T) {
	service := &mockClusterService{}
	report := &domain.ClusterReport{JarCount: 2, ClusterCount: 2}
	service.On("Statistics", mock.Anything, mock.MatchedBy(func(r *domain.ClusterStatsRequest) bool {
		return r.OutputFormat == domain.OutputFormatJSON
	})).Return(&domain.ClusterStatsResponse{Report: report, Log: "log"}, nil)

	var buf bytes.Buffer
	err := NewClusterUseCase(service, svc.NewClusterOutputFormatter()).Statistics(context.Background(), domain.ClusterStatsRequest{
		ClusterInput: testClusterInput,
		OutputFormat: domain.OutputFormatJSON,
		OutputWriter: &buf,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"cluster_count": 2`)

	err = NewClusterUseCase(service, svc.NewClusterOutputFormatter()).Statistics(context.Background(), domain.ClusterStatsRequest{})
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
}

func TestClusterUseCase_Lookup(t *testing.T) {
	service := &mockClusterService{}
	results := []domain.ClusterLookupResult{
		{Fqn: "org.a.X", Found: true, Cluster: 1, Core: true, Jars: []domain.JarRef{{Hash: "h2", Name: "app"}}, CoreFqns: 2},
	}
	service.On("Lookup", mock.Anything, mock.Anything).Return(results, nil)

	writer := &recordingWriter{}
	uc := NewClusterUseCase(service, svc.NewClusterOutputFormatter()).WithOutputWriter(writer)
	got, err := uc.Lookup(context.Background(), domain.ClusterLookupRequest{
		CachePath:    "clusters.db",
		Fqns:         []string{"org.a.X"},
		OutputFormat: domain.OutputFormatCSV,
		OutputWriter: io.Discard,
	})
	require.NoError(t, err)
	assert.Equal(t, results, got)
	assert.Equal(t, domain.OutputFormatCSV, writer.format)
	assert.Equal(t, "fqn,cluster,part,core_fqns,extra_fqns,jars\norg.a.X,1,core,2,0,app\n", writer.buf.String())

	_, err = uc.Lookup(context.Background(), domain.ClusterLookupRequest{CachePath: "clusters.db"})
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
}

func TestClusterUseCase_Cache(t *testing.T) {
	service := &mockClusterService{}
	service.On("Cache", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	uc := NewClusterUseCase(service, svc.NewClusterOutputFormatter())
	err := uc.Cache(context.Background(), domain.ClusterCacheRequest{ClusterInput: testClusterInput, CachePath: "c.db"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	err = uc.Cache(context.Background(), domain.ClusterCacheRequest{ClusterInput: testClusterInput})
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
	service.AssertNumberOfCalls(t, "Cache", 1)
}

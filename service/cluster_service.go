package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/cluster"
	"github.com/ludo-technologies/sourcerer/internal/listing"
	"github.com/ludo-technologies/sourcerer/internal/store"
)

// ClusterService implements domain.ClusterService
type ClusterService struct {
	log      logrus.FieldLogger
	progress domain.ProgressManager
}

// NewClusterService creates a cluster service. Both arguments may be nil.
func NewClusterService(log logrus.FieldLogger, progress domain.ProgressManager) *ClusterService {
	return &ClusterService{log: orQuiet(log), progress: progress}
}

// Identify finds the fully matching clusters of a jar listing and saves them
func (s *ClusterService) Identify(ctx context.Context, req *domain.ClusterIdentifyRequest) (*domain.ClusterIdentifyResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("identify request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid identify request: %w", err)
	}

	jars, err := s.loadJars(ctx, req.JarListing)
	if err != nil {
		return nil, err
	}
	clusters, err := cluster.IdentifyFullyMatchingClusters(ctx, jars, s.log)
	if err != nil {
		return nil, err
	}
	resp := &domain.ClusterIdentifyResponse{
		Jars:       jars.Len(),
		Fqns:       jars.Stats().Fqns,
		OutputPath: req.OutputPath,
	}
	if req.MergeSubsets {
		before := clusters.Len()
		if clusters, err = cluster.MergeSubsetClusters(ctx, clusters, s.log); err != nil {
			return nil, err
		}
		resp.Merged = before - clusters.Len()
	}
	resp.Clusters = clusters.Len()

	if err := saveFile(req.OutputPath, "clusters", clusters.Save); err != nil {
		return nil, err
	}
	return resp, nil
}

// Statistics loads a collection and renders its fragmentation report
func (s *ClusterService) Statistics(ctx context.Context, req *domain.ClusterStatsRequest) (*domain.ClusterStatsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("statistics request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid statistics request: %w", err)
	}

	_, clusters, err := s.loadCollection(ctx, req.ClusterInput)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := clusters.PrintStatistics(&buf); err != nil {
		return nil, domain.NewOutputError("failed to render cluster statistics", err)
	}
	return &domain.ClusterStatsResponse{Report: clusters.Report(), Log: buf.String()}, nil
}

// Lookup reports the owning cluster of each FQN, reading from the cache
// when one is given
func (s *ClusterService) Lookup(ctx context.Context, req *domain.ClusterLookupRequest) ([]domain.ClusterLookupResult, error) {
	if req == nil {
		return nil, fmt.Errorf("lookup request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lookup request: %w", err)
	}

	var (
		clusters *cluster.Collection
		err      error
	)
	if req.CachePath != "" {
		_, clusters, err = s.loadCache(ctx, req.CachePath)
	} else {
		_, clusters, err = s.loadCollection(ctx, req.ClusterInput)
	}
	if err != nil {
		return nil, err
	}
	m, err := s.matcher(clusters)
	if err != nil {
		return nil, err
	}
	return LookupClusters(m, req.Fqns), nil
}

// LookupClusters resolves each FQN through m
func LookupClusters(m *cluster.Matcher, fqns []string) []domain.ClusterLookupResult {
	results := make([]domain.ClusterLookupResult, 0, len(fqns))
	for _, name := range fqns {
		res := domain.ClusterLookupResult{Fqn: name}
		if cl := m.Cluster(name); cl != nil {
			sum := cl.Summary()
			res.Found = true
			res.Cluster = sum.Index
			res.Core = inCore(cl, name)
			res.Jars = sum.Jars
			res.CoreFqns = sum.CoreFqns
			res.ExtraFqns = sum.ExtraFqns
		}
		results = append(results, res)
	}
	return results
}

func inCore(cl *cluster.Cluster, name string) bool {
	for _, n := range cl.Core() {
		if n.Fqn() == name {
			return true
		}
	}
	return false
}

// Cache stores a jar listing and its clusters in a bbolt database
func (s *ClusterService) Cache(ctx context.Context, req *domain.ClusterCacheRequest) error {
	if req == nil {
		return fmt.Errorf("cache request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid cache request: %w", err)
	}
	jars, clusters, err := s.loadCollection(ctx, req.ClusterInput)
	if err != nil {
		return err
	}

	db := store.New(req.CachePath)
	if err := db.Open(); err != nil {
		return domain.NewOutputError("failed to open cache", err)
	}
	defer db.Close()
	if err := db.SaveClusters(jars, clusters); err != nil {
		return domain.NewOutputError("failed to write cache", err)
	}
	s.log.Infof("Cached %d jars and %d clusters in %s", jars.Len(), clusters.Len(), req.CachePath)
	return nil
}

// LoadCache reads the collection cached at path
func (s *ClusterService) LoadCache(ctx context.Context, path string) (*cluster.JarCollection, *cluster.Collection, error) {
	return s.loadCache(ctx, path)
}

func (s *ClusterService) loadCache(ctx context.Context, path string) (*cluster.JarCollection, *cluster.Collection, error) {
	db := store.New(path)
	if err := db.Open(); err != nil {
		return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("cannot open cache %s", path), err)
	}
	defer db.Close()
	jars, clusters, err := db.LoadClusters(ctx, listing.Options{Logger: s.log})
	if errors.Is(err, store.ErrNotCached) {
		return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("cache %s is empty", path), err)
	}
	return jars, clusters, err
}

func (s *ClusterService) loadJars(ctx context.Context, path string) (*cluster.JarCollection, error) {
	f, size, err := openListing(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	jars, _, err := cluster.LoadJarCollection(ctx, f, listing.Options{
		Source:   path,
		Logger:   s.log,
		Progress: byteProgress(s.progress, path, size),
	})
	if s.progress != nil {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return jars, nil
}

func (s *ClusterService) loadCollection(ctx context.Context, in domain.ClusterInput) (*cluster.JarCollection, *cluster.Collection, error) {
	jars, err := s.loadJars(ctx, in.JarListing)
	if err != nil {
		return nil, nil, err
	}
	f, _, err := openListing(in.ClusterFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	s.log.Info("Loading cluster collection...")
	clusters, err := cluster.LoadCollection(ctx, f, jars, listing.Options{Source: in.ClusterFile, Logger: s.log})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", in.ClusterFile, err)
	}
	s.log.Infof("  %d clusters loaded", clusters.Len())
	return jars, clusters, nil
}

// matcher builds the FQN index. Duplicate ownership is logged and the first
// owner kept; any other error is returned.
func (s *ClusterService) matcher(clusters *cluster.Collection) (*cluster.Matcher, error) {
	m, err := cluster.NewMatcher(clusters)
	if err != nil {
		if !domain.HasCode(err, domain.ErrCodeConsistency) {
			return nil, err
		}
		s.log.Warnf("Cluster collection is inconsistent: %v", err)
	}
	return m, nil
}

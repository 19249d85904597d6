package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/cloning"
	"github.com/ludo-technologies/sourcerer/internal/listing"
	"github.com/ludo-technologies/sourcerer/internal/version"
)

// MostCloningLimit caps the most-cloning ranking
const MostCloningLimit = 20

// CloningService implements domain.CloningService
type CloningService struct {
	log      logrus.FieldLogger
	progress domain.ProgressManager
	executor *ParallelExecutor
}

// NewCloningService creates a cloning service. Both arguments may be nil.
func NewCloningService(log logrus.FieldLogger, progress domain.ProgressManager) *CloningService {
	return &CloningService{log: orQuiet(log), progress: progress, executor: NewParallelExecutor()}
}

// ComputeStatistics loads the listings, matches every file against every
// other project and reports cloning statistics
func (s *CloningService) ComputeStatistics(ctx context.Context, req *domain.CloningStatsRequest) (*domain.CloningStatsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("cloning request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cloning request: %w", err)
	}
	filter, err := listing.NewProjectFilter(req.IncludeProjects, req.ExcludeProjects)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid project filter", err)
	}

	factory := cloning.NewKeyFactory(cloning.Options{
		MinimumFqnDots:         req.MinimumFqnDots,
		PopularNameLimit:       req.PopularNameLimit,
		MinimumFingerprintSize: req.MinimumFingerprintSize,
		MinimumJaccardIndex:    req.MinimumJaccardIndex,
		RequireNameMatch:       req.RequireNameMatch,
		Logger:                 s.log,
	})
	pm := cloning.NewProjectMap(factory)

	loaders := []struct {
		path string
		load func(context.Context, io.Reader, *cloning.ProjectMap, listing.Options) (listing.Stats, error)
	}{
		{req.HashListing, cloning.LoadHashListing},
		{req.FqnListing, cloning.LoadFqnListing},
		{req.FingerprintListing, cloning.LoadFingerprintListing},
	}
	for _, l := range loaders {
		if err := s.load(ctx, l.path, filter, func(r io.Reader, opts listing.Options) error {
			_, err := l.load(ctx, r, pm, opts)
			return err
		}); err != nil {
			return nil, err
		}
	}

	resp := &domain.CloningStatsResponse{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}
	if req.CompareFileSets {
		cmp := cloning.CompareFileSets(pm)
		resp.FileSets = &cmp
	}

	removed := pm.FilterFiles()
	s.log.Infof("Filtered %d files missing a hash, fqn or fingerprint", removed)
	factory.Seal()

	if req.DirMatchesListing != "" {
		if err := s.load(ctx, req.DirMatchesListing, filter, func(r io.Reader, opts listing.Options) error {
			_, err := cloning.LoadDirMatching(ctx, r, pm, opts)
			return err
		}); err != nil {
			return nil, err
		}
	}

	first, err := cloning.NewProjectMatchSet(ctx, pm)
	if err != nil {
		return nil, err
	}
	combined, err := cloning.ComputeCombinedKeys(ctx, pm, first)
	if err != nil {
		return nil, err
	}
	matches, err := cloning.NewProjectMatchSet(ctx, pm)
	if err != nil {
		return nil, err
	}

	resp.CombinedUnique = make(map[string]int, len(domain.Confidences))
	for _, c := range domain.Confidences {
		resp.CombinedUnique[c.String()] = combined.Unique(c)
	}
	resp.ProjectCount = len(pm.Projects())
	resp.FileCount = pm.FileCount()

	// keys and matches are read-only from here on
	var (
		stats   cloning.CloningStatistics
		pmStats cloning.ProjectMatching
		pairs   []domain.FilePair
	)
	err = s.executor.Execute(ctx,
		Task{Name: "cloning statistics", Enabled: true, Run: func(ctx context.Context) (err error) {
			stats, err = cloning.ComputeCloningStatistics(ctx, pm)
			return err
		}},
		Task{Name: "project matching", Enabled: req.ProjectMatching, Run: func(ctx context.Context) (err error) {
			pmStats, err = cloning.ComputeProjectMatching(ctx, pm, matches, MostCloningLimit)
			return err
		}},
		Task{Name: "high confidence pairs", Enabled: req.HighConfidencePairs, Run: func(context.Context) error {
			pairs = cloning.HighConfidencePairs(pm, matches)
			return nil
		}},
	)
	if err != nil {
		return nil, err
	}
	resp.Statistics = stats.Levels
	resp.Projects = stats.Projects
	resp.DirMissing = stats.DirMissing
	resp.ProjectMatching = pmStats.Statistics
	resp.MostCloning = pmStats.MostCloning
	resp.HighConfidencePairs = pairs
	return resp, nil
}

// load opens one listing and hands it to read with progress and filtering set up
func (s *CloningService) load(ctx context.Context, path string, filter *listing.ProjectFilter, read func(io.Reader, listing.Options) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, size, err := openListing(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := listing.Options{
		Source:   path,
		Logger:   s.log,
		Filter:   filter,
		Progress: byteProgress(s.progress, path, size),
	}
	err = read(f, opts)
	if s.progress != nil {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

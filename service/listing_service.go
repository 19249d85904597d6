package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/javasrc"
	"github.com/ludo-technologies/sourcerer/internal/listing"
)

// ListingService implements domain.ListingService
type ListingService struct {
	log      logrus.FieldLogger
	progress domain.ProgressManager
}

// NewListingService creates a listing generation service. Both arguments may be nil.
func NewListingService(log logrus.FieldLogger, progress domain.ProgressManager) *ListingService {
	return &ListingService{log: orQuiet(log), progress: progress}
}

// Generate parses every Java file under RepoDir and writes the hash, fqn,
// fingerprint and directory listings into OutputDir
func (s *ListingService) Generate(ctx context.Context, req *domain.ListingGenerateRequest) (*domain.ListingGenerateResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("listing request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid listing request: %w", err)
	}
	info, err := os.Stat(req.RepoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewFileNotFoundError(req.RepoDir, err)
		}
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot access %s", req.RepoDir), err)
	}
	if !info.IsDir() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("%s is not a directory", req.RepoDir), nil)
	}
	filter, err := listing.NewProjectFilter(req.IncludeProjects, req.ExcludeProjects)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid project filter", err)
	}

	resp := &domain.ListingGenerateResponse{
		HashListing:        filepath.Join(req.OutputDir, domain.HashListingFile),
		FqnListing:         filepath.Join(req.OutputDir, domain.FqnListingFile),
		FingerprintListing: filepath.Join(req.OutputDir, domain.FingerprintListingFile),
		DirListing:         filepath.Join(req.OutputDir, domain.DirListingFile),
	}
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	open := func(path string) (*os.File, error) {
		f, err := createFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		return f, nil
	}

	var out javasrc.Listings
	if out.Hash, err = open(resp.HashListing); err != nil {
		return nil, err
	}
	if out.Fqn, err = open(resp.FqnListing); err != nil {
		return nil, err
	}
	if out.Fingerprint, err = open(resp.FingerprintListing); err != nil {
		return nil, err
	}
	if out.Dir, err = open(resp.DirListing); err != nil {
		return nil, err
	}

	walker := &javasrc.Walker{Root: req.RepoDir, Exclude: req.ExcludePatterns, Filter: filter}
	gen := javasrc.NewGenerator(walker, s.log)
	if s.progress != nil {
		started := false
		gen.Progress = func(project string, done, total int) {
			if !started {
				s.progress.Initialize(total)
				s.progress.Start()
				started = true
			}
			s.progress.Describe(project)
			s.progress.Update(done, total)
		}
	}

	sum, err := gen.Generate(ctx, out)
	if s.progress != nil {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := f.Sync(); err != nil {
			return nil, domain.NewOutputError("failed to write listings", err)
		}
	}

	resp.Projects = sum.Projects
	resp.Files = sum.Files
	resp.ParseErrors = sum.SyntaxErrors
	return resp, nil
}

package service

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/cloning"
	"github.com/ludo-technologies/sourcerer/internal/constants"
	"github.com/ludo-technologies/sourcerer/internal/listing"
)

// DirectoryService implements domain.DirectoryService
type DirectoryService struct {
	log      logrus.FieldLogger
	progress domain.ProgressManager
}

// NewDirectoryService creates a directory clustering service. Both arguments may be nil.
func NewDirectoryService(log logrus.FieldLogger, progress domain.ProgressManager) *DirectoryService {
	return &DirectoryService{log: orQuiet(log), progress: progress}
}

// Compare clusters the directories of a listing and writes the matched-files
// listing. Only directories with at least one matched file are written.
func (s *DirectoryService) Compare(ctx context.Context, req *domain.DirCompareRequest) (*domain.DirCompareResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("directory request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid directory request: %w", err)
	}
	filter, err := listing.NewProjectFilter(req.IncludeProjects, req.ExcludeProjects)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid project filter", err)
	}

	in, size, err := openListing(req.DirListing)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	s.log.Info("Loading directory listing...")
	dirs, _, err := cloning.LoadDirectories(ctx, in, listing.Options{
		Source:   req.DirListing,
		Logger:   s.log,
		Filter:   filter,
		Progress: byteProgress(s.progress, req.DirListing, size),
	})
	if s.progress != nil {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", req.DirListing, err)
	}
	s.log.Infof("  %d directories loaded", len(dirs))

	opts := cloning.DirOptions{
		MinimumMatchSize: req.MinimumMatchSize,
		MinimumPercent:   req.MinimumPercent,
		HighPercent:      constants.DefaultHighMatchPercent,
		MediumPercent:    constants.DefaultMediumMatchPercent,
		PopularDiscard:   req.PopularDiscard,
	}

	var progress func(int)
	if s.progress != nil {
		s.progress.Initialize(len(dirs))
		s.progress.Describe("Comparing directories")
		s.progress.Start()
		progress = func(done int) { s.progress.Update(done, len(dirs)) }
	}
	s.log.Info("Comparing directories...")
	cmp, err := cloning.CompareDirectories(ctx, dirs, opts, progress)
	if s.progress != nil {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, err
	}
	s.log.Infof("  %d names ignored as popular", cmp.Ignored)
	s.log.Infof("  %d matching directory pairs", cmp.Pairs)

	resp := &domain.DirCompareResponse{
		Directories:   len(dirs),
		PopularNames:  cmp.Ignored,
		MatchingPairs: cmp.Pairs,
		OutputPath:    req.OutputPath,
	}
	err = saveFile(req.OutputPath, "matched files", func(out io.Writer) error {
		lw := listing.NewWriter(out)
		for _, d := range dirs {
			if !matched(d) {
				continue
			}
			for _, rec := range d.MatchRecords() {
				if err := lw.WriteDirMatch(rec); err != nil {
					return err
				}
				if len(rec.High)+len(rec.Medium)+len(rec.Low) > 0 {
					resp.MatchedFiles++
				}
			}
		}
		return lw.Flush()
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func matched(d *cloning.Directory) bool {
	for _, f := range d.Files {
		if f.Matches.Len() > 0 {
			return true
		}
	}
	return false
}

package service

import (
	"bufio"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/fqn"
	"github.com/ludo-technologies/sourcerer/internal/listing"
)

// TrieService implements domain.TrieService
type TrieService struct {
	log      logrus.FieldLogger
	progress domain.ProgressManager
}

// NewTrieService creates a trie service. Both arguments may be nil.
func NewTrieService(log logrus.FieldLogger, progress domain.ProgressManager) *TrieService {
	return &TrieService{log: orQuiet(log), progress: progress}
}

// Build interns every FQN of a listing and saves the trie
func (s *TrieService) Build(ctx context.Context, req *domain.TrieBuildRequest) (*domain.TrieBuildResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("trie build request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trie build request: %w", err)
	}
	filter, err := listing.NewProjectFilter(req.IncludeProjects, req.ExcludeProjects)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid project filter", err)
	}

	in, size, err := openListing(req.FqnListing)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	// the payload marks nodes that were interned as a whole name
	t := fqn.New[bool]()
	resp := &domain.TrieBuildResponse{OutputPath: req.OutputPath}
	s.log.Info("Building FQN trie...")
	stats, err := listing.ReadFqnListing(ctx, in, listing.Options{
		Source:   req.FqnListing,
		Logger:   s.log,
		Filter:   filter,
		Progress: byteProgress(s.progress, req.FqnListing, size),
	}, func(rec listing.FqnRecord) error {
		if !fqn.ValidName(rec.Fqn, fqn.DefaultSeparator) {
			resp.Skipped++
			s.log.WithFields(logrus.Fields{"file": req.FqnListing, "fqn": rec.Fqn}).
				Warn("Skipping FQN with an empty segment")
			return nil
		}
		n := t.Intern(rec.Fqn)
		if !n.Data() {
			n.SetData(true)
			resp.Fqns++
		}
		return nil
	})
	if s.progress != nil {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", req.FqnListing, err)
	}
	resp.Skipped += stats.Malformed

	resp.Nodes = t.Size() - 1
	for it := t.Root().Leaves(); it.Next(); {
		resp.Leaves++
	}
	s.log.Infof("  %d names in %d nodes", resp.Fqns, resp.Nodes)

	if err := saveFile(req.OutputPath, "trie", t.Save); err != nil {
		return nil, err
	}
	return resp, nil
}

// Lookup reports where each FQN sits in a saved trie
func (s *TrieService) Lookup(ctx context.Context, req *domain.TrieLookupRequest) ([]domain.TrieLookupResult, error) {
	if req == nil {
		return nil, fmt.Errorf("trie lookup request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trie lookup request: %w", err)
	}
	t, err := s.load(req.TriePath)
	if err != nil {
		return nil, err
	}
	results := make([]domain.TrieLookupResult, 0, len(req.Fqns))
	for _, name := range req.Fqns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, LookupFqn(t, name))
	}
	return results, nil
}

// LookupFqn describes the node of name in t
func LookupFqn[T any](t *fqn.Trie[T], name string) domain.TrieLookupResult {
	res := domain.TrieLookupResult{Fqn: name}
	n, ok := t.Lookup(name)
	if !ok {
		return res
	}
	res.Found = true
	res.Depth = n.Depth()
	for it := n.Children(); it.Next(); {
		res.Children++
	}
	for it := n.Leaves(); it.Next(); {
		res.Leaves++
	}
	return res
}

// Dump writes the dotted name of every node of a saved trie, one per line,
// and returns the number written. The root is never written.
func (s *TrieService) Dump(ctx context.Context, req *domain.TrieDumpRequest) (int, error) {
	if req == nil {
		return 0, fmt.Errorf("trie dump request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return 0, fmt.Errorf("invalid trie dump request: %w", err)
	}
	t, err := s.load(req.TriePath)
	if err != nil {
		return 0, err
	}

	root := t.Root()
	var it *fqn.Iterator[struct{}]
	switch req.Order {
	case domain.TraversalPostOrder:
		it = root.PostOrder()
	case domain.TraversalLeaves:
		it = root.Leaves()
	default:
		it = root.PreOrder()
	}

	w := bufio.NewWriter(req.Writer)
	count := 0
	for it.Next() {
		n := it.Node()
		if n.IsRoot() {
			continue
		}
		if count%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return count, err
			}
		}
		if _, err := fmt.Fprintln(w, n.Fqn()); err != nil {
			return count, domain.NewOutputError("failed to write trie", err)
		}
		count++
	}
	if err := w.Flush(); err != nil {
		return count, domain.NewOutputError("failed to write trie", err)
	}
	return count, nil
}

func (s *TrieService) load(path string) (*fqn.Trie[struct{}], error) {
	f, _, err := openListing(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := fqn.Load[struct{}](f)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot read trie %s", path), err)
	}
	s.log.Debugf("Loaded trie %s with %d nodes", path, t.Size())
	return t, nil
}

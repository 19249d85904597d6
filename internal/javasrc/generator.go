package javasrc

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/internal/constants"
	"github.com/ludo-technologies/sourcerer/internal/listing"
)

// Listings are the destinations of the four generated listings. A nil
// writer disables that listing.
type Listings struct {
	Hash        io.Writer
	Fqn         io.Writer
	Fingerprint io.Writer
	Dir         io.Writer
}

// Summary counts what a generation run produced
type Summary struct {
	Projects     int
	Files        int
	Typed        int
	SyntaxErrors int
	Skipped      int
	Dirs         int
}

// Generator writes hash, fqn, fingerprint and directory listings for a
// repository of Java projects.
type Generator struct {
	Walker    *Walker
	Extractor *Extractor
	Logger    logrus.FieldLogger
	// Progress, when set, is called after each project
	Progress func(project string, done, total int)
}

// NewGenerator creates a generator over w
func NewGenerator(w *Walker, log logrus.FieldLogger) *Generator {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Generator{Walker: w, Extractor: NewExtractor(), Logger: log}
}

type listingWriters struct {
	hash, fqn, fingerprint, dir *listing.Writer
}

func newWriter(w io.Writer) *listing.Writer {
	if w == nil {
		return nil
	}
	return listing.NewWriter(w)
}

func (lw listingWriters) flush() error {
	for _, w := range []*listing.Writer{lw.hash, lw.fqn, lw.fingerprint, lw.dir} {
		if w == nil {
			continue
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Generate walks every project and writes its listings
func (g *Generator) Generate(ctx context.Context, out Listings) (Summary, error) {
	var sum Summary
	lw := listingWriters{
		hash:        newWriter(out.Hash),
		fqn:         newWriter(out.Fqn),
		fingerprint: newWriter(out.Fingerprint),
		dir:         newWriter(out.Dir),
	}

	projects, err := g.Walker.Projects()
	if err != nil {
		return sum, err
	}
	g.Logger.Infof("Generating listings for %d projects...", len(projects))

	for i, project := range projects {
		dirs := make(map[string][]string)
		err := g.Walker.WalkProject(ctx, project, func(f SourceFile) error {
			sum.Files++
			if err := g.file(ctx, f, lw, &sum); err != nil {
				return err
			}
			dirs[f.Dir()] = append(dirs[f.Dir()], f.Name())
			return nil
		})
		if err != nil {
			return sum, fmt.Errorf("failed to process project %s: %w", project, err)
		}
		n, err := writeDirs(lw.dir, project, dirs)
		if err != nil {
			return sum, err
		}
		sum.Dirs += n
		sum.Projects++
		if g.Progress != nil {
			g.Progress(project, i+1, len(projects))
		}
	}

	if err := lw.flush(); err != nil {
		return sum, fmt.Errorf("failed to write listings: %w", err)
	}
	g.Logger.Infof("  %d files in %d projects, %d with a type", sum.Files, sum.Projects, sum.Typed)
	if sum.SyntaxErrors > 0 {
		g.Logger.Warnf("  %d files had syntax errors", sum.SyntaxErrors)
	}
	return sum, nil
}

// file writes the records of one source file. Records that cannot be
// represented in a listing are logged and skipped.
func (g *Generator) file(ctx context.Context, f SourceFile, lw listingWriters, sum *Summary) error {
	log := g.Logger.WithFields(logrus.Fields{"project": f.Project, "path": f.Path})
	source, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.AbsPath, err)
	}

	md5sum := md5.Sum(source)
	shasum := sha1.Sum(source)
	if lw.hash != nil {
		err := lw.hash.WriteHash(listing.HashRecord{
			Project: f.Project,
			Path:    f.Path,
			Md5:     hex.EncodeToString(md5sum[:]),
			Sha:     hex.EncodeToString(shasum[:]),
			Length:  int64(len(source)),
		})
		if err := skipInvalid(err, log, sum); err != nil {
			return err
		}
	}

	if lw.fqn == nil && lw.fingerprint == nil {
		return nil
	}
	info, err := g.Extractor.Extract(ctx, source)
	if err != nil {
		return err
	}
	if info.HasErrors {
		sum.SyntaxErrors++
		log.Debug("Syntax errors recovered")
	}
	primary, ok := info.Primary()
	if !ok || primary.Name == "" {
		log.Debug("No top-level type")
		return nil
	}
	sum.Typed++

	if lw.fqn != nil {
		err := lw.fqn.WriteFqn(listing.FqnRecord{
			Project: f.Project,
			Path:    f.Path,
			Fqn:     info.Fqn(primary, constants.DefaultPackagePrefix),
		})
		if err := skipInvalid(err, log, sum); err != nil {
			return err
		}
	}
	if lw.fingerprint != nil {
		err := lw.fingerprint.WriteFingerprint(listing.FingerprintRecord{
			Project:      f.Project,
			Path:         f.Path,
			Name:         primary.Name,
			Fields:       primary.Fields,
			Constructors: primary.Constructors,
			Methods:      primary.Methods,
		})
		if err := skipInvalid(err, log, sum); err != nil {
			return err
		}
	}
	return nil
}

func skipInvalid(err error, log logrus.FieldLogger, sum *Summary) error {
	if errors.Is(err, listing.ErrInvalidField) {
		sum.Skipped++
		log.Warn(err)
		return nil
	}
	return err
}

func writeDirs(w *listing.Writer, project string, dirs map[string][]string) (int, error) {
	if w == nil {
		return 0, nil
	}
	paths := make([]string, 0, len(dirs))
	for d := range dirs {
		paths = append(paths, d)
	}
	sort.Strings(paths)
	written := 0
	for _, d := range paths {
		err := w.WriteDir(listing.DirRecord{Project: project, Dir: d, Files: dirs[d]})
		if errors.Is(err, listing.ErrInvalidField) {
			continue
		}
		if err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

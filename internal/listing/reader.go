package listing

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options control how a listing is read
type Options struct {
	// Source names the listing in log messages
	Source string
	// Logger receives malformed-line warnings. Nil discards them.
	Logger logrus.FieldLogger
	// Filter drops records of projects it does not allow. Nil keeps everything.
	Filter *ProjectFilter
	// Progress is called after every line with the number of bytes consumed so far
	Progress func(bytesRead int64)
}

// Stats counts what happened while reading a listing
type Stats struct {
	Lines     int
	Records   int
	Malformed int
	Filtered  int
	Skipped   int
}

const (
	maxLineSize    = 64 * 1024 * 1024
	checkCancelled = 1024
)

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// scan drives one listing. parse turns the fields of a line into a record
// and the name of the project it belongs to. Malformed lines are logged and
// skipped. The context is checked periodically.
func scan[T any](ctx context.Context, r io.Reader, opts Options, parse func([]string) (T, string, error), fn func(T) error) (Stats, error) {
	var stats Stats
	log := logger(opts.Logger)
	cr := &countingReader{r: r}
	scanner := bufio.NewScanner(cr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		stats.Lines++
		if stats.Lines%checkCancelled == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
		if opts.Progress != nil {
			opts.Progress(cr.n)
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rec, project, err := parse(strings.Fields(line))
		if err != nil {
			stats.Malformed++
			log.WithFields(logrus.Fields{
				"file": opts.Source,
				"line": stats.Lines,
			}).Warnf("Skipping malformed line: %v", err)
			continue
		}
		if project != "" && !opts.Filter.Allows(project) {
			stats.Filtered++
			continue
		}

		if err := fn(rec); err != nil {
			if errors.Is(err, ErrSkip) {
				stats.Skipped++
				continue
			}
			return stats, err
		}
		stats.Records++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read %s: %w", opts.Source, err)
	}
	return stats, ctx.Err()
}

// ErrSkip returned from a record callback counts the record as skipped
// instead of aborting the read.
var ErrSkip = errors.New("skip record")

// ReadFqnListing calls fn for every record of an FQN listing
func ReadFqnListing(ctx context.Context, r io.Reader, opts Options, fn func(FqnRecord) error) (Stats, error) {
	return scan(ctx, r, opts, func(f []string) (FqnRecord, string, error) {
		rec, err := parseFqn(f)
		return rec, rec.Project, err
	}, fn)
}

// ReadHashListing calls fn for every record of a hash listing. Records of
// empty files are skipped when the listing carries lengths.
func ReadHashListing(ctx context.Context, r io.Reader, opts Options, fn func(HashRecord) error) (Stats, error) {
	return scan(ctx, r, opts, func(f []string) (HashRecord, string, error) {
		rec, err := parseHash(f)
		return rec, rec.Project, err
	}, func(rec HashRecord) error {
		if rec.Length == 0 {
			return ErrSkip
		}
		return fn(rec)
	})
}

// ReadFingerprintListing calls fn for every record of a fingerprint listing
func ReadFingerprintListing(ctx context.Context, r io.Reader, opts Options, fn func(FingerprintRecord) error) (Stats, error) {
	return scan(ctx, r, opts, func(f []string) (FingerprintRecord, string, error) {
		rec, err := parseFingerprint(f)
		return rec, rec.Project, err
	}, fn)
}

// ReadDirListing calls fn for every record of a directory listing
func ReadDirListing(ctx context.Context, r io.Reader, opts Options, fn func(DirRecord) error) (Stats, error) {
	return scan(ctx, r, opts, func(f []string) (DirRecord, string, error) {
		rec, err := parseDir(f)
		return rec, rec.Project, err
	}, fn)
}

// ReadDirMatches calls fn for every record of a matched directory files listing
func ReadDirMatches(ctx context.Context, r io.Reader, opts Options, fn func(DirMatchRecord) error) (Stats, error) {
	return scan(ctx, r, opts, func(f []string) (DirMatchRecord, string, error) {
		rec, err := parseDirMatch(f)
		return rec, rec.Project, err
	}, fn)
}

// ReadJarListing calls fn for every record of a jar listing
func ReadJarListing(ctx context.Context, r io.Reader, opts Options, fn func(JarRecord) error) (Stats, error) {
	return scan(ctx, r, opts, func(f []string) (JarRecord, string, error) {
		rec, err := parseJar(f)
		return rec, "", err
	}, fn)
}

func logger(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}

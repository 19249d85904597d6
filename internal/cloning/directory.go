package cloning

import (
	"context"
	"sort"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/constants"
	"github.com/ludo-technologies/sourcerer/internal/listing"
)

// DirOptions tune directory comparison
type DirOptions struct {
	MinimumMatchSize int
	MinimumPercent   float64
	HighPercent      float64
	MediumPercent    float64
	PopularDiscard   int
}

// DefaultDirOptions returns the stock thresholds
func DefaultDirOptions() DirOptions {
	return DirOptions{
		MinimumMatchSize: constants.DefaultMinimumMatchSize,
		MinimumPercent:   constants.DefaultMinimumMatchPercent,
		HighPercent:      constants.DefaultHighMatchPercent,
		MediumPercent:    constants.DefaultMediumMatchPercent,
		PopularDiscard:   constants.DefaultPopularDiscard,
	}
}

// Bucket grades a match percentage
func (o DirOptions) Bucket(percent float64) domain.Confidence {
	switch {
	case percent >= o.HighPercent:
		return domain.ConfidenceHigh
	case percent >= o.MediumPercent:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// DirMatches holds directory references by confidence bucket
type DirMatches [3][]listing.DirMatchRef

func (m *DirMatches) add(c domain.Confidence, ref listing.DirMatchRef) {
	m[c] = append(m[c], ref)
}

// Len returns the number of references in all buckets
func (m *DirMatches) Len() int {
	return len(m[0]) + len(m[1]) + len(m[2])
}

// DirFile is one file name of a directory with the directories it was found in
type DirFile struct {
	Name    string
	Matches DirMatches
}

// Directory is one directory of a project with its file names sorted
type Directory struct {
	Project string
	Path    string
	Files   []*DirFile
	Matches DirMatches
}

// NewDirectory builds a directory from a listing record
func NewDirectory(rec listing.DirRecord) *Directory {
	names := append([]string(nil), rec.Files...)
	sort.Strings(names)
	d := &Directory{Project: rec.Project, Path: rec.Dir, Files: make([]*DirFile, len(names))}
	for i, name := range names {
		d.Files[i] = &DirFile{Name: name}
	}
	return d
}

func (d *Directory) ref() listing.DirMatchRef {
	return listing.DirMatchRef{Project: d.Project, Dir: d.Path}
}

// NameCount is how many directories hold a file name
type NameCount struct {
	Name  string
	Count int
}

// NamePopularity counts every file name across dirs, most popular first
func NamePopularity(dirs []*Directory) []NameCount {
	counts := make(map[string]int)
	for _, d := range dirs {
		for _, f := range d.Files {
			counts[f.Name]++
		}
	}
	out := make([]NameCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, NameCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// IgnoredNames returns the names occurring at least discard times
func IgnoredNames(popularity []NameCount, discard int) map[string]struct{} {
	ignore := make(map[string]struct{})
	for _, nc := range popularity {
		if nc.Count < discard {
			break
		}
		ignore[nc.Name] = struct{}{}
	}
	return ignore
}

// Compare matches d against a directory of another project. When enough
// names are shared, every shared file of both directories records the other
// directory and d records the pair. The match percentage and whether the
// pair was kept are returned.
func (d *Directory) Compare(other *Directory, ignore map[string]struct{}, opts DirOptions) (float64, bool) {
	if d.Project == other.Project {
		return 0, false
	}
	matchCount := 0
	eachShared(d.Files, other.Files, ignore, func(_, _ *DirFile) { matchCount++ })
	if matchCount < opts.MinimumMatchSize {
		return 0, false
	}

	percent := float64(matchCount) / float64(min(len(d.Files), len(other.Files)))
	if percent < opts.MinimumPercent {
		return percent, false
	}

	c := opts.Bucket(percent)
	mine, theirs := d.ref(), other.ref()
	eachShared(d.Files, other.Files, ignore, func(a, b *DirFile) {
		a.Matches.add(c, theirs)
		b.Matches.add(c, mine)
	})
	d.Matches.add(c, theirs)
	return percent, true
}

// eachShared merges two sorted file lists, skipping ignored names
func eachShared(a, b []*DirFile, ignore map[string]struct{}, fn func(a, b *DirFile)) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if _, skip := ignore[a[i].Name]; skip {
			i++
			continue
		}
		if _, skip := ignore[b[j].Name]; skip {
			j++
			continue
		}
		switch {
		case a[i].Name == b[j].Name:
			fn(a[i], b[j])
			i++
			j++
		case a[i].Name < b[j].Name:
			i++
		default:
			j++
		}
	}
}

// DirComparison summarises a pairwise comparison run
type DirComparison struct {
	Popularity []NameCount
	Ignored    int
	Pairs      int
}

// CompareDirectories compares every pair of directories from different
// projects. progress, when set, is called after each directory.
func CompareDirectories(ctx context.Context, dirs []*Directory, opts DirOptions, progress func(done int)) (DirComparison, error) {
	var res DirComparison
	res.Popularity = NamePopularity(dirs)
	ignore := IgnoredNames(res.Popularity, opts.PopularDiscard)
	res.Ignored = len(ignore)

	for i, d := range dirs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		for _, other := range dirs[i+1:] {
			if _, ok := d.Compare(other, ignore, opts); ok {
				res.Pairs++
			}
		}
		if progress != nil {
			progress(i + 1)
		}
	}
	return res, nil
}

// MatchRecords renders the matched-files lines of d, one per file
func (d *Directory) MatchRecords() []listing.DirMatchRecord {
	out := make([]listing.DirMatchRecord, len(d.Files))
	for i, f := range d.Files {
		out[i] = listing.DirMatchRecord{
			Project: d.Project,
			Dir:     d.Path,
			Name:    f.Name,
			High:    f.Matches[domain.ConfidenceHigh],
			Medium:  f.Matches[domain.ConfidenceMedium],
			Low:     f.Matches[domain.ConfidenceLow],
		}
	}
	return out
}

// JoinDirPath joins a listing directory and a file name. The project root
// is written as ".".
func JoinDirPath(dir, name string) string {
	if dir == "." || dir == "" {
		return name
	}
	return dir + "/" + name
}

// AddDirMatch turns one matched-files record into the dir key of an
// existing file. References to files that are not loaded are skipped. It
// reports whether the file was found.
func (pm *ProjectMap) AddDirMatch(rec listing.DirMatchRecord) (bool, error) {
	file, ok := pm.LookupFile(rec.Project, JoinDirPath(rec.Dir, rec.Name))
	if !ok {
		return false, nil
	}
	key := NewComplexKey(file.path)
	buckets := []struct {
		refs []listing.DirMatchRef
		c    domain.Confidence
	}{
		{rec.High, domain.ConfidenceHigh},
		{rec.Medium, domain.ConfidenceMedium},
		{rec.Low, domain.ConfidenceLow},
	}
	for _, b := range buckets {
		for _, ref := range b.refs {
			if other, ok := pm.LookupFile(ref.Project, JoinDirPath(ref.Dir, rec.Name)); ok {
				key.AddMatch(other, b.c)
			}
		}
	}
	return true, file.SetDirKey(key)
}

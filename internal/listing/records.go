package listing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ludo-technologies/sourcerer/internal/constants"
)

// FqnRecord maps one file to the FQN of its principal type.
//
//	project path fqn
type FqnRecord struct {
	Project string
	Path    string
	Fqn     string
}

// HashRecord maps one file to its content digests. Sha and Length are
// optional; Length is -1 when absent.
//
//	project path md5 [sha length]
type HashRecord struct {
	Project string
	Path    string
	Md5     string
	Sha     string
	Length  int64
}

// FingerprintRecord lists the member names of a file's principal type.
//
//	project path name fieldCount field... ctorCount ctor... methodCount method...
type FingerprintRecord struct {
	Project      string
	Path         string
	Name         string
	Fields       []string
	Constructors []string
	Methods      []string
}

// DirRecord lists the file names of one directory.
//
//	project dir file...
type DirRecord struct {
	Project string
	Dir     string
	Files   []string
}

// DirMatchRef is one directory a file was matched against.
type DirMatchRef struct {
	Project string
	Dir     string
}

func (r DirMatchRef) String() string {
	return r.Project + ":" + r.Dir
}

// DirMatchRecord is one file of a directory with the directories it matched,
// counted per confidence bucket.
//
//	project dir name nHigh nMedium nLow project:dir...
type DirMatchRecord struct {
	Project string
	Dir     string
	Name    string
	High    []DirMatchRef
	Medium  []DirMatchRef
	Low     []DirMatchRef
}

// JarRecord lists the FQNs a jar declares. An empty Version is written as "-".
//
//	hash name version fqn...
type JarRecord struct {
	Hash    string
	Name    string
	Version string
	Fqns    []string
}

func parseFqn(f []string) (FqnRecord, error) {
	if len(f) != 3 {
		return FqnRecord{}, fmt.Errorf("expected 3 fields, got %d", len(f))
	}
	return FqnRecord{Project: f[0], Path: f[1], Fqn: f[2]}, nil
}

func (r FqnRecord) fields() []string {
	return []string{r.Project, r.Path, r.Fqn}
}

func parseHash(f []string) (HashRecord, error) {
	switch len(f) {
	case 3:
		return HashRecord{Project: f[0], Path: f[1], Md5: f[2], Length: -1}, nil
	case 5:
		length, err := strconv.ParseInt(f[4], 10, 64)
		if err != nil || length < 0 {
			return HashRecord{}, fmt.Errorf("invalid length %q", f[4])
		}
		return HashRecord{Project: f[0], Path: f[1], Md5: f[2], Sha: f[3], Length: length}, nil
	default:
		return HashRecord{}, fmt.Errorf("expected 3 or 5 fields, got %d", len(f))
	}
}

func (r HashRecord) fields() []string {
	if r.Length < 0 {
		return []string{r.Project, r.Path, r.Md5}
	}
	return []string{r.Project, r.Path, r.Md5, r.Sha, strconv.FormatInt(r.Length, 10)}
}

// takeCounted reads "n item1..itemN" starting at f[i].
func takeCounted(f []string, i int, what string) ([]string, int, error) {
	if i >= len(f) {
		return nil, i, fmt.Errorf("missing %s count", what)
	}
	n, err := strconv.Atoi(f[i])
	if err != nil || n < 0 {
		return nil, i, fmt.Errorf("invalid %s count %q", what, f[i])
	}
	i++
	if n > len(f)-i {
		return nil, i, fmt.Errorf("expected %d %s, found %d", n, what, len(f)-i)
	}
	return f[i : i+n : i+n], i + n, nil
}

func appendCounted(out []string, items []string) []string {
	out = append(out, strconv.Itoa(len(items)))
	return append(out, items...)
}

func parseFingerprint(f []string) (FingerprintRecord, error) {
	if len(f) < 6 {
		return FingerprintRecord{}, fmt.Errorf("expected at least 6 fields, got %d", len(f))
	}
	rec := FingerprintRecord{Project: f[0], Path: f[1], Name: f[2]}
	var err error
	i := 3
	if rec.Fields, i, err = takeCounted(f, i, "fields"); err != nil {
		return FingerprintRecord{}, err
	}
	if rec.Constructors, i, err = takeCounted(f, i, "constructors"); err != nil {
		return FingerprintRecord{}, err
	}
	if rec.Methods, i, err = takeCounted(f, i, "methods"); err != nil {
		return FingerprintRecord{}, err
	}
	if i != len(f) {
		return FingerprintRecord{}, fmt.Errorf("%d trailing fields", len(f)-i)
	}
	return rec, nil
}

func (r FingerprintRecord) fields() []string {
	out := []string{r.Project, r.Path, r.Name}
	out = appendCounted(out, r.Fields)
	out = appendCounted(out, r.Constructors)
	return appendCounted(out, r.Methods)
}

func parseDir(f []string) (DirRecord, error) {
	if len(f) < 2 {
		return DirRecord{}, fmt.Errorf("expected at least 2 fields, got %d", len(f))
	}
	return DirRecord{Project: f[0], Dir: f[1], Files: f[2:]}, nil
}

func (r DirRecord) fields() []string {
	return append([]string{r.Project, r.Dir}, r.Files...)
}

func parseDirMatchRef(s string) (DirMatchRef, error) {
	project, dir, ok := strings.Cut(s, ":")
	if !ok || project == "" || dir == "" {
		return DirMatchRef{}, fmt.Errorf("invalid directory reference %q", s)
	}
	return DirMatchRef{Project: project, Dir: dir}, nil
}

func parseDirMatch(f []string) (DirMatchRecord, error) {
	if len(f) < 6 {
		return DirMatchRecord{}, fmt.Errorf("expected at least 6 fields, got %d", len(f))
	}
	rec := DirMatchRecord{Project: f[0], Dir: f[1], Name: f[2]}
	var counts [3]int
	for k := range counts {
		n, err := strconv.Atoi(f[3+k])
		if err != nil || n < 0 {
			return DirMatchRecord{}, fmt.Errorf("invalid match count %q", f[3+k])
		}
		counts[k] = n
	}
	refs := f[6:]
	total := 0
	for _, n := range counts {
		if n > len(refs)-total {
			return DirMatchRecord{}, fmt.Errorf("match counts %v exceed the %d directory references", counts, len(refs))
		}
		total += n
	}
	if total != len(refs) {
		return DirMatchRecord{}, fmt.Errorf("expected %d directory references, got %d", total, len(refs))
	}
	buckets := []*[]DirMatchRef{&rec.High, &rec.Medium, &rec.Low}
	for k, bucket := range buckets {
		for _, s := range refs[:counts[k]] {
			ref, err := parseDirMatchRef(s)
			if err != nil {
				return DirMatchRecord{}, err
			}
			*bucket = append(*bucket, ref)
		}
		refs = refs[counts[k]:]
	}
	return rec, nil
}

func (r DirMatchRecord) fields() []string {
	out := []string{r.Project, r.Dir, r.Name,
		strconv.Itoa(len(r.High)), strconv.Itoa(len(r.Medium)), strconv.Itoa(len(r.Low))}
	for _, bucket := range [][]DirMatchRef{r.High, r.Medium, r.Low} {
		for _, ref := range bucket {
			out = append(out, ref.String())
		}
	}
	return out
}

func parseJar(f []string) (JarRecord, error) {
	if len(f) < 3 {
		return JarRecord{}, fmt.Errorf("expected at least 3 fields, got %d", len(f))
	}
	rec := JarRecord{Hash: f[0], Name: f[1], Version: f[2], Fqns: f[3:]}
	if rec.Version == constants.NoneMarker {
		rec.Version = ""
	}
	return rec, nil
}

func (r JarRecord) fields() []string {
	version := r.Version
	if version == "" {
		version = constants.NoneMarker
	}
	return append([]string{r.Hash, r.Name, version}, r.Fqns...)
}

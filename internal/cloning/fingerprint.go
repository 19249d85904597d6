package cloning

import (
	"sort"
	"strings"

	"github.com/ludo-technologies/sourcerer/domain"
)

// FingerprintKey describes a file by the name of its principal type and the
// names of that type's fields and methods. Fields and methods are kept
// sorted and de-duplicated.
type FingerprintKey struct {
	file     *File
	name     string
	fields   []string
	methods  []string
	matches  []KeyMatch
	detached bool
}

func newFingerprintKey(file *File, name string, fields, methods []string) *FingerprintKey {
	return &FingerprintKey{
		file:    file,
		name:    name,
		fields:  sortedUnique(fields),
		methods: sortedUnique(methods),
	}
}

func sortedUnique(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	n := 0
	for i, s := range out {
		if i == 0 || s != out[n-1] {
			out[n] = s
			n++
		}
	}
	return out[:n]
}

// Value renders the fingerprint as name(fields)[methods]
func (k *FingerprintKey) Value() string {
	return k.name + "(" + strings.Join(k.fields, ",") + ")[" + strings.Join(k.methods, ",") + "]"
}

func (k *FingerprintKey) Name() string      { return k.name }
func (k *FingerprintKey) Fields() []string  { return k.fields }
func (k *FingerprintKey) Methods() []string { return k.methods }
func (k *FingerprintKey) File() *File       { return k.file }

// Size counts the name, the fields and the methods
func (k *FingerprintKey) Size() int {
	return 1 + len(k.fields) + len(k.methods)
}

// Confidence is that of the strongest match
func (k *FingerprintKey) Confidence() domain.Confidence {
	return strongest(k.matches)
}

// Matches returns the graded matches computed when the key factory was
// sealed. The key's own file is never among them.
func (k *FingerprintKey) Matches() []KeyMatch {
	return k.matches
}

func (k *FingerprintKey) IsUnique(c domain.Confidence) bool {
	return uniqueAmong(k.matches, c)
}

// FingerprintOptions tune fingerprint matching
type FingerprintOptions struct {
	MinimumSize      int
	MinimumJaccard   float64
	RequireNameMatch bool
}

// FingerprintIndex is an inverted index from field and method names to the
// fingerprints declaring them.
type FingerprintIndex struct {
	opts            FingerprintOptions
	fields          map[string][]*FingerprintKey
	methods         map[string][]*FingerprintKey
	excludedFields  map[string]struct{}
	excludedMethods map[string]struct{}
	files           int
}

// NewFingerprintIndex creates an empty index
func NewFingerprintIndex(opts FingerprintOptions) *FingerprintIndex {
	return &FingerprintIndex{
		opts:            opts,
		fields:          make(map[string][]*FingerprintKey),
		methods:         make(map[string][]*FingerprintKey),
		excludedFields:  make(map[string]struct{}),
		excludedMethods: make(map[string]struct{}),
	}
}

// Add indexes a fingerprint. Fingerprints below the minimum size are ignored.
func (idx *FingerprintIndex) Add(k *FingerprintKey) {
	if k.Size() < idx.opts.MinimumSize {
		return
	}
	for _, f := range k.fields {
		idx.fields[f] = append(idx.fields[f], k)
	}
	for _, m := range k.methods {
		idx.methods[m] = append(idx.methods[m], k)
	}
	idx.files++
}

// Files returns the number of indexed fingerprints
func (idx *FingerprintIndex) Files() int {
	return idx.files
}

// ClearPopularNames drops every name declared by more than maxFiles
// fingerprints and returns the dropped field and method names, sorted.
func (idx *FingerprintIndex) ClearPopularNames(maxFiles int) (fields, methods []string) {
	fields = clearPopular(idx.fields, idx.excludedFields, maxFiles)
	methods = clearPopular(idx.methods, idx.excludedMethods, maxFiles)
	return fields, methods
}

func clearPopular(index map[string][]*FingerprintKey, excluded map[string]struct{}, maxFiles int) []string {
	var dropped []string
	for name, keys := range index {
		if len(keys) > maxFiles {
			dropped = append(dropped, name)
		}
	}
	sort.Strings(dropped)
	for _, name := range dropped {
		delete(index, name)
		excluded[name] = struct{}{}
	}
	return dropped
}

// effectiveSize is Size without the excluded names
func (idx *FingerprintIndex) effectiveSize(k *FingerprintKey) int {
	size := 1
	for _, f := range k.fields {
		if _, ok := idx.excludedFields[f]; !ok {
			size++
		}
	}
	for _, m := range k.methods {
		if _, ok := idx.excludedMethods[m]; !ok {
			size++
		}
	}
	return size
}

type candidate struct {
	key    *FingerprintKey
	shared int
}

// candidates returns every other indexed fingerprint sharing at least one
// name with k, in first-seen order, with the number of shared names.
func (idx *FingerprintIndex) candidates(k *FingerprintKey) []candidate {
	pos := make(map[*FingerprintKey]int)
	var out []candidate
	collect := func(index map[string][]*FingerprintKey, names []string) {
		for _, name := range names {
			for _, other := range index[name] {
				if other == k {
					continue
				}
				if i, ok := pos[other]; ok {
					out[i].shared++
					continue
				}
				pos[other] = len(out)
				out = append(out, candidate{key: other, shared: 1})
			}
		}
	}
	collect(idx.fields, k.fields)
	collect(idx.methods, k.methods)
	return out
}

// Estimate computes the index-based Jaccard estimate between k and other
// given the number of non-excluded names they share. The second result is
// false when the pair is not comparable.
func (idx *FingerprintIndex) Estimate(k, other *FingerprintKey, shared int) (float64, bool) {
	intersection := float64(shared)
	var union float64
	if idx.opts.RequireNameMatch {
		if k.name != other.name {
			return 0, false
		}
		union = float64(idx.effectiveSize(k)+idx.effectiveSize(other)-2) - intersection
	} else {
		if k.name == other.name {
			intersection++
		}
		union = float64(idx.effectiveSize(k)+idx.effectiveSize(other)) - intersection
	}
	if union <= 0 {
		return 0, false
	}
	return intersection / union, true
}

// ExactJaccard merges the sorted member lists of a and b. When the name is
// not required to match it counts as one more element.
func ExactJaccard(a, b *FingerprintKey, requireNameMatch bool) float64 {
	var intersection, union int
	if !requireNameMatch {
		if a.name == b.name {
			intersection, union = 1, 1
		} else {
			union = 2
		}
	}
	i, u := mergeCount(a.fields, b.fields)
	intersection, union = intersection+i, union+u
	i, u = mergeCount(a.methods, b.methods)
	intersection, union = intersection+i, union+u
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func mergeCount(a, b []string) (intersection, union int) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			intersection++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
		union++
	}
	return intersection, union + (len(a) - i) + (len(b) - j)
}

// Grade computes the matches of k. An estimate at or above the minimum is
// HIGH when the exact index agrees and MEDIUM otherwise; anything else is LOW.
func (idx *FingerprintIndex) Grade(k *FingerprintKey) []KeyMatch {
	if k.Size() < idx.opts.MinimumSize {
		return nil
	}
	var matches []KeyMatch
	for _, c := range idx.candidates(k) {
		estimate, ok := idx.Estimate(k, c.key, c.shared)
		if !ok {
			continue
		}
		confidence := domain.ConfidenceLow
		if estimate >= idx.opts.MinimumJaccard {
			confidence = domain.ConfidenceMedium
			if ExactJaccard(k, c.key, idx.opts.RequireNameMatch) >= idx.opts.MinimumJaccard {
				confidence = domain.ConfidenceHigh
			}
		}
		matches = append(matches, KeyMatch{File: c.key.file, Confidence: confidence})
	}
	return matches
}

package cloning

import (
	"github.com/ludo-technologies/sourcerer/domain"
)

// KeyMatch is one file a key matched, graded by confidence
type KeyMatch struct {
	File       *File
	Confidence domain.Confidence
}

// Key is a similarity signal attached to a file. Files that share a key,
// or whose keys are close enough, match each other.
type Key interface {
	Value() string
	Confidence() domain.Confidence
	Matches() []KeyMatch
	IsUnique(c domain.Confidence) bool
}

// SimpleKey is an exact-value key shared by every file carrying the same value.
// Hash and FQN keys are simple keys.
type SimpleKey struct {
	value      string
	confidence domain.Confidence
	files      []*File
}

func (k *SimpleKey) Value() string                 { return k.value }
func (k *SimpleKey) Confidence() domain.Confidence { return k.confidence }

// Files returns the files holding the key in registration order
func (k *SimpleKey) Files() []*File { return k.files }

// Matches returns every file holding the key, the asking file included,
// at the key's own confidence.
func (k *SimpleKey) Matches() []KeyMatch {
	matches := make([]KeyMatch, len(k.files))
	for i, f := range k.files {
		matches[i] = KeyMatch{File: f, Confidence: k.confidence}
	}
	return matches
}

// IsUnique reports whether the key singles out one file at the queried level.
// A shared key still counts as unique when queried below its own confidence.
func (k *SimpleKey) IsUnique(c domain.Confidence) bool {
	return len(k.files) == 1 || c < k.confidence
}

func (k *SimpleKey) addFile(f *File) {
	k.files = append(k.files, f)
}

// ComplexKey carries an explicit list of graded matches. Combined and
// directory keys are complex keys.
type ComplexKey struct {
	value   string
	matches []KeyMatch
}

// NewComplexKey creates a key with no matches
func NewComplexKey(value string) *ComplexKey {
	return &ComplexKey{value: value}
}

func (k *ComplexKey) Value() string { return k.value }

// Confidence of a complex key is that of its strongest match, LOW when it has none.
func (k *ComplexKey) Confidence() domain.Confidence {
	return strongest(k.matches)
}

func (k *ComplexKey) Matches() []KeyMatch { return k.matches }

// AddMatch records one matched file
func (k *ComplexKey) AddMatch(f *File, c domain.Confidence) {
	k.matches = append(k.matches, KeyMatch{File: f, Confidence: c})
}

func (k *ComplexKey) IsUnique(c domain.Confidence) bool {
	return uniqueAmong(k.matches, c)
}

// uniqueAmong decides uniqueness from a graded match list. LOW is never
// unique once any match exists; MEDIUM tolerates LOW matches only; HIGH
// tolerates everything except another HIGH match.
func uniqueAmong(matches []KeyMatch, c domain.Confidence) bool {
	if len(matches) == 0 {
		return true
	}
	switch c {
	case domain.ConfidenceLow:
		return false
	case domain.ConfidenceMedium:
		for _, m := range matches {
			if m.Confidence != domain.ConfidenceLow {
				return false
			}
		}
		return true
	default:
		for _, m := range matches {
			if m.Confidence == domain.ConfidenceHigh {
				return false
			}
		}
		return true
	}
}

func strongest(matches []KeyMatch) domain.Confidence {
	best := domain.ConfidenceLow
	for _, m := range matches {
		if m.Confidence > best {
			best = m.Confidence
		}
	}
	return best
}

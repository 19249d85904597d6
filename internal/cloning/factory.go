package cloning

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/constants"
)

// Options configure key creation and fingerprint matching
type Options struct {
	MinimumFqnDots         int
	PopularNameLimit       int
	MinimumFingerprintSize int
	MinimumJaccardIndex    float64
	RequireNameMatch       bool
	Logger                 logrus.FieldLogger
}

// DefaultOptions returns the stock thresholds
func DefaultOptions() Options {
	return Options{
		MinimumFqnDots:         constants.DefaultMinimumFqnDots,
		PopularNameLimit:       constants.DefaultPopularNameLimit,
		MinimumFingerprintSize: constants.DefaultMinimumFingerprintSize,
		MinimumJaccardIndex:    constants.DefaultMinimumJaccardIndex,
		RequireNameMatch:       constants.DefaultRequireNameMatch,
	}
}

// KeyFactory interns hash and FQN keys and owns the fingerprint index.
// Create fingerprints first, then call Seal once to compute their matches.
type KeyFactory struct {
	opts         Options
	log          logrus.FieldLogger
	hashKeys     map[string]*SimpleKey
	fqnKeys      map[string]*SimpleKey
	fingerprints []*FingerprintKey
	index        *FingerprintIndex
	sealed       bool
}

// NewKeyFactory creates an empty factory
func NewKeyFactory(opts Options) *KeyFactory {
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &KeyFactory{
		opts:     opts,
		log:      log,
		hashKeys: make(map[string]*SimpleKey),
		fqnKeys:  make(map[string]*SimpleKey),
		index: NewFingerprintIndex(FingerprintOptions{
			MinimumSize:      opts.MinimumFingerprintSize,
			MinimumJaccard:   opts.MinimumJaccardIndex,
			RequireNameMatch: opts.RequireNameMatch,
		}),
	}
}

// Options returns the factory configuration
func (kf *KeyFactory) Options() Options {
	return kf.opts
}

// HashKey returns the key for a content digest. Hash keys are always HIGH.
func (kf *KeyFactory) HashKey(md5 string) *SimpleKey {
	if k, ok := kf.hashKeys[md5]; ok {
		return k
	}
	k := &SimpleKey{value: md5, confidence: domain.ConfidenceHigh}
	kf.hashKeys[md5] = k
	return k
}

// FqnKey returns the key for a fully qualified name
func (kf *KeyFactory) FqnKey(fqn string) *SimpleKey {
	if k, ok := kf.fqnKeys[fqn]; ok {
		return k
	}
	k := &SimpleKey{value: fqn, confidence: FqnConfidence(fqn, kf.opts.MinimumFqnDots)}
	kf.fqnKeys[fqn] = k
	return k
}

// FqnConfidence grades a name: the default package is LOW, short names are
// MEDIUM and everything else is HIGH.
func FqnConfidence(fqn string, minimumDots int) domain.Confidence {
	switch {
	case strings.HasPrefix(fqn, constants.DefaultPackagePrefix):
		return domain.ConfidenceLow
	case strings.Count(fqn, ".") < minimumDots:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceHigh
	}
}

// FingerprintKey creates the fingerprint of file. It fails once the factory is sealed.
func (kf *KeyFactory) FingerprintKey(file *File, name string, fields, methods []string) (*FingerprintKey, error) {
	if kf.sealed {
		return nil, domain.NewInvariantError("fingerprint created after the key factory was sealed: "+file.String(), nil)
	}
	k := newFingerprintKey(file, name, fields, methods)
	kf.fingerprints = append(kf.fingerprints, k)
	return k, nil
}

// HashKeyCount returns the number of distinct hash keys
func (kf *KeyFactory) HashKeyCount() int { return len(kf.hashKeys) }

// FqnKeyCount returns the number of distinct FQN keys
func (kf *KeyFactory) FqnKeyCount() int { return len(kf.fqnKeys) }

// Sealed reports whether Seal has run
func (kf *KeyFactory) Sealed() bool { return kf.sealed }

// SealResult summarises the fingerprint matching pass
type SealResult struct {
	Indexed         int
	ExcludedFields  []string
	ExcludedMethods []string
}

// Seal indexes every attached fingerprint, clears popular names and grades
// all fingerprint matches. Later calls do nothing.
func (kf *KeyFactory) Seal() SealResult {
	var res SealResult
	if kf.sealed {
		return res
	}
	kf.sealed = true

	for _, k := range kf.fingerprints {
		if !k.detached {
			kf.index.Add(k)
		}
	}
	res.Indexed = kf.index.Files()

	kf.log.Info("Clearing popular names from fingerprint index...")
	kf.log.Infof("  %d files included", res.Indexed)
	kf.log.Infof("  Excluding names that occur in > %d files", kf.opts.PopularNameLimit)
	res.ExcludedFields, res.ExcludedMethods = kf.index.ClearPopularNames(kf.opts.PopularNameLimit)
	kf.log.Infof("  %d fields excluded", len(res.ExcludedFields))
	kf.log.Infof("  %d methods excluded", len(res.ExcludedMethods))

	for _, k := range kf.fingerprints {
		if !k.detached {
			k.matches = kf.index.Grade(k)
		}
	}
	return res
}

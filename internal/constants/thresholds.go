package constants

// Key confidence thresholds.
const (
	// DefaultMinimumFqnDots is the number of separators an FQN needs before
	// its key is trusted with HIGH confidence. Shallower names are MEDIUM.
	DefaultMinimumFqnDots = 3

	// DefaultPackagePrefix marks FQNs of types declared in the default package.
	// Keys with this prefix are LOW confidence.
	DefaultPackagePrefix = "default."
)

// Fingerprint matching thresholds.
const (
	// DefaultMinimumJaccardIndex is the similarity two fingerprints need for a
	// MEDIUM or HIGH match.
	DefaultMinimumJaccardIndex = 0.75

	// DefaultMinimumFingerprintSize excludes trivial types. The size counts the
	// type name, its fields and its methods.
	DefaultMinimumFingerprintSize = 5

	// DefaultRequireNameMatch only compares fingerprints of equally named types.
	DefaultRequireNameMatch = true

	// DefaultPopularNameLimit drops member names found in more files than this
	// from the fingerprint index.
	DefaultPopularNameLimit = 1000
)

// Directory clustering thresholds.
const (
	// DefaultMinimumMatchSize is the number of shared file names two directories need.
	DefaultMinimumMatchSize = 5

	// DefaultMinimumMatchPercent is the share of the smaller directory that must match.
	DefaultMinimumMatchPercent = 0.3

	// DefaultHighMatchPercent and DefaultMediumMatchPercent grade a directory pair.
	DefaultHighMatchPercent   = 0.8
	DefaultMediumMatchPercent = 0.5

	// DefaultPopularDiscard ignores file names that occur this often or more.
	DefaultPopularDiscard = 500
)

// Project correlation thresholds used when grading combined keys. A project
// pair correlates well when it shares at least one hash match, or more than
// this many FQN or fingerprint matches.
const (
	GoodCorrelationHashMatches        = 0
	GoodCorrelationFqnMatches         = 5
	GoodCorrelationFingerprintMatches = 5
)

// NoneMarker is written in place of an absent value, such as a missing jar version.
const NoneMarker = "-"

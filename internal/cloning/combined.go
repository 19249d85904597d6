package cloning

import (
	"context"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/constants"
)

// CombinedResult counts the combined keys built and how many of them are
// unique at each level.
type CombinedResult struct {
	Projects     int
	Files        int
	UniqueHigh   int
	UniqueMedium int
	UniqueLow    int
}

// Unique returns the unique count at c
func (r CombinedResult) Unique(c domain.Confidence) int {
	switch c {
	case domain.ConfidenceHigh:
		return r.UniqueHigh
	case domain.ConfidenceMedium:
		return r.UniqueMedium
	default:
		return r.UniqueLow
	}
}

// ComputeCombinedKeys derives a combined key for every file holding all base
// keys. matches must have been built from the same project map and is used
// to judge how strongly two projects correlate.
func ComputeCombinedKeys(ctx context.Context, projects *ProjectMap, matches *ProjectMatchSet) (CombinedResult, error) {
	var res CombinedResult
	log := projects.factory.log
	log.Info("Computing combined keys...")

	for _, project := range projects.Projects() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Projects++
		for _, file := range project.files {
			if !file.HasAllKeys() {
				continue
			}
			res.Files++

			key, err := combinedKey(file, matches)
			if err != nil {
				return res, err
			}
			if err := file.SetCombinedKey(key); err != nil {
				return res, err
			}
			if key.IsUnique(domain.ConfidenceHigh) {
				res.UniqueHigh++
			}
			if key.IsUnique(domain.ConfidenceMedium) {
				res.UniqueMedium++
			}
			if key.IsUnique(domain.ConfidenceLow) {
				res.UniqueLow++
			}
		}
	}

	log.Infof("  %d projects and %d files processed", res.Projects, res.Files)
	log.Infof("    %d high unique", res.UniqueHigh)
	log.Infof("    %d medium unique", res.UniqueMedium)
	log.Infof("    %d low unique", res.UniqueLow)
	return res, nil
}

func combinedKey(file *File, matches *ProjectMatchSet) (*ComplexKey, error) {
	scratch := NewMatchingProjects(nil)
	for _, method := range []domain.DetectionMethod{domain.MethodHash, domain.MethodFqn, domain.MethodFingerprint} {
		for _, match := range file.Key(method).Matches() {
			if err := scratch.Set(match.File, method, match.Confidence); err != nil {
				return nil, err
			}
		}
	}

	key := NewComplexKey(file.String())
	for _, status := range scratch.Statuses() {
		if status.file == file {
			continue
		}
		if c, ok := combinedConfidence(status, func() bool {
			return goodCorrelation(matches.Get(file.project, status.file.project))
		}); ok {
			key.AddMatch(status.file, c)
		}
	}
	return key, nil
}

// combinedConfidence grades one candidate from the methods that matched it.
// good is consulted only when the signals alone are inconclusive.
func combinedConfidence(status *MatchStatus, good func() bool) (domain.Confidence, bool) {
	high, medium, low := domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow
	fqn, hasFqn := status.Get(domain.MethodFqn)
	fp, hasFp := status.Get(domain.MethodFingerprint)

	switch {
	case status.Has(domain.MethodHash):
		return high, true
	case hasFqn && hasFp && fqn == high && (fp == high || fp == medium):
		return high, true
	case hasFqn && hasFp && (fqn == medium || fqn == low) && fp == high:
		return high, true
	case hasFqn && hasFp && fp == low:
		return low, true
	case (hasFqn && hasFp && fp == medium) || (hasFp && fp == high):
		if good() {
			return high, true
		}
		return medium, true
	case !hasFqn && hasFp && fp == medium:
		if good() {
			return medium, true
		}
		return low, true
	}
	return low, false
}

// goodCorrelation reports whether two projects share a core of clones: any
// identical file, or more than a handful of name or fingerprint matches.
func goodCorrelation(pair *MatchingProjects) bool {
	if pair == nil {
		return false
	}
	return pair.CountAtLeast(domain.MethodHash, domain.ConfidenceHigh) > constants.GoodCorrelationHashMatches ||
		pair.CountAtLeast(domain.MethodFqn, domain.ConfidenceLow) > constants.GoodCorrelationFqnMatches ||
		pair.CountAtLeast(domain.MethodFingerprint, domain.ConfidenceMedium) > constants.GoodCorrelationFingerprintMatches
}

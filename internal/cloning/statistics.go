package cloning

import (
	"context"
	"math"
	"sort"

	"github.com/ludo-technologies/sourcerer/domain"
)

// CompareFileSets counts the files lacking each base key. Run it before
// filtering.
func CompareFileSets(projects *ProjectMap) domain.FileSetComparison {
	var cmp domain.FileSetComparison
	log := projects.factory.log
	log.Info("Comparing file sets...")
	for _, project := range projects.Projects() {
		for _, file := range project.files {
			cmp.TotalFiles++
			if !file.HasHashKey() {
				cmp.MissingHash++
				log.Debugf("Missing hash: %s", file)
			}
			if !file.HasFqnKey() {
				cmp.MissingFqn++
				log.Debugf("Missing fqn: %s", file)
			}
			if !file.HasFingerprintKey() {
				cmp.MissingFingerprint++
				log.Debugf("Missing fingerprint: %s", file)
			}
			if file.HasAllKeys() {
				cmp.Complete++
			}
		}
	}
	log.Infof("  %d files had no hash.", cmp.MissingHash)
	log.Infof("  %d files had no fqn.", cmp.MissingFqn)
	log.Infof("  %d files had no fingerprint.", cmp.MissingFingerprint)
	return cmp
}

// CloningStatistics is the outcome of ComputeCloningStatistics
type CloningStatistics struct {
	Levels     []domain.ConfidenceStatistics
	Projects   []domain.ProjectCloneRow
	DirMissing int
}

type uniqueCounts struct {
	size     int
	byMethod [domain.DetectionMethodCount]int
}

// ComputeCloningStatistics counts, per confidence level and method, how many
// files with all base keys are unique. Dir uniqueness only counts files that
// carry a dir key; the others are reported as missing. Per-project rows are
// produced at HIGH.
func ComputeCloningStatistics(ctx context.Context, projects *ProjectMap) (CloningStatistics, error) {
	var res CloningStatistics
	log := projects.factory.log
	log.Info("Computing basic cloning statistics...")

	for _, c := range []domain.Confidence{domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow} {
		log.Infof("  Computing %s confidence...", c)
		var total uniqueCounts
		dirMissing := 0
		for _, project := range projects.Projects() {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			var counts uniqueCounts
			for _, file := range project.files {
				if !file.HasAllKeys() {
					continue
				}
				counts.size++
				for _, m := range domain.DetectionMethods {
					key := file.Key(m)
					if key == nil {
						if m == domain.MethodDir {
							dirMissing++
							if c == domain.ConfidenceHigh {
								log.Debugf("Dir missing: %s", file)
							}
						}
						continue
					}
					if key.IsUnique(c) {
						counts.byMethod[m]++
					}
				}
			}
			if c == domain.ConfidenceHigh {
				res.Projects = append(res.Projects, domain.ProjectCloneRow{
					Confidence:        c,
					Project:           project.name,
					Size:              counts.size,
					HashUnique:        counts.byMethod[domain.MethodHash],
					FqnUnique:         counts.byMethod[domain.MethodFqn],
					FingerprintUnique: counts.byMethod[domain.MethodFingerprint],
					CombinedUnique:    counts.byMethod[domain.MethodCombined],
					DirUnique:         counts.byMethod[domain.MethodDir],
				})
			}
			total.size += counts.size
			for m, n := range counts.byMethod {
				total.byMethod[m] += n
			}
		}
		if c == domain.ConfidenceHigh {
			res.DirMissing = dirMissing
			if dirMissing > 0 {
				log.Warnf("  %d files had no dir key", dirMissing)
			}
		}

		level := domain.ConfidenceStatistics{Confidence: c}
		for _, m := range domain.DetectionMethods {
			level.Methods = append(level.Methods, methodStatistics(m, total.size, total.byMethod[m]))
		}
		res.Levels = append(res.Levels, level)
	}
	return res, nil
}

func methodStatistics(m domain.DetectionMethod, total, unique int) domain.MethodStatistics {
	st := domain.MethodStatistics{Method: m, Total: total, Unique: unique, Duplicated: total - unique}
	if total > 0 {
		st.CloningRate = float64(st.Duplicated) / float64(total)
	}
	return st
}

// averager accumulates a weighted sample
type averager struct {
	n      int
	sum    float64
	sumSq  float64
	wSum   float64
	wTotal float64
	max    float64
}

func (a *averager) add(v, weight float64) {
	if a.n == 0 || v > a.max {
		a.max = v
	}
	a.n++
	a.sum += v
	a.sumSq += v * v
	a.wSum += v * weight
	a.wTotal += weight
}

func (a *averager) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

func (a *averager) stddev() float64 {
	if a.n == 0 {
		return 0
	}
	m := a.mean()
	return math.Sqrt(math.Max(0, a.sumSq/float64(a.n)-m*m))
}

func (a *averager) weightedMean() float64 {
	if a.wTotal == 0 {
		return 0
	}
	return a.wSum / a.wTotal
}

// ProjectMatching is the outcome of ComputeProjectMatching
type ProjectMatching struct {
	Statistics  []domain.ProjectMatchingStatistics
	MostCloning []domain.ProjectRanking
}

// ComputeProjectMatching measures, per confidence and method, how many of
// each project's files are cloned into other projects. The most-cloning
// ranking orders projects by the largest share of their files found in a
// single other project at HIGH combined confidence; limit caps its length
// when positive.
func ComputeProjectMatching(ctx context.Context, projects *ProjectMap, matches *ProjectMatchSet, limit int) (ProjectMatching, error) {
	var res ProjectMatching
	projects.factory.log.Info("Computing project matching...")

	for _, c := range domain.Confidences {
		for _, m := range domain.DetectionMethods {
			var (
				withClones    int
				totalCloned   averager
				percentCloned averager
				perPair       averager
				maxPerPair    averager
			)
			for _, pm := range matches.order {
				if err := ctx.Err(); err != nil {
					return res, err
				}
				size := pm.project.Size()
				cloned := make(map[*File]struct{})
				var pairs averager
				best, bestCount := "", 0
				for _, mp := range pm.MatchingProjects() {
					reverse := matches.Get(mp.project, pm.project)
					count := 0
					if reverse != nil {
						for _, status := range reverse.statuses {
							if got, ok := status.Get(m); ok && got >= c {
								count++
								cloned[status.file] = struct{}{}
							}
						}
					}
					pairs.add(float64(count), 1)
					if count > bestCount {
						best, bestCount = mp.project.name, count
					}
				}
				if len(cloned) == 0 || size == 0 {
					continue
				}
				withClones++
				totalCloned.add(float64(len(cloned)), 1)
				percentCloned.add(float64(len(cloned))/float64(size), float64(size))
				perPair.add(pairs.mean(), 1)
				maxPerPair.add(pairs.max, 1)

				if m == domain.MethodCombined && c == domain.ConfidenceHigh {
					res.MostCloning = append(res.MostCloning, domain.ProjectRanking{
						Project:        pm.project.name,
						Size:           size,
						MatchedProject: best,
						ClonedFiles:    bestCount,
						Percent:        float64(bestCount) / float64(size),
					})
				}
			}
			res.Statistics = append(res.Statistics, domain.ProjectMatchingStatistics{
				Confidence:         c,
				Method:             m,
				ProjectsWithClones: withClones,
				MeanClonedFiles:    totalCloned.mean(),
				StdDevClonedFiles:  totalCloned.stddev(),
				UnweightedPercent:  percentCloned.mean(),
				WeightedPercent:    percentCloned.weightedMean(),
				MeanFilesPerPair:   perPair.mean(),
				MaxFilesPerPair:    int(maxPerPair.max),
			})
		}
	}

	sort.SliceStable(res.MostCloning, func(i, j int) bool {
		a, b := res.MostCloning[i], res.MostCloning[j]
		if a.Percent != b.Percent {
			return a.Percent > b.Percent
		}
		return a.Project < b.Project
	})
	if limit > 0 && len(res.MostCloning) > limit {
		res.MostCloning = res.MostCloning[:limit]
	}
	return res, nil
}

// HighConfidencePairs lists every HIGH combined, FQN and fingerprint match
// between two files. Pairs that are also identical by hash are flagged.
func HighConfidencePairs(projects *ProjectMap, matches *ProjectMatchSet) []domain.FilePair {
	var pairs []domain.FilePair
	for _, m := range []domain.DetectionMethod{domain.MethodCombined, domain.MethodFqn, domain.MethodFingerprint} {
		for _, project := range projects.Projects() {
			for _, file := range project.files {
				if !file.HasAllKeys() {
					continue
				}
				key := file.Key(m)
				if key == nil {
					continue
				}
				for _, match := range key.Matches() {
					if match.File == file || match.Confidence != domain.ConfidenceHigh {
						continue
					}
					pairs = append(pairs, domain.FilePair{
						Method:    m,
						Source:    FileRef(file),
						Target:    FileRef(match.File),
						HashMatch: isHashMatch(matches, file, match.File),
					})
				}
			}
		}
	}
	return pairs
}

func isHashMatch(matches *ProjectMatchSet, from, to *File) bool {
	mp := matches.Get(from.project, to.project)
	if mp == nil {
		return false
	}
	status, ok := mp.Status(to)
	return ok && status.Is(domain.MethodHash, domain.ConfidenceHigh)
}

// FileRef renders a file as project:path
func FileRef(f *File) string {
	return f.project.name + ":" + f.path
}

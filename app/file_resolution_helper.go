package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/sourcerer/domain"
)

// ResolveListingPaths fills the listing paths a request left empty with the
// standard file names under dir, as written by the listing generator.
// Explicit paths are kept. An empty dir leaves the request untouched.
func ResolveListingPaths(dir string, req *domain.CloningStatsRequest) {
	if dir == "" || req == nil {
		return
	}
	if req.HashListing == "" {
		req.HashListing = filepath.Join(dir, domain.HashListingFile)
	}
	if req.FqnListing == "" {
		req.FqnListing = filepath.Join(dir, domain.FqnListingFile)
	}
	if req.FingerprintListing == "" {
		req.FingerprintListing = filepath.Join(dir, domain.FingerprintListingFile)
	}
}

// ResolveDirListingPath returns path, or the standard directory listing
// under dir when path is empty
func ResolveDirListingPath(dir, path string) string {
	if path != "" || dir == "" {
		return path
	}
	return filepath.Join(dir, domain.DirListingFile)
}

// ResolveReportPath names a timestamped report file under reportDir. It
// returns "" when reportDir is empty so the report goes to the writer.
func ResolveReportPath(reportDir, command string, format domain.OutputFormat, now time.Time) string {
	if reportDir == "" {
		return ""
	}
	name := fmt.Sprintf("%s_%s.%s", command, now.Format("20060102_150405"), format.Extension())
	return filepath.Join(reportDir, name)
}

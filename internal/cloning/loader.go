package cloning

import (
	"context"
	"io"

	"github.com/ludo-technologies/sourcerer/internal/listing"
)

// LoadHashListing attaches a hash key to every file of a hash listing
func LoadHashListing(ctx context.Context, r io.Reader, pm *ProjectMap, opts listing.Options) (listing.Stats, error) {
	pm.factory.log.Info("Loading hash file listing...")
	stats, err := listing.ReadHashListing(ctx, r, opts, func(rec listing.HashRecord) error {
		return pm.AddHash(rec.Project, rec.Path, rec.Md5)
	})
	pm.factory.log.Infof("  %d files loaded", stats.Records)
	return stats, err
}

// LoadFqnListing attaches an FQN key to every file of an FQN listing
func LoadFqnListing(ctx context.Context, r io.Reader, pm *ProjectMap, opts listing.Options) (listing.Stats, error) {
	pm.factory.log.Info("Loading fqn file listing...")
	stats, err := listing.ReadFqnListing(ctx, r, opts, func(rec listing.FqnRecord) error {
		return pm.AddFqn(rec.Project, rec.Path, rec.Fqn)
	})
	pm.factory.log.Infof("  %d files loaded", stats.Records)
	return stats, err
}

// LoadFingerprintListing attaches a fingerprint to every file of a
// fingerprint listing. Call KeyFactory.Seal once all files are loaded.
func LoadFingerprintListing(ctx context.Context, r io.Reader, pm *ProjectMap, opts listing.Options) (listing.Stats, error) {
	pm.factory.log.Info("Loading fingerprint file listing...")
	stats, err := listing.ReadFingerprintListing(ctx, r, opts, func(rec listing.FingerprintRecord) error {
		return pm.AddFingerprint(rec.Project, rec.Path, rec.Name, rec.Fields, rec.Methods)
	})
	pm.factory.log.Infof("  %d files loaded", stats.Records)
	return stats, err
}

// LoadDirMatching attaches a dir key to every already loaded file of a
// matched-files listing. Lines for unknown files are counted as skipped.
func LoadDirMatching(ctx context.Context, r io.Reader, pm *ProjectMap, opts listing.Options) (listing.Stats, error) {
	pm.factory.log.Info("Loading dir file listing...")
	stats, err := listing.ReadDirMatches(ctx, r, opts, func(rec listing.DirMatchRecord) error {
		found, err := pm.AddDirMatch(rec)
		if err != nil {
			return err
		}
		if !found {
			return listing.ErrSkip
		}
		return nil
	})
	pm.factory.log.Infof("  %d files loaded", stats.Records)
	return stats, err
}

// LoadDirectories reads a directory listing
func LoadDirectories(ctx context.Context, r io.Reader, opts listing.Options) ([]*Directory, listing.Stats, error) {
	var dirs []*Directory
	stats, err := listing.ReadDirListing(ctx, r, opts, func(rec listing.DirRecord) error {
		if len(rec.Files) == 0 {
			return listing.ErrSkip
		}
		dirs = append(dirs, NewDirectory(rec))
		return nil
	})
	return dirs, stats, err
}

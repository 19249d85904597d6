package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/domain"
)

const utilSource = `package org.example.util;

public class Util {
    private int size;

    public void run() {}
}
`

func TestListingService_Generate(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "p1/src/org/example/util/Util.java", utilSource)
	writeFile(t, repo, "p2/Util.java", utilSource)
	writeFile(t, repo, "p2/gen/Skipped.java", utilSource)
	writeFile(t, repo, "p3/Other.java", "class Other {}\n")
	out := filepath.Join(t.TempDir(), "listings")

	resp, err := NewListingService(nil, nil).Generate(context.Background(), &domain.ListingGenerateRequest{
		RepoDir:         repo,
		OutputDir:       out,
		ExcludePatterns: []string{"gen/**"},
		ExcludeProjects: []string{"p3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Projects)
	assert.Equal(t, 2, resp.Files)
	assert.Zero(t, resp.ParseErrors)
	assert.Equal(t, filepath.Join(out, domain.FqnListingFile), resp.FqnListing)

	fqns, err := os.ReadFile(resp.FqnListing)
	require.NoError(t, err)
	assert.Equal(t, "p1 src/org/example/util/Util.java org.example.util.Util\np2 Util.java org.example.util.Util\n", string(fqns))

	hashes, err := os.ReadFile(resp.HashListing)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(hashes)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Fields(lines[0])[2], strings.Fields(lines[1])[2], "identical files share a digest")

	for _, path := range []string{resp.FingerprintListing, resp.DirListing} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), path)
	}
}

func TestListingService_Errors(t *testing.T) {
	svc := NewListingService(nil, nil)

	_, err := svc.Generate(context.Background(), &domain.ListingGenerateRequest{OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))

	_, err = svc.Generate(context.Background(), &domain.ListingGenerateRequest{
		RepoDir:   filepath.Join(t.TempDir(), "missing"),
		OutputDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileNotFound))

	file := writeFile(t, t.TempDir(), "plain.txt", "x")
	_, err = svc.Generate(context.Background(), &domain.ListingGenerateRequest{RepoDir: file, OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInvalidInput))
}

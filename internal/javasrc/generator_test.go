package javasrc

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/sourcerer/internal/listing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const utilSource = `package org.example.util;
public class Util {
    int a, b;
    Util() {}
    void run() {}
    void stop() {}
}
`

func repository(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "p1/src/org/example/util/Util.java", utilSource)
	writeFile(t, root, "p1/src/org/example/util/Empty.java", "package org.example.util;\n")
	writeFile(t, root, "p1/Main.java", "class Main {}\n")
	writeFile(t, root, "p1/README.md", "not java")
	writeFile(t, root, "p1/build/Generated.java", "class Generated {}\n")
	writeFile(t, root, "p2/lib/Util.java", utilSource)
	writeFile(t, root, "p3/X.java", "class X {}\n")
	writeFile(t, root, ".git/Hidden.java", "class Hidden {}\n")
	return root
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestWalker(t *testing.T) {
	root := repository(t)
	filter, err := listing.NewProjectFilter(nil, []string{"p3"})
	require.NoError(t, err)
	w := &Walker{Root: root, Exclude: []string{"build/**"}, Filter: filter}

	projects, err := w.Projects()
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, projects)

	var files []string
	require.NoError(t, w.WalkProject(context.Background(), "p1", func(f SourceFile) error {
		files = append(files, f.Path)
		return nil
	}))
	assert.Equal(t, []string{
		"Main.java",
		"src/org/example/util/Empty.java",
		"src/org/example/util/Util.java",
	}, files)

	f := SourceFile{Project: "p1", Path: "src/a/B.java"}
	assert.Equal(t, "src/a", f.Dir())
	assert.Equal(t, "B.java", f.Name())
	assert.Equal(t, ".", SourceFile{Path: "B.java"}.Dir())
}

func TestGenerate(t *testing.T) {
	root := repository(t)
	filter, err := listing.NewProjectFilter(nil, []string{"p3"})
	require.NoError(t, err)
	g := NewGenerator(&Walker{Root: root, Exclude: []string{"build/**"}, Filter: filter}, nil)

	var progress []string
	g.Progress = func(project string, done, total int) {
		progress = append(progress, project)
		assert.Equal(t, 2, total)
	}

	var hash, fqns, fp, dirs bytes.Buffer
	sum, err := g.Generate(context.Background(), Listings{Hash: &hash, Fqn: &fqns, Fingerprint: &fp, Dir: &dirs})
	require.NoError(t, err)

	assert.Equal(t, Summary{Projects: 2, Files: 4, Typed: 3, Dirs: 3}, sum)
	assert.Equal(t, []string{"p1", "p2"}, progress)

	digest := md5.Sum([]byte(utilSource))
	md5hex := hex.EncodeToString(digest[:])
	hashLines := lines(hash.String())
	require.Len(t, hashLines, 4)
	assert.True(t, strings.HasPrefix(hashLines[2], "p1 src/org/example/util/Util.java "+md5hex+" "))
	assert.True(t, strings.HasPrefix(hashLines[3], "p2 lib/Util.java "+md5hex+" "))

	assert.Equal(t, []string{
		"p1 Main.java default.Main",
		"p1 src/org/example/util/Util.java org.example.util.Util",
		"p2 lib/Util.java org.example.util.Util",
	}, lines(fqns.String()))

	assert.Equal(t, "p1 src/org/example/util/Util.java Util 2 a b 1 Util 2 run stop", lines(fp.String())[1])

	assert.Equal(t, []string{
		"p1 . Main.java",
		"p1 src/org/example/util Empty.java Util.java",
		"p2 lib Util.java",
	}, lines(dirs.String()))
}

func TestGenerateOutputsReadBack(t *testing.T) {
	root := repository(t)
	g := NewGenerator(&Walker{Root: root}, nil)

	var fp bytes.Buffer
	_, err := g.Generate(context.Background(), Listings{Fingerprint: &fp})
	require.NoError(t, err)

	var names []string
	stats, err := listing.ReadFingerprintListing(context.Background(), &fp, listing.Options{},
		func(rec listing.FingerprintRecord) error {
			names = append(names, rec.Project+":"+rec.Name)
			return nil
		})
	require.NoError(t, err)
	assert.Zero(t, stats.Malformed)
	assert.Equal(t, []string{"p1:Main", "p1:Generated", "p1:Util", "p2:Util", "p3:X"}, names)
}

func TestGenerateSkipsUnwritablePaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "p1/my dir/A.java", "class A {}\n")
	writeFile(t, root, "p1/B.java", "class B {}\n")

	var fqns, dirs bytes.Buffer
	sum, err := NewGenerator(&Walker{Root: root}, nil).Generate(context.Background(), Listings{Fqn: &fqns, Dir: &dirs})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, "p1 B.java default.B\n", fqns.String())
	assert.Equal(t, "p1 . B.java\n", dirs.String())
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator(&Walker{Root: repository(t)}, nil).Generate(ctx, Listings{})
	assert.ErrorIs(t, err, context.Canceled)
}

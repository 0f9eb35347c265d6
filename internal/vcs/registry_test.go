package vcs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/vcprobe/internal/models"
)

func TestRegistryNames(t *testing.T) {
	r := NewRegistry(testEnv(newFakeRunner()))
	assert.Equal(t, []string{"git", "hg", "svn"}, r.Names())
}

func TestDetectPriority(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, ".git"))
	mkdir(t, filepath.Join(root, ".hg"))
	mkdir(t, filepath.Join(root, ".svn"))

	b, wc, ok := NewRegistry(testEnv(newFakeRunner())).Detect(root)
	require.True(t, ok)
	assert.Equal(t, "git", b.Name())
	assert.Equal(t, root, wc.Root)
	assert.Equal(t, root, wc.Dir)
	assert.Empty(t, wc.RelPath)
}

func TestDetectWalksUp(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, ".hg"))
	sub := filepath.Join(root, "src", "pkg")
	mkdir(t, sub)

	b, wc, ok := NewRegistry(testEnv(newFakeRunner())).Detect(sub)
	require.True(t, ok)
	assert.Equal(t, "hg", b.Name())
	assert.Equal(t, root, wc.Root)
	assert.Equal(t, sub, wc.Dir)
	assert.Equal(t, "src/pkg", wc.RelPath)
}

func TestDetectNearestWins(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, ".git"))
	nested := filepath.Join(root, "vendor", "lib")
	mkdir(t, filepath.Join(nested, ".svn"))

	b, wc, ok := NewRegistry(testEnv(newFakeRunner())).Detect(nested)
	require.True(t, ok)
	assert.Equal(t, "svn", b.Name())
	assert.Equal(t, nested, wc.Root)
}

func TestProbeNothingDetected(t *testing.T) {
	dir := t.TempDir()
	// only the empty registry is guaranteed not to find a parent checkout
	r := NewRegistryWith()
	assert.Nil(t, r.Probe(context.Background(), dir, models.Options{ShowBranch: true}))
}

func TestProbeExtractFailureYieldsNil(t *testing.T) {
	root := t.TempDir()
	// .git directory without HEAD
	mkdir(t, filepath.Join(root, ".git"))

	r := NewRegistryWith(NewGit(testEnv(newFakeRunner())))
	assert.Nil(t, r.Probe(context.Background(), root, models.Options{ShowBranch: true}))
}

func TestProbeIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main\n")
	writeFile(t, filepath.Join(root, ".git", "refs", "heads", "main"), "0123456789abcdef0123456789abcdef01234567\n")

	r := NewRegistryWith(NewGit(testEnv(newFakeRunner())))
	opts := models.Options{ShowBranch: true, ShowRevision: true}
	first := r.Probe(context.Background(), root, opts)
	second := r.Probe(context.Background(), root, opts)
	require.NotNil(t, first)
	assert.Equal(t, first, second)
}

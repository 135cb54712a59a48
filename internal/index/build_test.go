package index

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdjan/rlm-git-commits/internal/gitlog"
)

func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}
	run("init")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("1"), 0o644))
	run("add", "a.txt")
	run("commit", "-m", "feat(auth): add login flow\n\nadds the login flow\n\nIntent: enable-capability\nScope: auth\nSession: 2026-01-01/s1")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("2"), 0o644))
	run("add", "a.txt")
	run("commit", "-m", "some random commit with no trailers at all")
	return dir
}

func TestBuild_IndexesParseableCommitsAndDiscardsRest(t *testing.T) {
	dir := newTestRepo(t)
	runner := gitlog.New(dir)

	idx, err := Build(context.Background(), runner, 50)
	require.NoError(t, err)

	assert.Equal(t, 1, idx.CommitCount)
	assert.NotEmpty(t, idx.HeadCommit)
	assert.Contains(t, idx.ByScope, "auth")
	assert.Contains(t, idx.ByIntent, "enable-capability")
}

func TestBuild_RoundTripsThroughPersist(t *testing.T) {
	dir := newTestRepo(t)
	runner := gitlog.New(dir)

	idx, err := Build(context.Background(), runner, 50)
	require.NoError(t, err)

	path := PathFor(filepath.Join(dir, ".git"))
	require.NoError(t, Persist(idx, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, idx.HeadCommit, loaded.HeadCommit)
	assert.Equal(t, idx.CommitCount, loaded.CommitCount)
}

package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdjan/rlm-git-commits/internal/gitlog"
)

func TestLiveGrep_FindsMatchingCommitWithoutAnIndex(t *testing.T) {
	dir := newTestRepo(t)
	runner := gitlog.New(dir)

	commits, err := LiveGrep(context.Background(), runner, "auth", 10)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "auth", commits[0].Scope[0])
	assert.Equal(t, "enable-capability", commits[0].Intent)
}

func TestLiveGrep_NoMatchReturnsEmpty(t *testing.T) {
	dir := newTestRepo(t)
	runner := gitlog.New(dir)

	commits, err := LiveGrep(context.Background(), runner, "nonexistent-term-xyz", 10)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestLiveGrep_RejectsDangerousTerm(t *testing.T) {
	dir := newTestRepo(t)
	runner := gitlog.New(dir)

	_, err := LiveGrep(context.Background(), runner, "auth; rm -rf /", 10)
	assert.Error(t, err)
}

package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistAndLoadRoundTrip(t *testing.T) {
	idx := buildScenarioIndex()
	idx.HeadCommit = "deadbeef"
	idx.CommitCount = len(idx.Commits)

	path := filepath.Join(t.TempDir(), "info", FileName)
	require.NoError(t, Persist(idx, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, idx.HeadCommit, loaded.HeadCommit)
	assert.Equal(t, idx.Order, loaded.Order)

	for bucket, hashes := range loaded.ByIntent {
		for _, h := range hashes {
			_, ok := loaded.Commits[h]
			assert.True(t, ok, "hash %s in byIntent[%s] must be a key in commits", h, bucket)
		}
	}
	for h := range loaded.WithDecidedAgainst {
		c, ok := loaded.Commits[h]
		require.True(t, ok)
		assert.NotEmpty(t, c.DecidedAgainst)
	}
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, idx)
}

package memory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEntry_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "working-memory.json")
	sessionID := "2026-08-06/tests"

	entries := []Entry{
		{Tag: TagFinding, Text: "index freshness check works"},
		{Tag: TagDecision, Text: "use word-boundary match for decided-against"},
		{Tag: TagTodo, Text: "add fsnotify watch command"},
	}
	for _, e := range entries {
		require.NoError(t, AddEntry(path, sessionID, e))
	}

	wm, err := Load(path, sessionID)
	require.NoError(t, err)
	require.NotNil(t, wm)
	require.Len(t, wm.Entries, 3)
	for i, e := range entries {
		assert.Equal(t, e.Tag, wm.Entries[i].Tag)
		assert.Equal(t, e.Text, wm.Entries[i].Text)
		assert.NotEmpty(t, wm.Entries[i].Timestamp)
	}
}

func TestLoad_SessionMismatchIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "working-memory.json")
	require.NoError(t, AddEntry(path, "2026-08-06/session-a", Entry{Tag: TagFinding, Text: "x"}))

	wm, err := Load(path, "2026-08-06/session-b")
	require.NoError(t, err)
	assert.Nil(t, wm)
}

func TestClear_AbsentFileIsSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	assert.NoError(t, Clear(path))
}

func TestFormat_WrapsAndLimits(t *testing.T) {
	wm := &WorkingMemory{SessionID: "s", Entries: []Entry{
		{Tag: TagFinding, Text: "one"},
		{Tag: TagFinding, Text: "two"},
	}}
	out := Format(wm, 1)
	assert.Contains(t, out, `<working-memory session="s" entries="1">`)
	assert.Contains(t, out, "two")
	assert.NotContains(t, out, "] one")
}

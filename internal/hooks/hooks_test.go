package hooks

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdjan/rlm-git-commits/internal/config"
	"github.com/srdjan/rlm-git-commits/internal/gitlog"
	"github.com/srdjan/rlm-git-commits/internal/memory"
)

// initRepo creates a throwaway git repository with one trailer-bearing
// commit, so tests that need the live grep fallback (a real `git log`
// subprocess) have something to grep against.
func initRepo(t *testing.T) string {
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
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	run("add", "a.txt")
	run("commit", "-m", "feat(auth): add login flow\n\nadds the login flow\n\nIntent: enable-capability\nScope: auth\nSession: 2026-01-01/s1")
	return dir
}

func testDeps(t *testing.T) Deps {
	dir := initRepo(t)
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(filepath.Join(gitDir, "info"), 0o755))
	return Deps{
		GitDir: gitDir,
		Config: config.Default(),
		Git:    gitlog.New(dir),
	}
}

func TestPromptSubmit_NoIndexStillReturnsSignals(t *testing.T) {
	deps := testDeps(t)
	out := PromptSubmit(context.Background(), deps, "sess-1", "fix the auth login bug")
	assert.Contains(t, out, "<prompt-signals")
}

func TestPromptSubmit_IncludesWorkingMemoryWhenPresent(t *testing.T) {
	deps := testDeps(t)
	require.NoError(t, memory.AddEntry(memory.PathFor(deps.GitDir), "sess-1", memory.Entry{
		Tag: memory.TagFinding, Text: "index freshness works",
	}))

	out := PromptSubmit(context.Background(), deps, "sess-1", "what did we find?")
	assert.Contains(t, out, "index freshness works")
}

func TestPromptSubmit_ReplDisabledSkipsAnswer(t *testing.T) {
	deps := testDeps(t)
	deps.Config.Enabled = false
	out := PromptSubmit(context.Background(), deps, "sess-1", "anything")
	assert.NotContains(t, out, "<rlm-answer>")
}

func TestPostTool_NoIndexReturnsEmpty(t *testing.T) {
	deps := testDeps(t)
	out := PostTool(context.Background(), deps, Envelope{ToolName: "Bash"})
	assert.Empty(t, out)
}

func TestPostTool_FallsBackToLiveGrepWhenIndexMissing(t *testing.T) {
	deps := testDeps(t)
	out := PostTool(context.Background(), deps, Envelope{
		ToolName: "Bash",
		ToolInput: struct {
			Command string `json:"command"`
		}{Command: "add auth support broadly"},
	})
	assert.Contains(t, out, "<trailer-context>")
	assert.Contains(t, out, "add login flow")
}

func TestSessionStop_AbsentWorkingMemoryReturnsEmpty(t *testing.T) {
	deps := testDeps(t)
	out := SessionStop(context.Background(), deps, "sess-none")
	assert.Empty(t, out)
}

func TestSessionStop_ConsolidatesAndClears(t *testing.T) {
	deps := testDeps(t)
	path := memory.PathFor(deps.GitDir)
	require.NoError(t, memory.AddEntry(path, "sess-2", memory.Entry{
		Tag: memory.TagDecision, Text: "reject the retry loop", Scope: []string{"index"},
	}))

	out := SessionStop(context.Background(), deps, "sess-2")
	assert.Contains(t, out, "<session-summary")
	assert.Contains(t, out, "Decided-Against: reject the retry loop")

	wm, err := memory.Load(path, "sess-2")
	require.NoError(t, err)
	assert.Nil(t, wm)

	summaryPath := SessionSummaryPath(deps.GitDir, "sess-2")
	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sess-2")
}

func TestDispatch_UnknownEventProducesNoOutput(t *testing.T) {
	deps := testDeps(t)
	r := strings.NewReader(`{"hook_event_name": "SomethingElse"}`)
	var w strings.Builder
	Dispatch(context.Background(), r, &w, deps)
	assert.Empty(t, w.String())
}

func TestDispatch_MalformedEnvelopeNeverPanics(t *testing.T) {
	deps := testDeps(t)
	r := strings.NewReader(`not json at all`)
	var w strings.Builder
	assert.NotPanics(t, func() {
		Dispatch(context.Background(), r, &w, deps)
	})
}

func TestDispatch_PromptSubmitRoutesCorrectly(t *testing.T) {
	deps := testDeps(t)
	r := strings.NewReader(`{"hook_event_name": "UserPromptSubmit", "session_id": "s1", "prompt": "fix auth bug"}`)
	var w strings.Builder
	Dispatch(context.Background(), r, &w, deps)
	assert.Contains(t, w.String(), "<prompt-signals")
}

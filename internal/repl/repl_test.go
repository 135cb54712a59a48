package repl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/srdjan/rlm-git-commits/internal/gitlog"
	"github.com/srdjan/rlm-git-commits/internal/index"
	"github.com/srdjan/rlm-git-commits/internal/llmclient"
)

// scriptedLLM returns replies in order, one per Chat call.
type scriptedLLM struct {
	replies []string
	calls   int
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []llmclient.Message) (string, error) {
	if s.calls >= len(s.replies) {
		s.calls++
		return "Iteration budget exhausted, no more scripted replies.", nil
	}
	r := s.replies[s.calls]
	s.calls++
	return r, nil
}

func sampleEnv() Env {
	idx := &index.TrailerIndex{
		CommitCount: 2,
		ByScope:     map[string][]string{"auth": {"aaa", "ccc"}},
		Commits: map[string]index.IndexedCommit{
			"aaa": {Hash: "aaa", Scope: []string{"auth/login"}, Intent: "fix-defect"},
			"ccc": {Hash: "ccc", Scope: []string{"auth"}, Intent: "enable-capability"},
		},
		Order: []string{"aaa", "ccc"},
	}
	return Env{Index: idx, ScopeKeys: []string{"auth", "auth/login", "cache"}}
}

func TestRun_NoFenceReturnsTextImmediately(t *testing.T) {
	defer goleak.VerifyNone(t)
	llm := &scriptedLLM{replies: []string{"The answer is 42."}}
	res, err := Run(context.Background(), DefaultConfig(), sampleEnv(), "what is the answer?", llm, gitlog.New(""))
	require.NoError(t, err)
	assert.Equal(t, "The answer is 42.", res.Answer)
	assert.Equal(t, 1, res.Iterations)
}

func TestRun_QueryThenDone(t *testing.T) {
	defer goleak.VerifyNone(t)
	code := "```go\n" +
		`import "fmt"
commits := Query("auth", []string{}, "", "", 0)
Done("Found " + fmt.Sprint(len(commits)) + " auth commits")` +
		"\n```"
	llm := &scriptedLLM{replies: []string{code}}
	res, err := Run(context.Background(), DefaultConfig(), sampleEnv(), "how many auth commits?", llm, gitlog.New(""))
	require.NoError(t, err)
	assert.Equal(t, "Found 2 auth commits", res.Answer)
	assert.Equal(t, 1, res.Iterations)
	assert.GreaterOrEqual(t, res.LLMCallCount, 1)
}

func TestRun_ExhaustsIterationsAndForcesTextAnswer(t *testing.T) {
	defer goleak.VerifyNone(t)
	nonDoneCode := "```go\nLog(\"still working\")\n```"
	cfg := Config{MaxIterations: 3, MaxLLMCalls: 10, TimeoutBudgetMs: 15000, MaxOutputTokens: 512}
	llm := &scriptedLLM{replies: []string{nonDoneCode, nonDoneCode, nonDoneCode, "Here is my best guess."}}

	res, err := Run(context.Background(), cfg, sampleEnv(), "investigate", llm, gitlog.New(""))
	require.NoError(t, err)
	assert.Equal(t, "Here is my best guess.", res.Answer)
	assert.LessOrEqual(t, res.LLMCallCount, cfg.MaxLLMCalls+1)
}

func TestRun_LLMFailurePropagates(t *testing.T) {
	llm := failingLLM{}
	_, err := Run(context.Background(), DefaultConfig(), sampleEnv(), "x", llm, gitlog.New(""))
	assert.Error(t, err)
}

type failingLLM struct{}

func (failingLLM) Chat(ctx context.Context, messages []llmclient.Message) (string, error) {
	return "", assertErr{}
}

type assertErr struct{}

func (assertErr) Error() string { return "llm endpoint unreachable" }

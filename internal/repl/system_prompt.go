package repl

import (
	"fmt"
	"strings"

	"github.com/srdjan/rlm-git-commits/internal/trailer"
)

const scopeKeySampleCap = 20

// buildSystemPrompt renders the fixed sandbox system prompt (§6.3): the
// eight bound API names, the intent vocabulary, a capped scope-key
// sample, the commit count, whether working memory is present, and the
// budget numbers. It never embeds a commit hash.
func buildSystemPrompt(env Env, cfg Config) string {
	var b strings.Builder

	b.WriteString("You are an assistant with access to a sandboxed Go execution environment over this repository's commit history.\n\n")
	b.WriteString("Available functions in your code:\n")
	b.WriteString("- Query(scope string, intents []string, session string, decidedAgainst string, limit int) []IndexedCommit\n")
	b.WriteString("- CallLLM(prompt string) (string, error)\n")
	b.WriteString("- GitLog(args []string) (string, error)\n")
	b.WriteString("- Done(answer string)\n")
	b.WriteString("- Log(args ...interface{})\n")
	b.WriteString("- Index() *TrailerIndex\n")
	b.WriteString("- WorkingMemory() *WorkingMemory\n")
	b.WriteString("- ScopeKeys() []string\n\n")

	b.WriteString("Intent vocabulary: ")
	b.WriteString(strings.Join(intentNames(), ", "))
	b.WriteString("\n\n")

	sample := env.ScopeKeys
	if len(sample) > scopeKeySampleCap {
		sample = sample[:scopeKeySampleCap]
	}
	fmt.Fprintf(&b, "Known scope keys (sample of %d): %s\n\n", len(sample), strings.Join(sample, ", "))

	commitCount := 0
	if env.Index != nil {
		commitCount = env.Index.CommitCount
	}
	fmt.Fprintf(&b, "Indexed commit count: %d\n", commitCount)
	fmt.Fprintf(&b, "Working memory present: %t\n\n", env.WorkingMemory != nil)

	fmt.Fprintf(&b, "Budgets: max %d iterations, max %d LLM calls, %d ms wall clock, %d max output tokens.\n",
		cfg.MaxIterations, cfg.MaxLLMCalls, cfg.TimeoutBudgetMs, cfg.MaxOutputTokens)
	b.WriteString("Write a fenced ```go code block that calls these functions and finishes with Done(answer) once you have enough context.\n")

	return b.String()
}

func intentNames() []string {
	all := trailer.AllIntents()
	out := make([]string, len(all))
	for i, in := range all {
		out[i] = string(in)
	}
	return out
}

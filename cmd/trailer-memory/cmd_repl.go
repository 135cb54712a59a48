package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srdjan/rlm-git-commits/internal/index"
	"github.com/srdjan/rlm-git-commits/internal/memory"
	"github.com/srdjan/rlm-git-commits/internal/repl"
)

var replSession string

var replCmd = &cobra.Command{
	Use:   "repl [prompt]",
	Short: "Run one RLM REPL turn against the trailer index",
	Long: `Runs the C9 REPL driver once against the persisted index and the
given session's working memory, printing the sandbox trace and the
final answer. Useful for exercising the RLM loop outside a live hook
invocation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRepl,
}

func init() {
	replCmd.Flags().StringVar(&replSession, "session", "cli", "session id whose working memory to use")
}

func runRepl(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	gitDir, err := resolveGitDir(ctx)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(gitDir)
	if err != nil {
		return err
	}
	llm := llmClientFor(cfg)
	if llm == nil {
		return errors.New("Error [repl]: RLM feature is disabled in rlm-config.json")
	}

	idx, err := index.LoadFresh(ctx, index.PathFor(gitDir), gitRunner())
	if err != nil {
		return fmt.Errorf("index-load-failed: %w", err)
	}

	wm, err := memory.Load(memory.PathFor(gitDir), replSession)
	if err != nil {
		return fmt.Errorf("memory-load-failed: %w", err)
	}

	scopeKeys := []string{}
	if idx != nil {
		for k := range idx.ByScope {
			scopeKeys = append(scopeKeys, k)
		}
	}

	cfgRepl := repl.Config{
		MaxIterations:   cfg.ReplMaxIterations,
		MaxLLMCalls:     cfg.ReplMaxLlmCalls,
		TimeoutBudgetMs: cfg.ReplTimeoutBudgetMs,
		MaxOutputTokens: cfg.ReplMaxOutputTokens,
	}
	env := repl.Env{Index: idx, WorkingMemory: wm, ScopeKeys: scopeKeys}

	res, err := repl.Run(ctx, cfgRepl, env, strings.Join(args, " "), llm, gitRunner())
	if err != nil {
		return fmt.Errorf("repl-run-failed: %w", err)
	}

	for _, t := range res.Trace {
		fmt.Fprintf(os.Stdout, "--- iteration %d ---\n%s\n%s\n", t.Iteration, t.Code, t.Output)
	}
	fmt.Fprintf(os.Stdout, "\nanswer: %s\n", res.Answer)
	return nil
}

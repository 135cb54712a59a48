package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srdjan/rlm-git-commits/internal/hooks"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Operate on session working memory",
}

var sessionSummaryCmd = &cobra.Command{
	Use:   "summary <session-id>",
	Short: "Consolidate and print a session's working memory, then clear it",
	Long: `Runs the same consolidation (C7) the Stop hook runs: groups working
memory by tag into a fixed-order Markdown summary, derives trailer
hints from decision-tagged entries, persists the summary, and clears
working memory. Lets an operator trigger session-end consolidation
without a live Stop event.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionSummary,
}

func init() {
	sessionCmd.AddCommand(sessionSummaryCmd)
}

func runSessionSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	gitDir, err := resolveGitDir(ctx)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(gitDir)
	if err != nil {
		return err
	}

	deps := hooks.Deps{GitDir: gitDir, Config: cfg, Git: gitRunner()}
	out := hooks.SessionStop(ctx, deps, args[0])
	if out == "" {
		fmt.Fprintln(os.Stdout, "no working memory found for that session")
		return nil
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}

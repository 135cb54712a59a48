package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/srdjan/rlm-git-commits/internal/hooks"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run a lifecycle hook, reading its JSON envelope from stdin",
	Long: `Reads one hook envelope (§6.4) from stdin and writes the matching
lifecycle handler's plain-text output to stdout. Always exits 0: hook
failures are silent by design, never surfaced as a CLI error (§6.4, §7).`,
	RunE: runHook,
}

func init() {
	hookCmd.AddCommand(&cobra.Command{
		Use:   "prompt-submit",
		Short: "Run the UserPromptSubmit hook",
		RunE:  runHook,
	})
	hookCmd.AddCommand(&cobra.Command{
		Use:   "post-tool",
		Short: "Run the PostToolUse hook",
		RunE:  runHook,
	})
	hookCmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Run the Stop hook",
		RunE:  runHook,
	})
}

// runHook is shared by all three hook subcommands: the envelope's own
// hook_event_name field determines which lifecycle handler runs
// (§6.4), so the subcommand name is a convenience for the operator,
// not additional routing information.
func runHook(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	gitDir, err := resolveGitDir(ctx)
	if err != nil {
		// A hook must never fail the host agent's turn; swallow and
		// emit nothing rather than a non-zero exit (§6.4).
		return nil
	}
	cfg, err := loadConfig(gitDir)
	if err != nil {
		return nil
	}

	deps := hooks.Deps{
		GitDir: gitDir,
		Config: cfg,
		Git:    gitRunner(),
		LLM:    llmClientFor(cfg),
	}

	hooks.Dispatch(ctx, os.Stdin, os.Stdout, deps)
	return nil
}

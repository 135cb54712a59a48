// Command trailer-memory is the operator and hook-runner CLI for the
// commit-history memory service: it builds and queries the trailer
// index, runs the RLM REPL, dispatches hook lifecycle events, and
// validates commit messages against the trailer conventions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/srdjan/rlm-git-commits/internal/config"
	"github.com/srdjan/rlm-git-commits/internal/gitlog"
	"github.com/srdjan/rlm-git-commits/internal/llmclient"
	"github.com/srdjan/rlm-git-commits/internal/logging"
)

var (
	verbose    bool
	workspace  string
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trailer-memory",
	Short: "Commit-history memory service for an AI coding agent",
	Long: `trailer-memory builds and queries an inverted index over Git commit
trailers, validates conventional-commit trailer format, and drives an
RLM (Recursive Language Model) agent loop that injects prior-commit
context at prompt-submit, post-tool, and session-stop lifecycle points.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "repository working directory")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to rlm-config.json (defaults to <git-dir>/info/rlm-config.json)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(sessionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error [cli]: %v\n", err)
		os.Exit(1)
	}
}

// gitRunner returns a Runner whose git subprocesses run in the
// workspace directory.
func gitRunner() *gitlog.Runner {
	return gitlog.New(workspace)
}

// resolveGitDir shells out to `git rev-parse --absolute-git-dir` so
// every command anchors its index/config/log paths at the same
// location regardless of the caller's working directory.
func resolveGitDir(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "-C", workspace, "rev-parse", "--absolute-git-dir").Output()
	if err != nil {
		return "", fmt.Errorf("resolve-git-dir-failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// loadConfig loads the RLM config from configPath, or from
// <git-dir>/info/rlm-config.json when configPath is unset, and
// initializes the category logger against gitDir.
func loadConfig(gitDir string) (*config.RlmConfig, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(gitDir, "info", "rlm-config.json")
	}
	cfg, err := config.Load(path, workspace)
	if err != nil {
		return nil, fmt.Errorf("load-config-failed: %w", err)
	}
	if err := logging.Initialize(gitDir, cfg.Debug || verbose); err != nil {
		return nil, fmt.Errorf("logging-init-failed: %w", err)
	}
	return cfg, nil
}

// llmClientFor builds the injected LLM effect from cfg, or nil when
// the RLM feature is disabled.
func llmClientFor(cfg *config.RlmConfig) llmclient.Client {
	if !cfg.Enabled {
		return nil
	}
	timeout := timeoutFromMs(cfg.TimeoutMs)
	return llmclient.New(cfg.Endpoint, cfg.Model, timeout)
}

func timeoutFromMs(ms int) time.Duration {
	if ms <= 0 {
		return 5 * time.Second
	}
	return time.Duration(ms) * time.Millisecond
}

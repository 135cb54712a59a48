package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/srdjan/rlm-git-commits/internal/index"
	"github.com/srdjan/rlm-git-commits/internal/logging"
)

var indexN int

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or watch the trailer index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the trailer index from git log",
	Long: `Runs the C1 parser over the last N commits (§4.1), populates the
inverted index (§4.4), and persists it to <git-dir>/info/trailer-index.json.
This is the "operator task" the lifecycle rules refer to; hooks only ever
read the index, they never rebuild it.`,
	RunE: runIndexBuild,
}

var indexWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch .git/HEAD and rebuild the index on every commit",
	Long: `Watches the git directory's HEAD and refs for changes and rebuilds
the trailer index at the next debounce tick, so the index stays
fresh without an operator running "index build" after every commit.`,
	RunE: runIndexWatch,
}

func init() {
	indexBuildCmd.Flags().IntVarP(&indexN, "count", "n", 500, "number of recent commits to index")
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexWatchCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	gitDir, err := resolveGitDir(ctx)
	if err != nil {
		return err
	}
	if _, err := loadConfig(gitDir); err != nil {
		return err
	}

	idx, err := index.Build(ctx, gitRunner(), indexN)
	if err != nil {
		return fmt.Errorf("index-build-failed: %w", err)
	}
	if err := index.Persist(idx, index.PathFor(gitDir)); err != nil {
		return fmt.Errorf("index-persist-failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "✓ indexed %d commits at %s\n", idx.CommitCount, idx.HeadCommit[:min(8, len(idx.HeadCommit))])
	return nil
}

// debounceWindow is the tick interval of the watcher: at each tick it
// rebuilds the index once if any HEAD/refs event arrived since the
// previous tick. Events do not push the rebuild back.
const debounceWindow = 500 * time.Millisecond

func runIndexWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	gitDir, err := resolveGitDir(ctx)
	if err != nil {
		return err
	}
	if _, err := loadConfig(gitDir); err != nil {
		return err
	}
	log := logging.Get(logging.CategoryIndex)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher-init-failed: %w", err)
	}
	defer watcher.Close()

	headPath := filepath.Join(gitDir, "HEAD")
	refsHeadsDir := filepath.Join(gitDir, "refs", "heads")
	if err := watcher.Add(headPath); err != nil {
		return fmt.Errorf("watch-head-failed: %w", err)
	}
	if err := os.MkdirAll(refsHeadsDir, 0o755); err == nil {
		_ = watcher.Add(refsHeadsDir)
	}

	fmt.Fprintf(os.Stdout, "watching %s for commits (ctrl-c to stop)\n", headPath)

	var mu sync.Mutex
	pending := false
	rebuild := func() {
		idx, err := index.Build(ctx, gitRunner(), indexN)
		if err != nil {
			log.Warn("index watch: rebuild failed: %v", err)
			return
		}
		if err := index.Persist(idx, index.PathFor(gitDir)); err != nil {
			log.Warn("index watch: persist failed: %v", err)
			return
		}
		log.Info("index watch: rebuilt %d commits at %s", idx.CommitCount, idx.HeadCommit)
	}

	debounce := time.NewTicker(debounceWindow)
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.Contains(event.Name, "HEAD") && !strings.HasPrefix(event.Name, refsHeadsDir) {
				continue
			}
			mu.Lock()
			pending = true
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("index watch: %v", err)

		case <-debounce.C:
			mu.Lock()
			fire := pending
			pending = false
			mu.Unlock()
			if fire {
				rebuild()
			}
		}
	}
}

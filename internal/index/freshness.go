package index

import (
	"context"

	"github.com/srdjan/rlm-git-commits/internal/gitlog"
	"github.com/srdjan/rlm-git-commits/internal/logging"
)

// LoadFresh loads the persisted index at path and returns it only if
// its HeadCommit matches the repository's current HEAD. On any
// mismatch, absence, or read failure, it returns (nil, nil) so callers
// transparently fall back to a live `git log --grep` (§4.4).
func LoadFresh(ctx context.Context, path string, runner *gitlog.Runner) (*TrailerIndex, error) {
	log := logging.Get(logging.CategoryIndex)

	idx, err := Load(path)
	if err != nil {
		log.Warn("failed to load index at %s: %v", path, err)
		return nil, nil
	}
	if idx == nil {
		return nil, nil
	}

	head, err := runner.HEAD(ctx)
	if err != nil {
		log.Warn("failed to resolve HEAD for freshness check: %v", err)
		return nil, nil
	}

	if idx.HeadCommit != head {
		log.Info("index stale: indexed head %s, current head %s", idx.HeadCommit, head)
		return nil, nil
	}
	return idx, nil
}

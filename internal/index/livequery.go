package index

import (
	"context"
	"strconv"

	"github.com/srdjan/rlm-git-commits/internal/gitlog"
	"github.com/srdjan/rlm-git-commits/internal/logging"
	"github.com/srdjan/rlm-git-commits/internal/trailer"
)

// LiveGrep runs a sanitized `git log --grep=<term>` directly against
// the repository and parses whatever it returns through the C1 parser.
// It is the fallback a caller takes when LoadFresh returns a nil index
// (missing or stale): rather than reporting "no context" or an error,
// it answers from the live history, at the cost of only ever matching
// term against commit message text rather than the structured index
// dimensions (§3, §4.4: "on mismatch, callers transparently fall back
// to live git log --grep").
func LiveGrep(ctx context.Context, runner *gitlog.Runner, term string, limit int) ([]IndexedCommit, error) {
	log := logging.Get(logging.CategoryIndex)
	if limit <= 0 {
		limit = defaultLimit
	}

	out, err := runner.Sanitized(ctx, []string{
		"--grep=" + term,
		"--format=" + gitlog.RecordFormat,
		"-n", strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	var results []IndexedCommit
	for _, record := range gitlog.SplitRecords(out) {
		commit, err := trailer.ParseCommit(record)
		if err != nil {
			log.Debug("live grep: discarding unparseable commit record: %v", err)
			continue
		}
		if !validCommitType(commit.Type) {
			continue
		}
		results = append(results, IndexedCommit{
			Hash:           commit.Hash,
			Date:           commit.Date,
			Subject:        commit.Subject,
			Intent:         string(commit.Intent),
			Scope:          commit.Scope,
			Session:        commit.Session,
			DecidedAgainst: commit.DecidedAgainst,
		})
	}
	return results, nil
}

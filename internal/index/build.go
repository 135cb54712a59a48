package index

import (
	"context"
	"time"

	"github.com/srdjan/rlm-git-commits/internal/gitlog"
	"github.com/srdjan/rlm-git-commits/internal/logging"
	"github.com/srdjan/rlm-git-commits/internal/trailer"
)

// Build invokes `git log` for the last n commits, parses every record
// through the C1 parser, discards failures, and populates the five
// index maps plus the insertion-order list (§4.4).
func Build(ctx context.Context, runner *gitlog.Runner, n int) (*TrailerIndex, error) {
	log := logging.Get(logging.CategoryIndex)

	records, err := runner.Log(ctx, n)
	if err != nil {
		return nil, err
	}

	head, err := runner.HEAD(ctx)
	if err != nil {
		return nil, err
	}

	idx := newEmptyIndex()
	idx.Generated = time.Now().UTC().Format(time.RFC3339)
	idx.HeadCommit = head

	for _, record := range records {
		commit, err := trailer.ParseCommit(record)
		if err != nil {
			log.Debug("discarding unparseable commit record: %v", err)
			continue
		}
		addCommit(idx, commit)
	}

	idx.CommitCount = len(idx.Commits)
	log.Info("built trailer index: %d commits at head %s", idx.CommitCount, head)
	return idx, nil
}

func addCommit(idx *TrailerIndex, commit *trailer.StructuredCommit) {
	if !validCommitType(commit.Type) {
		return
	}

	ic := IndexedCommit{
		Hash:           commit.Hash,
		Date:           commit.Date,
		Subject:        commit.Subject,
		Intent:         string(commit.Intent),
		Scope:          commit.Scope,
		Session:        commit.Session,
		DecidedAgainst: commit.DecidedAgainst,
	}
	idx.Commits[commit.Hash] = ic
	idx.Order = append(idx.Order, commit.Hash)

	if commit.Intent != "" {
		idx.ByIntent[string(commit.Intent)] = append(idx.ByIntent[string(commit.Intent)], commit.Hash)
	}
	for _, s := range commit.Scope {
		idx.ByScope[s] = append(idx.ByScope[s], commit.Hash)
	}
	if commit.Session != "" {
		idx.BySession[commit.Session] = append(idx.BySession[commit.Session], commit.Hash)
	}
	if len(commit.DecidedAgainst) > 0 {
		idx.WithDecidedAgainst[commit.Hash] = true
	}
}

var validTypes = map[trailer.CommitType]bool{
	trailer.TypeFeat: true, trailer.TypeFix: true, trailer.TypeRefactor: true,
	trailer.TypePerf: true, trailer.TypeDocs: true, trailer.TypeTest: true,
	trailer.TypeBuild: true, trailer.TypeCI: true, trailer.TypeChore: true,
	trailer.TypeRevert: true,
}

func validCommitType(t trailer.CommitType) bool {
	return validTypes[t]
}

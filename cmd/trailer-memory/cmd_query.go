package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srdjan/rlm-git-commits/internal/index"
)

// liveQueryTerm picks the single grep term a live (unindexed) fallback
// query searches on, in the same precedence LiveGrep's callers use
// elsewhere: scope first, since it is the most selective, then intent,
// then decided-against text.
func liveQueryTerm() (string, error) {
	if queryScope != "" {
		return queryScope, nil
	}
	if len(queryIntents) > 0 {
		return queryIntents[0], nil
	}
	if queryDecidedAgainst != "" {
		return queryDecidedAgainst, nil
	}
	return "", errors.New("Error [query]: no fresh index available and no --scope/--intent/--decided-against filter to grep on")
}

var (
	queryScope          string
	queryIntents        []string
	querySession        string
	queryDecidedAgainst string
	queryLimit          int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the trailer index",
	Long: `Runs the C4 intersection query against the persisted index (§4.4):
scope, intent, session, and decided-against filters all narrow the
result set; an unset filter is unconstrained.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryScope, "scope", "", "restrict to commits touching this scope")
	queryCmd.Flags().StringSliceVar(&queryIntents, "intent", nil, "restrict to commits with any of these intents")
	queryCmd.Flags().StringVar(&querySession, "session", "", "restrict to commits from this session")
	queryCmd.Flags().StringVar(&queryDecidedAgainst, "decided-against", "", "restrict to commits recording this decided-against text")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 20, "maximum results")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	gitDir, err := resolveGitDir(ctx)
	if err != nil {
		return err
	}
	if _, err := loadConfig(gitDir); err != nil {
		return err
	}

	idx, err := index.LoadFresh(ctx, index.PathFor(gitDir), gitRunner())
	if err != nil {
		return fmt.Errorf("index-load-failed: %w", err)
	}

	var commits []index.IndexedCommit
	if idx != nil {
		commits = index.Query(idx, index.QueryParams{
			Scope:          queryScope,
			Intents:        queryIntents,
			Session:        querySession,
			DecidedAgainst: queryDecidedAgainst,
			Limit:          queryLimit,
		})
	} else {
		term, err := liveQueryTerm()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "⚠ no fresh index, falling back to live git log --grep")
		commits, err = index.LiveGrep(ctx, gitRunner(), term, queryLimit)
		if err != nil {
			return fmt.Errorf("live-grep-failed: %w", err)
		}
	}

	if len(commits) == 0 {
		fmt.Fprintln(os.Stdout, "no matching commits")
		return nil
	}

	for _, c := range commits {
		var decided string
		if len(c.DecidedAgainst) > 0 {
			decided = " decided-against=" + strings.Join(c.DecidedAgainst, ";")
		}
		fmt.Fprintf(os.Stdout, "%s %s [%s]%s\n", c.Hash, c.Subject, c.Intent, decided)
	}
	return nil
}

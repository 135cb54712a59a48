package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildScenarioIndex() *TrailerIndex {
	idx := newEmptyIndex()
	commits := []IndexedCommit{
		{Hash: "aaa", Scope: []string{"auth/login"}, Intent: "fix-defect"},
		{Hash: "bbb", Scope: []string{"cache"}, Intent: "fix-defect", DecidedAgainst: []string{"Redis sentinel"}},
		{Hash: "ccc", Scope: []string{"auth"}, Intent: "enable-capability"},
	}
	for _, c := range commits {
		idx.Commits[c.Hash] = c
		idx.Order = append(idx.Order, c.Hash)
		idx.ByIntent[c.Intent] = append(idx.ByIntent[c.Intent], c.Hash)
		for _, s := range c.Scope {
			idx.ByScope[s] = append(idx.ByScope[s], c.Hash)
		}
		if len(c.DecidedAgainst) > 0 {
			idx.WithDecidedAgainst[c.Hash] = true
		}
	}
	return idx
}

func hashes(commits []IndexedCommit) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.Hash
	}
	return out
}

func TestQuery_ScopeHierarchical(t *testing.T) {
	idx := buildScenarioIndex()
	got := Query(idx, QueryParams{Scope: "auth"})
	assert.Equal(t, []string{"aaa", "ccc"}, hashes(got))
}

func TestQuery_DecidedAgainst(t *testing.T) {
	idx := buildScenarioIndex()
	got := Query(idx, QueryParams{DecidedAgainst: "Redis"})
	assert.Equal(t, []string{"bbb"}, hashes(got))
}

func TestQuery_IntentsAndScopeIntersect(t *testing.T) {
	idx := buildScenarioIndex()
	got := Query(idx, QueryParams{Intents: []string{"fix-defect"}, Scope: "cache"})
	assert.Equal(t, []string{"bbb"}, hashes(got))
}

func TestQuery_NoFiltersReturnsEmpty(t *testing.T) {
	idx := buildScenarioIndex()
	got := Query(idx, QueryParams{})
	assert.Empty(t, got)
}

func TestQuery_LimitTruncates(t *testing.T) {
	idx := buildScenarioIndex()
	got := Query(idx, QueryParams{Intents: []string{"fix-defect", "enable-capability"}, Limit: 1})
	assert.Len(t, got, 1)
	assert.Equal(t, "aaa", got[0].Hash)
}

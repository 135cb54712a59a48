package consolidation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srdjan/rlm-git-commits/internal/memory"
)

func sampleEntries() []memory.Entry {
	return []memory.Entry{
		{Tag: memory.TagDecision, Text: "reject caching layer, adds complexity for no measured gain", Scope: []string{"index"}},
		{Tag: memory.TagFinding, Text: "index freshness check reads mtime, not git log", Scope: []string{"index"}},
		{Tag: memory.TagHypothesis, Text: "scope-format diagnostics may be over-triggering on nested paths", Scope: []string{"trailer"}},
		{Tag: memory.TagContext, Text: "session picked up from yesterday's auth work", Scope: []string{"auth"}},
		{Tag: memory.TagTodo, Text: "add fsnotify watch command"},
	}
}

func TestGroupByTag(t *testing.T) {
	groups := GroupByTag(sampleEntries())
	assert.Len(t, groups[memory.TagDecision], 1)
	assert.Len(t, groups[memory.TagFinding], 1)
	assert.Len(t, groups[memory.TagTodo], 1)
}

func TestCollectScopes_UniqueSorted(t *testing.T) {
	entries := append(sampleEntries(), memory.Entry{Tag: memory.TagFinding, Text: "dup", Scope: []string{"auth"}})
	scopes := CollectScopes(entries)
	assert.Equal(t, []string{"auth", "index", "trailer"}, scopes)
}

func TestDecisionsToTrailers(t *testing.T) {
	hints := DecisionsToTrailers(sampleEntries())
	assert.Equal(t, []string{"reject caching layer, adds complexity for no measured gain"}, hints.DecidedAgainst)
	assert.Equal(t, []string{"auth", "index", "trailer"}, hints.Scopes)
}

func TestFormatSessionSummary_FixedSectionOrder(t *testing.T) {
	wm := &memory.WorkingMemory{
		SessionID: "2026-08-06/demo",
		Created:   "2026-08-06T10:00:00Z",
		Updated:   "2026-08-06T10:05:00Z",
		Entries:   sampleEntries(),
	}
	out := FormatSessionSummary(wm)

	decisionIdx := indexOf(out, "## Decisions")
	findingIdx := indexOf(out, "## Findings")
	hypothesisIdx := indexOf(out, "## Hypotheses")
	contextIdx := indexOf(out, "## Context")
	todoIdx := indexOf(out, "## TODOs")

	assert.True(t, decisionIdx < findingIdx)
	assert.True(t, findingIdx < hypothesisIdx)
	assert.True(t, hypothesisIdx < contextIdx)
	assert.True(t, contextIdx < todoIdx)
	assert.Contains(t, out, "2026-08-06/demo")
}

func TestFormatSessionSummary_NilIsPlaceholder(t *testing.T) {
	out := FormatSessionSummary(nil)
	assert.Contains(t, out, "no working memory")
}

func TestFormatTrailerHints(t *testing.T) {
	hints := TrailerHints{
		Scopes:         []string{"auth", "index"},
		DecidedAgainst: []string{"reject polling", "reject global mutex"},
	}
	out := FormatTrailerHints(hints)
	assert.Contains(t, out, "Scope: auth, index\n")
	assert.Contains(t, out, "Decided-Against: reject polling\n")
	assert.Contains(t, out, "Decided-Against: reject global mutex\n")
}

func TestFormatTrailerHints_NoScopesOmitsLine(t *testing.T) {
	out := FormatTrailerHints(TrailerHints{DecidedAgainst: []string{"reject x"}})
	assert.NotContains(t, out, "Scope:")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

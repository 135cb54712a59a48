// Package consolidation implements C7: grouping working-memory
// entries, rendering a Markdown session summary, and deriving
// commit-trailer suggestions from a session's scratch log.
package consolidation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/srdjan/rlm-git-commits/internal/memory"
)

// GroupByTag partitions entries by tag.
func GroupByTag(entries []memory.Entry) map[memory.Tag][]memory.Entry {
	groups := make(map[memory.Tag][]memory.Entry)
	for _, e := range entries {
		groups[e.Tag] = append(groups[e.Tag], e)
	}
	return groups
}

// CollectScopes unions and sorts the scopes carried by entries.
func CollectScopes(entries []memory.Entry) []string {
	set := make(map[string]bool)
	for _, e := range entries {
		for _, s := range e.Scope {
			set[s] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// TrailerHints is the consolidated output feeding a proposed commit
// message (§4.7).
type TrailerHints struct {
	DecidedAgainst []string
	Scopes         []string
}

// DecisionsToTrailers selects entries tagged "decision" and produces
// Decided-Against candidates from their text, plus the scopes of every
// entry in the session (not just the decisions).
//
// Every decision-tagged entry becomes a candidate regardless of
// whether its text actually describes a rejected alternative -- this
// is preserved as specified (§9 open question) rather than filtered,
// and is flagged here for product review.
func DecisionsToTrailers(entries []memory.Entry) TrailerHints {
	groups := GroupByTag(entries)
	var decided []string
	for _, e := range groups[memory.TagDecision] {
		decided = append(decided, e.Text)
	}
	return TrailerHints{
		DecidedAgainst: decided,
		Scopes:         CollectScopes(entries),
	}
}

// sectionOrder is the fixed Markdown section order (§4.7).
var sectionOrder = []struct {
	tag   memory.Tag
	title string
}{
	{memory.TagDecision, "Decisions"},
	{memory.TagFinding, "Findings"},
	{memory.TagHypothesis, "Hypotheses"},
	{memory.TagContext, "Context"},
	{memory.TagTodo, "TODOs"},
}

// FormatSessionSummary renders wm as Markdown: a header (session id,
// timestamps, entry count, scopes) followed by one section per tag in
// sectionOrder, each with one bullet per entry showing text, an
// optional scope label, and an optional "(source: ...)" (§4.7).
func FormatSessionSummary(wm *memory.WorkingMemory) string {
	if wm == nil {
		return "# Session Summary\n\n(no working memory)\n"
	}

	groups := GroupByTag(wm.Entries)
	scopes := CollectScopes(wm.Entries)

	var b strings.Builder
	fmt.Fprintf(&b, "# Session Summary: %s\n\n", wm.SessionID)
	fmt.Fprintf(&b, "- Created: %s\n", wm.Created)
	fmt.Fprintf(&b, "- Updated: %s\n", wm.Updated)
	fmt.Fprintf(&b, "- Entries: %d\n", len(wm.Entries))
	if len(scopes) > 0 {
		fmt.Fprintf(&b, "- Scopes: %s\n", strings.Join(scopes, ", "))
	}
	b.WriteString("\n")

	for _, section := range sectionOrder {
		entries := groups[section.tag]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", section.title)
		for _, e := range entries {
			line := "- " + e.Text
			if len(e.Scope) > 0 {
				line += " `" + strings.Join(e.Scope, ",") + "`"
			}
			if e.Source != "" {
				line += " (source: " + e.Source + ")"
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatTrailerHints renders a Scope: line (if any) followed by one
// Decided-Against: line per rejection, suitable for pasting into a
// commit message (§4.7).
func FormatTrailerHints(hints TrailerHints) string {
	var b strings.Builder
	if len(hints.Scopes) > 0 {
		fmt.Fprintf(&b, "Scope: %s\n", strings.Join(hints.Scopes, ", "))
	}
	for _, d := range hints.DecidedAgainst {
		fmt.Fprintf(&b, "Decided-Against: %s\n", d)
	}
	return b.String()
}

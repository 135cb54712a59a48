package hooks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/srdjan/rlm-git-commits/internal/config"
	"github.com/srdjan/rlm-git-commits/internal/consolidation"
	"github.com/srdjan/rlm-git-commits/internal/gitlog"
	"github.com/srdjan/rlm-git-commits/internal/index"
	"github.com/srdjan/rlm-git-commits/internal/llmclient"
	"github.com/srdjan/rlm-git-commits/internal/logging"
	"github.com/srdjan/rlm-git-commits/internal/memory"
	"github.com/srdjan/rlm-git-commits/internal/prompt"
	"github.com/srdjan/rlm-git-commits/internal/repl"
)

// Deps bundles the effects and configuration all three lifecycle
// entry points share. GitDir is the repository's `.git` metadata
// directory (§6.2's file locations are all relative to it).
type Deps struct {
	GitDir string
	Config *config.RlmConfig
	Git    *gitlog.Runner
	LLM    llmclient.Client
}

func (d Deps) loadIndex(ctx context.Context) *index.TrailerIndex {
	idx, _ := index.LoadFresh(ctx, index.PathFor(d.GitDir), d.Git)
	return idx
}

func (d Deps) scopeKeys(idx *index.TrailerIndex) []string {
	if idx == nil {
		return nil
	}
	keys := make([]string, 0, len(idx.ByScope))
	for k := range idx.ByScope {
		keys = append(keys, k)
	}
	return keys
}

// PromptSubmit handles the UserPromptSubmit lifecycle event: it loads
// the index and working memory, extracts prompt signals (C5), and,
// when the RLM feature and REPL are enabled, hands the prompt to the
// REPL driver (C9) and folds its answer into the returned context
// block (§4 control-flow table).
func PromptSubmit(ctx context.Context, deps Deps, sessionID, promptText string) string {
	log := logging.Get(logging.CategoryHooks)
	idx := deps.loadIndex(ctx)
	scopeKeys := deps.scopeKeys(idx)

	wm, err := memory.Load(memory.PathFor(deps.GitDir), sessionID)
	if err != nil {
		log.Warn("prompt-submit: working memory load failed: %v", err)
	}

	sig := prompt.ExtractPromptSignals(promptText, scopeKeys)

	var b strings.Builder
	fmt.Fprintf(&b, "<prompt-signals scope=%q intent=%q keywords=%q></prompt-signals>\n",
		strings.Join(sig.ScopeHints, ","), strings.Join(sig.IntentHints, ","), strings.Join(sig.Keywords, ","))

	if wm != nil {
		b.WriteString(memory.Format(wm, 20))
		b.WriteString("\n")
	}

	if deps.Config != nil && deps.Config.Enabled && deps.Config.ReplEnabled && deps.LLM != nil {
		cfg := repl.Config{
			MaxIterations:   deps.Config.ReplMaxIterations,
			MaxLLMCalls:     deps.Config.ReplMaxLlmCalls,
			TimeoutBudgetMs: deps.Config.ReplTimeoutBudgetMs,
			MaxOutputTokens: deps.Config.ReplMaxOutputTokens,
		}
		res, err := repl.Run(ctx, cfg, repl.Env{Index: idx, WorkingMemory: wm, ScopeKeys: scopeKeys}, promptText, deps.LLM, deps.Git)
		if err != nil {
			log.Warn("prompt-submit: repl run failed: %v", err)
		} else {
			fmt.Fprintf(&b, "<rlm-answer>%s</rlm-answer>\n", res.Answer)
		}
	}

	return b.String()
}

// PostTool handles the PostToolUse lifecycle event: it extracts
// signals from the executed command and its output, queries the index
// for related commit history, and returns it as context (§4 control-
// flow table: "parses a query command"). When no fresh index is
// available it falls back to a live `git log --grep` over the same
// signal instead of returning nothing (§3, §4.4).
func PostTool(ctx context.Context, deps Deps, env Envelope) string {
	log := logging.Get(logging.CategoryHooks)
	idx := deps.loadIndex(ctx)
	scopeKeys := deps.scopeKeys(idx)

	combined := env.ToolInput.Command + "\n" + env.ToolResponse.Stdout
	sig := prompt.ExtractPromptSignals(combined, scopeKeys)
	if len(sig.ScopeHints) == 0 && len(sig.IntentHints) == 0 {
		return ""
	}

	var scope string
	if len(sig.ScopeHints) > 0 {
		scope = sig.ScopeHints[0]
	}

	var commits []index.IndexedCommit
	if idx != nil {
		commits = index.Query(idx, index.QueryParams{Scope: scope, Intents: sig.IntentHints, Limit: 5})
	} else {
		term := scope
		if term == "" {
			term = sig.IntentHints[0]
		}
		live, err := index.LiveGrep(ctx, deps.Git, term, 5)
		if err != nil {
			log.Warn("post-tool: live grep fallback failed: %v", err)
			return ""
		}
		commits = live
	}
	if len(commits) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<trailer-context>\n")
	for _, c := range commits {
		fmt.Fprintf(&b, "- %s %s (%s)\n", c.Hash, c.Subject, c.Intent)
	}
	b.WriteString("</trailer-context>\n")
	return b.String()
}

// SessionStop handles the Stop lifecycle event: it consolidates the
// session's working memory into a Markdown summary and trailer hints
// (C7), persists the summary to disk, and clears working memory --
// the lifecycle document's "removed at session end after consolidation"
// rule (§3 Lifecycles).
func SessionStop(ctx context.Context, deps Deps, sessionID string) string {
	log := logging.Get(logging.CategoryHooks)
	path := memory.PathFor(deps.GitDir)

	wm, err := memory.Load(path, sessionID)
	if err != nil || wm == nil {
		return ""
	}

	summary := consolidation.FormatSessionSummary(wm)
	hints := consolidation.DecisionsToTrailers(wm.Entries)
	trailerHints := consolidation.FormatTrailerHints(hints)

	summaryPath := SessionSummaryPath(deps.GitDir, sessionID)
	if err := writeFile(summaryPath, summary); err != nil {
		log.Warn("session-stop: failed to persist summary: %v", err)
	}

	if err := memory.Clear(path); err != nil {
		log.Warn("session-stop: failed to clear working memory: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<session-summary session=%q>\n%s</session-summary>\n", sessionID, summary)
	if trailerHints != "" {
		fmt.Fprintf(&b, "<trailer-hints>\n%s</trailer-hints>\n", trailerHints)
	}
	return b.String()
}

// Dispatch reads one envelope from r, routes it to the matching
// lifecycle handler, and writes the plain-text result to w. It never
// returns an error: hook-path failures are silent by design (§6.4,
// §7) -- the caller always exits zero.
func Dispatch(ctx context.Context, r io.Reader, w io.Writer, deps Deps) {
	env := ReadEnvelope(r)
	if env.SessionID == "" {
		// A missing session id would otherwise collide working memory
		// across unrelated invocations; fall back to a fresh one so
		// each unidentified call gets its own scratch log.
		env.SessionID = uuid.NewString()
	}

	var out string
	switch env.HookEventName {
	case EventPromptSubmit:
		out = PromptSubmit(ctx, deps, env.SessionID, env.Prompt)
	case EventPostTool:
		out = PostTool(ctx, deps, env)
	case EventStop:
		out = SessionStop(ctx, deps, env.SessionID)
	default:
		return
	}

	if out != "" {
		_, _ = io.WriteString(w, out)
	}
}

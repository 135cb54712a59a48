// Package prompt implements the prompt analyzer (C5): tokenizing a
// user prompt and classifying tokens into scope hints, intent hints,
// and residual keywords.
package prompt

import (
	"regexp"
	"strings"

	"github.com/srdjan/rlm-git-commits/internal/logging"
	"github.com/srdjan/rlm-git-commits/internal/match"
)

// Signals is the disjoint-set output of ExtractPromptSignals (§3).
type Signals struct {
	ScopeHints  []string
	IntentHints []string
	Keywords    []string
}

var tokenChars = regexp.MustCompile(`[^a-z0-9/_\-]+`)

// Tokenize lowercases prompt, keeps [a-z0-9/_-] characters, splits on
// whitespace, and drops tokens of length <= 1 (§4.5).
func Tokenize(promptText string) []string {
	lowered := strings.ToLower(promptText)
	cleaned := tokenChars.ReplaceAllString(lowered, " ")
	fields := strings.Fields(cleaned)

	var out []string
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

// ExtractPromptSignals classifies each token of promptText: a token
// matching any stored scope key under hierarchical semantics becomes a
// scope hint; a token in the intent-synonym table contributes its
// mapped intent; both matches consume the token so it does not also
// appear in the residual keyword set, which excludes stop words and is
// de-duplicated preserving first-seen order (§4.5).
func ExtractPromptSignals(promptText string, scopeKeys []string) Signals {
	log := logging.Get(logging.CategoryPrompt)
	tokens := Tokenize(promptText)

	scopeSeen := make(map[string]bool)
	intentSeen := make(map[string]bool)
	keywordSeen := make(map[string]bool)
	var sig Signals

	for _, tok := range tokens {
		consumed := false

		if matchesAnyScope(tok, scopeKeys) {
			if !scopeSeen[tok] {
				scopeSeen[tok] = true
				sig.ScopeHints = append(sig.ScopeHints, tok)
			}
			consumed = true
		}

		if intent, ok := intentSynonyms[tok]; ok {
			if !intentSeen[string(intent)] {
				intentSeen[string(intent)] = true
				sig.IntentHints = append(sig.IntentHints, string(intent))
			}
			consumed = true
		}

		if consumed {
			continue
		}

		if stopWords[tok] {
			continue
		}

		if !keywordSeen[tok] {
			keywordSeen[tok] = true
			sig.Keywords = append(sig.Keywords, tok)
		}
	}

	log.Debug("prompt signals: scope=%v intent=%v keywords=%v", sig.ScopeHints, sig.IntentHints, sig.Keywords)
	return sig
}

func matchesAnyScope(token string, scopeKeys []string) bool {
	for _, k := range scopeKeys {
		if match.ScopeMatches(k, token) {
			return true
		}
	}
	return false
}

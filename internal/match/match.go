// Package match implements the two hierarchical/lexical matching
// primitives shared by the trailer index, the prompt analyzer, and the
// sandbox's query binding (C3).
package match

import (
	"regexp"
	"strings"
	"sync"
)

// ScopeMatches reports whether storedKey matches pattern under
// hierarchical scope semantics: true when storedKey equals pattern or
// when storedKey is a "/"-delimited descendant of pattern. Comparison
// is case-insensitive. Pattern "auth" matches "auth", "auth/login",
// "auth/login/flow" but not "authn".
func ScopeMatches(storedKey, pattern string) bool {
	k := strings.ToLower(storedKey)
	p := strings.ToLower(pattern)
	if k == p {
		return true
	}
	return strings.HasPrefix(k, p+"/")
}

var (
	wordBoundaryCache   = make(map[string]*regexp.Regexp)
	wordBoundaryCacheMu sync.Mutex
)

// WordBoundaryMatch reports whether keyword occurs in text bounded by
// word boundaries, case-insensitively. The keyword is regexp-escaped
// before compilation so callers may pass arbitrary free text (e.g. a
// Decided-Against entry) as the search term.
func WordBoundaryMatch(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	re := compiledWordBoundary(keyword)
	return re.MatchString(text)
}

func compiledWordBoundary(keyword string) *regexp.Regexp {
	wordBoundaryCacheMu.Lock()
	defer wordBoundaryCacheMu.Unlock()

	if re, ok := wordBoundaryCache[keyword]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	wordBoundaryCache[keyword] = re
	return re
}

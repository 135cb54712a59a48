package repl

import (
	"regexp"
	"strings"
)

// fenceOpen recognizes the opening of the first fenced code block
// anywhere in the text. The source
// recognizes ```js, ```javascript, and bare ``` fences; since our
// sandbox interprets Go rather than JavaScript, the equivalent
// fences are ```go, ```golang, and bare ``` (grounded on the
// teacher's cleanJSONResponse fence-stripping in
// internal/campaign/decomposer.go, generalized from a fixed "```json"
// prefix to a proper first-fence extractor with an unterminated-fence
// fallback).
var fenceOpen = regexp.MustCompile("(?s)```(?:go|golang)?\\n?")

// extractCode returns the code inside the first fenced block in text,
// and whether a fence was found at all. If the opening fence has no
// matching close, the remainder of the text after the opening fence is
// treated as the code (§4.9 step c).
func extractCode(text string) (code string, found bool) {
	loc := fenceOpen.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	if idx := strings.Index(rest, "```"); idx >= 0 {
		return rest[:idx], true
	}
	return rest, true
}

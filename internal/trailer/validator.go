package trailer

import (
	"encoding/json"
	"regexp"
	"strings"
)

const maxHeaderLen = 72

var sessionPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}/.+$`)

// bodyOptionalTypes are commit types for which a missing body is not
// flagged (§4.2).
var bodyOptionalTypes = map[CommitType]bool{
	TypeChore: true, TypeCI: true, TypeBuild: true,
}

// imperativeSuffixes are the endings the imperative-mood heuristic
// flags on the first subject word (§4.2).
var imperativeSuffixes = []string{"ed", "ing"}

// Validate applies the commit-format rules to a raw commit message
// (header + optional body + optional trailers, without the Hash/Date
// git log preamble) and returns diagnostics. It never fails: an
// unparseable message simply accumulates more diagnostics.
func Validate(rawMessage string) []Diagnostic {
	var diags []Diagnostic
	lines := strings.Split(rawMessage, "\n")
	if len(lines) == 0 {
		return diags
	}

	header := lines[0]
	if len(header) > maxHeaderLen {
		diags = append(diags, Diagnostic{SeverityError, "header-too-long",
			"header exceeds 72 characters"})
	}
	if !headerPattern.MatchString(header) {
		diags = append(diags, Diagnostic{SeverityError, "non-conventional-subject",
			"header does not match the conventional-commit pattern"})
	} else {
		m := headerPattern.FindStringSubmatch(header)
		descr := m[0][strings.Index(m[0], ":")+1:]
		descr = strings.TrimSpace(descr)
		if strings.HasSuffix(descr, ".") {
			diags = append(diags, Diagnostic{SeverityWarning, "trailing-period",
				"subject should not end with a period"})
		}
		firstWord := strings.Fields(descr)
		if len(firstWord) > 0 {
			w := strings.ToLower(firstWord[0])
			for _, suf := range imperativeSuffixes {
				if strings.HasSuffix(w, suf) {
					diags = append(diags, Diagnostic{SeverityWarning, "imperative-mood",
						"subject should use the imperative mood: \"" + firstWord[0] + "\" looks non-imperative"})
					break
				}
			}
		}
	}

	commitType := extractType(header)

	bodyLines, trailerLines := splitBodyAndTrailers(lines[1:])
	body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
	if body == "" && !bodyOptionalTypes[commitType] {
		diags = append(diags, Diagnostic{SeverityWarning, "missing-body",
			"commit body is empty"})
	}

	trailers := collectTrailers(trailerLines)

	// A blank line should separate body from the trailer block. When
	// body content exists but the line directly above the trailer
	// block is not blank, flag it -- the parser itself is lenient (it
	// only requires the first non-trailer line to terminate the scan),
	// but well-formed commits should still visually separate the two.
	if len(bodyLines) > 0 && len(trailerLines) > 0 {
		// The line right before the trailer block, in the original
		// (untrimmed) line slice, is lines[1:][len(bodyLines)] when it
		// exists and is blank.
		fullBody := lines[1:]
		sepIdx := len(bodyLines)
		if sepIdx < len(fullBody) && strings.TrimSpace(fullBody[sepIdx]) != "" {
			diags = append(diags, Diagnostic{SeverityWarning, "missing-blank-separator",
				"a blank line should separate the body from trailers"})
		}
	}

	intents := trailers["intent"]
	validIntentCount := 0
	for _, v := range intents {
		if validIntents[Intent(strings.TrimSpace(v))] {
			validIntentCount++
		}
	}
	if validIntentCount == 0 {
		diags = append(diags, Diagnostic{SeverityError, "intent-required",
			"exactly one Intent trailer from the controlled vocabulary is required"})
	} else if validIntentCount > 1 || len(intents) > 1 {
		diags = append(diags, Diagnostic{SeverityError, "intent-required",
			"exactly one Intent trailer is required, found multiple"})
	}

	scopeVals := trailers["scope"]
	var scopeEntries []string
	for _, v := range scopeVals {
		scopeEntries = append(scopeEntries, splitAndTrim(v)...)
	}
	if len(scopeEntries) == 0 {
		diags = append(diags, Diagnostic{SeverityError, "scope-required",
			"at least one Scope trailer is required"})
	} else {
		if len(scopeEntries) > 3 {
			diags = append(diags, Diagnostic{SeverityWarning, "scope-max-entries",
				"more than 3 scope entries"})
		}
		for _, s := range scopeEntries {
			if !strings.Contains(s, "/") {
				diags = append(diags, Diagnostic{SeverityWarning, "scope-format",
					"scope entry \"" + s + "\" should be hierarchical (domain/module)"})
			}
		}
	}

	if sessionVals, ok := trailers["session"]; ok {
		for _, v := range sessionVals {
			if !sessionPattern.MatchString(strings.TrimSpace(v)) {
				diags = append(diags, Diagnostic{SeverityWarning, "session-format",
					"Session should match YYYY-MM-DD/slug"})
			}
		}
	}

	if ctxVals, ok := trailers["context"]; ok {
		for _, v := range ctxVals {
			var m map[string]any
			if err := json.Unmarshal([]byte(v), &m); err != nil {
				diags = append(diags, Diagnostic{SeverityError, "context-invalid",
					"Context trailer is not parseable JSON"})
			}
		}
	}

	return diags
}

func extractType(header string) CommitType {
	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return CommitType(m[1])
}

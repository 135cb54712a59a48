package trailer

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/srdjan/rlm-git-commits/internal/logging"
)

// headerPattern matches a conventional-commit subject line (§4.1).
var headerPattern = regexp.MustCompile(`^(feat|fix|refactor|perf|docs|test|build|ci|chore|revert)(\([^)]+\))?!?:\s+.+$`)

// trailerLinePattern matches a "Key: Value" line shape, independent of
// whether the key is in the known-keys allow-list.
var trailerLinePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*):\s?(.*)$`)

// isRecognizedTrailerLine reports whether line looks like "Key: value"
// with a key on the known-keys allow-list (§4.1). This is the gate
// that prevents a body line like "WEBHOOK_URL: https://..." from being
// mistaken for a trailer.
func isRecognizedTrailerLine(line string) bool {
	m := trailerLinePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	return knownTrailerKeys[strings.ToLower(m[1])]
}

// splitTrailerLine splits a recognized trailer line into its lowercased
// key and trimmed value.
func splitTrailerLine(line string) (key, value string) {
	m := trailerLinePattern.FindStringSubmatch(line)
	if m == nil {
		return "", ""
	}
	return strings.ToLower(m[1]), strings.TrimSpace(m[2])
}

// splitBodyAndTrailers scans msgLines backwards for the last contiguous
// run of recognized trailer lines, per §4.1. A single blank line
// between two trailer lines is tolerated (structured trailers followed
// by a blank line followed by Co-Authored-By); any other blank or
// non-trailer line terminates the scan. It returns the body lines and
// the raw trailer-block lines (which may themselves contain the
// tolerated interior blank).
func splitBodyAndTrailers(msgLines []string) (bodyLines, trailerLines []string) {
	end := len(msgLines)
	for end > 0 && strings.TrimSpace(msgLines[end-1]) == "" {
		end--
	}

	start := end
	i := end
	for i > 0 {
		line := msgLines[i-1]
		if strings.TrimSpace(line) == "" {
			// Tolerate exactly one interior blank line, but only when
			// the line immediately above it is itself a recognized
			// trailer -- otherwise this blank is the body/trailer
			// separator and scanning stops here.
			if i-2 >= 0 && isRecognizedTrailerLine(msgLines[i-2]) {
				i--
				continue
			}
			break
		}
		if !isRecognizedTrailerLine(line) {
			break
		}
		i--
		start = i
	}

	trailerLines = msgLines[start:end]
	bodyLines = msgLines[:start]
	for len(bodyLines) > 0 && strings.TrimSpace(bodyLines[len(bodyLines)-1]) == "" {
		bodyLines = bodyLines[:len(bodyLines)-1]
	}
	return bodyLines, trailerLines
}

// collectTrailers parses recognized trailer lines into an ordered
// key -> values map (lowercased key, original case-preserved values).
func collectTrailers(trailerLines []string) map[string][]string {
	out := make(map[string][]string)
	for _, line := range trailerLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value := splitTrailerLine(line)
		if key == "" {
			continue
		}
		out[key] = append(out[key], value)
	}
	return out
}

func splitAndTrim(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseCommit parses one commit record produced by the fixed git log
// format (§4.1, §6.5): "Hash: <h>\nDate: <iso>\nSubject: <conv>\n<body>".
// raw must NOT include the leading "---commit---" marker line.
func ParseCommit(raw string) (*StructuredCommit, error) {
	log := logging.Get(logging.CategoryParser)
	lines := strings.Split(raw, "\n")

	var hash, date, subject string
	var bodyStart int
	fields := map[string]*string{"Hash: ": &hash, "Date: ": &date, "Subject: ": &subject}
	found := map[string]bool{}

	for bodyStart = 0; bodyStart < len(lines) && bodyStart < 3; bodyStart++ {
		line := lines[bodyStart]
		matched := false
		for prefix, dst := range fields {
			if strings.HasPrefix(line, prefix) {
				*dst = strings.TrimPrefix(line, prefix)
				found[prefix] = true
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}

	if hash == "" || date == "" || subject == "" {
		log.Warn("missing required fields: hash=%q date=%q subject=%q", hash, date, subject)
		return nil, &ParseError{Kind: ErrMissingRequiredFields, Message: "commit record is missing Hash, Date, or Subject"}
	}

	if !headerPattern.MatchString(subject) {
		log.Warn("non-conventional subject for %s: %q", hash, subject)
		return nil, &ParseError{Kind: ErrNonConventionalSubject, Message: "subject does not match conventional-commit header pattern: " + subject}
	}

	commitType, headerScope := parseHeader(subject)

	bodyLines, trailerLines := splitBodyAndTrailers(lines[bodyStart:])
	trailers := collectTrailers(trailerLines)

	commit := &StructuredCommit{
		Hash:        hash,
		Date:        date,
		Type:        commitType,
		HeaderScope: headerScope,
		Subject:     subject,
		Body:        strings.Join(bodyLines, "\n"),
	}

	if vals, ok := trailers["intent"]; ok && len(vals) > 0 {
		candidate := Intent(strings.TrimSpace(vals[0]))
		if validIntents[candidate] {
			commit.Intent = candidate
		}
	}

	if vals, ok := trailers["scope"]; ok {
		for _, v := range vals {
			commit.Scope = append(commit.Scope, splitAndTrim(v)...)
		}
	}

	if vals, ok := trailers["decided-against"]; ok {
		for _, v := range vals {
			v = strings.TrimSpace(v)
			if v != "" {
				commit.DecidedAgainst = append(commit.DecidedAgainst, v)
			}
		}
	}

	if vals, ok := trailers["session"]; ok && len(vals) > 0 {
		commit.Session = strings.TrimSpace(vals[0])
	}

	if vals, ok := trailers["refs"]; ok {
		for _, v := range vals {
			commit.Refs = append(commit.Refs, splitAndTrim(v)...)
		}
	}

	if vals, ok := trailers["context"]; ok && len(vals) > 0 {
		var m map[string]any
		if err := json.Unmarshal([]byte(vals[0]), &m); err == nil {
			commit.Context = m
		} else {
			log.Debug("context trailer not valid JSON for %s: %v", hash, err)
		}
	}

	if vals, ok := trailers["breaking"]; ok && len(vals) > 0 {
		commit.Breaking = strings.TrimSpace(vals[0])
	}

	log.Debug("parsed commit %s: type=%s intent=%s scope=%v", hash, commitType, commit.Intent, commit.Scope)
	return commit, nil
}

func parseHeader(subject string) (CommitType, string) {
	m := headerPattern.FindStringSubmatch(subject)
	if m == nil {
		return "", ""
	}
	t := CommitType(m[1])
	scope := strings.Trim(m[2], "()")
	return t, scope
}

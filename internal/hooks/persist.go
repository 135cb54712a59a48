package hooks

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// slugify converts a session id into a filesystem-safe slug for
// `session-summary-<slug>.md` (§6.2).
func slugify(sessionID string) string {
	slug := slugPattern.ReplaceAllString(sessionID, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "session"
	}
	return slug
}

// SessionSummaryPath returns the on-disk path for a session's consolidated
// summary (§6.2).
func SessionSummaryPath(gitDir, sessionID string) string {
	return filepath.Join(gitDir, "info", "session-summary-"+slugify(sessionID)+".md")
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Package memory implements the session-scoped working memory (C6):
// an append-only log of tagged entries persisted as a single JSON
// file, written whole-file-replace on every mutation (§4.6).
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/srdjan/rlm-git-commits/internal/logging"
)

// Tag classifies a working-memory entry.
type Tag string

const (
	TagFinding    Tag = "finding"
	TagHypothesis Tag = "hypothesis"
	TagDecision   Tag = "decision"
	TagContext    Tag = "context"
	TagTodo       Tag = "todo"
)

// Entry is one working-memory record (§3).
type Entry struct {
	Timestamp string   `json:"timestamp"`
	Tag       Tag      `json:"tag"`
	Scope     []string `json:"scope,omitempty"`
	Text      string   `json:"text"`
	Source    string   `json:"source,omitempty"`
}

// WorkingMemory is the persisted per-session scratch log (§3).
type WorkingMemory struct {
	Version   int     `json:"version"`
	SessionID string  `json:"sessionId"`
	Created   string  `json:"created"`
	Updated   string  `json:"updated"`
	Entries   []Entry `json:"entries"`
}

// FileName is the fixed on-disk location relative to a git directory
// (§6.2).
const FileName = "working-memory.json"

func PathFor(gitDir string) string {
	return filepath.Join(gitDir, "info", FileName)
}

// Load reads the working memory at path. If the file is absent, or if
// its sessionId does not match sessionID, it is treated as absent
// (nil, nil) rather than an error -- a stale file from a prior session
// must never leak into the current one (§4.6).
func Load(path, sessionID string) (*WorkingMemory, error) {
	log := logging.Get(logging.CategoryMemory)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var wm WorkingMemory
	if err := json.Unmarshal(data, &wm); err != nil {
		return nil, err
	}

	if wm.SessionID != sessionID {
		log.Debug("working memory session mismatch: file=%s current=%s, treating as absent", wm.SessionID, sessionID)
		return nil, nil
	}
	return &wm, nil
}

// AddEntry timestamps entry with the current instant and appends it,
// creating the file on first write for sessionID. The whole file is
// rewritten atomically.
func AddEntry(path, sessionID string, entry Entry) error {
	log := logging.Get(logging.CategoryMemory)
	now := time.Now().UTC().Format(time.RFC3339)

	wm, err := Load(path, sessionID)
	if err != nil {
		return err
	}
	if wm == nil {
		wm = &WorkingMemory{Version: 1, SessionID: sessionID, Created: now}
	}

	entry.Timestamp = now
	wm.Entries = append(wm.Entries, entry)
	wm.Updated = now

	if err := writeAtomic(path, wm); err != nil {
		return err
	}
	log.Debug("appended %s entry to session %s (now %d entries)", entry.Tag, sessionID, len(wm.Entries))
	return nil
}

// Clear removes the working memory file. Absence is success.
func Clear(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func writeAtomic(path string, wm *WorkingMemory) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(wm, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Format renders the last n entries (default 20) as a tagged
// plain-text block wrapped by <working-memory>, for injection into the
// agent's context (§4.6).
func Format(wm *WorkingMemory, n int) string {
	if n <= 0 {
		n = 20
	}
	if wm == nil {
		return fmt.Sprintf(`<working-memory session="" entries="0"></working-memory>`)
	}

	entries := wm.Entries
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	out := fmt.Sprintf(`<working-memory session=%q entries="%d">`+"\n", wm.SessionID, len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("[%s] %s", e.Tag, e.Text)
		if len(e.Scope) > 0 {
			line += fmt.Sprintf(" (scope: %v)", e.Scope)
		}
		if e.Source != "" {
			line += fmt.Sprintf(" (source: %s)", e.Source)
		}
		out += line + "\n"
	}
	out += "</working-memory>"
	return out
}

package index

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FileName is the fixed on-disk location of the index relative to a
// git directory (§6.2).
const FileName = "trailer-index.json"

// PathFor returns the full path to the index file for the given git
// directory.
func PathFor(gitDir string) string {
	return filepath.Join(gitDir, "info", FileName)
}

// Persist writes idx as pretty-printed JSON at path via a
// write-temp-then-rename, matching the atomic-write pattern the
// teacher uses for its own generated JSON artifacts.
func Persist(idx *TrailerIndex, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Load reads and parses the index at path. A missing file is not an
// error; callers get (nil, nil) and should treat the index as absent.
func Load(path string) (*TrailerIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var idx TrailerIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Package index implements the trailer inverted index: building it
// from git log, persisting it as JSON, checking its freshness against
// the current HEAD, and answering the query intersection algorithm
// (C4, §3, §4.4).
package index

// IndexedCommit is the compact per-commit form stored in the index.
type IndexedCommit struct {
	Hash           string   `json:"hash"`
	Date           string   `json:"date"`
	Subject        string   `json:"subject"`
	Intent         string   `json:"intent,omitempty"`
	Scope          []string `json:"scope,omitempty"`
	Session        string   `json:"session,omitempty"`
	DecidedAgainst []string `json:"decidedAgainst,omitempty"`
}

// TrailerIndex is the persisted inverted index (§3).
type TrailerIndex struct {
	Version     int    `json:"version"`
	Generated   string `json:"generated"`
	HeadCommit  string `json:"headCommit"`
	CommitCount int    `json:"commitCount"`

	ByIntent           map[string][]string      `json:"byIntent"`
	ByScope            map[string][]string      `json:"byScope"`
	BySession          map[string][]string      `json:"bySession"`
	WithDecidedAgainst map[string]bool          `json:"withDecidedAgainst"`
	Commits            map[string]IndexedCommit `json:"commits"`

	// Order preserves git log's reverse-chronological insertion order
	// across a JSON round-trip, since Go map iteration order is not
	// stable and every other bucket is a JSON array with its own
	// natural order.
	Order []string `json:"order"`
}

func newEmptyIndex() *TrailerIndex {
	return &TrailerIndex{
		Version:            1,
		ByIntent:           make(map[string][]string),
		ByScope:            make(map[string][]string),
		BySession:          make(map[string][]string),
		WithDecidedAgainst: make(map[string]bool),
		Commits:            make(map[string]IndexedCommit),
	}
}

// QueryParams selects commits along four dimensions; a zero-value
// field means that dimension is unconstrained (§4.4).
type QueryParams struct {
	Scope          string
	Intents        []string
	Session        string
	DecidedAgainst string
	Limit          int
}

const defaultLimit = 20

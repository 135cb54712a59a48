package index

import "github.com/srdjan/rlm-git-commits/internal/match"

// Query answers a QueryParams request against idx using the
// intersection algorithm of §4.4: each present filter narrows a
// running candidate set that starts unconstrained (nil); if every
// filter is absent, the candidate set stays unconstrained and Query
// returns an empty slice -- this is deliberate, "give me commits
// matching these dimensions" rather than "give me everything".
func Query(idx *TrailerIndex, p QueryParams) []IndexedCommit {
	var candidates map[string]bool
	constrained := false

	intersect := func(matched map[string]bool) {
		if !constrained {
			candidates = matched
			constrained = true
			return
		}
		next := make(map[string]bool, len(candidates))
		for h := range candidates {
			if matched[h] {
				next[h] = true
			}
		}
		candidates = next
	}

	if len(p.Intents) > 0 {
		matched := make(map[string]bool)
		for _, intent := range p.Intents {
			for _, h := range idx.ByIntent[intent] {
				matched[h] = true
			}
		}
		intersect(matched)
	}

	if p.Session != "" {
		matched := make(map[string]bool)
		for _, h := range idx.BySession[p.Session] {
			matched[h] = true
		}
		intersect(matched)
	}

	if p.DecidedAgainst != "" {
		matched := make(map[string]bool)
		for h := range idx.WithDecidedAgainst {
			c, ok := idx.Commits[h]
			if !ok {
				continue
			}
			for _, entry := range c.DecidedAgainst {
				if match.WordBoundaryMatch(entry, p.DecidedAgainst) {
					matched[h] = true
					break
				}
			}
		}
		intersect(matched)
	}

	if p.Scope != "" {
		matched := make(map[string]bool)
		for key, hashes := range idx.ByScope {
			if match.ScopeMatches(key, p.Scope) {
				for _, h := range hashes {
					matched[h] = true
				}
			}
		}
		intersect(matched)
	}

	if !constrained {
		return []IndexedCommit{}
	}

	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	results := make([]IndexedCommit, 0, limit)
	for _, hash := range idx.Order {
		if !candidates[hash] {
			continue
		}
		if c, ok := idx.Commits[hash]; ok {
			results = append(results, c)
		}
		if len(results) >= limit {
			break
		}
	}
	return results
}

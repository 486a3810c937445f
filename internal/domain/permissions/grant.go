package permissions

import "strings"

// DenyPrefix marks a grant entry as an explicit denial ("-authme.admin.*").
const DenyPrefix = "-"

// Grant represents the node patterns granted to a sender or group.
// Entries are lower-cased and kept in insertion order without duplicates.
type Grant []string

// NewGrant creates a new empty Grant.
func NewGrant(patterns ...string) Grant {
	g := make(Grant, 0, len(patterns))
	for _, p := range patterns {
		g.Add(p)
	}
	return g
}

// Add adds a pattern to the grant if it's not already present.
func (g *Grant) Add(pattern string) {
	pattern = normalizePattern(pattern)
	if pattern == "" || g.Contains(pattern) {
		return
	}
	*g = append(*g, pattern)
}

// Contains checks if the grant holds a specific pattern verbatim.
func (g Grant) Contains(pattern string) bool {
	pattern = normalizePattern(pattern)
	for _, existing := range g {
		if existing == pattern {
			return true
		}
	}
	return false
}

// Merge appends every pattern of other that is not already present.
func (g *Grant) Merge(other Grant) {
	for _, p := range other {
		g.Add(p)
	}
}

// Remove removes a pattern from the grant.
func (g *Grant) Remove(pattern string) {
	pattern = normalizePattern(pattern)
	for i, existing := range *g {
		if existing == pattern {
			*g = append((*g)[:i], (*g)[i+1:]...)
			return
		}
	}
}

func normalizePattern(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

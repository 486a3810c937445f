package permissions

import "strings"

// Decision is the outcome of matching a node against a grant.
type Decision int

const (
	// Undecided means no entry of the grant covers the node.
	Undecided Decision = iota
	// Granted means an allow entry covers the node and no denial does.
	Granted
	// Denied means a denial entry covers the node.
	Denied
)

// Policy decides whether a requested node is covered by granted patterns.
// This is a pure domain service.
type Policy struct{}

// NewPolicy creates a new domain policy.
func NewPolicy() *Policy {
	return &Policy{}
}

// Decide matches the node against every entry of the grant. Denials win over allows.
func (p *Policy) Decide(request Node, granted Grant) Decision {
	name := strings.ToLower(request.Name)
	decision := Undecided
	for _, entry := range granted {
		if strings.HasPrefix(entry, DenyPrefix) {
			if matchPattern(name, strings.TrimPrefix(entry, DenyPrefix)) {
				return Denied
			}
			continue
		}
		if matchPattern(name, entry) {
			decision = Granted
		}
	}
	return decision
}

// matchPattern performs simple glob-like pattern matching on dotted nodes.
// Supports "*" as the universal wildcard and a trailing ".*" for a subtree.
func matchPattern(request, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, ".*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(request, prefix) || request == strings.TrimSuffix(prefix, ".")
	}
	return request == pattern
}

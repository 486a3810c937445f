// Package permissions defines domain types for permission nodes and grants.
package permissions

import "strings"

// DefaultPermission is the fallback applied to a node when no explicit grant,
// denial or rule covers the sender.
type DefaultPermission int

const (
	// NotAllowed denies the node unless it is explicitly granted.
	NotAllowed DefaultPermission = iota
	// OpOnly allows the node for operators.
	OpOnly
	// Allowed allows the node for everyone.
	Allowed
)

// String returns a human-readable representation of the default.
func (d DefaultPermission) String() string {
	switch d {
	case NotAllowed:
		return "not_allowed"
	case OpOnly:
		return "op_only"
	case Allowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// Node is an opaque capability name such as "authme.admin.reload".
// This is a pure value object in the domain.
type Node struct {
	Name    string
	Default DefaultPermission
}

// NewNode creates a node with the given default.
func NewNode(name string, def DefaultPermission) *Node {
	return &Node{Name: strings.ToLower(strings.TrimSpace(name)), Default: def}
}

// Equals checks if two nodes name the same capability.
func (n Node) Equals(other Node) bool {
	return n.Name == other.Name
}

// String returns the node name.
func (n Node) String() string {
	return n.Name
}

// Parent returns the node one level up ("authme.admin.reload" -> "authme.admin").
// The root segment has no parent and returns an empty string.
func (n Node) Parent() string {
	idx := strings.LastIndex(n.Name, ".")
	if idx < 0 {
		return ""
	}
	return n.Name[:idx]
}

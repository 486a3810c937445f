package command

import (
	"fmt"
	"strings"
)

// TreeError lists every invariant the registry tree violates.
type TreeError struct {
	Issues []string
}

func (e *TreeError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid command tree: " + e.Issues[0]
	}
	return fmt.Sprintf("invalid command tree (%d issues):\n  - %s", len(e.Issues), strings.Join(e.Issues, "\n  - "))
}

// Walk visits every node depth-first in registration order. Returning false
// from fn stops the walk.
func Walk(roots []*Description, fn func(d *Description) bool) {
	var visit func(d *Description) bool
	visit = func(d *Description) bool {
		if !fn(d) {
			return false
		}
		for _, c := range d.children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	for _, r := range roots {
		if !visit(r) {
			return
		}
	}
}

// ValidateTree checks the registry invariants: labels are non-empty and unique
// among siblings (case-insensitively), every node is executable or has
// children, parent links are consistent, the tree is acyclic, and required
// arguments precede optional ones.
func ValidateTree(roots []*Description) error {
	var issues []string
	issues = append(issues, checkSiblings("<root>", roots)...)

	onPath := make(map[*Description]bool)
	var visit func(d *Description, parent *Description)
	visit = func(d *Description, parent *Description) {
		name := describeNode(d)
		if onPath[d] {
			issues = append(issues, fmt.Sprintf("%s: cycle detected", name))
			return
		}
		onPath[d] = true
		defer delete(onPath, d)

		if d.parent != parent {
			issues = append(issues, fmt.Sprintf("%s: parent link does not match its position in the tree", name))
		}
		if len(d.labels) == 0 {
			issues = append(issues, fmt.Sprintf("%s: at least one label is required", name))
		}
		for i, l := range d.labels {
			if l == "" || strings.ContainsAny(l, " \t\n") {
				issues = append(issues, fmt.Sprintf("%s: label %d must be a single non-empty word", name, i))
			}
		}
		if !d.IsExecutable() && !d.HasChildren() {
			issues = append(issues, fmt.Sprintf("%s: node has neither an executable nor children", name))
		}
		seenOptional := false
		for _, a := range d.arguments {
			if a.Optional {
				seenOptional = true
			} else if seenOptional {
				issues = append(issues, fmt.Sprintf("%s: required argument %q follows an optional one", name, a.Name))
			}
		}
		issues = append(issues, checkSiblings(name, d.children)...)
		for _, c := range d.children {
			visit(c, d)
		}
	}
	for _, r := range roots {
		visit(r, nil)
	}

	if len(issues) > 0 {
		return &TreeError{Issues: issues}
	}
	return nil
}

func checkSiblings(owner string, siblings []*Description) []string {
	var issues []string
	seen := make(map[string]*Description)
	for _, s := range siblings {
		for _, l := range s.labels {
			folded := FoldLabel(l)
			if other, ok := seen[folded]; ok && other != s {
				issues = append(issues, fmt.Sprintf("%s: label %q is used by both %s and %s", owner, l, describeNode(other), describeNode(s)))
				continue
			}
			seen[folded] = s
		}
	}
	return issues
}

func describeNode(d *Description) string {
	if len(d.labels) == 0 || d.labels[0] == "" {
		return "<unlabelled>"
	}
	// Path() would loop forever on a parent cycle.
	return d.labels[0]
}

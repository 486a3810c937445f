package command

import (
	"strings"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
	"golang.org/x/text/cases"
)

// ArgumentDescription describes one positional argument of a command.
type ArgumentDescription struct {
	Name        string
	Description string
	Optional    bool
}

// Description is a node of the command registry tree. It is built once through
// a Builder and never mutated afterwards.
type Description struct {
	labels              []string
	description         string
	detailedDescription string
	permission          *permissions.Node
	arguments           []ArgumentDescription
	executable          CommandType
	children            []*Description
	parent              *Description
}

// Labels returns the aliases of the command; the first one is canonical.
func (d *Description) Labels() []string {
	return append([]string(nil), d.labels...)
}

// Label returns the canonical label.
func (d *Description) Label() string {
	if len(d.labels) == 0 {
		return ""
	}
	return d.labels[0]
}

// Description returns the short description.
func (d *Description) Description() string { return d.description }

// DetailedDescription returns the long description, falling back to the short one.
func (d *Description) DetailedDescription() string {
	if d.detailedDescription == "" {
		return d.description
	}
	return d.detailedDescription
}

// Permission returns the required node, or nil when none is required.
func (d *Description) Permission() *permissions.Node { return d.permission }

// Arguments returns the argument specs in order.
func (d *Description) Arguments() []ArgumentDescription {
	return append([]ArgumentDescription(nil), d.arguments...)
}

// Executable returns the command type reference; zero for pure parents.
func (d *Description) Executable() CommandType { return d.executable }

// IsExecutable reports whether the node has a command body.
func (d *Description) IsExecutable() bool { return !d.executable.IsZero() }

// Children returns the sub-commands in registration order.
func (d *Description) Children() []*Description {
	return append([]*Description(nil), d.children...)
}

// HasChildren reports whether the node has sub-commands.
func (d *Description) HasChildren() bool { return len(d.children) > 0 }

// Parent returns the parent node, or nil for a base command.
func (d *Description) Parent() *Description { return d.parent }

// HasLabel checks case-insensitively whether label is one of the aliases.
func (d *Description) HasLabel(label string) bool {
	folded := FoldLabel(label)
	for _, l := range d.labels {
		if FoldLabel(l) == folded {
			return true
		}
	}
	return false
}

// MinArguments returns the number of required arguments.
func (d *Description) MinArguments() int {
	n := 0
	for _, a := range d.arguments {
		if !a.Optional {
			n++
		}
	}
	return n
}

// MaxArguments returns the number of declared arguments.
func (d *Description) MaxArguments() int {
	return len(d.arguments)
}

// AcceptsArgumentCount reports whether n lies within [MinArguments, MaxArguments].
func (d *Description) AcceptsArgumentCount(n int) bool {
	return n >= d.MinArguments() && n <= d.MaxArguments()
}

// LabelCount returns the depth of the node; a base command has 1.
func (d *Description) LabelCount() int {
	n := 0
	for cur := d; cur != nil; cur = cur.parent {
		n++
	}
	return n
}

// Root returns the base command this node belongs to.
func (d *Description) Root() *Description {
	cur := d
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Path returns the canonical labels from the base command down to this node.
func (d *Description) Path() []string {
	path := make([]string, d.LabelCount())
	i := len(path) - 1
	for cur := d; cur != nil; cur = cur.parent {
		path[i] = cur.Label()
		i--
	}
	return path
}

// CommandPath returns the slash-prefixed invocation, e.g. "/authme reload".
func (d *Description) CommandPath() string {
	return "/" + strings.Join(d.Path(), " ")
}

// FoldLabel returns the case-folded form used for label comparison.
// A Caser keeps state, so a fresh one is built per call.
func FoldLabel(label string) string {
	return cases.Fold().String(label)
}

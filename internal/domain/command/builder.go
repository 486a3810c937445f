package command

import (
	"strings"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
)

// Builder assembles a Description. Register links the node to its parent.
//
// Usage:
//
//	base := command.NewBuilder().
//	    Labels("authme", "auth").
//	    Description("AuthMe op commands").
//	    Register()
//
//	command.NewBuilder().
//	    Parent(base).
//	    Labels("reload", "rld").
//	    Permission(permissions.NewNode("authme.admin.reload", permissions.OpOnly)).
//	    Executable("authme.reload").
//	    Register()
type Builder struct {
	desc *Description
}

// NewBuilder starts a new description.
func NewBuilder() *Builder {
	return &Builder{desc: &Description{}}
}

// Labels sets the aliases; the first is canonical. Surrounding whitespace is trimmed.
func (b *Builder) Labels(labels ...string) *Builder {
	b.desc.labels = make([]string, 0, len(labels))
	for _, l := range labels {
		b.desc.labels = append(b.desc.labels, strings.TrimSpace(l))
	}
	return b
}

// Description sets the short description.
func (b *Builder) Description(text string) *Builder {
	b.desc.description = text
	return b
}

// DetailedDescription sets the long description.
func (b *Builder) DetailedDescription(text string) *Builder {
	b.desc.detailedDescription = text
	return b
}

// Permission sets the required node.
func (b *Builder) Permission(node *permissions.Node) *Builder {
	b.desc.permission = node
	return b
}

// WithArgument appends an argument spec.
func (b *Builder) WithArgument(name, description string, optional bool) *Builder {
	b.desc.arguments = append(b.desc.arguments, ArgumentDescription{
		Name:        name,
		Description: description,
		Optional:    optional,
	})
	return b
}

// Executable sets the command type reference.
func (b *Builder) Executable(t CommandType) *Builder {
	b.desc.executable = t
	return b
}

// Parent sets the parent node.
func (b *Builder) Parent(parent *Description) *Builder {
	b.desc.parent = parent
	return b
}

// Register finalizes the description and appends it to its parent's children.
func (b *Builder) Register() *Description {
	d := b.desc
	if d.parent != nil {
		d.parent.children = append(d.parent.children, d)
	}
	b.desc = &Description{}
	return d
}

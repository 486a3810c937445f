// Package help renders command help to senders.
package help

import (
	"fmt"
	"strings"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
)

// MessageNoHelp is sent when a result carries no command to describe.
const MessageNoHelp = "Failed to retrieve any help information!"

// Ensure interface compliance
var _ ports.HelpProvider = (*Provider)(nil)

// Provider renders help sections for a resolved command.
type Provider struct {
	permissionsManager ports.PermissionsManager
	header             string
}

// NewProvider creates a help provider. The header is printed above the usage
// line; an empty header is omitted.
func NewProvider(permissionsManager ports.PermissionsManager, header string) *Provider {
	return &Provider{
		permissionsManager: permissionsManager,
		header:             header,
	}
}

// OutputHelp sends the sections selected by options, in a fixed order.
func (p *Provider) OutputHelp(sender command.Sender, result *command.FoundResult, options ports.HelpOptions) {
	for _, line := range p.Lines(sender, result, options) {
		sender.SendMessage(line)
	}
}

// Lines renders the help without sending it.
func (p *Provider) Lines(sender command.Sender, result *command.FoundResult, options ports.HelpOptions) []string {
	desc := result.Description()
	if desc == nil {
		return []string{MessageNoHelp}
	}

	var lines []string
	if options.Has(ports.HelpShowCommand) {
		if p.header != "" {
			lines = append(lines, fmt.Sprintf("==========[ %s HELP ]==========", p.header))
		}
		lines = append(lines, "Command: "+Syntax(desc))
	}
	if options.Has(ports.HelpShowDescription) && desc.Description() != "" {
		lines = append(lines, "Short description: "+desc.Description())
	}
	if options.Has(ports.HelpShowLongDescription) && desc.DetailedDescription() != "" {
		lines = append(lines, "Detailed description:", " "+desc.DetailedDescription())
	}
	if options.Has(ports.HelpShowArguments) {
		lines = append(lines, argumentLines(desc)...)
	}
	if options.Has(ports.HelpShowPermissions) {
		lines = append(lines, p.permissionLines(sender, desc)...)
	}
	if options.Has(ports.HelpShowAlternatives) {
		lines = append(lines, alternativeLines(desc)...)
	}
	if options.Has(ports.HelpShowChildren) {
		lines = append(lines, childLines(desc)...)
	}
	return lines
}

// Syntax returns the usage of desc, e.g. "/authme perms <player> [node]".
func Syntax(desc *command.Description) string {
	return syntaxWithPath(desc.CommandPath(), desc)
}

func syntaxWithPath(path string, desc *command.Description) string {
	var b strings.Builder
	b.WriteString(path)
	for _, arg := range desc.Arguments() {
		if arg.Optional {
			fmt.Fprintf(&b, " [%s]", arg.Name)
		} else {
			fmt.Fprintf(&b, " <%s>", arg.Name)
		}
	}
	return b.String()
}

func argumentLines(desc *command.Description) []string {
	args := desc.Arguments()
	if len(args) == 0 {
		return []string{"Arguments:", " No arguments"}
	}
	lines := []string{"Arguments:"}
	for _, arg := range args {
		line := fmt.Sprintf(" %s: %s", arg.Name, arg.Description)
		if arg.Optional {
			line += " (Optional)"
		}
		lines = append(lines, line)
	}
	return lines
}

func (p *Provider) permissionLines(sender command.Sender, desc *command.Description) []string {
	node := desc.Permission()
	if node == nil {
		return []string{"Permissions:", " No permission needed"}
	}
	status := "No permission"
	if p.permissionsManager.HasPermission(sender, node) {
		status = "You have permission"
	}
	return []string{
		"Permissions:",
		fmt.Sprintf(" %s (%s)", node.Name, status),
		" Default: " + defaultDescription(node.Default),
	}
}

func defaultDescription(d permissions.DefaultPermission) string {
	switch d {
	case permissions.Allowed:
		return "Everyone"
	case permissions.OpOnly:
		return "OP's only"
	default:
		return "No one"
	}
}

func alternativeLines(desc *command.Description) []string {
	labels := desc.Labels()
	if len(labels) < 2 {
		return nil
	}
	parentPath := ""
	if parent := desc.Parent(); parent != nil {
		parentPath = strings.Join(parent.Path(), " ") + " "
	}
	lines := []string{"Alternatives:"}
	for _, alias := range labels[1:] {
		lines = append(lines, " "+syntaxWithPath("/"+parentPath+alias, desc))
	}
	return lines
}

func childLines(desc *command.Description) []string {
	children := desc.Children()
	if len(children) == 0 {
		return nil
	}
	lines := []string{"Commands:"}
	for _, child := range children {
		line := " " + child.CommandPath()
		if child.Description() != "" {
			line += ": " + child.Description()
		}
		lines = append(lines, line)
	}
	return lines
}

// Package commands registers the commands shipped with AuthMe.
package commands

import (
	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/services"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
)

// Command type references.
const (
	HelpType    = services.HelpCommandType
	VersionType command.CommandType = "authme.version"
	ReloadType  command.CommandType = "authme.reload"
	PermsType   command.CommandType = "authme.perms"
	HistoryType command.CommandType = "authme.history"
)

// Permission nodes.
var (
	ReloadPermission  = permissions.NewNode("authme.admin.reload", permissions.OpOnly)
	PermsPermission   = permissions.NewNode("authme.admin.perms", permissions.OpOnly)
	HistoryPermission = permissions.NewNode("authme.admin.history", permissions.OpOnly)
)

// BuildTree registers the command tree under mainCommand ("authme" when
// empty) and returns its roots.
func BuildTree(mainCommand string) []*command.Description {
	labels := []string{"authme", "auth"}
	if mainCommand != "" && command.FoldLabel(mainCommand) != "authme" {
		labels = []string{mainCommand, "authme"}
	}

	base := command.NewBuilder().
		Labels(labels...).
		Description("AuthMe op commands").
		DetailedDescription("The main AuthMe command. The root for all admin commands.").
		Register()

	command.NewBuilder().
		Parent(base).
		Labels("help", "hlp", "h", "sos", "?").
		Description("View help").
		DetailedDescription("View detailed help for /" + labels[0] + " commands.").
		WithArgument("query", "The command to get help for", true).
		Executable(HelpType).
		Register()

	command.NewBuilder().
		Parent(base).
		Labels("version", "ver", "v", "about", "info").
		Description("Version info").
		DetailedDescription("Show detailed information about the installed AuthMe version.").
		Executable(VersionType).
		Register()

	command.NewBuilder().
		Parent(base).
		Labels("reload", "rld").
		Description("Reload permissions").
		DetailedDescription("Reload the permissions file.").
		Permission(ReloadPermission).
		Executable(ReloadType).
		Register()

	command.NewBuilder().
		Parent(base).
		Labels("perms", "permissions").
		Description("Inspect permissions").
		DetailedDescription("List the permission entries of a player, or check a single node.").
		WithArgument("player", "Player name or UUID", false).
		WithArgument("node", "Permission node to check", true).
		Permission(PermsPermission).
		Executable(PermsType).
		Register()

	command.NewBuilder().
		Parent(base).
		Labels("history", "hist").
		Description("Recent commands").
		DetailedDescription("List the most recently dispatched commands and their outcome, optionally for one sender only.").
		WithArgument("count", "Number of entries to show", true).
		WithArgument("player", "Only show commands sent by this player", true).
		Permission(HistoryPermission).
		Executable(HistoryType).
		Register()

	return []*command.Description{base}
}

// FindPermission returns the registered node named name, or nil.
func FindPermission(roots []*command.Description, name string) *permissions.Node {
	wanted := permissions.NewNode(name, permissions.NotAllowed)
	var found *permissions.Node
	command.Walk(roots, func(d *command.Description) bool {
		if p := d.Permission(); p != nil && p.Equals(*wanted) {
			found = p
			return false
		}
		return true
	})
	return found
}

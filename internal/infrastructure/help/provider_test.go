package help

import (
	"testing"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	messages []string
}

func (s *recordingSender) Name() string { return "tester" }

func (s *recordingSender) SendMessage(msg string) { s.messages = append(s.messages, msg) }

type staticPermissions bool

func (p staticPermissions) HasPermission(command.Sender, *permissions.Node) bool { return bool(p) }

func sampleTree() (base, perms, version *command.Description) {
	base = command.NewBuilder().
		Labels("authme", "auth").
		Description("AuthMe op commands").
		DetailedDescription("The main AuthMe command. The root for all admin commands.").
		Register()
	perms = command.NewBuilder().
		Parent(base).
		Labels("perms", "permissions").
		Description("Inspect permissions").
		Permission(permissions.NewNode("authme.admin.perms", permissions.OpOnly)).
		WithArgument("player", "Player name", false).
		WithArgument("node", "Permission node to check", true).
		Executable("authme.perms").
		Register()
	version = command.NewBuilder().
		Parent(base).
		Labels("version").
		Description("Show version info").
		Executable("authme.version").
		Register()
	return base, perms, version
}

func resultFor(desc *command.Description) *command.FoundResult {
	return command.NewFoundResult(desc, desc.Path(), nil, 0, command.StatusSuccess)
}

func TestProvider_Arguments(t *testing.T) {
	_, perms, version := sampleTree()
	p := NewProvider(staticPermissions(true), "AuthMe")

	sender := &recordingSender{}
	p.OutputHelp(sender, resultFor(perms), ports.HelpShowArguments)

	assert.Equal(t, []string{
		"Arguments:",
		" player: Player name",
		" node: Permission node to check (Optional)",
	}, sender.messages)

	sender = &recordingSender{}
	p.OutputHelp(sender, resultFor(version), ports.HelpShowArguments)

	assert.Equal(t, []string{"Arguments:", " No arguments"}, sender.messages)
}

func TestProvider_AllOptions(t *testing.T) {
	_, perms, _ := sampleTree()
	p := NewProvider(staticPermissions(false), "AuthMe")

	lines := p.Lines(&recordingSender{}, resultFor(perms), ports.HelpAllOptions)

	assert.Equal(t, []string{
		"==========[ AuthMe HELP ]==========",
		"Command: /authme perms <player> [node]",
		"Short description: Inspect permissions",
		"Detailed description:",
		" Inspect permissions",
		"Arguments:",
		" player: Player name",
		" node: Permission node to check (Optional)",
		"Permissions:",
		" authme.admin.perms (No permission)",
		" Default: OP's only",
		"Alternatives:",
		" /authme permissions <player> [node]",
	}, lines)
}

func TestProvider_Children(t *testing.T) {
	base, _, _ := sampleTree()
	p := NewProvider(staticPermissions(true), "")

	lines := p.Lines(&recordingSender{}, resultFor(base), ports.HelpShowCommand|ports.HelpShowChildren|ports.HelpShowAlternatives)

	assert.Equal(t, []string{
		"Command: /authme",
		"Alternatives:",
		" /auth",
		"Commands:",
		" /authme perms: Inspect permissions",
		" /authme version: Show version info",
	}, lines)
}

func TestProvider_PermissionsSection(t *testing.T) {
	_, perms, version := sampleTree()
	p := NewProvider(staticPermissions(true), "")

	assert.Equal(t, []string{
		"Permissions:",
		" authme.admin.perms (You have permission)",
		" Default: OP's only",
	}, p.Lines(&recordingSender{}, resultFor(perms), ports.HelpShowPermissions))
	assert.Equal(t, []string{
		"Permissions:",
		" No permission needed",
	}, p.Lines(&recordingSender{}, resultFor(version), ports.HelpShowPermissions))
}

func TestProvider_NoDescription(t *testing.T) {
	p := NewProvider(staticPermissions(true), "AuthMe")
	sender := &recordingSender{}

	p.OutputHelp(sender, command.NewFoundResult(nil, nil, nil, 0, command.StatusUnknownLabel), ports.HelpAllOptions)

	assert.Equal(t, []string{MessageNoHelp}, sender.messages)
}

func TestSyntax(t *testing.T) {
	_, perms, version := sampleTree()

	assert.Equal(t, "/authme perms <player> [node]", Syntax(perms))
	assert.Equal(t, "/authme version", Syntax(version))
}

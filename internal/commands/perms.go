package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
	"github.com/google/uuid"
)

// PermissionInspector exposes the resolved permission entries of a sender.
type PermissionInspector interface {
	ports.PermissionsManager
	EffectiveGrant(sender command.Sender) permissions.Grant
	GroupsOf(sender command.Sender) []string
	IsOp(sender command.Sender) bool
}

// Ensure interface compliance
var _ command.Executable = (*PermsCommand)(nil)

// PermsCommand shows the permission entries of a player, or checks a single
// node for them.
type PermsCommand struct {
	inspector PermissionInspector
	roots     []*command.Description
}

// NewPermsCommand creates the perms command. Nodes declared in roots are
// checked with their declared default; others default to not allowed.
func NewPermsCommand(inspector PermissionInspector, roots []*command.Description) *PermsCommand {
	return &PermsCommand{inspector: inspector, roots: roots}
}

// ExecuteCommand reports on the player named by the first argument.
func (c *PermsCommand) ExecuteCommand(_ context.Context, sender command.Sender, arguments []string) {
	target := newOfflinePlayer(arguments[0])

	if len(arguments) > 1 {
		node := FindPermission(c.roots, arguments[1])
		if node == nil {
			node = permissions.NewNode(arguments[1], permissions.NotAllowed)
		}
		if c.inspector.HasPermission(target, node) {
			sender.SendMessage(fmt.Sprintf("%s has %s", target.Name(), node))
		} else {
			sender.SendMessage(fmt.Sprintf("%s does not have %s", target.Name(), node))
		}
		return
	}

	op := "no"
	if c.inspector.IsOp(target) {
		op = "yes"
	}
	sender.SendMessage("Permissions of " + target.Name() + ":")
	sender.SendMessage(" Operator: " + op)
	sender.SendMessage(" Groups: " + joinOrNone(c.inspector.GroupsOf(target)))
	sender.SendMessage(" Nodes: " + joinOrNone(c.inspector.EffectiveGrant(target)))
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

// offlinePlayer stands in for a player who is not the sender. A UUID
// argument identifies the player by ID as well as by name.
type offlinePlayer struct {
	name string
	id   uuid.UUID
}

func newOfflinePlayer(arg string) *offlinePlayer {
	p := &offlinePlayer{name: arg}
	if id, err := uuid.Parse(arg); err == nil {
		p.id = id
	}
	return p
}

func (p *offlinePlayer) Name() string { return p.name }

func (p *offlinePlayer) SendMessage(string) {}

func (p *offlinePlayer) UniqueID() uuid.UUID { return p.id }

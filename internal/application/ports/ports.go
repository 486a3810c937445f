// Package ports defines interfaces for the collaborators of the dispatcher.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/audit"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
)

// CommandMapper resolves normalized parts against the command registry.
type CommandMapper interface {
	// MapPartsToCommand returns the best match for parts. It never returns nil.
	MapPartsToCommand(sender command.Sender, parts []string) *command.FoundResult

	// CommandTypes returns every executable type referenced by the registry.
	CommandTypes() []command.CommandType
}

// PermissionsManager answers whether a sender holds a permission node.
// A nil node means no permission is required.
type PermissionsManager interface {
	HasPermission(sender command.Sender, node *permissions.Node) bool
}

// Injector builds command instances by type reference.
type Injector interface {
	NewInstance(t command.CommandType) (any, error)
}

// HelpProvider renders help for a resolved command to the sender.
type HelpProvider interface {
	OutputHelp(sender command.Sender, result *command.FoundResult, options HelpOptions)
}

// HelpOptions selects the sections rendered by a HelpProvider.
type HelpOptions uint

const (
	// HelpShowCommand prints the usage line.
	HelpShowCommand HelpOptions = 1 << iota
	// HelpShowDescription prints the short description.
	HelpShowDescription
	// HelpShowLongDescription prints the detailed description.
	HelpShowLongDescription
	// HelpShowArguments prints one line per argument.
	HelpShowArguments
	// HelpShowPermissions prints the required node and whether the sender has it.
	HelpShowPermissions
	// HelpShowAlternatives prints the alias invocations.
	HelpShowAlternatives
	// HelpShowChildren prints the sub-commands.
	HelpShowChildren

	// HelpAllOptions enables every section.
	HelpAllOptions = HelpShowCommand | HelpShowDescription | HelpShowLongDescription |
		HelpShowArguments | HelpShowPermissions | HelpShowAlternatives | HelpShowChildren
)

// Has reports whether every bit of o is set.
func (h HelpOptions) Has(o HelpOptions) bool {
	return h&o == o
}

// DispatchRecorder persists the outcome of dispatches.
type DispatchRecorder interface {
	Record(ctx context.Context, record *audit.DispatchRecord) error
}

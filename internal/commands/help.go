package commands

import (
	"context"
	"math"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
)

// MessageNoHelp is sent when the query does not resolve to a command.
const MessageNoHelp = "Could not get help for this command"

// rootHelpOptions is used for base commands, whose interesting part is the
// list of children.
const rootHelpOptions = ports.HelpShowCommand | ports.HelpShowDescription |
	ports.HelpShowChildren | ports.HelpShowAlternatives

// Ensure interface compliance
var _ command.Executable = (*HelpCommand)(nil)

// HelpCommand resolves its arguments as a command invocation and shows help
// for the result.
type HelpCommand struct {
	mapper    ports.CommandMapper
	help      ports.HelpProvider
	threshold float64
}

// NewHelpCommand creates the help command.
func NewHelpCommand(mapper ports.CommandMapper, help ports.HelpProvider, threshold float64) *HelpCommand {
	return &HelpCommand{mapper: mapper, help: help, threshold: threshold}
}

// ExecuteCommand shows help for the command named by arguments.
func (c *HelpCommand) ExecuteCommand(_ context.Context, sender command.Sender, arguments []string) {
	result := c.mapper.MapPartsToCommand(sender, arguments)
	desc := result.Description()

	switch result.Status() {
	case command.StatusMissingBaseCommand:
		sender.SendMessage(MessageNoHelp)
		return
	case command.StatusUnknownLabel:
		switch {
		case desc == nil:
			sender.SendMessage(MessageNoHelp)
			return
		case math.IsInf(result.Difference(), 1):
			// A pure parent was named without a child: describe the parent.
		case result.IsSuggestible(c.threshold):
			sender.SendMessage("Assuming " + desc.CommandPath())
		default:
			sender.SendMessage(MessageNoHelp)
			return
		}
	}

	options := ports.HelpAllOptions
	if desc.LabelCount() == 1 {
		options = rootHelpOptions
	}
	c.help.OutputHelp(sender, result, options)
}

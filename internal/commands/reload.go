package commands

import (
	"context"
	"log/slog"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
)

// Reload messages.
const (
	MessageReloadSuccess = "AuthMe permissions have been reloaded successfully!"
	MessageReloadFailure = "Error occurred during reload of AuthMe: aborting"
)

// Reloader re-reads a configuration source.
type Reloader interface {
	Reload() error
}

// Ensure interface compliance
var _ command.Executable = (*ReloadCommand)(nil)

// ReloadCommand reloads the permissions document.
type ReloadCommand struct {
	reloader Reloader
	logger   *slog.Logger
}

// NewReloadCommand creates the reload command. A nil logger means slog.Default().
func NewReloadCommand(reloader Reloader, logger *slog.Logger) *ReloadCommand {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadCommand{reloader: reloader, logger: logger}
}

// ExecuteCommand triggers the reload and reports the outcome.
func (c *ReloadCommand) ExecuteCommand(_ context.Context, sender command.Sender, _ []string) {
	if err := c.reloader.Reload(); err != nil {
		c.logger.Error("reload failed", "sender", sender.Name(), "error", err)
		sender.SendMessage(MessageReloadFailure)
		sender.SendMessage(err.Error())
		return
	}
	c.logger.Info("permissions reloaded", "sender", sender.Name())
	sender.SendMessage(MessageReloadSuccess)
}

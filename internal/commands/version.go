package commands

import (
	"context"
	"fmt"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/version"
)

// Ensure interface compliance
var _ command.Executable = (*VersionCommand)(nil)

// VersionCommand reports the build information.
type VersionCommand struct {
	pluginName string
	info       func() version.Info
}

// NewVersionCommand creates the version command.
func NewVersionCommand(pluginName string) *VersionCommand {
	return &VersionCommand{pluginName: pluginName, info: version.Get}
}

// ExecuteCommand sends the version lines.
func (c *VersionCommand) ExecuteCommand(_ context.Context, sender command.Sender, _ []string) {
	info := c.info()
	sender.SendMessage(fmt.Sprintf("==========[ %s ABOUT ]==========", c.pluginName))
	sender.SendMessage("Version: " + info.Version)
	sender.SendMessage("Commit: " + info.Commit)
	sender.SendMessage("Built: " + info.BuildDate)
	sender.SendMessage("Runtime: " + info.GoVersion + " " + info.Platform)
	if !info.IsRelease() {
		sender.SendMessage("This is a development build.")
	}
}

package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/audit"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/repositories"
)

// History limits.
const (
	DefaultHistoryCount = 10
	MaxHistoryCount     = 100
)

// MessageNoHistory is sent when nothing has been recorded yet.
const MessageNoHistory = "No commands have been recorded yet."

// Ensure interface compliance
var _ command.Executable = (*HistoryCommand)(nil)

// HistoryCommand lists recent dispatches.
type HistoryCommand struct {
	records repositories.DispatchRecordRepository
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(records repositories.DispatchRecordRepository) *HistoryCommand {
	return &HistoryCommand{records: records}
}

// ExecuteCommand sends one line per record, newest first. A second argument
// limits the listing to one sender.
func (c *HistoryCommand) ExecuteCommand(ctx context.Context, sender command.Sender, arguments []string) {
	count := DefaultHistoryCount
	if len(arguments) > 0 {
		n, err := strconv.Atoi(arguments[0])
		if err != nil || n <= 0 {
			sender.SendMessage(fmt.Sprintf("Invalid count %q: expected a positive number", arguments[0]))
			return
		}
		count = min(n, MaxHistoryCount)
	}

	var (
		records []*audit.DispatchRecord
		err     error
	)
	if len(arguments) > 1 {
		records, err = c.records.FindBySender(ctx, arguments[1], count)
	} else {
		records, err = c.records.Recent(ctx, count)
	}
	if err != nil {
		sender.SendMessage("Failed to read the command history: " + err.Error())
		return
	}
	if len(records) == 0 && len(arguments) > 1 {
		sender.SendMessage(fmt.Sprintf("No commands have been recorded for %s.", arguments[1]))
		return
	}
	if len(records) == 0 {
		sender.SendMessage(MessageNoHistory)
		return
	}

	for _, rec := range records {
		sender.SendMessage(fmt.Sprintf("%s %s /%s -> %s",
			rec.At.Format("15:04:05"), rec.Sender, strings.Join(rec.Parts, " "), rec.Status))
	}
}

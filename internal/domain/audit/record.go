// Package audit defines the record kept for every command dispatch.
package audit

import (
	"time"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/google/uuid"
)

// DispatchRecord is a snapshot of one dispatch: who sent what, and how the
// mapper classified it.
type DispatchRecord struct {
	At         time.Time
	Sender     string
	Command    string
	Status     command.ResultStatus
	Parts      []string
	Difference float64
	ID         uuid.UUID
}

// NewDispatchRecord builds a record from a mapping result.
func NewDispatchRecord(id uuid.UUID, sender string, parts []string, result *command.FoundResult) *DispatchRecord {
	rec := &DispatchRecord{
		ID:     id,
		At:     time.Now(),
		Sender: sender,
		Parts:  append([]string(nil), parts...),
	}
	if result != nil {
		rec.Status = result.Status()
		rec.Difference = result.Difference()
		if desc := result.Description(); desc != nil {
			rec.Command = desc.CommandPath()
		}
	}
	return rec
}

// Succeeded reports whether the dispatch reached a command body.
func (r *DispatchRecord) Succeeded() bool {
	return r.Status.IsSuccess()
}

// Package repositories defines interfaces for domain persistence.
package repositories

import (
	"context"
	"errors"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/audit"
	"github.com/google/uuid"
)

// ErrRecordNotFound is returned when no record has the requested ID.
var ErrRecordNotFound = errors.New("dispatch record not found")

// DispatchRecordRepository defines the interface for persisting dispatch records.
type DispatchRecordRepository interface {
	// Save persists a dispatch record.
	Save(ctx context.Context, record *audit.DispatchRecord) error

	// FindByID retrieves a dispatch record by its correlation ID.
	FindByID(ctx context.Context, id uuid.UUID) (*audit.DispatchRecord, error)

	// FindBySender retrieves the most recent records of one sender, newest first.
	FindBySender(ctx context.Context, sender string, limit int) ([]*audit.DispatchRecord, error)


	// Recent retrieves the most recent records, newest first.
	Recent(ctx context.Context, limit int) ([]*audit.DispatchRecord, error)
}

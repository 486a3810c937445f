// Package memory provides in-memory implementations of domain repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/audit"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/repositories"
	"github.com/google/uuid"
)

// DefaultCapacity is the number of records kept when no capacity is given.
const DefaultCapacity = 1000

// Ensure interface compliance
var (
	_ repositories.DispatchRecordRepository = (*DispatchRecordRepository)(nil)
	_ ports.DispatchRecorder                = (*DispatchRecordRepository)(nil)
)

// DispatchRecordRepository is a bounded in-memory store of dispatch records.
// Once full, saving a new record evicts the oldest one.
type DispatchRecordRepository struct {
	records  map[uuid.UUID]*audit.DispatchRecord
	order    []uuid.UUID
	capacity int
	mu       sync.RWMutex
}

// NewDispatchRecordRepository creates a repository holding at most capacity
// records. A non-positive capacity selects DefaultCapacity.
func NewDispatchRecordRepository(capacity int) *DispatchRecordRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &DispatchRecordRepository{
		records:  make(map[uuid.UUID]*audit.DispatchRecord),
		capacity: capacity,
	}
}

// Record implements ports.DispatchRecorder.
func (r *DispatchRecordRepository) Record(ctx context.Context, record *audit.DispatchRecord) error {
	return r.Save(ctx, record)
}

// Save persists a dispatch record. Saving an ID twice replaces the record
// without changing its position.
func (r *DispatchRecordRepository) Save(_ context.Context, record *audit.DispatchRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil dispatch record")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		r.records[record.ID] = record
		return nil
	}

	for len(r.order) >= r.capacity {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.records, oldest)
	}
	r.records[record.ID] = record
	r.order = append(r.order, record.ID)
	return nil
}

// FindByID retrieves a dispatch record by its correlation ID.
func (r *DispatchRecordRepository) FindByID(_ context.Context, id uuid.UUID) (*audit.DispatchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrRecordNotFound, id)
	}
	return record, nil
}

// FindBySender retrieves the most recent records of one sender. Sender names
// compare case-insensitively.
func (r *DispatchRecordRepository) FindBySender(_ context.Context, sender string, limit int) ([]*audit.DispatchRecord, error) {
	return r.newest(limit, func(rec *audit.DispatchRecord) bool {
		return strings.EqualFold(rec.Sender, sender)
	}), nil
}

// Recent retrieves the most recent records.
func (r *DispatchRecordRepository) Recent(_ context.Context, limit int) ([]*audit.DispatchRecord, error) {
	return r.newest(limit, func(*audit.DispatchRecord) bool { return true }), nil
}

// Len returns the number of stored records.
func (r *DispatchRecordRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *DispatchRecordRepository) newest(limit int, keep func(*audit.DispatchRecord) bool) []*audit.DispatchRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*audit.DispatchRecord
	for i := len(r.order) - 1; i >= 0; i-- {
		if rec := r.records[r.order[i]]; keep(rec) {
			matches = append(matches, rec)
		}
	}

	// Sort by dispatch time descending; insertion order breaks ties
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].At.After(matches[j].At)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

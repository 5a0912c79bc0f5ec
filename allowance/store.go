/*
store.go - Persistence interfaces for the surrounding CRUD system

PURPOSE:
  The engine is pure; everything stateful lives behind these interfaces.
  Implementations: store/sqlite (production) and allowance/store (in-memory,
  for tests and development).

CONCURRENCY CONTRACT:
  Grant evaluation is check-then-act: read the child's prior entries, then
  insert the new one. Two concurrent submissions for the same child can each
  see a balance neither individually exceeds. WithChildLock is the per-child
  serialization point callers must wrap that sequence in; the ledger itself
  cannot detect a stale snapshot.
*/
package allowance

import (
	"context"
	"time"
)

// =============================================================================
// RECORDS
// =============================================================================

// Child is a child record with its grant configuration.
type Child struct {
	ID          string
	Name        string
	CaregiverID string
	Grant       GrantConfig
	CreatedAt   time.Time
}

// Caregiver is a caregiver (barnepige) record.
type Caregiver struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// EntryFilter narrows entry listings. Zero-value fields match everything.
type EntryFilter struct {
	ChildID     string
	CaregiverID string
	Status      EntryStatus
	From        CivilDate
	To          CivilDate
}

// EntryStore persists timesheet entries. Entries are immutable except for
// their approval status.
type EntryStore interface {
	// CreateEntry persists a new entry with its classified breakdown.
	CreateEntry(ctx context.Context, e Entry) error

	// Entry returns a single entry by id.
	Entry(ctx context.Context, id string) (Entry, error)

	// Entries returns entries matching the filter, ordered by date then
	// creation time.
	Entries(ctx context.Context, f EntryFilter) ([]Entry, error)

	// UpdateEntryStatus moves an entry through its approval lifecycle.
	UpdateEntryStatus(ctx context.Context, id string, status EntryStatus) error
}

// ChildStore persists child records and their grant configurations.
type ChildStore interface {
	CreateChild(ctx context.Context, c Child) error
	UpdateChild(ctx context.Context, c Child) error
	Child(ctx context.Context, id string) (Child, error)

	// Children lists all children, or those assigned to a caregiver when
	// caregiverID is non-empty.
	Children(ctx context.Context, caregiverID string) ([]Child, error)
}

// CaregiverStore persists caregiver records.
type CaregiverStore interface {
	CreateCaregiver(ctx context.Context, c Caregiver) error
	Caregiver(ctx context.Context, id string) (Caregiver, error)
	Caregivers(ctx context.Context) ([]Caregiver, error)
}

// SettingsStore persists the month-interval history consumed by period
// resolution.
type SettingsStore interface {
	// MonthIntervals returns the full history, newest first.
	MonthIntervals(ctx context.Context) ([]MonthInterval, error)

	// AddMonthInterval appends a new interval to the history.
	AddMonthInterval(ctx context.Context, mi MonthInterval) error
}

// Store is the full persistence surface the API layer depends on.
type Store interface {
	EntryStore
	ChildStore
	CaregiverStore
	SettingsStore

	// WithChildLock serializes fn against other WithChildLock calls for the
	// same child. Wrap read-consumption-then-insert in this.
	WithChildLock(ctx context.Context, childID string, fn func(ctx context.Context) error) error
}

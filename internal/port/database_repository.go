package port

import (
	"context"
	"errors"
	"time"

	"github.com/rl1809/cafeteria-service/internal/core/domain"
)

var (
	// ErrVersionConflict is returned by conditional writes when the row
	// changed between the precondition read and the update.
	ErrVersionConflict = errors.New("version conflict")

	// ErrSchemaMismatch is returned when a column the workflow depends on
	// is missing from the backing store.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

type InventoryRepository interface {
	// CreateItem persists a newly registered item.
	CreateItem(ctx context.Context, item domain.InventoryItem) error

	// GetItem retrieves an item by ID; returns nil when absent.
	GetItem(ctx context.Context, id string) (*domain.InventoryItem, error)

	// ListPendingCommittee returns active items awaiting committee review,
	// newest first.
	ListPendingCommittee(ctx context.Context) ([]domain.InventoryItem, error)

	// ListPendingPresident returns committee-approved items awaiting the
	// president, newest first.
	ListPendingPresident(ctx context.Context) ([]domain.InventoryItem, error)

	// ListFullyApproved returns items that cleared both gates, by name.
	ListFullyApproved(ctx context.Context) ([]domain.InventoryItem, error)

	// MarkCommitteeApproved flips the committee flag iff the row still
	// carries the given version and is awaiting committee review.
	MarkCommitteeApproved(ctx context.Context, id string, version int, at time.Time) error

	// MarkPresidentApproved flips the president flag iff the row still
	// carries the given version and is awaiting the president.
	MarkPresidentApproved(ctx context.Context, id string, version int, at time.Time) error

	// MarkRejected moves an active row to rejected iff the version matches.
	MarkRejected(ctx context.Context, id string, version int, at time.Time) error
}

type RosterRepository interface {
	// CountActiveStudents returns the live roster size used as the
	// forecasting headcount.
	CountActiveStudents(ctx context.Context) (int, error)
}

type MenuRepository interface {
	// ListMenuSlots returns all active slots ordered by day then meal type.
	ListMenuSlots(ctx context.Context) ([]domain.MenuSlot, error)

	// ListMenuSlotsForDay returns the active slots for one weekday.
	ListMenuSlotsForDay(ctx context.Context, dayOfWeek int) ([]domain.MenuSlot, error)
}

type AuditRepository interface {
	// InsertAuditEntry persists one workflow audit record.
	InsertAuditEntry(ctx context.Context, entry domain.AuditEntry) error
}

// Package ports defines the interfaces (driven and driving ports)
// between the lofi core and its adapters.
package ports

import (
	"context"

	"github.com/xvierd/lofi-cli/internal/domain"
)

// ChecklistRepository defines the interface for checklist persistence.
// This is a driven port (implemented by adapters).
type ChecklistRepository interface {
	// Save appends an item and assigns its position.
	Save(ctx context.Context, item *domain.ChecklistItem) error

	// FindByID retrieves an item by its identifier.
	// Returns domain.ErrItemNotFound when no item matches.
	FindByID(ctx context.Context, id string) (*domain.ChecklistItem, error)

	// FindAll returns every item in insertion order.
	FindAll(ctx context.Context) ([]*domain.ChecklistItem, error)

	// FindByText returns the best fuzzy match for query.
	FindByText(ctx context.Context, query string) (*domain.ChecklistItem, error)

	// Update persists the completed flag of an existing item.
	Update(ctx context.Context, item *domain.ChecklistItem) error

	// Delete removes an item. Returns domain.ErrItemNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// IntervalRepository records finished sessions.
// This is a driven port (implemented by adapters).
type IntervalRepository interface {
	// Save appends an interval record.
	Save(ctx context.Context, record *domain.IntervalRecord) error

	// FindRecent returns up to limit records, newest first.
	FindRecent(ctx context.Context, limit int) ([]*domain.IntervalRecord, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Checklist provides access to checklist operations.
	Checklist() ChecklistRepository

	// Intervals provides access to the interval log.
	Intervals() IntervalRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}

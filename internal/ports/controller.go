package ports

import (
	"context"

	"github.com/xvierd/lofi-cli/internal/domain"
)

// WidgetController is the command surface shared by the HTTP and MCP
// adapters. Every call is serialized onto the single owner of the core.
// This is a driving port (called by adapters, implemented by services).
type WidgetController interface {
	// Snapshot returns the current views.
	Snapshot(ctx context.Context) (domain.Snapshot, error)

	// Start, Pause and Reset drive the session timer.
	Start(ctx context.Context) (domain.Snapshot, error)
	Pause(ctx context.Context) (domain.Snapshot, error)
	Reset(ctx context.Context) (domain.Snapshot, error)

	// SetWorkMinutes and SetBreakMinutes reject values below 1 with
	// domain.ErrInvalidDuration.
	SetWorkMinutes(ctx context.Context, minutes int) (domain.Snapshot, error)
	SetBreakMinutes(ctx context.Context, minutes int) (domain.Snapshot, error)

	// AddItem appends to the checklist. Blank text yields domain.ErrEmptyInput.
	AddItem(ctx context.Context, text string) (*domain.ChecklistItem, error)

	// ToggleItem and DeleteItem ignore unknown ids.
	ToggleItem(ctx context.Context, id string) (domain.Snapshot, error)
	DeleteItem(ctx context.Context, id string) (domain.Snapshot, error)

	// FindItem fuzzy-matches item text.
	FindItem(ctx context.Context, query string) (*domain.ChecklistItem, error)

	// History returns recently finished sessions, newest first.
	History(ctx context.Context, limit int) ([]*domain.IntervalRecord, error)

	// Subscribe streams a snapshot after every render effect until cancel
	// is called.
	Subscribe() (updates <-chan domain.Snapshot, cancel func())
}

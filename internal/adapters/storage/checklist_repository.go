package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// ErrDuplicateItem is returned when an item id is saved twice.
var ErrDuplicateItem = errors.New("checklist item already exists")

// checklistRepository implements ports.ChecklistRepository using SQLite.
type checklistRepository struct {
	db *sql.DB
}

// newChecklistRepository creates a new checklist repository.
func newChecklistRepository(db *sql.DB) ports.ChecklistRepository {
	return &checklistRepository{db: db}
}

// Save appends the item after the current last position.
func (r *checklistRepository) Save(ctx context.Context, item *domain.ChecklistItem) error {
	query := `
		INSERT INTO checklist_items (id, text, completed, position, created_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM checklist_items), ?)
		RETURNING position
	`

	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.Text,
		item.Completed,
		item.CreatedAt,
	).Scan(&item.Position)

	if isUniqueConstraintError(err) {
		return fmt.Errorf("failed to save item %s: %w", item.ID, ErrDuplicateItem)
	}
	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	return nil
}

// FindByID retrieves an item by its identifier.
func (r *checklistRepository) FindByID(ctx context.Context, id string) (*domain.ChecklistItem, error) {
	query := `
		SELECT id, text, completed, position, created_at
		FROM checklist_items
		WHERE id = ?
	`

	var item domain.ChecklistItem
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Text,
		&item.Completed,
		&item.Position,
		&item.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return &item, nil
}

// FindAll returns every item in insertion order.
func (r *checklistRepository) FindAll(ctx context.Context) ([]*domain.ChecklistItem, error) {
	query := `
		SELECT id, text, completed, position, created_at
		FROM checklist_items
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []*domain.ChecklistItem{}
	for rows.Next() {
		var item domain.ChecklistItem
		if err := rows.Scan(
			&item.ID,
			&item.Text,
			&item.Completed,
			&item.Position,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// FindByText does a fuzzy search over item text and returns the best match.
func (r *checklistRepository) FindByText(ctx context.Context, query string) (*domain.ChecklistItem, error) {
	items, err := r.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for fuzzy search: %w", err)
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}

	// Matches are sorted by score, best first.
	matches := fuzzy.Find(query, texts)
	if len(matches) == 0 {
		return nil, domain.ErrItemNotFound
	}

	return items[matches[0].Index], nil
}

// Update persists the completed flag.
func (r *checklistRepository) Update(ctx context.Context, item *domain.ChecklistItem) error {
	query := `UPDATE checklist_items SET completed = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, item.Completed, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

// Delete removes an item.
func (r *checklistRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM checklist_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

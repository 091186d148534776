package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// DefaultHistoryLimit caps FindRecent when the caller passes a non-positive limit.
const DefaultHistoryLimit = 20

// intervalRepository implements ports.IntervalRepository using SQLite.
type intervalRepository struct {
	db *sql.DB
}

func newIntervalRepository(db *sql.DB) ports.IntervalRepository {
	return &intervalRepository{db: db}
}

// Save appends an interval record.
func (r *intervalRepository) Save(ctx context.Context, record *domain.IntervalRecord) error {
	query := `
		INSERT INTO intervals (id, mode, duration_seconds, ended_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		string(record.Mode),
		record.DurationSeconds,
		record.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save interval: %w", err)
	}

	return nil
}

// FindRecent returns the newest records first.
func (r *intervalRepository) FindRecent(ctx context.Context, limit int) ([]*domain.IntervalRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, mode, duration_seconds, ended_at
		FROM intervals
		ORDER BY ended_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query intervals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []*domain.IntervalRecord{}
	for rows.Next() {
		var rec domain.IntervalRecord
		var mode string
		if err := rows.Scan(&rec.ID, &mode, &rec.DurationSeconds, &rec.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interval: %w", err)
		}
		rec.Mode = domain.Mode(mode)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate intervals: %w", err)
	}

	return records, nil
}

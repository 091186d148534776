// Package storage provides SQLite implementations of the storage ports.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/xvierd/lofi-cli/internal/ports"
	"modernc.org/sqlite"
)

// MemoryPath keeps the database in process memory. Nothing survives a
// restart.
const MemoryPath = ":memory:"

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db            *sql.DB
	checklistRepo ports.ChecklistRepository
	intervalRepo  ports.IntervalRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == MemoryPath {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	storage := &sqliteStorage{
		db:            db,
		checklistRepo: newChecklistRepository(db),
		intervalRepo:  newIntervalRepository(db),
	}

	if err := storage.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance.
func NewMemory() (ports.Storage, error) {
	return New(MemoryPath)
}

// Checklist returns the checklist repository.
func (s *sqliteStorage) Checklist() ports.ChecklistRepository {
	return s.checklistRepo
}

// Intervals returns the interval log repository.
func (s *sqliteStorage) Intervals() ports.IntervalRepository {
	return s.intervalRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS checklist_items (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL UNIQUE,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS intervals (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		ended_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_intervals_ended ON intervals(ended_at);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// isUniqueConstraintError checks if an error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	sqliteErr, ok := err.(*sqlite.Error)
	return ok && (sqliteErr.Code() == 2067 || sqliteErr.Code() == 1555) // SQLITE_CONSTRAINT_UNIQUE, SQLITE_CONSTRAINT_PRIMARYKEY
}

// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// ChecklistService handles checklist use cases.
type ChecklistService struct {
	storage ports.Storage
}

// NewChecklistService creates a new checklist service.
func NewChecklistService(storage ports.Storage) *ChecklistService {
	return &ChecklistService{storage: storage}
}

// AddItem appends a new incomplete item. Blank text is rejected with
// domain.ErrEmptyInput and nothing is stored.
func (s *ChecklistService) AddItem(ctx context.Context, text string) (*domain.ChecklistItem, error) {
	item, err := domain.NewChecklistItem(text)
	if err != nil {
		return nil, fmt.Errorf("invalid item: %w", err)
	}

	if err := s.storage.Checklist().Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	return item, nil
}

// ToggleItem flips the completed flag. Unknown ids are ignored.
func (s *ChecklistService) ToggleItem(ctx context.Context, id string) error {
	item, err := s.storage.Checklist().FindByID(ctx, id)
	if errors.Is(err, domain.ErrItemNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find item: %w", err)
	}

	item.Toggle()
	if err := s.storage.Checklist().Update(ctx, item); err != nil && !errors.Is(err, domain.ErrItemNotFound) {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// DeleteItem removes an item. Unknown ids are ignored.
func (s *ChecklistService) DeleteItem(ctx context.Context, id string) error {
	err := s.storage.Checklist().Delete(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// List returns the items in insertion order.
func (s *ChecklistService) List(ctx context.Context) ([]*domain.ChecklistItem, error) {
	items, err := s.storage.Checklist().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Find resolves a reference to an item: an exact id first, then the best
// fuzzy match on the text.
func (s *ChecklistService) Find(ctx context.Context, ref string) (*domain.ChecklistItem, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrEmptyInput
	}

	item, err := s.storage.Checklist().FindByID(ctx, ref)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, domain.ErrItemNotFound) {
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return s.storage.Checklist().FindByText(ctx, ref)
}

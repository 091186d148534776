package services

import (
	"context"
	"errors"
	"testing"

	"github.com/xvierd/lofi-cli/internal/domain"
)

func TestChecklistService_AddItem(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewChecklistService(store)
	ctx := context.Background()

	t.Run("add valid item", func(t *testing.T) {
		item, err := service.AddItem(ctx, "buy milk")
		if err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
		if item.Completed {
			t.Error("AddItem() should create an incomplete item")
		}

		items, _ := service.List(ctx)
		if len(items) != 1 || items[0].Text != "buy milk" {
			t.Errorf("List() = %v, want exactly the new item", items)
		}
	})

	for _, text := range []string{"", "   "} {
		t.Run("reject blank "+`"`+text+`"`, func(t *testing.T) {
			before, _ := service.List(ctx)

			_, err := service.AddItem(ctx, text)
			if !errors.Is(err, domain.ErrEmptyInput) {
				t.Errorf("AddItem(%q) error = %v, want ErrEmptyInput", text, err)
			}

			after, _ := service.List(ctx)
			if len(after) != len(before) {
				t.Errorf("AddItem(%q) changed the checklist: %d -> %d", text, len(before), len(after))
			}
		})
	}
}

func TestChecklistService_ToggleItem(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewChecklistService(store)
	ctx := context.Background()

	item, _ := service.AddItem(ctx, "toggle twice")

	if err := service.ToggleItem(ctx, item.ID); err != nil {
		t.Fatalf("ToggleItem() error = %v", err)
	}
	found, _ := store.Checklist().FindByID(ctx, item.ID)
	if !found.Completed {
		t.Error("first toggle should complete the item")
	}

	if err := service.ToggleItem(ctx, item.ID); err != nil {
		t.Fatalf("ToggleItem() error = %v", err)
	}
	found, _ = store.Checklist().FindByID(ctx, item.ID)
	if found.Completed {
		t.Error("second toggle should restore the item")
	}

	if err := service.ToggleItem(ctx, "stale-id"); err != nil {
		t.Errorf("ToggleItem() on unknown id should be a no-op, got %v", err)
	}
}

func TestChecklistService_DeleteItem(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewChecklistService(store)
	ctx := context.Background()

	keep, _ := service.AddItem(ctx, "keep")
	drop, _ := service.AddItem(ctx, "drop")

	if err := service.DeleteItem(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if err := service.DeleteItem(ctx, drop.ID); err != nil {
		t.Errorf("DeleteItem() twice should be a no-op, got %v", err)
	}

	items, _ := service.List(ctx)
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Errorf("List() = %v, want only %q", items, keep.ID)
	}
}

func TestChecklistService_ListOrder(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewChecklistService(store)
	ctx := context.Background()

	texts := []string{"one", "two", "three"}
	for _, text := range texts {
		if _, err := service.AddItem(ctx, text); err != nil {
			t.Fatal(err)
		}
	}

	items, err := service.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i, text := range texts {
		if items[i].Text != text {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Text, text)
		}
	}
}

func TestChecklistService_Find(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewChecklistService(store)
	ctx := context.Background()

	report, _ := service.AddItem(ctx, "write quarterly report")
	service.AddItem(ctx, "water plants")

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr error
	}{
		{name: "exact id", ref: report.ID, wantID: report.ID},
		{name: "fuzzy text", ref: "quarterly", wantID: report.ID},
		{name: "no match", ref: "xyzzy", wantErr: domain.ErrItemNotFound},
		{name: "blank", ref: "  ", wantErr: domain.ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := service.Find(ctx, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Find(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Find(%q) error = %v", tt.ref, err)
			}
			if item.ID != tt.wantID {
				t.Errorf("Find(%q) = %q, want %q", tt.ref, item.ID, tt.wantID)
			}
		})
	}
}

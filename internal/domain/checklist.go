// Package domain contains the core of lofi: the session timer state machine,
// the audio track selector, the checklist and the stats presenter.
// Nothing in this package performs I/O; state transitions return effects
// that adapters apply.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrEmptyInput            = errors.New("please enter an item")
	ErrItemNotFound          = errors.New("checklist item not found")
	ErrAudioPlaybackRejected = errors.New("audio playback rejected")
	ErrInvalidDuration       = errors.New("duration must be between 1 and 1440 minutes")
)

// EmptyChecklistMessage is shown when the checklist has no items.
const EmptyChecklistMessage = "No items yet. Add one to get started!"

// ChecklistItem is a single entry of the task checklist.
type ChecklistItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// NewChecklistItem creates an incomplete item from user input.
// The text is trimmed; blank input yields ErrEmptyInput.
func NewChecklistItem(text string) (*ChecklistItem, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	return &ChecklistItem{
		ID:        newItemID(),
		Text:      trimmed,
		CreatedAt: time.Now(),
	}, nil
}

// Toggle flips the completed flag.
func (i *ChecklistItem) Toggle() {
	i.Completed = !i.Completed
}

// CountCompleted returns how many items are marked completed.
func CountCompleted(items []*ChecklistItem) int {
	n := 0
	for _, item := range items {
		if item.Completed {
			n++
		}
	}
	return n
}

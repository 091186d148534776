package domain

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders accumulated time. Hours drop the seconds:
// 3661 becomes "1h 1m", 75 becomes "1m 15s".
func FormatDuration(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// FormatClock renders a countdown as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// CompletionPercentage returns round(100*completed/total), or 0 for an
// empty checklist.
func CompletionPercentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// StatsView is the derived statistics block.
type StatsView struct {
	TotalItems        int    `json:"total_items"`
	CompletedItems    int    `json:"completed_items"`
	Percentage        int    `json:"percentage"`
	WorkSeconds       int    `json:"work_seconds"`
	BreakSeconds      int    `json:"break_seconds"`
	WorkTime          string `json:"work_time"`
	BreakTime         string `json:"break_time"`
	TotalTime         string `json:"total_time"`
	SessionsCompleted int    `json:"sessions_completed"`
}

// SessionView is what a render sink needs to draw the timer.
type SessionView struct {
	Mode                 Mode        `json:"mode"`
	Label                string      `json:"label"`
	Status               TimerStatus `json:"status"`
	Running              bool        `json:"running"`
	ElapsedInSession     int         `json:"elapsed_seconds"`
	RemainingSeconds     int         `json:"remaining_seconds"`
	Remaining            string      `json:"remaining"`
	WorkDurationSeconds  int         `json:"work_duration_seconds"`
	BreakDurationSeconds int         `json:"break_duration_seconds"`
	Progress             float64     `json:"progress"`
	Track                *int        `json:"track,omitempty"`
}

// ChecklistView is the ordered checklist for rendering.
type ChecklistView struct {
	Items []ChecklistItem `json:"items"`
	Empty bool            `json:"empty"`
}

// Snapshot is everything a render sink draws in one frame.
type Snapshot struct {
	Session   SessionView   `json:"session"`
	Checklist ChecklistView `json:"checklist"`
	Stats     StatsView     `json:"stats"`
	At        time.Time     `json:"at"`
}

// NewStatsView combines checklist counts with the timer accumulators.
func NewStatsView(items []*ChecklistItem, state SessionState) StatsView {
	completed := CountCompleted(items)
	return StatsView{
		TotalItems:        len(items),
		CompletedItems:    completed,
		Percentage:        CompletionPercentage(completed, len(items)),
		WorkSeconds:       state.TotalWorkSeconds,
		BreakSeconds:      state.TotalBreakSeconds,
		WorkTime:          FormatDuration(state.TotalWorkSeconds),
		BreakTime:         FormatDuration(state.TotalBreakSeconds),
		TotalTime:         FormatDuration(state.TotalWorkSeconds + state.TotalBreakSeconds),
		SessionsCompleted: state.SessionsCompleted,
	}
}

// NewSessionView derives the timer view from the counters and the current
// track selection.
func NewSessionView(state SessionState, track int, hasTrack bool) SessionView {
	view := SessionView{
		Mode:                 state.Mode,
		Label:                state.Mode.Label(),
		Status:               state.Status(),
		Running:              state.Running,
		ElapsedInSession:     state.ElapsedInSession,
		RemainingSeconds:     state.Remaining(),
		Remaining:            FormatClock(state.Remaining()),
		WorkDurationSeconds:  state.WorkDurationSeconds,
		BreakDurationSeconds: state.BreakDurationSeconds,
	}
	if d := state.ActiveDuration(); d > 0 {
		view.Progress = math.Min(1, float64(state.ElapsedInSession)/float64(d))
	}
	if hasTrack {
		t := track
		view.Track = &t
	}
	return view
}

// NewChecklistView copies the items into a view.
func NewChecklistView(items []*ChecklistItem) ChecklistView {
	view := ChecklistView{Items: make([]ChecklistItem, 0, len(items))}
	for _, item := range items {
		view.Items = append(view.Items, *item)
	}
	view.Empty = len(view.Items) == 0
	return view
}

// NewSnapshot assembles the three views.
func NewSnapshot(timer *SessionTimer, items []*ChecklistItem) Snapshot {
	state := timer.State()
	track, ok := timer.Tracks().Current()
	return Snapshot{
		Session:   NewSessionView(state, track, ok),
		Checklist: NewChecklistView(items),
		Stats:     NewStatsView(items, state),
		At:        time.Now(),
	}
}

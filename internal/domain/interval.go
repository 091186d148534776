package domain

import "time"

// IntervalRecord logs one finished work or break session.
type IntervalRecord struct {
	ID              string    `json:"id"`
	Mode            Mode      `json:"mode"`
	DurationSeconds int       `json:"duration_seconds"`
	EndedAt         time.Time `json:"ended_at"`
}

// NewIntervalRecord creates a record for a session that just ended.
func NewIntervalRecord(mode Mode, seconds int, endedAt time.Time) *IntervalRecord {
	return &IntervalRecord{
		ID:              generateID(),
		Mode:            mode,
		DurationSeconds: seconds,
		EndedAt:         endedAt,
	}
}

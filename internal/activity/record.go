// Package activity defines the normalized activity records the coaching
// engine analyzes. Records are produced upstream by a summarization
// pipeline and are read-only inside this module.
package activity

import (
	"fmt"
	"time"
)

// Record represents one analyzed interaction unit, typically a meeting.
// It carries structured metadata only, never raw content; the fingerprint
// exists solely for similarity comparison.
type Record struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	ParticipantIDs     []string  `json:"participantIds"`
	ActionItemCount    int       `json:"actionItemCount"`
	DecisionCount      int       `json:"decisionCount"`
	DurationMinutes    int       `json:"durationMinutes"`
	ContentFingerprint string    `json:"contentFingerprint"`
}

// Validate reports whether the record is well-formed enough to store.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record has no id")
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("record %s has no timestamp", r.ID)
	}
	if len(r.ParticipantIDs) == 0 {
		return fmt.Errorf("record %s has no participants", r.ID)
	}
	if r.ActionItemCount < 0 {
		return fmt.Errorf("record %s has negative action item count", r.ID)
	}
	if r.DecisionCount < 0 {
		return fmt.Errorf("record %s has negative decision count", r.ID)
	}
	if r.DurationMinutes < 0 {
		return fmt.Errorf("record %s has negative duration", r.ID)
	}
	return nil
}

// RecordSource supplies a user's activity records, already scoped to the
// requested time window. The storage layer implements this; the engine
// never fetches records itself.
type RecordSource interface {
	FetchRecords(userID string, timeframeDays int) ([]Record, error)
}

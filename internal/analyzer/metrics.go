package analyzer

import (
	"math"

	"github.com/blackwell-systems/coachwatch/internal/activity"
)

// BehaviorMetrics captures derived behavior indicators for one analysis
// window. Metrics are recomputed fresh each run from the records and are
// never treated as a source of truth.
type BehaviorMetrics struct {
	// TotalRecords is the number of records analyzed.
	TotalRecords int `json:"total_records"`

	// DecisionsPerRecord is the mean decision count across records.
	DecisionsPerRecord float64 `json:"decisions_per_record"`

	// ActionItemsPerRecord is the mean action item count across records.
	ActionItemsPerRecord float64 `json:"action_items_per_record"`

	// FollowUpRate is the fraction of records with at least one action item.
	FollowUpRate float64 `json:"follow_up_rate"`

	// CollaborationScore is the fraction of records with more than one participant.
	CollaborationScore float64 `json:"collaboration_score"`

	// EngagementScore blends a duration proxy with fingerprint variety (0-1).
	EngagementScore float64 `json:"engagement_score"`
}

// engagementDurationCap is the average duration, in minutes, at which the
// length half of the engagement score saturates.
const engagementDurationCap = 200.0

// ComputeMetrics derives behavior metrics from a window of activity records.
// The caller supplies records already scoped to the desired time window.
// An empty slice yields a zero-valued result; this never errors and never
// divides by zero.
func ComputeMetrics(records []activity.Record) BehaviorMetrics {
	metrics := BehaviorMetrics{
		TotalRecords: len(records),
	}

	if len(records) == 0 {
		return metrics
	}

	var totalDecisions, totalActionItems, totalDuration, withActionItems, multiParticipant int

	for _, r := range records {
		totalDecisions += r.DecisionCount
		totalActionItems += r.ActionItemCount
		totalDuration += r.DurationMinutes
		if r.ActionItemCount > 0 {
			withActionItems++
		}
		if len(r.ParticipantIDs) > 1 {
			multiParticipant++
		}
	}

	n := float64(len(records))
	metrics.DecisionsPerRecord = float64(totalDecisions) / n
	metrics.ActionItemsPerRecord = float64(totalActionItems) / n
	metrics.FollowUpRate = float64(withActionItems) / n
	metrics.CollaborationScore = float64(multiParticipant) / n

	// Engagement is a rough proxy, not semantic understanding: half from
	// how long interactions run, half from how varied their content
	// fingerprints are.
	avgDuration := float64(totalDuration) / n
	lengthPart := math.Min(1, avgDuration/engagementDurationCap)
	metrics.EngagementScore = 0.5*lengthPart + 0.5*activity.DistinctFingerprintRatio(records)

	return metrics
}

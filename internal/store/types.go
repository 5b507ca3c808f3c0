// Package store provides SQLite persistence for activity records,
// analysis snapshots, and recommendation interactions.
package store

import "time"

// AnalysisSnapshot is one persisted analysis run for a user. Metrics and
// detections are stored in companion tables keyed by the snapshot id.
type AnalysisSnapshot struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
	TimeframeDays int       `json:"timeframe_days"`
	OverallScore  int       `json:"overall_score"`
	Version       string    `json:"version"`

	// DetectionCount is populated by list queries, not stored directly.
	DetectionCount int `json:"detection_count"`
}

// InteractionRow is one recorded response to a recommendation.
type InteractionRow struct {
	ID               int64     `json:"id"`
	UserID           string    `json:"user_id"`
	RecommendationID string    `json:"recommendation_id"`
	Action           string    `json:"action"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// MetricRow is a generic metric name-value pair used in queries.
type MetricRow struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// SnapshotDiff represents the comparison between two analysis snapshots.
type SnapshotDiff struct {
	Previous *AnalysisSnapshot `json:"previous"`
	Current  *AnalysisSnapshot `json:"current"`
	Deltas   []MetricDelta     `json:"deltas"`
}

// MetricDelta represents the change in a single metric between snapshots.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/coachwatch/internal/coach"
)

// SaveAnalysis persists one completed analysis: the snapshot row, a
// metric row per behavior metric, and a row per detection. Returns the
// new snapshot id.
func (db *DB) SaveAnalysis(analysis *coach.BehaviorAnalysis, version string) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO analyses (user_id, analyzed_at, timeframe_days, overall_score, version) VALUES (?, ?, ?, ?, ?)",
		analysis.UserID, analysis.AnalyzedAt.UTC().Format(time.RFC3339),
		analysis.TimeframeDays, analysis.OverallScore, version,
	)
	if err != nil {
		return 0, err
	}
	analysisID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	// The overall score is duplicated as a metric row so delta and
	// history queries can treat it like any other tracked metric.
	metrics := []MetricRow{
		{Name: "total_records", Value: float64(analysis.Metrics.TotalRecords)},
		{Name: "decisions_per_record", Value: analysis.Metrics.DecisionsPerRecord},
		{Name: "action_items_per_record", Value: analysis.Metrics.ActionItemsPerRecord},
		{Name: "follow_up_rate", Value: analysis.Metrics.FollowUpRate},
		{Name: "collaboration_score", Value: analysis.Metrics.CollaborationScore},
		{Name: "engagement_score", Value: analysis.Metrics.EngagementScore},
		{Name: "overall_score", Value: float64(analysis.OverallScore)},
	}
	for _, m := range metrics {
		if _, err := tx.Exec(
			"INSERT INTO analysis_metrics (analysis_id, metric_name, metric_value) VALUES (?, ?, ?)",
			analysisID, m.Name, m.Value,
		); err != nil {
			return 0, fmt.Errorf("inserting metric %s: %w", m.Name, err)
		}
	}

	for _, d := range analysis.Detections {
		evidence, err := json.Marshal(d.Evidence)
		if err != nil {
			return 0, fmt.Errorf("encoding evidence for %s: %w", d.PatternID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO analysis_detections (analysis_id, pattern_id, severity, confidence, impact, evidence)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			analysisID, d.PatternID, string(d.Severity), d.Confidence, string(d.Impact), string(evidence),
		); err != nil {
			return 0, fmt.Errorf("inserting detection %s: %w", d.PatternID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return analysisID, nil
}

// GetLatestSnapshot returns a user's most recent snapshot, or nil if
// none exist.
func (db *DB) GetLatestSnapshot(userID string) (*AnalysisSnapshot, error) {
	return db.GetSnapshotN(userID, 1)
}

// GetSnapshotN returns a user's Nth most recent snapshot (1 = latest,
// 2 = previous, etc.), or nil if there are fewer than N.
func (db *DB) GetSnapshotN(userID string, n int) (*AnalysisSnapshot, error) {
	row := db.conn.QueryRow(
		`SELECT id, user_id, analyzed_at, timeframe_days, overall_score, version
		 FROM analyses WHERE user_id = ? ORDER BY id DESC LIMIT 1 OFFSET ?`,
		userID, n-1,
	)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (*AnalysisSnapshot, error) {
	var s AnalysisSnapshot
	var analyzedAt string
	err := row.Scan(&s.ID, &s.UserID, &analyzedAt, &s.TimeframeDays, &s.OverallScore, &s.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.AnalyzedAt, _ = time.Parse(time.RFC3339, analyzedAt)
	return &s, nil
}

// RecentSnapshots returns a user's latest snapshots, newest first, each
// annotated with how many detections fired.
func (db *DB) RecentSnapshots(userID string, limit int) ([]AnalysisSnapshot, error) {
	rows, err := db.conn.Query(
		`SELECT a.id, a.user_id, a.analyzed_at, a.timeframe_days, a.overall_score, a.version,
		        (SELECT COUNT(*) FROM analysis_detections d WHERE d.analysis_id = a.id)
		 FROM analyses a WHERE a.user_id = ? ORDER BY a.id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snapshots []AnalysisSnapshot
	for rows.Next() {
		var s AnalysisSnapshot
		var analyzedAt string
		if err := rows.Scan(
			&s.ID, &s.UserID, &analyzedAt, &s.TimeframeDays,
			&s.OverallScore, &s.Version, &s.DetectionCount,
		); err != nil {
			return nil, err
		}
		s.AnalyzedAt, _ = time.Parse(time.RFC3339, analyzedAt)
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// GetAnalysisMetrics returns all metric rows for a snapshot.
func (db *DB) GetAnalysisMetrics(analysisID int64) ([]MetricRow, error) {
	rows, err := db.conn.Query(
		"SELECT metric_name, metric_value FROM analysis_metrics WHERE analysis_id = ?",
		analysisID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []MetricRow
	for rows.Next() {
		var m MetricRow
		if err := rows.Scan(&m.Name, &m.Value); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// SnapshotPatterns returns the pattern ids that fired in a snapshot, in
// detection order.
func (db *DB) SnapshotPatterns(analysisID int64) ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT pattern_id FROM analysis_detections WHERE analysis_id = ? ORDER BY id",
		analysisID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var patterns []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

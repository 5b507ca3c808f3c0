package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/coachwatch/internal/activity"
)

// InsertRecord stores one activity record for a user. Re-inserting a
// record the user already has is a silent no-op, so imports can be
// replayed safely. Returns true when a new row was written.
func (db *DB) InsertRecord(userID string, r activity.Record) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}

	participants, err := json.Marshal(r.ParticipantIDs)
	if err != nil {
		return false, fmt.Errorf("encoding participants: %w", err)
	}

	result, err := db.conn.Exec(
		`INSERT OR IGNORE INTO activity_records
		(user_id, record_id, recorded_at, participants, action_items, decisions, duration_minutes, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, r.ID, r.Timestamp.UTC().Format(time.RFC3339), string(participants),
		r.ActionItemCount, r.DecisionCount, r.DurationMinutes, r.ContentFingerprint,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// FetchRecords returns a user's records within the trailing timeframe,
// oldest first. A timeframe of zero or less returns everything. This is
// the activity.RecordSource implementation the CLI feeds the engine.
func (db *DB) FetchRecords(userID string, timeframeDays int) ([]activity.Record, error) {
	query := `SELECT record_id, recorded_at, participants, action_items, decisions, duration_minutes, fingerprint
		FROM activity_records WHERE user_id = ?`
	args := []any{userID}

	if timeframeDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -timeframeDays)
		query += " AND recorded_at > ?"
		args = append(args, cutoff.Format(time.RFC3339))
	}
	query += " ORDER BY recorded_at ASC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []activity.Record
	for rows.Next() {
		var r activity.Record
		var recordedAt, participants string
		if err := rows.Scan(
			&r.ID, &recordedAt, &participants,
			&r.ActionItemCount, &r.DecisionCount, &r.DurationMinutes, &r.ContentFingerprint,
		); err != nil {
			return nil, err
		}
		r.Timestamp, err = time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at for record %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(participants), &r.ParticipantIDs); err != nil {
			return nil, fmt.Errorf("decoding participants for record %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountRecords returns how many records are stored for a user.
func (db *DB) CountRecords(userID string) (int, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM activity_records WHERE user_id = ?", userID,
	).Scan(&count)
	return count, err
}

// ListUsers returns every user id with at least one stored record.
func (db *DB) ListUsers() ([]string, error) {
	rows, err := db.conn.Query("SELECT DISTINCT user_id FROM activity_records ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

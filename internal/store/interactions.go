package store

import (
	"time"

	"github.com/blackwell-systems/coachwatch/internal/coach"
)

// SaveInteraction appends one recommendation interaction. This is the
// coach.InteractionStore implementation wired into the engine.
func (db *DB) SaveInteraction(userID, recommendationID string, action coach.InteractionAction, at time.Time) error {
	_, err := db.conn.Exec(
		"INSERT INTO interactions (user_id, recommendation_id, action, occurred_at) VALUES (?, ?, ?, ?)",
		userID, recommendationID, string(action), at.UTC().Format(time.RFC3339),
	)
	return err
}

// RecentInteractions returns a user's latest interactions, newest first.
func (db *DB) RecentInteractions(userID string, limit int) ([]InteractionRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, user_id, recommendation_id, action, occurred_at
		 FROM interactions WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var interactions []InteractionRow
	for rows.Next() {
		var in InteractionRow
		var occurredAt string
		if err := rows.Scan(&in.ID, &in.UserID, &in.RecommendationID, &in.Action, &occurredAt); err != nil {
			return nil, err
		}
		in.OccurredAt, _ = time.Parse(time.RFC3339, occurredAt)
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}

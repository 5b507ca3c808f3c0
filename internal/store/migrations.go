package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	// Create the schema_version table if it does not exist.
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		// One row per imported activity record. The (user_id, record_id)
		// uniqueness makes re-importing the same export a no-op.
		`CREATE TABLE IF NOT EXISTS activity_records (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id          TEXT NOT NULL,
			record_id        TEXT NOT NULL,
			recorded_at      TEXT NOT NULL,
			participants     TEXT NOT NULL,
			action_items     INTEGER NOT NULL,
			decisions        INTEGER NOT NULL,
			duration_minutes INTEGER NOT NULL,
			fingerprint      TEXT NOT NULL,
			UNIQUE(user_id, record_id)
		)`,

		`CREATE TABLE IF NOT EXISTS interactions (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id           TEXT NOT NULL,
			recommendation_id TEXT NOT NULL,
			action            TEXT NOT NULL,
			occurred_at       TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS analyses (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id        TEXT NOT NULL,
			analyzed_at    TEXT NOT NULL,
			timeframe_days INTEGER NOT NULL,
			overall_score  INTEGER NOT NULL,
			version        TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS analysis_metrics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id  INTEGER NOT NULL REFERENCES analyses(id),
			metric_name  TEXT NOT NULL,
			metric_value REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS analysis_detections (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id INTEGER NOT NULL REFERENCES analyses(id),
			pattern_id  TEXT NOT NULL,
			severity    TEXT NOT NULL,
			confidence  REAL NOT NULL,
			impact      TEXT NOT NULL,
			evidence    TEXT
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_records_user_time ON activity_records(user_id, recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_user ON analyses(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_metrics_analysis ON analysis_metrics(analysis_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_detections_analysis ON analysis_detections(analysis_id)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	// Set schema version.
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}

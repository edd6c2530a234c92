package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
)

// Tables are created with raw DDL; column types differ only in the
// auto-increment and boolean spellings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		mastery_json TEXT NOT NULL DEFAULT '{}',
		format_stats_json TEXT NOT NULL DEFAULT '[]',
		preferred_format TEXT NOT NULL DEFAULT '',
		version BIGINT NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		level TEXT NOT NULL,
		format TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		expected_minutes DOUBLE PRECISION NOT NULL DEFAULT 10,
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_course ON assets (course_id, position)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		difficulty TEXT NOT NULL DEFAULT '',
		prompt TEXT NOT NULL,
		options_json TEXT NOT NULL,
		correct_index INTEGER NOT NULL,
		explanation TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions (topic)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		user_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		enrolled_at TEXT NOT NULL,
		PRIMARY KEY (user_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS paths (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		current_index INTEGER NOT NULL DEFAULT 0,
		next_asset_id TEXT NOT NULL DEFAULT '',
		last_reason TEXT NOT NULL DEFAULT '',
		eta_minutes INTEGER NOT NULL DEFAULT 0,
		version BIGINT NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL,
		UNIQUE (user_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS path_nodes (
		path_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		node_id INTEGER NOT NULL,
		asset_id TEXT NOT NULL,
		course TEXT NOT NULL,
		topic TEXT NOT NULL,
		level TEXT NOT NULL,
		format TEXT NOT NULL,
		status TEXT NOT NULL,
		added_by TEXT NOT NULL,
		PRIMARY KEY (path_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		seq BIGINT NOT NULL,
		user_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		path_id TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		format TEXT NOT NULL,
		level TEXT NOT NULL,
		score INTEGER NOT NULL,
		time_spent_minutes DOUBLE PRECISION NOT NULL,
		time_ratio DOUBLE PRECISION NOT NULL,
		asked_json TEXT NOT NULL DEFAULT '[]',
		wrong_json TEXT NOT NULL DEFAULT '[]',
		attempt_no INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts (user_id, seq)`,
	`CREATE TABLE IF NOT EXISTS study_notes (
		id TEXT PRIMARY KEY,
		seq BIGINT NOT NULL,
		user_id TEXT NOT NULL,
		attempt_id TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		title TEXT NOT NULL,
		summary TEXT NOT NULL,
		focus_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_study_notes_user ON study_notes (user_id, seq)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		seq BIGINT PRIMARY KEY,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms BIGINT NOT NULL DEFAULT 0,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
}

func migrate(ctx context.Context, db *sql.DB, dialectName string) error {
	for _, stmt := range schema {
		if dialectName == dialect.SQLite {
			// SQLite accepts the Postgres spellings except DOUBLE PRECISION
			stmt = strings.ReplaceAll(stmt, "DOUBLE PRECISION", "REAL")
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
)

// sequenceCounter hands out a global monotonic sequence shared by the
// attempt log, study notes and LLM events, so records from different
// tables can be ordered against each other.
//
// The single-row UPDATE ... RETURNING is atomic at the database level.
// Do not add a process lock: callers may hold the only SQLite connection
// inside a transaction.
type sequenceCounter struct{}

func newSequenceCounter(db *sql.DB, dialectName string) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val BIGINT NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	seed := `INSERT INTO global_sequence (id, next_val) VALUES (1, 1) ON CONFLICT (id) DO NOTHING`
	if dialectName == dialect.SQLite {
		seed = `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`
	}
	if _, err := db.Exec(seed); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the
// counter. q may be a transaction.
func (sc *sequenceCounter) Next(ctx context.Context, q querier) (int64, error) {
	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

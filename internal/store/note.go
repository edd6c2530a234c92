package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// SaveNote appends a study note.
func (s *Store) SaveNote(ctx context.Context, n *StudyNote) error {
	seq, err := s.seq.Next(ctx, s.db)
	if err != nil {
		return err
	}
	focus, err := encodeJSON(nonNil(n.FocusPoints))
	if err != nil {
		return fmt.Errorf("marshal focus points: %w", err)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	query, args := s.sb().Insert("study_notes").
		Columns("id", "seq", "user_id", "attempt_id", "asset_id", "topic", "title", "summary", "focus_json", "created_at").
		Values(n.ID, seq, n.UserID, n.AttemptID, n.AssetID, n.Topic, n.Title, n.Summary, focus, formatTime(n.CreatedAt)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save study note: %w", err)
	}
	n.Seq = seq
	return nil
}

// NotesForUser returns a user's study notes, newest first.
func (s *Store) NotesForUser(ctx context.Context, userID string, limit int) ([]StudyNote, error) {
	sel := s.sb().Select("id", "seq", "user_id", "attempt_id", "asset_id", "topic", "title", "summary", "focus_json", "created_at").
		From(s.sb().Table("study_notes")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("seq"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query study notes: %w", err)
	}
	defer rows.Close()

	var out []StudyNote
	for rows.Next() {
		var (
			n                StudyNote
			focus, createdAt string
		)
		if err := rows.Scan(&n.ID, &n.Seq, &n.UserID, &n.AttemptID, &n.AssetID, &n.Topic,
			&n.Title, &n.Summary, &focus, &createdAt); err != nil {
			return nil, fmt.Errorf("scan study note: %w", err)
		}
		if err := decodeJSON(focus, &n.FocusPoints); err != nil {
			return nil, fmt.Errorf("unmarshal focus points: %w", err)
		}
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

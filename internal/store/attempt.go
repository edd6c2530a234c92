package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/quiz"
)

var attemptColumns = []string{
	"id", "seq", "user_id", "course_id", "path_id", "asset_id", "topic",
	"format", "level", "score", "time_spent_minutes", "time_ratio",
	"asked_json", "wrong_json", "attempt_no", "created_at",
}

// CountAttempts returns how many attempts a user made on a topic.
func (s *Store) CountAttempts(ctx context.Context, userID, topic string) (int, error) {
	query, args := s.sb().Select().Count().
		From(s.sb().Table("attempts")).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("topic", topic))).
		Query()

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

// RecentAttempts returns up to limit attempts for a user, newest first.
func (s *Store) RecentAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error) {
	sel := s.sb().Select(attemptColumns...).
		From(s.sb().Table("attempts")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("seq"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []quiz.Attempt
	for rows.Next() {
		var (
			a                       quiz.Attempt
			seq                     int64
			format, level           string
			asked, wrong, createdAt string
		)
		if err := rows.Scan(&a.ID, &seq, &a.UserID, &a.CourseID, &a.PathID, &a.AssetID, &a.Topic,
			&format, &level, &a.Score, &a.TimeSpentMinutes, &a.TimeRatio,
			&asked, &wrong, &a.AttemptNo, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Format = asset.Format(format)
		a.Level = asset.Level(level)
		if err := decodeJSON(asked, &a.AskedQuestionIDs); err != nil {
			return nil, fmt.Errorf("unmarshal asked ids: %w", err)
		}
		if err := decodeJSON(wrong, &a.WrongQuestionIDs); err != nil {
			return nil, fmt.Errorf("unmarshal wrong ids: %w", err)
		}
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) insertAttempt(ctx context.Context, q querier, a *quiz.Attempt) error {
	seq, err := s.seq.Next(ctx, q)
	if err != nil {
		return err
	}
	asked, err := encodeJSON(nonNil(a.AskedQuestionIDs))
	if err != nil {
		return fmt.Errorf("marshal asked ids: %w", err)
	}
	wrong, err := encodeJSON(nonNil(a.WrongQuestionIDs))
	if err != nil {
		return fmt.Errorf("marshal wrong ids: %w", err)
	}

	query, args := s.sb().Insert("attempts").
		Columns(attemptColumns...).
		Values(a.ID, seq, a.UserID, a.CourseID, a.PathID, a.AssetID, a.Topic,
			string(a.Format), string(a.Level), a.Score, a.TimeSpentMinutes, a.TimeRatio,
			asked, wrong, a.AttemptNo, formatTime(a.CreatedAt)).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert attempt %s: %w", a.ID, err)
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

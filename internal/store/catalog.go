package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/quiz"
)

var assetColumns = []string{"id", "course_id", "topic", "level", "format", "title", "expected_minutes"}

// UpsertCourse creates or updates a course.
func (s *Store) UpsertCourse(ctx context.Context, c Course) error {
	query, args := s.sb().Insert("courses").
		Columns("id", "title", "description").
		Values(c.ID, c.Title, c.Description).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert course %s: %w", c.ID, err)
	}
	return nil
}

// GetCourse loads a course by id.
func (s *Store) GetCourse(ctx context.Context, id string) (*Course, error) {
	query, args := s.sb().Select("id", "title", "description").
		From(s.sb().Table("courses")).
		Where(entsql.EQ("id", id)).
		Query()

	var c Course
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Title, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query course: %w", err)
	}
	return &c, nil
}

// UpsertAsset creates or updates a catalog asset. position is the authored
// order within the course.
func (s *Store) UpsertAsset(ctx context.Context, a *asset.Asset, position int) error {
	query, args := s.sb().Insert("assets").
		Columns(append(assetColumns, "position")...).
		Values(a.ID, a.Key.Course, a.Key.Topic, string(a.Level()), string(a.Format()),
			a.Title, a.ExpectedMinutes, position).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert asset %s: %w", a.ID, err)
	}
	return nil
}

// GetAsset loads an asset by id.
func (s *Store) GetAsset(ctx context.Context, id string) (*asset.Asset, error) {
	query, args := s.sb().Select(assetColumns...).
		From(s.sb().Table("assets")).
		Where(entsql.EQ("id", id)).
		Query()

	a, err := scanAsset(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query asset: %w", err)
	}
	return a, nil
}

// AssetsByID loads the given assets keyed by id. Unknown ids are absent
// from the result.
func (s *Store) AssetsByID(ctx context.Context, ids []string) (map[string]*asset.Asset, error) {
	out := make(map[string]*asset.Asset, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query, qargs := s.sb().Select(assetColumns...).
		From(s.sb().Table("assets")).
		Where(entsql.In("id", args...)).
		Query()
	return out, s.collectAssets(ctx, query, qargs, func(a *asset.Asset) { out[a.ID] = a })
}

// CourseAssets returns a course's assets in authored order.
func (s *Store) CourseAssets(ctx context.Context, courseID string) ([]*asset.Asset, error) {
	query, args := s.sb().Select(assetColumns...).
		From(s.sb().Table("assets")).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy("position", "id").
		Query()

	var out []*asset.Asset
	err := s.collectAssets(ctx, query, args, func(a *asset.Asset) { out = append(out, a) })
	return out, err
}

func (s *Store) collectAssets(ctx context.Context, query string, args []any, fn func(*asset.Asset)) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return fmt.Errorf("scan asset: %w", err)
		}
		fn(a)
	}
	return rows.Err()
}

func scanAsset(row rowScanner) (*asset.Asset, error) {
	var (
		a                            asset.Asset
		course, topic, level, format string
	)
	if err := row.Scan(&a.ID, &course, &topic, &level, &format, &a.Title, &a.ExpectedMinutes); err != nil {
		return nil, err
	}
	a.Key = asset.NewKey(course, topic, level, format)
	return &a, nil
}

// UpsertQuestion creates or updates a quiz question.
func (s *Store) UpsertQuestion(ctx context.Context, q quiz.Question) error {
	options, err := encodeJSON(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	query, args := s.sb().Insert("questions").
		Columns("id", "topic", "difficulty", "prompt", "options_json", "correct_index", "explanation").
		Values(q.ID, q.Topic, q.Difficulty, q.Prompt, options, q.CorrectIndex, q.Explanation).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert question %s: %w", q.ID, err)
	}
	return nil
}

// QuestionsByTopic returns every question for a topic ordered by id.
func (s *Store) QuestionsByTopic(ctx context.Context, topic string) ([]quiz.Question, error) {
	query, args := s.sb().Select(questionColumns...).
		From(s.sb().Table("questions")).
		Where(entsql.EQ("topic", topic)).
		OrderBy("id").
		Query()
	return s.queryQuestions(ctx, query, args)
}

// QuestionsByID returns the questions of a topic whose ids are listed.
func (s *Store) QuestionsByID(ctx context.Context, topic string, ids []string) ([]quiz.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query, qargs := s.sb().Select(questionColumns...).
		From(s.sb().Table("questions")).
		Where(entsql.And(entsql.EQ("topic", topic), entsql.In("id", args...))).
		OrderBy("id").
		Query()
	return s.queryQuestions(ctx, query, qargs)
}

var questionColumns = []string{"id", "topic", "difficulty", "prompt", "options_json", "correct_index", "explanation"}

func (s *Store) queryQuestions(ctx context.Context, query string, args []any) ([]quiz.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		var (
			q       quiz.Question
			options string
		)
		if err := rows.Scan(&q.ID, &q.Topic, &q.Difficulty, &q.Prompt, &options, &q.CorrectIndex, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := decodeJSON(options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

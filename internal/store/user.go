package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/mastery"
)

var userColumns = []string{
	"id", "name", "role", "mastery_json", "format_stats_json",
	"preferred_format", "version", "created_at",
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*learner.User, error) {
	query, args := s.sb().Select(userColumns...).
		From(s.sb().Table("users")).
		Where(entsql.EQ("id", id)).
		Query()

	u, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]*learner.User, error) {
	query, args := s.sb().Select(userColumns...).
		From(s.sb().Table("users")).
		OrderBy("id").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*learner.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpsertUserProfile creates a user or refreshes its name and role. Tracking
// state of an existing user is left untouched.
func (s *Store) UpsertUserProfile(ctx context.Context, u *learner.User) error {
	masteryJSON, err := encodeJSON(u.Mastery)
	if err != nil {
		return fmt.Errorf("marshal mastery: %w", err)
	}
	statsJSON, err := encodeJSON(u.FormatStats)
	if err != nil {
		return fmt.Errorf("marshal format stats: %w", err)
	}
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	query, args := s.sb().Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Role, masteryJSON, statsJSON, u.PreferredFormat, 1, formatTime(created)).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(set *entsql.UpdateSet) {
				set.SetExcluded("name")
				set.SetExcluded("role")
			}),
		).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return nil
}

// updateUser writes tracking state if the stored version still matches
// u.Version, then bumps the version.
func (s *Store) updateUser(ctx context.Context, q querier, u *learner.User) error {
	masteryJSON, err := encodeJSON(u.Mastery)
	if err != nil {
		return fmt.Errorf("marshal mastery: %w", err)
	}
	statsJSON, err := encodeJSON(u.FormatStats)
	if err != nil {
		return fmt.Errorf("marshal format stats: %w", err)
	}

	query, args := s.sb().Update("users").
		Set("mastery_json", masteryJSON).
		Set("format_stats_json", statsJSON).
		Set("preferred_format", u.PreferredFormat).
		Set("version", u.Version+1).
		Where(entsql.And(entsql.EQ("id", u.ID), entsql.EQ("version", u.Version))).
		Query()

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s at version %d: %w", u.ID, u.Version, ErrVersionConflict)
	}
	u.Version++
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*learner.User, error) {
	var (
		u                      learner.User
		masteryJSON, statsJSON string
		createdAt              string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Role, &masteryJSON, &statsJSON,
		&u.PreferredFormat, &u.Version, &createdAt); err != nil {
		return nil, err
	}

	u.Mastery = mastery.Map{}
	if err := decodeJSON(masteryJSON, &u.Mastery); err != nil {
		return nil, fmt.Errorf("unmarshal mastery: %w", err)
	}
	if err := decodeJSON(statsJSON, &u.FormatStats); err != nil {
		return nil, fmt.Errorf("unmarshal format stats: %w", err)
	}
	if u.PreferredFormat == "" {
		u.PreferredFormat = u.FormatStats.PreferredLabel()
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

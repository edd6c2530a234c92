package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Enroll records an enrollment. Re-enrolling refreshes the status.
func (s *Store) Enroll(ctx context.Context, e Enrollment) error {
	if e.Status == "" {
		e.Status = EnrollmentActive
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now()
	}
	query, args := s.sb().Insert("enrollments").
		Columns("user_id", "course_id", "status", "enrolled_at").
		Values(e.UserID, e.CourseID, e.Status, formatTime(e.EnrolledAt)).
		OnConflict(
			entsql.ConflictColumns("user_id", "course_id"),
			entsql.ResolveWith(func(set *entsql.UpdateSet) {
				set.SetExcluded("status")
			}),
		).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("enroll %s in %s: %w", e.UserID, e.CourseID, err)
	}
	return nil
}

// ActiveEnrollment returns the user's most recent active enrollment.
func (s *Store) ActiveEnrollment(ctx context.Context, userID string) (*Enrollment, error) {
	query, args := s.sb().Select("user_id", "course_id", "status", "enrolled_at").
		From(s.sb().Table("enrollments")).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("status", EnrollmentActive))).
		OrderBy(entsql.Desc("enrolled_at"), "course_id").
		Limit(1).
		Query()

	var (
		e          Enrollment
		enrolledAt string
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&e.UserID, &e.CourseID, &e.Status, &enrolledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active enrollment for %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query enrollment: %w", err)
	}
	if e.EnrolledAt, err = parseTime(enrolledAt); err != nil {
		return nil, err
	}
	return &e, nil
}

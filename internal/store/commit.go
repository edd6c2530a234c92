package store

import (
	"context"
	"database/sql"

	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/quiz"
)

// Outcome is everything one quiz submission writes.
type Outcome struct {
	Attempt *quiz.Attempt
	User    *learner.User
	Path    *path.Path
}

// CommitOutcome appends the attempt and writes the user and path in one
// transaction. User and path writes are compare-and-swap on Version; if
// either record changed since it was read nothing is written and the error
// wraps ErrVersionConflict. On success both versions are advanced in place.
func (s *Store) CommitOutcome(ctx context.Context, o Outcome) error {
	userVersion, pathVersion := o.User.Version, o.Path.Version
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.updateUser(ctx, tx, o.User); err != nil {
			return err
		}
		if err := s.updatePath(ctx, tx, o.Path); err != nil {
			return err
		}
		return s.insertAttempt(ctx, tx, o.Attempt)
	})
	if err != nil {
		o.User.Version, o.Path.Version = userVersion, pathVersion
	}
	return err
}

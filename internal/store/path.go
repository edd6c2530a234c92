package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/path"
)

var pathColumns = []string{
	"id", "user_id", "course_id", "current_index", "next_asset_id",
	"last_reason", "eta_minutes", "version", "updated_at",
}

var nodeColumns = []string{
	"path_id", "position", "node_id", "asset_id", "course", "topic",
	"level", "format", "status", "added_by",
}

// CreatePath stores a freshly seeded path. It reports false without error
// when the user already has a path for the course.
func (s *Store) CreatePath(ctx context.Context, p *path.Path) (bool, error) {
	created := false
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = time.Now()
		}
		if p.Version == 0 {
			p.Version = 1
		}
		query, args := s.sb().Insert("paths").
			Columns(pathColumns...).
			Values(p.ID, p.UserID, p.CourseID, p.CurrentIndex, p.NextAssetID,
				p.LastUpdatedReason, p.ETAMinutes, p.Version, formatTime(p.UpdatedAt)).
			OnConflict(entsql.ConflictColumns("user_id", "course_id"), entsql.DoNothing()).
			Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert path: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return nil
		}
		created = true
		return s.writeNodes(ctx, tx, p)
	})
	return created, err
}

// GetPath loads the path for a user and course.
func (s *Store) GetPath(ctx context.Context, userID, courseID string) (*path.Path, error) {
	query, args := s.sb().Select(pathColumns...).
		From(s.sb().Table("paths")).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("course_id", courseID))).
		Query()

	var (
		p         path.Path
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.UserID, &p.CourseID,
		&p.CurrentIndex, &p.NextAssetID, &p.LastUpdatedReason, &p.ETAMinutes, &p.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("path for %s in %s: %w", userID, courseID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query path: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	nodes, err := s.readNodes(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Nodes = nodes
	p.NormalizeStatuses()
	return &p, nil
}

// updatePath writes a path if the stored version still matches p.Version,
// replacing its node rows, then bumps the version.
func (s *Store) updatePath(ctx context.Context, tx *sql.Tx, p *path.Path) error {
	now := time.Now()
	query, args := s.sb().Update("paths").
		Set("current_index", p.CurrentIndex).
		Set("next_asset_id", p.NextAssetID).
		Set("last_reason", p.LastUpdatedReason).
		Set("eta_minutes", p.ETAMinutes).
		Set("version", p.Version+1).
		Set("updated_at", formatTime(now)).
		Where(entsql.And(entsql.EQ("id", p.ID), entsql.EQ("version", p.Version))).
		Query()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update path %s: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("path %s at version %d: %w", p.ID, p.Version, ErrVersionConflict)
	}

	query, args = s.sb().Delete("path_nodes").Where(entsql.EQ("path_id", p.ID)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear path nodes: %w", err)
	}
	if err := s.writeNodes(ctx, tx, p); err != nil {
		return err
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}

func (s *Store) writeNodes(ctx context.Context, tx *sql.Tx, p *path.Path) error {
	if len(p.Nodes) == 0 {
		return nil
	}
	ins := s.sb().Insert("path_nodes").Columns(nodeColumns...)
	for i, n := range p.Nodes {
		ins.Values(p.ID, i, n.ID, n.AssetID, n.Key.Course, n.Key.Topic,
			string(n.Key.Level), string(n.Key.Format), string(n.Status), string(n.AddedBy))
	}
	query, args := ins.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert path nodes: %w", err)
	}
	return nil
}

func (s *Store) readNodes(ctx context.Context, pathID string) ([]*path.Node, error) {
	query, args := s.sb().Select(nodeColumns[2:]...).
		From(s.sb().Table("path_nodes")).
		Where(entsql.EQ("path_id", pathID)).
		OrderBy("position").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query path nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*path.Node
	for rows.Next() {
		var (
			n                                           path.Node
			course, topic, level, format, status, added string
		)
		if err := rows.Scan(&n.ID, &n.AssetID, &course, &topic, &level, &format, &status, &added); err != nil {
			return nil, fmt.Errorf("scan path node: %w", err)
		}
		n.Key = asset.NewKey(course, topic, level, format)
		n.Status = path.Status(status)
		n.AddedBy = path.Provenance(added)
		nodes = append(nodes, &n)
	}
	return nodes, rows.Err()
}

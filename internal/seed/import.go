package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/store"
)

// Repository is the write surface used by an import. *store.Store
// satisfies it.
type Repository interface {
	UpsertCourse(ctx context.Context, c store.Course) error
	UpsertAsset(ctx context.Context, a *asset.Asset, position int) error
	UpsertQuestion(ctx context.Context, q quiz.Question) error
	UpsertUserProfile(ctx context.Context, u *learner.User) error
	Enroll(ctx context.Context, e store.Enrollment) error
	CreatePath(ctx context.Context, p *path.Path) (bool, error)
}

// Report counts what an import wrote.
type Report struct {
	Courses      int `json:"courses"`
	Assets       int `json:"assets"`
	Questions    int `json:"questions"`
	Users        int `json:"users"`
	Enrollments  int `json:"enrollments"`
	PathsCreated int `json:"pathsCreated"`
	PathsKept    int `json:"pathsKept"`
}

type Importer struct {
	repo  Repository
	log   *logger.Logger
	newID func() string
}

func NewImporter(repo Repository, log *logger.Logger) *Importer {
	return &Importer{repo: repo, log: log.With("service", "Seed"), newID: uuid.NewString}
}

// Import upserts everything in cat. Each enrollment gets a path seeded
// from the course's authored order; a learner's existing path is kept as
// is so re-running an import never discards progress.
func (im *Importer) Import(ctx context.Context, cat *Catalog) (Report, error) {
	var rep Report
	keys := make(map[string][]asset.Key, len(cat.Courses))

	for _, c := range cat.Courses {
		if err := im.repo.UpsertCourse(ctx, store.Course{ID: c.ID, Title: c.Title, Description: c.Description}); err != nil {
			return rep, err
		}
		rep.Courses++
		for i, a := range c.Assets() {
			if err := im.repo.UpsertAsset(ctx, a, i); err != nil {
				return rep, err
			}
			rep.Assets++
		}
		keys[c.ID] = c.Keys()
	}

	for _, q := range cat.Questions {
		if err := im.repo.UpsertQuestion(ctx, q); err != nil {
			return rep, err
		}
		rep.Questions++
	}

	for _, u := range cat.Users {
		if err := im.repo.UpsertUserProfile(ctx, learner.New(u.ID, u.Name, u.Role)); err != nil {
			return rep, err
		}
		rep.Users++

		for _, courseID := range u.Enrollments {
			if err := im.repo.Enroll(ctx, store.Enrollment{UserID: u.ID, CourseID: courseID, Status: store.EnrollmentActive}); err != nil {
				return rep, err
			}
			rep.Enrollments++

			p, err := path.New(im.newID(), u.ID, courseID, keys[courseID])
			if err != nil {
				return rep, fmt.Errorf("seed path for %s in %s: %w", u.ID, courseID, err)
			}
			created, err := im.repo.CreatePath(ctx, p)
			if err != nil {
				return rep, err
			}
			if created {
				rep.PathsCreated++
			} else {
				rep.PathsKept++
				im.log.Debug("path kept", "user_id", u.ID, "course_id", courseID)
			}
		}
	}

	im.log.Info("catalog imported",
		"courses", rep.Courses, "assets", rep.Assets, "questions", rep.Questions,
		"users", rep.Users, "paths_created", rep.PathsCreated, "paths_kept", rep.PathsKept)
	return rep, nil
}

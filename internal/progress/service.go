// Package progress orchestrates learner-facing operations: quiz delivery,
// quiz submission with resequencing, dashboards and path views. It is the
// only layer that combines storage, the sequencing engine and side effects
// such as events and study notes.
package progress

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/coach"
	"github.com/abhisek/pathwise/internal/engine"
	"github.com/abhisek/pathwise/internal/events"
	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/observability"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/store"
)

// ErrInvalidInput marks requests rejected before any state is read.
var ErrInvalidInput = errors.New("invalid input")

// DefaultMaxRetries bounds re-runs of a submission after a version conflict.
const DefaultMaxRetries = 3

// Repository is the storage surface the service needs. *store.Store
// satisfies it.
type Repository interface {
	GetUser(ctx context.Context, id string) (*learner.User, error)
	ListUsers(ctx context.Context) ([]*learner.User, error)
	GetCourse(ctx context.Context, id string) (*store.Course, error)
	GetAsset(ctx context.Context, id string) (*asset.Asset, error)
	AssetsByID(ctx context.Context, ids []string) (map[string]*asset.Asset, error)
	CourseAssets(ctx context.Context, courseID string) ([]*asset.Asset, error)
	ActiveEnrollment(ctx context.Context, userID string) (*store.Enrollment, error)
	GetPath(ctx context.Context, userID, courseID string) (*path.Path, error)
	CountAttempts(ctx context.Context, userID, topic string) (int, error)
	RecentAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error)
	QuestionsByTopic(ctx context.Context, topic string) ([]quiz.Question, error)
	QuestionsByID(ctx context.Context, topic string, ids []string) ([]quiz.Question, error)
	CommitOutcome(ctx context.Context, o store.Outcome) error
	NotesForUser(ctx context.Context, userID string, limit int) ([]store.StudyNote, error)
}

// NoteQueue accepts study-note work. *coach.Service satisfies it.
type NoteQueue interface {
	Enqueue(in coach.Input) error
}

type Service struct {
	repo       Repository
	engine     *engine.Engine
	events     events.Publisher
	coach      NoteQueue
	log        *logger.Logger
	tracer     trace.Tracer
	maxRetries int
	now        func() time.Time
	newID      func() string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher sets where path updates are announced.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithCoach enables study notes for struggling attempts.
func WithCoach(q NoteQueue) Option {
	return func(s *Service) { s.coach = q }
}

// WithMaxRetries overrides DefaultMaxRetries. Values below zero are ignored.
func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithRand fixes the question shuffle source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// NewService wires a Service. Without WithPublisher, events are logged.
func NewService(repo Repository, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		engine:     engine.New(),
		log:        log.With("service", "Progress"),
		tracer:     observability.Tracer(),
		maxRetries: DefaultMaxRetries,
		now:        time.Now,
		newID:      uuid.NewString,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.events == nil {
		s.events = events.NewLogPublisher(log)
	}
	return s
}

// ListUsers returns every learner's listing view.
func (s *Service) ListUsers(ctx context.Context) ([]learner.Summary, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]learner.Summary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// Notes returns the user's most recent study notes.
func (s *Service) Notes(ctx context.Context, userID string, limit int) ([]store.StudyNote, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	notes, err := s.repo.NotesForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []store.StudyNote{}
	}
	return notes, nil
}

// resolvePath finds the path a request addresses: the given course, or
// the user's active enrollment when courseID is empty.
func (s *Service) resolvePath(ctx context.Context, userID, courseID string) (*store.Enrollment, *path.Path, error) {
	enrollment, err := s.repo.ActiveEnrollment(ctx, userID)
	if err != nil && (courseID == "" || !errors.Is(err, store.ErrNotFound)) {
		return nil, nil, err
	}
	if courseID == "" {
		courseID = enrollment.CourseID
	}
	p, err := s.repo.GetPath(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	return enrollment, p, nil
}

func (s *Service) catalogFor(ctx context.Context, p *path.Path) (map[string]*asset.Asset, error) {
	return s.repo.AssetsByID(ctx, p.AssetIDs())
}

// recentRatios returns up to limit stored time ratios, newest first.
func (s *Service) recentRatios(ctx context.Context, userID string, limit int) ([]float64, []quiz.Attempt, error) {
	attempts, err := s.repo.RecentAttempts(ctx, userID, limit)
	if err != nil {
		return nil, nil, err
	}
	ratios := make([]float64, 0, len(attempts))
	for _, a := range attempts {
		ratios = append(ratios, a.TimeRatio)
	}
	return ratios, attempts, nil
}

// Package coach writes study notes for learners who struggled with a quiz.
// Generation runs on a background worker pool; notes are persisted and
// surfaced on the dashboard.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/worker"
)

// ErrNothingToReview is returned for inputs without missed questions.
var ErrNothingToReview = errors.New("no missed questions to review")

type Service struct {
	provider llm.Provider
	notes    store.NoteRepo
	log      *logger.Logger
	cfg      Config
	pool     *worker.Pool[*store.StudyNote]
	done     chan struct{}
	now      func() time.Time
}

// NewService starts cfg.Workers background workers bound to ctx. Call
// Close to drain them.
func NewService(ctx context.Context, provider llm.Provider, notes store.NoteRepo, log *logger.Logger, cfg Config) *Service {
	s := &Service{
		provider: provider,
		notes:    notes,
		log:      log.With("service", "Coach"),
		cfg:      cfg,
		pool:     worker.NewPool[*store.StudyNote](ctx, cfg.Workers, cfg.QueueSize),
		done:     make(chan struct{}),
		now:      time.Now,
	}
	go s.collect()
	return s
}

// Enqueue schedules note generation without blocking the caller.
func (s *Service) Enqueue(in Input) error {
	if len(in.Missed) == 0 {
		return ErrNothingToReview
	}
	err := s.pool.TrySubmit(in.AttemptID, func(ctx context.Context) (*store.StudyNote, error) {
		return s.Generate(ctx, in)
	})
	if err != nil {
		return fmt.Errorf("enqueue study note: %w", err)
	}
	return nil
}

// Generate writes and stores one note synchronously.
func (s *Service) Generate(ctx context.Context, in Input) (*store.StudyNote, error) {
	if len(in.Missed) == 0 {
		return nil, ErrNothingToReview
	}
	ctx = llm.WithPurpose(ctx, "study-note")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      noteSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildNoteMessage(in)}},
		Schema:      StudyNoteSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("study note generation: %w", err)
	}

	var out noteOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse study note response: %w", err)
	}

	note := &store.StudyNote{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		AttemptID:   in.AttemptID,
		AssetID:     in.AssetID,
		Topic:       in.Topic,
		Title:       strings.TrimSpace(out.Title),
		Summary:     strings.TrimSpace(out.Summary),
		FocusPoints: out.FocusPoints,
		CreatedAt:   s.now(),
	}
	if err := s.notes.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("save study note: %w", err)
	}
	return note, nil
}

func (s *Service) collect() {
	defer close(s.done)
	for r := range s.pool.Results() {
		if r.Err != nil {
			s.log.Warn("study note failed", "attempt", r.JobID, "error", r.Err)
			continue
		}
		s.log.Info("study note saved", "attempt", r.JobID, "note", r.Output.ID, "user", r.Output.UserID)
	}
}

// Close waits for queued notes to finish.
func (s *Service) Close() {
	s.pool.Close()
	<-s.done
}

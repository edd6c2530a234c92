package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/eta"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/quiz"
)

// reviewLookback is how many recent attempts feed review-mode selection.
const reviewLookback = 20

// Quiz is a drawn set of questions. Correct answers are never serialized.
type Quiz struct {
	Topic     string          `json:"topic"`
	Mode      quiz.Mode       `json:"mode"`
	Questions []quiz.Question `json:"questions"`
}

// GetQuiz draws questions for a topic. In review mode, questions the
// learner recently got wrong on that topic come first.
func (s *Service) GetQuiz(ctx context.Context, userID, topic string, mode quiz.Mode) (*Quiz, error) {
	ctx, span := s.tracer.Start(ctx, "progress.GetQuiz")
	defer span.End()

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic required", ErrInvalidInput)
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	pool, err := s.repo.QuestionsByTopic(ctx, topic)
	if err != nil {
		return nil, err
	}

	var missed map[string]bool
	if mode == quiz.ModeReview {
		attempts, err := s.repo.RecentAttempts(ctx, userID, reviewLookback)
		if err != nil {
			return nil, err
		}
		missed = make(map[string]bool)
		for _, a := range attempts {
			if a.Topic != topic {
				continue
			}
			for _, id := range a.WrongQuestionIDs {
				missed[id] = true
			}
		}
	}

	s.rngMu.Lock()
	questions := quiz.Pick(s.rng, pool, mode, missed)
	s.rngMu.Unlock()
	if questions == nil {
		questions = []quiz.Question{}
	}
	return &Quiz{Topic: topic, Mode: mode, Questions: questions}, nil
}

// PathView is a path with the catalog data needed to display it.
type PathView struct {
	Path       *path.Path              `json:"path"`
	Assets     map[string]*asset.Asset `json:"assets"`
	ETAMinutes int                     `json:"etaMinutes"`
	Progress   path.Progress           `json:"progress"`
}

// PathView returns the user's path for courseID, or for the active
// enrollment when courseID is empty.
func (s *Service) PathView(ctx context.Context, userID, courseID string) (*PathView, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	_, p, err := s.resolvePath(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalogFor(ctx, p)
	if err != nil {
		return nil, err
	}
	ratios, _, err := s.recentRatios(ctx, userID, eta.RecentWindow)
	if err != nil {
		return nil, err
	}
	return &PathView{
		Path:       p,
		Assets:     catalog,
		ETAMinutes: eta.Estimate(p, catalog, ratios),
		Progress:   p.Progress(),
	}, nil
}

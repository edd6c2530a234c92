package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/coach"
	"github.com/abhisek/pathwise/internal/engine"
	"github.com/abhisek/pathwise/internal/eta"
	"github.com/abhisek/pathwise/internal/events"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/store"
)

// SubmitRequest is a finished quiz. CourseID is optional and defaults to
// the learner's active enrollment.
type SubmitRequest struct {
	CourseID         string       `json:"courseId"`
	AssetID          string       `json:"assetId"`
	Topic            string       `json:"topic"`
	TimeSpentMinutes float64      `json:"timeSpentMin"`
	Answers          quiz.Answers `json:"answers"`
}

// Validate checks required fields.
func (r SubmitRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.AssetID) == "" {
		missing = append(missing, "assetId")
	}
	if strings.TrimSpace(r.Topic) == "" {
		missing = append(missing, "topic")
	}
	if r.Answers == nil {
		missing = append(missing, "answers")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if r.TimeSpentMinutes < 0 {
		return fmt.Errorf("%w: timeSpentMin must not be negative", ErrInvalidInput)
	}
	return nil
}

// SubmitResult is the graded attempt plus the routing decision.
type SubmitResult struct {
	quiz.Result
	TimeRatio       float64           `json:"timeRatio"`
	AttemptID       string            `json:"attemptId"`
	NextAssetID     string            `json:"nextAssetId"`
	Reason          string            `json:"reason"`
	PreferredFormat string            `json:"preferredFormat"`
	Mastery         float64           `json:"mastery"`
	ETAMinutes      int               `json:"etaMinutes"`
	Outcome         engine.Outcome    `json:"outcome"`
	Diagnostic      engine.Diagnostic `json:"diagnostic"`
	UpdatedPath     *path.Path        `json:"updatedPath"`
}

// SubmitQuiz grades a quiz, resequences the learner's path and commits the
// attempt, user and path together. A version conflict re-reads all state
// and runs again, up to the configured retry bound.
func (s *Service) SubmitQuiz(ctx context.Context, userID string, req SubmitRequest) (*SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "progress.SubmitQuiz")
	defer span.End()
	span.SetAttributes(
		attribute.String("pathwise.user_id", userID),
		attribute.String("pathwise.asset_id", req.AssetID),
	)

	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for try := 0; ; try++ {
		sub, err := s.submitOnce(ctx, userID, req)
		if err == nil {
			span.SetAttributes(
				attribute.String("pathwise.outcome", string(sub.res.Outcome)),
				attribute.Int("pathwise.retries", try),
			)
			s.afterCommit(ctx, sub)
			return sub.result(), nil
		}
		if !errors.Is(err, store.ErrVersionConflict) || try >= s.maxRetries {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		s.log.Warn("submission conflicted, retrying",
			"user_id", userID, "asset_id", req.AssetID, "try", try+1, "error", err)
	}
}

// submission is one committed run of SubmitQuiz.
type submission struct {
	attempt   *quiz.Attempt
	graded    quiz.Result
	questions []quiz.Question
	asset     *asset.Asset
	res       engine.Result
}

func (s *Service) submitOnce(ctx context.Context, userID string, req SubmitRequest) (*submission, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.repo.ActiveEnrollment(ctx, userID)
	if err != nil {
		return nil, err
	}
	courseID := req.CourseID
	if courseID == "" {
		courseID = enrollment.CourseID
	}
	p, err := s.repo.GetPath(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.QuestionsByID(ctx, req.Topic, req.Answers.IDs())
	if err != nil {
		return nil, err
	}
	graded := quiz.Grade(questions, req.Answers)
	spent, ratio := quiz.Timing(req.TimeSpentMinutes, a.Expected())

	prior, err := s.repo.CountAttempts(ctx, userID, req.Topic)
	if err != nil {
		return nil, err
	}

	res := s.engine.Resequence(engine.Input{
		User:             user,
		Path:             p,
		Asset:            a,
		Score:            float64(graded.Score),
		WrongQuestionIDs: graded.WrongQuestionIDs,
		TimeSpentMinutes: spent,
		TimeRatio:        ratio,
	})
	s.log.Debug("attempt classified",
		"user_id", userID, "asset_id", a.ID, "score", graded.Score,
		"time_ratio", quiz.RoundRatio(ratio), "outcome", res.Outcome, "diagnostic", res.Diagnostic)

	// this attempt counts toward the speed factor ahead of stored ones
	ratios, _, err := s.recentRatios(ctx, userID, eta.RecentWindow-1)
	if err != nil {
		return nil, err
	}
	ratios = append([]float64{quiz.RoundRatio(ratio)}, ratios...)
	catalog, err := s.catalogFor(ctx, res.Path)
	if err != nil {
		return nil, err
	}
	now := s.now()
	res.Path.ETAMinutes = eta.Estimate(res.Path, catalog, ratios)
	res.Path.UpdatedAt = now

	attempt := &quiz.Attempt{
		ID:               s.newID(),
		UserID:           userID,
		CourseID:         courseID,
		PathID:           res.Path.ID,
		AssetID:          a.ID,
		Topic:            req.Topic,
		Format:           a.Format(),
		Level:            a.Level(),
		Score:            graded.Score,
		TimeSpentMinutes: spent,
		TimeRatio:        quiz.RoundRatio(ratio),
		AskedQuestionIDs: req.Answers.IDs(),
		WrongQuestionIDs: graded.WrongQuestionIDs,
		AttemptNo:        prior + 1,
		CreatedAt:        now,
	}

	if err := s.repo.CommitOutcome(ctx, store.Outcome{Attempt: attempt, User: res.User, Path: res.Path}); err != nil {
		return nil, err
	}
	return &submission{attempt: attempt, graded: graded, questions: questions, asset: a, res: res}, nil
}

func (sub *submission) result() *SubmitResult {
	return &SubmitResult{
		Result:          sub.graded,
		TimeRatio:       sub.attempt.TimeRatio,
		AttemptID:       sub.attempt.ID,
		NextAssetID:     sub.res.NextAssetID,
		Reason:          sub.res.Reason,
		PreferredFormat: sub.res.PreferredFormat,
		Mastery:         sub.res.Mastery,
		ETAMinutes:      sub.res.Path.ETAMinutes,
		Outcome:         sub.res.Outcome,
		Diagnostic:      sub.res.Diagnostic,
		UpdatedPath:     sub.res.Path,
	}
}

// afterCommit runs side effects. Failures are logged and never undo the
// committed submission.
func (s *Service) afterCommit(ctx context.Context, sub *submission) {
	s.log.Info("path resequenced",
		"user_id", sub.attempt.UserID, "attempt_id", sub.attempt.ID,
		"outcome", sub.res.Outcome, "next_asset_id", sub.res.NextAssetID)

	ev := events.Event{
		Type:        events.TypePathResequenced,
		UserID:      sub.attempt.UserID,
		CourseID:    sub.attempt.CourseID,
		PathID:      sub.res.Path.ID,
		AttemptID:   sub.attempt.ID,
		NextAssetID: sub.res.NextAssetID,
		Reason:      sub.res.Reason,
		Outcome:     string(sub.res.Outcome),
		ETAMinutes:  sub.res.Path.ETAMinutes,
		At:          sub.attempt.CreatedAt,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish path update", "attempt_id", sub.attempt.ID, "error", err)
	}

	if s.coach == nil || sub.res.Outcome != engine.OutcomeStruggling || len(sub.graded.WrongQuestionIDs) == 0 {
		return
	}
	if err := s.coach.Enqueue(coachInput(sub)); err != nil {
		s.log.Warn("enqueue study note", "attempt_id", sub.attempt.ID, "error", err)
	}
}

func coachInput(sub *submission) coach.Input {
	wrong := make(map[string]bool, len(sub.graded.WrongQuestionIDs))
	for _, id := range sub.graded.WrongQuestionIDs {
		wrong[id] = true
	}
	var missed []quiz.Question
	for _, q := range sub.questions {
		if wrong[q.ID] {
			missed = append(missed, q)
		}
	}
	return coach.Input{
		UserID:      sub.attempt.UserID,
		AttemptID:   sub.attempt.ID,
		AssetID:     sub.asset.ID,
		AssetTitle:  sub.asset.Title,
		Topic:       sub.attempt.Topic,
		Level:       string(sub.attempt.Level),
		Format:      string(sub.attempt.Format),
		Score:       sub.attempt.Score,
		TimeRatio:   sub.attempt.TimeRatio,
		Missed:      missed,
		NextAssetID: sub.res.TargetAssetID,
		Reason:      sub.res.Reason,
	}
}

package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/engine"
	"github.com/abhisek/pathwise/internal/progress"
	domainquiz "github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
)

type fakeService struct {
	quiz      *progress.Quiz
	quizErr   error
	submitted *progress.SubmitRequest
	mode      domainquiz.Mode
}

func (f *fakeService) Dashboard(context.Context, string) (*progress.Dashboard, error) {
	return nil, errors.New("unused")
}

func (f *fakeService) PathView(context.Context, string, string) (*progress.PathView, error) {
	return nil, errors.New("unused")
}

func (f *fakeService) GetQuiz(_ context.Context, _, _ string, mode domainquiz.Mode) (*progress.Quiz, error) {
	f.mode = mode
	return f.quiz, f.quizErr
}

func (f *fakeService) SubmitQuiz(_ context.Context, _ string, req progress.SubmitRequest) (*progress.SubmitResult, error) {
	f.submitted = &req
	return &progress.SubmitResult{
		Result:  domainquiz.Result{Score: 50, CorrectCount: 1, Total: 2},
		Outcome: engine.OutcomeStruggling,
	}, nil
}

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }
func down() tea.KeyPressMsg  { return tea.KeyPressMsg{Code: tea.KeyDown} }
func letter(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func newScreen(svc *fakeService, mode domainquiz.Mode) *QuizScreen {
	a := asset.New(asset.NewKey("go101", "basics", "beginner", "video"), "Tour of Go", 12)
	return New(screen.Session{Ctx: context.Background(), Svc: svc, UserID: "u1"}, a, mode)
}

func TestQuizFlowSubmitsAnswersAndPacing(t *testing.T) {
	svc := &fakeService{quiz: &progress.Quiz{Topic: "basics", Questions: []domainquiz.Question{
		{ID: "q1", Prompt: "First?", Options: []string{"a", "b"}},
		{ID: "q2", Prompt: "Second?", Options: []string{"a", "b", "c"}},
	}}}
	s := newScreen(svc, domainquiz.ModeNormal)

	s.Update(s.load()())
	require.Equal(t, phaseAnswering, s.phase)
	assert.Contains(t, ansi.Strip(s.View(100, 30)), "Question 1 of 2")

	s.Update(down())
	s.Update(enter())
	s.Update(letter("c"))
	require.Equal(t, phasePacing, s.phase)
	assert.Contains(t, ansi.Strip(s.View(100, 30)), "~18 min")

	s.Update(letter("c"))
	require.Equal(t, phaseSubmitting, s.phase)

	_, cmd := s.Update(s.submit()())
	require.NotNil(t, cmd)
	replace, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Result", replace.Screen.Title())

	require.NotNil(t, svc.submitted)
	assert.Equal(t, domainquiz.Answers{"q1": 1, "q2": 2}, svc.submitted.Answers)
	assert.Equal(t, 18.0, svc.submitted.TimeSpentMinutes)
	assert.Equal(t, "asset-go101-basics-beginner-video", svc.submitted.AssetID)
	assert.Equal(t, "go101", svc.submitted.CourseID)
	assert.Equal(t, domainquiz.ModeNormal, svc.mode)
}

func TestQuizWithoutQuestionsFails(t *testing.T) {
	svc := &fakeService{quiz: &progress.Quiz{Topic: "basics"}}
	s := newScreen(svc, domainquiz.ModeReview)

	s.Update(s.load()())
	assert.Equal(t, phaseFailed, s.phase)
	assert.Equal(t, "Review Quiz", s.Title())
	assert.True(t, strings.Contains(ansi.Strip(s.View(100, 30)), "no questions"))
	assert.Equal(t, domainquiz.ModeReview, svc.mode)
}

func TestQuizLoadError(t *testing.T) {
	svc := &fakeService{quizErr: errors.New("user u1: not found")}
	s := newScreen(svc, domainquiz.ModeNormal)

	s.Update(s.load()())
	assert.Equal(t, phaseFailed, s.phase)
	assert.Contains(t, ansi.Strip(s.View(100, 30)), "not found")
	assert.Nil(t, svc.submitted)
}

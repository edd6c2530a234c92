// Package quiz is the interactive quiz screen: it draws questions for the
// asset's topic, collects one answer per question, asks how long the asset
// took, and submits the attempt for grading and resequencing.
package quiz

import (
	"fmt"
	"math"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/progress"
	domainquiz "github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/outcome"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phasePacing
	phaseSubmitting
	phaseFailed
)

// pacingFactors scale the asset's expected minutes into the time choices
// offered after the last question.
var pacingFactors = []struct {
	label  string
	factor float64
}{
	{"Quicker than expected", 0.75},
	{"About as expected", 1.0},
	{"Longer than expected", 1.5},
	{"Much longer", 2.0},
}

type quizLoadedMsg struct {
	quiz *progress.Quiz
	err  error
}

type submittedMsg struct {
	result *progress.SubmitResult
	err    error
}

// QuizScreen runs one quiz attempt against a single asset.
type QuizScreen struct {
	sess  screen.Session
	asset *asset.Asset
	mode  domainquiz.Mode

	spin    spinner.Model
	phase   phase
	quiz    *progress.Quiz
	current int
	choice  components.MultiChoice
	answers domainquiz.Answers
	pacing  components.MultiChoice
	err     error
}

var _ screen.Screen = (*QuizScreen)(nil)

// New creates a quiz screen for the given asset.
func New(sess screen.Session, a *asset.Asset, mode domainquiz.Mode) *QuizScreen {
	return &QuizScreen{
		sess:    sess,
		asset:   a,
		mode:    mode,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		answers: domainquiz.Answers{},
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.spin.Tick, s.load())
}

func (s *QuizScreen) load() tea.Cmd {
	sess, topic, mode := s.sess, s.asset.Topic(), s.mode
	return func() tea.Msg {
		q, err := sess.Svc.GetQuiz(sess.Ctx, sess.UserID, topic, mode)
		return quizLoadedMsg{quiz: q, err: err}
	}
}

func (s *QuizScreen) submit() tea.Cmd {
	sess := s.sess
	req := progress.SubmitRequest{
		CourseID:         s.asset.Key.Course,
		AssetID:          s.asset.ID,
		Topic:            s.asset.Topic(),
		TimeSpentMinutes: s.spentMinutes(),
		Answers:          s.answers,
	}
	return func() tea.Msg {
		res, err := sess.Svc.SubmitQuiz(sess.Ctx, sess.UserID, req)
		return submittedMsg{result: res, err: err}
	}
}

func (s *QuizScreen) spentMinutes() float64 {
	i := s.pacing.ChosenIndex
	if i < 0 || i >= len(pacingFactors) {
		i = 1
	}
	return math.Round(s.asset.Expected()*pacingFactors[i].factor*10) / 10
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizLoadedMsg:
		if msg.err != nil {
			s.phase, s.err = phaseFailed, msg.err
			return s, nil
		}
		s.quiz = msg.quiz
		if len(s.quiz.Questions) == 0 {
			s.phase = phaseFailed
			s.err = fmt.Errorf("no questions for topic %q", s.asset.Topic())
			return s, nil
		}
		s.phase = phaseAnswering
		s.showQuestion(0)
		return s, nil

	case submittedMsg:
		if msg.err != nil {
			s.phase, s.err = phaseFailed, msg.err
			return s, nil
		}
		next := outcome.New(s.sess, msg.result, s.asset)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case spinner.TickMsg:
		if s.phase != phaseLoading && s.phase != phaseSubmitting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd
	}

	switch s.phase {
	case phaseAnswering:
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if s.choice.Submitted {
			q := s.quiz.Questions[s.current]
			s.answers[q.ID] = s.choice.ChosenIndex
			if s.current+1 < len(s.quiz.Questions) {
				s.showQuestion(s.current + 1)
			} else {
				s.phase = phasePacing
				s.pacing = components.NewMultiChoice(
					fmt.Sprintf("How long did %q take you?", s.asset.Title), s.pacingOptions())
				s.pacing.Selected = 1
			}
		}
		return s, cmd

	case phasePacing:
		var cmd tea.Cmd
		s.pacing, cmd = s.pacing.Update(msg)
		if s.pacing.Submitted {
			s.phase = phaseSubmitting
			return s, tea.Batch(cmd, s.spin.Tick, s.submit())
		}
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) showQuestion(i int) {
	s.current = i
	q := s.quiz.Questions[i]
	s.choice = components.NewMultiChoice(q.Prompt, q.Options)
}

func (s *QuizScreen) pacingOptions() []string {
	expected := s.asset.Expected()
	opts := make([]string, len(pacingFactors))
	for i, p := range pacingFactors {
		opts[i] = fmt.Sprintf("%s (~%.0f min)", p.label, expected*p.factor)
	}
	return opts
}

func (s *QuizScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.asset.Title) + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s · %s · %s", s.asset.Topic(), s.asset.Level(), s.asset.Format())) + "\n\n")

	switch s.phase {
	case phaseLoading:
		b.WriteString(s.spin.View() + " drawing questions…")
	case phaseAnswering:
		total := len(s.quiz.Questions)
		bar := components.NewProgressBar(
			fmt.Sprintf("Question %d of %d", s.current+1, total),
			float64(s.current)/float64(total), false, min(width-4, 60))
		b.WriteString(bar.View() + "\n\n")
		b.WriteString(theme.Card.Width(min(width-4, 80)).Render(s.choice.View()))
	case phasePacing:
		b.WriteString(theme.Card.Width(min(width-4, 80)).Render(s.pacing.View()))
	case phaseSubmitting:
		b.WriteString(s.spin.View() + " grading and updating your path…")
	case phaseFailed:
		b.WriteString(theme.Incorrect.Render("Could not run this quiz") + "\n\n")
		b.WriteString(theme.Body.Render(s.err.Error()))
	}
	return b.String()
}

func (s *QuizScreen) Title() string {
	if s.mode == domainquiz.ModeReview {
		return "Review Quiz"
	}
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.phase == phaseAnswering || s.phase == phasePacing {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "A-D", Description: "Pick"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Abandon"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

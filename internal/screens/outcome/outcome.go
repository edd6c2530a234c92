// Package outcome shows a graded attempt and where the path goes next.
package outcome

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/engine"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/pathview"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/render"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// OutcomeScreen displays the result of one submission.
type OutcomeScreen struct {
	result *progress.SubmitResult
	asset  *asset.Asset
	menu   components.Menu
}

var _ screen.Screen = (*OutcomeScreen)(nil)

// New creates the outcome screen for a submission result.
func New(sess screen.Session, res *progress.SubmitResult, a *asset.Asset) *OutcomeScreen {
	courseID := a.Key.Course
	items := []components.MenuItem{
		{Label: "Continue", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}},
		{Label: "View updated path", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: pathview.New(sess, courseID)}
			}
		}},
	}
	return &OutcomeScreen{result: res, asset: a, menu: components.NewMenu(items)}
}

func (s *OutcomeScreen) Init() tea.Cmd { return nil }

func (s *OutcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *OutcomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.asset.Title) + "\n")
	b.WriteString(theme.Outcome(s.result.Outcome).Render(headline(s.result)) + "\n\n")
	b.WriteString(theme.Card.Width(min(width-4, 90)).Render(strings.TrimRight(render.Outcome(s.result), "\n")))
	b.WriteString("\n\n" + s.menu.View())
	return b.String()
}

func headline(res *progress.SubmitResult) string {
	switch res.Outcome {
	case engine.OutcomeGreatPass:
		return "Excellent! Skipping ahead."
	case engine.OutcomeGoodPass:
		return "Nice work, moving up a level."
	case engine.OutcomeStruggling:
		return "Let's reinforce this before moving on."
	default:
		return "Passed."
	}
}

func (s *OutcomeScreen) Title() string { return "Result" }

func (s *OutcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Home"},
	}
}

// Package home is the learner dashboard and entry menu.
package home

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/progress"
	domainquiz "github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/pathview"
	quizscreen "github.com/abhisek/pathwise/internal/screens/quiz"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/render"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

type dashboardMsg struct {
	dash *progress.Dashboard
	err  error
}

// HomeScreen shows the dashboard and reloads it whenever it becomes active.
type HomeScreen struct {
	sess    screen.Session
	spin    spinner.Model
	loading bool
	dash    *progress.Dashboard
	err     error
	menu    components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen for the session's learner.
func New(sess screen.Session) *HomeScreen {
	return &HomeScreen{
		sess: sess,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.reload()
}

func (h *HomeScreen) reload() tea.Cmd {
	h.loading = true
	sess := h.sess
	return tea.Batch(h.spin.Tick, func() tea.Msg {
		d, err := sess.Svc.Dashboard(sess.Ctx, sess.UserID)
		return dashboardMsg{dash: d, err: err}
	})
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		h.loading = false
		h.dash, h.err = msg.dash, msg.err
		if h.err != nil {
			h.menu = components.NewMenu([]components.MenuItem{quitItem()})
			return h, nil
		}
		h.menu = components.NewMenu(h.menuItems())
		status := screen.StatusMsg{UserName: h.dash.User.Name, ETAMinutes: h.dash.ETAMinutes}
		return h, func() tea.Msg { return status }

	case router.ResumedMsg:
		return h, h.reload()

	case spinner.TickMsg:
		if !h.loading {
			return h, nil
		}
		var cmd tea.Cmd
		h.spin, cmd = h.spin.Update(msg)
		return h, cmd

	case tea.KeyPressMsg:
		if msg.String() == "r" && !h.loading {
			return h, h.reload()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	sess, next := h.sess, h.dash.NextAsset
	courseID := h.dash.Path.CourseID

	cont := components.MenuItem{Label: "Path complete", Disabled: true}
	review := components.MenuItem{Label: "Review missed questions", Disabled: true}
	if next != nil {
		cont = components.MenuItem{
			Label: "Continue: " + next.Title,
			Hint:  fmt.Sprintf("%s · %s · ~%.0f min", next.Level(), next.Format(), next.Expected()),
			Action: func() tea.Cmd {
				return push(quizscreen.New(sess, next, domainquiz.ModeNormal))
			},
		}
		if len(h.dash.RecentAttempts) > 0 {
			review = components.MenuItem{
				Label: "Review missed questions",
				Hint:  next.Topic(),
				Action: func() tea.Cmd {
					return push(quizscreen.New(sess, next, domainquiz.ModeReview))
				},
			}
		}
	}

	return []components.MenuItem{
		cont,
		review,
		{Label: "View path", Action: func() tea.Cmd { return push(pathview.New(sess, courseID)) }},
		quitItem(),
	}
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func quitItem() components.MenuItem {
	return components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }}
}

func (h *HomeScreen) View(width, height int) string {
	if h.dash == nil {
		if h.err != nil {
			return theme.Incorrect.Render("Could not load dashboard") + "\n\n" +
				theme.Body.Render(h.err.Error()) + "\n\n" + h.menu.View()
		}
		return h.spin.View() + " loading dashboard…"
	}

	d := h.dash
	cw := min(width-4, 90)
	var sections []string

	sections = append(sections, theme.Title.Render("Welcome back, "+d.User.Name)+"  "+theme.Subtitle.Render(d.User.Role))

	course := d.Path.CourseID
	if d.Course != nil {
		course = d.Course.Title
	}
	bar := components.NewProgressBar("", float64(d.Progress.Percent)/100, true, 30)
	stats := []string{
		theme.Label.Render("Course") + theme.Body.Render(course),
		theme.Label.Render("Progress") + bar.View() + theme.Hint.Render(fmt.Sprintf("  %d of %d", d.Progress.Completed, d.Progress.Total)),
		theme.Label.Render("Remaining") + theme.Body.Render(render.Minutes(d.ETAMinutes)),
		theme.Label.Render("Pace") + paceStyle(d.TimeEfficiency).Render(d.TimeEfficiency),
		theme.Label.Render("Prefers") + theme.Body.Render(d.User.PreferredFormat),
	}
	sections = append(sections, theme.Card.Width(cw).Render(strings.Join(stats, "\n")))

	if topics := d.User.Mastery.Topics(); len(topics) > 0 {
		var m []string
		for _, t := range topics {
			m = append(m, masteryLine(t, d.User.Mastery.Get(t)))
		}
		sections = append(sections, theme.Subtitle.Render("Mastery")+"\n"+strings.Join(m, "\n"))
	}

	if len(d.Notes) > 0 {
		n := d.Notes[0]
		sections = append(sections, theme.Subtitle.Render("Latest study note")+"\n"+
			theme.Body.Bold(true).Render(n.Title)+theme.Hint.Render("  "+n.Topic))
	}

	sections = append(sections, h.menu.View())
	return strings.Join(sections, "\n\n")
}

func masteryLine(topic string, v float64) string {
	bar := components.NewProgressBar(fmt.Sprintf("%-16s", topic), v, true, 40)
	return "  " + bar.View()
}

func paceStyle(label string) lipgloss.Style {
	if label == progress.EfficiencySlow {
		return lipgloss.NewStyle().Foreground(theme.Warning)
	}
	return lipgloss.NewStyle().Foreground(theme.Success)
}

func (h *HomeScreen) Title() string { return "Dashboard" }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "r", Description: "Refresh"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

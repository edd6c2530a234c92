// Package pathview shows the learner's full ordered path.
package pathview

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/render"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

type pathLoadedMsg struct {
	view *progress.PathView
	err  error
}

// PathScreen renders the path table with line scrolling.
type PathScreen struct {
	sess     screen.Session
	courseID string
	spin     spinner.Model
	loading  bool
	view     *progress.PathView
	err      error
	offset   int
}

var _ screen.Screen = (*PathScreen)(nil)

// New creates a path screen. An empty courseID means the active enrollment.
func New(sess screen.Session, courseID string) *PathScreen {
	return &PathScreen{
		sess:     sess,
		courseID: courseID,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading:  true,
	}
}

func (s *PathScreen) Init() tea.Cmd {
	sess, courseID := s.sess, s.courseID
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		v, err := sess.Svc.PathView(sess.Ctx, sess.UserID, courseID)
		return pathLoadedMsg{view: v, err: err}
	})
}

func (s *PathScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pathLoadedMsg:
		s.loading = false
		s.view, s.err = msg.view, msg.err
		return s, nil
	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		case "home", "g":
			s.offset = 0
		}
	}
	return s, nil
}

func (s *PathScreen) View(width, height int) string {
	switch {
	case s.loading:
		return s.spin.View() + " loading path…"
	case s.err != nil:
		return theme.Incorrect.Render("Could not load path") + "\n\n" + theme.Body.Render(s.err.Error())
	}

	lines := strings.Split(strings.TrimRight(render.Path(s.view), "\n"), "\n")
	if height > 0 && len(lines) > height {
		maxOffset := len(lines) - height
		if s.offset > maxOffset {
			s.offset = maxOffset
		}
		lines = lines[s.offset : s.offset+height]
	} else {
		s.offset = 0
	}
	return strings.Join(lines, "\n")
}

func (s *PathScreen) Title() string { return "Learning Path" }

func (s *PathScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

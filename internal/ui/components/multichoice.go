package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// MultiChoice is a single-answer selector. Grading happens server side, so
// the component only records which option was chosen.
type MultiChoice struct {
	Question    string
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question:    question,
		Options:     options,
		ChosenIndex: -1,
	}
}

// Update handles keyboard navigation and selection. Letter keys pick an
// option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.ChosenIndex = m.Selected
	default:
		if i := optionIndex(key); i >= 0 && i < len(m.Options) {
			m.Selected = i
			m.Submitted = true
			m.ChosenIndex = i
		}
	}

	return m, nil
}

func optionLabel(i int) string {
	return string(rune('A' + i))
}

func optionIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	c := strings.ToUpper(key)[0]
	if c < 'A' || c > 'Z' {
		return -1
	}
	return int(c - 'A')
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question) + "\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, optionLabel(i), opt)

		switch {
		case m.Submitted && i == m.ChosenIndex:
			b.WriteString(theme.Selected.Render(line) + "\n")
		case m.Submitted:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n")
		case i == m.Selected:
			b.WriteString(theme.Selected.Render(line) + "\n")
		default:
			b.WriteString(theme.Unselected.Render(line) + "\n")
		}
	}

	return b.String()
}

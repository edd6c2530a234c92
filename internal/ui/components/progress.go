package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// ProgressBar is a labelled horizontal gauge for path completion and
// topic mastery. Percent is a fraction in [0, 1].
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar clamps percent into [0, 1].
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     min(max(percent, 0), 1),
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders label, gauge and optional percentage within Width columns.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label) + "  ")
	}

	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf(" %3d%%", int(p.Percent*100+0.5))
	}

	cells := max(p.Width-lipgloss.Width(b.String())-len(suffix), 4)
	filled := int(float64(cells)*p.Percent + 0.5)

	fill := theme.Secondary
	if p.Percent < 0.4 {
		fill = theme.Warning
	}
	b.WriteString(lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("━", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("━", cells-filled)))
	if suffix != "" {
		b.WriteString(theme.Subtitle.Render(suffix))
	}
	return b.String()
}

// Package layout frames every screen with a header and a key-hint footer.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small\n\nPathwise needs at least %d x %d\n(current %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader shows the product name, the screen title centred, and the
// learner with their remaining path time on the right.
func RenderHeader(title, userName string, etaMinutes int, width int) string {
	left := theme.Title.Render("  Pathwise")
	center := theme.Body.Render(title)

	var right string
	if userName != "" {
		right = lipgloss.NewStyle().Foreground(theme.Secondary).Render(userName) +
			"   " +
			lipgloss.NewStyle().Foreground(theme.Accent).Render(etaLabel(etaMinutes))
	}

	return bar.Width(width).Render(spread(left, center, right, width-4))
}

// spread places center in the middle of inner columns with left and right
// flush to the edges, keeping at least one space between parts.
func spread(left, center, right string, inner int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max((inner-cw)/2-lw, 1)
	gapR := max(inner-lw-gapL-cw-rw, 1)
	return left + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right
}

func etaLabel(m int) string {
	switch {
	case m <= 0:
		return "⏱ done"
	case m < 60:
		return fmt.Sprintf("⏱ %d min left", m)
	default:
		return fmt.Sprintf("⏱ %dh %02dm left", m/60, m%60)
	}
}

// RenderFooter lists the active key bindings.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+theme.Subtitle.Render(h.Description))
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

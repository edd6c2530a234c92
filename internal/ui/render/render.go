// Package render formats service results for the command line.
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func field(label, value string) string {
	return theme.Label.Render(label) + theme.Body.Render(value)
}

// Users renders the learner listing.
func Users(users []learner.Summary) string {
	t := newTable("USER", "NAME", "ROLE", "PREFERRED")
	for _, u := range users {
		t.Row(u.ID, u.Name, u.Role, u.PreferredFormat)
	}
	return t.Render()
}

// ProgressBar renders a fixed-width completion bar.
func ProgressBar(pr path.Progress, width int) string {
	if width < 4 {
		width = 4
	}
	filled := 0
	if pr.Total > 0 {
		filled = width * pr.Completed / pr.Total
	}
	bar := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %d/%d (%d%%)", bar, pr.Completed, pr.Total, pr.Percent)
}

// Dashboard renders the learner overview.
func Dashboard(d *progress.Dashboard) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(d.User.Name) + " " + theme.Subtitle.Render(d.User.Role) + "\n\n")

	course := d.Path.CourseID
	if d.Course != nil {
		course = d.Course.Title
	}
	next := "path complete"
	if d.NextAsset != nil {
		next = fmt.Sprintf("%s (%s)", d.NextAsset.Title, d.NextAsset.ID)
	}
	lines := []string{
		field("Course", course),
		field("Progress", ProgressBar(d.Progress, 24)),
		field("Next", next),
		field("ETA", Minutes(d.ETAMinutes)),
		field("Pace", d.TimeEfficiency),
		field("Preferred", d.User.PreferredFormat),
	}
	b.WriteString(strings.Join(lines, "\n") + "\n")

	if topics := d.User.Mastery.Topics(); len(topics) > 0 {
		b.WriteString("\n" + theme.Title.Render("Mastery") + "\n")
		t := newTable("TOPIC", "MASTERY")
		for _, topic := range topics {
			t.Row(topic, fmt.Sprintf("%.2f", d.User.Mastery.Get(topic)))
		}
		b.WriteString(t.Render() + "\n")
	}

	if len(d.RecentAttempts) > 0 {
		b.WriteString("\n" + theme.Title.Render("Recent attempts") + "\n")
		t := newTable("WHEN", "ASSET", "SCORE", "MINUTES", "RATIO")
		for _, a := range d.RecentAttempts {
			title := a.AssetID
			if ref, ok := d.AssetIndex[a.AssetID]; ok {
				title = ref.Title
			}
			t.Row(a.CreatedAt.Format("2006-01-02 15:04"), title,
				fmt.Sprintf("%d", a.Score), fmt.Sprintf("%.1f", a.TimeSpentMinutes), fmt.Sprintf("%.2f", a.TimeRatio))
		}
		b.WriteString(t.Render() + "\n")
	}

	if len(d.Notes) > 0 {
		b.WriteString("\n" + Notes(d.Notes))
	}
	return b.String()
}

// Path renders every node of a path; the pointer is marked with ▸.
func Path(v *progress.PathView) string {
	p := v.Path
	t := newTable("", "#", "ASSET", "TITLE", "MIN", "STATUS", "ADDED BY")
	for i, n := range p.Nodes {
		marker := ""
		if i == p.CurrentIndex {
			marker = "▸"
		}
		title, minutes := "", float64(asset.DefaultExpectedMinutes)
		if a, ok := v.Assets[n.AssetID]; ok {
			title, minutes = a.Title, a.Expected()
		}
		t.Row(marker, fmt.Sprintf("%d", i+1), n.AssetID, title, fmt.Sprintf("%.0f", minutes),
			theme.Status(n.Status).Render(string(n.Status)), string(n.AddedBy))
	}

	var b strings.Builder
	b.WriteString(t.Render() + "\n")
	b.WriteString(field("Progress", ProgressBar(v.Progress, 24)) + "\n")
	b.WriteString(field("ETA", Minutes(v.ETAMinutes)) + "\n")
	if p.LastUpdatedReason != "" {
		b.WriteString(field("Last change", p.LastUpdatedReason) + "\n")
	}
	return b.String()
}

// Quiz renders questions with numbered options.
func Quiz(q *progress.Quiz) string {
	if len(q.Questions) == 0 {
		return theme.Hint.Render("no questions for topic "+q.Topic) + "\n"
	}
	var b strings.Builder
	for i, question := range q.Questions {
		fmt.Fprintf(&b, "%s %s\n", theme.Title.Render(fmt.Sprintf("%d.", i+1)),
			theme.Body.Bold(true).Render(question.Prompt))
		b.WriteString(theme.Hint.Render("   id: "+question.ID) + "\n")
		for j, opt := range question.Options {
			fmt.Fprintf(&b, "   [%d] %s\n", j, opt)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Outcome renders a graded submission and the routing decision.
func Outcome(res *progress.SubmitResult) string {
	next := res.NextAssetID
	if next == "" {
		next = "path complete"
	}
	lines := []string{
		field("Score", fmt.Sprintf("%d (%d/%d correct)", res.Score, res.CorrectCount, res.Total)),
		field("Outcome", theme.Outcome(res.Outcome).Render(string(res.Outcome))),
		field("Time ratio", fmt.Sprintf("%.2f", res.TimeRatio)),
		field("Mastery", fmt.Sprintf("%.2f", res.Mastery)),
		field("Next", next),
		field("ETA", Minutes(res.ETAMinutes)),
		field("Reason", res.Reason),
	}
	if len(res.WrongQuestionIDs) > 0 {
		lines = append(lines, field("Missed", strings.Join(res.WrongQuestionIDs, ", ")))
	}
	if res.Diagnostic != "" && res.Diagnostic != "none" {
		lines = append(lines, field("Diagnostic", string(res.Diagnostic)))
	}
	return strings.Join(lines, "\n") + "\n"
}

// Notes renders study notes, newest first.
func Notes(notes []store.StudyNote) string {
	if len(notes) == 0 {
		return theme.Hint.Render("no study notes yet") + "\n"
	}
	var b strings.Builder
	for _, n := range notes {
		var body strings.Builder
		body.WriteString(theme.Title.Render(n.Title) + "\n")
		body.WriteString(theme.Subtitle.Render(n.Topic+" · "+n.CreatedAt.Format("2006-01-02")) + "\n\n")
		body.WriteString(n.Summary + "\n")
		for _, p := range n.FocusPoints {
			body.WriteString("  • " + p + "\n")
		}
		b.WriteString(theme.Card.Render(strings.TrimRight(body.String(), "\n")) + "\n")
	}
	return b.String()
}

// LLMEvents renders recorded LLM requests with their estimated cost.
func LLMEvents(events []store.LLMRequestEvent) string {
	t := newTable("#", "TIME", "PROVIDER", "MODEL", "PURPOSE", "TOKENS IN/OUT", "LATENCY", "COST", "OK")
	var total float64
	for _, e := range events {
		cost := "-"
		if mc := llm.LookupCost(e.Model); mc != nil {
			c := mc.Cost(e.InputTokens, e.OutputTokens)
			total += c
			cost = fmt.Sprintf("$%.4f", c)
		}
		ok := "yes"
		if !e.Success {
			ok = theme.Incorrect.Render("no")
		}
		t.Row(fmt.Sprintf("%d", e.Sequence), e.Timestamp.Format("01-02 15:04:05"), e.Provider, e.Model, e.Purpose,
			fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens), fmt.Sprintf("%dms", e.LatencyMs), cost, ok)
	}
	return t.Render() + "\n" + field("Total cost", fmt.Sprintf("$%.4f", total)) + "\n"
}

// Minutes renders a duration in minutes as hours and minutes.
func Minutes(m int) string {
	if m <= 0 {
		return "done"
	}
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

// LLMUsage aggregates recorded requests per purpose and model.
func LLMUsage(events []store.LLMRequestEvent) string {
	type key struct{ purpose, model string }
	type usage struct {
		calls, failed, in, out int
		latency                int64
	}
	var order []key
	byKey := map[key]*usage{}
	for _, e := range events {
		k := key{e.Purpose, e.Model}
		u, ok := byKey[k]
		if !ok {
			u = &usage{}
			byKey[k] = u
			order = append(order, k)
		}
		u.calls++
		if !e.Success {
			u.failed++
		}
		u.in += e.InputTokens
		u.out += e.OutputTokens
		u.latency += e.LatencyMs
	}

	t := newTable("PURPOSE", "MODEL", "CALLS", "FAILED", "TOKENS IN/OUT", "AVG MS", "COST")
	var total float64
	var unpriced []string
	for _, k := range order {
		u := byKey[k]
		cost := "?"
		if mc := llm.LookupCost(k.model); mc != nil {
			c := mc.Cost(u.in, u.out)
			total += c
			cost = fmt.Sprintf("$%.4f", c)
		} else {
			unpriced = append(unpriced, k.model)
		}
		t.Row(k.purpose, k.model, fmt.Sprintf("%d", u.calls), fmt.Sprintf("%d", u.failed),
			fmt.Sprintf("%d/%d", u.in, u.out), fmt.Sprintf("%d", u.latency/int64(u.calls)), cost)
	}

	out := t.Render() + "\n" + field("Total cost", fmt.Sprintf("$%.4f", total)) + "\n"
	if len(unpriced) > 0 {
		out += theme.Hint.Render("pricing unavailable for: "+strings.Join(unpriced, ", ")) + "\n"
	}
	return out
}

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/engine"
	"github.com/abhisek/pathwise/internal/learner"
	"github.com/abhisek/pathwise/internal/path"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/store"
)

func plain(s string) string { return ansi.Strip(s) }

func TestMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "done"},
		{-3, "done"},
		{45, "45 min"},
		{60, "1h 00m"},
		{135, "2h 15m"},
	}
	for _, tt := range tests {
		if got := Minutes(tt.in); got != tt.want {
			t.Errorf("Minutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	out := plain(ProgressBar(path.Progress{Total: 4, Completed: 1, Percent: 25}, 8))
	assert.Contains(t, out, "██░░░░░░")
	assert.Contains(t, out, "1/4 (25%)")

	empty := plain(ProgressBar(path.Progress{}, 1))
	assert.Contains(t, empty, "░░░░ 0/0 (0%)")
}

func TestPathMarksPointer(t *testing.T) {
	keys := []asset.Key{
		asset.NewKey("go101", "basics", "beginner", "video"),
		asset.NewKey("go101", "basics", "beginner", "doc"),
	}
	p, err := path.New("p1", "u1", "go101", keys)
	require.NoError(t, err)
	p.LastUpdatedReason = "seeded"

	first := asset.New(keys[0], "Tour of Go", 12)
	out := plain(Path(&progress.PathView{
		Path:       p,
		Assets:     map[string]*asset.Asset{first.ID: first},
		ETAMinutes: 22,
		Progress:   p.Progress(),
	}))

	assert.Contains(t, out, "▸")
	assert.Contains(t, out, "Tour of Go")
	assert.Contains(t, out, keys[1].ID())
	assert.Contains(t, out, "22 min")
	assert.Contains(t, out, "seeded")
}

func TestOutcome(t *testing.T) {
	res := &progress.SubmitResult{
		Result:     quiz.Result{Score: 40, CorrectCount: 2, Total: 5, WrongQuestionIDs: []string{"q3", "q4"}},
		TimeRatio:  1.5,
		Reason:     "remediation",
		Outcome:    engine.OutcomeStruggling,
		Diagnostic: engine.DiagnosticNone,
	}
	out := plain(Outcome(res))
	assert.Contains(t, out, "40 (2/5 correct)")
	assert.Contains(t, out, "struggling")
	assert.Contains(t, out, "path complete")
	assert.Contains(t, out, "q3, q4")
	assert.NotContains(t, out, "Diagnostic")
}

func TestQuizHidesAnswers(t *testing.T) {
	out := plain(Quiz(&progress.Quiz{Topic: "basics", Questions: []quiz.Question{
		{ID: "q1", Prompt: "Zero value of int?", Options: []string{"0", "nil"}, CorrectIndex: 1},
	}}))
	assert.Contains(t, out, "Zero value of int?")
	assert.Contains(t, out, "[1] nil")

	assert.Contains(t, plain(Quiz(&progress.Quiz{Topic: "x"})), "no questions for topic x")
}

func TestUsersAndNotes(t *testing.T) {
	u := learner.New("u1", "Asha", "SRE")
	out := plain(Users([]learner.Summary{u.Summary()}))
	assert.Contains(t, out, "Asha")
	assert.Contains(t, out, "PREFERRED")

	assert.Contains(t, plain(Notes(nil)), "no study notes yet")
	notes := plain(Notes([]store.StudyNote{{
		Title:       "Error wrapping",
		Topic:       "errors",
		Summary:     "Wrap with %w.",
		FocusPoints: []string{"errors.Is", "errors.As"},
		CreatedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}}))
	assert.Contains(t, notes, "Error wrapping")
	assert.Contains(t, notes, "2026-03-01")
	assert.Equal(t, 2, strings.Count(notes, "•"))
}

func TestLLMUsageAggregates(t *testing.T) {
	ev := func(purpose, model string, in, out int, ms int64, ok bool) store.LLMRequestEvent {
		return store.LLMRequestEvent{LLMRequestEventData: store.LLMRequestEventData{
			Purpose: purpose, Model: model, InputTokens: in, OutputTokens: out, LatencyMs: ms, Success: ok,
		}}
	}
	events := []store.LLMRequestEvent{
		ev("study-note", "gpt-4o-mini", 1_000_000, 0, 100, true),
		ev("study-note", "gpt-4o-mini", 0, 1_000_000, 300, false),
		ev("study-note", "house-model", 10, 10, 50, true),
	}
	out := plain(LLMUsage(events))
	assert.Contains(t, out, "1000000/1000000")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "$0.7500")
	assert.Contains(t, out, "pricing unavailable for: house-model")

	listing := plain(LLMEvents(events[:1]))
	assert.Contains(t, listing, "$0.1500")
}

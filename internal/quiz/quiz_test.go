package quiz

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pool(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:           fmt.Sprintf("q%d", i+1),
			Topic:        "errors",
			Options:      []string{"a", "b", "c"},
			CorrectIndex: i % 3,
		}
	}
	return qs
}

func TestPick(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	got := Pick(rng, pool(12), ModeNormal, nil)
	require.Len(t, got, DefaultSize)
	seen := map[string]bool{}
	for _, q := range got {
		assert.False(t, seen[q.ID], "duplicate %s", q.ID)
		seen[q.ID] = true
	}

	assert.Len(t, Pick(rng, pool(3), ModeNormal, nil), 3)
	assert.Empty(t, Pick(rng, nil, ModeNormal, nil))
}

func TestPick_ReviewFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	missed := map[string]bool{"q9": true, "q11": true}

	got := Pick(rng, pool(12), ModeReview, missed)
	require.Len(t, got, DefaultSize)
	assert.True(t, missed[got[0].ID])
	assert.True(t, missed[got[1].ID])
}

func TestPick_DoesNotReorderPool(t *testing.T) {
	p := pool(6)
	Pick(rand.New(rand.NewSource(3)), p, ModeNormal, nil)
	for i, q := range p {
		assert.Equal(t, fmt.Sprintf("q%d", i+1), q.ID)
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeReview, ParseMode(" Review "))
	assert.Equal(t, ModeNormal, ParseMode(""))
	assert.Equal(t, ModeNormal, ParseMode("hard"))
}

func TestGrade(t *testing.T) {
	qs := pool(4) // correct indexes 0,1,2,0

	tests := []struct {
		name    string
		answers Answers
		want    Result
	}{
		{
			name:    "no answers",
			answers: Answers{},
			want:    Result{WrongQuestionIDs: []string{}},
		},
		{
			name:    "all correct",
			answers: Answers{"q1": 0, "q2": 1, "q3": 2},
			want:    Result{Score: 100, CorrectCount: 3, Total: 3, WrongQuestionIDs: []string{}},
		},
		{
			name:    "two of three",
			answers: Answers{"q1": 0, "q2": 2, "q4": 0},
			want:    Result{Score: 67, CorrectCount: 2, Total: 3, WrongQuestionIDs: []string{"q2"}},
		},
		{
			name:    "unknown ids ignored",
			answers: Answers{"q1": 1, "zz": 0},
			want:    Result{Score: 0, CorrectCount: 0, Total: 1, WrongQuestionIDs: []string{"q1"}},
		},
		{
			name:    "nothing matched",
			answers: Answers{"zz": 0, "yy": 1},
			want:    Result{Score: 0, Total: 2, WrongQuestionIDs: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(qs, tt.answers))
		})
	}
}

func TestTiming(t *testing.T) {
	tests := []struct {
		spent, expected     float64
		wantSpent, wantRate float64
	}{
		{0, 0, 10, 1},
		{15, 10, 15, 1.5},
		{0, 8, 8, 1},
		{12, 0, 12, 1.2},
	}
	for _, tt := range tests {
		spent, ratio := Timing(tt.spent, tt.expected)
		if spent != tt.wantSpent || ratio != tt.wantRate {
			t.Errorf("Timing(%v, %v) = %v, %v, want %v, %v", tt.spent, tt.expected, spent, ratio, tt.wantSpent, tt.wantRate)
		}
	}
	if got := RoundRatio(1.23456); got != 1.23 {
		t.Errorf("RoundRatio = %v, want 1.23", got)
	}
}

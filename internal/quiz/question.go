// Package quiz selects quiz questions, scores answers and describes the
// attempt records produced by a submission.
package quiz

import (
	"math/rand"
	"strings"
)

// DefaultSize is the number of questions served per quiz.
const DefaultSize = 5

// Question is a multiple-choice question bound to a topic.
type Question struct {
	ID           string   `json:"questionId" yaml:"id"`
	Topic        string   `json:"topic" yaml:"topic"`
	Difficulty   string   `json:"difficulty" yaml:"difficulty"`
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"-" yaml:"correct_index"`
	Explanation  string   `json:"explanation" yaml:"explanation"`
}

// Mode selects how questions are drawn.
type Mode string

const (
	ModeNormal Mode = "normal"
	// ModeReview puts questions the learner previously missed first.
	ModeReview Mode = "review"
)

// ParseMode maps query input onto a mode; unknown values are normal.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeReview)) {
		return ModeReview
	}
	return ModeNormal
}

// Pick draws up to DefaultSize questions in random order. In review mode
// previously missed questions are drawn before the rest.
func Pick(rng *rand.Rand, pool []Question, mode Mode, missed map[string]bool) []Question {
	shuffled := make([]Question, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if mode == ModeReview && len(missed) > 0 {
		var first, rest []Question
		for _, q := range shuffled {
			if missed[q.ID] {
				first = append(first, q)
			} else {
				rest = append(rest, q)
			}
		}
		shuffled = append(first, rest...)
	}

	if len(shuffled) > DefaultSize {
		shuffled = shuffled[:DefaultSize]
	}
	return shuffled
}

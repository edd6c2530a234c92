package quiz

import (
	"math"
	"sort"
)

// Answers maps question id to the selected option index.
type Answers map[string]int

// IDs returns the answered question ids in sorted order.
func (a Answers) IDs() []string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Result is the graded outcome of a set of answers.
type Result struct {
	Score            int      `json:"score"`
	CorrectCount     int      `json:"correctCount"`
	Total            int      `json:"total"`
	WrongQuestionIDs []string `json:"wrongQuestionIds"`
}

// Grade scores answers against the questions they refer to. Answers for
// unknown questions only count toward the total when no question matched.
func Grade(questions []Question, answers Answers) Result {
	res := Result{WrongQuestionIDs: []string{}}
	if len(answers) == 0 {
		return res
	}

	matched := 0
	for _, q := range questions {
		selected, ok := answers[q.ID]
		if !ok {
			continue
		}
		matched++
		if selected == q.CorrectIndex {
			res.CorrectCount++
		} else {
			res.WrongQuestionIDs = append(res.WrongQuestionIDs, q.ID)
		}
	}

	res.Total = matched
	if res.Total == 0 {
		res.Total = len(answers)
	}
	res.Score = int(math.Round(float64(res.CorrectCount) / float64(res.Total) * 100))
	return res
}

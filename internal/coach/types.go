package coach

import "github.com/abhisek/pathwise/internal/quiz"

// Input is everything a study note is written from: the struggling
// attempt, the questions the learner missed and where the engine is
// sending them next.
type Input struct {
	UserID     string
	AttemptID  string
	AssetID    string
	AssetTitle string
	Topic      string
	Level      string
	Format     string
	Score      int
	TimeRatio  float64

	Missed []quiz.Question

	// NextAssetID is the remediation target chosen by the engine, if any.
	NextAssetID string
	Reason      string
}

type noteOutput struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	FocusPoints []string `json:"focus_points"`
}

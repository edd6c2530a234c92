package quiz

import (
	"math"
	"time"

	"github.com/abhisek/pathwise/internal/asset"
)

// Attempt is one submitted quiz, appended to the attempt log.
type Attempt struct {
	ID               string       `json:"attemptId"`
	UserID           string       `json:"userId"`
	CourseID         string       `json:"courseId"`
	PathID           string       `json:"pathId"`
	AssetID          string       `json:"assetId"`
	Topic            string       `json:"topic"`
	Format           asset.Format `json:"format"`
	Level            asset.Level  `json:"level"`
	Score            int          `json:"score"`
	TimeSpentMinutes float64      `json:"timeSpentMin"`
	TimeRatio        float64      `json:"timeRatio"`
	AskedQuestionIDs []string     `json:"askedQuestionIds"`
	WrongQuestionIDs []string     `json:"wrongQuestionIds"`
	AttemptNo        int          `json:"attemptNo"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// Timing derives the time spent and the time ratio for an attempt. A
// missing or non-positive spent value is taken as the expected duration.
func Timing(spentMinutes, expectedMinutes float64) (spent, ratio float64) {
	expected := expectedMinutes
	if expected <= 0 {
		expected = asset.DefaultExpectedMinutes
	}
	spent = spentMinutes
	if spent <= 0 {
		spent = expected
	}
	return spent, spent / expected
}

// RoundRatio rounds a time ratio to two decimals for storage and display.
func RoundRatio(r float64) float64 {
	return math.Round(r*100) / 100
}

package mastery

// Outcome thresholds shared by mastery tracking and sequencing.
const (
	PassScore  = 60.0
	GoodScore  = 80.0
	GreatScore = 90.0

	// GreatMaxTimeRatio bounds how slow a pass may be and still count as great.
	GreatMaxTimeRatio = 1.2
	// StrugglingTimeRatio marks an attempt as struggling regardless of score.
	StrugglingTimeRatio = 1.8
)

// Struggling reports whether an attempt counts as a failure.
func Struggling(score, timeRatio float64) bool {
	return score < PassScore || timeRatio > StrugglingTimeRatio
}

package mastery

import (
	"github.com/abhisek/pathwise/internal/asset"
)

// DefaultPreferredFormat is reported when no format has been attempted.
const DefaultPreferredFormat = asset.FormatDoc

// minAttemptsForPreference is the attempt count a format needs before it is
// preferred over formats with fewer samples.
const minAttemptsForPreference = 2

// FormatStat is the running score average for one delivery format.
type FormatStat struct {
	Format       asset.Format `json:"format"`
	AttemptCount int          `json:"attemptCount"`
	AvgScore     float64      `json:"avgScore"`
}

// FormatStats is kept in first-encountered order; that order breaks ties.
type FormatStats []FormatStat

// Record folds a score into the running average for format.
func (s *FormatStats) Record(format asset.Format, score float64) {
	for i := range *s {
		st := &(*s)[i]
		if st.Format == format {
			st.AvgScore = (st.AvgScore*float64(st.AttemptCount) + score) / float64(st.AttemptCount+1)
			st.AttemptCount++
			return
		}
	}
	*s = append(*s, FormatStat{Format: format, AttemptCount: 1, AvgScore: score})
}

// Get returns the stat for format.
func (s FormatStats) Get(format asset.Format) (FormatStat, bool) {
	for _, st := range s {
		if st.Format == format {
			return st, true
		}
	}
	return FormatStat{}, false
}

// Preferred returns the format with the highest average among formats with at
// least two attempts, or among all formats when none qualify.
func (s FormatStats) Preferred() asset.Format {
	pool := make([]FormatStat, 0, len(s))
	for _, st := range s {
		if st.AttemptCount >= minAttemptsForPreference {
			pool = append(pool, st)
		}
	}
	if len(pool) == 0 {
		pool = s
	}
	if len(pool) == 0 {
		return DefaultPreferredFormat
	}

	best := pool[0]
	for _, st := range pool[1:] {
		if st.AvgScore > best.AvgScore {
			best = st
		}
	}
	return best.Format
}

// PreferredLabel renders the advisory label persisted on the user.
func (s FormatStats) PreferredLabel() string {
	return Label(s.Preferred())
}

// Label renders a preferred-format label such as "video_first".
func Label(f asset.Format) string {
	return string(f) + "_first"
}

package mastery

import "sort"

// DefaultMastery is the value of a topic that has never been attempted.
const DefaultMastery = 0.5

const (
	deltaStruggling = -0.20
	deltaStrong     = 0.15
	deltaPass       = 0.05
	deltaWeak       = -0.05
)

// Map holds per-topic mastery in [0,1]. Missing topics read as DefaultMastery.
type Map map[string]float64

// Get returns the mastery for topic.
func (m Map) Get(topic string) float64 {
	if v, ok := m[topic]; ok {
		return v
	}
	return DefaultMastery
}

// Set stores a clamped mastery value.
func (m Map) Set(topic string, v float64) {
	m[topic] = clamp(v, 0, 1)
}

// Apply folds one attempt into the topic's mastery and returns the new value.
func (m Map) Apply(topic string, score, timeRatio float64) float64 {
	v := clamp(m.Get(topic)+Delta(score, timeRatio), 0, 1)
	m[topic] = v
	return v
}

// Topics returns the tracked topics in sorted order.
func (m Map) Topics() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Delta returns the mastery change for an attempt.
func Delta(score, timeRatio float64) float64 {
	switch {
	case Struggling(score, timeRatio):
		return deltaStruggling
	case score >= GoodScore && timeRatio <= GreatMaxTimeRatio:
		return deltaStrong
	case score >= PassScore:
		return deltaPass
	default:
		return deltaWeak
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

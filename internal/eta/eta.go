// Package eta estimates the minutes a learner needs to finish a path.
package eta

import (
	"math"

	"github.com/abhisek/pathwise/internal/asset"
	"github.com/abhisek/pathwise/internal/path"
)

const (
	// RecentWindow is how many recent attempts feed the speed factor.
	RecentWindow = 10

	MinSpeedFactor     = 0.7
	MaxSpeedFactor     = 2.0
	DefaultSpeedFactor = 1.0
)

// Catalog resolves assets by id. Unknown assets count as
// asset.DefaultExpectedMinutes.
type Catalog map[string]*asset.Asset

// Expected returns the expected minutes for id.
func (c Catalog) Expected(id string) float64 {
	return c[id].Expected()
}

// SpeedFactor averages the time ratios of the most recent attempts, newest
// first, and clamps the mean. Non-finite and non-positive ratios are ignored.
func SpeedFactor(recentRatios []float64) float64 {
	if len(recentRatios) > RecentWindow {
		recentRatios = recentRatios[:RecentWindow]
	}
	sum, n := 0.0, 0
	for _, r := range recentRatios {
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			continue
		}
		sum += r
		n++
	}
	if n == 0 {
		return DefaultSpeedFactor
	}
	return math.Min(MaxSpeedFactor, math.Max(MinSpeedFactor, sum/float64(n)))
}

// RawMinutes sums expected minutes over pending and needs_review nodes at
// or after the pointer.
func RawMinutes(p *path.Path, c Catalog) float64 {
	total := 0.0
	start := max(p.CurrentIndex, 0)
	for i := start; i < p.Len(); i++ {
		n := p.Nodes[i]
		if n.Status.Terminal() {
			continue
		}
		total += c.Expected(n.AssetID)
	}
	return total
}

// Estimate returns the rounded, speed-adjusted minutes remaining.
func Estimate(p *path.Path, c Catalog, recentRatios []float64) int {
	minutes := math.Round(RawMinutes(p, c) * SpeedFactor(recentRatios))
	if minutes < 0 {
		return 0
	}
	return int(minutes)
}

package path

import "github.com/abhisek/pathwise/internal/asset"

// Status is the delivery state of a node.
type Status string

const (
	StatusPending     Status = "pending"
	StatusCompleted   Status = "completed"
	StatusSkipped     Status = "skipped"
	StatusNeedsReview Status = "needs_review"
)

// NormalizeStatus maps legacy and empty values onto the status vocabulary.
func NormalizeStatus(s string) Status {
	switch s {
	case "", "locked", "unlocked", string(StatusPending):
		return StatusPending
	case "done", string(StatusCompleted):
		return StatusCompleted
	case string(StatusSkipped):
		return StatusSkipped
	case string(StatusNeedsReview):
		return StatusNeedsReview
	default:
		return StatusPending
	}
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// Actionable reports whether the node can still be delivered.
func (s Status) Actionable() bool {
	return !s.Terminal()
}

// Provenance records who placed a node into the path.
type Provenance string

const (
	AddedByCourse Provenance = "course"
	AddedByEngine Provenance = "engine"
)

// Node is one scheduled occurrence of an asset within a path.
type Node struct {
	// ID is stable for the lifetime of the path and never reused.
	ID      int        `json:"nodeId"`
	AssetID string     `json:"assetId"`
	Key     asset.Key  `json:"key"`
	Status  Status     `json:"status"`
	AddedBy Provenance `json:"addedBy"`
}

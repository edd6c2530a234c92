package path

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/pathwise/internal/asset"
)

var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrTerminalNode   = errors.New("node is in a terminal status")
	ErrDuplicateAsset = errors.New("duplicate asset in path")
)

// Path is the ordered, per-user-per-course delivery sequence.
// Node order is the only sequencing truth.
type Path struct {
	ID                string    `json:"pathId"`
	UserID            string    `json:"userId"`
	CourseID          string    `json:"courseId"`
	Nodes             []*Node   `json:"nodes"`
	CurrentIndex      int       `json:"currentIndex"`
	NextAssetID       string    `json:"nextAssetId"`
	LastUpdatedReason string    `json:"lastUpdatedReason"`
	ETAMinutes        int       `json:"etaMinutes"`
	Version           int64     `json:"version"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// New seeds a path from authored asset keys, in order. Every node starts
// pending and is attributed to the course.
func New(id, userID, courseID string, keys []asset.Key) (*Path, error) {
	p := &Path{
		ID:       id,
		UserID:   userID,
		CourseID: courseID,
		Nodes:    make([]*Node, 0, len(keys)),
	}
	seen := make(map[string]bool, len(keys))
	for i, k := range keys {
		aid := k.ID()
		if seen[aid] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAsset, aid)
		}
		seen[aid] = true
		p.Nodes = append(p.Nodes, &Node{
			ID:      i + 1,
			AssetID: aid,
			Key:     k,
			Status:  StatusPending,
			AddedBy: AddedByCourse,
		})
	}
	p.ResolveNext()
	return p, nil
}

// Len returns the number of nodes.
func (p *Path) Len() int { return len(p.Nodes) }

// Exhausted reports whether the pointer has run past the last node.
func (p *Path) Exhausted() bool { return p.CurrentIndex >= len(p.Nodes) }

// At returns the node at index i, or nil when out of range.
func (p *Path) At(i int) *Node {
	if i < 0 || i >= len(p.Nodes) {
		return nil
	}
	return p.Nodes[i]
}

// Current returns the node under the pointer, or nil when exhausted.
func (p *Path) Current() *Node { return p.At(p.CurrentIndex) }

// IndexOfAsset returns the position of the node holding assetID, or -1.
func (p *Path) IndexOfAsset(assetID string) int {
	for i, n := range p.Nodes {
		if n.AssetID == assetID {
			return i
		}
	}
	return -1
}

// IndexOfNode returns the position of the node with the given id, or -1.
func (p *Path) IndexOfNode(nodeID int) int {
	for i, n := range p.Nodes {
		if n.ID == nodeID {
			return i
		}
	}
	return -1
}

// NodeByAsset returns the node holding assetID, or nil.
func (p *Path) NodeByAsset(assetID string) *Node {
	return p.At(p.IndexOfAsset(assetID))
}

// AssetIDs returns asset ids in delivery order.
func (p *Path) AssetIDs() []string {
	ids := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		ids[i] = n.AssetID
	}
	return ids
}

// FirstPendingFrom returns the index of the first pending node at or after
// start, or Len() when there is none.
func (p *Path) FirstPendingFrom(start int) int {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(p.Nodes); i++ {
		if p.Nodes[i].Status == StatusPending {
			return i
		}
	}
	return len(p.Nodes)
}

// ResolveNext sets NextAssetID to the first pending node at or after the
// pointer, or clears it when the path is exhausted.
func (p *Path) ResolveNext() {
	i := p.FirstPendingFrom(p.CurrentIndex)
	if n := p.At(i); n != nil {
		p.NextAssetID = n.AssetID
		return
	}
	p.NextAssetID = ""
}

// NormalizeStatuses rewrites legacy status labels in place.
func (p *Path) NormalizeStatuses() {
	for _, n := range p.Nodes {
		n.Status = NormalizeStatus(string(n.Status))
		if n.AddedBy == "" {
			n.AddedBy = AddedByCourse
		}
	}
}

// Clone returns a deep copy safe to mutate independently.
func (p *Path) Clone() *Path {
	cp := *p
	cp.Nodes = make([]*Node, len(p.Nodes))
	for i, n := range p.Nodes {
		nn := *n
		cp.Nodes[i] = &nn
	}
	return &cp
}

// Progress summarises completion.
type Progress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}

// Progress counts completed nodes against the total.
func (p *Path) Progress() Progress {
	pr := Progress{Total: len(p.Nodes)}
	for _, n := range p.Nodes {
		if n.Status == StatusCompleted {
			pr.Completed++
		}
	}
	if pr.Total > 0 {
		pr.Percent = int(float64(pr.Completed)/float64(pr.Total)*100 + 0.5)
	}
	return pr
}

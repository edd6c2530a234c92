package path

import "fmt"

// Validate checks the structural invariants of a path: unique asset ids,
// unique node ids, and a pointer that either addresses a pending node or
// equals the path length.
func (p *Path) Validate() error {
	assets := make(map[string]bool, len(p.Nodes))
	nodes := make(map[int]bool, len(p.Nodes))
	for i, n := range p.Nodes {
		if n == nil {
			return fmt.Errorf("nil node at %d", i)
		}
		if assets[n.AssetID] {
			return fmt.Errorf("%w: %s", ErrDuplicateAsset, n.AssetID)
		}
		assets[n.AssetID] = true
		if nodes[n.ID] {
			return fmt.Errorf("duplicate node id %d", n.ID)
		}
		nodes[n.ID] = true
	}

	if p.CurrentIndex < 0 || p.CurrentIndex > len(p.Nodes) {
		return fmt.Errorf("current index %d out of range [0,%d]", p.CurrentIndex, len(p.Nodes))
	}
	if n := p.Current(); n != nil && n.Status != StatusPending {
		return fmt.Errorf("current index %d addresses %s node %s", p.CurrentIndex, n.Status, n.AssetID)
	}
	return nil
}

// NextNodeID returns an id not used by any node in the path.
func (p *Path) NextNodeID() int {
	maxID := 0
	for _, n := range p.Nodes {
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	return maxID + 1
}

package path

import "fmt"

// Move relocates a node to target using remove-then-insert semantics.
// The target is clamped into range. All other nodes keep their relative
// order and the node set is unchanged. Status is not touched. Returns the
// index the node landed on.
func (p *Path) Move(nodeID, target int) (int, error) {
	from := p.IndexOfNode(nodeID)
	if from < 0 {
		return -1, fmt.Errorf("%w: %d", ErrNodeNotFound, nodeID)
	}
	n := p.Nodes[from]
	p.Nodes = append(p.Nodes[:from], p.Nodes[from+1:]...)

	if target < 0 {
		target = 0
	}
	if target > len(p.Nodes) {
		target = len(p.Nodes)
	}

	p.Nodes = append(p.Nodes, nil)
	copy(p.Nodes[target+1:], p.Nodes[target:])
	p.Nodes[target] = n
	return target, nil
}

// MoveAfter relocates a node so that it directly follows anchor.
func (p *Path) MoveAfter(nodeID, anchorID int) (int, error) {
	if nodeID == anchorID {
		return p.IndexOfNode(nodeID), nil
	}
	if p.IndexOfNode(anchorID) < 0 {
		return -1, fmt.Errorf("%w: anchor %d", ErrNodeNotFound, anchorID)
	}
	from := p.IndexOfNode(nodeID)
	if from < 0 {
		return -1, fmt.Errorf("%w: %d", ErrNodeNotFound, nodeID)
	}
	anchor := p.IndexOfNode(anchorID)
	target := anchor + 1
	if from < anchor {
		// removing the node shifts the anchor left by one
		target = anchor
	}
	return p.Move(nodeID, target)
}

// MoveToNow relocates a node into the delivery slot at target and makes it
// pending. Completed and skipped nodes cannot be reinstated.
func (p *Path) MoveToNow(nodeID, target int) (int, error) {
	i := p.IndexOfNode(nodeID)
	if i < 0 {
		return -1, fmt.Errorf("%w: %d", ErrNodeNotFound, nodeID)
	}
	if p.Nodes[i].Status.Terminal() {
		return -1, fmt.Errorf("%w: %s is %s", ErrTerminalNode, p.Nodes[i].AssetID, p.Nodes[i].Status)
	}
	at, err := p.Move(nodeID, target)
	if err != nil {
		return -1, err
	}
	p.Nodes[at].Status = StatusPending
	return at, nil
}

// Reopen relocates a node into the delivery slot at target and makes it
// pending whatever its status.
func (p *Path) Reopen(nodeID, target int) (int, error) {
	at, err := p.Move(nodeID, target)
	if err != nil {
		return -1, err
	}
	p.Nodes[at].Status = StatusPending
	return at, nil
}

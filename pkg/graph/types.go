// Package graph defines the node-link document model shared by the
// simulation, the scene reconciler, and the host-side stores.
package graph

// Node is a single vertex in the graph document.
//
// X, Y, VX and VY are owned by the physics simulation once the node is
// registered with it; hosts should treat them as read-only between
// snapshots. FX and FY, when non-nil, pin the node to a fixed position
// while it keeps exerting forces on its neighbors.
type Node struct {
	ID    string   `json:"id" yaml:"id"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
	Type  string   `json:"type,omitempty" yaml:"type,omitempty"`
	X     float64  `json:"x" yaml:"x"`
	Y     float64  `json:"y" yaml:"y"`
	VX    float64  `json:"-" yaml:"-"`
	VY    float64  `json:"-" yaml:"-"`
	FX    *float64 `json:"fx,omitempty" yaml:"fx,omitempty"`
	FY    *float64 `json:"fy,omitempty" yaml:"fy,omitempty"`
}

// Pin fixes the node at (x, y). The simulation copies the pin into X/Y on
// every tick instead of integrating forces for this node.
func (n *Node) Pin(x, y float64) {
	n.FX = &x
	n.FY = &y
}

// Unpin releases the node back to force-driven movement.
func (n *Node) Unpin() {
	n.FX = nil
	n.FY = nil
}

// Pinned reports whether the node position is externally fixed.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Edge is a directed or undirected connection between two nodes by ID.
type Edge struct {
	ID       string `json:"id" yaml:"id"`
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Directed bool   `json:"directed,omitempty" yaml:"directed,omitempty"`
}

// Touches reports whether the edge has the given node as either endpoint.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// Loop reports whether the edge connects a node to itself.
func (e Edge) Loop() bool {
	return e.Source == e.Target
}

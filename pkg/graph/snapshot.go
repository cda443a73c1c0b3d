package graph

import "log/slog"

// Snapshot is one complete revision of the graph document. The host hands a
// fresh snapshot to the core on load and after every external mutation; the
// core never mutates a snapshot it received.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Empty reports whether the snapshot carries no nodes.
func (s Snapshot) Empty() bool {
	return len(s.Nodes) == 0
}

// NodeIndex returns the snapshot's nodes keyed by ID. When the same ID
// appears more than once the first occurrence wins.
func (s Snapshot) NodeIndex() map[string]Node {
	idx := make(map[string]Node, len(s.Nodes))
	for _, n := range s.Nodes {
		if _, dup := idx[n.ID]; dup {
			continue
		}
		idx[n.ID] = n
	}
	return idx
}

// Sanitize returns a copy of the snapshot with duplicate node IDs and
// edges referencing a missing endpoint removed. Dropped items are logged as
// warnings; a malformed document degrades, it never fails.
func (s Snapshot) Sanitize(logger *slog.Logger) Snapshot {
	if logger == nil {
		logger = slog.Default()
	}

	clean := Snapshot{
		Nodes: make([]Node, 0, len(s.Nodes)),
		Edges: make([]Edge, 0, len(s.Edges)),
	}

	seen := make(map[string]struct{}, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			logger.Warn("dropping node with empty id")
			continue
		}
		if _, dup := seen[n.ID]; dup {
			logger.Warn("dropping duplicate node", "id", n.ID)
			continue
		}
		seen[n.ID] = struct{}{}
		clean.Nodes = append(clean.Nodes, n)
	}

	seenEdges := make(map[string]struct{}, len(s.Edges))
	for _, e := range s.Edges {
		if _, dup := seenEdges[e.ID]; e.ID != "" && dup {
			logger.Warn("dropping duplicate edge", "id", e.ID)
			continue
		}
		if _, ok := seen[e.Source]; !ok {
			logger.Warn("dropping edge with missing source", "edge", e.ID, "source", e.Source)
			continue
		}
		if _, ok := seen[e.Target]; !ok {
			logger.Warn("dropping edge with missing target", "edge", e.ID, "target", e.Target)
			continue
		}
		if e.ID != "" {
			seenEdges[e.ID] = struct{}{}
		}
		clean.Edges = append(clean.Edges, e)
	}

	return clean
}

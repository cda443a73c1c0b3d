package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/plexkit/plexus/pkg/graph"
)

// MemoryStore keeps the graph in process memory. It is the default
// store for ad-hoc exploration and for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes []graph.Node
	edges []graph.Edge
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreFrom seeds an in-memory store with a snapshot, for
// graphs loaded from files or generated samples.
func NewMemoryStoreFrom(snap graph.Snapshot) *MemoryStore {
	s := &MemoryStore{
		nodes: make([]graph.Node, 0, len(snap.Nodes)),
		edges: make([]graph.Edge, 0, len(snap.Edges)),
	}
	for _, n := range snap.Nodes {
		s.nodes = append(s.nodes, cloneNode(n))
	}
	s.edges = append(s.edges, snap.Edges...)
	return s
}

func cloneNode(n graph.Node) graph.Node {
	if n.FX != nil {
		fx := *n.FX
		n.FX = &fx
	}
	if n.FY != nil {
		fy := *n.FY
		n.FY = &fy
	}
	return n
}

// Load returns a deep copy of the graph, so callers can mutate the
// snapshot without reaching into the store.
func (s *MemoryStore) Load() (graph.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := graph.Snapshot{
		Nodes: make([]graph.Node, 0, len(s.nodes)),
		Edges: make([]graph.Edge, 0, len(s.edges)),
	}
	for _, n := range s.nodes {
		snap.Nodes = append(snap.Nodes, cloneNode(n))
	}
	snap.Edges = append(snap.Edges, s.edges...)
	return snap, nil
}

// CreateNode adds a node with a generated id.
func (s *MemoryStore) CreateNode(label, typ string, x, y float64) (graph.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := graph.Node{
		ID:    uuid.New().String(),
		Label: label,
		Type:  typ,
		X:     x,
		Y:     y,
	}
	s.nodes = append(s.nodes, n)
	return cloneNode(n), nil
}

// MoveNode stores the dragged position, pinned.
func (s *MemoryStore) MoveNode(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.nodes {
		if s.nodes[i].ID != id {
			continue
		}
		s.nodes[i].X, s.nodes[i].Y = x, y
		s.nodes[i].Pin(x, y)
		return nil
	}
	return fmt.Errorf("node %s: %w", id, ErrNotFound)
}

// DeleteNode removes the node and cascades to its edges.
func (s *MemoryStore) DeleteNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	nodes := s.nodes[:0]
	for _, n := range s.nodes {
		if n.ID == id {
			found = true
			continue
		}
		nodes = append(nodes, n)
	}
	if !found {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	s.nodes = nodes

	edges := s.edges[:0]
	for _, e := range s.edges {
		if e.Touches(id) {
			continue
		}
		edges = append(edges, e)
	}
	s.edges = edges
	return nil
}

// CreateEdge connects two existing nodes.
func (s *MemoryStore) CreateEdge(source, target, label string, directed bool) (graph.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasNode(source) {
		return graph.Edge{}, fmt.Errorf("node %s: %w", source, ErrNotFound)
	}
	if !s.hasNode(target) {
		return graph.Edge{}, fmt.Errorf("node %s: %w", target, ErrNotFound)
	}

	e := graph.Edge{
		ID:       uuid.New().String(),
		Source:   source,
		Target:   target,
		Label:    label,
		Directed: directed,
	}
	s.edges = append(s.edges, e)
	return e, nil
}

// DeleteEdge removes the edge.
func (s *MemoryStore) DeleteEdge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.edges {
		if e.ID == id {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("edge %s: %w", id, ErrNotFound)
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) hasNode(id string) bool {
	for _, n := range s.nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

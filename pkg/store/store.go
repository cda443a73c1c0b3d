// Package store provides the authoritative graph stores behind the
// canvas. The canvas itself never mutates a store directly: it emits
// events, the host translates them into the calls below, and the
// resulting snapshot is fed back into the scene.
package store

import (
	"errors"

	"github.com/plexkit/plexus/pkg/graph"
)

// ErrNotFound is returned when an operation references a node or edge
// id the store does not hold.
var ErrNotFound = errors.New("store: not found")

// GraphStore is the authoritative copy of the graph. Implementations
// must be safe for concurrent use; the TUI and the MCP server may share
// one store.
type GraphStore interface {
	// Load returns the full graph snapshot.
	Load() (graph.Snapshot, error)
	// CreateNode adds a node at the given world position and returns it
	// with a generated id.
	CreateNode(label, typ string, x, y float64) (graph.Node, error)
	// MoveNode records a node's dragged position. Moves come from drags,
	// so the position is stored pinned.
	MoveNode(id string, x, y float64) error
	// DeleteNode removes a node and every edge touching it.
	DeleteNode(id string) error
	// CreateEdge connects two existing nodes and returns the edge with a
	// generated id.
	CreateEdge(source, target, label string, directed bool) (graph.Edge, error)
	// DeleteEdge removes an edge.
	DeleteEdge(id string) error
	// Close releases the store's resources.
	Close() error
}

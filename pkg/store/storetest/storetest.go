// Package storetest runs a conformance suite against any GraphStore
// implementation. Each backend's test file calls Run with a factory
// that produces a fresh, empty store.
package storetest

import (
	"errors"
	"testing"

	"github.com/plexkit/plexus/pkg/store"
)

// Run runs the full test suite. open must return an empty store; it is
// called once per subtest so backends stay isolated.
func Run(t *testing.T, open func(t *testing.T) store.GraphStore) {
	t.Run("Create and Load", func(t *testing.T) {
		s := open(t)

		a, err := s.CreateNode("Gateway", "service", 10, 20)
		if err != nil {
			t.Fatalf("CreateNode: %v", err)
		}
		b, err := s.CreateNode("Billing DB", "database", -30, 40)
		if err != nil {
			t.Fatalf("CreateNode: %v", err)
		}
		if a.ID == "" || a.ID == b.ID {
			t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
		}

		e, err := s.CreateEdge(a.ID, b.ID, "reads", true)
		if err != nil {
			t.Fatalf("CreateEdge: %v", err)
		}

		snap, err := s.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(snap.Nodes) != 2 || len(snap.Edges) != 1 {
			t.Fatalf("expected 2 nodes and 1 edge, got %d and %d", len(snap.Nodes), len(snap.Edges))
		}

		byID := make(map[string]int)
		for i, n := range snap.Nodes {
			byID[n.ID] = i
		}
		got := snap.Nodes[byID[a.ID]]
		if got.Label != "Gateway" || got.Type != "service" || got.X != 10 || got.Y != 20 {
			t.Errorf("node round trip mismatch: got %+v", got)
		}
		if got.Pinned() {
			t.Error("freshly created node should not be pinned")
		}

		ge := snap.Edges[0]
		if ge.ID != e.ID || ge.Source != a.ID || ge.Target != b.ID || ge.Label != "reads" || !ge.Directed {
			t.Errorf("edge round trip mismatch: got %+v", ge)
		}
	})

	t.Run("Move pins the node", func(t *testing.T) {
		s := open(t)

		n, err := s.CreateNode("roamer", "", 0, 0)
		if err != nil {
			t.Fatalf("CreateNode: %v", err)
		}
		if err := s.MoveNode(n.ID, 55, -15); err != nil {
			t.Fatalf("MoveNode: %v", err)
		}

		snap, err := s.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		got := snap.Nodes[0]
		if got.X != 55 || got.Y != -15 {
			t.Errorf("position not updated: got (%v, %v)", got.X, got.Y)
		}
		if !got.Pinned() {
			t.Fatal("moved node should be pinned")
		}
		if *got.FX != 55 || *got.FY != -15 {
			t.Errorf("pin not at moved position: got (%v, %v)", *got.FX, *got.FY)
		}
	})

	t.Run("Move non-existent node", func(t *testing.T) {
		s := open(t)

		err := s.MoveNode("ghost", 1, 2)
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete node cascades edges", func(t *testing.T) {
		s := open(t)

		a, _ := s.CreateNode("a", "", 0, 0)
		b, _ := s.CreateNode("b", "", 0, 0)
		c, _ := s.CreateNode("c", "", 0, 0)

		doomed, err := s.CreateEdge(a.ID, b.ID, "", false)
		if err != nil {
			t.Fatalf("CreateEdge: %v", err)
		}
		kept, err := s.CreateEdge(b.ID, c.ID, "", false)
		if err != nil {
			t.Fatalf("CreateEdge: %v", err)
		}

		if err := s.DeleteNode(a.ID); err != nil {
			t.Fatalf("DeleteNode: %v", err)
		}

		snap, err := s.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(snap.Nodes) != 2 {
			t.Errorf("expected 2 nodes after delete, got %d", len(snap.Nodes))
		}
		if len(snap.Edges) != 1 {
			t.Fatalf("expected the a-b edge to cascade away, got %d edges", len(snap.Edges))
		}
		if snap.Edges[0].ID != kept.ID {
			t.Errorf("wrong edge survived: got %s, want %s (deleted %s)", snap.Edges[0].ID, kept.ID, doomed.ID)
		}
	})

	t.Run("Delete non-existent node", func(t *testing.T) {
		s := open(t)

		err := s.DeleteNode("ghost")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Edge requires endpoints", func(t *testing.T) {
		s := open(t)

		a, _ := s.CreateNode("a", "", 0, 0)

		if _, err := s.CreateEdge("ghost", a.ID, "", false); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("missing source: expected ErrNotFound, got %v", err)
		}
		if _, err := s.CreateEdge(a.ID, "ghost", "", false); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("missing target: expected ErrNotFound, got %v", err)
		}

		snap, err := s.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(snap.Edges) != 0 {
			t.Errorf("failed creates must not leave edges behind, got %d", len(snap.Edges))
		}
	})

	t.Run("Delete edge", func(t *testing.T) {
		s := open(t)

		a, _ := s.CreateNode("a", "", 0, 0)
		b, _ := s.CreateNode("b", "", 0, 0)
		e, err := s.CreateEdge(a.ID, b.ID, "", false)
		if err != nil {
			t.Fatalf("CreateEdge: %v", err)
		}

		if err := s.DeleteEdge(e.ID); err != nil {
			t.Fatalf("DeleteEdge: %v", err)
		}
		snap, err := s.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(snap.Edges) != 0 {
			t.Errorf("expected 0 edges after delete, got %d", len(snap.Edges))
		}
		if len(snap.Nodes) != 2 {
			t.Errorf("deleting an edge must not touch nodes, got %d", len(snap.Nodes))
		}

		if err := s.DeleteEdge(e.ID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})
}

package store_test

import (
	"path/filepath"
	"testing"

	"github.com/plexkit/plexus/pkg/store"
	"github.com/plexkit/plexus/pkg/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.GraphStore {
		dbPath := filepath.Join(t.TempDir(), "graph.db")
		s, err := store.NewSQLiteStore(dbPath)
		if err != nil {
			t.Fatalf("Failed to create sqlite store: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

// Reopening the same file must see everything a previous session wrote,
// pins included.
func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "graph.db")

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create sqlite store: %v", err)
	}
	n, err := s.CreateNode("Gateway", "service", 3, 4)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	if err := s.MoveNode(n.ID, 30, 40); err != nil {
		t.Fatalf("MoveNode: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen sqlite store: %v", err)
	}
	defer reopened.Close()

	snap, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Nodes) != 1 {
		t.Fatalf("expected 1 node after reopen, got %d", len(snap.Nodes))
	}
	got := snap.Nodes[0]
	if got.ID != n.ID || got.Label != "Gateway" || got.X != 30 || got.Y != 40 {
		t.Errorf("node did not survive reopen: got %+v", got)
	}
	if !got.Pinned() {
		t.Error("pin did not survive reopen")
	}
}

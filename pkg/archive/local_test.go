package archive

import (
	"context"
	"testing"
	"time"

	"github.com/plexkit/plexus/pkg/graph"
)

func testSnapshot(label string) graph.Snapshot {
	return graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "a", Label: label, X: 1, Y: 2},
			{ID: "b", X: 3, Y: 4},
		},
		Edges: []graph.Edge{
			{ID: "e1", Source: "a", Target: "b", Directed: true},
		},
	}
}

func TestLocalArchiveRoundTrip(t *testing.T) {
	a := NewLocalArchive(t.TempDir(), 0)
	ctx := context.Background()

	key := Key(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	if err := a.Put(ctx, key, testSnapshot("alpha")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := a.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Fatalf("round trip lost data: %d nodes, %d edges", len(got.Nodes), len(got.Edges))
	}
	if got.Nodes[0].Label != "alpha" {
		t.Errorf("node label = %q, want %q", got.Nodes[0].Label, "alpha")
	}
	if !got.Edges[0].Directed {
		t.Error("edge lost its direction")
	}
}

func TestLocalArchiveListOrder(t *testing.T) {
	a := NewLocalArchive(t.TempDir(), 0)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	// Insert out of chronological order; List must still come back sorted.
	for _, offset := range []time.Duration{2 * time.Minute, 0, time.Minute} {
		if err := a.Put(ctx, Key(base.Add(offset)), testSnapshot("x")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	entries, err := a.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			t.Errorf("entries out of order: %q before %q", entries[i-1].Key, entries[i].Key)
		}
	}
}

func TestLocalArchivePrune(t *testing.T) {
	a := NewLocalArchive(t.TempDir(), 2)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	keys := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		k := Key(base.Add(time.Duration(i) * time.Second))
		keys = append(keys, k)
		if err := a.Put(ctx, k, testSnapshot("x")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	entries, err := a.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("prune kept %d entries, want 2", len(entries))
	}
	if entries[0].Key != keys[2] || entries[1].Key != keys[3] {
		t.Errorf("prune kept wrong entries: %q, %q", entries[0].Key, entries[1].Key)
	}

	// The pruned entries are gone for good.
	if _, err := a.Get(ctx, keys[0]); err == nil {
		t.Error("Get of pruned entry should fail")
	}
}

func TestLocalArchiveDelete(t *testing.T) {
	a := NewLocalArchive(t.TempDir(), 0)
	ctx := context.Background()

	key := Key(time.Now())
	if err := a.Put(ctx, key, testSnapshot("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := a.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := a.Delete(ctx, key); err == nil {
		t.Error("second Delete should fail")
	}
}

func TestLocalArchiveListEmpty(t *testing.T) {
	a := NewLocalArchive(t.TempDir()+"/missing", 0)

	entries, err := a.List(context.Background())
	if err != nil {
		t.Fatalf("List on missing directory failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List returned %d entries, want 0", len(entries))
	}
}

package physics

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/plexkit/plexus/pkg/graph"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// springOnlyConfig isolates the link force so convergence is easy to
// reason about in tests.
func springOnlyConfig() Config {
	cfg := DefaultConfig()
	cfg.ChargeStrength = 0
	cfg.CenterStrength = 0
	cfg.CollisionStrength = 0
	return cfg
}

func dist(a, b *graph.Node) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func TestTickIdleWithoutNodes(t *testing.T) {
	sim := New(DefaultConfig(), quietLogger())

	if sim.Active() {
		t.Fatal("expected empty simulation to be inactive")
	}
	for i := 0; i < 10; i++ {
		if sim.Tick() {
			t.Fatal("expected Tick to be a no-op with no nodes")
		}
	}
}

func TestLinkApproachesRestDistance(t *testing.T) {
	a := &graph.Node{ID: "a", X: -250, Y: 0}
	b := &graph.Node{ID: "b", X: 250, Y: 0}

	sim := New(springOnlyConfig(), quietLogger())
	sim.SetGraph([]*graph.Node{a, b}, []graph.Edge{{ID: "e", Source: "a", Target: "b"}})

	for i := 0; i < 300; i++ {
		sim.Tick()
	}

	d := dist(a, b)
	if d < 85 || d > 115 {
		t.Fatalf("expected link to settle near rest distance 100, got %.2f", d)
	}
}

func TestChargeRepelsUnlinkedNodes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CenterStrength = 0
	cfg.CollisionStrength = 0

	a := &graph.Node{ID: "a", X: -5, Y: 0}
	b := &graph.Node{ID: "b", X: 5, Y: 0}

	sim := New(cfg, quietLogger())
	sim.SetGraph([]*graph.Node{a, b}, nil)

	start := dist(a, b)
	for i := 0; i < 100; i++ {
		sim.Tick()
	}

	if d := dist(a, b); d <= start {
		t.Fatalf("expected charge to push nodes apart, distance went %.2f -> %.2f", start, d)
	}
}

func TestCollisionSeparatesOverlap(t *testing.T) {
	cfg := springOnlyConfig()
	cfg.CollisionStrength = 0.7

	a := &graph.Node{ID: "a", X: 10, Y: 10}
	b := &graph.Node{ID: "b", X: 11, Y: 10}

	sim := New(cfg, quietLogger())
	sim.SetGraph([]*graph.Node{a, b}, nil)

	for i := 0; i < 200; i++ {
		sim.Tick()
	}

	if d := dist(a, b); d < 45 {
		t.Fatalf("expected collision to enforce separation near %v, got %.2f", 2*cfg.CollisionRadius, d)
	}
}

func TestPinnedNodeStaysFixed(t *testing.T) {
	a := &graph.Node{ID: "a", X: 0, Y: 0}
	b := &graph.Node{ID: "b", X: 300, Y: 40}
	a.Pin(-20, 30)

	sim := New(DefaultConfig(), quietLogger())
	sim.SetGraph([]*graph.Node{a, b}, []graph.Edge{{ID: "e", Source: "a", Target: "b"}})

	for i := 0; i < 150; i++ {
		sim.Tick()
	}

	if a.X != -20 || a.Y != 30 {
		t.Fatalf("pinned node moved to (%.2f, %.2f)", a.X, a.Y)
	}
	if a.VX != 0 || a.VY != 0 {
		t.Fatalf("pinned node kept velocity (%.2f, %.2f)", a.VX, a.VY)
	}
	if b.X == 300 && b.Y == 40 {
		t.Fatal("free neighbor never moved")
	}
}

func TestStructuralChangeReheats(t *testing.T) {
	a := &graph.Node{ID: "a", X: 1, Y: 1}
	b := &graph.Node{ID: "b", X: 2, Y: 2}

	sim := New(DefaultConfig(), quietLogger())
	sim.SetGraph([]*graph.Node{a, b}, []graph.Edge{{ID: "e", Source: "a", Target: "b"}})

	sim.SetAlphaTarget(0)
	for i := 0; i < 300; i++ {
		sim.Tick()
	}
	cooled := sim.Alpha()
	if cooled >= 0.2 {
		t.Fatalf("expected alpha to cool below reheat floor, got %.4f", cooled)
	}

	// Re-registering the same structure must not reheat.
	sim.SetGraph([]*graph.Node{a, b}, []graph.Edge{{ID: "e", Source: "a", Target: "b"}})
	if sim.Alpha() != cooled {
		t.Fatalf("identical registration changed alpha from %.4f to %.4f", cooled, sim.Alpha())
	}

	c := &graph.Node{ID: "c", X: 3, Y: 3}
	sim.SetGraph([]*graph.Node{a, b, c}, []graph.Edge{{ID: "e", Source: "a", Target: "b"}})
	if sim.Alpha() < 0.2 {
		t.Fatalf("expected reheat to 0.2 after adding a node, got %.4f", sim.Alpha())
	}
}

func TestSetGraphRejectsUnresolvedLinks(t *testing.T) {
	a := &graph.Node{ID: "a", X: 1, Y: 1}
	b := &graph.Node{ID: "b", X: 2, Y: 2}

	edges := []graph.Edge{
		{ID: "good", Source: "a", Target: "b"},
		{ID: "no-src", Source: "ghost", Target: "b"},
		{ID: "no-dst", Source: "a", Target: "ghost"},
		{ID: "loop", Source: "a", Target: "a"},
	}

	sim := New(DefaultConfig(), quietLogger())
	sim.SetGraph([]*graph.Node{a, b}, edges)

	links := sim.Links()
	if len(links) != 1 {
		t.Fatalf("expected 1 resolved link, got %d", len(links))
	}
	if links[0].Source != a || links[0].Target != b {
		t.Fatal("resolved link has wrong endpoints")
	}
}

func TestSetGraphSeedsOnlyUnplacedNodes(t *testing.T) {
	sim := New(DefaultConfig(), quietLogger())
	sim.SetViewport(200, 100)

	placed := &graph.Node{ID: "old", X: 42, Y: -7}
	fresh := &graph.Node{ID: "new"}
	sim.SetGraph([]*graph.Node{placed, fresh}, nil)

	if placed.X != 42 || placed.Y != -7 {
		t.Fatalf("existing position was reset to (%.2f, %.2f)", placed.X, placed.Y)
	}
	if fresh.X == 0 && fresh.Y == 0 {
		t.Fatal("new node was not seeded")
	}
	if math.Abs(fresh.X-100) > 50 || math.Abs(fresh.Y-50) > 50 {
		t.Fatalf("new node seeded far from viewport center: (%.2f, %.2f)", fresh.X, fresh.Y)
	}
}

func TestInteractionTargetsDragAlpha(t *testing.T) {
	cfg := DefaultConfig()
	a := &graph.Node{ID: "a", X: 1, Y: 1}

	sim := New(cfg, quietLogger())
	sim.SetGraph([]*graph.Node{a}, nil)

	sim.StartInteraction()
	if sim.AlphaTarget() != cfg.DragAlphaTarget {
		t.Fatalf("expected drag alpha target %.2f, got %.2f", cfg.DragAlphaTarget, sim.AlphaTarget())
	}
	if sim.Alpha() < cfg.ReheatAlpha {
		t.Fatalf("expected interaction to reheat, alpha %.4f", sim.Alpha())
	}

	sim.EndInteraction()
	if sim.AlphaTarget() != cfg.AlphaTarget {
		t.Fatalf("expected resting alpha target %.2f, got %.2f", cfg.AlphaTarget, sim.AlphaTarget())
	}
}

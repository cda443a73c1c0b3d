package physics

import (
	"math"
	"testing"

	"github.com/plexkit/plexus/pkg/graph"
)

func TestCenterForcePullsCentroid(t *testing.T) {
	nodes := []*graph.Node{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 200, Y: 100},
		{ID: "c", X: 150, Y: 160},
	}

	f := NewCenterForce(0, 0, 0.1)
	f.Initialize(nodes)
	f.Apply(1)

	var cx, cy float64
	for _, n := range nodes {
		cx += n.X
		cy += n.Y
	}
	cx /= 3
	cy /= 3

	// One application moves the centroid 10% of the way to the target.
	if math.Abs(cx-135) > 1e-9 || math.Abs(cy-108) > 1e-9 {
		t.Fatalf("centroid at (%.4f, %.4f), want (135, 108)", cx, cy)
	}
}

func TestCenterForcePreservesShape(t *testing.T) {
	a := &graph.Node{ID: "a", X: 100, Y: 100}
	b := &graph.Node{ID: "b", X: 160, Y: 180}
	before := dist(a, b)

	f := NewCenterForce(0, 0, 0.5)
	f.Initialize([]*graph.Node{a, b})
	f.Apply(1)

	if after := dist(a, b); math.Abs(after-before) > 1e-9 {
		t.Fatalf("centering changed pairwise distance %.4f -> %.4f", before, after)
	}
}

func TestChargeCutoffSkipsDistantPairs(t *testing.T) {
	a := &graph.Node{ID: "a", X: 0, Y: 0}
	b := &graph.Node{ID: "b", X: 1000, Y: 0}

	f := NewChargeForce(-400, 500)
	f.Initialize([]*graph.Node{a, b})
	f.Apply(1)

	if a.VX != 0 || a.VY != 0 || b.VX != 0 || b.VY != 0 {
		t.Fatal("expected no interaction beyond the cutoff distance")
	}
}

func TestLinkForceBiasProtectsHubs(t *testing.T) {
	hub := &graph.Node{ID: "hub", X: 0, Y: 0}
	leafA := &graph.Node{ID: "la", X: 300, Y: 0}
	leafB := &graph.Node{ID: "lb", X: -300, Y: 0}
	leafC := &graph.Node{ID: "lc", X: 0, Y: 300}

	nodes := []*graph.Node{hub, leafA, leafB, leafC}
	links := []Link{
		{Source: hub, Target: leafA},
		{Source: hub, Target: leafB},
		{Source: hub, Target: leafC},
	}

	f := NewLinkForce(100, 0.6)
	f.SetLinks(links)
	f.Initialize(nodes)
	f.Apply(1)

	hubSpeed := math.Sqrt(hub.VX*hub.VX + hub.VY*hub.VY)
	leafSpeed := math.Sqrt(leafA.VX*leafA.VX + leafA.VY*leafA.VY)
	if hubSpeed >= leafSpeed {
		t.Fatalf("expected degree bias to move leaves more than the hub, hub %.4f leaf %.4f", hubSpeed, leafSpeed)
	}
}

func TestCollideIgnoresSeparatedNodes(t *testing.T) {
	a := &graph.Node{ID: "a", X: 0, Y: 0}
	b := &graph.Node{ID: "b", X: 100, Y: 0}

	f := NewCollideForce(25, 0.7)
	f.Initialize([]*graph.Node{a, b})
	f.Apply(1)

	if a.VX != 0 || b.VX != 0 {
		t.Fatal("expected no collision response beyond the exclusion radius")
	}
}

package camera

import (
	"math"
	"testing"
	"time"

	"github.com/plexkit/plexus/pkg/graph"
)

func testCamera() *Camera {
	c := New(DefaultConfig())
	c.SetViewport(800, 600)
	return c
}

func TestScreenWorldRoundTrip(t *testing.T) {
	c := testCamera()
	c.PanBy(37, -12)
	c.ZoomBy(1.7, 100, 200)

	wx, wy := c.ScreenToWorld(250, 310)
	sx, sy := c.WorldToScreen(wx, wy)

	if math.Abs(sx-250) > 1e-9 || math.Abs(sy-310) > 1e-9 {
		t.Fatalf("round trip drifted to (%.6f, %.6f)", sx, sy)
	}
}

func TestZoomClampsToExtent(t *testing.T) {
	c := testCamera()

	for i := 0; i < 50; i++ {
		c.ZoomBy(2, 400, 300)
	}
	if k := c.Transform().K; k != DefaultConfig().ScaleMax {
		t.Fatalf("expected scale clamped to %.1f, got %.4f", DefaultConfig().ScaleMax, k)
	}

	for i := 0; i < 50; i++ {
		c.ZoomBy(0.5, 400, 300)
	}
	if k := c.Transform().K; k != DefaultConfig().ScaleMin {
		t.Fatalf("expected scale clamped to %.1f, got %.4f", DefaultConfig().ScaleMin, k)
	}
}

func TestZoomKeepsAnchorStationary(t *testing.T) {
	c := testCamera()
	c.PanBy(50, 80)

	const ax, ay = 320, 240
	beforeX, beforeY := c.ScreenToWorld(ax, ay)
	c.ZoomBy(1.5, ax, ay)
	afterX, afterY := c.ScreenToWorld(ax, ay)

	if math.Abs(afterX-beforeX) > 1e-9 || math.Abs(afterY-beforeY) > 1e-9 {
		t.Fatalf("anchor world point moved (%.6f, %.6f) -> (%.6f, %.6f)",
			beforeX, beforeY, afterX, afterY)
	}
}

func TestFitToScreenEmptyIsNoop(t *testing.T) {
	c := testCamera()
	before := c.Transform()

	c.FitToScreen(nil, time.Now())

	if c.Animating() {
		t.Fatal("fit with no nodes started an animation")
	}
	if c.Transform() != before {
		t.Fatal("fit with no nodes changed the transform")
	}
}

func TestFitToScreenShowsAllNodes(t *testing.T) {
	c := testCamera()
	nodes := []*graph.Node{
		{ID: "a", X: -500, Y: -200},
		{ID: "b", X: 900, Y: 100},
		{ID: "c", X: 200, Y: 700},
	}

	start := time.Now()
	c.FitToScreen(nodes, start)
	if !c.Animating() {
		t.Fatal("expected fit to start an animation")
	}
	c.Step(start.Add(time.Second))

	for _, n := range nodes {
		sx, sy := c.WorldToScreen(n.X, n.Y)
		if sx < 0 || sx > 800 || sy < 0 || sy > 600 {
			t.Fatalf("node %s off screen at (%.1f, %.1f)", n.ID, sx, sy)
		}
	}
}

func TestFitToScreenSingleNodeCentersIt(t *testing.T) {
	c := testCamera()
	n := &graph.Node{ID: "solo", X: 123, Y: -45}

	start := time.Now()
	c.FitToScreen([]*graph.Node{n}, start)
	c.Step(start.Add(time.Second))

	sx, sy := c.WorldToScreen(n.X, n.Y)
	if math.Abs(sx-400) > 1e-6 || math.Abs(sy-300) > 1e-6 {
		t.Fatalf("single node not centered, at (%.2f, %.2f)", sx, sy)
	}
}

func TestCenterOnNodeReportsFocusOnce(t *testing.T) {
	c := testCamera()
	n := &graph.Node{ID: "target", X: 60, Y: 90}

	start := time.Now()
	c.CenterOnNode(n, 1.5, start)

	if got := c.Step(start.Add(100 * time.Millisecond)); got != "" {
		t.Fatalf("focus reported before animation finished: %q", got)
	}
	if got := c.Step(start.Add(time.Second)); got != "target" {
		t.Fatalf("expected focus %q on completion, got %q", "target", got)
	}
	if got := c.Step(start.Add(2 * time.Second)); got != "" {
		t.Fatalf("focus reported twice: %q", got)
	}

	sx, sy := c.WorldToScreen(n.X, n.Y)
	if math.Abs(sx-400) > 1e-6 || math.Abs(sy-300) > 1e-6 {
		t.Fatalf("node not centered, at (%.2f, %.2f)", sx, sy)
	}
	if k := c.Transform().K; math.Abs(k-1.5) > 1e-9 {
		t.Fatalf("expected focus scale 1.5, got %.4f", k)
	}
}

func TestManualGestureCancelsAnimation(t *testing.T) {
	c := testCamera()
	n := &graph.Node{ID: "target", X: 60, Y: 90}

	start := time.Now()
	c.CenterOnNode(n, 0, start)
	c.Step(start.Add(100 * time.Millisecond))
	c.PanBy(5, 5)

	if c.Animating() {
		t.Fatal("pan did not cancel the animation")
	}
	if got := c.Step(start.Add(time.Second)); got != "" {
		t.Fatalf("cancelled animation still reported focus %q", got)
	}
}

func TestAnimationEasesBetweenEndpoints(t *testing.T) {
	c := testCamera()
	from := c.Transform()
	nodes := []*graph.Node{{ID: "a", X: 1000, Y: 1000}, {ID: "b", X: 2000, Y: 1600}}

	start := time.Now()
	c.FitToScreen(nodes, start)
	c.Step(start.Add(375 * time.Millisecond))
	mid := c.Transform()

	if mid == from {
		t.Fatal("transform unchanged at animation midpoint")
	}
	c.Step(start.Add(time.Second))
	if c.Transform() == mid {
		t.Fatal("transform unchanged between midpoint and completion")
	}
	if c.Animating() {
		t.Fatal("animation still active after completion")
	}
}

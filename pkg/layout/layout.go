// Package layout positions a graph document without a canvas: it runs
// the force simulation to rest and returns the settled snapshot, for
// one-shot use from the command line.
package layout

import (
	"log/slog"
	"time"

	"github.com/plexkit/plexus/pkg/graph"
	"github.com/plexkit/plexus/pkg/physics"
)

// Options tunes a headless layout run. Zero values fall back to the
// interactive defaults, except the resting alpha target, which is forced
// to zero so the run actually terminates.
type Options struct {
	Physics  physics.Config
	Width    float64
	Height   float64
	MaxTicks int
	Logger   *slog.Logger
}

// Result reports how a layout run went.
type Result struct {
	Ticks   int
	Alpha   float64
	Settled bool
	Elapsed time.Duration
	Nodes   int
	Links   int
}

// Run anneals the snapshot's layout until alpha cools below its floor or
// MaxTicks is reached, and returns a new snapshot with the final
// positions. Pinned nodes keep their pinned position; the input snapshot
// is not modified.
func Run(snap graph.Snapshot, opts Options) (graph.Snapshot, Result) {
	if opts.Physics == (physics.Config{}) {
		opts.Physics = physics.DefaultConfig()
	}
	// A resting target above the idle floor would keep the loop warm
	// forever.
	opts.Physics.AlphaTarget = 0
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 1000
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = 1000
	}

	sim := physics.New(opts.Physics, opts.Logger)
	sim.SetViewport(opts.Width, opts.Height)

	nodes := make([]*graph.Node, len(snap.Nodes))
	for i := range snap.Nodes {
		n := snap.Nodes[i] // copy, the simulation mutates its nodes
		nodes[i] = &n
	}
	sim.SetGraph(nodes, snap.Edges)

	start := time.Now()
	ticks := 0
	for ticks < opts.MaxTicks && sim.Tick() {
		ticks++
	}

	out := graph.Snapshot{
		Nodes: make([]graph.Node, len(nodes)),
		Edges: append([]graph.Edge(nil), snap.Edges...),
	}
	for i, n := range nodes {
		out.Nodes[i] = *n
		out.Nodes[i].VX, out.Nodes[i].VY = 0, 0
		if n.FX != nil {
			fx := *n.FX
			out.Nodes[i].FX = &fx
		}
		if n.FY != nil {
			fy := *n.FY
			out.Nodes[i].FY = &fy
		}
	}

	return out, Result{
		Ticks:   ticks,
		Alpha:   sim.Alpha(),
		Settled: !sim.Active(),
		Elapsed: time.Since(start),
		Nodes:   len(nodes),
		Links:   len(sim.Links()),
	}
}

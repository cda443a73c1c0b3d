// Package physics implements a force-directed layout simulation for
// node-link graphs. Four composable forces (link springs, many-body
// charge, centering, collision) accumulate into per-node velocities each
// tick, damped by a global annealing factor (alpha) that decays toward a
// small resting target so a settled layout stays gently live.
//
// The simulation is not safe for concurrent use. It is designed to be
// driven from a single event loop that owns the node objects.
package physics

import (
	"log/slog"
	"math"

	"github.com/plexkit/plexus/pkg/graph"
)

// Config holds the simulation tunables. Zero values are not meaningful;
// start from DefaultConfig and override fields as needed.
type Config struct {
	// ChargeStrength is the many-body interaction strength. Negative
	// values repel, spreading unconnected clusters apart.
	ChargeStrength float64
	// ChargeDistanceMax caps the interaction range of the charge force.
	// Zero disables the cap.
	ChargeDistanceMax float64
	// LinkDistance is the rest length of link springs.
	LinkDistance float64
	// LinkStrength is the base spring strength before degree scaling.
	LinkStrength float64
	// CollisionRadius is the per-node exclusion radius.
	CollisionRadius float64
	// CollisionStrength scales how hard overlaps are pushed apart.
	CollisionStrength float64
	// CenterStrength is the fraction of the centroid offset corrected
	// per tick.
	CenterStrength float64
	// AlphaDecay controls how quickly alpha converges on AlphaTarget.
	AlphaDecay float64
	// AlphaMin is the threshold below which the simulation goes idle.
	AlphaMin float64
	// AlphaTarget is the resting alpha. A small positive value keeps a
	// settled layout responsive without visible motion.
	AlphaTarget float64
	// VelocityDecay is the per-tick drag coefficient applied to node
	// velocities before integration.
	VelocityDecay float64
	// ReheatAlpha is the alpha floor restored when the structure of the
	// graph changes.
	ReheatAlpha float64
	// DragAlphaTarget is the temporary alpha target used while the user
	// drags a node, so the rest of the layout flows around it.
	DragAlphaTarget float64
}

// DefaultConfig returns the standard tuning for interactive canvases.
func DefaultConfig() Config {
	return Config{
		ChargeStrength:    -400,
		ChargeDistanceMax: 500,
		LinkDistance:      100,
		LinkStrength:      0.6,
		CollisionRadius:   25,
		CollisionStrength: 0.7,
		CenterStrength:    0.1,
		AlphaDecay:        0.015,
		AlphaMin:          0.001,
		AlphaTarget:       0.05,
		VelocityDecay:     0.4,
		ReheatAlpha:       0.2,
		DragAlphaTarget:   0.3,
	}
}

// d3-style phyllotaxis constants for seeding nodes that arrive without a
// position. The spiral keeps fresh nodes from stacking on one point.
const initialRadius = 10.0

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Simulation owns the annealing loop. Node objects are shared with the
// caller: forces write velocities into them and Tick integrates those
// into positions, honoring FX/FY pins.
type Simulation struct {
	cfg    Config
	logger *slog.Logger

	nodes []*graph.Node
	links []Link

	linkForce    *LinkForce
	chargeForce  *ChargeForce
	centerForce  *CenterForce
	collideForce *CollideForce
	forces       []Force

	alpha       float64
	alphaTarget float64

	width, height float64

	prevNodes map[string]struct{}
	prevEdges map[string]struct{}
	placed    int
}

// New creates a simulation with the given tuning. A nil logger falls back
// to slog.Default.
func New(cfg Config, logger *slog.Logger) *Simulation {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Simulation{
		cfg:         cfg,
		logger:      logger,
		alpha:       1,
		alphaTarget: cfg.AlphaTarget,
		prevNodes:   map[string]struct{}{},
		prevEdges:   map[string]struct{}{},
	}
	s.linkForce = NewLinkForce(cfg.LinkDistance, cfg.LinkStrength)
	s.chargeForce = NewChargeForce(cfg.ChargeStrength, cfg.ChargeDistanceMax)
	s.centerForce = NewCenterForce(0, 0, cfg.CenterStrength)
	s.collideForce = NewCollideForce(cfg.CollisionRadius, cfg.CollisionStrength)
	s.forces = []Force{s.linkForce, s.chargeForce, s.centerForce, s.collideForce}
	return s
}

// SetViewport re-aims the centering force at the middle of a w x h world
// region. Positions and velocities are untouched, so a resize only drifts
// the layout toward the new center instead of resetting it.
func (s *Simulation) SetViewport(w, h float64) {
	s.width, s.height = w, h
	s.centerForce.SetTarget(w/2, h/2)
}

// SetGraph replaces the registered node and edge sets. Edges whose
// endpoints are missing from the node set are rejected before any force
// sees them. Nodes without a position are seeded on a spiral around the
// viewport center; everything else keeps its position and velocity. If
// the structure actually changed, the simulation reheats.
func (s *Simulation) SetGraph(nodes []*graph.Node, edges []graph.Edge) {
	nodeByID := make(map[string]*graph.Node, len(nodes))
	nodeKeys := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		nodeByID[n.ID] = n
		nodeKeys[n.ID] = struct{}{}
	}

	links := make([]Link, 0, len(edges))
	edgeKeys := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		edgeKeys[e.ID+"\x00"+e.Source+"\x00"+e.Target] = struct{}{}

		src, ok := nodeByID[e.Source]
		if !ok {
			s.logger.Debug("rejecting link with unresolved source", "edge", e.ID, "source", e.Source)
			continue
		}
		dst, ok := nodeByID[e.Target]
		if !ok {
			s.logger.Debug("rejecting link with unresolved target", "edge", e.ID, "target", e.Target)
			continue
		}
		if src == dst {
			// A spring from a node to itself exerts no net force.
			continue
		}
		links = append(links, Link{Source: src, Target: dst})
	}

	structural := !sameKeys(s.prevNodes, nodeKeys) || !sameKeys(s.prevEdges, edgeKeys)
	s.prevNodes, s.prevEdges = nodeKeys, edgeKeys
	s.nodes = nodes
	s.links = links

	s.seedPositions()
	s.linkForce.SetLinks(links)
	for _, f := range s.forces {
		f.Initialize(nodes)
	}

	if structural {
		s.Reheat()
		s.logger.Debug("graph structure changed", "nodes", len(nodes), "links", len(links))
	}
	LayoutNodes.Set(float64(len(nodes)))
	LayoutLinks.Set(float64(len(links)))
}

func (s *Simulation) seedPositions() {
	cx, cy := s.width/2, s.height/2
	for _, n := range s.nodes {
		if n.Pinned() {
			n.X, n.Y = *n.FX, *n.FY
			continue
		}
		if n.X != 0 || n.Y != 0 {
			continue
		}
		r := initialRadius * math.Sqrt(0.5+float64(s.placed))
		a := float64(s.placed) * initialAngle
		n.X = cx + r*math.Cos(a)
		n.Y = cy + r*math.Sin(a)
		s.placed++
	}
}

// Tick advances the simulation one step: alpha moves toward its target,
// forces accumulate into velocities, and velocities integrate into
// positions with drag applied. Pinned nodes snap to their fixed point
// with zeroed velocity. Returns false when the simulation is idle and no
// work was done.
func (s *Simulation) Tick() bool {
	if !s.Active() {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	for _, f := range s.forces {
		f.Apply(s.alpha)
	}

	decay := 1 - s.cfg.VelocityDecay
	for _, n := range s.nodes {
		if n.Pinned() {
			n.X, n.Y = *n.FX, *n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= decay
		n.VY *= decay
		n.X += n.VX
		n.Y += n.VY
	}

	LayoutAlpha.Set(s.alpha)
	LayoutTicksTotal.Inc()
	return true
}

// Active reports whether ticks still do work: there are nodes, and either
// alpha has not cooled below AlphaMin or the target keeps it there.
func (s *Simulation) Active() bool {
	if len(s.nodes) == 0 {
		return false
	}
	return s.alpha >= s.cfg.AlphaMin || s.alphaTarget >= s.cfg.AlphaMin
}

// Settled reports whether alpha has converged on its resting target.
func (s *Simulation) Settled() bool {
	return math.Abs(s.alpha-s.cfg.AlphaTarget) < 0.01
}

// Reheat raises alpha to the configured reheat floor so a cooled layout
// starts moving again. Alpha already above the floor is left alone.
func (s *Simulation) Reheat() {
	if s.alpha < s.cfg.ReheatAlpha {
		s.alpha = s.cfg.ReheatAlpha
	}
	LayoutReheatsTotal.Inc()
}

// StartInteraction raises the alpha target for the duration of a drag so
// the layout keeps flowing around the dragged node.
func (s *Simulation) StartInteraction() {
	s.alphaTarget = s.cfg.DragAlphaTarget
	s.Reheat()
}

// EndInteraction restores the resting alpha target after a drag.
func (s *Simulation) EndInteraction() {
	s.alphaTarget = s.cfg.AlphaTarget
}

// Alpha returns the current annealing factor.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the current alpha target.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget overrides the alpha target directly.
func (s *Simulation) SetAlphaTarget(v float64) { s.alphaTarget = v }

// Nodes returns the live node set registered with the simulation.
func (s *Simulation) Nodes() []*graph.Node { return s.nodes }

// Links returns the resolved link set registered with the simulation.
func (s *Simulation) Links() []Link { return s.links }

func sameKeys(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

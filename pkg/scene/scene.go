// Package scene keeps the rendered primitive set in sync with the
// current graph snapshot. Each primitive kind (node circle, edge line,
// node label, edge label) lives in its own id-indexed map; applying a
// snapshot partitions every kind into entering, persisting and exiting
// primitives. Entering primitives grow in from a neutral state, exiting
// ones shrink back to it and are then dropped, and persisting ones take
// attribute updates without replaying their entrance.
//
// The scene also owns the live node objects shared with the layout
// simulation, so node identity (position, velocity, pin) survives
// snapshot replacement.
package scene

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/plexkit/plexus/pkg/graph"
	"github.com/plexkit/plexus/pkg/interaction"
)

// LayoutEngine is the slice of the physics simulation the scene drives:
// after every snapshot diff the current node and edge sets are
// re-registered with it.
type LayoutEngine interface {
	SetGraph(nodes []*graph.Node, edges []graph.Edge)
}

// Scene reconciles graph snapshots into retained primitives. Not safe
// for concurrent use; it belongs to the canvas event loop.
type Scene struct {
	cfg    Config
	logger *slog.Logger
	engine LayoutEngine
	state  *interaction.State

	nodes      map[string]*nodePrim
	edges      map[string]*edgePrim
	nodeLabels map[string]*labelPrim
	edgeLabels map[string]*labelPrim

	// nodeOrder and edgeOrder hold draw order, insertion first, so the
	// most recently added primitive draws topmost.
	nodeOrder []string
	edgeOrder []string

	liveEdges []graph.Edge
	lastStep  time.Time
}

// New creates an empty scene bound to a layout engine and the
// interaction state it styles from. A nil logger falls back to
// slog.Default.
func New(engine LayoutEngine, state *interaction.State, cfg Config, logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}
	if state == nil {
		state = interaction.NewState()
	}
	return &Scene{
		cfg:        cfg,
		logger:     logger,
		engine:     engine,
		state:      state,
		nodes:      map[string]*nodePrim{},
		edges:      map[string]*edgePrim{},
		nodeLabels: map[string]*labelPrim{},
		edgeLabels: map[string]*labelPrim{},
	}
}

// Apply reconciles the scene against a new snapshot. Matching ids keep
// their live node objects so position, velocity and pins carry forward;
// new ids enter, vanished ids exit, and an exiting primitive that
// reappears flips back to entering from its current animated state. The
// surviving node and edge sets are re-registered with the layout
// engine, and interaction state referring to removed entities is
// pruned.
func (s *Scene) Apply(snap graph.Snapshot, now time.Time) {
	seenNodes := make(map[string]struct{}, len(snap.Nodes))
	for _, sn := range snap.Nodes {
		if sn.ID == "" {
			s.logger.Warn("dropping node with empty id")
			continue
		}
		if _, dup := seenNodes[sn.ID]; dup {
			s.logger.Warn("dropping duplicate node id", "node", sn.ID)
			continue
		}
		seenNodes[sn.ID] = struct{}{}
		if p, ok := s.nodes[sn.ID]; ok {
			p.label = sn.Label
			p.typ = sn.Type
			if p.phase == PhaseExiting {
				p.phase = PhaseEntering
				p.goal = 1
			}
			continue
		}
		live := &graph.Node{
			ID: sn.ID, Label: sn.Label, Type: sn.Type,
			X: sn.X, Y: sn.Y, FX: sn.FX, FY: sn.FY,
		}
		s.nodes[sn.ID] = &nodePrim{
			id: sn.ID, node: live, label: sn.Label, typ: sn.Type,
			phase: PhaseEntering, goal: 1,
		}
		s.nodeOrder = append(s.nodeOrder, sn.ID)
	}
	for id, p := range s.nodes {
		if _, ok := seenNodes[id]; !ok && p.phase != PhaseExiting {
			p.phase = PhaseExiting
			p.goal = 0
		}
	}

	liveEdges := make([]graph.Edge, 0, len(snap.Edges))
	seenEdges := make(map[string]struct{}, len(snap.Edges))
	for _, se := range snap.Edges {
		if _, dup := seenEdges[se.ID]; dup {
			s.logger.Warn("dropping duplicate edge id", "edge", se.ID)
			continue
		}
		if _, ok := seenNodes[se.Source]; !ok {
			s.logger.Warn("dropping edge with unresolved endpoint",
				"edge", se.ID, "source", se.Source, "target", se.Target)
			continue
		}
		if _, ok := seenNodes[se.Target]; !ok {
			s.logger.Warn("dropping edge with unresolved endpoint",
				"edge", se.ID, "source", se.Source, "target", se.Target)
			continue
		}
		srcPrim := s.nodes[se.Source]
		dstPrim := s.nodes[se.Target]

		seenEdges[se.ID] = struct{}{}
		liveEdges = append(liveEdges, se)

		if p, ok := s.edges[se.ID]; ok {
			p.src, p.dst = srcPrim.node, dstPrim.node
			p.label = se.Label
			p.directed = se.Directed
			if p.phase == PhaseExiting {
				p.phase = PhaseEntering
				p.goal = 1
			}
			continue
		}
		s.edges[se.ID] = &edgePrim{
			id: se.ID, src: srcPrim.node, dst: dstPrim.node,
			label: se.Label, directed: se.Directed,
			phase: PhaseEntering, goal: 1,
		}
		s.edgeOrder = append(s.edgeOrder, se.ID)
	}
	for id, p := range s.edges {
		if _, ok := seenEdges[id]; !ok && p.phase != PhaseExiting {
			p.phase = PhaseExiting
			p.goal = 0
		}
	}

	s.applyNodeLabels(seenNodes)
	s.applyEdgeLabels(seenEdges)

	liveNodes := s.LiveNodes()
	s.liveEdges = liveEdges
	s.engine.SetGraph(liveNodes, liveEdges)

	s.state.Prune(s.HasNode, s.HasEdge)
	s.Reposition()
	s.Restyle()
}

func (s *Scene) applyNodeLabels(seenNodes map[string]struct{}) {
	for id := range seenNodes {
		np := s.nodes[id]
		if np.label == "" {
			continue
		}
		if p, ok := s.nodeLabels[id]; ok {
			p.text = np.label
			if p.phase == PhaseExiting {
				p.phase = PhaseEntering
				p.goal = 1
			}
			continue
		}
		s.nodeLabels[id] = &labelPrim{
			id: id, text: np.label, node: np.node,
			phase: PhaseEntering, goal: 1,
		}
	}
	for id, p := range s.nodeLabels {
		np, alive := s.nodes[id]
		if _, seen := seenNodes[id]; seen && alive && np.label != "" {
			continue
		}
		if p.phase != PhaseExiting {
			p.phase = PhaseExiting
			p.goal = 0
		}
	}
}

func (s *Scene) applyEdgeLabels(seenEdges map[string]struct{}) {
	for id := range seenEdges {
		ep := s.edges[id]
		if ep.label == "" {
			continue
		}
		if p, ok := s.edgeLabels[id]; ok {
			p.text = ep.label
			p.edge = ep
			if p.phase == PhaseExiting {
				p.phase = PhaseEntering
				p.goal = 1
			}
			continue
		}
		s.edgeLabels[id] = &labelPrim{
			id: id, text: ep.label, edge: ep,
			phase: PhaseEntering, goal: 1,
		}
	}
	for id, p := range s.edgeLabels {
		ep, alive := s.edges[id]
		if _, seen := seenEdges[id]; seen && alive && ep.label != "" {
			continue
		}
		if p.phase != PhaseExiting {
			p.phase = PhaseExiting
			p.goal = 0
		}
	}
}

// Step advances enter/exit animations to the given time and removes
// primitives whose exit has finished. Safe to call at any frame rate.
func (s *Scene) Step(now time.Time) {
	if s.lastStep.IsZero() {
		s.lastStep = now
		return
	}
	dt := now.Sub(s.lastStep)
	s.lastStep = now
	if dt <= 0 {
		return
	}
	delta := float64(dt) / float64(s.cfg.TransitionDuration)

	removedNodes := false
	for id, p := range s.nodes {
		p.progress = advance(p.progress, p.goal, delta)
		if p.phase == PhaseEntering && p.progress >= 1 {
			p.phase = PhaseAlive
		}
		if p.phase == PhaseExiting && p.progress <= 0 {
			delete(s.nodes, id)
			removedNodes = true
		}
		if p.pulseOn && now.Sub(p.pulseStart) >= s.cfg.PulseDuration {
			p.pulseOn = false
		}
	}
	if removedNodes {
		s.nodeOrder = retain(s.nodeOrder, func(id string) bool {
			_, ok := s.nodes[id]
			return ok
		})
	}

	removedEdges := false
	for id, p := range s.edges {
		p.progress = advance(p.progress, p.goal, delta)
		if p.phase == PhaseEntering && p.progress >= 1 {
			p.phase = PhaseAlive
		}
		if p.phase == PhaseExiting && p.progress <= 0 {
			delete(s.edges, id)
			removedEdges = true
		}
	}
	if removedEdges {
		s.edgeOrder = retain(s.edgeOrder, func(id string) bool {
			_, ok := s.edges[id]
			return ok
		})
	}

	stepLabels(s.nodeLabels, delta)
	stepLabels(s.edgeLabels, delta)
}

func stepLabels(labels map[string]*labelPrim, delta float64) {
	for id, p := range labels {
		p.progress = advance(p.progress, p.goal, delta)
		if p.phase == PhaseEntering && p.progress >= 1 {
			p.phase = PhaseAlive
		}
		if p.phase == PhaseExiting && p.progress <= 0 {
			delete(labels, id)
		}
	}
}

func advance(progress, goal, delta float64) float64 {
	if progress < goal {
		return math.Min(goal, progress+delta)
	}
	if progress > goal {
		return math.Max(goal, progress-delta)
	}
	return progress
}

func retain(order []string, keep func(string) bool) []string {
	out := order[:0]
	for _, id := range order {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}

// Reposition refreshes primitive geometry from live node coordinates:
// edges span their endpoint centers, edge labels sit at segment
// midpoints, node labels hang below node centers. Called after every
// simulation tick.
func (s *Scene) Reposition() {
	for _, p := range s.edges {
		p.x1, p.y1 = p.src.X, p.src.Y
		p.x2, p.y2 = p.dst.X, p.dst.Y
	}
	for _, p := range s.nodeLabels {
		p.x = p.node.X
		p.y = p.node.Y + s.cfg.NodeRadius + s.cfg.LabelGap
	}
	for _, p := range s.edgeLabels {
		p.x = (p.edge.x1 + p.edge.x2) / 2
		p.y = (p.edge.y1 + p.edge.y2) / 2
	}
}

// Restyle recomputes styling tiers from the interaction state without
// touching the enter/exit pipeline. Selected beats highlighted beats
// default for nodes; edges are either selected or not.
func (s *Scene) Restyle() {
	sel := s.state.Selection()

	for id, p := range s.nodes {
		tier := TierDefault
		if s.state.Highlighted(id) {
			tier = TierHighlighted
		}
		if sel.Kind == interaction.SelectionNode && sel.ID == id {
			tier = TierSelected
		}
		p.tier = tier
		if lp, ok := s.nodeLabels[id]; ok {
			lp.tier = tier
		}
	}

	for id, p := range s.edges {
		p.selected = sel.Kind == interaction.SelectionEdge && sel.ID == id
	}
}

// PulseNode starts the transient size pulse on a node, typically after
// the camera finished centering on it.
func (s *Scene) PulseNode(id string, now time.Time) {
	p, ok := s.nodes[id]
	if !ok || p.phase == PhaseExiting {
		return
	}
	p.pulseOn = true
	p.pulseStart = now
}

// Frame assembles the current draw lists in world coordinates.
func (s *Scene) Frame(now time.Time) Frame {
	f := Frame{
		Edges:      make([]RenderEdge, 0, len(s.edgeOrder)),
		Nodes:      make([]RenderNode, 0, len(s.nodeOrder)),
		EdgeLabels: make([]RenderLabel, 0, len(s.edgeLabels)),
		NodeLabels: make([]RenderLabel, 0, len(s.nodeLabels)),
	}

	for _, id := range s.edgeOrder {
		p, ok := s.edges[id]
		if !ok {
			continue
		}
		f.Edges = append(f.Edges, RenderEdge{
			ID: p.id,
			X1: p.x1, Y1: p.y1, X2: p.x2, Y2: p.y2,
			Directed: p.directed,
			Selected: p.selected,
			Opacity:  p.progress,
		})
	}

	for _, id := range s.nodeOrder {
		p, ok := s.nodes[id]
		if !ok {
			continue
		}
		f.Nodes = append(f.Nodes, RenderNode{
			ID:      p.id,
			Label:   p.label,
			Type:    p.typ,
			X:       p.node.X,
			Y:       p.node.Y,
			Radius:  s.nodeRadius(p, now),
			Opacity: p.progress,
			Tier:    p.tier,
		})
	}

	f.EdgeLabels = appendLabels(f.EdgeLabels, s.edgeLabels)
	f.NodeLabels = appendLabels(f.NodeLabels, s.nodeLabels)
	return f
}

func appendLabels(out []RenderLabel, labels map[string]*labelPrim) []RenderLabel {
	ids := make([]string, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := labels[id]
		out = append(out, RenderLabel{
			Owner:   p.id,
			Text:    p.text,
			X:       p.x,
			Y:       p.y,
			Opacity: p.progress,
			Tier:    p.tier,
		})
	}
	return out
}

func (s *Scene) nodeRadius(p *nodePrim, now time.Time) float64 {
	r := s.cfg.NodeRadius * p.progress
	if p.pulseOn {
		elapsed := now.Sub(p.pulseStart)
		if elapsed < s.cfg.PulseDuration {
			f := float64(elapsed) / float64(s.cfg.PulseDuration)
			r *= 1 + (s.cfg.PulseScale-1)*math.Sin(math.Pi*f)
		}
	}
	return r
}

// HasNode reports whether the node is part of the current graph, not
// merely fading out.
func (s *Scene) HasNode(id string) bool {
	p, ok := s.nodes[id]
	return ok && p.phase != PhaseExiting
}

// HasEdge reports whether the edge is part of the current graph.
func (s *Scene) HasEdge(id string) bool {
	p, ok := s.edges[id]
	return ok && p.phase != PhaseExiting
}

// NodeByID returns the live node object for a current node id.
func (s *Scene) NodeByID(id string) (*graph.Node, bool) {
	p, ok := s.nodes[id]
	if !ok || p.phase == PhaseExiting {
		return nil, false
	}
	return p.node, true
}

// NodeLabelOf returns the display label for a current node id, falling
// back to the id itself when the node has no label.
func (s *Scene) NodeLabelOf(id string) string {
	p, ok := s.nodes[id]
	if !ok || p.label == "" {
		return id
	}
	return p.label
}

// LiveNodes returns the current (non-exiting) live node objects in draw
// order, bottom first.
func (s *Scene) LiveNodes() []*graph.Node {
	out := make([]*graph.Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		p, ok := s.nodes[id]
		if !ok || p.phase == PhaseExiting {
			continue
		}
		out = append(out, p.node)
	}
	return out
}

// LiveEdges returns the current resolved edge set as registered with
// the layout engine.
func (s *Scene) LiveEdges() []graph.Edge {
	out := make([]graph.Edge, len(s.liveEdges))
	copy(out, s.liveEdges)
	return out
}

package scene

import (
	"time"

	"github.com/plexkit/plexus/pkg/graph"
)

// StyleTier is the visual emphasis of a node, highest tier wins.
type StyleTier int

const (
	TierDefault StyleTier = iota
	TierHighlighted
	TierSelected
)

// Phase is where a primitive sits in its enter/exit lifecycle.
type Phase int

const (
	PhaseEntering Phase = iota
	PhaseAlive
	PhaseExiting
)

// Config holds the scene tunables. Start from DefaultConfig.
type Config struct {
	// NodeRadius is the world-unit radius of a fully entered node.
	NodeRadius float64
	// LabelGap is the world-unit gap between a node's bottom edge and
	// its label.
	LabelGap float64
	// TransitionDuration is how long enter and exit animations run.
	TransitionDuration time.Duration
	// PulseDuration and PulseScale shape the transient size pulse shown
	// on a node the camera navigated to.
	PulseDuration time.Duration
	PulseScale    float64
}

// DefaultConfig returns the standard scene tuning.
func DefaultConfig() Config {
	return Config{
		NodeRadius:         25,
		LabelGap:           8,
		TransitionDuration: 300 * time.Millisecond,
		PulseDuration:      600 * time.Millisecond,
		PulseScale:         1.5,
	}
}

// nodePrim is the retained primitive for one node circle. The live node
// object inside it is shared with the layout simulation; the primitive
// adds animation and styling state on top.
type nodePrim struct {
	id    string
	node  *graph.Node
	label string
	typ   string
	tier  StyleTier

	phase    Phase
	progress float64
	goal     float64

	pulseOn    bool
	pulseStart time.Time
}

// edgePrim is the retained primitive for one edge line. Endpoint
// pointers stay valid even after the endpoints leave the graph, so a
// fading edge keeps its last geometry.
type edgePrim struct {
	id       string
	src, dst *graph.Node
	label    string
	directed bool
	selected bool

	x1, y1, x2, y2 float64

	phase    Phase
	progress float64
	goal     float64
}

// labelPrim is the retained primitive for a node or edge label. Exactly
// one of node/edge is set, and positions derive from it on reposition.
type labelPrim struct {
	id   string
	text string
	x, y float64
	tier StyleTier

	node *graph.Node
	edge *edgePrim

	phase    Phase
	progress float64
	goal     float64
}

// RenderNode is one node circle ready to draw, in world coordinates.
type RenderNode struct {
	ID      string
	Label   string
	Type    string
	X, Y    float64
	Radius  float64
	Opacity float64
	Tier    StyleTier
}

// RenderEdge is one edge segment ready to draw, in world coordinates.
type RenderEdge struct {
	ID             string
	X1, Y1, X2, Y2 float64
	Directed       bool
	Selected       bool
	Opacity        float64
}

// RenderLabel is one piece of text ready to draw, in world coordinates.
// Owner is the id of the node or edge the label belongs to, so painters
// that snap labels to their owner can resolve it.
type RenderLabel struct {
	Owner   string
	Text    string
	X, Y    float64
	Opacity float64
	Tier    StyleTier
}

// Frame is everything the painter needs for one redraw: edges under
// nodes, labels on top, in stable draw order.
type Frame struct {
	Edges      []RenderEdge
	Nodes      []RenderNode
	EdgeLabels []RenderLabel
	NodeLabels []RenderLabel
}

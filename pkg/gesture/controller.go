// Package gesture turns pointer input into domain events: select, drag,
// create, connect, unlink. A small state machine (idle, dragging a node,
// context menu open) owns the semantics; raw pan and zoom stay outside
// it, applied straight to the camera by the host.
package gesture

import (
	"log/slog"
	"math"
	"time"

	"github.com/plexkit/plexus/pkg/graph"
	"github.com/plexkit/plexus/pkg/interaction"
)

// View is the camera slice the controller needs for hit-testing and for
// converting clicks into world coordinates.
type View interface {
	ScreenToWorld(sx, sy float64) (float64, float64)
}

// Layout is the simulation slice the controller drives during a drag.
type Layout interface {
	StartInteraction()
	EndInteraction()
}

// SceneView is the scene slice the controller hit-tests against. All
// positions are physics-engine truth, not externally cached coordinates.
type SceneView interface {
	LiveNodes() []*graph.Node
	LiveEdges() []graph.Edge
	NodeByID(id string) (*graph.Node, bool)
	HasNode(id string) bool
	HasEdge(id string) bool
	NodeLabelOf(id string) string
}

// Navigator performs the deferred center-on-node after a click selects a
// node.
type Navigator interface {
	CenterOnNode(nodeID string)
}

// Config holds the gesture tunables. Start from DefaultConfig.
type Config struct {
	// NodeHitRadius is the world-unit radius a pointer must land within
	// to hit a node.
	NodeHitRadius float64
	// EdgeHitTolerance is the world-unit distance a pointer may be from
	// an edge segment and still hit it.
	EdgeHitTolerance float64
	// DragThreshold is the screen-unit movement that turns a press into
	// a drag instead of a click.
	DragThreshold float64
	// FocusDelay is how long after a node click the camera starts
	// centering on it.
	FocusDelay time.Duration
}

// DefaultConfig returns the standard gesture tuning.
func DefaultConfig() Config {
	return Config{
		NodeHitRadius:    25,
		EdgeHitTolerance: 10,
		DragThreshold:    1,
		FocusDelay:       300 * time.Millisecond,
	}
}

type stateKind int

const (
	stateIdle stateKind = iota
	stateDragging
	stateMenuOpen
)

// Deps collects the collaborators the controller talks to.
type Deps struct {
	View      View
	Scene     SceneView
	Layout    Layout
	Navigator Navigator
	State     *interaction.State
	Sink      EventSink
}

// Controller is the gesture state machine. Not safe for concurrent use.
type Controller struct {
	cfg    Config
	logger *slog.Logger

	view   View
	scene  SceneView
	layout Layout
	nav    Navigator
	state  *interaction.State
	sink   EventSink

	kind       stateKind
	dragNodeID string
	dragStartX float64
	dragStartY float64
	dragMoved  bool
	preFX      *float64
	preFY      *float64

	pendingFocusID string
	pendingFocusAt time.Time
}

// New creates a controller. Nil sink and navigator are replaced with
// no-ops; view, scene, layout and state are required.
func New(deps Deps, cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Sink == nil {
		deps.Sink = NopSink{}
	}
	if deps.Navigator == nil {
		deps.Navigator = nopNavigator{}
	}
	return &Controller{
		cfg:    cfg,
		logger: logger,
		view:   deps.View,
		scene:  deps.Scene,
		layout: deps.Layout,
		nav:    deps.Navigator,
		state:  deps.State,
		sink:   deps.Sink,
	}
}

type nopNavigator struct{}

func (nopNavigator) CenterOnNode(string) {}

// Dragging reports whether a node drag is in progress.
func (c *Controller) Dragging() bool { return c.kind == stateDragging }

// MenuOpen reports whether the context menu owns input.
func (c *Controller) MenuOpen() bool { return c.kind == stateMenuOpen }

// PointerDown begins a node drag when the press lands on a node and
// reports whether it captured the press. A press anywhere else is left
// to the host's pan handling; if it turns out to be a stationary click,
// the host feeds it back through Click.
func (c *Controller) PointerDown(sx, sy float64) bool {
	if c.kind != stateIdle {
		return false
	}
	n := c.hitNode(sx, sy)
	if n == nil {
		return false
	}

	c.kind = stateDragging
	c.dragNodeID = n.ID
	c.dragStartX, c.dragStartY = sx, sy
	c.dragMoved = false
	c.preFX, c.preFY = n.FX, n.FY

	n.Pin(n.X, n.Y)
	c.layout.StartInteraction()
	return true
}

// PointerMove drags the captured node to the pointer's world position.
func (c *Controller) PointerMove(sx, sy float64) {
	if c.kind != stateDragging {
		return
	}
	n, ok := c.scene.NodeByID(c.dragNodeID)
	if !ok {
		// The dragged node vanished under the pointer.
		c.kind = stateIdle
		c.layout.EndInteraction()
		return
	}

	if !c.dragMoved {
		if math.Abs(sx-c.dragStartX) < c.cfg.DragThreshold && math.Abs(sy-c.dragStartY) < c.cfg.DragThreshold {
			return
		}
		c.dragMoved = true
	}

	wx, wy := c.view.ScreenToWorld(sx, sy)
	n.Pin(wx, wy)
	n.X, n.Y = wx, wy
}

// PointerUp ends the press. A real drag keeps the node pinned where it
// was dropped and reports the final position; a stationary press is a
// click, which restores the node's previous pin state, selects it and
// schedules the deferred centering.
func (c *Controller) PointerUp(sx, sy float64, now time.Time) {
	if c.kind != stateDragging {
		return
	}
	c.kind = stateIdle
	c.layout.EndInteraction()

	n, ok := c.scene.NodeByID(c.dragNodeID)
	if !ok {
		return
	}

	if !c.dragMoved {
		n.FX, n.FY = c.preFX, c.preFY
		c.state.SelectNode(n.ID)
		c.sink.OnNodeSelected(n.ID)
		c.pendingFocusID = n.ID
		c.pendingFocusAt = now.Add(c.cfg.FocusDelay)
		return
	}

	c.sink.OnNodeMoved(n.ID, n.X, n.Y)
}

// Click handles a stationary press-release that did not capture a node:
// selecting an edge, or clearing the selection and reporting a
// background click in world coordinates.
func (c *Controller) Click(sx, sy float64, now time.Time) {
	if c.kind != stateIdle {
		return
	}

	if n := c.hitNode(sx, sy); n != nil {
		c.state.SelectNode(n.ID)
		c.sink.OnNodeSelected(n.ID)
		c.pendingFocusID = n.ID
		c.pendingFocusAt = now.Add(c.cfg.FocusDelay)
		return
	}

	if e, ok := c.hitEdge(sx, sy); ok {
		c.state.SelectEdge(e.ID)
		c.sink.OnEdgeSelected(e.ID)
		return
	}

	c.state.ClearSelection()
	wx, wy := c.view.ScreenToWorld(sx, sy)
	c.sink.OnBackgroundClicked(wx, wy)
}

// RightClick opens the context menu on a node, partitioning every other
// node into connected (with the joining edge and its direction) and
// unconnected edge-creation candidates. Self-loops appear in neither
// list. A right-click anywhere else closes any open menu.
func (c *Controller) RightClick(sx, sy float64) {
	if c.kind == stateDragging {
		return
	}
	if c.kind == stateMenuOpen {
		c.closeMenu()
	}

	n := c.hitNode(sx, sy)
	if n == nil {
		return
	}

	connected := make([]interaction.ConnectedEntry, 0)
	connectedIDs := map[string]struct{}{}
	for _, e := range c.scene.LiveEdges() {
		if e.Loop() || !e.Touches(n.ID) {
			continue
		}
		other := e.Target
		outgoing := true
		if other == n.ID {
			other = e.Source
			outgoing = false
		}
		connectedIDs[other] = struct{}{}
		connected = append(connected, interaction.ConnectedEntry{
			NodeID:   other,
			Label:    c.scene.NodeLabelOf(other),
			EdgeID:   e.ID,
			Outgoing: outgoing,
		})
	}

	unconnected := make([]interaction.UnconnectedEntry, 0)
	for _, other := range c.scene.LiveNodes() {
		if other.ID == n.ID {
			continue
		}
		if _, ok := connectedIDs[other.ID]; ok {
			continue
		}
		unconnected = append(unconnected, interaction.UnconnectedEntry{
			NodeID: other.ID,
			Label:  c.scene.NodeLabelOf(other.ID),
		})
	}

	c.state.OpenMenu(interaction.ContextMenu{
		ScreenX:      sx,
		ScreenY:      sy,
		SourceNodeID: n.ID,
		Connected:    connected,
		Unconnected:  unconnected,
	})
	c.kind = stateMenuOpen
}

// MenuSelectUnconnected asks the host to create an edge from the menu's
// source node to the chosen unconnected entry. Stale targets make the
// action a no-op; the menu closes either way.
func (c *Controller) MenuSelectUnconnected(i int) {
	if c.kind != stateMenuOpen {
		return
	}
	m := c.state.Menu()
	c.closeMenu()

	if i < 0 || i >= len(m.Unconnected) {
		return
	}
	target := m.Unconnected[i].NodeID
	if !c.scene.HasNode(m.SourceNodeID) || !c.scene.HasNode(target) {
		c.logger.Debug("ignoring edge creation to stale node", "source", m.SourceNodeID, "target", target)
		return
	}
	c.sink.OnCreateEdgeRequested(m.SourceNodeID, target)
}

// MenuSelectConnected asks the host to delete the edge on the chosen
// connected entry. Stale edges make the action a no-op; the menu closes
// either way.
func (c *Controller) MenuSelectConnected(i int) {
	if c.kind != stateMenuOpen {
		return
	}
	m := c.state.Menu()
	c.closeMenu()

	if i < 0 || i >= len(m.Connected) {
		return
	}
	edgeID := m.Connected[i].EdgeID
	if !c.scene.HasEdge(edgeID) {
		c.logger.Debug("ignoring unlink of stale edge", "edge", edgeID)
		return
	}
	c.sink.OnDeleteEdgeRequested(edgeID)
}

// MenuDismiss closes the menu without any side effect, as an outside
// click does.
func (c *Controller) MenuDismiss() {
	if c.kind == stateMenuOpen {
		c.closeMenu()
	}
}

// Escape closes an open menu, or clears the selection when no menu is
// open.
func (c *Controller) Escape() {
	if c.kind == stateMenuOpen {
		c.closeMenu()
		return
	}
	c.state.ClearSelection()
}

// Step fires the deferred center-on-node once its delay has elapsed. A
// node that vanished in the meantime is skipped.
func (c *Controller) Step(now time.Time) {
	if c.pendingFocusID == "" || now.Before(c.pendingFocusAt) {
		return
	}
	id := c.pendingFocusID
	c.pendingFocusID = ""
	if c.scene.HasNode(id) {
		c.nav.CenterOnNode(id)
	}
}

func (c *Controller) closeMenu() {
	c.state.CloseMenu()
	c.kind = stateIdle
}

func (c *Controller) hitNode(sx, sy float64) *graph.Node {
	wx, wy := c.view.ScreenToWorld(sx, sy)
	nodes := c.scene.LiveNodes()
	// Topmost first: the draw order is bottom-up.
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		dx, dy := n.X-wx, n.Y-wy
		if dx*dx+dy*dy <= c.cfg.NodeHitRadius*c.cfg.NodeHitRadius {
			return n
		}
	}
	return nil
}

func (c *Controller) hitEdge(sx, sy float64) (graph.Edge, bool) {
	wx, wy := c.view.ScreenToWorld(sx, sy)

	best := graph.Edge{}
	bestDist := math.Inf(1)
	for _, e := range c.scene.LiveEdges() {
		src, okS := c.scene.NodeByID(e.Source)
		dst, okT := c.scene.NodeByID(e.Target)
		if !okS || !okT {
			continue
		}
		d := pointSegmentDistance(wx, wy, src.X, src.Y, dst.X, dst.Y)
		if d <= c.cfg.EdgeHitTolerance && d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

func pointSegmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-x1, py-y1)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}
